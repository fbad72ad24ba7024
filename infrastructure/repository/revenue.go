package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vfg2006/income-report-api/infrastructure/database/postgres"
	"github.com/vfg2006/income-report-api/internal/domain"
)

//go:generate mockgen -source=revenue.go -destination=mocks/revenue_mock.go -package=mocks

const branchesJoin = "master_branches b ON v.branch_code = b.code"

// UnassignedBranch agrupa as linhas sem filial e sem cadastro em master_branches
const UnassignedBranch = "Sem filial"

const branchName = "COALESCE(b.name, v.branch_code, '" + UnassignedBranch + "')"

// branchLabel protege a leitura caso o nome da filial ainda chegue nulo
func branchLabel(name sql.NullString) string {
	if !name.Valid || name.String == "" {
		return UnassignedBranch
	}
	return name.String
}

// revenueView descreve onde cada fonte guarda data e valor
type revenueView struct {
	table        string
	dateColumn   string
	amountColumn string
}

var revenueViews = map[domain.RevenueSource]revenueView{
	domain.SourceIncome365: {
		table:        "view_rp_gi_income_365",
		dateColumn:   "invoicedate",
		amountColumn: "invoiceamount",
	},
	domain.SourceIncomeDMS: {
		table:        "view_rp_gi_income_dms",
		dateColumn:   "billingtime",
		amountColumn: "final_amountexcludingtax",
	},
}

func viewFor(source domain.RevenueSource) (revenueView, error) {
	view, ok := revenueViews[source]
	if !ok {
		return revenueView{}, fmt.Errorf("fonte de receita desconhecida: %q", source)
	}
	return view, nil
}

func (v revenueView) from() string {
	return v.table + " v"
}

func (v revenueView) date() string {
	return "v." + v.dateColumn
}

func (v revenueView) sum() string {
	return fmt.Sprintf("COALESCE(SUM(v.%s), 0)", v.amountColumn)
}

func (v revenueView) within(period domain.Period) squirrel.And {
	return squirrel.And{
		squirrel.GtOrEq{v.date(): period.Start},
		squirrel.LtOrEq{v.date(): period.End},
	}
}

// RevenueQuerier executa as consultas de receita sobre uma única conexão
type RevenueQuerier interface {
	BranchTotals(ctx context.Context, source domain.RevenueSource, period domain.Period) ([]domain.RevenueRecord, error)
	SourceTotal(ctx context.Context, source domain.RevenueSource, period domain.Period) (decimal.Decimal, error)
	MonthlyTotals(ctx context.Context, source domain.RevenueSource, period domain.Period) ([]domain.MonthlyRevenue, error)
	BranchSummary(ctx context.Context, source domain.RevenueSource, period domain.Period) ([]domain.SummaryRow, error)
	Transactions(ctx context.Context, source domain.RevenueSource, period domain.Period, limit int) ([]domain.Transaction, error)
	Ping(ctx context.Context, source domain.RevenueSource) error
}

// RevenueRepository empresta uma conexão do pool para uma operação inteira
type RevenueRepository interface {
	WithConn(ctx context.Context, fn func(RevenueQuerier) error) error
}

type revenueRepository struct {
	conn *postgres.Connection
}

func NewRevenueRepository(conn *postgres.Connection) RevenueRepository {
	return &revenueRepository{
		conn: conn,
	}
}

func (r *revenueRepository) WithConn(ctx context.Context, fn func(RevenueQuerier) error) error {
	return r.conn.WithConn(ctx, func(conn *sql.Conn) error {
		return fn(NewRevenueQuerier(conn))
	})
}

type revenueQuerier struct {
	q postgres.Queryer
}

func NewRevenueQuerier(q postgres.Queryer) RevenueQuerier {
	return &revenueQuerier{q: q}
}

func (r *revenueQuerier) BranchTotals(ctx context.Context, source domain.RevenueSource, period domain.Period) ([]domain.RevenueRecord, error) {
	view, err := viewFor(source)
	if err != nil {
		return nil, err
	}

	revenueSQL, revenueArgs, err := squirrel.
		Select(branchName+" AS branch_name", "COUNT(*) AS row_count", view.sum()+" AS total_revenue").
		From(view.from()).
		LeftJoin(branchesJoin).
		Where(view.within(period)).
		GroupBy("b.name", "v.branch_code").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.q.QueryContext(ctx, revenueSQL, revenueArgs...)
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao somar receita por filial (%s)", source)
	}
	defer rows.Close()

	records := make([]domain.RevenueRecord, 0)
	for rows.Next() {
		var record domain.RevenueRecord
		var name sql.NullString
		if err := rows.Scan(&name, &record.Count, &record.Amount); err != nil {
			return nil, err
		}
		record.Branch = branchLabel(name)
		records = append(records, record)
	}

	return records, rows.Err()
}

func (r *revenueQuerier) SourceTotal(ctx context.Context, source domain.RevenueSource, period domain.Period) (decimal.Decimal, error) {
	view, err := viewFor(source)
	if err != nil {
		return decimal.Zero, err
	}

	totalSQL, totalArgs, err := squirrel.
		Select(view.sum()).
		From(view.from()).
		Where(view.within(period)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return decimal.Zero, err
	}

	var total decimal.Decimal
	if err := r.q.QueryRowContext(ctx, totalSQL, totalArgs...).Scan(&total); err != nil {
		return decimal.Zero, errors.Wrapf(err, "erro ao somar receita total (%s)", source)
	}

	return total, nil
}

func (r *revenueQuerier) MonthlyTotals(ctx context.Context, source domain.RevenueSource, period domain.Period) ([]domain.MonthlyRevenue, error) {
	view, err := viewFor(source)
	if err != nil {
		return nil, err
	}

	monthlySQL, monthlyArgs, err := squirrel.
		Select(fmt.Sprintf("date_trunc('month', %s) AS month", view.date()), view.sum()+" AS total_revenue").
		From(view.from()).
		Where(view.within(period)).
		GroupBy("month").
		OrderBy("month").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.q.QueryContext(ctx, monthlySQL, monthlyArgs...)
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao somar receita mensal (%s)", source)
	}
	defer rows.Close()

	months := make([]domain.MonthlyRevenue, 0)
	for rows.Next() {
		var month domain.MonthlyRevenue
		if err := rows.Scan(&month.Month, &month.Amount); err != nil {
			return nil, err
		}
		months = append(months, month)
	}

	return months, rows.Err()
}

// BranchSummary agrupa por filial; no DMS também por tipo de ordem de serviço
func (r *revenueQuerier) BranchSummary(ctx context.Context, source domain.RevenueSource, period domain.Period) ([]domain.SummaryRow, error) {
	view, err := viewFor(source)
	if err != nil {
		return nil, err
	}

	withOrderType := source == domain.SourceIncomeDMS

	columns := []string{"v.branch_code", branchName + " AS branch_name"}
	groupBy := []string{"b.name", "v.branch_code"}
	orderBy := []string{"total_revenue DESC", "branch_name"}
	if withOrderType {
		columns = append(columns, "v.ordertype_name")
		groupBy = append(groupBy, "v.ordertype_name")
		orderBy = []string{"branch_name", "v.ordertype_name"}
	}
	columns = append(columns, "COUNT(*) AS row_count", view.sum()+" AS total_revenue")

	summarySQL, summaryArgs, err := squirrel.
		Select(columns...).
		From(view.from()).
		LeftJoin(branchesJoin).
		Where(view.within(period)).
		GroupBy(groupBy...).
		OrderBy(orderBy...).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.q.QueryContext(ctx, summarySQL, summaryArgs...)
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao resumir receita por filial (%s)", source)
	}
	defer rows.Close()

	summary := make([]domain.SummaryRow, 0)
	for rows.Next() {
		var row domain.SummaryRow
		var name sql.NullString
		dest := []any{&row.BranchCode, &name}
		if withOrderType {
			dest = append(dest, &row.OrderType)
		}
		dest = append(dest, &row.Count, &row.TotalRevenue)

		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		row.BranchName = branchLabel(name)
		summary = append(summary, row)
	}

	return summary, rows.Err()
}

func (r *revenueQuerier) Transactions(ctx context.Context, source domain.RevenueSource, period domain.Period, limit int) ([]domain.Transaction, error) {
	view, err := viewFor(source)
	if err != nil {
		return nil, err
	}

	columns, scan := income365Columns, scanIncome365
	if source == domain.SourceIncomeDMS {
		columns, scan = incomeDMSColumns, scanIncomeDMS
	}

	transactionsSQL, transactionsArgs, err := squirrel.
		Select(columns...).
		From(view.from()).
		LeftJoin(branchesJoin).
		Where(view.within(period)).
		OrderBy(view.date() + " DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.q.QueryContext(ctx, transactionsSQL, transactionsArgs...)
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao listar transações (%s)", source)
	}
	defer rows.Close()

	transactions := make([]domain.Transaction, 0)
	for rows.Next() {
		transaction, err := scan(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, transaction)
	}

	return transactions, rows.Err()
}

// Ping confirma que a view existe e responde. View vazia também conta como disponível.
func (r *revenueQuerier) Ping(ctx context.Context, source domain.RevenueSource) error {
	view, err := viewFor(source)
	if err != nil {
		return err
	}

	pingSQL, pingArgs, err := squirrel.
		Select("1").
		From(view.table).
		Limit(1).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	var one int
	err = r.q.QueryRowContext(ctx, pingSQL, pingArgs...).Scan(&one)
	if err != nil && err != sql.ErrNoRows {
		return errors.Wrapf(err, "view %s indisponível", view.table)
	}

	return nil
}

var income365Columns = []string{
	"v.dataareaid",
	"v.invoiceid",
	"v.invoiceaccount",
	"v.salesid",
	"v.invoicedate",
	"v.ledgervoucher",
	"v.currencycode",
	"COALESCE(v.invoiceamount, 0)",
	"v.branch_code",
	"v.customerreference",
	branchName + " AS branch_name",
}

func scanIncome365(row rowScanner) (domain.Transaction, error) {
	var t domain.Income365Transaction
	var name sql.NullString
	err := row.Scan(
		&t.DataAreaID,
		&t.InvoiceID,
		&t.InvoiceAccount,
		&t.SalesID,
		&t.InvoiceDate,
		&t.LedgerVoucher,
		&t.CurrencyCode,
		&t.InvoiceAmount,
		&t.BranchCode,
		&t.CustomerReference,
		&name,
	)
	t.BranchName = branchLabel(name)
	return t, err
}

var incomeDMSColumns = []string{
	"v.branch_code",
	branchName + " AS branch_name",
	"v.ordernumber",
	"v.billingtime",
	"v.carownername",
	"v.ordertype_name",
	"v.repairtype_name",
	"v.workorderstatus_name",
	"v.licensenumber",
	"v.brand",
	"v.vehicleserialname",
	"v.vehiclemodelname",
	"v.vin",
	"v.serviceadvisor",
	"v.totalamountexcludingtax",
	"v.totalamountincludingtax",
	"v.taxamount",
	"v.submissiontime",
	"v.inplantmileage",
	"v.repairer",
	"v.repairerphone",
	"v.enginenumber",
	"v.manhourcost",
	"v.customerdescription",
}

func scanIncomeDMS(row rowScanner) (domain.Transaction, error) {
	var t domain.IncomeDMSTransaction
	var name sql.NullString
	err := row.Scan(
		&t.BranchCode,
		&name,
		&t.OrderNumber,
		&t.BillingTime,
		&t.CarOwnerName,
		&t.OrderTypeName,
		&t.RepairTypeName,
		&t.WorkOrderStatusName,
		&t.LicenseNumber,
		&t.Brand,
		&t.VehicleSerialName,
		&t.VehicleModelName,
		&t.VIN,
		&t.ServiceAdvisor,
		&t.TotalAmountExcludingTax,
		&t.TotalAmountIncludingTax,
		&t.TaxAmount,
		&t.SubmissionTime,
		&t.InPlantMileage,
		&t.Repairer,
		&t.RepairerPhone,
		&t.EngineNumber,
		&t.ManHourCost,
		&t.CustomerDescription,
	)
	t.BranchName = branchLabel(name)
	return t, err
}
