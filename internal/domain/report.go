package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Valores monetários saem como número no JSON, como o painel espera
	decimal.MarshalJSONWithoutQuotes = true
}

// RevenueSource identifica uma das duas views de receita
type RevenueSource string

const (
	SourceIncome365 RevenueSource = "income-365"
	SourceIncomeDMS RevenueSource = "income-dms"
)

func ParseRevenueSource(s string) (RevenueSource, error) {
	switch RevenueSource(s) {
	case SourceIncome365, SourceIncomeDMS:
		return RevenueSource(s), nil
	default:
		return "", fmt.Errorf("fonte de receita desconhecida: %q", s)
	}
}

// Label é o nome do canal exibido no painel
func (s RevenueSource) Label() string {
	switch s {
	case SourceIncome365:
		return "Income 365"
	case SourceIncomeDMS:
		return "Income DMS"
	default:
		return string(s)
	}
}

type ReportScope string

const (
	ScopeSummary      ReportScope = "summary"
	ScopeTransactions ReportScope = "transactions"
)

// ParseReportScope aceita vazio como summary
func ParseReportScope(s string) (ReportScope, error) {
	switch ReportScope(s) {
	case "", ScopeSummary:
		return ScopeSummary, nil
	case ScopeTransactions:
		return ScopeTransactions, nil
	default:
		return "", fmt.Errorf("scope inválido: %q (use summary ou transactions)", s)
	}
}

// RevenueRecord é a soma de uma fonte para uma filial dentro do período
type RevenueRecord struct {
	Branch string
	Amount decimal.Decimal
	Count  int64
}

// MonthlyRevenue é a soma de uma fonte em um mês de calendário
type MonthlyRevenue struct {
	Month  time.Time
	Amount decimal.Decimal
}

// BranchRevenue é a linha consolidada de uma filial
type BranchRevenue struct {
	Name   string          `json:"name"`
	Rev365 decimal.Decimal `json:"rev365"`
	RevDMS decimal.Decimal `json:"revDMS"`
	Total  decimal.Decimal `json:"total"`
}

type ConsolidatedSummary struct {
	Total            decimal.Decimal `json:"total"`
	Total365         decimal.Decimal `json:"total365"`
	TotalDMS         decimal.Decimal `json:"totalDMS"`
	PreviousTotal365 decimal.Decimal `json:"previousTotal365"`
	PreviousTotalDMS decimal.Decimal `json:"previousTotalDMS"`
	// Growth compara apenas o Income 365 com o mês anterior
	Growth      float64 `json:"growth"`
	BestChannel string  `json:"bestChannel"`
}

type ChannelShare struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
	Fill  string          `json:"fill"`
}

type TrendPoint struct {
	Name  string          `json:"name"`
	Month *time.Time      `json:"month,omitempty"`
	Total decimal.Decimal `json:"total"`
}

type ConsolidatedReport struct {
	Period         Period              `json:"period"`
	PreviousPeriod Period              `json:"previousPeriod"`
	Rows           []BranchRevenue     `json:"raw"`
	Summary        ConsolidatedSummary `json:"summary"`
	ByChannel      []ChannelShare      `json:"byChannel"`
	Trend          []TrendPoint        `json:"trend"`
	DataStatus     DataStatus          `json:"dataStatus"`
}

// DataQuality indica se o resultado veio inteiro do banco ou usou dados de contingência
type DataQuality string

const (
	DataOK       DataQuality = "ok"
	DataDegraded DataQuality = "degraded"
)

type Degradation struct {
	Source RevenueSource `json:"source"`
	Query  string        `json:"query"`
	Reason string        `json:"reason"`
}

type DataStatus struct {
	Status       DataQuality   `json:"status"`
	Degradations []Degradation `json:"degradations,omitempty"`
}

func NewDataStatus() DataStatus {
	return DataStatus{Status: DataOK}
}

func (d *DataStatus) Degrade(source RevenueSource, query, reason string) {
	d.Status = DataDegraded
	d.Degradations = append(d.Degradations, Degradation{Source: source, Query: query, Reason: reason})
}

func (d DataStatus) IsDegraded() bool {
	return d.Status == DataDegraded
}

// SourceReport é a resposta de /reports/{fonte}: ou SourceSummaryReport ou
// SourceTransactionsReport, nunca os dois
type SourceReport interface {
	Scope() ReportScope
	Quality() DataStatus
	sourceReport()
}

type SummaryRow struct {
	BranchCode   *string         `json:"branch_code,omitempty"`
	BranchName   string          `json:"branch_name"`
	OrderType    *string         `json:"ordertype_name,omitempty"`
	Count        int64           `json:"count"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	PercentTotal float64         `json:"percent_total"`
	AvgRevenue   decimal.Decimal `json:"avg_revenue"`
}

type SummaryTotals struct {
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	TotalCount        int64           `json:"total_count"`
	AvgRevenueOverall decimal.Decimal `json:"avg_revenue_overall"`
}

type SourceSummaryReport struct {
	Source     RevenueSource `json:"source"`
	ScopeName  ReportScope   `json:"scope"`
	Period     Period        `json:"period"`
	Rows       []SummaryRow  `json:"data"`
	Summary    SummaryTotals `json:"summary"`
	DataStatus DataStatus    `json:"dataStatus"`
}

func (r *SourceSummaryReport) Scope() ReportScope  { return ScopeSummary }
func (r *SourceSummaryReport) Quality() DataStatus { return r.DataStatus }
func (r *SourceSummaryReport) sourceReport()       {}

type SourceTransactionsReport struct {
	Source       RevenueSource `json:"source"`
	ScopeName    ReportScope   `json:"scope"`
	Period       Period        `json:"period"`
	Transactions []Transaction `json:"transactions"`
	DataStatus   DataStatus    `json:"dataStatus"`
}

func (r *SourceTransactionsReport) Scope() ReportScope  { return ScopeTransactions }
func (r *SourceTransactionsReport) Quality() DataStatus { return r.DataStatus }
func (r *SourceTransactionsReport) sourceReport()       {}

// Transaction é uma linha bruta de uma das views
type Transaction interface {
	OccurredAt() time.Time
}

type Income365Transaction struct {
	DataAreaID        *string         `json:"dataareaid"`
	InvoiceID         *string         `json:"invoiceid"`
	InvoiceAccount    *string         `json:"invoiceaccount"`
	SalesID           *string         `json:"salesid"`
	InvoiceDate       time.Time       `json:"invoicedate"`
	LedgerVoucher     *string         `json:"ledgervoucher"`
	CurrencyCode      *string         `json:"currencycode"`
	InvoiceAmount     decimal.Decimal `json:"invoiceamount"`
	BranchCode        *string         `json:"branch_code"`
	CustomerReference *string         `json:"customerreference"`
	BranchName        string          `json:"branch_name"`
}

func (t Income365Transaction) OccurredAt() time.Time { return t.InvoiceDate }

type IncomeDMSTransaction struct {
	BranchCode              *string             `json:"branch_code"`
	BranchName              string              `json:"branch_name"`
	OrderNumber             *string             `json:"ordernumber"`
	BillingTime             time.Time           `json:"billingtime"`
	CarOwnerName            *string             `json:"carownername"`
	OrderTypeName           *string             `json:"ordertype_name"`
	RepairTypeName          *string             `json:"repairtype_name"`
	WorkOrderStatusName     *string             `json:"workorderstatus_name"`
	LicenseNumber           *string             `json:"licensenumber"`
	Brand                   *string             `json:"brand"`
	VehicleSerialName       *string             `json:"vehicleserialname"`
	VehicleModelName        *string             `json:"vehiclemodelname"`
	VIN                     *string             `json:"vin"`
	ServiceAdvisor          *string             `json:"serviceadvisor"`
	TotalAmountExcludingTax decimal.NullDecimal `json:"totalamountexcludingtax"`
	TotalAmountIncludingTax decimal.NullDecimal `json:"totalamountincludingtax"`
	TaxAmount               decimal.NullDecimal `json:"taxamount"`
	SubmissionTime          *time.Time          `json:"submissiontime"`
	InPlantMileage          decimal.NullDecimal `json:"inplantmileage"`
	Repairer                *string             `json:"repairer"`
	RepairerPhone           *string             `json:"repairerphone"`
	EngineNumber            *string             `json:"enginenumber"`
	ManHourCost             decimal.NullDecimal `json:"manhourcost"`
	CustomerDescription     *string             `json:"customerdescription"`
}

func (t IncomeDMSTransaction) OccurredAt() time.Time { return t.BillingTime }
