package reporting

import (
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vfg2006/income-report-api/infrastructure/repository"
	"github.com/vfg2006/income-report-api/internal/config"
	"github.com/vfg2006/income-report-api/internal/domain"
	"github.com/vfg2006/income-report-api/internal/observability/metrics"
	"github.com/vfg2006/income-report-api/internal/observability/tracing"
	"github.com/vfg2006/income-report-api/pkg/log"
	"github.com/vfg2006/income-report-api/pkg/utils"
)

// Nomes das consultas, usados no DataStatus, nos logs e nas métricas
const (
	QueryBranchTotals  = "branch_totals"
	QueryPreviousTotal = "previous_total"
	QueryMonthlyTotals = "monthly_totals"
	QuerySummary       = "summary"
	QueryTransactions  = "transactions"
)

var channelColors = map[domain.RevenueSource]string{
	domain.SourceIncome365: "#3b82f6",
	domain.SourceIncomeDMS: "#22c55e",
}

var hundred = decimal.NewFromInt(100)

type Service struct {
	repo             repository.RevenueRepository
	transactionLimit int
	queryTimeout     time.Duration
}

func NewService(cfg *config.Config, repo repository.RevenueRepository) *Service {
	limit := cfg.Report.TransactionLimit
	if limit <= 0 || limit > config.MaxTransactionLimit {
		limit = config.MaxTransactionLimit
	}

	return &Service{
		repo:             repo,
		transactionLimit: limit,
		queryTimeout:     cfg.Report.QueryTimeout,
	}
}

func (s *Service) GetConsolidated(ctx context.Context, period domain.Period) (*domain.ConsolidatedReport, error) {
	if period.Start.After(period.End) {
		return nil, domain.ErrInvalidPeriod
	}

	started := time.Now()
	ctx, span := tracing.Tracer().Start(ctx, "reporting.GetConsolidated")
	defer span.End()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	report := &domain.ConsolidatedReport{
		Period:         period,
		PreviousPeriod: period.PreviousMonth(),
		DataStatus:     domain.NewDataStatus(),
	}

	var (
		current  = map[domain.RevenueSource][]domain.RevenueRecord{}
		previous = map[domain.RevenueSource]decimal.Decimal{}
		trend    []domain.TrendPoint
	)

	s.withQuerier(ctx, func(q repository.RevenueQuerier) {
		for _, source := range []domain.RevenueSource{domain.SourceIncome365, domain.SourceIncomeDMS} {
			records, err := q.BranchTotals(ctx, source, period)
			if err != nil {
				s.degrade(ctx, &report.DataStatus, source, QueryBranchTotals, err)
				records = branchTotalsFallback[source]
			}
			current[source] = records
		}

		for _, source := range []domain.RevenueSource{domain.SourceIncome365, domain.SourceIncomeDMS} {
			total, err := q.SourceTotal(ctx, source, report.PreviousPeriod)
			if err != nil {
				s.degrade(ctx, &report.DataStatus, source, QueryPreviousTotal, err)
				total = previousFallback[source]
			}
			previous[source] = total
		}

		trend = s.monthlyTrend(ctx, q, period, &report.DataStatus)
	})

	report.Rows = MergeBranches(current[domain.SourceIncome365], current[domain.SourceIncomeDMS])

	total365, totalDMS := decimal.Zero, decimal.Zero
	for _, row := range report.Rows {
		total365 = total365.Add(row.Rev365)
		totalDMS = totalDMS.Add(row.RevDMS)
	}
	grandTotal := total365.Add(totalDMS)

	report.Summary = domain.ConsolidatedSummary{
		Total:            grandTotal,
		Total365:         total365,
		TotalDMS:         totalDMS,
		PreviousTotal365: previous[domain.SourceIncome365],
		PreviousTotalDMS: previous[domain.SourceIncomeDMS],
		Growth:           Growth(total365, previous[domain.SourceIncome365]),
		BestChannel:      BestChannel(total365, totalDMS),
	}

	report.ByChannel = []domain.ChannelShare{
		{Name: domain.SourceIncome365.Label(), Value: total365, Fill: channelColors[domain.SourceIncome365]},
		{Name: domain.SourceIncomeDMS.Label(), Value: totalDMS, Fill: channelColors[domain.SourceIncomeDMS]},
	}

	report.Trend = trend
	if report.Trend == nil {
		report.Trend = placeholderTrend(grandTotal)
	}

	s.finish(ctx, span, ReportConsolidated, report.DataStatus, started)
	return report, nil
}

func (s *Service) GetSourceReport(ctx context.Context, source domain.RevenueSource, period domain.Period, scope domain.ReportScope) (domain.SourceReport, error) {
	if _, err := domain.ParseRevenueSource(string(source)); err != nil {
		return nil, err
	}
	if scope == "" {
		scope = domain.ScopeSummary
	}
	if scope != domain.ScopeSummary && scope != domain.ScopeTransactions {
		return nil, errors.Errorf("scope inválido: %q", scope)
	}
	if period.Start.After(period.End) {
		return nil, domain.ErrInvalidPeriod
	}

	started := time.Now()
	ctx, span := tracing.Tracer().Start(ctx, "reporting.GetSourceReport")
	defer span.End()
	span.SetAttributes(
		attribute.String("report.source", string(source)),
		attribute.String("report.scope", string(scope)),
	)

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	status := domain.NewDataStatus()

	var report domain.SourceReport
	s.withQuerier(ctx, func(q repository.RevenueQuerier) {
		if scope == domain.ScopeTransactions {
			report = s.transactions(ctx, q, source, period, &status)
			return
		}
		report = s.summary(ctx, q, source, period, &status)
	})

	switch r := report.(type) {
	case *domain.SourceSummaryReport:
		r.DataStatus = status
	case *domain.SourceTransactionsReport:
		r.DataStatus = status
	}

	s.finish(ctx, span, string(source), status, started)
	return report, nil
}

func (s *Service) summary(ctx context.Context, q repository.RevenueQuerier, source domain.RevenueSource, period domain.Period, status *domain.DataStatus) *domain.SourceSummaryReport {
	rows, err := q.BranchSummary(ctx, source, period)
	if err != nil {
		s.degrade(ctx, status, source, QuerySummary, err)
		rows = summaryFallback(source)
	}

	rows, totals := SummarizeRows(rows)

	return &domain.SourceSummaryReport{
		Source:    source,
		ScopeName: domain.ScopeSummary,
		Period:    period,
		Rows:      rows,
		Summary:   totals,
	}
}

func (s *Service) transactions(ctx context.Context, q repository.RevenueQuerier, source domain.RevenueSource, period domain.Period, status *domain.DataStatus) *domain.SourceTransactionsReport {
	transactions, err := q.Transactions(ctx, source, period, s.transactionLimit)
	if err != nil {
		s.degrade(ctx, status, source, QueryTransactions, err)
		transactions = transactionsFallback(source)
	}

	if len(transactions) > s.transactionLimit {
		transactions = transactions[:s.transactionLimit]
	}

	return &domain.SourceTransactionsReport{
		Source:       source,
		ScopeName:    domain.ScopeTransactions,
		Period:       period,
		Transactions: transactions,
	}
}

// monthlyTrend devolve nil quando alguma das fontes falha, para o chamador
// usar a série proporcional
func (s *Service) monthlyTrend(ctx context.Context, q repository.RevenueQuerier, period domain.Period, status *domain.DataStatus) []domain.TrendPoint {
	byMonth := map[int64]*domain.TrendPoint{}
	failed := false

	for _, source := range []domain.RevenueSource{domain.SourceIncome365, domain.SourceIncomeDMS} {
		months, err := q.MonthlyTotals(ctx, source, period)
		if err != nil {
			s.degrade(ctx, status, source, QueryMonthlyTotals, err)
			failed = true
			continue
		}

		for _, m := range months {
			month := time.Date(m.Month.Year(), m.Month.Month(), 1, 0, 0, 0, 0, time.UTC)
			point, ok := byMonth[month.Unix()]
			if !ok {
				point = &domain.TrendPoint{Name: month.Format("Jan 2006"), Month: &month, Total: decimal.Zero}
				byMonth[month.Unix()] = point
			}
			point.Total = point.Total.Add(m.Amount)
		}
	}

	if failed {
		return nil
	}

	trend := make([]domain.TrendPoint, 0, len(byMonth))
	for _, point := range byMonth {
		trend = append(trend, *point)
	}
	sort.Slice(trend, func(i, j int) bool {
		return trend[i].Month.Before(*trend[j].Month)
	})

	return trend
}

// withQuerier executa fn numa única conexão do pool. Sem conexão, fn roda
// contra um querier que sempre falha e cada consulta cai na contingência.
func (s *Service) withQuerier(ctx context.Context, fn func(q repository.RevenueQuerier)) {
	ran := false
	err := s.repo.WithConn(ctx, func(q repository.RevenueQuerier) error {
		ran = true
		fn(q)
		return nil
	})
	if err == nil || ran {
		return
	}

	log.ForContext(ctx).WithError(err).Warn("Não foi possível obter conexão com o banco, usando dados de contingência")
	fn(unavailableQuerier{err: &connUnavailableError{cause: err}})
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.queryTimeout)
}

func (s *Service) degrade(ctx context.Context, status *domain.DataStatus, source domain.RevenueSource, query string, err error) {
	log.ForContext(ctx).WithError(err).WithFields(log.Fields{
		"source": string(source),
		"query":  query,
	}).Warn("Consulta de receita falhou, usando dados de contingência")

	metrics.ObserveFallback(string(source), query)
	status.Degrade(source, query, reasonFor(err))
}

func (s *Service) finish(ctx context.Context, span trace.Span, report string, status domain.DataStatus, started time.Time) {
	span.SetAttributes(
		attribute.String("report.name", report),
		attribute.String("report.status", string(status.Status)),
	)
	metrics.ObserveReport(report, string(status.Status), time.Since(started))

	if status.IsDegraded() {
		log.ForContext(ctx).WithFields(log.Fields{
			"report": report,
		}).Warnf("Relatório montado com %d consulta(s) em contingência", len(status.Degradations))
	}
}

// MergeBranches junta as somas das duas fontes por nome de filial. Filial
// ausente em uma fonte fica com zero nela. Ordena por total desc e nome.
func MergeBranches(rev365, revDMS []domain.RevenueRecord) []domain.BranchRevenue {
	byName := map[string]*domain.BranchRevenue{}
	row := func(name string) *domain.BranchRevenue {
		r, ok := byName[name]
		if !ok {
			r = &domain.BranchRevenue{Name: name, Rev365: decimal.Zero, RevDMS: decimal.Zero}
			byName[name] = r
		}
		return r
	}

	for _, record := range rev365 {
		r := row(record.Branch)
		r.Rev365 = r.Rev365.Add(record.Amount)
	}
	for _, record := range revDMS {
		r := row(record.Branch)
		r.RevDMS = r.RevDMS.Add(record.Amount)
	}

	rows := make([]domain.BranchRevenue, 0, len(byName))
	for _, r := range byName {
		r.Total = r.Rev365.Add(r.RevDMS)
		rows = append(rows, *r)
	}

	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Total.Equal(rows[j].Total) {
			return rows[i].Total.GreaterThan(rows[j].Total)
		}
		return rows[i].Name < rows[j].Name
	})

	return rows
}

// Growth é a variação percentual com duas casas. Sem base anterior, qualquer
// receita atual conta como 100%.
func Growth(current, previous decimal.Decimal) float64 {
	if previous.IsPositive() {
		growth, _ := current.Sub(previous).Div(previous).Mul(hundred).Round(2).Float64()
		return growth
	}
	if current.IsPositive() {
		return 100
	}
	return 0
}

func BestChannel(total365, totalDMS decimal.Decimal) string {
	if total365.GreaterThan(totalDMS) {
		return domain.SourceIncome365.Label()
	}
	return domain.SourceIncomeDMS.Label()
}

// SummarizeRows preenche percentual e média de cada linha e calcula os totais
func SummarizeRows(rows []domain.SummaryRow) ([]domain.SummaryRow, domain.SummaryTotals) {
	totals := domain.SummaryTotals{TotalRevenue: decimal.Zero, AvgRevenueOverall: decimal.Zero}
	for _, row := range rows {
		totals.TotalRevenue = totals.TotalRevenue.Add(row.TotalRevenue)
		totals.TotalCount += row.Count
	}

	result := make([]domain.SummaryRow, 0, len(rows))
	for _, row := range rows {
		row.PercentTotal = 0
		if totals.TotalRevenue.IsPositive() {
			percent, _ := row.TotalRevenue.Div(totals.TotalRevenue).Mul(hundred).Float64()
			row.PercentTotal = utils.RoundWithTwoDecimalPlace(percent)
		}
		row.AvgRevenue = average(row.TotalRevenue, row.Count)
		result = append(result, row)
	}

	totals.AvgRevenueOverall = average(totals.TotalRevenue, totals.TotalCount)
	return result, totals
}

func average(total decimal.Decimal, count int64) decimal.Decimal {
	if count <= 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(count)).Round(2)
}
