package reporting

import (
	"context"

	"github.com/vfg2006/income-report-api/internal/domain"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/reporter_mock.go -package=mocks

// Nomes de relatório aceitos em /api/reports/:name
const (
	ReportConsolidated = "gi-income"
	Report365          = string(domain.SourceIncome365)
	ReportDMS          = string(domain.SourceIncomeDMS)
)

// Reporter monta os relatórios de receita. Falhas de banco nunca sobem como
// erro: a consulta que falhou é trocada pelos dados de contingência e marcada
// no DataStatus.
type Reporter interface {
	// GetConsolidated soma as duas fontes por filial e compara com o mês anterior
	GetConsolidated(ctx context.Context, period domain.Period) (*domain.ConsolidatedReport, error)

	// GetSourceReport devolve o resumo por filial ou a lista de transações de uma fonte
	GetSourceReport(ctx context.Context, source domain.RevenueSource, period domain.Period, scope domain.ReportScope) (domain.SourceReport, error)
}
