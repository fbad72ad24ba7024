package reporting

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/vfg2006/income-report-api/internal/domain"
)

type connUnavailableError struct {
	cause error
}

func (e *connUnavailableError) Error() string {
	return "conexão com o banco indisponível: " + e.cause.Error()
}

func (e *connUnavailableError) Unwrap() error {
	return e.cause
}

// unavailableQuerier responde toda consulta com o erro de conexão
type unavailableQuerier struct {
	err error
}

func (u unavailableQuerier) BranchTotals(context.Context, domain.RevenueSource, domain.Period) ([]domain.RevenueRecord, error) {
	return nil, u.err
}

func (u unavailableQuerier) SourceTotal(context.Context, domain.RevenueSource, domain.Period) (decimal.Decimal, error) {
	return decimal.Zero, u.err
}

func (u unavailableQuerier) MonthlyTotals(context.Context, domain.RevenueSource, domain.Period) ([]domain.MonthlyRevenue, error) {
	return nil, u.err
}

func (u unavailableQuerier) BranchSummary(context.Context, domain.RevenueSource, domain.Period) ([]domain.SummaryRow, error) {
	return nil, u.err
}

func (u unavailableQuerier) Transactions(context.Context, domain.RevenueSource, domain.Period, int) ([]domain.Transaction, error) {
	return nil, u.err
}

func (u unavailableQuerier) Ping(context.Context, domain.RevenueSource) error {
	return u.err
}

// reasonFor resume o erro para o cliente; o detalhe fica só no log
func reasonFor(err error) string {
	var connErr *connUnavailableError
	switch {
	case errors.As(err, &connErr):
		return "conexão com o banco indisponível"
	case errors.Is(err, context.DeadlineExceeded):
		return "tempo limite da consulta excedido"
	case errors.Is(err, context.Canceled):
		return "consulta cancelada"
	default:
		return "falha na consulta ao banco"
	}
}
