package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"

	"github.com/vfg2006/income-report-api/internal/domain"
	"github.com/vfg2006/income-report-api/internal/usecases/reporting"
	"github.com/vfg2006/income-report-api/pkg/apiErrors"
	"github.com/vfg2006/income-report-api/pkg/log"
	"github.com/vfg2006/income-report-api/pkg/utils"
)

// GetReport atende /api/reports/:name. Falhas de banco nunca chegam aqui:
// o relatório volta com dados de contingência e dataStatus degradado.
func GetReport(service reporting.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := httprouter.ParamsFromContext(r.Context()).ByName("name")

		period, ok := parsePeriod(w, r)
		if !ok {
			return
		}

		logger := log.ForContext(r.Context()).WithField("report", name)

		if name == reporting.ReportConsolidated {
			report, err := service.GetConsolidated(r.Context(), period)
			if err != nil {
				handleReportError(w, r, err)
				return
			}

			logger.WithField("status", report.DataStatus.Status).Debug("Relatório consolidado gerado")
			writeJSON(w, r, http.StatusOK, report)
			return
		}

		source, err := domain.ParseRevenueSource(name)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrReportNotFound, "Relatório não encontrado", map[string]any{
				"available": []string{reporting.ReportConsolidated, reporting.Report365, reporting.ReportDMS},
			})
			return
		}

		scope, err := domain.ParseReportScope(r.URL.Query().Get("scope"))
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, err.Error(), nil)
			return
		}

		report, err := service.GetSourceReport(r.Context(), source, period, scope)
		if err != nil {
			handleReportError(w, r, err)
			return
		}

		logger.WithField("status", report.Quality().Status).Debug("Relatório por fonte gerado")
		writeJSON(w, r, http.StatusOK, report)
	}
}

// parsePeriod exige startDate e endDate em ISO-8601
func parsePeriod(w http.ResponseWriter, r *http.Request) (domain.Period, bool) {
	query := r.URL.Query()
	startValue, endValue := query.Get("startDate"), query.Get("endDate")

	if startValue == "" || endValue == "" {
		apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Informe startDate e endDate", nil)
		return domain.Period{}, false
	}

	start, err := utils.ParseTimestamp(startValue)
	if err != nil {
		apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "startDate inválida", map[string]any{"startDate": startValue})
		return domain.Period{}, false
	}

	end, err := utils.ParseTimestamp(endValue)
	if err != nil {
		apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "endDate inválida", map[string]any{"endDate": endValue})
		return domain.Period{}, false
	}

	period, err := domain.NewPeriod(start, end)
	if err != nil {
		apiErrors.WriteError(w, apiErrors.ErrInvalidPeriod, err.Error(), nil)
		return domain.Period{}, false
	}

	return period, true
}

func handleReportError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrInvalidPeriod) {
		apiErrors.WriteError(w, apiErrors.ErrInvalidPeriod, err.Error(), nil)
		return
	}

	log.ForContext(r.Context()).WithError(err).Error("Erro ao gerar relatório")
	apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, err.Error(), nil)
}
