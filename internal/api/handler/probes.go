package handler

import (
	"net/http"

	"github.com/vfg2006/income-report-api/internal/scheduler"
	"github.com/vfg2006/income-report-api/pkg/apiErrors"
	"github.com/vfg2006/income-report-api/pkg/log"
)

// RunSourceProbe dispara manualmente a verificação das fontes de receita
func RunSourceProbe(prober scheduler.SourceProber) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if prober == nil {
			apiErrors.WriteError(w, apiErrors.ErrServiceUnavailable, "Verificação das fontes não disponível", nil)
			return
		}

		if !prober.TriggerManualSync() {
			writeJSON(w, r, http.StatusConflict, map[string]any{
				"message": "Já existe uma verificação em andamento",
				"started": false,
			})
			return
		}

		log.ForContext(r.Context()).Info("Verificação das fontes disparada manualmente")
		writeJSON(w, r, http.StatusAccepted, map[string]any{
			"message": "Verificação das fontes iniciada",
			"started": true,
		})
	}
}

// GetSourceProbeStatus retorna o último resultado da verificação das fontes
func GetSourceProbeStatus(prober scheduler.SourceProber) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if prober == nil {
			apiErrors.WriteError(w, apiErrors.ErrServiceUnavailable, "Verificação das fontes não disponível", nil)
			return
		}

		writeJSON(w, r, http.StatusOK, prober.GetStatus())
	}
}
