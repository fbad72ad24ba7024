package handler

import (
	"net/http"
	"time"

	"github.com/vfg2006/income-report-api/internal/scheduler"
)

type HealthcheckResponse struct {
	Status string         `json:"status"`
	Time   time.Time      `json:"time"`
	Probe  map[string]any `json:"probe,omitempty"`
}

// HealthcheckHandler responde liveness. A disponibilidade das fontes é informativa
// e não altera o status HTTP.
func HealthcheckHandler(prober scheduler.SourceProber) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response := HealthcheckResponse{Status: "ok", Time: time.Now().UTC()}
		if prober != nil {
			response.Probe = prober.GetStatus()
		}

		writeJSON(w, r, http.StatusOK, response)
	})
}
