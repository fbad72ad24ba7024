package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "income_report_http_requests_total",
		Help: "Total de requisições HTTP",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "income_report_http_request_duration_seconds",
		Help:    "Duração das requisições HTTP",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	reportFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "income_report_fallbacks_total",
		Help: "Consultas de relatório que caíram nos dados de contingência",
	}, []string{"source", "query"})

	reportDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "income_report_build_duration_seconds",
		Help:    "Tempo de montagem de cada relatório",
		Buckets: prometheus.DefBuckets,
	}, []string{"report", "status"})

	sourceUp = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "income_report_source_up",
		Help: "1 quando a view de receita respondeu à última verificação",
	}, []string{"source"})

	loginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "income_report_login_attempts_total",
		Help: "Tentativas de login por resultado",
	}, []string{"result"})
)

// ObserveHTTPRequest registra uma requisição HTTP
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

func ObserveFallback(source, query string) {
	reportFallbacks.WithLabelValues(source, query).Inc()
}

func ObserveReport(report, status string, duration time.Duration) {
	reportDuration.WithLabelValues(report, status).Observe(duration.Seconds())
}

func SetSourceUp(source string, up bool) {
	value := 0.0
	if up {
		value = 1
	}
	sourceUp.WithLabelValues(source).Set(value)
}

func ObserveLogin(result string) {
	loginAttempts.WithLabelValues(result).Inc()
}
