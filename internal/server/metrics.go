package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	ReqCount    *prometheus.CounterVec
	ReqDuration *prometheus.HistogramVec
	ErrorCount  *prometheus.CounterVec
}

// NewMetrics registers the HTTP collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ReqCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fit_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		ReqDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "fit_request_duration_seconds",
				Help: "Request duration seconds",
			},
			[]string{"method", "path"},
		),
		ErrorCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fit_errors_total",
				Help: "Total handler errors",
			},
			[]string{"handler", "type"},
		),
	}
	reg.MustRegister(m.ReqCount, m.ReqDuration, m.ErrorCount)
	return m
}
