package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Session metrics
	SessionsStarted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cafe_sessions_started_total",
			Help: "Total rental sessions started",
		},
		[]string{"device"},
	)

	SessionsEnded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cafe_sessions_ended_total",
			Help: "Total rental sessions ended",
		},
		[]string{"device"},
	)

	SessionRevenue = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cafe_session_revenue_total",
			Help: "Sum of billed session costs in venue currency",
		},
	)

	SessionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cafe_session_duration_hours",
			Help:    "Billed session length in hours",
			Buckets: []float64{.25, .5, 1, 1.5, 2, 3, 4, 6, 8, 12},
		},
	)

	// HTTP metrics
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cafe_http_requests_total",
			Help: "Total HTTP requests handled",
		},
		[]string{"method", "route", "status"},
	)
)

// Register adds every collector to reg.
func Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		SessionsStarted,
		SessionsEnded,
		SessionRevenue,
		SessionDuration,
		RequestsTotal,
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
