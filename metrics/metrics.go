package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Attendance metrics
	AttendanceWritesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wazazi_attendance_writes_total",
			Help: "Total number of attendance records written by stored status",
		},
		[]string{"status"},
	)

	ReportsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wazazi_attendance_reports_total",
			Help: "Total number of monthly attendance reports served",
		},
	)

	// Notification metrics
	NotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wazazi_absence_notifications_total",
			Help: "Total number of absence notification upserts by outcome (created, refreshed, suppressed)",
		},
		[]string{"outcome"},
	)

	// API metrics
	APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wazazi_api_requests_total",
			Help: "Total number of API requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wazazi_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

func init() {
	prometheus.MustRegister(AttendanceWritesTotal)
	prometheus.MustRegister(ReportsTotal)
	prometheus.MustRegister(NotificationsTotal)
	prometheus.MustRegister(APIRequestsTotal)
	prometheus.MustRegister(APIRequestDuration)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
