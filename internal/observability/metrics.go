package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	apiRequestsTotal  *prometheus.CounterVec
	apiLatencySeconds *prometheus.HistogramVec
	apiErrorsTotal    *prometheus.CounterVec

	gradesRecordedTotal         *prometheus.CounterVec
	activitiesClosedTotal       *prometheus.CounterVec
	submissionsAcceptedTotal    *prometheus.CounterVec
	notificationsPublishedTotal *prometheus.CounterVec
	analyticsReportSeconds      *prometheus.HistogramVec
)

// RegisterMetrics initialises the Prometheus collectors exposed on /metrics.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "api_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "api_errors_total",
			Help: "Total number of error responses returned by API endpoints.",
		}, []string{"method", "route", "status"})

		gradesRecordedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "grades_recorded_total",
			Help: "Grading actions applied to submissions.",
		}, []string{"outcome"})

		activitiesClosedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "activities_closed_total",
			Help: "Activities closed because their due date passed.",
		}, []string{"trigger"})

		submissionsAcceptedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "submissions_accepted_total",
			Help: "Submissions accepted, by content kind.",
		}, []string{"kind"})

		notificationsPublishedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notifications_published_total",
			Help: "Notifications persisted for recipients.",
		}, []string{"type"})

		analyticsReportSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "analytics_report_seconds",
			Help:    "Time spent building cohort reports.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		}, []string{"cache"})

		prometheus.MustRegister(
			apiRequestsTotal,
			apiLatencySeconds,
			apiErrorsTotal,
			gradesRecordedTotal,
			activitiesClosedTotal,
			submissionsAcceptedTotal,
			notificationsPublishedTotal,
			analyticsReportSeconds,
		)
	})
}

// APIRequests exposes the counter for API requests.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the latency histogram for API requests.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// APIErrors exposes the counter for API error responses.
func APIErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// GradesRecorded counts grading actions by outcome (graded, idempotent).
func GradesRecorded() *prometheus.CounterVec {
	RegisterMetrics()
	return gradesRecordedTotal
}

// ActivitiesClosed counts due-date closures by trigger (sweep, read).
func ActivitiesClosed() *prometheus.CounterVec {
	RegisterMetrics()
	return activitiesClosedTotal
}

func SubmissionsAccepted() *prometheus.CounterVec {
	RegisterMetrics()
	return submissionsAcceptedTotal
}

func NotificationsPublished() *prometheus.CounterVec {
	RegisterMetrics()
	return notificationsPublishedTotal
}

// AnalyticsReportDuration observes report build latency labelled by cache outcome.
func AnalyticsReportDuration() *prometheus.HistogramVec {
	RegisterMetrics()
	return analyticsReportSeconds
}
