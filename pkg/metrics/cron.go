package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// CronJobMetrics records per-job run outcomes for the cron worker.
type CronJobMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewCronJobMetrics registers the cron job collectors with the default
// registry.
func NewCronJobMetrics() *CronJobMetrics {
	return &CronJobMetrics{
		duration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "vertilift",
			Subsystem: "cron",
			Name:      "job_duration_seconds",
			Help:      "Duration of cron job runs.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"job"}),
		success: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vertilift",
			Subsystem: "cron",
			Name:      "job_success_total",
			Help:      "Number of successful cron job runs.",
		}, []string{"job"}),
		failure: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vertilift",
			Subsystem: "cron",
			Name:      "job_failure_total",
			Help:      "Number of failed cron job runs.",
		}, []string{"job"}),
	}
}

func (m *CronJobMetrics) ObserveDuration(job string, duration time.Duration) {
	m.duration.WithLabelValues(job).Observe(duration.Seconds())
}

func (m *CronJobMetrics) IncSuccess(job string) {
	m.success.WithLabelValues(job).Inc()
}

func (m *CronJobMetrics) IncFailure(job string) {
	m.failure.WithLabelValues(job).Inc()
}
