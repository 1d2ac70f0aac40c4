package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CheckRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sslmon_check_runs_total",
		Help: "Batch check invocations (scheduled or manual)",
	})
	SitesChecked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sslmon_sites_checked_total",
		Help: "Individual site probes completed",
	})
	ProbeErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sslmon_probe_errors_total",
		Help: "Probes that ended in the error status",
	})
	NotificationsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sslmon_notifications_sent_total",
		Help: "Alerts handed to the notification transports",
	})
	NotificationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sslmon_notification_failures_total",
		Help: "Alert deliveries that reported an error",
	})
	CheckDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sslmon_check_duration_seconds",
		Help:    "Wall time of one batch check",
		Buckets: prometheus.DefBuckets,
	})
)
