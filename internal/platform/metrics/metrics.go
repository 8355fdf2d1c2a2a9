// Package metrics registers the service's Prometheus instruments.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	ContactsCreated  prometheus.Counter
	ContactsUpdated  prometheus.Counter
	ContactsSkipped  prometheus.Counter
	SyncFailures     prometheus.Counter
	DuplicateGroups  prometheus.Gauge
	MergesPerformed  prometheus.Counter
	GroupingDuration prometheus.Histogram
}

// New creates and registers all metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		ContactsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "contactsync_contacts_created_total",
			Help: "Remote contact records created by reconciliation",
		}),
		ContactsUpdated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "contactsync_contacts_updated_total",
			Help: "Remote contact records patched by reconciliation",
		}),
		ContactsSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "contactsync_contacts_skipped_total",
			Help: "Device contacts skipped (placeholder name or already in sync)",
		}),
		SyncFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "contactsync_sync_failures_total",
			Help: "Per-contact reconciliation failures (batch continued)",
		}),
		DuplicateGroups: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "contactsync_duplicate_groups",
			Help: "Duplicate groups found by the most recent grouping run",
		}),
		MergesPerformed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "contactsync_merges_total",
			Help: "Duplicate groups merged on user action",
		}),
		GroupingDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "contactsync_grouping_duration_seconds",
			Help:    "Wall time of duplicate grouping runs",
			Buckets: prometheus.DefBuckets,
		}),
	}
}
