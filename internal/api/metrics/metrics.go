// Package metrics defines and registers all custom Prometheus metrics for
// the annotation API. It is the single source of truth for metric names,
// labels, and help strings. Metrics register with the default registry via
// promauto at package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "annotation"

// ── Annotation metrics ────────────────────────────────────────────────────────

// AnnotationsCreatedTotal counts annotations created, labelled by label value.
var AnnotationsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "annotations_created_total",
		Help:      "Total number of annotations created, by label.",
	},
	[]string{"label"},
)

// AnnotationsDeletedTotal counts annotation deletions, labelled by the
// deleting actor's role.
var AnnotationsDeletedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "annotations_deleted_total",
		Help:      "Total number of annotations deleted, by actor role.",
	},
	[]string{"role"},
)

// ── Export metrics ────────────────────────────────────────────────────────────

// ExportsTotal counts CSV exports served.
var ExportsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "exports_total",
		Help:      "Total number of CSV exports served.",
	},
)

// ExportRows measures how many rows each export carried.
var ExportRows = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "export_rows",
		Help:      "Number of data rows per CSV export.",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 8), // 1 … 16384
	},
)

// ── Video metrics ─────────────────────────────────────────────────────────────

// VideosUploadedTotal counts video uploads.
var VideosUploadedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "videos_uploaded_total",
		Help:      "Total number of videos uploaded.",
	},
)

// CascadeDeletedAnnotations measures how many annotations each video
// deletion cascaded over.
var CascadeDeletedAnnotations = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "cascade_deleted_annotations",
		Help:      "Annotations removed per video-deletion cascade.",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
	},
)

// ── Audit pipeline metrics ────────────────────────────────────────────────────

// AuditQueueDepth tracks the current number of audit events waiting in each
// dispatcher worker channel.
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// AuditEventsDroppedTotal counts audit events dropped because a worker
// buffer was full.
var AuditEventsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_dropped_total",
		Help:      "Total number of audit events dropped due to a full worker buffer.",
	},
)
