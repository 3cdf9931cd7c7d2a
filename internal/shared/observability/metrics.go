package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	FilesScannedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hdrgen_files_scanned_total",
		Help: "Total number of Rust source files discovered by source root scans.",
	})

	HeadersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hdrgen_headers_total",
		Help: "Header generation outcomes per source file.",
	}, []string{"status"})

	PrototypesEmittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hdrgen_prototypes_emitted_total",
		Help: "Total number of C prototypes written to headers.",
	})

	TranslationFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hdrgen_translation_failures_total",
		Help: "Type expressions that could not be translated, by error code.",
	}, []string{"code"})

	GenerationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hdrgen_generation_seconds",
		Help:    "Time spent generating headers.",
		Buckets: prometheus.DefBuckets,
	}, []string{"scope"})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hdrgen_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	RegensThrottledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hdrgen_regens_throttled_total",
		Help: "Total number of watch-mode regenerations delayed by the rate limiter.",
	})

	AuditFindingsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hdrgen_audit_findings_total",
		Help: "Total number of extern \"C\" functions the audit found missing from headers.",
	})
)
