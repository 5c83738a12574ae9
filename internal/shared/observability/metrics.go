package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParsingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "graphqlpal_parsing_seconds",
		Help:    "Time spent parsing a source file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"grammar"})

	FilesScannedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "graphqlpal_files_scanned_total",
		Help: "Total number of files visited by extraction runs.",
	})

	FilesSkippedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "graphqlpal_files_skipped_total",
		Help: "Total number of files that could not be read or parsed.",
	})

	TemplatesExtractedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "graphqlpal_templates_extracted_total",
		Help: "Total number of GraphQL documents reconstructed from source files.",
	})

	TemplatesSkippedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "graphqlpal_templates_skipped_total",
		Help: "Total number of GraphQL templates dropped, by reason class.",
	}, []string{"reason"})

	QueriesWrittenTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "graphqlpal_queries_written_total",
		Help: "Total number of documents written to query output files.",
	})

	OperationsAnalyzedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "graphqlpal_operations_analyzed_total",
		Help: "Total number of operations and fragments walked by the usage analyzer.",
	}, []string{"kind"})

	OperationErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "graphqlpal_operation_errors_total",
		Help: "Total number of operations whose usage walk failed.",
	})

	ModuleCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "graphqlpal_module_cache_hits_total",
		Help: "Total number of imported modules served from the module cache.",
	})

	RunDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "graphqlpal_run_seconds",
		Help:    "Time spent on high-level runs.",
		Buckets: prometheus.DefBuckets,
	}, []string{"task"})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "graphqlpal_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})
)

// WriteTextfile dumps the default registry in the node-exporter textfile format.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
