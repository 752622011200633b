package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	catalogStateGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "exercise_catalog_service",
		Subsystem: "images",
		Name:      "dataset_state",
		Help:      "Current image reference dataset lifecycle state (1 for the active state).",
	}, []string{"state"})

	catalogEntriesGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "exercise_catalog_service",
		Subsystem: "images",
		Name:      "dataset_entries",
		Help:      "Number of entries in the loaded image reference dataset.",
	})

	catalogLoadedGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "exercise_catalog_service",
		Subsystem: "images",
		Name:      "last_dataset_load_timestamp_seconds",
		Help:      "Unix timestamp of the most recent successful dataset load.",
	})

	imageLookupCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "exercise_catalog_service",
		Subsystem: "images",
		Name:      "lookups_total",
		Help:      "Image lookups partitioned by outcome.",
	}, []string{"outcome"})

	exerciseMutationGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "exercise_catalog_service",
		Subsystem: "catalog",
		Name:      "last_mutation_timestamp_seconds",
		Help:      "Unix timestamp of the most recent exercise record mutation.",
	})
)

var knownStates = []string{"unloaded", "loading", "loaded", "load_failed"}

func init() {
	prometheus.MustRegister(
		catalogStateGauge,
		catalogEntriesGauge,
		catalogLoadedGauge,
		imageLookupCounter,
		exerciseMutationGauge,
	)
	RecordCatalogState("unloaded")
}

// RecordCatalogState marks the active dataset lifecycle state.
func RecordCatalogState(state string) {
	for _, known := range knownStates {
		value := 0.0
		if known == state {
			value = 1.0
		}
		catalogStateGauge.WithLabelValues(known).Set(value)
	}
}

// RecordCatalogLoaded updates the load watermark and entry count.
func RecordCatalogLoaded(entries int) {
	catalogEntriesGauge.Set(float64(entries))
	catalogLoadedGauge.Set(float64(time.Now().Unix()))
}

// RecordImageLookup counts a lookup outcome.
func RecordImageLookup(found bool) {
	outcome := "miss"
	if found {
		outcome = "hit"
	}
	imageLookupCounter.WithLabelValues(outcome).Inc()
}

// RecordExerciseMutation updates the mutation watermark.
func RecordExerciseMutation(ts time.Time) {
	if ts.IsZero() {
		return
	}
	exerciseMutationGauge.Set(float64(ts.Unix()))
}
