package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	initOnce sync.Once
	registry *prometheus.Registry
)

// Init creates and registers all metrics. Safe to call multiple times.
func Init() {
	initOnce.Do(func() {
		// Only namescrub_* series, no Go runtime collectors
		registry = prometheus.NewRegistry()

		initRenameMetrics()
		registerRenameMetrics(registry)

		// Present in the export even when a run renames nothing
		RenameErrorsTotal.WithLabelValues("collision").Add(0)
		LastRunTimestamp.Set(0)
	})
}

// Gatherer exposes the registry for exporters and tests
func Gatherer() prometheus.Gatherer {
	Init()
	return registry
}

// WriteTextfile writes all metrics in the Prometheus text format for the
// node_exporter textfile collector. The write goes through a temp file and
// rename so the collector never reads a partial file.
func WriteTextfile(path string) error {
	Init()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
