package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Rename subsystem metrics
var (
	// FilesScannedTotal counts every file entry visited by the traversal
	FilesScannedTotal prometheus.Counter

	// FilesMatchedTotal counts files whose name contained the target
	FilesMatchedTotal prometheus.Counter

	// FilesRenamedTotal counts successful renames
	FilesRenamedTotal prometheus.Counter

	// RenameErrorsTotal counts failed renames by cause (collision, permission, not_found, invalid_name, other)
	RenameErrorsTotal *prometheus.CounterVec

	// RunDuration tracks how long a full run takes
	RunDuration prometheus.Histogram

	// LastRunTimestamp records Unix timestamp of the last run
	LastRunTimestamp prometheus.Gauge

	// LastRunSuccess is 1 when the last run finished without rename errors
	LastRunSuccess prometheus.Gauge
)

func initRenameMetrics() {
	FilesScannedTotal = NewCounter(
		"namescrub_files_scanned_total",
		"Total number of file entries visited.",
	)

	FilesMatchedTotal = NewCounter(
		"namescrub_files_matched_total",
		"Total number of files whose name contained the target substring.",
	)

	FilesRenamedTotal = NewCounter(
		"namescrub_files_renamed_total",
		"Total number of files renamed.",
	)

	RenameErrorsTotal = NewCounterVec(
		"namescrub_rename_errors_total",
		"Total number of failed renames by reason.",
		[]string{"reason"},
	)

	RunDuration = NewDurationHistogram(
		"namescrub_run_duration_seconds",
		"Duration of a full traversal and rename run in seconds.",
	)

	LastRunTimestamp = NewGauge(
		"namescrub_last_run_timestamp",
		"Timestamp of the last run (Unix epoch seconds).",
	)

	LastRunSuccess = NewGauge(
		"namescrub_last_run_success",
		"1 if the last run completed without rename errors, 0 otherwise.",
	)
}

func registerRenameMetrics(reg prometheus.Registerer) {
	reg.MustRegister(FilesScannedTotal)
	reg.MustRegister(FilesMatchedTotal)
	reg.MustRegister(FilesRenamedTotal)
	reg.MustRegister(RenameErrorsTotal)
	reg.MustRegister(RunDuration)
	reg.MustRegister(LastRunTimestamp)
	reg.MustRegister(LastRunSuccess)
}

// RecordRun stamps the last run time and outcome
func RecordRun(start time.Time, ok bool) {
	LastRunTimestamp.Set(float64(start.Unix()))
	RunDuration.Observe(time.Since(start).Seconds())
	if ok {
		LastRunSuccess.Set(1)
	} else {
		LastRunSuccess.Set(0)
	}
}

