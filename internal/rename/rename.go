package rename

import (
	"errors"
	"fmt"
	"log"
	"time"

	"namescrub/internal/database"
	"namescrub/internal/fsops"
	"namescrub/internal/metrics"
	"namescrub/internal/safety"
	"namescrub/internal/scan"

	"github.com/prometheus/client_golang/prometheus"
)

// RenameLogger interface for structured logging in the renamer
type RenameLogger interface {
	Info(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// renameStdLogger wraps standard log.Logger to implement RenameLogger interface
type renameStdLogger struct {
	*log.Logger
}

func (l *renameStdLogger) Info(msg string, args ...interface{}) {
	l.logWithLevel("INFO", msg, args...)
}

func (l *renameStdLogger) Error(msg string, args ...interface{}) {
	l.logWithLevel("ERROR", msg, args...)
}

func (l *renameStdLogger) logWithLevel(level, msg string, args ...interface{}) {
	var parts []interface{}
	parts = append(parts, fmt.Sprintf("[%s]", level), msg)
	parts = append(parts, args...)
	l.Logger.Println(parts...)
}

// Metrics interface for rename metrics
type Metrics interface {
	FilesScannedTotal() prometheus.Counter
	FilesMatchedTotal() prometheus.Counter
	FilesRenamedTotal() prometheus.Counter
	RenameErrors(reason string) prometheus.Counter
}

// renameMetrics wraps global metrics to implement Metrics interface
type renameMetrics struct{}

func (renameMetrics) FilesScannedTotal() prometheus.Counter { return metrics.FilesScannedTotal }
func (renameMetrics) FilesMatchedTotal() prometheus.Counter { return metrics.FilesMatchedTotal }
func (renameMetrics) FilesRenamedTotal() prometheus.Counter { return metrics.FilesRenamedTotal }

func (renameMetrics) RenameErrors(reason string) prometheus.Counter {
	return metrics.RenameErrorsTotal.WithLabelValues(reason)
}

// Summary describes the outcome of one run
type Summary struct {
	Root     string
	Scanned  int
	Matched  int
	Renamed  int
	Failed   int
	Failures []*RenameError
	Duration time.Duration
}

// Renamer strips the target substring from every file name under a root
type Renamer struct {
	logger          RenameLogger
	stdLogger       *log.Logger
	metrics         Metrics
	fs              fsops.Renamer
	db              *database.RenameDB // optional rename history
	target          string
	continueOnError bool
}

// NewRenamer creates a Renamer. With continueOnError false the first failed
// rename aborts the run; otherwise every failure is collected and the walk
// goes on.
func NewRenamer(logger *log.Logger, target string, continueOnError bool, db *database.RenameDB) *Renamer {
	if logger == nil {
		logger = log.Default()
	}
	metrics.Init()
	return &Renamer{
		logger:          &renameStdLogger{Logger: logger},
		stdLogger:       logger,
		metrics:         renameMetrics{},
		fs:              fsops.OSRenamer{},
		db:              db,
		target:          target,
		continueOnError: continueOnError,
	}
}

// SetRenamer swaps the filesystem primitive, used by tests
func (r *Renamer) SetRenamer(fs fsops.Renamer) {
	r.fs = fs
}

// Run renames files under root, stripping target, and stops at the first
// failed rename
func Run(root, target string, logger *log.Logger) (Summary, error) {
	return NewRenamer(logger, target, false, nil).Run(root)
}

// Run validates root, snapshots the tree and renames every candidate.
// A *safety.PathError means nothing was touched. Rename failures come back
// as *RenameError: alone in fail-fast mode, joined in continue mode.
func (r *Renamer) Run(root string) (Summary, error) {
	start := time.Now()

	absRoot, err := safety.ValidateRoot(root)
	if err != nil {
		return Summary{Root: root}, err
	}

	result, err := scan.ScanWithLogger(absRoot, r.target, r.stdLogger)
	if err != nil {
		return Summary{Root: absRoot}, fmt.Errorf("scan %s: %w", absRoot, err)
	}
	r.metrics.FilesScannedTotal().Add(float64(result.FilesScanned))

	summary, err := r.RenameCandidates(absRoot, result.Candidates)
	summary.Scanned = result.FilesScanned
	summary.Duration = time.Since(start)
	return summary, err
}

// RenameCandidates applies a snapshot produced by scan.Scan for root
func (r *Renamer) RenameCandidates(root string, candidates []scan.Candidate) (Summary, error) {
	summary := Summary{Root: root, Matched: len(candidates)}
	validator := safety.NewValidator(root)

	r.logger.Info("Starting rename", "root", root, "total_candidates", len(candidates))
	r.metrics.FilesMatchedTotal().Add(float64(len(candidates)))

	for _, cand := range candidates {
		newPath := cand.NewPath()

		err := validator.ValidateRenameTarget(cand.Path, cand.NewName)
		if err == nil {
			err = r.fs.Rename(cand.Path, newPath)
		}

		if err != nil {
			rerr := &RenameError{OldPath: cand.Path, NewPath: newPath, Err: err}
			summary.Failed++
			summary.Failures = append(summary.Failures, rerr)

			r.logStructured(database.ActionError, cand, rerr)
			r.record(database.ActionError, root, cand, err.Error())
			r.metrics.RenameErrors(rerr.Reason()).Inc()

			if !r.continueOnError {
				return summary, rerr
			}
			continue
		}

		summary.Renamed++
		r.logStructured(database.ActionRename, cand, nil)
		r.record(database.ActionRename, root, cand, "")
		r.metrics.FilesRenamedTotal().Inc()
	}

	r.logger.Info("Rename complete",
		"renamed", summary.Renamed,
		"errors", summary.Failed,
	)

	if len(summary.Failures) > 0 {
		errs := make([]error, len(summary.Failures))
		for i, f := range summary.Failures {
			errs[i] = f
		}
		return summary, errors.Join(errs...)
	}
	return summary, nil
}

// record writes to the history; a history failure never fails the run
func (r *Renamer) record(action, root string, cand scan.Candidate, errMsg string) {
	if r.db == nil {
		return
	}
	if err := r.db.RecordRename(action, root, cand, errMsg); err != nil {
		r.logger.Error("Failed to record to database", "error", err)
	}
}

// logStructured logs one line per attempt: timestamp, action, path, new name,
// match and, for failures, reason and cause
func (r *Renamer) logStructured(action string, cand scan.Candidate, rerr *RenameError) {
	entry := fmt.Sprintf("[%s] %s path=%q new_name=%q %s",
		time.Now().UTC().Format(time.RFC3339),
		action,
		cand.Path,
		cand.NewName,
		cand.Match.ToLogString(),
	)
	if rerr == nil {
		r.logger.Info(entry)
		return
	}
	r.logger.Error(fmt.Sprintf("%s reason=%s error=%q", entry, rerr.Reason(), rerr.Err.Error()))
}
