package job

import (
	"errors"
	"log"
	"time"

	"namescrub/internal/config"
	"namescrub/internal/database"
	"namescrub/internal/metrics"
	"namescrub/internal/rename"
	"namescrub/internal/safety"
)

// RunOnce performs one full rename pass over root: it builds the Renamer
// from cfg, records run metrics and writes the metrics textfile when one is
// configured. db may be nil.
func RunOnce(cfg *config.Config, root string, logger *log.Logger, db *database.RenameDB) (rename.Summary, error) {
	if logger == nil {
		logger = log.Default()
	}
	if cfg == nil {
		return rename.Summary{}, errors.New("nil config")
	}

	metrics.Init()
	start := time.Now()

	renamer := rename.NewRenamer(logger, cfg.Target, cfg.ContinueOnError, db)
	summary, err := renamer.Run(root)

	// Nothing ran against an unusable root, so nothing is exported either
	var pathErr *safety.PathError
	if errors.As(err, &pathErr) {
		return summary, err
	}

	metrics.RecordRun(start, err == nil)
	if cfg.MetricsTextfile != "" {
		if werr := metrics.WriteTextfile(cfg.MetricsTextfile); werr != nil {
			logger.Printf("failed to write metrics textfile: %v", werr)
		}
	}

	if err != nil {
		return summary, err
	}

	logger.Printf("run complete: root=%s scanned=%d matched=%d renamed=%d failed=%d duration=%.3fs",
		summary.Root, summary.Scanned, summary.Matched, summary.Renamed, summary.Failed,
		summary.Duration.Seconds())
	return summary, nil
}
