package logging

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"namescrub/internal/config"
)

// NewWithWriter creates a logger writing to w and, when configured, to the
// log file, rotating the file first when it is older than the rotation window.
// w is normally os.Stderr.
func NewWithWriter(w io.Writer, cfg *config.Config) *log.Logger {
	if cfg == nil || cfg.Logging.File == "" {
		return log.New(w, "", log.LstdFlags)
	}

	filePath := cfg.Logging.File
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		log.Printf("failed to ensure log directory for %s: %v", filePath, err)
	}

	rotateDays := 30 // default
	if cfg.Logging.RotationDays > 0 {
		rotateDays = cfg.Logging.RotationDays
	}
	rotateLogsIfNeeded(filePath, rotateDays, time.Now())

	f, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		log.Printf("failed to open log file %s: %v", filePath, err)
		return log.New(w, "", log.LstdFlags)
	}

	mw := io.MultiWriter(w, f)
	return log.New(mw, "", log.LstdFlags|log.Lmicroseconds)
}

// rotateLogsIfNeeded renames the log aside with its mtime as suffix once it
// is older than rotationDays
func rotateLogsIfNeeded(logPath string, rotationDays int, now time.Time) {
	info, err := os.Stat(logPath)
	if err != nil {
		return
	}

	cutoffTime := now.AddDate(0, 0, -rotationDays)
	if !info.ModTime().Before(cutoffTime) {
		return
	}

	timestamp := info.ModTime().Format("20060102-150405")
	rotatedPath := logPath + "." + timestamp
	if err := os.Rename(logPath, rotatedPath); err != nil {
		log.Printf("failed to rotate log file: %v", err)
		return
	}

	cleanupOldLogs(logPath, rotatedPath, rotationDays, now)
}

// cleanupOldLogs removes rotated siblings older than rotationDays, except
// the one just rotated
func cleanupOldLogs(logPath, keep string, rotationDays int, now time.Time) {
	logDir := filepath.Dir(logPath)
	baseName := filepath.Base(logPath)

	entries, err := os.ReadDir(logDir)
	if err != nil {
		return
	}

	cutoffTime := now.AddDate(0, 0, -rotationDays)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if !strings.HasPrefix(name, baseName+".") || name == filepath.Base(keep) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		if info.ModTime().Before(cutoffTime) {
			fullPath := filepath.Join(logDir, name)
			if err := os.Remove(fullPath); err != nil {
				log.Printf("failed to remove old log file %s: %v", fullPath, err)
			}
		}
	}
}
