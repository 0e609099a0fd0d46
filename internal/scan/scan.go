package scan

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"time"
)

// Logger interface for structured logging
type Logger interface {
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Debug(msg string, args ...interface{})
}

// stdLogger wraps standard log.Logger to implement Logger interface
type stdLogger struct {
	*log.Logger
}

func (l *stdLogger) Info(msg string, args ...interface{}) {
	l.logWithLevel("INFO", msg, args...)
}

func (l *stdLogger) Warn(msg string, args ...interface{}) {
	l.logWithLevel("WARN", msg, args...)
}

func (l *stdLogger) Debug(msg string, args ...interface{}) {
	l.logWithLevel("DEBUG", msg, args...)
}

func (l *stdLogger) logWithLevel(level, msg string, args ...interface{}) {
	var parts []interface{}
	parts = append(parts, fmt.Sprintf("[%s]", level), msg)
	parts = append(parts, args...)
	l.Logger.Println(parts...)
}

// discardLogger drops everything; used when the caller passes no logger
type discardLogger struct{}

func (discardLogger) Info(string, ...interface{})  {}
func (discardLogger) Warn(string, ...interface{})  {}
func (discardLogger) Debug(string, ...interface{}) {}

// Scanner snapshots a directory tree into rename candidates
type Scanner struct {
	logger Logger
	now    func() time.Time
}

// NewScanner creates a new Scanner with the given logger. A nil logger
// keeps the scan silent.
func NewScanner(logger *log.Logger) *Scanner {
	s := &Scanner{logger: discardLogger{}, now: time.Now}
	if logger != nil {
		s.logger = &stdLogger{Logger: logger}
	}
	return s
}

type Candidate struct {
	Path    string // full path of the file as found
	Dir     string
	Name    string
	NewName string // Name with every occurrence of the target removed
	Size    int64
	ModTime time.Time
	Match   Match
}

// NewPath is where the candidate ends up after renaming
func (c Candidate) NewPath() string {
	return filepath.Join(c.Dir, c.NewName)
}

// Result is the snapshot of one traversal
type Result struct {
	Root         string
	Candidates   []Candidate
	FilesScanned int
	DirsScanned  int
}

var errEmptyTarget = errors.New("empty target")

// Scan walks root and returns every file whose name contains target
func Scan(root, target string) (*Result, error) {
	return NewScanner(nil).Scan(root, target)
}

// ScanWithLogger is Scan with progress logged to logger
func ScanWithLogger(root, target string, logger *log.Logger) (*Result, error) {
	return NewScanner(logger).Scan(root, target)
}

// Scan lists every directory reachable from root before anything is
// renamed. Directories are descended into but never become candidates;
// symlinks to directories are neither followed nor renamed.
func (s *Scanner) Scan(root, target string) (*Result, error) {
	if target == "" {
		return nil, errEmptyTarget
	}

	res := &Result{Root: root, Candidates: make([]Candidate, 0)}
	if err := s.scanDir(root, root, target, res); err != nil {
		return nil, err
	}

	s.logger.Info("Scan complete",
		"root", root,
		"dirs", res.DirsScanned,
		"files", res.FilesScanned,
		"candidates_found", len(res.Candidates),
	)
	return res, nil
}

func (s *Scanner) scanDir(root, dir, target string, res *Result) error {
	// os.ReadDir reads the whole listing up front, so later renames in this
	// directory cannot disturb the iteration
	entries, err := os.ReadDir(dir)
	if err != nil {
		if dir != root && errors.Is(err, fs.ErrPermission) {
			s.logger.Warn("Permission denied", "path", dir)
			return nil
		}
		return fmt.Errorf("failed to list %s: %w", dir, err)
	}
	res.DirsScanned++

	var subdirs []string
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		if isDirectoryEntry(path, entry) {
			if entry.IsDir() {
				subdirs = append(subdirs, path)
			}
			continue
		}

		res.FilesScanned++
		match := NewMatch(entry.Name(), target, s.now())
		if !match.HasMatch() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			// Removed between listing and stat
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to stat %s: %w", path, err)
		}

		res.Candidates = append(res.Candidates, Candidate{
			Path:    path,
			Dir:     dir,
			Name:    entry.Name(),
			NewName: match.Strip(entry.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
			Match:   match,
		})

		s.logger.Debug("File selected for rename",
			"path", path,
			"match", match.ToLogString(),
		)
	}

	for _, sub := range subdirs {
		if err := s.scanDir(root, sub, target, res); err != nil {
			return err
		}
	}
	return nil
}

// isDirectoryEntry reports whether entry behaves as a directory. Symlinks
// are resolved so a link to a directory is not mistaken for a file; broken
// or looping links count as files.
func isDirectoryEntry(path string, entry fs.DirEntry) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
