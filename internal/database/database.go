package database

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"namescrub/internal/scan"
)

// Actions recorded in the history
const (
	ActionRename = "RENAME"
	ActionError  = "ERROR"
)

// RenameDB manages the SQLite database for rename history
type RenameDB struct {
	db *sql.DB
}

// RenameRecord represents a single rename attempt
type RenameRecord struct {
	ID           int64
	Timestamp    time.Time
	Action       string
	Root         string
	Dir          string
	OldName      string
	NewName      string
	Target       string
	Occurrences  int
	Size         int64
	ErrorMessage string
	CreatedAt    time.Time
}

// NewRenameDB opens (creating if needed) the history database and
// initializes the schema
func NewRenameDB(dbPath string) (*RenameDB, error) {
	dir := filepath.Dir(dbPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
		}
	}
	return open(dbPath)
}

// OpenRenameDB opens an existing history database and never creates one.
// A missing file is reported as fs.ErrNotExist.
func OpenRenameDB(dbPath string) (*RenameDB, error) {
	info, err := os.Stat(dbPath)
	if err != nil {
		return nil, fmt.Errorf("database %s: %w", dbPath, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("database %s: %w", dbPath, errIsDirectory)
	}
	return open(dbPath)
}

var errIsDirectory = errors.New("is a directory")

func open(dbPath string) (*RenameDB, error) {
	// _loc=auto enables automatic DATETIME parsing
	db, err := sql.Open("sqlite3", "file:"+dbPath+"?_loc=auto")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err != nil {
			db.Close()
		}
	}()

	// sql.Open is lazy; force the file into existence
	if _, err = db.Exec("SELECT 1"); err != nil {
		return nil, fmt.Errorf("failed to initialize database (check permissions on %s): %w", dbPath, err)
	}

	if _, err = db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if _, err = db.Exec("PRAGMA synchronous=NORMAL"); err != nil {
		return nil, fmt.Errorf("failed to set synchronous mode: %w", err)
	}

	rdb := &RenameDB{db: db}
	if err = rdb.initSchema(); err != nil {
		return nil, err
	}

	return rdb, nil
}

// initSchema creates tables and indexes if they don't exist
func (d *RenameDB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS renames (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME NOT NULL,
		action TEXT NOT NULL,
		root TEXT NOT NULL,
		dir TEXT NOT NULL,
		old_name TEXT NOT NULL,
		new_name TEXT NOT NULL,
		target TEXT NOT NULL,
		occurrences INTEGER NOT NULL,
		size INTEGER NOT NULL,
		error_message TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_timestamp ON renames(timestamp);
	CREATE INDEX IF NOT EXISTS idx_action ON renames(action);
	CREATE INDEX IF NOT EXISTS idx_dir ON renames(dir);

	CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	INSERT OR IGNORE INTO schema_version (version) VALUES (1);
	`

	_, err := d.db.Exec(schema)
	return err
}

// RecordRename inserts one rename attempt stamped with the current time.
// errorMsg is empty for ActionRename.
func (d *RenameDB) RecordRename(action, root string, candidate scan.Candidate, errorMsg string) error {
	return d.RecordRenameAt(time.Now(), action, root, candidate, errorMsg)
}

// RecordRenameAt is RecordRename with an explicit attempt time
func (d *RenameDB) RecordRenameAt(at time.Time, action, root string, candidate scan.Candidate, errorMsg string) error {
	query := `
	INSERT INTO renames (
		timestamp, action, root, dir, old_name, new_name,
		target, occurrences, size, error_message
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var errMsg sql.NullString
	if errorMsg != "" {
		errMsg = sql.NullString{String: errorMsg, Valid: true}
	}

	_, err := d.db.Exec(
		query,
		at,
		action,
		root,
		candidate.Dir,
		candidate.Name,
		candidate.NewName,
		candidate.Match.Target,
		candidate.Match.Occurrences,
		candidate.Size,
		errMsg,
	)
	return err
}

// Close closes the database connection
func (d *RenameDB) Close() error {
	return d.db.Close()
}

// Vacuum optimizes the database
func (d *RenameDB) Vacuum() error {
	_, err := d.db.Exec("VACUUM")
	return err
}

// GetDatabaseStats returns record count, on-disk size and date range
func (d *RenameDB) GetDatabaseStats() (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var totalRecords int64
	if err := d.db.QueryRow("SELECT COUNT(*) FROM renames").Scan(&totalRecords); err != nil {
		return nil, err
	}
	stats["total_records"] = totalRecords

	var pageCount, pageSize int64
	if err := d.db.QueryRow("PRAGMA page_count").Scan(&pageCount); err != nil {
		return nil, err
	}
	if err := d.db.QueryRow("PRAGMA page_size").Scan(&pageSize); err != nil {
		return nil, err
	}
	stats["database_size_bytes"] = pageCount * pageSize

	var oldest, newest sql.NullString
	err := d.db.QueryRow("SELECT MIN(timestamp), MAX(timestamp) FROM renames").Scan(&oldest, &newest)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}
	if t, ok := parseTimestamp(oldest); ok {
		stats["oldest_record"] = t
	}
	if t, ok := parseTimestamp(newest); ok {
		stats["newest_record"] = t
	}

	return stats, nil
}

// sqliteLayouts are the forms go-sqlite3 uses when storing time.Time
var sqliteLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05-07:00",
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
}

// parseTimestamp parses aggregate results, which come back as text
// because MIN/MAX lose the column's declared type
func parseTimestamp(s sql.NullString) (time.Time, bool) {
	if !s.Valid || s.String == "" {
		return time.Time{}, false
	}
	for _, layout := range sqliteLayouts {
		if t, err := time.Parse(layout, s.String); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
