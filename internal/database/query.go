package database

import (
	"database/sql"
	"time"
)

const selectColumns = `
	SELECT id, timestamp, action, root, dir, old_name, new_name,
	       target, occurrences, size, error_message
	FROM renames
`

// GetRecentRenames returns the N most recent rename attempts
func (d *RenameDB) GetRecentRenames(limit int) ([]RenameRecord, error) {
	return d.queryRenames(selectColumns+`
	ORDER BY timestamp DESC, id DESC
	LIMIT ?
	`, limit)
}

// GetRenamesByAction returns attempts filtered by action (RENAME or ERROR)
func (d *RenameDB) GetRenamesByAction(action string) ([]RenameRecord, error) {
	return d.queryRenames(selectColumns+`
	WHERE action = ?
	ORDER BY timestamp DESC, id DESC
	`, action)
}

// GetRenamesByPath returns attempts whose directory matches a LIKE pattern
func (d *RenameDB) GetRenamesByPath(pathPattern string) ([]RenameRecord, error) {
	return d.queryRenames(selectColumns+`
	WHERE dir LIKE ?
	ORDER BY timestamp DESC, id DESC
	`, pathPattern)
}

// GetRenamesByDateRange returns attempts within a time range
func (d *RenameDB) GetRenamesByDateRange(start, end time.Time) ([]RenameRecord, error) {
	return d.queryRenames(selectColumns+`
	WHERE timestamp BETWEEN ? AND ?
	ORDER BY timestamp DESC, id DESC
	`, start, end)
}

// GetCountByAction returns count of attempts grouped by action
func (d *RenameDB) GetCountByAction() (map[string]int, error) {
	rows, err := d.db.Query(`
	SELECT action, COUNT(*)
	FROM renames
	GROUP BY action
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var action string
		var count int
		if err := rows.Scan(&action, &count); err != nil {
			return nil, err
		}
		counts[action] = count
	}

	return counts, rows.Err()
}

// RenameStats holds aggregated statistics
type RenameStats struct {
	TotalRenamed int
	TotalErrors  int
	ByTarget     map[string]int
	StartDate    time.Time
	EndDate      time.Time
}

// GetRenameStats returns statistics for the last `days` days
func (d *RenameDB) GetRenameStats(days int) (*RenameStats, error) {
	now := time.Now()
	since := now.AddDate(0, 0, -days)

	stats := &RenameStats{
		StartDate: since,
		EndDate:   now,
		ByTarget:  make(map[string]int),
	}

	err := d.db.QueryRow(`
		SELECT
			COUNT(CASE WHEN action = 'RENAME' THEN 1 END),
			COUNT(CASE WHEN action = 'ERROR' THEN 1 END)
		FROM renames
		WHERE timestamp >= ?
	`, since).Scan(&stats.TotalRenamed, &stats.TotalErrors)
	if err != nil {
		return nil, err
	}

	rows, err := d.db.Query(`
		SELECT target, COUNT(*)
		FROM renames
		WHERE action = 'RENAME' AND timestamp >= ?
		GROUP BY target
	`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var target string
		var count int
		if err := rows.Scan(&target, &count); err != nil {
			return nil, err
		}
		stats.ByTarget[target] = count
	}

	return stats, rows.Err()
}

// DeleteOldRecords removes records older than the given number of days
func (d *RenameDB) DeleteOldRecords(olderThanDays int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -olderThanDays)

	result, err := d.db.Exec(`DELETE FROM renames WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

// queryRenames executes a select built on selectColumns and scans the rows
func (d *RenameDB) queryRenames(query string, args ...interface{}) ([]RenameRecord, error) {
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []RenameRecord
	for rows.Next() {
		var r RenameRecord
		var errMsg sql.NullString

		err := rows.Scan(
			&r.ID, &r.Timestamp, &r.Action, &r.Root, &r.Dir,
			&r.OldName, &r.NewName, &r.Target, &r.Occurrences,
			&r.Size, &errMsg,
		)
		if err != nil {
			return nil, err
		}

		if errMsg.Valid {
			r.ErrorMessage = errMsg.String
		}

		records = append(records, r)
	}

	return records, rows.Err()
}
