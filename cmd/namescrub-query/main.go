package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"namescrub/internal/database"
	"namescrub/internal/exitcodes"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("namescrub-query", flag.ContinueOnError)
	fs.SetOutput(stderr)
	dbPath := fs.String("db", "namescrub.db", "Path to rename history database")
	recent := fs.Int("recent", 0, "Show N most recent rename attempts")
	stats := fs.Bool("stats", false, "Show rename statistics")
	action := fs.String("action", "", "Filter by action (RENAME, ERROR)")
	pathPattern := fs.String("path", "", "Filter by directory pattern (SQL LIKE syntax)")
	since := fs.String("since", "", "Show attempts since DATE (YYYY-MM-DD)")
	days := fs.Int("days", 30, "Number of days for statistics")
	prune := fs.Int("prune", 0, "Delete records older than N days")
	jsonOutput := fs.Bool("json", false, "Output in JSON format")
	if err := fs.Parse(args); err != nil {
		return exitcodes.Usage
	}

	if !*stats && *recent <= 0 && *action == "" && *pathPattern == "" && *since == "" && *prune <= 0 {
		fs.Usage()
		fmt.Fprintln(stderr, "\nExamples:")
		fmt.Fprintln(stderr, "  namescrub-query -db renames.db -recent 10        # Show 10 most recent renames")
		fmt.Fprintln(stderr, "  namescrub-query -db renames.db -stats            # Show rename statistics")
		fmt.Fprintln(stderr, "  namescrub-query -db renames.db -action ERROR     # Show only failed renames")
		fmt.Fprintln(stderr, "  namescrub-query -db renames.db -path '/data/%'   # Show renames under /data")
		fmt.Fprintln(stderr, "  namescrub-query -db renames.db -since 2026-01-01 # Show renames since a date")
		fmt.Fprintln(stderr, "  namescrub-query -db renames.db -prune 90         # Drop records older than 90 days")
		return exitcodes.Usage
	}

	var sinceTime time.Time
	if *since != "" {
		t, err := time.ParseInLocation("2006-01-02", *since, time.Local)
		if err != nil {
			fmt.Fprintf(stderr, "ERROR: invalid -since date %q: %v\n", *since, err)
			return exitcodes.Usage
		}
		sinceTime = t
	}

	db, err := database.OpenRenameDB(*dbPath)
	if err != nil {
		fmt.Fprintf(stderr, "ERROR: Failed to open database %s: %v\n", *dbPath, err)
		return exitcodes.InvalidPath
	}
	defer func() {
		if err := db.Close(); err != nil {
			fmt.Fprintf(stderr, "ERROR: Failed to close database: %v\n", err)
		}
	}()

	q := &querier{db: db, out: stdout, json: *jsonOutput}

	switch {
	case *prune > 0:
		err = q.prune(*prune)
	case *stats:
		err = q.showStats(*days)
	case *recent > 0:
		err = q.showRecent(*recent)
	case *action != "":
		err = q.showByAction(*action)
	case *since != "":
		err = q.showSince(sinceTime)
	default:
		err = q.showByPath(*pathPattern)
	}
	if err != nil {
		fmt.Fprintf(stderr, "ERROR: %v\n", err)
		return exitcodes.RuntimeError
	}
	return exitcodes.Success
}

type querier struct {
	db   *database.RenameDB
	out  io.Writer
	json bool
}

func (q *querier) prune(days int) error {
	deleted, err := q.db.DeleteOldRecords(days)
	if err != nil {
		return fmt.Errorf("failed to prune records: %w", err)
	}
	if err := q.db.Vacuum(); err != nil {
		return fmt.Errorf("failed to vacuum database: %w", err)
	}
	if q.json {
		return q.writeJSON(map[string]int64{"deleted": deleted})
	}
	fmt.Fprintf(q.out, "Deleted %d records older than %d days\n", deleted, days)
	return nil
}

func (q *querier) showStats(days int) error {
	stats, err := q.db.GetRenameStats(days)
	if err != nil {
		return fmt.Errorf("failed to get statistics: %w", err)
	}
	dbStats, err := q.db.GetDatabaseStats()
	if err != nil {
		return fmt.Errorf("failed to get database statistics: %w", err)
	}

	if q.json {
		return q.writeJSON(stats)
	}

	fmt.Fprintf(q.out, "Rename Statistics (Last %d days)\n", days)
	fmt.Fprintf(q.out, "Period: %s to %s\n\n", stats.StartDate.Format("2006-01-02"), stats.EndDate.Format("2006-01-02"))
	fmt.Fprintf(q.out, "Total Renamed:    %d\n", stats.TotalRenamed)
	fmt.Fprintf(q.out, "Total Errors:     %d\n", stats.TotalErrors)
	if size, ok := dbStats["database_size_bytes"].(int64); ok {
		fmt.Fprintf(q.out, "Database Size:    %s\n", formatBytes(size))
	}
	fmt.Fprintln(q.out)

	if len(stats.ByTarget) > 0 {
		targets := make([]string, 0, len(stats.ByTarget))
		for target := range stats.ByTarget {
			targets = append(targets, target)
		}
		sort.Strings(targets)

		fmt.Fprintln(q.out, "By Target:")
		for _, target := range targets {
			fmt.Fprintf(q.out, "  %-40s %d\n", target, stats.ByTarget[target])
		}
	}
	return nil
}

func (q *querier) showRecent(limit int) error {
	records, err := q.db.GetRecentRenames(limit)
	if err != nil {
		return fmt.Errorf("failed to get recent renames: %w", err)
	}
	if q.json {
		return q.writeJSON(records)
	}
	q.printRecords(records)
	return nil
}

func (q *querier) showByAction(action string) error {
	records, err := q.db.GetRenamesByAction(action)
	if err != nil {
		return fmt.Errorf("failed to query by action: %w", err)
	}
	if q.json {
		return q.writeJSON(records)
	}
	fmt.Fprintf(q.out, "Records with action: %s\n\n", action)
	q.printRecords(records)
	return nil
}

func (q *querier) showByPath(pathPattern string) error {
	records, err := q.db.GetRenamesByPath(pathPattern)
	if err != nil {
		return fmt.Errorf("failed to query by path: %w", err)
	}
	if q.json {
		return q.writeJSON(records)
	}
	fmt.Fprintf(q.out, "Renames matching path pattern: %s\n\n", pathPattern)
	q.printRecords(records)
	return nil
}

func (q *querier) showSince(since time.Time) error {
	records, err := q.db.GetRenamesByDateRange(since, time.Now())
	if err != nil {
		return fmt.Errorf("failed to query by date: %w", err)
	}
	if q.json {
		return q.writeJSON(records)
	}
	fmt.Fprintf(q.out, "Renames since %s\n\n", since.Format("2006-01-02"))
	q.printRecords(records)
	return nil
}

func (q *querier) writeJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(q.out, string(data))
	return err
}

func (q *querier) printRecords(records []database.RenameRecord) {
	if len(records) == 0 {
		fmt.Fprintln(q.out, "No records found")
		return
	}

	w := tabwriter.NewWriter(q.out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tTimestamp\tAction\tSize\tDir\tOld Name\tNew Name\tError")
	_, _ = fmt.Fprintln(w, "--\t---------\t------\t----\t---\t--------\t--------\t-----")

	for _, r := range records {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.Timestamp.Format("2006-01-02 15:04:05"), r.Action,
			formatBytes(r.Size), r.Dir, r.OldName, r.NewName, r.ErrorMessage)
	}
	_ = w.Flush()
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
