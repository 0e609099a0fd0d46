package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"namescrub/internal/config"
	"namescrub/internal/database"
	"namescrub/internal/exitcodes"
	"namescrub/internal/job"
	"namescrub/internal/logging"
	"namescrub/internal/rename"
	"namescrub/internal/safety"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// run is main without the process exit, so the exit code contract can be tested
func run(args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("namescrub", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "Path to optional YAML configuration file")
	target := fs.String("target", "", "Substring to strip from file names (overrides config)")
	keepGoing := fs.Bool("keep-going", false, "Continue past failed renames and report them at the end")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: namescrub [flags] <root-path>")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitcodes.Success
		}
		return exitcodes.Usage
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(stderr, "ERROR: expected exactly one root path, got %d\n", fs.NArg())
		fs.Usage()
		return exitcodes.Usage
	}
	root := fs.Arg(0)

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "ERROR: Failed to load config: %v\n", err)
			return exitcodes.Usage
		}
		cfg = loaded
	}
	if err := cfg.Override(*target, *keepGoing); err != nil {
		fmt.Fprintf(stderr, "ERROR: Invalid configuration: %v\n", err)
		return exitcodes.Usage
	}

	// An unusable root must not leave a log file or history behind
	if _, err := safety.ValidateRoot(root); err != nil {
		fmt.Fprintf(stderr, "ERROR: %v\n", err)
		return exitcodes.InvalidPath
	}

	logger := logging.NewWithWriter(stderr, cfg)

	var db *database.RenameDB
	if cfg.DatabasePath != "" {
		var err error
		db, err = database.NewRenameDB(cfg.DatabasePath)
		if err != nil {
			logger.Printf("ERROR: Failed to open database: %v", err)
			return exitcodes.RuntimeError
		}
		defer func() {
			if err := db.Close(); err != nil {
				logger.Printf("ERROR: Failed to close database: %v", err)
			}
		}()
	}

	_, err := job.RunOnce(cfg, root, logger, db)
	return exitCode(err, logger)
}

// exitCode maps a run error onto the exit code contract
func exitCode(err error, logger *log.Logger) int {
	if err == nil {
		return exitcodes.Success
	}

	var pathErr *safety.PathError
	if errors.As(err, &pathErr) {
		logger.Printf("ERROR: %v", err)
		return exitcodes.InvalidPath
	}

	var renameErr *rename.RenameError
	if errors.As(err, &renameErr) {
		logger.Printf("ERROR: %v", err)
		return exitcodes.RenameFailed
	}

	logger.Printf("ERROR: Run failed: %v", err)
	return exitcodes.RuntimeError
}
