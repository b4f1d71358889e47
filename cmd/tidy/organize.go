package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/tidy/pkg/tidy/config"
	"github.com/jamesainslie/tidy/pkg/tidy/logging"
	"github.com/jamesainslie/tidy/pkg/tidy/manifest"
	"github.com/jamesainslie/tidy/pkg/tidy/organizer"
	"github.com/jamesainslie/tidy/pkg/tidy/output"
	"github.com/jamesainslie/tidy/pkg/tidy/report"
	"github.com/jamesainslie/tidy/pkg/tidy/types"
)

// runOrganize is the main organize command handler.
func runOrganize(_ *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := initLogging(cfg); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer func() { _ = logging.Close() }()

	// Determine source path: argument wins over configuration.
	sourcePath := cfg.SourceDir
	if len(args) > 0 {
		sourcePath = args[0]
	}

	expandedPath, err := config.ExpandPath(sourcePath)
	if err != nil {
		return fmt.Errorf("failed to expand path: %w", err)
	}

	absPath, err := filepath.Abs(expandedPath)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("path does not exist: %s", absPath)
		}
		return fmt.Errorf("cannot access path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", absPath)
	}

	dryRun := viper.GetBool("dry_run")
	byDate := viper.GetBool("by_date")
	table := cfg.CategoryTable()

	run, err := organizer.Organize(organizer.Options{
		SourceDir: absPath,
		Table:     table,
		Exclude:   cfg.Exclude,
		DryRun:    dryRun,
		ByDate:    byDate,
	})
	if err != nil {
		printError("%v", err)
		return err
	}

	topN := viper.GetInt("top")
	if topN <= 0 {
		topN = cfg.Report.TopN
	}
	rep := report.Build(run, table.Categories(), topN)

	// Report files and history are written only when the filesystem was
	// actually mutated.
	var reportPaths []string
	if !dryRun {
		reportPaths, err = output.WriteReportFiles(rep, run.OrganizedRoot)
		if err != nil {
			printError("failed to write report files: %v", err)
			return err
		}

		if cfg.History.Enabled {
			recordHistory(cfg, run, rep)
		}
	}

	if err := printSummary(rep); err != nil {
		return err
	}

	for _, path := range reportPaths {
		printInfo("Report: %s", path)
	}

	return nil
}

// printSummary renders the report in the selected format to stdout.
func printSummary(rep *report.RunReport) error {
	format := viper.GetString("output")
	if getQuiet() && format == "pretty" {
		format = "plain"
	}

	formatter, err := output.Get(format)
	if err != nil {
		return fmt.Errorf("%w (available: %v)", err, output.Available())
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, rep); err != nil {
		return fmt.Errorf("formatting summary: %w", err)
	}

	fmt.Print(buf.String())
	return nil
}

// recordHistory appends the run to the history manifest. Failures are
// logged and do not fail the run.
func recordHistory(cfg *config.Config, run *organizer.Run, rep *report.RunReport) {
	logger := logging.Get("manifest")

	m, err := manifest.New(cfg.History.Path)
	if err != nil {
		logger.Warn("history disabled", "error", err)
		return
	}
	if err := m.EnsureDir(); err != nil {
		logger.Warn("cannot create history directory", "error", err)
		return
	}

	entry := manifest.Entry{
		RunID:  rep.Meta.RunID,
		Source: run.SourceDir,
		DryRun: run.DryRun,
		ByDate: run.ByDate,
	}

	for _, rec := range run.Records {
		switch rec.Disposition {
		case types.DispositionMoved:
			entry.Moves = append(entry.Moves, manifest.MoveRecord{
				From:     rec.Path,
				To:       rec.DestPath,
				Category: rec.Category,
				Size:     rec.Size,
			})
		case types.DispositionDeletedDuplicate:
			entry.Deletes = append(entry.Deletes, manifest.DeleteRecord{
				Path:      rec.Path,
				Canonical: rec.DuplicateOf,
				Digest:    rec.Digest,
				Size:      rec.Size,
			})
		}
	}

	if _, err := m.LogRun(entry); err != nil {
		logger.Warn("failed to record run history", "error", err)
		return
	}

	if cfg.History.RetentionDays > 0 {
		if err := m.Cleanup(cfg.History.RetentionDays); err != nil {
			logger.Warn("history cleanup failed", "error", err)
		}
	}
}

// initLogging configures the logging system from config and flags.
func initLogging(cfg *config.Config) error {
	maxSize, err := types.ParseSize(cfg.Logging.Rotation.MaxSize)
	if err != nil {
		maxSize = 0 // writer applies its default
	}

	consoleLevel := ""
	switch {
	case getQuiet():
		// No console logging; the summary is the only output.
	case getVerbose():
		consoleLevel = "debug"
	default:
		consoleLevel = "warn"
	}

	return logging.Init(logging.Config{
		Level: cfg.Logging.Level,
		Path:  cfg.Logging.Path,
		Rotation: logging.RotationConfig{
			MaxSize:    maxSize,
			MaxAge:     cfg.Logging.Rotation.MaxAge,
			MaxBackups: cfg.Logging.Rotation.MaxBackups,
			Daily:      cfg.Logging.Rotation.Daily,
		},
		Components:   cfg.Logging.Components,
		ConsoleLevel: consoleLevel,
	})
}
