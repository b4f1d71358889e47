package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/tidy/pkg/tidy/config"
	"github.com/jamesainslie/tidy/pkg/tidy/manifest"
	"github.com/jamesainslie/tidy/pkg/tidy/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View run history",
	Long: `View the history of organize runs.

Every live run records which files were moved and which duplicates were
deleted, so past operations can be reviewed.`,
	RunE: runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show details of a specific run",
	Long:  `Display detailed information about a specific run by its ID.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean up old history entries",
	Long:  `Remove history entries older than the retention period.`,
	RunE:  runHistoryClean,
}

var historyLimit int

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "maximum number of entries to show")

	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyCleanCmd)
	rootCmd.AddCommand(historyCmd)
}

// getManifest returns a manifest instance with the configured directory.
func getManifest() (*manifest.Manifest, error) {
	cfg, err := config.Load()
	if err != nil {
		// Use default history path if config fails to load
		historyDir, dirErr := config.HistoryDir()
		if dirErr != nil {
			return nil, fmt.Errorf("failed to get history directory: %w", dirErr)
		}
		return manifest.New(historyDir)
	}

	return manifest.New(cfg.History.Path)
}

// runHistory lists recent runs.
func runHistory(cmd *cobra.Command, args []string) error {
	m, err := getManifest()
	if err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}

	entries, err := m.List(historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	if len(entries) == 0 {
		printInfo("No history entries found.")
		printInfo("Run 'tidy [path]' to organize a directory.")
		return nil
	}

	fmt.Printf("\n%-44s  %-8s  %-8s  %-12s\n", "ID", "MOVED", "DELETED", "RECLAIMED")
	fmt.Println(strings.Repeat("-", 80))

	for _, entry := range entries {
		fmt.Printf("%-44s  %-8d  %-8d  %-12s\n",
			truncateString(entry.ID, 44),
			entry.Summary.FilesMoved,
			entry.Summary.FilesDeleted,
			types.FormatSize(entry.Summary.BytesReclaimed),
		)
	}

	fmt.Println(strings.Repeat("-", 80))
	fmt.Printf("\nShowing %d entries. Use --limit to see more.\n", len(entries))
	fmt.Println("Use 'tidy history show <id>' for details on a specific run.")

	return nil
}

// runHistoryShow displays details of a specific run.
func runHistoryShow(cmd *cobra.Command, args []string) error {
	id := args[0]

	m, err := getManifest()
	if err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}

	entry, err := m.Get(id)
	if err != nil {
		return fmt.Errorf("failed to get entry: %w", err)
	}

	fmt.Println("\nRun Details")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("ID:         %s\n", entry.ID)
	fmt.Printf("Time:       %s\n", entry.Timestamp.Format("2006-01-02 15:04:05 MST"))
	fmt.Printf("Source:     %s\n", entry.Source)
	fmt.Printf("Dry run:    %t\n", entry.DryRun)
	fmt.Printf("By date:    %t\n", entry.ByDate)
	fmt.Printf("Moved:      %d files (%s)\n",
		entry.Summary.FilesMoved, types.FormatSize(entry.Summary.BytesMoved))
	fmt.Printf("Deleted:    %d duplicates (%s reclaimed)\n",
		entry.Summary.FilesDeleted, types.FormatSize(entry.Summary.BytesReclaimed))

	if len(entry.Moves) > 0 {
		fmt.Println("\nMoves:")
		for _, mv := range entry.Moves {
			fmt.Printf("  %s -> %s (%s, %s)\n",
				mv.From, mv.To, mv.Category, types.FormatSize(mv.Size))
		}
	}

	if len(entry.Deletes) > 0 {
		fmt.Println("\nDeleted duplicates:")
		for _, del := range entry.Deletes {
			fmt.Printf("  %s (kept %s, %s)\n",
				del.Path, del.Canonical, types.FormatSize(del.Size))
		}
	}

	return nil
}

// runHistoryClean removes old history entries.
func runHistoryClean(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	m, err := getManifest()
	if err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}

	if err := m.Cleanup(cfg.History.RetentionDays); err != nil {
		return fmt.Errorf("failed to clean history: %w", err)
	}

	printInfo("Removed entries older than %d days.", cfg.History.RetentionDays)
	return nil
}

// truncateString shortens a string to at most n characters.
func truncateString(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
