package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/tidy/pkg/tidy/config"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "tidy [path]",
		Short: "Organize a directory into categorized subfolders",
		Long: `Tidy organizes the files of a directory into categorized subdirectories
under <path>/Organized/, removes content-identical duplicates, and writes
JSON and HTML reports of every run.

Files are categorized by extension (Images, Documents, Music, ...);
anything unrecognized lands in "Other". Duplicate detection is
content-based: the earliest copy is kept, the rest are removed.

Examples:
  tidy                       # Organize the configured source (default ~/Downloads)
  tidy ~/Downloads           # Organize a specific directory
  tidy -d ~/Downloads        # Dry run: report what would happen, touch nothing
  tidy -b ~/Downloads        # Group category folders by year-month
  tidy -o json .             # Print the machine-readable report to stdout
  tidy config show           # Show configuration
  tidy history               # View past runs`,
		Args: cobra.MaximumNArgs(1),
		RunE: runOrganize,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/tidy/config.yaml)")
	rootCmd.PersistentFlags().BoolP("dry-run", "d", false, "compute and report all actions without moving or deleting files")
	rootCmd.PersistentFlags().BoolP("by-date", "b", false, "add YYYY-MM subfolders below each category")
	rootCmd.PersistentFlags().StringP("output", "o", "pretty", "summary format (pretty, plain, json, html, markdown)")
	rootCmd.PersistentFlags().Int("top", 0, "entries in the largest/oldest report sections (0=config default)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug output")

	_ = viper.BindPFlag("dry_run", rootCmd.PersistentFlags().Lookup("dry-run"))
	_ = viper.BindPFlag("by_date", rootCmd.PersistentFlags().Lookup("by-date"))
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("top", rootCmd.PersistentFlags().Lookup("top"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and environment variables.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")

		// Add config paths in order of precedence
		if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
			viper.AddConfigPath(filepath.Join(xdgConfigHome, "tidy"))
		}

		homeDir, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(homeDir, ".config", "tidy"))
		}
	}

	viper.SetEnvPrefix("TIDY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	config.SetDefaults(viper.GetViper())

	// Read config file (ignore if not found)
	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// getVerbose returns true if verbose mode is enabled.
func getVerbose() bool {
	return viper.GetBool("verbose")
}

// getQuiet returns true if quiet mode is enabled.
func getQuiet() bool {
	return viper.GetBool("quiet")
}

// printInfo prints a message if quiet mode is not enabled.
func printInfo(format string, args ...interface{}) {
	if !getQuiet() {
		fmt.Printf(format+"\n", args...)
	}
}

// printError prints an error message to stderr.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
