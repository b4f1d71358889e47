// Package config provides configuration management for the tidy file organizer.
package config

// Default configuration values for tidy.
const (
	// DefaultSourceDir is the directory organized when none is specified.
	// The ~ prefix is expanded to the user's home directory.
	DefaultSourceDir = "~/Downloads"

	// OrganizedDirName is the name of the output directory created inside
	// the source directory. It is always excluded from scanning.
	OrganizedDirName = "Organized"

	// DefaultTopN is the number of entries in the largest-files and
	// oldest-files report sections.
	DefaultTopN = 10

	// DefaultHistoryRetentionDays is the default number of days to retain
	// run history entries.
	DefaultHistoryRetentionDays = 30
)

// DefaultExclusions contains file name patterns skipped during scanning
// by default. Hidden files and in-progress downloads are not worth
// organizing.
var DefaultExclusions = []string{
	".*",
	"*.part",
	"*.crdownload",
	"*.download",
}
