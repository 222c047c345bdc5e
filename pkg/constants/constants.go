// Package constants provides shared constants used throughout the huizen codebase.
// This includes the code convention, arithmetic precision, iteration limits and
// file permissions that must be consistent across the engine and the CLI.
package constants

import "time"

// Code convention constants
const (
	// CodePrefix is the domain prefix of every hierarchical area code
	CodePrefix = "HO"

	// CodePrefixLength is the number of letters in a domain prefix
	CodePrefixLength = 2

	// RootCodeLength is the length of a hierarchy root code; longer codes have a parent
	RootCodeLength = 6

	// LinkSeparator separates the codes of one record in an input link field
	LinkSeparator = "-"
)

// Arithmetic constants
const (
	// DecimalPlaces is the number of decimals apportioned house counts are rounded to
	DecimalPlaces = 3
)

// Limit constants define the iteration caps of the fixed-point loops
const (
	// DefaultMaxIterations caps the outer reconciliation loop
	DefaultMaxIterations = 10000

	// DefaultMaxNormalizeIterations caps the post-convergence normalization loop
	DefaultMaxNormalizeIterations = 1000
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Timeout constants
const (
	// ShutdownTimeout bounds cleanup after a failed command
	ShutdownTimeout = 5 * time.Second
)

// Default file names
const (
	// DefaultValuesFile is the default output path of the value table
	DefaultValuesFile = "values.csv"

	// DefaultNotesFile is the default output path of the provenance table
	DefaultNotesFile = "notes.csv"

	// DefaultLocale is the default number/label locale
	DefaultLocale = "nl"
)

// Format constants
const (
	// TimeFormatISO8601 is the ISO 8601 time format
	TimeFormatISO8601 = time.RFC3339
)
