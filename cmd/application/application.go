// Package application provides the application interface for huizen commands.
//
// Commands accept this interface rather than the concrete App type so they
// can be tested with Mock:
//
//	mock := &application.Mock{
//	    SettingsFunc: func() application.Settings {
//	        return application.Settings{Input: "testdata/records.csv"}
//	    },
//	}
//	cmd := reconcile.NewCommand(mock)
package application

import (
	"github.com/rs/zerolog"
)

// Application provides what commands need from the application.
type Application interface {
	// Settings returns the run settings resolved from config file,
	// environment and .env files. Command flags override them.
	Settings() Settings

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml).
	OutputFormat() string

	// NoColor reports whether colored output is disabled.
	NoColor() bool

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}

// Settings are the defaults for a reconcile run.
type Settings struct {
	Input         string `json:"input" yaml:"input"`
	Areas         string `json:"areas" yaml:"areas"`
	ValuesOut     string `json:"values_out" yaml:"values_out"`
	NotesOut      string `json:"notes_out" yaml:"notes_out"`
	Workbook      string `json:"workbook" yaml:"workbook"`
	Report        string `json:"report" yaml:"report"`
	Provenance    string `json:"provenance" yaml:"provenance"`
	Locale        string `json:"locale" yaml:"locale"`
	Labels        string `json:"labels" yaml:"labels"`
	MaxIterations int    `json:"max_iterations" yaml:"max_iterations"`
}
