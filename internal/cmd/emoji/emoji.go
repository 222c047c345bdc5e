// Package emoji provides symbol constants for CLI output.
package emoji

// Status symbols used in tables and messages.
const (
	// Success marks a completed run or a clean check.
	Success = "✓"

	// Error marks a malformed code or a failed step.
	Error = "✗"

	// Warning marks a run that finished with apportionment gaps.
	Warning = "!"

	// Info marks informational lines.
	Info = "i"
)
