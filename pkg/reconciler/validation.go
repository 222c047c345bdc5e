package reconciler

import (
	"fmt"

	"github.com/Igorvich/huizen-holland/pkg/codes"
	"github.com/Igorvich/huizen-holland/pkg/records"
)

// ValidationResult represents the result of validating a reconciled store.
type ValidationResult struct {
	Valid    bool
	Errors   []ValidationIssue
	Warnings []ValidationIssue
}

// ValidationIssue describes one record that breaks or weakens the output.
type ValidationIssue struct {
	RecordID string
	Link     string
	Year     int
	Message  string
}

// Validate checks that every record sits on one leaf code and carries a
// provenance tag. Records without houses are reported as warnings.
func Validate(store *records.Store, h *codes.Hierarchy) *ValidationResult {
	v := &ValidationResult{Valid: true}
	for _, r := range store.List() {
		issue := ValidationIssue{RecordID: r.ID.String(), Link: r.Link(), Year: r.Year}
		switch {
		case r.Ambiguous():
			issue.Message = fmt.Sprintf("record carries %d codes", len(r.Codes))
			v.Errors = append(v.Errors, issue)
		case h.Kind(r.Code()) != codes.KindLeaf:
			issue.Message = fmt.Sprintf("code %s is not a leaf", r.Code())
			v.Errors = append(v.Errors, issue)
		case !r.Tag.Valid():
			issue.Message = fmt.Sprintf("record has no valid provenance tag (%q)", r.Tag)
			v.Errors = append(v.Errors, issue)
		case !r.Houses.Valid:
			issue.Message = "record has no house count"
			v.Warnings = append(v.Warnings, issue)
		}
	}
	v.Valid = len(v.Errors) == 0
	return v
}

// IsValid returns true if validation passed.
func (v *ValidationResult) IsValid() bool {
	return v.Valid && len(v.Errors) == 0
}

// HasWarnings returns true if there are warnings.
func (v *ValidationResult) HasWarnings() bool {
	return len(v.Warnings) > 0
}

// String returns a string representation of the validation result.
func (v *ValidationResult) String() string {
	if v.IsValid() {
		if v.HasWarnings() {
			return fmt.Sprintf("Validation passed with %d warnings", len(v.Warnings))
		}
		return "Validation passed"
	}
	return fmt.Sprintf("Validation failed with %d errors", len(v.Errors))
}
