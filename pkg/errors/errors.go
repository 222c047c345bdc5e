// Package errors provides custom error types for the huizen reconciliation system.
// These errors enable programmatic error checking with errors.Is/errors.As and
// carry the diagnostic fields needed to explain why a run stopped.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is and As are the standard library functions, re-exported so callers need
// only one errors import.
var (
	Is = errors.Is
	As = errors.As
)

// Common sentinel errors for the huizen system
var (
	// ErrNotFound indicates that a requested record or code was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrMalformedCode indicates a code that violates the length/prefix convention
	ErrMalformedCode = errors.New("malformed code")

	// ErrNonConvergence indicates the reconciliation loop hit its iteration cap
	ErrNonConvergence = errors.New("reconciliation did not converge")

	// ErrApportionmentGap indicates a record no strategy could apportion
	ErrApportionmentGap = errors.New("apportionment gap")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")
)

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// MalformedCodeError reports a code that breaks the prefix/length convention.
// It is fatal: a run with malformed codes is aborted before the engine starts.
type MalformedCodeError struct {
	Code   string
	Reason string
}

// Error implements the error interface
func (e *MalformedCodeError) Error() string {
	return fmt.Sprintf("malformed code %q: %s", e.Code, e.Reason)
}

// Is implements errors.Is support
func (e *MalformedCodeError) Is(target error) bool {
	return target == ErrMalformedCode || target == ErrInvalidInput
}

// NewMalformedCodeError creates a new MalformedCodeError
func NewMalformedCodeError(code, reason string) *MalformedCodeError {
	return &MalformedCodeError{Code: code, Reason: reason}
}

// NonConvergenceError is returned when the fixed-point loop exceeds its
// iteration cap. Ambiguous is the last observed count of multi-code records.
type NonConvergenceError struct {
	Phase      string
	Iterations int
	Ambiguous  int
}

// Error implements the error interface
func (e *NonConvergenceError) Error() string {
	phase := e.Phase
	if phase == "" {
		phase = "reconcile"
	}
	return fmt.Sprintf("%s did not converge after %d iterations (%d ambiguous records left)", phase, e.Iterations, e.Ambiguous)
}

// Is implements errors.Is support
func (e *NonConvergenceError) Is(target error) bool {
	return target == ErrNonConvergence
}

// NewNonConvergenceError creates a new NonConvergenceError
func NewNonConvergenceError(phase string, iterations, ambiguous int) *NonConvergenceError {
	return &NonConvergenceError{Phase: phase, Iterations: iterations, Ambiguous: ambiguous}
}

// ApportionmentGap records a record that could not be apportioned. It is not
// fatal; the engine collects gaps in its result and carries on.
type ApportionmentGap struct {
	RecordID string
	Year     int
	Codes    []string
	Reason   string
}

// Error implements the error interface
func (e *ApportionmentGap) Error() string {
	return fmt.Sprintf("record %s (%d, %s) not apportioned: %s", e.RecordID, e.Year, strings.Join(e.Codes, "-"), e.Reason)
}

// Is implements errors.Is support
func (e *ApportionmentGap) Is(target error) bool {
	return target == ErrApportionmentGap
}

// NewApportionmentGap creates a new ApportionmentGap
func NewApportionmentGap(recordID string, year int, codes []string, reason string) *ApportionmentGap {
	return &ApportionmentGap{RecordID: recordID, Year: year, Codes: codes, Reason: reason}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "csv", "number", "yaml"
	File    string
	Line    int
	Column  int
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("parse error in %s at %s:%d:%d: %s", e.Format, e.File, e.Line, e.Column, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s parse error on line %d: %s", e.Format, e.Line, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ParseError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewParseError creates a new ParseError
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "open", "close"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// ResourceError represents an error during resource operations
type ResourceError struct {
	Operation string // "load", "create", "write"
	Resource  string // "config", "records", "areas", "report"
	ID        string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ResourceError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("failed to %s %s %s: %s", e.Operation, e.Resource, e.ID, e.Message)
	}
	return fmt.Sprintf("failed to %s %s: %s", e.Operation, e.Resource, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ResourceError) Unwrap() error {
	return e.Err
}

// NewResourceError creates a new ResourceError
func NewResourceError(operation, resource, id string, err error) *ResourceError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ResourceError{
		Operation: operation,
		Resource:  resource,
		ID:        id,
		Message:   message,
		Err:       err,
	}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsMalformedCode checks if an error is a malformed code error
func IsMalformedCode(err error) bool {
	return errors.Is(err, ErrMalformedCode)
}

// IsNonConvergence checks if an error reports a non-converging run
func IsNonConvergence(err error) bool {
	return errors.Is(err, ErrNonConvergence)
}

// IsApportionmentGap checks if an error is an apportionment gap
func IsApportionmentGap(err error) bool {
	return errors.Is(err, ErrApportionmentGap)
}

// IsCanceled checks if an error is a cancellation error
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// Helper wrapping functions for common patterns

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapResource wraps an error as a ResourceError
func WrapResource(operation, resource, id string, err error) error {
	if err == nil {
		return nil
	}
	return NewResourceError(operation, resource, id, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}
