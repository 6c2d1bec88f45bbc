// Package errors provides centralized error definitions and error handling
// utilities for the Turnip codebase. It defines domain-specific errors,
// semantic error types, error constructors with context wrapping, and error
// classification helpers.
//
// # Error Types
//
// The package provides two categories of errors:
//
// Domain-specific errors represent errors from specific subsystems:
//   - TabError: errors related to the tab ordering store
//   - SessionError: errors related to workspace session files
//   - FileError: errors related to loading and saving documents
//
// Semantic errors represent common error conditions:
//   - NotFoundError: resource not found
//   - ValidationError: invalid input or state
//
// # Usage
//
// Creating errors:
//
//	// Domain-specific error
//	err := errors.NewSessionError("failed to load group", errors.ErrBadFormat)
//
//	// With context wrapping
//	err := errors.NewFileError("open failed", baseErr).WithPath("/tmp/a.txt")
//
// Checking errors:
//
//	// Check for specific sentinel errors
//	if errors.Is(err, errors.ErrTooLarge) { ... }
//
//	// Use classification helpers
//	if errors.IsUserFacing(err) { ... }
//
// # Error Classification
//
// Errors can be classified by severity and behavior:
//   - UserFacing: errors safe to display to users (vs internal errors)
//   - Severity: Debug, Info, Warning, Error, Critical
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
	// SeverityCritical is for errors that require immediate attention.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// File-related sentinel errors
var (
	// ErrFileNotFound indicates that a file path no longer exists on disk.
	ErrFileNotFound = New("file not found")
	// ErrBadEncoding indicates that file content is not valid UTF-8.
	ErrBadEncoding = New("file is not valid UTF-8")
	// ErrTooLarge indicates that a file exceeds the hard size cap.
	ErrTooLarge = New("file exceeds size limit")
	// ErrNeedsConfirm indicates that a file exceeds the soft size cap and the
	// user must confirm before it is read.
	ErrNeedsConfirm = New("file requires confirmation before loading")
	// ErrMountUnreachable indicates that the network mount holding a file is
	// not currently accessible.
	ErrMountUnreachable = New("network mount is not accessible")
)

// Session-related sentinel errors
var (
	// ErrBadFormat indicates that a session file has an unrecognized root tag
	// or version, or its structure is otherwise unrecoverable.
	ErrBadFormat = New("unrecognized session file format")
	// ErrSessionNotFound indicates that a session file could not be found.
	ErrSessionNotFound = New("session file not found")
)

// Tab-related sentinel errors
var (
	// ErrTabNotFound indicates that a record is not present in the store.
	ErrTabNotFound = New("tab not found")
	// ErrNoActiveTab indicates that no record is currently active.
	ErrNoActiveTab = New("no active tab")
)

// General sentinel errors
var (
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// TurnipError is the base interface for all Turnip errors.
// It extends the standard error interface with additional methods for
// error handling and classification.
type TurnipError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Is reports whether this error matches the target error.
	Is(target error) bool

	// Severity returns the severity level of this error.
	Severity() Severity

	// IsUserFacing returns true if the error message is safe to display
	// to end users.
	IsUserFacing() bool
}

// -----------------------------------------------------------------------------
// Base Error Implementation
// -----------------------------------------------------------------------------

// baseError provides common functionality for all error types.
type baseError struct {
	message    string
	cause      error
	severity   Severity
	userFacing bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsUserFacing returns whether the error is safe to show users.
func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// -----------------------------------------------------------------------------
// Domain-Specific Errors
// -----------------------------------------------------------------------------

// TabError represents errors related to the tab ordering store.
//
// Example:
//
//	err := errors.NewTabError("cannot reorder", errors.ErrTabNotFound)
//	err = err.WithPath("/notes/todo.md")
type TabError struct {
	baseError
	Path string
}

// NewTabError creates a new TabError.
func NewTabError(message string, cause error) *TabError {
	return &TabError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityWarning,
			userFacing: true,
		},
	}
}

// WithPath adds the record's file path to the error context.
func (e *TabError) WithPath(path string) *TabError {
	e.Path = path
	return e
}

// WithSeverity sets the error severity.
func (e *TabError) WithSeverity(s Severity) *TabError {
	e.severity = s
	return e
}

// Error returns the formatted error message.
func (e *TabError) Error() string {
	prefix := "tab error"
	if e.Path != "" {
		prefix = fmt.Sprintf("tab error [path=%s]", e.Path)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *TabError) Is(target error) bool {
	if _, ok := target.(*TabError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// SessionError represents errors related to workspace session files.
//
// Example:
//
//	err := errors.NewSessionError("failed to decode group", errors.ErrBadFormat)
//	err = err.WithFile("/notes/work.tabs")
type SessionError struct {
	baseError
	File string
}

// NewSessionError creates a new SessionError.
func NewSessionError(message string, cause error) *SessionError {
	return &SessionError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			userFacing: true,
		},
	}
}

// WithFile adds the session file path to the error context.
func (e *SessionError) WithFile(file string) *SessionError {
	e.File = file
	return e
}

// WithSeverity sets the error severity.
func (e *SessionError) WithSeverity(s Severity) *SessionError {
	e.severity = s
	return e
}

// Error returns the formatted error message.
func (e *SessionError) Error() string {
	prefix := "session error"
	if e.File != "" {
		prefix = fmt.Sprintf("session error [file=%s]", e.File)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *SessionError) Is(target error) bool {
	if _, ok := target.(*SessionError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// FileError represents errors related to loading and saving documents.
//
// Example:
//
//	err := errors.NewFileError("refusing to load", errors.ErrTooLarge)
//	err = err.WithPath("/data/dump.log").WithSize(210 << 20)
type FileError struct {
	baseError
	Path string
	Size int64 // Bytes, 0 when unknown
}

// NewFileError creates a new FileError.
func NewFileError(message string, cause error) *FileError {
	return &FileError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			userFacing: true,
		},
	}
}

// WithPath adds the file path to the error context.
func (e *FileError) WithPath(path string) *FileError {
	e.Path = path
	return e
}

// WithSize adds the file size in bytes to the error context.
func (e *FileError) WithSize(size int64) *FileError {
	e.Size = size
	return e
}

// WithSeverity sets the error severity.
func (e *FileError) WithSeverity(s Severity) *FileError {
	e.severity = s
	return e
}

// Error returns the formatted error message.
func (e *FileError) Error() string {
	var parts []string
	if e.Path != "" {
		parts = append(parts, fmt.Sprintf("path=%s", e.Path))
	}
	if e.Size > 0 {
		parts = append(parts, fmt.Sprintf("size=%.1fMB", float64(e.Size)/(1024*1024)))
	}

	prefix := "file error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("file error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *FileError) Is(target error) bool {
	if _, ok := target.(*FileError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// NotFoundError represents a resource that could not be found.
//
// Example:
//
//	err := errors.NewNotFoundError("group", "/notes/work.tabs")
//	fmt.Println(err) // "group '/notes/work.tabs' not found"
type NotFoundError struct {
	baseError
	ResourceType string
	ResourceID   string
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resourceType, resourceID string) *NotFoundError {
	return &NotFoundError{
		baseError: baseError{
			message:    fmt.Sprintf("%s '%s' not found", resourceType, resourceID),
			severity:   SeverityWarning,
			userFacing: true,
		},
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}
}

// WithCause adds a cause to the error.
func (e *NotFoundError) WithCause(cause error) *NotFoundError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *NotFoundError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s '%s' not found: %v", e.ResourceType, e.ResourceID, e.cause)
	}
	return fmt.Sprintf("%s '%s' not found", e.ResourceType, e.ResourceID)
}

// Is checks if this error matches the target.
func (e *NotFoundError) Is(target error) bool {
	if _, ok := target.(*NotFoundError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// ValidationError represents invalid input or state.
//
// Example:
//
//	err := errors.NewValidationError("record path cannot be empty")
//	err = err.WithField("path")
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:    message,
			severity:   SeverityWarning,
			userFacing: true,
		},
	}
}

// WithField adds a field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue adds the invalid value to the error context.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// WithCause adds a cause to the error.
func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}

	prefix := "validation error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("validation error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	if errors.Is(target, ErrInvalidInput) {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Error Classification Helpers
// -----------------------------------------------------------------------------

// IsUserFacing returns true if the error message is safe to display to end
// users. This checks for:
//   - Errors implementing TurnipError with IsUserFacing() returning true
//   - Semantic errors (NotFoundError, ValidationError)
//
// Example:
//
//	if errors.IsUserFacing(err) {
//	    notify(err.Error())
//	} else {
//	    notify("An internal error occurred")
//	    log.Error("internal error", "err", err)
//	}
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}

	var turnipErr TurnipError
	if As(err, &turnipErr) {
		return turnipErr.IsUserFacing()
	}

	var notFound *NotFoundError
	var validation *ValidationError
	if As(err, &notFound) || As(err, &validation) {
		return true
	}

	return false
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement TurnipError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}

	var turnipErr TurnipError
	if As(err, &turnipErr) {
		return turnipErr.Severity()
	}

	return SeverityError
}

// IsDomainError returns true if the error is a domain-specific error
// (TabError, SessionError, or FileError).
func IsDomainError(err error) bool {
	if err == nil {
		return false
	}

	var tabErr *TabError
	var sessionErr *SessionError
	var fileErr *FileError

	return As(err, &tabErr) || As(err, &sessionErr) || As(err, &fileErr)
}

// -----------------------------------------------------------------------------
// Convenience Constructors
// -----------------------------------------------------------------------------

// Wrap wraps an error with additional context message.
//
// Example:
//
//	err := errors.Wrap(baseErr, "failed to restore session")
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
//
// Example:
//
//	err := errors.Wrapf(baseErr, "failed to open %s", path)
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
