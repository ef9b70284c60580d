package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Error types for the syntaxpresso core
type ErrorType string

const (
	// Source errors
	ErrorTypeParse    ErrorType = "parse_failure"
	ErrorTypeQuery    ErrorType = "query"
	ErrorTypeNotFound ErrorType = "semantic_node_not_found"

	// Request errors
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypePathSecurity ErrorType = "path_security_violation"

	// Edit errors
	ErrorTypeInvalidOffset ErrorType = "invalid_offset"
	ErrorTypePartial       ErrorType = "partial_failure"

	// File errors
	ErrorTypeFile       ErrorType = "file"
	ErrorTypePermission ErrorType = "permission"

	// Configuration errors
	ErrorTypeConfig ErrorType = "config"

	// Internal errors
	ErrorTypeInternal ErrorType = "internal"
)

// kinded is implemented by every error in this package.
type kinded interface {
	Kind() ErrorType
}

// KindOf returns the machine-checkable kind of err, or ErrorTypeInternal
// when err does not carry one.
func KindOf(err error) ErrorType {
	if err == nil {
		return ""
	}
	var k kinded
	if errors.As(err, &k) {
		return k.Kind()
	}
	return ErrorTypeInternal
}

// ParseError reports a buffer the grammar could not turn into a tree
type ParseError struct {
	FilePath   string
	Reason     string
	Underlying error
	Timestamp  time.Time
}

// NewParseError creates a new parse error
func NewParseError(path, reason string, err error) *ParseError {
	return &ParseError{
		FilePath:   path,
		Reason:     reason,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

func (e *ParseError) Kind() ErrorType { return ErrorTypeParse }

// Error implements the error interface
func (e *ParseError) Error() string {
	target := e.FilePath
	if target == "" {
		target = "<buffer>"
	}
	if e.Underlying != nil {
		return fmt.Sprintf("parse failure for %s: %s: %v", target, e.Reason, e.Underlying)
	}
	return fmt.Sprintf("parse failure for %s: %s", target, e.Reason)
}

// Unwrap returns the underlying error
func (e *ParseError) Unwrap() error {
	return e.Underlying
}

// QueryError represents a structural query that could not be compiled or run
type QueryError struct {
	Query      string
	Underlying error
}

// NewQueryError creates a new query error
func NewQueryError(query string, err error) *QueryError {
	return &QueryError{Query: query, Underlying: err}
}

func (e *QueryError) Kind() ErrorType { return ErrorTypeQuery }

// Error implements the error interface
func (e *QueryError) Error() string {
	return fmt.Sprintf("query %q failed: %v", e.Query, e.Underlying)
}

// Unwrap returns the underlying error
func (e *QueryError) Unwrap() error {
	return e.Underlying
}

// NotFoundError reports an expected construct that is absent from a file
type NotFoundError struct {
	Construct string
	FilePath  string
}

// NewNotFoundError creates a new semantic-node-not-found error
func NewNotFoundError(construct, path string) *NotFoundError {
	return &NotFoundError{Construct: construct, FilePath: path}
}

func (e *NotFoundError) Kind() ErrorType { return ErrorTypeNotFound }

// Error implements the error interface
func (e *NotFoundError) Error() string {
	if e.FilePath != "" {
		return fmt.Sprintf("%s not found in %s", e.Construct, e.FilePath)
	}
	return fmt.Sprintf("%s not found", e.Construct)
}

// ValidationError reports a request value that violates a naming or shape rule
type ValidationError struct {
	Field string
	Value string
	Rule  string
}

// NewValidationError creates a new validation error
func NewValidationError(field, value, rule string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Rule: rule}
}

func (e *ValidationError) Kind() ErrorType { return ErrorTypeValidation }

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Rule)
}

// PathSecurityError reports an edit target outside the working-directory root
type PathSecurityError struct {
	Path string
	Root string
}

// NewPathSecurityError creates a new path security error
func NewPathSecurityError(path, root string) *PathSecurityError {
	return &PathSecurityError{Path: path, Root: root}
}

func (e *PathSecurityError) Kind() ErrorType { return ErrorTypePathSecurity }

// Error implements the error interface
func (e *PathSecurityError) Error() string {
	return fmt.Sprintf("path %s is outside of working directory %s", e.Path, e.Root)
}

// InvalidOffsetError is an internal invariant violation in the patch engine.
// Correct insertion-point computation never produces one.
type InvalidOffsetError struct {
	Offset int
	Length int
}

// NewInvalidOffsetError creates a new invalid offset error
func NewInvalidOffsetError(offset, length int) *InvalidOffsetError {
	return &InvalidOffsetError{Offset: offset, Length: length}
}

func (e *InvalidOffsetError) Kind() ErrorType { return ErrorTypeInvalidOffset }

// Error implements the error interface
func (e *InvalidOffsetError) Error() string {
	return fmt.Sprintf("edit offset %d outside of source [0, %d]", e.Offset, e.Length)
}

// SideFailure describes one side of a two-file edit
type SideFailure struct {
	Side    string
	Updated bool
	Err     error
}

// PartialFailureError reports a two-file edit where one side was written
// and the other was not. Nothing is rolled back.
type PartialFailureError struct {
	Sides  []SideFailure
	Detail any
}

// NewPartialFailureError creates a new partial failure error
func NewPartialFailureError(detail any, sides ...SideFailure) *PartialFailureError {
	return &PartialFailureError{Sides: sides, Detail: detail}
}

func (e *PartialFailureError) Kind() ErrorType { return ErrorTypePartial }

// Error implements the error interface
func (e *PartialFailureError) Error() string {
	parts := make([]string, 0, len(e.Sides))
	for _, s := range e.Sides {
		if s.Updated {
			parts = append(parts, s.Side+" side updated")
			continue
		}
		if s.Err != nil {
			parts = append(parts, fmt.Sprintf("%s side failed: %v", s.Side, s.Err))
		} else {
			parts = append(parts, s.Side+" side not updated")
		}
	}
	return "partial failure: " + strings.Join(parts, "; ")
}

// Unwrap returns the per-side errors
func (e *PartialFailureError) Unwrap() []error {
	out := make([]error, 0, len(e.Sides))
	for _, s := range e.Sides {
		if s.Err != nil {
			out = append(out, s.Err)
		}
	}
	return out
}

// FileError represents a file-related error
type FileError struct {
	Type       ErrorType
	Path       string
	Operation  string
	Underlying error
	Timestamp  time.Time
}

// NewFileError creates a new file error
func NewFileError(op, path string, err error) *FileError {
	errorType := ErrorTypeFile
	if isPermissionError(err) {
		errorType = ErrorTypePermission
	}

	return &FileError{
		Type:       errorType,
		Path:       path,
		Operation:  op,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// isPermissionError checks if the error is a permission error
func isPermissionError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "permission denied") || strings.Contains(errStr, "access denied") ||
		strings.Contains(errStr, "read-only")
}

func (e *FileError) Kind() ErrorType { return e.Type }

// Error implements the error interface
func (e *FileError) Error() string {
	return fmt.Sprintf("file %s failed for %s: %v", e.Operation, e.Path, e.Underlying)
}

// Unwrap returns the underlying error
func (e *FileError) Unwrap() error {
	return e.Underlying
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field      string
	Value      string
	Underlying error
	Timestamp  time.Time
}

// NewConfigError creates a new config error
func NewConfigError(field, value string, err error) *ConfigError {
	return &ConfigError{
		Field:      field,
		Value:      value,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

func (e *ConfigError) Kind() ErrorType { return ErrorTypeConfig }

// Error implements the error interface
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error for field %s (value %s): %v", e.Field, e.Value, e.Underlying)
}

// Unwrap returns the underlying error
func (e *ConfigError) Unwrap() error {
	return e.Underlying
}
