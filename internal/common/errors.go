// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Parsing errors.
	ErrInvalidFormat = errors.New("invalid format")

	// Database errors.
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEntry = errors.New("duplicate entry")

	// Import errors.
	ErrNoRecords     = errors.New("no records to compile")
	ErrMissingColumn = errors.New("missing column")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// FormatKind names the grammar category a FormatError was raised for.
type FormatKind string

// Format kinds.
const (
	KindDescription FormatKind = "description"
	KindDuration    FormatKind = "duration"
	KindTime        FormatKind = "time"
	KindMonthDay    FormatKind = "month-day"
	KindWeekday     FormatKind = "weekday"
	KindCalendar    FormatKind = "calendar"
	KindRange       FormatKind = "range"
)

// FormatError reports text that matches no recognized pattern for its category,
// or a well-formed value that is impossible on the clock or calendar.
type FormatError struct {
	Err   error
	Kind  FormatKind
	Token string
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid %s format %q: %v", e.Kind, e.Token, e.Err)
	}
	return fmt.Sprintf("invalid %s format %q", e.Kind, e.Token)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// Is reports every FormatError as ErrInvalidFormat.
func (e *FormatError) Is(target error) bool {
	return target == ErrInvalidFormat
}

// NewFormatError creates a FormatError naming the offending token.
func NewFormatError(kind FormatKind, token string) error {
	return &FormatError{Kind: kind, Token: token}
}

// WrapFormatError creates a FormatError with an underlying cause.
func WrapFormatError(kind FormatKind, token string, err error) error {
	return &FormatError{Kind: kind, Token: token, Err: err}
}

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// IsRetryable determines if an error should trigger a retry.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrDatabaseBusy) {
		return true
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return false
}
