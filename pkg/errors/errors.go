package errors

import (
	"fmt"
)

const (
	CodeTransport      = "TRANSPORT_ERROR"
	CodeProtocol       = "PROTOCOL_ERROR"
	CodeValidation     = "VALIDATION_ERROR"
	CodeReconciliation = "RECONCILIATION_FAILURE"
	CodeSoftWarning    = "SOFT_WARNING"
	CodeNotFound       = "NOT_FOUND"
	CodeConflict       = "CONFLICT"
	CodeInternal       = "INTERNAL_ERROR"
)

// Severity decides how the run reporter counts a failure and whether the
// surrounding loop keeps going.
type Severity int

const (
	// SeverityWarning is recoverable: counted, logged, the run continues.
	SeverityWarning Severity = iota
	// SeverityError failed one reservation or one property; the run continues
	// with the next item.
	SeverityError
	// SeverityFatal aborts the whole run (configuration-level problems only).
	SeverityFatal
)

type SyncError struct {
	Code     string         `json:"code"`
	Message  string         `json:"message"`
	Severity Severity       `json:"-"`
	Details  map[string]any `json:"details,omitempty"`
	Err      error          `json:"-"`
}

func (e *SyncError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

func (e *SyncError) WithDetails(details map[string]any) *SyncError {
	e.Details = details
	return e
}

func New(code, message string, severity Severity) *SyncError {
	return &SyncError{
		Code:     code,
		Message:  message,
		Severity: severity,
	}
}

func Wrap(err error, code, message string, severity Severity) *SyncError {
	return &SyncError{
		Code:     code,
		Message:  message,
		Severity: severity,
		Err:      err,
	}
}

// Transport marks a failed HTTP exchange with the channel. Whether it is
// retried is the caller's decision, not encoded here.
func Transport(message string, err error) *SyncError {
	return &SyncError{
		Code:     CodeTransport,
		Message:  message,
		Severity: SeverityError,
		Err:      err,
	}
}

// Protocol marks a malformed or error-flagged channel envelope. Never retried.
func Protocol(message string, details map[string]any) *SyncError {
	return &SyncError{
		Code:     CodeProtocol,
		Message:  message,
		Severity: SeverityError,
		Details:  details,
	}
}

func Validation(message string, details map[string]any) *SyncError {
	return &SyncError{
		Code:     CodeValidation,
		Message:  message,
		Severity: SeverityError,
		Details:  details,
	}
}

// FatalValidation is a configuration-level problem that aborts the run.
func FatalValidation(message string) *SyncError {
	return &SyncError{
		Code:     CodeValidation,
		Message:  message,
		Severity: SeverityFatal,
	}
}

// Reconciliation marks a failure while building a booking's sub-objects;
// for a new booking it triggers the full unwind.
func Reconciliation(message string, err error) *SyncError {
	return &SyncError{
		Code:     CodeReconciliation,
		Message:  message,
		Severity: SeverityError,
		Err:      err,
	}
}

// Warning is an expected, recoverable condition. Logged and counted, never
// stops the run.
func Warning(message string) *SyncError {
	return &SyncError{
		Code:     CodeSoftWarning,
		Message:  message,
		Severity: SeverityWarning,
	}
}

func Warningf(format string, args ...any) *SyncError {
	return Warning(fmt.Sprintf(format, args...))
}

func NotFound(resource string) *SyncError {
	return &SyncError{
		Code:     CodeNotFound,
		Message:  fmt.Sprintf("%s not found", resource),
		Severity: SeverityError,
	}
}

func NotFoundWithID(resource, id string) *SyncError {
	return &SyncError{
		Code:     CodeNotFound,
		Message:  fmt.Sprintf("%s not found", resource),
		Severity: SeverityError,
		Details: map[string]any{
			"resource": resource,
			"id":       id,
		},
	}
}

func Conflict(message string) *SyncError {
	return &SyncError{
		Code:     CodeConflict,
		Message:  message,
		Severity: SeverityError,
	}
}

func Internal(message string, err error) *SyncError {
	return &SyncError{
		Code:     CodeInternal,
		Message:  message,
		Severity: SeverityError,
		Err:      err,
	}
}

func IsSyncError(err error) bool {
	_, ok := err.(*SyncError)
	return ok
}

// AsSyncError returns err as a *SyncError, wrapping unknown errors as
// internal ones so the reporter always has a code and severity to count.
func AsSyncError(err error) *SyncError {
	if syncErr, ok := err.(*SyncError); ok {
		return syncErr
	}
	return Internal("An unexpected error occurred", err)
}

// IsNotFound reports whether err is a missing-resource error.
func IsNotFound(err error) bool {
	syncErr, ok := err.(*SyncError)
	return ok && syncErr.Code == CodeNotFound
}

// IsWarning reports whether err should be counted as a soft warning.
func IsWarning(err error) bool {
	syncErr, ok := err.(*SyncError)
	return ok && syncErr.Severity == SeverityWarning
}

// IsFatal reports whether err must abort the whole run.
func IsFatal(err error) bool {
	syncErr, ok := err.(*SyncError)
	return ok && syncErr.Severity == SeverityFatal
}
