package model

import (
	"errors"
	"fmt"
)

// UnavailableMessage is returned in place of entries whenever the cause list
// could not be retrieved or parsed. Automation clients compare against this
// exact text, so it must never change.
const UnavailableMessage = "Unable to fetch cause_list details due to weekends or failed to fetch cause list"

// ReasonWeekendOrFetchFailure classifies every expected fetch failure:
// non-200 status, HTML error page, non-PDF body, timeout or connection error.
const ReasonWeekendOrFetchFailure = "weekend_or_fetch_failure"

// ErrUnavailable is matched (via errors.Is) by every UnavailableError.
var ErrUnavailable = errors.New("cause list unavailable")

// InvalidInputError reports a malformed date, side, advocate or base URL.
// It is the caller's fault and is never converted into the unavailable outcome.
type InvalidInputError struct {
	// Field is the request field that failed validation ("date", "side", ...).
	Field string

	// Message is a human readable explanation.
	Message string
}

// Error implements the error interface.
func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// NewInvalidInputError creates an InvalidInputError for the given field.
func NewInvalidInputError(field, format string, args ...any) *InvalidInputError {
	return &InvalidInputError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsInvalidInput reports whether err is, or wraps, an InvalidInputError.
func IsInvalidInput(err error) bool {
	var target *InvalidInputError
	return errors.As(err, &target)
}

// CorruptDocumentError is returned by the extractor when the bytes are not a
// well-formed PDF or the document has no pages.
type CorruptDocumentError struct {
	Err error
}

// Error implements the error interface.
func (e *CorruptDocumentError) Error() string {
	if e.Err == nil {
		return "corrupt PDF document"
	}
	return "corrupt PDF document: " + e.Err.Error()
}

// Unwrap returns the underlying parser error.
func (e *CorruptDocumentError) Unwrap() error {
	return e.Err
}

// UnavailableError signals that the document could not be retrieved.
// Detail carries the concrete cause for logs; clients only ever see
// UnavailableMessage.
type UnavailableError struct {
	Reason string
	Detail string
	Err    error
}

// NewUnavailableError creates an UnavailableError with the standard reason.
func NewUnavailableError(detail string, err error) *UnavailableError {
	return &UnavailableError{
		Reason: ReasonWeekendOrFetchFailure,
		Detail: detail,
		Err:    err,
	}
}

// Error implements the error interface.
func (e *UnavailableError) Error() string {
	msg := "unavailable (" + e.Reason + ")"
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying transport error, if any.
func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrUnavailable) true for every UnavailableError.
func (e *UnavailableError) Is(target error) bool {
	return target == ErrUnavailable
}
