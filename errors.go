package eslookup

import (
	"errors"
	"fmt"
)

var (
	// ErrNotOpened is returned when Lookup is called before Open.
	ErrNotOpened = errors.New("eslookup: executor is not opened")

	// ErrClosed is returned when Open or Lookup is called after Close.
	ErrClosed = errors.New("eslookup: executor is closed")
)

// ValidationError reports an invalid connector configuration, naming the
// offending option. It is returned at plan time, before any executor is
// constructed.
type ValidationError struct {
	Option string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration: '%s' %s", e.Option, e.Reason)
}

// LookupFailure is a per-call transport or store failure. It is distinct
// from "no match": an empty result is returned as an empty row slice with a
// nil error, never as a LookupFailure, and a LookupFailure is never folded
// into an empty result.
//
// The original underlying error can be accessed via errors.Unwrap.
type LookupFailure struct {
	// Index is the resolved index name the call targeted.
	Index string

	// StatusCode is the HTTP status of the store response, or 0 when the
	// call never produced a response (connection refused, timeout).
	StatusCode int

	retryable bool
	cause     error
}

func (e *LookupFailure) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("lookup against index %q failed with status %d: %v", e.Index, e.StatusCode, e.cause)
	}
	return fmt.Sprintf("lookup against index %q failed: %v", e.Index, e.cause)
}

func (e *LookupFailure) Unwrap() error { return e.cause }

// Retryable reports whether the failure is worth retrying: I/O errors and
// 429/5xx responses are; other HTTP errors (bad query, auth) are not. The
// caller decides the actual retry/restart policy.
func (e *LookupFailure) Retryable() bool { return e.retryable }
