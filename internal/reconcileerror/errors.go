// Package reconcileerror defines the error taxonomy of the reconciliation engine.
//
// Configuration errors fail fast at construction. Abort errors are the
// classified failure of one account's reconciliation: the whole upstream batch
// of that account is dropped and the caller records the failure.
package reconcileerror

import (
	"errors"
	"fmt"
)

// Sentinel errors, to be matched with errors.Is.
var (
	// ErrConfiguration marks wiring mistakes detected at construction time.
	ErrConfiguration = errors.New("invalid reconciliation configuration")

	// ErrAborted marks a data invariant violation that drops the account's batch.
	ErrAborted = errors.New("reconciliation aborted")

	// ErrEmptyUpstream is returned when a sync window is requested for zero
	// upstream transactions. Callers must handle empty batches before.
	ErrEmptyUpstream = errors.New("cannot select a sync window without upstream transactions")

	// ErrMissingExternalID is returned when a strategy that relies on the
	// bank's identifier receives a transaction without one.
	ErrMissingExternalID = errors.New("upstream transaction has no external id")

	// ErrLoad wraps failures of the stored-transaction loader.
	ErrLoad = errors.New("loading stored transactions failed")

	// ErrApply wraps failures to persist an instruction.
	ErrApply = errors.New("applying instruction failed")
)

// Class classifies why a reconciliation was aborted.
type Class string

const (
	ClassUnprocessedLeft         Class = "UNPROCESSED_LEFT"
	ClassUpstreamRejected        Class = "UPSTREAM_REJECTED"
	ClassUpstreamDuplicate       Class = "UPSTREAM_DUPLICATE"
	ClassStoredRejected          Class = "STORED_REJECTED"
	ClassStoredDuplicate         Class = "STORED_DUPLICATE"
	ClassStoredPeerlessUnaligned Class = "STORED_PEERLESS_UNALIGNED"
	ClassMissingExternalID       Class = "MISSING_EXTERNAL_ID"
	ClassEmptyUpstream           Class = "EMPTY_UPSTREAM"
	ClassLoadFailed              Class = "LOAD_FAILED"
	ClassApplyFailed             Class = "APPLY_FAILED"
	ClassUnknown                 Class = "UNKNOWN"
)

// ConfigurationError reports a component that cannot be built as configured.
type ConfigurationError struct {
	Component string
	Reason    string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Component, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

// NewConfigurationError is a shorthand constructor.
func NewConfigurationError(component, format string, args ...interface{}) error {
	return &ConfigurationError{Component: component, Reason: fmt.Sprintf(format, args...)}
}

// AbortError is the classified failure of one account's reconciliation.
type AbortError struct {
	Strategy string
	Class    Class
	Side     string // "upstream" or "stored"; empty when not side specific
	Matcher  string
	Count    int
	Err      error
}

func (e *AbortError) Error() string {
	msg := fmt.Sprintf("%s aborted: %s", e.Strategy, e.Class)
	if e.Side != "" {
		msg += fmt.Sprintf(" (%d %s transaction(s)", e.Count, e.Side)
		if e.Matcher != "" {
			msg += fmt.Sprintf(", matcher %s", e.Matcher)
		}
		msg += ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is makes errors.Is(err, ErrAborted) hold for every AbortError.
func (e *AbortError) Is(target error) bool {
	return target == ErrAborted
}

func (e *AbortError) Unwrap() error {
	return e.Err
}

// ClassOf returns the failure class carried by err, ClassUnknown otherwise.
func ClassOf(err error) Class {
	var abort *AbortError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &abort):
		return abort.Class
	case errors.Is(err, ErrEmptyUpstream):
		return ClassEmptyUpstream
	case errors.Is(err, ErrMissingExternalID):
		return ClassMissingExternalID
	case errors.Is(err, ErrLoad):
		return ClassLoadFailed
	case errors.Is(err, ErrApply):
		return ClassApplyFailed
	default:
		return ClassUnknown
	}
}
