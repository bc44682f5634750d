// Package perr implements a small error-kind taxonomy (not Go types) that
// the pipeline runner uses to decide how to record and react to a stage
// failure. Stages never swallow errors; they wrap the underlying cause
// with perr.Wrap so the runner can classify it without type-switching on
// package-specific error types.
package perr

import (
	"errors"
	"fmt"
)

// Kind is one of the six error kinds a stage failure can be classified as.
type Kind string

const (
	// KindInput covers missing/unreadable source files, unsupported book
	// formats, malformed JSON inputs. Fatal for the stage.
	KindInput Kind = "input_error"

	// KindConfig covers invalid parameters, caught before any work starts.
	KindConfig Kind = "config_error"

	// KindExternal covers ASR/forced-aligner/subprocess nonzero exit,
	// timeout, or health-check failure. Recovered by up to N retries.
	KindExternal Kind = "external_failure"

	// KindDataIntegrity covers fingerprint mismatch on a completed
	// artifact, a corrupted manifest, or truncated JSON. Recovered by
	// marking the stage Pending and re-running.
	KindDataIntegrity Kind = "data_integrity_error"

	// KindCancellation is cooperative cancellation; no artifacts
	// committed.
	KindCancellation Kind = "cancellation_requested"

	// KindInternal covers bugs. Never recovered.
	KindInternal Kind = "internal_error"
)

// Error wraps an underlying cause with a Kind so the runner can classify it
// without importing every package that can produce one.
type Error struct {
	Kind    Kind
	Stage   string // stage name, if known
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Stage != "" {
		return fmt.Sprintf("%s: %s: %s", e.Stage, e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds a *Error of the given kind.
func New(kind Kind, stage, message string) *Error {
	return &Error{Kind: kind, Stage: stage, Message: message}
}

// Wrap builds a *Error of the given kind around cause.
func Wrap(kind Kind, stage string, cause error) *Error {
	if cause == nil {
		return nil
	}
	return &Error{Kind: kind, Stage: stage, Message: cause.Error(), Cause: cause}
}

// KindOf extracts the Kind from err, defaulting to KindInternal if err does
// not wrap a *Error.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindInternal
}

// Is reports whether err's classified kind equals kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Retryable reports whether the runner should retry the operation that
// produced err. Only external failures are retried, and only up to the
// configured retry budget (default 0, per spec's determinism preference).
func Retryable(err error) bool {
	return Is(err, KindExternal)
}

// Timeout is a KindExternal subtype (§5 "a timeout yields a Timeout error (a
// subtype of external failure) without corrupting state").
func Timeout(stage string, cause error) *Error {
	e := Wrap(KindExternal, stage, cause)
	if e != nil {
		e.Message = "timeout: " + e.Message
	}
	return e
}
