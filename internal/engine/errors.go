package engine

import (
	"errors"
	"strconv"
)

// notLoadedError signals a generate call against an engine with no model.
type notLoadedError struct{}

func (notLoadedError) Error() string { return "no model loaded" }

// ErrNotLoaded constructs a notLoadedError.
func ErrNotLoaded() error { return notLoadedError{} }

// IsNotLoaded reports whether err indicates that no model is loaded.
func IsNotLoaded(err error) bool {
	_, ok := err.(notLoadedError)
	return ok
}

// tokenizeOverflowError signals a prompt whose token count exceeds the
// context capacity. The prompt is never silently truncated.
type tokenizeOverflowError struct{ capacity int }

func (e tokenizeOverflowError) Error() string {
	return "prompt exceeds context capacity of " + strconv.Itoa(e.capacity) + " tokens"
}

// ErrTokenizeOverflow constructs a tokenizeOverflowError.
func ErrTokenizeOverflow(capacity int) error { return tokenizeOverflowError{capacity: capacity} }

// IsTokenizeOverflow reports whether err indicates a too-long prompt.
func IsTokenizeOverflow(err error) bool {
	_, ok := err.(tokenizeOverflowError)
	return ok
}

// loadError wraps a failure to parse a model file or allocate its context.
type loadError struct {
	path  string
	cause error
}

func (e loadError) Error() string { return "load " + e.path + ": " + e.cause.Error() }
func (e loadError) Unwrap() error { return e.cause }

// IsLoadFailed reports whether err came from a failed Load.
func IsLoadFailed(err error) bool {
	_, ok := err.(loadError)
	return ok
}

// Decode phases, used to tell a failed prefill from a failure mid-generation.
const (
	phasePrefill = "prefill"
	phaseToken   = "token"
)

// decodeError wraps a native decode failure during prefill or generation.
type decodeError struct {
	phase string
	cause error
}

func (e decodeError) Error() string { return "decode (" + e.phase + "): " + e.cause.Error() }
func (e decodeError) Unwrap() error { return e.cause }

// IsPrefillFailed reports whether err is a decode failure of the whole prompt
// batch. No tokens were generated.
func IsPrefillFailed(err error) bool {
	de, ok := err.(decodeError)
	return ok && de.phase == phasePrefill
}

// IsDecodeInterrupted reports whether err is a decode failure after one or
// more tokens were produced. The accompanying Result carries the partial text.
func IsDecodeInterrupted(err error) bool {
	de, ok := err.(decodeError)
	return ok && de.phase == phaseToken
}

// runtimeUnavailableError signals that no native runtime was compiled in.
type runtimeUnavailableError struct{ msg string }

func (e runtimeUnavailableError) Error() string { return e.msg }

// ErrRuntimeUnavailable constructs a runtimeUnavailableError.
func ErrRuntimeUnavailable(msg string) error { return runtimeUnavailableError{msg: msg} }

// IsRuntimeUnavailable reports whether err indicates a missing native
// runtime, unwrapping load errors that carry it as a cause.
func IsRuntimeUnavailable(err error) bool {
	var rue runtimeUnavailableError
	return errors.As(err, &rue)
}
