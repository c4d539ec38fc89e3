package domain

import "errors"

// Domain errors represent analysis failures that a caller can recover from.
// A component returning one of these simply produced no result.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an entity or value of a type a component cannot handle.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrNoAnalyzer indicates no registered analyzer produced a result for an entity.
	ErrNoAnalyzer = errors.New("no analyzer")

	// Stream Errors.

	// ErrSourceConsumed indicates a single-access source was opened a second time.
	ErrSourceConsumed = errors.New("source already consumed")

	// ErrConcurrentOpen indicates a sequential source was opened while a stream was still live.
	ErrConcurrentOpen = errors.New("source already open")

	// ErrInternal marks defects in the analysis engine itself.
	ErrInternal = errors.New("internal error")
)

// InternalError wraps an error caused by a defect in the engine (a broken
// invariant, a programming mistake). Unlike every other error it is never
// swallowed by the dispatcher: it aborts the whole run.
type InternalError struct {
	Err error
}

// Error implements the error interface.
func (e *InternalError) Error() string {
	if e.Err == nil {
		return ErrInternal.Error()
	}
	return "internal: " + e.Err.Error()
}

// Unwrap returns the wrapped error.
func (e *InternalError) Unwrap() error {
	return e.Err
}

// Is reports ErrInternal as a match so callers can use errors.Is.
func (e *InternalError) Is(target error) bool {
	return target == ErrInternal
}

// Internal marks err as an internal engine fault.
// Returns nil for a nil error and err itself if it is already marked.
func Internal(err error) error {
	if err == nil {
		return nil
	}
	if IsInternal(err) {
		return err
	}
	return &InternalError{Err: err}
}

// IsInternal reports whether err (or anything it wraps) is an internal fault.
func IsInternal(err error) bool {
	var ie *InternalError
	return errors.As(err, &ie)
}

// UnwrapInternal strips the internal marker, returning the underlying cause.
// Errors that are not internal are returned unchanged.
func UnwrapInternal(err error) error {
	var ie *InternalError
	if errors.As(err, &ie) && ie.Err != nil {
		return ie.Err
	}
	return err
}
