package xbrl

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedContext marks a context with neither a duration nor an instant period,
	// a missing id, or an unparsable date. It aborts the load.
	ErrMalformedContext = errors.New("malformed context")

	// ErrDuplicateContext marks a second context with an id already seen. It aborts the load.
	ErrDuplicateContext = errors.New("duplicate context id")

	// ErrUnparsableQualifiedName marks a fact key that does not split into prefix and local name.
	// The index recovers from it by skipping the occurrence.
	ErrUnparsableQualifiedName = errors.New("unparsable qualified name")
)

// ContextError reports the offending context of a fatal registry failure.
type ContextError struct {
	ID     string
	Reason string
	Kind   error // ErrMalformedContext or ErrDuplicateContext
	Cause  error // underlying parse error, if any
}

func (e *ContextError) Error() string {
	msg := fmt.Sprintf("%v: context %q: %s", e.Kind, e.ID, e.Reason)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ContextError) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

func malformed(id, reason string, cause error) *ContextError {
	return &ContextError{ID: id, Reason: reason, Kind: ErrMalformedContext, Cause: cause}
}
