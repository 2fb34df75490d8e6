package store

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies a retrieval failure
type Kind string

const (
	// KindUnavailable means the store could not be reached
	KindUnavailable Kind = "unavailable"
	// KindQuery means the store was reached but the query failed
	KindQuery Kind = "query"
	// KindCanceled means the caller gave up before the query finished
	KindCanceled Kind = "canceled"
)

// RetrievalError reports a failed read. It is never used for "no rows":
// an empty result is a successful answer.
type RetrievalError struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("store %s (%s): %v", e.Op, e.Kind, e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

// IsRetrieval reports whether err carries a RetrievalError
func IsRetrieval(err error) bool {
	var rErr *RetrievalError
	return errors.As(err, &rErr)
}

// KindOf returns the failure kind of err, or "" when err is not a retrieval error
func KindOf(err error) Kind {
	var rErr *RetrievalError
	if errors.As(err, &rErr) {
		return rErr.Kind
	}
	return ""
}

func queryError(op string, err error) error {
	kind := KindQuery
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		kind = KindCanceled
	}
	return &RetrievalError{Kind: kind, Op: op, Err: err}
}
