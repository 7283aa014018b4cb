package api

import (
	"errors"
	"fmt"
)

// ErrBadRequest is the kind for requests the handlers cannot decode or
// that lack required fields.
var ErrBadRequest = errors.New("bad request")

// OpError records the handler operation that failed, a coarse kind used to
// pick the response status, and the underlying cause. Both Kind and Err are
// visible to errors.Is.
type OpError struct {
	Op   string
	Kind error
	Err  error
}

func (e *OpError) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch {
	case e.Kind != nil && e.Err != nil:
		return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
	case e.Kind != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return e.Op
	}
}

func (e *OpError) Unwrap() []error {
	if e == nil {
		return nil
	}
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// Wrap attaches op to err without classifying it.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, Err: err}
}

// WrapKind attaches op and kind to err.
func WrapKind(op string, kind, err error) error {
	return &OpError{Op: op, Kind: kind, Err: err}
}

// NewKind reports a failure of op that has no further cause.
func NewKind(op string, kind error) error {
	return &OpError{Op: op, Kind: kind}
}
