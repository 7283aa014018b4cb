package course

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for this package. Typed errors below match them via errors.Is.
var (
	ErrUnknownCourse  = errors.New("unknown course")
	ErrMalformedEvent = errors.New("malformed event")
)

// UnknownCourseError reports a course string outside {SCY, SCM, LCM}.
type UnknownCourseError struct {
	Value string
}

func (e *UnknownCourseError) Error() string {
	return fmt.Sprintf("unknown course %q: must be one of SCY, SCM, LCM", e.Value)
}

// Is matches ErrUnknownCourse.
func (e *UnknownCourseError) Is(target error) bool { return target == ErrUnknownCourse }

// MalformedEventError reports an event string that is not <distance>_<stroke>.
type MalformedEventError struct {
	Value  string
	Reason string
}

func (e *MalformedEventError) Error() string {
	return fmt.Sprintf("malformed event %q: %s", e.Value, e.Reason)
}

// Is matches ErrMalformedEvent.
func (e *MalformedEventError) Is(target error) bool { return target == ErrMalformedEvent }
