package swimtime

import (
	"errors"
	"fmt"
)

// ErrMalformedTime is the kind shared by every time parsing failure.
var ErrMalformedTime = errors.New("malformed time")

// MalformedTimeError reports input that is not SS.hh or M:SS.hh.
type MalformedTimeError struct {
	Value  string
	Reason string
}

func (e *MalformedTimeError) Error() string {
	return fmt.Sprintf("malformed time %q: %s", e.Value, e.Reason)
}

// Is matches ErrMalformedTime.
func (e *MalformedTimeError) Is(target error) bool { return target == ErrMalformedTime }
