package conversion

import (
	"fmt"

	"github.com/okian/swimconv/internal/domain/course"
	"github.com/okian/swimconv/internal/domain/factors"
)

// Result is the outcome of one conversion. It is a value: callers own it.
type Result struct {
	OriginalTime     string
	OriginalSeconds  float64
	ConvertedTime    string
	ConvertedSeconds float64

	Factor       float64
	FactorSource factors.Source

	Event       string
	MappedEvent string
	Remapped    bool

	From course.Course
	To   course.Course

	AltitudeAdjusted bool
	// AltitudeFactor is zero unless AltitudeAdjusted is set.
	AltitudeFactor float64

	// Warning is non-nil when no conversion data existed for the request and
	// the unmapped factor was applied.
	Warning *UnmappedConversionWarning
}

// LowConfidence reports whether the result rests on the unmapped fallback.
func (r Result) LowConfidence() bool {
	return r.Warning != nil
}

// UnmappedConversionWarning marks a conversion that fell through every
// factor rule. The result is returned but should not be treated as
// authoritative.
type UnmappedConversionWarning struct {
	From  course.Course
	To    course.Course
	Event string
}

func (w *UnmappedConversionWarning) String() string {
	return fmt.Sprintf("no conversion data for %s->%s %s; factor %.1f applied", w.From, w.To, w.Event, factors.Unmapped)
}

// Entry is one (time, event) pair of a batch.
type Entry struct {
	Time  string
	Event string
}

// BatchItem holds the outcome of one batch entry. Exactly one of Result and
// Err is meaningful: Err is nil on success.
type BatchItem struct {
	Result Result
	Err    error
}
