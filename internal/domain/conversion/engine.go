// Package conversion converts swim times between courses.
//
// The engine composes the time codec, the factor fallback chain, the
// optional altitude correction and hundredths rounding. It holds no mutable
// state: one Engine may be shared by any number of goroutines.
package conversion

import (
	"sync"

	"github.com/okian/swimconv/internal/domain/course"
	"github.com/okian/swimconv/internal/domain/factors"
	"github.com/okian/swimconv/internal/domain/swimtime"
)

// Default batch configuration constants.
const (
	defaultParallelism       = 1
	defaultParallelThreshold = 64
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithStrictEvents rejects event strings that are not <distance>_<stroke>
// before any factor lookup.
func WithStrictEvents() Option {
	return func(e *Engine) {
		e.strictEvents = true
	}
}

// WithBatchParallelism bounds the goroutines used by BatchConvert.
// Values below 2 keep batches sequential.
func WithBatchParallelism(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.parallelism = n
		}
	}
}

// WithParallelThreshold sets the smallest batch that is fanned out.
func WithParallelThreshold(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.parallelThreshold = n
		}
	}
}

// Engine performs conversions.
type Engine struct {
	strictEvents      bool
	parallelism       int
	parallelThreshold int
}

// NewEngine creates an engine with configuration options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		parallelism:       defaultParallelism,
		parallelThreshold: defaultParallelThreshold,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEngine = NewEngine()

// Convert runs a conversion on a default, lenient engine.
func Convert(timeText, event, from, to string, altitude bool) (Result, error) {
	return defaultEngine.Convert(timeText, event, from, to, altitude)
}

// BatchConvert runs a sequential batch on a default, lenient engine.
func BatchConvert(entries []Entry, from, to string, altitude bool) []BatchItem {
	return defaultEngine.BatchConvert(entries, from, to, altitude)
}

// Convert converts timeText for event from one course to another.
//
// Errors are *course.UnknownCourseError, *swimtime.MalformedTimeError or, in
// strict mode, *course.MalformedEventError. A same-course request returns the
// parsed value untouched unless altitude correction is requested, in which
// case the altitude multiplier and rounding still apply.
func (e *Engine) Convert(timeText, event, from, to string, altitude bool) (Result, error) {
	src, err := course.Parse(from)
	if err != nil {
		return Result{}, err
	}
	dst, err := course.Parse(to)
	if err != nil {
		return Result{}, err
	}
	seconds, err := swimtime.Parse(timeText)
	if err != nil {
		return Result{}, err
	}
	if e.strictEvents {
		if _, err := course.ParseEvent(event); err != nil {
			return Result{}, err
		}
	}

	res := Result{
		OriginalTime:    timeText,
		OriginalSeconds: seconds,
		Event:           event,
		MappedEvent:     event,
		From:            src,
		To:              dst,
	}

	if src == dst {
		res.Factor = 1.0
		res.FactorSource = factors.SourceIdentity
		converted := seconds
		if altitude {
			converted = swimtime.RoundHundredths(applyAltitude(&res, converted))
		}
		res.ConvertedSeconds = converted
		res.ConvertedTime = swimtime.Format(converted)
		return res, nil
	}

	res.MappedEvent, res.Remapped = course.Remap(event, src, dst)
	res.Factor, res.FactorSource = factors.Resolve(src, dst, event)
	if res.FactorSource == factors.SourceUnmapped {
		res.Warning = &UnmappedConversionWarning{From: src, To: dst, Event: event}
	}

	converted := seconds * res.Factor
	if altitude {
		converted = applyAltitude(&res, converted)
	}
	converted = swimtime.RoundHundredths(converted)

	res.ConvertedSeconds = converted
	res.ConvertedTime = swimtime.Format(converted)
	return res, nil
}

func applyAltitude(res *Result, seconds float64) float64 {
	_, f := factors.AltitudeForEvent(res.Event)
	res.AltitudeAdjusted = true
	res.AltitudeFactor = f
	return seconds * f
}

// BatchConvert converts every entry independently. The output has the same
// length and order as entries and one failing entry never affects another.
func (e *Engine) BatchConvert(entries []Entry, from, to string, altitude bool) []BatchItem {
	items := make([]BatchItem, len(entries))
	convertAt := func(i int) {
		res, err := e.Convert(entries[i].Time, entries[i].Event, from, to, altitude)
		items[i] = BatchItem{Result: res, Err: err}
	}

	if e.parallelism < 2 || len(entries) < e.parallelThreshold {
		for i := range entries {
			convertAt(i)
		}
		return items
	}

	// Items never fail as a group; each carries its own error.
	var wg sync.WaitGroup
	sem := make(chan struct{}, e.parallelism)
	for i := range entries {
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer func() {
				<-sem
				wg.Done()
			}()
			convertAt(i)
		}()
	}
	wg.Wait()
	return items
}
