package course

import (
	"strconv"
	"strings"
)

// Stroke is a swimming stroke category.
type Stroke string

// Supported strokes.
const (
	Free   Stroke = "free"
	Back   Stroke = "back"
	Breast Stroke = "breast"
	Fly    Stroke = "fly"
	IM     Stroke = "im"
)

// AllEvents is the aggregate key used only as a factor-table fallback scope.
const AllEvents = "all"

// strokeMatchOrder is the order StrokeOf tries substrings in.
var strokeMatchOrder = []Stroke{Free, Back, Breast, Fly, IM}

// Strokes lists the stroke enumeration in canonical order.
func Strokes() []Stroke {
	out := make([]Stroke, len(strokeMatchOrder))
	copy(out, strokeMatchOrder)
	return out
}

// ParseStroke converts s into a Stroke (case-insensitive, exact).
func ParseStroke(s string) (Stroke, bool) {
	st := Stroke(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range strokeMatchOrder {
		if st == known {
			return st, true
		}
	}
	return "", false
}

// StrokeOf resolves the stroke category of an arbitrary event string by
// case-insensitive substring match in the order free, back, breast, fly, im.
// Strings that match none of them resolve to Free.
func StrokeOf(event string) Stroke {
	lower := strings.ToLower(event)
	for _, st := range strokeMatchOrder {
		if strings.Contains(lower, string(st)) {
			return st
		}
	}
	return Free
}

// Event is a validated race definition. Distance is in the units of the
// course the event is swum in.
type Event struct {
	Distance int
	Stroke   Stroke
}

// ParseEvent validates an event key of the form <distance>_<stroke>.
// The aggregate key "all" is not an event and is rejected.
func ParseEvent(s string) (Event, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == AllEvents {
		return Event{}, &MalformedEventError{Value: s, Reason: `"all" is not a real event`}
	}
	dist, stroke, ok := strings.Cut(key, "_")
	if !ok {
		return Event{}, &MalformedEventError{Value: s, Reason: "expected <distance>_<stroke>"}
	}
	d, err := strconv.Atoi(dist)
	if err != nil || d <= 0 || strings.HasPrefix(dist, "+") {
		return Event{}, &MalformedEventError{Value: s, Reason: "distance must be a positive integer"}
	}
	st, ok := ParseStroke(stroke)
	if !ok || stroke != string(st) {
		return Event{}, &MalformedEventError{Value: s, Reason: "stroke must be one of free, back, breast, fly, im"}
	}
	return Event{Distance: d, Stroke: st}, nil
}

// String renders the canonical event key, e.g. "100_free".
func (e Event) String() string {
	return strconv.Itoa(e.Distance) + "_" + string(e.Stroke)
}
