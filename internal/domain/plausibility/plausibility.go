// Package plausibility range-checks submitted swim times.
//
// The windows are distance-only and deliberately wide: they catch typos and
// unit mix-ups, not slow or fast swims. Distances without a window pass.
package plausibility

import "strings"

// Window is an inclusive [Min, Max] range in seconds.
type Window struct {
	Min float64
	Max float64
}

// Contains reports whether seconds lies inside w.
func (w Window) Contains(seconds float64) bool {
	return w.Min <= seconds && seconds <= w.Max
}

var windows = map[string]Window{
	"50":   {15, 60},
	"100":  {35, 150},
	"200":  {80, 300},
	"400":  {180, 600},
	"500":  {220, 700},
	"800":  {400, 1200},
	"1000": {500, 1500},
	"1500": {750, 2400},
	"1650": {800, 2500},
}

// distance returns the leading run of digits of event.
func distance(event string) string {
	s := strings.TrimSpace(event)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	return s[:end]
}

// WindowFor returns the sanity window for an event's distance.
func WindowFor(event string) (Window, bool) {
	w, ok := windows[distance(event)]
	return w, ok
}

// IsPlausible reports whether seconds is a believable time for event.
// Unknown distances are accepted.
func IsPlausible(seconds float64, event string) bool {
	w, ok := WindowFor(event)
	if !ok {
		return true
	}
	return w.Contains(seconds)
}
