// Package swimtime parses and formats swim times.
//
// Accepted input is "SS.hh" or "M:SS.hh". Output always carries two
// fractional digits and switches to the minutes form at 60 seconds.
package swimtime

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	secondsPerMinute      = 60
	centisPerSecond       = 100
	centisPerMinute       = secondsPerMinute * centisPerSecond
	hundredthsPlaces      = 2
	maxMinutesDigits      = 6
	maxSecondsTotalDigits = 12
)

// optional "M:" prefix, then digits with at most one decimal point.
var timePattern = regexp.MustCompile(`^(?:(\d+):)?(\d+(?:\.\d*)?|\.\d+)$`)

// Parse converts a time string into elapsed seconds.
func Parse(text string) (float64, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, &MalformedTimeError{Value: text, Reason: "empty time"}
	}
	m := timePattern.FindStringSubmatch(s)
	if m == nil {
		return 0, &MalformedTimeError{Value: text, Reason: "expected SS.hh or M:SS.hh"}
	}
	if len(m[1]) > maxMinutesDigits || len(m[2]) > maxSecondsTotalDigits {
		return 0, &MalformedTimeError{Value: text, Reason: "time out of range"}
	}

	var minutes int
	if m[1] != "" {
		v, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, &MalformedTimeError{Value: text, Reason: "minutes must be a non-negative integer"}
		}
		minutes = v
	}
	secs, err := strconv.ParseFloat(m[2], 64)
	if err != nil || secs < 0 || math.IsInf(secs, 0) {
		return 0, &MalformedTimeError{Value: text, Reason: "seconds must be a non-negative number"}
	}
	return float64(minutes*secondsPerMinute) + secs, nil
}

// Format renders seconds as "SS.hh" below one minute and "M:SS.hh" from one
// minute up. The value is rounded to hundredths before it is split, so
// 59.999 renders as "1:00.00". Negative and non-finite input renders as "0.00".
func Format(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		seconds = 0
	}
	centis := decimal.NewFromFloat(seconds).Round(hundredthsPlaces).Shift(hundredthsPlaces).IntPart()
	if centis >= centisPerMinute {
		minutes := centis / centisPerMinute
		rem := centis % centisPerMinute
		return fmt.Sprintf("%d:%02d.%02d", minutes, rem/centisPerSecond, rem%centisPerSecond)
	}
	return fmt.Sprintf("%d.%02d", centis/centisPerSecond, centis%centisPerSecond)
}

// RoundHundredths rounds seconds to two decimal places, half away from zero,
// starting from the shortest decimal representation of the float. 20.275
// becomes 20.28 even though its binary value sits just below the midpoint.
func RoundHundredths(seconds float64) float64 {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return seconds
	}
	return decimal.NewFromFloat(seconds).Round(hundredthsPlaces).InexactFloat64()
}
