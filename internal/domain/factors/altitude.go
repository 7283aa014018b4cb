package factors

import "github.com/okian/swimconv/internal/domain/course"

// Sea-level equivalents for performances recorded at altitude
// (e.g. Colorado Springs).
var altitude = map[course.Stroke]float64{
	course.Free:   0.985,
	course.Back:   0.985,
	course.Breast: 0.988,
	course.Fly:    0.985,
	course.IM:     0.986,
}

// Altitude returns the correction multiplier for a stroke category.
func Altitude(s course.Stroke) (float64, bool) {
	f, ok := altitude[s]
	return f, ok
}

// AltitudeForEvent resolves the stroke of an arbitrary event string with
// course.StrokeOf (defaulting to free) and returns its multiplier.
func AltitudeForEvent(event string) (course.Stroke, float64) {
	st := course.StrokeOf(event)
	f, ok := altitude[st]
	if !ok {
		return course.Free, altitude[course.Free]
	}
	return st, f
}
