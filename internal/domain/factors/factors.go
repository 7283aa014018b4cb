// Package factors holds the empirical course conversion and altitude
// correction tables.
//
// Both tables are package-level literals that are never mutated after init,
// so every lookup is safe for concurrent use without locking.
package factors

import (
	"github.com/okian/swimconv/internal/domain/course"
)

// Key identifies a conversion factor. Event is a caller event key such as
// "100_free" or course.AllEvents for the course-wide fallback.
type Key struct {
	From  course.Course
	To    course.Course
	Event string
}

// Source describes which rule produced a factor.
type Source string

// Factor sources. SourceIdentity marks a same-course request that never
// consults the table; the rest follow the fallback order.
const (
	SourceIdentity    Source = "identity"
	SourceExact       Source = "exact"
	SourceCourseWide  Source = "course_wide"
	SourceDirectional Source = "directional_default"
	SourceUnmapped    Source = "unmapped"
)

// Directional defaults for the short course pair when neither an event nor a
// course-wide entry exists.
const (
	DefaultSCMToSCY = 0.8712
	DefaultSCYToSCM = 1.1478
	// Unmapped is applied when no conversion data exists at all.
	Unmapped = 1.0
)

// USA Swimming conversion factors (2024).
const (
	lcmSCYFree   = 0.8644
	lcmSCYDist   = 0.8655
	lcmSCYMile   = 0.8658
	lcmSCYBack   = 0.8560
	lcmSCYBreast = 0.8496

	scyLCMFree   = 1.1566
	scyLCMDist   = 1.1553
	scyLCMMile   = 1.1549
	scyLCMBack   = 1.1682
	scyLCMBreast = 1.1773

	// TODO: LCM<->SCM has no turn-count correction yet; 1.0 stands in until a
	// sourced factor is agreed.
	metersCourseWide = 1.0
)

var conversion = map[Key]float64{
	{course.LCM, course.SCY, "50_free"}:   lcmSCYFree,
	{course.LCM, course.SCY, "100_free"}:  lcmSCYFree,
	{course.LCM, course.SCY, "200_free"}:  lcmSCYFree,
	{course.LCM, course.SCY, "400_free"}:  lcmSCYDist,
	{course.LCM, course.SCY, "800_free"}:  lcmSCYDist,
	{course.LCM, course.SCY, "1500_free"}: lcmSCYMile,

	{course.LCM, course.SCY, "50_back"}:  lcmSCYBack,
	{course.LCM, course.SCY, "100_back"}: lcmSCYBack,
	{course.LCM, course.SCY, "200_back"}: lcmSCYBack,

	{course.LCM, course.SCY, "50_breast"}:  lcmSCYBreast,
	{course.LCM, course.SCY, "100_breast"}: lcmSCYBreast,
	{course.LCM, course.SCY, "200_breast"}: lcmSCYBreast,

	{course.LCM, course.SCY, "50_fly"}:  lcmSCYFree,
	{course.LCM, course.SCY, "100_fly"}: lcmSCYFree,
	{course.LCM, course.SCY, "200_fly"}: lcmSCYFree,

	{course.LCM, course.SCY, "200_im"}: lcmSCYBack,
	{course.LCM, course.SCY, "400_im"}: lcmSCYBack,

	{course.SCY, course.LCM, "50_free"}:   scyLCMFree,
	{course.SCY, course.LCM, "100_free"}:  scyLCMFree,
	{course.SCY, course.LCM, "200_free"}:  scyLCMFree,
	{course.SCY, course.LCM, "500_free"}:  scyLCMDist,
	{course.SCY, course.LCM, "1000_free"}: scyLCMDist,
	{course.SCY, course.LCM, "1650_free"}: scyLCMMile,

	{course.SCY, course.LCM, "50_back"}:  scyLCMBack,
	{course.SCY, course.LCM, "100_back"}: scyLCMBack,
	{course.SCY, course.LCM, "200_back"}: scyLCMBack,

	{course.SCY, course.LCM, "50_breast"}:  scyLCMBreast,
	{course.SCY, course.LCM, "100_breast"}: scyLCMBreast,
	{course.SCY, course.LCM, "200_breast"}: scyLCMBreast,

	{course.SCY, course.LCM, "50_fly"}:  scyLCMFree,
	{course.SCY, course.LCM, "100_fly"}: scyLCMFree,
	{course.SCY, course.LCM, "200_fly"}: scyLCMFree,

	{course.SCY, course.LCM, "200_im"}: scyLCMBack,
	{course.SCY, course.LCM, "400_im"}: scyLCMBack,

	{course.LCM, course.SCM, course.AllEvents}: metersCourseWide,
	{course.SCM, course.LCM, course.AllEvents}: metersCourseWide,

	{course.SCM, course.SCY, "50_free"}:   DefaultSCMToSCY,
	{course.SCM, course.SCY, "100_free"}:  DefaultSCMToSCY,
	{course.SCM, course.SCY, "200_free"}:  DefaultSCMToSCY,
	{course.SCM, course.SCY, "400_free"}:  DefaultSCMToSCY,
	{course.SCM, course.SCY, "800_free"}:  DefaultSCMToSCY,
	{course.SCM, course.SCY, "1500_free"}: DefaultSCMToSCY,

	{course.SCY, course.SCM, "50_free"}:   DefaultSCYToSCM,
	{course.SCY, course.SCM, "100_free"}:  DefaultSCYToSCM,
	{course.SCY, course.SCM, "200_free"}:  DefaultSCYToSCM,
	{course.SCY, course.SCM, "500_free"}:  DefaultSCYToSCM,
	{course.SCY, course.SCM, "1000_free"}: DefaultSCYToSCM,
	{course.SCY, course.SCM, "1650_free"}: DefaultSCYToSCM,
}

// Lookup returns the table entry for k, if any. It does not apply fallbacks.
func Lookup(k Key) (float64, bool) {
	f, ok := conversion[k]
	return f, ok
}

// Resolve walks the fallback chain for a conversion: exact event entry,
// course-wide entry, the SCM/SCY directional default, and finally Unmapped.
func Resolve(from, to course.Course, event string) (float64, Source) {
	if f, ok := conversion[Key{From: from, To: to, Event: event}]; ok {
		return f, SourceExact
	}
	if f, ok := conversion[Key{From: from, To: to, Event: course.AllEvents}]; ok {
		return f, SourceCourseWide
	}
	switch {
	case from == course.SCM && to == course.SCY:
		return DefaultSCMToSCY, SourceDirectional
	case from == course.SCY && to == course.SCM:
		return DefaultSCYToSCM, SourceDirectional
	}
	return Unmapped, SourceUnmapped
}

// Keys returns every entry key in the table. Order is unspecified.
func Keys() []Key {
	out := make([]Key, 0, len(conversion))
	for k := range conversion {
		out = append(out, k)
	}
	return out
}
