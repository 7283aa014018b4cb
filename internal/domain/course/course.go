// Package course defines the closed set of pool courses and strokes, the
// validated event identity and the distance remapping between courses.
package course

// Course is a pool length and unit convention.
type Course string

// Supported courses.
const (
	SCY Course = "SCY" // short course yards (25 yd)
	SCM Course = "SCM" // short course meters (25 m)
	LCM Course = "LCM" // long course meters (50 m)
)

// All lists every valid course in canonical order.
func All() []Course {
	return []Course{SCY, SCM, LCM}
}

// Parse converts s into a Course. Only the exact upper-case names are
// accepted; anything else, including "lcm" or " SCY", is an
// UnknownCourseError.
func Parse(s string) (Course, error) {
	c := Course(s)
	if !c.Valid() {
		return "", &UnknownCourseError{Value: s}
	}
	return c, nil
}

// Valid reports whether c is a member of the course enumeration.
func (c Course) Valid() bool {
	switch c {
	case SCY, SCM, LCM:
		return true
	default:
		return false
	}
}

func (c Course) String() string { return string(c) }
