package cli

import (
	"strings"

	"github.com/okian/swimconv/internal/domain/course"
)

// normalizeCourse lets flags take "lcm" or " Scy". The service itself only
// accepts the exact names.
func normalizeCourse(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// courseNames renders the known courses for flag help, e.g. "SCY, SCM or LCM".
func courseNames() string {
	all := course.All()
	names := make([]string, len(all))
	for i, c := range all {
		names[i] = c.String()
	}
	return strings.Join(names[:len(names)-1], ", ") + " or " + names[len(names)-1]
}
