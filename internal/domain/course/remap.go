package course

// Distance-equivalent freestyle events between meters and yards. A 400 m
// race is compared with the 500 yd race, not 400 yd.
var (
	metersToYards = map[string]string{
		"400_free":  "500_free",
		"800_free":  "1000_free",
		"1500_free": "1650_free",
	}
	yardsToMeters = map[string]string{
		"500_free":  "400_free",
		"1000_free": "800_free",
		"1650_free": "1500_free",
	}
)

// Remap returns the equivalent event key when converting between LCM and
// SCY. The second return value is false, and event is returned unchanged,
// for every other course pair or event.
func Remap(event string, from, to Course) (string, bool) {
	var table map[string]string
	switch {
	case from == LCM && to == SCY:
		table = metersToYards
	case from == SCY && to == LCM:
		table = yardsToMeters
	default:
		return event, false
	}
	if mapped, ok := table[event]; ok {
		return mapped, true
	}
	return event, false
}
