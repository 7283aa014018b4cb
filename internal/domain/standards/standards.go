// Package standards holds qualifying-time tables.
//
// Times are short course yards. Tier codes follow NCAA naming: d1_a is the
// Division I automatic cut, d1_b the provisional cut, d2 Division II and
// d3_a / d3_b the Division III automatic and provisional cuts. The values
// are governance data and are published annually.
package standards

import (
	"github.com/okian/swimconv/internal/domain/swimtime"
)

// Tier codes, hardest first.
const (
	TierD1A = "d1_a"
	TierD1B = "d1_b"
	TierD2  = "d2"
	TierD3A = "d3_a"
	TierD3B = "d3_b"
)

// Genders.
const (
	Men   = "men"
	Women = "women"
)

var tierOrder = []string{TierD1A, TierD1B, TierD2, TierD3A, TierD3B}

// 2024-2025 season.
var table = map[string]map[string]map[string]string{
	Men: {
		"50_free": {
			TierD1A: "19.05",
			TierD1B: "19.85",
			TierD2:  "20.29",
			TierD3A: "20.45",
			TierD3B: "21.19",
		},
		"100_free": {
			TierD1A: "42.05",
			TierD1B: "43.79",
			TierD2:  "44.69",
			TierD3A: "45.09",
			TierD3B: "46.69",
		},
	},
	Women: {
		"50_free": {
			TierD1A: "21.73",
			TierD1B: "22.63",
			TierD2:  "23.09",
			TierD3A: "23.29",
			TierD3B: "24.19",
		},
	},
}

// Lookup returns the tier -> qualifying time map for an event and gender.
// Keys must match exactly. Unknown combinations yield an empty, non-nil map.
// The returned map is a copy and may be modified by the caller.
func Lookup(event, gender string) map[string]string {
	tiers := table[gender][event]
	out := make(map[string]string, len(tiers))
	for k, v := range tiers {
		out[k] = v
	}
	return out
}

// Tiers returns the tier codes from hardest to easiest.
func Tiers() []string {
	out := make([]string, len(tierOrder))
	copy(out, tierOrder)
	return out
}

// Genders returns the genders that have a table.
func Genders() []string {
	return []string{Men, Women}
}

// Events returns the events that have standards for gender, in no particular order.
func Events(gender string) []string {
	events := table[gender]
	out := make([]string, 0, len(events))
	for ev := range events {
		out = append(out, ev)
	}
	return out
}

// Qualify returns the tiers whose cut the SCY time meets, hardest first.
// A time equal to the cut qualifies.
func Qualify(seconds float64, event, gender string) []string {
	tiers := table[gender][event]
	met := make([]string, 0, len(tiers))
	for _, tier := range tierOrder {
		cut, ok := tiers[tier]
		if !ok {
			continue
		}
		limit, err := swimtime.Parse(cut)
		if err != nil {
			continue
		}
		if swimtime.RoundHundredths(seconds) <= limit {
			met = append(met, tier)
		}
	}
	return met
}
