package cli

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/okian/swimconv/internal/domain/course"
	"github.com/okian/swimconv/internal/domain/standards"
	"github.com/okian/swimconv/internal/domain/types"
)

func standardsCmd(root *rootOptions) *cobra.Command {
	var req types.StandardsCheckRequest

	c := &cobra.Command{
		Use:   "standards",
		Short: "Show qualifying cuts, or the tiers a time meets",
		Long: `Show the SCY qualifying cuts for an event.

Without --event the events that have cuts for --gender are listed. With
--time the time is converted to SCY when --course says otherwise, and every
cut is marked as met or not.`,
		Example: "  swimconv standards --event 100_fly --gender women --time 1:00.12 --course LCM",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if !slices.Contains(standards.Genders(), req.Gender) {
				return fmt.Errorf("%w: %q, want %s", ErrUnknownGender, req.Gender, strings.Join(standards.Genders(), " or "))
			}
			p := newPrinter(cmd.OutOrStdout(), root.output)

			if req.Event == "" {
				if req.Time != "" {
					return ErrEventRequired
				}
				return printEvents(p, req.Gender)
			}

			req.Course = normalizeCourse(req.Course)
			svc := root.service()
			if req.Time == "" {
				resp := svc.Standards(ctx, req.Event, req.Gender)
				if p.json {
					return p.encode(resp)
				}
				return printCuts(p, resp, nil)
			}

			check, err := svc.CheckStandards(ctx, req)
			if err != nil {
				return err
			}
			if p.json {
				return p.encode(check)
			}
			p.title("%s %s: %s %s", check.Event, check.Gender, check.SCYTime, course.SCY)
			return printCuts(p, svc.Standards(ctx, check.Event, check.Gender), check.Tiers)
		},
	}

	c.Flags().StringVarP(&req.Event, "event", "e", "", "event, e.g. 100_free; omit to list events")
	c.Flags().StringVarP(&req.Gender, "gender", "g", "", strings.Join(standards.Genders(), " or ")+" (required)")
	c.Flags().StringVarP(&req.Time, "time", "t", "", "time to check against the cuts")
	c.Flags().StringVarP(&req.Course, "course", "c", string(course.SCY), "course of --time: "+courseNames())

	_ = c.MarkFlagRequired("gender")
	return c
}

// printCuts lists the cuts hardest first. met is nil when no time was given.
func printCuts(p *printer, resp types.StandardsResponse, met []string) error {
	if len(resp.Standards) == 0 {
		p.warn("no standards for " + resp.Event + " (" + resp.Gender + ")")
		return nil
	}

	header := []string{"TIER", "CUT"}
	if met != nil {
		header = append(header, "MET")
	}
	var rows [][]string
	for _, tier := range standards.Tiers() {
		cut, ok := resp.Standards[tier]
		if !ok {
			continue
		}
		row := []string{tier, cut}
		if met != nil {
			mark := "no"
			if slices.Contains(met, tier) {
				mark = "yes"
			}
			row = append(row, mark)
		}
		rows = append(rows, row)
	}
	return p.table(header, rows)
}

func printEvents(p *printer, gender string) error {
	events := standards.Events(gender)
	slices.SortFunc(events, compareEvents)
	if p.json {
		return p.encode(map[string]any{"gender": gender, "events": events})
	}
	rows := make([][]string, len(events))
	for i, ev := range events {
		rows[i] = []string{ev}
	}
	return p.table([]string{"EVENT"}, rows)
}

// compareEvents orders by stroke in canonical order, then by distance, so
// 50_free precedes 100_free. Keys that are not events sort last.
func compareEvents(a, b string) int {
	ea, errA := course.ParseEvent(a)
	eb, errB := course.ParseEvent(b)
	switch {
	case errA != nil && errB != nil:
		return strings.Compare(a, b)
	case errA != nil:
		return 1
	case errB != nil:
		return -1
	}
	strokes := course.Strokes()
	return cmp.Or(
		cmp.Compare(slices.Index(strokes, ea.Stroke), slices.Index(strokes, eb.Stroke)),
		cmp.Compare(ea.Distance, eb.Distance),
	)
}
