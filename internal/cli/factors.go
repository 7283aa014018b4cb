package cli

import (
	"cmp"
	"slices"

	"github.com/spf13/cobra"

	"github.com/okian/swimconv/internal/domain/course"
	"github.com/okian/swimconv/internal/domain/factors"
)

type factorRow struct {
	From   string  `json:"from_course"`
	To     string  `json:"to_course"`
	Event  string  `json:"event"`
	Factor float64 `json:"factor"`
}

type altitudeRow struct {
	Stroke string  `json:"stroke"`
	Factor float64 `json:"factor"`
}

func factorsCmd(root *rootOptions) *cobra.Command {
	var from, to string
	var altitude bool

	c := &cobra.Command{
		Use:   "factors",
		Short: "List the conversion or altitude factor tables",
		Long: `List the conversion factor table, optionally narrowed to one course pair.

Only table entries are shown. Pairs missing from the table fall back to the
directional default or to 1.0 at conversion time. With --altitude the
per-stroke altitude corrections are listed instead.`,
		Example: "  swimconv factors --from LCM --to SCY",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := newPrinter(cmd.OutOrStdout(), root.output)
			if altitude {
				return printAltitude(p)
			}

			var src, dst course.Course
			var err error
			if from != "" {
				if src, err = course.Parse(normalizeCourse(from)); err != nil {
					return err
				}
			}
			if to != "" {
				if dst, err = course.Parse(normalizeCourse(to)); err != nil {
					return err
				}
			}
			return printFactors(p, factorTable(src, dst))
		},
	}

	c.Flags().StringVar(&from, "from", "", "only factors from this course: "+courseNames())
	c.Flags().StringVar(&to, "to", "", "only factors to this course")
	c.Flags().BoolVar(&altitude, "altitude", false, "list the altitude corrections by stroke")
	return c
}

// factorTable returns the table entries matching the non-empty courses,
// ordered by course pair and then by event.
func factorTable(from, to course.Course) []factorRow {
	keys := factors.Keys()
	keys = slices.DeleteFunc(keys, func(k factors.Key) bool {
		return (from != "" && k.From != from) || (to != "" && k.To != to)
	})
	order := course.All()
	slices.SortFunc(keys, func(a, b factors.Key) int {
		return cmp.Or(
			cmp.Compare(slices.Index(order, a.From), slices.Index(order, b.From)),
			cmp.Compare(slices.Index(order, a.To), slices.Index(order, b.To)),
			compareEvents(a.Event, b.Event),
		)
	})

	rows := make([]factorRow, 0, len(keys))
	for _, k := range keys {
		f, _ := factors.Lookup(k)
		rows = append(rows, factorRow{From: k.From.String(), To: k.To.String(), Event: k.Event, Factor: f})
	}
	return rows
}

func printFactors(p *printer, rows []factorRow) error {
	if p.json {
		return p.encode(rows)
	}
	if len(rows) == 0 {
		p.warn("no table entries for that pair")
		return nil
	}
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{r.From, r.To, r.Event, formatFactor(r.Factor)}
	}
	return p.table([]string{"FROM", "TO", "EVENT", "FACTOR"}, out)
}

func printAltitude(p *printer) error {
	var rows []altitudeRow
	for _, st := range course.Strokes() {
		if f, ok := factors.Altitude(st); ok {
			rows = append(rows, altitudeRow{Stroke: string(st), Factor: f})
		}
	}
	if p.json {
		return p.encode(rows)
	}
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{r.Stroke, formatFactor(r.Factor)}
	}
	return p.table([]string{"STROKE", "FACTOR"}, out)
}
