package cli

import (
	"github.com/spf13/cobra"

	"github.com/okian/swimconv/internal/domain/conversion"
	"github.com/okian/swimconv/internal/domain/types"
)

func convertCmd(root *rootOptions) *cobra.Command {
	var req types.ConvertRequest

	c := &cobra.Command{
		Use:     "convert TIME",
		Short:   "Convert one time to another course",
		Example: "  swimconv convert 23.45 --event 50_free --from LCM --to SCY",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Time = args[0]
			req.FromCourse = normalizeCourse(req.FromCourse)
			req.ToCourse = normalizeCourse(req.ToCourse)
			res, err := root.service().Convert(cmd.Context(), req)
			if err != nil {
				return err
			}

			p := newPrinter(cmd.OutOrStdout(), root.output)
			if p.json {
				return p.encode(types.FromResult(res))
			}
			return printResult(p, res)
		},
	}

	c.Flags().StringVarP(&req.Event, "event", "e", "", "event, e.g. 100_free (required)")
	c.Flags().StringVar(&req.FromCourse, "from", "", "course of TIME: "+courseNames()+" (required)")
	c.Flags().StringVar(&req.ToCourse, "to", "", "target course (required)")
	c.Flags().BoolVar(&req.AltitudeAdjustment, "altitude", false, "apply the altitude correction")

	_ = c.MarkFlagRequired("event")
	_ = c.MarkFlagRequired("from")
	_ = c.MarkFlagRequired("to")
	return c
}

func printResult(p *printer, res conversion.Result) error {
	event := res.Event
	if res.Remapped {
		event += " -> " + res.MappedEvent
	}
	altitude := "-"
	if res.AltitudeAdjusted {
		altitude = formatFactor(res.AltitudeFactor)
	}

	err := p.table(
		[]string{"FROM", "TO", "EVENT", "FACTOR", "SOURCE", "ALTITUDE"},
		[][]string{{
			res.OriginalTime + " " + res.From.String(),
			res.ConvertedTime + " " + res.To.String(),
			event,
			formatFactor(res.Factor),
			string(res.FactorSource),
			altitude,
		}},
	)
	if err != nil {
		return err
	}
	if res.Warning != nil {
		p.warn(res.Warning.String())
	}
	return nil
}
