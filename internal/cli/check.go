package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/okian/swimconv/internal/domain/types"
)

func checkCmd(root *rootOptions) *cobra.Command {
	var req types.ValidateRequest

	c := &cobra.Command{
		Use:   "check TIME",
		Short: "Check that a time is believable for its distance",
		Long: `Check TIME against the sanity window of the event's distance.

The command exits non-zero when the time falls outside the window, which
usually means a typo or a time entered in the wrong unit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Time = args[0]
			resp, err := root.service().Validate(cmd.Context(), req)
			if err != nil {
				return err
			}

			p := newPrinter(cmd.OutOrStdout(), root.output)
			if p.json {
				err = p.encode(resp)
			} else {
				err = printVerdict(p, req, resp)
			}
			if err != nil {
				return err
			}

			if !resp.Plausible {
				return fmt.Errorf("%w: %s for %s", ErrImplausible, req.Time, req.Event)
			}
			return nil
		},
	}

	c.Flags().StringVarP(&req.Event, "event", "e", "", "event, e.g. 100_free (required)")
	_ = c.MarkFlagRequired("event")
	return c
}

func printVerdict(p *printer, req types.ValidateRequest, resp types.ValidateResponse) error {
	window := "none"
	if resp.Min != nil && resp.Max != nil {
		window = formatFactor(*resp.Min) + "-" + formatFactor(*resp.Max) + "s"
	}
	verdict := "plausible"
	if !resp.Plausible {
		verdict = "implausible"
	}
	return p.table(
		[]string{"TIME", "SECONDS", "EVENT", "WINDOW", "VERDICT"},
		[][]string{{req.Time, strconv.FormatFloat(resp.Seconds, 'f', 2, 64), req.Event, window, verdict}},
	)
}
