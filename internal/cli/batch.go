package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	app "github.com/okian/swimconv/internal/app"
	"github.com/okian/swimconv/internal/domain/course"
	"github.com/okian/swimconv/internal/domain/types"
)

func batchCmd(root *rootOptions) *cobra.Command {
	var req types.BatchRequest

	c := &cobra.Command{
		Use:   "batch FILE",
		Short: "Convert a YAML or JSON list of {time, event} entries",
		Long: `Convert every entry of FILE between two courses.

FILE holds a list of entries, for example:

  - {time: "23.45", event: 50_free}
  - {time: "1:02.10", event: 100_breast}

A bad entry is reported in its row and never fails the whole batch.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.FromCourse = normalizeCourse(req.FromCourse)
			req.ToCourse = normalizeCourse(req.ToCourse)
			for _, name := range []string{req.FromCourse, req.ToCourse} {
				if _, err := course.Parse(name); err != nil {
					return err
				}
			}

			times, err := readEntries(args[0])
			if err != nil {
				return err
			}
			req.Times = times

			svc := root.service(app.WithMaxBatchSize(len(times)))
			resp, err := svc.ConvertBatch(cmd.Context(), req)
			if err != nil {
				return err
			}

			p := newPrinter(cmd.OutOrStdout(), root.output)
			if p.json {
				return p.encode(resp)
			}
			return printBatch(p, req.Times, resp)
		},
	}

	c.Flags().StringVar(&req.FromCourse, "from", "", "course of the times: "+courseNames()+" (required)")
	c.Flags().StringVar(&req.ToCourse, "to", "", "target course (required)")
	c.Flags().BoolVar(&req.AltitudeAdjustment, "altitude", false, "apply the altitude correction")

	_ = c.MarkFlagRequired("from")
	_ = c.MarkFlagRequired("to")
	return c
}

// readEntries decodes a batch file. YAML is a superset of JSON, so one
// decoder serves both.
func readEntries(path string) ([]types.TimeEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadBatch, err)
	}
	var entries []types.TimeEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrReadBatch, path, err)
	}
	return entries, nil
}

func printBatch(p *printer, entries []types.TimeEntry, resp types.BatchResponse) error {
	rows := make([][]string, 0, len(resp.Items))
	for i, item := range resp.Items {
		row := []string{strconv.Itoa(i + 1), entries[i].Time, entries[i].Event}
		if item.Error != nil {
			row = append(row, "", "", "", item.Error.Code+": "+item.Error.Message)
		} else {
			r := item.Result
			row = append(row, r.ConvertedTime, formatFactor(r.Factor), r.FactorSource, r.Warning)
		}
		rows = append(rows, row)
	}

	if err := p.table([]string{"#", "TIME", "EVENT", "CONVERTED", "FACTOR", "SOURCE", "NOTE"}, rows); err != nil {
		return err
	}
	p.title("%d converted, %d failed", resp.Succeeded, resp.Failed)
	return nil
}
