package cli

import (
	"context"
	"runtime"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/swimconv/internal/verify"
)

// Default verification settings.
const (
	defaultVerifyURL     = "http://localhost:9080"
	defaultVerifyCount   = 1000
	defaultWorkersPerCPU = 2
	defaultVerifyTimeout = 30 * time.Second
	defaultInvalidRatio  = 0.1
	maxVerifyDuration    = 10 * time.Minute
)

func verifyCmd(root *rootOptions) *cobra.Command {
	config := &verify.Config{}

	c := &cobra.Command{
		Use:   "verify",
		Short: "Check a running server against the local engine",
		Long: `Generate realistic times, convert them on a running server
concurrently and compare every answer with the local engine.

The command exits non-zero when any answer disagrees or fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), maxVerifyDuration)
			defer cancel()

			stats, runErr := verify.Run(ctx, config)
			if stats != nil {
				if err := printStats(newPrinter(cmd.OutOrStdout(), root.output), stats); err != nil {
					return err
				}
			}
			return runErr
		},
	}

	c.Flags().StringVar(&config.BaseURL, "url", defaultVerifyURL, "base URL of the server")
	c.Flags().IntVarP(&config.NumTimes, "count", "n", defaultVerifyCount, "number of times to generate")
	c.Flags().IntVarP(&config.Workers, "workers", "w", runtime.NumCPU()*defaultWorkersPerCPU, "concurrent requests")
	c.Flags().DurationVar(&config.Timeout, "timeout", defaultVerifyTimeout, "per-request timeout")
	c.Flags().Float64Var(&config.InvalidRatio, "invalid-ratio", defaultInvalidRatio, "share of deliberately malformed samples")
	c.Flags().StringVar(&config.OutputFile, "output-file", "", "write the generated samples to this JSON file")
	c.Flags().BoolVarP(&config.Verbose, "verbose", "v", false, "log progress while submitting")
	return c
}

func printStats(p *printer, stats *verify.Stats) error {
	if p.json {
		return p.encode(stats)
	}

	err := p.table(
		[]string{"GENERATED", "SUBMITTED", "MATCHED", "MISMATCHED", "FAILED", "DURATION"},
		[][]string{{
			strconv.Itoa(stats.Generated),
			strconv.Itoa(stats.Submitted),
			strconv.Itoa(stats.Matched),
			strconv.Itoa(stats.Mismatched),
			strconv.Itoa(stats.Failed),
			stats.Duration.Round(time.Millisecond).String(),
		}},
	)
	if err != nil || len(stats.Mismatches) == 0 {
		return err
	}

	p.title("mismatches")
	rows := make([][]string, 0, len(stats.Mismatches))
	for _, m := range stats.Mismatches {
		rows = append(rows, []string{m.Sample.Time, m.Sample.Event, m.Sample.From + "->" + m.Sample.To, m.Reason})
	}
	return p.table([]string{"TIME", "EVENT", "COURSES", "REASON"}, rows)
}
