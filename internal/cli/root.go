// Package cli implements the swimconv command line.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	app "github.com/okian/swimconv/internal/app"
	"github.com/okian/swimconv/pkg/logger"
)

// Output formats.
const (
	outputText = "text"
	outputJSON = "json"
)

// rootOptions carries the persistent flags down to the subcommands.
type rootOptions struct {
	logLevel  string
	logFormat string
	strict    bool
	output    string
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "swimconv",
		Short:        "Convert swim times between SCY, SCM and LCM",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if opts.output != outputText && opts.output != outputJSON {
				return fmt.Errorf("%w: %q", ErrUnknownOutput, opts.output)
			}
			// Logs go to stderr so stdout stays parseable.
			return logger.InitWithOptions(logger.Options{
				Format: opts.logFormat,
				Level:  opts.logLevel,
				Output: cmd.ErrOrStderr(),
			})
		},
	}

	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", logger.FormatText, "log format: text or json")
	cmd.PersistentFlags().BoolVar(&opts.strict, "strict", false, "reject events that are not <distance>_<stroke>")
	cmd.PersistentFlags().StringVarP(&opts.output, "output", "o", outputText, "output format: text or json")

	cmd.AddCommand(
		convertCmd(opts),
		batchCmd(opts),
		standardsCmd(opts),
		checkCmd(opts),
		factorsCmd(opts),
		verifyCmd(opts),
	)
	return cmd
}

// service builds an unstarted conversion service. Only the job pipeline
// needs Start, and the CLI never submits jobs.
func (o *rootOptions) service(extra ...app.Option) *app.Service {
	opts := []app.Option{
		app.WithLogger(logger.Get().Named("cli")),
		app.WithStrictEvents(o.strict),
	}
	return app.New(append(opts, extra...)...)
}
