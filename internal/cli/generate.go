package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/navgen/pkg/errors"
	"github.com/matzehuels/navgen/pkg/pipeline"
)

// generateCommand creates the generate command, which runs the whole
// pipeline and writes the artifacts.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		flags   runFlags
		output  string
		noCache bool
		refresh bool
		dryRun  bool
	)

	cmd := &cobra.Command{
		Use:   "generate [feed]",
		Short: "Generate destination sources from a declaration feed",
		Long: `Generate reads a declaration feed (JSON or TOML), resolves every screen and
writes one source file per destination plus the nav graphs object.

Unchanged artifacts are not rewritten, and artifacts of screens that no longer
exist are deleted. Use --refresh to rewrite everything.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options(cmd, args[0], &flags)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("output") || opts.Output == "" {
				opts.Output = output
			}
			opts.Refresh = refresh
			opts.DryRun = dryRun
			return c.runGenerate(cmd.Context(), opts, noCache)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", pipeline.DefaultOutput, "output directory")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "do not read or write the incremental manifest")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "rewrite every artifact")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "resolve and emit without writing")

	return cmd
}

func (c *CLI) runGenerate(ctx context.Context, opts pipeline.Options, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	var res *pipeline.Result
	status, err := withRunProgress(ctx, c.status, func() (err error) {
		res, err = runner.Execute(ctx, opts)
		return err
	})
	if res == nil {
		return reportErrors(err)
	}
	prog.done(fmt.Sprintf("Processed %d screens, wrote %d artifacts",
		status.processed.Load(), status.written.Load()))

	if opts.DryRun {
		for _, a := range res.Artifacts {
			printFile(a.Path())
		}
	} else {
		for _, p := range res.Written {
			printFile(p)
		}
		for _, p := range res.Deleted {
			printDetail("deleted %s", p)
		}
	}
	printStats(res)

	if err != nil {
		return reportErrors(err)
	}
	if !opts.DryRun {
		printSuccess("Wrote %d artifacts to %s", len(res.Written), opts.Output)
		printNextStep("Inspect destinations", appName+" inspect "+opts.FeedPath)
	}
	return nil
}

// checkCommand creates the check command, which validates a feed without
// writing anything.
func (c *CLI) checkCommand() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "check [feed]",
		Short: "Validate a declaration feed without writing artifacts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options(cmd, args[0], &flags)
			if err != nil {
				return err
			}
			prog := newProgress(loggerFromContext(cmd.Context()))
			var res *pipeline.Result
			status, err := withRunProgress(cmd.Context(), c.status, func() (err error) {
				res, err = c.resolve(cmd.Context(), opts)
				return err
			})
			if err != nil {
				return reportErrors(err)
			}
			prog.done(fmt.Sprintf("Checked %d screens", status.processed.Load()))
			printSuccess("%d destinations, %d nav graphs: no setup errors", len(res.Screens), res.Stats.Graphs)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

// reportErrors prints every setup error of err and returns a summary error.
func reportErrors(err error) error {
	if err == nil || errors.Is(err, context.Canceled) {
		return err
	}
	all := errs.Flatten(err)
	for _, e := range all {
		printSetupError(e)
	}
	if len(all) == 1 {
		return fmt.Errorf("generation failed")
	}
	return fmt.Errorf("generation failed with %d errors", len(all))
}
