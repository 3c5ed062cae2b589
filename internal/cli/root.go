// Package cli implements the fitscore command line.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/okian/fitscore/internal/config"
	"github.com/okian/fitscore/pkg/logger"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configFile string
	verbose    bool
}

// NewRootCommand builds the fitscore command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "fitscore",
		Short: "Score how well a pre-rated candidate fits a job",
		Long: `fitscore turns low/medium/high ratings of a candidate's education,
experience and skills into per-category scores and a weighted total in 0..100.

Ratings come from an upstream rater; this tool only does the arithmetic.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := "warn"
			if opts.verbose {
				level = "debug"
			}
			return logger.Init(logger.WithWriter(cmd.ErrOrStderr()), logger.WithLevel(level))
		},
	}

	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default is $FITSCORE_CONFIG)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output")

	root.AddCommand(
		newScoreCommand(opts),
		newConfigCommand(opts),
		newSubmitCommand(opts),
	)
	return root
}

// Execute runs the command tree with ctx.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// loadConfig honours --config before falling back to the environment.
func (o *rootOptions) loadConfig(ctx context.Context) (*config.Config, error) {
	if o.configFile != "" {
		return config.LoadFrom(ctx, o.configFile)
	}
	return config.Load(ctx)
}
