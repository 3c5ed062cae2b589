package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/okian/fitscore/internal/domain/model"
	"github.com/okian/fitscore/internal/domain/scoring"
	"github.com/okian/fitscore/pkg/logger"
)

// Output formats for the score command.
const (
	formatJSON = "json"
	formatText = "text"
)

func newScoreCommand(root *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "score FILE",
		Short: "Score rated candidate data from a JSON or YAML file",
		Long: `Reads education, experience and skills ratings and prints the category
scores and weighted total using the configured engine.

Examples:
  fitscore score candidate.json
  fitscore score candidate.yaml --format text
  cat candidate.json | fitscore score -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatJSON && format != formatText {
				return fmt.Errorf("unknown format %q (want %s or %s)", format, formatJSON, formatText)
			}
			ctx := cmd.Context()
			cfg, err := root.loadConfig(ctx)
			if err != nil {
				return err
			}
			engine, err := scoring.NewEngine(scoring.WithConfig(cfg.Scoring()))
			if err != nil {
				return err
			}
			data, err := readScorable(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			result, err := engine.Score(data)
			if err != nil {
				return err
			}
			logger.Get().Named("cli").Debug(ctx, "scored candidate",
				logger.String("file", args[0]),
				logger.Int("total", result.TotalScore))

			if format == formatText {
				return writeText(cmd.OutOrStdout(), result)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "Output format: json or text")
	return cmd
}

func writeText(w io.Writer, r model.ScoringResult) error { //nolint:gocritic // hugeParam: printed once
	_, err := fmt.Fprintf(w, "education:  %3d (%d items)\nexperience: %3d (%d items)\nskills:     %3d (%d items)\ntotal:      %3d\n",
		r.Scores.Education, r.Breakdown.Education.Count,
		r.Scores.Experience, r.Breakdown.Experience.Count,
		r.Scores.Skills, r.Breakdown.Skills.Count,
		r.TotalScore)
	return err
}
