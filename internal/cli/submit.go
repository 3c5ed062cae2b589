package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/fitscore/internal/domain/types"
	"github.com/okian/fitscore/pkg/logger"
)

const submitTimeout = 10 * time.Second

// ErrSubmitRejected is returned when the service answers with a non-2xx status.
var ErrSubmitRejected = errors.New("submission rejected")

type submitOptions struct {
	url       string
	id        string
	candidate string
	job       string
}

func newSubmitCommand(_ *rootOptions) *cobra.Command {
	opts := &submitOptions{}

	cmd := &cobra.Command{
		Use:   "submit FILE",
		Short: "Submit rated candidate data to a running fitscore service",
		Long: `Posts the ratings in FILE to POST /evaluations and prints the
acknowledgement. Poll GET /evaluations/{id} for the result.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readScorable(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			req := types.SubmitRequest{
				EvaluationID: opts.id,
				CandidateID:  opts.candidate,
				JobID:        opts.job,
				Data:         data,
			}
			ack, err := submit(cmd.Context(), http.DefaultClient, opts.url, req)
			if err != nil {
				return err
			}
			logger.Get().Named("cli").Debug(cmd.Context(), "evaluation submitted",
				logger.String("evaluation_id", ack.EvaluationID),
				logger.Bool("duplicate", ack.Duplicate))

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(ack)
		},
	}

	cmd.Flags().StringVar(&opts.url, "url", "http://localhost:9080", "Base URL of the fitscore service")
	cmd.Flags().StringVar(&opts.id, "id", "", "Evaluation ID (assigned by the service when empty)")
	cmd.Flags().StringVar(&opts.candidate, "candidate", "", "Candidate ID")
	cmd.Flags().StringVar(&opts.job, "job", "", "Job ID")
	return cmd
}

func submit(ctx context.Context, client *http.Client, baseURL string, body types.SubmitRequest) (types.SubmitAck, error) { //nolint:gocritic // hugeParam: request value
	var ack types.SubmitAck

	payload, err := json.Marshal(body)
	if err != nil {
		return ack, fmt.Errorf("encode submission: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, submitTimeout)
	defer cancel()

	endpoint := strings.TrimRight(baseURL, "/") + "/evaluations"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return ack, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return ack, fmt.Errorf("post %s: %w", endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return ack, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ack, fmt.Errorf("%w: %s: %s", ErrSubmitRejected, resp.Status, strings.TrimSpace(string(raw)))
	}
	if err := json.Unmarshal(raw, &ack); err != nil {
		return ack, fmt.Errorf("decode acknowledgement: %w", err)
	}
	return ack, nil
}
