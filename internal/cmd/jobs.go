package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/qsutils/internal/output"
	"github.com/salmonumbrella/qsutils/internal/qstat"
)

type jobsSummary struct {
	User      string         `json:"user" yaml:"user"`
	Total     int            `json:"total" yaml:"total"`
	Counts    map[string]int `json:"counts" yaml:"counts"`
	Remaining *int           `json:"remaining,omitempty" yaml:"remaining,omitempty"`
}

func newJobsCmd() *cobra.Command {
	var userFlag string

	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Show job state counts for a user",
		Long: `Run 'qstat -u USER' and count the jobs in each state.

The user defaults to the 'user' preference, then to you.`,
		Example: `  qsu jobs
  qsu jobs -u mmb28
  qsu jobs -o json -q '.counts.qw'`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			user, err := reportUser(ctx, userFlag)
			if err != nil {
				return err
			}
			client, err := clientFromContext(ctx)
			if err != nil {
				return err
			}

			table, err := client.Status(ctx, user)
			if err != nil {
				return err
			}
			summary, err := qstat.Summarize(table)
			if err != nil {
				return err
			}
			if summary.RemainingErr != nil {
				slog.Debug("remaining capacity unavailable", "user", user, "error", summary.RemainingErr)
			}

			switch {
			case output.Structured(ctx):
				return printerForContext(ctx).Print(ctx, jobsSummary{
					User:      user,
					Total:     summary.Total,
					Counts:    summary.Counts.Map(),
					Remaining: summary.Remaining,
				})
			case output.FormatFromContext(ctx) == output.FormatTable:
				return printerForContext(ctx).Print(ctx, summary.Counts)
			}

			out := stdoutFromContext(ctx)
			_, _ = fmt.Fprintln(out, "Jobs of user", user)
			for _, c := range summary.Counts {
				_, _ = fmt.Fprintf(out, "%s: %d\n", c.Value, c.Count)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&userFlag, "user", "u", "", "User whose jobs to count")
	return cmd
}
