package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/qsutils/internal/output"
	"github.com/salmonumbrella/qsutils/internal/qstat"
)

type remainingSummary struct {
	User      string `json:"user" yaml:"user"`
	Remaining int    `json:"remaining" yaml:"remaining"`
}

func newRemainingCmd() *cobra.Command {
	var userFlag string

	cmd := &cobra.Command{
		Use:   "remaining",
		Short: "Count queued jobs including pending array tasks",
		Long: `Count the jobs still waiting to run. Each array job contributes
end-start of its task range; other waiting jobs count once.

The task step is not taken into account, so "1-10:2" counts as 9.`,
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
			n, err := qstat.RemainingCapacity(table)
			if err != nil {
				return err
			}

			if output.Structured(ctx) {
				return printerForContext(ctx).Print(ctx, remainingSummary{User: user, Remaining: n})
			}
			_, err = fmt.Fprintln(stdoutFromContext(ctx), n)
			return err
		},
	}

	cmd.Flags().StringVarP(&userFlag, "user", "u", "", "User whose jobs to count")
	return cmd
}
