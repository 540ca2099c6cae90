package cmd

import (
	"github.com/spf13/cobra"

	"github.com/salmonumbrella/qsutils/internal/output"
	"github.com/salmonumbrella/qsutils/internal/qstat"
)

func newListCmd() *cobra.Command {
	var (
		userFlag  string
		stateFlag string
		arrayOnly bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List a user's jobs as parsed from qstat",
		Example: `  qsu list
  qsu list --state qw
  qsu list --array -o json --fields job-ID,ja-task-ID`,
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
			if stateFlag != "" {
				if table, err = qstat.FilterExact(table, qstat.ColState, stateFlag); err != nil {
					return err
				}
			}
			if arrayOnly {
				if table, err = qstat.ArrayJobs(table); err != nil {
					return err
				}
			}

			return printerForContext(ctx).Print(ctx, output.Table{Headers: table.Names(), Rows: table.Rows()})
		},
	}

	cmd.Flags().StringVarP(&userFlag, "user", "u", "", "User whose jobs to list")
	cmd.Flags().StringVar(&stateFlag, "state", "", "Only jobs in this state (e.g. qw, r)")
	cmd.Flags().BoolVar(&arrayOnly, "array", false, "Only array jobs")
	return cmd
}
