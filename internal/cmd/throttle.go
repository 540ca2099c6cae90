package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	clierrors "github.com/salmonumbrella/qsutils/internal/errors"
	"github.com/salmonumbrella/qsutils/internal/qstat"
	"github.com/salmonumbrella/qsutils/internal/sge"
	"github.com/salmonumbrella/qsutils/internal/ui"
)

func newThrottleCmd() *cobra.Command {
	var flags dispatchFlags

	cmd := &cobra.Command{
		Use:   "throttle LIMIT",
		Short: "Limit how many tasks of each of your array jobs run at once",
		Long: `Run 'qalter -tc LIMIT JOBID' for every one of your array jobs.

Jobs are altered one at a time in qstat order. A failing qalter is
reported and the remaining jobs are still altered.`,
		Example: `  qsu throttle 5
  qsu throttle 10 --dry-run`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			limit, err := parseLimit(args[0])
			if err != nil {
				return err
			}

			user, err := invokingUser(ctx)
			if err != nil {
				return err
			}
			client, err := clientFromContext(ctx)
			if err != nil {
				return err
			}

			ui.FromContext(ctx).Info("Limiting array jobs to %d", limit)
			table, err := client.Status(ctx, user)
			if err != nil {
				return err
			}
			arrays, err := qstat.ArrayJobs(table)
			if err != nil {
				return err
			}
			ids, err := arrays.JobIDs()
			if err != nil {
				return err
			}

			cmds := make([]sge.Command, 0, len(ids))
			for _, id := range ids {
				cmds = append(cmds, client.ThrottleCommand(id, limit))
			}
			return runDispatch(ctx, client, cmds, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Print the qalter commands without running them")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "Exit 1 if any qalter fails")
	return cmd
}

func parseLimit(raw string) (int, error) {
	limit, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &clierrors.ValidationError{Field: "LIMIT", Message: fmt.Sprintf("%q is not an integer", raw)}
	}
	if limit < 0 {
		return 0, &clierrors.ValidationError{Field: "LIMIT", Message: "must not be negative"}
	}
	return limit, nil
}
