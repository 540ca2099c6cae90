package cmd

import (
	"github.com/spf13/cobra"

	"github.com/salmonumbrella/qsutils/internal/config"
	"github.com/salmonumbrella/qsutils/internal/qstat"
	"github.com/salmonumbrella/qsutils/internal/sge"
	"github.com/salmonumbrella/qsutils/internal/ui"
)

func newQueuesCmd() *cobra.Command {
	var (
		flags      dispatchFlags
		queuesFile string
	)

	cmd := &cobra.Command{
		Use:   "queues ALIAS",
		Short: "Move your waiting jobs to the queues named by ALIAS",
		Long: `Resolve ALIAS in the [queues] section of queues.cfg and run
'qalter -q QUEUES JOBID' for every job of yours in state qw.

queues.cfg is looked up in this order: --queues-file, $QSU_QUEUES_FILE,
the queues_file preference, ./queues.cfg, ~/.config/qsutils/queues.cfg.

  [user]
  name=mmb28

  [queues]
  serial=serial.q,serial_lowmem.q
  parallel=parallel.q

Only your own jobs are altered; [user] name is shown in the progress
line when set.`,
		Example: `  qsu queues serial
  qsu queues parallel --dry-run
  qsu queues serial --queues-file ~/lab/queues.cfg`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			alias := args[0]

			qc, err := config.FindQueues(config.QueuesSearchPath(queuesFile, ConfigFromContext(ctx)))
			if err != nil {
				return err
			}
			queues, err := qc.Resolve(alias)
			if err != nil {
				return err
			}

			user, err := invokingUser(ctx)
			if err != nil {
				return err
			}
			display := qc.UserName
			if display == "" {
				display = user
			}
			client, err := clientFromContext(ctx)
			if err != nil {
				return err
			}

			ui.FromContext(ctx).Info("Setting queues of %s to %s (%s)", display, alias, queues)
			table, err := client.Status(ctx, user)
			if err != nil {
				return err
			}
			queued, err := qstat.QueuedJobs(table)
			if err != nil {
				return err
			}
			ids, err := queued.JobIDs()
			if err != nil {
				return err
			}

			cmds := make([]sge.Command, 0, len(ids))
			for _, id := range ids {
				cmds = append(cmds, client.QueueCommand(id, queues))
			}
			return runDispatch(ctx, client, cmds, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Print the qalter commands without running them")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "Exit 1 if any qalter fails")
	cmd.Flags().StringVar(&queuesFile, "queues-file", "", "Queue alias file to use")
	return cmd
}
