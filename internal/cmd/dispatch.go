package cmd

import (
	"context"

	"github.com/salmonumbrella/qsutils/internal/output"
	"github.com/salmonumbrella/qsutils/internal/sge"
	"github.com/salmonumbrella/qsutils/internal/ui"
)

type dispatchFlags struct {
	dryRun bool
	strict bool
}

// runDispatch runs cmds one at a time, announcing each on stderr. A failed
// qalter is reported as a warning and the remaining jobs are still tried;
// with --strict any failure becomes the command's error.
func runDispatch(ctx context.Context, client *sge.Client, cmds []sge.Command, flags dispatchFlags) error {
	u := ui.FromContext(ctx)
	dry := NewDryRunPrinter(stderrFromContext(ctx))

	results, err := client.Dispatch(ctx, cmds, sge.DispatchOptions{
		DryRun: flags.dryRun,
		OnStart: func(c sge.Command) {
			if flags.dryRun {
				dry.Command(c)
				return
			}
			u.Step("Running '%s'", c)
		},
	})
	if err != nil {
		return err
	}

	for _, r := range results {
		if r.Status == sge.StatusFailed {
			u.Warning("'%s' failed: %s", r.Command, r.Error)
		}
	}

	failed := sge.Failed(results)
	if output.Structured(ctx) || output.FormatFromContext(ctx) == output.FormatTable {
		if err := printerForContext(ctx).Print(ctx, results); err != nil {
			return err
		}
	}

	switch {
	case flags.dryRun:
		dry.Footer(len(results))
	case failed == 0:
		u.Success("Altered %d job(s)", len(results))
	case flags.strict:
		return &sge.DispatchError{Failed: failed, Total: len(results)}
	default:
		u.Warning("%d of %d job(s) could not be altered", failed, len(results))
	}
	return nil
}
