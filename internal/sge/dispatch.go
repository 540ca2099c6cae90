package sge

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Command is one control command aimed at one job.
type Command struct {
	JobID string
	Name  string
	Args  []string
}

func (c Command) String() string {
	return CommandLine(c.Name, c.Args...)
}

// Result status values.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
	StatusDryRun = "dry-run"
)

// Result records what happened to one job.
type Result struct {
	JobID   string `json:"job_id" yaml:"job_id"`
	Command string `json:"command" yaml:"command"`
	Status  string `json:"status" yaml:"status"`
	Output  string `json:"output,omitempty" yaml:"output,omitempty"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
}

// DispatchOptions controls Dispatch.
type DispatchOptions struct {
	// DryRun reports the commands without running them.
	DryRun bool
	// OnStart is called with each command before it runs.
	OnStart func(Command)
}

// DispatchError reports that some control commands failed.
type DispatchError struct {
	Failed int
	Total  int
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("%d of %d job(s) could not be altered", e.Failed, e.Total)
}

// Dispatch runs cmds strictly in order, one invocation per job. A failing
// command is recorded and the remaining jobs are still attempted; nothing is
// retried or rolled back. Dispatch stops early only when ctx is done, and
// then returns the results so far along with ctx.Err().
func Dispatch(ctx context.Context, r Runner, cmds []Command, opts DispatchOptions) ([]Result, error) {
	results := make([]Result, 0, len(cmds))
	for _, c := range cmds {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		if opts.OnStart != nil {
			opts.OnStart(c)
		}

		res := Result{JobID: c.JobID, Command: c.String()}
		if opts.DryRun {
			res.Status = StatusDryRun
			results = append(results, res)
			continue
		}

		out, err := r.Run(ctx, c.Name, c.Args...)
		res.Output = strings.TrimSpace(string(out))
		if err != nil {
			slog.Debug("control command failed", "job", c.JobID, "error", err)
			res.Status = StatusFailed
			res.Error = err.Error()
		} else {
			res.Status = StatusOK
		}
		results = append(results, res)
	}
	return results, nil
}

// Failed counts the failed results.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Status == StatusFailed {
			n++
		}
	}
	return n
}
