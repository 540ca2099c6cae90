package sge

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/salmonumbrella/qsutils/internal/qstat"
)

// Client issues qstat and qalter invocations through a Runner.
type Client struct {
	runner Runner
	qstat  string
	qalter string
}

// NewClient returns a Client. Empty binary names fall back to "qstat" and
// "qalter" on PATH.
func NewClient(r Runner, qstatBin, qalterBin string) *Client {
	if qstatBin == "" {
		qstatBin = "qstat"
	}
	if qalterBin == "" {
		qalterBin = "qalter"
	}
	return &Client{runner: r, qstat: qstatBin, qalter: qalterBin}
}

// Status runs `qstat -u user` and parses its output. qstat prints nothing
// for a user without jobs; that yields an empty table with the job-ID,
// state and ja-task-ID columns.
func (c *Client) Status(ctx context.Context, user string) (*qstat.Table, error) {
	out, err := c.runner.Run(ctx, c.qstat, "-u", user)
	if err != nil {
		return nil, fmt.Errorf("query job status: %w", err)
	}
	if strings.TrimSpace(string(out)) == "" {
		return qstat.NewTable(qstat.ColJobID, qstat.ColState, qstat.ColTaskID), nil
	}
	return qstat.Parse(string(out))
}

// QueueCommand builds `qalter -q QUEUES JOBID`.
func (c *Client) QueueCommand(jobID, queues string) Command {
	return Command{JobID: jobID, Name: c.qalter, Args: []string{"-q", queues, jobID}}
}

// ThrottleCommand builds `qalter -tc LIMIT JOBID`.
func (c *Client) ThrottleCommand(jobID string, limit int) Command {
	return Command{JobID: jobID, Name: c.qalter, Args: []string{"-tc", strconv.Itoa(limit), jobID}}
}

// Dispatch runs cmds one after another with the client's runner.
func (c *Client) Dispatch(ctx context.Context, cmds []Command, opts DispatchOptions) ([]Result, error) {
	return Dispatch(ctx, c.runner, cmds, opts)
}
