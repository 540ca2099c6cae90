package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/salmonumbrella/qsutils/internal/sge"
)

const qstatOutput = `job-ID  prior   name       user         state submit/start at     queue                          slots ja-task-ID
-----------------------------------------------------------------------------------------------------------------
3340812 0.50500 train      as714        r     11/10/2015 10:42:56 serial.q@node-1-3.local            1
3340813 0.50500 sweep      as714        qw    11/10/2015 10:40:12                                    1 1-100:1
3340814 0.00000 eval       as714        qw    11/10/2015 10:45:01                                    1

`

// fakeRunner answers qstat/qalter invocations keyed by their command line.
type fakeRunner struct {
	outputs map[string]string
	fail    map[string]error
	calls   []string
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		outputs: map[string]string{"qstat -u as714": qstatOutput},
		fail:    map[string]error{},
	}
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	line := sge.CommandLine(name, args...)
	f.calls = append(f.calls, line)
	if err := f.fail[line]; err != nil {
		return nil, err
	}
	return []byte(f.outputs[line]), nil
}

func (f *fakeRunner) qalterCalls() []string {
	var out []string
	for _, c := range f.calls {
		if strings.HasPrefix(c, "qalter ") {
			out = append(out, c)
		}
	}
	return out
}

type runResult struct {
	stdout string
	stderr string
	err    error
}

// isolate points HOME and the qsu environment at a fresh temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("QSU_OUTPUT", "")
	t.Setenv("QSU_QUEUES_FILE", "")
	t.Setenv("NO_COLOR", "1")
	return home
}

func runApp(t *testing.T, ctx context.Context, r sge.Runner, args ...string) runResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := &App{
		Stdout:      &stdout,
		Stderr:      &stderr,
		Version:     "1.2.3",
		Commit:      "abc123",
		BuildTime:   "2026-01-01",
		Runner:      r,
		CurrentUser: func() (string, error) { return "as714", nil },
	}
	err := app.Execute(ctx, args)
	return runResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func writeQueuesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "queues.cfg")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write queues.cfg: %v", err)
	}
	return path
}
