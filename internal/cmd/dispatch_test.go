package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	clierrors "github.com/salmonumbrella/qsutils/internal/errors"
	"github.com/salmonumbrella/qsutils/internal/sge"
)

const queuesCfg = `[queues]
serial = serial.q, serial_lowmem.q
parallel=parallel.q
`

func TestThrottleCommand(t *testing.T) {
	isolate(t)
	r := newFakeRunner()

	res := runApp(t, context.Background(), r, "throttle", "5", "-o", "text")
	if res.err != nil {
		t.Fatalf("throttle: %v\n%s", res.err, res.stderr)
	}

	want := []string{"qstat -u as714", "qalter -tc 5 3340813"}
	if !reflect.DeepEqual(r.calls, want) {
		t.Fatalf("calls = %v, want %v", r.calls, want)
	}
	for _, line := range []string{"Limiting array jobs to 5", "Running 'qalter -tc 5 3340813'", "Altered 1 job(s)"} {
		if !strings.Contains(res.stderr, line) {
			t.Errorf("stderr missing %q:\n%s", line, res.stderr)
		}
	}
	if res.stdout != "" {
		t.Errorf("stdout = %q, want empty", res.stdout)
	}
}

func TestThrottleCommand_InvalidLimit(t *testing.T) {
	for _, arg := range []string{"abc", "2.5"} {
		t.Run(arg, func(t *testing.T) {
			isolate(t)
			r := newFakeRunner()

			res := runApp(t, context.Background(), r, "throttle", arg, "-o", "text")
			if !clierrors.IsValidationError(res.err) {
				t.Fatalf("err = %v, want validation error", res.err)
			}
			if got := ExitCode(res.err); got != ExitUsage {
				t.Fatalf("ExitCode = %d, want %d", got, ExitUsage)
			}
			if len(r.calls) != 0 {
				t.Fatalf("unexpected calls: %v", r.calls)
			}
		})
	}
}

func TestParseLimit(t *testing.T) {
	if n, err := parseLimit(" 10 "); err != nil || n != 10 {
		t.Fatalf("parseLimit(10) = %d, %v", n, err)
	}
	if n, err := parseLimit("0"); err != nil || n != 0 {
		t.Fatalf("parseLimit(0) = %d, %v", n, err)
	}
	if _, err := parseLimit("-3"); !clierrors.IsValidationError(err) {
		t.Fatalf("parseLimit(-3) err = %v, want validation error", err)
	}
}

func TestThrottleCommand_DryRun(t *testing.T) {
	isolate(t)
	r := newFakeRunner()

	res := runApp(t, context.Background(), r, "throttle", "5", "--dry-run", "-o", "text")
	if res.err != nil {
		t.Fatalf("throttle: %v", res.err)
	}
	if len(r.qalterCalls()) != 0 {
		t.Fatalf("dry run invoked qalter: %v", r.qalterCalls())
	}
	if !strings.Contains(res.stderr, "[DRY-RUN] Would run 'qalter -tc 5 3340813'") {
		t.Fatalf("stderr = %q", res.stderr)
	}
	if !strings.Contains(res.stderr, "[DRY-RUN] No changes made (1 job(s)).") {
		t.Fatalf("stderr = %q", res.stderr)
	}
}

func TestThrottleCommand_JSONResults(t *testing.T) {
	isolate(t)

	res := runApp(t, context.Background(), newFakeRunner(), "throttle", "7", "-o", "json")
	if res.err != nil {
		t.Fatalf("throttle: %v", res.err)
	}

	var results []sge.Result
	if err := json.Unmarshal([]byte(res.stdout), &results); err != nil {
		t.Fatalf("stdout is not JSON: %v\n%s", err, res.stdout)
	}
	if len(results) != 1 || results[0].JobID != "3340813" || results[0].Status != sge.StatusOK {
		t.Fatalf("results = %+v", results)
	}
	if results[0].Command != "qalter -tc 7 3340813" {
		t.Fatalf("command = %q", results[0].Command)
	}
}

func TestThrottleCommand_NoArrayJobs(t *testing.T) {
	isolate(t)
	r := newFakeRunner()
	r.outputs["qstat -u as714"] = ""

	res := runApp(t, context.Background(), r, "throttle", "5", "-o", "text")
	if res.err != nil {
		t.Fatalf("throttle: %v", res.err)
	}
	if len(r.qalterCalls()) != 0 {
		t.Fatalf("unexpected qalter calls: %v", r.qalterCalls())
	}
}

func TestQueuesCommand(t *testing.T) {
	isolate(t)
	r := newFakeRunner()
	path := writeQueuesFile(t, queuesCfg)

	res := runApp(t, context.Background(), r, "queues", "serial", "--queues-file", path, "-o", "text")
	if res.err != nil {
		t.Fatalf("queues: %v\n%s", res.err, res.stderr)
	}

	want := []string{
		"qstat -u as714",
		"qalter -q serial.q,serial_lowmem.q 3340813",
		"qalter -q serial.q,serial_lowmem.q 3340814",
	}
	if !reflect.DeepEqual(r.calls, want) {
		t.Fatalf("calls = %v, want %v", r.calls, want)
	}
	if !strings.Contains(res.stderr, "Setting queues of as714 to serial") {
		t.Errorf("stderr = %q", res.stderr)
	}
}

func TestQueuesCommand_FileUserIsDisplayOnly(t *testing.T) {
	isolate(t)
	r := newFakeRunner()
	r.outputs["qstat -u someoneelse"] = qstatOutput
	path := writeQueuesFile(t, "[user]\nname = someoneelse\n\n"+queuesCfg)

	res := runApp(t, context.Background(), r, "queues", "parallel", "--queues-file", path, "-o", "text")
	if res.err != nil {
		t.Fatalf("queues: %v", res.err)
	}
	want := []string{
		"qstat -u as714",
		"qalter -q parallel.q 3340813",
		"qalter -q parallel.q 3340814",
	}
	if !reflect.DeepEqual(r.calls, want) {
		t.Fatalf("calls = %v, want %v", r.calls, want)
	}
	if !strings.Contains(res.stderr, "Setting queues of someoneelse to parallel") {
		t.Fatalf("stderr = %q", res.stderr)
	}
}

func TestThrottleCommand_AnnouncesCommandsWhenPiped(t *testing.T) {
	isolate(t)
	r := newFakeRunner()

	res := runApp(t, context.Background(), r, "throttle", "5")
	if res.err != nil {
		t.Fatalf("throttle: %v", res.err)
	}
	if !strings.Contains(res.stderr, "Running 'qalter -tc 5 3340813'") {
		t.Fatalf("stderr = %q, want the qalter command line", res.stderr)
	}
	if strings.Contains(res.stderr, "Limiting array jobs") {
		t.Fatalf("quiet run should drop info lines, stderr = %q", res.stderr)
	}
	if !strings.HasPrefix(strings.TrimSpace(res.stdout), "[") {
		t.Fatalf("stdout = %q, want JSON results", res.stdout)
	}
}

func TestQueuesCommand_EnvFile(t *testing.T) {
	isolate(t)
	r := newFakeRunner()
	t.Setenv("QSU_QUEUES_FILE", writeQueuesFile(t, queuesCfg))

	res := runApp(t, context.Background(), r, "queues", "parallel", "-o", "text")
	if res.err != nil {
		t.Fatalf("queues: %v", res.err)
	}
	if len(r.qalterCalls()) != 2 {
		t.Fatalf("qalter calls = %v", r.qalterCalls())
	}
}

func TestQueuesCommand_UnknownAlias(t *testing.T) {
	isolate(t)
	r := newFakeRunner()
	path := writeQueuesFile(t, queuesCfg)

	res := runApp(t, context.Background(), r, "queues", "gpu", "--queues-file", path, "-o", "text")
	if !clierrors.IsConfigError(res.err) {
		t.Fatalf("err = %v, want config error", res.err)
	}
	if got := ExitCode(res.err); got != ExitError {
		t.Fatalf("ExitCode = %d, want %d", got, ExitError)
	}
	if len(r.calls) != 0 {
		t.Fatalf("unexpected calls: %v", r.calls)
	}
	if !strings.Contains(res.stderr, "Unknown queue alias 'gpu'") {
		t.Fatalf("stderr = %q", res.stderr)
	}
	if !strings.Contains(res.stderr, "parallel") {
		t.Fatalf("hint should list known aliases:\n%s", res.stderr)
	}
}

func TestQueuesCommand_MissingFile(t *testing.T) {
	home := isolate(t)
	r := newFakeRunner()

	res := runApp(t, context.Background(), r, "queues", "serial", "--queues-file", home+"/nope.cfg", "-o", "text")
	if got := ExitCode(res.err); got != ExitError {
		t.Fatalf("ExitCode = %d, want %d (err %v)", got, ExitError, res.err)
	}
	if len(r.calls) != 0 {
		t.Fatalf("unexpected calls: %v", r.calls)
	}
	if !strings.Contains(res.stderr, "Cannot find 'queues.cfg'.") {
		t.Fatalf("stderr = %q", res.stderr)
	}
}

func TestQueuesCommand_ContinuesAfterFailure(t *testing.T) {
	isolate(t)
	r := newFakeRunner()
	r.fail["qalter -q parallel.q 3340813"] = errors.New("denied")
	path := writeQueuesFile(t, queuesCfg)

	res := runApp(t, context.Background(), r, "queues", "parallel", "--queues-file", path, "-o", "text")
	if res.err != nil {
		t.Fatalf("queues without --strict should succeed, got %v", res.err)
	}
	if got := r.qalterCalls(); len(got) != 2 || got[1] != "qalter -q parallel.q 3340814" {
		t.Fatalf("qalter calls = %v", got)
	}
	if !strings.Contains(res.stderr, "'qalter -q parallel.q 3340813' failed: denied") {
		t.Fatalf("stderr = %q", res.stderr)
	}
	if !strings.Contains(res.stderr, "1 of 2 job(s) could not be altered") {
		t.Fatalf("stderr = %q", res.stderr)
	}
}

func TestQueuesCommand_Strict(t *testing.T) {
	isolate(t)
	r := newFakeRunner()
	r.fail["qalter -q parallel.q 3340814"] = errors.New("denied")
	path := writeQueuesFile(t, queuesCfg)

	res := runApp(t, context.Background(), r, "queues", "parallel", "--strict", "--queues-file", path, "-o", "text")
	var dispatchErr *sge.DispatchError
	if !errors.As(res.err, &dispatchErr) {
		t.Fatalf("err = %v, want *sge.DispatchError", res.err)
	}
	if dispatchErr.Failed != 1 || dispatchErr.Total != 2 {
		t.Fatalf("DispatchError = %+v", dispatchErr)
	}
	if got := ExitCode(res.err); got != ExitError {
		t.Fatalf("ExitCode = %d, want %d", got, ExitError)
	}
	if len(r.qalterCalls()) != 2 {
		t.Fatalf("qalter calls = %v", r.qalterCalls())
	}
}

func TestQueuesCommand_RequiresAlias(t *testing.T) {
	isolate(t)
	r := newFakeRunner()

	res := runApp(t, context.Background(), r, "queues", "-o", "text")
	if got := ExitCode(res.err); got != ExitUsage {
		t.Fatalf("ExitCode = %d, want %d", got, ExitUsage)
	}
	if len(r.calls) != 0 {
		t.Fatalf("unexpected calls: %v", r.calls)
	}
}
