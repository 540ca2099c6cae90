package output

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	clierrors "github.com/salmonumbrella/qsutils/internal/errors"
)

type result struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func jobsTable() Table {
	return Table{
		Headers: []string{"job-ID", "state", "ja-task-ID"},
		Rows: [][]string{
			{"101", "qw", ""},
			{"102", "qw", "3-7:1"},
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{input: "text", want: FormatText},
		{input: "", want: FormatText},
		{input: "  JSON ", want: FormatJSON},
		{input: "ndjson", want: FormatNDJSON},
		{input: "jsonl", want: FormatNDJSON},
		{input: "Table", want: FormatTable},
		{input: "yaml", want: FormatYAML},
		{input: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPrinter_TableText(t *testing.T) {
	var buf bytes.Buffer
	if err := NewPrinter(&buf, FormatText).Print(context.Background(), jobsTable()); err != nil {
		t.Fatalf("Print() error = %v", err)
	}

	want := "job-ID  state  ja-task-ID\n" +
		"101     qw     -\n" +
		"102     qw     3-7:1\n"
	if buf.String() != want {
		t.Errorf("Print() =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestPrinter_TableJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := NewPrinter(&buf, FormatJSON).Print(context.Background(), jobsTable()); err != nil {
		t.Fatalf("Print() error = %v", err)
	}

	var got []map[string]string
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}
	if len(got) != 2 || got[1]["ja-task-ID"] != "3-7:1" || got[0]["ja-task-ID"] != "" {
		t.Errorf("Print() = %v", got)
	}
}

func TestPrinter_TableNDJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := NewPrinter(&buf, FormatNDJSON).Print(context.Background(), jobsTable()); err != nil {
		t.Fatalf("Print() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), buf.String())
	}
	if lines[0] != `{"ja-task-ID":"","job-ID":"101","state":"qw"}` {
		t.Errorf("line 0 = %s", lines[0])
	}
}

func TestPrinter_YAML(t *testing.T) {
	var buf bytes.Buffer
	data := []result{{JobID: "7", Status: "ok"}}
	if err := NewPrinter(&buf, FormatYAML).Print(context.Background(), data); err != nil {
		t.Fatalf("Print() error = %v", err)
	}

	var got []map[string]string
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid YAML %q: %v", buf.String(), err)
	}
	if len(got) != 1 || got[0]["status"] != "ok" {
		t.Errorf("Print() = %v", got)
	}
}

func TestPrinter_StructSliceTable(t *testing.T) {
	var buf bytes.Buffer
	data := []result{
		{JobID: "1", Status: "ok"},
		{JobID: "2", Status: "failed", Error: "denied"},
	}
	if err := NewPrinter(&buf, FormatTable).Print(context.Background(), data); err != nil {
		t.Fatalf("Print() error = %v", err)
	}

	want := "JOB_ID  STATUS  ERROR\n" +
		"1       ok      -\n" +
		"2       failed  denied\n"
	if buf.String() != want {
		t.Errorf("Print() =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestPrinter_TextStructAndMap(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, FormatText)

	if err := p.Print(context.Background(), result{JobID: "5", Status: "ok"}); err != nil {
		t.Fatalf("Print() error = %v", err)
	}
	if buf.String() != "job_id: 5\nstatus: ok\n" {
		t.Errorf("struct output = %q", buf.String())
	}

	buf.Reset()
	if err := p.Print(context.Background(), map[string]int{"r": 1, "qw": 2}); err != nil {
		t.Fatalf("Print() error = %v", err)
	}
	if buf.String() != "qw: 2\nr: 1\n" {
		t.Errorf("map output = %q", buf.String())
	}

	buf.Reset()
	if err := p.Print(context.Background(), 5); err != nil {
		t.Fatalf("Print() error = %v", err)
	}
	if buf.String() != "5\n" {
		t.Errorf("scalar output = %q", buf.String())
	}
}

func TestPrinter_TableRequiresSlice(t *testing.T) {
	var buf bytes.Buffer
	err := NewPrinter(&buf, FormatTable).Print(context.Background(), result{JobID: "1"})
	if err == nil {
		t.Fatal("Print() error = nil, want error")
	}
}

func TestPrinter_NilData(t *testing.T) {
	var buf bytes.Buffer
	if err := NewPrinter(&buf, FormatJSON).Print(context.Background(), nil); err != nil {
		t.Fatalf("Print() error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Print(nil) wrote %q", buf.String())
	}
}

func TestPrinter_Query(t *testing.T) {
	ctx := WithQuery(context.Background(), `.[] | select(.["ja-task-ID"] != "") | .["job-ID"]`)

	var buf bytes.Buffer
	if err := NewPrinter(&buf, FormatJSON).Print(ctx, jobsTable()); err != nil {
		t.Fatalf("Print() error = %v", err)
	}
	if buf.String() != "\"102\"\n" {
		t.Errorf("Print() = %q", buf.String())
	}

	buf.Reset()
	if err := NewPrinter(&buf, FormatText).Print(ctx, jobsTable()); err != nil {
		t.Fatalf("Print() error = %v", err)
	}
	if buf.String() != "102\n" {
		t.Errorf("text Print() = %q", buf.String())
	}
}

func TestPrinter_InvalidQuery(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithQuery(context.Background(), `.[] | {key`)

	err := NewPrinter(&buf, FormatJSON).Print(ctx, jobsTable())
	if err == nil {
		t.Fatal("expected error for incomplete jq query")
	}
	if !strings.Contains(err.Error(), "invalid --query:") || !strings.Contains(err.Error(), "query looks incomplete") {
		t.Errorf("unexpected error: %v", err)
	}
	if ValidateQuery(".[0]") != nil {
		t.Error("ValidateQuery(.[0]) returned error")
	}
}

func TestPrinter_Fields(t *testing.T) {
	ctx := WithFields(context.Background(), "id=job-ID,state")

	var buf bytes.Buffer
	if err := NewPrinter(&buf, FormatJSON).Print(ctx, jobsTable()); err != nil {
		t.Fatalf("Print() error = %v", err)
	}

	var got []map[string]string
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}
	if len(got) != 2 || got[0]["id"] != "101" || got[0]["state"] != "qw" || len(got[0]) != 2 {
		t.Errorf("Print() = %v", got)
	}
}

func TestPrinter_FieldsRejectedForTable(t *testing.T) {
	ctx := WithFields(context.Background(), "state")
	err := NewPrinter(&bytes.Buffer{}, FormatTable).Print(ctx, jobsTable())
	if !clierrors.IsUserError(err) {
		t.Errorf("Print() error = %v, want UserError", err)
	}
}

func TestValidateFields(t *testing.T) {
	tests := []struct {
		raw     string
		wantErr bool
	}{
		{raw: "", wantErr: false},
		{raw: "state", wantErr: false},
		{raw: "a=b.0.c", wantErr: false},
		{raw: "=state", wantErr: true},
		{raw: "a=b..c", wantErr: true},
		{raw: " , ", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if err := ValidateFields(tt.raw); (err != nil) != tt.wantErr {
				t.Errorf("ValidateFields(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
		})
	}
}

func TestPrinter_JSONPath(t *testing.T) {
	ctx := WithJSONPath(context.Background(), "$[1].state")

	var buf bytes.Buffer
	if err := NewPrinter(&buf, FormatJSON).Print(ctx, jobsTable()); err != nil {
		t.Fatalf("Print() error = %v", err)
	}
	if strings.TrimSpace(buf.String()) != `"qw"` {
		t.Errorf("Print() = %q", buf.String())
	}
}

func TestNormalizeJSONPath(t *testing.T) {
	tests := map[string]string{
		"$.a":  "$.a",
		".a":   "$.a",
		"[0]":  "$[0]",
		"a.b":  "$.a.b",
		" @.x": "@.x",
	}
	for in, want := range tests {
		if got := normalizeJSONPath(in); got != want {
			t.Errorf("normalizeJSONPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestContextDefaults(t *testing.T) {
	ctx := context.Background()
	if FormatFromContext(ctx) != FormatText {
		t.Errorf("FormatFromContext() = %v, want text", FormatFromContext(ctx))
	}
	if QuietFromContext(ctx) || Structured(ctx) {
		t.Error("expected quiet and structured to default to false")
	}

	ctx = WithQuiet(WithFormat(ctx, FormatYAML), true)
	if !QuietFromContext(ctx) || !Structured(ctx) {
		t.Error("expected quiet and structured after setting them")
	}
	if !Structured(WithQuery(context.Background(), ".")) {
		t.Error("a jq query should make output structured")
	}
}
