package qstat

import (
	"fmt"
	"strings"
)

// FormatError reports status text that cannot be turned into a table.
// Line is 1-based; zero means the error is not tied to a line.
type FormatError struct {
	Line   int
	Reason string
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed status output (line %d): %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("malformed status output: %s", e.Reason)
}

// ColumnNotFoundError reports a lookup of a column the header did not produce.
type ColumnNotFoundError struct {
	Column    string
	Available []string
}

func (e *ColumnNotFoundError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("column %q not found", e.Column)
	}
	return fmt.Sprintf("column %q not found (have: %s)", e.Column, strings.Join(e.Available, ", "))
}

// PatternMismatchError reports an array-job task field not in start-end:step form.
type PatternMismatchError struct {
	JobID string
	Value string
}

func (e *PatternMismatchError) Error() string {
	return fmt.Sprintf("job %s: task range %q does not match start-end:step", e.JobID, e.Value)
}
