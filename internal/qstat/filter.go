package qstat

import (
	"regexp"
	"strconv"
	"strings"
)

var taskRange = regexp.MustCompile(`^(\d+)-(\d+):(\d+)`)

// FilterExact returns the rows whose cell in column equals value.
func FilterExact(t *Table, column, value string) (*Table, error) {
	return filter(t, column, func(cell string) bool { return cell == value })
}

// FilterContains returns the rows whose cell in column contains substr.
func FilterContains(t *Table, column, substr string) (*Table, error) {
	return filter(t, column, func(cell string) bool { return strings.Contains(cell, substr) })
}

func filter(t *Table, column string, keep func(string) bool) (*Table, error) {
	col, ok := t.cols[column]
	if !ok {
		return nil, &ColumnNotFoundError{Column: column, Available: t.Names()}
	}
	var indices []int
	for i, cell := range col {
		if keep(cell) {
			indices = append(indices, i)
		}
	}
	return t.Select(indices), nil
}

// QueuedJobs returns the rows in the queued-waiting state.
func QueuedJobs(t *Table) (*Table, error) {
	return FilterExact(t, ColState, StateQueuedWaiting)
}

// ArrayJobs returns the rows whose task field holds a range.
func ArrayJobs(t *Table) (*Table, error) {
	return FilterContains(t, ColTaskID, "-")
}

// Count is the number of rows holding one value.
type Count struct {
	Value string `json:"value" yaml:"value"`
	Count int    `json:"count" yaml:"count"`
}

// Counts lists distinct values in order of first appearance.
type Counts []Count

// Map returns the counts keyed by value.
func (c Counts) Map() map[string]int {
	m := make(map[string]int, len(c))
	for _, e := range c {
		m[e.Value] = e.Count
	}
	return m
}

// Get returns the count for value, zero when absent.
func (c Counts) Get(value string) int {
	for _, e := range c {
		if e.Value == value {
			return e.Count
		}
	}
	return 0
}

// CountBy tallies the distinct values of one column.
func CountBy(t *Table, column string) (Counts, error) {
	col, err := t.Column(column)
	if err != nil {
		return nil, err
	}
	var counts Counts
	pos := make(map[string]int)
	for _, v := range col {
		if i, ok := pos[v]; ok {
			counts[i].Count++
			continue
		}
		pos[v] = len(counts)
		counts = append(counts, Count{Value: v, Count: 1})
	}
	return counts, nil
}

// TaskRange is the start-end:step task field of an array job.
type TaskRange struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
	Step  int `json:"step" yaml:"step"`
}

// ParseTaskRange parses an array-job task field such as "1-100:1".
func ParseTaskRange(s string) (TaskRange, bool) {
	m := taskRange.FindStringSubmatch(s)
	if m == nil {
		return TaskRange{}, false
	}
	start, err1 := strconv.Atoi(m[1])
	end, err2 := strconv.Atoi(m[2])
	step, err3 := strconv.Atoi(m[3])
	if err1 != nil || err2 != nil || err3 != nil {
		return TaskRange{}, false
	}
	return TaskRange{Start: start, End: end, Step: step}, true
}

// RemainingCapacity returns the number of tasks still waiting to run: the
// span end-start of every array row, plus every queued row, minus the array
// rows themselves since each is already one of the queued rows. The step is
// not applied to the span.
func RemainingCapacity(t *Table) (int, error) {
	arrays, err := ArrayJobs(t)
	if err != nil {
		return 0, err
	}
	states, err := t.States()
	if err != nil {
		return 0, err
	}
	tasks, err := arrays.TaskIDs()
	if err != nil {
		return 0, err
	}
	ids, err := arrays.JobIDs()
	if err != nil {
		return 0, err
	}

	total := 0
	for i, task := range tasks {
		r, ok := ParseTaskRange(task)
		if !ok {
			return 0, &PatternMismatchError{JobID: ids[i], Value: task}
		}
		total += r.End - r.Start
	}
	for _, s := range states {
		if s == StateQueuedWaiting {
			total++
		}
	}
	return total - arrays.Len(), nil
}
