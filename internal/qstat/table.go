// Package qstat turns the fixed-width text printed by the SGE status command
// into a column-oriented table and provides the row filters and counters the
// CLI builds on.
package qstat

// Column names the rest of the tool relies on.
const (
	ColJobID  = "job-ID"
	ColState  = "state"
	ColTaskID = "ja-task-ID"
)

// StateQueuedWaiting is the state code of a job that is scheduled but not running.
const StateQueuedWaiting = "qw"

// Table holds parsed status output as one ordered string slice per column.
// Every column has the same length; rows are identified by position only.
type Table struct {
	names []string
	cols  map[string][]string
}

// NewTable returns an empty table with the given column names.
func NewTable(names ...string) *Table {
	t := &Table{
		names: append([]string(nil), names...),
		cols:  make(map[string][]string, len(names)),
	}
	for _, name := range names {
		t.cols[name] = []string{}
	}
	return t
}

// Names returns the column names in header order.
func (t *Table) Names() []string {
	return append([]string(nil), t.names...)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if len(t.names) == 0 {
		return 0
	}
	return len(t.cols[t.names[0]])
}

// Has reports whether the table has a column called name.
func (t *Table) Has(name string) bool {
	_, ok := t.cols[name]
	return ok
}

// Column returns the values of one column. The returned slice is a copy.
func (t *Table) Column(name string) ([]string, error) {
	col, ok := t.cols[name]
	if !ok {
		return nil, &ColumnNotFoundError{Column: name, Available: t.Names()}
	}
	return append([]string(nil), col...), nil
}

// Row returns row i as a column name to cell map.
func (t *Table) Row(i int) map[string]string {
	row := make(map[string]string, len(t.names))
	for _, name := range t.names {
		row[name] = t.cols[name][i]
	}
	return row
}

// Rows returns every row in order, each as a slice aligned with Names.
func (t *Table) Rows() [][]string {
	rows := make([][]string, t.Len())
	for i := range rows {
		row := make([]string, len(t.names))
		for j, name := range t.names {
			row[j] = t.cols[name][i]
		}
		rows[i] = row
	}
	return rows
}

// Records returns every row as a map, for structured output.
func (t *Table) Records() []map[string]string {
	out := make([]map[string]string, t.Len())
	for i := range out {
		out[i] = t.Row(i)
	}
	return out
}

// Select builds a new table from the given row indices, in the given order.
// Rows of the result are renumbered from zero.
func (t *Table) Select(indices []int) *Table {
	out := NewTable(t.names...)
	for _, name := range t.names {
		src := t.cols[name]
		dst := make([]string, 0, len(indices))
		for _, i := range indices {
			dst = append(dst, src[i])
		}
		out.cols[name] = dst
	}
	return out
}

// JobIDs returns the job-ID column.
func (t *Table) JobIDs() ([]string, error) {
	return t.Column(ColJobID)
}

// States returns the state column.
func (t *Table) States() ([]string, error) {
	return t.Column(ColState)
}

// TaskIDs returns the ja-task-ID column.
func (t *Table) TaskIDs() ([]string, error) {
	return t.Column(ColTaskID)
}

func (t *Table) appendRow(cells []string) {
	for j, name := range t.names {
		t.cols[name] = append(t.cols[name], cells[j])
	}
}
