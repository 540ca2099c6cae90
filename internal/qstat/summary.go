package qstat

// Summary condenses a status table for reporting.
type Summary struct {
	Total  int
	Counts Counts
	// Remaining is nil when RemainingCapacity failed; RemainingErr says why.
	Remaining    *int
	RemainingErr error
}

// Summarize counts states and, when every array row has a well-formed task
// range, the remaining capacity. Only a missing state column is an error.
func Summarize(t *Table) (Summary, error) {
	counts, err := CountBy(t, ColState)
	if err != nil {
		return Summary{}, err
	}
	s := Summary{Total: t.Len(), Counts: counts}
	if n, err := RemainingCapacity(t); err != nil {
		s.RemainingErr = err
	} else {
		s.Remaining = &n
	}
	return s, nil
}
