package cmd

import (
	"fmt"
	"io"

	"github.com/salmonumbrella/qsutils/internal/sge"
)

// DryRunPrinter formats --dry-run output for the dispatching commands.
type DryRunPrinter struct {
	w io.Writer
}

// NewDryRunPrinter creates a new DryRunPrinter that writes to the given writer.
func NewDryRunPrinter(w io.Writer) *DryRunPrinter {
	return &DryRunPrinter{w: w}
}

// Command prints one command that would run.
// Example: [DRY-RUN] Would run 'qalter -tc 5 102'
func (p *DryRunPrinter) Command(c sge.Command) {
	_, _ = fmt.Fprintf(p.w, "[DRY-RUN] Would run '%s'\n", c)
}

// Footer prints the closing line.
func (p *DryRunPrinter) Footer(jobs int) {
	_, _ = fmt.Fprintf(p.w, "[DRY-RUN] No changes made (%d job(s)).\n", jobs)
}
