package cli

import (
	"fmt"
	"io"
)

// IO handles command output and collects warnings.
type IO struct {
	out      io.Writer
	errOut   io.Writer
	warnings []string
	started  bool
}

// NewIO creates a new IO instance.
func NewIO(out, errOut io.Writer) *IO {
	return &IO{out: out, errOut: errOut}
}

// Warn records a non-fatal problem. Warnings are printed to stderr at both
// the start and the end of output, so they survive piping through
// head/tail, and any warning turns the exit code to 1. Normal output still
// happens - partial results with issues flagged beat no results.
func (o *IO) Warn(msg string) {
	o.warnings = append(o.warnings, msg)
}

// Println writes to stdout. On first call, any collected warnings are
// printed to stderr first.
func (o *IO) Println(a ...any) {
	o.flushWarningsStart()
	_, _ = fmt.Fprintln(o.out, a...)
}

// Printf writes formatted output to stdout. On first call, any collected
// warnings are printed to stderr first.
func (o *IO) Printf(format string, a ...any) {
	o.flushWarningsStart()
	_, _ = fmt.Fprintf(o.out, format, a...)
}

// Finish prints warnings to stderr and returns the exit code:
// 1 if any warnings, 0 otherwise.
func (o *IO) Finish() int {
	o.flushWarningsStart()

	for _, w := range o.warnings {
		_, _ = fmt.Fprintln(o.errOut, "warning:", w)
	}

	if len(o.warnings) > 0 {
		return 1
	}

	return 0
}

func (o *IO) flushWarningsStart() {
	if !o.started && len(o.warnings) > 0 {
		for _, w := range o.warnings {
			_, _ = fmt.Fprintln(o.errOut, "warning:", w)
		}

		o.started = true
	}
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}
