// Package diag prints warnings and errors on a stream separate from the
// extracted records.
package diag

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/xplshn/enumdefs/pkg/config"
)

const (
	cRed    = "\033[31m"
	cYellow = "\033[33m"
	cCyan   = "\033[36m"
	cNone   = "\033[0m"
)

// Pos locates a diagnostic in an input file. Line 0 means the whole file.
type Pos struct {
	File string
	Line int
}

func (p Pos) String() string {
	switch {
	case p.File == "":
		return ""
	case p.Line <= 0:
		return p.File + ": "
	default:
		return fmt.Sprintf("%s:%d: ", p.File, p.Line)
	}
}

type Reporter struct {
	w        io.Writer
	cfg      *config.Config
	prog     string
	color    bool
	noted    map[string]bool
	warnings int
	errors   int
}

// NewReporter writes to w. Colour is used only when w is a terminal.
func NewReporter(w io.Writer, prog string, cfg *config.Config) *Reporter {
	r := &Reporter{w: w, cfg: cfg, prog: prog, noted: make(map[string]bool)}
	if f, ok := w.(*os.File); ok {
		r.color = term.IsTerminal(int(f.Fd()))
	}
	return r
}

func (r *Reporter) paint(color, s string) string {
	if !r.color {
		return s
	}
	return color + s + cNone
}

// Warn prints a warning if wt is enabled and reports whether it did.
func (r *Reporter) Warn(wt config.Warning, pos Pos, format string, args ...interface{}) bool {
	if r.cfg != nil && !r.cfg.IsWarningEnabled(wt) {
		return false
	}
	r.warnings++
	name := ""
	if r.cfg != nil {
		name = r.cfg.WarningName(wt)
	}
	fmt.Fprintf(r.w, "%s%s ", pos, r.paint(cYellow, "warning:"))
	fmt.Fprintf(r.w, format, args...)
	if name != "" {
		fmt.Fprintf(r.w, " [-W%s]", name)
	}
	fmt.Fprintln(r.w)
	return true
}

// NoteOnce prints the given lines the first time key is seen and never again
// for this reporter.
func (r *Reporter) NoteOnce(key string, lines ...string) {
	if r.noted[key] {
		return
	}
	r.noted[key] = true
	for i, line := range lines {
		if i == 0 {
			fmt.Fprintf(r.w, "%s %s\n", r.paint(cCyan, "note:"), line)
			continue
		}
		fmt.Fprintf(r.w, "  %s\n", line)
	}
}

// Error prints an error. It does not stop the run; callers decide that.
func (r *Reporter) Error(pos Pos, format string, args ...interface{}) {
	r.errors++
	fmt.Fprintf(r.w, "%s%s ", pos, r.paint(cRed, "error:"))
	fmt.Fprintf(r.w, format, args...)
	fmt.Fprintln(r.w)
}

// Infof prints a progress line when verbose output is on.
func (r *Reporter) Infof(format string, args ...interface{}) {
	if r.cfg == nil || !r.cfg.Verbose {
		return
	}
	fmt.Fprintf(r.w, "%s: info: ", r.prog)
	fmt.Fprintf(r.w, format, args...)
	fmt.Fprintln(r.w)
}

func (r *Reporter) Warnings() int { return r.warnings }
func (r *Reporter) Errors() int   { return r.errors }
