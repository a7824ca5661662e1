package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
)

type progressReporter struct {
	enabled bool
	out     io.Writer
	label   string
	start   time.Time
	spinner int
	lastLen int
}

// newProgressReporter draws on w only when requested and w is a terminal.
func newProgressReporter(w io.Writer, label string, requested bool) *progressReporter {
	enabled := false
	if f, ok := w.(*os.File); ok && requested {
		enabled = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &progressReporter{
		enabled: enabled,
		out:     w,
		label:   label,
		start:   time.Now(),
	}
}

func (r *progressReporter) Update(file string, done, total int) {
	if !r.enabled {
		return
	}
	frames := [4]string{"-", "\\", "|", "/"}
	frame := frames[r.spinner%len(frames)]
	r.spinner++
	file = strings.TrimSpace(file)
	if len(file) > 88 {
		file = "..." + file[len(file)-85:]
	}
	r.printStatus(fmt.Sprintf("%s %s %d/%d %s", frame, r.label, done, total, file))
}

func (r *progressReporter) Done(files, diagnostics int) {
	if !r.enabled {
		return
	}
	elapsed := time.Since(r.start).Round(time.Millisecond)
	r.printStatus(fmt.Sprintf("%s complete (%d files, %d diagnostics in %s)", r.label, files, diagnostics, elapsed))
	fmt.Fprintln(r.out)
}

func (r *progressReporter) printStatus(status string) {
	if r.lastLen > len(status) {
		status = status + strings.Repeat(" ", r.lastLen-len(status))
	}
	r.lastLen = len(status)
	fmt.Fprintf(r.out, "\r%s", status)
}
