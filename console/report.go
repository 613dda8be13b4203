package console

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Reporter prints fatal errors and halts until the user acknowledges them
type Reporter struct {
	out         io.Writer
	in          io.Reader
	interactive bool
	signal      *CloseSignal

	label lipgloss.Style
	hint  lipgloss.Style
}

// NewReporter reports on stdout and waits for Enter on stdin when stdin is a terminal
func NewReporter(sig *CloseSignal) *Reporter {
	fd := os.Stdin.Fd()
	interactive := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	return NewReporterTo(os.Stdout, os.Stdin, interactive, sig)
}

// NewReporterTo reports on out; when interactive it blocks reading a line from in
func NewReporterTo(out io.Writer, in io.Reader, interactive bool, sig *CloseSignal) *Reporter {
	r := lipgloss.NewRenderer(out)
	return &Reporter{
		out:         out,
		in:          in,
		interactive: interactive,
		signal:      sig,
		label:       r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		hint:        r.NewStyle().Faint(true),
	}
}

// Report requests close, prints err and waits for acknowledgment
func (r *Reporter) Report(err error) {
	if err == nil {
		return
	}
	if r.signal != nil {
		r.signal.Request()
	}
	log.Printf("[Error] (conpix): %v", err)

	fmt.Fprintf(r.out, "%s (conpix): %v\n", r.label.Render("[Error]"), err)
	if !r.interactive || r.in == nil {
		return
	}
	fmt.Fprintln(r.out, r.hint.Render("Press Enter to exit."))
	bufio.NewReader(r.in).ReadString('\n')
}
