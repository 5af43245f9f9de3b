// Package output renders command results for the terminal.
//
// A [Printer] writes styled text with lipgloss, or, in JSON mode, a single
// [Result] envelope per command so scripts can consume the output.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Result is the JSON envelope written in JSON mode.
type Result struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Printer writes command output.
type Printer struct {
	out  io.Writer
	err  io.Writer
	json bool

	title   lipgloss.Style
	label   lipgloss.Style
	muted   lipgloss.Style
	success lipgloss.Style
	warn    lipgloss.Style
	danger  lipgloss.Style
	header  lipgloss.Style
}

// NewPrinter creates a printer on stdout and stderr.
func NewPrinter() *Printer {
	return NewPrinterWithWriters(os.Stdout, os.Stderr)
}

// NewPrinterWithWriter creates a printer writing everything to w.
func NewPrinterWithWriter(w io.Writer) *Printer {
	return NewPrinterWithWriters(w, w)
}

// NewPrinterWithWriters creates a printer with separate result and diagnostic writers.
// Colors are only emitted when out is a terminal.
func NewPrinterWithWriters(out, errOut io.Writer) *Printer {
	r := lipgloss.NewRenderer(out)
	return &Printer{
		out:     out,
		err:     errOut,
		title:   r.NewStyle().Bold(true).Foreground(primaryColor),
		label:   r.NewStyle().Bold(true).Foreground(primaryColor),
		muted:   r.NewStyle().Foreground(mutedColor),
		success: r.NewStyle().Foreground(secondaryColor),
		warn:    r.NewStyle().Foreground(warnColor),
		danger:  r.NewStyle().Foreground(dangerColor),
		header:  r.NewStyle().Bold(true).Underline(true),
	}
}

var (
	primaryColor   = lipgloss.Color("#7C3AED")
	secondaryColor = lipgloss.Color("#10B981")
	mutedColor     = lipgloss.Color("#6B7280")
	dangerColor    = lipgloss.Color("#EF4444")
	warnColor      = lipgloss.Color("#F59E0B")
)

// SetJSON switches JSON mode on or off.
func (p *Printer) SetJSON(on bool) {
	p.json = on
}

// JSON reports whether JSON mode is on.
func (p *Printer) JSON() bool {
	return p.json
}

// Out returns the result writer.
func (p *Printer) Out() io.Writer {
	return p.out
}

// Print writes data as a JSON result in JSON mode, or calls text otherwise.
func (p *Printer) Print(data any, text func()) {
	if p.json {
		p.writeJSON(Result{Success: true, Data: data})
		return
	}
	text()
}

// Error reports a command failure. In JSON mode it is written to the result
// writer as an unsuccessful [Result].
func (p *Printer) Error(err error) {
	if p.json {
		p.writeJSON(Result{Success: false, Error: err.Error()})
		return
	}
	fmt.Fprintf(p.err, "%s %v\n", p.danger.Render("✗"), err)
}

// Success prints a confirmation line. It is silent in JSON mode.
func (p *Printer) Success(format string, args ...any) {
	if p.json {
		return
	}
	fmt.Fprintf(p.out, "%s %s\n", p.success.Render("✓"), fmt.Sprintf(format, args...))
}

// Info prints a diagnostic line to the error writer.
func (p *Printer) Info(format string, args ...any) {
	fmt.Fprintf(p.err, "%s %s\n", p.muted.Render("ℹ"), fmt.Sprintf(format, args...))
}

// Warn prints a warning to the error writer.
func (p *Printer) Warn(format string, args ...any) {
	fmt.Fprintf(p.err, "%s %s\n", p.warn.Render("!"), fmt.Sprintf(format, args...))
}

// Step prints a progress line such as "[2/6] action timer_cron_job".
func (p *Printer) Step(index, total int, label string) {
	fmt.Fprintf(p.err, "%s %s\n", p.muted.Render(fmt.Sprintf("[%d/%d]", index, total)), label)
}

// Raw writes data unchanged to the result writer.
func (p *Printer) Raw(data []byte) {
	_, _ = p.out.Write(data)
}

func (p *Printer) writeJSON(r Result) {
	out, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		out, _ = json.Marshal(Result{Success: false, Error: err.Error()})
	}
	fmt.Fprintln(p.out, string(out))
}
