// Package console prints user-facing CLI lines with lipgloss colouring.
// Colour is applied only when the destination is a terminal.
package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Printer writes progress and results to out, and errors to errOut.
type Printer struct {
	out    io.Writer
	errOut io.Writer

	success lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
	heading lipgloss.Style
}

// NewPrinter returns a Printer. Each writer gets its own renderer so colour
// detection follows the writer it styles.
func NewPrinter(out, errOut io.Writer) *Printer {
	outR := lipgloss.NewRenderer(out)
	errR := lipgloss.NewRenderer(errOut)
	return &Printer{
		out:     out,
		errOut:  errOut,
		success: outR.NewStyle().Foreground(lipgloss.Color("#4CAF50")),
		warning: outR.NewStyle().Foreground(lipgloss.Color("#d29922")),
		failure: errR.NewStyle().Foreground(lipgloss.Color("#f85149")).Bold(true),
		heading: outR.NewStyle().Bold(true),
	}
}

// Println writes an unstyled line.
func (p *Printer) Println(format string, args ...any) {
	fmt.Fprintln(p.out, fmt.Sprintf(format, args...))
}

// Success writes a green line.
func (p *Printer) Success(format string, args ...any) {
	fmt.Fprintln(p.out, p.success.Render(fmt.Sprintf(format, args...)))
}

// Warn writes a yellow line.
func (p *Printer) Warn(format string, args ...any) {
	fmt.Fprintln(p.out, p.warning.Render(fmt.Sprintf(format, args...)))
}

// Error writes a red line to the error writer.
func (p *Printer) Error(format string, args ...any) {
	fmt.Fprintln(p.errOut, p.failure.Render(fmt.Sprintf(format, args...)))
}

// Heading writes a bold line.
func (p *Printer) Heading(format string, args ...any) {
	fmt.Fprintln(p.out, p.heading.Render(fmt.Sprintf(format, args...)))
}

// Diagnostic writes a loader or sync diagnostic after prefix: warnings in
// yellow, everything else as an error.
func (p *Printer) Diagnostic(prefix, msg string) {
	if IsWarning(msg) {
		p.Warn("%s%s", prefix, msg)
		return
	}
	p.Error("%s%s", prefix, msg)
}

// IsWarning reports whether a diagnostic is printed as a warning: a missing
// directory or a skipped record with an unknown status.
func IsWarning(msg string) bool {
	return strings.HasPrefix(msg, "Warning:") || strings.HasPrefix(msg, "Invalid status")
}
