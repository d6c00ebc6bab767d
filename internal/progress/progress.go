// Package progress prints human-readable run progress.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Printer writes one line per step. Colors are applied only when the
// destination is a terminal.
type Printer struct {
	w      io.Writer
	styled bool

	stepStyle lipgloss.Style
	okStyle   lipgloss.Style
	warnStyle lipgloss.Style
	failStyle lipgloss.Style
	dimStyle  lipgloss.Style
}

// New creates a printer writing to w.
func New(w io.Writer) *Printer {
	styled := false
	if f, ok := w.(*os.File); ok {
		styled = term.IsTerminal(int(f.Fd()))
	}
	return &Printer{
		w:         w,
		styled:    styled,
		stepStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62")),
		okStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		warnStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		failStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		dimStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

// Discard returns a printer that writes nothing.
func Discard() *Printer {
	return New(io.Discard)
}

func (p *Printer) render(style lipgloss.Style, s string) string {
	if !p.styled {
		return s
	}
	return style.Render(s)
}

func (p *Printer) line(indent int, glyph string, style func(*Printer) lipgloss.Style, format string, args ...any) {
	if p == nil {
		return
	}
	prefix := strings.Repeat("   ", indent)
	fmt.Fprintf(p.w, "%s%s %s\n", prefix, p.render(style(p), glyph), fmt.Sprintf(format, args...))
}

func stepStyle(p *Printer) lipgloss.Style { return p.stepStyle }
func okStyle(p *Printer) lipgloss.Style   { return p.okStyle }
func warnStyle(p *Printer) lipgloss.Style { return p.warnStyle }
func failStyle(p *Printer) lipgloss.Style { return p.failStyle }
func dimStyle(p *Printer) lipgloss.Style  { return p.dimStyle }

// Step announces a top-level step.
func (p *Printer) Step(format string, args ...any) {
	p.line(0, "==>", stepStyle, format, args...)
}

// OK reports a successful step.
func (p *Printer) OK(format string, args ...any) {
	p.line(0, "✓", okStyle, format, args...)
}

// Warn reports a failure that the run recovers from.
func (p *Printer) Warn(format string, args ...any) {
	p.line(0, "!", warnStyle, format, args...)
}

// Fail reports a failure that ends a target's cascade.
func (p *Printer) Fail(format string, args ...any) {
	p.line(0, "✗", failStyle, format, args...)
}

// Detail prints an indented note under the current step.
func (p *Printer) Detail(format string, args ...any) {
	p.line(1, "-", dimStyle, format, args...)
}
