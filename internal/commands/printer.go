package commands

import (
	"fmt"
	"io"
	"os"

	lipgloss "charm.land/lipgloss/v2"
	"golang.org/x/term"

	"github.com/colonyops/nest/internal/core/styles"
)

// printer writes human readable command output. Styles are only applied
// when the destination is a terminal so piped output stays plain.
type printer struct {
	w      io.Writer
	styled bool
}

func newPrinter(w io.Writer) *printer {
	return &printer{w: w, styled: isTerminal(w)}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// terminalWidth returns the width of w, or fallback when w is not a terminal.
func terminalWidth(w io.Writer, fallback int) int {
	f, ok := w.(*os.File)
	if !ok {
		return fallback
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return fallback
	}
	return width
}

func (p *printer) render(style lipgloss.Style, s string) string {
	if !p.styled {
		return s
	}
	return style.Render(s)
}

func (p *printer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *printer) Successf(format string, args ...any) {
	_, _ = fmt.Fprintln(p.w, p.render(styles.TextSuccessStyle, "✔ "+fmt.Sprintf(format, args...)))
}

func (p *printer) Infof(format string, args ...any) {
	_, _ = fmt.Fprintln(p.w, p.render(styles.TextMutedStyle, "• "+fmt.Sprintf(format, args...)))
}

func (p *printer) Errorf(format string, args ...any) {
	_, _ = fmt.Fprintln(p.w, p.render(styles.TextErrorStyle, "✘ "+fmt.Sprintf(format, args...)))
}
