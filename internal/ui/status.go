package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Success writes "✓ msg".
func Success(w io.Writer, format string, args ...any) {
	line(w, SymbolSuccess, ColorSuccess, format, args...)
}

// Fail writes "✗ msg".
func Fail(w io.Writer, format string, args ...any) {
	line(w, SymbolFail, ColorError, format, args...)
}

// Skipped writes "⊘ msg".
func Skipped(w io.Writer, format string, args ...any) {
	line(w, SymbolSkipped, ColorWarning, format, args...)
}

// Hint writes a muted, indented line.
func Hint(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+lipgloss.NewStyle().Foreground(ColorMuted).Render(fmt.Sprintf(format, args...)))
}

func line(w io.Writer, symbol string, color lipgloss.Color, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", lipgloss.NewStyle().Foreground(color).Render(symbol), fmt.Sprintf(format, args...))
}
