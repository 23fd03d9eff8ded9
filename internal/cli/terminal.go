package cli

import (
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

type styles struct {
	word   lipgloss.Style
	weight lipgloss.Style
}

func newStyles(color bool) styles {
	if !color {
		return styles{word: lipgloss.NewStyle(), weight: lipgloss.NewStyle()}
	}
	return styles{
		word:   lipgloss.NewStyle().Foreground(lipgloss.Color("75")),
		weight: lipgloss.NewStyle().Faint(true),
	}
}

// isTerminal reports whether w is a terminal file.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// padRight pads s with spaces to width runes, counting display width.
func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// formatWeight prints whole weights with thousands separators.
func formatWeight(w float64) string {
	if w == math.Trunc(w) && math.Abs(w) < 1e15 {
		return formatWithCommas(int(w))
	}
	return strconv.FormatFloat(w, 'f', 2, 64)
}

// formatWithCommas formats an integer with comma separators
func formatWithCommas(n int) string {
	str := strconv.Itoa(n)
	if n < 0 {
		return "-" + formatWithCommas(-n)
	}
	if len(str) <= 3 {
		return str
	}

	var b strings.Builder
	for i, char := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(char)
	}
	return b.String()
}
