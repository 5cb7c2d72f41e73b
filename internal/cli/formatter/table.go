package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderTable renders an aligned table with a header separator line. Column
// widths are the maximum visible width per column; lipgloss.Width ignores
// ANSI escapes so pre-styled cells align correctly.
func RenderTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}
	const colGap = 2

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < len(widths) && i < len(row); i++ {
			if w := lipgloss.Width(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	pad := func(cell string, col int) string {
		n := widths[col] - lipgloss.Width(cell)
		if n < 0 {
			n = 0
		}
		if col == len(widths)-1 {
			return cell
		}
		return cell + strings.Repeat(" ", n+colGap)
	}

	var b strings.Builder
	for i, h := range headers {
		b.WriteString(pad(StyleHeader.Render(h), i))
	}
	b.WriteString("\n")
	for i, w := range widths {
		b.WriteString(pad(StyleDim.Render(strings.Repeat("─", w)), i))
	}
	b.WriteString("\n")
	for _, row := range rows {
		for i := range widths {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			b.WriteString(pad(cell, i))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), " \n") + "\n"
}
