package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const colGap = 2

// RenderTable renders headers, a separator and rows with every column padded
// to its widest visible cell. Cells may already contain ANSI styling.
func RenderTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}
	cols := len(headers)

	widths := make([]int, cols)
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < cols && i < len(row); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}

	var b strings.Builder
	writeRow := func(cells []string, style func(string) string) {
		for i := 0; i < cols; i++ {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			b.WriteString(style(cell))
			if i < cols-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(cell)+colGap))
			}
		}
		b.WriteString("\n")
	}

	writeRow(headers, func(s string) string { return StyleHeader.Render(s) })

	seps := make([]string, cols)
	for i, w := range widths {
		seps[i] = strings.Repeat("─", w)
	}
	writeRow(seps, func(s string) string { return StyleDim.Render(s) })

	for _, row := range rows {
		writeRow(row, func(s string) string { return s })
	}
	return b.String()
}

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderShare renders part/total as a bar like [███░░░░░]  40%. The bar
// turns yellow at a third and red at two thirds.
func RenderShare(part, total, width int) string {
	pct := 0.0
	if total > 0 {
		pct = float64(part) / float64(total)
	}
	pct = min(max(pct, 0), 1)
	width = max(width, 2)

	filled := min(int(pct*float64(width)), width)
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleOK
	switch {
	case pct >= 0.66:
		style = StyleCritical
	case pct >= 0.33:
		style = StyleWarn
	}
	return fmt.Sprintf("[%s] %3.0f%%", style.Render(bar), pct*100)
}
