package tile

import (
	"fmt"
	"strings"
)

// Instructions are the fixed assembly steps printed with every tiled
// template.
var Instructions = []string{
	"Print all pages at 100% scale (no fit-to-page).",
	"Trim the white margins from each page.",
	"Arrange the pages according to the grid above.",
	"Overlap the edges slightly and glue or tape them together.",
}

// Guide is the assembly guide for a tiled template.
type Guide struct {
	Pages        int        `json:"pages"`
	Grid         [][]string `json:"grid"`
	Instructions []string   `json:"instructions"`
}

// NewGuide builds the assembly guide for l.
func NewGuide(l Layout) Guide {
	grid := make([][]string, l.PagesY)
	for row := range grid {
		grid[row] = make([]string, l.PagesX)
	}
	for _, p := range l.Pages {
		grid[p.Row][p.Col] = Label(p)
	}
	return Guide{
		Pages:        l.Total(),
		Grid:         grid,
		Instructions: Instructions,
	}
}

// Label is the grid label of a page, "Page N (Row r, Col c)", with
// 1-based row and column.
func Label(p Page) string {
	return fmt.Sprintf("Page %d (Row %d, Col %d)", p.Number, p.Row+1, p.Col+1)
}

// Caption is the per-page footer, "Page N of M - Row r, Col c".
func Caption(p Page, total int) string {
	return fmt.Sprintf("Page %d of %d - Row %d, Col %d", p.Number, total, p.Row+1, p.Col+1)
}

// String renders the guide as plain text.
func (g Guide) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Assembly guide: %d page(s)\n\n", g.Pages)

	width := 0
	for _, row := range g.Grid {
		for _, cell := range row {
			width = max(width, len(cell))
		}
	}
	for _, row := range g.Grid {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = fmt.Sprintf("%-*s", width, cell)
		}
		sb.WriteString("  ")
		sb.WriteString(strings.TrimRight(strings.Join(cells, "  "), " "))
		sb.WriteByte('\n')
	}

	sb.WriteString("\nInstructions:\n")
	for i, step := range g.Instructions {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, step)
	}
	return sb.String()
}
