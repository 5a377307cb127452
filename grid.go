package img2uni

import "strings"

// Grid is a conversion result: Rows() rows of Cols() characters each.
type Grid [][]rune

// NewGrid allocates a grid of blanks.
func NewGrid(cols, rows int) Grid {
	g := make(Grid, rows)
	for y := range g {
		g[y] = make([]rune, cols)
		for x := range g[y] {
			g[y][x] = ' '
		}
	}
	return g
}

// Rows returns the number of rows.
func (g Grid) Rows() int { return len(g) }

// Cols returns the number of characters in the first row.
func (g Grid) Cols() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// String joins the rows with newlines. Every row, including the last, is
// terminated by "\n".
func (g Grid) String() string {
	var sb strings.Builder
	for _, row := range g {
		sb.WriteString(string(row))
		sb.WriteByte('\n')
	}
	return sb.String()
}
