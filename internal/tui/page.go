package tui

import (
	"math"

	"plotpic/internal/graphics"
)

const (
	// viewWidth is how many inches of the page are visible across the terminal.
	viewWidth = 9.0
	// cellAspect is the height of a terminal cell over its width.
	cellAspect = 2.0
	// moveStep is how far one key press moves the selection, in inches.
	moveStep = 0.5
)

// pageView returns the part of the page shown in a grid of cols by rows
// cells: viewWidth inches wide, anchored at the top left corner of the page.
func pageView(cols, rows int) graphics.Rect {
	if cols < 1 || rows < 1 {
		return graphics.Rect{}
	}
	height := float64(rows) * cellAspect * viewWidth / float64(cols)
	if height > graphics.PageSize {
		height = graphics.PageSize
	}
	return graphics.Rect{X1: 0, X2: viewWidth, Y1: graphics.PageSize - height, Y2: graphics.PageSize}
}

// cellToNDC returns the page position under the centre of cell (col, row),
// rounded to hundredths of an inch. Row 0 is the top of the view.
func cellToNDC(view graphics.Rect, cols, rows, col, row int) graphics.Point {
	x := view.X1 + (float64(col)+0.5)/float64(cols)*view.Width()
	y := view.Y2 - (float64(row)+0.5)/float64(rows)*view.Height()
	return graphics.Point{X: round2(x), Y: round2(y)}
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

// dragRect is the rectangle spanned by two dragged points.
func dragRect(a, b graphics.Point) graphics.Rect {
	return graphics.Rect{X1: a.X, X2: b.X, Y1: a.Y, Y2: b.Y}.Sorted()
}

// cellIn reports whether the centre of cell (col, row) lies inside r.
func cellIn(view graphics.Rect, cols, rows, col, row int, r graphics.Rect) bool {
	x := view.X1 + (float64(col)+0.5)/float64(cols)*view.Width()
	y := view.Y2 - (float64(row)+0.5)/float64(rows)*view.Height()
	r = r.Sorted()
	return x >= r.X1 && x <= r.X2 && y >= r.Y1 && y <= r.Y2
}

// outline writes a dotted border of r into empty cells of grid.
func outline(grid [][]rune, view graphics.Rect, r graphics.Rect) {
	rows := len(grid)
	if rows == 0 || view.Width() == 0 || view.Height() == 0 {
		return
	}
	cols := len(grid[0])
	r = r.Sorted()
	toCol := func(x float64) int {
		return int(math.Floor((x - view.X1) / view.Width() * float64(cols)))
	}
	toRow := func(y float64) int {
		return int(math.Floor((view.Y2 - y) / view.Height() * float64(rows)))
	}
	left, right := toCol(r.X1), toCol(r.X2)
	top, bottom := toRow(r.Y2), toRow(r.Y1)
	set := func(col, row int, c rune) {
		if row >= 0 && row < rows && col >= 0 && col < cols && grid[row][col] == ' ' {
			grid[row][col] = c
		}
	}
	for col := left; col <= right; col++ {
		set(col, top, '·')
		set(col, bottom, '·')
	}
	for row := top; row <= bottom; row++ {
		set(left, row, '·')
		set(right, row, '·')
	}
}
