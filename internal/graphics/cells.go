package graphics

import (
	"fmt"
	"image/color"
	"os"
	"strings"

	"github.com/fogleman/gg"
)

// cellRenderer draws lines into a tiny raster with two pixels per terminal
// cell (upper and lower half) and keeps text aside so it can be written as
// characters afterwards.
type cellRenderer struct {
	rasterRenderer
	texts []Op
}

func (r *cellRenderer) Stroke(pts []Point, closed bool, colour Colour, _ float64, lineType LineType) {
	r.dc.SetColor(colour)
	r.dc.SetLineWidth(1)
	if lineType == Solid {
		r.dc.SetDash()
	} else {
		r.dc.SetDash(1, 1)
	}
	r.path(pts, closed)
	r.dc.Stroke()
}

func (r *cellRenderer) Text(op Op) {
	r.texts = append(r.texts, op)
}

func (r *cellRenderer) Image(_ string, box Rect) {
	r.Stroke([]Point{{box.X1, box.Y1}, {box.X2, box.Y1}, {box.X2, box.Y2}, {box.X1, box.Y2}}, true, Black, 1, Solid)
}

func inked(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return r+g+b < 3*0xffff*9/10
}

// RenderCells draws the region of the picture (NDC) as cols by rows
// characters using half-block glyphs for lines and plain characters for text.
func (g *Graphics) RenderCells(region Rect, cols, rows int) [][]rune {
	grid := make([][]rune, rows)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", cols))
	}
	region = region.Sorted()
	if cols < 1 || rows < 1 || region.Width() == 0 || region.Height() == 0 {
		return grid
	}

	dc := gg.NewContext(cols, rows*2)
	dc.SetColor(color.White)
	dc.Clear()
	r := &cellRenderer{rasterRenderer: rasterRenderer{
		dc:     dc,
		region: region,
		ppuX:   float64(cols) / region.Width(),
		ppuY:   float64(rows*2) / region.Height(),
		g:      g,
	}}
	g.Play(r)

	img := dc.Image()
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			upper := inked(img.At(col, row*2))
			lower := inked(img.At(col, row*2+1))
			switch {
			case upper && lower:
				grid[row][col] = '█'
			case upper:
				grid[row][col] = '▀'
			case lower:
				grid[row][col] = '▄'
			}
		}
	}

	for _, op := range r.texts {
		col := int((op.Points[0].X - region.X1) * float64(cols) / region.Width())
		row := int((region.Y2 - op.Points[0].Y) * float64(rows) / region.Height())
		putText(grid, col, row, op)
	}
	return grid
}

func putText(grid [][]rune, col, row int, op Op) {
	text := []rune(op.Text)
	n := len(text)
	vertical := op.Rotation == 90 || op.Rotation == 270 || op.Rotation == -90

	start := 0
	switch op.HAlign {
	case AlignCentre:
		start = -n / 2
	case AlignRight:
		start = -n + 1
	}

	for i, ch := range text {
		c, r := col+start+i, row
		if vertical {
			c = col
			if op.Rotation == 90 {
				r = row - start - i
			} else {
				r = row + start + i
			}
		}
		if r >= 0 && r < len(grid) && c >= 0 && c < len(grid[r]) {
			grid[r][c] = ch
		}
	}
}

// WriteText saves the region of the picture as a plain text drawing.
func (g *Graphics) WriteText(path string, region Rect, cols, rows int) error {
	if g.Empty() {
		return ErrNothingToExport
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	for _, line := range g.RenderCells(region, cols, rows) {
		if _, err := fmt.Fprintln(file, strings.TrimRight(string(line), " ")); err != nil {
			return err
		}
	}
	return nil
}
