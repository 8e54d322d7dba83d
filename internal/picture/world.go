package picture

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"plotpic/internal/graphics"
	"plotpic/internal/viewport"
)

// Text writes text at a world position with the given alignment.
func (p *Picture) Text(x float64, h graphics.HAlign, y float64, v graphics.VAlign, text string) {
	p.draw(true, func(g *graphics.Graphics) {
		g.SetTextAlignment(h, v)
		g.Text(x, y, text)
	})
}

// ParseRotation reads a text rotation given either in degrees or as a
// direction "dx;dy".
func ParseRotation(s string) (float64, error) {
	if dx, dy, ok := strings.Cut(s, ";"); ok {
		x, err := strconv.ParseFloat(strings.TrimSpace(dx), 64)
		if err != nil {
			return 0, fmt.Errorf("rotation %q: %w", s, err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(dy), 64)
		if err != nil {
			return 0, fmt.Errorf("rotation %q: %w", s, err)
		}
		return math.Atan2(y, x) * 180 / math.Pi, nil
	}
	deg, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("rotation %q: %w", s, err)
	}
	return deg, nil
}

// TextSpecial is Text with its own font, size and rotation. The picture font
// settings are not changed.
func (p *Picture) TextSpecial(x float64, h graphics.HAlign, y float64, v graphics.VAlign,
	font graphics.Font, size int, rotation string, text string) error {
	if size < 1 {
		return invalid("font size must be greater than 0, not %d", size)
	}
	deg, err := ParseRotation(rotation)
	if err != nil {
		return err
	}
	p.draw(true, func(g *graphics.Graphics) {
		g.SetTextAlignment(h, v)
		g.SetFont(font)
		g.SetFontSize(size)
		g.SetTextRotation(deg)
		g.Text(x, y, text)
	})
	return nil
}

func (p *Picture) DrawLine(x1, y1, x2, y2 float64) {
	p.draw(true, func(g *graphics.Graphics) { g.Line(x1, y1, x2, y2) })
}

func (p *Picture) DrawArrow(x1, y1, x2, y2 float64) {
	p.draw(true, func(g *graphics.Graphics) { g.Arrow(x1, y1, x2, y2) })
}

func (p *Picture) DrawDoubleArrow(x1, y1, x2, y2 float64) {
	p.draw(true, func(g *graphics.Graphics) { g.DoubleArrow(x1, y1, x2, y2) })
}

// DrawFunction draws formula, an expression in x, at n equally spaced x
// values from fromX to toX. Equal limits mean the whole horizontal axis.
// Fewer than two steps draw nothing.
func (p *Picture) DrawFunction(fromX, toX float64, n int, formula string) error {
	f, err := CompileFormula(formula)
	if err != nil {
		return err
	}
	if n < 2 {
		return nil
	}
	if fromX == toX {
		w := p.state.World()
		fromX, toX = w.X1, w.X2
	}
	ys := make([]float64, n)
	dx := (toX - fromX) / float64(n-1)
	for i := range ys {
		ys[i] = f.Eval(fromX + float64(i)*dx)
	}
	p.draw(true, func(g *graphics.Graphics) { g.Function(ys, fromX, toX) })
	return nil
}

func (p *Picture) DrawRectangle(x1, x2, y1, y2 float64) {
	p.draw(true, func(g *graphics.Graphics) { g.Rectangle(x1, x2, y1, y2) })
}

func (p *Picture) PaintRectangle(c graphics.Colour, x1, x2, y1, y2 float64) {
	p.draw(true, func(g *graphics.Graphics) {
		g.SetColour(c)
		g.FillRectangle(x1, x2, y1, y2)
	})
}

func (p *Picture) DrawRoundedRectangle(x1, x2, y1, y2, radiusMM float64) error {
	if err := positive("radius", radiusMM); err != nil {
		return err
	}
	p.draw(true, func(g *graphics.Graphics) { g.RoundedRectangle(x1, x2, y1, y2, radiusMM) })
	return nil
}

func (p *Picture) PaintRoundedRectangle(c graphics.Colour, x1, x2, y1, y2, radiusMM float64) error {
	if err := positive("radius", radiusMM); err != nil {
		return err
	}
	p.draw(true, func(g *graphics.Graphics) {
		g.SetColour(c)
		g.FillRoundedRectangle(x1, x2, y1, y2, radiusMM)
	})
	return nil
}

// DrawArc draws a circle segment counter-clockwise from fromDeg to toDeg.
// The radius is measured along x.
func (p *Picture) DrawArc(x, y, radius, fromDeg, toDeg float64) error {
	if err := positive("radius", radius); err != nil {
		return err
	}
	p.draw(true, func(g *graphics.Graphics) { g.Arc(x, y, radius, fromDeg, toDeg) })
	return nil
}

func (p *Picture) DrawEllipse(x1, x2, y1, y2 float64) {
	p.draw(true, func(g *graphics.Graphics) { g.Ellipse(x1, x2, y1, y2) })
}

func (p *Picture) PaintEllipse(c graphics.Colour, x1, x2, y1, y2 float64) {
	p.draw(true, func(g *graphics.Graphics) {
		g.SetColour(c)
		g.FillEllipse(x1, x2, y1, y2)
	})
}

func (p *Picture) DrawCircle(x, y, radius float64) error {
	if err := positive("radius", radius); err != nil {
		return err
	}
	p.draw(true, func(g *graphics.Graphics) { g.Circle(x, y, radius) })
	return nil
}

func (p *Picture) PaintCircle(c graphics.Colour, x, y, radius float64) error {
	if err := positive("radius", radius); err != nil {
		return err
	}
	p.draw(true, func(g *graphics.Graphics) {
		g.SetColour(c)
		g.FillCircle(x, y, radius)
	})
	return nil
}

// DrawCircleMM draws a circle whose size is given on paper.
func (p *Picture) DrawCircleMM(x, y, diameterMM float64) error {
	if err := positive("diameter", diameterMM); err != nil {
		return err
	}
	p.draw(true, func(g *graphics.Graphics) { g.CircleMM(x, y, diameterMM) })
	return nil
}

func (p *Picture) PaintCircleMM(c graphics.Colour, x, y, diameterMM float64) error {
	if err := positive("diameter", diameterMM); err != nil {
		return err
	}
	p.draw(true, func(g *graphics.Graphics) {
		g.SetColour(c)
		g.FillCircleMM(x, y, diameterMM)
	})
	return nil
}

// InsertPictureFromFile places an image file into a world rectangle.
func (p *Picture) InsertPictureFromFile(path string, x1, x2, y1, y2 float64) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot insert picture: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("cannot insert picture: %s is a directory", path)
	}
	p.draw(true, func(g *graphics.Graphics) { g.ImageFromFile(path, x1, x2, y1, y2) })
	return nil
}

// Axes sets the world coordinates of the inner viewport.
func (p *Picture) Axes(left, right, bottom, top float64) error {
	return p.state.SetWorldWindow(left, right, bottom, top)
}

func (p *Picture) HorizontalMMToWC(mm float64) float64 {
	return p.state.ConvertDistance(mm, viewport.Horizontal, viewport.Millimetre, viewport.WorldCoordinate)
}

func (p *Picture) HorizontalWCToMM(wc float64) float64 {
	return p.state.ConvertDistance(wc, viewport.Horizontal, viewport.WorldCoordinate, viewport.Millimetre)
}

func (p *Picture) VerticalMMToWC(mm float64) float64 {
	return p.state.ConvertDistance(mm, viewport.Vertical, viewport.Millimetre, viewport.WorldCoordinate)
}

func (p *Picture) VerticalWCToMM(wc float64) float64 {
	return p.state.ConvertDistance(wc, viewport.Vertical, viewport.WorldCoordinate, viewport.Millimetre)
}

// TextWidthWC returns the width of text in the current font, in horizontal
// world coordinates.
func (p *Picture) TextWidthWC(text string) float64 {
	return p.measure(func(g *graphics.Graphics) float64 { return g.TextWidth(text) })
}

func (p *Picture) TextWidthMM(text string) float64 {
	return p.measure(func(g *graphics.Graphics) float64 { return g.TextWidthMM(text) })
}
