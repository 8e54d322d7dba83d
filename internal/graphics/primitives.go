package graphics

import "math"

const (
	arrowLengthMM   = 2.5
	arrowWidthRatio = 0.35
	circleSegments  = 72
)

// toNDC maps world coordinates onto the current (outer or inner) viewport.
func (g *Graphics) toNDC(x, y float64) Point {
	r := g.current()
	w := g.window
	return Point{
		X: r.X1 + (x-w.X1)*r.Width()/w.Width(),
		Y: r.Y1 + (y-w.Y1)*r.Height()/w.Height(),
	}
}

// scale returns NDC units per world unit along each axis.
func (g *Graphics) scale() (sx, sy float64) {
	r := g.current()
	return r.Width() / g.window.Width(), r.Height() / g.window.Height()
}

// Geometry that must look round on paper is built in inches and converted
// back, since NDC units need not be square on every surface.
func (g *Graphics) ndcToInches(p Point) Point {
	ix, iy := g.device.inchesPerNDC()
	return Point{p.X * ix, p.Y * iy}
}

func (g *Graphics) inchesToNDC(p Point) Point {
	ix, iy := g.device.inchesPerNDC()
	return Point{p.X / ix, p.Y / iy}
}

// radiusInches converts a horizontal world distance to inches.
func (g *Graphics) radiusInches(r float64) float64 {
	sx, _ := g.scale()
	ix, _ := g.device.inchesPerNDC()
	return math.Abs(r * sx * ix)
}

func (g *Graphics) arcPoints(centre Point, rx, ry, fromDeg, toDeg float64, n int) []Point {
	pts := make([]Point, 0, n+1)
	for i := 0; i <= n; i++ {
		a := (fromDeg + (toDeg-fromDeg)*float64(i)/float64(n)) * math.Pi / 180
		p := Point{centre.X + rx*math.Cos(a), centre.Y + ry*math.Sin(a)}
		pts = append(pts, g.inchesToNDC(p))
	}
	return pts
}

func (g *Graphics) Line(x1, y1, x2, y2 float64) {
	g.strokeOp([]Point{g.toNDC(x1, y1), g.toNDC(x2, y2)}, false)
}

// arrowHead returns where the shaft should end and the head triangle, both in NDC.
func (g *Graphics) arrowHead(from, to Point) (Point, []Point) {
	a, b := g.ndcToInches(from), g.ndcToInches(to)
	dx, dy := b.X-a.X, b.Y-a.Y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return to, nil
	}
	ux, uy := dx/l, dy/l
	length := g.attrs.ArrowSize * arrowLengthMM / 25.4
	if length > l {
		length = l
	}
	half := length * arrowWidthRatio
	base := Point{b.X - ux*length, b.Y - uy*length}
	head := []Point{
		to,
		g.inchesToNDC(Point{base.X - uy*half, base.Y + ux*half}),
		g.inchesToNDC(Point{base.X + uy*half, base.Y - ux*half}),
	}
	return g.inchesToNDC(base), head
}

func (g *Graphics) Arrow(x1, y1, x2, y2 float64) {
	from, to := g.toNDC(x1, y1), g.toNDC(x2, y2)
	shaft, head := g.arrowHead(from, to)
	g.strokeOp([]Point{from, shaft}, false)
	g.fillOp(head)
}

func (g *Graphics) DoubleArrow(x1, y1, x2, y2 float64) {
	from, to := g.toNDC(x1, y1), g.toNDC(x2, y2)
	mid := Point{(from.X + to.X) / 2, (from.Y + to.Y) / 2}
	end, head2 := g.arrowHead(mid, to)
	start, head1 := g.arrowHead(mid, from)
	g.strokeOp([]Point{start, end}, false)
	g.fillOp(head1)
	g.fillOp(head2)
}

func (g *Graphics) rectanglePoints(x1, x2, y1, y2 float64) []Point {
	return []Point{g.toNDC(x1, y1), g.toNDC(x2, y1), g.toNDC(x2, y2), g.toNDC(x1, y2)}
}

func (g *Graphics) Rectangle(x1, x2, y1, y2 float64) {
	g.strokeOp(g.rectanglePoints(x1, x2, y1, y2), true)
}

func (g *Graphics) FillRectangle(x1, x2, y1, y2 float64) {
	g.fillOp(g.rectanglePoints(x1, x2, y1, y2))
}

func (g *Graphics) roundedRectanglePoints(x1, x2, y1, y2, radiusMM float64) []Point {
	a, b := g.ndcToInches(g.toNDC(x1, y1)), g.ndcToInches(g.toNDC(x2, y2))
	box := Rect{a.X, b.X, a.Y, b.Y}.Sorted()
	r := radiusMM / 25.4
	if lim := math.Min(box.Width(), box.Height()) / 2; r > lim {
		r = lim
	}
	const n = 8
	var pts []Point
	pts = append(pts, g.arcPoints(Point{box.X2 - r, box.Y1 + r}, r, r, 270, 360, n)...)
	pts = append(pts, g.arcPoints(Point{box.X2 - r, box.Y2 - r}, r, r, 0, 90, n)...)
	pts = append(pts, g.arcPoints(Point{box.X1 + r, box.Y2 - r}, r, r, 90, 180, n)...)
	pts = append(pts, g.arcPoints(Point{box.X1 + r, box.Y1 + r}, r, r, 180, 270, n)...)
	return pts
}

func (g *Graphics) RoundedRectangle(x1, x2, y1, y2, radiusMM float64) {
	g.strokeOp(g.roundedRectanglePoints(x1, x2, y1, y2, radiusMM), true)
}

func (g *Graphics) FillRoundedRectangle(x1, x2, y1, y2, radiusMM float64) {
	g.fillOp(g.roundedRectanglePoints(x1, x2, y1, y2, radiusMM))
}

// Arc draws part of a circle counter-clockwise from fromDeg to toDeg. The
// radius is measured along the horizontal axis.
func (g *Graphics) Arc(x, y, radius, fromDeg, toDeg float64) {
	for toDeg < fromDeg {
		toDeg += 360
	}
	n := int(math.Ceil((toDeg - fromDeg) / 5))
	if n < 2 {
		n = 2
	}
	c := g.ndcToInches(g.toNDC(x, y))
	r := g.radiusInches(radius)
	g.strokeOp(g.arcPoints(c, r, r, fromDeg, toDeg, n), false)
}

func (g *Graphics) ellipsePoints(x1, x2, y1, y2 float64) []Point {
	a, b := g.ndcToInches(g.toNDC(x1, y1)), g.ndcToInches(g.toNDC(x2, y2))
	c := Point{(a.X + b.X) / 2, (a.Y + b.Y) / 2}
	pts := g.arcPoints(c, math.Abs(b.X-a.X)/2, math.Abs(b.Y-a.Y)/2, 0, 360, circleSegments)
	return pts[:len(pts)-1]
}

func (g *Graphics) Ellipse(x1, x2, y1, y2 float64) {
	g.strokeOp(g.ellipsePoints(x1, x2, y1, y2), true)
}

func (g *Graphics) FillEllipse(x1, x2, y1, y2 float64) {
	g.fillOp(g.ellipsePoints(x1, x2, y1, y2))
}

func (g *Graphics) circlePoints(x, y, rInches float64) []Point {
	c := g.ndcToInches(g.toNDC(x, y))
	pts := g.arcPoints(c, rInches, rInches, 0, 360, circleSegments)
	return pts[:len(pts)-1]
}

func (g *Graphics) Circle(x, y, radius float64) {
	g.strokeOp(g.circlePoints(x, y, g.radiusInches(radius)), true)
}

func (g *Graphics) FillCircle(x, y, radius float64) {
	g.fillOp(g.circlePoints(x, y, g.radiusInches(radius)))
}

// CircleMM draws a circle whose diameter is given in millimetres.
func (g *Graphics) CircleMM(x, y, diameter float64) {
	g.strokeOp(g.circlePoints(x, y, diameter/2/25.4), true)
}

func (g *Graphics) FillCircleMM(x, y, diameter float64) {
	g.fillOp(g.circlePoints(x, y, diameter/2/25.4))
}

// Text draws text at (x, y) with the current alignment and rotation.
func (g *Graphics) Text(x, y float64, text string) {
	g.textOp(g.toNDC(x, y), text, g.hAlign, g.vAlign, g.rotation)
}

// Function draws ys at equally spaced x from x1 to x2. NaN values leave gaps.
func (g *Graphics) Function(ys []float64, x1, x2 float64) {
	n := len(ys)
	if n < 2 {
		return
	}
	dx := (x2 - x1) / float64(n-1)
	var run []Point
	for i, y := range ys {
		if math.IsNaN(y) || math.IsInf(y, 0) {
			g.strokeOp(run, false)
			run = nil
			continue
		}
		run = append(run, g.toNDC(x1+float64(i)*dx, y))
	}
	g.strokeOp(run, false)
}

// ImageFromFile places the picture in path into the world rectangle.
func (g *Graphics) ImageFromFile(path string, x1, x2, y1, y2 float64) {
	a, b := g.toNDC(x1, y1), g.toNDC(x2, y2)
	g.record(Op{
		Kind: OpImage,
		Path: path,
		Box:  Rect{a.X, b.X, a.Y, b.Y}.Sorted(),
	})
}
