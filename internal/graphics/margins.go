package graphics

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// MaxMarks is the most marks a single marks command draws.
const MaxMarks = 2000

const (
	tickMM      = 1.5
	labelGapMM  = 1.0
	marginNear  = 0.1
	marginFar   = 0.15
	sideEpsilon = 1e-9
)

// MarkStyle selects what a mark consists of.
type MarkStyle struct {
	Numbers bool
	Ticks   bool
	Dotted  bool
}

var (
	ErrTooManyMarks = errors.New("too many marks")
	// ErrMarksCoincide means neighbouring marks would land on the same
	// floating point value, which happens when the axis range is tiny next
	// to its distance from zero.
	ErrMarksCoincide = errors.New("the marks cannot be told apart on this axis range")
)

// FormatNumber writes a mark value the way it appears on an axis: the
// shortest decimal that survives rounding to twelve significant digits.
func FormatNumber(v float64) string {
	if v == 0 {
		return "0"
	}
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(v, 'g', 12, 64), 64)
	if err != nil {
		rounded = v
	}
	if a := math.Abs(rounded); a >= 1e-4 && a < 1e15 {
		return strconv.FormatFloat(rounded, 'f', -1, 64)
	}
	return strconv.FormatFloat(rounded, 'g', -1, 64)
}

// DrawInnerBox outlines the inner viewport.
func (g *Graphics) DrawInnerBox() {
	in := g.InnerViewport()
	g.strokeOp([]Point{{in.X1, in.Y1}, {in.X2, in.Y1}, {in.X2, in.Y2}, {in.X1, in.Y2}}, true)
}

// TextLeft writes text vertically in the left margin. A far text sits near
// the outer edge, leaving room for numbers between it and the inner box.
func (g *Graphics) TextLeft(far bool, text string) {
	in, out := g.InnerViewport(), g.viewport
	m := in.X1 - out.X1
	y := (in.Y1 + in.Y2) / 2
	if far {
		g.textOp(Point{out.X1 + marginFar*m, y}, text, AlignCentre, AlignTop, 90)
		return
	}
	g.textOp(Point{in.X1 - marginNear*m, y}, text, AlignCentre, AlignBottom, 90)
}

func (g *Graphics) TextRight(far bool, text string) {
	in, out := g.InnerViewport(), g.viewport
	m := out.X2 - in.X2
	y := (in.Y1 + in.Y2) / 2
	if far {
		g.textOp(Point{out.X2 - marginFar*m, y}, text, AlignCentre, AlignTop, 270)
		return
	}
	g.textOp(Point{in.X2 + marginNear*m, y}, text, AlignCentre, AlignBottom, 270)
}

func (g *Graphics) TextTop(far bool, text string) {
	in, out := g.InnerViewport(), g.viewport
	m := out.Y2 - in.Y2
	x := (in.X1 + in.X2) / 2
	if far {
		g.textOp(Point{x, out.Y2 - marginFar*m}, text, AlignCentre, AlignTop, 0)
		return
	}
	g.textOp(Point{x, in.Y2 + marginNear*m}, text, AlignCentre, AlignBottom, 0)
}

func (g *Graphics) TextBottom(far bool, text string) {
	in, out := g.InnerViewport(), g.viewport
	m := in.Y1 - out.Y1
	x := (in.X1 + in.X2) / 2
	if far {
		g.textOp(Point{x, out.Y1 + marginFar*m}, text, AlignCentre, AlignBottom, 0)
		return
	}
	g.textOp(Point{x, in.Y1 - marginNear*m}, text, AlignCentre, AlignTop, 0)
}

// axisRange returns the sorted world range along the axis a side labels.
func (g *Graphics) axisRange(side Side) (lo, hi float64) {
	if side.vertical() {
		lo, hi = g.window.Y1, g.window.Y2
	} else {
		lo, hi = g.window.X1, g.window.X2
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi
}

func (g *Graphics) mark(side Side, position float64, label string, st MarkStyle) {
	in := g.InnerViewport()
	tx, ty := g.mmToNDC(tickMM)
	gx, gy := g.mmToNDC(labelGapMM)

	if side.vertical() {
		y := in.Y1 + (position-g.window.Y1)*in.Height()/g.window.Height()
		edge, dir, h := in.X1, -1.0, AlignRight
		if side == Right {
			edge, dir, h = in.X2, 1.0, AlignLeft
		}
		if st.Ticks {
			g.strokeOp([]Point{{edge, y}, {edge + dir*tx, y}}, false)
		}
		if st.Dotted {
			g.dottedOp([]Point{{in.X1, y}, {in.X2, y}})
		}
		if label != "" {
			off := gx
			if st.Ticks {
				off += tx
			}
			g.textOp(Point{edge + dir*off, y}, label, h, AlignHalf, 0)
		}
		return
	}

	x := in.X1 + (position-g.window.X1)*in.Width()/g.window.Width()
	edge, dir, v := in.Y1, -1.0, AlignTop
	if side == Top {
		edge, dir, v = in.Y2, 1.0, AlignBottom
	}
	if st.Ticks {
		g.strokeOp([]Point{{x, edge}, {x, edge + dir*ty}}, false)
	}
	if st.Dotted {
		g.dottedOp([]Point{{x, in.Y1}, {x, in.Y2}})
	}
	if label != "" {
		off := gy
		if st.Ticks {
			off += ty
		}
		g.textOp(Point{x, edge + dir*off}, label, AlignCentre, v, 0)
	}
}

func (g *Graphics) dottedOp(pts []Point) {
	saved := g.attrs.LineType
	g.attrs.LineType = Dotted
	g.strokeOp(pts, false)
	g.attrs.LineType = saved
}

// EveryPositions returns the multiples of units*distance inside the axis
// range of side.
func (g *Graphics) EveryPositions(side Side, units, distance float64) ([]float64, error) {
	step := units * distance
	if !(step > 0) || math.IsInf(step, 0) {
		return nil, fmt.Errorf("the mark spacing must be a positive number, not %g", step)
	}
	lo, hi := g.axisRange(side)
	first := math.Ceil(lo/step - sideEpsilon)
	last := math.Floor(hi/step + sideEpsilon)
	count := last - first + 1
	if math.IsNaN(count) || count > MaxMarks {
		return nil, fmt.Errorf("%w: %s at a spacing of %g, at most %d", ErrTooManyMarks, FormatNumber(count), step, MaxMarks)
	}
	if count < 1 {
		return nil, nil
	}
	positions := make([]float64, 0, int(count))
	for k := 0; k < int(count); k++ {
		pos := (first + float64(k)) * step
		if k > 0 && pos <= positions[k-1] {
			return nil, ErrMarksCoincide
		}
		positions = append(positions, pos)
	}
	return positions, nil
}

// MarksEvery puts a mark at every multiple of units*distance inside the axis
// range. Numbers are written in units. Nothing is drawn when it fails.
func (g *Graphics) MarksEvery(side Side, units, distance float64, st MarkStyle) error {
	positions, err := g.EveryPositions(side, units, distance)
	if err != nil {
		g.log.Warn("marks not drawn", "side", side, "err", err)
		return err
	}
	for _, pos := range positions {
		label := ""
		if st.Numbers {
			label = FormatNumber(pos / units)
		}
		g.mark(side, pos, label, st)
	}
	return nil
}

// Marks puts n equally spaced marks from one end of the axis to the other.
func (g *Graphics) Marks(side Side, n int, st MarkStyle) error {
	if n < 2 || n > MaxMarks {
		return fmt.Errorf("the number of marks must be between 2 and %d, not %d", MaxMarks, n)
	}
	from, to := g.window.X1, g.window.X2
	if side.vertical() {
		from, to = g.window.Y1, g.window.Y2
	}
	for i := 0; i < n; i++ {
		pos := from + float64(i)*(to-from)/float64(n-1)
		label := ""
		if st.Numbers {
			label = FormatNumber(pos)
		}
		g.mark(side, pos, label, st)
	}
	return nil
}

// logMultipliers returns the mantissas marked in each decade.
func logMultipliers(perDecade int) []float64 {
	switch {
	case perDecade <= 1:
		return []float64{1}
	case perDecade == 2:
		return []float64{1, 3}
	case perDecade == 3:
		return []float64{1, 2, 5}
	case perDecade == 4:
		return []float64{1, 2, 3, 5}
	case perDecade == 5:
		return []float64{1, 2, 3, 5, 7}
	case perDecade == 6:
		return []float64{1, 2, 3, 4, 5, 7}
	default:
		return []float64{1, 2, 3, 4, 5, 6, 7, 8, 9}
	}
}

// LogarithmicValues returns the values marked on a logarithmic axis, whose
// world coordinates are base-10 logarithms of those values.
func (g *Graphics) LogarithmicValues(side Side, perDecade int) ([]float64, error) {
	lo, hi := g.axisRange(side)
	mantissas := logMultipliers(perDecade)
	first, last := math.Floor(lo), math.Ceil(hi)
	decades := last - first + 1
	if math.IsNaN(decades) || decades*float64(len(mantissas)) > MaxMarks {
		return nil, fmt.Errorf("%w: %s decades with %d marks each, at most %d marks", ErrTooManyMarks, FormatNumber(decades), len(mantissas), MaxMarks)
	}
	var values []float64
	for k := 0; k < int(decades); k++ {
		decade := first + float64(k)
		if k > 0 && decade == first+float64(k-1) {
			return nil, ErrMarksCoincide
		}
		for _, m := range mantissas {
			value := m * math.Pow(10, decade)
			pos := math.Log10(value)
			if pos < lo-sideEpsilon || pos > hi+sideEpsilon {
				continue
			}
			values = append(values, value)
		}
	}
	return values, nil
}

// MarksLogarithmic marks a logarithmic axis. Nothing is drawn when it fails.
func (g *Graphics) MarksLogarithmic(side Side, perDecade int, st MarkStyle) error {
	values, err := g.LogarithmicValues(side, perDecade)
	if err != nil {
		g.log.Warn("marks not drawn", "side", side, "err", err)
		return err
	}
	for _, value := range values {
		label := ""
		if st.Numbers {
			label = FormatNumber(value)
		}
		g.mark(side, math.Log10(value), label, st)
	}
	return nil
}

// Mark draws one mark at position. A non-empty text replaces the number.
func (g *Graphics) Mark(side Side, position float64, st MarkStyle, text string) {
	label := text
	if label == "" && st.Numbers {
		label = FormatNumber(position)
	}
	g.mark(side, position, label, st)
}

// MarkLogarithmic draws one mark for value on a logarithmic axis.
func (g *Graphics) MarkLogarithmic(side Side, value float64, st MarkStyle, text string) {
	if value <= 0 {
		return
	}
	label := text
	if label == "" && st.Numbers {
		label = FormatNumber(value)
	}
	g.mark(side, math.Log10(value), label, st)
}
