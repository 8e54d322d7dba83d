package viewport

import "math"

// Axis is the direction a distance or mark is measured along.
type Axis int

const (
	Horizontal Axis = iota
	Vertical
)

// Unit is what a distance is measured in: millimetres on paper or world
// coordinates of the inner viewport.
type Unit int

const (
	Millimetre Unit = iota
	WorldCoordinate
)

// ConvertDistance converts a distance along axis between millimetres on paper
// and world coordinates of the inner viewport. Reversed world ranges give
// negative conversions.
func (s *State) ConvertDistance(value float64, axis Axis, from, to Unit) float64 {
	if from == to {
		return value
	}
	inner := s.InnerNDC()
	sx, sy := s.policy.marginScale(s.backend)
	mm := inner.Width() / sx * mmPerInch
	wc := s.world.X2 - s.world.X1
	if axis == Vertical {
		mm = inner.Height() / sy * mmPerInch
		wc = s.world.Y2 - s.world.Y1
	}
	if from == Millimetre {
		return value * wc / mm
	}
	return value * mm / wc
}

func (s *State) axisRange(axis Axis) (lo, hi float64) {
	lo, hi = s.world.X1, s.world.X2
	if axis == Vertical {
		lo, hi = s.world.Y1, s.world.Y2
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi
}

// markSlack is how far outside the axis range a single mark may go, as a
// fraction of the range.
const markSlack = 0.2

// CheckMarkPosition reports whether a single mark at position lies close
// enough to the axis range to be drawn.
func (s *State) CheckMarkPosition(axis Axis, position float64) error {
	lo, hi := s.axisRange(axis)
	span := hi - lo
	lo, hi = lo-markSlack*span, hi+markSlack*span
	if !(position >= lo && position <= hi) {
		return &OutOfBoundsError{Name: "Position", Position: position, Lo: lo, Hi: hi}
	}
	return nil
}

// CheckLogMarkPosition is CheckMarkPosition for a logarithmic axis, whose
// world coordinates are base-10 logarithms of position.
func (s *State) CheckLogMarkPosition(axis Axis, position float64) error {
	lo, hi := s.axisRange(axis)
	span := hi - lo
	lo, hi = math.Pow(10, lo-markSlack*span), math.Pow(10, hi+markSlack*span)
	if !(position >= lo && position <= hi) {
		return &OutOfBoundsError{Name: "Position", Position: position, Lo: lo, Hi: hi}
	}
	return nil
}
