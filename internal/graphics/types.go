package graphics

import (
	"fmt"
	"strings"
)

// Rect is an axis-aligned rectangle. Which coordinate system it lives in
// (NDC, world, device) depends on where it is used.
type Rect struct {
	X1, X2, Y1, Y2 float64
}

func (r Rect) Width() float64 { return r.X2 - r.X1 }
func (r Rect) Height() float64 { return r.Y2 - r.Y1 }

// Sorted returns r with X1 <= X2 and Y1 <= Y2.
func (r Rect) Sorted() Rect {
	if r.X1 > r.X2 {
		r.X1, r.X2 = r.X2, r.X1
	}
	if r.Y1 > r.Y2 {
		r.Y1, r.Y2 = r.Y2, r.Y1
	}
	return r
}

func (r Rect) Contains(x, y float64) bool {
	s := r.Sorted()
	return x >= s.X1 && x <= s.X2 && y >= s.Y1 && y <= s.Y2
}

type Point struct {
	X, Y float64
}

type LineType int

const (
	Solid LineType = iota
	Dotted
	Dashed
	DashedDotted
)

var lineTypeNames = [...]string{"Solid", "Dotted", "Dashed", "Dashed-dotted"}

func (t LineType) String() string {
	if t < 0 || int(t) >= len(lineTypeNames) {
		return fmt.Sprintf("LineType(%d)", int(t))
	}
	return lineTypeNames[t]
}

// dashes returns the on/off pattern in points for a line of width 1.
func (t LineType) dashes() []float64 {
	switch t {
	case Dotted:
		return []float64{1, 2}
	case Dashed:
		return []float64{6, 3}
	case DashedDotted:
		return []float64{6, 2, 1, 2}
	default:
		return nil
	}
}

type Font int

const (
	Times Font = iota
	Helvetica
	Palatino
	Courier
)

var fontNames = [...]string{"Times", "Helvetica", "Palatino", "Courier"}

func (f Font) String() string {
	if f < 0 || int(f) >= len(fontNames) {
		return fmt.Sprintf("Font(%d)", int(f))
	}
	return fontNames[f]
}

// ParseFont accepts a font name in any letter case.
func ParseFont(name string) (Font, error) {
	for i, n := range fontNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return Font(i), nil
		}
	}
	return 0, fmt.Errorf("unknown font %q", name)
}

type HAlign int

const (
	AlignLeft HAlign = iota
	AlignCentre
	AlignRight
)

type VAlign int

const (
	AlignBottom VAlign = iota
	AlignHalf
	AlignTop
)

// ParseHAlign accepts "left", "centre"/"center" and "right".
func ParseHAlign(s string) (HAlign, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left":
		return AlignLeft, nil
	case "centre", "center":
		return AlignCentre, nil
	case "right":
		return AlignRight, nil
	}
	return 0, fmt.Errorf("unknown horizontal alignment %q", s)
}

// ParseVAlign accepts "bottom", "half" and "top". "Baseline" is treated as bottom.
func ParseVAlign(s string) (VAlign, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bottom", "baseline":
		return AlignBottom, nil
	case "half":
		return AlignHalf, nil
	case "top":
		return AlignTop, nil
	}
	return 0, fmt.Errorf("unknown vertical alignment %q", s)
}

// Side names one edge of the inner viewport.
type Side int

const (
	Left Side = iota
	Right
	Bottom
	Top
)

var sideNames = [...]string{"left", "right", "bottom", "top"}

func (s Side) String() string {
	if s < 0 || int(s) >= len(sideNames) {
		return fmt.Sprintf("Side(%d)", int(s))
	}
	return sideNames[s]
}

func (s Side) vertical() bool { return s == Left || s == Right }

// Attributes are the drawing settings that persist between primitives.
type Attributes struct {
	Font        Font
	FontSize    int
	LineType    LineType
	LineWidth   float64
	ArrowSize   float64
	SpeckleSize float64
	Colour      Colour
}

// DefaultAttributes are the settings of a fresh picture.
func DefaultAttributes() Attributes {
	return Attributes{
		Font:        Helvetica,
		FontSize:    10,
		LineType:    Solid,
		LineWidth:   1,
		ArrowSize:   1,
		SpeckleSize: 1,
		Colour:      Black,
	}
}
