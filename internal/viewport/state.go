// Package viewport keeps track of where a picture is drawn.
//
// A State holds the outer viewport of one drawing surface in normalized
// device coordinates (NDC), the world window, and the attributes that persist
// between drawing commands. The inner viewport, where world coordinates are
// mapped, is derived from the outer one by subtracting margins that grow with
// the font size.
//
// Users see viewports as left, right, top and bottom. On the primary page
// these are inches measured from the upper left corner of a 12-inch page,
// while NDC have their origin at the lower left; how the two relate depends
// on the surface Kind.
package viewport

import (
	"fmt"
	"math"
	"strconv"

	"plotpic/internal/graphics"
	"plotpic/internal/logging"
)

const (
	// outerMarginLimit caps a margin when deriving the outer viewport from a
	// requested inner one, as a multiple of the requested extent.
	outerMarginLimit = 2.0

	mmPerInch = 25.4
)

var viewportLog = logging.New("viewport")

// Backend is what a State needs from the surface it draws on.
type Backend interface {
	Resolution() float64
	WsViewport() (x1, x2, y1, y2 int)
	WsWindow() graphics.Rect
	SetSelection(r graphics.Rect)
	UpdateWs()
}

// HistorySink receives the command lines that reproduce mouse selections.
type HistorySink interface {
	Write(line string)
}

// Range is a viewport as the user gives it.
type Range struct {
	Left, Right, Top, Bottom float64
}

// State holds the viewport, world window and pen settings of one surface.
// Drawing commands read it; the setters validate before changing anything.
type State struct {
	kind    Kind
	policy  policy
	backend Backend
	history HistorySink

	outer             graphics.Rect
	world             graphics.Rect
	attrs             graphics.Attributes
	mouseSelectsInner bool
}

// DefaultOuter is the outer viewport of a fresh primary page: 6 inches wide
// and 4 inches high in the upper left corner.
var DefaultOuter = graphics.Rect{X1: 0, X2: 6, Y1: 8, Y2: 12}

// New returns the state of a fresh surface. Non-primary surfaces start with
// the whole surface window as the outer viewport.
func New(kind Kind, backend Backend, history HistorySink) *State {
	s := &State{
		kind:    kind,
		policy:  policyFor(kind),
		backend: backend,
		history: history,
		outer:   DefaultOuter,
		world:   graphics.Rect{X1: 0, X2: 1, Y1: 0, Y2: 1},
		attrs:   graphics.DefaultAttributes(),
	}
	if kind != Primary {
		s.outer = backend.WsWindow().Sorted()
	}
	return s
}

func (s *State) Kind() Kind { return s.kind }
func (s *State) Outer() graphics.Rect { return s.outer }
func (s *State) World() graphics.Rect { return s.world }
func (s *State) Attributes() graphics.Attributes { return s.attrs }
func (s *State) MouseSelectsInner() bool { return s.mouseSelectsInner }

// margins returns the horizontal and vertical margins in NDC, unclamped.
func (s *State) margins() (mx, my float64) {
	sx, sy := s.policy.marginScale(s.backend)
	size := float64(s.attrs.FontSize)
	return size * graphics.HMarginPerPoint * sx, size * graphics.VMarginPerPoint * sy
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func checkRange(left, right, top, bottom float64) error {
	if !finite(left, right, top, bottom) {
		return invalidRange("the edges of the viewport must be finite numbers, not %g, %g, %g, %g", left, right, top, bottom)
	}
	if left == right {
		return invalidRange("the left and right edges of the viewport cannot be equal; please change the horizontal range")
	}
	if top == bottom {
		return invalidRange("the top and bottom edges of the viewport cannot be equal; please change the vertical range")
	}
	return nil
}

// SetOuterViewport makes the rectangle the new outer viewport.
func (s *State) SetOuterViewport(left, right, top, bottom float64) error {
	if err := checkRange(left, right, top, bottom); err != nil {
		return err
	}
	if left > right {
		left, right = right, left
	}
	y1, y2 := s.policy.toNDC(top, bottom, s.backend)
	s.outer = graphics.Rect{X1: left, X2: right, Y1: y1, Y2: y2}
	s.policy.publish(s.backend, s.outer)
	viewportLog.Debug("outer viewport set", "surface", s.kind, "x1", s.outer.X1, "x2", s.outer.X2, "y1", s.outer.Y1, "y2", s.outer.Y2)
	return nil
}

// SetInnerViewport makes the rectangle the new inner viewport, choosing the
// outer viewport around it. Margins larger than twice the requested extent
// are cut back to that.
func (s *State) SetInnerViewport(left, right, top, bottom float64) error {
	if err := checkRange(left, right, top, bottom); err != nil {
		return err
	}
	if left > right {
		left, right = right, left
	}
	y1, y2 := s.policy.toNDC(top, bottom, s.backend)

	mx, my := s.margins()
	if limit := outerMarginLimit * (right - left); mx > limit {
		mx = limit
	}
	if limit := outerMarginLimit * (y2 - y1); my > limit {
		my = limit
	}
	s.outer = graphics.Rect{X1: left - mx, X2: right + mx, Y1: y1 - my, Y2: y2 + my}
	s.policy.publish(s.backend, s.outer)
	viewportLog.Debug("inner viewport set", "surface", s.kind, "x1", s.outer.X1, "x2", s.outer.X2, "y1", s.outer.Y1, "y2", s.outer.Y2)
	return nil
}

// InnerNDC returns the inner viewport in NDC.
func (s *State) InnerNDC() graphics.Rect {
	mx, my := s.margins()
	return graphics.ShrinkByMargins(s.outer, mx, my)
}

func (s *State) userRange(r graphics.Rect) Range {
	top, bottom := s.policy.fromNDC(r.Y1, r.Y2, s.backend)
	return Range{Left: r.X1, Right: r.X2, Top: top, Bottom: bottom}
}

// QueryInnerViewport returns the inner viewport as the user would give it.
func (s *State) QueryInnerViewport() Range { return s.userRange(s.InnerNDC()) }

// QueryOuterViewport returns the outer viewport as the user would give it.
func (s *State) QueryOuterViewport() Range { return s.userRange(s.outer) }

// SetWorldWindow sets the world coordinates of the inner viewport. Reversed
// ranges are kept as given and flip the drawing.
func (s *State) SetWorldWindow(x1, x2, y1, y2 float64) error {
	if !finite(x1, x2, y1, y2) {
		return invalidRange("world coordinates must be finite numbers, not %g, %g, %g, %g", x1, x2, y1, y2)
	}
	if x1 == x2 {
		return invalidRange("the left and right world coordinates cannot be equal; please change the horizontal range")
	}
	if y1 == y2 {
		return invalidRange("the bottom and top world coordinates cannot be equal; please change the vertical range")
	}
	s.world = graphics.Rect{X1: x1, X2: x2, Y1: y1, Y2: y2}
	viewportLog.Debug("world window set", "x1", x1, "x2", x2, "y1", y1, "y2", y2)
	return nil
}

// OnMouseSelection takes a rectangle dragged on the surface (NDC) as the new
// outer viewport and writes the command that reproduces it to the history.
func (s *State) OnMouseSelection(sel graphics.Rect) error {
	if !finite(sel.X1, sel.X2, sel.Y1, sel.Y2) {
		return invalidRange("the selection must have finite corners")
	}
	sel = sel.Sorted()
	if sel.Width() == 0 || sel.Height() == 0 {
		return invalidRange("the selection is empty; please drag a rectangle")
	}
	s.outer = sel
	s.policy.publish(s.backend, s.outer)

	prefix, r := "Select outer viewport", sel
	if s.mouseSelectsInner {
		prefix, r = "Select inner viewport", s.InnerNDC()
	}
	u := s.userRange(r)
	line := fmt.Sprintf("%s: %s, %s, %s, %s", prefix,
		formatSingle(u.Left), formatSingle(u.Right), formatSingle(u.Top), formatSingle(u.Bottom))
	if s.history != nil {
		s.history.Write(line)
	}
	viewportLog.Debug("mouse selection", "line", line)
	return nil
}

// formatSingle writes v with single precision, which is how selections are
// echoed: mouse positions carry no more accuracy than that.
func formatSingle(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 32)
}

func (s *State) SetMouseSelectsInner(inner bool) { s.mouseSelectsInner = inner }

func (s *State) SetFont(f graphics.Font) { s.attrs.Font = f }

func (s *State) SetFontSize(size int) error {
	if size <= 0 {
		return invalidRange("font size must be greater than 0, not %d", size)
	}
	s.attrs.FontSize = size
	return nil
}

func (s *State) SetLineType(t graphics.LineType) { s.attrs.LineType = t }

func (s *State) SetLineWidth(w float64) error {
	if !(w > 0) || math.IsInf(w, 0) {
		return invalidRange("line width must be a finite number greater than 0, not %g", w)
	}
	s.attrs.LineWidth = w
	return nil
}

func (s *State) SetArrowSize(size float64) error {
	if !(size > 0) || math.IsInf(size, 0) {
		return invalidRange("arrow size must be a finite number greater than 0, not %g", size)
	}
	s.attrs.ArrowSize = size
	return nil
}

func (s *State) SetSpeckleSize(size float64) error {
	if !(size > 0) || math.IsInf(size, 0) {
		return invalidRange("speckle size must be a finite number greater than 0, not %g", size)
	}
	s.attrs.SpeckleSize = size
	return nil
}

func (s *State) SetColour(c graphics.Colour) { s.attrs.Colour = c }
