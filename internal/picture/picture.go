// Package picture is the command layer of a picture window.
//
// A Picture joins the viewport State of a surface to the recording Graphics
// that draws on it. Every menu command of the picture window is a method:
// drawing commands apply the current viewport, world window and pen to the
// backend, draw, and leave the backend as they found it.
package picture

import (
	"errors"
	"fmt"
	"math"

	"plotpic/internal/graphics"
	"plotpic/internal/logging"
	"plotpic/internal/viewport"
)

var pictureLog = logging.New("picture")

// ErrMouseUnavailable is returned by mouse commands on surfaces that have no mouse.
var ErrMouseUnavailable = errors.New("mouse commands are not available inside pictures")

type Picture struct {
	state *viewport.State
	g     *graphics.Graphics
}

// New returns a picture drawing on g. The history receives the command lines
// of mouse selections and may be nil.
func New(kind viewport.Kind, g *graphics.Graphics, history viewport.HistorySink) *Picture {
	p := &Picture{
		state: viewport.New(kind, g, history),
		g:     g,
	}
	if kind == viewport.Primary {
		g.SetSelection(p.state.Outer())
	}
	return p
}

func (p *Picture) State() *viewport.State { return p.state }
func (p *Picture) Graphics() *graphics.Graphics { return p.g }

// scope runs fn with the picture settings applied to the backend and puts
// the backend settings back afterwards. With inner set, world coordinates
// map onto the inner viewport.
func (p *Picture) scope(inner bool, fn func(g *graphics.Graphics)) {
	saved := p.g.Save()
	defer p.g.Restore(saved)

	p.g.SetViewport(p.state.Outer())
	p.g.SetWindow(p.state.World())
	p.g.SetAttributes(p.state.Attributes())
	p.g.SetTextAlignment(graphics.AlignLeft, graphics.AlignBottom)
	p.g.SetTextRotation(0)
	if inner {
		p.g.SetInner()
	}
	fn(p.g)
}

// draw is scope for commands that add to the picture. Everything fn draws
// forms one undo group.
func (p *Picture) draw(inner bool, fn func(g *graphics.Graphics)) {
	p.g.BeginGroup()
	p.scope(inner, fn)
	p.g.UpdateWs()
}

// measure evaluates fn against the inner viewport without drawing.
func (p *Picture) measure(fn func(g *graphics.Graphics) float64) float64 {
	var v float64
	p.scope(true, func(g *graphics.Graphics) { v = fn(g) })
	return v
}

func invalid(format string, args ...any) error {
	return &viewport.InvalidRangeError{Msg: fmt.Sprintf(format, args...)}
}

func positive(name string, v float64) error {
	if !(v > 0) || math.IsInf(v, 0) {
		return invalid("%s must be greater than 0, not %g", name, v)
	}
	return nil
}

// Undo removes what the last drawing command drew.
func (p *Picture) Undo() {
	if !p.g.UndoGroup() {
		pictureLog.Debug("nothing to undo")
	}
	p.g.UpdateWs()
}

// EraseAll clears the picture. Pen, font and viewport settings stay.
func (p *Picture) EraseAll() {
	p.g.ClearRecording()
	p.g.UpdateWs()
}

func (p *Picture) SelectInnerViewport(left, right, top, bottom float64) error {
	return p.state.SetInnerViewport(left, right, top, bottom)
}

func (p *Picture) SelectOuterViewport(left, right, top, bottom float64) error {
	return p.state.SetOuterViewport(left, right, top, bottom)
}

// ViewportText writes text in the outer viewport, ignoring the world window:
// the alignment also chooses the edge or centre the text is placed at.
func (p *Picture) ViewportText(h graphics.HAlign, v graphics.VAlign, rotation float64, text string) {
	x := [...]float64{0, 0.5, 1}[h]
	y := [...]float64{0, 0.5, 1}[v]
	p.draw(false, func(g *graphics.Graphics) {
		g.SetWindow(graphics.Rect{X1: 0, X2: 1, Y1: 0, Y2: 1})
		g.SetTextAlignment(h, v)
		g.SetTextRotation(rotation)
		g.Text(x, y, text)
	})
}

func (p *Picture) MouseSelectsInnerViewport() error { return p.setMouseSelectsInner(true) }
func (p *Picture) MouseSelectsOuterViewport() error { return p.setMouseSelectsInner(false) }

func (p *Picture) setMouseSelectsInner(inner bool) error {
	if p.state.Kind() != viewport.Primary {
		return ErrMouseUnavailable
	}
	p.state.SetMouseSelectsInner(inner)
	return nil
}

// MouseSelection takes a rectangle dragged on the page, in NDC.
func (p *Picture) MouseSelection(sel graphics.Rect) error {
	if p.state.Kind() != viewport.Primary {
		return ErrMouseUnavailable
	}
	return p.state.OnMouseSelection(sel)
}

func (p *Picture) SetLineType(t graphics.LineType) { p.state.SetLineType(t) }
func (p *Picture) SetLineWidth(w float64) error { return p.state.SetLineWidth(w) }
func (p *Picture) SetArrowSize(size float64) error { return p.state.SetArrowSize(size) }
func (p *Picture) SetSpeckleSize(size float64) error { return p.state.SetSpeckleSize(size) }
func (p *Picture) SetColour(c graphics.Colour) { p.state.SetColour(c) }

func (p *Picture) SetFont(f graphics.Font) { p.state.SetFont(f) }

// SetFontSize changes the font size. On the page this changes the margins
// and so moves the inner viewport; the selection is redrawn to show it.
func (p *Picture) SetFontSize(size int) error {
	if err := p.state.SetFontSize(size); err != nil {
		return err
	}
	p.g.UpdateWs()
	return nil
}
