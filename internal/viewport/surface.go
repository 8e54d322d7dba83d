package viewport

import (
	"fmt"

	"plotpic/internal/graphics"
)

// Kind is the kind of surface a State draws on.
type Kind int

const (
	// Primary is the 12-inch page of the picture window.
	Primary Kind = iota
	// Embedded is a drawing area inside another window. Its NDC have y
	// pointing up and top/bottom are given as NDC values.
	Embedded
	// Manual is a surface whose NDC window is set up by hand; like the
	// primary page, top and bottom are measured down from its upper edge.
	Manual
)

func (k Kind) String() string {
	switch k {
	case Primary:
		return "primary"
	case Embedded:
		return "embedded"
	case Manual:
		return "manual"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// policy holds everything that differs between surface kinds.
type policy interface {
	// toNDC turns user-facing top and bottom into an ordered NDC pair y1 < y2.
	toNDC(top, bottom float64, b Backend) (y1, y2 float64)
	// fromNDC turns an NDC pair back into user-facing top and bottom.
	fromNDC(y1, y2 float64, b Backend) (top, bottom float64)
	// marginScale converts margins in inches into NDC units.
	marginScale(b Backend) (sx, sy float64)
	// publish shows a new outer viewport on the surface.
	publish(b Backend, outer graphics.Rect)
}

func policyFor(k Kind) policy {
	switch k {
	case Embedded:
		return embeddedPolicy{}
	case Manual:
		return manualPolicy{}
	default:
		return primaryPolicy{}
	}
}

type primaryPolicy struct{}

func (primaryPolicy) toNDC(top, bottom float64, _ Backend) (float64, float64) {
	if top > bottom {
		top, bottom = bottom, top
	}
	return graphics.PageSize - bottom, graphics.PageSize - top
}

func (primaryPolicy) fromNDC(y1, y2 float64, _ Backend) (float64, float64) {
	return graphics.PageSize - y2, graphics.PageSize - y1
}

// On the page one NDC unit is one inch.
func (primaryPolicy) marginScale(Backend) (float64, float64) { return 1, 1 }

func (primaryPolicy) publish(b Backend, outer graphics.Rect) {
	b.SetSelection(outer)
	b.UpdateWs()
}

type manualPolicy struct{}

func (manualPolicy) toNDC(top, bottom float64, b Backend) (float64, float64) {
	if top > bottom {
		top, bottom = bottom, top
	}
	h := b.WsWindow().Height()
	return h - bottom, h - top
}

func (manualPolicy) fromNDC(y1, y2 float64, b Backend) (float64, float64) {
	h := b.WsWindow().Height()
	return h - y2, h - y1
}

func (manualPolicy) marginScale(b Backend) (float64, float64) { return deviceMarginScale(b) }

func (manualPolicy) publish(Backend, graphics.Rect) {}

type embeddedPolicy struct{}

func (embeddedPolicy) toNDC(top, bottom float64, _ Backend) (float64, float64) {
	if top < bottom {
		top, bottom = bottom, top
	}
	return bottom, top
}

func (embeddedPolicy) fromNDC(y1, y2 float64, _ Backend) (float64, float64) {
	return y2, y1
}

func (embeddedPolicy) marginScale(b Backend) (float64, float64) { return deviceMarginScale(b) }

func (embeddedPolicy) publish(Backend, graphics.Rect) {}

// deviceMarginScale returns resolution / device-pixels-per-NDC for each axis,
// which turns a length in inches into NDC units on that surface.
func deviceMarginScale(b Backend) (sx, sy float64) {
	sx, sy = 1, 1
	x1, x2, y1, y2 := b.WsViewport()
	w := b.WsWindow()
	res := b.Resolution()
	if w.Width() != 0 && x2 != x1 {
		sx = res / (float64(x2-x1) / w.Width())
	}
	if w.Height() != 0 && y2 != y1 {
		sy = res / (abs(float64(y2-y1)) / w.Height())
	}
	return sx, sy
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
