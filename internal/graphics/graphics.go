// Package graphics is the recording drawing backend of a picture.
//
// A Graphics keeps a display list of primitives in normalized device
// coordinates (NDC), together with the current viewport, world window and
// drawing attributes that turn world coordinates into NDC. The display list
// can be played back into any Renderer: the PNG rasterizer, the EPS and PDF
// writers, and the terminal cell renderer.
package graphics

import (
	"log/slog"
	"math"

	"plotpic/internal/logging"
)

// PageSize is the height and width of the primary page in inches.
const PageSize = 12.0

// Device maps NDC to device pixels. Device y grows downwards, so Y1DC is
// normally the larger value.
type Device struct {
	Resolution             float64 // pixels per inch
	Window                 Rect    // NDC window of the whole surface
	X1DC, X2DC, Y1DC, Y2DC int
}

// PrimaryDevice is the 12 by 12 inch page where one NDC unit is one inch.
func PrimaryDevice(resolution float64) Device {
	n := int(math.Round(PageSize * resolution))
	return Device{
		Resolution: resolution,
		Window:     Rect{0, PageSize, 0, PageSize},
		X1DC:       0,
		X2DC:       n,
		Y1DC:       n,
		Y2DC:       0,
	}
}

// NewDevice describes a surface of width by height pixels showing window.
func NewDevice(window Rect, width, height int, resolution float64) Device {
	return Device{
		Resolution: resolution,
		Window:     window,
		X1DC:       0,
		X2DC:       width,
		Y1DC:       height,
		Y2DC:       0,
	}
}

// pixelsPerNDC returns device pixels per NDC unit along each axis.
func (d Device) pixelsPerNDC() (sx, sy float64) {
	sx, sy = d.Resolution, d.Resolution
	if w := d.Window.Width(); w != 0 {
		sx = float64(d.X2DC-d.X1DC) / w
	}
	if h := d.Window.Height(); h != 0 {
		sy = math.Abs(float64(d.Y2DC-d.Y1DC)) / h
	}
	return sx, sy
}

// inchesPerNDC returns how many inches one NDC unit covers along each axis.
func (d Device) inchesPerNDC() (ix, iy float64) {
	sx, sy := d.pixelsPerNDC()
	return sx / d.Resolution, sy / d.Resolution
}

type Graphics struct {
	device Device

	viewport Rect
	window   Rect
	useInner bool
	attrs    Attributes
	hAlign   HAlign
	vAlign   VAlign
	rotation float64

	ops    []Op
	groups []int

	selection Rect
	onUpdate  func()

	log *slog.Logger
}

func New(device Device) *Graphics {
	return &Graphics{
		device:   device,
		viewport: device.Window,
		window:   Rect{0, 1, 0, 1},
		attrs:    DefaultAttributes(),
		vAlign:   AlignBottom,
		log:      logging.New("graphics"),
	}
}

func (g *Graphics) Device() Device { return g.device }

// Resolution returns device pixels per inch.
func (g *Graphics) Resolution() float64 { return g.device.Resolution }

// WsViewport returns the device rectangle of the surface.
func (g *Graphics) WsViewport() (x1, x2, y1, y2 int) {
	d := g.device
	return d.X1DC, d.X2DC, d.Y1DC, d.Y2DC
}

// WsWindow returns the NDC window of the surface.
func (g *Graphics) WsWindow() Rect { return g.device.Window }

// SetSelection records the highlighted selection rectangle in NDC.
func (g *Graphics) SetSelection(r Rect) { g.selection = r }

func (g *Graphics) Selection() Rect { return g.selection }

// UpdateWs asks whatever displays this surface to redraw.
func (g *Graphics) UpdateWs() {
	if g.onUpdate != nil {
		g.onUpdate()
	}
}

// OnUpdate registers the redraw callback used by UpdateWs.
func (g *Graphics) OnUpdate(fn func()) { g.onUpdate = fn }

func (g *Graphics) SetViewport(r Rect) { g.viewport = r.Sorted() }
func (g *Graphics) Viewport() Rect { return g.viewport }
func (g *Graphics) SetWindow(r Rect) { g.window = r }
func (g *Graphics) Window() Rect { return g.window }
func (g *Graphics) SetAttributes(a Attributes) { g.attrs = a }
func (g *Graphics) Attributes() Attributes { return g.attrs }
func (g *Graphics) SetFont(f Font) { g.attrs.Font = f }
func (g *Graphics) SetFontSize(size int) { g.attrs.FontSize = size }
func (g *Graphics) SetLineType(t LineType) { g.attrs.LineType = t }
func (g *Graphics) SetLineWidth(w float64) { g.attrs.LineWidth = w }
func (g *Graphics) SetArrowSize(s float64) { g.attrs.ArrowSize = s }
func (g *Graphics) SetSpeckleSize(s float64) { g.attrs.SpeckleSize = s }
func (g *Graphics) SetColour(c Colour) { g.attrs.Colour = c }
func (g *Graphics) SetTextRotation(deg float64) { g.rotation = deg }

func (g *Graphics) SetTextAlignment(h HAlign, v VAlign) {
	g.hAlign, g.vAlign = h, v
}

// SetInner makes world coordinates map onto the inner viewport: the current
// viewport shrunk by margins that scale with the font size.
func (g *Graphics) SetInner() { g.useInner = true }
func (g *Graphics) UnsetInner() { g.useInner = false }

const (
	// Inner viewport margins per point of font size, in inches.
	HMarginPerPoint = 4.2 / 72
	VMarginPerPoint = 2.8 / 72

	// InnerMarginLimit caps an inner viewport margin as a fraction of the
	// extent of the viewport it is taken from.
	InnerMarginLimit = 0.4
)

// ShrinkByMargins returns v without a margin of mx on the left and right and
// my at the bottom and top. Each margin is capped at InnerMarginLimit of the
// extent it is taken from.
func ShrinkByMargins(v Rect, mx, my float64) Rect {
	if limit := InnerMarginLimit * v.Width(); mx > limit {
		mx = limit
	}
	if limit := InnerMarginLimit * v.Height(); my > limit {
		my = limit
	}
	return Rect{v.X1 + mx, v.X2 - mx, v.Y1 + my, v.Y2 - my}
}

// InnerViewport returns the inner viewport in NDC for the current viewport
// and font size.
func (g *Graphics) InnerViewport() Rect {
	ix, iy := g.device.inchesPerNDC()
	size := float64(g.attrs.FontSize)
	return ShrinkByMargins(g.viewport, size*HMarginPerPoint/ix, size*VMarginPerPoint/iy)
}

func (g *Graphics) current() Rect {
	if g.useInner {
		return g.InnerViewport()
	}
	return g.viewport
}

// Snapshot is everything a drawing command may change besides the display list.
type Snapshot struct {
	viewport Rect
	window   Rect
	useInner bool
	attrs    Attributes
	hAlign   HAlign
	vAlign   VAlign
	rotation float64
}

func (g *Graphics) Save() Snapshot {
	return Snapshot{
		viewport: g.viewport,
		window:   g.window,
		useInner: g.useInner,
		attrs:    g.attrs,
		hAlign:   g.hAlign,
		vAlign:   g.vAlign,
		rotation: g.rotation,
	}
}

func (g *Graphics) Restore(s Snapshot) {
	g.viewport = s.viewport
	g.window = s.window
	g.useInner = s.useInner
	g.attrs = s.attrs
	g.hAlign = s.hAlign
	g.vAlign = s.vAlign
	g.rotation = s.rotation
}

// BeginGroup starts a new undo group. Everything recorded until the next
// BeginGroup is removed together by UndoGroup.
func (g *Graphics) BeginGroup() {
	if n := len(g.groups); n > 0 && g.groups[n-1] == len(g.ops) {
		return
	}
	g.groups = append(g.groups, len(g.ops))
}

// UndoGroup removes the most recent group. It reports whether anything was removed.
func (g *Graphics) UndoGroup() bool {
	for len(g.groups) > 0 {
		start := g.groups[len(g.groups)-1]
		g.groups = g.groups[:len(g.groups)-1]
		if start < len(g.ops) {
			g.ops = g.ops[:start]
			g.log.Debug("undo group", "remaining", len(g.ops))
			return true
		}
	}
	if len(g.ops) > 0 {
		g.ops = g.ops[:0]
		return true
	}
	return false
}

// ClearRecording empties the display list.
func (g *Graphics) ClearRecording() {
	g.ops = g.ops[:0]
	g.groups = g.groups[:0]
}

func (g *Graphics) Ops() []Op { return g.ops }

func (g *Graphics) Empty() bool { return len(g.ops) == 0 }

func (g *Graphics) record(op Op) {
	g.ops = append(g.ops, op)
}
