package graphics

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/fogleman/gg"
	"github.com/nfnt/resize"
	"golang.org/x/image/font"
)

// ErrNothingToExport is returned when an export is asked of an empty picture.
var ErrNothingToExport = errors.New("nothing to export")

const maxRasterSide = 20000

type faceKey struct {
	font Font
	size int
}

type rasterRenderer struct {
	dc         *gg.Context
	region     Rect
	ppuX, ppuY float64 // pixels per NDC unit
	dpi        float64
	faces      map[faceKey]font.Face
	g          *Graphics
}

func (r *rasterRenderer) pt(p Point) (float64, float64) {
	return (p.X - r.region.X1) * r.ppuX, (r.region.Y2 - p.Y) * r.ppuY
}

func (r *rasterRenderer) path(pts []Point, closed bool) {
	r.dc.NewSubPath()
	for i, p := range pts {
		x, y := r.pt(p)
		if i == 0 {
			r.dc.MoveTo(x, y)
		} else {
			r.dc.LineTo(x, y)
		}
	}
	if closed {
		r.dc.ClosePath()
	}
}

func (r *rasterRenderer) Stroke(pts []Point, closed bool, colour Colour, width float64, lineType LineType) {
	// line width 1 is one point
	w := width * r.dpi / 72
	r.dc.SetColor(colour)
	r.dc.SetLineWidth(w)
	dashes := lineType.dashes()
	for i := range dashes {
		dashes[i] *= w
	}
	r.dc.SetDash(dashes...)
	r.path(pts, closed)
	r.dc.Stroke()
}

func (r *rasterRenderer) Fill(pts []Point, colour Colour) {
	r.dc.SetColor(colour)
	r.path(pts, true)
	r.dc.Fill()
}

func (r *rasterRenderer) face(f Font, size int) (font.Face, error) {
	key := faceKey{f, size}
	if face, ok := r.faces[key]; ok {
		return face, nil
	}
	face, err := fontFace(f, float64(size), r.dpi)
	if err != nil {
		return nil, err
	}
	r.faces[key] = face
	return face, nil
}

func anchors(h HAlign, v VAlign) (ax, ay float64) {
	switch h {
	case AlignCentre:
		ax = 0.5
	case AlignRight:
		ax = 1
	}
	switch v {
	case AlignHalf:
		ay = 0.5
	case AlignTop:
		ay = 1
	}
	return ax, ay
}

func (r *rasterRenderer) Text(op Op) {
	face, err := r.face(op.Font, op.FontSize)
	if err != nil {
		r.g.log.Error("text skipped", "error", err)
		return
	}
	x, y := r.pt(op.Points[0])
	ax, ay := anchors(op.HAlign, op.VAlign)
	r.dc.SetFontFace(face)
	r.dc.SetColor(op.Colour)
	r.dc.Push()
	r.dc.RotateAbout(gg.Radians(-op.Rotation), x, y)
	r.dc.DrawStringAnchored(op.Text, x, y, ax, ay)
	r.dc.Pop()
}

func (r *rasterRenderer) Image(path string, box Rect) {
	x, y := r.pt(Point{box.X1, box.Y2})
	w, h := box.Width()*r.ppuX, box.Height()*r.ppuY
	img, err := gg.LoadImage(path)
	if err != nil {
		r.g.log.Warn("cannot load picture, drawing its frame", "path", path, "error", err)
		r.dc.SetColor(color.Black)
		r.dc.SetLineWidth(1)
		r.dc.SetDash()
		r.dc.DrawRectangle(x, y, w, h)
		r.dc.Stroke()
		return
	}
	pw, ph := uint(math.Round(w)), uint(math.Round(h))
	if pw == 0 || ph == 0 || img.Bounds().Empty() {
		return
	}
	r.dc.DrawImage(resize.Resize(pw, ph, img, resize.Bilinear), int(math.Round(x)), int(math.Round(y)))
}

// rasterize draws the part of the picture inside region (NDC) at dpi.
func (g *Graphics) rasterize(region Rect, dpi float64) (*gg.Context, error) {
	region = region.Sorted()
	ix, iy := g.device.inchesPerNDC()
	w := int(math.Ceil(region.Width() * ix * dpi))
	h := int(math.Ceil(region.Height() * iy * dpi))
	if w < 1 || h < 1 {
		return nil, fmt.Errorf("export region %gx%g is empty", region.Width(), region.Height())
	}
	if w > maxRasterSide || h > maxRasterSide {
		return nil, fmt.Errorf("export of %dx%d pixels is too large", w, h)
	}

	dc := gg.NewContext(w, h)
	dc.SetColor(color.White)
	dc.Clear()

	g.Play(&rasterRenderer{
		dc:     dc,
		region: region,
		ppuX:   float64(w) / region.Width(),
		ppuY:   float64(h) / region.Height(),
		dpi:    dpi,
		faces:  map[faceKey]font.Face{},
		g:      g,
	})
	return dc, nil
}

// EncodePNG writes the region of the picture as a PNG image at dpi.
func (g *Graphics) EncodePNG(w io.Writer, region Rect, dpi float64) error {
	if g.Empty() {
		return ErrNothingToExport
	}
	dc, err := g.rasterize(region, dpi)
	if err != nil {
		return err
	}
	return dc.EncodePNG(w)
}

// WritePNG saves the region of the picture as a PNG file at dpi.
func (g *Graphics) WritePNG(path string, region Rect, dpi float64) error {
	if g.Empty() {
		return ErrNothingToExport
	}
	dc, err := g.rasterize(region, dpi)
	if err != nil {
		return err
	}
	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	g.log.Info("png written", "path", path, "dpi", dpi)
	return nil
}
