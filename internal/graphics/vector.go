package graphics

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// vectorPage maps NDC to points for the EPS and PDF writers. Both put the
// origin at the lower left corner of the exported region.
type vectorPage struct {
	region Rect
	sx, sy float64 // points per NDC unit
}

func (g *Graphics) vectorPage(region Rect) vectorPage {
	region = region.Sorted()
	ix, iy := g.device.inchesPerNDC()
	return vectorPage{region: region, sx: ix * 72, sy: iy * 72}
}

func (p vectorPage) size() (w, h float64) {
	return p.region.Width() * p.sx, p.region.Height() * p.sy
}

func (p vectorPage) pt(q Point) (float64, float64) {
	return (q.X - p.region.X1) * p.sx, (q.Y - p.region.Y1) * p.sy
}

func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*1000)/1000, 'f', -1, 64)
}

// textOrigin returns where the baseline of op's text starts so that the
// anchor lands where the alignment asks.
func (p vectorPage) textOrigin(op Op) (x, y float64) {
	x, y = p.pt(op.Points[0])
	ax, _ := anchors(op.HAlign, op.VAlign)
	w := textWidthPoints(op.Font, op.FontSize, op.Text)
	var rise float64
	switch op.VAlign {
	case AlignHalf:
		rise = 0.35 * float64(op.FontSize)
	case AlignTop:
		rise = 0.7 * float64(op.FontSize)
	}
	a := op.Rotation * math.Pi / 180
	cos, sin := math.Cos(a), math.Sin(a)
	dx, dy := -ax*w, -rise
	return x + cos*dx - sin*dy, y + sin*dx + cos*dy
}

// escapeString writes s as the body of a PostScript/PDF literal string in
// the single-byte encoding cm. Characters the encoding lacks become question
// marks.
func escapeString(s string, cm *charmap.Charmap) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '(' || r == ')' || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r >= 32 && r < 127:
			b.WriteRune(r)
		default:
			c, ok := cm.EncodeRune(r)
			if !ok || c < 32 {
				b.WriteByte('?')
				continue
			}
			b.WriteString("\\" + strconv.FormatInt(int64(c), 8))
		}
	}
	return b.String()
}
