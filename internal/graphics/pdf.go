package graphics

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// Palatino is not among the standard PDF fonts; Times stands in for it.
var pdfFonts = [...]string{
	Times:     "Times-Roman",
	Helvetica: "Helvetica",
	Palatino:  "Times-Roman",
	Courier:   "Courier",
}

type pdfRenderer struct {
	page vectorPage
	buf  bytes.Buffer
}

func (r *pdfRenderer) path(pts []Point, closed bool) {
	for i, q := range pts {
		x, y := r.page.pt(q)
		op := "l"
		if i == 0 {
			op = "m"
		}
		fmt.Fprintf(&r.buf, "%s %s %s\n", num(x), num(y), op)
	}
	if closed {
		r.buf.WriteString("h\n")
	}
}

func (r *pdfRenderer) Stroke(pts []Point, closed bool, colour Colour, width float64, lineType LineType) {
	dashes := lineType.dashes()
	parts := make([]string, len(dashes))
	for i, d := range dashes {
		parts[i] = num(d * width)
	}
	fmt.Fprintf(&r.buf, "%s %s %s RG %s w [%s] 0 d\n",
		num(colour.Red), num(colour.Green), num(colour.Blue), num(width), strings.Join(parts, " "))
	r.path(pts, closed)
	r.buf.WriteString("S\n")
}

func (r *pdfRenderer) Fill(pts []Point, colour Colour) {
	fmt.Fprintf(&r.buf, "%s %s %s rg\n", num(colour.Red), num(colour.Green), num(colour.Blue))
	r.path(pts, true)
	r.buf.WriteString("f\n")
}

func (r *pdfRenderer) Text(op Op) {
	x, y := r.page.textOrigin(op)
	a := op.Rotation * math.Pi / 180
	cos, sin := math.Cos(a), math.Sin(a)
	fmt.Fprintf(&r.buf, "%s %s %s rg BT /F%d %d Tf %s %s %s %s %s %s Tm (%s) Tj ET\n",
		num(op.Colour.Red), num(op.Colour.Green), num(op.Colour.Blue),
		int(op.Font), op.FontSize,
		num(cos), num(sin), num(-sin), num(cos), num(x), num(y),
		escapeString(op.Text, charmap.Windows1252))
}

func (r *pdfRenderer) Image(_ string, box Rect) {
	r.Stroke([]Point{{box.X1, box.Y1}, {box.X2, box.Y1}, {box.X2, box.Y2}, {box.X1, box.Y2}}, true, Black, 1, Solid)
}

// EncodePDF writes the region of the picture as a single-page PDF document.
func (g *Graphics) EncodePDF(w io.Writer, region Rect) error {
	if g.Empty() {
		return ErrNothingToExport
	}
	r := &pdfRenderer{page: g.vectorPage(region)}
	g.Play(r)
	width, height := r.page.size()

	var objects []string
	objects = append(objects,
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
	)
	var fonts strings.Builder
	for i := range pdfFonts {
		fmt.Fprintf(&fonts, " /F%d %d 0 R", i, 5+i)
	}
	objects = append(objects,
		fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %s %s] /Resources << /Font <<%s >> >> /Contents 4 0 R >>",
			num(width), num(height), fonts.String()),
		fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", r.buf.Len(), r.buf.String()),
	)
	for _, name := range pdfFonts {
		objects = append(objects,
			fmt.Sprintf("<< /Type /Font /Subtype /Type1 /BaseFont /%s /Encoding /WinAnsiEncoding >>", name))
	}

	var out bytes.Buffer
	out.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = out.Len()
		fmt.Fprintf(&out, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := out.Len()
	fmt.Fprintf(&out, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&out, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&out, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	_, err := w.Write(out.Bytes())
	return err
}

// WritePDF saves the region of the picture as a PDF file.
func (g *Graphics) WritePDF(path string, region Rect) error {
	return g.writeFile(path, func(w io.Writer) error {
		return g.EncodePDF(w, region)
	})
}
