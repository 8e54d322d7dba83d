package graphics

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

var postScriptFonts = map[Font]string{
	Times:     "Times-Roman",
	Helvetica: "Helvetica",
	Palatino:  "Palatino-Roman",
	Courier:   "Courier",
}

type epsRenderer struct {
	page  vectorPage
	buf   bytes.Buffer
	fonts map[Font]bool
}

func (r *epsRenderer) path(pts []Point, closed bool) {
	r.buf.WriteString("newpath")
	for i, q := range pts {
		x, y := r.page.pt(q)
		op := "lineto"
		if i == 0 {
			op = "moveto"
		}
		fmt.Fprintf(&r.buf, " %s %s %s", num(x), num(y), op)
	}
	if closed {
		r.buf.WriteString(" closepath")
	}
}

func (r *epsRenderer) colour(c Colour) {
	fmt.Fprintf(&r.buf, "%s %s %s setrgbcolor\n", num(c.Red), num(c.Green), num(c.Blue))
}

func (r *epsRenderer) Stroke(pts []Point, closed bool, colour Colour, width float64, lineType LineType) {
	r.colour(colour)
	dashes := lineType.dashes()
	parts := make([]string, len(dashes))
	for i, d := range dashes {
		parts[i] = num(d * width)
	}
	fmt.Fprintf(&r.buf, "%s setlinewidth [%s] 0 setdash\n", num(width), strings.Join(parts, " "))
	r.path(pts, closed)
	r.buf.WriteString(" stroke\n")
}

func (r *epsRenderer) Fill(pts []Point, colour Colour) {
	r.colour(colour)
	r.path(pts, true)
	r.buf.WriteString(" fill\n")
}

func (r *epsRenderer) Text(op Op) {
	r.fonts[op.Font] = true
	r.colour(op.Colour)
	x, y := r.page.textOrigin(op)
	fmt.Fprintf(&r.buf, "/%s findfont %d scalefont setfont\n", postScriptFonts[op.Font], op.FontSize)
	fmt.Fprintf(&r.buf, "gsave %s %s translate %s rotate 0 0 moveto (%s) show grestore\n",
		num(x), num(y), num(op.Rotation), escapeString(op.Text, charmap.ISO8859_1))
}

// Pictures are not embedded in vector output; their frame is drawn instead.
func (r *epsRenderer) Image(_ string, box Rect) {
	r.Stroke([]Point{{box.X1, box.Y1}, {box.X2, box.Y1}, {box.X2, box.Y2}, {box.X1, box.Y2}}, true, Black, 1, Solid)
}

// EncodeEPS writes the region of the picture as Encapsulated PostScript.
// A fontless file leaves out the font resource comments, so that the
// including document supplies whatever fonts it has.
func (g *Graphics) EncodeEPS(w io.Writer, region Rect, fontless bool) error {
	if g.Empty() {
		return ErrNothingToExport
	}
	r := &epsRenderer{page: g.vectorPage(region), fonts: map[Font]bool{}}
	g.Play(r)

	width, height := r.page.size()
	var head bytes.Buffer
	head.WriteString("%!PS-Adobe-3.0 EPSF-3.0\n")
	fmt.Fprintf(&head, "%%%%BoundingBox: 0 0 %d %d\n", int(math.Ceil(width)), int(math.Ceil(height)))
	fmt.Fprintf(&head, "%%%%HiResBoundingBox: 0 0 %s %s\n", num(width), num(height))
	head.WriteString("%%Creator: plotpic\n")
	if !fontless && len(r.fonts) > 0 {
		head.WriteString("%%DocumentNeededResources:")
		for _, f := range []Font{Times, Helvetica, Palatino, Courier} {
			if r.fonts[f] {
				head.WriteString(" font " + postScriptFonts[f])
			}
		}
		head.WriteString("\n")
	}
	head.WriteString("%%EndComments\n1 setlinejoin\n")

	if _, err := w.Write(head.Bytes()); err != nil {
		return err
	}
	if _, err := w.Write(r.buf.Bytes()); err != nil {
		return err
	}
	_, err := io.WriteString(w, "showpage\n%%EOF\n")
	return err
}

// WriteEPS saves the region of the picture as an EPS file.
func (g *Graphics) WriteEPS(path string, region Rect, fontless bool) error {
	return g.writeFile(path, func(w io.Writer) error {
		return g.EncodeEPS(w, region, fontless)
	})
}

func (g *Graphics) writeFile(path string, encode func(io.Writer) error) error {
	if g.Empty() {
		return ErrNothingToExport
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encode(file); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	g.log.Info("picture written", "path", path)
	return nil
}
