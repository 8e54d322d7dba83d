package graphics

type OpKind int

const (
	OpStroke OpKind = iota
	OpFill
	OpText
	OpImage
)

var opKindNames = [...]string{"stroke", "fill", "text", "image"}

func (k OpKind) String() string {
	if k < 0 || int(k) >= len(opKindNames) {
		return "unknown"
	}
	return opKindNames[k]
}

// Op is one recorded primitive. All geometry is in NDC.
type Op struct {
	Kind   OpKind
	Points []Point
	Closed bool

	Colour    Colour
	LineWidth float64
	LineType  LineType

	// OpText: Points[0] is the anchor.
	Text     string
	Font     Font
	FontSize int
	HAlign   HAlign
	VAlign   VAlign
	Rotation float64 // degrees, counter-clockwise

	// OpImage
	Path string
	Box  Rect
}

// Renderer receives a display list in NDC. Renderers own the mapping to
// their output space.
type Renderer interface {
	Stroke(pts []Point, closed bool, colour Colour, width float64, lineType LineType)
	Fill(pts []Point, colour Colour)
	Text(op Op)
	Image(path string, box Rect)
}

// Play sends the display list to r in recording order.
func (g *Graphics) Play(r Renderer) {
	for _, op := range g.ops {
		switch op.Kind {
		case OpStroke:
			r.Stroke(op.Points, op.Closed, op.Colour, op.LineWidth, op.LineType)
		case OpFill:
			r.Fill(op.Points, op.Colour)
		case OpText:
			r.Text(op)
		case OpImage:
			r.Image(op.Path, op.Box)
		}
	}
}

func (g *Graphics) strokeOp(pts []Point, closed bool) {
	if len(pts) < 2 {
		return
	}
	g.record(Op{
		Kind:      OpStroke,
		Points:    pts,
		Closed:    closed,
		Colour:    g.attrs.Colour,
		LineWidth: g.attrs.LineWidth,
		LineType:  g.attrs.LineType,
	})
}

func (g *Graphics) fillOp(pts []Point) {
	if len(pts) < 3 {
		return
	}
	g.record(Op{
		Kind:   OpFill,
		Points: pts,
		Colour: g.attrs.Colour,
	})
}

func (g *Graphics) textOp(p Point, text string, h HAlign, v VAlign, rotation float64) {
	if text == "" {
		return
	}
	g.record(Op{
		Kind:     OpText,
		Points:   []Point{p},
		Colour:   g.attrs.Colour,
		Text:     text,
		Font:     g.attrs.Font,
		FontSize: g.attrs.FontSize,
		HAlign:   h,
		VAlign:   v,
		Rotation: rotation,
	})
}
