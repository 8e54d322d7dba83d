package picture

import (
	"errors"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"plotpic/internal/graphics"
	"plotpic/internal/history"
	"plotpic/internal/viewport"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func newPage(t *testing.T) (*Picture, *history.Sink) {
	t.Helper()
	sink := history.New("")
	return New(viewport.Primary, graphics.New(graphics.PrimaryDevice(100)), sink), sink
}

func lastLine(sink *history.Sink) string {
	line, _ := sink.Last()
	return line
}

func TestDrawLeavesBackendUntouched(t *testing.T) {
	p, _ := newPage(t)
	g := p.Graphics()
	before := g.Attributes()
	beforeViewport := g.Viewport()

	p.SetColour(graphics.Red)
	if err := p.SetLineWidth(3); err != nil {
		t.Fatal(err)
	}
	p.DrawLine(0, 0, 1, 1)

	if diff := cmp.Diff(before, g.Attributes()); diff != "" {
		t.Errorf("backend attributes changed (-before +after):\n%s", diff)
	}
	if diff := cmp.Diff(beforeViewport, g.Viewport()); diff != "" {
		t.Errorf("backend viewport changed (-before +after):\n%s", diff)
	}

	ops := g.Ops()
	if len(ops) != 1 {
		t.Fatalf("got %d ops, want 1", len(ops))
	}
	if ops[0].Colour != graphics.Red || ops[0].LineWidth != 3 {
		t.Errorf("line drawn with %v width %g, want red width 3", ops[0].Colour, ops[0].LineWidth)
	}
	in := p.State().InnerNDC()
	want := []graphics.Point{{X: in.X1, Y: in.Y1}, {X: in.X2, Y: in.Y2}}
	if diff := cmp.Diff(want, ops[0].Points, approx); diff != "" {
		t.Errorf("line points mismatch (-want +got):\n%s", diff)
	}
}

func TestUndoRemovesLastCommand(t *testing.T) {
	p, _ := newPage(t)
	p.DrawLine(0, 0, 1, 1)
	p.DrawRectangle(0, 1, 0, 1)
	if got := len(p.Graphics().Ops()); got != 2 {
		t.Fatalf("got %d ops, want 2", got)
	}

	p.Undo()
	ops := p.Graphics().Ops()
	if len(ops) != 1 || ops[0].Closed {
		t.Fatalf("after undo got %+v, want only the line", ops)
	}
	p.Undo()
	if !p.Graphics().Empty() {
		t.Error("second undo left ops behind")
	}
}

func TestEraseAllKeepsSettings(t *testing.T) {
	p, _ := newPage(t)
	p.SetColour(graphics.Blue)
	if err := p.SelectOuterViewport(1, 4, 1, 3); err != nil {
		t.Fatal(err)
	}
	p.DrawLine(0, 0, 1, 1)

	p.EraseAll()
	if !p.Graphics().Empty() {
		t.Error("picture not erased")
	}
	if got := p.State().Attributes().Colour; got != graphics.Blue {
		t.Errorf("colour = %v, want Blue", got)
	}
	want := viewport.Range{Left: 1, Right: 4, Top: 1, Bottom: 3}
	if diff := cmp.Diff(want, p.State().QueryOuterViewport(), approx); diff != "" {
		t.Errorf("outer viewport mismatch (-want +got):\n%s", diff)
	}
}

func TestMarksValidation(t *testing.T) {
	p, _ := newPage(t)
	st := graphics.MarkStyle{Numbers: true, Ticks: true}

	var rangeErr *viewport.InvalidRangeError
	if err := p.Marks(graphics.Left, 1, st); !errors.As(err, &rangeErr) {
		t.Errorf("Marks(1) error = %v, want InvalidRangeError", err)
	}
	if err := p.MarksEvery(graphics.Bottom, 1, 0, st); !errors.As(err, &rangeErr) {
		t.Errorf("MarksEvery(distance 0) error = %v, want InvalidRangeError", err)
	}
	if err := p.MarksLogarithmic(graphics.Bottom, 0, st); !errors.As(err, &rangeErr) {
		t.Errorf("MarksLogarithmic(0) error = %v, want InvalidRangeError", err)
	}
	if !p.Graphics().Empty() {
		t.Error("failed commands drew something")
	}

	if err := p.Marks(graphics.Left, 3, st); err != nil {
		t.Fatal(err)
	}
	if p.Graphics().Empty() {
		t.Error("Marks(3) drew nothing")
	}
}

func TestRefusedMarksLeaveUndoAlone(t *testing.T) {
	st := graphics.MarkStyle{Numbers: true, Ticks: true}
	tests := []struct {
		name                     string
		left, right, bottom, top float64
		draw                     func(p *Picture) error
		want                     error
	}{
		{
			name: "every, far from zero", left: 1e17, right: 1e17 + 64, bottom: 0, top: 1,
			draw: func(p *Picture) error { return p.MarksEvery(graphics.Bottom, 1, 1, st) },
			want: graphics.ErrMarksCoincide,
		},
		{
			name: "every, too many", left: 0, right: 1e6, bottom: 0, top: 1,
			draw: func(p *Picture) error { return p.MarksEvery(graphics.Bottom, 1, 1, st) },
			want: graphics.ErrTooManyMarks,
		},
		{
			name: "logarithmic, far from zero", left: 0, right: 1, bottom: 1e17, top: 1e17 + 64,
			draw: func(p *Picture) error { return p.MarksLogarithmic(graphics.Left, 1, st) },
			want: graphics.ErrMarksCoincide,
		},
		{
			name: "count above the limit", left: 0, right: 1, bottom: 0, top: 1,
			draw: func(p *Picture) error { return p.Marks(graphics.Left, graphics.MaxMarks+1, st) },
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, _ := newPage(t)
			p.DrawLine(0, 0, 1, 1)
			if err := p.Axes(tc.left, tc.right, tc.bottom, tc.top); err != nil {
				t.Fatal(err)
			}

			err := tc.draw(p)
			var rangeErr *viewport.InvalidRangeError
			if !errors.As(err, &rangeErr) {
				t.Fatalf("error = %v, want InvalidRangeError", err)
			}
			if tc.want != nil && !errors.Is(err, tc.want) {
				t.Fatalf("error = %v, want %v", err, tc.want)
			}
			if n := len(p.Graphics().Ops()); n != 1 {
				t.Fatalf("got %d ops after the refused command, want the line only", n)
			}
			p.Undo()
			if !p.Graphics().Empty() {
				t.Error("undo after the refused command did not remove the line")
			}
		})
	}
}

func TestOneMarkBounds(t *testing.T) {
	p, _ := newPage(t)
	if err := p.Axes(0, 10, 0, 1); err != nil {
		t.Fatal(err)
	}
	st := graphics.MarkStyle{Ticks: true}

	var boundsErr *viewport.OutOfBoundsError
	if err := p.OneMark(graphics.Bottom, 13, st, ""); !errors.As(err, &boundsErr) {
		t.Fatalf("OneMark(13) error = %v, want OutOfBoundsError", err)
	}
	if boundsErr.Lo != -2 || boundsErr.Hi != 12 {
		t.Errorf("bounds = [%g, %g], want [-2, 12]", boundsErr.Lo, boundsErr.Hi)
	}
	if err := p.OneMark(graphics.Bottom, 11.9, st, ""); err != nil {
		t.Errorf("OneMark(11.9) = %v, want nil", err)
	}
	if err := p.OneMark(graphics.Left, 1.3, st, ""); !errors.As(err, &boundsErr) {
		t.Errorf("OneMark(left, 1.3) error = %v, want OutOfBoundsError", err)
	}

	if err := p.Axes(0, 10, 0, 2); err != nil {
		t.Fatal(err)
	}
	if err := p.OneLogarithmicMark(graphics.Left, 1000, st, ""); !errors.As(err, &boundsErr) {
		t.Errorf("OneLogarithmicMark(1000) error = %v, want OutOfBoundsError", err)
	}
	if err := p.OneLogarithmicMark(graphics.Left, 200, st, "two hundred"); err != nil {
		t.Errorf("OneLogarithmicMark(200) = %v, want nil", err)
	}
}

func TestDrawFunction(t *testing.T) {
	p, _ := newPage(t)
	if err := p.DrawFunction(0, 0, 11, "x^2"); err != nil {
		t.Fatal(err)
	}
	ops := p.Graphics().Ops()
	if len(ops) != 1 {
		t.Fatalf("got %d ops, want 1", len(ops))
	}
	pts := ops[0].Points
	if len(pts) != 11 {
		t.Fatalf("got %d points, want 11", len(pts))
	}
	in := p.State().InnerNDC()
	mid := graphics.Point{X: in.X1 + 0.5*in.Width(), Y: in.Y1 + 0.25*in.Height()}
	if diff := cmp.Diff(mid, pts[5], approx); diff != "" {
		t.Errorf("middle point mismatch (-want +got):\n%s", diff)
	}

	var formulaErr *FormulaError
	if err := p.DrawFunction(0, 1, 10, "x +"); !errors.As(err, &formulaErr) {
		t.Errorf("bad formula error = %v, want FormulaError", err)
	}
	if err := p.DrawFunction(0, 1, 1, "x"); err != nil {
		t.Errorf("one step = %v, want nil", err)
	}
	if got := len(p.Graphics().Ops()); got != 1 {
		t.Errorf("got %d ops after no-op commands, want 1", got)
	}
}

func TestDrawFunctionGaps(t *testing.T) {
	p, _ := newPage(t)
	if err := p.Axes(-1, 1, 0, 1); err != nil {
		t.Fatal(err)
	}
	if err := p.DrawFunction(-1, 1, 5, "sqrt(x)"); err != nil {
		t.Fatal(err)
	}
	ops := p.Graphics().Ops()
	if len(ops) != 1 || len(ops[0].Points) != 3 {
		t.Fatalf("got %+v, want one run over x >= 0", ops)
	}
}

func TestInfo(t *testing.T) {
	p, _ := newPage(t)
	info := p.Info()
	want := map[int]string{
		0:  "Outer viewport left: 0 inches",
		1:  "Outer viewport right: 6 inches",
		2:  "Outer viewport top: 0 inches",
		3:  "Outer viewport bottom: 4 inches",
		4:  "Font size: 10 points",
		5:  "Inner viewport left: 0.583333333333 inches",
		7:  "Inner viewport top: 0.388888888889 inches",
		9:  "Font: Helvetica",
		10: "Line type: Solid",
		14: "Colour: Black",
		21: "Axis top: 1",
	}
	for i, line := range want {
		if info[i] != line {
			t.Errorf("line %d = %q, want %q", i, info[i], line)
		}
	}

	g := graphics.New(graphics.NewDevice(graphics.Rect{X1: 0, X2: 1, Y1: 0, Y2: 1}, 500, 500, 100))
	embedded := New(viewport.Embedded, g, nil)
	if got := embedded.Info()[1]; got != "Outer viewport right: 1" {
		t.Errorf("embedded line 1 = %q, want no units", got)
	}
}

func TestMouseSelection(t *testing.T) {
	p, sink := newPage(t)
	if err := p.MouseSelection(graphics.Rect{X1: 1, X2: 5, Y1: 2, Y2: 8}); err != nil {
		t.Fatal(err)
	}
	if got, want := lastLine(sink), "Select outer viewport: 1, 5, 4, 10"; got != want {
		t.Errorf("history = %q, want %q", got, want)
	}
	if got := p.Graphics().Selection(); got != (graphics.Rect{X1: 1, X2: 5, Y1: 2, Y2: 8}) {
		t.Errorf("selection = %+v", got)
	}

	g := graphics.New(graphics.NewDevice(graphics.Rect{X1: 0, X2: 1, Y1: 0, Y2: 1}, 500, 500, 100))
	embedded := New(viewport.Embedded, g, nil)
	if err := embedded.MouseSelectsInnerViewport(); !errors.Is(err, ErrMouseUnavailable) {
		t.Errorf("MouseSelectsInnerViewport on embedded = %v, want ErrMouseUnavailable", err)
	}
	if err := embedded.MouseSelection(graphics.Rect{X1: 0, X2: 1, Y1: 0, Y2: 1}); !errors.Is(err, ErrMouseUnavailable) {
		t.Errorf("MouseSelection on embedded = %v, want ErrMouseUnavailable", err)
	}
}

func TestTextSpecial(t *testing.T) {
	p, _ := newPage(t)
	if err := p.TextSpecial(0.5, graphics.AlignCentre, 0.5, graphics.AlignHalf, graphics.Courier, 14, "1;1", "hi"); err != nil {
		t.Fatal(err)
	}
	ops := p.Graphics().Ops()
	if len(ops) != 1 {
		t.Fatalf("got %d ops, want 1", len(ops))
	}
	op := ops[0]
	if op.Font != graphics.Courier || op.FontSize != 14 || math.Abs(op.Rotation-45) > 1e-9 {
		t.Errorf("text op = %+v, want Courier 14 rotated 45", op)
	}
	if got := p.State().Attributes().Font; got != graphics.Helvetica {
		t.Errorf("picture font changed to %v", got)
	}
	if err := p.TextSpecial(0, graphics.AlignLeft, 0, graphics.AlignBottom, graphics.Times, 0, "0", "x"); err == nil {
		t.Error("font size 0 accepted")
	}
}

func TestParseRotation(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"30", 30},
		{" -90 ", -90},
		{"1;1", 45},
		{"0; 1", 90},
		{"-1;0", 180},
	}
	for _, tt := range tests {
		got, err := ParseRotation(tt.in)
		if err != nil {
			t.Errorf("ParseRotation(%q): %v", tt.in, err)
			continue
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ParseRotation(%q) = %g, want %g", tt.in, got, tt.want)
		}
	}
	if _, err := ParseRotation("up"); err == nil {
		t.Error("ParseRotation(up) succeeded")
	}
}

func TestViewportText(t *testing.T) {
	p, _ := newPage(t)
	p.ViewportText(graphics.AlignCentre, graphics.AlignHalf, 0, "title")
	ops := p.Graphics().Ops()
	if len(ops) != 1 {
		t.Fatalf("got %d ops, want 1", len(ops))
	}
	o := p.State().Outer()
	want := graphics.Point{X: (o.X1 + o.X2) / 2, Y: (o.Y1 + o.Y2) / 2}
	if diff := cmp.Diff(want, ops[0].Points[0], approx); diff != "" {
		t.Errorf("anchor mismatch (-want +got):\n%s", diff)
	}
	if got := p.Graphics().Window(); got != (graphics.Rect{X1: 0, X2: 1, Y1: 0, Y2: 1}) {
		t.Errorf("backend window left at %+v", got)
	}
}

func TestUpdatesOnChange(t *testing.T) {
	p, _ := newPage(t)
	updates := 0
	p.Graphics().OnUpdate(func() { updates++ })

	if err := p.SetFontSize(14); err != nil {
		t.Fatal(err)
	}
	p.DrawLine(0, 0, 1, 1)
	if err := p.SelectInnerViewport(1, 5, 1, 3); err != nil {
		t.Fatal(err)
	}
	if updates != 3 {
		t.Errorf("got %d redraws, want 3", updates)
	}
}

func TestMeasure(t *testing.T) {
	p, _ := newPage(t)
	if err := p.Axes(0, 100, 0, 1); err != nil {
		t.Fatal(err)
	}
	mm := p.TextWidthMM("Hello world")
	if mm <= 0 {
		t.Fatalf("TextWidthMM = %g, want > 0", mm)
	}
	if got, want := p.TextWidthWC("Hello world"), p.HorizontalMMToWC(mm); math.Abs(got-want) > 1e-9 {
		t.Errorf("TextWidthWC = %g, want %g", got, want)
	}
	if got := p.HorizontalWCToMM(p.HorizontalMMToWC(10)); math.Abs(got-10) > 1e-9 {
		t.Errorf("round trip = %g, want 10", got)
	}
	if got := p.VerticalWCToMM(p.VerticalMMToWC(7)); math.Abs(got-7) > 1e-9 {
		t.Errorf("vertical round trip = %g, want 7", got)
	}
}

func TestSave(t *testing.T) {
	p, _ := newPage(t)
	dir := t.TempDir()

	if err := p.SavePNG300(filepath.Join(dir, "empty.png")); !errors.Is(err, graphics.ErrNothingToExport) {
		t.Errorf("empty export error = %v, want ErrNothingToExport", err)
	}

	p.DrawRectangle(0, 1, 0, 1)
	p.Text(0.5, graphics.AlignCentre, 0.5, graphics.AlignHalf, "centre")

	pngPath := filepath.Join(dir, "out.png")
	if err := p.SavePNG300(pngPath); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(pngPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 1800 || cfg.Height != 1200 {
		t.Errorf("png is %dx%d, want 1800x1200", cfg.Width, cfg.Height)
	}

	for name, save := range map[string]func(string) error{
		"out.eps":   p.SaveEPS,
		"plain.eps": p.SaveFontlessEPS,
		"out.pdf":   p.SavePDF,
		"out.plp":   p.SaveRecording,
		"out.txt":   func(path string) error { return p.SaveText(path, 60) },
	} {
		path := filepath.Join(dir, name)
		if err := save(path); err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if info, err := os.Stat(path); err != nil || info.Size() == 0 {
			t.Errorf("%s not written", name)
		}
	}
}

func TestRecordingRoundTrip(t *testing.T) {
	p, _ := newPage(t)
	p.DrawArrow(0, 0, 1, 1)
	p.PaintEllipse(graphics.Teal, 0, 1, 0, 0.5)
	want := append([]graphics.Op(nil), p.Graphics().Ops()...)

	path := filepath.Join(t.TempDir(), "pic.plp")
	if err := p.SaveRecording(path); err != nil {
		t.Fatal(err)
	}
	p.EraseAll()
	if err := p.ReadRecording(path); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, p.Graphics().Ops(), approx); diff != "" {
		t.Errorf("ops mismatch (-want +got):\n%s", diff)
	}
}

func TestInsertPictureFromFileMissing(t *testing.T) {
	p, _ := newPage(t)
	if err := p.InsertPictureFromFile(filepath.Join(t.TempDir(), "none.png"), 0, 1, 0, 1); err == nil {
		t.Error("missing file accepted")
	}
	if !p.Graphics().Empty() {
		t.Error("missing file drew something")
	}
}

func TestCompileFormula(t *testing.T) {
	tests := []struct {
		src  string
		x    float64
		want float64
	}{
		{"x^2 - x^4", 2, -12},
		{"-2^2", 0, -4},
		{"2^3^2", 0, 512},
		{"(1+2)*3", 0, 9},
		{"2^-1", 0, 0.5},
		{"10/4/5", 0, 0.5},
		{"sqrt(x) + abs(-3)", 16, 7},
		{"cos(pi*x)", 1, -1},
		{"ln(e^x)", 3, 3},
	}
	for _, tt := range tests {
		f, err := CompileFormula(tt.src)
		if err != nil {
			t.Errorf("CompileFormula(%q): %v", tt.src, err)
			continue
		}
		if got := f.Eval(tt.x); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("%q at %g = %g, want %g", tt.src, tt.x, got, tt.want)
		}
	}

	for _, src := range []string{"", "x +", "foo(x)", "(x", "2 3", "sin x"} {
		_, err := CompileFormula(src)
		var fe *FormulaError
		if !errors.As(err, &fe) {
			t.Errorf("CompileFormula(%q) = %v, want a FormulaError", src, err)
		}
	}
}
