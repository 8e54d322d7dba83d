package script

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"plotpic/internal/graphics"
	"plotpic/internal/history"
	"plotpic/internal/picture"
	"plotpic/internal/viewport"
)

func newRunner(t *testing.T) (*Runner, *picture.Picture, *bytes.Buffer) {
	t.Helper()
	p := picture.New(viewport.Primary, graphics.New(graphics.PrimaryDevice(100)), history.New(""))
	var out bytes.Buffer
	return NewRunner(p, &out), p, &out
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		in   string
		name string
		args []string
	}{
		{"Draw line: 0, 0, 1, 1", "draw line", []string{"0", "0", "1", "1"}},
		{"  Draw   Line...  : 0,0 ,1, 1", "draw line", []string{"0", "0", "1", "1"}},
		{"Erase all", "erase all", nil},
		{`Text: 0.5, Centre, 0.5, Half, "a, b"`, "text", []string{"0.5", "Centre", "0.5", "Half", "a, b"}},
		{`Text top: no, "say ""hi"""`, "text top", []string{"no", `say "hi"`}},
		{"Text top: no, ", "text top", []string{"no", ""}},
		{"Paint circle: {0.2, 0.5, 1}, 0, 0, 1", "paint circle", []string{"{0.2, 0.5, 1}", "0", "0", "1"}},
	}
	for _, tt := range tests {
		l, ok, err := parseLine(tt.in)
		if err != nil || !ok {
			t.Errorf("parseLine(%q) = ok %v, err %v", tt.in, ok, err)
			continue
		}
		if l.name != tt.name {
			t.Errorf("parseLine(%q) name = %q, want %q", tt.in, l.name, tt.name)
		}
		var got []string
		for _, f := range l.args {
			got = append(got, f.value)
		}
		if diff := cmp.Diff(tt.args, got); diff != "" {
			t.Errorf("parseLine(%q) args mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestParseLineSkips(t *testing.T) {
	for _, in := range []string{"", "   ", "# a comment", "  #Draw line: 0, 0, 1, 1"} {
		if _, ok, err := parseLine(in); ok || err != nil {
			t.Errorf("parseLine(%q) = ok %v, err %v, want skipped", in, ok, err)
		}
	}
}

func TestParseLineUnclosedQuote(t *testing.T) {
	if _, _, err := parseLine(`Text top: no, "open`); err == nil {
		t.Error("expected error for missing closing quote")
	}
}

func TestTextTakesRestOfLine(t *testing.T) {
	r, p, _ := newRunner(t)
	if err := r.Exec("Text top: no, Sine, plotted from 0 to 10"); err != nil {
		t.Fatal(err)
	}
	ops := p.Graphics().Ops()
	if len(ops) != 1 {
		t.Fatalf("got %d ops, want 1", len(ops))
	}
	if got, want := ops[0].Text, "Sine, plotted from 0 to 10"; got != want {
		t.Errorf("text = %q, want %q", got, want)
	}
}

func TestUnknownCommand(t *testing.T) {
	r, _, _ := newRunner(t)
	err := r.Exec("Draw spiral: 1, 2")
	if !errors.Is(err, ErrUnknownCommand) {
		t.Fatalf("err = %v, want ErrUnknownCommand", err)
	}
	if !strings.Contains(err.Error(), `"Draw spiral"`) {
		t.Errorf("error %q does not name the command", err)
	}
}

func TestArgumentErrors(t *testing.T) {
	r, p, _ := newRunner(t)
	tests := []struct {
		in   string
		want string
	}{
		{"Draw line: 0, 0, 1", "argument 4: missing"},
		{"Draw line: 0, 0, 1, 1, 5", "too many arguments"},
		{"Draw line: 0, zero, 1, 1", `argument 2: "zero" is not a number`},
		{"Marks left: 2.5, yes, yes, no", "not a whole number"},
		{"Text left: maybe, hello", "not yes or no"},
		{"Colour: Mauve", "Mauve"},
		{"Erase all: now", "too many arguments"},
		{"Axes: NaN, 1, 0, 1", "finite"},
		{"Select outer viewport: 0, Inf, 0, 4", "finite"},
		{"Line width: NaN", "finite"},
		{"Marks left: 2001, yes, yes, no", "at most 2000"},
	}
	for _, tt := range tests {
		err := r.Exec(tt.in)
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("Exec(%q) = %v, want error containing %q", tt.in, err, tt.want)
		}
	}
	if n := len(p.Graphics().Ops()); n != 0 {
		t.Errorf("failed commands drew %d ops", n)
	}
}

func TestAliases(t *testing.T) {
	r, p, _ := newRunner(t)
	for _, in := range []string{
		"Viewport: 1, 5, 4, 10",
		"Plain line",
		"Color: Blue",
		"Draw double arrow: 0, 0, 1, 1",
		"Picture settings report",
	} {
		if err := r.Exec(in); err != nil {
			t.Errorf("Exec(%q): %v", in, err)
		}
	}
	// the page is 12 inches high, so top 4 and bottom 10 are y 8 and 2
	if got, want := p.State().Outer(), (graphics.Rect{X1: 1, X2: 5, Y1: 2, Y2: 8}); got != want {
		t.Errorf("outer viewport = %+v, want %+v", got, want)
	}
	if got := p.State().Attributes().Colour; got != graphics.Blue {
		t.Errorf("colour = %v, want Blue", got)
	}
}

func TestHistoryReplays(t *testing.T) {
	sink := history.New("")
	p := picture.New(viewport.Primary, graphics.New(graphics.PrimaryDevice(100)), sink)
	if err := p.MouseSelection(graphics.Rect{X1: 1, X2: 5, Y1: 2, Y2: 8}); err != nil {
		t.Fatal(err)
	}
	want := p.State().Outer()

	r, replayed, _ := newRunner(t)
	if err := r.Run(strings.NewReader(strings.Join(sink.Lines(), "\n"))); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, replayed.State().Outer(), cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("replayed viewport mismatch (-want +got):\n%s", diff)
	}
}

func TestRunReportsLine(t *testing.T) {
	r, p, _ := newRunner(t)
	script := strings.Join([]string{
		"# two lines, then a bad one",
		"Axes: 0, 10, -1, 1",
		"Draw line: 0, 0, 10, 0",
		"",
		"Marks bottom: 1, yes, yes, no",
		"Draw line: 0, 1, 10, 1",
	}, "\n")
	err := r.Run(strings.NewReader(script))
	if err == nil || !strings.HasPrefix(err.Error(), "line 5: Marks bottom") {
		t.Fatalf("err = %v, want it to point at line 5", err)
	}
	var ir *viewport.InvalidRangeError
	if !errors.As(err, &ir) {
		t.Errorf("err = %v, want an InvalidRangeError inside", err)
	}
	if n := len(p.Graphics().Ops()); n != 1 {
		t.Errorf("got %d ops, want only the first line", n)
	}
}

func TestConversionOutput(t *testing.T) {
	r, p, out := newRunner(t)
	if err := r.Exec("Axes: 0, 100, 0, 1"); err != nil {
		t.Fatal(err)
	}
	for _, in := range []string{
		"Horizontal mm to world coordinates: 10",
		"Vertical wc to mm: 0.5",
		"Text width (mm): hello, world",
		"PostScript text width (world coordinates): XIPA, hello",
	} {
		if err := r.Exec(in); err != nil {
			t.Fatalf("Exec(%q): %v", in, err)
		}
	}
	want := strings.Join([]string{
		graphics.FormatNumber(p.HorizontalMMToWC(10)) + " (world coordinates)",
		graphics.FormatNumber(p.VerticalWCToMM(0.5)) + " mm",
		graphics.FormatNumber(p.TextWidthMM("hello, world")) + " mm",
		graphics.FormatNumber(p.TextWidthWC("hello")) + " (world coordinates)",
	}, "\n") + "\n"
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestInfoCommand(t *testing.T) {
	r, p, out := newRunner(t)
	if err := r.Exec("Picture info"); err != nil {
		t.Fatal(err)
	}
	if got, want := out.String(), strings.Join(p.Info(), "\n")+"\n"; got != want {
		t.Errorf("info output = %q, want %q", got, want)
	}
}

func TestPenAndFontCommands(t *testing.T) {
	r, p, _ := newRunner(t)
	for _, in := range []string{"Dashed line", "Line width: 2", "Red", "Courier", "14"} {
		if err := r.Exec(in); err != nil {
			t.Fatalf("Exec(%q): %v", in, err)
		}
	}
	a := p.State().Attributes()
	if a.LineType != graphics.Dashed || a.LineWidth != 2 || a.Colour != graphics.Red ||
		a.Font != graphics.Courier || a.FontSize != 14 {
		t.Errorf("attributes = %+v", a)
	}
	if err := r.Exec("Line width: 0"); err == nil {
		t.Error("expected error for line width 0")
	}
}

func TestSaveCommands(t *testing.T) {
	r, _, _ := newRunner(t)
	dir := t.TempDir()
	pdf := filepath.Join(dir, "out.pdf")
	txt := filepath.Join(dir, "out.txt")
	lines := []string{
		"Draw inner box",
		"Save as PDF file: " + pdf,
		"Save as text file: " + txt + ", 40",
	}
	if err := r.Run(strings.NewReader(strings.Join(lines, "\n"))); err != nil {
		t.Fatal(err)
	}
	for _, path := range []string{pdf, txt} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("%s not written: %v", path, err)
		}
	}
}

func TestCommandsListsNamesOnce(t *testing.T) {
	names := Commands()
	seen := map[string]bool{}
	for _, n := range names {
		if seen[n] {
			t.Errorf("%q listed twice", n)
		}
		seen[n] = true
	}
	for _, n := range []string{"Draw line", "Select outer viewport", "Save as PNG file", "Red", "Times"} {
		if !seen[n] {
			t.Errorf("%q missing from Commands()", n)
		}
	}
	if seen["Viewport"] || seen["Plain line"] {
		t.Error("aliases should not be listed")
	}
}
