package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"plotpic/internal/graphics"
	"plotpic/internal/history"
	"plotpic/internal/picture"
	"plotpic/internal/viewport"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

// newModel returns a model on a 90 by 32 terminal: 90 by 30 cells of page,
// a tenth of an inch wide and a fifth of an inch high.
func newModel(t *testing.T) (*Model, *picture.Picture, *history.Sink) {
	t.Helper()
	sink := history.New("")
	p := picture.New(viewport.Primary, graphics.New(graphics.PrimaryDevice(100)), sink)
	m := New(p, sink)
	m.copy = func(string) error { return nil }
	m.Update(tea.WindowSizeMsg{Width: 90, Height: 32})
	return m, p, sink
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestPageView(t *testing.T) {
	got := pageView(90, 30)
	want := graphics.Rect{X1: 0, X2: 9, Y1: 6, Y2: 12}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("pageView mismatch (-want +got):\n%s", diff)
	}
	if got := pageView(10, 100); got.Y1 != 0 {
		t.Errorf("tall view = %+v, want it cut at the bottom of the page", got)
	}
	if got := pageView(0, 10); got != (graphics.Rect{}) {
		t.Errorf("empty grid view = %+v", got)
	}
}

func TestCellToNDC(t *testing.T) {
	view := pageView(90, 30)
	tests := []struct {
		col, row int
		want     graphics.Point
	}{
		{0, 0, graphics.Point{X: 0.05, Y: 11.9}},
		{10, 5, graphics.Point{X: 1.05, Y: 10.9}},
		{89, 29, graphics.Point{X: 8.95, Y: 6.1}},
	}
	for _, tt := range tests {
		got := cellToNDC(view, 90, 30, tt.col, tt.row)
		if diff := cmp.Diff(tt.want, got, approx); diff != "" {
			t.Errorf("cellToNDC(%d, %d) mismatch (-want +got):\n%s", tt.col, tt.row, diff)
		}
	}
}

func TestDragSelectsOuterViewport(t *testing.T) {
	m, p, sink := newModel(t)

	m.Update(tea.MouseMsg{X: 10, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m.Update(tea.MouseMsg{X: 30, Y: 15, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	if !m.dragging {
		t.Fatal("not dragging after press")
	}
	m.Update(tea.MouseMsg{X: 50, Y: 25, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})

	want := graphics.Rect{X1: 1.05, X2: 5.05, Y1: 6.9, Y2: 10.9}
	if diff := cmp.Diff(want, p.State().Outer(), approx); diff != "" {
		t.Errorf("outer viewport mismatch (-want +got):\n%s", diff)
	}
	last, ok := sink.Last()
	if want := "Select outer viewport: 1.05, 5.05, 1.1, 5.1"; !ok || last != want {
		t.Errorf("history = %q, want %q", last, want)
	}
	if m.statusMsg != last {
		t.Errorf("status = %q, want the history line", m.statusMsg)
	}
}

func TestClickSelectsNothing(t *testing.T) {
	m, p, sink := newModel(t)
	before := p.State().Outer()
	m.Update(tea.MouseMsg{X: 10, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m.Update(tea.MouseMsg{X: 10, Y: 5, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	if p.State().Outer() != before || len(sink.Lines()) != 0 {
		t.Errorf("a click changed the selection to %+v", p.State().Outer())
	}
	if m.errorMsg != "" {
		t.Errorf("error = %q", m.errorMsg)
	}
}

func TestMoveKeys(t *testing.T) {
	m, p, sink := newModel(t)

	m.Update(runes("l"))
	want := graphics.Rect{X1: 0.5, X2: 6.5, Y1: 8, Y2: 12}
	if diff := cmp.Diff(want, p.State().Outer(), approx); diff != "" {
		t.Errorf("after l (-want +got):\n%s", diff)
	}
	if got, ok := sink.Last(); !ok || got != "Select outer viewport: 0.5, 6.5, 0, 4" {
		t.Errorf("history = %q, want the move echoed", got)
	}

	m.Update(runes("k"))
	if m.errorMsg == "" {
		t.Error("moving above the page should fail")
	}
	if diff := cmp.Diff(want, p.State().Outer(), approx); diff != "" {
		t.Errorf("failed move changed the selection (-want +got):\n%s", diff)
	}

	m.Update(runes("J"))
	want = graphics.Rect{X1: 0.5, X2: 6.5, Y1: 6, Y2: 10}
	if diff := cmp.Diff(want, p.State().Outer(), approx); diff != "" {
		t.Errorf("after J (-want +got):\n%s", diff)
	}
}

func TestCommandLine(t *testing.T) {
	m, p, _ := newModel(t)
	m.View()
	if m.dirty {
		t.Fatal("grid still dirty after View")
	}

	m.Update(runes(":"))
	if m.mode != ModeCommand {
		t.Fatalf("mode = %v, want command", m.mode)
	}
	m.input.SetValue("Draw line: 0, 0, 1, 1")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != ModeNormal {
		t.Errorf("mode = %v after enter", m.mode)
	}
	if n := len(p.Graphics().Ops()); n != 1 {
		t.Errorf("got %d ops, want 1", n)
	}
	if !m.dirty {
		t.Error("drawing should mark the grid for redraw")
	}

	m.Update(runes(":"))
	m.input.SetValue("Horizontal mm to wc: 10")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !strings.HasSuffix(m.statusMsg, "(world coordinates)") {
		t.Errorf("status = %q, want the conversion result", m.statusMsg)
	}

	m.Update(runes(":"))
	m.input.SetValue("Draw spiral")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !strings.Contains(m.errorMsg, "unknown command") {
		t.Errorf("error = %q, want unknown command", m.errorMsg)
	}
}

func TestEditKeys(t *testing.T) {
	m, p, _ := newModel(t)
	p.DrawLine(0, 0, 1, 1)
	p.DrawLine(0, 1, 1, 0)

	m.Update(runes("u"))
	if n := len(p.Graphics().Ops()); n != 1 {
		t.Errorf("after undo: %d ops, want 1", n)
	}
	m.Update(runes("E"))
	if !p.Graphics().Empty() {
		t.Error("after erase all the picture is not empty")
	}

	m.Update(runes("i"))
	if !p.State().MouseSelectsInner() {
		t.Error("i did not switch to inner")
	}
	m.Update(runes("o"))
	if p.State().MouseSelectsInner() {
		t.Error("o did not switch to outer")
	}
}

func TestCopyLastHistoryLine(t *testing.T) {
	m, _, _ := newModel(t)
	var copied string
	m.copy = func(s string) error { copied = s; return nil }

	m.Update(runes("y"))
	if m.errorMsg == "" {
		t.Error("copy with an empty history should report it")
	}

	m.Update(runes("l"))
	m.Update(runes("y"))
	if copied != "Select outer viewport: 0.5, 6.5, 0, 4" {
		t.Errorf("copied %q", copied)
	}

	m.copy = func(string) error { return errors.New("no clipboard") }
	m.Update(runes("y"))
	if !strings.Contains(m.errorMsg, "no clipboard") {
		t.Errorf("error = %q", m.errorMsg)
	}
}

func TestInfoMode(t *testing.T) {
	m, p, _ := newModel(t)
	m.Update(runes("?"))
	if m.mode != ModeInfo {
		t.Fatalf("mode = %v, want info", m.mode)
	}
	if view := m.View(); !strings.Contains(view, "Outer") || !strings.Contains(view, "inches") {
		t.Error("info view does not show the report")
	}
	m.Update(runes("x"))
	if m.mode != ModeNormal {
		t.Errorf("mode = %v after a key", m.mode)
	}

	md := infoMarkdown(p.Info()[:1])
	if want := "# Picture info\n\n- **Outer viewport left:** 0 inches\n"; md != want {
		t.Errorf("infoMarkdown = %q, want %q", md, want)
	}
}

func TestViewShowsPicture(t *testing.T) {
	m, p, _ := newModel(t)
	p.DrawInnerBox()
	out := m.View()
	if lines := strings.Split(out, "\n"); len(lines) != 32 {
		t.Errorf("view has %d lines, want 32", len(lines))
	}
	if !strings.ContainsAny(out, "█▀▄") {
		t.Error("the inner box is not drawn")
	}
	if !strings.Contains(out, "mouse: outer") {
		t.Error("status line missing")
	}
}

func TestOutline(t *testing.T) {
	grid := make([][]rune, 6)
	for i := range grid {
		grid[i] = []rune("          ")
	}
	view := graphics.Rect{X1: 0, X2: 10, Y1: 0, Y2: 6}
	outline(grid, view, graphics.Rect{X1: 2, X2: 5.5, Y1: 1.5, Y2: 4.5})
	got := make([]string, len(grid))
	for i, row := range grid {
		got[i] = string(row)
	}
	want := []string{
		"          ",
		"  ····    ",
		"  ·  ·    ",
		"  ·  ·    ",
		"  ····    ",
		"          ",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("outline mismatch (-want +got):\n%s", diff)
	}
}
