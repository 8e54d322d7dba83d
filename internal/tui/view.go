package tui

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"plotpic/internal/graphics"
)

func (m *Model) View() string {
	if m.mode == ModeInfo {
		return m.info + "\n" + statusStyle.Render(padRight(" press any key to return", m.width))
	}
	cols, rows := m.gridSize()
	if cols < 1 || rows < 1 {
		return ""
	}
	view := pageView(cols, rows)
	if m.dirty || len(m.grid) != rows || (rows > 0 && len(m.grid[0]) != cols) {
		m.grid = m.pic.Graphics().RenderCells(view, cols, rows)
		outline(m.grid, view, m.pic.State().InnerNDC())
		m.dirty = false
	}

	outer := m.pic.State().Outer()
	var drag graphics.Rect
	if m.dragging {
		drag = dragRect(m.dragFrom, m.dragTo)
	}

	var b strings.Builder
	for row, line := range m.grid {
		b.WriteString(m.renderRow(line, view, cols, rows, row, outer, drag))
		b.WriteByte('\n')
	}
	b.WriteString(m.statusLine())
	b.WriteByte('\n')
	b.WriteString(m.bottomLine())
	return b.String()
}

// renderRow styles runs of cells: the drag rectangle while dragging, the
// current selection otherwise.
func (m *Model) renderRow(line []rune, view graphics.Rect, cols, rows, row int, outer, drag graphics.Rect) string {
	var b strings.Builder
	var run []rune
	current := 0
	flush := func() {
		if len(run) == 0 {
			return
		}
		switch current {
		case 1:
			b.WriteString(selectionStyle.Render(string(run)))
		case 2:
			b.WriteString(dragStyle.Render(string(run)))
		default:
			b.WriteString(string(run))
		}
		run = run[:0]
	}
	for col, c := range line {
		kind := 0
		if m.dragging {
			if cellIn(view, cols, rows, col, row, drag) {
				kind = 2
			}
		} else if cellIn(view, cols, rows, col, row, outer) {
			kind = 1
		}
		if kind != current {
			flush()
			current = kind
		}
		run = append(run, c)
	}
	flush()
	return b.String()
}

func (m *Model) statusLine() string {
	s := m.pic.State()
	a := s.Attributes()
	target := "outer"
	if s.MouseSelectsInner() {
		target = "inner"
	}
	o := s.QueryOuterViewport()
	status := fmt.Sprintf(" outer %s..%s x %s..%s in | mouse: %s | %s %d | %s ",
		graphics.FormatNumber(o.Left), graphics.FormatNumber(o.Right),
		graphics.FormatNumber(o.Top), graphics.FormatNumber(o.Bottom),
		target, a.Font, a.FontSize, a.Colour.Name())
	if m.dragging {
		r := dragRect(m.dragFrom, m.dragTo)
		status += fmt.Sprintf("| dragging %s, %s to %s, %s ",
			graphics.FormatNumber(r.X1), graphics.FormatNumber(r.Y1),
			graphics.FormatNumber(r.X2), graphics.FormatNumber(r.Y2))
	}
	return statusStyle.Render(padRight(status, m.width))
}

func (m *Model) bottomLine() string {
	switch {
	case m.mode == ModeCommand:
		return m.input.View()
	case m.errorMsg != "":
		return errorStyle.Render(m.errorMsg)
	case m.statusMsg != "":
		return successStyle.Render(m.statusMsg)
	}
	return " : command  i/o mouse selects inner/outer  hjkl move  u undo  E erase  y copy  ? info  q quit"
}

func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

var (
	rendererMu    sync.Mutex
	rendererWidth int
	renderer      *glamour.TermRenderer
)

// getRenderer returns a glamour renderer wrapping at width, reusing the last
// one while the width stays the same.
func getRenderer(width int) (*glamour.TermRenderer, error) {
	if width <= 0 {
		width = 80
	}
	rendererMu.Lock()
	defer rendererMu.Unlock()
	if renderer != nil && rendererWidth == width {
		return renderer, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	renderer, rendererWidth = r, width
	return r, nil
}

// infoMarkdown turns the settings report into a markdown list under a heading.
func infoMarkdown(lines []string) string {
	var b strings.Builder
	b.WriteString("# Picture info\n\n")
	for _, line := range lines {
		name, value, ok := strings.Cut(line, ": ")
		if !ok {
			fmt.Fprintf(&b, "- %s\n", line)
			continue
		}
		fmt.Fprintf(&b, "- **%s:** %s\n", name, value)
	}
	return b.String()
}

// renderInfo renders the settings report for the terminal. When glamour
// fails the plain report is shown.
func renderInfo(lines []string, width int) string {
	plain := strings.Join(lines, "\n")
	r, err := getRenderer(width)
	if err != nil {
		tuiLog.Warn("info renderer", "err", err)
		return plain
	}
	out, err := r.Render(infoMarkdown(lines))
	if err != nil {
		tuiLog.Warn("info render", "err", err)
		return plain
	}
	return out
}
