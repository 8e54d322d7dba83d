// Package tui shows the picture page in a terminal. The page is drawn as a
// character grid; the mouse drags selections on it and a command line runs
// script commands against the same picture.
package tui

import (
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"plotpic/internal/graphics"
	"plotpic/internal/history"
	"plotpic/internal/logging"
	"plotpic/internal/picture"
	"plotpic/internal/script"
)

var tuiLog = logging.New("tui")

type Mode int

const (
	ModeNormal Mode = iota
	ModeCommand
	ModeInfo
)

var (
	selectionStyle = lipgloss.NewStyle().Background(lipgloss.Color("153")).Foreground(lipgloss.Color("0"))
	dragStyle      = lipgloss.NewStyle().Background(lipgloss.Color("222")).Foreground(lipgloss.Color("0"))
	statusStyle    = lipgloss.NewStyle().Background(lipgloss.Color("236")).Foreground(lipgloss.Color("252"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
)

// Model is the bubbletea model of the picture window.
type Model struct {
	pic     *picture.Picture
	runner  *script.Runner
	history *history.Sink

	width  int
	height int
	mode   Mode

	grid  [][]rune
	dirty bool

	dragging  bool
	dragFrom  graphics.Point
	dragTo    graphics.Point
	input     textinput.Model
	info      string
	errorMsg  string
	statusMsg string

	copy func(string) error
}

// New returns a model for p. Command output goes to the status line.
func New(p *picture.Picture, sink *history.Sink) *Model {
	input := textinput.New()
	input.Prompt = ":"
	input.Placeholder = "Draw line: 0, 0, 1, 1"
	input.CharLimit = 512

	m := &Model{
		pic:     p,
		history: sink,
		input:   input,
		dirty:   true,
		copy:    clipboard.WriteAll,
	}
	m.runner = script.NewRunner(p, &statusWriter{m: m})
	p.Graphics().OnUpdate(func() { m.dirty = true })
	return m
}

// statusWriter shows runner output on the status line.
type statusWriter struct{ m *Model }

func (w *statusWriter) Write(b []byte) (int, error) {
	w.m.statusMsg = strings.TrimRight(string(b), "\n")
	return len(b), nil
}

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) gridSize() (cols, rows int) {
	// status line and command line
	return m.width, m.height - 2
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.dirty = true
		return m, nil
	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil
	case tea.KeyMsg:
		switch m.mode {
		case ModeCommand:
			return m.updateCommand(msg)
		case ModeInfo:
			m.mode = ModeNormal
			return m, nil
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) updateCommand(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ModeNormal
		m.input.Blur()
		m.input.SetValue("")
		return m, nil
	case "enter":
		line := m.input.Value()
		m.mode = ModeNormal
		m.input.Blur()
		m.input.SetValue("")
		m.exec(line)
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// exec runs one command line and reports the outcome on the status line.
func (m *Model) exec(line string) {
	m.errorMsg, m.statusMsg = "", ""
	if err := m.runner.Exec(line); err != nil {
		tuiLog.Warn("command failed", "line", line, "err", err)
		m.errorMsg = err.Error()
	}
}

func (m *Model) report(err error) {
	if err != nil {
		m.errorMsg = err.Error()
		m.statusMsg = ""
		return
	}
	m.errorMsg = ""
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	cols, rows := m.gridSize()
	if cols < 1 || rows < 1 {
		return
	}
	col, row := clampInt(msg.X, 0, cols-1), clampInt(msg.Y, 0, rows-1)
	p := cellToNDC(pageView(cols, rows), cols, rows, col, row)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || msg.Y >= rows {
			return
		}
		m.dragging = true
		m.dragFrom, m.dragTo = p, p
	case tea.MouseActionMotion:
		if m.dragging {
			m.dragTo = p
		}
	case tea.MouseActionRelease:
		if !m.dragging {
			return
		}
		m.dragging = false
		m.dragTo = p
		sel := dragRect(m.dragFrom, m.dragTo)
		if sel.Width() == 0 || sel.Height() == 0 {
			// a click without a drag selects nothing
			return
		}
		err := m.pic.MouseSelection(sel)
		m.report(err)
		if err == nil {
			m.statusMsg = m.lastHistoryLine()
		}
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "ctrl+c", "q":
		return m, tea.Quit
	case ":":
		m.mode = ModeCommand
		m.errorMsg = ""
		return m, m.input.Focus()
	case "i":
		m.report(m.pic.MouseSelectsInnerViewport())
		if m.errorMsg == "" {
			m.statusMsg = "Mouse selects inner viewport"
		}
	case "o":
		m.report(m.pic.MouseSelectsOuterViewport())
		if m.errorMsg == "" {
			m.statusMsg = "Mouse selects outer viewport"
		}
	case "u":
		m.pic.Undo()
		m.statusMsg = "Undo"
	case "E":
		m.pic.EraseAll()
		m.statusMsg = "Erase all"
	case "y":
		m.copyLastHistoryLine()
	case "?":
		m.info = renderInfo(m.pic.Info(), m.width)
		m.mode = ModeInfo
	case "h", "left", "H", "shift+left",
		"l", "right", "L", "shift+right",
		"k", "up", "K", "shift+up",
		"j", "down", "J", "shift+down":
		m.moveSelection(key, getMoveSpeed(key))
	}
	return m, nil
}

func (m *Model) lastHistoryLine() string {
	if m.history == nil {
		return ""
	}
	line, _ := m.history.Last()
	return line
}

func (m *Model) copyLastHistoryLine() {
	var line string
	ok := false
	if m.history != nil {
		line, ok = m.history.Last()
	}
	if !ok {
		m.errorMsg = "nothing in the history yet"
		return
	}
	if err := m.copy(line); err != nil {
		tuiLog.Error("clipboard", "err", err)
		m.errorMsg = "could not copy: " + err.Error()
		return
	}
	m.errorMsg = ""
	m.statusMsg = "Copied: " + line
}

// moveSelection shifts the outer viewport as if it had been dragged there,
// so the move also lands in the history.
func (m *Model) moveSelection(key string, speed int) {
	step := moveStep * float64(speed)
	dx, dy := 0.0, 0.0
	switch key {
	case "h", "left", "H", "shift+left":
		dx = -step
	case "l", "right", "L", "shift+right":
		dx = step
	case "k", "up", "K", "shift+up":
		dy = step
	case "j", "down", "J", "shift+down":
		dy = -step
	}
	o := m.pic.State().Outer()
	sel := graphics.Rect{X1: o.X1 + dx, X2: o.X2 + dx, Y1: o.Y1 + dy, Y2: o.Y2 + dy}
	if sel.X1 < 0 || sel.Y1 < 0 || sel.X2 > graphics.PageSize || sel.Y2 > graphics.PageSize {
		m.errorMsg = "the selection cannot leave the page"
		return
	}
	err := m.pic.MouseSelection(sel)
	m.report(err)
	if err == nil {
		m.statusMsg = m.lastHistoryLine()
	}
}

func getMoveSpeed(key string) int {
	switch key {
	case "H", "L", "K", "J", "shift+left", "shift+right", "shift+up", "shift+down":
		return 4
	default:
		return 1
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
