// Package history records the command lines that reproduce what the user did
// with the mouse. The lines use the script syntax, so a history file can be
// run again as a script.
package history

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"plotpic/internal/logging"
)

var historyLog = logging.New("history")

// Sink keeps history lines in memory and, when a path is set, appends each
// line to that file as it arrives.
type Sink struct {
	mu    sync.Mutex
	lines []string
	path  string
}

// New returns a sink. An empty path keeps the history in memory only.
func New(path string) *Sink {
	return &Sink{path: path}
}

func (s *Sink) Path() string { return s.path }

// Write records line. File errors are logged and otherwise ignored, so that a
// read-only history file never stops the user from drawing.
func (s *Sink) Write(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = append(s.lines, line)
	if s.path == "" {
		return
	}
	if err := appendLine(s.path, line); err != nil {
		historyLog.Error("append history line", "path", s.path, "error", err)
	}
}

func appendLine(path, line string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(file, line); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// Lines returns a copy of everything written so far.
func (s *Sink) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lines...)
}

// Last returns the most recent line.
func (s *Sink) Last() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.lines) == 0 {
		return "", false
	}
	return s.lines[len(s.lines)-1], true
}

// Clear forgets the in-memory lines. The history file is left alone.
func (s *Sink) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
}
