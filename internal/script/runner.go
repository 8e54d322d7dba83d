// Package script runs picture commands written as text.
//
// A command line is the command name, a colon and comma separated
// arguments, the same form that mouse selections write to the history:
//
//	Select outer viewport: 0, 6, 0, 4
//	Axes: 0, 10, -1, 1
//	Draw function: 0, 10, 500, sin(x)
//	Text top: no, Sine, plotted
//
// The last text argument of a command takes the rest of the line, commas
// included. Blank lines and lines starting with # are skipped.
package script

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"plotpic/internal/logging"
	"plotpic/internal/picture"
)

var scriptLog = logging.New("script")

var ErrUnknownCommand = errors.New("unknown command")

// Runner executes command lines against one picture.
type Runner struct {
	pic *picture.Picture
	out io.Writer
}

// NewRunner returns a runner for p. Command output, such as a picture info
// report or a measurement, goes to out.
func NewRunner(p *picture.Picture, out io.Writer) *Runner {
	if out == nil {
		out = io.Discard
	}
	return &Runner{pic: p, out: out}
}

// Exec runs a single command line.
func (r *Runner) Exec(text string) error {
	res, err := r.Eval(text)
	if err != nil {
		return err
	}
	if res != "" {
		fmt.Fprintln(r.out, res)
	}
	return nil
}

// Eval runs a single command line and returns its output instead of writing it.
func (r *Runner) Eval(text string) (string, error) {
	l, ok, err := parseLine(text)
	if !ok {
		return "", nil
	}
	c, found := commands[l.name]
	if !found {
		return "", fmt.Errorf("%w: %q", ErrUnknownCommand, strings.TrimSpace(strings.SplitN(text, ":", 2)[0]))
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", c.name, err)
	}
	scriptLog.Debug("exec", "command", c.name, "args", len(l.args))
	res, err := c.run(r.pic, &args{l: l})
	if err != nil {
		return "", fmt.Errorf("%s: %w", c.name, err)
	}
	return res, nil
}

// Run executes every line read from in and stops at the first failing one.
func (r *Runner) Run(in io.Reader) error {
	sc := bufio.NewScanner(in)
	n := 0
	for sc.Scan() {
		n++
		if err := r.Exec(sc.Text()); err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading script: %w", err)
	}
	scriptLog.Debug("script done", "lines", n)
	return nil
}
