package script

import (
	"fmt"
	"strconv"
	"strings"

	"plotpic/internal/graphics"
)

// line is one parsed command line.
type line struct {
	name string // normalized
	raw  string // everything after the colon
	args []field
}

type field struct {
	value  string
	offset int // start of the field in raw
	quoted bool
}

// normalize lower-cases a command name, drops a trailing "..." and collapses
// runs of spaces, so "Draw line..." and "draw  line" name the same command.
func normalize(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimSuffix(name, "...")
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// parseLine splits "Command name: arg, arg" into its parts. It returns
// ok == false for blank lines and # comments.
func parseLine(text string) (l line, ok bool, err error) {
	text = strings.TrimSpace(text)
	if text == "" || strings.HasPrefix(text, "#") {
		return line{}, false, nil
	}
	name, raw, _ := strings.Cut(text, ":")
	l.name = normalize(name)
	l.raw = raw
	l.args, err = splitArgs(raw)
	return l, true, err
}

// splitArgs splits comma separated arguments. A field in double quotes may
// hold commas; "" inside quotes stands for one quote.
func splitArgs(raw string) ([]field, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var fields []field
	i := 0
	for {
		for i < len(raw) && (raw[i] == ' ' || raw[i] == '\t') {
			i++
		}
		start := i
		if i < len(raw) && raw[i] == '"' {
			var b strings.Builder
			i++
			closed := false
			for i < len(raw) {
				if raw[i] == '"' {
					if i+1 < len(raw) && raw[i+1] == '"' {
						b.WriteByte('"')
						i += 2
						continue
					}
					i++
					closed = true
					break
				}
				b.WriteByte(raw[i])
				i++
			}
			if !closed {
				return nil, fmt.Errorf("missing closing quote in %q", strings.TrimSpace(raw))
			}
			for i < len(raw) && (raw[i] == ' ' || raw[i] == '\t') {
				i++
			}
			if i < len(raw) && raw[i] != ',' {
				return nil, fmt.Errorf("unexpected text after closing quote in %q", strings.TrimSpace(raw))
			}
			fields = append(fields, field{value: b.String(), offset: start, quoted: true})
		} else {
			end := fieldEnd(raw[i:])
			fields = append(fields, field{value: strings.TrimSpace(raw[i : i+end]), offset: start})
			i += end
		}
		if i >= len(raw) {
			return fields, nil
		}
		i++ // comma
	}
}

// fieldEnd returns the length of the unquoted field at the start of s. Commas
// inside braces, as in the colour {0.2, 0.5, 1}, do not end the field.
func fieldEnd(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				return i
			}
		}
	}
	return len(s)
}

// args hands out the arguments of a line one by one, converting each to the
// type the command needs. The first failure sticks; done reports it.
type args struct {
	l   line
	i   int
	err error
}

func (a *args) fail(format string, v ...any) {
	if a.err == nil {
		a.err = fmt.Errorf("argument %d: %s", a.i, fmt.Sprintf(format, v...))
	}
}

func (a *args) next() (field, bool) {
	if a.err != nil {
		return field{}, false
	}
	if a.i >= len(a.l.args) {
		a.i++
		a.fail("missing")
		return field{}, false
	}
	f := a.l.args[a.i]
	a.i++
	return f, true
}

func (a *args) real() float64 {
	f, ok := a.next()
	if !ok {
		return 0
	}
	v, err := strconv.ParseFloat(f.value, 64)
	if err != nil {
		a.fail("%q is not a number", f.value)
	}
	return v
}

func (a *args) integer() int {
	f, ok := a.next()
	if !ok {
		return 0
	}
	v, err := strconv.Atoi(f.value)
	if err != nil {
		a.fail("%q is not a whole number", f.value)
	}
	return v
}

func (a *args) boolean() bool {
	f, ok := a.next()
	if !ok {
		return false
	}
	switch strings.ToLower(f.value) {
	case "yes", "true", "on", "1":
		return true
	case "no", "false", "off", "0":
		return false
	}
	a.fail("%q is not yes or no", f.value)
	return false
}

// word returns one unquoted field as is, for file names and choices.
func (a *args) word() string {
	f, ok := a.next()
	if !ok {
		return ""
	}
	return f.value
}

// text returns the rest of the line. Commas in it need no quotes unless the
// text is quoted as a whole.
func (a *args) text() string {
	if a.err != nil {
		return ""
	}
	if a.i >= len(a.l.args) {
		// an empty text may be left out
		a.i++
		return ""
	}
	f := a.l.args[a.i]
	if a.i == len(a.l.args)-1 || f.quoted {
		a.i++
		return f.value
	}
	a.i = len(a.l.args)
	return strings.TrimSpace(a.l.raw[f.offset:])
}

func (a *args) colour() graphics.Colour {
	f, ok := a.next()
	if !ok {
		return graphics.Black
	}
	c, err := graphics.ParseColour(f.value)
	if err != nil {
		a.fail("%v", err)
	}
	return c
}

func (a *args) hAlign() graphics.HAlign {
	f, ok := a.next()
	if !ok {
		return graphics.AlignLeft
	}
	h, err := graphics.ParseHAlign(f.value)
	if err != nil {
		a.fail("%v", err)
	}
	return h
}

func (a *args) vAlign() graphics.VAlign {
	f, ok := a.next()
	if !ok {
		return graphics.AlignBottom
	}
	v, err := graphics.ParseVAlign(f.value)
	if err != nil {
		a.fail("%v", err)
	}
	return v
}

func (a *args) font() graphics.Font {
	f, ok := a.next()
	if !ok {
		return graphics.Helvetica
	}
	font, err := graphics.ParseFont(f.value)
	if err != nil {
		a.fail("%v", err)
	}
	return font
}

func (a *args) markStyle() graphics.MarkStyle {
	return graphics.MarkStyle{Numbers: a.boolean(), Ticks: a.boolean(), Dotted: a.boolean()}
}

// done reports the first conversion error, or an error for arguments nobody
// asked for.
func (a *args) done() error {
	if a.err != nil {
		return a.err
	}
	if a.i < len(a.l.args) {
		return fmt.Errorf("too many arguments: expected %d, got %d", a.i, len(a.l.args))
	}
	return nil
}
