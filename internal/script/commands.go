package script

import (
	"sort"
	"strconv"
	"strings"

	"plotpic/internal/graphics"
	"plotpic/internal/picture"
)

// handler runs one command. A non-empty result is written to the runner's
// output.
type handler func(p *picture.Picture, a *args) (string, error)

type command struct {
	name string // as shown to the user
	run  handler
}

var commands = map[string]command{}

// register adds a command under name and any aliases. Aliases are older
// names that scripts may still use; only name is offered for completion.
func register(name string, run handler, aliases ...string) {
	c := command{name: name, run: run}
	commands[normalize(name)] = c
	for _, alias := range aliases {
		commands[normalize(alias)] = c
	}
}

// Commands returns the names of all commands in alphabetical order, without
// aliases.
func Commands() []string {
	seen := map[string]bool{}
	var names []string
	for _, c := range commands {
		if !seen[c.name] {
			seen[c.name] = true
			names = append(names, c.name)
		}
	}
	sort.Strings(names)
	return names
}

func none(fn func(p *picture.Picture)) handler {
	return func(p *picture.Picture, a *args) (string, error) {
		if err := a.done(); err != nil {
			return "", err
		}
		fn(p)
		return "", nil
	}
}

func noneErr(fn func(p *picture.Picture) error) handler {
	return func(p *picture.Picture, a *args) (string, error) {
		if err := a.done(); err != nil {
			return "", err
		}
		return "", fn(p)
	}
}

func oneFile(fn func(p *picture.Picture, path string) error) handler {
	return func(p *picture.Picture, a *args) (string, error) {
		path := a.word()
		if err := a.done(); err != nil {
			return "", err
		}
		return "", fn(p, path)
	}
}

func setColour(c graphics.Colour) handler {
	return none(func(p *picture.Picture) { p.SetColour(c) })
}

func setLineType(t graphics.LineType) handler {
	return none(func(p *picture.Picture) { p.SetLineType(t) })
}

func setFont(f graphics.Font) handler {
	return none(func(p *picture.Picture) { p.SetFont(f) })
}

func setFontSize(size int) handler {
	return noneErr(func(p *picture.Picture) error { return p.SetFontSize(size) })
}

func distance(convert func(p *picture.Picture, v float64) float64, units string) handler {
	return func(p *picture.Picture, a *args) (string, error) {
		v := a.real()
		if err := a.done(); err != nil {
			return "", err
		}
		return graphics.FormatNumber(convert(p, v)) + " " + units, nil
	}
}

func textWidth(measure func(p *picture.Picture, text string) float64, units string, phonetic bool) handler {
	return func(p *picture.Picture, a *args) (string, error) {
		if phonetic {
			// the phonetic font choice does not change the metrics used here
			a.word()
		}
		text := a.text()
		if err := a.done(); err != nil {
			return "", err
		}
		return graphics.FormatNumber(measure(p, text)) + " " + units, nil
	}
}

var sides = []struct {
	name string
	side graphics.Side
}{
	{"left", graphics.Left},
	{"right", graphics.Right},
	{"bottom", graphics.Bottom},
	{"top", graphics.Top},
}

func init() {
	registerFile()
	registerMargins()
	registerWorld()
	registerSelect()
	registerPen()
	registerFont()
}

func registerFile() {
	register("Picture info", func(p *picture.Picture, a *args) (string, error) {
		if err := a.done(); err != nil {
			return "", err
		}
		return strings.Join(p.Info(), "\n"), nil
	}, "Picture settings report")

	register("Save as EPS file", oneFile((*picture.Picture).SaveEPS), "Write to EPS file")
	register("Save as fontless EPS file", oneFile((*picture.Picture).SaveFontlessEPS),
		"Save as fontless EPS file (XIPA)", "Save as fontless EPS file (SILIPA)",
		"Write to fontless EPS file (XIPA)", "Write to fontless EPS file (SILIPA)")
	register("Save as PDF file", oneFile((*picture.Picture).SavePDF), "Write to PDF file")
	register("Save as 300-dpi PNG file", oneFile((*picture.Picture).SavePNG300))
	register("Save as 600-dpi PNG file", oneFile((*picture.Picture).SavePNG600))
	register("Save as PNG file", func(p *picture.Picture, a *args) (string, error) {
		path, dpi := a.word(), a.real()
		if err := a.done(); err != nil {
			return "", err
		}
		return "", p.SavePNG(path, dpi)
	})
	register("Save as picture file", oneFile((*picture.Picture).SaveRecording), "Write to picture file")
	register("Read from picture file", oneFile((*picture.Picture).ReadRecording))
	register("Save as text file", func(p *picture.Picture, a *args) (string, error) {
		path, cols := a.word(), a.integer()
		if err := a.done(); err != nil {
			return "", err
		}
		return "", p.SaveText(path, cols)
	})

	register("Undo", none((*picture.Picture).Undo))
	register("Erase all", none((*picture.Picture).EraseAll))
}

func registerMargins() {
	register("Draw inner box", none((*picture.Picture).DrawInnerBox))

	for _, s := range sides {
		side := s.side

		register("Text "+s.name, func(p *picture.Picture, a *args) (string, error) {
			far, text := a.boolean(), a.text()
			if err := a.done(); err != nil {
				return "", err
			}
			p.MarginText(side, far, text)
			return "", nil
		})
		register("Marks "+s.name+" every", func(p *picture.Picture, a *args) (string, error) {
			units, dist, st := a.real(), a.real(), a.markStyle()
			if err := a.done(); err != nil {
				return "", err
			}
			return "", p.MarksEvery(side, units, dist, st)
		})
		register("Marks "+s.name, func(p *picture.Picture, a *args) (string, error) {
			n, st := a.integer(), a.markStyle()
			if err := a.done(); err != nil {
				return "", err
			}
			return "", p.Marks(side, n, st)
		})
		register("Logarithmic marks "+s.name, func(p *picture.Picture, a *args) (string, error) {
			n, st := a.integer(), a.markStyle()
			if err := a.done(); err != nil {
				return "", err
			}
			return "", p.MarksLogarithmic(side, n, st)
		})
		register("One mark "+s.name, func(p *picture.Picture, a *args) (string, error) {
			pos, st, text := a.real(), a.markStyle(), a.text()
			if err := a.done(); err != nil {
				return "", err
			}
			return "", p.OneMark(side, pos, st, text)
		})
		register("One logarithmic mark "+s.name, func(p *picture.Picture, a *args) (string, error) {
			value, st, text := a.real(), a.markStyle(), a.text()
			if err := a.done(); err != nil {
				return "", err
			}
			return "", p.OneLogarithmicMark(side, value, st, text)
		})
	}
}

// rect reads the four numbers of a world rectangle: from x, to x, from y, to y.
func rect(a *args) (x1, x2, y1, y2 float64) {
	return a.real(), a.real(), a.real(), a.real()
}

func registerWorld() {
	register("Text", func(p *picture.Picture, a *args) (string, error) {
		x, h, y, v, text := a.real(), a.hAlign(), a.real(), a.vAlign(), a.text()
		if err := a.done(); err != nil {
			return "", err
		}
		p.Text(x, h, y, v, text)
		return "", nil
	})
	register("Text special", func(p *picture.Picture, a *args) (string, error) {
		x, h, y, v := a.real(), a.hAlign(), a.real(), a.vAlign()
		font, size, rotation, text := a.font(), a.integer(), a.word(), a.text()
		if err := a.done(); err != nil {
			return "", err
		}
		return "", p.TextSpecial(x, h, y, v, font, size, rotation, text)
	})

	segment := func(draw func(p *picture.Picture, x1, y1, x2, y2 float64)) handler {
		return func(p *picture.Picture, a *args) (string, error) {
			x1, y1, x2, y2 := a.real(), a.real(), a.real(), a.real()
			if err := a.done(); err != nil {
				return "", err
			}
			draw(p, x1, y1, x2, y2)
			return "", nil
		}
	}
	register("Draw line", segment((*picture.Picture).DrawLine))
	register("Draw arrow", segment((*picture.Picture).DrawArrow))
	register("Draw two-way arrow", segment((*picture.Picture).DrawDoubleArrow), "Draw double arrow")

	register("Draw function", func(p *picture.Picture, a *args) (string, error) {
		from, to, n, formula := a.real(), a.real(), a.integer(), a.text()
		if err := a.done(); err != nil {
			return "", err
		}
		return "", p.DrawFunction(from, to, n, formula)
	})

	register("Draw rectangle", func(p *picture.Picture, a *args) (string, error) {
		x1, x2, y1, y2 := rect(a)
		if err := a.done(); err != nil {
			return "", err
		}
		p.DrawRectangle(x1, x2, y1, y2)
		return "", nil
	})
	register("Paint rectangle", func(p *picture.Picture, a *args) (string, error) {
		c := a.colour()
		x1, x2, y1, y2 := rect(a)
		if err := a.done(); err != nil {
			return "", err
		}
		p.PaintRectangle(c, x1, x2, y1, y2)
		return "", nil
	})
	register("Draw rounded rectangle", func(p *picture.Picture, a *args) (string, error) {
		x1, x2, y1, y2 := rect(a)
		radius := a.real()
		if err := a.done(); err != nil {
			return "", err
		}
		return "", p.DrawRoundedRectangle(x1, x2, y1, y2, radius)
	})
	register("Paint rounded rectangle", func(p *picture.Picture, a *args) (string, error) {
		c := a.colour()
		x1, x2, y1, y2 := rect(a)
		radius := a.real()
		if err := a.done(); err != nil {
			return "", err
		}
		return "", p.PaintRoundedRectangle(c, x1, x2, y1, y2, radius)
	})
	register("Draw arc", func(p *picture.Picture, a *args) (string, error) {
		x, y, r, from, to := a.real(), a.real(), a.real(), a.real(), a.real()
		if err := a.done(); err != nil {
			return "", err
		}
		return "", p.DrawArc(x, y, r, from, to)
	})
	register("Draw ellipse", func(p *picture.Picture, a *args) (string, error) {
		x1, x2, y1, y2 := rect(a)
		if err := a.done(); err != nil {
			return "", err
		}
		p.DrawEllipse(x1, x2, y1, y2)
		return "", nil
	})
	register("Paint ellipse", func(p *picture.Picture, a *args) (string, error) {
		c := a.colour()
		x1, x2, y1, y2 := rect(a)
		if err := a.done(); err != nil {
			return "", err
		}
		p.PaintEllipse(c, x1, x2, y1, y2)
		return "", nil
	})

	circle := func(draw func(p *picture.Picture, x, y, size float64) error) handler {
		return func(p *picture.Picture, a *args) (string, error) {
			x, y, size := a.real(), a.real(), a.real()
			if err := a.done(); err != nil {
				return "", err
			}
			return "", draw(p, x, y, size)
		}
	}
	paintCircle := func(paint func(p *picture.Picture, c graphics.Colour, x, y, size float64) error) handler {
		return func(p *picture.Picture, a *args) (string, error) {
			c := a.colour()
			x, y, size := a.real(), a.real(), a.real()
			if err := a.done(); err != nil {
				return "", err
			}
			return "", paint(p, c, x, y, size)
		}
	}
	register("Draw circle", circle((*picture.Picture).DrawCircle))
	register("Paint circle", paintCircle((*picture.Picture).PaintCircle))
	register("Draw circle (mm)", circle((*picture.Picture).DrawCircleMM))
	register("Paint circle (mm)", paintCircle((*picture.Picture).PaintCircleMM))

	register("Insert picture from file", func(p *picture.Picture, a *args) (string, error) {
		path := a.word()
		x1, x2, y1, y2 := rect(a)
		if err := a.done(); err != nil {
			return "", err
		}
		return "", p.InsertPictureFromFile(path, x1, x2, y1, y2)
	})

	register("Axes", func(p *picture.Picture, a *args) (string, error) {
		left, right, bottom, top := a.real(), a.real(), a.real(), a.real()
		if err := a.done(); err != nil {
			return "", err
		}
		return "", p.Axes(left, right, bottom, top)
	})

	const wc, mm = "(world coordinates)", "mm"
	register("Horizontal mm to world coordinates", distance((*picture.Picture).HorizontalMMToWC, wc), "Horizontal mm to wc")
	register("Horizontal world coordinates to mm", distance((*picture.Picture).HorizontalWCToMM, mm), "Horizontal wc to mm")
	register("Vertical mm to world coordinates", distance((*picture.Picture).VerticalMMToWC, wc), "Vertical mm to wc")
	register("Vertical world coordinates to mm", distance((*picture.Picture).VerticalWCToMM, mm), "Vertical wc to mm")

	register("Text width (world coordinates)", textWidth((*picture.Picture).TextWidthWC, wc, false), "Text width (wc)")
	register("Text width (mm)", textWidth((*picture.Picture).TextWidthMM, mm, false))
	register("PostScript text width (world coordinates)", textWidth((*picture.Picture).TextWidthWC, wc, true),
		"PostScript text width (wc)")
	register("PostScript text width (mm)", textWidth((*picture.Picture).TextWidthMM, mm, true))
}

func registerSelect() {
	register("Mouse selects inner viewport", noneErr((*picture.Picture).MouseSelectsInnerViewport))
	register("Mouse selects outer viewport", noneErr((*picture.Picture).MouseSelectsOuterViewport))

	viewport := func(sel func(p *picture.Picture, left, right, top, bottom float64) error) handler {
		return func(p *picture.Picture, a *args) (string, error) {
			left, right, top, bottom := a.real(), a.real(), a.real(), a.real()
			if err := a.done(); err != nil {
				return "", err
			}
			return "", sel(p, left, right, top, bottom)
		}
	}
	register("Select inner viewport", viewport((*picture.Picture).SelectInnerViewport))
	register("Select outer viewport", viewport((*picture.Picture).SelectOuterViewport), "Viewport")

	register("Viewport text", func(p *picture.Picture, a *args) (string, error) {
		h, v, rotation, text := a.hAlign(), a.vAlign(), a.real(), a.text()
		if err := a.done(); err != nil {
			return "", err
		}
		p.ViewportText(h, v, rotation, text)
		return "", nil
	})
}

func registerPen() {
	register("Solid line", setLineType(graphics.Solid), "Plain line")
	register("Dotted line", setLineType(graphics.Dotted))
	register("Dashed line", setLineType(graphics.Dashed))
	register("Dashed-dotted line", setLineType(graphics.DashedDotted))

	size := func(set func(p *picture.Picture, v float64) error) handler {
		return func(p *picture.Picture, a *args) (string, error) {
			v := a.real()
			if err := a.done(); err != nil {
				return "", err
			}
			return "", set(p, v)
		}
	}
	register("Line width", size((*picture.Picture).SetLineWidth))
	register("Arrow size", size((*picture.Picture).SetArrowSize))
	register("Speckle size", size((*picture.Picture).SetSpeckleSize))

	register("Colour", func(p *picture.Picture, a *args) (string, error) {
		c := a.colour()
		if err := a.done(); err != nil {
			return "", err
		}
		p.SetColour(c)
		return "", nil
	}, "Color")
	for _, name := range graphics.ColourNames() {
		c, err := graphics.ParseColour(name)
		if err != nil {
			panic(err)
		}
		register(name, setColour(c))
	}
}

func registerFont() {
	register("Font size", func(p *picture.Picture, a *args) (string, error) {
		size := a.integer()
		if err := a.done(); err != nil {
			return "", err
		}
		return "", p.SetFontSize(size)
	})
	for _, size := range []int{10, 12, 14, 18, 24} {
		register(strconv.Itoa(size), setFontSize(size))
	}
	for _, f := range []graphics.Font{graphics.Times, graphics.Helvetica, graphics.Palatino, graphics.Courier} {
		register(f.String(), setFont(f))
	}
}
