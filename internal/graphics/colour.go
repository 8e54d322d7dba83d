package graphics

import (
	"fmt"
	"strconv"
	"strings"
)

// Colour is an RGB triple with components in [0, 1]. It implements
// image/color.Color so it can be handed straight to the raster renderer.
type Colour struct {
	Red, Green, Blue float64
}

var (
	Black   = Colour{0, 0, 0}
	White   = Colour{1, 1, 1}
	Red     = Colour{1, 0, 0}
	Green   = Colour{0, 0.5, 0}
	Blue    = Colour{0, 0, 1}
	Yellow  = Colour{1, 1, 0}
	Cyan    = Colour{0, 1, 1}
	Magenta = Colour{1, 0, 1}
	Maroon  = Colour{0.5, 0, 0}
	Lime    = Colour{0, 1, 0}
	Navy    = Colour{0, 0, 0.5}
	Teal    = Colour{0, 0.5, 0.5}
	Purple  = Colour{0.5, 0, 0.5}
	Olive   = Colour{0.5, 0.5, 0}
	Pink    = Colour{1, 0.75, 0.8}
	Silver  = Colour{0.75, 0.75, 0.75}
	Grey    = Colour{0.5, 0.5, 0.5}
)

var namedColours = []struct {
	name   string
	colour Colour
}{
	{"Black", Black},
	{"White", White},
	{"Red", Red},
	{"Green", Green},
	{"Blue", Blue},
	{"Yellow", Yellow},
	{"Cyan", Cyan},
	{"Magenta", Magenta},
	{"Maroon", Maroon},
	{"Lime", Lime},
	{"Navy", Navy},
	{"Teal", Teal},
	{"Purple", Purple},
	{"Olive", Olive},
	{"Pink", Pink},
	{"Silver", Silver},
	{"Grey", Grey},
}

// ColourNames lists the named colours in menu order.
func ColourNames() []string {
	names := make([]string, len(namedColours))
	for i, nc := range namedColours {
		names[i] = nc.name
	}
	return names
}

// Name returns the colour's name, or "{r,g,b}" for an unnamed colour.
func (c Colour) Name() string {
	for _, nc := range namedColours {
		if nc.colour == c {
			return nc.name
		}
	}
	return fmt.Sprintf("{%s,%s,%s}", formatComponent(c.Red), formatComponent(c.Green), formatComponent(c.Blue))
}

func (c Colour) String() string { return c.Name() }

func (c Colour) RGBA() (r, g, b, a uint32) {
	return component16(c.Red), component16(c.Green), component16(c.Blue), 0xffff
}

func component16(v float64) uint32 {
	return uint32(clamp01(v)*0xffff + 0.5)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func formatComponent(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// ParseColour accepts a colour name ("Red", "grey"), a grey level between 0 and
// 1 ("0.3"), or an RGB triple ("{0.2, 0.5, 1}").
func ParseColour(s string) (Colour, error) {
	s = strings.TrimSpace(s)
	for _, nc := range namedColours {
		if strings.EqualFold(nc.name, s) {
			return nc.colour, nil
		}
	}
	if strings.EqualFold(s, "gray") {
		return Grey, nil
	}

	if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
		parts := strings.Split(s[1:len(s)-1], ",")
		if len(parts) != 3 {
			return Colour{}, fmt.Errorf("colour %q needs three components", s)
		}
		var rgb [3]float64
		for i, p := range parts {
			v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				return Colour{}, fmt.Errorf("colour %q: %w", s, err)
			}
			rgb[i] = clamp01(v)
		}
		return Colour{rgb[0], rgb[1], rgb[2]}, nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Colour{}, fmt.Errorf("unknown colour %q", s)
	}
	v = clamp01(v)
	return Colour{v, v, v}, nil
}

func (c Colour) luminance() float64 {
	return 0.299*c.Red + 0.587*c.Green + 0.114*c.Blue
}
