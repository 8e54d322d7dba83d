package picture

import (
	"fmt"
	"math"

	"plotpic/internal/graphics"
	"plotpic/internal/viewport"
)

// Info returns the settings report, one line per setting.
func (p *Picture) Info() []string {
	units := ""
	if p.state.Kind() == viewport.Primary {
		units = " inches"
	}
	num := graphics.FormatNumber
	outer := p.state.QueryOuterViewport()
	inner := p.state.QueryInnerViewport()
	attrs := p.state.Attributes()
	world := p.state.World()

	return []string{
		"Outer viewport left: " + num(outer.Left) + units,
		"Outer viewport right: " + num(outer.Right) + units,
		"Outer viewport top: " + num(outer.Top) + units,
		"Outer viewport bottom: " + num(outer.Bottom) + units,
		fmt.Sprintf("Font size: %d points", attrs.FontSize),
		"Inner viewport left: " + num(inner.Left) + units,
		"Inner viewport right: " + num(inner.Right) + units,
		"Inner viewport top: " + num(inner.Top) + units,
		"Inner viewport bottom: " + num(inner.Bottom) + units,
		"Font: " + attrs.Font.String(),
		"Line type: " + attrs.LineType.String(),
		"Line width: " + num(attrs.LineWidth),
		"Arrow size: " + num(attrs.ArrowSize),
		"Speckle size: " + num(attrs.SpeckleSize),
		"Colour: " + attrs.Colour.Name(),
		"Red: " + num(attrs.Colour.Red),
		"Green: " + num(attrs.Colour.Green),
		"Blue: " + num(attrs.Colour.Blue),
		"Axis left: " + num(world.X1),
		"Axis right: " + num(world.X2),
		"Axis bottom: " + num(world.Y1),
		"Axis top: " + num(world.Y2),
	}
}

// exportRegion is the part of the surface that goes into a file: the
// selection on the page, the whole surface elsewhere.
func (p *Picture) exportRegion() graphics.Rect {
	if p.state.Kind() == viewport.Primary {
		return p.state.Outer()
	}
	return p.g.WsWindow().Sorted()
}

func (p *Picture) SaveEPS(path string) error {
	if err := p.g.WriteEPS(path, p.exportRegion(), false); err != nil {
		return fmt.Errorf("picture not written to EPS file %s: %w", path, err)
	}
	return nil
}

// SaveFontlessEPS writes an EPS file that does not ask for any fonts.
func (p *Picture) SaveFontlessEPS(path string) error {
	if err := p.g.WriteEPS(path, p.exportRegion(), true); err != nil {
		return fmt.Errorf("picture not written to EPS file %s: %w", path, err)
	}
	return nil
}

func (p *Picture) SavePDF(path string) error {
	if err := p.g.WritePDF(path, p.exportRegion()); err != nil {
		return fmt.Errorf("picture not written to PDF file %s: %w", path, err)
	}
	return nil
}

func (p *Picture) SavePNG(path string, dpi float64) error {
	if err := positive("resolution", dpi); err != nil {
		return err
	}
	if err := p.g.WritePNG(path, p.exportRegion(), dpi); err != nil {
		return fmt.Errorf("picture not written to PNG file %s: %w", path, err)
	}
	return nil
}

func (p *Picture) SavePNG300(path string) error { return p.SavePNG(path, 300) }
func (p *Picture) SavePNG600(path string) error { return p.SavePNG(path, 600) }

// SaveRecording writes the whole picture in a form ReadRecording restores.
func (p *Picture) SaveRecording(path string) error {
	if err := p.g.WriteRecording(path); err != nil {
		return fmt.Errorf("picture not written to picture file %s: %w", path, err)
	}
	return nil
}

// ReadRecording replaces the picture with a saved one. Settings stay.
func (p *Picture) ReadRecording(path string) error {
	if err := p.g.ReadRecording(path); err != nil {
		return fmt.Errorf("picture not read from %s: %w", path, err)
	}
	p.g.UpdateWs()
	return nil
}

// textCellAspect is the height of a terminal cell divided by its width.
const textCellAspect = 2.0

// SaveText writes the exported region as a character drawing cols wide.
func (p *Picture) SaveText(path string, cols int) error {
	if cols < 1 {
		return invalid("the number of columns must be at least 1, not %d", cols)
	}
	region := p.exportRegion()
	d := p.g.Device()
	w := region.Width() * float64(d.X2DC-d.X1DC) / d.Window.Width()
	h := region.Height() * math.Abs(float64(d.Y2DC-d.Y1DC)) / d.Window.Height()
	rows := int(math.Round(float64(cols) * h / w / textCellAspect))
	if rows < 1 {
		rows = 1
	}
	if err := p.g.WriteText(path, region, cols, rows); err != nil {
		return fmt.Errorf("picture not written to text file %s: %w", path, err)
	}
	return nil
}
