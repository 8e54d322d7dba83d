package graphics

// mmPerInch is the number of millimetres in an inch.
const mmPerInch = 25.4

// DxMMtoWC converts a horizontal distance in millimetres to world coordinates
// of the current viewport.
func (g *Graphics) DxMMtoWC(mm float64) float64 {
	sx, _ := g.scale()
	ix, _ := g.device.inchesPerNDC()
	return mm / mmPerInch / ix / sx
}

func (g *Graphics) DyMMtoWC(mm float64) float64 {
	_, sy := g.scale()
	_, iy := g.device.inchesPerNDC()
	return mm / mmPerInch / iy / sy
}

func (g *Graphics) DxWCtoMM(wc float64) float64 {
	sx, _ := g.scale()
	ix, _ := g.device.inchesPerNDC()
	return wc * sx * ix * mmPerInch
}

func (g *Graphics) DyWCtoMM(wc float64) float64 {
	_, sy := g.scale()
	_, iy := g.device.inchesPerNDC()
	return wc * sy * iy * mmPerInch
}

// TextWidth returns the width of text in horizontal world coordinates, using
// the current font and font size.
func (g *Graphics) TextWidth(text string) float64 {
	return g.DxMMtoWC(g.TextWidthMM(text))
}

// TextWidthMM returns the width of text in millimetres.
func (g *Graphics) TextWidthMM(text string) float64 {
	return textWidthPoints(g.attrs.Font, g.attrs.FontSize, text) / 72 * mmPerInch
}

// mmToNDC converts millimetres to NDC along each axis.
func (g *Graphics) mmToNDC(mm float64) (dx, dy float64) {
	ix, iy := g.device.inchesPerNDC()
	return mm / mmPerInch / ix, mm / mmPerInch / iy
}
