package graphics

import (
	"fmt"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// The Go fonts stand in for the four picture fonts: proportional sans for
// Times and Helvetica, the medium weight for Palatino, Go Mono for Courier.
func fontData(f Font) []byte {
	switch f {
	case Courier:
		return gomono.TTF
	case Palatino:
		return gomedium.TTF
	default:
		return goregular.TTF
	}
}

var (
	fontMu      sync.Mutex
	parsedFonts = map[Font]*truetype.Font{}
)

func parsedFont(f Font) (*truetype.Font, error) {
	fontMu.Lock()
	defer fontMu.Unlock()

	if tt, ok := parsedFonts[f]; ok {
		return tt, nil
	}
	tt, err := truetype.Parse(fontData(f))
	if err != nil {
		return nil, fmt.Errorf("failed to parse font %s: %w", f, err)
	}
	parsedFonts[f] = tt
	return tt, nil
}

// fontFace returns a face for size points rendered at dpi.
func fontFace(f Font, size, dpi float64) (font.Face, error) {
	tt, err := parsedFont(f)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(tt, &truetype.Options{
		Size:    size,
		DPI:     dpi,
		Hinting: font.HintingFull,
	}), nil
}

// textWidthPoints measures s in points. Measurement uses unhinted advances so
// the result does not depend on the output resolution.
func textWidthPoints(f Font, size int, s string) float64 {
	if s == "" || size <= 0 {
		return 0
	}
	tt, err := parsedFont(f)
	if err != nil {
		// rough fallback: half an em per character
		return 0.5 * float64(size) * float64(len([]rune(s)))
	}
	face := truetype.NewFace(tt, &truetype.Options{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	defer face.Close()
	adv := font.MeasureString(face, s)
	return float64(adv) / 64
}
