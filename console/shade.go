package console

import (
	"math"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
)

// shadeCoverage is the fraction of a cell each shade glyph paints in the foreground color
var shadeCoverage = []struct {
	glyph    Glyph
	coverage float64
}{
	{GlyphQuarter, 0.25},
	{GlyphHalf, 0.5},
	{GlyphThreeQuarters, 0.75},
}

type shadeEntry struct {
	pixel   Pixel
	l, a, b float64
}

var (
	shadeOnce  sync.Once
	shadeTable []shadeEntry
)

func paletteColor(c Color) colorful.Color {
	r, g, b := ColorRGB(c)
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// buildShadeTable lists every distinct blend the palette and shade glyphs can show
func buildShadeTable() {
	shadeTable = make([]shadeEntry, 0, 16+16*15*len(shadeCoverage))
	for c := Black; c <= White; c++ {
		l, a, b := paletteColor(c).Lab()
		shadeTable = append(shadeTable, shadeEntry{pixel: Solid(c), l: l, a: a, b: b})
	}
	for fg := Black; fg <= White; fg++ {
		for bg := Black; bg <= White; bg++ {
			if fg == bg {
				continue
			}
			for _, s := range shadeCoverage {
				mix := paletteColor(bg).BlendLinearRgb(paletteColor(fg), s.coverage)
				l, a, b := mix.Lab()
				shadeTable = append(shadeTable, shadeEntry{pixel: Shade(fg, bg, s.glyph), l: l, a: a, b: b})
			}
		}
	}
}

// NearestPixel returns the solid or shaded pixel whose blend is perceptually closest to the RGB color
func NearestPixel(r, g, b uint8) Pixel {
	shadeOnce.Do(buildShadeTable)

	target := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	tl, ta, tb := target.Lab()

	best := shadeTable[0].pixel
	bestDist := math.Inf(1)
	for _, e := range shadeTable {
		dl, da, db := e.l-tl, e.a-ta, e.b-tb
		d := dl*dl + da*da + db*db
		if d < bestDist {
			bestDist = d
			best = e.pixel
		}
	}
	return best
}
