// Package fonts provides the embedded faces used to draw template text.
//
// The Go font family ships inside golang.org/x/image, so the binary needs
// no system fonts. Parsed fonts are cached after first use; faces are
// created per call because a font.Face keeps a glyph cache that is not
// safe for concurrent use.
package fonts

import (
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Family is the CSS font-family used by the HTML print documents so
// on-screen captions match the raster.
const Family = `'Go', 'Helvetica Neue', Arial, sans-serif`

var (
	regular     *truetype.Font
	bold        *truetype.Font
	parseErr    error
	parseFontsO sync.Once
)

func parse() error {
	parseFontsO.Do(func() {
		regular, parseErr = truetype.Parse(goregular.TTF)
		if parseErr != nil {
			return
		}
		bold, parseErr = truetype.Parse(gobold.TTF)
	})
	return parseErr
}

// Regular returns a new regular-weight face at the given pixel size.
func Regular(size float64) (font.Face, error) {
	if err := parse(); err != nil {
		return nil, err
	}
	return newFace(regular, size), nil
}

// Bold returns a new bold face at the given pixel size.
func Bold(size float64) (font.Face, error) {
	if err := parse(); err != nil {
		return nil, err
	}
	return newFace(bold, size), nil
}

// Sizes are expressed in pixels; at 72 DPI one point is one pixel.
func newFace(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}
