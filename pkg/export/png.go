package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strconv"

	"github.com/shadowboard/shadowboard/pkg/dims"
	"github.com/shadowboard/shadowboard/pkg/tile"
)

// FilenamePrefix starts every downloaded template name.
const FilenamePrefix = "shadowboard-template"

// Filename returns the download name for d, for example
// "shadowboard-template-5x3.png". Values are written without rounding.
func Filename(d dims.Dimensions) string {
	return fmt.Sprintf("%s-%sx%s.png", FilenamePrefix, formatValue(d.Width), formatValue(d.Height))
}

// BaseName returns Filename(d) without the extension.
func BaseName(d dims.Dimensions) string {
	name := Filename(d)
	return name[:len(name)-len(".png")]
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Tile is one encoded page of a tiled template.
type Tile struct {
	Page tile.Page
	PNG  []byte
}

// Tiles crops src into the pages of l and encodes each page.
func Tiles(src image.Image, l tile.Layout) ([]Tile, error) {
	out := make([]Tile, 0, len(l.Pages))
	for _, p := range l.Pages {
		data, err := EncodePNG(tile.Crop(src, p))
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", p.Number, err)
		}
		out = append(out, Tile{Page: p, PNG: data})
	}
	return out, nil
}
