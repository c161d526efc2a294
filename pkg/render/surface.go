package render

import (
	"image"
	"image/draw"

	"github.com/fogleman/gg"

	"github.com/shadowboard/shadowboard/pkg/dims"
)

const (
	// DPI is the raster resolution in pixels per inch.
	DPI = 72

	// Margin is the outer margin in pixels on every side of the content.
	Margin = 72
)

// SurfaceSize returns the pixel size of the surface for d.
// Fractional pixel extents are truncated.
func SurfaceSize(d dims.Dimensions) (width, height int) {
	return int(d.Width*DPI + 2*Margin), int(d.Height*DPI + 2*Margin)
}

// Surface is a raster render target together with the dimensions and
// render generation it was allocated for.
type Surface struct {
	Image      *image.RGBA
	Dims       dims.Dimensions
	Generation uint64
}

// NewSurface allocates a transparent surface sized for d.
func NewSurface(d dims.Dimensions, generation uint64) *Surface {
	w, h := SurfaceSize(d)
	return &Surface{
		Image:      image.NewRGBA(image.Rect(0, 0, w, h)),
		Dims:       d,
		Generation: generation,
	}
}

// Width returns the surface width in pixels.
func (s *Surface) Width() int { return s.Image.Bounds().Dx() }

// Height returns the surface height in pixels.
func (s *Surface) Height() int { return s.Image.Bounds().Dy() }

// Content returns the content rectangle in pixel coordinates: the area
// inside the margins covered by the template itself.
func (s *Surface) Content() (x, y, w, h float64) {
	return Margin, Margin, s.Dims.Width * DPI, s.Dims.Height * DPI
}

// Context returns a drawing context backed by the surface pixels.
// Drawing through the context mutates the surface in place.
func (s *Surface) Context() *gg.Context {
	return gg.NewContextForRGBA(s.Image)
}

// Snapshot returns a copy of the surface pixels.
func (s *Surface) Snapshot() *image.RGBA {
	dst := image.NewRGBA(s.Image.Bounds())
	draw.Draw(dst, dst.Bounds(), s.Image, s.Image.Bounds().Min, draw.Src)
	return dst
}
