package grid

import (
	"strconv"

	"github.com/fogleman/gg"

	"github.com/shadowboard/shadowboard/pkg/dims"
	"github.com/shadowboard/shadowboard/pkg/errors"
	"github.com/shadowboard/shadowboard/pkg/fonts"
	"github.com/shadowboard/shadowboard/pkg/render"
)

// Option configures grid rendering.
type Option func(*renderer)

type renderer struct {
	style Style
}

// WithStyle overrides the default style.
func WithStyle(s Style) Option {
	return func(r *renderer) { r.style = s }
}

// Render draws the template for d onto s. The surface must have been
// allocated for d (see render.NewSurface). Invalid dimensions draw
// nothing and return an EMPTY_TEMPLATE error.
func Render(d dims.Dimensions, s *render.Surface, opts ...Option) error {
	if !d.Valid() {
		return errors.New(errors.ErrCodeEmptyTemplate, "no template for %gx%g", d.Width, d.Height)
	}
	if w, h := render.SurfaceSize(d); s == nil || s.Width() != w || s.Height() != h {
		return errors.New(errors.ErrCodeInternal, "surface does not match %gx%g template", d.Width, d.Height)
	}

	r := renderer{style: DefaultStyle()}
	for _, opt := range opts {
		opt(&r)
	}

	dc := s.Context()
	r.background(dc)
	r.border(dc, d)
	r.gridLines(dc, d)
	if err := r.rulers(dc, d); err != nil {
		return err
	}
	return r.dimensionLabels(dc, d)
}

func (r *renderer) background(dc *gg.Context) {
	dc.SetColor(r.style.Background)
	dc.Clear()
}

func (r *renderer) border(dc *gg.Context, d dims.Dimensions) {
	dc.SetColor(r.style.Border)
	dc.SetLineWidth(r.style.BorderWidth)
	dc.DrawRectangle(render.Margin, render.Margin, d.Width*render.DPI, d.Height*render.DPI)
	dc.Stroke()
}

// gridLines draws whole-inch lines strictly inside the border. Odd line
// widths are offset by half a pixel so they cover whole pixel columns.
func (r *renderer) gridLines(dc *gg.Context, d dims.Dimensions) {
	const m = float64(render.Margin)
	w, h := d.Width*render.DPI, d.Height*render.DPI
	off := crispOffset(r.style.GridLineWidth)

	dc.SetColor(r.style.GridLine)
	dc.SetLineWidth(r.style.GridLineWidth)
	for i := 1; float64(i) < d.Width; i++ {
		x := m + float64(i*render.DPI) + off
		dc.DrawLine(x, m, x, m+h)
	}
	for j := 1; float64(j) < d.Height; j++ {
		y := m + float64(j*render.DPI) + off
		dc.DrawLine(m, y, m+w, y)
	}
	dc.Stroke()
}

func (r *renderer) rulers(dc *gg.Context, d dims.Dimensions) error {
	face, err := fonts.Regular(r.style.RulerFontSize)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "load ruler font")
	}
	dc.SetFontFace(face)

	const m = float64(render.Margin)
	tick := r.style.TickLength
	off := crispOffset(1)

	dc.SetColor(r.style.Ruler)
	dc.SetLineWidth(1)

	// Top edge: ticks pointing up, labels centered above them.
	for i := 0; float64(i) <= d.Width; i++ {
		x := m + float64(i*render.DPI)
		dc.DrawLine(x+off, m-tick, x+off, m)
		dc.Stroke()
		dc.DrawStringAnchored(strconv.Itoa(i), x, m-tick-r.style.LabelGap, 0.5, 0)
	}

	// Left edge: ticks pointing left, labels right-aligned and vertically
	// centered on the tick.
	for j := 0; float64(j) <= d.Height; j++ {
		y := m + float64(j*render.DPI)
		dc.DrawLine(m-tick, y+off, m, y+off)
		dc.Stroke()
		dc.DrawStringAnchored(strconv.Itoa(j), m-tick-r.style.LabelGap, y, 1, 0.35)
	}
	return nil
}

func (r *renderer) dimensionLabels(dc *gg.Context, d dims.Dimensions) error {
	face, err := fonts.Bold(r.style.DimensionFontSize)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "load label font")
	}
	dc.SetFontFace(face)
	dc.SetColor(r.style.Label)

	const m = float64(render.Margin)
	w, h := d.Width*render.DPI, d.Height*render.DPI

	// Height: rotated 90° counter-clockwise, right of the content.
	hx, hy := m+w+r.style.DimensionOffset, m+h/2
	dc.Push()
	dc.RotateAbout(gg.Radians(-90), hx, hy)
	dc.DrawStringAnchored(dims.FormatInches(d.Height), hx, hy, 0.5, 0.35)
	dc.Pop()

	// Width: centered beneath the content.
	dc.DrawStringAnchored(dims.FormatInches(d.Width), m+w/2, m+h+r.style.DimensionOffset, 0.5, 0.35)
	return nil
}

func crispOffset(lineWidth float64) float64 {
	if int(lineWidth)%2 == 1 {
		return 0.5
	}
	return 0
}
