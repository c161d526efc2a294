package brand

import (
	"context"
	"image"
	"image/color"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/shadowboard/shadowboard/pkg/errors"
	"github.com/shadowboard/shadowboard/pkg/fonts"
	"github.com/shadowboard/shadowboard/pkg/render"
)

// Branding is the text and logo reference drawn on every template.
type Branding struct {
	Title        string `toml:"title" json:"title"`
	Organization string `toml:"organization" json:"organization"`
	URL          string `toml:"url" json:"url"`
	Logo         string `toml:"logo" json:"logo,omitempty"`
}

// Layout constants, in pixels.
const (
	// LogoHeight is the fixed drawn height of the logo; width follows
	// the asset's aspect ratio.
	LogoHeight = 30

	// originInset positions the branding origin relative to the
	// bottom-left corner of the surface.
	originInset = 10

	logoTextGap = 8

	titleFontSize = 12
	lineFontSize  = 10
)

// Completion reports the outcome of one overlay.
type Completion struct {
	// Generation is the render generation the overlay was started for.
	Generation uint64
	// Applied is true when the overlay was drawn.
	Applied bool
	// Discarded is true when a newer render superseded the surface.
	Discarded bool
	// Fallback is true when the logo failed to load and only text was drawn.
	Fallback bool
	// LogoErr is the logo load error behind a fallback.
	LogoErr error
	// Err is a drawing failure; the surface may be partially branded.
	Err error
}

// Option configures an overlay.
type Option func(*overlay)

type overlay struct {
	logger *log.Logger
	color  color.Color
}

// WithLogger logs overlay progress at debug level.
func WithLogger(l *log.Logger) Option {
	return func(o *overlay) { o.logger = l }
}

// WithTextColor overrides the branding text color.
func WithTextColor(c color.Color) Option {
	return func(o *overlay) { o.color = c }
}

// Overlay loads the logo in the background and draws the branding onto
// the canvas surface of generation gen. The returned channel receives
// exactly one Completion and is then closed.
func Overlay(ctx context.Context, c *render.Canvas, gen uint64, b Branding, l Loader, opts ...Option) <-chan Completion {
	o := overlay{color: color.Black}
	for _, opt := range opts {
		opt(&o)
	}

	done := make(chan Completion, 1)
	go func() {
		defer close(done)

		logo, logoErr := l.Load(ctx)
		comp := Completion{Generation: gen, LogoErr: logoErr, Fallback: logoErr != nil}

		applied, err := c.Apply(gen, func(s *render.Surface) error {
			if logoErr != nil {
				return o.drawFallback(s, b)
			}
			return o.drawWithLogo(s, b, logo)
		})
		comp.Applied = applied
		comp.Discarded = !applied
		comp.Err = err

		if o.logger != nil {
			switch {
			case comp.Discarded:
				o.logger.Debug("branding discarded", "generation", gen, "current", c.Generation())
			case comp.Fallback:
				o.logger.Debug("logo unavailable, drew text branding", "generation", gen, "err", logoErr)
			default:
				o.logger.Debug("branding applied", "generation", gen)
			}
		}
		done <- comp
	}()
	return done
}

// Apply draws the branding synchronously onto s. It is the overlay
// without the asynchronous load, for callers that already hold the logo
// (logo may be nil for the text-only fallback).
func Apply(s *render.Surface, b Branding, logo image.Image) error {
	o := overlay{color: color.Black}
	if logo == nil {
		return o.drawFallback(s, b)
	}
	return o.drawWithLogo(s, b, logo)
}

// drawWithLogo draws the logo bottom-left anchored at the branding origin
// with the three text lines stacked to its right.
func (o *overlay) drawWithLogo(s *render.Surface, b Branding, logo image.Image) error {
	scaled := imaging.Resize(logo, 0, LogoHeight, imaging.Lanczos)

	dc := s.Context()
	ox, oy := originInset, s.Height()-originInset
	dc.DrawImage(scaled, ox, oy-LogoHeight)

	x := float64(ox + scaled.Bounds().Dx() + logoTextGap)
	bottom := float64(oy)
	return o.drawLines(dc, b, x, [3]float64{bottom - 20, bottom - 9, bottom + 2})
}

// drawFallback draws the text lines at the branding origin with the URL
// at its fixed secondary position.
func (o *overlay) drawFallback(s *render.Surface, b Branding) error {
	dc := s.Context()
	x := float64(originInset)
	bottom := float64(s.Height() - originInset)
	return o.drawLines(dc, b, x, [3]float64{bottom - 26, bottom - 14, bottom})
}

// drawLines draws title, organization and URL with their baselines at ys.
func (o *overlay) drawLines(dc *gg.Context, b Branding, x float64, ys [3]float64) error {
	title, err := fonts.Bold(titleFontSize)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "load branding font")
	}
	line, err := fonts.Regular(lineFontSize)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "load branding font")
	}

	dc.SetColor(o.color)
	dc.SetFontFace(title)
	dc.DrawString(b.Title, x, ys[0])
	dc.SetFontFace(line)
	dc.DrawString(b.Organization, x, ys[1])
	dc.DrawString(b.URL, x, ys[2])
	return nil
}
