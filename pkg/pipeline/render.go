package pipeline

import (
	"context"
	stderrors "errors"
	"fmt"
	"image"
	"time"

	"github.com/shadowboard/shadowboard/pkg/config"
	"github.com/shadowboard/shadowboard/pkg/dims"
	"github.com/shadowboard/shadowboard/pkg/export"
	"github.com/shadowboard/shadowboard/pkg/observability"
	"github.com/shadowboard/shadowboard/pkg/render"
	"github.com/shadowboard/shadowboard/pkg/render/brand"
	"github.com/shadowboard/shadowboard/pkg/render/grid"
	"github.com/shadowboard/shadowboard/pkg/tile"
)

// ErrSuperseded is returned by Render when a newer render started on the
// same canvas before the snapshot was taken.
var ErrSuperseded = stderrors.New("surface superseded")

// Frame is a rendered, branded template ready for export.
type Frame struct {
	// Image is a snapshot of the surface; later canvas activity does not
	// change it.
	Image      *image.RGBA
	Dims       dims.Dimensions
	Generation uint64
	Branding   brand.Completion

	RenderTime   time.Duration
	BrandingTime time.Duration
}

// Render draws the template for d on c and waits for the branding
// overlay. When the logo does not arrive within opts.BrandingTimeout the
// load is cancelled and the frame carries the text fallback. Loaders must
// return promptly once their context is done.
func (r *Runner) Render(ctx context.Context, c *render.Canvas, d dims.Dimensions, p config.Profile, opts Options) (*Frame, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()

	start := time.Now()
	hooks.OnRenderStart(ctx, d.Width, d.Height)
	s, err := c.Next(d)
	if err == nil {
		err = grid.Render(d, s)
	}
	if err != nil {
		hooks.OnRenderComplete(ctx, c.Generation(), time.Since(start), err)
		return nil, err
	}
	frame := &Frame{Dims: d, Generation: s.Generation, RenderTime: time.Since(start)}
	hooks.OnRenderComplete(ctx, s.Generation, frame.RenderTime, nil)

	loader := opts.Loader
	if loader == nil {
		loader = brand.NewLoader(p.Logo)
	}

	brandStart := time.Now()
	brandCtx, cancel := context.WithTimeout(ctx, opts.BrandingTimeout)
	defer cancel()
	done := brand.Overlay(brandCtx, c, s.Generation, p.Branding(), loader, brand.WithLogger(opts.Logger))

	var comp brand.Completion
	select {
	case comp = <-done:
	case <-brandCtx.Done():
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		// The loader sees the expired context, so the overlay finishes
		// with the text fallback.
		opts.Logger.Warn("branding timed out, using text branding", "timeout", opts.BrandingTimeout)
		select {
		case comp = <-done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	frame.Branding = comp
	if comp.Err != nil {
		return nil, fmt.Errorf("branding: %w", comp.Err)
	}
	frame.BrandingTime = time.Since(brandStart)
	hooks.OnBranding(ctx, s.Generation, frame.Branding.Applied, frame.Branding.Fallback)

	current, _ := c.Apply(s.Generation, func(cur *render.Surface) error {
		frame.Image = cur.Snapshot()
		return nil
	})
	if !current {
		return nil, fmt.Errorf("generation %d: %w", s.Generation, ErrSuperseded)
	}
	return frame, nil
}

// Export encodes frame in every format. Tiled formats use l, which must
// be the plan for frame.Dims.
func Export(ctx context.Context, frame *Frame, l tile.Layout, b brand.Branding, formats []string) (map[string][]byte, error) {
	hooks := observability.Pipeline()
	artifacts := make(map[string][]byte, len(formats))

	var (
		pngData []byte
		tiles   []export.Tile
		guide   tile.Guide
	)
	encodePNG := func() ([]byte, error) {
		if pngData != nil {
			return pngData, nil
		}
		var err error
		pngData, err = export.EncodePNG(frame.Image)
		return pngData, err
	}
	planTiles := func() ([]export.Tile, error) {
		if tiles != nil {
			return tiles, nil
		}
		var err error
		tiles, err = export.Tiles(frame.Image, l)
		guide = tile.NewGuide(l)
		return tiles, err
	}

	for _, format := range formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := time.Now()
		hooks.OnExportStart(ctx, format)

		var data []byte
		var err error
		switch format {
		case FormatPNG:
			data, err = encodePNG()
		case FormatHTML:
			if data, err = encodePNG(); err == nil {
				data, err = export.PrintHTML(data, frame.Dims, b)
			}
		case FormatPDF:
			data, err = export.PrintPDF(frame.Image, frame.Dims, b)
		case FormatTiledHTML:
			if _, err = planTiles(); err == nil {
				data, err = export.TiledPrintHTML(tiles, guide, frame.Dims, b)
			}
		case FormatTiledPDF:
			if _, err = planTiles(); err == nil {
				data, err = export.TiledPrintPDF(tiles, guide, frame.Dims, b)
			}
		default:
			err = ValidateFormat(format)
		}

		hooks.OnExportComplete(ctx, format, len(data), time.Since(start), err)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
