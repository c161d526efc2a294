// Package render provides the raster surface that templates are drawn on.
//
// # Overview
//
// A template is rasterized at a fixed [DPI] of 72 pixels per inch with a
// one-inch [Margin] on every side, reserved for rulers, dimension labels
// and branding. For a template of w×h inches the surface is
//
//	(w*72 + 2*72) × (h*72 + 2*72) pixels
//
// so a 5×3 inch template renders onto a 504×360 surface.
//
// # Canvas and Generations
//
// [Canvas] owns the current [Surface] and a render generation counter.
// Every call to [Canvas.Next] starts a new generation. Work that completes
// asynchronously (the branding overlay waits for a logo asset) captures
// the generation it was started for and mutates the surface through
// [Canvas.Apply], which refuses stale generations:
//
//	s, err := canvas.Next(d)          // generation N
//	grid.Render(d, s)
//	done := brand.Overlay(ctx, canvas, s.Generation, branding, loader)
//	canvas.Next(d2)                   // generation N+1
//	<-done                            // overlay for N is discarded
//
// Drawing subpackages:
//   - [grid]: the ruled grid, rulers and dimension labels
//   - [brand]: logo and branding text overlay
//
// [grid]: github.com/shadowboard/shadowboard/pkg/render/grid
// [brand]: github.com/shadowboard/shadowboard/pkg/render/brand
package render
