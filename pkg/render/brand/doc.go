// Package brand draws the logo and branding text onto a rendered template.
//
// The overlay is asynchronous: [Overlay] starts loading the logo in the
// background and returns immediately, so it never delays the grid render.
// When loading finishes it mutates the surface in place through
// [render.Canvas.Apply]. If a newer render has replaced the surface in the
// meantime, the completion is discarded instead of drawing over it.
//
//	s, _ := canvas.Next(d)
//	_ = grid.Render(d, s)
//	done := brand.Overlay(ctx, canvas, s.Generation, b, brand.NewLoader(b.Logo))
//	c := <-done
//	if c.Discarded {
//	    // superseded by a later render
//	}
//
// A logo that fails to load is an expected outcome: the three text lines
// are drawn on their own at the bottom-left margin ([Completion.Fallback]).
//
// [render.Canvas.Apply]: github.com/shadowboard/shadowboard/pkg/render.Canvas.Apply
package brand
