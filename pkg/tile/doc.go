// Package tile splits a rendered template into letter-size pages.
//
// A template larger than one sheet of paper is printed as a grid of pages
// that are trimmed and glued together. [Plan] computes that grid from the
// template dimensions, [Crop] cuts one page out of the rendered surface,
// and [NewGuide] produces the assembly instructions printed alongside.
//
// Pages are ordered row-major and numbered from 1:
//
//	layout := tile.Plan(dims.Dimensions{Width: 10, Height: 10})
//	for _, p := range layout.Pages {
//	    page := tile.Crop(surface, p)
//	    // ...
//	}
package tile
