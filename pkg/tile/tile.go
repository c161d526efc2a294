package tile

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	"github.com/shadowboard/shadowboard/pkg/dims"
	"github.com/shadowboard/shadowboard/pkg/render"
)

// Letter paper geometry, in inches.
const (
	PaperWidth  = 8.5
	PaperHeight = 11.0
	PaperMargin = 0.5

	PrintableWidth  = PaperWidth - 2*PaperMargin
	PrintableHeight = PaperHeight - 2*PaperMargin
)

// Page size in surface pixels.
const (
	PageWidth  = int(PrintableWidth * render.DPI)
	PageHeight = int(PrintableHeight * render.DPI)
)

// Page is one printable sheet of a tiled template.
type Page struct {
	Number int             `json:"number"`
	Row    int             `json:"row"`
	Col    int             `json:"col"`
	Source image.Rectangle `json:"source"`
}

// Layout is the page grid for a template.
type Layout struct {
	PagesX int    `json:"pages_x"`
	PagesY int    `json:"pages_y"`
	Pages  []Page `json:"pages"`
}

// Total returns the number of pages.
func (l Layout) Total() int { return l.PagesX * l.PagesY }

// Plan computes the page grid for d. The tiled extent is the template
// plus the one-inch margin on every side. Invalid or oversized dimensions
// yield an empty layout.
func Plan(d dims.Dimensions) Layout {
	if !d.Valid() || dims.CheckExtent(d) != nil {
		return Layout{}
	}
	marginIn := float64(render.Margin) / render.DPI
	pagesX := int(math.Ceil((d.Width + 2*marginIn) / PrintableWidth))
	pagesY := int(math.Ceil((d.Height + 2*marginIn) / PrintableHeight))

	pages := make([]Page, 0, pagesX*pagesY)
	for row := 0; row < pagesY; row++ {
		for col := 0; col < pagesX; col++ {
			x, y := col*PageWidth, row*PageHeight
			pages = append(pages, Page{
				Number: row*pagesX + col + 1,
				Row:    row,
				Col:    col,
				Source: image.Rect(x, y, x+PageWidth, y+PageHeight),
			})
		}
	}
	return Layout{PagesX: pagesX, PagesY: pagesY, Pages: pages}
}

// Crop returns a page-sized white image with the part of src covered by
// p pasted at its top-left. Parts of the page beyond the source bounds
// stay blank.
func Crop(src image.Image, p Page) *image.NRGBA {
	page := imaging.New(PageWidth, PageHeight, color.White)

	b := src.Bounds()
	area := p.Source.Add(b.Min).Intersect(b)
	if area.Empty() {
		return page
	}
	return imaging.Overlay(page, imaging.Crop(src, area), area.Min.Sub(b.Min).Sub(p.Source.Min), 1.0)
}
