package grid

import "image/color"

// Style holds the colors, strokes and text sizes used by Render.
type Style struct {
	Background color.Color
	Border     color.Color
	GridLine   color.Color
	Ruler      color.Color
	Label      color.Color

	BorderWidth   float64
	GridLineWidth float64

	// TickLength is the ruler tick length in pixels, measured outward
	// from the content edge.
	TickLength float64
	// LabelGap is the distance between a tick's outer end and its label.
	LabelGap float64
	// DimensionOffset is the distance from the content edge to the
	// center of a dimension label.
	DimensionOffset float64

	RulerFontSize     float64
	DimensionFontSize float64
}

// DefaultStyle returns the standard print style.
func DefaultStyle() Style {
	return Style{
		Background: color.White,
		Border:     color.Black,
		GridLine:   color.RGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff},
		Ruler:      color.Black,
		Label:      color.Black,

		BorderWidth:   2,
		GridLineWidth: 1,

		TickLength:      8,
		LabelGap:        4,
		DimensionOffset: 36,

		RulerFontSize:     10,
		DimensionFontSize: 16,
	}
}
