package export

import (
	"bytes"
	"fmt"
	"image"

	"github.com/go-pdf/fpdf"

	"github.com/shadowboard/shadowboard/pkg/buildinfo"
	"github.com/shadowboard/shadowboard/pkg/dims"
	"github.com/shadowboard/shadowboard/pkg/render"
	"github.com/shadowboard/shadowboard/pkg/render/brand"
	"github.com/shadowboard/shadowboard/pkg/tile"
)

const pdfFont = "Helvetica"

// PrintPDF returns a single-page PDF sized to the template plus margins,
// so printing at 100% reproduces the template at true scale.
func PrintPDF(img image.Image, d dims.Dimensions, b brand.Branding) ([]byte, error) {
	wIn := float64(img.Bounds().Dx()) / render.DPI
	hIn := float64(img.Bounds().Dy()) / render.DPI

	// Portrait keeps Wd and Ht as given; landscape would swap them.
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "in",
		Size:           fpdf.SizeType{Wd: wIn, Ht: hIn},
	})
	setup(pdf, fmt.Sprintf("%s %s", b.Title, d))

	data, err := EncodePNG(img)
	if err != nil {
		return nil, err
	}
	pdf.AddPage()
	placePNG(pdf, "template", data, 0, 0, wIn, hIn)
	return output(pdf)
}

// TiledPrintPDF returns a letter-size PDF with one tile per page inside
// the paper margins, captioned, followed by an assembly guide page.
func TiledPrintPDF(tiles []Tile, g tile.Guide, d dims.Dimensions, b brand.Branding) ([]byte, error) {
	pdf := fpdf.New("P", "in", "Letter", "")
	setup(pdf, fmt.Sprintf("%s %s", b.Title, d))
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, t := range tiles {
		pdf.AddPage()
		placePNG(pdf, fmt.Sprintf("page-%d", t.Page.Number), t.PNG,
			tile.PaperMargin, tile.PaperMargin, tile.PrintableWidth, tile.PrintableHeight)
		pdf.SetFont(pdfFont, "", 8)
		pdf.SetTextColor(0x66, 0x66, 0x66)
		pdf.Text(tile.PaperMargin, tile.PaperHeight-tile.PaperMargin/2, tr(tile.Caption(t.Page, g.Pages)))
	}

	pdf.AddPage()
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont(pdfFont, "B", 16)
	pdf.CellFormat(0, 0.4, tr(b.Title), "", 1, "L", false, 0, "")
	pdf.SetFont(pdfFont, "", 11)
	pdf.CellFormat(0, 0.3, tr(fmt.Sprintf("%s template on %d page(s).", d, g.Pages)), "", 1, "L", false, 0, "")
	pdf.Ln(0.2)

	cellW := tile.PrintableWidth / float64(max(len(firstRow(g.Grid)), 1))
	pdf.SetFont(pdfFont, "", 9)
	for _, row := range g.Grid {
		for _, label := range row {
			pdf.CellFormat(cellW, 0.5, tr(label), "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(0.3)

	pdf.SetFont(pdfFont, "B", 11)
	pdf.CellFormat(0, 0.3, "Instructions", "", 1, "L", false, 0, "")
	pdf.SetFont(pdfFont, "", 10)
	for i, step := range g.Instructions {
		pdf.CellFormat(0, 0.25, tr(fmt.Sprintf("%d. %s", i+1, step)), "", 1, "L", false, 0, "")
	}
	pdf.Ln(0.3)
	pdf.SetFont(pdfFont, "", 9)
	pdf.CellFormat(0, 0.25, tr(b.Organization+"  "+b.URL), "", 1, "L", false, 0, "")

	return output(pdf)
}

func setup(pdf *fpdf.Fpdf, title string) {
	pdf.SetMargins(tile.PaperMargin, tile.PaperMargin, tile.PaperMargin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(title, true)
	pdf.SetCreator(buildinfo.UserAgent(), true)
	pdf.SetCompression(true)
}

func placePNG(pdf *fpdf.Fpdf, name string, data []byte, x, y, w, h float64) {
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
}

func output(pdf *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func firstRow(grid [][]string) []string {
	if len(grid) == 0 {
		return nil
	}
	return grid[0]
}
