package export

import (
	"bytes"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"

	"github.com/shadowboard/shadowboard/pkg/dims"
	"github.com/shadowboard/shadowboard/pkg/render/brand"
	"github.com/shadowboard/shadowboard/pkg/tile"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

type printPage struct {
	Title   string
	Alt     string
	Image   template.URL
	WidthIn float64
}

type tiledPage struct {
	Image   template.URL
	Caption string
}

type tiledDoc struct {
	Title        string
	Organization string
	URL          string
	Dimensions   string
	Pages        []tiledPage
	Guide        tile.Guide
}

// PrintHTML returns a print document embedding the template image. The
// image is sized to print at true scale, margins included.
func PrintHTML(pngData []byte, d dims.Dimensions, b brand.Branding) ([]byte, error) {
	return execute("print.html.tmpl", printPage{
		Title:   fmt.Sprintf("%s %s", b.Title, d),
		Alt:     Filename(d),
		Image:   dataURI(pngData),
		WidthIn: d.Width + 2,
	})
}

// TiledPrintHTML returns a print document with one page per tile followed
// by the assembly guide.
func TiledPrintHTML(tiles []Tile, g tile.Guide, d dims.Dimensions, b brand.Branding) ([]byte, error) {
	doc := tiledDoc{
		Title:        b.Title,
		Organization: b.Organization,
		URL:          b.URL,
		Dimensions:   d.String(),
		Pages:        make([]tiledPage, len(tiles)),
		Guide:        g,
	}
	for i, t := range tiles {
		doc.Pages[i] = tiledPage{
			Image:   dataURI(t.PNG),
			Caption: tile.Caption(t.Page, g.Pages),
		}
	}
	return execute("tiled.html.tmpl", doc)
}

func execute(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

func dataURI(pngData []byte) template.URL {
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(pngData))
}
