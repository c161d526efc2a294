package cli

import (
	"context"
	"image"
	"image/color"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"

	"github.com/shadowboard/shadowboard/pkg/config"
	"github.com/shadowboard/shadowboard/pkg/dims"
	"github.com/shadowboard/shadowboard/pkg/pipeline"
	"github.com/shadowboard/shadowboard/pkg/render"
)

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func key(k tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: k} }

// send feeds msgs to m and returns the final model and the last command.
func send(m formModel, msgs ...tea.Msg) (formModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(formModel)
	}
	return m, cmd
}

func TestFormDecimal(t *testing.T) {
	m := newFormModel(render.NewCanvas(), nil, true)
	m, _ = send(m, runes("5"), key(tea.KeyTab), runes("3"), runes("."), runes("5"))

	want := dims.Dimensions{Width: 5, Height: 3.5}
	if m.dims != want {
		t.Errorf("dims = %+v, want %+v", m.dims, want)
	}
	if !strings.Contains(m.View(), export5x35) {
		t.Errorf("view should show the download name:\n%s", m.View())
	}
}

const export5x35 = "shadowboard-template-5x3.5.png"

func TestFormIgnoresLetters(t *testing.T) {
	m := newFormModel(render.NewCanvas(), nil, false)
	m, _ = send(m, runes("x"), runes("1"), runes("q"))
	if m.fields[0].value != "1" {
		t.Errorf("width field = %q, want %q", m.fields[0].value, "1")
	}
}

func TestFormBackspace(t *testing.T) {
	m := newFormModel(render.NewCanvas(), nil, false)
	m, _ = send(m, runes("12"), key(tea.KeyBackspace), key(tea.KeyBackspace), key(tea.KeyBackspace))
	if m.fields[0].value != "" {
		t.Errorf("width field = %q, want empty", m.fields[0].value)
	}
}

func TestFormFraction(t *testing.T) {
	m := newFormModel(render.NewCanvas(), nil, false)
	m, _ = send(m, key(tea.KeyCtrlT))
	if m.mode != dims.ModeFraction || len(m.fields) != 6 {
		t.Fatalf("mode = %s with %d fields, want fraction with 6", m.mode, len(m.fields))
	}

	// 2 3/4 x 1 1/2
	m, _ = send(m,
		runes("2"), key(tea.KeyTab), runes("3"), key(tea.KeyTab),
		key(tea.KeyRight), key(tea.KeyRight), // 16 -> 2 -> 4
		key(tea.KeyTab), runes("1"), key(tea.KeyTab), runes("1"), key(tea.KeyTab),
		key(tea.KeyRight), // 16 -> 2
	)
	want := dims.Dimensions{Width: 2.75, Height: 1.5}
	if m.dims != want {
		t.Errorf("dims = %+v, want %+v", m.dims, want)
	}

	// Typing into a choice field does nothing.
	m, _ = send(m, runes("7"))
	if m.fields[5].value != "2" {
		t.Errorf("denominator = %q, want 2", m.fields[5].value)
	}

	m, _ = send(m, key(tea.KeyCtrlT))
	if m.mode != dims.ModeMetric || len(m.fields) != 2 {
		t.Errorf("mode = %s with %d fields, want metric with 2", m.mode, len(m.fields))
	}
}

func TestCycleDenominator(t *testing.T) {
	tests := []struct {
		value   string
		forward bool
		want    string
	}{
		{"2", true, "4"},
		{"16", true, "2"},
		{"2", false, "16"},
		{"8", false, "4"},
		{"junk", true, "2"},
	}
	for _, tt := range tests {
		if got := cycleDenominator(tt.value, tt.forward); got != tt.want {
			t.Errorf("cycleDenominator(%q, %v) = %q, want %q", tt.value, tt.forward, got, tt.want)
		}
	}
}

func TestFormSubmit(t *testing.T) {
	m := newFormModel(render.NewCanvas(), nil, false)

	m, cmd := send(m, key(tea.KeyEnter))
	if m.submitted || cmd != nil {
		t.Fatal("enter should be ignored without a template")
	}

	m, _ = send(m, runes("4"), key(tea.KeyTab), runes("4"))
	m, cmd = send(m, key(tea.KeyEnter))
	if !m.submitted || cmd == nil {
		t.Fatal("enter should submit a valid template")
	}
	if m.View() != "" {
		t.Error("view should be cleared after submit")
	}
}

func TestFormOversized(t *testing.T) {
	c := render.NewCanvas()
	rendered := false
	m := newFormModel(c, func(dims.Dimensions) tea.Cmd {
		rendered = true
		return nil
	}, false)

	m, _ = send(m, runes("9999"), key(tea.KeyTab), runes("1"))
	if rendered {
		t.Error("oversized template should not be rendered")
	}
	if c.Current() != nil {
		t.Error("oversized template should clear the surface")
	}
	if !strings.Contains(m.View(), "too large") {
		t.Errorf("view should report the size limit:\n%s", m.View())
	}

	m, cmd := send(m, key(tea.KeyEnter))
	if m.submitted || cmd != nil {
		t.Error("enter should be ignored for an oversized template")
	}
}

func TestFormInvalidEditAdvancesGeneration(t *testing.T) {
	c := render.NewCanvas()
	m := newFormModel(c, nil, false)

	m, _ = send(m, runes("0"))
	if c.Generation() != 1 {
		t.Errorf("Generation() = %d, want 1", c.Generation())
	}
	if !strings.Contains(m.View(), "Enter a width and height") {
		t.Errorf("view should prompt for dimensions:\n%s", m.View())
	}
}

func TestFormDropsStalePreview(t *testing.T) {
	c := render.NewCanvas()
	m := newFormModel(c, func(dims.Dimensions) tea.Cmd { return nil }, false)
	m, _ = send(m, runes("5"), key(tea.KeyTab), runes("3"))

	if _, err := c.Next(dims.Dimensions{Width: 5, Height: 3}); err != nil {
		t.Fatal(err)
	}
	stale := c.Generation()
	if _, err := c.Next(dims.Dimensions{Width: 5, Height: 3}); err != nil {
		t.Fatal(err)
	}

	m, _ = send(m, previewMsg{generation: stale, text: "old"})
	if m.preview != "" {
		t.Errorf("stale preview applied: %q", m.preview)
	}
	m, _ = send(m, previewMsg{generation: c.Generation(), text: "new"})
	if m.preview != "new" {
		t.Errorf("preview = %q, want %q", m.preview, "new")
	}
}

func TestPreviewRenderer(t *testing.T) {
	cfg := config.Default()
	p := cfg.Profiles[config.ProfileDefault]
	p.Logo = ""

	c := render.NewCanvas()
	r := pipeline.NewRunner(nil, nil, cfg, log.NewWithOptions(io.Discard, log.Options{}))
	m := newFormModel(c, previewRenderer(context.Background(), r, c, p), true)

	m, cmd := send(m, runes("2"), key(tea.KeyTab), runes("2"))
	if cmd == nil {
		t.Fatal("a valid edit should start a render")
	}
	m, _ = send(m, cmd())

	if m.renderErr != nil {
		t.Fatalf("render failed: %v", m.renderErr)
	}
	if !strings.Contains(m.preview, "█") {
		t.Errorf("preview should draw the grid:\n%s", m.preview)
	}
	if !m.fallback {
		t.Error("preview without a logo should use text branding")
	}
	if !strings.Contains(m.View(), "tiled: 1 page(s)") {
		t.Errorf("view should show the page count:\n%s", m.View())
	}
}

func TestTextPreview(t *testing.T) {
	img := imaging.New(100, 50, color.White)
	for x := 0; x < 100; x++ {
		img.Set(x, 0, color.Black)
		img.Set(x, 1, color.Black)
	}
	got := textPreview(image.Image(img), 10)
	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("preview has %d rows, want 2:\n%s", len(lines), got)
	}
	if strings.TrimSpace(lines[1]) != "" {
		t.Errorf("bottom row should be blank, got %q", lines[1])
	}
}
