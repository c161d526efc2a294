package cli

import (
	"context"
	"errors"
	"fmt"
	"image"
	"slices"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"

	"github.com/shadowboard/shadowboard/pkg/config"
	"github.com/shadowboard/shadowboard/pkg/dims"
	"github.com/shadowboard/shadowboard/pkg/export"
	"github.com/shadowboard/shadowboard/pkg/pipeline"
	"github.com/shadowboard/shadowboard/pkg/render"
	"github.com/shadowboard/shadowboard/pkg/tile"
)

var (
	formLabelStyle   = lipgloss.NewStyle().Foreground(colorGray).Width(14)
	formFocusStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	formValueStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	formPreviewStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
)

// previewColumns is the width of the text preview in terminal cells.
const previewColumns = 48

// =============================================================================
// Form fields
// =============================================================================

// fieldKind says how a field accepts input.
type fieldKind int

const (
	fieldNumber fieldKind = iota // free-form digits and a decimal point
	fieldChoice                  // cycles through dims.Denominators
)

type formField struct {
	label string
	kind  fieldKind
	value string
}

func fieldsFor(mode dims.Mode) []formField {
	switch mode {
	case dims.ModeFraction:
		den := strconv.Itoa(dims.Denominators[len(dims.Denominators)-1])
		return []formField{
			{label: "Width (in)", kind: fieldNumber},
			{label: "  numerator", kind: fieldNumber},
			{label: "  denominator", kind: fieldChoice, value: den},
			{label: "Height (in)", kind: fieldNumber},
			{label: "  numerator", kind: fieldNumber},
			{label: "  denominator", kind: fieldChoice, value: den},
		}
	case dims.ModeMetric:
		return []formField{
			{label: "Width (mm)", kind: fieldNumber},
			{label: "Height (mm)", kind: fieldNumber},
		}
	}
	return []formField{
		{label: "Width (in)", kind: fieldNumber},
		{label: "Height (in)", kind: fieldNumber},
	}
}

// =============================================================================
// formModel - interactive dimension entry
// =============================================================================

// previewMsg carries a finished background render.
type previewMsg struct {
	generation uint64
	text       string
	fallback   bool
	err        error
}

// renderFunc renders d on the form's canvas in the background.
type renderFunc func(d dims.Dimensions) tea.Cmd

// formModel is the bubbletea model for the form command. Every edit
// starts a new canvas generation; previews that finish after a newer
// edit are dropped.
type formModel struct {
	mode   dims.Mode
	fields []formField
	focus  int

	canvas *render.Canvas
	render renderFunc
	tiled  bool

	dims      dims.Dimensions
	preview   string
	fallback  bool
	renderErr error

	submitted bool
	quitting  bool
}

func newFormModel(canvas *render.Canvas, fn renderFunc, tiled bool) formModel {
	return formModel{
		mode:   dims.ModeDecimal,
		fields: fieldsFor(dims.ModeDecimal),
		canvas: canvas,
		render: fn,
		tiled:  tiled,
	}
}

// input converts the field values to the raw input of the current mode.
func (m formModel) input() dims.Input {
	in := dims.Input{Mode: m.mode}
	if m.mode == dims.ModeFraction {
		in.WidthFraction = dims.Fraction{Whole: m.fields[0].value, Numerator: m.fields[1].value, Denominator: m.fields[2].value}
		in.HeightFraction = dims.Fraction{Whole: m.fields[3].value, Numerator: m.fields[4].value, Denominator: m.fields[5].value}
		return in
	}
	in.Width = m.fields[0].value
	in.Height = m.fields[1].value
	return in
}

func (m formModel) Init() tea.Cmd {
	return nil
}

func (m formModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case previewMsg:
		if msg.generation != m.canvas.Generation() {
			return m, nil
		}
		m.preview, m.fallback, m.renderErr = msg.text, msg.fallback, msg.err
		return m, nil

	case tea.KeyMsg:
		m.fields = slices.Clone(m.fields)
		f := &m.fields[m.focus]
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			if !m.dims.Valid() || dims.CheckExtent(m.dims) != nil {
				return m, nil
			}
			m.submitted = true
			return m, tea.Quit
		case "tab", "down":
			m.focus = (m.focus + 1) % len(m.fields)
			return m, nil
		case "shift+tab", "up":
			m.focus = (m.focus + len(m.fields) - 1) % len(m.fields)
			return m, nil
		case "ctrl+t":
			m.mode = nextMode(m.mode)
			m.fields = fieldsFor(m.mode)
			m.focus = 0
		case "left", "right":
			if f.kind != fieldChoice {
				return m, nil
			}
			f.value = cycleDenominator(f.value, msg.String() == "right")
		case "backspace":
			if f.kind != fieldNumber || f.value == "" {
				return m, nil
			}
			f.value = f.value[:len(f.value)-1]
		default:
			if f.kind != fieldNumber || msg.Type != tea.KeyRunes || !numeric(msg.Runes) {
				return m, nil
			}
			f.value += string(msg.Runes)
		}
		return m.edited()
	}
	return m, nil
}

// edited re-normalizes the input and starts a new render generation.
func (m formModel) edited() (tea.Model, tea.Cmd) {
	m.dims = dims.Normalize(m.input())
	m.preview, m.fallback, m.renderErr = "", false, nil
	if !m.dims.Valid() {
		// Advancing the generation clears the surface and drops any
		// render still in flight.
		_, _ = m.canvas.Next(m.dims)
		return m, nil
	}
	if err := dims.CheckExtent(m.dims); err != nil {
		_, _ = m.canvas.Next(m.dims)
		m.renderErr = err
		return m, nil
	}
	if m.render == nil {
		return m, nil
	}
	return m, m.render(m.dims)
}

func (m formModel) View() string {
	if m.quitting || m.submitted {
		return ""
	}
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Shadowboard Template"))
	b.WriteString("  ")
	b.WriteString(StyleDim.Render("mode: " + string(m.mode)))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("tab/↑/↓ field  ←/→ denominator  ctrl+t units  ⏎ generate  esc quit"))
	b.WriteString("\n\n")

	for i, f := range m.fields {
		label := formLabelStyle.Render(f.label)
		value := f.value
		if f.kind == fieldChoice {
			value = "‹ " + value + " ›"
		}
		if i == m.focus {
			b.WriteString(formFocusStyle.Render("▸ ") + label + formFocusStyle.Render(value+"_"))
		} else {
			b.WriteString("  " + label + formValueStyle.Render(value))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if !m.dims.Valid() {
		b.WriteString(StyleDim.Render("Enter a width and height to preview the template."))
		b.WriteString("\n")
		return b.String()
	}

	w, h := render.SurfaceSize(m.dims)
	b.WriteString(StyleValue.Render(m.dims.String()))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %.1f x %.1f mm  %dx%d px",
		dims.ToMillimeters(m.dims.Width), dims.ToMillimeters(m.dims.Height), w, h)))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("file: " + export.Filename(m.dims)))
	if m.tiled {
		b.WriteString(StyleDim.Render(fmt.Sprintf("  tiled: %d page(s)", tile.Plan(m.dims).Total())))
	}
	b.WriteString("\n")

	switch {
	case m.renderErr != nil:
		b.WriteString(StyleWarning.Render("preview failed: " + m.renderErr.Error()))
	case m.preview == "":
		b.WriteString(StyleDim.Render("rendering..."))
	default:
		b.WriteString(formPreviewStyle.Render(m.preview))
		if m.fallback {
			b.WriteString("\n" + StyleDim.Render("logo unavailable, text branding"))
		}
	}
	b.WriteString("\n")
	return b.String()
}

func nextMode(m dims.Mode) dims.Mode {
	for i, mode := range dims.Modes {
		if mode == m {
			return dims.Modes[(i+1)%len(dims.Modes)]
		}
	}
	return dims.ModeDecimal
}

func cycleDenominator(value string, forward bool) string {
	n := len(dims.Denominators)
	for i, d := range dims.Denominators {
		if strconv.Itoa(d) != value {
			continue
		}
		if forward {
			return strconv.Itoa(dims.Denominators[(i+1)%n])
		}
		return strconv.Itoa(dims.Denominators[(i+n-1)%n])
	}
	return strconv.Itoa(dims.Denominators[0])
}

func numeric(rs []rune) bool {
	for _, r := range rs {
		if (r < '0' || r > '9') && r != '.' {
			return false
		}
	}
	return len(rs) > 0
}

// textPreview draws img cols cells wide, shading each cell by the darkest
// pixel it covers so one-pixel grid lines survive the downscale. Terminal
// cells are about twice as tall as wide.
func textPreview(img image.Image, cols int) string {
	gray := imaging.Grayscale(img)
	w, h := gray.Bounds().Dx(), gray.Bounds().Dy()
	cols = min(cols, w)
	rows := max(1, cols*h/w/2)

	var sb strings.Builder
	for r := 0; r < rows; r++ {
		y0, y1 := r*h/rows, (r+1)*h/rows
		for c := 0; c < cols; c++ {
			x0, x1 := c*w/cols, (c+1)*w/cols
			darkest := uint8(255)
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					darkest = min(darkest, gray.Pix[y*gray.Stride+x*4])
				}
			}
			switch {
			case darkest < 96:
				sb.WriteRune('█')
			case darkest < 200:
				sb.WriteRune('░')
			default:
				sb.WriteByte(' ')
			}
		}
		if r < rows-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// =============================================================================
// Command
// =============================================================================

// formCommand creates the interactive form command.
func (c *CLI) formCommand() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "form",
		Short: "Enter dimensions interactively with a live preview",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := parseFormats(opts.formats)
			if err := pipeline.ValidateFormats(formats); err != nil {
				return err
			}
			return c.runForm(cmd.Context(), formats, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s) written on submit")
	cmd.Flags().StringVarP(&opts.profile, "profile", "p", "", "branding profile (default from config)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", ".", "output directory")
	cmd.Flags().BoolVar(&opts.open, "open", false, "open the first written file")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}

func (c *CLI) runForm(ctx context.Context, formats []string, opts generateOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	_, profile, err := cfg.Active(opts.profile)
	if err != nil {
		return err
	}

	// Previews share one canvas and never touch the cache.
	preview := pipeline.NewRunner(nil, nil, cfg, c.Logger)
	canvas := render.NewCanvas()
	m := newFormModel(canvas, previewRenderer(ctx, preview, canvas, profile), profile.TiledPrinting)

	final, err := tea.NewProgram(m, tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("form: %w", err)
	}
	fm := final.(formModel)
	if !fm.submitted {
		printInfo("Cancelled")
		return nil
	}
	return c.runGenerate(ctx, fm.input(), formats, opts)
}

// previewRenderer renders previews in the background on canvas.
func previewRenderer(ctx context.Context, r *pipeline.Runner, canvas *render.Canvas, p config.Profile) renderFunc {
	return func(d dims.Dimensions) tea.Cmd {
		return func() tea.Msg {
			frame, err := r.Render(ctx, canvas, d, p, pipeline.Options{})
			if errors.Is(err, pipeline.ErrSuperseded) {
				return nil
			}
			if err != nil {
				return previewMsg{generation: canvas.Generation(), err: err}
			}
			return previewMsg{
				generation: frame.Generation,
				text:       textPreview(frame.Image, previewColumns),
				fallback:   frame.Branding.Fallback,
			}
		}
	}
}
