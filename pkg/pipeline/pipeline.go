// Package pipeline provides the template pipeline shared by the CLI and
// the HTTP server.
//
// # Architecture
//
// One run goes through three stages:
//
//  1. Normalize: convert the raw input fields to inches
//  2. Render: draw the grid, then wait for the branding overlay
//  3. Export: encode the snapshot in every requested format
//
// Dimensions that do not describe a template end the run after stage 1
// with Result.Empty set; that is not an error.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, cfg, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:   dims.Input{Mode: dims.ModeDecimal, Width: "5", Height: "3"},
//	    Formats: []string{pipeline.FormatPNG},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	png := result.Artifacts[pipeline.FormatPNG]
package pipeline

import (
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/shadowboard/shadowboard/pkg/dims"
	"github.com/shadowboard/shadowboard/pkg/errors"
	"github.com/shadowboard/shadowboard/pkg/render/brand"
	"github.com/shadowboard/shadowboard/pkg/tile"
)

// Format constants for output formats.
const (
	FormatPNG       = "png"
	FormatHTML      = "html"
	FormatPDF       = "pdf"
	FormatTiledHTML = "tiled-html"
	FormatTiledPDF  = "tiled-pdf"
)

// Formats lists the supported output formats.
var Formats = []string{FormatPNG, FormatHTML, FormatPDF, FormatTiledHTML, FormatTiledPDF}

// DefaultFormat is used when no format is requested.
const DefaultFormat = FormatPNG

// DefaultBrandingTimeout bounds how long a run waits for the logo before
// exporting with the text fallback.
const DefaultBrandingTimeout = 10 * time.Second

// IsTiled reports whether format needs the tiled printing feature.
func IsTiled(format string) bool {
	return format == FormatTiledHTML || format == FormatTiledPDF
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	Input dims.Input `json:"input"`

	// Profile names the branding profile; empty means the configured one.
	Profile string   `json:"profile,omitempty"`
	Formats []string `json:"formats,omitempty"`

	// Refresh skips cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`

	// BrandingTimeout bounds the wait for the branding overlay.
	BrandingTimeout time.Duration `json:"-"`

	// Loader overrides the logo loader of the profile.
	Loader brand.Loader `json:"-"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Dims are the normalized dimensions.
	Dims dims.Dimensions

	// Empty is true when Dims do not describe a template. No other field
	// is populated then.
	Empty bool

	// Profile is the resolved branding profile name.
	Profile string

	// Branding reports how the overlay completed. It is zero when every
	// artifact came from cache.
	Branding brand.Completion

	// Layout is the page grid used by tiled formats.
	Layout tile.Layout

	// Artifacts contains the outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	RenderTime   time.Duration
	BrandingTime time.Duration
	ExportTime   time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	// Hits lists the formats served from cache.
	Hits []string
	// RenderHit is true when every artifact came from cache and nothing
	// was rendered.
	RenderHit bool
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !slices.Contains(Formats, format) {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %v)", format, Formats)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and applies defaults.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	mode, err := dims.ParseMode(string(o.Input.Mode))
	if err != nil {
		return err
	}
	o.Input.Mode = mode
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	o.Formats = dedupe(o.Formats)
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Profile != "" {
		if err := errors.ValidateProfileName(o.Profile); err != nil {
			return err
		}
	}
	if o.BrandingTimeout <= 0 {
		o.BrandingTimeout = DefaultBrandingTimeout
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// NeedsTiling reports whether any requested format is tiled.
func (o *Options) NeedsTiling() bool {
	return slices.ContainsFunc(o.Formats, IsTiled)
}

func dedupe(formats []string) []string {
	out := make([]string, 0, len(formats))
	for _, f := range formats {
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}
