package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/shadowboard/shadowboard/pkg/cache"
	"github.com/shadowboard/shadowboard/pkg/config"
	"github.com/shadowboard/shadowboard/pkg/dims"
	"github.com/shadowboard/shadowboard/pkg/errors"
	"github.com/shadowboard/shadowboard/pkg/observability"
	"github.com/shadowboard/shadowboard/pkg/render"
	"github.com/shadowboard/shadowboard/pkg/tile"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner keeps no per-run state: every Execute renders on its own
// canvas, so multiple goroutines can share one Runner.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Config *config.Config
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// uses the default keyer and a nil config uses the built-in defaults.
func NewRunner(c cache.Cache, keyer cache.Keyer, cfg *config.Config, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Config: cfg, Logger: logger}
}

// Execute runs normalize → render → export with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	name, profile, err := r.Config.Active(opts.Profile)
	if err != nil {
		return nil, err
	}
	if opts.NeedsTiling() && !profile.TiledPrinting {
		return nil, errors.New(errors.ErrCodeUnsupported, "tiled printing is disabled for profile %q", name)
	}

	// Stage 1: Normalize
	d := dims.Normalize(opts.Input)
	if !d.Valid() {
		opts.Logger.Debug("no template for input", "width", d.Width, "height", d.Height)
		return &Result{Dims: d, Empty: true}, nil
	}
	if err := dims.CheckExtent(d); err != nil {
		return nil, err
	}

	result := &Result{
		Dims:      d,
		Profile:   name,
		Artifacts: make(map[string][]byte),
	}
	if opts.NeedsTiling() {
		result.Layout = tile.Plan(d)
	}

	keys := make(map[string]string, len(opts.Formats))
	for _, format := range opts.Formats {
		keys[format] = r.Keyer.ArtifactKey(cache.ArtifactKeyOpts{
			Dims:    d,
			Profile: name,
			Format:  format,
			Logo:    profile.Logo,
		})
	}

	if !opts.Refresh {
		r.readCache(ctx, opts.Formats, keys, result)
		if len(result.Artifacts) == len(opts.Formats) {
			result.CacheInfo.RenderHit = true
			opts.Logger.Info("served from cache", "formats", opts.Formats)
			return result, nil
		}
	}

	// Stage 2: Render
	frame, err := r.Render(ctx, render.NewCanvas(), d, profile, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Branding = frame.Branding
	result.Stats.RenderTime = frame.RenderTime
	result.Stats.BrandingTime = frame.BrandingTime

	opts.Logger.Info("rendered template",
		"dims", d.String(),
		"generation", frame.Generation,
		"fallback", frame.Branding.Fallback,
		"duration", frame.RenderTime+frame.BrandingTime)

	// Stage 3: Export
	exportStart := time.Now()
	var pending []string
	for _, format := range opts.Formats {
		if _, ok := result.Artifacts[format]; !ok {
			pending = append(pending, format)
		}
	}
	artifacts, err := Export(ctx, frame, result.Layout, profile.Branding(), pending)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	result.Stats.ExportTime = time.Since(exportStart)

	for format, data := range artifacts {
		result.Artifacts[format] = data
		if err := r.Cache.Set(ctx, keys[format], data, r.Config.Cache.TTL.Duration); err != nil {
			opts.Logger.Warn("cache write failed", "format", format, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, format, len(data))
	}

	opts.Logger.Info("exported outputs",
		"formats", pending,
		"duration", result.Stats.ExportTime)

	return result, nil
}

func (r *Runner) readCache(ctx context.Context, formats []string, keys map[string]string, result *Result) {
	for _, format := range formats {
		data, hit, err := r.Cache.Get(ctx, keys[format])
		if err != nil {
			r.Logger.Debug("cache read failed", "format", format, "err", err)
		}
		if err != nil || !hit {
			observability.Cache().OnCacheMiss(ctx, format)
			continue
		}
		observability.Cache().OnCacheHit(ctx, format)
		result.Artifacts[format] = data
		result.CacheInfo.Hits = append(result.CacheInfo.Hits, format)
	}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
