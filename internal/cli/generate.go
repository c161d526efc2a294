package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shadowboard/shadowboard/pkg/dims"
	"github.com/shadowboard/shadowboard/pkg/errors"
	"github.com/shadowboard/shadowboard/pkg/export"
	"github.com/shadowboard/shadowboard/pkg/pipeline"
)

// generateOpts holds the flags for the generate command.
type generateOpts struct {
	inputFlags
	formats string // comma-separated output formats
	profile string // branding profile, empty for the configured one
	output  string // output directory
	open    bool   // open the first written file
	noCache bool
	refresh bool
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Render a grid template to PNG, HTML or PDF",
		Example: `  shadowboard generate -W 5 -H 3
  shadowboard generate -m metric -W 254 -H 127 -f png,pdf
  shadowboard generate -m fraction --width-whole 2 --width-num 3 --width-den 4 --height-whole 1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := opts.input()
			if err != nil {
				return err
			}
			formats := parseFormats(opts.formats)
			if err := pipeline.ValidateFormats(formats); err != nil {
				return err
			}
			if err := errors.ValidateOutputDir(opts.output); err != nil {
				return err
			}
			return c.runGenerate(cmd.Context(), in, formats, opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): png (default), html, pdf, tiled-html, tiled-pdf (comma-separated)")
	cmd.Flags().StringVarP(&opts.profile, "profile", "p", "", "branding profile (default from config)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", ".", "output directory")
	cmd.Flags().BoolVar(&opts.open, "open", false, "open the first written file")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when cached")

	return cmd
}

func (c *CLI) runGenerate(ctx context.Context, in dims.Input, formats []string, opts generateOpts) error {
	logger := loggerFromContext(ctx)
	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	spin := newSpinner(ctx, "Rendering template...")
	spin.start()
	result, err := runner.Execute(ctx, pipeline.Options{
		Input:   in,
		Profile: opts.profile,
		Formats: formats,
		Refresh: opts.refresh,
	})
	spin.stop()
	if err != nil {
		return err
	}
	if result.Empty {
		printWarning("No template: width and height must both be greater than zero")
		return nil
	}
	prog.done(fmt.Sprintf("Rendered %s template", result.Dims))

	paths, err := c.save(ctx, export.FileSaver{Dir: opts.output}, result, formats)
	if err != nil {
		return err
	}

	printSuccess("Generated %s", result.Dims)
	printStats(result.Profile, result.Layout.Total(), result.CacheInfo.RenderHit)
	for _, p := range paths {
		printFile(p)
	}
	if result.Branding.Fallback {
		printDetail("Logo unavailable, used text branding")
	}
	if opts.open && len(paths) > 0 {
		c.opener().Open(paths[0])
	}
	return nil
}

// save writes every artifact of result in format order.
func (c *CLI) save(ctx context.Context, s export.Saver, result *pipeline.Result, formats []string) ([]string, error) {
	base := export.BaseName(result.Dims)
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		path, err := s.Save(ctx, artifactName(base, format), result.Artifacts[format])
		if err != nil {
			return paths, fmt.Errorf("save %s: %w", format, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
