package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/shadowboard/shadowboard/pkg/pipeline"
)

// printCommand creates the print command. It writes a print document to
// a scratch directory and opens it; the HTML variant starts the browser's
// print dialog on load.
func (c *CLI) printCommand() *cobra.Command {
	var (
		opts  generateOpts
		tiled bool
		pdf   bool
	)

	cmd := &cobra.Command{
		Use:   "print",
		Short: "Open a print-ready template in the browser",
		Long: `Render the template into a print document and open it.

By default the template is printed on a single page sized to the template.
With --tiled it is split across Letter pages with an assembly guide.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := opts.input()
			if err != nil {
				return err
			}
			format := printFormat(tiled, pdf)
			if opts.output == "" {
				opts.output = filepath.Join(os.TempDir(), appName)
			}
			opts.open = true
			return c.runGenerate(cmd.Context(), in, []string{format}, opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().BoolVar(&tiled, "tiled", false, "split across Letter pages")
	cmd.Flags().BoolVar(&pdf, "pdf", false, "print from a PDF instead of HTML")
	cmd.Flags().StringVarP(&opts.profile, "profile", "p", "", "branding profile (default from config)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "directory for the print document (default a temp dir)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}

func printFormat(tiled, pdf bool) string {
	switch {
	case tiled && pdf:
		return pipeline.FormatTiledPDF
	case tiled:
		return pipeline.FormatTiledHTML
	case pdf:
		return pipeline.FormatPDF
	}
	return pipeline.FormatHTML
}
