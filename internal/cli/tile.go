package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shadowboard/shadowboard/pkg/dims"
	"github.com/shadowboard/shadowboard/pkg/errors"
	"github.com/shadowboard/shadowboard/pkg/tile"
)

// tileCommand creates the tile command, which plans the Letter-page
// split without rendering anything.
func (c *CLI) tileCommand() *cobra.Command {
	var (
		in      inputFlags
		profile string
	)

	cmd := &cobra.Command{
		Use:   "tile",
		Short: "Show how a template splits across Letter pages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := in.input()
			if err != nil {
				return err
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			name, p, err := cfg.Active(profile)
			if err != nil {
				return err
			}
			if !p.TiledPrinting {
				return errors.New(errors.ErrCodeUnsupported, "tiled printing is disabled for profile %q", name)
			}

			d := dims.Normalize(raw)
			if !d.Valid() {
				printWarning("No template: width and height must both be greater than zero")
				return nil
			}
			if err := dims.CheckExtent(d); err != nil {
				return err
			}
			l := tile.Plan(d)
			g := tile.NewGuide(l)

			fmt.Fprintln(stdout, StyleTitle.Render("Tiled printing"))
			printKeyValue("Template", d.String())
			printKeyValue("Pages", fmt.Sprintf("%d across x %d down (%d total)", l.PagesX, l.PagesY, l.Total()))
			printKeyValue("Paper", fmt.Sprintf("Letter, %g\" margins", tile.PaperMargin))
			fmt.Fprintln(stdout)
			fmt.Fprintln(stdout, renderPageGrid(g))
			fmt.Fprintln(stdout)
			for i, step := range g.Instructions {
				printDetail("%d. %s", i+1, step)
			}
			fmt.Fprintln(stdout)
			printNextStep("Print it", fmt.Sprintf("%s print --tiled -W %g -H %g", appName, d.Width, d.Height))
			return nil
		},
	}

	in.register(cmd)
	cmd.Flags().StringVarP(&profile, "profile", "p", "", "branding profile (default from config)")
	return cmd
}
