package cli

import (
	"net"

	"github.com/spf13/cobra"

	"github.com/shadowboard/shadowboard/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the template form and endpoints over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			if addr == "" {
				addr = runner.Config.Server.Addr
			}
			srv := server.New(runner, c.Logger)
			return srv.ListenAndServe(ctx, addr, func(a net.Addr) {
				printSuccess("Listening on http://%s", a)
				printDetail("Press Ctrl+C to stop")
			})
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (default from config, localhost:8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")
	return cmd
}
