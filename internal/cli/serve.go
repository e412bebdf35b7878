package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pyfmt/internal/server"
	"github.com/matzehuels/pyfmt/pkg/cache"
	"github.com/matzehuels/pyfmt/pkg/config"
	"github.com/matzehuels/pyfmt/pkg/pipeline"
)

// apiKeyPrefix keeps API cache entries apart from CLI entries when both
// share a Redis.
const apiKeyPrefix = "api:"

// serveOpts holds the flags of the serve command.
type serveOpts struct {
	layout  formatFlags
	addr    string
	noCache bool
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP formatting API",
		Long: `Run the HTTP formatting API.

Endpoints:
  POST /v1/format  {"source": "...", "options": {...}}
  POST /v1/check   {"source": "...", "rules": [...]}
  GET  /healthz

Layout flags and the settings file set the defaults that request options
override. The server stops on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig(nil)
			if err != nil {
				return err
			}
			defaults, err := opts.layout.resolve(cmd, cfg)
			if err != nil {
				return err
			}
			runner, err := c.newServeRunner(ctx, cfg, opts.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			return server.New(runner, c.Logger, server.Config{
				Addr:     opts.addr,
				Defaults: defaults,
			}).Run(ctx)
		},
	}

	opts.layout.register(cmd)
	cmd.Flags().StringVar(&opts.addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")

	return cmd
}

// newServeRunner creates the runner behind the HTTP API.
func (c *CLI) newServeRunner(ctx context.Context, cfg *config.Config, noCache bool) (*pipeline.Runner, error) {
	return c.newRunner(ctx, cfg, noCache, cache.NewScopedKeyer(nil, apiKeyPrefix))
}
