package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/hoverfx/internal/server"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the hover HTTP and WebSocket server",
		Long: `Serve stored figures over HTTP.

Backends are configured from the environment:

  HOVERFX_PORT             listen port (default 8080)
  HOVERFX_REDIS_ADDR       redis for the result cache and hover sessions
  HOVERFX_MONGO_URI        mongodb for figures
  HOVERFX_MONGO_DB         mongodb database (default hoverfx)
  HOVERFX_CACHE_TTL        cached SVG lifetime (default 24h)
  HOVERFX_SESSION_TTL      idle hover session lifetime (default 30m)
  HOVERFX_ALLOWED_ORIGINS  comma-separated CORS origins (default *)

Without redis or mongodb everything is kept in memory.`,
		Example: `  # Serve on the default port with in-memory backends
  hoverfx serve

  # Serve on a specific address with redis sessions
  HOVERFX_REDIS_ADDR=localhost:6379 hoverfx serve --addr 127.0.0.1:9000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config and HOVERFX_PORT)")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string) error {
	cfg, err := server.LoadConfig()
	if err != nil {
		return err
	}
	switch {
	case addr != "":
		cfg.Addr = addr
	case cfg.Addr == "" && c.Config.Serve.Addr != "":
		cfg.Addr = c.Config.Serve.Addr
	}

	srv, err := server.Open(ctx, cfg, c.Logger)
	if err != nil {
		return err
	}
	defer srv.Close(context.Background())

	printInfo("Listening on %s", cfg.ListenAddr())
	return srv.ListenAndServe(ctx)
}
