package cli

import (
	"github.com/spf13/cobra"

	"github.com/yildizm/SentiDash/internal/stubserver"
)

func newStubCommand(g *globals) *cobra.Command {
	var (
		addr   string
		noSeed bool
	)

	cmd := &cobra.Command{
		Use:   "stub",
		Short: "Run an in-memory sentiment server for development",
		Long: `Run a development server that answers every endpoint the dashboard uses.

Reviews are kept in memory and classified with a fixed word list, so the
dashboard and CLI can be tried without the real model server.

Examples:
  sentidash stub
  sentidash stub --addr :8080 --no-seed
  sentidash --server http://localhost:8080 dashboard`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()

			server := stubserver.New(stubserver.Config{
				Addr:   addr,
				Seed:   !noSeed,
				Logger: g.logger,
			})
			g.logger.Warn("stub server on %s, classification is a fixed word list", addr)
			return server.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "localhost:5000", "listen address")
	cmd.Flags().BoolVar(&noSeed, "no-seed", false, "start with an empty history")

	return cmd
}
