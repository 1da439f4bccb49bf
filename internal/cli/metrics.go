package cli

import (
	"github.com/spf13/cobra"

	"github.com/yildizm/SentiDash/internal/formatter"
	"github.com/yildizm/SentiDash/internal/viewmodel"
)

func newMetricsCommand(g *globals) *cobra.Command {
	var cached bool

	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Show the dashboard metric cards",
		Long: `Show total, positive and negative review counts and the category split.

Metrics come from the server; when it cannot answer they are computed from
the review history instead. Client request statistics per endpoint are
included in the report.

Examples:
  sentidash metrics
  sentidash metrics -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.newSession(cmd, false)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()

			if _, _, err := g.loadHistory(ctx, s, cached); err != nil {
				return err
			}

			dash := viewmodel.NewDashboard(s.client, s.deps)
			metrics, origin := dash.LoadMetrics(ctx)

			return g.writeReport(cmd, &formatter.Report{
				Title: "Dashboard Metrics",
				Metrics: &formatter.MetricsSection{
					Metrics:  metrics,
					Origin:   string(origin),
					Requests: s.client.Registry().Snapshot().Endpoints,
				},
			})
		},
	}

	cmd.Flags().BoolVar(&cached, "cached", false, "compute fallback metrics from the local snapshot")
	return cmd
}

func newModelCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "model",
		Short: "Show sentiment model information",
		Long: `Show the metadata the server reports about its sentiment model.

Examples:
  sentidash model
  sentidash model -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.newSession(cmd, false)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()

			res := s.client.ModelInfo(ctx)
			if !res.Success {
				return res.Err()
			}
			return g.writeReport(cmd, &formatter.Report{Title: "Model Information", Model: res.Data})
		},
	}
}
