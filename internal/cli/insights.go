package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yildizm/SentiDash/internal/formatter"
	"github.com/yildizm/SentiDash/internal/insights"
	"github.com/yildizm/SentiDash/internal/viewmodel"
)

type insightsFlags struct {
	category    string
	days        string
	rating      string
	granularity string
	remote      bool
	cached      bool
}

func newInsightsCommand(g *globals) *cobra.Command {
	flags := insightsFlags{}

	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Aggregate sentiment by category, rating and time",
		Long: `Compute sentiment insights over the review history.

Shows the positive/negative split, the category and rating distributions and
a time-bucketed trend for the selected filters. --remote also fetches the
series computed by the server.

Examples:
  sentidash insights
  sentidash insights --category Electronics --days 90 --granularity week
  sentidash insights --rating 1 --days all
  sentidash insights --remote -o markdown`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInsights(cmd, g, flags)
		},
	}

	cmd.Flags().StringVar(&flags.category, "category", "", "only reviews of this category")
	cmd.Flags().StringVar(&flags.days, "days", "", "time range in days, or all (default: insights.days)")
	cmd.Flags().StringVar(&flags.rating, "rating", "all", "only reviews with this star rating, or all")
	cmd.Flags().StringVar(&flags.granularity, "granularity", "", "trend buckets: day, week or month (default: insights.granularity)")
	cmd.Flags().BoolVar(&flags.remote, "remote", false, "include the server's own insights")
	cmd.Flags().BoolVar(&flags.cached, "cached", false, "use the local snapshot instead of the server history")

	return cmd
}

func (g *globals) insightsFilters(flags insightsFlags) (viewmodel.InsightsFilters, error) {
	f := viewmodel.DefaultInsightsFilters()
	f.Category = flags.category
	f.Days = g.cfg.Insights.Days

	if flags.days != "" {
		days, err := viewmodel.ParseChoice(flags.days)
		if err != nil {
			return f, fmt.Errorf("invalid --days: %w", err)
		}
		f.Days = days
	}

	rating, err := viewmodel.ParseChoice(flags.rating)
	if err != nil {
		return f, fmt.Errorf("invalid --rating: %w", err)
	}
	if rating > 5 {
		return f, fmt.Errorf("invalid --rating %d: must be 1-5 or all", rating)
	}
	f.Rating = rating

	granularity := flags.granularity
	if granularity == "" {
		granularity = g.cfg.Insights.Granularity
	}
	if f.Granularity, err = insights.ParseGranularity(granularity); err != nil {
		return f, err
	}
	return f, nil
}

func runInsights(cmd *cobra.Command, g *globals, flags insightsFlags) error {
	filters, err := g.insightsFilters(flags)
	if err != nil {
		return err
	}

	s, err := g.newSession(cmd, false)
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	if _, _, err := g.loadHistory(ctx, s, flags.cached); err != nil {
		return err
	}

	vm := viewmodel.NewInsights(s.client, s.deps)
	vm.SetFilters(filters)
	agg := vm.Refresh()

	section := &formatter.InsightsSection{
		Aggregate:   agg,
		Direction:   vm.Direction(),
		Filter:      filters.Filter,
		Granularity: filters.Granularity,
	}
	if flags.remote {
		if err := vm.LoadRemote(ctx); err != nil {
			return err
		}
		if remote, ok := vm.Remote(); ok {
			section.Remote = &remote
		}
	}

	return g.writeReport(cmd, &formatter.Report{Title: "Sentiment Insights", Insights: section})
}
