package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/yildizm/SentiDash/internal/common"
	"github.com/yildizm/SentiDash/internal/formatter"
	"github.com/yildizm/SentiDash/internal/history"
	"github.com/yildizm/SentiDash/internal/viewmodel"
)

type historyFlags struct {
	sentiment string
	category  string
	page      int
	pageSize  int
	cached    bool
}

func newHistoryCommand(g *globals) *cobra.Command {
	flags := historyFlags{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List, filter and manage the review history",
		Long: `List the review history held by the sentiment server, newest first.

When the server is unreachable or has no reviews, the built-in sample set is
shown instead. Every successful load refreshes the local snapshot cache,
which --cached reads without contacting the server.

Examples:
  sentidash history
  sentidash history --sentiment Negative --category Books
  sentidash history --page 2 --page-size 20
  sentidash history --cached -o csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, g, flags)
		},
	}

	cmd.Flags().StringVar(&flags.sentiment, "sentiment", "", "only Positive or Negative reviews")
	cmd.Flags().StringVar(&flags.category, "category", "", "only reviews of this category")
	cmd.Flags().IntVar(&flags.page, "page", 1, "page number")
	cmd.Flags().IntVar(&flags.pageSize, "page-size", 0, "reviews per page (default: history.page_size)")
	cmd.Flags().BoolVar(&flags.cached, "cached", false, "read the local snapshot instead of the server")

	cmd.AddCommand(newHistoryDeleteCommand(g))
	cmd.AddCommand(newHistoryClearCommand(g))
	cmd.AddCommand(newHistoryExportCommand(g))

	return cmd
}

func parseCriteria(sentiment, category string) (history.Criteria, error) {
	c := history.Criteria{Category: category}
	if sentiment != "" && sentiment != "all" {
		s, ok := common.ParseSentiment(sentiment)
		if !ok {
			return c, fmt.Errorf("invalid sentiment %q: must be Positive or Negative", sentiment)
		}
		c.Sentiment = s
	}
	return c, nil
}

// loadHistory fills a history view-model from the server or the snapshot
func (g *globals) loadHistory(ctx context.Context, s *session, cached bool, opts ...viewmodel.HistoryOption) (*viewmodel.History, history.Source, error) {
	if cached {
		snap, err := g.openCache()
		if err != nil {
			return nil, "", err
		}
		defer func() { _ = snap.Close() }()

		records, savedAt, err := snap.Load(ctx)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read history snapshot: %w", err)
		}
		g.logger.Info("using snapshot saved at %s", savedAt.Format(time.RFC3339))
		s.store.Replace(records)
		return viewmodel.NewHistory(s.client, s.deps, opts...), history.SourceCache, nil
	}

	loader, closeCache := g.loader(s)
	defer closeCache()

	vm := viewmodel.NewHistory(s.client, s.deps, append(opts, viewmodel.WithLoader(loader))...)
	vm.Load(ctx)
	return vm, vm.Source(), nil
}

func runHistory(cmd *cobra.Command, g *globals, flags historyFlags) error {
	criteria, err := parseCriteria(flags.sentiment, flags.category)
	if err != nil {
		return err
	}
	pageSize := flags.pageSize
	if pageSize <= 0 {
		pageSize = g.cfg.History.PageSize
	}

	s, err := g.newSession(cmd, false)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	vm, source, err := g.loadHistory(ctx, s, flags.cached, viewmodel.WithPageSize(pageSize))
	if err != nil {
		return err
	}
	vm.SetCriteria(criteria)
	vm.GoTo(flags.page)

	return g.writeReport(cmd, &formatter.Report{
		Title: "Review History",
		History: &formatter.HistorySection{
			Records:  vm.Filtered(),
			Page:     vm.Page(),
			Summary:  vm.Summary(),
			Criteria: criteria,
			Source:   source,
		},
	})
}

func newHistoryDeleteCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one review",
		Long: `Delete one review on the server and from the local snapshot.

Examples:
  sentidash history delete 42`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.newSession(cmd, false)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()

			id := common.ID(args[0])
			vm := viewmodel.NewHistory(s.client, s.deps)
			if err := vm.Delete(ctx, id); err != nil {
				return err
			}
			g.updateSnapshot(ctx, func(snapCtx context.Context, snap snapshotWriter) error {
				return snap.Delete(snapCtx, id)
			})
			return nil
		},
	}
}

func newHistoryClearCommand(g *globals) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every review",
		Long: `Delete the whole review history on the server and empty the local snapshot.

Examples:
  sentidash history clear --yes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear the history without --yes")
			}
			s, err := g.newSession(cmd, false)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()

			vm := viewmodel.NewHistory(s.client, s.deps)
			if err := vm.Clear(ctx); err != nil {
				return err
			}
			g.updateSnapshot(ctx, func(snapCtx context.Context, snap snapshotWriter) error {
				return snap.Clear(snapCtx)
			})
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm clearing the history")
	return cmd
}

func newHistoryExportCommand(g *globals) *cobra.Command {
	flags := historyFlags{}

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export the review history as CSV",
		Long: `Write the filtered review history as CSV. Use "-" for stdout.

Examples:
  sentidash history export
  sentidash history export reviews.csv --sentiment Positive
  sentidash history export - --cached`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := history.DefaultExportName
			if len(args) == 1 {
				path = args[0]
			}
			return runHistoryExport(cmd, g, flags, path)
		},
	}

	cmd.Flags().StringVar(&flags.sentiment, "sentiment", "", "only Positive or Negative reviews")
	cmd.Flags().StringVar(&flags.category, "category", "", "only reviews of this category")
	cmd.Flags().BoolVar(&flags.cached, "cached", false, "export the local snapshot instead of the server history")

	return cmd
}

func runHistoryExport(cmd *cobra.Command, g *globals, flags historyFlags, path string) (err error) {
	criteria, err := parseCriteria(flags.sentiment, flags.category)
	if err != nil {
		return err
	}

	s, err := g.newSession(cmd, false)
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	vm, _, err := g.loadHistory(ctx, s, flags.cached)
	if err != nil {
		return err
	}
	vm.SetCriteria(criteria)

	if path == "-" {
		return vm.Export(cmd.OutOrStdout())
	}

	// #nosec G304 - path is chosen by the user
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := vm.Export(f); err != nil {
		return fmt.Errorf("failed to export history: %w", err)
	}
	s.notifier.Success(fmt.Sprintf("Exported %d reviews to %s", len(vm.Filtered()), path))
	return nil
}

// snapshotWriter is the part of the cache a mutation touches
type snapshotWriter interface {
	Delete(ctx context.Context, id common.ID) error
	Clear(ctx context.Context) error
}

// updateSnapshot mirrors a server mutation into the snapshot cache. A
// missing or broken cache is only logged.
func (g *globals) updateSnapshot(ctx context.Context, apply func(context.Context, snapshotWriter) error) {
	snap, err := g.openCache()
	if err != nil {
		g.logger.Debug("snapshot not updated: %v", err)
		return
	}
	defer func() { _ = snap.Close() }()

	if err := apply(ctx, snap); err != nil {
		g.logger.Warn("failed to update history snapshot: %v", err)
	}
}
