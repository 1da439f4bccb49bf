package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/yildizm/SentiDash/internal/api"
	"github.com/yildizm/SentiDash/internal/cache"
	"github.com/yildizm/SentiDash/internal/config"
	"github.com/yildizm/SentiDash/internal/formatter"
	"github.com/yildizm/SentiDash/internal/history"
	"github.com/yildizm/SentiDash/internal/notify"
	"github.com/yildizm/SentiDash/internal/viewmodel"
)

// session is the object graph one command works with
type session struct {
	client   *api.Client
	store    *history.Store
	notifier *notify.Service
	deps     viewmodel.Deps
}

// newSession builds the client, store and notifier. Notifications are
// printed to stderr when quiet is false.
func (g *globals) newSession(cmd *cobra.Command, quiet bool) (*session, error) {
	client, err := api.New(api.Options{
		BaseURL:   g.cfg.Server.BaseURL,
		Timeout:   g.cfg.Server.Timeout,
		RateLimit: g.cfg.Server.RateLimit,
		Burst:     g.cfg.Server.Burst,
		Logger:    g.logger,
	})
	if err != nil {
		return nil, err
	}

	notifier := notify.New(notify.WithDurations(g.cfg.Notifications.Visible, g.cfg.Notifications.Fade))
	if !quiet {
		notifier.Subscribe(g.printNotification(cmd.ErrOrStderr()))
	}

	store := history.New(g.cfg.History.Capacity)
	return &session{
		client:   client,
		store:    store,
		notifier: notifier,
		deps:     viewmodel.Deps{Store: store, Notifier: notifier, Logger: g.logger},
	}, nil
}

// printNotification is the CLI listener of the notification service
func (g *globals) printNotification(w io.Writer) notify.Listener {
	return func(n notify.Notification) {
		icon := g.icons.Get(string(n.Severity))
		fmt.Fprintf(w, "%s %s\n", icon, n.Message)
	}
}

// loader returns a history loader that snapshots into the configured cache
func (g *globals) loader(s *session) (*history.Loader, func()) {
	opts := []history.LoaderOption{history.WithLogger(g.logger)}
	cleanup := func() {}

	if path := config.ExpandPath(g.cfg.History.CachePath); path != "" {
		snap, err := cache.Open(path)
		if err != nil {
			g.logger.Warn("history cache unavailable: %v", err)
		} else {
			opts = append(opts, history.WithSnapshot(snap))
			cleanup = func() {
				if err := snap.Close(); err != nil {
					g.logger.Warn("failed to close history cache: %v", err)
				}
			}
		}
	}
	return history.NewLoader(s.client, s.store, opts...), cleanup
}

// openCache opens the configured snapshot cache
func (g *globals) openCache() (*cache.Snapshot, error) {
	path := config.ExpandPath(g.cfg.History.CachePath)
	if path == "" {
		return nil, fmt.Errorf("history cache is disabled (history.cache_path is empty)")
	}
	return cache.Open(path)
}

// commandContext is cancelled by Ctrl+C or SIGTERM
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

// writeReport renders report in the selected output format
func (g *globals) writeReport(cmd *cobra.Command, report *formatter.Report) error {
	f, err := formatter.New(g.outputFmt, formatter.Options{
		Color:      g.color,
		Emoji:      !g.noEmoji,
		TimeLayout: g.cfg.Output.TimestampFormat,
	})
	if err != nil {
		return err
	}

	if report.GeneratedAt.IsZero() {
		report.GeneratedAt = time.Now()
	}
	out, err := f.Format(report)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}
