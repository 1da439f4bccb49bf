package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yildizm/SentiDash/internal/config"
	"github.com/yildizm/SentiDash/internal/insights"
	"github.com/yildizm/SentiDash/internal/ui"
	"github.com/yildizm/SentiDash/internal/viewmodel"
)

type dashboardFlags struct {
	theme      string
	exportPath string
}

func newDashboardCommand(g *globals) *cobra.Command {
	flags := dashboardFlags{}

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Start the interactive dashboard",
		Long: `Start the interactive terminal dashboard.

Views: Dashboard, Analyze, History, Insights, Model and Help. Use tab or the
number keys to switch views and ? for the key reference. Logs are written to
logging.file while the dashboard owns the terminal.

Examples:
  sentidash dashboard
  sentidash dashboard --theme high-contrast
  sentidash --server http://10.0.0.5:5000 dashboard`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(cmd, g, flags)
		},
	}

	cmd.Flags().StringVar(&flags.theme, "theme", ui.DefaultTheme.Name,
		"color theme ("+strings.Join(ui.AvailableThemes(), ", ")+")")
	cmd.Flags().StringVar(&flags.exportPath, "export-file", "", "CSV export path for the history view (default: review_history.csv)")

	return cmd
}

func runDashboard(cmd *cobra.Command, g *globals, flags dashboardFlags) error {
	theme, ok := ui.ThemeByName(flags.theme)
	if !ok {
		return fmt.Errorf("unknown theme %q (available: %s)", flags.theme, strings.Join(ui.AvailableThemes(), ", "))
	}

	closeLog, err := g.redirectLogs()
	if err != nil {
		return err
	}
	defer closeLog()

	s, err := g.newSession(cmd, true)
	if err != nil {
		return err
	}
	loader, closeCache := g.loader(s)
	defer closeCache()

	granularity, err := insights.ParseGranularity(g.cfg.Insights.Granularity)
	if err != nil {
		return err
	}
	filters := viewmodel.DefaultInsightsFilters()
	filters.Days = g.cfg.Insights.Days
	filters.Granularity = granularity

	ctx, cancel := commandContext(cmd)
	defer cancel()

	return ui.Run(ctx, ui.Options{
		Backend:        s.client,
		Store:          s.store,
		Notifier:       s.notifier,
		Logger:         g.logger,
		Loader:         loader,
		Emoji:          g.icons,
		Theme:          theme,
		Color:          g.color,
		PageSize:       g.cfg.History.PageSize,
		Filters:        filters,
		ExportPath:     flags.exportPath,
		RequestTimeout: g.cfg.Server.Timeout,
	})
}

// redirectLogs sends log output to logging.file, or discards it, so the
// dashboard screen is not corrupted
func (g *globals) redirectLogs() (func(), error) {
	path := config.ExpandPath(g.cfg.Logging.File)
	if path == "" {
		g.logger.SetOutput(io.Discard)
		return func() {}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	// #nosec G304 - path comes from configuration
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	g.logger.SetOutput(f)
	return func() {
		g.logger.SetOutput(os.Stderr)
		_ = f.Close()
	}, nil
}
