package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/yildizm/SentiDash/internal/config"
	"github.com/yildizm/SentiDash/internal/emoji"
	"github.com/yildizm/SentiDash/internal/logger"
	"github.com/yildizm/SentiDash/internal/ui"
)

// globals are the persistent flags and everything resolved from them
type globals struct {
	cfgFile   string
	verbose   bool
	noColor   bool
	noEmoji   bool
	outputFmt string
	server    string

	cfg    *config.Config
	logger *logger.Logger
	icons  emoji.Set
	color  bool
}

// NewRootCommand creates the root command
func NewRootCommand(version, commit, date string) *cobra.Command {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:   "sentidash",
		Short: "Terminal dashboard for a sentiment analysis server",
		Long: `SentiDash is a terminal dashboard and CLI client for a sentiment analysis
server. Submit product reviews for classification, browse and export the
review history, and explore sentiment insights by category, rating and time.

Without a subcommand the interactive dashboard starts.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.resolve(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(cmd, g, dashboardFlags{theme: ui.DefaultTheme.Name})
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&g.cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&g.noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&g.noEmoji, "no-emoji", false, "disable emoji output (useful for Windows terminals)")
	rootCmd.PersistentFlags().StringVarP(&g.outputFmt, "output", "o", "", "output format (text, json, markdown, csv)")
	rootCmd.PersistentFlags().StringVar(&g.server, "server", "", "sentiment server URL (overrides config)")

	// Add subcommands
	rootCmd.AddCommand(newDashboardCommand(g))
	rootCmd.AddCommand(newAnalyzeCommand(g))
	rootCmd.AddCommand(newHistoryCommand(g))
	rootCmd.AddCommand(newInsightsCommand(g))
	rootCmd.AddCommand(newMetricsCommand(g))
	rootCmd.AddCommand(newModelCommand(g))
	rootCmd.AddCommand(newWatchCommand(g))
	rootCmd.AddCommand(newStubCommand(g))
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newVersionCommand(version, commit, date))

	return rootCmd
}

// resolve loads .env and the config file, then applies flag overrides
func (g *globals) resolve(cmd *cobra.Command) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	cfg, err := config.NewLoader().LoadConfig(g.cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if g.server != "" {
		cfg.Server.BaseURL = g.server
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	if g.outputFmt == "" {
		g.outputFmt = cfg.Output.DefaultFormat
	}
	if !cmd.Flags().Changed("verbose") {
		g.verbose = cfg.Output.Verbose
	}

	// Auto-disable emojis on Windows if not explicitly set
	if runtime.GOOS == "windows" && !cmd.Flags().Changed("no-emoji") {
		g.noEmoji = true
	}

	g.cfg = cfg
	g.icons = emoji.New(g.noEmoji)
	g.color = !g.noColor && cfg.Output.ColorMode != "never" && !ui.ColorDisabled(os.Getenv)
	g.logger = logger.NewWithCallback("cli", g.isVerbose)
	return nil
}

func (g *globals) isVerbose() bool {
	return g.verbose
}

func newVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display version number, build commit, date, and runtime information",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			displayVersion := version
			displayCommit := commit
			displayDate := date

			if version == "dev" || version == "" {
				displayVersion = "development"
			}
			if commit == "none" || commit == "" {
				displayCommit = "local-build"
			}
			if date == "unknown" || date == "" {
				displayDate = "local-build"
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "SentiDash %s (%s) built on %s\n", displayVersion, displayCommit, displayDate)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
