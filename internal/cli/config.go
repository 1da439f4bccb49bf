package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/yildizm/SentiDash/internal/config"
	"gopkg.in/yaml.v3"
)

// defaultConfigFile is where config init writes without --output
const defaultConfigFile = ".sentidash.yaml"

// newConfigCommand creates the config command with subcommands
func newConfigCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage SentiDash configuration",
		Long: `Create, inspect and check the SentiDash configuration.

Settings are read from the config file search paths, then overridden by
SENTIDASH_* environment variables and finally by command line flags.`,
		// config commands report a broken config themselves
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	}

	configCmd.AddCommand(
		newConfigInitCommand(),
		newConfigShowCommand(),
		newConfigValidateCommand(),
		newConfigPathCommand(),
	)
	return configCmd
}

type configInitFlags struct {
	output  string
	minimal bool
	force   bool
}

func newConfigInitCommand() *cobra.Command {
	flags := configInitFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter configuration file",
		Long: `Write a configuration file with the default server, history, insights,
notification and output settings.

The full file documents every option; --minimal keeps only the server
address and output settings.`,
		Example: `  sentidash config init
  sentidash config init --minimal
  sentidash config init --output ~/.config/sentidash/config.yaml --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeSampleConfig(cmd.OutOrStdout(), flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", defaultConfigFile, "path of the file to write")
	cmd.Flags().BoolVarP(&flags.minimal, "minimal", "m", false, "write only the essential settings")
	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite an existing file")
	return cmd
}

func writeSampleConfig(out io.Writer, flags configInitFlags) error {
	path := flags.output
	if path == "" {
		path = defaultConfigFile
	}
	if !flags.force && fileExists(path) {
		return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
	}

	if dir := filepath.Dir(path); dir != "." && dir != "/" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	content, kind := config.SampleConfig(), "full"
	if flags.minimal {
		content, kind = config.MinimalSampleConfig(), "minimal"
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(out, "Configuration file created at: %s (%s)\n", path, kind)
	return nil
}

func newConfigShowCommand() *cobra.Command {
	var format, path string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print the configuration after merging defaults, config files and
SENTIDASH_* environment overrides.`,
		Example: `  sentidash config show
  sentidash config show --format json --config ./staging.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewLoader().LoadConfig(path)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			var data []byte
			switch format {
			case "json":
				data, err = json.MarshalIndent(cfg, "", "  ")
				data = append(data, '\n')
			case "yaml":
				data, err = yaml.Marshal(cfg)
			default:
				return fmt.Errorf("unsupported format: %s (use json or yaml)", format)
			}
			if err != nil {
				return fmt.Errorf("failed to encode configuration as %s: %w", format, err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format (yaml, json)")
	cmd.Flags().StringVarP(&path, "config", "c", "", "path to config file")
	return cmd
}

func newConfigValidateCommand() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a configuration file",
		Long: `Load a configuration file and check the server address, timeouts,
history limits, insights granularity, notification timings and output
settings. A valid file is summarized section by section.`,
		Example: `  sentidash config validate
  sentidash config validate --config /path/to/config.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cfg, err := config.NewLoader().LoadConfig(path)
			if err != nil {
				fmt.Fprintf(out, "Configuration validation failed:\n   %v\n", err)
				return err
			}

			fmt.Fprintln(out, "Configuration is valid")
			writeConfigSummary(out, cfg)
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "config", "c", "", "path to config file")
	return cmd
}

// writeConfigSummary prints one line per config section
func writeConfigSummary(out io.Writer, cfg *config.Config) {
	days := "all time"
	if cfg.Insights.Days > 0 {
		days = fmt.Sprintf("last %d days", cfg.Insights.Days)
	}
	cache := cfg.History.CachePath
	if cache == "" {
		cache = "disabled"
	}
	logFile := cfg.Logging.File
	if logFile == "" {
		logFile = "none"
	}

	fmt.Fprintf(out, "Configuration summary (version %s):\n", cfg.Version)
	fmt.Fprintf(out, "   Server:        %s (timeout %s, %.1f req/s)\n", cfg.Server.BaseURL, cfg.Server.Timeout, cfg.Server.RateLimit)
	fmt.Fprintf(out, "   History:       %d reviews, %d per page, cache %s\n", cfg.History.Capacity, cfg.History.PageSize, cache)
	fmt.Fprintf(out, "   Insights:      by %s, %s\n", cfg.Insights.Granularity, days)
	fmt.Fprintf(out, "   Notifications: visible %s, fade %s\n", cfg.Notifications.Visible, cfg.Notifications.Fade)
	fmt.Fprintf(out, "   Output:        %s, color %s\n", cfg.Output.DefaultFormat, cfg.Output.ColorMode)
	fmt.Fprintf(out, "   Log file:      %s\n", logFile)
}

func newConfigPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "List the configuration search paths",
		Long: `List where SentiDash looks for configuration files. Files earlier in
the list override later ones.`,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Configuration file search paths (highest priority first):")
			for i, path := range config.GetConfigPaths() {
				state := "not found"
				if fileExists(path) {
					state = "exists"
				}
				fmt.Fprintf(out, "  %d. %s (%s)\n", i+1, path, state)
			}

			fmt.Fprintln(out)
			if current, found := config.FindConfigFile(); found {
				fmt.Fprintf(out, "Current config file: %s\n", current)
			} else {
				fmt.Fprintln(out, "No config file found, using defaults")
			}
			fmt.Fprintf(out, "Environment variables with the %s prefix override file settings\n", config.EnvPrefix)
		},
	}
}

func fileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}
