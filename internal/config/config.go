package config

import (
	"fmt"
	"net/url"
	"time"
)

// Config holds the complete application configuration
type Config struct {
	Version       string              `yaml:"version" json:"version"`
	Server        ServerConfig        `yaml:"server" json:"server"`
	History       HistoryConfig       `yaml:"history" json:"history"`
	Insights      InsightsConfig      `yaml:"insights" json:"insights"`
	Notifications NotificationsConfig `yaml:"notifications" json:"notifications"`
	Output        OutputConfig        `yaml:"output" json:"output"`
	Logging       LoggingConfig       `yaml:"logging" json:"logging"`
}

// ServerConfig configures the sentiment server connection
type ServerConfig struct {
	BaseURL   string        `yaml:"base_url" json:"base_url"`     // server address
	Timeout   time.Duration `yaml:"timeout" json:"timeout"`       // per-request timeout
	RateLimit float64       `yaml:"rate_limit" json:"rate_limit"` // requests per second, 0 = unlimited
	Burst     int           `yaml:"burst" json:"burst"`           // requests allowed at once
}

// HistoryConfig configures the review history
type HistoryConfig struct {
	Capacity  int    `yaml:"capacity" json:"capacity"`     // records kept in memory
	PageSize  int    `yaml:"page_size" json:"page_size"`   // records per page
	CachePath string `yaml:"cache_path" json:"cache_path"` // sqlite snapshot, empty disables
}

// InsightsConfig configures the insights defaults
type InsightsConfig struct {
	Granularity string `yaml:"granularity" json:"granularity"` // day|week|month
	Days        int    `yaml:"days" json:"days"`               // time range, 0 = all
}

// NotificationsConfig configures toast timings
type NotificationsConfig struct {
	Visible time.Duration `yaml:"visible" json:"visible"`
	Fade    time.Duration `yaml:"fade" json:"fade"`
}

// OutputConfig configures output formatting and display
type OutputConfig struct {
	DefaultFormat   string `yaml:"default_format" json:"default_format"`     // json|text|markdown|csv
	ColorMode       string `yaml:"color_mode" json:"color_mode"`             // auto|always|never
	Verbose         bool   `yaml:"verbose" json:"verbose"`                   // default verbosity
	TimestampFormat string `yaml:"timestamp_format" json:"timestamp_format"` // time format string
	CompactMode     bool   `yaml:"compact_mode" json:"compact_mode"`         // compact output mode
}

// LoggingConfig configures where logs go while the TUI owns the terminal
type LoggingConfig struct {
	File string `yaml:"file" json:"file"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		Server: ServerConfig{
			BaseURL:   "http://localhost:5000",
			Timeout:   10 * time.Second,
			RateLimit: 5,
			Burst:     5,
		},
		History: HistoryConfig{
			Capacity:  100,
			PageSize:  10,
			CachePath: "~/.cache/sentidash/history.db",
		},
		Insights: InsightsConfig{
			Granularity: "month",
			Days:        30,
		},
		Notifications: NotificationsConfig{
			Visible: 3000 * time.Millisecond,
			Fade:    500 * time.Millisecond,
		},
		Output: OutputConfig{
			DefaultFormat:   "text",
			ColorMode:       "auto",
			Verbose:         false,
			TimestampFormat: "2006-01-02 15:04:05",
			CompactMode:     false,
		},
		Logging: LoggingConfig{
			File: "~/.cache/sentidash/sentidash.log",
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validateServerConfig(); err != nil {
		return err
	}
	if err := c.validateHistoryConfig(); err != nil {
		return err
	}
	if err := c.validateInsightsConfig(); err != nil {
		return err
	}
	if err := c.validateOutputConfig(); err != nil {
		return err
	}
	if err := c.validateTimeoutConfig(); err != nil {
		return err
	}
	return nil
}

// validateServerConfig validates server-related configuration
func (c *Config) validateServerConfig() error {
	if c.Server.BaseURL == "" {
		return fmt.Errorf("server base_url is required")
	}
	u, err := url.Parse(c.Server.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid server base_url: %s (must be an http or https URL)", c.Server.BaseURL)
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("rate_limit must be non-negative")
	}
	if c.Server.Burst < 0 {
		return fmt.Errorf("burst must be non-negative")
	}
	return nil
}

// validateHistoryConfig validates history-related configuration
func (c *Config) validateHistoryConfig() error {
	if c.History.Capacity < 1 {
		return fmt.Errorf("capacity must be greater than 0")
	}
	if c.History.PageSize < 1 {
		return fmt.Errorf("page_size must be greater than 0")
	}
	return nil
}

// validateInsightsConfig validates insights-related configuration
func (c *Config) validateInsightsConfig() error {
	if c.Insights.Granularity != "" {
		validGranularities := map[string]bool{
			"day":   true,
			"week":  true,
			"month": true,
		}
		if !validGranularities[c.Insights.Granularity] {
			return fmt.Errorf("invalid granularity: %s (must be one of: day, week, month)", c.Insights.Granularity)
		}
	}
	if c.Insights.Days < 0 {
		return fmt.Errorf("days must be non-negative")
	}
	return nil
}

// validateOutputConfig validates output-related configuration
func (c *Config) validateOutputConfig() error {
	if c.Output.DefaultFormat != "" {
		validFormats := map[string]bool{
			"json":     true,
			"text":     true,
			"markdown": true,
			"csv":      true,
		}
		if !validFormats[c.Output.DefaultFormat] {
			return fmt.Errorf("invalid output format: %s (must be one of: json, text, markdown, csv)", c.Output.DefaultFormat)
		}
	}
	if c.Output.ColorMode != "" {
		validColorModes := map[string]bool{
			"auto":   true,
			"always": true,
			"never":  true,
		}
		if !validColorModes[c.Output.ColorMode] {
			return fmt.Errorf("invalid color mode: %s (must be one of: auto, always, never)", c.Output.ColorMode)
		}
	}
	return nil
}

// validateTimeoutConfig validates timeout-related configuration
func (c *Config) validateTimeoutConfig() error {
	if c.Server.Timeout < 0 {
		return fmt.Errorf("server timeout must be non-negative")
	}
	if c.Notifications.Visible < 0 {
		return fmt.Errorf("notification visible duration must be non-negative")
	}
	if c.Notifications.Fade < 0 {
		return fmt.Errorf("notification fade duration must be non-negative")
	}
	return nil
}
