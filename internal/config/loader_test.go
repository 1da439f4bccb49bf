package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewLoader(t *testing.T) {
	loader := NewLoader()
	if loader == nil {
		t.Fatal("NewLoader returned nil")
	}
	if len(loader.configPaths) != 3 {
		t.Errorf("Expected 3 config paths, got %d", len(loader.configPaths))
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	loader := NewLoader()
	loader.getenv = func(string) string { return "" }

	// Test loading with no config files (should use defaults)
	cfg, err := loader.LoadConfig("")
	if err != nil {
		t.Fatalf("Failed to load default config: %v", err)
	}

	// Verify it's using defaults
	if cfg.History.Capacity != 100 {
		t.Errorf("Expected default capacity 100, got %d", cfg.History.Capacity)
	}
	if cfg.Output.DefaultFormat != "text" {
		t.Errorf("Expected default output format text, got %s", cfg.Output.DefaultFormat)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	// Create a temporary config file
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test-config.yaml")

	configContent := `version: "1.0"
server:
  base_url: "https://reviews.example.com"
  timeout: 60s
  rate_limit: 2.5
history:
  capacity: 50
  page_size: 20
insights:
  granularity: week
output:
  default_format: "json"
  verbose: true
`

	err := os.WriteFile(configPath, []byte(configContent), 0o600)
	if err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}

	loader := NewLoader()
	loader.getenv = func(string) string { return "" }
	cfg, err := loader.LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config from file: %v", err)
	}

	// Verify the config was loaded correctly
	if cfg.Server.BaseURL != "https://reviews.example.com" {
		t.Errorf("Expected base URL https://reviews.example.com, got %s", cfg.Server.BaseURL)
	}
	if cfg.Server.Timeout != 60*time.Second {
		t.Errorf("Expected server timeout 60s, got %v", cfg.Server.Timeout)
	}
	if cfg.Server.RateLimit != 2.5 {
		t.Errorf("Expected rate limit 2.5, got %v", cfg.Server.RateLimit)
	}
	if cfg.Server.Burst != 5 {
		t.Errorf("Expected default burst 5 to survive the merge, got %d", cfg.Server.Burst)
	}
	if cfg.History.Capacity != 50 || cfg.History.PageSize != 20 {
		t.Errorf("Expected capacity 50 and page size 20, got %d and %d", cfg.History.Capacity, cfg.History.PageSize)
	}
	if cfg.Insights.Granularity != "week" {
		t.Errorf("Expected granularity week, got %s", cfg.Insights.Granularity)
	}
	if cfg.Insights.Days != 30 {
		t.Errorf("Expected default days 30, got %d", cfg.Insights.Days)
	}
	if cfg.Output.DefaultFormat != "json" {
		t.Errorf("Expected output format json, got %s", cfg.Output.DefaultFormat)
	}
	if !cfg.Output.Verbose {
		t.Errorf("Expected verbose to be true")
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	// Create a temporary config file with invalid YAML
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "invalid-config.yaml")

	invalidConfigContent := `version: "1.0"
server:
  base_url: "http://localhost:5000"
  # Invalid YAML - missing closing quote
output:
  default_format: "json
  verbose: true
`

	err := os.WriteFile(configPath, []byte(invalidConfigContent), 0o600)
	if err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}

	loader := NewLoader()
	_, err = loader.LoadConfig(configPath)
	if err == nil {
		t.Error("Expected error loading invalid YAML config, but got none")
	}
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(configPath, []byte("insights:\n  granularity: year\n"), 0o600); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}

	_, err := NewLoader().LoadConfig(configPath)
	if err == nil || !strings.Contains(err.Error(), "invalid granularity") {
		t.Errorf("Expected granularity validation error, got %v", err)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	envVars := map[string]string{
		"SENTIDASH_SERVER_BASE_URL":       "http://10.0.0.7:8080",
		"SENTIDASH_SERVER_RATE_LIMIT":     "0.5",
		"SENTIDASH_HISTORY_PAGE_SIZE":     "25",
		"SENTIDASH_INSIGHTS_GRANULARITY":  "day",
		"SENTIDASH_NOTIFICATIONS_VISIBLE": "4s",
		"SENTIDASH_OUTPUT_VERBOSE":        "true",
		"SENTIDASH_LOGGING_FILE":          "/tmp/sentidash.log",
	}

	// Set environment variables
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	loader := NewLoader()
	cfg := DefaultConfig()

	err := loader.applyEnvOverrides(cfg)
	if err != nil {
		t.Fatalf("Failed to apply env overrides: %v", err)
	}

	// Check that environment variables were applied
	if cfg.Server.BaseURL != "http://10.0.0.7:8080" {
		t.Errorf("Expected base URL override, got %s", cfg.Server.BaseURL)
	}
	if cfg.Server.RateLimit != 0.5 {
		t.Errorf("Expected rate limit 0.5, got %v", cfg.Server.RateLimit)
	}
	if cfg.History.PageSize != 25 {
		t.Errorf("Expected page size 25, got %d", cfg.History.PageSize)
	}
	if cfg.Insights.Granularity != "day" {
		t.Errorf("Expected granularity day, got %s", cfg.Insights.Granularity)
	}
	if cfg.Notifications.Visible != 4*time.Second {
		t.Errorf("Expected visible 4s, got %v", cfg.Notifications.Visible)
	}
	if !cfg.Output.Verbose {
		t.Errorf("Expected verbose to be true")
	}
	if cfg.Logging.File != "/tmp/sentidash.log" {
		t.Errorf("Expected log file override, got %s", cfg.Logging.File)
	}
}

func TestApplyEnvOverridesInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		envVar string
		value  string
	}{
		{"invalid int", "SENTIDASH_HISTORY_CAPACITY", "not-a-number"},
		{"invalid float", "SENTIDASH_SERVER_RATE_LIMIT", "fast"},
		{"invalid bool", "SENTIDASH_OUTPUT_VERBOSE", "not-a-bool"},
		{"invalid duration", "SENTIDASH_SERVER_TIMEOUT", "not-a-duration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := NewLoader()
			loader.getenv = func(key string) string {
				if key == tt.envVar {
					return tt.value
				}
				return ""
			}
			cfg := DefaultConfig()

			err := loader.applyEnvOverrides(cfg)
			if err == nil {
				t.Error("Expected error for invalid env var value, but got none")
			} else if !strings.Contains(err.Error(), tt.envVar) {
				t.Errorf("Expected error to name %s, got %v", tt.envVar, err)
			}
		})
	}
}

func TestParseFloat(t *testing.T) {
	var value float64

	if err := parseFloat("2.5", &value); err != nil {
		t.Errorf("Failed to parse float: %v", err)
	}
	if value != 2.5 {
		t.Errorf("Expected 2.5, got %v", value)
	}

	if err := parseFloat("abc", &value); err == nil {
		t.Error("Expected error for invalid float, but got none")
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := ExpandPath("~/x/y.db"); got != filepath.Join(home, "x/y.db") {
		t.Errorf("Expected path under home, got %s", got)
	}
	if got := ExpandPath("/abs/y.db"); got != "/abs/y.db" {
		t.Errorf("Expected absolute path unchanged, got %s", got)
	}
}

func TestParseDuration(t *testing.T) {
	var duration time.Duration

	err := parseDuration("30s", &duration)
	if err != nil {
		t.Errorf("Failed to parse duration: %v", err)
	}
	if duration != 30*time.Second {
		t.Errorf("Expected 30s, got %v", duration)
	}

	err = parseDuration("invalid", &duration)
	if err == nil {
		t.Error("Expected error for invalid duration, but got none")
	}
}

func TestParseInt(t *testing.T) {
	var value int

	err := parseInt("42", &value)
	if err != nil {
		t.Errorf("Failed to parse int: %v", err)
	}
	if value != 42 {
		t.Errorf("Expected 42, got %d", value)
	}

	err = parseInt("not-a-number", &value)
	if err == nil {
		t.Error("Expected error for invalid int, but got none")
	}
}

func TestParseBool(t *testing.T) {
	var value bool

	err := parseBool("true", &value)
	if err != nil {
		t.Errorf("Failed to parse bool: %v", err)
	}
	if !value {
		t.Errorf("Expected true, got %v", value)
	}

	err = parseBool("false", &value)
	if err != nil {
		t.Errorf("Failed to parse bool: %v", err)
	}
	if value {
		t.Errorf("Expected false, got %v", value)
	}

	err = parseBool("not-a-bool", &value)
	if err == nil {
		t.Error("Expected error for invalid bool, but got none")
	}
}

func TestFindConfigFile(t *testing.T) {
	// Test when no config file exists
	_, found := FindConfigFile()
	if found {
		t.Error("Expected no config file to be found, but one was found")
	}

	// Create a temporary config file in current directory
	tempConfigPath := "./.sentidash.yaml"
	err := os.WriteFile(tempConfigPath, []byte("version: 1.0"), 0o600)
	if err != nil {
		t.Fatalf("Failed to create temp config file: %v", err)
	}
	defer func() { _ = os.Remove(tempConfigPath) }()

	configPath, found := FindConfigFile()
	if !found {
		t.Error("Expected config file to be found, but none was found")
	}
	if configPath != tempConfigPath {
		t.Errorf("Expected config path %s, got %s", tempConfigPath, configPath)
	}
}

func TestFileExists(t *testing.T) {
	// Test with non-existent file
	if fileExists("/path/that/does/not/exist") {
		t.Error("Expected file to not exist, but fileExists returned true")
	}

	// Create a temporary file
	tempFile := filepath.Join(t.TempDir(), "test-file")
	err := os.WriteFile(tempFile, []byte("test"), 0o600)
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}

	if !fileExists(tempFile) {
		t.Error("Expected file to exist, but fileExists returned false")
	}
}

func TestValidateConfigPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid yaml file",
			path:    "config.yaml",
			wantErr: false,
		},
		{
			name:    "valid yml file",
			path:    "config.yml",
			wantErr: false,
		},
		{
			name:    "path traversal attempt",
			path:    "../../../etc/passwd",
			wantErr: true,
			errMsg:  "path traversal not allowed",
		},
		{
			name:    "non-yaml file",
			path:    "config.txt",
			wantErr: true,
			errMsg:  "config file must have .yaml or .yml extension",
		},
		{
			name:    "system file access",
			path:    "/etc/passwd.yaml",
			wantErr: true,
			errMsg:  "access to system files not allowed",
		},
		{
			name:    "proc filesystem access",
			path:    "/proc/version.yaml",
			wantErr: true,
			errMsg:  "access to system files not allowed",
		},
		{
			name:    "relative path with valid extension",
			path:    "./configs/app.yaml",
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateConfigPath(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error but got none")
				} else if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("Expected error message to contain '%s', got '%s'", tt.errMsg, err.Error())
				}
			} else {
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
				}
			}
		})
	}
}
