package config

// SampleConfig returns a fully commented configuration file
func SampleConfig() string {
	return `# SentiDash configuration
version: "1.0"

server:
  # Address of the sentiment server
  base_url: http://localhost:5000
  # Per-request timeout
  timeout: 10s
  # Requests per second sent to the server, 0 disables pacing
  rate_limit: 5
  burst: 5

history:
  # Records kept in memory, oldest are dropped first
  capacity: 100
  # Records per history page
  page_size: 10
  # SQLite snapshot of the last server history, empty disables it
  cache_path: ~/.cache/sentidash/history.db

insights:
  # Trend bucket size: day, week or month
  granularity: month
  # Time range in days, 0 for all time
  days: 30

notifications:
  visible: 3s
  fade: 500ms

output:
  # text, json, markdown or csv
  default_format: text
  # auto, always or never
  color_mode: auto
  verbose: false
  timestamp_format: "2006-01-02 15:04:05"
  compact_mode: false

logging:
  # Log file used while the dashboard owns the terminal
  file: ~/.cache/sentidash/sentidash.log
`
}

// MinimalSampleConfig returns a configuration with only essential settings
func MinimalSampleConfig() string {
	return `version: "1.0"
server:
  base_url: http://localhost:5000
output:
  default_format: text
`
}
