package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yildizm/SentiDash/internal/api"
	"github.com/yildizm/SentiDash/internal/emoji"
	"github.com/yildizm/SentiDash/internal/history"
	"github.com/yildizm/SentiDash/internal/logger"
	"github.com/yildizm/SentiDash/internal/notify"
	"github.com/yildizm/SentiDash/internal/stubserver"
	"github.com/yildizm/SentiDash/internal/viewmodel"
)

type cliEnv struct {
	t      *testing.T
	dir    string
	stub   *stubserver.Server
	server string
}

// newCLIEnv isolates config lookup and starts a seeded stub server
func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("SENTIDASH_HISTORY_CACHE_PATH", filepath.Join(dir, "history.db"))
	t.Setenv("SENTIDASH_SERVER_RATE_LIMIT", "0")

	stub := stubserver.New(stubserver.Config{Seed: true})
	ts := httptest.NewServer(stub.Handler())
	t.Cleanup(ts.Close)

	return &cliEnv{t: t, dir: dir, stub: stub, server: ts.URL}
}

// run executes the root command and returns stdout and stderr
func (e *cliEnv) run(stdin string, args ...string) (string, string, error) {
	e.t.Helper()
	cmd := NewRootCommand("1.2.3", "abc123", "2026-01-01")

	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--server", e.server, "--no-emoji", "--no-color"}, args...))

	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func decodeJSON(t *testing.T, out string) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &body), out)
	return body
}

func TestVersionCommand(t *testing.T) {
	e := newCLIEnv(t)
	out, _, err := e.run("", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "SentiDash 1.2.3 (abc123) built on 2026-01-01")
	assert.Contains(t, out, "Go version:")
}

func TestAnalyzeCommand(t *testing.T) {
	e := newCLIEnv(t)
	before := e.stub.Len()

	out, stderr, err := e.run("", "analyze", "-o", "json", "--category", "Books", "--rating", "4", "Great", "story,", "love", "it")
	require.NoError(t, err, stderr)

	body := decodeJSON(t, out)
	analysis, ok := body["analysis"].(map[string]any)
	require.True(t, ok, out)
	assert.Equal(t, "Positive", analysis["sentiment"])
	assert.Equal(t, "Books", analysis["category"])
	assert.EqualValues(t, 4, analysis["rating"])
	assert.Contains(t, stderr, viewmodel.MsgAnalysisComplete)
	assert.Equal(t, before+1, e.stub.Len())
}

func TestAnalyzeFromStdinAsText(t *testing.T) {
	e := newCLIEnv(t)
	out, _, err := e.run("Terrible quality, total waste\n", "analyze", "-o", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "Negative")
	assert.Contains(t, out, "Terrible quality, total waste")
}

func TestAnalyzeRejectsBadInput(t *testing.T) {
	e := newCLIEnv(t)

	_, stderr, err := e.run("   ", "analyze")
	assert.ErrorIs(t, err, viewmodel.ErrEmptyText)
	assert.Contains(t, stderr, viewmodel.MsgEmptyReview)

	_, _, err = e.run("", "analyze", "--rating", "9", "fine")
	assert.Error(t, err)

	_, _, err = e.run("", "analyze", "--sample", "99")
	assert.Error(t, err)
}

func TestHistoryCommand(t *testing.T) {
	e := newCLIEnv(t)

	out, _, err := e.run("", "history", "-o", "csv", "--page-size", "2")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, strings.Join(history.CSVHeader, ","), lines[0])
	assert.Len(t, lines, 1+e.stub.Len(), "csv output covers every page")

	out, _, err = e.run("", "history", "-o", "json", "--sentiment", "Positive", "--page-size", "2")
	require.NoError(t, err)
	section := decodeJSON(t, out)["history"].(map[string]any)
	assert.Equal(t, "remote", section["source"])
	page := section["page"].(map[string]any)
	assert.EqualValues(t, 2, page["size"])

	_, _, err = e.run("", "history", "--sentiment", "meh")
	assert.Error(t, err)
}

func TestHistoryCachedReadsSnapshot(t *testing.T) {
	e := newCLIEnv(t)

	_, _, err := e.run("", "history", "--cached")
	require.Error(t, err, "no snapshot before the first load")

	_, _, err = e.run("", "history")
	require.NoError(t, err)

	out, _, err := e.run("", "history", "--cached", "-o", "json")
	require.NoError(t, err)
	section := decodeJSON(t, out)["history"].(map[string]any)
	assert.Equal(t, "cache", section["source"])
}

func TestHistoryDeleteAndClear(t *testing.T) {
	e := newCLIEnv(t)
	before := e.stub.Len()

	_, stderr, err := e.run("", "history", "delete", "1")
	require.NoError(t, err)
	assert.Contains(t, stderr, viewmodel.MsgReviewDeleted)
	assert.Equal(t, before-1, e.stub.Len())

	_, _, err = e.run("", "history", "clear")
	assert.Error(t, err)
	assert.Equal(t, before-1, e.stub.Len())

	_, stderr, err = e.run("", "history", "clear", "--yes")
	require.NoError(t, err)
	assert.Contains(t, stderr, viewmodel.MsgHistoryCleared)
	assert.Equal(t, 0, e.stub.Len())
}

func TestHistoryExport(t *testing.T) {
	e := newCLIEnv(t)
	path := filepath.Join(e.dir, "out.csv")

	_, stderr, err := e.run("", "history", "export", path)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Exported")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), strings.Join(history.CSVHeader, ",")+"\n"))

	out, _, err := e.run("", "history", "export", "-", "--sentiment", "Negative")
	require.NoError(t, err)
	for _, line := range strings.Split(strings.TrimSpace(out), "\n")[1:] {
		assert.Contains(t, line, "Negative")
	}
}

func TestInsightsCommand(t *testing.T) {
	e := newCLIEnv(t)

	out, _, err := e.run("", "insights", "-o", "json", "--days", "all", "--granularity", "week", "--remote")
	require.NoError(t, err)
	section := decodeJSON(t, out)["insights"].(map[string]any)
	assert.Equal(t, "week", section["granularity"])
	assert.NotNil(t, section["remote"])

	aggregate := section["aggregate"].(map[string]any)
	assert.EqualValues(t, e.stub.Len(), aggregate["total"])

	_, _, err = e.run("", "insights", "--granularity", "hour")
	assert.Error(t, err)
	_, _, err = e.run("", "insights", "--rating", "7")
	assert.Error(t, err)
}

func TestMetricsCommand(t *testing.T) {
	e := newCLIEnv(t)

	out, _, err := e.run("", "metrics", "-o", "json")
	require.NoError(t, err)
	section := decodeJSON(t, out)["metrics"].(map[string]any)
	assert.Equal(t, "server", section["origin"])
	assert.NotEmpty(t, section["requests"])
}

func TestModelCommand(t *testing.T) {
	e := newCLIEnv(t)
	out, _, err := e.run("", "model", "-o", "json")
	require.NoError(t, err)
	assert.NotEmpty(t, decodeJSON(t, out)["model"])
}

func TestUnsupportedOutputFormat(t *testing.T) {
	e := newCLIEnv(t)
	_, _, err := e.run("", "model", "-o", "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}

func TestUnreachableServerFallsBackToSamples(t *testing.T) {
	e := newCLIEnv(t)
	e.server = "http://127.0.0.1:1"

	out, stderr, err := e.run("", "history", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Error loading history")
	section := decodeJSON(t, out)["history"].(map[string]any)
	assert.Equal(t, "sample", section["source"])
}

func TestConfigCommands(t *testing.T) {
	e := newCLIEnv(t)
	path := filepath.Join(e.dir, "sentidash.yaml")

	out, _, err := e.run("", "config", "init", "--output", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration file created at")

	_, _, err = e.run("", "config", "init", "--output", path)
	assert.Error(t, err, "existing file without --force")

	out, _, err = e.run("", "config", "validate", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid")
	assert.Contains(t, out, "Insights:      by month, last 30 days")
	assert.Contains(t, out, "Notifications: visible 3s, fade 500ms")

	out, _, err = e.run("", "config", "show", "--config", path, "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, decodeJSON(t, out), "server")

	out, _, err = e.run("", "config", "path")
	require.NoError(t, err)
	assert.Contains(t, out, "SENTIDASH_")
}

func TestWatchRejectsRatingOutOfRange(t *testing.T) {
	e := newCLIEnv(t)
	path := filepath.Join(e.dir, "reviews.txt")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	for _, rating := range []string{"0", "9"} {
		_, _, err := e.run("", "watch", "--rating", rating, path)
		require.Error(t, err, "rating %s", rating)
		assert.Contains(t, err.Error(), "rating must be between 1 and 5")
	}
}

func TestWatcherSubmitsCompleteLines(t *testing.T) {
	stub := stubserver.New(stubserver.Config{})
	ts := httptest.NewServer(stub.Handler())
	defer ts.Close()

	client, err := api.New(api.Options{BaseURL: ts.URL, Timeout: 5 * time.Second})
	require.NoError(t, err)

	store := history.New(history.DefaultCapacity)
	deps := viewmodel.Deps{Store: store, Notifier: notify.New(), Logger: logger.Discard()}
	g := &globals{icons: emoji.New(true), logger: logger.Discard()}

	input := strings.NewReader("Love it, great value\n\nTerrible, broke\nhalf a li")
	var out bytes.Buffer
	w := &reviewWatcher{
		g:        g,
		out:      &out,
		analysis: viewmodel.NewAnalysis(client, deps),
		flags:    watchFlags{category: "Books", rating: 3},
		reader:   bufio.NewReader(input),
	}

	require.NoError(t, w.processNewLines(context.Background()))

	assert.Equal(t, 2, stub.Len())
	assert.Equal(t, 2, store.Len())
	assert.Equal(t, "half a li", w.partial)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Positive")
	assert.Contains(t, lines[1], "Negative")
}

func TestValidateWatchFilePath(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "reviews.txt")
	require.NoError(t, os.WriteFile(file, nil, 0o600))

	assert.NoError(t, validateWatchFilePath(file))
	assert.Error(t, validateWatchFilePath(""))
	assert.Error(t, validateWatchFilePath(dir))
	assert.Error(t, validateWatchFilePath(filepath.Join(dir, "missing.txt")))
}
