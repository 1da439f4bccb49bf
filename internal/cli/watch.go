package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/yildizm/SentiDash/internal/common"
	"github.com/yildizm/SentiDash/internal/viewmodel"
)

type watchFlags struct {
	category string
	rating   int
}

func newWatchCommand(g *globals) *cobra.Command {
	flags := watchFlags{}

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Analyze reviews appended to a file",
		Long: `Watch a file and submit every line appended to it as a review.

Uses file system notifications to detect writes. Each new non-empty line is
classified and printed with its sentiment and confidence. Press Ctrl+C to
stop watching.

Examples:
  sentidash watch reviews.txt
  sentidash watch --category Books --rating 3 incoming.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, g, flags, args[0])
		},
	}

	cmd.Flags().StringVar(&flags.category, "category", common.DefaultCategory, "category of the watched reviews")
	cmd.Flags().IntVar(&flags.rating, "rating", common.MaxRating, "star rating of the watched reviews")

	return cmd
}

// reviewWatcher submits lines appended to one file
type reviewWatcher struct {
	g        *globals
	out      io.Writer
	analysis *viewmodel.Analysis
	flags    watchFlags
	reader   *bufio.Reader
	partial  string
}

func runWatch(cmd *cobra.Command, g *globals, flags watchFlags, filename string) error {
	if err := validateRating(flags.rating); err != nil {
		return err
	}
	if err := validateWatchFilePath(filename); err != nil {
		return fmt.Errorf("invalid file path: %w", err)
	}

	s, err := g.newSession(cmd, false)
	if err != nil {
		return err
	}

	watcher, file, cleanup, err := setupFileWatcher(g, filename)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := commandContext(cmd)
	defer cancel()

	w := &reviewWatcher{
		g:        g,
		out:      cmd.OutOrStdout(),
		analysis: viewmodel.NewAnalysis(s.client, s.deps),
		flags:    flags,
		reader:   bufio.NewReader(file),
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "%s Watching %s, press Ctrl+C to stop\n", g.icons.Get("target"), filename)
	return w.loop(ctx, watcher)
}

// loop runs until ctx is cancelled or the watcher fails
func (w *reviewWatcher) loop(ctx context.Context, watcher *fsnotify.Watcher) error {
	for {
		select {
		case <-ctx.Done():
			w.g.logger.Info("stopping watch")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if event.Op&fsnotify.Write == fsnotify.Write {
				if err := w.processNewLines(ctx); err != nil {
					w.g.logger.Warn("error processing new lines: %v", err)
				}
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.g.logger.Warn("watcher error: %v", err)
		}
	}
}

// processNewLines submits every complete line read since the last call. A
// trailing line without a newline waits for the next write.
func (w *reviewWatcher) processNewLines(ctx context.Context) error {
	for {
		chunk, err := w.reader.ReadString('\n')
		if err == io.EOF {
			w.partial += chunk
			return nil
		}
		if err != nil {
			return fmt.Errorf("read error: %w", err)
		}

		line := strings.TrimSpace(w.partial + chunk)
		w.partial = ""
		if line == "" {
			continue
		}
		w.submit(ctx, line)
	}
}

func (w *reviewWatcher) submit(ctx context.Context, text string) {
	w.analysis.SetText(text)
	w.analysis.SetCategory(w.flags.category)
	w.analysis.SetRating(w.flags.rating)

	if err := w.analysis.Submit(ctx); err != nil {
		// already shown as a notification
		return
	}
	result, ok := w.analysis.Result()
	if !ok {
		return
	}
	fmt.Fprintf(w.out, "%s %-8s %4s  %s\n",
		w.g.icons.ForSentiment(string(result.Sentiment)),
		result.Sentiment,
		result.Confidence,
		common.Truncate(text, 60))
}

// cleanupWatcher safely closes watcher with error logging
func cleanupWatcher(g *globals, watcher *fsnotify.Watcher) {
	if err := watcher.Close(); err != nil {
		g.logger.Debug("failed to close watcher: %v", err)
	}
}

// cleanupFile safely closes file with error logging
func cleanupFile(g *globals, file *os.File) {
	if err := file.Close(); err != nil {
		g.logger.Debug("failed to close file: %v", err)
	}
}

// setupFileWatcher watches filename and opens it positioned at its end
func setupFileWatcher(g *globals, filename string) (*fsnotify.Watcher, *os.File, func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(filename); err != nil {
		cleanupWatcher(g, watcher)
		return nil, nil, nil, fmt.Errorf("failed to watch file: %w", err)
	}

	// #nosec G304 - path is validated by caller
	file, err := os.Open(filepath.Clean(filename))
	if err != nil {
		cleanupWatcher(g, watcher)
		return nil, nil, nil, fmt.Errorf("failed to open file: %w", err)
	}
	if _, err := file.Seek(0, io.SeekEnd); err != nil {
		cleanupFile(g, file)
		cleanupWatcher(g, watcher)
		return nil, nil, nil, fmt.Errorf("failed to seek to end of file: %w", err)
	}

	cleanup := func() {
		cleanupWatcher(g, watcher)
		cleanupFile(g, file)
	}
	return watcher, file, cleanup, nil
}

// validateWatchFilePath validates that a file path is safe to watch
func validateWatchFilePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty file path")
	}

	cleanPath := filepath.Clean(path)
	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("cannot watch directory, must be a file")
	}
	return nil
}
