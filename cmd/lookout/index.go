package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/jward/lookout"
)

var (
	flagForce      bool
	flagSerial     bool
	flagNoProgress bool
)

var indexCmd = &cobra.Command{
	Use:   "index [path]",
	Short: "Index tree documents for search and navigation",
	Long: `Discover tree documents under path (default: the current directory)
using the include and exclude patterns from .lookout.yaml, and write their
outlines to the SQLite index. Unchanged files are skipped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVar(&flagForce, "force", false, "drop all indexed files and reindex from scratch")
	indexCmd.Flags().BoolVar(&flagSerial, "serial", false, "index one file at a time")
	indexCmd.Flags().BoolVar(&flagNoProgress, "no-progress", false, "hide the progress bar")
}

func runIndex(cmd *cobra.Command, args []string) error {
	start := time.Now()

	targetDir, err := resolveTargetDir(args)
	if err != nil {
		return outputError("index", err)
	}

	dbPath := resolveDBPath(repoRoot)
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return outputError("index", fmt.Errorf("creating %s: %w", filepath.Dir(dbPath), err))
	}

	opts := []lookout.Option{
		lookout.WithLogger(logger),
		lookout.WithParallel(cfg.Index.Parallel && !flagSerial),
	}
	if !flagNoProgress {
		opts = append(opts, lookout.WithProgress(newProgress()))
	}

	engine, err := lookout.New(dbPath, opts...)
	if err != nil {
		return outputError("index", fmt.Errorf("creating engine: %w", err))
	}
	defer engine.Close()

	stale, err := engine.Stale()
	if err != nil {
		return outputError("index", err)
	}
	if flagForce || stale {
		if stale {
			logger.Warn("index was written by a different outline version, rebuilding", "db", dbPath)
		}
		if err := engine.Reset(); err != nil {
			return outputError("index", err)
		}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	indexErr := engine.IndexGlob(ctx, targetDir, cfg.Index.Includes, cfg.Index.Excludes)

	changes := engine.TakeChanges()
	out := make([]CLIFileChange, len(changes))
	for i, c := range changes {
		out[i] = CLIFileChange{Path: c.Path, Added: c.Added, Removed: c.Removed, Changed: c.Changed}
	}

	fmt.Fprintf(os.Stderr, "Indexed %s in %s\n", targetDir, time.Since(start).Round(time.Millisecond))
	fmt.Fprintf(os.Stderr, "Database: %s\n", dbPath)

	if indexErr != nil {
		return outputError("index", fmt.Errorf("indexing: %w", indexErr))
	}
	total := len(out)
	return outputResult(CLIResult{Command: "index", Results: out, TotalCount: &total})
}

// newProgress returns a progress callback drawing a bar on stderr. The bar
// is created on the first report, once the total is known.
func newProgress() lookout.ProgressFunc {
	var bar *progressbar.ProgressBar
	var startTime time.Time
	return func(done, total int, path string) {
		if bar == nil {
			startTime = time.Now()
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Indexing[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Fprintln(os.Stderr)
				}),
			)
		}
		_ = bar.Set(done)

		if done > 0 && done < total {
			rate := float64(done) / time.Since(startTime).Seconds()
			if rate > 0 {
				eta := time.Duration(float64(total-done)/rate) * time.Second
				bar.Describe(fmt.Sprintf("[cyan]Indexing[reset] ETA: %s", formatDuration(eta)))
			}
		}
	}
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return "<1s"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
}

// resolveTargetDir returns the absolute path of the directory to index.
func resolveTargetDir(args []string) (string, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving path %q: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("directory not found: %s", abs)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("not a directory: %s", abs)
	}
	return abs, nil
}
