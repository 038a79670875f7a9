package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jward/lookout/internal/config"
)

var (
	flagDB       string
	flagFormat   string
	flagLogLevel string
	flagConfig   string
)

// Set up by the root command before any subcommand runs.
var (
	cfg      *config.Config
	repoRoot string
	logger   *slog.Logger
)

// errorHandled is set by outputError so main() doesn't double-print.
var errorHandled bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errorHandled {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "lookout",
	Short:         "Position-based queries over type-checked syntax trees",
	Long:          "Lookout answers type, symbol, reference and documentation queries at positions in checked tree documents, and indexes their outlines into a SQLite database for search.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := validateFormat(flagFormat); err != nil {
			return err
		}
		return setup()
	},
	// No Run; prints help by default.
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "database path (default: index.database from .lookout.yaml, relative to repo root)")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "json", "output format: json|text")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug|info|warn|error (default: logging.level from .lookout.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default: .lookout.yaml in the repo root)")

	rootCmd.AddCommand(typeCmd)
	rootCmd.AddCommand(kindCmd)
	rootCmd.AddCommand(symbolCmd)
	rootCmd.AddCommand(refsCmd)
	rootCmd.AddCommand(docCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(outlineCmd)
	rootCmd.AddCommand(scriptCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(queryCmd)
}

// setup loads the configuration and builds the stderr logger.
func setup() error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting cwd: %w", err)
	}
	repoRoot = findRepoRoot(cwd)

	if flagConfig != "" {
		cfg, err = config.Load(flagConfig)
	} else {
		cfg, err = config.LoadFromDir(repoRoot)
	}
	if err != nil {
		return err
	}

	levelName := cfg.Logging.Level
	if flagLogLevel != "" {
		levelName = flagLogLevel
	}
	level, err := config.ParseLevel(levelName)
	if err != nil {
		return err
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return nil
}

// findRepoRoot walks up from startDir looking for a .git directory.
// Returns the directory containing .git, or startDir if not found.
func findRepoRoot(startDir string) string {
	dir := startDir
	for {
		if info, err := os.Stat(filepath.Join(dir, ".git")); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root without finding .git.
			return startDir
		}
		dir = parent
	}
}

// resolveDBPath returns the database path from the --db flag or the config.
func resolveDBPath(root string) string {
	if flagDB != "" {
		if filepath.IsAbs(flagDB) {
			return flagDB
		}
		return filepath.Join(root, flagDB)
	}
	return cfg.DatabasePath(root)
}
