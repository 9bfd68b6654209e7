// Package main provides the citecheck CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matsen/citecheck/internal/config"
	"github.com/matsen/citecheck/internal/logging"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether to use human-readable output
	humanOutput bool
	// logLevel overrides the configured log level when set
	logLevel string
	// settingsPath overrides the global config file location
	settingsPath string

	settings *config.Settings
	logger   = zap.NewNop()
)

func main() {
	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "citecheck",
	Short: "Check in-text citations against a document's reference list",
	Long: `citecheck locates the reference list in a plain-text document, extracts
numeric and author-year citations from the body, parses and scores the
reference entries, and reports citations with no matching reference,
references that are never cited, and incomplete entries.

All commands output JSON by default; pass --human for readable output.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&settingsPath, "config", "", "Settings file (default $XDG_CONFIG_HOME/citecheck/config.yml)")
	rootCmd.Version = Version
}

// setup loads .env, settings and the logger before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	s, err := config.LoadSettings(settingsPath)
	if err != nil {
		exitWithError(ExitConfigError, "loading settings: %v", err)
	}
	if logLevel != "" {
		s.LogLevel = logLevel
	}

	l, err := logging.New(s.LogLevel)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	settings, logger = s, l
	logger.Debug("settings loaded",
		zap.String("command", cmd.Name()),
		zap.String("rules_backend", s.RulesBackend),
		zap.Int("workers", s.Workers),
	)
	return nil
}

// mustFindWorkspace finds the workspace root or exits with ExitConfigError.
func mustFindWorkspace() string {
	start, err := config.StartDir()
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	root, err := config.FindWorkspace(start)
	if err != nil {
		exitWithError(ExitConfigError, "%v (run 'citecheck init' first)", err)
	}
	return root
}
