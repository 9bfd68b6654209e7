package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matsen/citecheck/internal/boundary"
	"github.com/matsen/citecheck/internal/config"
	"github.com/matsen/citecheck/internal/document"
	"github.com/matsen/citecheck/internal/engine"
	"github.com/matsen/citecheck/internal/pdf"
	"github.com/matsen/citecheck/internal/policy"
	"github.com/matsen/citecheck/internal/storage"
)

var (
	inputPDF      bool
	inputMaxPages int
)

// addInputFlags registers the flags shared by single-document commands.
func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&inputPDF, "pdf", false, "Treat the input file as a PDF (implied by a .pdf extension)")
	cmd.Flags().IntVar(&inputMaxPages, "max-pages", 0, "Read at most this many PDF pages (0 = all)")
}

// inputPath returns the file argument, or "-" for stdin.
func inputPath(args []string) string {
	if len(args) == 0 {
		return "-"
	}
	return args[0]
}

// readDocument reads the document lines named by args, or exits with
// ExitDataError.
func readDocument(args []string) []string {
	path := inputPath(args)

	if path != "-" && (inputPDF || strings.EqualFold(filepath.Ext(path), ".pdf")) {
		lines, err := pdf.ExtractLines(path, inputMaxPages)
		if err != nil {
			exitWithError(ExitDataError, "reading %s: %v", path, err)
		}
		logger.Debug("read pdf", zap.String("path", path), zap.Int("lines", len(lines)))
		return lines
	}

	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			exitWithError(ExitDataError, "opening %s: %v", path, err)
		}
		defer f.Close()
		r = f
	}

	lines, err := document.ReadLines(r)
	if err != nil {
		exitWithError(ExitDataError, "reading %s: %v", path, err)
	}
	logger.Debug("read text", zap.String("path", path), zap.Int("lines", len(lines)))
	return lines
}

// newEngine builds an engine from the loaded settings.
func newEngine(opts ...engine.Option) *engine.Engine {
	base := []engine.Option{
		engine.WithDetector(boundary.NewDetector(settings.Detector)),
		engine.WithLogger(logger),
	}
	return engine.New(append(base, opts...)...)
}

// mustAnalyze runs the engine over lines or exits.
func mustAnalyze(e *engine.Engine, lines []string) *engine.Analysis {
	a, err := e.Analyze(lines)
	if err != nil {
		exitWithError(ExitDataError, "analyzing document: %v", err)
	}
	return a
}

// openRulesStore opens the configured rules backend for a workspace.
func openRulesStore(root string) (policy.Store, func() error, error) {
	if settings.RulesBackend == config.BackendSQLite {
		db, err := storage.OpenRulesDB(config.DBPath(root))
		if err != nil {
			return nil, nil, err
		}
		return db, db.Close, nil
	}
	return policy.NewFileStore(config.RulesPath(root)), func() error { return nil }, nil
}

// currentRules loads rules from the workspace, falling back to the
// defaults outside one.
func currentRules() (policy.Rules, error) {
	start, err := config.StartDir()
	if err != nil {
		return policy.Rules{}, err
	}
	root, err := config.FindWorkspace(start)
	if errors.Is(err, config.ErrNotWorkspace) {
		logger.Debug("no workspace, using default rules", zap.String("start", start))
		return policy.DefaultRules(), nil
	}
	if err != nil {
		return policy.Rules{}, err
	}

	store, closeStore, err := openRulesStore(root)
	if err != nil {
		return policy.Rules{}, fmt.Errorf("opening rules store: %w", err)
	}
	defer closeStore()

	rules, err := store.Load()
	if err != nil {
		return policy.Rules{}, fmt.Errorf("loading rules: %w", err)
	}
	return rules, nil
}
