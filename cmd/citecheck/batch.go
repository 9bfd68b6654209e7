package main

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matsen/citecheck/internal/consistency"
	"github.com/matsen/citecheck/internal/engine"
	"github.com/matsen/citecheck/internal/metrics"
	"github.com/matsen/citecheck/internal/policy"
	"github.com/matsen/citecheck/internal/storage"
)

var (
	batchWorkers     int
	batchMetricsFile string
)

func init() {
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 0, "Documents analyzed in parallel (default from settings)")
	batchCmd.Flags().StringVar(&batchMetricsFile, "metrics-file", "", "Write prometheus metrics to this textfile")
	rootCmd.AddCommand(batchCmd)
}

var batchCmd = &cobra.Command{
	Use:   "batch <documents.jsonl|->",
	Short: "Analyze and evaluate many documents",
	Long: `Analyze and evaluate many documents in parallel.

Input is JSONL, one document per line:
  {"id": "paper-1", "lines": ["...", "..."]}
  {"id": "paper-2", "text": "full text with newlines"}

Output is JSONL in input order, one result per document.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

// BatchRecord is one line of batch output.
type BatchRecord struct {
	RunID               string              `json:"run_id"`
	ID                  string              `json:"id"`
	HasReferenceSection bool                `json:"has_reference_section"`
	Span                *engine.Span        `json:"span,omitempty"`
	Report              *consistency.Report `json:"report,omitempty"`
	Evaluation          *policy.Evaluation  `json:"evaluation,omitempty"`
	Error               string              `json:"error,omitempty"`
}

func runBatch(cmd *cobra.Command, args []string) error {
	docs := readBatch(args[0])

	rules, err := currentRules()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	workers := batchWorkers
	if workers <= 0 {
		workers = settings.Workers
	}

	runID := uuid.NewString()
	rec := metrics.NewRecorder()
	e := newEngine(engine.WithRecorder(rec))

	jobs := make([]engine.Job, len(docs))
	for i, d := range docs {
		jobs[i] = engine.Job{ID: d.ID, Lines: d.Content()}
	}

	started := time.Now()
	results := e.AnalyzeAll(jobs, workers)

	records := make([]BatchRecord, len(results))
	counts := map[policy.Decision]int{}
	failed := 0
	for i, r := range results {
		records[i] = BatchRecord{RunID: runID, ID: r.ID}
		if r.Err != nil {
			records[i].Error = r.Err.Error()
			failed++
			continue
		}
		ev := policy.Evaluate(r.Analysis.Report, rules)
		rec.ObserveDecision(ev.Decision.String())
		counts[ev.Decision]++

		records[i].HasReferenceSection = r.Analysis.HasReferenceSection
		records[i].Span = r.Analysis.Span
		records[i].Report = r.Analysis.Report
		records[i].Evaluation = &ev
	}

	logger.Info("batch complete",
		zap.String("run_id", runID),
		zap.Int("documents", len(docs)),
		zap.Int("workers", workers),
		zap.Int("failed", failed),
		zap.Duration("elapsed", time.Since(started)),
	)

	if batchMetricsFile != "" {
		if err := rec.WriteTextfile(batchMetricsFile); err != nil {
			exitWithError(ExitError, "%v", err)
		}
	}

	if humanOutput {
		for _, r := range records {
			if r.Error != "" {
				fmt.Printf("%-20s ERROR   %s\n", r.ID, r.Error)
				continue
			}
			fmt.Printf("%-20s %-7s %6.2f  %s\n", r.ID, r.Evaluation.Decision, r.Evaluation.OverallScore, r.Evaluation.Reason)
		}
		fmt.Printf("\n%d documents: %d accept, %d revise, %d reject, %d failed (run %s)\n",
			len(records), counts[policy.Accept], counts[policy.Revise], counts[policy.Reject], failed, runID)
		return nil
	}

	if err := storage.WriteJSONL(os.Stdout, records); err != nil {
		exitWithError(ExitError, "writing results: %v", err)
	}
	return nil
}

// readBatch reads batch documents from path or stdin, or exits.
func readBatch(path string) []storage.Document {
	var (
		docs []storage.Document
		err  error
	)
	if path == "-" {
		docs, err = storage.ReadDocuments(os.Stdin)
	} else {
		docs, err = storage.ReadDocumentsFile(path)
	}
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}
	return docs
}
