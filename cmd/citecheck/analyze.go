package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/matsen/citecheck/internal/consistency"
	"github.com/matsen/citecheck/internal/engine"
)

func init() {
	addInputFlags(analyzeCmd)
	rootCmd.AddCommand(analyzeCmd)
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file|-]",
	Short: "Run the full consistency analysis on a document",
	Long: `Run the full consistency analysis on a document.

Reads plain text (or a PDF with --pdf) from the file argument or stdin,
locates the reference list, and reports citations missing from it,
uncited references, incomplete entries, and summary metrics.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	lines := readDocument(args)
	a := mustAnalyze(newEngine(), lines)

	if humanOutput {
		printAnalysisHuman(a)
		return nil
	}
	return outputJSON(a)
}

func printAnalysisHuman(a *engine.Analysis) {
	if a.Span != nil {
		fmt.Printf("Reference section: lines %d-%d\n", a.Span.Start+1, a.Span.End+1)
	} else {
		fmt.Println("Reference section: not found")
	}

	rep := a.Report
	fmt.Printf("Citations: %d  Reference entries: %d\n\n", rep.InTextCount, rep.RefListCount)

	if len(rep.MissingInRef) > 0 {
		fmt.Printf("Missing from reference list (%d):\n", len(rep.MissingInRef))
		for _, m := range rep.MissingInRef {
			fmt.Printf("  line %d: %s -> %v\n", m.Citation.SourceLine+1, m.Citation.Raw, m.MissingKeys)
		}
		fmt.Println()
	}
	if len(rep.MissingInText) > 0 {
		fmt.Printf("Never cited (%d):\n", len(rep.MissingInText))
		for _, m := range rep.MissingInText {
			fmt.Printf("  %s  %s\n", m.RefKey, truncateString(m.RefRaw, RawTextMaxLen))
		}
		fmt.Println()
	}
	if len(rep.IncompleteRefs) > 0 {
		fmt.Printf("Incomplete entries (%d):\n", len(rep.IncompleteRefs))
		for _, ir := range rep.IncompleteRefs {
			fmt.Printf("  %s [%.2f]  %s\n", ir.RefKey, ir.CompleteScore, truncateString(ir.RefRaw, RawTextMaxLen))
		}
		fmt.Println()
	}

	printMetricsHuman(rep.Metrics)
}

func printMetricsHuman(m consistency.Metrics) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("Metrics:")
	for _, name := range names {
		fmt.Printf("  %-24s %g\n", name, m[name])
	}
}
