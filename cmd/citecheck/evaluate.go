package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/citecheck/internal/engine"
	"github.com/matsen/citecheck/internal/policy"
)

func init() {
	addInputFlags(evaluateCmd)
	rootCmd.AddCommand(evaluateCmd)
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate [file|-]",
	Short: "Analyze a document and decide ACCEPT, REVISE or REJECT",
	Long: `Analyze a document and score it with the workspace's rules.

Outside a workspace the default rules are used. See 'citecheck rules'.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEvaluate,
}

// EvaluateResult is the response for the evaluate command.
type EvaluateResult struct {
	*engine.Analysis
	Evaluation policy.Evaluation `json:"evaluation"`
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	rules, err := currentRules()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	a := mustAnalyze(newEngine(), readDocument(args))
	ev := policy.Evaluate(a.Report, rules)

	if humanOutput {
		printAnalysisHuman(a)
		fmt.Println()
		printEvaluationHuman(ev)
		return nil
	}
	return outputJSON(EvaluateResult{Analysis: a, Evaluation: ev})
}

func printEvaluationHuman(ev policy.Evaluation) {
	fmt.Printf("Decision: %s (%s)\n", ev.Decision, ev.Reason)
	fmt.Printf("Overall: %.2f  coverage %.2f  correctness %.2f  completeness %.2f\n",
		ev.OverallScore, ev.Scores.Coverage, ev.Scores.Correctness, ev.Scores.Completeness)
	for _, p := range ev.Penalties {
		fmt.Printf("  [%s] %s: %d\n", p.Severity, p.Type, p.Count)
	}
}
