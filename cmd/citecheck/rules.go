package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matsen/citecheck/internal/config"
	"github.com/matsen/citecheck/internal/policy"
	"github.com/matsen/citecheck/internal/storage"
)

var historyLimit int

func init() {
	rulesHistoryCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum revisions to show (0 = all)")
	rulesCmd.AddCommand(rulesSetCmd)
	rulesCmd.AddCommand(rulesHistoryCmd)
	rootCmd.AddCommand(rulesCmd)
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Show the workspace's scoring rules",
	Long: `Show the workspace's scoring rules.

Rules hold the component weights, the accept/revise thresholds, and the
guardrail caps used by 'citecheck evaluate' and 'citecheck batch'. They
live in .citecheck/rules.yml, or in .citecheck/cache/rules.db when
rules_backend is sqlite.`,
	Args: cobra.NoArgs,
	RunE: runRulesShow,
}

var rulesSetCmd = &cobra.Command{
	Use:   "set <key=value>...",
	Short: "Update one or more scoring rules",
	Long: fmt.Sprintf(`Update one or more scoring rules.

Keys: %s`, strings.Join(policy.FieldNames(), ", ")),
	Args: cobra.MinimumNArgs(1),
	RunE: runRulesSet,
}

var rulesHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved rule revisions (sqlite backend)",
	Args:  cobra.NoArgs,
	RunE:  runRulesHistory,
}

// RulesResponse is the response for rules and rules set.
type RulesResponse struct {
	Backend string       `json:"backend"`
	Rules   policy.Rules `json:"rules"`
}

func runRulesShow(cmd *cobra.Command, args []string) error {
	root := mustFindWorkspace()
	store, closeStore, err := openRulesStore(root)
	if err != nil {
		exitWithError(ExitConfigError, "opening rules store: %v", err)
	}
	defer closeStore()

	rules, err := store.Load()
	if err != nil {
		exitWithError(ExitDataError, "loading rules: %v", err)
	}
	return printRules(rules)
}

func runRulesSet(cmd *cobra.Command, args []string) error {
	patch, err := policy.ParsePatch(args)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	root := mustFindWorkspace()
	store, closeStore, err := openRulesStore(root)
	if err != nil {
		exitWithError(ExitConfigError, "opening rules store: %v", err)
	}
	defer closeStore()

	rules, err := policy.Update(store, patch)
	if err != nil {
		if errors.Is(err, policy.ErrUnknownRule) || errors.Is(err, policy.ErrInvalidRule) {
			exitWithError(ExitDataError, "%v", err)
		}
		exitWithError(ExitError, "%v", err)
	}
	logger.Info("rules updated", zap.Any("patch", patch), zap.String("backend", settings.RulesBackend))

	return printRules(rules)
}

func runRulesHistory(cmd *cobra.Command, args []string) error {
	if settings.RulesBackend != config.BackendSQLite {
		exitWithError(ExitConfigError, "rules history requires rules_backend: %s", config.BackendSQLite)
	}

	root := mustFindWorkspace()
	db, err := storage.OpenRulesDB(config.DBPath(root))
	if err != nil {
		exitWithError(ExitConfigError, "opening rules database: %v", err)
	}
	defer db.Close()

	revs, err := db.History(historyLimit)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	if humanOutput {
		if len(revs) == 0 {
			fmt.Println("No saved revisions")
			return nil
		}
		for _, rev := range revs {
			r := rev.Rules
			fmt.Printf("%s  %s  accept=%.2f revise=%.2f weights=%.2f/%.2f/%.2f caps=%d/%d\n",
				rev.CreatedAt.Format("2006-01-02 15:04:05"), rev.ID,
				r.AcceptThreshold, r.ReviseThreshold,
				r.WCoverage, r.WCorrectness, r.WCompleteness,
				r.MaxMissingInRef, r.MaxIncompleteRefs)
		}
		return nil
	}
	return outputJSON(revs)
}

func printRules(rules policy.Rules) error {
	if humanOutput {
		fmt.Printf("backend:             %s\n", settings.RulesBackend)
		fmt.Printf("w_coverage:          %g\n", rules.WCoverage)
		fmt.Printf("w_correctness:       %g\n", rules.WCorrectness)
		fmt.Printf("w_completeness:      %g\n", rules.WCompleteness)
		fmt.Printf("accept_threshold:    %g\n", rules.AcceptThreshold)
		fmt.Printf("revise_threshold:    %g\n", rules.ReviseThreshold)
		fmt.Printf("max_missing_in_ref:  %d\n", rules.MaxMissingInRef)
		fmt.Printf("max_incomplete_refs: %d\n", rules.MaxIncompleteRefs)
		return nil
	}
	return outputJSON(RulesResponse{Backend: settings.RulesBackend, Rules: rules})
}
