package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/citecheck/internal/config"
	"github.com/matsen/citecheck/internal/policy"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a citecheck workspace",
	Long: `Initialize a citecheck workspace in the current directory.

Creates:
  .citecheck/
  ├── rules.yml       # Default scoring rules
  └── cache/          # Rules database (sqlite backend)`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	root, err := config.StartDir()
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if err := config.InitWorkspace(root); err != nil {
		exitWithError(ExitError, "%v", err)
	}

	rules := policy.DefaultRules()
	if err := policy.NewFileStore(config.RulesPath(root)).Save(rules); err != nil {
		exitWithError(ExitError, "creating rules.yml: %v", err)
	}

	if settings.RulesBackend == config.BackendSQLite {
		store, closeStore, err := openRulesStore(root)
		if err != nil {
			exitWithError(ExitError, "creating rules database: %v", err)
		}
		err = store.Save(rules)
		closeStore()
		if err != nil {
			exitWithError(ExitError, "saving initial rules: %v", err)
		}
	}

	if humanOutput {
		fmt.Printf("Initialized citecheck workspace in %s\n", root)
	} else {
		outputJSON(StatusResponse{Status: "initialized", Path: root})
	}
	return nil
}
