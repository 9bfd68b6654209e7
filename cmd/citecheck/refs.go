package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	addInputFlags(refsCmd)
	rootCmd.AddCommand(refsCmd)
}

var refsCmd = &cobra.Command{
	Use:   "refs [file|-]",
	Short: "List parsed reference entries with completeness scores",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRefs,
}

func runRefs(cmd *cobra.Command, args []string) error {
	a := mustAnalyze(newEngine(), readDocument(args))

	if humanOutput {
		if len(a.Entries) == 0 {
			fmt.Println("No reference entries found")
			return nil
		}
		for _, e := range a.Entries {
			fmt.Printf("%-4s %-20s %.2f  %s\n", optInt(e.Index), e.Key, e.Completeness, truncateString(e.Raw, RawTextMaxLen))
		}
		return nil
	}
	return outputJSON(a.Entries)
}
