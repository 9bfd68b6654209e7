package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	addInputFlags(citationsCmd)
	rootCmd.AddCommand(citationsCmd)
}

var citationsCmd = &cobra.Command{
	Use:   "citations [file|-]",
	Short: "List in-text citations found outside the reference list",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCitations,
}

func runCitations(cmd *cobra.Command, args []string) error {
	a := mustAnalyze(newEngine(), readDocument(args))

	if humanOutput {
		if len(a.Citations) == 0 {
			fmt.Println("No citations found")
			return nil
		}
		for _, c := range a.Citations {
			fmt.Printf("line %d  %-11s %s -> %v\n", c.SourceLine+1, c.Kind, c.Raw, c.Keys)
		}
		return nil
	}
	return outputJSON(a.Citations)
}
