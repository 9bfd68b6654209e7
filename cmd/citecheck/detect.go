package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/citecheck/internal/boundary"
)

func init() {
	addInputFlags(detectCmd)
	rootCmd.AddCommand(detectCmd)
}

var detectCmd = &cobra.Command{
	Use:   "detect [file|-]",
	Short: "Locate the reference list and tag each line",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDetect,
}

// DetectLine is one tagged line in detect output.
type DetectLine struct {
	Index int                 `json:"index"`
	Tag   boundary.SectionTag `json:"tag"`
	Score float64             `json:"score"`
	Text  string              `json:"text"`
}

// DetectResult is the response for the detect command.
type DetectResult struct {
	Found  bool         `json:"found"`
	Start  *int         `json:"start"`
	End    *int         `json:"end"`
	Header *int         `json:"header,omitempty"`
	Lines  []DetectLine `json:"lines"`
}

func runDetect(cmd *cobra.Command, args []string) error {
	lines := readDocument(args)

	res, err := boundary.NewDetector(settings.Detector).Detect(lines)
	if err != nil {
		exitWithError(ExitDataError, "detecting reference section: %v", err)
	}

	out := DetectResult{
		Found:  res.Found(),
		Start:  res.Start,
		End:    res.End,
		Header: res.Header,
		Lines:  make([]DetectLine, len(lines)),
	}
	for i, text := range lines {
		out.Lines[i] = DetectLine{Index: i, Tag: res.Tags[i], Score: res.Scores[i], Text: text}
	}

	if humanOutput {
		if !out.Found {
			fmt.Println("No reference section found")
		}
		for _, l := range out.Lines {
			fmt.Printf("%5d  %-5s %5.2f  %s\n", l.Index+1, l.Tag, l.Score, truncateString(l.Text, RawTextMaxLen))
		}
		return nil
	}
	return outputJSON(out)
}
