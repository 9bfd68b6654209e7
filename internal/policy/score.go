package policy

import (
	"fmt"
	"math"
	"sort"

	"github.com/matsen/citecheck/internal/citekey"
	"github.com/matsen/citecheck/internal/consistency"
)

// Decision is the final verdict.
type Decision int

const (
	Accept Decision = iota
	Revise
	Reject
)

func (d Decision) String() string {
	switch d {
	case Accept:
		return "ACCEPT"
	case Revise:
		return "REVISE"
	case Reject:
		return "REJECT"
	default:
		return fmt.Sprintf("Decision(%d)", int(d))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d Decision) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Decision) UnmarshalText(b []byte) error {
	switch string(b) {
	case "ACCEPT":
		*d = Accept
	case "REVISE":
		*d = Revise
	case "REJECT":
		*d = Reject
	default:
		return fmt.Errorf("unknown decision %q", string(b))
	}
	return nil
}

// Penalty caps bound the items listed per penalty.
const (
	MaxMissingItems    = 50
	MaxUncitedItems    = 50
	MaxIncompleteItems = 20
)

// Scores are the component scores, each in [0,100].
type Scores struct {
	Coverage     float64 `json:"coverage_score"`
	Correctness  float64 `json:"correctness_score"`
	Completeness float64 `json:"completeness_score"`
}

// Penalty is one human-readable issue group.
type Penalty struct {
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Count    int    `json:"count"`

	Items                []citekey.Key               `json:"items,omitempty"`
	CitedIncompleteCount int                         `json:"cited_incomplete_count,omitempty"`
	Examples             []consistency.IncompleteRef `json:"examples,omitempty"`
}

// Evaluation is the result of applying rules to a report.
type Evaluation struct {
	OverallScore float64   `json:"overall_score"`
	Scores       Scores    `json:"scores"`
	Decision     Decision  `json:"decision"`
	Reason       string    `json:"reason"`
	Penalties    []Penalty `json:"penalties"`
	Rules        Rules     `json:"rules"`
}

// ComponentScores scales the report's coverage, correctness and
// completeness metrics to [0,100].
func ComponentScores(rep *consistency.Report) Scores {
	get := func(name string) float64 {
		v, _ := rep.Metrics.Get(name)
		return round2(clip(v, 0, 1) * 100)
	}
	return Scores{
		Coverage:     get(consistency.MetricCoverageF1),
		Correctness:  get(consistency.MetricCorrectness),
		Completeness: get(consistency.MetricCompleteness),
	}
}

// OverallScore is the weighted sum of s with weights normalized to sum
// to one. A non-positive weight sum falls back to equal weights.
func OverallScore(s Scores, r Rules) float64 {
	wCov, wCor, wCom := r.WCoverage, r.WCorrectness, r.WCompleteness
	sum := wCov + wCor + wCom
	if sum <= 0 {
		wCov, wCor, wCom = 1.0/3, 1.0/3, 1.0/3
	} else {
		wCov, wCor, wCom = wCov/sum, wCor/sum, wCom/sum
	}
	return clip(wCov*s.Coverage+wCor*s.Correctness+wCom*s.Completeness, 0, 100)
}

// Decide maps an overall score and issue counts to a decision and a
// reason. Guardrails are checked before thresholds.
func Decide(overall float64, missingInRef, incompleteRefs int, r Rules) (Decision, string) {
	if missingInRef > r.MaxMissingInRef {
		return Reject, fmt.Sprintf("too many missing citations in reference list: %d > %d", missingInRef, r.MaxMissingInRef)
	}
	if incompleteRefs > r.MaxIncompleteRefs {
		return Revise, fmt.Sprintf("too many incomplete reference entries: %d > %d", incompleteRefs, r.MaxIncompleteRefs)
	}

	switch {
	case overall >= r.AcceptThreshold:
		return Accept, fmt.Sprintf("score %.2f >= accept_threshold %.2f", overall, r.AcceptThreshold)
	case overall >= r.ReviseThreshold:
		return Revise, fmt.Sprintf("score %.2f >= revise_threshold %.2f", overall, r.ReviseThreshold)
	default:
		return Reject, fmt.Sprintf("score %.2f < revise_threshold %.2f", overall, r.ReviseThreshold)
	}
}

// Penalties lists the report's issues grouped by type.
func Penalties(rep *consistency.Report) []Penalty {
	out := []Penalty{}

	if missing := sortedKeys(rep.MissingInRefKeys()); len(missing) > 0 {
		out = append(out, Penalty{
			Type:     "missing_in_reference_list",
			Severity: "high",
			Count:    len(missing),
			Items:    capKeys(missing, MaxMissingItems),
		})
	}

	if len(rep.MissingInText) > 0 {
		keys := make([]citekey.Key, 0, len(rep.MissingInText))
		for _, m := range rep.MissingInText {
			keys = append(keys, m.RefKey)
		}
		keys = sortedKeys(keys)
		out = append(out, Penalty{
			Type:     "uncited_reference_entries",
			Severity: "medium",
			Count:    len(keys),
			Items:    capKeys(keys, MaxUncitedItems),
		})
	}

	if len(rep.IncompleteRefs) > 0 {
		cited := 0
		for _, ir := range rep.IncompleteRefs {
			if ir.Cited {
				cited++
			}
		}
		examples := rep.IncompleteRefs
		if len(examples) > MaxIncompleteItems {
			examples = examples[:MaxIncompleteItems]
		}
		out = append(out, Penalty{
			Type:                 "incomplete_reference_entries",
			Severity:             "medium",
			Count:                len(rep.IncompleteRefs),
			CitedIncompleteCount: cited,
			Examples:             examples,
		})
	}

	return out
}

// Evaluate scores rep under r and decides.
func Evaluate(rep *consistency.Report, r Rules) Evaluation {
	scores := ComponentScores(rep)
	overall := OverallScore(scores, r)
	decision, reason := Decide(overall, len(rep.MissingInRef), len(rep.IncompleteRefs), r)
	return Evaluation{
		OverallScore: round2(overall),
		Scores:       scores,
		Decision:     decision,
		Reason:       reason,
		Penalties:    Penalties(rep),
		Rules:        r,
	}
}

func sortedKeys(keys []citekey.Key) []citekey.Key {
	seen := make(map[citekey.Key]bool, len(keys))
	out := make([]citekey.Key, 0, len(keys))
	for _, k := range keys {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func capKeys(keys []citekey.Key, n int) []citekey.Key {
	if len(keys) > n {
		return keys[:n]
	}
	return keys
}

func clip(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
