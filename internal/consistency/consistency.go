// Package consistency compares in-text citation keys against
// reference-list keys and reports missing, uncited and incomplete
// references together with coverage metrics.
//
// Compare is a pure function of its inputs: identical inputs give
// identical reports.
package consistency

import (
	"math"

	"github.com/matsen/citecheck/internal/citation"
	"github.com/matsen/citecheck/internal/citekey"
	"github.com/matsen/citecheck/internal/reference"
)

// Options holds the constants of the comparison.
type Options struct {
	// IncompleteThreshold is the completeness score under which an entry
	// is incomplete.
	IncompleteThreshold float64 `mapstructure:"incomplete_threshold" yaml:"incomplete_threshold"`
	// ShortEntryLen is the rune length under which an entry with neither
	// year nor DOI/URL is incomplete.
	ShortEntryLen int `mapstructure:"short_entry_len" yaml:"short_entry_len"`
	// MissRefWeight and MissTextWeight weigh the two miss rates in the
	// correctness signal.
	MissRefWeight  float64 `mapstructure:"miss_ref_weight" yaml:"miss_ref_weight"`
	MissTextWeight float64 `mapstructure:"miss_text_weight" yaml:"miss_text_weight"`
	// CitedIncompletePenalty scales the share of cited entries that are
	// incomplete before it is subtracted from average completeness.
	CitedIncompletePenalty float64 `mapstructure:"cited_incomplete_penalty" yaml:"cited_incomplete_penalty"`
}

// DefaultOptions returns the standard comparison constants.
func DefaultOptions() Options {
	return Options{
		IncompleteThreshold:    0.55,
		ShortEntryLen:          35,
		MissRefWeight:          0.85,
		MissTextWeight:         0.45,
		CitedIncompletePenalty: 0.35,
	}
}

// Compare builds a report with DefaultOptions.
func Compare(cits []citation.Citation, entries []reference.Entry) *Report {
	return CompareWith(cits, entries, DefaultOptions())
}

// CompareWith builds a report for the given citations and entries.
func CompareWith(cits []citation.Citation, entries []reference.Entry, opts Options) *Report {
	citeKeys := citation.KeySet(cits)
	citeSet := keySet(citeKeys)
	refKeys := reference.Keys(entries)
	refSet := keySet(refKeys)

	rep := &Report{
		InTextCount:    len(cits),
		RefListCount:   len(entries),
		MissingInRef:   []MissingInRef{},
		MissingInText:  []MissingInText{},
		IncompleteRefs: []IncompleteRef{},
		Metrics:        Metrics{},
	}

	for _, c := range cits {
		var missing []citekey.Key
		for _, k := range c.Keys {
			if !refSet[k] {
				missing = append(missing, k)
			}
		}
		if len(missing) > 0 {
			rep.MissingInRef = append(rep.MissingInRef, MissingInRef{Citation: c, MissingKeys: missing})
		}
	}

	uncitedKeys := make(map[citekey.Key]bool)
	for _, e := range entries {
		if e.Key.Matchable() && !citeSet[e.Key] {
			uncitedKeys[e.Key] = true
			rep.MissingInText = append(rep.MissingInText, MissingInText{RefKey: e.Key, RefIndex: e.Index, RefRaw: e.Raw})
		}
	}

	var (
		completenessSum float64
		citedEntries    int
		citedIncomplete int
	)
	for _, e := range entries {
		completenessSum += e.Completeness
		cited := citeSet[e.Key]
		incomplete := opts.incomplete(e)
		if cited {
			citedEntries++
			if incomplete {
				citedIncomplete++
			}
		}
		if incomplete {
			rep.IncompleteRefs = append(rep.IncompleteRefs, IncompleteRef{
				RefKey:        e.Key,
				RefIndex:      e.Index,
				RefRaw:        e.Raw,
				CompleteScore: e.Completeness,
				Flags:         e.Flags,
				Cited:         cited,
			})
		}
	}

	overlap := 0
	for _, k := range citeKeys {
		if refSet[k] {
			overlap++
		}
	}
	precision := ratioOr(overlap, len(citeKeys), 1.0)
	recall := ratioOr(overlap, len(refKeys), 1.0)
	f1 := 0.0
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}

	missRefRate := ratioOr(len(rep.MissingInRefKeys()), len(citeKeys), 0.0)
	missTextRate := ratioOr(len(uncitedKeys), len(refKeys), 0.0)
	correctness := 1.0 - clip(opts.MissRefWeight*missRefRate+opts.MissTextWeight*missTextRate, 0, 1)

	avgCompleteness := 1.0
	if len(entries) > 0 {
		avgCompleteness = completenessSum / float64(len(entries))
	}
	citedIncompleteRate := ratioOr(citedIncomplete, citedEntries, 0.0)
	completeness := clip(avgCompleteness-opts.CitedIncompletePenalty*citedIncompleteRate, 0, 1)

	m := rep.Metrics
	m[MetricPrecision] = round4(precision)
	m[MetricRecall] = round4(recall)
	m[MetricCoverageF1] = round4(f1)
	m[MetricCorrectness] = round4(correctness)
	m[MetricCompleteness] = round4(completeness)
	m[MetricAvgRefCompleteness] = round4(avgCompleteness)
	m[MetricCitedIncomplete] = round4(citedIncompleteRate)
	m[MetricInTextUnique] = float64(len(citeKeys))
	m[MetricReferenceUnique] = float64(len(refKeys))
	m[MetricOverlap] = float64(overlap)
	m[MetricMissingInRefCount] = float64(len(rep.MissingInRef))
	m[MetricMissingInTextCount] = float64(len(rep.MissingInText))
	m[MetricIncompleteRefsCount] = float64(len(rep.IncompleteRefs))
	if len(entries) > 0 {
		m[MetricIncompleteRatio] = round4(float64(len(rep.IncompleteRefs)) / float64(len(entries)))
	}
	numericCoverage(m, citeKeys, entries)

	return rep
}

// incomplete reports whether e looks bibliographically incomplete.
func (o Options) incomplete(e reference.Entry) bool {
	if e.Completeness < o.IncompleteThreshold {
		return true
	}
	return e.Len() < o.ShortEntryLen && !e.Flags.HasYear && !e.Flags.HasDOIOrURL
}

// numericCoverage adds the numeric-only coverage metrics when the
// document uses numbered citations or entries.
func numericCoverage(m Metrics, citeKeys []citekey.Key, entries []reference.Entry) {
	cited := make(map[int]bool)
	for _, k := range citeKeys {
		if n, ok := k.Number(); ok {
			cited[n] = true
		}
	}
	listed := make(map[int]bool)
	for _, e := range entries {
		if e.Index != nil {
			listed[*e.Index] = true
		}
	}

	if len(cited) > 0 {
		found := 0
		for n := range cited {
			if listed[n] {
				found++
			}
		}
		m[MetricNumericRefCoverage] = round4(float64(found) / float64(len(cited)))
	}
	if len(listed) > 0 {
		used := 0
		for n := range listed {
			if cited[n] {
				used++
			}
		}
		m[MetricRefInTextCoverage] = round4(float64(used) / float64(len(listed)))
	}
}

func keySet(keys []citekey.Key) map[citekey.Key]bool {
	set := make(map[citekey.Key]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return set
}

// ratioOr returns num/den, or fallback when den is zero.
func ratioOr(num, den int, fallback float64) float64 {
	if den == 0 {
		return fallback
	}
	return float64(num) / float64(den)
}

func clip(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

func round4(x float64) float64 {
	return math.Round(x*1e4) / 1e4
}
