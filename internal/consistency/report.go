package consistency

import (
	"github.com/matsen/citecheck/internal/citation"
	"github.com/matsen/citecheck/internal/citekey"
	"github.com/matsen/citecheck/internal/reference"
)

// Metric names.
const (
	MetricPrecision           = "precision"
	MetricRecall              = "recall"
	MetricCoverageF1          = "coverage_f1"
	MetricCorrectness         = "correctness"
	MetricCompleteness        = "completeness"
	MetricAvgRefCompleteness  = "avg_ref_completeness"
	MetricCitedIncomplete     = "cited_incomplete_rate"
	MetricIncompleteRatio     = "incomplete_ratio"
	MetricInTextUnique        = "in_text_unique"
	MetricReferenceUnique     = "reference_unique"
	MetricOverlap             = "overlap"
	MetricMissingInRefCount   = "missing_in_ref_count"
	MetricMissingInTextCount  = "missing_in_text_count"
	MetricIncompleteRefsCount = "incomplete_refs_count"
	MetricNumericRefCoverage  = "numeric_ref_coverage"
	MetricRefInTextCoverage   = "ref_in_text_coverage"
)

// Metrics maps metric names to values. Optional metrics are absent when
// undefined for the input.
type Metrics map[string]float64

// Get returns the named metric and whether it is present.
func (m Metrics) Get(name string) (float64, bool) {
	v, ok := m[name]
	return v, ok
}

// MissingInRef is a citation with keys that no reference entry carries.
// MissingKeys holds only the unmatched subset.
type MissingInRef struct {
	Citation    citation.Citation `json:"citation"`
	MissingKeys []citekey.Key     `json:"missing_keys"`
}

// MissingInText is a reference entry that is never cited.
type MissingInText struct {
	RefKey   citekey.Key `json:"ref_key"`
	RefIndex *int        `json:"ref_index"`
	RefRaw   string      `json:"ref_raw"`
}

// IncompleteRef is a reference entry that looks bibliographically
// incomplete.
type IncompleteRef struct {
	RefKey        citekey.Key     `json:"ref_key"`
	RefIndex      *int            `json:"ref_index"`
	RefRaw        string          `json:"ref_raw"`
	CompleteScore float64         `json:"complete_score"`
	Flags         reference.Flags `json:"flags"`
	Cited         bool            `json:"cited"`
}

// Report is the outcome of comparing citations against reference entries.
type Report struct {
	InTextCount    int             `json:"in_text_count"`
	RefListCount   int             `json:"ref_list_count"`
	MissingInRef   []MissingInRef  `json:"missing_in_ref"`
	MissingInText  []MissingInText `json:"missing_in_text"`
	IncompleteRefs []IncompleteRef `json:"incomplete_refs"`
	Metrics        Metrics         `json:"metrics"`
}

// MissingInRefKeys returns the distinct unmatched citation keys in
// first-seen order.
func (r *Report) MissingInRefKeys() []citekey.Key {
	var keys []citekey.Key
	seen := make(map[citekey.Key]bool)
	for _, m := range r.MissingInRef {
		for _, k := range m.MissingKeys {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	return keys
}
