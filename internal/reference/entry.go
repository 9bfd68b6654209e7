// Package reference parses reference-list lines into entries with a
// matching key and a bibliographic completeness score.
package reference

import (
	"github.com/matsen/citecheck/internal/citekey"
)

// Completeness weights. They sum to 1.
const (
	WeightYear        = 0.35
	WeightTitleLike   = 0.25
	WeightJournalLike = 0.20
	WeightDOIOrURL    = 0.20
)

const (
	// ShortEntryLen is the rune length under which an entry lacking both a
	// year and a DOI/URL is capped at ShortEntryCap.
	ShortEntryLen = 30
	ShortEntryCap = 0.20

	// LongEntryLen is the rune length from which an entry counts as
	// carrying a title.
	LongEntryLen = 70
)

// Flags records which bibliographic fields an entry appears to carry.
type Flags struct {
	HasYear        bool `json:"has_year"`
	HasDOIOrURL    bool `json:"has_doi_or_url"`
	HasTitleLike   bool `json:"has_title_like"`
	HasJournalLike bool `json:"has_journal_like"`
}

// Entry is one parsed reference-list line.
type Entry struct {
	// Index is the entry number when the line starts with "[n]", "n.",
	// "n)" or "n-".
	Index *int `json:"index"`
	// Raw is the line with whitespace collapsed.
	Raw          string      `json:"raw"`
	Key          citekey.Key `json:"key"`
	Completeness float64     `json:"completeness"`
	Flags        Flags       `json:"flags"`
	SourceLine   int         `json:"source_line"`
}

// Len returns the rune length of the raw text.
func (e Entry) Len() int {
	return citekey.RuneLen(e.Raw)
}
