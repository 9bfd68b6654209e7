package reference

import (
	"math"
	"regexp"
	"strconv"

	"github.com/matsen/citecheck/internal/citekey"
	"github.com/matsen/citecheck/internal/document"
	"github.com/matsen/citecheck/internal/textpat"
)

var (
	quotedTitle  = regexp.MustCompile(`["“][^"”]{6,120}["”]`)
	volumeIssue  = regexp.MustCompile(`\b\d+\s*\(\s*\d+\s*\)`)
	pagesPrefix  = regexp.MustCompile(`(?i)\bpp?\.\s*\d+`)
	numericRange = regexp.MustCompile(`\b\d{1,4}\s*[-–]\s*\d{1,4}\b`)
)

// Parse turns reference lines into entries, one per non-blank line.
// Wrapped entries are not merged. SourceLine is the position in lines.
func Parse(lines []string) []Entry {
	entries := []Entry{}
	for i, line := range lines {
		if e, ok := parseLine(line, i); ok {
			entries = append(entries, e)
		}
	}
	return entries
}

// ParseLines is Parse for lines that carry their document position.
func ParseLines(lines []document.Line) []Entry {
	entries := []Entry{}
	for _, line := range lines {
		if e, ok := parseLine(line.Text, line.Index); ok {
			entries = append(entries, e)
		}
	}
	return entries
}

func parseLine(line string, pos int) (Entry, bool) {
	raw := citekey.CollapseSpaces(line)
	if raw == "" {
		return Entry{}, false
	}

	e := Entry{Raw: raw, SourceLine: pos}
	if idx, ok := LeadingIndex(raw); ok {
		e.Index = &idx
		e.Key = citekey.Numeric(idx)
	} else if keys := citekey.AuthorYear(raw); len(keys) > 0 {
		e.Key = keys[0]
	} else {
		e.Key = citekey.Text(raw)
	}
	e.Completeness, e.Flags = Assess(raw)
	return e, true
}

// LeadingIndex returns the entry number of a line starting with "[n]",
// "n.", "n)" or "n-".
func LeadingIndex(line string) (int, bool) {
	m := textpat.EntryIndex.FindStringSubmatch(citekey.FoldDigits(line))
	if m == nil {
		return 0, false
	}
	s := m[1]
	if s == "" {
		s = m[2]
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Assess scores how complete a reference line looks, in [0, 1].
func Assess(raw string) (float64, Flags) {
	t := citekey.FoldDigits(citekey.CollapseSpaces(raw))
	n := citekey.RuneLen(t)

	flags := Flags{
		HasYear:        textpat.WordYear.MatchString(t),
		HasDOIOrURL:    textpat.HasDOIOrURL(t),
		HasTitleLike:   quotedTitle.MatchString(t) || n >= LongEntryLen,
		HasJournalLike: volumeIssue.MatchString(t) || pagesPrefix.MatchString(t) || numericRange.MatchString(t),
	}

	score := 0.0
	if flags.HasYear {
		score += WeightYear
	}
	if flags.HasTitleLike {
		score += WeightTitleLike
	}
	if flags.HasJournalLike {
		score += WeightJournalLike
	}
	if flags.HasDOIOrURL {
		score += WeightDOIOrURL
	}
	score = math.Min(1.0, math.Max(0.0, score))

	if n < ShortEntryLen && !flags.HasYear && !flags.HasDOIOrURL {
		score = math.Min(score, ShortEntryCap)
	}
	return score, flags
}

// Keys returns the distinct entry keys in first-seen order.
func Keys(entries []Entry) []citekey.Key {
	var keys []citekey.Key
	seen := make(map[citekey.Key]bool)
	for _, e := range entries {
		if !seen[e.Key] {
			seen[e.Key] = true
			keys = append(keys, e.Key)
		}
	}
	return keys
}

// Numbered reports whether the entry carries an explicit index.
func (e Entry) Numbered() bool {
	return e.Index != nil
}
