// Package textpat holds the regular expressions shared by the boundary
// detector, the citation extractor and the reference parser.
package textpat

import "regexp"

var (
	// Year matches a year token anywhere, including inside longer digit runs.
	Year = regexp.MustCompile(`(?:19|20)\d{2}|1[3-4]\d{2}`)

	// WordYear matches a standalone Gregorian (19xx, 20xx) or Solar Hijri
	// (13xx, 14xx) year.
	WordYear = regexp.MustCompile(`\b(?:19|20)\d{2}\b|\b1[3-4]\d{2}\b`)

	// DOI matches "doi: ..." prefixes and bare 10.NNNN/... identifiers.
	DOI = regexp.MustCompile(`(?i)\bdoi\s*:\s*\S+|\b10\.\d{4,9}/\S+`)

	// URL matches http(s) and www links.
	URL = regexp.MustCompile(`(?i)(?:https?://|www\.)\S+`)

	// BracketLead matches a line starting with "[12]".
	BracketLead = regexp.MustCompile(`^\s*\[\s*\d{1,4}\s*\]`)

	// NumeralLead matches a line starting with "12." "12-" "12)" or "(12)"
	// followed by whitespace.
	NumeralLead = regexp.MustCompile(`^\s*(?:\d{1,4}[\.\-\)]|\(\d{1,4}\))\s+`)

	// EntryIndex captures the index of a numbered reference entry:
	// "[12]" in group 1, or "12." "12)" "12-" in group 2.
	EntryIndex = regexp.MustCompile(`^\s*(?:\[\s*(\d{1,4})\s*\]|(\d{1,4})\s*[\.\)\-])\s*`)
)

// HasDOIOrURL reports whether s carries a DOI or a URL.
func HasDOIOrURL(s string) bool {
	return DOI.MatchString(s) || URL.MatchString(s)
}
