// Package citekey builds the normalized keys used to match in-text
// citations against reference-list entries.
//
// Keys live in one of three namespaces:
//
//	N:<integer>            numeric citations and numbered entries
//	AY:<author>_<year>     author-year citations
//	TXT:<normalized text>  fallback for entries with neither
//
// Two keys match only when their strings are identical.
package citekey

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/matsen/citecheck/internal/textpat"
)

// Key namespace prefixes.
const (
	NumericPrefix    = "N:"
	AuthorYearPrefix = "AY:"
	TextPrefix       = "TXT:"
)

// TextKeyMaxLen is the maximum rune length of the text part of a TXT key.
const TextKeyMaxLen = 48

// MaxYearsPerSpan caps how many author-year keys one span can produce.
const MaxYearsPerSpan = 3

// UnknownAuthor stands in when no author token precedes a year.
const UnknownAuthor = "unknown"

// Namespace identifies how a key was derived.
type Namespace int

const (
	NamespaceNone Namespace = iota
	NamespaceNumeric
	NamespaceAuthorYear
	NamespaceText
)

func (n Namespace) String() string {
	switch n {
	case NamespaceNumeric:
		return "numeric"
	case NamespaceAuthorYear:
		return "author_year"
	case NamespaceText:
		return "text"
	default:
		return "none"
	}
}

// Key is a normalized, namespaced matching key.
type Key string

// Namespace reports the namespace of k from its prefix.
func (k Key) Namespace() Namespace {
	s := string(k)
	switch {
	case strings.HasPrefix(s, NumericPrefix):
		return NamespaceNumeric
	case strings.HasPrefix(s, AuthorYearPrefix):
		return NamespaceAuthorYear
	case strings.HasPrefix(s, TextPrefix):
		return NamespaceText
	default:
		return NamespaceNone
	}
}

// Matchable reports whether k can be reliably matched across the text and
// the reference list. Free-text fallback keys cannot.
func (k Key) Matchable() bool {
	ns := k.Namespace()
	return ns == NamespaceNumeric || ns == NamespaceAuthorYear
}

// Number returns the integer of a numeric key.
func (k Key) Number() (int, bool) {
	if k.Namespace() != NamespaceNumeric {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(string(k), NumericPrefix))
	if err != nil {
		return 0, false
	}
	return n, true
}

// Numeric returns the key for citation number n.
func Numeric(n int) Key {
	return Key(NumericPrefix + strconv.Itoa(n))
}

// Text returns the fallback key for a free-text entry.
func Text(raw string) Key {
	return Key(TextPrefix + truncateRunes(Normalize(raw), TextKeyMaxLen))
}

var (
	spacePattern     = regexp.MustCompile(`\s+`)
	quotePattern     = regexp.MustCompile("[“”\"'`]")
	invisiblePattern = regexp.MustCompile(`[\x{200b}-\x{200f}\x{202a}-\x{202e}\x{2066}-\x{2069}\x{feff}]`)
	disallowedChars  = regexp.MustCompile(`[^a-z0-9\x{0600}-\x{06ff},\-\s]`)
	tokenSeparator   = regexp.MustCompile(`[\s,;]+`)
)

// skippedAuthorTokens are connective tokens that never name an author.
var skippedAuthorTokens = map[string]bool{
	"et":      true,
	"al":      true,
	"and":     true,
	"و":       true,
	"همکاران": true,
}

// CollapseSpaces trims s and collapses internal whitespace runs to one space.
func CollapseSpaces(s string) string {
	return spacePattern.ReplaceAllString(strings.TrimSpace(s), " ")
}

// FoldDigits maps Persian and Arabic-Indic digits to ASCII digits.
func FoldDigits(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= '۰' && r <= '۹':
			return '0' + (r - '۰')
		case r >= '٠' && r <= '٩':
			return '0' + (r - '٠')
		}
		return r
	}, s)
}

// Normalize case-folds s, strips quotes and directional or invisible
// marks, and keeps only Latin letters, Persian letters, digits, commas
// and hyphens, with whitespace collapsed.
func Normalize(s string) string {
	s = strings.ToLower(CollapseSpaces(s))
	s = strings.ReplaceAll(s, "،", ",")
	s = quotePattern.ReplaceAllString(s, "")
	s = invisiblePattern.ReplaceAllString(s, "")
	s = disallowedChars.ReplaceAllString(s, " ")
	return CollapseSpaces(s)
}

// AuthorYear derives author-year keys from a snippet such as
// "(Smith, 2020)". For each of the first MaxYearsPerSpan years, the last
// one or two tokens before the year's first occurrence form the author.
// Returns nil when the snippet has no year.
func AuthorYear(text string) []Key {
	t := strings.ReplaceAll(CollapseSpaces(FoldDigits(text)), "،", ",")
	years := textpat.WordYear.FindAllString(t, -1)
	if len(years) == 0 {
		return nil
	}
	if len(years) > MaxYearsPerSpan {
		years = years[:MaxYearsPerSpan]
	}

	var keys []Key
	seen := make(map[Key]bool)
	for _, y := range years {
		idx := strings.Index(t, y)
		left := strings.Trim(t[:idx], " ,;")
		key := Key(AuthorYearPrefix + authorToken(left) + "_" + y)
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	return keys
}

// authorToken joins the last two usable tokens of left with underscores.
func authorToken(left string) string {
	var bits []string
	for _, tok := range tokenSeparator.Split(left, -1) {
		n := strings.ReplaceAll(Normalize(tok), " ", "_")
		if n == "" || skippedAuthorTokens[n] {
			continue
		}
		bits = append(bits, n)
	}
	if len(bits) == 0 {
		return UnknownAuthor
	}
	if len(bits) > 2 {
		bits = bits[len(bits)-2:]
	}
	return strings.Join(bits, "_")
}

// RuneLen returns the number of runes in s.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
