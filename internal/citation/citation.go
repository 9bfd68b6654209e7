// Package citation extracts in-text citations from body lines.
//
// Two grammars are recognized: bracketed numeric blocks such as
// "[1,2,5-7]" and parenthetical author-year spans such as "(Smith, 2020)".
// Each line is processed on its own; there is no cross-line state.
package citation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/matsen/citecheck/internal/citekey"
	"github.com/matsen/citecheck/internal/document"
)

// MaxRangeSpan is the widest range "a-b" expanded member by member.
// Wider ranges contribute only their two endpoints.
const MaxRangeSpan = 200

// Kind distinguishes the citation grammars.
type Kind int

const (
	Numeric Kind = iota
	AuthorYear
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case AuthorYear:
		return "author_year"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// MarshalText encodes k as its name.
func (k Kind) MarshalText() ([]byte, error) {
	switch k {
	case Numeric, AuthorYear:
		return []byte(k.String()), nil
	default:
		return nil, fmt.Errorf("unknown citation kind %d", int(k))
	}
}

// UnmarshalText decodes a kind name.
func (k *Kind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "numeric":
		*k = Numeric
	case "author_year":
		*k = AuthorYear
	default:
		return fmt.Errorf("unknown citation kind %q", string(b))
	}
	return nil
}

// Citation is one in-text citation occurrence. Keys is never empty.
type Citation struct {
	Kind       Kind          `json:"kind"`
	Raw        string        `json:"raw"`
	Keys       []citekey.Key `json:"keys"`
	SourceLine int           `json:"source_line"`
}

var (
	// bracketBlock matches "[1]", "[1-3]", "[1, 2, 5–7]".
	bracketBlock = regexp.MustCompile(`\[(?:\s*\d{1,4}\s*(?:[-–]\s*\d{1,4}\s*)?)(?:\s*,\s*\d{1,4}\s*(?:[-–]\s*\d{1,4}\s*)?)*\]`)

	// authorYearSpan matches a parenthetical containing a year. Permissive
	// on purpose so incomplete citations are caught too.
	authorYearSpan = regexp.MustCompile(`\([^()]{0,80}?\b(?:(?:19|20)\d{2}|1[3-4]\d{2})\b[^()]{0,40}?\)`)
)

// Extract finds every citation in lines. The result is empty, not nil,
// when nothing is found.
func Extract(lines []document.Line) []Citation {
	cits := []Citation{}
	for _, line := range lines {
		cits = append(cits, ExtractLine(line)...)
	}
	return cits
}

// ExtractLine finds the citations of a single line: numeric blocks first,
// then author-year spans, each in order of appearance.
func ExtractLine(line document.Line) []Citation {
	text := citekey.FoldDigits(line.Text)

	var cits []Citation
	for _, block := range bracketBlock.FindAllString(text, -1) {
		nums := ExpandNumericBlock(block)
		if len(nums) == 0 {
			continue
		}
		keys := make([]citekey.Key, len(nums))
		for i, n := range nums {
			keys[i] = citekey.Numeric(n)
		}
		cits = append(cits, Citation{Kind: Numeric, Raw: block, Keys: keys, SourceLine: line.Index})
	}

	for _, span := range authorYearSpan.FindAllString(text, -1) {
		keys := citekey.AuthorYear(span)
		if len(keys) == 0 {
			continue
		}
		cits = append(cits, Citation{Kind: AuthorYear, Raw: span, Keys: keys, SourceLine: line.Index})
	}
	return cits
}

// ExpandNumericBlock turns "[1,2,5-7]" into [1 2 5 6 7]. Duplicates are
// dropped keeping first-seen order. A range wider than MaxRangeSpan, or a
// descending one, contributes its two endpoints only. Non-numeric parts
// are skipped.
func ExpandNumericBlock(block string) []int {
	inner := strings.TrimSpace(block)
	inner = strings.TrimPrefix(inner, "[")
	inner = strings.TrimSuffix(inner, "]")
	inner = strings.ReplaceAll(inner, "–", "-")

	var nums []int
	for _, part := range strings.Split(inner, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi, isRange := strings.Cut(part, "-")
		if !isRange {
			if n, err := strconv.Atoi(part); err == nil {
				nums = append(nums, n)
			}
			continue
		}

		a, errA := strconv.Atoi(strings.TrimSpace(lo))
		b, errB := strconv.Atoi(strings.TrimSpace(hi))
		if errA != nil || errB != nil {
			continue
		}
		if a <= b && b-a <= MaxRangeSpan {
			for n := a; n <= b; n++ {
				nums = append(nums, n)
			}
		} else {
			nums = append(nums, a, b)
		}
	}

	out := make([]int, 0, len(nums))
	seen := make(map[int]bool, len(nums))
	for _, n := range nums {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

// KeySet returns the distinct keys of cits in first-seen order.
func KeySet(cits []Citation) []citekey.Key {
	var keys []citekey.Key
	seen := make(map[citekey.Key]bool)
	for _, c := range cits {
		for _, k := range c.Keys {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	return keys
}
