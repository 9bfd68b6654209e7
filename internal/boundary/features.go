package boundary

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/matsen/citecheck/internal/citekey"
	"github.com/matsen/citecheck/internal/textpat"
)

var (
	headerPattern = regexp.MustCompile(`(?i)^\s*(?:` +
		`منابع|مراجع|کتابنامه|فهرست[\s\x{200c}]*منابع|فهرست[\s\x{200c}]*مراجع|` +
		`references|bibliography|works\s*cited` +
		`)\s*[:：]?\s*$`)

	stopPattern = regexp.MustCompile(`(?i)^\s*(?:` +
		`پیوست|ضمیمه|appendix|` +
		`نتیجه(?:[\s\x{200c}]*گیری)?|جمع[\s\x{200c}]*بندی|conclusion|` +
		`چکیده|abstract|` +
		`فصل\s*\d+|chapter\s*\d+` +
		`)\s*[:：]?\s*$`)
)

const punctuation = ".,;:()[]{}-–—/\\"

// Features is the hand-built feature vector of one line.
type Features struct {
	IsHeader      bool
	HasBracketNum bool
	HasLeadNum    bool
	HasYear       bool
	HasDOI        bool
	HasURL        bool
	PunctDensity  float64
	LenNorm       float64
}

// Weights are the non-negative coefficients of the linear line scorer.
type Weights struct {
	IsHeader      float64 `mapstructure:"is_header" yaml:"is_header"`
	HasBracketNum float64 `mapstructure:"has_bracket_num" yaml:"has_bracket_num"`
	HasLeadNum    float64 `mapstructure:"has_lead_num" yaml:"has_lead_num"`
	HasYear       float64 `mapstructure:"has_year" yaml:"has_year"`
	HasDOI        float64 `mapstructure:"has_doi" yaml:"has_doi"`
	HasURL        float64 `mapstructure:"has_url" yaml:"has_url"`
	PunctDensity  float64 `mapstructure:"punct_density" yaml:"punct_density"`
	LenNorm       float64 `mapstructure:"len_norm" yaml:"len_norm"`
}

// DefaultWeights returns the untrained default coefficients.
func DefaultWeights() Weights {
	return Weights{
		IsHeader:      3.5,
		HasBracketNum: 1.6,
		HasLeadNum:    1.2,
		HasYear:       1.0,
		HasDOI:        1.8,
		HasURL:        1.3,
		PunctDensity:  0.8,
		LenNorm:       0.4,
	}
}

// Score combines f into a scalar.
func (w Weights) Score(f Features) float64 {
	return w.IsHeader*b2f(f.IsHeader) +
		w.HasBracketNum*b2f(f.HasBracketNum) +
		w.HasLeadNum*b2f(f.HasLeadNum) +
		w.HasYear*b2f(f.HasYear) +
		w.HasDOI*b2f(f.HasDOI) +
		w.HasURL*b2f(f.HasURL) +
		w.PunctDensity*f.PunctDensity +
		w.LenNorm*f.LenNorm
}

// ExtractFeatures computes the feature vector of a line. Blank lines
// yield the zero vector.
func ExtractFeatures(line string) Features {
	s := strings.TrimSpace(citekey.FoldDigits(line))
	if s == "" {
		return Features{}
	}

	n := utf8.RuneCountInString(s)
	punct := 0
	for _, r := range s {
		if strings.ContainsRune(punctuation, r) {
			punct++
		}
	}

	return Features{
		IsHeader:      headerPattern.MatchString(s),
		HasBracketNum: textpat.BracketLead.MatchString(s),
		HasLeadNum:    textpat.NumeralLead.MatchString(s),
		HasYear:       textpat.Year.MatchString(s),
		HasDOI:        textpat.DOI.MatchString(s),
		HasURL:        textpat.URL.MatchString(s),
		PunctDensity:  math.Min(1.0, float64(punct)/float64(max(10, n))),
		// Peaks at 80 runes and falls to zero 120 runes either side.
		LenNorm: math.Max(0.0, 1.0-math.Abs(float64(n)-80)/120.0),
	}
}

// IsHeader reports whether line is a reference-section header such as
// "References" or "منابع".
func IsHeader(line string) bool {
	return headerPattern.MatchString(strings.TrimSpace(line))
}

// IsStop reports whether line is a header of a section that follows the
// reference list (appendix, conclusion, abstract, chapter N).
func IsStop(line string) bool {
	return stopPattern.MatchString(strings.TrimSpace(line))
}

// LooksLikeReference reports whether line has the shape of a reference
// entry regardless of its score.
func LooksLikeReference(line string) bool {
	s := strings.TrimSpace(citekey.FoldDigits(line))
	if s == "" {
		return false
	}
	if textpat.BracketLead.MatchString(s) || textpat.NumeralLead.MatchString(s) {
		return true
	}
	if textpat.HasDOIOrURL(s) {
		return true
	}
	return textpat.Year.MatchString(s) && strings.ContainsAny(s, ".,،")
}

func b2f(b bool) float64 {
	if b {
		return 1.0
	}
	return 0.0
}
