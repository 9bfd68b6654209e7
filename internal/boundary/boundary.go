// Package boundary locates the reference list inside a document.
//
// Detection runs in two phases. An anchor is found either by an explicit
// section header ("References", "منابع", ...) or, failing that, by the
// first window of lines whose mean feature score exceeds a start
// threshold. The span then grows forward from the anchor through a small
// state machine (Outside -> SectionStart -> InSection -> Outside) until a
// blank-line run, a next-section header, or a non-reference line ends it.
// A document has at most one span.
package boundary

import (
	"strings"

	"github.com/matsen/citecheck/internal/document"
)

// Config holds the detector's weights and thresholds.
type Config struct {
	Weights Weights `mapstructure:"weights" yaml:"weights"`

	// ThresholdStart is the mean window score a fallback anchor must exceed.
	ThresholdStart float64 `mapstructure:"threshold_start" yaml:"threshold_start"`
	// ThresholdIn is the per-line score that keeps a line inside the span.
	ThresholdIn float64 `mapstructure:"threshold_in" yaml:"threshold_in"`
	// Window is the number of lines averaged by the fallback rule.
	Window int `mapstructure:"window" yaml:"window"`
	// MaxLeadingBlanks bounds the blank lines skipped after the anchor.
	MaxLeadingBlanks int `mapstructure:"max_leading_blanks" yaml:"max_leading_blanks"`
	// MaxBlankRun is the longest blank run tolerated inside the span.
	MaxBlankRun int `mapstructure:"max_blank_run" yaml:"max_blank_run"`
	// MinAccumulated is the number of lines, counting the first entry,
	// within which a non-reference line is tolerated. Past it, the first
	// non-reference line ends the span.
	MinAccumulated int `mapstructure:"min_accumulated" yaml:"min_accumulated"`
}

// DefaultConfig returns the default detector configuration.
func DefaultConfig() Config {
	return Config{
		Weights:          DefaultWeights(),
		ThresholdStart:   3.0,
		ThresholdIn:      1.6,
		Window:           4,
		MaxLeadingBlanks: 5,
		MaxBlankRun:      2,
		MinAccumulated:   3,
	}
}

// Result is the outcome of a detection.
type Result struct {
	// Start and End are the first and last lines of the span (inclusive),
	// nil when no span was found.
	Start *int `json:"start"`
	End   *int `json:"end"`
	// Header is the header line that anchored the span, if any.
	Header *int `json:"header,omitempty"`

	Tags   []SectionTag `json:"tags"`
	Scores []float64    `json:"-"`
}

// Found reports whether a span was detected.
func (r *Result) Found() bool {
	return r.Start != nil && r.End != nil
}

// Span returns the inclusive span bounds.
func (r *Result) Span() (start, end int, ok bool) {
	if !r.Found() {
		return 0, 0, false
	}
	return *r.Start, *r.End, true
}

// Detector finds reference spans. It holds only immutable configuration
// and is safe for concurrent use.
type Detector struct {
	cfg Config
}

// NewDetector creates a detector, filling unset sizes from the defaults.
func NewDetector(cfg Config) *Detector {
	def := DefaultConfig()
	if cfg.Window <= 0 {
		cfg.Window = def.Window
	}
	if cfg.MaxLeadingBlanks < 0 {
		cfg.MaxLeadingBlanks = def.MaxLeadingBlanks
	}
	if cfg.MaxBlankRun < 0 {
		cfg.MaxBlankRun = def.MaxBlankRun
	}
	if cfg.MinAccumulated <= 0 {
		cfg.MinAccumulated = def.MinAccumulated
	}
	return &Detector{cfg: cfg}
}

// Default returns a detector with DefaultConfig.
func Default() *Detector {
	return NewDetector(DefaultConfig())
}

// Config returns the detector configuration.
func (d *Detector) Config() Config {
	return d.cfg
}

// Score returns the scalar score of one line.
func (d *Detector) Score(line string) float64 {
	return d.cfg.Weights.Score(ExtractFeatures(line))
}

// Detect locates the reference span in lines. It fails only when lines
// is nil; a document without a reference list yields a Result with nil
// Start and every tag Outside.
func (d *Detector) Detect(lines []string) (*Result, error) {
	if lines == nil {
		return nil, document.ErrInvalidInput
	}

	n := len(lines)
	res := &Result{
		Tags:   make([]SectionTag, n),
		Scores: make([]float64, n),
	}
	for i, line := range lines {
		res.Scores[i] = d.Score(line)
	}
	if n == 0 {
		return res, nil
	}

	header := findHeader(lines)
	var start int
	if header >= 0 {
		res.Header = intPtr(header)
		first, ok := d.skipBlanks(lines, header+1)
		if !ok || IsHeader(lines[first]) || IsStop(lines[first]) {
			// Header with no entries under it.
			res.Start, res.End = intPtr(header), intPtr(header)
			res.Tags[header] = SectionStart
			return res, nil
		}
		start = first
	} else {
		anchor := d.firstWindowAbove(lines, res.Scores)
		if anchor < 0 {
			return res, nil
		}
		first, ok := d.skipBlanks(lines, anchor)
		if !ok {
			return res, nil
		}
		start = first
	}

	end := d.expand(lines, res.Scores, start)
	res.Start, res.End = intPtr(start), intPtr(end)
	res.Tags[start] = SectionStart
	for k := start + 1; k <= end; k++ {
		res.Tags[k] = InSection
	}
	return res, nil
}

// findHeader returns the index of the first header line, or -1.
func findHeader(lines []string) int {
	for i, line := range lines {
		if IsHeader(line) {
			return i
		}
	}
	return -1
}

// firstWindowAbove returns the first index whose window mean exceeds
// ThresholdStart, or -1. Windows are truncated at the end of the document.
// A window must open on a line that passes the InSection guard so that
// prose right before a list is not taken as its first entry.
func (d *Detector) firstWindowAbove(lines []string, scores []float64) int {
	n := len(scores)
	for i := 0; i < n; i++ {
		if isBlank(lines[i]) || !d.keeps(lines[i], scores[i]) {
			continue
		}
		hi := min(n, i+d.cfg.Window)
		sum := 0.0
		for _, s := range scores[i:hi] {
			sum += s
		}
		if sum/float64(hi-i) > d.cfg.ThresholdStart {
			return i
		}
	}
	return -1
}

// skipBlanks returns the first non-blank line at or after from, skipping
// at most MaxLeadingBlanks blank lines.
func (d *Detector) skipBlanks(lines []string, from int) (int, bool) {
	skipped := 0
	for i := from; i < len(lines); i++ {
		if !isBlank(lines[i]) {
			return i, true
		}
		skipped++
		if skipped > d.cfg.MaxLeadingBlanks {
			break
		}
	}
	return 0, false
}

type state int

const (
	stateInSection state = iota
	stateDone
)

// scanner carries the state of a forward expansion.
type scanner struct {
	state    state
	start    int
	end      int
	blankRun int
}

// expand grows the span from start and returns its last line. Trailing
// blank lines are not part of the span.
func (d *Detector) expand(lines []string, scores []float64, start int) int {
	sc := scanner{state: stateInSection, start: start, end: start}
	for j := start + 1; j < len(lines) && sc.state != stateDone; j++ {
		d.step(&sc, j, lines[j], scores[j])
	}
	return sc.end
}

// step applies one line to the expansion state.
func (d *Detector) step(sc *scanner, j int, line string, score float64) {
	if isBlank(line) {
		sc.blankRun++
		if sc.blankRun > d.cfg.MaxBlankRun {
			sc.state = stateDone
		}
		return
	}
	sc.blankRun = 0

	switch {
	case IsStop(line):
		sc.state = stateDone
	case d.keeps(line, score):
		sc.end = j
	case j-sc.start >= d.cfg.MinAccumulated:
		sc.state = stateDone
	default:
		// Close to the first entry: tolerate noise.
		sc.end = j
	}
}

// keeps is the InSection guard: high enough score or reference shape.
func (d *Detector) keeps(line string, score float64) bool {
	return score >= d.cfg.ThresholdIn || LooksLikeReference(line)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func intPtr(i int) *int {
	return &i
}
