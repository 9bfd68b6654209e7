// Package engine runs the full reference-consistency pipeline over one
// document: boundary detection, citation extraction over the body,
// reference parsing over the span, and comparison.
package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/matsen/citecheck/internal/boundary"
	"github.com/matsen/citecheck/internal/citation"
	"github.com/matsen/citecheck/internal/consistency"
	"github.com/matsen/citecheck/internal/document"
	"github.com/matsen/citecheck/internal/metrics"
	"github.com/matsen/citecheck/internal/reference"
)

// Span is the located reference section.
type Span struct {
	Start  int  `json:"start"`
	End    int  `json:"end"`
	Header *int `json:"header,omitempty"`
}

// Analysis is the pipeline output for one document.
type Analysis struct {
	HasReferenceSection bool                `json:"has_reference_section"`
	Span                *Span               `json:"span"`
	Citations           []citation.Citation `json:"citations"`
	Entries             []reference.Entry   `json:"entries"`
	Report              *consistency.Report `json:"report"`
	Detection           *boundary.Result    `json:"-"`
}

// Engine holds immutable pipeline configuration and is safe for
// concurrent use.
type Engine struct {
	detector *boundary.Detector
	opts     consistency.Options
	logger   *zap.Logger
	recorder *metrics.Recorder
}

// Option configures an Engine.
type Option func(*Engine)

// WithDetector sets the boundary detector.
func WithDetector(d *boundary.Detector) Option {
	return func(e *Engine) {
		if d != nil {
			e.detector = d
		}
	}
}

// WithOptions sets the comparison options.
func WithOptions(o consistency.Options) Option {
	return func(e *Engine) { e.opts = o }
}

// WithLogger sets the logger used for stage summaries.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r *metrics.Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// New creates an engine with default detector and comparison options.
func New(opts ...Option) *Engine {
	e := &Engine{
		detector: boundary.Default(),
		opts:     consistency.DefaultOptions(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Detector returns the engine's boundary detector.
func (e *Engine) Detector() *boundary.Detector {
	return e.detector
}

// Analyze runs the pipeline over lines. Only a nil line sequence is an
// error; a document without a reference list is analyzed with an empty
// entry set.
func (e *Engine) Analyze(lines []string) (*Analysis, error) {
	det, err := e.detector.Detect(lines)
	if err != nil {
		return nil, fmt.Errorf("detecting reference section: %w", err)
	}

	body, refs := Split(lines, det)
	cits := citation.Extract(body)
	entries := reference.ParseLines(refs)
	rep := consistency.CompareWith(cits, entries, e.opts)

	a := &Analysis{
		HasReferenceSection: det.Found(),
		Citations:           cits,
		Entries:             entries,
		Report:              rep,
		Detection:           det,
	}
	if start, end, ok := det.Span(); ok {
		a.Span = &Span{Start: start, End: end, Header: det.Header}
	}

	e.logger.Debug("analyzed document",
		zap.Int("lines", len(lines)),
		zap.Bool("reference_section", a.HasReferenceSection),
		zap.Int("body_lines", len(body)),
		zap.Int("reference_lines", len(refs)),
		zap.Int("citations", len(cits)),
		zap.Int("entries", len(entries)),
		zap.Int("missing_in_ref", len(rep.MissingInRef)),
		zap.Int("missing_in_text", len(rep.MissingInText)),
		zap.Int("incomplete_refs", len(rep.IncompleteRefs)),
	)
	e.recorder.ObserveDocument(a.HasReferenceSection, cits, len(entries), rep)

	return a, nil
}

// Split partitions lines by the detection result. Body lines are those
// tagged Outside, excluding the header; reference lines are the span
// minus the header.
func Split(lines []string, det *boundary.Result) (body, refs []document.Line) {
	body = make([]document.Line, 0, len(lines))
	refs = []document.Line{}
	for i, text := range lines {
		if det.Header != nil && *det.Header == i {
			continue
		}
		line := document.Line{Index: i, Text: text}
		if i < len(det.Tags) && det.Tags[i] != boundary.Outside {
			refs = append(refs, line)
			continue
		}
		body = append(body, line)
	}
	return body, refs
}
