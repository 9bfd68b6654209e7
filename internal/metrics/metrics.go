// Package metrics records analysis counters on a private prometheus
// registry. A nil *Recorder is valid and records nothing.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matsen/citecheck/internal/citation"
	"github.com/matsen/citecheck/internal/consistency"
)

// Recorder holds the citecheck collectors.
type Recorder struct {
	registry *prometheus.Registry

	documents *prometheus.CounterVec
	citations *prometheus.CounterVec
	entries   prometheus.Counter
	issues    *prometheus.CounterVec
	decisions *prometheus.CounterVec
	coverage  prometheus.Histogram
}

// NewRecorder creates a recorder with its own registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		documents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "citecheck_documents_analyzed_total",
				Help: "Documents analyzed, by whether a reference section was found",
			},
			[]string{"section"},
		),
		citations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "citecheck_citations_extracted_total",
				Help: "In-text citations extracted",
			},
			[]string{"kind"},
		),
		entries: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "citecheck_reference_entries_total",
				Help: "Reference-list entries parsed",
			},
		),
		issues: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "citecheck_consistency_issues_total",
				Help: "Consistency issues reported",
			},
			[]string{"type"},
		),
		decisions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "citecheck_decisions_total",
				Help: "Policy decisions made",
			},
			[]string{"decision"},
		),
		coverage: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "citecheck_coverage_f1",
				Help:    "Coverage F1 between citation and reference keys",
				Buckets: prometheus.LinearBuckets(0.1, 0.1, 10),
			},
		),
	}
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// ObserveDocument records one analyzed document.
func (r *Recorder) ObserveDocument(sectionFound bool, cits []citation.Citation, entries int, rep *consistency.Report) {
	if r == nil {
		return
	}

	section := "missing"
	if sectionFound {
		section = "found"
	}
	r.documents.WithLabelValues(section).Inc()

	for _, c := range cits {
		r.citations.WithLabelValues(c.Kind.String()).Inc()
	}
	r.entries.Add(float64(entries))

	if rep == nil {
		return
	}
	r.issues.WithLabelValues("missing_in_ref").Add(float64(len(rep.MissingInRef)))
	r.issues.WithLabelValues("missing_in_text").Add(float64(len(rep.MissingInText)))
	r.issues.WithLabelValues("incomplete_ref").Add(float64(len(rep.IncompleteRefs)))
	if f1, ok := rep.Metrics.Get(consistency.MetricCoverageF1); ok {
		r.coverage.Observe(f1)
	}
}

// ObserveDecision records one policy decision.
func (r *Recorder) ObserveDecision(decision string) {
	if r == nil {
		return
	}
	r.decisions.WithLabelValues(decision).Inc()
}

// WriteTextfile writes all metrics to path in the node-exporter textfile
// format.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
