package policy

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matsen/citecheck/internal/citekey"
	"github.com/matsen/citecheck/internal/consistency"
)

func TestOverallScore(t *testing.T) {
	s := Scores{Coverage: 100, Correctness: 50, Completeness: 0}

	r := DefaultRules()
	assert.InDelta(t, 55.0, OverallScore(s, r), 1e-9)

	// Weights are normalized.
	r.WCoverage, r.WCorrectness, r.WCompleteness = 7, 8, 5
	assert.InDelta(t, 55.0, OverallScore(s, r), 1e-9)

	r.WCoverage, r.WCorrectness, r.WCompleteness = 0, 0, 0
	assert.InDelta(t, 50.0, OverallScore(s, r), 1e-9)
}

func TestDecide(t *testing.T) {
	r := DefaultRules()
	tests := []struct {
		name       string
		overall    float64
		missing    int
		incomplete int
		want       Decision
	}{
		{"accept", 90, 0, 0, Accept},
		{"revise", 70, 0, 0, Revise},
		{"reject low score", 40, 0, 0, Reject},
		{"missing guardrail", 99, 1, 0, Reject},
		{"incomplete guardrail", 99, 0, 4, Revise},
		{"missing checked first", 99, 2, 9, Reject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, reason := Decide(tt.overall, tt.missing, tt.incomplete, r)
			assert.Equal(t, tt.want, got)
			assert.NotEmpty(t, reason)
		})
	}
}

func TestDecide_ThresholdChangeChangesDecision(t *testing.T) {
	s := Scores{Coverage: 70, Correctness: 70, Completeness: 70}
	r := DefaultRules()

	before, _ := Decide(OverallScore(s, r), 0, 0, r)
	assert.Equal(t, Revise, before)

	r, err := r.Apply(map[string]string{"revise_threshold": "75"})
	require.NoError(t, err)
	after, reason := Decide(OverallScore(s, r), 0, 0, r)
	assert.Equal(t, Reject, after)
	assert.Contains(t, reason, "revise_threshold 75.00")
}

func sampleReport() *consistency.Report {
	return &consistency.Report{
		InTextCount:  3,
		RefListCount: 4,
		MissingInRef: []consistency.MissingInRef{
			{MissingKeys: []citekey.Key{"N:5"}},
			{MissingKeys: []citekey.Key{"N:5", "N:4"}},
		},
		MissingInText: []consistency.MissingInText{{RefKey: "N:3"}},
		IncompleteRefs: []consistency.IncompleteRef{
			{RefKey: "N:3", Cited: false},
			{RefKey: "N:1", Cited: true},
		},
		Metrics: consistency.Metrics{
			consistency.MetricCoverageF1:   0.75,
			consistency.MetricCorrectness:  0.675,
			consistency.MetricCompleteness: 0.5,
		},
	}
}

func TestComponentScores(t *testing.T) {
	s := ComponentScores(sampleReport())
	assert.Equal(t, Scores{Coverage: 75, Correctness: 67.5, Completeness: 50}, s)

	empty := ComponentScores(&consistency.Report{})
	assert.Equal(t, Scores{}, empty)
}

func TestPenalties(t *testing.T) {
	ps := Penalties(sampleReport())
	require.Len(t, ps, 3)

	assert.Equal(t, "missing_in_reference_list", ps[0].Type)
	assert.Equal(t, "high", ps[0].Severity)
	assert.Equal(t, 2, ps[0].Count)
	assert.Equal(t, []citekey.Key{"N:4", "N:5"}, ps[0].Items)

	assert.Equal(t, "uncited_reference_entries", ps[1].Type)
	assert.Equal(t, []citekey.Key{"N:3"}, ps[1].Items)

	assert.Equal(t, "incomplete_reference_entries", ps[2].Type)
	assert.Equal(t, 2, ps[2].Count)
	assert.Equal(t, 1, ps[2].CitedIncompleteCount)
}

func TestPenalties_Caps(t *testing.T) {
	rep := &consistency.Report{}
	for i := 0; i < 60; i++ {
		key := citekey.Key(fmt.Sprintf("N:%03d", i))
		rep.MissingInRef = append(rep.MissingInRef, consistency.MissingInRef{MissingKeys: []citekey.Key{key}})
		rep.IncompleteRefs = append(rep.IncompleteRefs, consistency.IncompleteRef{RefKey: key})
	}

	ps := Penalties(rep)
	require.Len(t, ps, 2)
	assert.Equal(t, 60, ps[0].Count)
	assert.Len(t, ps[0].Items, MaxMissingItems)
	assert.Equal(t, 60, ps[1].Count)
	assert.Len(t, ps[1].Examples, MaxIncompleteItems)
}

func TestPenalties_Clean(t *testing.T) {
	ps := Penalties(&consistency.Report{})
	assert.NotNil(t, ps)
	assert.Empty(t, ps)
}

func TestEvaluate(t *testing.T) {
	ev := Evaluate(sampleReport(), DefaultRules())
	// 0.35*75 + 0.40*67.5 + 0.25*50
	assert.InDelta(t, 65.75, ev.OverallScore, 1e-9)
	// Two per-citation missing records exceed the cap of zero.
	assert.Equal(t, Reject, ev.Decision)
	assert.Contains(t, ev.Reason, "2 > 0")

	data, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"decision":"REJECT"`)
}

func TestDecision_Text(t *testing.T) {
	for _, d := range []Decision{Accept, Revise, Reject} {
		b, err := d.MarshalText()
		require.NoError(t, err)
		var got Decision
		require.NoError(t, got.UnmarshalText(b))
		assert.Equal(t, d, got)
	}
	var d Decision
	assert.Error(t, d.UnmarshalText([]byte("MAYBE")))
}
