package engine

import (
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/matsen/citecheck/internal/boundary"
	"github.com/matsen/citecheck/internal/citekey"
	"github.com/matsen/citecheck/internal/consistency"
	"github.com/matsen/citecheck/internal/document"
	"github.com/matsen/citecheck/internal/metrics"
)

var paper = []string{
	"Introduction",
	"Prior work [1,2] and later results [5] agree.",
	"As shown by (Smith, 2020) the effect is robust.",
	"",
	"References",
	"[1] Alpha, A. 2001. A reasonably long title for the first entry. J. 3(2), 1-9.",
	"[2] Beta, B. 2002. Another reasonably long title for the second entry. J. 4(1), 10-19.",
	"[3] Short",
	"Smith (2020). A study of things. Journal 3(2), 10-20. doi:10.1234/efgh",
}

func TestAnalyze_EndToEnd(t *testing.T) {
	a, err := New().Analyze(paper)
	require.NoError(t, err)

	assert.True(t, a.HasReferenceSection)
	require.NotNil(t, a.Span)
	assert.Equal(t, 5, a.Span.Start)
	assert.Equal(t, 8, a.Span.End)
	require.NotNil(t, a.Span.Header)
	assert.Equal(t, 4, *a.Span.Header)

	assert.Len(t, a.Citations, 3)
	require.Len(t, a.Entries, 4)
	assert.Equal(t, citekey.Key("AY:smith_2020"), a.Entries[3].Key)

	rep := a.Report
	require.Len(t, rep.MissingInRef, 1)
	assert.Equal(t, []citekey.Key{"N:5"}, rep.MissingInRef[0].MissingKeys)
	require.Len(t, rep.MissingInText, 1)
	assert.Equal(t, citekey.Key("N:3"), rep.MissingInText[0].RefKey)
	require.Len(t, rep.IncompleteRefs, 1)
	assert.Equal(t, citekey.Key("N:3"), rep.IncompleteRefs[0].RefKey)

	f1, ok := rep.Metrics.Get(consistency.MetricCoverageF1)
	require.True(t, ok)
	assert.Equal(t, 0.75, f1)
}

func TestAnalyze_ProseAfterShortList(t *testing.T) {
	lines := []string{
		"A study of tomato growth",
		"References",
		"[1] Alpha, A. 2001. A reasonably long title for the first entry. J. 3(2), 1-9.",
		"[2] Beta, B. 2002. Another long title for the second entry. J. 4(1), 10-19.",
		"Acknowledgments",
		"We thank the gardeners who helped with this work",
		"Funding came from the tomato council of the region",
		"Later work extends this result [3]",
	}

	a, err := New().Analyze(lines)
	require.NoError(t, err)
	require.NotNil(t, a.Span)
	assert.LessOrEqual(t, a.Span.End, 4)

	for _, e := range a.Entries {
		assert.LessOrEqual(t, e.SourceLine, 4, "entry %q", e.Raw)
	}
	require.Len(t, a.Citations, 1)
	assert.Equal(t, 7, a.Citations[0].SourceLine)
	assert.Equal(t, []citekey.Key{"N:3"}, a.Citations[0].Keys)

	require.Len(t, a.Report.MissingInRef, 1)
	assert.Equal(t, []citekey.Key{"N:3"}, a.Report.MissingInRef[0].MissingKeys)
}

func TestAnalyze_NoReferenceSection(t *testing.T) {
	lines := []string{
		"A short essay without any bibliography.",
		"It mentions [4] once.",
	}
	a, err := New().Analyze(lines)
	require.NoError(t, err)

	assert.False(t, a.HasReferenceSection)
	assert.Nil(t, a.Span)
	assert.Empty(t, a.Entries)
	require.Len(t, a.Report.MissingInRef, 1)
	for _, tag := range a.Detection.Tags {
		assert.Equal(t, boundary.Outside, tag)
	}
}

func TestAnalyze_InvalidInput(t *testing.T) {
	_, err := New().Analyze(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, document.ErrInvalidInput))
}

func TestAnalyze_EmptyDocument(t *testing.T) {
	a, err := New().Analyze([]string{})
	require.NoError(t, err)
	assert.False(t, a.HasReferenceSection)
	assert.Equal(t, 0, a.Report.InTextCount)
}

func TestAnalyze_Recorder(t *testing.T) {
	rec := metrics.NewRecorder()
	e := New(WithRecorder(rec))

	_, err := e.Analyze(paper)
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(rec.Registry(), "citecheck_documents_analyzed_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestAnalyze_Logger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	e := New(WithLogger(zap.New(core)))

	_, err := e.Analyze(paper)
	require.NoError(t, err)

	entries := logs.FilterMessage("analyzed document").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(4), entries[0].ContextMap()["entries"])
}

func TestAnalyze_Concurrent(t *testing.T) {
	e := New()
	want, err := e.Analyze(paper)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]*Analysis, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = e.Analyze(paper)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		require.NotNil(t, got)
		assert.Equal(t, want.Report, got.Report)
	}
}

func TestSplit(t *testing.T) {
	lines := []string{"Body text [1].", "References"}
	det, err := boundary.Default().Detect(lines)
	require.NoError(t, err)

	body, refs := Split(lines, det)
	assert.Empty(t, refs)
	require.Len(t, body, 1)
	assert.Equal(t, 0, body[0].Index)
}

func TestNew_Options(t *testing.T) {
	cfg := boundary.DefaultConfig()
	cfg.Window = 2
	e := New(WithDetector(boundary.NewDetector(cfg)), WithDetector(nil), WithLogger(nil))
	assert.Equal(t, 2, e.Detector().Config().Window)
}
