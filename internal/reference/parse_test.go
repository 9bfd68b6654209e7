package reference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matsen/citecheck/internal/citekey"
	"github.com/matsen/citecheck/internal/document"
)

func TestParse_KeysAndIndices(t *testing.T) {
	entries := Parse([]string{
		"[1] Smith, J. (2020). A Title. Journal 3(2), 10-20. doi:10.1234/abcd",
		"",
		"2. Doe, A. 2019. Another Title. www.example.com",
		"Smith, J. (2020). A Title. Journal 3(2), 10-20.",
		"Anonymous pamphlet on gardening",
		"   ",
	})
	require.Len(t, entries, 4)

	require.NotNil(t, entries[0].Index)
	assert.Equal(t, 1, *entries[0].Index)
	assert.Equal(t, citekey.Key("N:1"), entries[0].Key)
	assert.Equal(t, 0, entries[0].SourceLine)

	require.NotNil(t, entries[1].Index)
	assert.Equal(t, citekey.Key("N:2"), entries[1].Key)
	assert.Equal(t, 2, entries[1].SourceLine)

	assert.Nil(t, entries[2].Index)
	assert.Equal(t, citekey.Key("AY:smith_j_2020"), entries[2].Key)

	assert.Equal(t, citekey.Key("TXT:anonymous pamphlet on gardening"), entries[3].Key)
	assert.False(t, entries[3].Numbered())
}

func TestParse_CollapsesWhitespace(t *testing.T) {
	entries := Parse([]string{"  [4]   Roe,\tB.   2018.  "})
	require.Len(t, entries, 1)
	assert.Equal(t, "[4] Roe, B. 2018.", entries[0].Raw)
}

func TestParseLines_KeepsDocumentPosition(t *testing.T) {
	entries := ParseLines([]document.Line{{Index: 40, Text: "[1] A. 2001."}, {Index: 41, Text: ""}, {Index: 42, Text: "[2] B. 2002."}})
	require.Len(t, entries, 2)
	assert.Equal(t, 40, entries[0].SourceLine)
	assert.Equal(t, 42, entries[1].SourceLine)
}

func TestLeadingIndex(t *testing.T) {
	tests := []struct {
		line string
		want int
		ok   bool
	}{
		{"[12] Foo", 12, true},
		{"[ 3 ] Foo", 3, true},
		{"7) Foo", 7, true},
		{"8- Foo", 8, true},
		{"[۱] احمدی", 1, true},
		{"Foo [1]", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := LeadingIndex(tt.line)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAssess(t *testing.T) {
	score, flags := Assess("[1] Smith, J. (2020). A Title. Journal 3(2), 10-20. doi:10.1234/abcd")
	assert.True(t, flags.HasYear)
	assert.True(t, flags.HasDOIOrURL)
	assert.True(t, flags.HasJournalLike)
	assert.False(t, flags.HasTitleLike)
	assert.InDelta(t, 0.75, score, 1e-9)

	score, flags = Assess(`Roe, B. "A fully quoted article title" 2018, pp. 4 https://example.org`)
	assert.Equal(t, Flags{HasYear: true, HasDOIOrURL: true, HasTitleLike: true, HasJournalLike: true}, flags)
	assert.InDelta(t, 1.0, score, 1e-9)

	score, _ = Assess("[3] Incomplete ref")
	assert.Equal(t, 0.0, score)
}

func TestAssess_ShortEntryCap(t *testing.T) {
	for _, line := range []string{
		`"Short title" 3(2)`,
		"pp. 4-9 vol 3(2)",
		"[9] A. B. C.",
	} {
		t.Run(line, func(t *testing.T) {
			score, flags := Assess(line)
			require.False(t, flags.HasYear)
			require.False(t, flags.HasDOIOrURL)
			assert.LessOrEqual(t, score, ShortEntryCap)
		})
	}
}

func TestAssess_DOINeverLowersScore(t *testing.T) {
	for _, line := range []string{
		"[3] Incomplete ref",
		"Short 3(2)",
		"[1] Smith, J. (2020). A Title. Journal 3(2), 10-20.",
		`Doe "Some quoted title here" pp. 12`,
		"A long reference line without any year but with plenty of descriptive words in it",
	} {
		t.Run(line, func(t *testing.T) {
			before, _ := Assess(line)
			after, _ := Assess(line + " doi:10.1000/xyz")
			assert.GreaterOrEqual(t, after, before)
		})
	}
}

func TestKeys(t *testing.T) {
	entries := Parse([]string{"[1] A.", "[1] A again.", "[2] B."})
	assert.Equal(t, []citekey.Key{"N:1", "N:2"}, Keys(entries))
}
