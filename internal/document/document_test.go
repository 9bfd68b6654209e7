package document

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromStrings(t *testing.T) {
	lines, err := FromStrings([]string{"a", "", "c"})
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Equal(t, Line{Index: 2, Text: "c"}, lines[2])
	assert.Equal(t, Line{Index: 1, Text: ""}, lines[1])
}

func TestFromStrings_Nil(t *testing.T) {
	_, err := FromStrings(nil)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	lines, err := FromStrings([]string{})
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestReadLines(t *testing.T) {
	lines, err := ReadLines(strings.NewReader("first\r\nsecond\n\nfourth"))
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "", "fourth"}, lines)

	lines, err = ReadLines(strings.NewReader(""))
	require.NoError(t, err)
	assert.NotNil(t, lines)
	assert.Empty(t, lines)
}

func TestSplitText(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitText("a\r\nb\n"))
	assert.Equal(t, []string{}, SplitText(""))
}
