package pdf

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToLines(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "", []string{}},
		{"only blanks", "\n \n\t\n", []string{}},
		{"trims edges", "\n\nIntro  \r\n\nReferences\n[1] A.\n\n", []string{"Intro", "", "References", "[1] A."}},
		{"form feed", "Page one\f\nPage two", []string{"Page one", "Page two"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, toLines(tt.text))
		})
	}
}

func TestExtractLines_MissingFile(t *testing.T) {
	_, err := ExtractLines(filepath.Join(t.TempDir(), "missing.pdf"), 0)
	assert.Error(t, err)
}

func TestExtractLinesReader_NotPDF(t *testing.T) {
	data := []byte("plain text, not a PDF")
	_, err := ExtractLinesReader(bytes.NewReader(data), int64(len(data)), 0)
	assert.Error(t, err)
}
