// Package document defines the line-oriented input model shared by the
// analysis stages.
package document

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// MaxLineCapacity is the maximum buffer size for a single input line (1MB).
const MaxLineCapacity = 1024 * 1024

// ErrInvalidInput is returned when the line sequence itself is absent.
// A document with no reference section is not an error.
var ErrInvalidInput = errors.New("invalid input: line sequence is nil")

// Line is one line of a document with its 0-based position in the
// original sequence.
type Line struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// FromStrings wraps raw lines with their indices.
func FromStrings(lines []string) ([]Line, error) {
	if lines == nil {
		return nil, ErrInvalidInput
	}
	out := make([]Line, len(lines))
	for i, s := range lines {
		out[i] = Line{Index: i, Text: s}
	}
	return out, nil
}

// ReadLines reads all lines from r. Trailing carriage returns are dropped.
// An empty reader yields an empty, non-nil slice.
func ReadLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 64*1024)
	scanner.Buffer(buf, MaxLineCapacity)

	lines := []string{}
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading lines: %w", err)
	}
	return lines, nil
}

// SplitText splits a block of text into lines.
func SplitText(text string) []string {
	if text == "" {
		return []string{}
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
