// Package storage handles batch document records in JSONL and the
// revisioned rules store in SQLite.
package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matsen/citecheck/internal/document"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines (1MB per line).
const MaxJSONLLineCapacity = 1024 * 1024

// Document is one batch input record. Either Lines or Text carries the
// content; Lines wins when both are set.
type Document struct {
	ID    string   `json:"id"`
	Lines []string `json:"lines,omitempty"`
	Text  string   `json:"text,omitempty"`
}

// Content returns the document's lines, never nil.
func (d Document) Content() []string {
	if d.Lines != nil {
		return d.Lines
	}
	return document.SplitText(d.Text)
}

// ReadDocuments reads batch records from r. Records without an id get
// "line-N" after their line number.
func ReadDocuments(r io.Reader) ([]Document, error) {
	docs := []Document{}
	scanner := bufio.NewScanner(r)

	// Increase buffer size for long lines
	buf := make([]byte, MaxJSONLLineCapacity)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue // Skip empty lines
		}

		var doc Document
		if err := json.Unmarshal(line, &doc); err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		if doc.ID == "" {
			doc.ID = fmt.Sprintf("line-%d", lineNum)
		}
		docs = append(docs, doc)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading documents: %w", err)
	}

	return docs, nil
}

// ReadDocumentsFile reads batch records from a JSONL file.
func ReadDocumentsFile(path string) ([]Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening documents file: %w", err)
	}
	defer f.Close()

	return ReadDocuments(f)
}

// WriteJSONL writes one JSON object per record to w.
func WriteJSONL[T any](w io.Writer, records []T) error {
	bw := bufio.NewWriter(w)
	for i, rec := range records {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encoding record %d: %w", i, err)
		}

		if _, err := bw.Write(data); err != nil {
			return fmt.Errorf("writing record %d: %w", i, err)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("writing newline: %w", err)
		}
	}
	return bw.Flush()
}
