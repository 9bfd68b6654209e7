// Package pdf extracts document lines from PDF files.
package pdf

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrNoTextExtracted is returned when no page yields any text, as with
// scanned PDFs that need OCR.
var ErrNoTextExtracted = errors.New("no text extracted from PDF")

// ExtractLines reads the plain text of the first maxPages pages of a PDF
// file and splits it into lines. A non-positive maxPages reads every page.
func ExtractLines(filePath string, maxPages int) ([]string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer f.Close()

	return extract(r, maxPages)
}

// ExtractLinesReader is ExtractLines for an in-memory PDF.
func ExtractLinesReader(ra io.ReaderAt, size int64, maxPages int) ([]string, error) {
	r, err := pdf.NewReader(ra, size)
	if err != nil {
		return nil, fmt.Errorf("reading PDF: %w", err)
	}
	return extract(r, maxPages)
}

func extract(r *pdf.Reader, maxPages int) ([]string, error) {
	if maxPages <= 0 || maxPages > r.NumPage() {
		maxPages = r.NumPage()
	}

	var builder strings.Builder
	for i := 1; i <= maxPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue // Skip unreadable pages
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}

	lines := toLines(builder.String())
	if len(lines) == 0 {
		return nil, ErrNoTextExtracted
	}
	return lines, nil
}

// toLines splits page text into lines with trailing spaces removed and
// leading and trailing blank lines dropped.
func toLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	raw := strings.Split(text, "\n")

	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		lines = append(lines, strings.TrimRight(line, " \t\r\f"))
	}

	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return lines[start:end]
}
