// Package extractor pulls embedded text out of digital statement PDFs.
// Statements that already carry a text layer skip the recognition
// pipeline entirely; scanned statements have no text layer and must go
// through it page image by page image.
package extractor

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// EmbeddedTextConfidence is the recognition score assigned to text read
// straight from a PDF text layer. It is high but not 100: layout
// reconstruction can still merge columns.
const EmbeddedTextConfidence = 95.0

// ExtractPages reads a PDF's embedded text, one string per page. It
// returns an error when the document has no usable text layer — callers
// should then fall back to rasterizing pages for the OCR pipeline.
func ExtractPages(filePath string) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf library crashed: %v", r)
		}
	}()

	f, r, err := pdf.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	numPages := r.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("pdf has no pages")
	}

	pages = extractByRow(r, numPages)
	if HasReadableText(pages) {
		return pages, nil
	}

	// Row extraction failed or produced garbage — try the whole-document
	// path before giving up.
	if text := extractPlainText(r); HasReadableText([]string{text}) {
		return []string{text}, nil
	}

	return nil, fmt.Errorf("no readable text layer; the pdf is likely scanned")
}

// extractByRow reconstructs each page line by line, preserving the
// column layout transaction parsing depends on.
func extractByRow(r *pdf.Reader, numPages int) []string {
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		var lines []string
		for _, row := range rows {
			var parts []string
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			if line := strings.TrimSpace(strings.Join(parts, " ")); line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

func extractPlainText(r *pdf.Reader) string {
	reader, err := r.GetPlainText()
	if err != nil {
		return ""
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// statementWords is a set of words at least one of which appears in
// virtually every bank statement. Text containing none is garbage from a
// custom font encoding, not a statement.
var statementWords = []string{
	"bank", "account", "balance", "date", "payment", "statement",
	"total", "amount", "credit", "debit", "transaction", "transfer",
	"deposit", "withdrawal", "opening", "closing",
}

// HasReadableText reports whether extracted pages hold enough readable
// statement text to be worth parsing: more than 50 characters, over 60%
// plain ASCII, and at least one recognizable statement word.
func HasReadableText(pages []string) bool {
	total, readable := 0, 0
	for _, page := range pages {
		for _, r := range page {
			total++
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') ||
				unicode.IsSpace(r) || strings.ContainsRune(".,-/:;()'\"$%&@#!?+=*", r) {
				readable++
			}
		}
	}
	if total <= 50 || float64(readable)/float64(total) <= 0.6 {
		return false
	}

	combined := strings.ToLower(strings.Join(pages, " "))
	for _, w := range statementWords {
		if strings.Contains(combined, w) {
			return true
		}
	}
	return false
}
