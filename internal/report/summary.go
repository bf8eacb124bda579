package report

import (
	"strings"

	"github.com/insightdelivered/statement-ocr/internal/models"
)

// Summarize walks a grouped result tallying transaction and warning
// counts, with per-category breakdowns keyed by a normalized label: the
// warning text truncated at its first colon.
func Summarize(groups []models.YearGroup) models.SummaryStats {
	stats := models.SummaryStats{
		ParsingErrorTypes:   make(map[string]int),
		OCRUncertaintyTypes: make(map[string]int),
	}

	for _, yg := range groups {
		for _, mg := range yg.Months {
			for _, t := range mg.Transactions {
				stats.TotalTransactions++
				if t.HasWarnings {
					stats.TotalWarnings++
				}
				for _, w := range t.ParsingErrors {
					stats.TotalParsingErrors++
					stats.ParsingErrorTypes[warningLabel(w)]++
				}
				for _, w := range t.OCRUncertainty {
					stats.TotalOCRUncertainty++
					stats.OCRUncertaintyTypes[warningLabel(w)]++
				}
			}
		}
	}
	return stats
}

// warningLabel normalizes a warning message to its category label.
func warningLabel(w string) string {
	if i := strings.Index(w, ":"); i >= 0 {
		return w[:i]
	}
	return w
}
