package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/insightdelivered/statement-ocr/internal/models"
)

// CSVWriter writes parsed transactions to CSV, warnings included so
// reviewers can triage flagged rows in a spreadsheet.
type CSVWriter struct {
	IncludeWarnings bool
}

// WriteToFile writes transactions to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, txns []models.Transaction) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, txns)
}

// Write writes transactions in CSV format to the given writer.
func (w *CSVWriter) Write(out io.Writer, txns []models.Transaction) error {
	cw := csv.NewWriter(out)
	defer cw.Flush()

	header := []string{"Date", "Description", "Debit", "Credit", "Balance"}
	if w.IncludeWarnings {
		header = append(header, "Warnings")
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, t := range txns {
		row := []string{
			t.Date.Format("01/02/2006"),
			t.Description,
			formatAmount(t.Debit),
			formatAmount(t.Credit),
			formatAmount(t.Balance),
		}
		if w.IncludeWarnings {
			row = append(row, strings.Join(t.Warnings, "; "))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	return nil
}

func formatAmount(amount float64) string {
	if amount == 0 {
		return ""
	}
	return strconv.FormatFloat(amount, 'f', 2, 64)
}
