package models

import "time"

// Transaction represents a single parsed statement line. At most one of
// Debit/Credit is nonzero; both are zero when only a balance figure was
// recoverable from the line. Date is always a valid calendar date — lines
// whose date cannot be parsed never become a Transaction.
type Transaction struct {
	Date             time.Time `json:"date"`
	Description      string    `json:"description"`
	Debit            float64   `json:"debit"`
	Credit           float64   `json:"credit"`
	Balance          float64   `json:"balance"`
	OriginalLine     string    `json:"originalLine"`
	SourceConfidence float64   `json:"sourceConfidence"` // 0-100, from the recognition stage

	ParsingErrors  []string `json:"parsingErrors"`
	OCRUncertainty []string `json:"ocrUncertainty"`
	Warnings       []string `json:"warnings"` // ParsingErrors followed by OCRUncertainty

	HasParsingErrors  bool `json:"hasParsingErrors"`
	HasOCRUncertainty bool `json:"hasOcrUncertainty"`
	HasWarnings       bool `json:"hasWarnings"`
}

// SetWarnings rebuilds the combined warning list and the derived flags
// from the ParsingErrors and OCRUncertainty lists.
func (t *Transaction) SetWarnings() {
	t.Warnings = make([]string, 0, len(t.ParsingErrors)+len(t.OCRUncertainty))
	t.Warnings = append(t.Warnings, t.ParsingErrors...)
	t.Warnings = append(t.Warnings, t.OCRUncertainty...)
	t.HasParsingErrors = len(t.ParsingErrors) > 0
	t.HasOCRUncertainty = len(t.OCRUncertainty) > 0
	t.HasWarnings = len(t.Warnings) > 0
}

// Amount returns the transaction amount regardless of direction.
func (t *Transaction) Amount() float64 {
	if t.Credit != 0 {
		return t.Credit
	}
	return t.Debit
}
