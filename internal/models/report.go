package models

// MonthGroup holds one month's transactions in reverse chronological order.
type MonthGroup struct {
	Month        string        `json:"month"` // month name, e.g. "March"
	Transactions []Transaction `json:"transactions"`
}

// YearGroup holds a year's months in reverse calendar order.
type YearGroup struct {
	Year   int          `json:"year"`
	Months []MonthGroup `json:"months"`
}

// SummaryStats aggregates warning counts across a grouped result.
// Breakdown maps are keyed by the warning text truncated at its first colon.
type SummaryStats struct {
	TotalTransactions   int            `json:"totalTransactions"`
	TotalWarnings       int            `json:"totalWarnings"`
	TotalParsingErrors  int            `json:"totalParsingErrors"`
	TotalOCRUncertainty int            `json:"totalOcrUncertainty"`
	ParsingErrorTypes   map[string]int `json:"parsingErrorTypes"`
	OCRUncertaintyTypes map[string]int `json:"ocrUncertaintyTypes"`
}
