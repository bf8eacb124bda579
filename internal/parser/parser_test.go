package parser

import (
	"strings"
	"testing"
	"time"
)

const testConfidence = 85.0

func TestParse_SkipsNonTransactionLines(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"header line", "Date Description Amount Balance 2024"},
		{"no digits", "TRANSACTION HISTORY CONTINUED FROM PREVIOUS PAGE"},
		{"too short", "1/1/24 $5"},
		{"no date", "MONTHLY SERVICE FEE 12.00 1,234.56"},
		{"no amounts", "03/15/2024 CHECK NUMBER 1042 CLEARED"},
		{"invalid calendar date", "13/45/2024 UTILITY PAYMENT 300.00 4,900.10"},
		{"blank", "   "},
	}

	p := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txns := p.Parse(tt.line, testConfidence)
			if len(txns) != 0 {
				t.Errorf("expected no transactions, got %d", len(txns))
			}
		})
	}
}

func TestParse_DepositWithBalance(t *testing.T) {
	p := New()
	txns := p.Parse("03/15/2024 DEPOSIT PAYROLL 1,200.00 5,432.10", testConfidence)
	if len(txns) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txns))
	}

	txn := txns[0]
	wantDate := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	if !txn.Date.Equal(wantDate) {
		t.Errorf("date: got %v, want %v", txn.Date, wantDate)
	}
	if txn.Description != "DEPOSIT PAYROLL" {
		t.Errorf("description: got %q", txn.Description)
	}
	if txn.Credit != 1200.00 || txn.Debit != 0 {
		t.Errorf("amounts: got credit=%.2f debit=%.2f, want credit=1200.00 debit=0", txn.Credit, txn.Debit)
	}
	if txn.Balance != 5432.10 {
		t.Errorf("balance: got %.2f, want 5432.10", txn.Balance)
	}
	if txn.HasParsingErrors {
		t.Errorf("unexpected parsing errors: %v", txn.ParsingErrors)
	}
}

func TestParse_ParenthesisOverridesCreditKeyword(t *testing.T) {
	p := New()
	text := "03/15/2024 DEPOSIT PAYROLL 1,200.00 5,432.10\n" +
		"03/16/2024 REFUND CHECK 200 (150.00) 5,282.10"
	txns := p.Parse(text, testConfidence)
	if len(txns) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txns))
	}

	second := txns[1]
	if second.Debit != 150.00 || second.Credit != 0 {
		t.Errorf("parenthesized amount must be a debit: got debit=%.2f credit=%.2f", second.Debit, second.Credit)
	}
	if second.Balance != 5282.10 {
		t.Errorf("balance: got %.2f, want 5282.10", second.Balance)
	}
	// 5432.10 - 150.00 = 5282.10 exactly, so no reconciliation warning.
	for _, w := range second.ParsingErrors {
		if strings.Contains(w, "Balance mismatch") {
			t.Errorf("unexpected balance mismatch warning: %q", w)
		}
	}
}

func TestParse_SingleAmountIsBalanceOnly(t *testing.T) {
	p := New()
	txns := p.Parse("03/17/2024 FEE 25 5200.10", testConfidence)
	if len(txns) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txns))
	}

	txn := txns[0]
	if txn.Debit != 0 || txn.Credit != 0 {
		t.Errorf("single-amount line must carry no debit/credit: got debit=%.2f credit=%.2f", txn.Debit, txn.Credit)
	}
	if txn.Balance != 5200.10 {
		t.Errorf("balance: got %.2f, want 5200.10", txn.Balance)
	}
	if !txn.HasParsingErrors {
		t.Fatal("expected a parsing error flag")
	}
	found := false
	for _, w := range txn.ParsingErrors {
		if strings.Contains(w, "decimal") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a missing-decimal style warning, got %v", txn.ParsingErrors)
	}
}

func TestParse_BalanceOnlyKeywordLineNotFlagged(t *testing.T) {
	p := New()
	txns := p.Parse("03/01/2024 OPENING BALANCE 5,432.10", testConfidence)
	if len(txns) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txns))
	}
	if txns[0].HasParsingErrors {
		t.Errorf("opening balance line must not be flagged: %v", txns[0].ParsingErrors)
	}
}

func TestParse_BalanceMismatchFlagged(t *testing.T) {
	p := New()
	text := "03/15/2024 DEPOSIT PAYROLL 1,200.00 5,432.10\n" +
		"03/16/2024 GROCERY STORE PURCHASE 50.00 5,000.00"
	txns := p.Parse(text, testConfidence)
	if len(txns) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txns))
	}

	// Expected 5432.10 - 50.00 = 5382.10, statement shows 5000.00.
	second := txns[1]
	found := false
	for _, w := range second.ParsingErrors {
		if strings.Contains(w, "Balance mismatch") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected balance mismatch warning, got %v", second.ParsingErrors)
	}
}

func TestParse_LargeAmountFlagged(t *testing.T) {
	p := New()
	txns := p.Parse("03/18/2024 WIRE TRANSFER OUT 12,500.00 1,000.00", testConfidence)
	if len(txns) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txns))
	}
	found := false
	for _, w := range txns[0].ParsingErrors {
		if strings.Contains(w, "Unusually large amount") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected large amount warning, got %v", txns[0].ParsingErrors)
	}
}

func TestParse_WholeDollarAmountFlagged(t *testing.T) {
	p := New()
	// "1,200" has comma grouping but no cents: likely a mis-scaled 12.00.
	txns := p.Parse("03/19/2024 ATM WITHDRAWAL 1,200 4,232.10", testConfidence)
	if len(txns) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txns))
	}
	if txns[0].Debit != 1200 {
		t.Errorf("debit: got %.2f, want 1200", txns[0].Debit)
	}
	found := false
	for _, w := range txns[0].ParsingErrors {
		if strings.Contains(w, "Amount may be missing decimal point") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected mis-scaled amount warning, got %v", txns[0].ParsingErrors)
	}
}

func TestParse_LowConfidenceUncertainty(t *testing.T) {
	p := New()
	txns := p.Parse("03/15/2024 DEPOSIT PAYROLL 1,200.00 5,432.10", 45)
	if len(txns) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txns))
	}
	if !txns[0].HasOCRUncertainty {
		t.Fatal("expected OCR uncertainty flag for confidence below 60")
	}
	if txns[0].SourceConfidence != 45 {
		t.Errorf("sourceConfidence: got %.0f, want 45", txns[0].SourceConfidence)
	}
}

func TestParse_PlaceholderDescription(t *testing.T) {
	p := New()
	txns := p.Parse("03/20/2024 50.00 4,182.10", testConfidence)
	if len(txns) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txns))
	}
	if txns[0].Description != "Transaction 1" {
		t.Errorf("description: got %q, want placeholder", txns[0].Description)
	}
	if !txns[0].HasOCRUncertainty {
		t.Error("expected description-quality uncertainty flag")
	}
}

func TestParse_UnusualSymbolsUncertainty(t *testing.T) {
	p := New()
	txns := p.Parse("03/21/2024 PAYMENT T#E~SCO 50.00 4,132.10", testConfidence)
	if len(txns) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txns))
	}
	found := false
	for _, w := range txns[0].OCRUncertainty {
		if strings.Contains(w, "Unusual characters") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected unusual-characters warning, got %v", txns[0].OCRUncertainty)
	}
}

func TestParse_TwoDigitYearPivot(t *testing.T) {
	tests := []struct {
		line string
		want int
	}{
		{"03/15/24 DEPOSIT PAYROLL 1,200.00 5,432.10", 2024},
		{"03/15/99 DEPOSIT PAYROLL 1,200.00 5,432.10", 1999},
		{"03/15/49 DEPOSIT PAYROLL 1,200.00 5,432.10", 2049},
		{"03/15/50 DEPOSIT PAYROLL 1,200.00 5,432.10", 1950},
	}

	p := New()
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			txns := p.Parse(tt.line, testConfidence)
			if len(txns) != 1 {
				t.Fatalf("expected 1 transaction, got %d", len(txns))
			}
			if txns[0].Date.Year() != tt.want {
				t.Errorf("year: got %d, want %d", txns[0].Date.Year(), tt.want)
			}
		})
	}
}

func TestParse_WarningsOrderAndFlags(t *testing.T) {
	p := New()
	// Large amount (parsing error) plus low confidence (OCR uncertainty).
	txns := p.Parse("03/18/2024 WIRE TRANSFER OUT 12,500.00 1,000.00", 40)
	if len(txns) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txns))
	}

	txn := txns[0]
	want := len(txn.ParsingErrors) + len(txn.OCRUncertainty)
	if len(txn.Warnings) != want {
		t.Fatalf("warnings length: got %d, want %d", len(txn.Warnings), want)
	}
	for i, w := range txn.ParsingErrors {
		if txn.Warnings[i] != w {
			t.Errorf("warnings[%d]: parsing errors must come first", i)
		}
	}
	for i, w := range txn.OCRUncertainty {
		if txn.Warnings[len(txn.ParsingErrors)+i] != w {
			t.Errorf("ocr uncertainty not preserved in order at %d", i)
		}
	}
	if !txn.HasWarnings || !txn.HasParsingErrors || !txn.HasOCRUncertainty {
		t.Error("derived flags must reflect non-empty lists")
	}
}

func TestParse_KeepsInputLineOrder(t *testing.T) {
	p := New()
	text := "03/16/2024 GROCERY PURCHASE 50.00 5,382.10\n" +
		"03/15/2024 DEPOSIT PAYROLL 1,200.00 5,432.10"
	txns := p.Parse(text, testConfidence)
	if len(txns) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txns))
	}
	if !txns[0].Date.After(txns[1].Date) {
		t.Error("transactions must keep input-line order, not date order")
	}
}
