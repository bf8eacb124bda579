package parser

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-ocr/internal/models"
)

// Warning thresholds. The low-confidence cutoff is calibrated against the
// recognition stage's score specifically; the refinement stage's
// enhancement confidence is diagnostic only and never compared here.
const (
	largeAmountThreshold  = 10000.0
	lowConfidenceCutoff   = 60.0
	misScaledFloor        = 100.0
	balanceToleranceAbs   = "1.00"
	balanceToleranceRatio = "0.10"
)

// unusualSymbols are characters that rarely appear in genuine statement
// descriptions and usually indicate recognition noise.
const unusualSymbols = "~§¥£€@#%^&*|\\`"

func largeAmountError(total float64) (string, bool) {
	if total <= largeAmountThreshold {
		return "", false
	}
	return fmt.Sprintf("Unusually large amount: %.2f, verify accuracy and check for a missing decimal point", total), true
}

func misScaledError(amount float64) (string, bool) {
	if amount < misScaledFloor || amount != math.Trunc(amount) {
		return "", false
	}
	return fmt.Sprintf("Amount may be missing decimal point: %.2f is a whole-dollar value of %d or more", amount, int(misScaledFloor)), true
}

func lowConfidenceWarning(confidence float64) (string, bool) {
	if confidence >= lowConfidenceCutoff {
		return "", false
	}
	return fmt.Sprintf("Low OCR confidence: %.0f%% recognition score", confidence), true
}

// validateInline applies the full warning rule set to a freshly parsed
// record, comparing its balance against the previously accepted record.
// rawDesc is the description before placeholder substitution.
func validateInline(t *models.Transaction, amounts []amountToken, rawDesc string, prev *models.Transaction) {
	total := t.Debit + t.Credit

	if msg, ok := largeAmountError(total); ok {
		t.ParsingErrors = append(t.ParsingErrors, msg)
	}

	if len(amounts) >= 2 {
		if first := amounts[0]; !first.hasCents {
			if msg, ok := misScaledError(first.value); ok {
				t.ParsingErrors = append(t.ParsingErrors, msg)
			}
		}
	}

	if t.Debit == 0 && t.Credit == 0 && !balanceOnlyPattern.MatchString(t.Description) {
		t.ParsingErrors = append(t.ParsingErrors,
			"No debit or credit recognized: amount may be missing a decimal point")
	}

	if prev != nil {
		if msg, ok := balanceMismatch(prev.Balance, t.Credit, t.Debit, t.Balance, total); ok {
			t.ParsingErrors = append(t.ParsingErrors, msg)
		}
	}

	if len(rawDesc) < 3 {
		t.OCRUncertainty = append(t.OCRUncertainty,
			"Description unclear: fewer than 3 characters remain after removing dates and amounts")
	}
	if strings.ContainsAny(t.Description, unusualSymbols) {
		t.OCRUncertainty = append(t.OCRUncertainty,
			"Unusual characters detected: description may contain recognition artifacts")
	}
	if msg, ok := lowConfidenceWarning(t.SourceConfidence); ok {
		t.OCRUncertainty = append(t.OCRUncertainty, msg)
	}
}

// balanceMismatch reconciles previousBalance + credit - debit against the
// parsed balance using exact decimal arithmetic. The record is flagged if
// the discrepancy exceeds the absolute tolerance OR exceeds 10% of the
// transaction's total amount — either condition alone triggers.
func balanceMismatch(prevBalance, credit, debit, balance, total float64) (string, bool) {
	expected := decimal.NewFromFloat(prevBalance).
		Add(decimal.NewFromFloat(credit)).
		Sub(decimal.NewFromFloat(debit))
	disc := expected.Sub(decimal.NewFromFloat(balance)).Abs()

	abs := decimal.RequireFromString(balanceToleranceAbs)
	rel := decimal.RequireFromString(balanceToleranceRatio).Mul(decimal.NewFromFloat(total))

	if disc.GreaterThan(abs) || disc.GreaterThan(rel) {
		exp, _ := expected.Float64()
		return fmt.Sprintf("Balance mismatch: expected %.2f from the previous balance, statement shows %.2f", exp, balance), true
	}
	return "", false
}

// Validate is a standalone second pass over an existing transaction list.
// It recomputes only the large-amount, mis-scaled-amount and
// low-recognition-confidence categories on annotated copies; it performs
// no balance reconciliation and no description-quality checks. The input
// records are never mutated.
func Validate(txns []models.Transaction) []models.Transaction {
	out := make([]models.Transaction, len(txns))
	for i, t := range txns {
		t.ParsingErrors = nil
		t.OCRUncertainty = nil

		total := t.Debit + t.Credit
		if msg, ok := largeAmountError(total); ok {
			t.ParsingErrors = append(t.ParsingErrors, msg)
		}
		if amt := t.Amount(); amt != 0 {
			if msg, ok := misScaledError(amt); ok {
				t.ParsingErrors = append(t.ParsingErrors, msg)
			}
		}
		if msg, ok := lowConfidenceWarning(t.SourceConfidence); ok {
			t.OCRUncertainty = append(t.OCRUncertainty, msg)
		}

		t.SetWarnings()
		out[i] = t
	}
	return out
}
