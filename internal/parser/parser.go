package parser

import (
	"fmt"
	"strings"

	"github.com/insightdelivered/statement-ocr/internal/models"
)

// Parser turns accumulated multi-page statement text into transaction
// records, attaching per-record warnings as it goes. Lines that fail any
// precondition are dropped silently; a line-level failure never aborts
// the batch.
type Parser struct{}

// New returns a statement line parser.
func New() *Parser {
	return &Parser{}
}

// amountToken is one monetary token found on a line, with its offsets in
// the original line so spans can be removed positionally.
type amountToken struct {
	raw           string
	start, end    int
	value         float64
	hasCents      bool
	parenthesized bool
}

// Parse splits text into non-blank lines and runs each through the line
// state machine: filter, extract date, extract amounts, build the
// description, classify debit/credit/balance, then validate inline
// against already-accepted records. sourceConfidence is the batch-level
// recognition score (0-100) stamped onto every record.
func (p *Parser) Parse(fullText string, sourceConfidence float64) []models.Transaction {
	var txns []models.Transaction
	for _, raw := range strings.Split(fullText, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		p.parseLine(line, sourceConfidence, &txns)
	}
	return txns
}

// parseLine appends at most one transaction for the given line. Panics
// are swallowed: the line is skipped and parsing continues.
func (p *Parser) parseLine(line string, sourceConfidence float64, txns *[]models.Transaction) {
	defer func() {
		// a malformed line must never abort the batch
		_ = recover()
	}()

	if headerPattern.MatchString(line) || len(line) < 10 || !hasDigit(line) {
		return
	}

	original := line
	line = sanitizeOCRLine(line)

	dateLoc := datePattern.FindStringSubmatchIndex(line)
	if dateLoc == nil {
		return
	}
	month := line[dateLoc[2]:dateLoc[3]]
	day := line[dateLoc[6]:dateLoc[7]]
	year := line[dateLoc[10]:dateLoc[11]]
	date, ok := normalizeDate(month, day, year)
	if !ok {
		return
	}

	amounts := extractAmounts(line, dateLoc[0], dateLoc[1])
	if len(amounts) == 0 {
		return
	}

	desc, rawDesc := buildDescription(line, dateLoc, amounts, len(*txns)+1)

	t := models.Transaction{
		Date:             date,
		Description:      desc,
		OriginalLine:     original,
		SourceConfidence: sourceConfidence,
	}

	if len(amounts) == 1 {
		// A single monetary token is the balance only.
		t.Balance = amounts[0].value
	} else {
		// First token is the transaction amount, last is the balance. A
		// parenthesized amount marks money out and overrides any credit
		// keyword in the description.
		t.Balance = amounts[len(amounts)-1].value
		amt := amounts[0].value
		if creditPattern.MatchString(desc) && !anyParenthesized(amounts) {
			t.Credit = amt
		} else {
			t.Debit = amt
		}
	}

	var prev *models.Transaction
	if n := len(*txns); n > 0 {
		prev = &(*txns)[n-1]
	}
	validateInline(&t, amounts, rawDesc, prev)
	t.SetWarnings()

	*txns = append(*txns, t)
}

// extractAmounts scans the line left to right for monetary tokens,
// skipping the date span. Token spans grow to cover surrounding
// parentheses so description building removes them too.
func extractAmounts(line string, dateStart, dateEnd int) []amountToken {
	masked := []byte(line)
	maskSpan(masked, dateStart, dateEnd)

	var out []amountToken
	for _, loc := range amountPattern.FindAllStringIndex(string(masked), -1) {
		start, end := loc[0], loc[1]
		raw := line[start:end]

		tok := amountToken{raw: raw, start: start, end: end}
		if start > 0 && line[start-1] == '(' && end < len(line) && line[end] == ')' {
			tok.parenthesized = true
			tok.start--
			tok.end++
		}
		tok.hasCents = strings.Contains(raw, ".")

		v, err := parseAmount(raw)
		if err != nil {
			continue
		}
		tok.value = v
		out = append(out, tok)
	}
	return out
}

// buildDescription removes the date and amount spans from the line and
// collapses the remainder. When fewer than three characters survive, a
// synthetic placeholder names the record by its position. The raw
// remainder is returned as well for the description-quality check.
func buildDescription(line string, dateLoc []int, amounts []amountToken, ordinal int) (desc, rawDesc string) {
	masked := []byte(line)
	maskSpan(masked, dateLoc[0], dateLoc[1])
	for _, a := range amounts {
		maskSpan(masked, a.start, a.end)
	}

	rawDesc = collapseSpaces(string(masked))
	if len(rawDesc) < 3 {
		return fmt.Sprintf("Transaction %d", ordinal), rawDesc
	}
	return rawDesc, rawDesc
}

func anyParenthesized(amounts []amountToken) bool {
	for _, a := range amounts {
		if a.parenthesized {
			return true
		}
	}
	return false
}
