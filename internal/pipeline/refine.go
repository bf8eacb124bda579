package pipeline

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/insightdelivered/statement-ocr/internal/models"
)

// Refiner corrects recognized tokens against the banking vocabulary using
// approximate string matching.
type Refiner struct {
	cfg   Config
	vocab []string
}

// NewRefiner returns a refiner over cfg.Vocabulary.
func NewRefiner(cfg Config) *Refiner {
	return &Refiner{cfg: cfg, vocab: cfg.Vocabulary}
}

// Refine replaces noisy tokens with their closest vocabulary term. Only
// whitespace-delimited tokens longer than two characters are considered,
// and a correction is accepted when its normalized edit distance is below
// the configured threshold. Replacement is span-based: only the matched
// token's offset range is rewritten, never other occurrences of the same
// substring.
func (r *Refiner) Refine(text string, recognitionConfidence float64) models.RefineResult {
	res := models.RefineResult{
		OriginalText: text,
		EnhancedText: text,
		Confidence:   r.cfg.NeutralEnhancement,
	}

	var (
		out      strings.Builder
		scores   []float64
		replaced int
	)

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if i > 0 {
			out.WriteByte('\n')
		}
		out.WriteString(r.refineLine(line, &scores, &replaced))
	}

	if len(scores) > 0 {
		var sum float64
		for _, s := range scores {
			sum += s
		}
		res.Confidence = 1 - sum/float64(len(scores))
	}

	res.Success = true
	res.Message = fmt.Sprintf("refined %d token(s)", replaced)
	res.EnhancedText = out.String()
	res.Metadata = map[string]interface{}{
		"replacements":          replaced,
		"enhancementConfidence": res.Confidence,
		"recognitionConfidence": recognitionConfidence,
	}
	return res
}

// refineLine rewrites one line token by token, preserving the original
// whitespace between tokens.
func (r *Refiner) refineLine(line string, scores *[]float64, replaced *int) string {
	var out strings.Builder
	i := 0
	for i < len(line) {
		if isSpace(line[i]) {
			out.WriteByte(line[i])
			i++
			continue
		}
		start := i
		for i < len(line) && !isSpace(line[i]) {
			i++
		}
		token := line[start:i]
		out.WriteString(r.correctToken(token, scores, replaced))
	}
	return out.String()
}

// correctToken returns the vocabulary term closest to token when the match
// clears the acceptance threshold, otherwise the token unchanged.
func (r *Refiner) correctToken(token string, scores *[]float64, replaced *int) string {
	if len(token) <= 2 {
		return token
	}

	upper := strings.ToUpper(token)
	best := ""
	bestScore := 1.0
	for _, term := range r.vocab {
		d := fuzzy.LevenshteinDistance(upper, term)
		maxLen := len(upper)
		if len(term) > maxLen {
			maxLen = len(term)
		}
		if maxLen == 0 {
			continue
		}
		score := float64(d) / float64(maxLen)
		if score < bestScore {
			bestScore = score
			best = term
		}
	}

	if best == "" || bestScore >= r.cfg.MatchThreshold {
		return token
	}

	*scores = append(*scores, bestScore)
	if best != token {
		*replaced++
	}
	return best
}

func isSpace(b byte) bool {
	return unicode.IsSpace(rune(b))
}
