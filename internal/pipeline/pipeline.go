package pipeline

import (
	"fmt"

	"github.com/insightdelivered/statement-ocr/internal/models"
)

// Pipeline runs the three recognition stages over one page image. Stages
// always run in sequence regardless of individual success flags: each
// stage's fallback payload is safe input for the next one.
type Pipeline struct {
	pre *Preprocessor
	rec *Recognizer
	ref *Refiner
}

// New builds a pipeline using the default tesseract engine.
func New(cfg Config) *Pipeline {
	return NewWithEngine(cfg, NewTesseractEngine(cfg))
}

// NewWithEngine builds a pipeline around a caller-supplied recognition
// engine. Used by tests and by callers with a remote engine.
func NewWithEngine(cfg Config, engine Engine) *Pipeline {
	return &Pipeline{
		pre: NewPreprocessor(cfg),
		rec: NewRecognizer(engine),
		ref: NewRefiner(cfg),
	}
}

// ProcessPage runs preprocess, recognize and refine over a rendered page
// image. The returned text is the refined text when refinement succeeded,
// otherwise the raw recognized text; the returned confidence is always
// the recognition stage's score. A panic escaping all three stages yields
// a zeroed result with Error set — the one fatal path.
func (p *Pipeline) ProcessPage(image []byte) (result models.PipelineResult) {
	defer func() {
		if r := recover(); r != nil {
			result = models.PipelineResult{
				Text:  "",
				Error: fmt.Sprintf("pipeline failed: %v", r),
			}
		}
	}()

	pre := p.pre.Process(image)
	rec := p.rec.Recognize(pre.ProcessedImage)
	ref := p.ref.Refine(rec.Text, rec.Confidence)

	text := rec.Text
	if ref.Success {
		text = ref.EnhancedText
	}

	return models.PipelineResult{
		Text:       text,
		Confidence: rec.Confidence,
		Stages: models.StageFlags{
			Preprocessing: pre.Success,
			Recognition:   rec.Success,
			Refinement:    ref.Success,
		},
	}
}

// PageSeparator joins per-page text when callers accumulate a document.
const PageSeparator = "\n--- PAGE BREAK ---\n"

// ProcessPages runs each page through the pipeline in order and returns
// the per-page results. Pages are strictly sequential; callers that fan
// out must reassemble results in original page order before joining text,
// since balance reconciliation downstream is order-sensitive.
func (p *Pipeline) ProcessPages(pages [][]byte) []models.PipelineResult {
	results := make([]models.PipelineResult, 0, len(pages))
	for _, page := range pages {
		results = append(results, p.ProcessPage(page))
	}
	return results
}

// JoinResults concatenates page text with the page separator and averages
// the recognition confidence across pages that produced text.
func JoinResults(results []models.PipelineResult) (string, float64) {
	var (
		texts []string
		sum   float64
		n     int
	)
	for _, r := range results {
		texts = append(texts, r.Text)
		if r.Error == "" {
			sum += r.Confidence
			n++
		}
	}
	avg := 0.0
	if n > 0 {
		avg = sum / float64(n)
	}
	return joinPages(texts), avg
}

func joinPages(texts []string) string {
	out := ""
	for i, t := range texts {
		if i > 0 {
			out += PageSeparator
		}
		out += t
	}
	return out
}
