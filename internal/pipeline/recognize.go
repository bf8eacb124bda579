package pipeline

import (
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/insightdelivered/statement-ocr/internal/models"
)

// Engine is the external recognition boundary: it turns a raster image
// into text plus a 0-100 confidence score.
type Engine interface {
	Recognize(image []byte) (text string, confidence float64, err error)
}

// TesseractEngine recognizes text with a local tesseract installation,
// constrained to the statement character whitelist and single-block
// segmentation.
type TesseractEngine struct {
	cfg Config
}

// NewTesseractEngine returns an engine using the given tuning.
func NewTesseractEngine(cfg Config) *TesseractEngine {
	return &TesseractEngine{cfg: cfg}
}

func (e *TesseractEngine) Recognize(image []byte) (string, float64, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage("eng"); err != nil {
		return "", 0, fmt.Errorf("set language: %w", err)
	}
	if e.cfg.Whitelist != "" {
		if err := client.SetWhitelist(e.cfg.Whitelist); err != nil {
			return "", 0, fmt.Errorf("set whitelist: %w", err)
		}
	}
	if err := client.SetPageSegMode(gosseract.PageSegMode(e.cfg.PageSegMode)); err != nil {
		return "", 0, fmt.Errorf("set page seg mode: %w", err)
	}
	if e.cfg.PreserveSpacing {
		if err := client.SetVariable(gosseract.SettableVariable("preserve_interword_spaces"), "1"); err != nil {
			return "", 0, fmt.Errorf("set spacing: %w", err)
		}
	}
	if err := client.SetImageFromBytes(image); err != nil {
		return "", 0, fmt.Errorf("set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", 0, fmt.Errorf("tesseract: %w", err)
	}

	// Mean word confidence when tesseract can report it, otherwise a
	// heuristic estimate from the text itself.
	conf := heuristicConfidence(text)
	if boxes, berr := client.GetBoundingBoxes(gosseract.RIL_WORD); berr == nil && len(boxes) > 0 {
		var sum float64
		for _, b := range boxes {
			sum += b.Confidence
		}
		conf = sum / float64(len(boxes))
	}

	return text, conf, nil
}

// Recognizer runs Stage 2 against an Engine, converting engine failures
// into the empty-text fallback payload.
type Recognizer struct {
	engine Engine
}

// NewRecognizer wraps the given engine.
func NewRecognizer(engine Engine) *Recognizer {
	return &Recognizer{engine: engine}
}

// Recognize runs the engine on the (possibly enhanced) page image. On
// failure it returns Success=false with empty text and zero confidence;
// callers must treat empty text as "no signal", not an error.
func (r *Recognizer) Recognize(image []byte) models.RecognizeResult {
	res := models.RecognizeResult{}

	text, conf, err := r.engine.Recognize(image)
	if err != nil {
		res.Message = fmt.Sprintf("recognition failed: %v", err)
		return res
	}

	res.Success = true
	res.Message = "text recognized"
	res.Text = text
	res.Confidence = conf
	res.Metadata = map[string]interface{}{
		"confidence":    conf,
		"textLength":    len(text),
		"ocrConfidence": conf,
	}
	return res
}

// heuristicConfidence estimates recognition quality (0-100) from text
// shape when the engine reports no word-level scores.
func heuristicConfidence(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}

	conf := 50.0
	if len(text) > 200 {
		conf += 10
	}
	if len(words(text)) > 20 {
		conf += 10
	}

	alpha := 0
	for _, r := range text {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			alpha++
		}
	}
	ratio := float64(alpha) / float64(len(text))
	if ratio > 0.5 && ratio < 0.9 {
		conf += 10
	}

	if conf > 85 {
		conf = 85
	}
	return conf
}

func words(text string) []string {
	return strings.Fields(text)
}
