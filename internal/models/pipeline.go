package models

// StageResult is the outcome of one pipeline stage. Success=false never
// halts the pipeline: Data always carries a best-effort fallback payload
// that is safe input for the next stage.
type StageResult struct {
	Success  bool                   `json:"success"`
	Message  string                 `json:"message"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// PreprocessResult is the Stage 1 payload: the enhanced page image encoded
// in the same raster format as the input, or the original bytes on failure.
type PreprocessResult struct {
	StageResult
	ProcessedImage []byte `json:"-"`
	Format         string `json:"format,omitempty"`
}

// RecognizeResult is the Stage 2 payload. An empty Text means "no signal",
// not an error to propagate.
type RecognizeResult struct {
	StageResult
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"` // 0-100
}

// RefineResult is the Stage 3 payload. Confidence here is the enhancement
// confidence, diagnostic only; it is never blended into the pipeline score.
type RefineResult struct {
	StageResult
	OriginalText string  `json:"originalText"`
	EnhancedText string  `json:"enhancedText"`
	Confidence   float64 `json:"confidence"` // 0-1
}

// StageFlags records which stages reported success for one page.
type StageFlags struct {
	Preprocessing bool `json:"preprocessing"`
	Recognition   bool `json:"recognition"`
	Refinement    bool `json:"refinement"`
}

// PipelineResult is the final per-page output. Text is never nil-ish: a
// failed page yields an empty string plus Error. Confidence is always the
// recognition stage's score.
type PipelineResult struct {
	Text       string     `json:"text"`
	Confidence float64    `json:"confidence"` // 0-100
	Stages     StageFlags `json:"stages"`
	Error      string     `json:"error,omitempty"`
}
