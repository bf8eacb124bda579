package pipeline

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/insightdelivered/statement-ocr/internal/models"
)

// Preprocessor enhances a rendered page image before recognition.
type Preprocessor struct {
	cfg Config
}

// NewPreprocessor returns a preprocessor with the given tuning.
func NewPreprocessor(cfg Config) *Preprocessor {
	return &Preprocessor{cfg: cfg}
}

// Process applies contrast, brightness, light blur, sigmoid normalization
// and grayscale conversion, re-encoding in the input's raster format.
// On any failure it returns the original, unmodified bytes with
// Success=false — the contract is "never block the pipeline; degrade to
// the input".
func (p *Preprocessor) Process(img []byte) models.PreprocessResult {
	res := models.PreprocessResult{
		ProcessedImage: img,
	}

	decoded, format, err := image.Decode(bytes.NewReader(img))
	if err != nil {
		res.Message = fmt.Sprintf("image decode failed: %v", err)
		return res
	}
	res.Format = format

	enhanced := imaging.AdjustContrast(decoded, p.cfg.Contrast)
	enhanced = imaging.AdjustBrightness(enhanced, p.cfg.Brightness)
	if p.cfg.BlurSigma > 0 {
		enhanced = imaging.Blur(enhanced, p.cfg.BlurSigma)
	}
	enhanced = imaging.AdjustSigmoid(enhanced, p.cfg.SigmoidMidpoint, p.cfg.SigmoidFactor)
	gray := imaging.Grayscale(enhanced)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, gray, encodeFormat(format)); err != nil {
		res.Message = fmt.Sprintf("image encode failed: %v", err)
		return res
	}

	res.Success = true
	res.Message = "image enhanced"
	res.ProcessedImage = buf.Bytes()
	res.Metadata = map[string]interface{}{
		"format":        format,
		"originalSize":  len(img),
		"processedSize": buf.Len(),
	}
	return res
}

// encodeFormat maps an image.Decode format name to an imaging encoder.
// Unknown formats re-encode as PNG, which every later stage accepts.
func encodeFormat(name string) imaging.Format {
	switch name {
	case "jpeg":
		return imaging.JPEG
	case "gif":
		return imaging.GIF
	case "bmp":
		return imaging.BMP
	case "tiff":
		return imaging.TIFF
	default:
		return imaging.PNG
	}
}
