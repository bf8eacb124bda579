package api

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/insightdelivered/statement-ocr/internal/extractor"
	"github.com/insightdelivered/statement-ocr/internal/models"
	"github.com/insightdelivered/statement-ocr/internal/parser"
	"github.com/insightdelivered/statement-ocr/internal/pipeline"
	"github.com/insightdelivered/statement-ocr/internal/report"
	"github.com/insightdelivered/statement-ocr/internal/writer"
)

const version = "1.0.0"

// ScanResponse is the JSON response from the /api/scan endpoint.
type ScanResponse struct {
	Success      bool                    `json:"success"`
	Error        string                  `json:"error,omitempty"`
	Transactions []models.Transaction    `json:"transactions"`
	Grouped      []models.YearGroup      `json:"grouped,omitempty"`
	Summary      *models.SummaryStats    `json:"summary,omitempty"`
	Pages        []models.PipelineResult `json:"pages,omitempty"`
	CSV          string                  `json:"csv,omitempty"`
	RawText      string                  `json:"rawText,omitempty"`
	Confidence   float64                 `json:"confidence"`
	Count        int                     `json:"count"`
	Version      string                  `json:"version,omitempty"`
}

// Server wires the recognition pipeline and the parser behind HTTP.
type Server struct {
	pipe  *pipeline.Pipeline
	parse *parser.Parser
}

// NewServer builds a server around the default tesseract engine.
func NewServer(cfg pipeline.Config) *Server {
	return NewServerWithEngine(cfg, pipeline.NewTesseractEngine(cfg))
}

// NewServerWithEngine builds a server around the given recognition
// engine. Used by tests and remote-engine deployments.
func NewServerWithEngine(cfg pipeline.Config, engine pipeline.Engine) *Server {
	return &Server{
		pipe:  pipeline.NewWithEngine(cfg, engine),
		parse: parser.New(),
	}
}

// App returns the configured fiber application.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit: 32 << 20,
	})
	app.Use(recover.New())
	app.Use(logger.New())

	app.Get("/api/health", s.handleHealth)
	app.Post("/api/scan", s.handleScan)
	return app
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"engine":  "fiber",
		"version": version,
	})
}

// handleScan accepts either repeated "pages" image files (one rendered
// page each, in page order) which go through the full recognition
// pipeline, or a single "file" PDF whose embedded text layer bypasses
// recognition.
func (s *Server) handleScan(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, fmt.Sprintf("failed to parse form: %v", err))
	}

	var (
		text       string
		confidence float64
		pageInfo   []models.PipelineResult
	)

	switch {
	case len(form.File["pages"]) > 0:
		images, err := readFiles(form.File["pages"])
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, err.Error())
		}
		// Page order must be preserved: reconciliation downstream is
		// order-sensitive.
		pageInfo = s.pipe.ProcessPages(images)
		text, confidence = pipeline.JoinResults(pageInfo)

	case len(form.File["file"]) > 0:
		header := form.File["file"][0]
		if !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
			return writeError(c, fiber.StatusBadRequest, "the 'file' field only accepts PDF files; upload page images via 'pages'")
		}
		pages, err := extractPDF(header)
		if err != nil {
			return writeError(c, fiber.StatusUnprocessableEntity, err.Error())
		}
		text = strings.Join(pages, pipeline.PageSeparator)
		confidence = extractor.EmbeddedTextConfidence

	default:
		return writeError(c, fiber.StatusBadRequest, "no input: upload page images via 'pages' or a PDF via 'file'")
	}

	txns := s.parse.Parse(text, confidence)
	if txns == nil {
		// nil marshals to JSON null, not []
		txns = []models.Transaction{}
	}
	grouped := report.GroupByDate(txns)
	summary := report.Summarize(grouped)

	var csvBuf bytes.Buffer
	cw := &writer.CSVWriter{IncludeWarnings: true}
	if err := cw.Write(&csvBuf, txns); err != nil {
		return writeError(c, fiber.StatusInternalServerError, fmt.Sprintf("CSV generation failed: %v", err))
	}

	return c.JSON(ScanResponse{
		Success:      true,
		Transactions: txns,
		Grouped:      grouped,
		Summary:      &summary,
		Pages:        pageInfo,
		CSV:          csvBuf.String(),
		RawText:      text,
		Confidence:   confidence,
		Count:        len(txns),
		Version:      version,
	})
}

func readFiles(headers []*multipart.FileHeader) ([][]byte, error) {
	out := make([][]byte, 0, len(headers))
	for _, h := range headers {
		f, err := h.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open upload %q: %w", h.Filename, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read upload %q: %w", h.Filename, err)
		}
		out = append(out, data)
	}
	return out, nil
}

// extractPDF stages the upload in a temp file for the pdf library, which
// needs seekable file access.
func extractPDF(header *multipart.FileHeader) ([]string, error) {
	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	tmp, err := os.CreateTemp("", "statement-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to save upload: %w", err)
	}
	tmp.Close()

	return extractor.ExtractPages(tmp.Name())
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ScanResponse{
		Success:      false,
		Error:        msg,
		Transactions: []models.Transaction{},
	})
}
