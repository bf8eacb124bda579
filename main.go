package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/insightdelivered/statement-ocr/internal/api"
	"github.com/insightdelivered/statement-ocr/internal/extractor"
	"github.com/insightdelivered/statement-ocr/internal/models"
	"github.com/insightdelivered/statement-ocr/internal/parser"
	"github.com/insightdelivered/statement-ocr/internal/pipeline"
	"github.com/insightdelivered/statement-ocr/internal/report"
	"github.com/insightdelivered/statement-ocr/internal/writer"
)

const version = "1.0.0"

func main() {
	outputFlag := flag.String("output", "", "Output CSV file path (defaults to first input filename with .csv extension)")
	warningsFlag := flag.Bool("warnings", true, "Include a warnings column in the CSV output")
	summaryFlag := flag.Bool("summary", true, "Print warning summary after parsing")
	serveFlag := flag.String("serve", "", "Start the HTTP API on the given address (e.g. :8080) instead of converting files")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	helpFlag := flag.Bool("help", false, "Show usage help")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Bank Statement OCR Converter
by Insight Delivered

Extracts transactions from scanned bank statement pages (PNG/JPEG page
images, in page order) or from digital statement PDFs with a text layer.

Usage:
  statement-ocr [flags] <page1.png> [page2.png ...]
  statement-ocr [flags] <statement.pdf>

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Scan rendered page images in page order
  statement-ocr page-1.png page-2.png page-3.png

  # Convert a digital PDF with an embedded text layer
  statement-ocr statement.pdf

  # Custom output path
  statement-ocr --output=transactions.csv page-1.png

  # Run the HTTP API
  statement-ocr --serve=:8080
`)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("statement-ocr v%s\n", version)
		os.Exit(0)
	}

	cfg := pipeline.DefaultConfig()

	if *serveFlag != "" {
		srv := api.NewServer(cfg)
		fmt.Printf("statement-ocr v%s listening on %s\n", version, *serveFlag)
		if err := srv.App().Listen(*serveFlag); err != nil {
			fatalf("server failed: %v\n", err)
		}
		return
	}

	if *helpFlag || flag.NArg() == 0 {
		flag.Usage()
		os.Exit(0)
	}

	if err := run(flag.Args(), cfg, *outputFlag, *warningsFlag, *summaryFlag); err != nil {
		fatalf("Error: %v\n", err)
	}
}

func run(inputs []string, cfg pipeline.Config, outputPath string, includeWarnings, printSummary bool) error {
	text, confidence, err := extract(inputs, cfg)
	if err != nil {
		return err
	}

	p := parser.New()
	txns := p.Parse(text, confidence)
	fmt.Printf("  Found %d transaction(s)\n", len(txns))
	if len(txns) == 0 {
		fmt.Println("  Warning: no transactions found. The page images may be too low quality, or the statement layout is unusual.")
	}

	outPath := outputPath
	if outPath == "" {
		base := strings.TrimSuffix(inputs[0], filepath.Ext(inputs[0]))
		outPath = base + ".csv"
	}

	w := &writer.CSVWriter{IncludeWarnings: includeWarnings}
	if err := w.WriteToFile(outPath, txns); err != nil {
		return fmt.Errorf("CSV write failed: %w", err)
	}
	fmt.Printf("  Output: %s\n", outPath)

	if printSummary {
		grouped := report.GroupByDate(txns)
		printStats(report.Summarize(grouped))
	}

	fmt.Println("  Done.")
	return nil
}

// extract turns the input files into accumulated statement text plus a
// batch confidence. A single PDF input uses the embedded text layer;
// image inputs run through the full recognition pipeline in page order.
func extract(inputs []string, cfg pipeline.Config) (string, float64, error) {
	for _, in := range inputs {
		if _, err := os.Stat(in); os.IsNotExist(err) {
			return "", 0, fmt.Errorf("input file not found: %s", in)
		}
	}

	if strings.ToLower(filepath.Ext(inputs[0])) == ".pdf" {
		if len(inputs) > 1 {
			return "", 0, fmt.Errorf("pass a single PDF, or multiple page images")
		}
		fmt.Printf("Processing: %s\n", inputs[0])
		pages, err := extractor.ExtractPages(inputs[0])
		if err != nil {
			return "", 0, fmt.Errorf("PDF extraction failed: %w", err)
		}
		fmt.Printf("  Extracted text from %d page(s)\n", len(pages))
		return strings.Join(pages, pipeline.PageSeparator), extractor.EmbeddedTextConfidence, nil
	}

	pipe := pipeline.New(cfg)
	images := make([][]byte, 0, len(inputs))
	for _, in := range inputs {
		data, err := os.ReadFile(in)
		if err != nil {
			return "", 0, fmt.Errorf("failed to read %s: %w", in, err)
		}
		images = append(images, data)
	}

	results := pipe.ProcessPages(images)
	for i, r := range results {
		if r.Error != "" {
			fmt.Fprintf(os.Stderr, "  Warning: no text extracted from page %d: %s\n", i+1, r.Error)
			continue
		}
		fmt.Printf("  Page %d: %d chars, confidence %.0f%%\n", i+1, len(r.Text), r.Confidence)
	}

	text, confidence := pipeline.JoinResults(results)
	return text, confidence, nil
}

func printStats(stats models.SummaryStats) {
	fmt.Printf("  Transactions: %d, with warnings: %d\n", stats.TotalTransactions, stats.TotalWarnings)
	if stats.TotalParsingErrors > 0 {
		fmt.Printf("  Parsing errors: %d\n", stats.TotalParsingErrors)
		for _, label := range sortedKeys(stats.ParsingErrorTypes) {
			fmt.Printf("    %s: %d\n", label, stats.ParsingErrorTypes[label])
		}
	}
	if stats.TotalOCRUncertainty > 0 {
		fmt.Printf("  OCR uncertainty: %d\n", stats.TotalOCRUncertainty)
		for _, label := range sortedKeys(stats.OCRUncertaintyTypes) {
			fmt.Printf("    %s: %d\n", label, stats.OCRUncertaintyTypes[label])
		}
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}
