// Package pdfgen lays a composed report out as a PDF document.
package pdfgen

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

// Renderer writes report documents into a fixed output directory.
type Renderer struct {
	outputDir string
	now       func() time.Time
}

// NewRenderer creates a renderer writing under outputDir. The
// directory is created on first render.
func NewRenderer(outputDir string) *Renderer {
	return &Renderer{outputDir: outputDir, now: time.Now}
}

// headingPrefixes marks the numbered outline lines that get bold
// styling in the body.
var headingPrefixes = []string{"1.", "2.", "3.", "4.", "5.", "6.", "7.", "8."}

// Render writes the report text and chart into a new PDF and returns
// its path. The chart is embedded when the file is a readable PNG;
// otherwise a visible notice takes its place and rendering continues.
func (r *Renderer) Render(reportText, chartPath, symbol string) (string, error) {
	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create reports dir: %w", err)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	// Title block.
	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 10, SanitizeText(fmt.Sprintf("Financial Analysis Report: %s", symbol)),
		"", 1, "", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 10, fmt.Sprintf("Generated on: %s", r.now().Format("2006-01-02 15:04")),
		"", 1, "", false, 0, "")
	pdf.Ln(8)

	// Chart. Validate the image up front: fpdf errors are sticky and
	// would poison the rest of the document.
	if chartLoadable(chartPath) {
		pdf.ImageOptions(chartPath, 10, -1, 180, 0, true,
			fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
		pdf.Ln(10)
	} else {
		pdf.Ln(5)
		pdf.SetFont("Arial", "I", 11)
		pdf.SetTextColor(255, 0, 0)
		pdf.CellFormat(0, 10, "Chart could not be loaded.", "", 1, "", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(5)
	}

	// Body with bold numbered headings.
	pdf.SetFont("Arial", "", 12)
	for _, line := range strings.Split(reportText, "\n") {
		clean := SanitizeText(line)
		if isHeading(clean) {
			pdf.SetFont("Arial", "B", 13)
			pdf.MultiCell(0, 8, clean, "", "", false)
			pdf.SetFont("Arial", "", 12)
		} else {
			pdf.MultiCell(0, 7, clean, "", "", false)
		}
	}

	path := r.uniquePath(symbol)
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("write pdf: %w", err)
	}
	return path, nil
}

// isHeading reports whether a body line is a numbered outline heading.
func isHeading(line string) bool {
	trimmed := strings.TrimSpace(line)
	for _, p := range headingPrefixes {
		if strings.HasPrefix(trimmed, p) {
			return true
		}
	}
	return false
}

// chartLoadable checks that the chart exists and decodes as PNG.
func chartLoadable(path string) bool {
	if path == "" {
		return false
	}
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	_, err = png.DecodeConfig(f)
	return err == nil
}

// uniquePath builds REPORT_<SYMBOL>_<timestamp>.pdf, suffixing a
// counter when two renders land in the same second.
func (r *Renderer) uniquePath(symbol string) string {
	stamp := r.now().Format("20060102_150405")
	path := filepath.Join(r.outputDir, fmt.Sprintf("REPORT_%s_%s.pdf", symbol, stamp))
	for i := 1; ; i++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path
		}
		path = filepath.Join(r.outputDir, fmt.Sprintf("REPORT_%s_%s_%d.pdf", symbol, stamp, i))
	}
}
