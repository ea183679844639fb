package pdfgen

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain ascii stays", "plain ascii stays"},
		{"café—test", "cafe-test"},
		{"“smart quotes” and ‘single’", `"smart quotes" and 'single'`},
		{"range 10–20", "range 10-20"},
		{"wait… more", "wait... more"},
		{"• bullet point", "- bullet point"},
		{"A → B", "A -> B"},
		{"non breaking", "non breaking"},
		{"résumé naïve", "resume naive"},
		{"emoji \U0001f600 gone", "emoji  gone"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SanitizeText(tt.in); got != tt.want {
			t.Errorf("SanitizeText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeTextIdempotent(t *testing.T) {
	inputs := []string{
		"café—test",
		"“quoted” → done…",
		"already plain",
	}
	for _, in := range inputs {
		once := SanitizeText(in)
		twice := SanitizeText(once)
		if once != twice {
			t.Errorf("not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestSanitizeTextASCIIOnly(t *testing.T) {
	out := SanitizeText("mixed: éüñ 世界 — ok")
	for _, r := range out {
		if r > 127 {
			t.Fatalf("non-ASCII rune %q survived: %q", r, out)
		}
	}
}

// writeTestPNG writes a small valid PNG chart stand-in.
func writeTestPNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for x := 0; x < 40; x++ {
		img.Set(x, 10, color.RGBA{0, 0, 255, 255})
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

const sampleReport = `1. Executive Summary
The stock performed steadily across the period.

2. Price Performance Overview
Prices ranged from 90 to 110.

7. Final Recommendation
Hold.`

func TestRender(t *testing.T) {
	dir := t.TempDir()
	chart := filepath.Join(dir, "AAPL_chart.png")
	writeTestPNG(t, chart)

	r := NewRenderer(filepath.Join(dir, "reports"))
	path, err := r.Render(sampleReport, chart, "AAPL")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("pdf not written: %v", err)
	}
	if info.Size() == 0 {
		t.Error("pdf file is empty")
	}

	name := filepath.Base(path)
	if !strings.HasPrefix(name, "REPORT_AAPL_") || !strings.HasSuffix(name, ".pdf") {
		t.Errorf("unexpected pdf name %q", name)
	}
}

func TestRenderMissingChart(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer(dir)

	path, err := r.Render(sampleReport, filepath.Join(dir, "nope.png"), "TSLA")
	if err != nil {
		t.Fatalf("missing chart must not fail the render: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("pdf not written: %v", err)
	}
}

func TestRenderCorruptChart(t *testing.T) {
	dir := t.TempDir()
	chart := filepath.Join(dir, "bad.png")
	if err := os.WriteFile(chart, []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewRenderer(dir)
	path, err := r.Render(sampleReport, chart, "TSLA")
	if err != nil {
		t.Fatalf("corrupt chart must not fail the render: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("pdf not written: %v", err)
	}
}

func TestRenderUniquePaths(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer(dir)

	first, err := r.Render(sampleReport, "", "AAPL")
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Render(sampleReport, "", "AAPL")
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Errorf("two renders produced the same path %q", first)
	}
}

func TestRenderNonASCIIBody(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer(dir)

	text := "1. Résumé\nRevenue grew 10–15% — “strong” quarter…"
	path, err := r.Render(text, "", "MC.PA")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("pdf not written: %v", err)
	}
}

func TestIsHeading(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"1. Executive Summary", true},
		{"  3. Key Indicators (KPIs)", true},
		{"8. Final Recommendation", true},
		{"9. Appendix", false},
		{"10. Something", false},
		{"plain text", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := isHeading(tt.line); got != tt.want {
			t.Errorf("isHeading(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}
