package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stockbrief/stockbrief/internal/llm"
	"github.com/stockbrief/stockbrief/internal/report"
	"github.com/stockbrief/stockbrief/pkg/models"
)

// --- Fakes ---

type fakePrices struct {
	points          []models.PricePoint
	historyErr      error
	fundamentals    *models.Fundamentals
	fundamentalsErr error
}

func (f *fakePrices) History(context.Context, string, time.Time, time.Time) ([]models.PricePoint, error) {
	return f.points, f.historyErr
}

func (f *fakePrices) Fundamentals(context.Context, string) (*models.Fundamentals, error) {
	return f.fundamentals, f.fundamentalsErr
}

type fakeNews struct {
	items []models.NewsItem
	err   error
}

func (f *fakeNews) Gather(context.Context, string, int) ([]models.NewsItem, error) {
	return f.items, f.err
}

type fakeComposer struct {
	lastInput report.Input
	text      string
	err       error
}

func (f *fakeComposer) Compose(_ context.Context, in report.Input) (string, error) {
	f.lastInput = in
	return f.text, f.err
}

type fakeRenderer struct {
	path string
	err  error
}

func (f *fakeRenderer) Render(string, string, string) (string, error) {
	return f.path, f.err
}

func fakeChart(_ []models.PricePoint, _ models.IndicatorSet, symbol, _ string) (string, error) {
	return "charts/" + symbol + "_chart.png", nil
}

func testPoints(n int) []models.PricePoint {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	points := make([]models.PricePoint, n)
	for i := range points {
		c := 100 + float64(i)
		points[i] = models.PricePoint{
			Date: base.AddDate(0, 0, i), Open: c, High: c + 1, Low: c - 1, Close: c,
		}
	}
	return points
}

func testCoordinator(prices *fakePrices, news *fakeNews, composer *fakeComposer, renderer *fakeRenderer) *Coordinator {
	return New(Config{
		Prices:   prices,
		News:     news,
		Composer: composer,
		Renderer: renderer,
		Chart:    fakeChart,
		ChartDir: "charts",
		MaxNews:  8,
	})
}

func run(c *Coordinator) *Result {
	return c.Run(context.Background(), "AAPL",
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC))
}

// --- Tests ---

func TestRunSuccess(t *testing.T) {
	news := &fakeNews{items: []models.NewsItem{
		{Title: "up", Sentiment: models.Sentiment{Polarity: 0.5, Label: models.SentimentPositive}},
		{Title: "down", Sentiment: models.Sentiment{Polarity: -0.4, Label: models.SentimentNegative}},
	}}
	prices := &fakePrices{
		points:       testPoints(60),
		fundamentals: &models.Fundamentals{Sector: "Technology"},
	}
	composer := &fakeComposer{text: "1. Executive Summary\nSteady."}
	renderer := &fakeRenderer{path: "reports/REPORT_AAPL_20260830_120000.pdf"}

	res := run(testCoordinator(prices, news, composer, renderer))
	if res.Err != nil {
		t.Fatalf("Run() error = %v", res.Err)
	}
	if res.State != StateDone {
		t.Errorf("State = %s, want done", res.State)
	}
	if res.PDFPath != renderer.path {
		t.Errorf("PDFPath = %q", res.PDFPath)
	}
	if res.ReportText != composer.text {
		t.Errorf("ReportText = %q", res.ReportText)
	}
	if res.Sentiment.Count != 2 || res.Sentiment.Positive != 1 || res.Sentiment.Negative != 1 {
		t.Errorf("Sentiment = %+v", res.Sentiment)
	}
	if res.KPIs.CurrentPrice == nil || *res.KPIs.CurrentPrice != 159 {
		t.Errorf("KPIs.CurrentPrice = %v, want 159", res.KPIs.CurrentPrice)
	}
	if res.Fundamentals == nil || res.Fundamentals.Sector != "Technology" {
		t.Errorf("Fundamentals = %+v", res.Fundamentals)
	}
	if composer.lastInput.ChartPath != "charts/AAPL_chart.png" {
		t.Errorf("composer got chart path %q", composer.lastInput.ChartPath)
	}
}

func TestRunNewsFailureFailsRun(t *testing.T) {
	news := &fakeNews{err: errors.New("all news sources failed")}
	prices := &fakePrices{points: testPoints(60)}

	res := run(testCoordinator(prices, news, &fakeComposer{text: "x"}, &fakeRenderer{path: "p"}))
	if res.Err == nil {
		t.Fatal("expected error when every news source fails")
	}
	if res.State != StateFailed {
		t.Errorf("State = %s, want failed", res.State)
	}
	assertNoPartialData(t, res)
}

func TestRunEmptyNewsIsNotFailure(t *testing.T) {
	news := &fakeNews{} // no items, no error
	prices := &fakePrices{points: testPoints(60)}
	composer := &fakeComposer{text: "report"}

	res := run(testCoordinator(prices, news, composer, &fakeRenderer{path: "p"}))
	if res.Err != nil {
		t.Fatalf("empty news must not fail the run: %v", res.Err)
	}
	if res.Sentiment.Count != 0 || res.Sentiment.AvgPolarity != 0 {
		t.Errorf("Sentiment = %+v, want zeros", res.Sentiment)
	}
}

func TestRunPriceFailureFailsRun(t *testing.T) {
	prices := &fakePrices{historyErr: errors.New("no price data for symbol")}

	res := run(testCoordinator(prices, &fakeNews{}, &fakeComposer{text: "x"}, &fakeRenderer{path: "p"}))
	if res.Err == nil {
		t.Fatal("expected error for failed price fetch")
	}
	assertNoPartialData(t, res)
}

func TestRunFundamentalsFailureDegrades(t *testing.T) {
	prices := &fakePrices{
		points:          testPoints(60),
		fundamentalsErr: errors.New("upstream 500"),
	}
	composer := &fakeComposer{text: "report"}

	res := run(testCoordinator(prices, &fakeNews{}, composer, &fakeRenderer{path: "p"}))
	if res.Err != nil {
		t.Fatalf("fundamentals failure must not fail the run: %v", res.Err)
	}
	if res.Fundamentals != nil {
		t.Errorf("Fundamentals = %+v, want nil", res.Fundamentals)
	}
	if composer.lastInput.Fundamentals != nil {
		t.Error("composer should see nil fundamentals")
	}
}

func TestRunComposerFailureFailsRun(t *testing.T) {
	prices := &fakePrices{points: testPoints(60)}
	composer := &fakeComposer{err: &llm.StatusError{StatusCode: 503, Message: "overloaded"}}

	res := run(testCoordinator(prices, &fakeNews{}, composer, &fakeRenderer{path: "p"}))
	if res.Err == nil {
		t.Fatal("expected error for failed composition")
	}
	var statusErr *llm.StatusError
	if !errors.As(res.Err, &statusErr) || statusErr.StatusCode != 503 {
		t.Errorf("status code lost: %v", res.Err)
	}
	if !strings.Contains(res.Err.Error(), "compose report") {
		t.Errorf("error lacks stage context: %v", res.Err)
	}
	assertNoPartialData(t, res)
}

func TestRunRendererFailureFailsRun(t *testing.T) {
	prices := &fakePrices{points: testPoints(60)}
	renderer := &fakeRenderer{err: errors.New("disk full")}

	res := run(testCoordinator(prices, &fakeNews{}, &fakeComposer{text: "x"}, renderer))
	if res.Err == nil {
		t.Fatal("expected error for failed document render")
	}
	assertNoPartialData(t, res)
}

// assertNoPartialData verifies the all-or-nothing contract: a failed
// result carries the error and nothing else.
func assertNoPartialData(t *testing.T, res *Result) {
	t.Helper()
	if res.State != StateFailed {
		t.Errorf("State = %s, want failed", res.State)
	}
	if res.ReportText != "" || res.PDFPath != "" || res.ChartPath != "" {
		t.Errorf("failed result leaked artifacts: %+v", res)
	}
	if res.News != nil || res.Fundamentals != nil {
		t.Errorf("failed result leaked data: %+v", res)
	}
	if !res.KPIs.Empty() {
		t.Errorf("failed result leaked KPIs: %+v", res.KPIs)
	}
}
