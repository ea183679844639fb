// Package pipeline drives the report generation flow as a strictly
// sequential state machine: news, indicators, narrative, document.
// One run produces one PDF artifact or one error, never both.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/stockbrief/stockbrief/internal/indicator"
	"github.com/stockbrief/stockbrief/internal/report"
	"github.com/stockbrief/stockbrief/internal/sentiment"
	"github.com/stockbrief/stockbrief/pkg/models"
)

// State names the pipeline's current stage.
type State string

const (
	StateIdle                State = "idle"
	StateFetchingNews        State = "fetching_news"
	StateComputingIndicators State = "computing_indicators"
	StateComposingReport     State = "composing_report"
	StateRenderingDocument   State = "rendering_document"
	StateDone                State = "done"
	StateFailed              State = "failed"
)

// PriceSource supplies historical prices and fundamentals.
type PriceSource interface {
	History(ctx context.Context, symbol string, start, end time.Time) ([]models.PricePoint, error)
	Fundamentals(ctx context.Context, symbol string) (*models.Fundamentals, error)
}

// NewsGatherer supplies scored headlines.
type NewsGatherer interface {
	Gather(ctx context.Context, query string, max int) ([]models.NewsItem, error)
}

// Composer turns collected facts into report text.
type Composer interface {
	Compose(ctx context.Context, in report.Input) (string, error)
}

// DocumentRenderer lays report text out as a document file.
type DocumentRenderer interface {
	Render(reportText, chartPath, symbol string) (string, error)
}

// ChartRenderer draws the price chart and returns its path.
type ChartRenderer func(points []models.PricePoint, set models.IndicatorSet, symbol, dir string) (string, error)

// Result is the outcome of one run. Either Err is set and every
// other field is zero, or Err is nil and the data fields are
// populated. Side effects already written to disk (the chart, partial
// artifacts) are not rolled back on failure.
type Result struct {
	Symbol       string
	State        State
	KPIs         models.KPISnapshot
	Fundamentals *models.Fundamentals
	ChartPath    string
	News         []models.NewsItem
	Sentiment    models.SentimentSummary
	ReportText   string
	PDFPath      string
	Err          error
}

// Coordinator owns the collaborators and the run loop.
type Coordinator struct {
	prices   PriceSource
	news     NewsGatherer
	composer Composer
	renderer DocumentRenderer
	chart    ChartRenderer

	chartDir string
	maxNews  int
	logger   *slog.Logger
}

// Config assembles a Coordinator.
type Config struct {
	Prices   PriceSource
	News     NewsGatherer
	Composer Composer
	Renderer DocumentRenderer
	Chart    ChartRenderer

	ChartDir string
	MaxNews  int
	Logger   *slog.Logger
}

// New creates a coordinator. A nil Chart falls back to the default
// PNG renderer; a nil Logger falls back to slog.Default.
func New(cfg Config) *Coordinator {
	chart := cfg.Chart
	if chart == nil {
		chart = indicator.RenderChart
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxNews := cfg.MaxNews
	if maxNews <= 0 {
		maxNews = 8
	}
	return &Coordinator{
		prices:   cfg.Prices,
		news:     cfg.News,
		composer: cfg.Composer,
		renderer: cfg.Renderer,
		chart:    chart,
		chartDir: cfg.ChartDir,
		maxNews:  maxNews,
		logger:   logger,
	}
}

// Run executes the full pipeline for symbol over [start, end]. The
// returned result is all-or-nothing: any stage failure yields a
// result holding only the symbol, the failed state, and the error.
func (c *Coordinator) Run(ctx context.Context, symbol string, start, end time.Time) *Result {
	res := &Result{Symbol: symbol, State: StateIdle}
	began := time.Now()
	c.logger.Info("pipeline started", "symbol", symbol,
		"start", start.Format("2006-01-02"), "end", end.Format("2006-01-02"))

	// Stage 1: news and sentiment.
	res.State = StateFetchingNews
	c.logger.Info("fetching news", "symbol", symbol, "max", c.maxNews)
	items, err := c.news.Gather(ctx, symbol, c.maxNews)
	if err != nil {
		return c.fail(res, fmt.Errorf("fetch news: %w", err))
	}
	summary := sentiment.Summarize(items)
	c.logger.Info("news fetched", "symbol", symbol,
		"items", summary.Count, "avg_polarity", summary.AvgPolarity)

	// Stage 2: prices, indicators, KPIs, chart, fundamentals.
	res.State = StateComputingIndicators
	c.logger.Info("fetching price history", "symbol", symbol)
	points, err := c.prices.History(ctx, symbol, start, end)
	if err != nil {
		return c.fail(res, fmt.Errorf("fetch prices: %w", err))
	}

	set := indicator.Compute(points)
	kpis := indicator.ExtractKPIs(points, set)

	chartPath, err := c.chart(points, set, symbol, c.chartDir)
	if err != nil {
		return c.fail(res, fmt.Errorf("render chart: %w", err))
	}
	c.logger.Info("indicators computed", "symbol", symbol,
		"rows", len(points), "chart", chartPath)

	// Fundamentals are best-effort: a failed fetch drops the report
	// section instead of failing the run.
	fundamentals, err := c.prices.Fundamentals(ctx, symbol)
	if err != nil {
		c.logger.Warn("fundamentals unavailable", "symbol", symbol, "error", err)
		fundamentals = nil
	}

	// Stage 3: narrative.
	res.State = StateComposingReport
	c.logger.Info("composing report", "symbol", symbol)
	text, err := c.composer.Compose(ctx, report.Input{
		Symbol:       symbol,
		Start:        start,
		End:          end,
		KPIs:         kpis,
		Fundamentals: fundamentals,
		News:         items,
		Sentiment:    summary,
		ChartPath:    chartPath,
	})
	if err != nil {
		return c.fail(res, fmt.Errorf("compose report: %w", err))
	}

	// Stage 4: document.
	res.State = StateRenderingDocument
	c.logger.Info("rendering document", "symbol", symbol)
	pdfPath, err := c.renderer.Render(text, chartPath, symbol)
	if err != nil {
		return c.fail(res, fmt.Errorf("render document: %w", err))
	}

	res.State = StateDone
	res.KPIs = kpis
	res.Fundamentals = fundamentals
	res.ChartPath = chartPath
	res.News = items
	res.Sentiment = summary
	res.ReportText = text
	res.PDFPath = pdfPath
	c.logger.Info("pipeline done", "symbol", symbol,
		"pdf", pdfPath, "elapsed", time.Since(began).Round(time.Millisecond))
	return res
}

// fail logs the full cause and strips every data field so failed runs
// never leak partial results.
func (c *Coordinator) fail(res *Result, err error) *Result {
	c.logger.Error("pipeline failed",
		"symbol", res.Symbol, "state", string(res.State), "error", err)
	return &Result{
		Symbol: res.Symbol,
		State:  StateFailed,
		Err:    err,
	}
}
