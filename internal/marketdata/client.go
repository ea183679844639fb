// Package marketdata fetches historical prices and company
// fundamentals from Yahoo Finance's public APIs (v8 chart,
// v10 quoteSummary). No API key is required.
package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/stockbrief/stockbrief/internal/infra"
	"github.com/stockbrief/stockbrief/pkg/models"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

// ErrNoPriceData is returned when the requested range contains no
// usable trading rows.
var ErrNoPriceData = errors.New("no price data for symbol")

// Client talks to Yahoo Finance with caching and rate limiting.
type Client struct {
	baseURL string
	cache   *infra.Cache
	limiter *infra.RateLimiter
}

// NewClient creates a market data client with a 15 minute price cache
// and a burst-5 rate limiter.
func NewClient() *Client {
	return &Client{
		baseURL: defaultBaseURL,
		cache:   infra.NewCache(15 * time.Minute),
		limiter: infra.NewRateLimiter(5, time.Second),
	}
}

// NewClientWithBaseURL creates a client pointed at an alternate
// endpoint. Used in tests.
func NewClientWithBaseURL(baseURL string) *Client {
	c := NewClient()
	c.baseURL = baseURL
	return c
}

// History fetches daily OHLCV rows for symbol between start and end.
// Rows with any null price field are skipped. A range that yields
// zero usable rows returns ErrNoPriceData.
func (c *Client) History(ctx context.Context, symbol string, start, end time.Time) ([]models.PricePoint, error) {
	cacheKey := fmt.Sprintf("history:%s:%d:%d", symbol, start.Unix(), end.Unix())
	if cached, ok := c.cache.Get(cacheKey); ok {
		return cached.([]models.PricePoint), nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf(
		"%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d",
		c.baseURL, symbol, start.Unix(), end.Unix(),
	)

	var resp chartResponse
	if err := c.fetchJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("chart %s: %w", symbol, err)
	}

	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("chart %s: %s", symbol, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoPriceData, symbol)
	}

	points := parsePoints(resp.Chart.Result[0])
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoPriceData, symbol)
	}

	c.cache.Set(cacheKey, points)
	return points, nil
}

// Fundamentals fetches valuation metrics and the company profile.
// Metrics Yahoo does not report come back as nil pointers.
func (c *Client) Fundamentals(ctx context.Context, symbol string) (*models.Fundamentals, error) {
	cacheKey := "fundamentals:" + symbol
	if cached, ok := c.cache.Get(cacheKey); ok {
		return cached.(*models.Fundamentals), nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf(
		"%s/v10/finance/quoteSummary/%s?modules=assetProfile,defaultKeyStatistics,summaryDetail,financialData",
		c.baseURL, symbol,
	)

	var resp quoteSummaryResponse
	if err := c.fetchJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("quoteSummary %s: %w", symbol, err)
	}

	if resp.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("quoteSummary %s: %s", symbol, resp.QuoteSummary.Error.Description)
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("no fundamentals for %s", symbol)
	}

	f := buildFundamentals(resp.QuoteSummary.Result[0])
	c.cache.SetWithTTL(cacheKey, f, time.Hour)
	return f, nil
}

// parsePoints converts a chart result into price points. A row counts
// only when timestamp and all four price fields are present.
func parsePoints(result chartResult) []models.PricePoint {
	if len(result.Indicators.Quote) == 0 {
		return nil
	}

	q := result.Indicators.Quote[0]
	points := make([]models.PricePoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(q.Open) || i >= len(q.High) || i >= len(q.Low) || i >= len(q.Close) {
			break
		}
		if q.Open[i] == nil || q.High[i] == nil || q.Low[i] == nil || q.Close[i] == nil {
			continue
		}
		p := models.PricePoint{
			Date:  time.Unix(ts, 0).UTC(),
			Open:  *q.Open[i],
			High:  *q.High[i],
			Low:   *q.Low[i],
			Close: *q.Close[i],
		}
		if i < len(q.Volume) && q.Volume[i] != nil {
			p.Volume = *q.Volume[i]
		}
		points = append(points, p)
	}
	return points
}

// buildFundamentals assembles a Fundamentals from a quoteSummary
// result. Missing modules leave their fields nil.
func buildFundamentals(r quoteSummaryResult) *models.Fundamentals {
	f := &models.Fundamentals{}

	if ap := r.AssetProfile; ap != nil {
		f.Sector = ap.Sector
		f.Industry = ap.Industry
	}
	if sd := r.SummaryDetail; sd != nil {
		f.MarketCap = sd.MarketCap.Raw
		f.PERatio = sd.TrailingPE.Raw
		f.ForwardPE = sd.ForwardPE.Raw
		f.DividendYield = sd.DividendYield.Raw
		f.Beta = sd.Beta.Raw
	}
	if ks := r.DefaultKeyStatistics; ks != nil {
		if f.ForwardPE == nil {
			f.ForwardPE = ks.ForwardPE.Raw
		}
		if f.Beta == nil {
			f.Beta = ks.Beta.Raw
		}
		f.PBRatio = ks.PriceToBook.Raw
		f.EPS = ks.TrailingEps.Raw
	}

	return f
}

// fetchJSON performs a GET request and decodes the response into dest.
func (c *Client) fetchJSON(ctx context.Context, url string, dest any) error {
	body, _, err := infra.DoGet(ctx, url, map[string]string{"Accept": "application/json"})
	if err != nil {
		return err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("parse JSON: %w", err)
	}
	return nil
}
