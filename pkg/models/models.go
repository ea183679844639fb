// Package models defines the core data structures shared across StockBrief:
// price history, derived indicators, news, sentiment, fundamentals, and the
// pipeline result record.
package models

import (
	"math"
	"time"
)

// PricePoint represents one trading day of OHLCV data.
// Immutable once fetched.
type PricePoint struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// IndicatorSet holds rolling indicators aligned index-for-index with the
// price sequence they were computed from. Entries for which the trailing
// window is not yet full are NaN, never zero.
type IndicatorSet struct {
	DailyReturn []float64 `json:"daily_return"`
	MA20        []float64 `json:"ma20"`
	MA50        []float64 `json:"ma50"`
	Volatility  []float64 `json:"volatility"`
}

// Len returns the number of aligned entries in the set.
func (s IndicatorSet) Len() int { return len(s.MA20) }

// KPISnapshot is a scalar extraction of the most recent indicator entry plus
// the latest session prices. A nil field means the value is unavailable
// (insufficient history or missing upstream data); callers must not treat
// nil as zero.
type KPISnapshot struct {
	CurrentPrice *float64 `json:"current_price"`
	DayHigh      *float64 `json:"day_high"`
	DayLow       *float64 `json:"day_low"`
	MA20         *float64 `json:"ma20"`
	MA50         *float64 `json:"ma50"`
	Volatility   *float64 `json:"volatility"`
}

// Empty reports whether every KPI field is unavailable.
func (k KPISnapshot) Empty() bool {
	return k.CurrentPrice == nil && k.DayHigh == nil && k.DayLow == nil &&
		k.MA20 == nil && k.MA50 == nil && k.Volatility == nil
}

// SentimentLabel classifies polarity under fixed thresholds.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNegative SentimentLabel = "negative"
	SentimentNeutral  SentimentLabel = "neutral"
)

// Sentiment holds a per-item sentiment score.
// Polarity ranges -1 (negative) to +1 (positive); subjectivity ranges
// 0 (objective) to 1 (subjective). Label is a pure function of polarity.
type Sentiment struct {
	Polarity     float64        `json:"polarity"`
	Subjectivity float64        `json:"subjectivity"`
	Label        SentimentLabel `json:"label"`
}

// NewsItem represents a single news article with its sentiment score.
// Immutable once fetched. PublishedAt is the zero time when the source
// did not supply a timestamp.
type NewsItem struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at,omitempty"`
	Sentiment   Sentiment `json:"sentiment"`
}

// SentimentSummary aggregates per-item sentiment over a news list.
// Derived, recomputed from the item list each time.
type SentimentSummary struct {
	Count       int     `json:"count"`
	Positive    int     `json:"positive"`
	Negative    int     `json:"negative"`
	Neutral     int     `json:"neutral"`
	AvgPolarity float64 `json:"avg_polarity"`
}

// Fundamentals is a snapshot of company financial ratios. Every metric is
// individually optional: a nil pointer means the provider did not report
// that field, and must not block presentation of the others.
type Fundamentals struct {
	PERatio       *float64 `json:"pe_ratio,omitempty"`
	ForwardPE     *float64 `json:"forward_pe,omitempty"`
	EPS           *float64 `json:"eps,omitempty"`
	MarketCap     *float64 `json:"market_cap,omitempty"`
	Beta          *float64 `json:"beta,omitempty"`
	PBRatio       *float64 `json:"pb_ratio,omitempty"`
	DividendYield *float64 `json:"dividend_yield,omitempty"`
	Sector        string   `json:"sector,omitempty"`
	Industry      string   `json:"industry,omitempty"`
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

// Float returns a pointer to v, skipping NaN and infinite values.
// Used to build optional fields from computed results.
func Float(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
