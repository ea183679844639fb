// Package indicator computes price-derived series and KPI snapshots
// from historical OHLCV data.
package indicator

import (
	"math"

	"github.com/stockbrief/stockbrief/pkg/models"
)

// Window sizes for the trailing series.
const (
	MAShortWindow    = 20
	MALongWindow     = 50
	VolatilityWindow = 20
)

// Compute derives the daily return, moving average, and volatility
// series from closing prices. Positions where a window is not yet
// full hold NaN, never zero. Input order is preserved; the input is
// not modified.
func Compute(points []models.PricePoint) models.IndicatorSet {
	n := len(points)
	closes := make([]float64, n)
	for i, p := range points {
		closes[i] = p.Close
	}

	set := models.IndicatorSet{
		DailyReturn: dailyReturns(closes),
		MA20:        rollingMean(closes, MAShortWindow),
		MA50:        rollingMean(closes, MALongWindow),
	}
	set.Volatility = rollingStddev(set.DailyReturn, VolatilityWindow)
	return set
}

// dailyReturns computes day-over-day percentage changes. The first
// element is NaN since it has no predecessor.
func dailyReturns(closes []float64) []float64 {
	n := len(closes)
	out := nanSlice(n)
	for i := 1; i < n; i++ {
		if closes[i-1] != 0 {
			out[i] = (closes[i] - closes[i-1]) / closes[i-1]
		}
	}
	return out
}

// rollingMean computes a trailing simple moving average using a
// running sum. The first period-1 positions are NaN.
func rollingMean(data []float64, period int) []float64 {
	n := len(data)
	out := nanSlice(n)
	if n < period || period <= 0 {
		return out
	}

	sum := 0.0
	for i := 0; i < period; i++ {
		sum += data[i]
	}
	out[period-1] = sum / float64(period)

	for i := period; i < n; i++ {
		sum += data[i] - data[i-period]
		out[i] = sum / float64(period)
	}
	return out
}

// rollingStddev computes a trailing sample standard deviation over
// period values. NaN inputs inside the window propagate NaN, so the
// volatility series stays undefined until the return series has a
// full window of real values.
func rollingStddev(data []float64, period int) []float64 {
	n := len(data)
	out := nanSlice(n)
	if n < period || period <= 1 {
		return out
	}

	for i := period - 1; i < n; i++ {
		window := data[i-period+1 : i+1]
		mean := 0.0
		valid := true
		for _, v := range window {
			if math.IsNaN(v) {
				valid = false
				break
			}
			mean += v
		}
		if !valid {
			continue
		}
		mean /= float64(period)

		variance := 0.0
		for _, v := range window {
			d := v - mean
			variance += d * d
		}
		out[i] = math.Sqrt(variance / float64(period-1))
	}
	return out
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
