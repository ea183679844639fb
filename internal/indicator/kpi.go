package indicator

import (
	"math"

	"github.com/stockbrief/stockbrief/pkg/models"
)

// ExtractKPIs builds a headline snapshot from the latest trading row
// and the tail of each derived series. Metrics whose series are still
// NaN at the tail stay nil, marking them unavailable rather than
// zero. Prices round to two decimals, volatility to four. An empty
// input yields a snapshot with every field nil.
func ExtractKPIs(points []models.PricePoint, set models.IndicatorSet) models.KPISnapshot {
	var kpi models.KPISnapshot
	if len(points) == 0 {
		return kpi
	}

	last := points[len(points)-1]
	kpi.CurrentPrice = roundedPtr(last.Close, 2)
	kpi.DayHigh = roundedPtr(last.High, 2)
	kpi.DayLow = roundedPtr(last.Low, 2)

	kpi.MA20 = roundedPtr(tail(set.MA20), 2)
	kpi.MA50 = roundedPtr(tail(set.MA50), 2)
	kpi.Volatility = roundedPtr(tail(set.Volatility), 4)
	return kpi
}

// tail returns the last element of a series, or NaN when empty.
func tail(series []float64) float64 {
	if len(series) == 0 {
		return math.NaN()
	}
	return series[len(series)-1]
}

// roundedPtr rounds v to places decimals and returns its address, or
// nil when v is NaN or infinite.
func roundedPtr(v float64, places int) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return models.Float(models.Round(v, places))
}
