package indicator

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/stockbrief/stockbrief/pkg/models"
)

// RenderChart draws a PNG line chart of closing prices with the 20
// and 50 day moving averages and writes it to <dir>/<SYMBOL>_chart.png,
// overwriting any previous file. It returns the written path.
func RenderChart(points []models.PricePoint, set models.IndicatorSet, symbol, dir string) (string, error) {
	if len(points) == 0 {
		return "", fmt.Errorf("no price data to chart for %s", symbol)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create chart dir: %w", err)
	}

	dates := make([]time.Time, len(points))
	closes := make([]float64, len(points))
	for i, p := range points {
		dates[i] = p.Date
		closes[i] = p.Close
	}

	series := []chart.Series{
		chart.TimeSeries{
			Name:    "Close",
			XValues: dates,
			YValues: closes,
			Style: chart.Style{
				StrokeColor: drawing.ColorBlue,
				StrokeWidth: 1.5,
			},
		},
	}

	if s := maSeries("MA20", dates, set.MA20, drawing.ColorFromHex("ff8c00")); s != nil {
		series = append(series, s)
	}
	if s := maSeries("MA50", dates, set.MA50, drawing.ColorFromHex("2e8b57")); s != nil {
		series = append(series, s)
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("%s Closing Price", symbol),
		Width:  900,
		Height: 450,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeDateValueFormatter,
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v any) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.2f", f)
				}
				return ""
			},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	path := filepath.Join(dir, fmt.Sprintf("%s_chart.png", symbol))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create chart file: %w", err)
	}
	defer f.Close()

	if err := graph.Render(chart.PNG, f); err != nil {
		return "", fmt.Errorf("render chart: %w", err)
	}
	return path, nil
}

// maSeries builds a time series from the defined tail of a moving
// average. The leading NaN run is trimmed because the renderer cannot
// plot undefined values. Returns nil when the series never becomes
// defined.
func maSeries(name string, dates []time.Time, values []float64, color drawing.Color) chart.Series {
	start := -1
	for i, v := range values {
		if !math.IsNaN(v) {
			start = i
			break
		}
	}
	if start < 0 || len(values) != len(dates) {
		return nil
	}

	return chart.TimeSeries{
		Name:    name,
		XValues: dates[start:],
		YValues: values[start:],
		Style: chart.Style{
			StrokeColor: color,
			StrokeWidth: 1.2,
		},
	}
}
