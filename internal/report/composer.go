// Package report turns the collected facts about a symbol into a
// narrative analysis through the text-generation provider.
package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/stockbrief/stockbrief/internal/llm"
	"github.com/stockbrief/stockbrief/pkg/models"
)

const systemPrompt = "You are a senior financial analyst."

// reportTemperature keeps the narrative close to the supplied facts.
const reportTemperature = 0.2

// Input carries everything the composer may reference. The prompt is
// built only from these fields; the model is instructed not to add
// anything beyond them.
type Input struct {
	Symbol       string
	Start        time.Time
	End          time.Time
	KPIs         models.KPISnapshot
	Fundamentals *models.Fundamentals
	News         []models.NewsItem
	Sentiment    models.SentimentSummary
	ChartPath    string
}

// Composer builds the analysis prompt and returns the provider's
// output verbatim.
type Composer struct {
	provider llm.Provider
	model    string
	maxTok   int
}

// NewComposer creates a composer over the given provider.
func NewComposer(provider llm.Provider, model string, maxTokens int) *Composer {
	return &Composer{provider: provider, model: model, maxTok: maxTokens}
}

// Compose generates the report text. Provider failures propagate
// unchanged; no placeholder text is ever substituted.
func (c *Composer) Compose(ctx context.Context, in Input) (string, error) {
	prompt := BuildPrompt(in)

	out, err := c.provider.Complete(ctx, systemPrompt, prompt, llm.Options{
		Model:       c.model,
		Temperature: reportTemperature,
		MaxTokens:   c.maxTok,
	})
	if err != nil {
		return "", fmt.Errorf("compose report for %s: %w", in.Symbol, err)
	}
	return out, nil
}

// BuildPrompt assembles the user prompt: a fixed numbered outline,
// labeled data subsections, and a facts-only rule block. The
// fundamentals section appears only when fundamentals are present.
func BuildPrompt(in Input) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Write a highly structured, professional financial analysis report for **%s**.\n", in.Symbol)
	fmt.Fprintf(&b, "Date Range: %s → %s\n\n", in.Start.Format("2006-01-02"), in.End.Format("2006-01-02"))

	b.WriteString("Use this exact outline:\n\n")
	sections := []string{
		"Executive Summary",
		"Price Performance Overview",
		"Key Indicators (KPIs)",
	}
	if in.Fundamentals != nil {
		sections = append(sections, "Company Fundamentals")
	}
	sections = append(sections,
		"Market Sentiment Analysis",
		"Recent News Highlights",
		"Risks and Opportunities",
		"Final Recommendation",
	)
	for i, s := range sections {
		fmt.Fprintf(&b, "%d. %s\n", i+1, s)
	}

	b.WriteString("\n### KPIs:\n")
	writeKPIs(&b, in.KPIs)

	if in.Fundamentals != nil {
		b.WriteString("\n### Company Fundamentals:\n")
		writeFundamentals(&b, in.Fundamentals)
	}

	b.WriteString("\n### Market Sentiment Summary:\n")
	fmt.Fprintf(&b, "articles: %d, positive: %d, negative: %d, neutral: %d, avg polarity: %.4f\n",
		in.Sentiment.Count, in.Sentiment.Positive, in.Sentiment.Negative,
		in.Sentiment.Neutral, in.Sentiment.AvgPolarity)

	b.WriteString("\n### Recent News:\n")
	if len(in.News) == 0 {
		b.WriteString("no recent news found\n")
	}
	for i, item := range in.News {
		label := item.Sentiment.Label
		if label == "" {
			label = models.SentimentNeutral
		}
		fmt.Fprintf(&b, "%d. %s — sentiment: %s\n   %s\n", i+1, item.Title, label, item.URL)
	}

	if in.ChartPath != "" {
		b.WriteString("\n### Chart File Path:\n")
		b.WriteString(in.ChartPath + "\n")
	}

	b.WriteString(`
RULES:
- Use ONLY the provided information. Do NOT invent numbers.
- Tone should match professional equity research reports.
- Keep the content concise, factual, and structured.
- Never hallucinate events or data not included above.
`)

	return b.String()
}

func writeKPIs(b *strings.Builder, kpi models.KPISnapshot) {
	fmt.Fprintf(b, "current price: %s\n", formatMetric(kpi.CurrentPrice, "%.2f"))
	fmt.Fprintf(b, "day high: %s\n", formatMetric(kpi.DayHigh, "%.2f"))
	fmt.Fprintf(b, "day low: %s\n", formatMetric(kpi.DayLow, "%.2f"))
	fmt.Fprintf(b, "MA20: %s\n", formatMetric(kpi.MA20, "%.2f"))
	fmt.Fprintf(b, "MA50: %s\n", formatMetric(kpi.MA50, "%.2f"))
	fmt.Fprintf(b, "volatility (20d): %s\n", formatMetric(kpi.Volatility, "%.4f"))
}

func writeFundamentals(b *strings.Builder, f *models.Fundamentals) {
	if f.Sector != "" {
		fmt.Fprintf(b, "sector: %s\n", f.Sector)
	}
	if f.Industry != "" {
		fmt.Fprintf(b, "industry: %s\n", f.Industry)
	}
	fmt.Fprintf(b, "P/E ratio: %s\n", formatMetric(f.PERatio, "%.2f"))
	fmt.Fprintf(b, "forward P/E: %s\n", formatMetric(f.ForwardPE, "%.2f"))
	fmt.Fprintf(b, "EPS: %s\n", formatMetric(f.EPS, "%.2f"))
	fmt.Fprintf(b, "market cap: %s\n", formatMetric(f.MarketCap, "%.0f"))
	fmt.Fprintf(b, "beta: %s\n", formatMetric(f.Beta, "%.2f"))
	fmt.Fprintf(b, "P/B ratio: %s\n", formatMetric(f.PBRatio, "%.2f"))
	fmt.Fprintf(b, "dividend yield: %s\n", formatMetric(f.DividendYield, "%.4f"))
}

// formatMetric renders an optional metric, writing "n/a" for absent
// values instead of a fabricated zero.
func formatMetric(v *float64, format string) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf(format, *v)
}
