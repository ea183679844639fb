// StockBrief: single-shot equity research report generator.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/stockbrief/stockbrief/internal/config"
	"github.com/stockbrief/stockbrief/internal/indicator"
	"github.com/stockbrief/stockbrief/internal/llm"
	"github.com/stockbrief/stockbrief/internal/logging"
	"github.com/stockbrief/stockbrief/internal/marketdata"
	"github.com/stockbrief/stockbrief/internal/news"
	"github.com/stockbrief/stockbrief/internal/pdfgen"
	"github.com/stockbrief/stockbrief/internal/pipeline"
	"github.com/stockbrief/stockbrief/internal/report"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config and logger, loaded in PersistentPreRunE.
var (
	cfg    *config.Config
	logger *slog.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "stockbrief",
	Short: "StockBrief - one-command equity research reports",
	Long: `StockBrief turns a ticker and a date range into a PDF research report:
price history and rolling indicators, a rendered chart, recent news with
sentiment, and an LLM-written narrative, all in one sequential run.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		level := cfg.Logging.Level
		if override, _ := cmd.Flags().GetString("log-level"); override != "" {
			level = override
		}
		logger = logging.Setup(level, cfg.Logging.Format)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(newsCmd)
	rootCmd.AddCommand(indicatorsCmd)
	rootCmd.AddCommand(statusCmd)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("StockBrief %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Report Command ---

var reportCmd = &cobra.Command{
	Use:   "report [symbol]",
	Short: "Generate a full PDF research report",
	Long: `Run the whole pipeline for a symbol: fetch news and price history,
compute indicators, render the chart, compose the narrative, and write
the PDF. Prints the artifact paths on success.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		symbol := normalizeSymbol(args[0])

		start, end, err := dateRange(cmd)
		if err != nil {
			return err
		}

		maxNews, _ := cmd.Flags().GetInt("max-news")
		if maxNews <= 0 {
			maxNews = cfg.News.MaxItems
		}
		outDir, _ := cmd.Flags().GetString("out")
		if outDir == "" {
			outDir = cfg.Output.ReportsDir
		}

		provider, err := llm.NewOpenAIProvider(cfg.LLM.APIKey,
			llm.WithModel(cfg.LLM.Model), llm.WithBaseURL(cfg.LLM.BaseURL))
		if err != nil {
			return fmt.Errorf("text generation unavailable: %w", err)
		}

		coord := pipeline.New(pipeline.Config{
			Prices:   marketdata.NewClient(),
			News:     newsGatherer(),
			Composer: report.NewComposer(provider, cfg.LLM.Model, cfg.LLM.MaxTokens),
			Renderer: pdfgen.NewRenderer(outDir),
			ChartDir: cfg.Output.DataDir,
			MaxNews:  maxNews,
			Logger:   logger,
		})

		res := coord.Run(cmd.Context(), symbol, start, end)
		if res.Err != nil {
			return res.Err
		}

		fmt.Printf("Report generated for %s (%s to %s)\n",
			symbol, start.Format("2006-01-02"), end.Format("2006-01-02"))
		fmt.Printf("  chart:  %s\n", res.ChartPath)
		fmt.Printf("  pdf:    %s\n", res.PDFPath)
		fmt.Printf("  news:   %d articles (%d positive, %d negative, %d neutral, avg polarity %.4f)\n",
			res.Sentiment.Count, res.Sentiment.Positive, res.Sentiment.Negative,
			res.Sentiment.Neutral, res.Sentiment.AvgPolarity)
		return nil
	},
}

func init() {
	reportCmd.Flags().String("start", "", "range start date (YYYY-MM-DD, default: one year ago)")
	reportCmd.Flags().String("end", "", "range end date (YYYY-MM-DD, default: today)")
	reportCmd.Flags().Int("max-news", 0, "max news items (default from config)")
	reportCmd.Flags().String("out", "", "reports output directory (default from config)")
}

// --- News Command ---

var newsCmd = &cobra.Command{
	Use:   "news [symbol]",
	Short: "Fetch and score recent news for a symbol",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		symbol := normalizeSymbol(args[0])

		items, err := newsGatherer().Gather(cmd.Context(), symbol, cfg.News.MaxItems)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Printf("No recent news found for %s\n", symbol)
			return nil
		}

		for i, item := range items {
			fmt.Printf("%d. [%s] %s\n", i+1, item.Sentiment.Label, item.Title)
			fmt.Printf("   %s (polarity %.4f)\n", item.URL, item.Sentiment.Polarity)
		}
		return nil
	},
}

// --- Indicators Command ---

var indicatorsCmd = &cobra.Command{
	Use:   "indicators [symbol]",
	Short: "Fetch prices, compute indicators, and render the chart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		symbol := normalizeSymbol(args[0])

		start, end, err := dateRange(cmd)
		if err != nil {
			return err
		}

		client := marketdata.NewClient()
		points, err := client.History(cmd.Context(), symbol, start, end)
		if err != nil {
			return err
		}

		set := indicator.Compute(points)
		kpis := indicator.ExtractKPIs(points, set)

		chartPath, err := indicator.RenderChart(points, set, symbol, cfg.Output.DataDir)
		if err != nil {
			return err
		}

		fmt.Printf("%s - %d trading rows (%s to %s)\n",
			symbol, len(points), start.Format("2006-01-02"), end.Format("2006-01-02"))
		fmt.Printf("  current price:    %s\n", formatKPI(kpis.CurrentPrice, "%.2f"))
		fmt.Printf("  day high/low:     %s / %s\n",
			formatKPI(kpis.DayHigh, "%.2f"), formatKPI(kpis.DayLow, "%.2f"))
		fmt.Printf("  MA20:             %s\n", formatKPI(kpis.MA20, "%.2f"))
		fmt.Printf("  MA50:             %s\n", formatKPI(kpis.MA50, "%.2f"))
		fmt.Printf("  volatility (20d): %s\n", formatKPI(kpis.Volatility, "%.4f"))
		fmt.Printf("  chart:            %s\n", chartPath)
		return nil
	},
}

func init() {
	indicatorsCmd.Flags().String("start", "", "range start date (YYYY-MM-DD, default: one year ago)")
	indicatorsCmd.Flags().String("end", "", "range end date (YYYY-MM-DD, default: today)")
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and API key status",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  StockBrief - Status")
		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  Version:     %s (%s)\n", version, commit)
		fmt.Println()

		fmt.Println("  Configuration:")
		fmt.Printf("    LLM model:    %s (temperature %.1f)\n", cfg.LLM.Model, cfg.LLM.Temperature)
		fmt.Printf("    Max news:     %d (timeout %ds)\n", cfg.News.MaxItems, cfg.News.TimeoutSec)
		fmt.Printf("    Charts dir:   %s\n", cfg.Output.DataDir)
		fmt.Printf("    Reports dir:  %s\n", cfg.Output.ReportsDir)
		fmt.Println()

		fmt.Println("  API Keys:")
		for _, k := range cfg.CheckAPIKeys() {
			status := "not set"
			if k.Configured {
				status = fmt.Sprintf("set (%s)", k.Masked)
			}
			fmt.Printf("    %-10s %s - %s\n", k.Name+":", status, k.Note)
		}
		fmt.Println("═══════════════════════════════════════")
		return nil
	},
}

// --- Helpers ---

// newsGatherer wires the keyed source ahead of the public fallback.
func newsGatherer() *news.Gatherer {
	timeout := time.Duration(cfg.News.TimeoutSec) * time.Second
	return news.NewGatherer(logger,
		news.NewNewsAPISource(cfg.News.APIKey, timeout),
		news.NewRSSSource(),
	)
}

// dateRange reads the --start/--end flags, defaulting to the last year.
func dateRange(cmd *cobra.Command) (time.Time, time.Time, error) {
	end := time.Now()
	start := end.AddDate(-1, 0, 0)

	if s, _ := cmd.Flags().GetString("end"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --end date %q: %w", s, err)
		}
		end = t
	}
	if s, _ := cmd.Flags().GetString("start"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --start date %q: %w", s, err)
		}
		start = t
	}
	if !start.Before(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("start date %s is not before end date %s",
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
	return start, end, nil
}

func normalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func formatKPI(v *float64, format string) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf(format, *v)
}
