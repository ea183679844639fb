package news

import (
	"context"
	"log/slog"

	"github.com/stockbrief/stockbrief/internal/sentiment"
	"github.com/stockbrief/stockbrief/pkg/models"
)

// Gatherer tries each configured source in order and returns the
// first non-empty result, with sentiment attached to every item.
type Gatherer struct {
	sources []Source
	logger  *slog.Logger
}

// NewGatherer builds a gatherer over the given sources. Order
// matters: earlier sources are preferred.
func NewGatherer(logger *slog.Logger, sources ...Source) *Gatherer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gatherer{sources: sources, logger: logger}
}

// Gather fetches up to max headlines for query. A source that errors
// or returns nothing yields to the next one; only when every source
// has failed does Gather return a SourcesExhaustedError listing each
// source and its cause. Every returned item carries a sentiment.
func (g *Gatherer) Gather(ctx context.Context, query string, max int) ([]models.NewsItem, error) {
	var attempts []SourceAttempt
	answered := false

	for _, src := range g.sources {
		items, err := src.Search(ctx, query, max)
		if err != nil {
			g.logger.Warn("news source failed",
				"source", src.Name(), "query", query, "error", err)
			attempts = append(attempts, SourceAttempt{Source: src.Name(), Err: err})
			continue
		}
		answered = true
		if len(items) == 0 {
			g.logger.Debug("news source returned no items",
				"source", src.Name(), "query", query)
			continue
		}

		for i := range items {
			items[i].Sentiment = sentiment.Score(items[i].Title + " " + items[i].Description)
		}
		g.logger.Info("news gathered",
			"source", src.Name(), "query", query, "items", len(items))
		return items, nil
	}

	if !answered && len(attempts) > 0 {
		return nil, &SourcesExhaustedError{Attempts: attempts}
	}
	// At least one source answered but none had coverage: an empty
	// result is not an error.
	return nil, nil
}
