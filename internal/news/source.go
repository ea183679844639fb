// Package news retrieves recent headlines for a stock symbol.
// A keyed provider is tried first; a public RSS feed serves as the
// fallback when the keyed provider is unconfigured or fails.
package news

import (
	"context"
	"fmt"
	"strings"

	"github.com/stockbrief/stockbrief/pkg/models"
)

// Source is a single news provider.
type Source interface {
	// Name identifies the provider in logs and errors.
	Name() string
	// Search returns up to max items matching the query, newest first
	// where the provider supports ordering.
	Search(ctx context.Context, query string, max int) ([]models.NewsItem, error)
}

// SourcesExhaustedError reports that every configured source failed.
// It carries each source's name and cause.
type SourcesExhaustedError struct {
	Attempts []SourceAttempt
}

// SourceAttempt records one failed source.
type SourceAttempt struct {
	Source string
	Err    error
}

func (e *SourcesExhaustedError) Error() string {
	var b strings.Builder
	b.WriteString("all news sources failed:")
	for _, a := range e.Attempts {
		fmt.Fprintf(&b, " %s: %v;", a.Source, a.Err)
	}
	return strings.TrimSuffix(b.String(), ";")
}
