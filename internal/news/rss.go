package news

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/stockbrief/stockbrief/pkg/models"
)

const googleNewsRSS = "https://news.google.com/rss/search?q=%s&hl=en-US&gl=US&ceid=US:en"

// RSSSource reads headlines from the Google News search feed. No key
// is needed, which makes it the fallback when the keyed provider is
// unavailable.
type RSSSource struct {
	parser  *gofeed.Parser
	feedURL string // format string with one %s for the query
}

// NewRSSSource creates the Google News fallback source.
func NewRSSSource() *RSSSource {
	return &RSSSource{
		parser:  gofeed.NewParser(),
		feedURL: googleNewsRSS,
	}
}

// NewRSSSourceWithURL creates a source reading an alternate feed.
// Used in tests.
func NewRSSSourceWithURL(feedURL string) *RSSSource {
	return &RSSSource{
		parser:  gofeed.NewParser(),
		feedURL: feedURL,
	}
}

// Name implements Source.
func (s *RSSSource) Name() string { return "Google News" }

// Search implements Source.
func (s *RSSSource) Search(ctx context.Context, query string, max int) ([]models.NewsItem, error) {
	feedURL := fmt.Sprintf(s.feedURL, url.QueryEscape(query+" stock"))

	feed, err := s.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	items := make([]models.NewsItem, 0, max)
	for _, entry := range feed.Items {
		if entry.Title == "" {
			continue
		}
		item := models.NewsItem{
			Title:       entry.Title,
			Description: cleanHTML(entry.Description),
			URL:         entry.Link,
			Source:      s.Name(),
		}
		if entry.PublishedParsed != nil {
			item.PublishedAt = *entry.PublishedParsed
		}
		items = append(items, item)
		if len(items) >= max {
			break
		}
	}
	return items, nil
}

// cleanHTML strips HTML tags from a string using goquery.
func cleanHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}
