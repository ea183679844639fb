package news

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/stockbrief/stockbrief/pkg/models"
)

const newsAPIBaseURL = "https://newsapi.org/v2"

// ErrNoAPIKey marks a keyed source that was never configured.
var ErrNoAPIKey = errors.New("news API key not configured")

// NewsAPISource queries the NewsAPI "everything" endpoint.
type NewsAPISource struct {
	client *resty.Client
	apiKey string
}

// NewNewsAPISource creates a keyed source with the given request
// timeout. An empty key is allowed; Search then fails fast with
// ErrNoAPIKey so the caller can move on to the fallback.
func NewNewsAPISource(apiKey string, timeout time.Duration) *NewsAPISource {
	client := resty.New()
	client.SetBaseURL(newsAPIBaseURL)
	client.SetTimeout(timeout)

	return &NewsAPISource{
		client: client,
		apiKey: apiKey,
	}
}

// newsAPIResponse models the NewsAPI everything response.
type newsAPIResponse struct {
	Status   string `json:"status"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

// Name implements Source.
func (s *NewsAPISource) Name() string { return "NewsAPI" }

// Search implements Source.
func (s *NewsAPISource) Search(ctx context.Context, query string, max int) ([]models.NewsItem, error) {
	if s.apiKey == "" {
		return nil, ErrNoAPIKey
	}

	var result newsAPIResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("X-Api-Key", s.apiKey).
		SetQueryParams(map[string]string{
			"q":        query,
			"pageSize": fmt.Sprintf("%d", max),
			"sortBy":   "relevancy",
			"language": "en",
		}).
		SetResult(&result).
		Get("/everything")
	if err != nil {
		return nil, fmt.Errorf("newsapi request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("newsapi returned status %d", resp.StatusCode())
	}
	if result.Status != "ok" {
		return nil, fmt.Errorf("newsapi error %s: %s", result.Code, result.Message)
	}

	items := make([]models.NewsItem, 0, len(result.Articles))
	for _, a := range result.Articles {
		if a.Title == "" {
			continue
		}
		item := models.NewsItem{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			Source:      a.Source.Name,
		}
		if t, err := time.Parse(time.RFC3339, a.PublishedAt); err == nil {
			item.PublishedAt = t
		}
		items = append(items, item)
		if len(items) >= max {
			break
		}
	}
	return items, nil
}
