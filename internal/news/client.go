package news

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpclient "github.com/dkellerny/Fire-Watch-GUI/internal/platform/http"
	"github.com/dkellerny/Fire-Watch-GUI/models"
)

// ErrAPIKeyRequired is returned when news is requested without a configured
// NewsAPI key. News lookups are an opt-in feature gated behind the key.
var ErrAPIKeyRequired = errors.New("news API key not configured")

// DefaultQuery is used when a news request names no topic.
const DefaultQuery = "stock market"

// Client fetches headlines from newsapi.org
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *httpclient.Client
	logger     zerolog.Logger
}

// ClientOptions holds options for creating a news client
type ClientOptions struct {
	APIKey          string
	BaseURL         string
	RequestTimeout  time.Duration
	RequestsPerSec  int
	MaxRetryTimeout time.Duration
}

// newsResponse is the shape of the NewsAPI "everything" endpoint payload.
type newsResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message,omitempty"`
	Articles []struct {
		Title  string `json:"title"`
		URL    string `json:"url"`
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

// NewClient creates a news API client. An empty API key produces a client
// whose lookups fail with ErrAPIKeyRequired.
func NewClient(options ClientOptions) *Client {
	httpOpts := httpclient.ClientOptions{
		Timeout:         options.RequestTimeout,
		RequestsPerSec:  options.RequestsPerSec,
		MaxRetryTimeout: options.MaxRetryTimeout,
	}
	if httpOpts.Timeout == 0 {
		httpOpts.Timeout = 30 * time.Second
	}

	baseURL := options.BaseURL
	if baseURL == "" {
		baseURL = "https://newsapi.org"
	}

	return &Client{
		apiKey:     options.APIKey,
		baseURL:    baseURL,
		httpClient: httpclient.NewClient(httpOpts),
		logger:     log.With().Str("component", "news_client").Logger(),
	}
}

// Enabled reports whether a key is configured.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// GetNews fetches headlines matching a query.
func (c *Client) GetNews(ctx context.Context, query string, limit int) ([]models.NewsArticle, error) {
	if !c.Enabled() {
		return nil, ErrAPIKeyRequired
	}
	if query == "" {
		query = DefaultQuery
	}

	u := fmt.Sprintf("%s/v2/everything?q=%s&apiKey=%s", c.baseURL, url.QueryEscape(query), c.apiKey)

	c.logger.Debug().Str("query", query).Msg("Fetching news")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.DoRequest(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	var data newsResponse
	if err := json.Unmarshal(body, &data); err != nil {
		c.logger.Error().Err(err).Msg("Error parsing news JSON")
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	if data.Status != "ok" {
		c.logger.Error().Str("message", data.Message).Msg("News API error")
		return nil, fmt.Errorf("news API error: %s", data.Message)
	}

	articles := make([]models.NewsArticle, 0, len(data.Articles))
	for _, a := range data.Articles {
		if a.Title == "" || a.URL == "" {
			continue
		}
		articles = append(articles, models.NewsArticle{
			Title:       a.Title,
			URL:         a.URL,
			Source:      a.Source.Name,
			PublishedAt: a.PublishedAt,
		})
		if limit > 0 && len(articles) >= limit {
			break
		}
	}

	c.logger.Debug().Int("count", len(articles)).Msg("Fetched news")
	return articles, nil
}
