package twelvedata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpclient "github.com/dkellerny/Fire-Watch-GUI/internal/platform/http"
	"github.com/dkellerny/Fire-Watch-GUI/models"
)

// ErrSymbolNotFound is returned when the API has no data for a ticker.
var ErrSymbolNotFound = errors.New("symbol not found")

// Client is the TwelveData API client
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *httpclient.Client
	logger     zerolog.Logger
}

// ClientOptions holds options for creating a new TwelveData client
type ClientOptions struct {
	APIKey          string
	BaseURL         string
	RequestTimeout  time.Duration
	RequestsPerSec  int
	MaxRetryTimeout time.Duration
}

// NewClient creates a new TwelveData API client
func NewClient(options ClientOptions) *Client {
	httpOpts := httpclient.ClientOptions{
		Timeout:         options.RequestTimeout,
		RequestsPerSec:  options.RequestsPerSec,
		MaxRetryTimeout: options.MaxRetryTimeout,
	}

	// Apply defaults if not set
	if httpOpts.Timeout == 0 {
		httpOpts.Timeout = 30 * time.Second
	}
	if httpOpts.RequestsPerSec == 0 {
		httpOpts.RequestsPerSec = 5
	}

	baseURL := options.BaseURL
	if baseURL == "" {
		baseURL = "https://api.twelvedata.com"
	}

	return &Client{
		apiKey:     options.APIKey,
		baseURL:    baseURL,
		httpClient: httpclient.NewClient(httpOpts),
		logger:     log.With().Str("component", "twelvedata_client").Logger(),
	}
}

// GetCandles fetches candle data from Twelve Data API
func (c *Client) GetCandles(ctx context.Context, symbol string, interval string, count int) ([]models.Candle, error) {
	u := fmt.Sprintf(
		"%s/time_series?symbol=%s&interval=%s&outputsize=%d&apikey=%s",
		c.baseURL,
		url.QueryEscape(symbol),
		interval,
		count,
		c.apiKey,
	)

	c.logger.Debug().Str("symbol", symbol).Str("interval", interval).Int("count", count).Msg("Fetching candles")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.DoRequest(ctx, req)
	if err != nil {
		var statusErr *httpclient.HTTPStatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return nil, ErrSymbolNotFound
		}
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if strings.Contains(string(body), `"status":"error"`) {
		if strings.Contains(string(body), "not found") || strings.Contains(string(body), "invalid") {
			c.logger.Warn().Str("symbol", symbol).Msg("Unknown symbol")
			return nil, ErrSymbolNotFound
		}
		c.logger.Error().Str("response", string(body)).Msg("Twelve Data API error")
		return nil, fmt.Errorf("Twelve Data API error: %s", string(body))
	}

	var data models.TwelveResponse
	if err := json.Unmarshal(body, &data); err != nil {
		c.logger.Error().Err(err).Str("response", string(body)).Msg("Error parsing JSON")
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	if len(data.Values) == 0 {
		c.logger.Warn().Str("symbol", symbol).Msg("No candles in response")
		return nil, ErrSymbolNotFound
	}

	// Sort candles by datetime (oldest first for proper calculations)
	sort.Slice(data.Values, func(i, j int) bool {
		return data.Values[i].Datetime < data.Values[j].Datetime
	})

	var candles []models.Candle
	for _, v := range data.Values {
		candles = append(candles, models.Candle{
			Datetime: v.Datetime,
			Open:     v.Open,
			High:     v.High,
			Low:      v.Low,
			Close:    v.Close,
			Volume:   v.Volume,
		})
	}

	c.logger.Debug().Int("count", len(candles)).Msg("Fetched candles")
	return candles, nil
}

// GetHistory fetches candles for one of the supported display timeframes.
func (c *Client) GetHistory(ctx context.Context, symbol string, tf models.Timeframe) ([]models.Candle, error) {
	return c.GetCandles(ctx, symbol, tf.Interval, tf.OutputSize)
}

// GetQuote builds an at-a-glance quote from the current day's minute candles:
// last close against the day's opening price.
func (c *Client) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	candles, err := c.GetCandles(ctx, symbol, "1min", 390)
	if err != nil {
		return nil, err
	}

	first := candles[0]
	last := candles[len(candles)-1]

	change := last.Close - first.Open
	changePct := 0.0
	if first.Open != 0 {
		changePct = change / first.Open * 100
	}

	return &models.Quote{
		Symbol:    symbol,
		Price:     last.Close,
		Change:    change,
		ChangePct: changePct,
		Volume:    last.Volume,
		AsOf:      last.Datetime,
	}, nil
}

// ValidateSymbol reports whether a ticker resolves to any data. A symbol with
// no candles for the current day is treated as invalid, matching the
// watchlist's add-time check.
func (c *Client) ValidateSymbol(ctx context.Context, symbol string) (bool, error) {
	_, err := c.GetCandles(ctx, symbol, "1day", 1)
	if err != nil {
		if errors.Is(err, ErrSymbolNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
