package models

import (
	"regexp"
	"strings"
	"time"
)

var symbolPattern = regexp.MustCompile(`^[A-Z0-9.\-]{1,10}$`)

// NormalizeSymbol trims and uppercases a raw ticker entry and reports whether
// the result is a plausible symbol: 1 to 10 characters of [A-Z0-9.-].
func NormalizeSymbol(raw string) (string, bool) {
	symbol := strings.ToUpper(strings.TrimSpace(raw))
	return symbol, symbolPattern.MatchString(symbol)
}

// Candle represents a single price candle
type Candle struct {
	Datetime string  `json:"datetime"`
	Open     float64 `json:"open"`
	High     float64 `json:"high"`
	Low      float64 `json:"low"`
	Close    float64 `json:"close"`
	Volume   int64   `json:"volume,omitempty"`
}

// TwelveResponse represents the API response from Twelve Data
type TwelveResponse struct {
	Meta struct {
		Symbol   string `json:"symbol"`
		Interval string `json:"interval"`
	} `json:"meta"`
	Values []struct {
		Datetime string  `json:"datetime"`
		Open     float64 `json:"open,string"`
		High     float64 `json:"high,string"`
		Low      float64 `json:"low,string"`
		Close    float64 `json:"close,string"`
		Volume   int64   `json:"volume,string,omitempty"`
	} `json:"values"`
	Status string `json:"status"`
}

// Quote is the at-a-glance view of a symbol: last price against the day open.
type Quote struct {
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	Change    float64 `json:"change"`
	ChangePct float64 `json:"change_pct"`
	Volume    int64   `json:"volume"`
	AsOf      string  `json:"as_of"`
}

// IndicatorSnapshot holds the latest value of each technical indicator
type IndicatorSnapshot struct {
	Symbol    string  `json:"symbol"`
	Timeframe string  `json:"timeframe"`
	Close     float64 `json:"close"`
	RSI       float64 `json:"rsi"`
	SMAFast   float64 `json:"sma_50"`
	SMASlow   float64 `json:"sma_200"`
	EMA       float64 `json:"ema_12"`
	BBUpper   float64 `json:"bb_upper"`
	BBMiddle  float64 `json:"bb_middle"`
	BBLower   float64 `json:"bb_lower"`
	ADX       float64 `json:"adx"`
	PlusDI    float64 `json:"plus_di"`
	MinusDI   float64 `json:"minus_di"`
	ATR       float64 `json:"atr"`
}

// IndicatorSeries is a per-candle overlay line for charting. Values align 1:1
// with the candle slice they were computed from; positions where the window is
// not yet full are NaN.
type IndicatorSeries struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// User represents a registered account
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Session is an authenticated login session
type Session struct {
	Token     string    `json:"token"`
	UserID    int64     `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// WatchlistEntry is a single symbol on a user's watchlist
type WatchlistEntry struct {
	Symbol  string    `json:"symbol"`
	AddedAt time.Time `json:"added_at"`
}

// OverviewEntry pairs a watchlist symbol with its quote glimpse. Err carries a
// per-symbol fetch failure so one bad symbol does not sink the whole overview.
type OverviewEntry struct {
	Symbol string `json:"symbol"`
	Quote  *Quote `json:"quote,omitempty"`
	Err    string `json:"error,omitempty"`
}

// NewsArticle is a single headline returned by the news API
type NewsArticle struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Source      string `json:"source,omitempty"`
	PublishedAt string `json:"published_at,omitempty"`
}

// Timeframe describes how a display period maps onto the data API:
// candle interval plus how many candles to request.
type Timeframe struct {
	Name       string
	Interval   string
	OutputSize int
}

// Timeframes are the supported display periods, matching the detail view's
// period selector: intraday uses minute candles, longer ranges coarsen.
var Timeframes = map[string]Timeframe{
	"1d":  {Name: "1d", Interval: "1min", OutputSize: 390},
	"1mo": {Name: "1mo", Interval: "30min", OutputSize: 320},
	"3mo": {Name: "3mo", Interval: "1h", OutputSize: 460},
	"6mo": {Name: "6mo", Interval: "1day", OutputSize: 130},
	"ytd": {Name: "ytd", Interval: "1day", OutputSize: 260},
	"ttm": {Name: "ttm", Interval: "1day", OutputSize: 260},
	"5y":  {Name: "5y", Interval: "1week", OutputSize: 260},
	"max": {Name: "max", Interval: "1month", OutputSize: 600},
}

// LookupTimeframe resolves a timeframe name, defaulting to ttm when empty.
func LookupTimeframe(name string) (Timeframe, bool) {
	if name == "" {
		name = "ttm"
	}
	tf, ok := Timeframes[name]
	return tf, ok
}
