package watchlist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dkellerny/Fire-Watch-GUI/models"
)

var (
	// ErrBatchTooLarge rejects add requests with more tickers than allowed
	// in one go.
	ErrBatchTooLarge = errors.New("too many tickers in one request")

	// ErrWatchlistFull rejects additions that would exceed the watchlist cap.
	ErrWatchlistFull = errors.New("watchlist is full")

	// ErrNotWatched is returned when removing a symbol that is not listed.
	ErrNotWatched = errors.New("symbol is not on the watchlist")

	// ErrNoSymbols rejects an add request that parses to nothing.
	ErrNoSymbols = errors.New("no ticker symbols given")
)

// InvalidSymbolsError reports tickers the market-data source does not know.
type InvalidSymbolsError struct {
	Symbols []string
}

func (e *InvalidSymbolsError) Error() string {
	return fmt.Sprintf("invalid ticker(s): %s", strings.Join(e.Symbols, ", "))
}

// Store is the persistence surface for per-user watchlists.
type Store interface {
	AddSymbol(ctx context.Context, userID int64, symbol string) (bool, error)
	RemoveSymbol(ctx context.Context, userID int64, symbol string) (bool, error)
	ListSymbols(ctx context.Context, userID int64) ([]models.WatchlistEntry, error)
}

// DataSource validates tickers and supplies quote glimpses.
type DataSource interface {
	ValidateSymbol(ctx context.Context, symbol string) (bool, error)
	GetQuote(ctx context.Context, symbol string) (*models.Quote, error)
}

// Service enforces the watchlist rules: at most Limit symbols per user, at
// most BatchLimit tickers per add request, symbols normalized and unique.
type Service struct {
	store      Store
	data       DataSource
	limit      int
	batchLimit int
	logger     zerolog.Logger
}

// NewService creates a watchlist service.
func NewService(store Store, data DataSource, limit, batchLimit int) *Service {
	if limit == 0 {
		limit = 25
	}
	if batchLimit == 0 {
		batchLimit = 5
	}
	return &Service{
		store:      store,
		data:       data,
		limit:      limit,
		batchLimit: batchLimit,
		logger:     log.With().Str("component", "watchlist").Logger(),
	}
}

// ParseSymbols splits a raw comma-separated ticker entry, trims, uppercases
// and de-duplicates while keeping entry order.
func ParseSymbols(raw string) []string {
	seen := make(map[string]bool)
	var symbols []string
	for _, part := range strings.Split(raw, ",") {
		symbol := strings.ToUpper(strings.TrimSpace(part))
		if symbol == "" || seen[symbol] {
			continue
		}
		seen[symbol] = true
		symbols = append(symbols, symbol)
	}
	return symbols
}

// Add parses a comma-separated ticker entry and adds each valid new symbol to
// the user's watchlist. Returns the symbols actually added.
func (s *Service) Add(ctx context.Context, userID int64, raw string) ([]string, error) {
	symbols := ParseSymbols(raw)
	if len(symbols) == 0 {
		return nil, ErrNoSymbols
	}
	if len(symbols) > s.batchLimit {
		return nil, fmt.Errorf("%w: %d given, %d allowed", ErrBatchTooLarge, len(symbols), s.batchLimit)
	}

	entries, err := s.store.ListSymbols(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing watchlist: %w", err)
	}
	listed := make(map[string]bool, len(entries))
	for _, entry := range entries {
		listed[entry.Symbol] = true
	}

	// Malformed or unknown tickers are collected and reported together so the
	// user can fix the whole entry at once.
	var invalid []string
	var valid []string
	for _, symbol := range symbols {
		if _, ok := models.NormalizeSymbol(symbol); !ok {
			invalid = append(invalid, symbol)
			continue
		}
		ok, err := s.data.ValidateSymbol(ctx, symbol)
		if err != nil {
			return nil, fmt.Errorf("validating %s: %w", symbol, err)
		}
		if !ok {
			invalid = append(invalid, symbol)
			continue
		}
		valid = append(valid, symbol)
	}
	if len(invalid) > 0 {
		return nil, &InvalidSymbolsError{Symbols: invalid}
	}

	// Already-listed symbols are skipped, so they neither count toward the
	// cap nor trip it on re-add.
	var fresh []string
	for _, symbol := range valid {
		if !listed[symbol] {
			fresh = append(fresh, symbol)
		}
	}

	if len(listed)+len(fresh) > s.limit {
		return nil, fmt.Errorf("%w: %d symbols listed, limit is %d", ErrWatchlistFull, len(listed), s.limit)
	}

	var added []string
	for _, symbol := range fresh {
		inserted, err := s.store.AddSymbol(ctx, userID, symbol)
		if err != nil {
			return nil, fmt.Errorf("adding %s: %w", symbol, err)
		}
		if inserted {
			added = append(added, symbol)
		}
	}

	s.logger.Info().Int64("user_id", userID).Strs("symbols", added).Msg("Watchlist updated")
	return added, nil
}

// Remove takes a symbol off the user's watchlist.
func (s *Service) Remove(ctx context.Context, userID int64, symbol string) error {
	symbol, _ = models.NormalizeSymbol(symbol)
	removed, err := s.store.RemoveSymbol(ctx, userID, symbol)
	if err != nil {
		return fmt.Errorf("removing %s: %w", symbol, err)
	}
	if !removed {
		return ErrNotWatched
	}
	return nil
}

// List returns the user's watchlist in alphabetical order.
func (s *Service) List(ctx context.Context, userID int64) ([]models.WatchlistEntry, error) {
	return s.store.ListSymbols(ctx, userID)
}

// Overview returns a quote glimpse for every watched symbol. A failed quote
// degrades that entry instead of failing the whole overview.
func (s *Service) Overview(ctx context.Context, userID int64) ([]models.OverviewEntry, error) {
	entries, err := s.store.ListSymbols(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing watchlist: %w", err)
	}

	overview := make([]models.OverviewEntry, 0, len(entries))
	for _, entry := range entries {
		item := models.OverviewEntry{Symbol: entry.Symbol}
		quote, err := s.data.GetQuote(ctx, entry.Symbol)
		if err != nil {
			s.logger.Warn().Err(err).Str("symbol", entry.Symbol).Msg("Quote fetch failed")
			item.Err = err.Error()
		} else {
			item.Quote = quote
		}
		overview = append(overview, item)
	}
	return overview, nil
}
