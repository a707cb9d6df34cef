package news

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dkellerny/Fire-Watch-GUI/models"
)

// Fetcher is the interface the service needs from the news client.
type Fetcher interface {
	Enabled() bool
	GetNews(ctx context.Context, query string, limit int) ([]models.NewsArticle, error)
}

// Service serves headlines with a TTL cache in front of the news API, so the
// home-view headline rotation does not burn the API quota.
type Service struct {
	fetcher Fetcher
	cache   *headlineCache
	limit   int
	logger  zerolog.Logger
}

// headlineCache stores fetched headlines per query for a limited time
type headlineCache struct {
	mu   sync.RWMutex
	data map[string]*cacheEntry
	ttl  time.Duration
}

type cacheEntry struct {
	articles  []models.NewsArticle
	timestamp time.Time
}

func newHeadlineCache(ttl time.Duration) *headlineCache {
	cache := &headlineCache{
		data: make(map[string]*cacheEntry),
		ttl:  ttl,
	}

	go cache.cleanupLoop()

	return cache
}

// get retrieves cached headlines if still fresh
func (c *headlineCache) get(query string) ([]models.NewsArticle, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.data[query]
	if !exists {
		return nil, false
	}
	if time.Since(entry.timestamp) > c.ttl {
		return nil, false
	}
	return entry.articles, true
}

func (c *headlineCache) set(query string, articles []models.NewsArticle) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[query] = &cacheEntry{
		articles:  articles,
		timestamp: time.Now(),
	}
}

// cleanupLoop periodically removes expired entries
func (c *headlineCache) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.cleanup()
	}
}

func (c *headlineCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for query, entry := range c.data {
		if now.Sub(entry.timestamp) > c.ttl {
			delete(c.data, query)
		}
	}
}

// NewService creates a cached news service.
func NewService(fetcher Fetcher, ttl time.Duration, limit int) *Service {
	if ttl == 0 {
		ttl = 10 * time.Minute
	}
	if limit == 0 {
		limit = 20
	}
	return &Service{
		fetcher: fetcher,
		cache:   newHeadlineCache(ttl),
		limit:   limit,
		logger:  log.With().Str("component", "news").Logger(),
	}
}

// Enabled reports whether the underlying client has an API key.
func (s *Service) Enabled() bool {
	return s.fetcher.Enabled()
}

// Headlines returns news for a query, cached or fresh.
func (s *Service) Headlines(ctx context.Context, query string) ([]models.NewsArticle, error) {
	if query == "" {
		query = DefaultQuery
	}

	if cached, ok := s.cache.get(query); ok {
		s.logger.Debug().Str("query", query).Msg("Using cached headlines")
		return cached, nil
	}

	articles, err := s.fetcher.GetNews(ctx, query, s.limit)
	if err != nil {
		return nil, err
	}

	s.cache.set(query, articles)
	return articles, nil
}

// ClearCache drops all cached headlines.
func (s *Service) ClearCache() {
	s.cache.mu.Lock()
	defer s.cache.mu.Unlock()
	s.cache.data = make(map[string]*cacheEntry)
}
