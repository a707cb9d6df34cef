package news

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dkellerny/Fire-Watch-GUI/models"
)

type fakeFetcher struct {
	enabled bool
	calls   int
	err     error
}

func (f *fakeFetcher) Enabled() bool { return f.enabled }

func (f *fakeFetcher) GetNews(_ context.Context, query string, limit int) ([]models.NewsArticle, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []models.NewsArticle{
		{Title: "headline for " + query, URL: "https://example.com/1"},
	}, nil
}

func TestHeadlinesCaching(t *testing.T) {
	fetcher := &fakeFetcher{enabled: true}
	svc := NewService(fetcher, time.Minute, 20)
	ctx := context.Background()

	first, err := svc.Headlines(ctx, "tech")
	if err != nil {
		t.Fatalf("Headlines() error = %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("got %d articles, want 1", len(first))
	}

	// Second call for the same query must hit the cache
	if _, err := svc.Headlines(ctx, "tech"); err != nil {
		t.Fatalf("Headlines() error = %v", err)
	}
	if fetcher.calls != 1 {
		t.Errorf("fetcher called %d times, want 1", fetcher.calls)
	}

	// A different query is a separate cache entry
	if _, err := svc.Headlines(ctx, "energy"); err != nil {
		t.Fatalf("Headlines() error = %v", err)
	}
	if fetcher.calls != 2 {
		t.Errorf("fetcher called %d times, want 2", fetcher.calls)
	}
}

func TestHeadlinesCacheExpiry(t *testing.T) {
	fetcher := &fakeFetcher{enabled: true}
	svc := NewService(fetcher, time.Minute, 20)
	ctx := context.Background()

	if _, err := svc.Headlines(ctx, "tech"); err != nil {
		t.Fatalf("Headlines() error = %v", err)
	}

	// Age the entry past the TTL
	svc.cache.mu.Lock()
	svc.cache.data["tech"].timestamp = time.Now().Add(-2 * time.Minute)
	svc.cache.mu.Unlock()

	if _, err := svc.Headlines(ctx, "tech"); err != nil {
		t.Fatalf("Headlines() error = %v", err)
	}
	if fetcher.calls != 2 {
		t.Errorf("fetcher called %d times, want 2 after expiry", fetcher.calls)
	}
}

func TestHeadlinesDefaultQuery(t *testing.T) {
	fetcher := &fakeFetcher{enabled: true}
	svc := NewService(fetcher, time.Minute, 20)

	articles, err := svc.Headlines(context.Background(), "")
	if err != nil {
		t.Fatalf("Headlines() error = %v", err)
	}
	want := "headline for " + DefaultQuery
	if articles[0].Title != want {
		t.Errorf("title = %q, want %q", articles[0].Title, want)
	}
}

func TestHeadlinesErrorNotCached(t *testing.T) {
	fetcher := &fakeFetcher{enabled: true, err: ErrAPIKeyRequired}
	svc := NewService(fetcher, time.Minute, 20)
	ctx := context.Background()

	if _, err := svc.Headlines(ctx, "tech"); !errors.Is(err, ErrAPIKeyRequired) {
		t.Fatalf("Headlines() error = %v, want ErrAPIKeyRequired", err)
	}

	// After the fetcher recovers the next call must retry, not serve a
	// cached failure.
	fetcher.err = nil
	if _, err := svc.Headlines(ctx, "tech"); err != nil {
		t.Fatalf("Headlines() after recovery error = %v", err)
	}
	if fetcher.calls != 2 {
		t.Errorf("fetcher called %d times, want 2", fetcher.calls)
	}
}

func TestCacheCleanup(t *testing.T) {
	cache := newHeadlineCache(time.Minute)
	cache.set("stale", []models.NewsArticle{{Title: "old"}})
	cache.set("fresh", []models.NewsArticle{{Title: "new"}})

	cache.mu.Lock()
	cache.data["stale"].timestamp = time.Now().Add(-2 * time.Minute)
	cache.mu.Unlock()

	cache.cleanup()

	if _, ok := cache.get("stale"); ok {
		t.Error("stale entry should have been removed")
	}
	if _, ok := cache.get("fresh"); !ok {
		t.Error("fresh entry should have survived cleanup")
	}
}

func TestClearCache(t *testing.T) {
	fetcher := &fakeFetcher{enabled: true}
	svc := NewService(fetcher, time.Minute, 20)
	ctx := context.Background()

	if _, err := svc.Headlines(ctx, "tech"); err != nil {
		t.Fatalf("Headlines() error = %v", err)
	}
	svc.ClearCache()
	if _, err := svc.Headlines(ctx, "tech"); err != nil {
		t.Fatalf("Headlines() error = %v", err)
	}
	if fetcher.calls != 2 {
		t.Errorf("fetcher called %d times, want 2 after ClearCache", fetcher.calls)
	}
}
