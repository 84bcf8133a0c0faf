// Package aggregate holds the time-boxed, in-memory store of the fully
// filtered item set and serves category/limit-sliced views from it.
package aggregate

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/novai/newswire/internal/feed"
)

// RefreshFunc produces a complete, filtered, recency-sorted item set.
// Injected at construction so the cache machinery stays testable and
// free of pipeline imports.
type RefreshFunc func(ctx context.Context) ([]feed.Item, error)

// Result is one answered read, shaped for direct serialization.
type Result struct {
	Items         []feed.Item `json:"items"`
	Count         int         `json:"count"`
	Cached        bool        `json:"cached"`
	LastRefreshed time.Time   `json:"lastRefreshed"`
}

// Service owns the aggregate cache. Reads are guarded by an RWMutex and
// always see either the fully-old or fully-new set; refreshes are
// coalesced through a single-flight group so a burst of requests at TTL
// expiry triggers exactly one upstream fetch.
type Service struct {
	refresh RefreshFunc
	ttl     time.Duration
	log     *zap.SugaredLogger
	now     func() time.Time

	group singleflight.Group

	mu    sync.RWMutex
	items []feed.Item
	last  time.Time
}

func New(refresh RefreshFunc, ttl time.Duration, log *zap.SugaredLogger) *Service {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Service{refresh: refresh, ttl: ttl, log: log, now: time.Now}
}

// Get answers one read. An expired or empty cache triggers a synchronous
// refresh first; a fresh cache is sliced in memory without any upstream
// work. If the refresh fails and stale contents exist, the stale set is
// served instead; the error is returned only when there is nothing at
// all to serve.
func (s *Service) Get(ctx context.Context, category string, limit int) (Result, error) {
	items, last, fresh := s.snapshot()
	if fresh {
		return s.slice(items, last, category, limit, true), nil
	}

	if err := s.Refresh(ctx); err != nil {
		// Stale beats empty.
		items, last, _ = s.snapshot()
		if !last.IsZero() {
			s.log.Warnw("refresh failed, serving stale aggregate", "error", err, "age", s.now().Sub(last))
			return s.slice(items, last, category, limit, true), nil
		}
		return Result{Items: []feed.Item{}}, err
	}

	items, last, _ = s.snapshot()
	return s.slice(items, last, category, limit, false), nil
}

// Refresh runs the injected pipeline and replaces the cache wholesale.
// Concurrent callers are coalesced: one refresh runs, everyone gets its
// outcome. An empty result set is a valid outcome and still replaces
// the cache; only an error leaves the previous contents in place.
func (s *Service) Refresh(ctx context.Context) error {
	_, err, _ := s.group.Do("refresh", func() (interface{}, error) {
		items, err := s.refresh(ctx)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.items = items
		s.last = s.now()
		s.mu.Unlock()
		s.log.Infow("aggregate refreshed", "items", len(items))
		return nil, nil
	})
	return err
}

// StartBackground refreshes the cache shortly before each TTL expiry so
// reader-facing requests rarely pay the synchronous refresh cost. Runs
// until ctx is cancelled.
func (s *Service) StartBackground(ctx context.Context) {
	interval := s.ttl * 9 / 10
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.Refresh(ctx); err != nil {
					s.log.Warnw("background refresh failed", "error", err)
				}
			}
		}
	}()
}

// snapshot reads the cache state; fresh means populated and inside TTL.
func (s *Service) snapshot() (items []feed.Item, last time.Time, fresh bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last.IsZero() {
		return nil, time.Time{}, false
	}
	return s.items, s.last, s.now().Sub(s.last) < s.ttl
}

// slice applies the category selector and limit. Pure in-memory; never
// triggers a refresh. The stored slice is replaced wholesale and never
// mutated, so sub-slicing it is safe to hand out.
func (s *Service) slice(items []feed.Item, last time.Time, category string, limit int, cached bool) Result {
	category = strings.ToLower(strings.TrimSpace(category))
	filtered := items
	if category != "" && category != "all" {
		filtered = make([]feed.Item, 0, len(items))
		for _, it := range items {
			if it.Category == category {
				filtered = append(filtered, it)
			}
		}
	}
	if limit > 0 && limit < len(filtered) {
		filtered = filtered[:limit]
	}
	if filtered == nil {
		filtered = []feed.Item{}
	}
	return Result{
		Items:         filtered,
		Count:         len(filtered),
		Cached:        cached,
		LastRefreshed: last,
	}
}
