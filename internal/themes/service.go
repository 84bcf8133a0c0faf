package themes

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/novai/newswire/internal/ai"
	"github.com/novai/newswire/internal/feed"
)

// ItemsFunc supplies the item set to cluster, typically the aggregate
// cache's full view.
type ItemsFunc func(ctx context.Context) ([]feed.Item, error)

// Result is one answered themes read.
type Result struct {
	Themes      []Group   `json:"themes"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// Service caches clustering runs on their own, longer TTL. Clustering is
// cheap but the attached synthesis calls are not, so theme groups are
// rebuilt far less often than the aggregate they are derived from.
type Service struct {
	items      ItemsFunc
	summarizer ai.Summarizer // nil when AI is not configured
	opts       Options
	ttl        time.Duration
	log        *zap.SugaredLogger
	now        func() time.Time

	group singleflight.Group

	mu          sync.RWMutex
	groups      []Group
	generatedAt time.Time
}

func NewService(items ItemsFunc, summarizer ai.Summarizer, opts Options, ttl time.Duration, log *zap.SugaredLogger) *Service {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Service{items: items, summarizer: summarizer, opts: opts, ttl: ttl, log: log, now: time.Now}
}

// Get returns the current theme groups, rebuilding them when the cache
// is empty or expired. A failed rebuild serves the previous groups when
// any exist.
func (s *Service) Get(ctx context.Context) (Result, error) {
	s.mu.RLock()
	groups, generated := s.groups, s.generatedAt
	fresh := !generated.IsZero() && s.now().Sub(generated) < s.ttl
	s.mu.RUnlock()
	if fresh {
		return Result{Themes: groups, GeneratedAt: generated}, nil
	}

	if err := s.rebuild(ctx); err != nil {
		s.mu.RLock()
		groups, generated = s.groups, s.generatedAt
		s.mu.RUnlock()
		if !generated.IsZero() {
			s.log.Warnw("theme rebuild failed, serving stale groups", "error", err)
			return Result{Themes: groups, GeneratedAt: generated}, nil
		}
		return Result{Themes: []Group{}}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return Result{Themes: s.groups, GeneratedAt: s.generatedAt}, nil
}

func (s *Service) rebuild(ctx context.Context) error {
	_, err, _ := s.group.Do("rebuild", func() (interface{}, error) {
		items, err := s.items(ctx)
		if err != nil {
			return nil, err
		}

		groups := Cluster(items, s.opts)
		s.annotate(ctx, groups)

		s.mu.Lock()
		s.groups = groups
		s.generatedAt = s.now()
		s.mu.Unlock()
		s.log.Infow("themes rebuilt", "groups", len(groups), "items", len(items))
		return nil, nil
	})
	return err
}

// annotate attaches the external service's analysis to each group. A
// failed call leaves that group's analysis empty; the group itself is
// always delivered.
func (s *Service) annotate(ctx context.Context, groups []Group) {
	if s.summarizer == nil {
		return
	}
	for i := range groups {
		articles := make([]ai.Article, len(groups[i].Items))
		for j, it := range groups[i].Items {
			articles[j] = ai.Article{Title: it.Title, Source: it.Source, Summary: it.Summary}
		}
		text, err := s.summarizer.SynthesizeTheme(ctx, groups[i].Title, articles)
		if err != nil {
			s.log.Warnw("theme synthesis failed", "theme", groups[i].Title, "error", err)
			continue
		}
		groups[i].Analysis = text
	}
}
