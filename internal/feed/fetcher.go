// Package feed fetches and normalizes syndicated content from the source
// registry. All sources are retrieved in parallel; one bad source never
// aborts a batch.
package feed

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/novai/newswire/internal/config"
)

// Options tunes a Fetcher. Zero values fall back to sane defaults.
type Options struct {
	Timeout        time.Duration // per-source fetch+parse budget
	Concurrency    int           // parallel source fetches, 0 = all sources at once
	PerSourceLimit int           // max entries kept per source
}

type Fetcher struct {
	parser  *gofeed.Parser
	opts    Options
	log     *zap.SugaredLogger
	nowFunc func() time.Time
}

func NewFetcher(opts Options, log *zap.SugaredLogger) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.PerSourceLimit <= 0 {
		opts.PerSourceLimit = 30
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Fetcher{parser: gofeed.NewParser(), opts: opts, log: log, nowFunc: time.Now}
}

// FetchAll retrieves every source concurrently and returns the merged,
// normalized items sorted by publication time, newest first. A source
// that errors, times out, or returns garbage contributes zero items;
// the batch itself never fails, so the returned error is always nil and
// exists only to satisfy the aggregate refresh contract.
//
// Every source launches at once unless Concurrency caps it, so batch
// wall-clock tracks the slowest source's timeout, not the sum. The cap
// is for constrained deployments only.
func (f *Fetcher) FetchAll(ctx context.Context, sources []config.Source) ([]Item, error) {
	var (
		mu    sync.Mutex
		items []Item
	)

	g, ctx := errgroup.WithContext(ctx)
	if f.opts.Concurrency > 0 {
		g.SetLimit(f.opts.Concurrency)
	}

	for _, src := range sources {
		src := src
		g.Go(func() error {
			fetched := f.fetchOne(ctx, src)
			if len(fetched) == 0 {
				return nil
			}
			mu.Lock()
			items = append(items, fetched...)
			mu.Unlock()
			return nil
		})
	}
	g.Wait() //nolint:errcheck // workers never return errors

	// Arrival order is nondeterministic; re-sort so it never leaks out.
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].PublishedAt.After(items[j].PublishedAt)
	})
	return items, nil
}

func (f *Fetcher) fetchOne(ctx context.Context, src config.Source) []Item {
	ctx, cancel := context.WithTimeout(ctx, f.opts.Timeout)
	defer cancel()

	parsed, err := f.parser.ParseURLWithContext(src.URL, ctx)
	if err != nil {
		f.log.Warnw("source fetch failed", "source", src.Name, "url", src.URL, "error", err)
		return nil
	}

	now := f.nowFunc()
	entries := parsed.Items
	if len(entries) > f.opts.PerSourceLimit {
		entries = entries[:f.opts.PerSourceLimit]
	}

	items := make([]Item, 0, len(entries))
	for _, entry := range entries {
		if entry == nil {
			continue
		}
		items = append(items, normalize(src, entry, now))
	}
	f.log.Debugw("source fetched", "source", src.Name, "items", len(items))
	return items
}
