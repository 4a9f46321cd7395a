// Package pipeline orchestrates query → aggregate → rank → graph →
// layout, and enforces last-query-wins ordering across concurrent
// searches with a generation counter.
package pipeline

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/JT5D/xrai/internal/aggregator"
	"github.com/JT5D/xrai/internal/asset"
	"github.com/JT5D/xrai/internal/graph"
	"github.com/JT5D/xrai/internal/layout"
	"github.com/JT5D/xrai/internal/metrics"
	"github.com/JT5D/xrai/internal/rank"
)

const defaultCacheTTL = 5 * time.Minute

// Result is one settled query: the ranked records, the built graph and
// its layout state, tagged with the generation it ran under.
type Result struct {
	Generation uint64
	Query      string
	Records    []asset.RankedRecord
	Graph      *asset.Graph
	State      layout.State
}

// Pipeline owns the aggregator, the query-result cache and the latest
// layout state. A new query supersedes any still-running one; results
// arriving for a superseded generation are discarded, never displayed.
type Pipeline struct {
	agg *aggregator.Aggregator
	log *zap.Logger

	gen    atomic.Uint64
	cache  *gocache.Cache
	flight singleflight.Group

	mu      sync.RWMutex
	latest  *Result
	enabled map[asset.SourceTag]bool
}

// New builds a Pipeline. A non-positive ttl uses the default cache TTL.
func New(agg *aggregator.Aggregator, enabled map[asset.SourceTag]bool, ttl time.Duration, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Pipeline{
		agg:     agg,
		log:     log,
		cache:   gocache.New(ttl, 2*ttl),
		enabled: enabled,
	}
}

// SetSources replaces the default enabled-source set (config reload).
func (p *Pipeline) SetSources(enabled map[asset.SourceTag]bool) {
	p.mu.Lock()
	p.enabled = enabled
	p.mu.Unlock()
}

// Search runs the full pipeline synchronously. The returned bool
// reports whether the result is still the newest by the time it
// settled; superseded results are returned to the caller but are not
// installed as the displayed state.
func (p *Pipeline) Search(ctx context.Context, query string, sources []string) (*Result, bool) {
	gen := p.gen.Add(1)
	enabled := p.resolveSources(sources)
	key := cacheKey(query, enabled)

	var res *Result
	if cached, ok := p.cache.Get(key); ok {
		metrics.Default().IncCacheHit("query")
		prior := cached.(*Result)
		r := *prior
		r.Generation = gen
		res = &r
	} else {
		metrics.Default().IncCacheMiss("query")
		out, _, _ := p.flight.Do(key, func() (interface{}, error) {
			return p.execute(ctx, query, enabled), nil
		})
		base := out.(*Result)
		r := *base
		r.Generation = gen
		res = &r
		p.cache.SetDefault(key, base)
	}

	won := p.commit(res)
	return res, won
}

// Submit runs Search on its own goroutine and delivers the result on
// the returned channel. The channel is closed without a value when the
// query was superseded before settling.
func (p *Pipeline) Submit(ctx context.Context, query string, sources []string) <-chan *Result {
	ch := make(chan *Result, 1)
	go func() {
		defer close(ch)
		res, won := p.Search(ctx, query, sources)
		if won {
			ch <- res
		}
	}()
	return ch
}

// Latest returns the newest installed result, or nil before the first
// completed query.
func (p *Pipeline) Latest() *Result {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.latest
}

// Tick advances the animation clock of the latest layout state and
// returns a snapshot for rendering. Before the first query it returns
// an empty snapshot.
func (p *Pipeline) Tick(deltaTime float64) asset.LayoutSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.latest == nil {
		return asset.LayoutSnapshot{}
	}
	p.latest.State = layout.Advance(p.latest.State, deltaTime)
	return p.latest.State.Snapshot()
}

// execute is the uncached pipeline body.
func (p *Pipeline) execute(ctx context.Context, query string, enabled map[asset.SourceTag]bool) *Result {
	records := p.agg.Aggregate(ctx, query, enabled)
	ranked := rank.Rank(records, query)
	g := graph.Build(ranked)
	st := layout.Layout(g)
	p.log.Info("query settled",
		zap.String("query", query),
		zap.Int("records", len(records)),
		zap.Int("nodes", g.Len()),
		zap.Int("links", len(g.Links)))
	return &Result{Query: query, Records: ranked, Graph: g, State: st}
}

// commit installs the result as latest unless a newer generation has
// already been issued. A copy is installed so Tick, which mutates the
// latest layout state under the lock, never writes through a pointer
// still held by a Search caller.
func (p *Pipeline) commit(res *Result) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if res.Generation != p.gen.Load() {
		metrics.Default().IncStaleResults()
		p.log.Debug("discarding superseded result",
			zap.String("query", res.Query),
			zap.Uint64("generation", res.Generation),
			zap.Uint64("current", p.gen.Load()))
		return false
	}
	installed := *res
	p.latest = &installed
	return true
}

func (p *Pipeline) resolveSources(sources []string) map[asset.SourceTag]bool {
	if len(sources) == 0 {
		p.mu.RLock()
		defer p.mu.RUnlock()
		return p.enabled
	}
	enabled := make(map[asset.SourceTag]bool, len(sources))
	for _, s := range sources {
		enabled[asset.SourceTag(s)] = true
	}
	return enabled
}

func cacheKey(query string, enabled map[asset.SourceTag]bool) string {
	tags := make([]string, 0, len(enabled))
	for t := range enabled {
		tags = append(tags, string(t))
	}
	sort.Strings(tags)
	return strings.ToLower(strings.TrimSpace(query)) + "|" + strings.Join(tags, ",")
}
