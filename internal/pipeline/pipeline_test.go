package pipeline

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/JT5D/xrai/internal/aggregator"
	"github.com/JT5D/xrai/internal/asset"
	"github.com/JT5D/xrai/internal/provider"
)

// scriptedProvider blocks on gate for the queries listed in slow, and
// counts every Search call.
type scriptedProvider struct {
	tag   asset.SourceTag
	slow  map[string]bool
	gate  chan struct{}
	entry chan string
	calls atomic.Int64
}

func (s *scriptedProvider) Tag() asset.SourceTag { return s.tag }

func (s *scriptedProvider) Search(ctx context.Context, query string) ([]asset.Record, error) {
	s.calls.Add(1)
	if s.entry != nil {
		s.entry <- query
	}
	if s.slow[query] {
		select {
		case <-s.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return []asset.Record{{
		ID:     string(s.tag) + "-" + query,
		Name:   query + " result",
		Source: s.tag,
		Type:   "model",
		Weight: 1,
	}}, nil
}

func newTestPipeline(p provider.Provider) *Pipeline {
	agg := aggregator.New([]provider.Provider{p}, zap.NewNop())
	return New(agg, nil, time.Minute, zap.NewNop())
}

func TestSearchInstallsLatest(t *testing.T) {
	sp := &scriptedProvider{tag: asset.SourceGallery}
	pipe := newTestPipeline(sp)

	res, won := pipe.Search(context.Background(), "helmet", nil)
	require.True(t, won)
	require.NotNil(t, res)
	assert.Equal(t, "helmet", res.Query)
	assert.Equal(t, uint64(1), res.Generation)
	require.Len(t, res.Records, 1)
	assert.Equal(t, 1, res.Graph.Len())
	require.NotNil(t, res.Graph.Nodes[0].Position)

	latest := pipe.Latest()
	require.NotNil(t, latest)
	assert.Equal(t, "helmet", latest.Query)
}

func TestNewerQuerySupersedesOlder(t *testing.T) {
	sp := &scriptedProvider{
		tag:   asset.SourceGallery,
		slow:  map[string]bool{"slow": true},
		gate:  make(chan struct{}),
		entry: make(chan string, 2),
	}
	pipe := newTestPipeline(sp)

	ch := pipe.Submit(context.Background(), "slow", nil)
	require.Equal(t, "slow", <-sp.entry)

	// A second query issued while the first is in flight wins.
	res, won := pipe.Search(context.Background(), "fast", nil)
	require.True(t, won)
	assert.Equal(t, "fast", res.Query)
	<-sp.entry

	close(sp.gate)
	stale, ok := <-ch
	assert.False(t, ok, "superseded query must not deliver a result")
	assert.Nil(t, stale)

	latest := pipe.Latest()
	require.NotNil(t, latest)
	assert.Equal(t, "fast", latest.Query)
}

func TestSearchCachesByQueryAndSources(t *testing.T) {
	sp := &scriptedProvider{tag: asset.SourceGallery}
	pipe := newTestPipeline(sp)

	first, _ := pipe.Search(context.Background(), "helmet", nil)
	second, won := pipe.Search(context.Background(), "helmet", nil)
	require.True(t, won)
	assert.Equal(t, int64(1), sp.calls.Load())

	// The cached result is re-stamped with the caller's generation.
	assert.Equal(t, uint64(1), first.Generation)
	assert.Equal(t, uint64(2), second.Generation)
	assert.Equal(t, first.Records, second.Records)

	// A different source selection misses the cache.
	pipe.Search(context.Background(), "helmet", []string{string(asset.SourceGallery)})
	assert.Equal(t, int64(2), sp.calls.Load())
}

func TestTick(t *testing.T) {
	sp := &scriptedProvider{tag: asset.SourceGallery}
	pipe := newTestPipeline(sp)

	// Before any query the snapshot is empty.
	snap := pipe.Tick(0.5)
	assert.Empty(t, snap.Nodes)
	assert.Zero(t, snap.Time)

	_, won := pipe.Search(context.Background(), "helmet", nil)
	require.True(t, won)

	snap = pipe.Tick(0.5)
	require.Len(t, snap.Nodes, 1)
	assert.InDelta(t, 0.5, snap.Time, 1e-9)

	snap = pipe.Tick(0.25)
	assert.InDelta(t, 0.75, snap.Time, 1e-9)
}

func TestTickDoesNotMutateSearchResult(t *testing.T) {
	sp := &scriptedProvider{tag: asset.SourceGallery}
	pipe := newTestPipeline(sp)

	res, won := pipe.Search(context.Background(), "helmet", nil)
	require.True(t, won)

	// The installed state is a copy; advancing the clock must not write
	// through the pointer the caller still holds.
	pipe.Tick(0.5)
	pipe.Tick(0.5)
	assert.Zero(t, res.State.Time)

	latest := pipe.Latest()
	require.NotNil(t, latest)
	assert.NotSame(t, res, latest)
	assert.InDelta(t, 1.0, latest.State.Time, 1e-9)
}

func TestSetSources(t *testing.T) {
	sp := &scriptedProvider{tag: asset.SourceGallery}
	other := &scriptedProvider{tag: asset.SourceModelRepo}
	agg := aggregator.New([]provider.Provider{sp, other}, zap.NewNop())
	pipe := New(agg, map[asset.SourceTag]bool{asset.SourceGallery: true}, time.Minute, zap.NewNop())

	res, _ := pipe.Search(context.Background(), "one", nil)
	require.Len(t, res.Records, 1)
	assert.Equal(t, asset.SourceGallery, res.Records[0].Source)

	pipe.SetSources(map[asset.SourceTag]bool{asset.SourceModelRepo: true})
	res, _ = pipe.Search(context.Background(), "two", nil)
	require.Len(t, res.Records, 1)
	assert.Equal(t, asset.SourceModelRepo, res.Records[0].Source)
}
