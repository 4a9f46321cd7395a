// Package aggregator fans a query out to every enabled provider and
// joins the results. Provider failures are isolated: a provider that
// errors, times out or has a tripped breaker contributes an empty
// slice and never delays or aborts the others.
package aggregator

import (
	"context"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/JT5D/xrai/internal/asset"
	"github.com/JT5D/xrai/internal/metrics"
	"github.com/JT5D/xrai/internal/provider"
)

const defaultProviderTimeout = 15 * time.Second

// Aggregator owns the provider table and a circuit breaker per source.
type Aggregator struct {
	providers []provider.Provider
	breakers  map[asset.SourceTag]*gobreaker.CircuitBreaker
	timeout   time.Duration
	log       *zap.Logger
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithTimeout sets the per-provider search timeout.
func WithTimeout(d time.Duration) Option {
	return func(a *Aggregator) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// New builds an Aggregator over the given providers. The slice order is
// the registration order and fixes the merge order of results.
func New(providers []provider.Provider, log *zap.Logger, opts ...Option) *Aggregator {
	if log == nil {
		log = zap.NewNop()
	}
	a := &Aggregator{
		providers: providers,
		breakers:  make(map[asset.SourceTag]*gobreaker.CircuitBreaker, len(providers)),
		timeout:   defaultProviderTimeout,
		log:       log,
	}
	for _, p := range providers {
		tag := p.Tag()
		a.breakers[tag] = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    string(tag),
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Info("provider breaker state change",
					zap.String("source", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()))
			},
		})
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Sources returns the registered source tags in registration order.
func (a *Aggregator) Sources() []asset.SourceTag {
	tags := make([]asset.SourceTag, len(a.providers))
	for i, p := range a.providers {
		tags[i] = p.Tag()
	}
	return tags
}

// Aggregate runs the query against every selected provider concurrently
// and returns the concatenated results in registration order once all
// calls have settled. It never returns an error: the worst case is an
// empty sequence.
func (a *Aggregator) Aggregate(ctx context.Context, query string, enabled map[asset.SourceTag]bool) []asset.Record {
	selected := a.resolve(enabled)
	results := make([][]asset.Record, len(selected))

	var wg sync.WaitGroup
	for i, p := range selected {
		wg.Add(1)
		go func(slot int, p provider.Provider) {
			defer wg.Done()
			results[slot] = a.searchOne(ctx, p, query)
		}(i, p)
	}
	wg.Wait()

	var merged []asset.Record
	for _, r := range results {
		merged = append(merged, r...)
	}
	return merged
}

// resolve maps the enabled tag set onto the provider table,
// registration order preserved. An empty set or "all" selects every
// provider.
func (a *Aggregator) resolve(enabled map[asset.SourceTag]bool) []provider.Provider {
	if len(enabled) == 0 || enabled[asset.SourceAll] {
		return a.providers
	}
	var selected []provider.Provider
	for _, p := range a.providers {
		if enabled[p.Tag()] {
			selected = append(selected, p)
		}
	}
	return selected
}

// searchOne runs a single provider search under its breaker and
// timeout. Any failure degrades to an empty result for that provider.
func (a *Aggregator) searchOne(ctx context.Context, p provider.Provider, query string) []asset.Record {
	tag := string(p.Tag())
	done := metrics.TimeProvider(tag)
	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	out, err := a.breakers[p.Tag()].Execute(func() (interface{}, error) {
		return p.Search(callCtx, query)
	})
	if err != nil {
		done(false)
		a.log.Warn("provider search failed",
			zap.String("source", tag),
			zap.String("query", query),
			zap.Error(err))
		return nil
	}
	done(true)
	records, _ := out.([]asset.Record)
	return records
}
