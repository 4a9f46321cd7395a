//go:build !noprom

package metrics

import (
	"fmt"
	"net/http"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

type promRecorder struct {
	providerTotal   *prom.CounterVec
	providerSeconds *prom.HistogramVec
	toolTotal       *prom.CounterVec
	toolSeconds     *prom.HistogramVec
	layoutNodes     prom.Histogram
	layoutLinks     prom.Histogram
	layoutSeconds   prom.Histogram
	staleTotal      prom.Counter
	cacheHit        *prom.CounterVec
	cacheMiss       *prom.CounterVec
}

func (p *promRecorder) IncProviderTotal(source string, success bool) {
	p.providerTotal.WithLabelValues(source, fmt.Sprintf("%t", success)).Inc()
}

func (p *promRecorder) ObserveProviderSeconds(source string, success bool, seconds float64) {
	p.providerSeconds.WithLabelValues(source, fmt.Sprintf("%t", success)).Observe(seconds)
}

func (p *promRecorder) IncToolTotal(tool string, success bool) {
	p.toolTotal.WithLabelValues(tool, fmt.Sprintf("%t", success)).Inc()
}

func (p *promRecorder) ObserveToolSeconds(tool string, success bool, seconds float64) {
	p.toolSeconds.WithLabelValues(tool, fmt.Sprintf("%t", success)).Observe(seconds)
}

func (p *promRecorder) ObserveLayoutBuild(nodes, links int, seconds float64) {
	p.layoutNodes.Observe(float64(nodes))
	p.layoutLinks.Observe(float64(links))
	p.layoutSeconds.Observe(seconds)
}

func (p *promRecorder) IncStaleResults() { p.staleTotal.Inc() }

func (p *promRecorder) IncCacheHit(op string)  { p.cacheHit.WithLabelValues(op).Inc() }
func (p *promRecorder) IncCacheMiss(op string) { p.cacheMiss.WithLabelValues(op).Inc() }

func enablePrometheus(addr string) error {
	registry := prom.NewRegistry()
	p := &promRecorder{
		providerTotal: prom.NewCounterVec(prom.CounterOpts{
			Name: "provider_searches_total",
			Help: "Total number of provider search calls",
		}, []string{"source", "success"}),
		providerSeconds: prom.NewHistogramVec(prom.HistogramOpts{
			Name:    "provider_search_seconds",
			Help:    "Provider search duration in seconds",
			Buckets: prom.DefBuckets,
		}, []string{"source", "success"}),
		toolTotal: prom.NewCounterVec(prom.CounterOpts{
			Name: "tool_calls_total",
			Help: "Total number of tool handler calls",
		}, []string{"tool", "success"}),
		toolSeconds: prom.NewHistogramVec(prom.HistogramOpts{
			Name:    "tool_call_seconds",
			Help:    "Tool handler duration in seconds",
			Buckets: prom.DefBuckets,
		}, []string{"tool", "success"}),
		layoutNodes: prom.NewHistogram(prom.HistogramOpts{
			Name:    "layout_nodes",
			Help:    "Node count per layout build",
			Buckets: prom.ExponentialBuckets(1, 2, 10),
		}),
		layoutLinks: prom.NewHistogram(prom.HistogramOpts{
			Name:    "layout_links",
			Help:    "Link count per layout build",
			Buckets: prom.ExponentialBuckets(1, 2, 10),
		}),
		layoutSeconds: prom.NewHistogram(prom.HistogramOpts{
			Name:    "layout_build_seconds",
			Help:    "Layout build duration in seconds",
			Buckets: prom.DefBuckets,
		}),
		staleTotal: prom.NewCounter(prom.CounterOpts{
			Name: "stale_results_total",
			Help: "Search results discarded because a newer query superseded them",
		}),
		cacheHit: prom.NewCounterVec(prom.CounterOpts{
			Name: "cache_hits_total",
			Help: "Cache hits by operation",
		}, []string{"op"}),
		cacheMiss: prom.NewCounterVec(prom.CounterOpts{
			Name: "cache_misses_total",
			Help: "Cache misses by operation",
		}, []string{"op"}),
	}

	registry.MustRegister(
		p.providerTotal, p.providerSeconds, p.toolTotal, p.toolSeconds,
		p.layoutNodes, p.layoutLinks, p.layoutSeconds, p.staleTotal,
		p.cacheHit, p.cacheMiss,
	)
	SetRecorder(p)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	go func() { _ = http.ListenAndServe(addr, mux) }()
	return nil
}
