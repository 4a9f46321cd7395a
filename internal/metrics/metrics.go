package metrics

import (
	"os"
	"sync"
	"time"
)

// Package metrics provides a minimal instrumentation interface with a no-op
// default and optional Prometheus-backed implementation enabled via env.

// Recorder defines the metrics surface used across the codebase.
type Recorder interface {
	IncProviderTotal(source string, success bool)
	ObserveProviderSeconds(source string, success bool, seconds float64)
	IncToolTotal(tool string, success bool)
	ObserveToolSeconds(tool string, success bool, seconds float64)
	ObserveLayoutBuild(nodes, links int, seconds float64)
	IncStaleResults()
	IncCacheHit(op string)
	IncCacheMiss(op string)
}

// noopRecorder implements Recorder with no-ops.
type noopRecorder struct{}

func (n *noopRecorder) IncProviderTotal(string, bool)                {}
func (n *noopRecorder) ObserveProviderSeconds(string, bool, float64) {}
func (n *noopRecorder) IncToolTotal(string, bool)                    {}
func (n *noopRecorder) ObserveToolSeconds(string, bool, float64)     {}
func (n *noopRecorder) ObserveLayoutBuild(int, int, float64)         {}
func (n *noopRecorder) IncStaleResults()                             {}
func (n *noopRecorder) IncCacheHit(string)                           {}
func (n *noopRecorder) IncCacheMiss(string)                          {}

var (
	recMu    sync.RWMutex
	recorder Recorder = &noopRecorder{}
)

// Default returns the current recorder.
func Default() Recorder {
	recMu.RLock()
	defer recMu.RUnlock()
	return recorder
}

// SetRecorder swaps the global recorder implementation.
func SetRecorder(r Recorder) {
	recMu.Lock()
	defer recMu.Unlock()
	recorder = r
}

// TimeProvider is a helper to time provider searches.
func TimeProvider(source string) func(success bool) {
	start := time.Now()
	return func(success bool) {
		dur := time.Since(start).Seconds()
		Default().IncProviderTotal(source, success)
		Default().ObserveProviderSeconds(source, success, dur)
	}
}

// TimeTool is a helper to time tool handler operations.
func TimeTool(tool string) func(success bool) {
	start := time.Now()
	return func(success bool) {
		dur := time.Since(start).Seconds()
		Default().IncToolTotal(tool, success)
		Default().ObserveToolSeconds(tool, success, dur)
	}
}

// InitFromEnv enables Prometheus exporter if METRICS_PROMETHEUS=true.
// It also starts a small HTTP server on METRICS_ADDR (default :9090)
// with endpoints: /metrics (prom) and /healthz (200 ok).
func InitFromEnv() {
	if os.Getenv("METRICS_PROMETHEUS") == "" {
		return
	}
	addr := os.Getenv("METRICS_ADDR")
	if addr == "" {
		addr = ":9090"
	}
	// Try to install prometheus recorder; if it fails, keep noop.
	_ = enablePrometheus(addr)
}

// enablePrometheus is provided by build-tagged files.
