package cli

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/iclabels/pkg/observability"
)

// logHooks reports render, cache and HTTP events at debug level.
type logHooks struct {
	logger *log.Logger
}

// installLogHooks routes all observability events to logger.
func installLogHooks(logger *log.Logger) {
	h := logHooks{logger: logger}
	observability.SetRenderHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

func (h logHooks) OnPassStart(_ context.Context, passID string, instances int) {
	h.logger.Debug("pass start", "pass", passID, "instances", instances)
}

func (h logHooks) OnChipSkipped(_ context.Context, passID, chip string, err error) {
	h.logger.Debug("chip skipped", "pass", passID, "chip", chip, "err", err)
}

func (h logHooks) OnPassComplete(_ context.Context, passID string, placed, skipped int, d time.Duration) {
	h.logger.Debug("pass complete", "pass", passID, "placed", placed, "skipped", skipped, "took", d)
}

func (h logHooks) OnExport(_ context.Context, format string, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("export failed", "format", format, "err", err)
		return
	}
	h.logger.Debug("export", "format", format, "bytes", size, "took", d)
}

func (h logHooks) OnCacheHit(_ context.Context, kind string) {
	h.logger.Debug("cache hit", "kind", kind)
}

func (h logHooks) OnCacheMiss(_ context.Context, kind string) {
	h.logger.Debug("cache miss", "kind", kind)
}

func (h logHooks) OnCacheSet(_ context.Context, kind string, size int) {
	h.logger.Debug("cache set", "kind", kind, "bytes", size)
}

func (h logHooks) OnRequest(_ context.Context, method, path string) {}

func (h logHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Debug("http", "method", method, "path", path, "status", status, "took", d)
}

// cacheRecorder notes whether an artifact was served from the cache and
// forwards every event.
type cacheRecorder struct {
	next observability.CacheHooks
	hits atomic.Int32
	miss atomic.Int32
}

// recordCache installs a recorder over the current cache hooks. The
// returned function restores them.
func recordCache() (*cacheRecorder, func()) {
	rec := &cacheRecorder{next: observability.Cache()}
	observability.SetCacheHooks(rec)
	return rec, func() { observability.SetCacheHooks(rec.next) }
}

func (r *cacheRecorder) OnCacheHit(ctx context.Context, kind string) {
	r.hits.Add(1)
	r.next.OnCacheHit(ctx, kind)
}

func (r *cacheRecorder) OnCacheMiss(ctx context.Context, kind string) {
	r.miss.Add(1)
	r.next.OnCacheMiss(ctx, kind)
}

func (r *cacheRecorder) OnCacheSet(ctx context.Context, kind string, size int) {
	r.next.OnCacheSet(ctx, kind, size)
}

// cached reports the cache state of the last lookup, or nil when no lookup
// happened.
func (r *cacheRecorder) cached() *bool {
	if r.hits.Load() == 0 && r.miss.Load() == 0 {
		return nil
	}
	hit := r.miss.Load() == 0
	return &hit
}

var (
	_ observability.RenderHooks = logHooks{}
	_ observability.CacheHooks  = logHooks{}
	_ observability.HTTPHooks   = logHooks{}
	_ observability.CacheHooks  = (*cacheRecorder)(nil)
)
