package cli

import (
	"context"
	"time"
)

func (h *debugHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("request", "method", method, "host", host, "path", path)
}

func (h *debugHooks) OnResponse(_ context.Context, method, _, path string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "path", path, "status", status, "elapsed", d.Round(time.Millisecond))
}

func (h *debugHooks) OnError(_ context.Context, method, _, path string, err error) {
	h.logger.Debug("request failed", "method", method, "path", path, "err", err)
}

func (h *debugHooks) OnCacheHit(_ context.Context, backend string) {
	h.logger.Debug("cache hit", "backend", backend)
}

func (h *debugHooks) OnCacheMiss(_ context.Context, backend string) {
	h.logger.Debug("cache miss", "backend", backend)
}

func (h *debugHooks) OnCacheSet(_ context.Context, backend string, size int) {
	h.logger.Debug("cache set", "backend", backend, "bytes", size)
}

func (h *debugHooks) OnLoadStart(_ context.Context, spaceID string, gen uint64) {
	h.logger.Debug("loading anchors", "space", spaceID, "generation", gen)
}

func (h *debugHooks) OnLoadComplete(_ context.Context, spaceID string, count int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("anchor load failed", "space", spaceID, "err", err)
		return
	}
	h.logger.Debug("anchors loaded", "space", spaceID, "count", count, "elapsed", d.Round(time.Millisecond))
}

func (h *debugHooks) OnSaveComplete(_ context.Context, spaceID string, saved, failed int, d time.Duration) {
	h.logger.Debug("save complete", "space", spaceID, "saved", saved, "failed", failed, "elapsed", d.Round(time.Millisecond))
}
