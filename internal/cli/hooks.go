package cli

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/astroplot/pkg/observability"
)

// logHooks writes observability events to the debug log.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnRenderStart(_ context.Context, kind, format string) {
	h.logger.Debug("render", "kind", kind, "format", format)
}

func (h *logHooks) OnRenderComplete(_ context.Context, kind, format string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render failed", "kind", kind, "format", format, "err", err)
		return
	}
	h.logger.Debug("rendered", "kind", kind, "format", format, "took", d.Round(time.Millisecond))
}

func (h *logHooks) OnFrame(_ context.Context, index, total int, d time.Duration) {
	h.logger.Debug("frame", "index", index+1, "total", total, "took", d.Round(time.Millisecond))
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *logHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("request", "method", method, "host", host, "path", path)
}

func (h *logHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "host", host, "path", path, "status", status, "took", d.Round(time.Millisecond))
}

func (h *logHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("request failed", "method", method, "host", host, "path", path, "err", err)
}

// frameProgress forwards render events and reports finished frames on a
// spinner. Frames finish out of order, so it counts rather than using the
// index.
type frameProgress struct {
	observability.RenderHooks
	spinner *Spinner
	done    atomic.Int32
}

func (p *frameProgress) OnFrame(ctx context.Context, index, total int, d time.Duration) {
	p.RenderHooks.OnFrame(ctx, index, total, d)
	p.spinner.Update(fmt.Sprintf("Rendering frame %d/%d", p.done.Add(1), total))
}

// trackFrames installs a frameProgress on s until the returned function is
// called.
func trackFrames(s *Spinner) (restore func()) {
	prev := observability.Render()
	observability.SetRenderHooks(&frameProgress{RenderHooks: prev, spinner: s})
	return func() { observability.SetRenderHooks(prev) }
}

// rendering reports a figure render through the render hooks.
func rendering(ctx context.Context, kind, format string, fn func() error) error {
	hooks := observability.Render()
	start := time.Now()
	hooks.OnRenderStart(ctx, kind, format)
	err := fn()
	hooks.OnRenderComplete(ctx, kind, format, time.Since(start), err)
	return err
}
