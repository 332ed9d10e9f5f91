package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level. Failures are
// logged at warn level.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks that log through logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{Logger: logger}
}

func (h *LogHooks) OnLoadStart(_ context.Context, path string) {
	h.Logger.Debug("loading dataset", "path", path)
}

func (h *LogHooks) OnLoadComplete(_ context.Context, path string, rows int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("load failed", "path", path, "err", err)
		return
	}
	h.Logger.Debug("dataset loaded", "path", path, "rows", rows, "took", d.Round(time.Millisecond))
}

func (h *LogHooks) OnComputeStart(_ context.Context, view string) {
	h.Logger.Debug("computing view", "view", view)
}

func (h *LogHooks) OnComputeComplete(_ context.Context, view string, d time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("compute failed", "view", view, "err", err)
		return
	}
	h.Logger.Debug("view computed", "view", view, "took", d.Round(time.Millisecond))
}

func (h *LogHooks) OnRenderStart(_ context.Context, view string, formats []string) {
	h.Logger.Debug("rendering", "view", view, "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, view string, formats []string, d time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("render failed", "view", view, "err", err)
		return
	}
	h.Logger.Debug("rendered", "view", view, "formats", formats, "took", d.Round(time.Millisecond))
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "kind", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "kind", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "kind", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, requestID, method, path string) {
	h.Logger.Debug("request", "id", requestID, "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, requestID, method, path string, status int, d time.Duration) {
	h.Logger.Info("response", "id", requestID, "method", method, "path", path,
		"status", status, "took", d.Round(time.Millisecond))
}

var (
	_ DashboardHooks = (*LogHooks)(nil)
	_ CacheHooks     = (*LogHooks)(nil)
	_ HTTPHooks      = (*LogHooks)(nil)
)
