package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports every event at debug level on a charmbracelet logger.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger}
}

func (h *LogHooks) OnFormatStart(_ context.Context, path string) {
	h.logger.Debug("format start", "path", path)
}

func (h *LogHooks) OnFormatComplete(_ context.Context, path string, changed bool, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("format failed", "path", path, "elapsed", d.Round(time.Microsecond), "err", err)
		return
	}
	h.logger.Debug("format done", "path", path, "changed", changed, "elapsed", d.Round(time.Microsecond))
}

func (h *LogHooks) OnLintComplete(_ context.Context, path string, n int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("lint failed", "path", path, "err", err)
		return
	}
	h.logger.Debug("lint done", "path", path, "diagnostics", n, "elapsed", d.Round(time.Microsecond))
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, id, method, path string) {
	h.logger.Debug("request", "id", id, "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, id, method, path string, status int, d time.Duration) {
	h.logger.Info("response", "id", id, "method", method, "path", path, "status", status, "elapsed", d.Round(time.Microsecond))
}

var (
	_ FormatHooks = (*LogHooks)(nil)
	_ CacheHooks  = (*LogHooks)(nil)
	_ ServerHooks = (*LogHooks)(nil)
)
