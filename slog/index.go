package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/infodoc"
)

// Ensure LoggingIndexCache implements infodoc.IndexCache.
var _ infodoc.IndexCache = (*LoggingIndexCache)(nil)

// LoggingIndexCache wraps an IndexCache with logging of hits, misses and
// writes.
type LoggingIndexCache struct {
	next   infodoc.IndexCache
	logger *slog.Logger
}

// NewLoggingIndexCache creates a new LoggingIndexCache.
func NewLoggingIndexCache(next infodoc.IndexCache, logger *slog.Logger) *LoggingIndexCache {
	return &LoggingIndexCache{next: next, logger: logger}
}

// FindIndexEntries delegates to the wrapped cache. A miss is logged as
// such rather than as an error.
func (c *LoggingIndexCache) FindIndexEntries(ctx context.Context, m *infodoc.Manual) (entries []infodoc.IndexEntry, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"manual", m.Name,
			"fingerprint", m.Fingerprint,
			"duration", time.Since(begin),
		}
		switch infodoc.ErrorCode(err) {
		case "":
			c.logger.Debug("index cache hit", append(attrs, "count", len(entries))...)
		case infodoc.ENOTFOUND:
			c.logger.Debug("index cache miss", attrs...)
		default:
			c.logger.Warn("index cache lookup", append(attrs, "err", err)...)
		}
	}(time.Now())
	return c.next.FindIndexEntries(ctx, m)
}

// SaveIndexEntries delegates to the wrapped cache and logs the write.
func (c *LoggingIndexCache) SaveIndexEntries(ctx context.Context, m *infodoc.Manual, entries []infodoc.IndexEntry) (err error) {
	defer func(begin time.Time) {
		c.logger.Debug("index cache save",
			"manual", m.Name,
			"fingerprint", m.Fingerprint,
			"count", len(entries),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.SaveIndexEntries(ctx, m, entries)
}
