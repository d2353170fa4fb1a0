// Package slog provides logging decorators for the infodoc service
// interfaces.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/infodoc"
)

// Ensure LoggingLocator implements infodoc.ManualLocator.
var _ infodoc.ManualLocator = (*LoggingLocator)(nil)

// LoggingLocator wraps a ManualLocator with debug logging.
type LoggingLocator struct {
	next   infodoc.ManualLocator
	logger *slog.Logger
}

// NewLoggingLocator creates a new LoggingLocator.
func NewLoggingLocator(next infodoc.ManualLocator, logger *slog.Logger) *LoggingLocator {
	return &LoggingLocator{next: next, logger: logger}
}

// LocateManual delegates to the wrapped locator and logs the resolved path.
func (l *LoggingLocator) LocateManual(ctx context.Context, name string) (m *infodoc.Manual, err error) {
	defer func(begin time.Time) {
		var path, decoder string
		if m != nil {
			path, decoder = m.Path, m.Decoder
		}
		l.logger.Debug("locate manual",
			"name", name,
			"path", path,
			"decoder", decoder,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return l.next.LocateManual(ctx, name)
}

// LocateSubfile delegates to the wrapped locator and logs the resolved path.
func (l *LoggingLocator) LocateSubfile(ctx context.Context, m *infodoc.Manual, name string) (f *infodoc.File, err error) {
	defer func(begin time.Time) {
		var path string
		if f != nil {
			path = f.Path
		}
		l.logger.Debug("locate subfile",
			"manual", m.Name,
			"subfile", name,
			"path", path,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return l.next.LocateSubfile(ctx, m, name)
}

// DirFiles delegates to the wrapped locator and logs the number of files.
func (l *LoggingLocator) DirFiles(ctx context.Context) (files []*infodoc.File, err error) {
	defer func(begin time.Time) {
		l.logger.Debug("dir files",
			"count", len(files),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return l.next.DirFiles(ctx)
}
