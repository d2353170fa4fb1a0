package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/infodoc"
)

// Ensure LoggingLoader implements infodoc.FileLoader.
var _ infodoc.FileLoader = (*LoggingLoader)(nil)

// LoggingLoader wraps a FileLoader with debug logging.
type LoggingLoader struct {
	next   infodoc.FileLoader
	logger *slog.Logger
}

// NewLoggingLoader creates a new LoggingLoader.
func NewLoggingLoader(next infodoc.FileLoader, logger *slog.Logger) *LoggingLoader {
	return &LoggingLoader{next: next, logger: logger}
}

// LoadFile delegates to the wrapped loader and logs the decoded size.
func (l *LoggingLoader) LoadFile(ctx context.Context, f *infodoc.File) (buf []byte, err error) {
	defer func(begin time.Time) {
		l.logger.Debug("load file",
			"path", f.Path,
			"decoder", f.Decoder,
			"bytes", len(buf),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return l.next.LoadFile(ctx, f)
}
