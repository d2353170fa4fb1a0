package mock

import (
	"context"

	"github.com/fwojciec/infodoc"
)

var _ infodoc.FileLoader = (*FileLoader)(nil)

// FileLoader is a mock implementation of infodoc.FileLoader.
type FileLoader struct {
	LoadFileFn func(ctx context.Context, f *infodoc.File) ([]byte, error)
}

func (l *FileLoader) LoadFile(ctx context.Context, f *infodoc.File) ([]byte, error) {
	return l.LoadFileFn(ctx, f)
}
