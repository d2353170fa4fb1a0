package mock

import (
	"context"

	"github.com/fwojciec/infodoc"
)

var _ infodoc.ManualLocator = (*ManualLocator)(nil)

// ManualLocator is a mock implementation of infodoc.ManualLocator.
type ManualLocator struct {
	LocateManualFn  func(ctx context.Context, name string) (*infodoc.Manual, error)
	LocateSubfileFn func(ctx context.Context, m *infodoc.Manual, name string) (*infodoc.File, error)
	DirFilesFn      func(ctx context.Context) ([]*infodoc.File, error)
}

func (l *ManualLocator) LocateManual(ctx context.Context, name string) (*infodoc.Manual, error) {
	return l.LocateManualFn(ctx, name)
}

func (l *ManualLocator) LocateSubfile(ctx context.Context, m *infodoc.Manual, name string) (*infodoc.File, error) {
	return l.LocateSubfileFn(ctx, m, name)
}

func (l *ManualLocator) DirFiles(ctx context.Context) ([]*infodoc.File, error) {
	return l.DirFilesFn(ctx)
}
