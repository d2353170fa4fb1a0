package mock

import (
	"context"

	"github.com/fwojciec/infodoc"
)

var _ infodoc.IndexCache = (*IndexCache)(nil)

// IndexCache is a mock implementation of infodoc.IndexCache.
type IndexCache struct {
	FindIndexEntriesFn func(ctx context.Context, m *infodoc.Manual) ([]infodoc.IndexEntry, error)
	SaveIndexEntriesFn func(ctx context.Context, m *infodoc.Manual, entries []infodoc.IndexEntry) error
}

func (c *IndexCache) FindIndexEntries(ctx context.Context, m *infodoc.Manual) ([]infodoc.IndexEntry, error) {
	return c.FindIndexEntriesFn(ctx, m)
}

func (c *IndexCache) SaveIndexEntries(ctx context.Context, m *infodoc.Manual, entries []infodoc.IndexEntry) error {
	return c.SaveIndexEntriesFn(ctx, m, entries)
}
