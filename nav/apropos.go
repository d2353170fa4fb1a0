package nav

import (
	"context"

	"github.com/fwojciec/infodoc"
	"golang.org/x/sync/errgroup"
)

// AproposResult holds index entries matching a topic across manuals.
type AproposResult struct {
	Topic   string
	Entries []infodoc.IndexEntry
	// Failures maps manuals that could not be searched to their error.
	Failures map[string]error
}

// Apropos searches the index of every manual listed in the directory for
// entries containing topic. Manuals that fail are recorded in Failures and
// skipped. Entries are grouped by manual in directory order.
func (e *Engine) Apropos(ctx context.Context, topic string) (*AproposResult, error) {
	manuals, err := e.DirManuals(ctx)
	if err != nil {
		return nil, err
	}

	results := make([][]infodoc.IndexEntry, len(manuals))
	errs := make([]error, len(manuals))

	concurrency := e.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, name := range manuals {
		g.Go(func() error {
			entries, err := e.IndexEntries(gctx, name)
			if err != nil {
				errs[i] = err
				return nil
			}
			results[i] = infodoc.MatchIndexEntries(entries, topic)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &AproposResult{Topic: topic, Failures: make(map[string]error)}
	for i, name := range manuals {
		if errs[i] != nil {
			res.Failures[name] = errs[i]
			e.logger().Debug("apropos skipped manual", "manual", name, "err", errs[i])
			continue
		}
		res.Entries = append(res.Entries, results[i]...)
	}
	return res, nil
}
