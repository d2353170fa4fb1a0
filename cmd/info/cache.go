package main

import (
	"fmt"

	"github.com/fwojciec/infodoc"
)

func cacheDisabled(deps *Dependencies) error {
	return fail(deps, infodoc.Errorf(infodoc.EINVALID, "The index cache is disabled"))
}

// Run executes the cache list command.
func (c *CacheListCmd) Run(deps *Dependencies) error {
	if deps.Cache == nil {
		return cacheDisabled(deps)
	}
	manuals, err := deps.Cache.FindIndexedManuals(deps.Ctx)
	if err != nil {
		return fail(deps, err)
	}
	if len(manuals) == 0 {
		fmt.Fprintln(deps.Stdout, "No cached indices. Run 'info index' or 'info apropos' to build some.")
		return nil
	}
	for _, m := range manuals {
		fmt.Fprintf(deps.Stdout, "%s  %d entries  %s  %s\n", m.Name, m.Entries, m.IndexedAt.Format("2006-01-02 15:04"), m.Path)
	}
	return nil
}

// Run executes the cache drop command.
func (c *CacheDropCmd) Run(deps *Dependencies) error {
	if deps.Cache == nil {
		return cacheDisabled(deps)
	}
	if err := deps.Cache.DeleteIndexEntries(deps.Ctx, c.Path); err != nil {
		return fail(deps, err)
	}
	fmt.Fprintf(deps.Stdout, "Dropped cached index for %s\n", c.Path)
	return nil
}
