package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/fwojciec/infodoc"
)

// Run executes the tags command.
func (c *TagsCmd) Run(deps *Dependencies) error {
	tags, err := deps.Engine.TagTable(deps.Ctx, c.Manual)
	if err != nil {
		return fail(deps, err)
	}
	if tags == nil {
		return fail(deps, infodoc.Errorf(infodoc.ENOTFOUND, "Manual %s has no tag table", c.Manual))
	}

	w := tabwriter.NewWriter(deps.Stdout, 0, 4, 2, ' ', 0)
	for _, e := range tags.Entries {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", e.Kind, e.Offset, e.Subfile, e.Name)
	}
	return w.Flush()
}
