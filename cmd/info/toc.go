package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/infodoc"
)

// Run executes the toc command.
func (c *TocCmd) Run(deps *Dependencies) error {
	toc, err := deps.Session.Toc(deps.Ctx, c.Manual)
	if err != nil {
		return fail(deps, err)
	}

	var section string
	toc.Walk(infodoc.TopNode, func(e infodoc.TocEntry, depth int) {
		if depth == 1 && e.Section != section {
			section = e.Section
			if section != "" {
				fmt.Fprintf(deps.Stdout, "\n%s\n", section)
			}
		}
		fmt.Fprintf(deps.Stdout, "%s%s\n", strings.Repeat("  ", depth), e.Node)
	})
	return nil
}
