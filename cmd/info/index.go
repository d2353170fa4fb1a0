package main

import (
	"fmt"
	"strings"
)

// Run executes the index command.
func (c *IndexCmd) Run(deps *Dependencies) error {
	if c.Show {
		s := deps.Session
		if _, err := s.Goto(deps.Ctx, c.Manual, ""); err != nil {
			return fail(deps, err)
		}
		loc, err := s.Index(deps.Ctx, c.Topic)
		if err != nil {
			return fail(deps, err)
		}
		fmt.Fprint(deps.Stdout, strings.TrimRight(loc.Text, "\n")+"\n")
		return nil
	}

	matches, err := deps.Engine.IndexSearch(deps.Ctx, c.Manual, c.Topic)
	if err != nil {
		return fail(deps, err)
	}
	for _, e := range matches {
		fmt.Fprintf(deps.Stdout, "* %s: %s.", e.Entry, e.Node)
		if e.Line > 0 {
			fmt.Fprintf(deps.Stdout, "  (line %d)", e.Line)
		}
		fmt.Fprintln(deps.Stdout)
	}
	return nil
}
