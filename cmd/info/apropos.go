package main

import (
	"fmt"
	"sort"

	"github.com/fwojciec/infodoc"
)

// Run executes the apropos command.
func (c *AproposCmd) Run(deps *Dependencies) error {
	res, err := deps.Session.Apropos(deps.Ctx, c.Topic)
	if err != nil {
		return fail(deps, err)
	}

	for _, e := range res.Entries {
		ref := infodoc.ParseNodeRef(e.Node)
		if ref.Manual == "" {
			ref.Manual = e.Manual
		}
		fmt.Fprintf(deps.Stdout, "\"%s\" -- %s", e.Entry, ref)
		if e.Line > 0 {
			fmt.Fprintf(deps.Stdout, " (line %d)", e.Line)
		}
		fmt.Fprintln(deps.Stdout)
	}

	failed := make([]string, 0, len(res.Failures))
	for manual := range res.Failures {
		failed = append(failed, manual)
	}
	sort.Strings(failed)
	for _, manual := range failed {
		deps.Logger.Debug("manual not searched", "manual", manual, "err", res.Failures[manual])
	}
	return nil
}
