package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/infodoc/nav"
)

var fallbackPolicies = map[string]nav.FallbackPolicy{
	"none":    nav.FallbackNone,
	"history": nav.FallbackHistory,
	"top":     nav.FallbackTop,
}

// Run executes the node command.
func (c *NodeCmd) Run(deps *Dependencies) error {
	s := deps.Session
	s.Fallback = fallbackPolicies[c.Fallback]

	loc, err := s.Goto(deps.Ctx, c.Manual, c.Node)
	if err != nil {
		return fail(deps, err)
	}
	for _, label := range c.Menu {
		if loc, err = s.Menu(deps.Ctx, label); err != nil {
			return fail(deps, err)
		}
	}

	if loc.Suffix {
		deps.Logger.Info("node found without its suffix", "node", loc.Ref().String())
	}
	fmt.Fprint(deps.Stdout, strings.TrimRight(loc.Text, "\n")+"\n")
	return nil
}
