package main

import (
	"bytes"
	"fmt"
)

// Run executes the dir command.
func (c *DirCmd) Run(deps *Dependencies) error {
	buf, err := deps.Engine.Dir(deps.Ctx)
	if err != nil {
		return fail(deps, err)
	}
	buf = bytes.TrimPrefix(buf, []byte("\x1f\n"))
	fmt.Fprint(deps.Stdout, string(buf))
	return nil
}
