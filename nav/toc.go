package nav

import (
	"context"

	"github.com/fwojciec/infodoc"
)

// Toc returns the table of contents of a manual. The result is cached
// until the manual changes on disk; callers must not modify it.
func (e *Engine) Toc(ctx context.Context, manual string) (infodoc.Toc, error) {
	st, err := e.load(ctx, manual)
	if err != nil {
		return nil, err
	}
	var toc infodoc.Toc
	e.memo(func() { toc = st.toc })
	if toc != nil {
		return toc, nil
	}

	type tocNode struct {
		name string
		up   infodoc.NodeRef
	}
	var nodes []tocNode
	var topText string
	err = e.eachFile(ctx, st, func(_ string, buf []byte) bool {
		for _, s := range infodoc.Nodes(buf) {
			nodes = append(nodes, tocNode{name: s.Header.Node, up: s.Header.Up})
			if s.Header.Node == infodoc.TopNode && topText == "" {
				topText = s.Text(buf)
			}
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	entries := make(map[string]*infodoc.TocEntry, len(nodes))
	var order []string
	for _, n := range nodes {
		if _, dup := entries[n.name]; dup {
			continue
		}
		entries[n.name] = &infodoc.TocEntry{Node: n.name}
		order = append(order, n.name)
	}

	// Up pointers into other manuals are recorded as no local parent.
	for _, n := range nodes {
		ent := entries[n.name]
		if n.name == infodoc.TopNode || ent.Parent != "" || n.up.Foreign() || n.up.Node == "" {
			continue
		}
		if _, ok := entries[n.up.Node]; ok && n.up.Node != n.name {
			ent.Parent = n.up.Node
		}
	}

	// Top's children follow its menu, carrying the menu's section labels.
	placed := make(map[string]bool)
	if top, ok := entries[infodoc.TopNode]; ok {
		menu, _ := infodoc.ParseMenu(topText)
		for _, it := range menu.Items {
			child, ok := entries[it.Target.Node]
			if it.Target.Foreign() || !ok || child.Parent != infodoc.TopNode || placed[child.Node] {
				continue
			}
			placed[child.Node] = true
			child.Section = it.Section
			top.Children = append(top.Children, child.Node)
		}
	}
	for _, name := range order {
		ent := entries[name]
		if ent.Parent == "" || placed[name] {
			continue
		}
		parent := entries[ent.Parent]
		parent.Children = append(parent.Children, name)
	}

	toc = make(infodoc.Toc, len(entries))
	for name, ent := range entries {
		toc[name] = *ent
	}
	// Descendants inherit the section of their first-level ancestor.
	toc.Walk(infodoc.TopNode, func(ent infodoc.TocEntry, depth int) {
		if depth < 2 {
			return
		}
		ent.Section = toc[ent.Parent].Section
		toc[ent.Node] = ent
	})

	e.memo(func() { st.toc = toc })
	return toc, nil
}
