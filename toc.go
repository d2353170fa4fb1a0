package infodoc

// TocEntry is one node of a manual's table of contents.
type TocEntry struct {
	Node string `json:"node"`
	// Parent is empty for Top and for nodes whose Up pointer leaves the
	// manual.
	Parent string `json:"parent,omitempty"`
	// Section is the Top menu heading under which the node's branch is
	// listed.
	Section  string   `json:"section,omitempty"`
	Children []string `json:"children,omitempty"`
}

// Toc maps node names to their table of contents entries.
type Toc map[string]TocEntry

// Walk visits entries depth first starting at root, in child order.
// Each node is visited once.
func (t Toc) Walk(root string, fn func(e TocEntry, depth int)) {
	seen := make(map[string]bool)
	var visit func(name string, depth int)
	visit = func(name string, depth int) {
		e, ok := t[name]
		if !ok || seen[name] {
			return
		}
		seen[name] = true
		fn(e, depth)
		for _, c := range e.Children {
			visit(c, depth+1)
		}
	}
	visit(root, 0)
}
