package nav

import (
	"context"
	"strings"

	"github.com/fwojciec/infodoc"
)

// IndexNodes returns the names of a manual's index nodes in document
// order. Manuals whose generator emits index cookies are scanned for the
// cookie; otherwise, or if no cookie is found, the run of "Index" nodes
// reached from the first Top menu item mentioning "Index" is used.
// Returns ENOINDEX if the manual has no index.
func (e *Engine) IndexNodes(ctx context.Context, manual string) ([]string, error) {
	st, err := e.load(ctx, manual)
	if err != nil {
		return nil, err
	}
	var nodes []string
	e.memo(func() { nodes = st.indexNodes })
	if nodes != nil {
		return nodes, nil
	}

	if st.manual.IndexCookies {
		err := e.eachFile(ctx, st, func(_ string, buf []byte) bool {
			for _, s := range infodoc.Nodes(buf) {
				if infodoc.HasIndexCookie(s.Text(buf)) {
					nodes = append(nodes, s.Header.Node)
				}
			}
			return true
		})
		if err != nil {
			return nil, err
		}
	}
	if len(nodes) == 0 {
		if nodes, err = e.indexNodesByName(ctx, manual); err != nil {
			return nil, err
		}
	}
	if len(nodes) == 0 {
		return nil, infodoc.Errorf(infodoc.ENOINDEX, "No index for manual %s", manual)
	}

	e.memo(func() { st.indexNodes = nodes })
	return nodes, nil
}

func (e *Engine) indexNodesByName(ctx context.Context, manual string) ([]string, error) {
	top, err := e.Resolve(ctx, manual, infodoc.TopNode, false)
	if infodoc.ErrorCode(err) == infodoc.ENONODE {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	menu, ok := infodoc.ParseMenu(top.Text)
	if !ok {
		return nil, nil
	}

	var name string
	for _, it := range menu.Items {
		if strings.Contains(it.Label, "Index") && !it.Target.Foreign() {
			name = it.Target.Node
			break
		}
	}

	var nodes []string
	seen := make(map[string]bool)
	for name != "" && !seen[name] {
		loc, err := e.Resolve(ctx, manual, name, false)
		if infodoc.ErrorCode(err) == infodoc.ENONODE {
			break
		} else if err != nil {
			return nil, err
		}
		seen[name] = true
		nodes = append(nodes, loc.Name)
		if loc.Next.Foreign() || !strings.Contains(loc.Next.Node, "Index") {
			break
		}
		name = loc.Next.Node
	}
	return nodes, nil
}

// IndexEntries returns every entry of a manual's index nodes in file
// order. Entries are read from the IndexCache when one is configured and
// holds entries for the manual's current fingerprint.
func (e *Engine) IndexEntries(ctx context.Context, manual string) ([]infodoc.IndexEntry, error) {
	st, err := e.load(ctx, manual)
	if err != nil {
		return nil, err
	}
	var entries []infodoc.IndexEntry
	e.memo(func() { entries = st.indexEntries })
	if entries != nil {
		return entries, nil
	}

	if e.IndexCache != nil {
		cached, err := e.IndexCache.FindIndexEntries(ctx, st.manual)
		if err == nil {
			e.memo(func() { st.indexEntries = cached })
			return cached, nil
		} else if infodoc.ErrorCode(err) != infodoc.ENOTFOUND {
			e.logger().Warn("index cache lookup failed", "manual", manual, "err", err)
		}
	}

	nodes, err := e.IndexNodes(ctx, manual)
	if err != nil {
		return nil, err
	}
	entries = []infodoc.IndexEntry{}
	for _, name := range nodes {
		loc, err := e.Resolve(ctx, manual, name, true)
		if err != nil {
			return nil, err
		}
		entries = append(entries, infodoc.ParseIndexEntries(manual, loc.Text)...)
	}

	if e.IndexCache != nil {
		if err := e.IndexCache.SaveIndexEntries(ctx, st.manual, entries); err != nil {
			e.logger().Warn("index cache update failed", "manual", manual, "err", err)
		}
	}
	e.memo(func() { st.indexEntries = entries })
	return entries, nil
}

// IndexSearch returns the index entries of a manual matching topic, exact
// matches first. Returns ENOTFOUND if nothing matches.
func (e *Engine) IndexSearch(ctx context.Context, manual, topic string) ([]infodoc.IndexEntry, error) {
	entries, err := e.IndexEntries(ctx, manual)
	if err != nil {
		return nil, err
	}
	matches := infodoc.MatchIndexEntries(entries, topic)
	if len(matches) == 0 {
		return nil, infodoc.Errorf(infodoc.ENOTFOUND, "No %q in index", topic)
	}
	return matches, nil
}
