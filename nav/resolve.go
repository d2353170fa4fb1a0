package nav

import (
	"context"
	"strings"

	"github.com/fwojciec/infodoc"
)

// DriftSlacks are the backward slacks, in bytes, tried in order when a tag
// table offset does not land on its node. The second tier recovers
// generators that leave conditional text out of the first subfile's
// position estimates.
var DriftSlacks = []int{1000, 10000}

// WholeFileNode resolves to the entire main file of a manual.
const WholeFileNode = "*"

// Resolve finds a node or anchor in a manual. The node may be qualified as
// "(manual)node", in which case it overrides manual; an empty node means
// Top. When strict is false a case-insensitive search follows a failed
// exact search. If nothing matches and the name contains a ".", the part
// before the last "." is tried.
func (e *Engine) Resolve(ctx context.Context, manual, node string, strict bool) (*infodoc.NodeLocation, error) {
	ref := infodoc.ParseNodeRef(node)
	if ref.Manual != "" {
		manual = ref.Manual
	}
	name := ref.Node
	if name == "" {
		name = infodoc.TopNode
	}

	loc, err := e.resolve(ctx, manual, name, strict)
	if infodoc.ErrorCode(err) != infodoc.ENONODE {
		return loc, err
	}

	if i := strings.LastIndexByte(name, '.'); i > 0 {
		if prefix := strings.TrimSpace(name[:i]); prefix != "" {
			loc, serr := e.resolve(ctx, manual, prefix, strict)
			if serr == nil {
				loc.Suffix = true
				return loc, nil
			} else if infodoc.ErrorCode(serr) != infodoc.ENONODE {
				return nil, serr
			}
		}
	}
	return nil, infodoc.Errorf(infodoc.ENONODE, "No such node or anchor: %s", infodoc.NodeRef{Manual: manual, Node: name})
}

func (e *Engine) resolve(ctx context.Context, manual, name string, strict bool) (*infodoc.NodeLocation, error) {
	st, err := e.load(ctx, manual)
	if err != nil {
		return nil, err
	}

	if name == WholeFileNode {
		return &infodoc.NodeLocation{
			Manual:   manual,
			File:     st.manual.Path,
			Name:     WholeFileNode,
			End:      len(st.content),
			Text:     string(st.content),
			Strategy: infodoc.StrategyWholeFile,
		}, nil
	}

	if st.tags != nil {
		if loc, err := e.findTagged(ctx, st, manual, name, false); err != nil || loc != nil {
			return loc, err
		}
		if !strict {
			if loc, err := e.findTagged(ctx, st, manual, name, true); err != nil || loc != nil {
				return loc, err
			}
		}
		return nil, infodoc.Errorf(infodoc.ENONODE, "No such node or anchor: %s", name)
	}

	if loc, err := e.scan(ctx, st, manual, name, false); err != nil || loc != nil {
		return loc, err
	}
	if !strict {
		if loc, err := e.scan(ctx, st, manual, name, true); err != nil || loc != nil {
			return loc, err
		}
	}
	return nil, infodoc.Errorf(infodoc.ENONODE, "No such node or anchor: %s", name)
}

// findTagged looks name up in the tag table and verifies the hit against
// the file contents. It returns a nil location if the name is not in the
// tag table or no matching header lies within the largest drift window.
func (e *Engine) findTagged(ctx context.Context, st *manualState, manual, name string, fold bool) (*infodoc.NodeLocation, error) {
	entry, ok := st.tags.Find(name, fold)
	if !ok {
		return nil, nil
	}
	buf, path, local, err := e.seek(ctx, st, entry.Offset)
	if err != nil {
		return nil, err
	}

	strategy := infodoc.StrategyTagTable
	if fold {
		strategy = infodoc.StrategyTagTableFolded
	}

	// An anchor lies inside the node whose header precedes it.
	if entry.IsAnchor() {
		span, ok := infodoc.NodeBefore(buf, local)
		if !ok {
			return nil, nil
		}
		loc := infodoc.NewNodeLocation(manual, path, buf, span, strategy)
		loc.Point = clamp(local-span.Start, 0, len(loc.Text))
		return loc, nil
	}

	for _, slack := range DriftSlacks {
		if span, ok := findInWindow(buf, local-slack, local+slack, name, fold); ok {
			loc := infodoc.NewNodeLocation(manual, path, buf, span, strategy)
			loc.Slack = slack
			return loc, nil
		}
	}
	return nil, nil
}

// seek translates a logical offset into the file holding it and the
// offset within that file.
func (e *Engine) seek(ctx context.Context, st *manualState, offset int) (buf []byte, path string, local int, err error) {
	if !st.manual.Split() {
		return st.content, st.manual.Path, offset, nil
	}
	sf, ok := infodoc.SubfileFor(st.manual.Subfiles, offset)
	if !ok {
		sf = st.manual.Subfiles[0]
	}
	buf, path, err = e.subfile(ctx, st, sf)
	if err != nil {
		return nil, "", 0, err
	}
	return buf, path, offset - sf.Offset, nil
}

// scan searches every file of the manual from the start for a node header
// matching name.
func (e *Engine) scan(ctx context.Context, st *manualState, manual, name string, fold bool) (*infodoc.NodeLocation, error) {
	strategy := infodoc.StrategyScan
	if fold {
		strategy = infodoc.StrategyScanFolded
	}
	var loc *infodoc.NodeLocation
	err := e.eachFile(ctx, st, func(path string, buf []byte) bool {
		if span, ok := findInWindow(buf, 0, len(buf), name, fold); ok {
			loc = infodoc.NewNodeLocation(manual, path, buf, span, strategy)
			return false
		}
		return true
	})
	return loc, err
}

// findInWindow returns the first node named name whose delimiter lies in
// [lo, hi].
func findInWindow(buf []byte, lo, hi int, name string, fold bool) (infodoc.NodeSpan, bool) {
	name = infodoc.NormalizeNodeName(name)
	for s, ok := infodoc.NextNode(buf, max(lo, 0)); ok && s.Delim <= hi; s, ok = infodoc.NextNode(buf, s.Start) {
		if s.Header.Node == name || (fold && strings.EqualFold(s.Header.Node, name)) {
			return s, true
		}
	}
	return infodoc.NodeSpan{}, false
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
