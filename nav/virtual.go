package nav

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/fwojciec/infodoc"
)

// writeHeader writes a node delimiter line and a node header.
func writeHeader(b *strings.Builder, manual, node, up string) {
	b.WriteString("\x1f\n")
	fmt.Fprintf(b, "File: %s,  Node: %s", manual, node)
	if up != "" {
		fmt.Fprintf(b, ",  Up: %s", up)
	}
	b.WriteString("\n\n")
}

// writeTitle writes an underlined title.
func writeTitle(b *strings.Builder, title string) {
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(strings.Repeat("*", len([]rune(title))))
	b.WriteString("\n\n")
}

func writeIndexEntry(b *strings.Builder, label, target string, line int) {
	fmt.Fprintf(b, "* %s: %s.", label, target)
	if line > 0 {
		fmt.Fprintf(b, "  (line %d)", line)
	}
	b.WriteString("\n")
}

func noNode(manual, node string) error {
	return infodoc.Errorf(infodoc.ENONODE, "No such node or anchor: %s", infodoc.NodeRef{Manual: manual, Node: node})
}

func isTop(node string) bool {
	return node == "" || strings.EqualFold(node, infodoc.TopNode)
}

// dirHandler serves the directory merged from all dir files.
type dirHandler struct{}

func (dirHandler) FindFile(ctx context.Context, s *Session, manual string) (string, error) {
	return "dir", nil
}

func (dirHandler) FindNode(ctx context.Context, s *Session, manual, node string) ([]byte, error) {
	if !isTop(node) {
		return nil, noNode(manual, node)
	}
	return s.Engine.Dir(ctx)
}

// historyHandler lists visited nodes, most recent first.
type historyHandler struct{}

func (historyHandler) FindFile(ctx context.Context, s *Session, manual string) (string, error) {
	return HistoryManual, nil
}

func (historyHandler) FindNode(ctx context.Context, s *Session, manual, node string) ([]byte, error) {
	if !isTop(node) {
		return nil, noNode(manual, node)
	}
	var b strings.Builder
	writeHeader(&b, HistoryManual, infodoc.TopNode, "(dir)")
	writeTitle(&b, "Recently Visited Nodes")
	b.WriteString("* Menu:\n\n")
	recs := s.History.Records()
	for i := len(recs) - 1; i >= 0; i-- {
		r := recs[i]
		if r.Manual == HistoryManual {
			continue
		}
		fmt.Fprintf(&b, "* %s: %s.\n", r.Node, r.Ref())
	}
	return []byte(b.String()), nil
}

func (historyHandler) TocNodes(ctx context.Context, s *Session, manual string) (infodoc.Toc, error) {
	return infodoc.Toc{infodoc.TopNode: {Node: infodoc.TopNode}}, nil
}

// tocHandler renders the table of contents of the manual it is asked for.
type tocHandler struct{}

func (tocHandler) FindNode(ctx context.Context, s *Session, manual, node string) ([]byte, error) {
	toc, err := s.Toc(ctx, manual)
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	writeHeader(&b, manual, TocNode, infodoc.TopNode)
	writeTitle(&b, "Table of Contents")
	b.WriteString("* Menu:\n\n")
	var section string
	toc.Walk(infodoc.TopNode, func(ent infodoc.TocEntry, depth int) {
		if depth == 1 && ent.Section != section {
			section = ent.Section
			if section != "" {
				fmt.Fprintf(&b, "\n%s\n", section)
			}
		}
		fmt.Fprintf(&b, "%s* %s::\n", strings.Repeat("  ", depth), ent.Node)
	})
	return []byte(b.String()), nil
}

var indexTopicRe = regexp.MustCompile(`^\*Index for [‘'"](.*)[’'"]\*$`)

// IndexTopicNode returns the name of the virtual node listing the index
// matches for topic.
func IndexTopicNode(topic string) string {
	return "*Index for ‘" + topic + "’*"
}

// indexHandler lists the index matches of a topic, or every topic searched
// so far in the manual.
type indexHandler struct{}

func (indexHandler) FindNode(ctx context.Context, s *Session, manual, node string) ([]byte, error) {
	var b strings.Builder
	if node == IndexNode {
		writeHeader(&b, manual, IndexNode, infodoc.TopNode)
		writeTitle(&b, "Virtual Index")
		b.WriteString("* Menu:\n\n")
		for _, topic := range s.indexTopics(manual) {
			fmt.Fprintf(&b, "* %s: %s.\n", topic, IndexTopicNode(topic))
		}
		return []byte(b.String()), nil
	}

	m := indexTopicRe.FindStringSubmatch(node)
	if m == nil {
		return nil, noNode(manual, node)
	}
	topic := m[1]
	matches, err := s.indexMatches(ctx, manual, topic)
	if err != nil {
		return nil, err
	}
	writeHeader(&b, manual, IndexTopicNode(topic), IndexNode)
	writeTitle(&b, "Index for ‘"+topic+"’")
	b.WriteString("* Menu:\n\n")
	for _, e := range matches {
		writeIndexEntry(&b, e.Entry, e.Node, e.Line)
	}
	return []byte(b.String()), nil
}

var aproposTopicRe = regexp.MustCompile(`^Index for [‘'"](.*)[’'"]$`)

// AproposNode returns the name of the apropos node listing matches for
// topic.
func AproposNode(topic string) string {
	return "Index for ‘" + topic + "’"
}

// aproposHandler lists index entries matching a topic across every manual
// in the directory.
type aproposHandler struct{}

func (aproposHandler) FindFile(ctx context.Context, s *Session, manual string) (string, error) {
	return AproposManual, nil
}

func (aproposHandler) FindNode(ctx context.Context, s *Session, manual, node string) ([]byte, error) {
	var b strings.Builder
	if isTop(node) {
		writeHeader(&b, AproposManual, infodoc.TopNode, "(dir)")
		writeTitle(&b, "Apropos Index")
		b.WriteString("* Menu:\n\n")
		for _, topic := range s.aproposTopics {
			fmt.Fprintf(&b, "* %s::\n", AproposNode(topic))
		}
		return []byte(b.String()), nil
	}

	m := aproposTopicRe.FindStringSubmatch(node)
	if m == nil {
		return nil, noNode(manual, node)
	}
	topic := m[1]
	res, err := s.Apropos(ctx, topic)
	if err != nil {
		return nil, err
	}
	writeHeader(&b, AproposManual, AproposNode(topic), infodoc.TopNode)
	writeTitle(&b, "Apropos Index")
	fmt.Fprintf(&b, "Index entries that match ‘%s’:\n\n", topic)
	b.WriteString("* Menu:\n\n")
	for _, e := range res.Entries {
		ref := infodoc.ParseNodeRef(e.Node)
		if ref.Manual == "" {
			ref.Manual = e.Manual
		}
		writeIndexEntry(&b, fmt.Sprintf("%s [%s]", e.Entry, e.Manual), ref.String(), e.Line)
	}
	return []byte(b.String()), nil
}

func (aproposHandler) TocNodes(ctx context.Context, s *Session, manual string) (infodoc.Toc, error) {
	toc := infodoc.Toc{}
	top := infodoc.TocEntry{Node: infodoc.TopNode}
	for _, topic := range s.aproposTopics {
		name := AproposNode(topic)
		top.Children = append(top.Children, name)
		toc[name] = infodoc.TocEntry{Node: name, Parent: infodoc.TopNode}
	}
	toc[infodoc.TopNode] = top
	return toc, nil
}

// finderHandler presents the directory's section headings as keywords.
type finderHandler struct{}

func (finderHandler) FindFile(ctx context.Context, s *Session, manual string) (string, error) {
	return FinderManual, nil
}

func (finderHandler) FindNode(ctx context.Context, s *Session, manual, node string) ([]byte, error) {
	sections, err := s.Engine.DirSections(ctx)
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	if isTop(node) {
		writeHeader(&b, FinderManual, infodoc.TopNode, "(dir)")
		writeTitle(&b, "Finder Keywords")
		b.WriteString("* Menu:\n\n")
		for _, sec := range sections {
			if sec.Heading != "" {
				fmt.Fprintf(&b, "* %s::\n", sec.Heading)
			}
		}
		return []byte(b.String()), nil
	}

	i := findSection(sections, node)
	if i < 0 || sections[i].Heading == "" {
		return nil, noNode(manual, node)
	}
	sec := sections[i]
	writeHeader(&b, FinderManual, sec.Heading, infodoc.TopNode)
	writeTitle(&b, "Manuals for keyword "+sec.Heading)
	b.WriteString("* Menu:\n\n")
	for _, ent := range sec.Entries {
		for _, line := range ent.Lines {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	return []byte(b.String()), nil
}

func (finderHandler) TocNodes(ctx context.Context, s *Session, manual string) (infodoc.Toc, error) {
	sections, err := s.Engine.DirSections(ctx)
	if err != nil {
		return nil, err
	}
	toc := infodoc.Toc{}
	top := infodoc.TocEntry{Node: infodoc.TopNode}
	for _, sec := range sections {
		if sec.Heading == "" {
			continue
		}
		top.Children = append(top.Children, sec.Heading)
		toc[sec.Heading] = infodoc.TocEntry{Node: sec.Heading, Parent: infodoc.TopNode}
	}
	toc[infodoc.TopNode] = top
	return toc, nil
}
