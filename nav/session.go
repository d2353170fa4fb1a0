package nav

import (
	"context"
	"strings"

	"github.com/fwojciec/infodoc"
)

// FallbackPolicy decides what Goto does when a node cannot be found.
type FallbackPolicy int

const (
	// FallbackNone reports the failure.
	FallbackNone FallbackPolicy = iota
	// FallbackHistory redisplays the current location.
	FallbackHistory
	// FallbackTop goes to the requested manual's Top node.
	FallbackTop
)

// maxUpChain bounds Up-then-Next chains in ForwardNode.
const maxUpChain = 64

// Session is one navigation session: the current node, its history and
// the caches of index and apropos searches made in it. A Session must not
// be used concurrently.
type Session struct {
	Engine   *Engine
	History  *infodoc.History
	Fallback FallbackPolicy

	// Strict disables the case-insensitive node lookup fallback.
	Strict bool

	current *infodoc.NodeLocation

	indexResults map[indexKey][]infodoc.IndexEntry
	indexOrder   []indexKey
	indexCursor  indexKey
	indexPos     int

	apropos       map[string]*AproposResult
	aproposTopics []string
}

type indexKey struct {
	manual string
	topic  string
}

// NewSession returns a session navigating with e.
func NewSession(e *Engine) *Session {
	return &Session{
		Engine:       e,
		History:      &infodoc.History{},
		indexResults: make(map[indexKey][]infodoc.IndexEntry),
		apropos:      make(map[string]*AproposResult),
	}
}

// Current returns the current node, nil before the first navigation.
func (s *Session) Current() *infodoc.NodeLocation {
	return s.current
}

// SetPoint records the reading position within the current node.
func (s *Session) SetPoint(point int) {
	if s.current != nil {
		s.current.Point = point
	}
	s.History.SetPoint(point)
}

// Find resolves a node without touching history. Virtual manuals and
// nodes are generated by their registered handler; everything else is
// resolved by the engine. An empty manual means the current manual.
func (s *Session) Find(ctx context.Context, manual, node string) (*infodoc.NodeLocation, error) {
	ref := infodoc.ParseNodeRef(node)
	if ref.Manual != "" {
		manual = ref.Manual
	}
	if manual == "" {
		if s.current == nil {
			return nil, infodoc.Errorf(infodoc.EINVALID, "no manual given and no current manual")
		}
		manual = s.current.Manual
	}
	name := ref.Node
	if name == "" {
		name = infodoc.TopNode
	}

	h, ok := s.Engine.Registry.Lookup(manual, name)
	if !ok {
		return s.Engine.Resolve(ctx, manual, name, s.Strict)
	}
	manual, err := s.findFile(ctx, h, manual)
	if err != nil {
		return nil, err
	}
	buf, err := h.FindNode(ctx, s, manual, name)
	if err != nil {
		return nil, err
	}
	span, ok := infodoc.NextNode(buf, 0)
	if !ok {
		return nil, infodoc.Errorf(infodoc.EINTERNAL, "virtual node %s has no header", infodoc.NodeRef{Manual: manual, Node: name})
	}
	return infodoc.NewNodeLocation(manual, "", buf, span, infodoc.StrategyVirtual), nil
}

// Goto resolves a node and makes it current, recording the previous
// location in history. On failure the session is left unchanged unless
// the fallback policy redirects to another node.
func (s *Session) Goto(ctx context.Context, manual, node string) (*infodoc.NodeLocation, error) {
	loc, err := s.Find(ctx, manual, node)
	if err == nil {
		s.visit(loc)
		return loc, nil
	}
	if infodoc.ErrorCode(err) != infodoc.ENONODE {
		return nil, err
	}

	switch s.Fallback {
	case FallbackHistory:
		if s.current == nil {
			return nil, err
		}
		cur, ferr := s.Find(ctx, s.current.Manual, s.current.Name)
		if ferr != nil {
			return nil, err
		}
		cur.Point = s.current.Point
		s.Engine.logger().Warn("node not found, staying on current node",
			"requested", infodoc.ErrorMessage(err),
			"current", cur.Ref().String(),
		)
		s.current = cur
		return cur, nil
	case FallbackTop:
		target := manual
		if ref := infodoc.ParseNodeRef(node); ref.Manual != "" {
			target = ref.Manual
		} else if target == "" && s.current != nil {
			target = s.current.Manual
		}
		top, terr := s.Find(ctx, target, infodoc.TopNode)
		if terr != nil {
			return nil, err
		}
		s.Engine.logger().Warn("node not found, going to Top",
			"requested", infodoc.ErrorMessage(err),
			"manual", target,
		)
		s.visit(top)
		return top, nil
	}
	return nil, err
}

func (s *Session) visit(loc *infodoc.NodeLocation) {
	s.History.Visit(infodoc.HistoryRecord{Manual: loc.Manual, Node: loc.Name, Point: loc.Point})
	s.current = loc
}

// Back returns to the previous location. The location left is pushed on
// the forward stack.
func (s *Session) Back(ctx context.Context) (*infodoc.NodeLocation, error) {
	return s.replay(ctx, s.History.Back)
}

// Forward undoes a Back.
func (s *Session) Forward(ctx context.Context) (*infodoc.NodeLocation, error) {
	return s.replay(ctx, s.History.Forward)
}

func (s *Session) replay(ctx context.Context, move func() (infodoc.HistoryRecord, error)) (*infodoc.NodeLocation, error) {
	s.History.SetPoint(s.pointOf(s.current))
	snap := s.History.Snapshot()
	rec, err := move()
	if err != nil {
		return nil, err
	}
	loc, err := s.Find(ctx, rec.Manual, rec.Node)
	if err != nil {
		s.History.Restore(snap)
		return nil, err
	}
	loc.Point = rec.Point
	s.current = loc
	return loc, nil
}

func (s *Session) pointOf(loc *infodoc.NodeLocation) int {
	if loc == nil {
		return 0
	}
	return loc.Point
}

// Next goes to the current node's Next pointer.
func (s *Session) Next(ctx context.Context) (*infodoc.NodeLocation, error) {
	return s.follow(ctx, "Next", func(l *infodoc.NodeLocation) infodoc.NodeRef { return l.Next })
}

// Prev goes to the current node's Prev pointer.
func (s *Session) Prev(ctx context.Context) (*infodoc.NodeLocation, error) {
	return s.follow(ctx, "Prev", func(l *infodoc.NodeLocation) infodoc.NodeRef { return l.Prev })
}

// Up goes to the current node's Up pointer.
func (s *Session) Up(ctx context.Context) (*infodoc.NodeLocation, error) {
	return s.follow(ctx, "Up", func(l *infodoc.NodeLocation) infodoc.NodeRef { return l.Up })
}

func (s *Session) follow(ctx context.Context, kind string, ptr func(*infodoc.NodeLocation) infodoc.NodeRef) (*infodoc.NodeLocation, error) {
	if s.current == nil {
		return nil, infodoc.Errorf(infodoc.EINVALID, "no current node")
	}
	ref := ptr(s.current)
	if ref.Node == "" {
		return nil, infodoc.Errorf(infodoc.ENOPOINTER, "Node has no %s", kind)
	}
	manual := ref.Manual
	if manual == "" {
		manual = s.current.Manual
	}
	return s.Goto(ctx, manual, ref.Node)
}

// Top goes to the Top node of the current manual.
func (s *Session) Top(ctx context.Context) (*infodoc.NodeLocation, error) {
	return s.Goto(ctx, "", infodoc.TopNode)
}

// Dir goes to the merged directory.
func (s *Session) Dir(ctx context.Context) (*infodoc.NodeLocation, error) {
	return s.Goto(ctx, infodoc.DirManual, infodoc.TopNode)
}

// Menu follows the current node's menu item matching label.
// Returns ENOMENU if the node has no menu and ENOMENUITEM if no item
// matches.
func (s *Session) Menu(ctx context.Context, label string) (*infodoc.NodeLocation, error) {
	if s.current == nil {
		return nil, infodoc.Errorf(infodoc.EINVALID, "no current node")
	}
	menu, err := s.current.Menu()
	if err != nil {
		return nil, err
	}
	it, ok := menu.Find(label)
	if !ok {
		return nil, infodoc.Errorf(infodoc.ENOMENUITEM, "No such item in menu: %s", label)
	}
	return s.gotoItem(ctx, it)
}

func (s *Session) gotoItem(ctx context.Context, it infodoc.MenuItem) (*infodoc.NodeLocation, error) {
	manual := it.Target.Manual
	if manual == "" {
		manual = s.current.Manual
	}
	return s.Goto(ctx, manual, it.Target.Node)
}

// ForwardNode moves to the next node in reading order: the first menu
// item, else the Next node, else the Next node of the nearest ancestor
// that has one. With History.SkipIntermediate set, the ancestors passed
// through are not recorded in history.
func (s *Session) ForwardNode(ctx context.Context) (*infodoc.NodeLocation, error) {
	if s.current == nil {
		return nil, infodoc.Errorf(infodoc.EINVALID, "no current node")
	}
	snap := s.History.Snapshot()
	cur := s.current

	loc, err := s.forwardNode(ctx)
	if err != nil {
		s.History.Restore(snap)
		s.current = cur
		return nil, err
	}
	if s.History.SkipIntermediate {
		s.History.Restore(snap)
		s.visit(loc)
	}
	return loc, nil
}

func (s *Session) forwardNode(ctx context.Context) (*infodoc.NodeLocation, error) {
	if menu, err := s.current.Menu(); err == nil && len(menu.Items) > 0 {
		return s.gotoItem(ctx, menu.Items[0])
	}
	if s.current.Next.Node != "" {
		return s.Next(ctx)
	}
	for i := 0; i < maxUpChain; i++ {
		up := s.current.Up
		if up.Node == "" || up.Foreign() || strings.EqualFold(up.Node, infodoc.TopNode) {
			break
		}
		if _, err := s.Up(ctx); err != nil {
			return nil, err
		}
		if s.current.Next.Node != "" {
			return s.Next(ctx)
		}
	}
	return nil, infodoc.Errorf(infodoc.ENOPOINTER, "No more nodes within this document")
}

func (s *Session) findFile(ctx context.Context, h VirtualHandler, manual string) (string, error) {
	if ff, ok := h.(FileFinder); ok {
		return ff.FindFile(ctx, s, manual)
	}
	return manual, nil
}

// Toc returns the table of contents of a manual, real or virtual.
func (s *Session) Toc(ctx context.Context, manual string) (infodoc.Toc, error) {
	if h, ok := s.Engine.Registry.LookupFile(manual); ok {
		if tl, ok := h.(TocLister); ok {
			manual, err := s.findFile(ctx, h, manual)
			if err != nil {
				return nil, err
			}
			return tl.TocNodes(ctx, s, manual)
		}
		return nil, infodoc.Errorf(infodoc.EINVALID, "manual %s has no table of contents", manual)
	}
	return s.Engine.Toc(ctx, manual)
}

// Index looks topic up in the current manual's index and goes to the first
// match. Later matches are visited with IndexNext.
func (s *Session) Index(ctx context.Context, topic string) (*infodoc.NodeLocation, error) {
	if s.current == nil {
		return nil, infodoc.Errorf(infodoc.EINVALID, "no current manual")
	}
	manual := s.current.Manual
	matches, err := s.indexMatches(ctx, manual, topic)
	if err != nil {
		return nil, err
	}
	loc, err := s.gotoIndexEntry(ctx, matches[0])
	if err != nil {
		return nil, err
	}
	s.indexCursor, s.indexPos = indexKey{manual: manual, topic: topic}, 0
	return loc, nil
}

// IndexNext goes to the next match of the last Index search, wrapping
// around after the last one.
func (s *Session) IndexNext(ctx context.Context) (*infodoc.NodeLocation, error) {
	matches, ok := s.indexResults[s.indexCursor]
	if !ok || len(matches) == 0 {
		return nil, infodoc.Errorf(infodoc.ENOTFOUND, "No previous index search")
	}
	pos := (s.indexPos + 1) % len(matches)
	loc, err := s.gotoIndexEntry(ctx, matches[pos])
	if err != nil {
		return nil, err
	}
	s.indexPos = pos
	return loc, nil
}

func (s *Session) gotoIndexEntry(ctx context.Context, e infodoc.IndexEntry) (*infodoc.NodeLocation, error) {
	ref := infodoc.ParseNodeRef(e.Node)
	manual := ref.Manual
	if manual == "" {
		manual = e.Manual
	}
	loc, err := s.Goto(ctx, manual, ref.Node)
	if err != nil {
		return nil, err
	}
	if e.Line > 0 {
		s.SetPoint(lineOffset(loc.Text, e.Line))
	}
	return loc, nil
}

// lineOffset returns the offset of the start of the given 1-based line.
func lineOffset(text string, line int) int {
	off := 0
	for i := 1; i < line; i++ {
		j := strings.IndexByte(text[off:], '\n')
		if j < 0 {
			break
		}
		off += j + 1
	}
	return off
}

// indexMatches returns the cached index matches of topic in manual,
// searching the manual's index on first use.
func (s *Session) indexMatches(ctx context.Context, manual, topic string) ([]infodoc.IndexEntry, error) {
	key := indexKey{manual: manual, topic: topic}
	if m, ok := s.indexResults[key]; ok {
		return m, nil
	}
	matches, err := s.Engine.IndexSearch(ctx, manual, topic)
	if err != nil {
		return nil, err
	}
	s.indexResults[key] = matches
	s.indexOrder = append(s.indexOrder, key)
	return matches, nil
}

// indexTopics returns the topics searched so far in manual.
func (s *Session) indexTopics(manual string) []string {
	var topics []string
	for _, k := range s.indexOrder {
		if k.manual == manual {
			topics = append(topics, k.topic)
		}
	}
	return topics
}

// Apropos searches every manual's index for topic. Results are cached for
// the session.
func (s *Session) Apropos(ctx context.Context, topic string) (*AproposResult, error) {
	if res, ok := s.apropos[topic]; ok {
		return res, nil
	}
	res, err := s.Engine.Apropos(ctx, topic)
	if err != nil {
		return nil, err
	}
	if len(res.Entries) == 0 {
		return nil, infodoc.Errorf(infodoc.ENOTFOUND, "No apropos matches for %q", topic)
	}
	s.apropos[topic] = res
	s.aproposTopics = append(s.aproposTopics, topic)
	return res, nil
}
