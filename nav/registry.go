package nav

import (
	"context"
	"fmt"
	"regexp"

	"github.com/fwojciec/infodoc"
)

// VirtualHandler generates the text of nodes of a virtual manual. The
// returned buffer must hold a node delimiter line followed by a node
// header, like a real Info file.
type VirtualHandler interface {
	FindNode(ctx context.Context, s *Session, manual, node string) ([]byte, error)
}

// FileFinder is implemented by handlers that canonicalize the manual name
// before nodes are generated. The returned name is the one recorded in
// history and node headers.
type FileFinder interface {
	FindFile(ctx context.Context, s *Session, manual string) (string, error)
}

// TocLister is implemented by handlers that can list their nodes as a
// table of contents.
type TocLister interface {
	TocNodes(ctx context.Context, s *Session, manual string) (infodoc.Toc, error)
}

// Registry maps manual and node name patterns to virtual handlers. Manual
// patterns are consulted before node patterns; within each list the first
// registered match wins.
type Registry struct {
	files []virtualEntry
	nodes []virtualEntry
}

type virtualEntry struct {
	pattern *regexp.Regexp
	handler VirtualHandler
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// RegisterFile routes every node of manuals matching pattern to h.
func (r *Registry) RegisterFile(pattern string, h VirtualHandler) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid virtual file pattern %q: %w", pattern, err)
	}
	r.files = append(r.files, virtualEntry{pattern: re, handler: h})
	return nil
}

// RegisterNode routes nodes matching pattern, in any manual, to h.
func (r *Registry) RegisterNode(pattern string, h VirtualHandler) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid virtual node pattern %q: %w", pattern, err)
	}
	r.nodes = append(r.nodes, virtualEntry{pattern: re, handler: h})
	return nil
}

// Lookup returns the handler for a manual and node, if any.
func (r *Registry) Lookup(manual, node string) (VirtualHandler, bool) {
	if r == nil {
		return nil, false
	}
	for _, ent := range r.files {
		if ent.pattern.MatchString(manual) {
			return ent.handler, true
		}
	}
	for _, ent := range r.nodes {
		if ent.pattern.MatchString(node) {
			return ent.handler, true
		}
	}
	return nil, false
}

// LookupFile returns the handler registered for a manual name, ignoring
// node patterns.
func (r *Registry) LookupFile(manual string) (VirtualHandler, bool) {
	if r == nil {
		return nil, false
	}
	for _, ent := range r.files {
		if ent.pattern.MatchString(manual) {
			return ent.handler, true
		}
	}
	return nil, false
}

// Names of the built-in virtual manuals.
const (
	HistoryManual = "*History*"
	AproposManual = "*Apropos*"
	FinderManual  = "*Finder*"
	TocNode       = "*TOC*"
	IndexNode     = "*Index*"
)

// DefaultRegistry returns a registry with the merged directory, history,
// apropos, finder, table of contents and index views registered. Virtual
// manual names match in any case and are reported under their canonical
// spelling.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	mustRegister(r.RegisterFile(`(?i)^dir$`, dirHandler{}))
	mustRegister(r.RegisterFile(`(?i)^\*History\*$`, historyHandler{}))
	mustRegister(r.RegisterFile(`(?i)^\*Apropos\*$`, aproposHandler{}))
	mustRegister(r.RegisterFile(`(?i)^\*Finder\*$`, finderHandler{}))
	mustRegister(r.RegisterNode(`^\*TOC\*$`, tocHandler{}))
	mustRegister(r.RegisterNode(`^\*Index.*\*$`, indexHandler{}))
	return r
}

func mustRegister(err error) {
	if err != nil {
		panic(err)
	}
}
