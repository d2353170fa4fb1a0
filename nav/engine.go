// Package nav implements node resolution, table of contents and index
// construction, directory merging, virtual manuals and navigation history
// on top of the infodoc locator and loader interfaces.
package nav

import (
	"context"
	"log/slog"
	"sync"

	"github.com/fwojciec/infodoc"
)

// Ensure Engine implements infodoc.NodeResolver at compile time.
var _ infodoc.NodeResolver = (*Engine)(nil)

// DefaultConcurrency is the number of manuals Apropos scans at once.
const DefaultConcurrency = 4

// Engine resolves nodes in Info manuals and memoizes per-manual derived
// structures. Cached state for a manual is rebuilt when the manual's
// modification time advances past the cached value.
//
// An Engine is safe for concurrent use; a Session is not.
type Engine struct {
	Locator    infodoc.ManualLocator
	Loader     infodoc.FileLoader
	IndexCache infodoc.IndexCache // optional
	Registry   *Registry
	Logger     *slog.Logger

	// Concurrency bounds the number of manuals Apropos scans at once.
	Concurrency int

	mu      sync.Mutex
	manuals map[string]*manualState
	dir     *dirState
}

// NewEngine returns an Engine with the default virtual manual registry.
func NewEngine(locator infodoc.ManualLocator, loader infodoc.FileLoader) *Engine {
	return &Engine{
		Locator:     locator,
		Loader:      loader,
		Registry:    DefaultRegistry(),
		Concurrency: DefaultConcurrency,
	}
}

// manualState is everything derived from one version of a manual on disk.
type manualState struct {
	manual  *infodoc.Manual
	content []byte
	tags    *infodoc.TagTable

	// Lazily built; guarded by Engine.mu.
	toc          infodoc.Toc
	indexNodes   []string
	indexEntries []infodoc.IndexEntry
}

func (e *Engine) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return e.Logger
}

// Manual returns the located manual with its derived subfile list, tag
// table presence and index cookie support filled in.
func (e *Engine) Manual(ctx context.Context, name string) (*infodoc.Manual, error) {
	st, err := e.load(ctx, name)
	if err != nil {
		return nil, err
	}
	m := *st.manual
	return &m, nil
}

// TagTable returns the parsed tag table of a manual, or nil if it has
// none or it is malformed.
func (e *Engine) TagTable(ctx context.Context, name string) (*infodoc.TagTable, error) {
	st, err := e.load(ctx, name)
	if err != nil {
		return nil, err
	}
	return st.tags, nil
}

// load returns the cached state of a manual, reading it from disk on first
// access or when its modification time has advanced.
func (e *Engine) load(ctx context.Context, name string) (*manualState, error) {
	m, err := e.Locator.LocateManual(ctx, name)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	st, ok := e.manuals[m.Path]
	e.mu.Unlock()
	if ok && !m.ModTime.After(st.manual.ModTime) {
		return st, nil
	}

	content, err := e.Loader.LoadFile(ctx, &m.File)
	if err != nil {
		return nil, err
	}

	st = &manualState{manual: m, content: content}
	st.tags, err = infodoc.ParseTagTable(content)
	if err != nil {
		e.logger().Warn("ignoring malformed tag table", "manual", name, "path", m.Path, "err", err)
		st.tags = nil
	}

	if st.tags != nil && st.tags.Indirect {
		m.Subfiles = st.tags.Subfiles
	} else if subfiles, err := infodoc.ParseIndirect(content); err != nil {
		e.logger().Warn("ignoring malformed indirect file list", "manual", name, "path", m.Path, "err", err)
	} else {
		m.Subfiles = subfiles
	}
	m.HasTagTable = st.tags != nil
	m.IndexCookies = infodoc.SupportsIndexCookies(content)

	e.mu.Lock()
	if e.manuals == nil {
		e.manuals = make(map[string]*manualState)
	}
	if ok {
		e.logger().Debug("manual changed on disk", "manual", name, "path", m.Path)
	}
	e.manuals[m.Path] = st
	e.mu.Unlock()
	return st, nil
}

// Invalidate drops all cached manual state.
func (e *Engine) Invalidate() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.manuals = nil
	e.dir = nil
}

// subfile loads one indirect subfile of a manual.
func (e *Engine) subfile(ctx context.Context, st *manualState, sf infodoc.Subfile) ([]byte, string, error) {
	f, err := e.Locator.LocateSubfile(ctx, st.manual, sf.Name)
	if err != nil {
		return nil, "", err
	}
	buf, err := e.Loader.LoadFile(ctx, f)
	if err != nil {
		return nil, "", err
	}
	return buf, f.Path, nil
}

// eachFile calls fn with the contents of every file holding nodes of the
// manual: the subfiles in order when the manual is split, otherwise the
// main file. Iteration stops when fn returns false.
func (e *Engine) eachFile(ctx context.Context, st *manualState, fn func(path string, buf []byte) bool) error {
	if !st.manual.Split() {
		fn(st.manual.Path, st.content)
		return nil
	}
	for _, sf := range st.manual.Subfiles {
		if err := ctx.Err(); err != nil {
			return err
		}
		buf, path, err := e.subfile(ctx, st, sf)
		if err != nil {
			return err
		}
		if !fn(path, buf) {
			return nil
		}
	}
	return nil
}

// memo runs fn with the engine lock held.
func (e *Engine) memo(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn()
}
