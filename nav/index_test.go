package nav_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/infodoc"
	"github.com/fwojciec/infodoc/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var killLine = infodoc.IndexEntry{Manual: "emacs", Entry: "kill-line", Node: "Killing", Line: 12}

func TestEngine_IndexNodes(t *testing.T) {
	t.Parallel()

	t.Run("finds nodes carrying the index cookie", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeEmacs(t, dir)
		e, _ := newEngine(dir)

		nodes, err := e.IndexNodes(context.Background(), "emacs")

		require.NoError(t, err)
		assert.Equal(t, []string{"Key Index"}, nodes)
	})

	t.Run("older generators fall back to the Top menu", func(t *testing.T) {
		t.Parallel()

		// Given a manual produced before index cookies existed
		dir := t.TempDir()
		text := buildInfo("old.info",
			testNode{name: "Top", next: "Body", up: "(dir)", body: "* Menu:\n\n* Body::\n* Command Index::\n"},
			testNode{name: "Body", next: "Command Index", prev: "Top", up: "Top", body: "Body."},
			testNode{name: "Command Index", next: "Variable Index", prev: "Body", up: "Top", body: "* Menu:\n\n* run:  Body.  (line 1)\n"},
			testNode{name: "Variable Index", next: "About", prev: "Command Index", up: "Top", body: "* Menu:\n\n* path:  Body.  (line 2)\n"},
			testNode{name: "About", prev: "Variable Index", up: "Top", body: "About."},
		)
		text = strings.Replace(text, "texi2any version 7.1", "makeinfo version 4.2", 1)
		writeFile(t, filepath.Join(dir, "old.info"), text)
		e, _ := newEngine(dir)

		// When its index nodes are requested
		nodes, err := e.IndexNodes(context.Background(), "old")

		// Then the run of Index nodes reached from Top is returned
		require.NoError(t, err)
		assert.Equal(t, []string{"Command Index", "Variable Index"}, nodes)

		entries, err := e.IndexEntries(context.Background(), "old")
		require.NoError(t, err)
		assert.Equal(t, []infodoc.IndexEntry{
			{Manual: "old", Entry: "run", Node: "Body", Line: 1},
			{Manual: "old", Entry: "path", Node: "Body", Line: 2},
		}, entries)
	})

	t.Run("manual without an index", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "small.info"), buildInfo("small.info",
			testNode{name: "Top", up: "(dir)", body: "* Menu:\n\n* Intro::\n"},
			testNode{name: "Intro", up: "Top", body: "Intro."},
		))
		e, _ := newEngine(dir)

		_, err := e.IndexNodes(context.Background(), "small")

		assert.Equal(t, infodoc.ENOINDEX, infodoc.ErrorCode(err))
	})
}

func TestEngine_IndexEntries(t *testing.T) {
	t.Parallel()

	t.Run("parses entries in file order", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeEmacs(t, dir)
		e, _ := newEngine(dir)

		entries, err := e.IndexEntries(context.Background(), "emacs")

		require.NoError(t, err)
		assert.Equal(t, []infodoc.IndexEntry{
			{Manual: "emacs", Entry: "C-k", Node: "Killing", Line: 6},
			{Manual: "emacs", Entry: "C-y", Node: "Yanking", Line: 4},
			killLine,
		}, entries)
	})

	t.Run("cache miss saves parsed entries", func(t *testing.T) {
		t.Parallel()

		// Given an index cache holding nothing for the manual
		dir := t.TempDir()
		writeEmacs(t, dir)
		e, _ := newEngine(dir)
		var finds int
		var saved []infodoc.IndexEntry
		var savedFor *infodoc.Manual
		e.IndexCache = &mock.IndexCache{
			FindIndexEntriesFn: func(_ context.Context, _ *infodoc.Manual) ([]infodoc.IndexEntry, error) {
				finds++
				return nil, infodoc.Errorf(infodoc.ENOTFOUND, "not cached")
			},
			SaveIndexEntriesFn: func(_ context.Context, m *infodoc.Manual, entries []infodoc.IndexEntry) error {
				savedFor = m
				saved = entries
				return nil
			},
		}

		// When entries are requested twice
		first, err := e.IndexEntries(context.Background(), "emacs")
		require.NoError(t, err)
		second, err := e.IndexEntries(context.Background(), "emacs")
		require.NoError(t, err)

		// Then the manual is parsed once and the result stored
		assert.Equal(t, 1, finds)
		assert.Equal(t, first, saved)
		assert.Equal(t, first, second)
		require.NotNil(t, savedFor)
		assert.Equal(t, "emacs", savedFor.Name)
		assert.NotEmpty(t, savedFor.Fingerprint)
	})

	t.Run("cache hit skips parsing", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeEmacs(t, dir)
		e, _ := newEngine(dir)
		cached := []infodoc.IndexEntry{{Manual: "emacs", Entry: "cached", Node: "Intro"}}
		e.IndexCache = &mock.IndexCache{
			FindIndexEntriesFn: func(_ context.Context, _ *infodoc.Manual) ([]infodoc.IndexEntry, error) {
				return cached, nil
			},
			SaveIndexEntriesFn: func(_ context.Context, _ *infodoc.Manual, _ []infodoc.IndexEntry) error {
				t.Fatal("unexpected save on cache hit")
				return nil
			},
		}

		entries, err := e.IndexEntries(context.Background(), "emacs")

		require.NoError(t, err)
		assert.Equal(t, cached, entries)
	})

	t.Run("cache failures are not fatal", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeEmacs(t, dir)
		e, logs := newEngine(dir)
		e.IndexCache = &mock.IndexCache{
			FindIndexEntriesFn: func(_ context.Context, _ *infodoc.Manual) ([]infodoc.IndexEntry, error) {
				return nil, infodoc.Errorf(infodoc.EINTERNAL, "database is locked")
			},
			SaveIndexEntriesFn: func(_ context.Context, _ *infodoc.Manual, _ []infodoc.IndexEntry) error {
				return infodoc.Errorf(infodoc.EINTERNAL, "database is locked")
			},
		}

		entries, err := e.IndexEntries(context.Background(), "emacs")

		require.NoError(t, err)
		assert.Len(t, entries, 3)
		assert.Contains(t, logs.String(), "index cache lookup failed")
		assert.Contains(t, logs.String(), "index cache update failed")
	})
}

func TestEngine_IndexSearch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeEmacs(t, dir)
	e, _ := newEngine(dir)

	t.Run("matches substrings ignoring case", func(t *testing.T) {
		t.Parallel()

		matches, err := e.IndexSearch(context.Background(), "emacs", "KILL")

		require.NoError(t, err)
		assert.Equal(t, []infodoc.IndexEntry{killLine}, matches)
	})

	t.Run("no match", func(t *testing.T) {
		t.Parallel()

		_, err := e.IndexSearch(context.Background(), "emacs", "frobnicate")

		assert.Equal(t, infodoc.ENOTFOUND, infodoc.ErrorCode(err))
		assert.Equal(t, `No "frobnicate" in index`, infodoc.ErrorMessage(err))
	})
}
