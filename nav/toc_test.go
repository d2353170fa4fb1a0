package nav_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fwojciec/infodoc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_Toc(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeEmacs(t, dir)
	e, _ := newEngine(dir)

	toc, err := e.Toc(context.Background(), "emacs")
	require.NoError(t, err)

	t.Run("top children follow the menu", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, []string{"Intro", "Killing", "Key Index", "Glossary"}, toc["Top"].Children)
		assert.Empty(t, toc["Top"].Parent)
	})

	t.Run("sections come from menu headings", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, toc["Intro"].Section)
		assert.Equal(t, "Editing", toc["Killing"].Section)
		assert.Equal(t, "Appendices", toc["Glossary"].Section)
		assert.Equal(t, "Editing", toc["Yanking"].Section, "descendants inherit the section")
	})

	t.Run("nested nodes", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, []string{"Yanking"}, toc["Killing"].Children)
		assert.Equal(t, "Killing", toc["Yanking"].Parent)
	})
}

func TestEngine_Toc_Idempotent(t *testing.T) {
	t.Parallel()

	// Given an unmodified manual
	dir := t.TempDir()
	writeEmacs(t, dir)
	e, _ := newEngine(dir)
	fresh, _ := newEngine(dir)

	// When the table of contents is built repeatedly and by another engine
	first, err := e.Toc(context.Background(), "emacs")
	require.NoError(t, err)
	second, err := e.Toc(context.Background(), "emacs")
	require.NoError(t, err)
	rebuilt, err := fresh.Toc(context.Background(), "emacs")
	require.NoError(t, err)

	// Then the results are structurally identical
	assert.Equal(t, first, second)
	assert.Equal(t, first, rebuilt)
}

func TestEngine_Toc_ForeignUp(t *testing.T) {
	t.Parallel()

	// Given a node whose Up pointer leaves the manual
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "m.info"), buildInfo("m.info",
		testNode{name: "Top", up: "(dir)", body: "* Menu:\n\n* Local::\n"},
		testNode{name: "Local", up: "Top", body: "Local."},
		testNode{name: "Stray", up: "(other)Top", body: "Stray."},
		testNode{name: "Lost", up: "Nowhere", body: "Lost."},
	))
	e, _ := newEngine(dir)

	toc, err := e.Toc(context.Background(), "m")

	// Then it has no local parent
	require.NoError(t, err)
	assert.Empty(t, toc["Stray"].Parent)
	assert.Empty(t, toc["Lost"].Parent)
	assert.Equal(t, []string{"Local"}, toc["Top"].Children)

	var walked []string
	toc.Walk(infodoc.TopNode, func(e infodoc.TocEntry, _ int) { walked = append(walked, e.Node) })
	assert.Equal(t, []string{"Top", "Local"}, walked)
}

func TestEngine_Toc_Split(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	main, subs := buildSplit("emacs.info", emacsNodes[:3], emacsNodes[3:])
	writeFile(t, filepath.Join(dir, "emacs.info"), main)
	writeFile(t, filepath.Join(dir, "emacs.info-1"), subs[0])
	writeFile(t, filepath.Join(dir, "emacs.info-2"), subs[1])
	e, _ := newEngine(dir)

	toc, err := e.Toc(context.Background(), "emacs")

	require.NoError(t, err)
	assert.Len(t, toc, len(emacsNodes))
	assert.Equal(t, "Killing", toc["Yanking"].Parent)
}
