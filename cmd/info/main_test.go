package main_test

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/infodoc"
	main "github.com/fwojciec/infodoc/cmd/info"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var commands = []string{"node", "toc", "index", "apropos", "dir", "tags", "cache"}

// emacsInfo returns a small tagged manual.
func emacsInfo() string {
	nodes := []struct{ header, body string }{
		{"Node: Top,  Next: Killing,  Up: (dir)", "The Emacs Editor\n****************\n\n* Menu:\n\nEditing\n* Killing::         Killing and yanking.\n\nAppendices\n* Key Index::       Keys.\n"},
		{"Node: Killing,  Next: Key Index,  Prev: Top,  Up: Top", "Killing\n*******\n\nC-k kills a line.\n"},
		{"Node: Key Index,  Prev: Killing,  Up: Top", "Key Index\n*********\n\n\x00\b[index\x00\b]\n* Menu:\n\n" +
			"* C-k:                                   Killing.             (line 5)\n" +
			"* kill-line:                             Killing.             (line 5)\n"},
	}
	var b, tags strings.Builder
	b.WriteString("This is emacs.info, produced by texi2any version 7.1 from emacs.texi.\n\n")
	for _, n := range nodes {
		name := strings.TrimPrefix(strings.SplitN(n.header, ",", 2)[0], "Node: ")
		fmt.Fprintf(&tags, "Node: %s\x7f%d\n", name, b.Len())
		fmt.Fprintf(&b, "\x1f\nFile: emacs.info,  %s\n\n%s", n.header, n.body)
	}
	b.WriteString("\x1f\nTag Table:\n")
	b.WriteString(tags.String())
	b.WriteString("\x1f\nEnd Tag Table\n")
	return b.String()
}

const dirFile = "\x1f\nFile: dir,\tNode: Top,\tThis is the top of the INFO tree\n\n* Menu:\n\n" +
	"Emacs\n" +
	"* Emacs: (emacs).               The extensible self-documenting text editor.\n"

// setupInfoDir writes a dir file and the emacs manual into a temporary
// directory and returns it.
func setupInfoDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dir"), []byte(dirFile), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "emacs.info"), []byte(emacsInfo()), 0o644))
	return dir
}

// run executes the CLI searching only infoDir, with the index cache in a
// temporary database.
func run(t *testing.T, infoDir string, args ...string) (string, string, error) {
	t.Helper()
	m := main.NewMain()
	m.DBPath = filepath.Join(t.TempDir(), "index.db")
	m.DefaultPath = []string{}
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	err := m.Run(context.Background(), append([]string{"--path", infoDir}, args...), stdout, stderr)
	return stdout.String(), stderr.String(), err
}

func TestCLI_HelpShowsAllCommands(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	parser, err := kong.New(cli,
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	require.NoError(t, err)

	_, _ = parser.Parse([]string{"--help"})

	helpOutput := stdout.String()
	for _, cmd := range commands {
		assert.Contains(t, helpOutput, cmd, "Help should mention %s command", cmd)
	}
}

func TestMain_Run_Help(t *testing.T) {
	t.Parallel()

	t.Run("--help succeeds", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		m.DBPath = filepath.Join(t.TempDir(), "index.db")
		stdout := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"--help"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Usage:")
		assert.Contains(t, stdout.String(), "Flags:")
	})

	t.Run("no arguments is an error", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		m.DBPath = filepath.Join(t.TempDir(), "index.db")
		stdout := &bytes.Buffer{}

		err := m.Run(context.Background(), nil, stdout, &bytes.Buffer{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no command specified")
		assert.Contains(t, stdout.String(), "Usage:")
	})
}

func TestNodeCmd(t *testing.T) {
	t.Parallel()

	dir := setupInfoDir(t)

	t.Run("prints a node", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := run(t, dir, "--no-cache", "node", "emacs", "Killing")

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(stdout, "File: emacs.info,  Node: Killing,"))
		assert.Contains(t, stdout, "C-k kills a line.\n")
	})

	t.Run("node is the default command", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := run(t, dir, "--no-cache", "emacs", "killing")

		require.NoError(t, err)
		assert.Contains(t, stdout, "C-k kills a line.")
	})

	t.Run("follows menu items", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := run(t, dir, "--no-cache", "node", "emacs", "--menu", "Kill")

		require.NoError(t, err)
		assert.Contains(t, stdout, "Node: Killing")
	})

	t.Run("strict lookup", func(t *testing.T) {
		t.Parallel()

		_, stderr, err := run(t, dir, "--no-cache", "--strict", "node", "emacs", "killing")

		assert.Equal(t, infodoc.ENONODE, infodoc.ErrorCode(err))
		assert.Contains(t, stderr, "error: No such node or anchor: (emacs)killing")
	})

	t.Run("falls back to Top", func(t *testing.T) {
		t.Parallel()

		stdout, stderr, err := run(t, dir, "--no-cache", "node", "emacs", "Nowhere", "--fallback", "top")

		require.NoError(t, err)
		assert.Contains(t, stdout, "Node: Top")
		assert.Contains(t, stderr, "going to Top")
	})

	t.Run("missing manual", func(t *testing.T) {
		t.Parallel()

		_, stderr, err := run(t, dir, "--no-cache", "node", "ghost")

		assert.Equal(t, infodoc.ENOMANUAL, infodoc.ErrorCode(err))
		assert.Contains(t, stderr, "error: Info file ghost does not exist")
	})
}

func TestTocCmd(t *testing.T) {
	t.Parallel()

	stdout, _, err := run(t, setupInfoDir(t), "--no-cache", "toc", "emacs")

	require.NoError(t, err)
	assert.Equal(t, "Top\n\nEditing\n  Killing\n\nAppendices\n  Key Index\n", stdout)
}

func TestIndexCmd(t *testing.T) {
	t.Parallel()

	dir := setupInfoDir(t)

	t.Run("lists matches", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := run(t, dir, "--no-cache", "index", "emacs", "kill")

		require.NoError(t, err)
		assert.Equal(t, "* kill-line: Killing.  (line 5)\n", stdout)
	})

	t.Run("shows the first match", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := run(t, dir, "--no-cache", "index", "emacs", "C-k", "--show")

		require.NoError(t, err)
		assert.Contains(t, stdout, "Node: Killing")
	})

	t.Run("no match", func(t *testing.T) {
		t.Parallel()

		_, stderr, err := run(t, dir, "--no-cache", "index", "emacs", "yank")

		assert.Equal(t, infodoc.ENOTFOUND, infodoc.ErrorCode(err))
		assert.Contains(t, stderr, `error: No "yank" in index`)
	})
}

func TestAproposCmd(t *testing.T) {
	t.Parallel()

	stdout, _, err := run(t, setupInfoDir(t), "--no-cache", "apropos", "kill")

	require.NoError(t, err)
	assert.Equal(t, "\"kill-line\" -- (emacs)Killing (line 5)\n", stdout)
}

func TestDirCmd(t *testing.T) {
	t.Parallel()

	stdout, _, err := run(t, setupInfoDir(t), "--no-cache", "dir")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "File: dir,"))
	assert.Contains(t, stdout, "* Emacs: (emacs).")
}

func TestTagsCmd(t *testing.T) {
	t.Parallel()

	stdout, _, err := run(t, setupInfoDir(t), "--no-cache", "tags", "emacs")

	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "Node"))
	assert.True(t, strings.HasSuffix(lines[1], "Killing"))
}

func TestCacheCmd(t *testing.T) {
	t.Parallel()

	t.Run("index searches populate the cache", func(t *testing.T) {
		t.Parallel()

		// Given an index search run against a fresh database
		dir := setupInfoDir(t)
		db := filepath.Join(t.TempDir(), "index.db")
		_, _, err := run(t, dir, "--db", db, "index", "emacs", "kill")
		require.NoError(t, err)

		// When the cache is listed
		stdout, _, err := run(t, dir, "--db", db, "cache", "list")

		// Then the manual's entries are there
		require.NoError(t, err)
		assert.Contains(t, stdout, "emacs  2 entries")
		assert.Contains(t, stdout, filepath.Join(dir, "emacs.info"))

		// And they can be dropped
		stdout, _, err = run(t, dir, "--db", db, "cache", "drop", filepath.Join(dir, "emacs.info"))
		require.NoError(t, err)
		assert.Contains(t, stdout, "Dropped cached index")

		stdout, _, err = run(t, dir, "--db", db, "cache")
		require.NoError(t, err)
		assert.Contains(t, stdout, "No cached indices.")
	})

	t.Run("disabled cache", func(t *testing.T) {
		t.Parallel()

		_, stderr, err := run(t, setupInfoDir(t), "--no-cache", "cache", "list")

		assert.Equal(t, infodoc.EINVALID, infodoc.ErrorCode(err))
		assert.Contains(t, stderr, "The index cache is disabled")
	})
}
