package nav_test

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/infodoc/fs"
	"github.com/fwojciec/infodoc/nav"
	"github.com/stretchr/testify/require"
)

// testNode describes one node of a generated Info file.
type testNode struct {
	name, next, prev, up string
	body                 string

	// anchor names a Ref entry pointing at the first occurrence of
	// anchorAt in body.
	anchor, anchorAt string

	// drift inserts that many bytes before the node without updating its
	// tag table offset.
	drift int
}

const generator = "This is %s, produced by texi2any version 7.1 from %s.texi.\n\n"

// writeNodes appends nodes to b and returns their tag table rows. base is
// added to every recorded offset.
func writeNodes(b *strings.Builder, file string, base int, nodes []testNode) []string {
	var rows []string
	for _, n := range nodes {
		recorded := b.Len() + base
		if n.drift > 0 {
			line := strings.Repeat("x", 79) + "\n"
			b.WriteString(strings.Repeat(line, n.drift/len(line)))
			if rem := n.drift % len(line); rem > 0 {
				b.WriteString(strings.Repeat("y", rem-1) + "\n")
			}
		}
		fmt.Fprintf(b, "\x1f\nFile: %s,  Node: %s", file, n.name)
		if n.next != "" {
			fmt.Fprintf(b, ",  Next: %s", n.next)
		}
		if n.prev != "" {
			fmt.Fprintf(b, ",  Prev: %s", n.prev)
		}
		if n.up != "" {
			fmt.Fprintf(b, ",  Up: %s", n.up)
		}
		b.WriteString("\n\n")
		bodyStart := b.Len()
		b.WriteString(n.body)
		b.WriteString("\n")
		rows = append(rows, fmt.Sprintf("Node: %s\x7f%d", n.name, recorded))
		if n.anchor != "" {
			at := strings.Index(n.body, n.anchorAt)
			rows = append(rows, fmt.Sprintf("Ref: %s\x7f%d", n.anchor, bodyStart+at+base))
		}
	}
	return rows
}

func writeTagTable(b *strings.Builder, indirect bool, rows []string) {
	b.WriteString("\x1f\nTag Table:\n")
	if indirect {
		b.WriteString("(Indirect)\n")
	}
	for _, r := range rows {
		b.WriteString(r)
		b.WriteString("\n")
	}
	b.WriteString("\x1f\nEnd Tag Table\n")
}

// buildInfo returns the text of a single-file manual with a tag table.
func buildInfo(file string, nodes ...testNode) string {
	var b strings.Builder
	fmt.Fprintf(&b, generator, file, strings.TrimSuffix(file, ".info"))
	rows := writeNodes(&b, file, 0, nodes)
	writeTagTable(&b, false, rows)
	return b.String()
}

// buildUntagged returns the text of a single-file manual without a tag
// table.
func buildUntagged(file string, nodes ...testNode) string {
	var b strings.Builder
	fmt.Fprintf(&b, generator, file, strings.TrimSuffix(file, ".info"))
	writeNodes(&b, file, 0, nodes)
	return b.String()
}

// buildSplit returns the main file and subfile texts of a split manual
// with one subfile per node group.
func buildSplit(file string, groups ...[]testNode) (string, []string) {
	var rows, list []string
	var subs []string
	offset := 0
	for i, nodes := range groups {
		name := fmt.Sprintf("%s-%d", file, i+1)
		var b strings.Builder
		fmt.Fprintf(&b, generator, file, strings.TrimSuffix(file, ".info"))
		rows = append(rows, writeNodes(&b, file, offset, nodes)...)
		list = append(list, fmt.Sprintf("%s: %d", name, offset))
		subs = append(subs, b.String())
		offset += b.Len()
	}

	var b strings.Builder
	fmt.Fprintf(&b, generator, file, strings.TrimSuffix(file, ".info"))
	b.WriteString("\x1f\nIndirect:\n")
	for _, l := range list {
		b.WriteString(l)
		b.WriteString("\n")
	}
	writeTagTable(&b, true, rows)
	return b.String(), subs
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// newEngine returns an engine searching only dirs, with a logger writing
// into the returned buffer.
func newEngine(dirs ...string) (*nav.Engine, *bytes.Buffer) {
	var logs bytes.Buffer
	l := &fs.Locator{Path: dirs}
	e := nav.NewEngine(l, fs.NewLoader(fs.DefaultCacheSize))
	e.Logger = slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return e, &logs
}

var emacsNodes = []testNode{
	{name: "Top", next: "Intro", up: "(dir)", body: "The Emacs Editor\n****************\n\n" +
		"* Menu:\n\n" +
		"* Intro::           An introduction.\n\n" +
		"Editing\n" +
		"* Killing::         Killing and yanking.\n\n" +
		"Appendices\n" +
		"* Key Index::       An item for each standard key.\n" +
		"* Glossary::        Terms used in this manual.\n"},
	{name: "Intro", next: "Killing", prev: "Top", up: "Top", body: "Introduction\n************\n\nYou are reading about Emacs."},
	{name: "Killing", next: "Key Index", prev: "Intro", up: "Top", body: "Killing and Moving Text\n***********************\n\n" +
		"* Menu:\n\n* Yanking::         Recovering killed text.\n\nThe kill ring holds killed text.",
		anchor: "kill-ring", anchorAt: "The kill ring"},
	{name: "Yanking", up: "Killing", body: "Yanking\n=======\n\nUse C-y."},
	{name: "Key Index", next: "Glossary", prev: "Killing", up: "Top", body: "Key Index\n*********\n\n" +
		"\x00\b[index\x00\b]\n* Menu:\n\n" +
		"* C-k:                                   Killing.             (line 6)\n" +
		"* C-y:                                   Yanking.             (line 4)\n" +
		"* kill-line:                             Killing.             (line 12)\n"},
	{name: "Glossary", prev: "Key Index", up: "Top", body: "Glossary\n********\n\nAbbrev: An abbreviation."},
}

// writeEmacs writes the emacs manual into dir and returns its path.
func writeEmacs(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "emacs.info")
	writeFile(t, path, buildInfo("emacs.info", emacsNodes...))
	return path
}

const mainDir = "This is the file .../info/dir, which contains the\ntopmost node of the Info hierarchy.\n" +
	"\x1f\nFile: dir,\tNode: Top,\tThis is the top of the INFO tree\n\n" +
	"  This (the Directory node) gives a menu of major topics.\n\n" +
	"* Menu:\n\n" +
	"Emacs\n" +
	"* Emacs: (emacs).               The extensible self-documenting text editor.\n\n" +
	"Programming\n" +
	"* Elisp: (elisp).               The Emacs Lisp Reference Manual.\n" +
	"* Ghost: (ghost).               A manual that is not installed.\n"

const localDir = "\x1f\nFile: dir,\tNode: Top\n\n* Menu:\n\n" +
	"emacs\n" +
	"* Org Mode: (org).              Outline-based notes management.\n" +
	"* emacs: (emacs).               A duplicate differing only in case.\n\n" +
	"Text creation\n" +
	"* Sed: (sed).                   Stream EDitor.\n" +
	"                                  Non-interactive text editing.\n"

var elispNodes = []testNode{
	{name: "Top", next: "Lists", up: "(dir)", body: "Emacs Lisp\n**********\n\n* Menu:\n\n* Lists::\n* Index::\n"},
	{name: "Lists", next: "Index", prev: "Top", up: "Top", body: "Lists\n*****\n\nCons cells."},
	{name: "Index", prev: "Lists", up: "Top", body: "Index\n*****\n\n\x00\b[index\x00\b]\n* Menu:\n\n" +
		"* car:                                   Lists.               (line 3)\n" +
		"* cdr:                                   Lists.               (line 4)\n"},
}

// writeLibrary writes a search directory holding the main dir file and
// the emacs and elisp manuals.
func writeLibrary(t *testing.T, dir string) {
	t.Helper()
	writeFile(t, filepath.Join(dir, "dir"), mainDir)
	writeEmacs(t, dir)
	writeFile(t, filepath.Join(dir, "elisp.info"), buildInfo("elisp.info", elispNodes...))
}
