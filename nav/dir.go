package nav

import (
	"context"
	"strings"

	"github.com/fwojciec/infodoc"
	"github.com/fwojciec/infodoc/bloom"
)

// DirSection is one headed run of entries in the directory menu.
type DirSection struct {
	// Heading is empty for entries preceding the first heading.
	Heading string
	Entries []DirEntry
}

// DirEntry is one menu entry of a directory file, kept verbatim.
type DirEntry struct {
	Item infodoc.MenuItem
	// Lines holds the entry line and its continuation lines.
	Lines []string
}

// dirState caches the merged directory for one set of dir file versions.
type dirState struct {
	key      string
	buf      []byte
	sections []DirSection
}

const dirHeader = "File: dir,\tNode: Top,\tThis is the top of the INFO tree\n"

// Dir returns the directory merged from every dir file on the search path,
// as a single Top node.
func (e *Engine) Dir(ctx context.Context) ([]byte, error) {
	ds, err := e.loadDir(ctx)
	if err != nil {
		return nil, err
	}
	return ds.buf, nil
}

// DirSections returns the sections of the merged directory.
func (e *Engine) DirSections(ctx context.Context) ([]DirSection, error) {
	ds, err := e.loadDir(ctx)
	if err != nil {
		return nil, err
	}
	return ds.sections, nil
}

// DirManuals returns the manuals referenced by the merged directory, in
// menu order and without duplicates.
func (e *Engine) DirManuals(ctx context.Context) ([]string, error) {
	sections, err := e.DirSections(ctx)
	if err != nil {
		return nil, err
	}
	var manuals []string
	seen := make(map[string]bool)
	for _, sec := range sections {
		for _, ent := range sec.Entries {
			m := ent.Item.Target.Manual
			if m == "" || m == infodoc.DirManual || seen[m] {
				continue
			}
			seen[m] = true
			manuals = append(manuals, m)
		}
	}
	return manuals, nil
}

func (e *Engine) loadDir(ctx context.Context) (*dirState, error) {
	files, err := e.Locator.DirFiles(ctx)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, infodoc.Errorf(infodoc.ENOMANUAL, "Info file dir does not exist in any directory of the search path")
	}

	var key strings.Builder
	for _, f := range files {
		key.WriteString(f.Path)
		key.WriteByte(0)
		key.WriteString(f.ModTime.String())
		key.WriteByte(0)
	}
	var cached *dirState
	e.memo(func() { cached = e.dir })
	if cached != nil && cached.key == key.String() {
		return cached, nil
	}

	main, err := e.Loader.LoadFile(ctx, files[0])
	if err != nil {
		return nil, err
	}
	var others [][]byte
	for _, f := range files[1:] {
		buf, err := e.Loader.LoadFile(ctx, f)
		if err != nil {
			e.logger().Warn("skipping unreadable dir file", "path", f.Path, "err", err)
			continue
		}
		others = append(others, buf)
	}

	preamble, sections := mergeDirs(main, others)
	ds := &dirState{
		key:      key.String(),
		buf:      renderDir(preamble, sections),
		sections: sections,
	}
	e.memo(func() { e.dir = ds })
	return ds, nil
}

// MergeDirs merges the menus of secondary directory files into the main
// one. Sections with the same heading are combined and entries whose
// label repeats within a section are dropped, so merging the same file
// twice has the effect of merging it once.
func MergeDirs(main []byte, others ...[]byte) []byte {
	return renderDir(mergeDirs(main, others))
}

func mergeDirs(main []byte, others [][]byte) (string, []DirSection) {
	preamble, sections := parseDir(main)
	if preamble == "" {
		preamble = dirHeader + "\n* Menu:\n"
	}
	for _, buf := range others {
		_, secs := parseDir(buf)
		for _, sec := range secs {
			i := findSection(sections, sec.Heading)
			if i < 0 {
				sections = append(sections, DirSection{Heading: sec.Heading})
				i = len(sections) - 1
			}
			sections[i].Entries = append(sections[i].Entries, sec.Entries...)
		}
	}
	for i := range sections {
		sections[i].Entries = dedupEntries(sections[i].Entries)
	}
	return preamble, sections
}

func findSection(sections []DirSection, heading string) int {
	for i, s := range sections {
		if strings.EqualFold(s.Heading, heading) {
			return i
		}
	}
	return -1
}

// dedupEntries keeps the first entry for each case-folded label. A first
// pass through a Bloom filter flags the labels that may repeat; only those
// are tracked exactly, so a false positive costs one map entry.
func dedupEntries(entries []DirEntry) []DirEntry {
	seen := bloom.NewFilter(uint(len(entries)), bloom.DefaultFalsePositiveRate)
	repeats := make(map[string]bool)
	for _, ent := range entries {
		if key := strings.ToLower(ent.Item.Label); seen.TestAndAdd(key) {
			repeats[key] = false
		}
	}
	if len(repeats) == 0 {
		return entries
	}

	out := entries[:0:0]
	for _, ent := range entries {
		key := strings.ToLower(ent.Item.Label)
		if kept, ok := repeats[key]; ok {
			if kept {
				continue
			}
			repeats[key] = true
		}
		out = append(out, ent)
	}
	return out
}

// parseDir splits a directory file into the text of its Top node up to and
// including the "* Menu:" line, and its menu sections. A file without a Top
// node is treated as a bare menu.
func parseDir(buf []byte) (string, []DirSection) {
	text := string(buf)
	for _, s := range infodoc.Nodes(buf) {
		if strings.EqualFold(s.Header.Node, infodoc.TopNode) {
			text = s.Text(buf)
			break
		}
	}
	start := infodoc.MenuStart(text)
	if start < 0 {
		return "", nil
	}
	preamble := text[:start]
	if !strings.HasPrefix(preamble, "File:") {
		preamble = ""
	}

	var sections []DirSection
	cur := DirSection{}
	lines := strings.Split(strings.TrimRight(text[start:], "\n"), "\n")
	for i := 0; i < len(lines); i++ {
		line := strings.TrimRight(lines[i], "\r")
		switch {
		case strings.HasPrefix(line, "* "):
			it, ok := infodoc.ParseMenuItem(line)
			if !ok {
				continue
			}
			ent := DirEntry{Item: it, Lines: []string{line}}
			for i+1 < len(lines) && strings.TrimSpace(lines[i+1]) != "" &&
				(lines[i+1][0] == ' ' || lines[i+1][0] == '\t') {
				i++
				ent.Lines = append(ent.Lines, strings.TrimRight(lines[i], "\r"))
			}
			cur.Entries = append(cur.Entries, ent)
		case strings.TrimSpace(line) == "", line[0] == ' ', line[0] == '\t', line[0] == infodoc.NodeDelimiter:
		default:
			if cur.Heading != "" || len(cur.Entries) > 0 {
				sections = append(sections, cur)
			}
			cur = DirSection{Heading: strings.TrimSpace(line)}
		}
	}
	if cur.Heading != "" || len(cur.Entries) > 0 {
		sections = append(sections, cur)
	}
	return preamble, sections
}

func renderDir(preamble string, sections []DirSection) []byte {
	var b strings.Builder
	b.WriteString("\x1f\n")
	b.WriteString(preamble)
	for _, sec := range sections {
		if sec.Heading != "" {
			b.WriteString("\n")
			b.WriteString(sec.Heading)
			b.WriteString("\n")
		}
		for _, ent := range sec.Entries {
			for _, line := range ent.Lines {
				b.WriteString(line)
				b.WriteString("\n")
			}
		}
	}
	return []byte(b.String())
}
