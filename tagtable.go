package infodoc

import (
	"bytes"
	"sort"
	"strconv"
	"strings"
)

// TagKind distinguishes nodes from anchors in a tag table.
type TagKind int

const (
	TagNode TagKind = iota
	TagRef
)

// String returns the tag table keyword for k.
func (k TagKind) String() string {
	if k == TagRef {
		return "Ref"
	}
	return "Node"
}

// TagTableEntry is one row of a manual's tag table.
type TagTableEntry struct {
	Name string  `json:"name"`
	Kind TagKind `json:"kind"`
	// Offset is relative to the logical, unsplit document.
	Offset int `json:"offset"`
	// Subfile names the indirect subfile holding the offset.
	// Empty if the manual is not split.
	Subfile string `json:"subfile,omitempty"`
}

// IsAnchor reports whether the entry names an anchor.
func (e TagTableEntry) IsAnchor() bool {
	return e.Kind == TagRef
}

// Subfile is one indirect chunk of a split manual.
type Subfile struct {
	Name string `json:"name"`
	// Offset is the logical offset at which the subfile starts.
	Offset int `json:"offset"`
}

// TagTable maps node and anchor names to logical byte offsets.
type TagTable struct {
	Entries  []TagTableEntry `json:"entries"`
	Indirect bool            `json:"indirect"`
	Subfiles []Subfile       `json:"subfiles,omitempty"`
}

var (
	tagTableEnds   = [][]byte{[]byte("\x1f\nEnd Tag Table"), []byte("\x1f\nEnd tag table")}
	tagTableStarts = [][]byte{[]byte("\nTag Table:\n"), []byte("\nTag table:\n")}
	indirectStart  = []byte("\x1f\nIndirect:\n")
	indirectMarker = []byte("(Indirect)\n")
)

// ParseTagTable locates and parses the tag table at the end of buf.
// It returns a nil table and a nil error if buf has no tag table, and
// EMALFORMED if the tag table or its indirect file list cannot be parsed.
func ParseTagTable(buf []byte) (*TagTable, error) {
	end := lastIndexAny(buf, tagTableEnds)
	if end < 0 {
		return nil, nil
	}
	start := lastIndexAny(buf[:end], tagTableStarts)
	if start < 0 {
		return nil, Errorf(EMALFORMED, "tag table end marker without a start")
	}
	body := buf[start+len("\nTag Table:\n") : end]

	t := &TagTable{}
	if bytes.HasPrefix(body, indirectMarker) {
		t.Indirect = true
		body = body[len(indirectMarker):]
	}

	for n, line := range strings.Split(string(body), "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		e, err := parseTagLine(line)
		if err != nil {
			return nil, Errorf(EMALFORMED, "tag table line %d: %s", n+1, ErrorMessage(err))
		}
		t.Entries = append(t.Entries, e)
	}

	if t.Indirect {
		subfiles, err := ParseIndirect(buf)
		if err != nil {
			return nil, err
		}
		if len(subfiles) == 0 {
			return nil, Errorf(EMALFORMED, "indirect tag table without an indirect file list")
		}
		t.Subfiles = subfiles
		for i := range t.Entries {
			if sf, ok := t.SubfileFor(t.Entries[i].Offset); ok {
				t.Entries[i].Subfile = sf.Name
			}
		}
	}
	return t, nil
}

func parseTagLine(line string) (TagTableEntry, error) {
	i := strings.LastIndexByte(line, TagDelimiter)
	if i < 0 {
		return TagTableEntry{}, Errorf(EMALFORMED, "missing offset delimiter")
	}
	offset, err := strconv.Atoi(strings.TrimSpace(line[i+1:]))
	if err != nil || offset < 0 {
		return TagTableEntry{}, Errorf(EMALFORMED, "invalid offset %q", line[i+1:])
	}
	label := line[:i]

	var e TagTableEntry
	switch {
	case strings.HasPrefix(label, "Node: "):
		e.Kind, e.Name = TagNode, label[len("Node: "):]
	case strings.HasPrefix(label, "Ref: "):
		e.Kind, e.Name = TagRef, label[len("Ref: "):]
	default:
		// Old generators prefix the row with the file name.
		if j := strings.Index(label, "Node: "); j >= 0 {
			e.Kind, e.Name = TagNode, label[j+len("Node: "):]
		} else {
			return TagTableEntry{}, Errorf(EMALFORMED, "unknown tag kind in %q", label)
		}
	}
	e.Name = NormalizeNodeName(e.Name)
	e.Offset = offset
	return e, nil
}

// ParseIndirect parses the indirect file list near the start of a split
// manual's main file. It returns nil if buf has no such list.
func ParseIndirect(buf []byte) ([]Subfile, error) {
	start := bytes.Index(buf, indirectStart)
	if start < 0 {
		return nil, nil
	}
	body := buf[start+len(indirectStart):]
	if end := bytes.IndexByte(body, NodeDelimiter); end >= 0 {
		body = body[:end]
	}

	var subfiles []Subfile
	for _, line := range strings.Split(string(body), "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		i := strings.LastIndex(line, ": ")
		if i <= 0 {
			return nil, Errorf(EMALFORMED, "invalid indirect line %q", line)
		}
		offset, err := strconv.Atoi(strings.TrimSpace(line[i+2:]))
		if err != nil || offset < 0 {
			return nil, Errorf(EMALFORMED, "invalid indirect offset in %q", line)
		}
		subfiles = append(subfiles, Subfile{Name: line[:i], Offset: offset})
	}
	if !sort.SliceIsSorted(subfiles, func(i, j int) bool { return subfiles[i].Offset < subfiles[j].Offset }) {
		return nil, Errorf(EMALFORMED, "indirect file list is not in ascending order")
	}
	return subfiles, nil
}

// Find scans the tag table for name. Matching is exact unless fold is set,
// in which case it is case-insensitive. A node entry is preferred over an
// anchor entry with the same name.
func (t *TagTable) Find(name string, fold bool) (TagTableEntry, bool) {
	name = NormalizeNodeName(name)
	var anchor TagTableEntry
	var haveAnchor bool
	for _, e := range t.Entries {
		if !nameMatches(e.Name, name, fold) {
			continue
		}
		if e.Kind == TagNode {
			return e, true
		}
		if !haveAnchor {
			anchor, haveAnchor = e, true
		}
	}
	return anchor, haveAnchor
}

// SubfileFor returns the last subfile whose start offset is at or before
// offset.
func (t *TagTable) SubfileFor(offset int) (Subfile, bool) {
	return SubfileFor(t.Subfiles, offset)
}

// SubfileFor returns the last subfile in subfiles whose start offset is at
// or before offset. Subfiles must be in ascending offset order.
func SubfileFor(subfiles []Subfile, offset int) (Subfile, bool) {
	i := sort.Search(len(subfiles), func(i int) bool { return subfiles[i].Offset > offset })
	if i == 0 {
		return Subfile{}, false
	}
	return subfiles[i-1], true
}

func nameMatches(candidate, name string, fold bool) bool {
	if fold {
		return strings.EqualFold(candidate, name)
	}
	return candidate == name
}

func lastIndexAny(buf []byte, seps [][]byte) int {
	best := -1
	for _, sep := range seps {
		if i := bytes.LastIndex(buf, sep); i > best {
			best = i
		}
	}
	return best
}
