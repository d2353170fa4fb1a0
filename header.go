package infodoc

import (
	"bytes"
	"strings"
)

// Reserved bytes of the Info file format.
const (
	// NodeDelimiter starts a line that separates two nodes.
	NodeDelimiter = '\x1f'
	// TagDelimiter separates a tag table name from its byte offset.
	TagDelimiter = '\x7f'
)

// TopNode is the name of a manual's entry node.
const TopNode = "Top"

// NodeRef is a possibly manual-qualified node reference such as
// "(emacs)Glossary".
type NodeRef struct {
	// Manual is empty when the reference is local to the current manual.
	Manual string `json:"manual,omitempty"`
	Node   string `json:"node"`
}

// ParseNodeRef parses "(manual)node", "(manual)" or "node". A qualified
// reference with no node name refers to the manual's Top node.
func ParseNodeRef(s string) NodeRef {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "(") {
		if i := strings.IndexByte(s, ')'); i > 0 {
			ref := NodeRef{
				Manual: strings.TrimSpace(s[1:i]),
				Node:   NormalizeNodeName(s[i+1:]),
			}
			if ref.Node == "" {
				ref.Node = TopNode
			}
			return ref
		}
	}
	return NodeRef{Node: NormalizeNodeName(s)}
}

// Foreign reports whether the reference points into another manual.
func (r NodeRef) Foreign() bool {
	return r.Manual != ""
}

// IsZero reports whether the reference is empty.
func (r NodeRef) IsZero() bool {
	return r.Manual == "" && r.Node == ""
}

// String returns the reference in "(manual)node" form.
func (r NodeRef) String() string {
	if r.Manual == "" {
		return r.Node
	}
	return "(" + r.Manual + ")" + r.Node
}

// NormalizeNodeName trims a node name and collapses runs of whitespace into
// single spaces.
func NormalizeNodeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// Header holds the fields of a node's header line.
type Header struct {
	File string  `json:"file"`
	Node string  `json:"node"`
	Next NodeRef `json:"next"`
	Prev NodeRef `json:"prev"`
	Up   NodeRef `json:"up"`
}

// ParseHeader parses a node header line of the form
// "File: f,  Node: n,  Next: x,  Prev: y,  Up: z".
// Node is empty if the line is not a node header.
func ParseHeader(line string) Header {
	line = strings.TrimRight(line, "\r\n")
	h := Header{
		File: headerField(line, "File"),
		Node: NormalizeNodeName(headerField(line, "Node")),
	}
	if v := headerField(line, "Next"); v != "" {
		h.Next = ParseNodeRef(v)
	}
	prev := headerField(line, "Prev")
	if prev == "" {
		prev = headerField(line, "Previous")
	}
	if prev != "" {
		h.Prev = ParseNodeRef(prev)
	}
	if v := headerField(line, "Up"); v != "" {
		h.Up = ParseNodeRef(v)
	}
	return h
}

// headerField returns the value of "key:" in line. The key must start the
// line or follow a space, tab or comma. The value ends at a comma, tab or
// end of line.
func headerField(line, key string) string {
	pattern := key + ":"
	for from := 0; from < len(line); {
		i := strings.Index(line[from:], pattern)
		if i < 0 {
			return ""
		}
		i += from
		if i == 0 || strings.ContainsRune(" \t,", rune(line[i-1])) {
			v := line[i+len(pattern):]
			if end := strings.IndexAny(v, ",\t"); end >= 0 {
				v = v[:end]
			}
			return strings.TrimSpace(v)
		}
		from = i + len(pattern)
	}
	return ""
}

// NodeSpan locates one node inside a decoded file buffer.
type NodeSpan struct {
	// Delim is the offset of the node delimiter byte.
	Delim int
	// Start is the offset of the header line, just after the delimiter line.
	Start int
	// End is the offset of the next delimiter, or the buffer length.
	End int

	Header Header
}

// Text returns the node's text within buf.
func (s NodeSpan) Text(buf []byte) string {
	return string(buf[s.Start:s.End])
}

// NextNode returns the first node whose delimiter is at or after from.
// Delimiter blocks that do not introduce a node, such as the tag table or
// the indirect file list, are skipped.
func NextNode(buf []byte, from int) (NodeSpan, bool) {
	if from < 0 {
		from = 0
	}
	for from < len(buf) {
		i := bytes.IndexByte(buf[from:], NodeDelimiter)
		if i < 0 {
			return NodeSpan{}, false
		}
		d := from + i
		from = d + 1
		if d > 0 && buf[d-1] != '\n' {
			continue
		}
		start, ok := delimiterLineEnd(buf, d)
		if !ok {
			continue
		}
		eol := bytes.IndexByte(buf[start:], '\n')
		if eol < 0 {
			eol = len(buf) - start
		}
		h := ParseHeader(string(buf[start : start+eol]))
		if h.Node == "" {
			continue
		}
		return NodeSpan{
			Delim:  d,
			Start:  start,
			End:    nextDelimiter(buf, start),
			Header: h,
		}, true
	}
	return NodeSpan{}, false
}

// Nodes returns every node in buf in document order.
func Nodes(buf []byte) []NodeSpan {
	var spans []NodeSpan
	for from := 0; ; {
		s, ok := NextNode(buf, from)
		if !ok {
			return spans
		}
		spans = append(spans, s)
		from = s.Start
	}
}

// NodeBefore returns the last node whose delimiter is at or before pos.
func NodeBefore(buf []byte, pos int) (NodeSpan, bool) {
	var found NodeSpan
	var ok bool
	for from := 0; ; {
		s, more := NextNode(buf, from)
		if !more || s.Delim > pos {
			return found, ok
		}
		found, ok = s, true
		from = s.Start
	}
}

// delimiterLineEnd returns the offset just past the delimiter line that
// begins at d. The delimiter may be followed by a form feed.
func delimiterLineEnd(buf []byte, d int) (int, bool) {
	j := d + 1
	if j < len(buf) && buf[j] == '\f' {
		j++
	}
	if j < len(buf) && buf[j] == '\r' {
		j++
	}
	if j >= len(buf) || buf[j] != '\n' {
		return 0, false
	}
	return j + 1, true
}

// nextDelimiter returns the offset of the next line-initial delimiter at or
// after from, or len(buf).
func nextDelimiter(buf []byte, from int) int {
	for from < len(buf) {
		i := bytes.IndexByte(buf[from:], NodeDelimiter)
		if i < 0 {
			break
		}
		d := from + i
		if d == 0 || buf[d-1] == '\n' {
			return d
		}
		from = d + 1
	}
	return len(buf)
}
