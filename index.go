package infodoc

import (
	"context"
	"regexp"
	"strconv"
	"strings"
)

// IndexCookie marks a node as containing index entries. Generators from
// makeinfo 4.7 on place it right after the node's "* Menu:" line.
const IndexCookie = "\x00\b[index\x00\b]"

// IndexEntry is one entry of a manual's index.
type IndexEntry struct {
	Manual string `json:"manual"`
	Entry  string `json:"entry"`
	// Node is the target node, possibly qualified with another manual.
	Node string `json:"node"`
	// Line is the line number within the target node, 0 if unknown.
	Line int `json:"line,omitempty"`
}

// IndexCache persists index entries of manuals between runs.
type IndexCache interface {
	// FindIndexEntries returns cached entries for m.
	// Returns ENOTFOUND if no entries are cached for m's current fingerprint.
	FindIndexEntries(ctx context.Context, m *Manual) ([]IndexEntry, error)

	// SaveIndexEntries replaces the cached entries for m.
	SaveIndexEntries(ctx context.Context, m *Manual, entries []IndexEntry) error
}

// The entry is greedy so labels may contain ": ". Long entries push the
// line number onto the following line.
var indexEntryRe = regexp.MustCompile(`(?m)^\* +([^\n]*):[ \t]+([^\n]*)\.(?:[ \t\n]*\(line +([0-9]+)\))?`)

// ParseIndexEntries extracts "* entry: node.  (line n)" lines from the text
// of an index node. Entries are returned in file order.
func ParseIndexEntries(manual, text string) []IndexEntry {
	var entries []IndexEntry
	for _, m := range indexEntryRe.FindAllStringSubmatch(text, -1) {
		if strings.EqualFold(m[1], "menu") {
			continue
		}
		e := IndexEntry{
			Manual: manual,
			Entry:  strings.TrimSpace(m[1]),
			Node:   NormalizeNodeName(m[2]),
		}
		if m[3] != "" {
			e.Line, _ = strconv.Atoi(m[3])
		}
		entries = append(entries, e)
	}
	return entries
}

// HasIndexCookie reports whether node text contains the index cookie.
func HasIndexCookie(text string) bool {
	return strings.Contains(text, IndexCookie)
}

var generatorRe = regexp.MustCompile(`(makeinfo|texi2any)[ \n]version[ \n]([0-9]+)\.([0-9]+)`)

// SupportsIndexCookies reports whether the generator named in the first
// lines of a manual is new enough to emit index cookies.
func SupportsIndexCookies(buf []byte) bool {
	head := buf
	for i, n := 0, 0; i < len(buf); i++ {
		if buf[i] == '\n' {
			if n++; n == 4 {
				head = buf[:i]
				break
			}
		}
	}
	m := generatorRe.FindSubmatch(head)
	if m == nil {
		return false
	}
	if string(m[1]) == "texi2any" {
		return true
	}
	major, _ := strconv.Atoi(string(m[2]))
	minor, _ := strconv.Atoi(string(m[3]))
	return major > 4 || (major == 4 && minor >= 7)
}

// MatchIndexEntries returns the entries whose text contains topic,
// ignoring case. Exact matches come first, in file order, followed by
// substring matches. A trailing " <n>" disambiguation suffix is ignored
// when testing for an exact match.
func MatchIndexEntries(entries []IndexEntry, topic string) []IndexEntry {
	topic = strings.ToLower(strings.TrimSpace(topic))
	var exact, partial []IndexEntry
	for _, e := range entries {
		text := strings.ToLower(e.Entry)
		if !strings.Contains(text, topic) {
			continue
		}
		if stripEntrySuffix(text) == topic {
			exact = append(exact, e)
		} else {
			partial = append(partial, e)
		}
	}
	return append(exact, partial...)
}

var entrySuffixRe = regexp.MustCompile(` <[0-9]+>$`)

func stripEntrySuffix(s string) string {
	return entrySuffixRe.ReplaceAllString(s, "")
}
