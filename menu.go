package infodoc

import (
	"strings"
)

// MenuItem is one "* label: target." entry of a node's menu.
type MenuItem struct {
	Label       string  `json:"label"`
	Target      NodeRef `json:"target"`
	Description string  `json:"description,omitempty"`
	// Section is the most recent un-indented heading line preceding the
	// item, empty if none.
	Section string `json:"section,omitempty"`
}

// Menu is the parsed "* Menu:" block of a node.
type Menu struct {
	Items []MenuItem `json:"items"`
	// Sections lists heading lines in document order.
	Sections []string `json:"sections,omitempty"`
}

// Find returns the first item whose label equals label exactly, falling
// back to a case-insensitive match and then to a case-insensitive prefix
// match.
func (m *Menu) Find(label string) (MenuItem, bool) {
	label = NormalizeNodeName(label)
	for _, it := range m.Items {
		if it.Label == label {
			return it, true
		}
	}
	for _, it := range m.Items {
		if strings.EqualFold(it.Label, label) {
			return it, true
		}
	}
	lower := strings.ToLower(label)
	for _, it := range m.Items {
		if strings.HasPrefix(strings.ToLower(it.Label), lower) {
			return it, true
		}
	}
	return MenuItem{}, false
}

// MenuStart returns the offset of the line following "* Menu:" in text,
// or -1 if the text has no menu.
func MenuStart(text string) int {
	for from := 0; from < len(text); {
		eol := strings.IndexByte(text[from:], '\n')
		if eol < 0 {
			eol = len(text) - from
		}
		line := text[from : from+eol]
		if len(line) >= 7 && strings.EqualFold(line[:7], "* menu:") {
			if from+eol < len(text) {
				return from + eol + 1
			}
			return len(text)
		}
		from += eol + 1
	}
	return -1
}

// ParseMenu parses the menu of a node's text. It returns false if the text
// contains no "* Menu:" line.
func ParseMenu(text string) (Menu, bool) {
	start := MenuStart(text)
	if start < 0 {
		return Menu{}, false
	}

	var m Menu
	var section string
	lines := strings.Split(text[start:], "\n")
	for i := 0; i < len(lines); i++ {
		line := strings.TrimRight(lines[i], "\r")
		switch {
		case strings.HasPrefix(strings.TrimLeft(line, " \t"), "* "):
			it, ok := ParseMenuItem(strings.TrimLeft(line, " \t"))
			if !ok {
				continue
			}
			// Indented continuation lines extend the description.
			for i+1 < len(lines) && isContinuation(lines[i+1]) {
				i++
				it.Description = strings.TrimSpace(it.Description + " " + strings.TrimSpace(lines[i]))
			}
			it.Section = section
			m.Items = append(m.Items, it)
		case strings.TrimSpace(line) == "":
		case line[0] == ' ' || line[0] == '\t':
		default:
			if line[0] == NodeDelimiter || line[0] == 0 {
				continue
			}
			section = strings.TrimSpace(line)
			m.Sections = append(m.Sections, section)
		}
	}
	return m, true
}

// ParseMenuItem parses a single "* label:: desc" or
// "* label: (manual)node.  desc" line.
func ParseMenuItem(line string) (MenuItem, bool) {
	if !strings.HasPrefix(line, "* ") {
		return MenuItem{}, false
	}
	rest := strings.TrimLeft(line[2:], " ")
	colon := strings.IndexByte(rest, ':')
	if colon <= 0 {
		return MenuItem{}, false
	}
	it := MenuItem{Label: NormalizeNodeName(rest[:colon])}
	rest = rest[colon+1:]

	if strings.HasPrefix(rest, ":") {
		it.Target = ParseNodeRef(it.Label)
		it.Description = strings.TrimSpace(rest[1:])
		return it, true
	}

	rest = strings.TrimLeft(rest, " \t")
	var manual string
	if strings.HasPrefix(rest, "(") {
		if j := strings.IndexByte(rest, ')'); j > 0 {
			manual, rest = rest[1:j], rest[j+1:]
		}
	}
	end := menuNodeEnd(rest)
	it.Target = NodeRef{Manual: strings.TrimSpace(manual), Node: NormalizeNodeName(rest[:end])}
	if it.Target.Manual != "" && it.Target.Node == "" {
		it.Target.Node = TopNode
	}
	if end < len(rest) {
		it.Description = strings.TrimSpace(rest[end+1:])
	}
	if it.Target.Node == "" {
		return MenuItem{}, false
	}
	return it, true
}

// menuNodeEnd returns the offset at which a menu target node name ends: a
// comma, a tab, or a period followed by whitespace or end of line.
func menuNodeEnd(s string) int {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ',', '\t':
			return i
		case '.':
			if i+1 == len(s) || s[i+1] == ' ' || s[i+1] == '\t' {
				return i
			}
		}
	}
	return len(s)
}

// isContinuation reports whether line continues the description of the
// preceding item. Indented "* " lines are nested items, not continuations.
func isContinuation(line string) bool {
	if line == "" || (line[0] != ' ' && line[0] != '\t') {
		return false
	}
	trimmed := strings.TrimSpace(line)
	return trimmed != "" && !strings.HasPrefix(trimmed, "* ")
}
