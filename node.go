package infodoc

import (
	"context"
	"fmt"
)

// Strategy records which lookup path resolved a node.
type Strategy int

const (
	StrategyTagTable Strategy = iota + 1
	StrategyTagTableFolded
	StrategyScan
	StrategyScanFolded
	StrategyWholeFile
	StrategyVirtual
)

// String returns a short name for s.
func (s Strategy) String() string {
	switch s {
	case StrategyTagTable:
		return "tag-table"
	case StrategyTagTableFolded:
		return "tag-table-folded"
	case StrategyScan:
		return "scan"
	case StrategyScanFolded:
		return "scan-folded"
	case StrategyWholeFile:
		return "whole-file"
	case StrategyVirtual:
		return "virtual"
	}
	return fmt.Sprintf("strategy(%d)", int(s))
}

// NodeLocation is a resolved node: its text span within a decoded file and
// its structural pointers.
type NodeLocation struct {
	// Manual is the logical manual name the node was resolved in.
	Manual string `json:"manual"`
	// File is the physical file holding the node. Empty for virtual nodes.
	File string `json:"file,omitempty"`
	// Name is the resolved node name.
	Name string `json:"name"`

	// Start and End delimit the node text within File's decoded content.
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`

	Next NodeRef `json:"next"`
	Prev NodeRef `json:"prev"`
	Up   NodeRef `json:"up"`

	// Point is the offset within Text the reader should start at; non-zero
	// when an anchor was resolved.
	Point int `json:"point,omitempty"`

	Strategy Strategy `json:"strategy"`
	// Slack is the backward slack used to recover a drifted tag table
	// offset, 0 when no tag table was involved.
	Slack int `json:"slack,omitempty"`
	// Suffix is set when the node was found by dropping a trailing
	// ".qualifier" from the requested name.
	Suffix bool `json:"suffix,omitempty"`
}

// Ref returns the qualified reference of the location.
func (l *NodeLocation) Ref() NodeRef {
	return NodeRef{Manual: l.Manual, Node: l.Name}
}

// Menu parses the node's menu. It returns ENOMENU if the node has none.
func (l *NodeLocation) Menu() (Menu, error) {
	m, ok := ParseMenu(l.Text)
	if !ok {
		return Menu{}, Errorf(ENOMENU, "No menu in node %s", l.Ref())
	}
	return m, nil
}

// NewNodeLocation builds a location from a node span within buf.
func NewNodeLocation(manual, file string, buf []byte, s NodeSpan, strategy Strategy) *NodeLocation {
	return &NodeLocation{
		Manual:   manual,
		File:     file,
		Name:     s.Header.Node,
		Start:    s.Start,
		End:      s.End,
		Text:     s.Text(buf),
		Next:     s.Header.Next,
		Prev:     s.Header.Prev,
		Up:       s.Header.Up,
		Strategy: strategy,
	}
}

// NodeResolver resolves node names within manuals.
type NodeResolver interface {
	// Resolve finds node within manual. When strict is false, a
	// case-insensitive match is tried after the exact search fails.
	// Returns ENOMANUAL or ENONODE on failure.
	Resolve(ctx context.Context, manual, node string, strict bool) (*NodeLocation, error)
}
