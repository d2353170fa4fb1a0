// Package infodoc provides navigation and indexing over Info documentation
// manuals. It locates manuals on disk, reads their tag tables, resolves
// nodes and anchors (including those split across indirect subfiles),
// builds tables of contents and indexes, and tracks navigation history.
//
// This package contains domain types, interfaces and the pure Info format
// parsers following Ben Johnson's Standard Package Layout. Implementations
// live in subdirectories named after their primary dependency or concern
// (e.g., fs/, sqlite/, nav/).
package infodoc
