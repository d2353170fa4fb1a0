package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/infodoc/nav"
	"github.com/fwojciec/infodoc/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *slog.Logger
	Engine  *nav.Engine
	Session *nav.Session
	// Cache is nil when the index cache is disabled.
	Cache *sqlite.IndexCache
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Path    []string `short:"p" env:"INFOPATH" sep:":" help:"Directories to search for manuals before the standard ones (repeatable)"`
	DB      string   `name:"db" env:"INFODOC_DB" help:"Index cache database path"`
	NoCache bool     `name:"no-cache" help:"Do not read or write the index cache"`
	Verbose bool     `short:"v" help:"Log debug output to stderr"`
	Strict  bool     `help:"Match node names case-sensitively"`

	Node    NodeCmd    `cmd:"" default:"withargs" help:"Print a node of a manual"`
	Toc     TocCmd     `cmd:"" help:"Print the table of contents of a manual"`
	Index   IndexCmd   `cmd:"" help:"Search a manual's index"`
	Apropos AproposCmd `cmd:"" help:"Search the indices of all manuals in the directory"`
	Dir     DirCmd     `cmd:"" help:"Print the merged directory of manuals"`
	Tags    TagsCmd    `cmd:"" help:"List the tag table of a manual"`
	Cache   CacheCmd   `cmd:"" help:"Inspect the index cache"`
}

// NodeCmd is the "node" subcommand.
type NodeCmd struct {
	Manual   string   `arg:"" help:"Manual name or path"`
	Node     string   `arg:"" optional:"" help:"Node name, (manual)node, or * for the whole file"`
	Menu     []string `short:"m" name:"menu" help:"Follow menu items in order after finding the node (repeatable)"`
	Fallback string   `enum:"none,history,top" default:"none" help:"What to do when a node is missing: none, history or top"`
}

// TocCmd is the "toc" subcommand.
type TocCmd struct {
	Manual string `arg:"" help:"Manual name or path"`
}

// IndexCmd is the "index" subcommand.
type IndexCmd struct {
	Manual string `arg:"" help:"Manual name or path"`
	Topic  string `arg:"" help:"Index topic"`
	Show   bool   `short:"s" help:"Print the node of the first match instead of listing matches"`
}

// AproposCmd is the "apropos" subcommand.
type AproposCmd struct {
	Topic string `arg:"" help:"Index topic"`
}

// DirCmd is the "dir" subcommand.
type DirCmd struct{}

// TagsCmd is the "tags" subcommand.
type TagsCmd struct {
	Manual string `arg:"" help:"Manual name or path"`
}

// CacheCmd is the "cache" subcommand.
type CacheCmd struct {
	List CacheListCmd `cmd:"" default:"1" help:"List manuals with a cached index"`
	Drop CacheDropCmd `cmd:"" help:"Remove the cached index of a manual"`
}

// CacheListCmd is the "cache list" subcommand.
type CacheListCmd struct{}

// CacheDropCmd is the "cache drop" subcommand.
type CacheDropCmd struct {
	Path string `arg:"" help:"Path of the manual's main file, as shown by 'info cache list'"`
}
