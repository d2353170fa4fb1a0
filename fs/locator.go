// Package fs locates Info manuals on the local file system and reads their
// decoded contents.
package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/infodoc"
)

// Ensure Locator implements infodoc.ManualLocator at compile time.
var _ infodoc.ManualLocator = (*Locator)(nil)

// Locator implements infodoc.ManualLocator over a list of directories.
type Locator struct {
	// Path is the explicit search path, searched first.
	Path []string

	// DefaultPath is searched after Path.
	DefaultPath []string

	// Suffixes is the ordered suffix/decoder table. Defaults to
	// DefaultSuffixes when nil.
	Suffixes []Suffix

	// ShortNames makes the locator also try 8.3 truncated file names, for
	// file systems that cannot represent long names.
	ShortNames bool
}

// NewLocator returns a Locator searching path and then the default
// installation directories.
func NewLocator(path ...string) *Locator {
	return &Locator{
		Path:        path,
		DefaultPath: DefaultInfoPath(),
	}
}

// DefaultInfoPath returns the standard Info directories, including the one
// derived from the running executable's installation prefix.
func DefaultInfoPath() []string {
	dirs := []string{
		"/usr/local/share/info",
		"/usr/share/info",
		"/usr/local/info",
		"/usr/info",
	}
	if exe, err := os.Executable(); err == nil {
		prefix := filepath.Dir(filepath.Dir(exe))
		dirs = append([]string{filepath.Join(prefix, "share", "info")}, dirs...)
	}
	return dirs
}

// SplitPath splits a colon separated INFOPATH value. An empty element is
// dropped.
func SplitPath(s string) []string {
	var dirs []string
	for _, d := range filepath.SplitList(s) {
		if d != "" {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// Dirs returns the search directories in order, without duplicates.
func (l *Locator) Dirs() []string {
	var dirs []string
	seen := make(map[string]bool)
	for _, d := range append(append([]string(nil), l.Path...), l.DefaultPath...) {
		if d == "" || seen[d] {
			continue
		}
		seen[d] = true
		dirs = append(dirs, d)
	}
	return dirs
}

func (l *Locator) suffixes() []Suffix {
	if l.Suffixes != nil {
		return l.Suffixes
	}
	return DefaultSuffixes
}

// LocateManual finds the main file of the named manual.
func (l *Locator) LocateManual(ctx context.Context, name string) (*infodoc.Manual, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, infodoc.Errorf(infodoc.EINVALID, "manual name required")
	}

	if name == infodoc.DirManual {
		files, err := l.DirFiles(ctx)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			return nil, infodoc.Errorf(infodoc.ENOMANUAL, "Info file %s does not exist in any directory of the search path", name)
		}
		return newManual(name, files[0]), nil
	}

	// A name with a directory part is only looked up at that location.
	if filepath.IsAbs(name) || strings.ContainsRune(name, filepath.Separator) {
		if f, ok := l.find(name); ok {
			return newManual(name, f), nil
		}
		return nil, infodoc.Errorf(infodoc.ENOMANUAL, "Info file %s does not exist", name)
	}

	for _, dir := range l.Dirs() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if f, ok := l.find(filepath.Join(dir, name)); ok {
			return newManual(name, f), nil
		}
	}
	return nil, infodoc.Errorf(infodoc.ENOMANUAL, "Info file %s does not exist in any directory of the search path", name)
}

// LocateSubfile finds an indirect subfile next to m's main file.
func (l *Locator) LocateSubfile(ctx context.Context, m *infodoc.Manual, name string) (*infodoc.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(filepath.Dir(m.Path), name)
	}
	if f, ok := l.find(path); ok {
		return f, nil
	}
	return nil, infodoc.Errorf(infodoc.ENOMANUAL, "Info subfile %s of %s does not exist", name, m.Name)
}

// DirFiles returns the directory file of every search directory that has
// one, in search order.
func (l *Locator) DirFiles(ctx context.Context) ([]*infodoc.File, error) {
	var files []*infodoc.File
	seen := make(map[string]bool)
	for _, dir := range l.Dirs() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f, ok := l.find(filepath.Join(dir, infodoc.DirManual))
		if !ok || seen[f.Path] {
			continue
		}
		seen[f.Path] = true
		files = append(files, f)
	}
	return files, nil
}

// find tries path verbatim when it already carries a known suffix, then
// every suffix in order, then the short-name variant, then the lower-cased
// base name.
func (l *Locator) find(path string) (*infodoc.File, bool) {
	suffixes := l.suffixes()

	for _, s := range suffixes {
		if s.Suffix != "" && strings.HasSuffix(path, s.Suffix) {
			if f, ok := stat(path, s.Decoder); ok {
				return f, true
			}
			break
		}
	}

	if f, ok := trySuffixes(path, suffixes); ok {
		return f, true
	}

	if l.ShortNames {
		if short := shortName(path); short != path {
			if f, ok := trySuffixes(short, shortSuffixes(suffixes)); ok {
				return f, true
			}
		}
	}

	dir, base := filepath.Split(path)
	if lower := strings.ToLower(base); lower != base {
		if f, ok := trySuffixes(filepath.Join(dir, lower), suffixes); ok {
			return f, true
		}
	}
	return nil, false
}

func trySuffixes(path string, suffixes []Suffix) (*infodoc.File, bool) {
	for _, s := range suffixes {
		if f, ok := stat(path+s.Suffix, s.Decoder); ok {
			return f, true
		}
	}
	return nil, false
}

func stat(path, decoder string) (*infodoc.File, bool) {
	fi, err := os.Stat(path)
	if err != nil || !fi.Mode().IsRegular() {
		return nil, false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return &infodoc.File{
		Path:    abs,
		Decoder: decoder,
		ModTime: fi.ModTime(),
		Size:    fi.Size(),
	}, true
}

// shortName truncates the base name of path to eight characters.
func shortName(path string) string {
	dir, base := filepath.Split(path)
	if len(base) <= 8 {
		return path
	}
	return filepath.Join(dir, base[:8])
}

// shortSuffixes maps ".info" suffixes to their three letter ".inf" form.
func shortSuffixes(suffixes []Suffix) []Suffix {
	out := make([]Suffix, 0, len(suffixes))
	for _, s := range suffixes {
		if strings.HasPrefix(s.Suffix, ".info") {
			s.Suffix = ".inf" + strings.TrimPrefix(s.Suffix, ".info")
		}
		out = append(out, s)
	}
	return out
}

func newManual(name string, f *infodoc.File) *infodoc.Manual {
	return &infodoc.Manual{
		Name:        name,
		File:        *f,
		Fingerprint: Fingerprint(f),
	}
}

// Fingerprint identifies a version of a file by path, size and
// modification time.
func Fingerprint(f *infodoc.File) string {
	h := xxhash.Sum64String(fmt.Sprintf("%s\x00%d\x00%d", f.Path, f.Size, f.ModTime.UnixNano()))
	return fmt.Sprintf("%016x", h)
}
