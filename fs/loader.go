package fs

import (
	"context"
	"fmt"
	"os"

	"github.com/fwojciec/infodoc"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Ensure Loader implements infodoc.FileLoader at compile time.
var _ infodoc.FileLoader = (*Loader)(nil)

// DefaultCacheSize is the number of decoded files a Loader keeps by default.
const DefaultCacheSize = 32

// Loader implements infodoc.FileLoader. Decoded contents are kept in an LRU
// cache keyed by path, size and modification time, so a file rewritten on
// disk is decoded again. It is safe for concurrent use.
type Loader struct {
	cache *lru.Cache[string, []byte]
}

// NewLoader creates a Loader caching up to size decoded files.
func NewLoader(size int) *Loader {
	if size <= 0 {
		size = DefaultCacheSize
	}
	// lru.New only fails for non-positive sizes.
	cache, _ := lru.New[string, []byte](size)
	return &Loader{cache: cache}
}

// LoadFile returns the decoded contents of f. Callers must not modify the
// returned slice.
func (l *Loader) LoadFile(ctx context.Context, f *infodoc.File) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := Fingerprint(f)
	if b, ok := l.cache.Get(key); ok {
		return b, nil
	}

	fh, err := os.Open(f.Path)
	if os.IsNotExist(err) {
		return nil, infodoc.Errorf(infodoc.ENOMANUAL, "Info file %s does not exist", f.Path)
	} else if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", f.Path, err)
	}
	defer fh.Close()

	b, err := Decode(f.Decoder, fh)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.Path, err)
	}
	l.cache.Add(key, b)
	return b, nil
}

// Len returns the number of cached files.
func (l *Loader) Len() int {
	return l.cache.Len()
}

// Purge drops every cached file.
func (l *Loader) Purge() {
	l.cache.Purge()
}
