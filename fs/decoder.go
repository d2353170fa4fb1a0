package fs

import (
	"compress/bzip2"
	"fmt"
	"io"

	"github.com/fwojciec/infodoc"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
	"github.com/ulikunitz/xz/lzma"
)

// Decoder names bound to file suffixes.
const (
	DecoderNone  = ""
	DecoderGzip  = "gzip"
	DecoderBzip2 = "bzip2"
	DecoderXz    = "xz"
	DecoderLzma  = "lzma"
	DecoderZstd  = "zstd"
)

// Suffix binds a file name suffix to the decoder used to read it.
type Suffix struct {
	Suffix  string
	Decoder string
}

// DefaultSuffixes is the order in which suffixes are tried when locating a
// manual. The empty suffix is always last.
var DefaultSuffixes = []Suffix{
	{".info.gz", DecoderGzip},
	{".info.z", DecoderGzip},
	{".info.bz2", DecoderBzip2},
	{".info.xz", DecoderXz},
	{".info.lzma", DecoderLzma},
	{".info.zst", DecoderZstd},
	{".info", DecoderNone},
	{"-info.gz", DecoderGzip},
	{"-info.z", DecoderGzip},
	{"-info.bz2", DecoderBzip2},
	{"-info.xz", DecoderXz},
	{"-info.zst", DecoderZstd},
	{"-info", DecoderNone},
	{"/index.gz", DecoderGzip},
	{"/index.bz2", DecoderBzip2},
	{"/index.xz", DecoderXz},
	{"/index.zst", DecoderZstd},
	{"/index", DecoderNone},
	{".gz", DecoderGzip},
	{".z", DecoderGzip},
	{".bz2", DecoderBzip2},
	{".xz", DecoderXz},
	{".lzma", DecoderLzma},
	{".zst", DecoderZstd},
	{"", DecoderNone},
}

// NewDecoder wraps r with the named decoder. The returned closer releases
// decoder resources; it does not close r.
func NewDecoder(name string, r io.Reader) (io.ReadCloser, error) {
	switch name {
	case DecoderNone:
		return io.NopCloser(r), nil
	case DecoderGzip:
		gr, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		return gr, nil
	case DecoderBzip2:
		return io.NopCloser(bzip2.NewReader(r)), nil
	case DecoderXz:
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, err
		}
		return io.NopCloser(xr), nil
	case DecoderLzma:
		lr, err := lzma.NewReader(r)
		if err != nil {
			return nil, err
		}
		return io.NopCloser(lr), nil
	case DecoderZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return zr.IOReadCloser(), nil
	}
	return nil, infodoc.Errorf(infodoc.EINVALID, "unknown decoder %q", name)
}

// Decode reads all of r through the named decoder.
func Decode(name string, r io.Reader) ([]byte, error) {
	dr, err := NewDecoder(name, r)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s decoder: %w", name, err)
	}
	defer dr.Close()

	b, err := io.ReadAll(dr)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s stream: %w", name, err)
	}
	return b, nil
}
