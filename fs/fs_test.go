package fs_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/infodoc/fs"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
	"github.com/ulikunitz/xz/lzma"
)

// writeFile writes content to path, creating parent directories, and
// compresses it with the named decoder's encoder.
func writeFile(t *testing.T, path, decoder, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, compress(t, decoder, content), 0o644))
}

func compress(t *testing.T, decoder, content string) []byte {
	t.Helper()
	var buf bytes.Buffer
	switch decoder {
	case fs.DecoderNone:
		buf.WriteString(content)
	case fs.DecoderGzip:
		w := gzip.NewWriter(&buf)
		_, err := w.Write([]byte(content))
		require.NoError(t, err)
		require.NoError(t, w.Close())
	case fs.DecoderZstd:
		w, err := zstd.NewWriter(&buf)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
		require.NoError(t, w.Close())
	case fs.DecoderXz:
		w, err := xz.NewWriter(&buf)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
		require.NoError(t, w.Close())
	case fs.DecoderLzma:
		w, err := lzma.NewWriter(&buf)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
		require.NoError(t, w.Close())
	default:
		t.Fatalf("no encoder for %q", decoder)
	}
	return buf.Bytes()
}
