package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dsnet/compress/brotli"
	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// decoders maps a compression suffix to a function wrapping a reader with the
// matching decompressor.
var decoders = map[string]func(io.Reader) (io.ReadCloser, error){
	".gz": func(r io.Reader) (io.ReadCloser, error) {
		return gzip.NewReader(r)
	},
	".zst": func(r io.Reader) (io.ReadCloser, error) {
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return zr.IOReadCloser(), nil
	},
	".xz": func(r io.Reader) (io.ReadCloser, error) {
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, err
		}
		return io.NopCloser(xr), nil
	},
	".bz2": func(r io.Reader) (io.ReadCloser, error) {
		return bzip2.NewReader(r, nil)
	},
	".br": func(r io.Reader) (io.ReadCloser, error) {
		return brotli.NewReader(r, nil)
	},
}

func isCompressed(filename string) bool {
	_, ok := decoders[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// Decompress wraps r with the decompressor named by filename's extension and
// returns the filename with that extension removed. Uncompressed input is
// passed through unchanged.
func Decompress(r io.Reader, filename string) (io.ReadCloser, string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	open, ok := decoders[ext]
	if !ok {
		return io.NopCloser(r), filename, nil
	}
	rc, err := open(r)
	if err != nil {
		return nil, "", fmt.Errorf("decompress %s: %w", filename, err)
	}
	return rc, strings.TrimSuffix(filename, filepath.Ext(filename)), nil
}
