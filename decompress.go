package ldindex

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"compress/zlib"
	"io"

	"github.com/krolaw/zipstream"
	"github.com/xi2/xz"
)

// Compression identifies the compression wrapper around a stream, if any.
type Compression byte

const (
	CompressionNone Compression = iota
	CompressionGzip
	CompressionZip
	CompressionXZ
	CompressionZlib
	CompressionBZip2
)

// Magic byte signatures. See https://stackoverflow.com/a/19127748/199475
var compressionSigs = map[Compression][]byte{
	CompressionGzip:  {0x1f, 0x8b, 0x08},
	CompressionZip:   {0x50, 0x4b, 0x03, 0x04},
	CompressionXZ:    {0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00},
	CompressionZlib:  {0x1f, 0x9d},
	CompressionBZip2: {0x42, 0x5a, 0x68},
}

// SniffCompression identifies the compression of a stream from its leading
// bytes without consuming them.
func SniffCompression(r *bufio.Reader) (Compression, error) {
	buff, err := r.Peek(6)
	if err != nil && err != io.EOF {
		return CompressionNone, err
	}

	for c, sig := range compressionSigs {
		if bytes.HasPrefix(buff, sig) {
			return c, nil
		}
	}

	return CompressionNone, nil
}

// MaybeDecompress sniffs the stream and, if it is compressed in a recognized
// format, wraps it in the matching decompressor. Unrecognized data passes
// through unchanged. Matrix dumps, raw index tables, and chain files are all
// routinely gzipped, so every tabular input goes through this.
func MaybeDecompress(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)

	c, err := SniffCompression(br)
	if err != nil {
		return nil, err
	}

	switch c {
	case CompressionGzip:
		return gzip.NewReader(br)
	case CompressionZip:
		return zipstream.NewReader(br), nil
	case CompressionBZip2:
		return bzip2.NewReader(br), nil
	case CompressionXZ:
		return xz.NewReader(br, 0)
	case CompressionZlib:
		return zlib.NewReader(br)
	}

	return br, nil
}
