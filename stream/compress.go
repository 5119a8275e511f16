/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package stream

import (
	"compress/flate"
	"io"

	"github/sabouaram/fibernet/archive/compress"
)

// CompressStream runs one direction of a compression algorithm (gzip,
// deflate via zlib-less raw flate is not offered upstream, bzip2, lz4,
// xz) between itself and its parent. A stream is either a decompressing
// reader or a compressing writer, never both: compress/gzip and friends
// do not expose a bidirectional transform, so attempting the unopened
// direction returns ErrorCapabilityUnsupported.
type CompressStream struct {
	FilterStream

	algo compress.Algorithm

	rdr io.ReadCloser
	wtr io.WriteCloser
}

// NewCompressReader decompresses algo-encoded bytes read from parent.
func NewCompressReader(parent Stream, owns bool, algo compress.Algorithm) (*CompressStream, error) {
	rc, err := algo.Reader(parent)
	if err != nil {
		return nil, err
	}
	return &CompressStream{
		FilterStream: NewFilterStream(parent, owns),
		algo:         algo,
		rdr:          rc,
	}, nil
}

// NewCompressWriter compresses bytes written through it with algo before
// forwarding them to parent.
func NewCompressWriter(parent Stream, owns bool, algo compress.Algorithm) (*CompressStream, error) {
	wc, err := algo.Writer(parent)
	if err != nil {
		return nil, err
	}
	return &CompressStream{
		FilterStream: NewFilterStream(parent, owns),
		algo:         algo,
		wtr:          wc,
	}, nil
}

// NewGzipReader and NewGzipWriter pin the generic constructors to gzip,
// a per-algorithm convenience layered on top of the generic one.
func NewGzipReader(parent Stream, owns bool) (*CompressStream, error) {
	return NewCompressReader(parent, owns, compress.Gzip)
}

func NewGzipWriter(parent Stream, owns bool) (*CompressStream, error) {
	return NewCompressWriter(parent, owns, compress.Gzip)
}

// NewDeflateReader decompresses a raw DEFLATE stream (no gzip/zlib
// container). The archive/compress engine only wraps container formats
// (gzip, bzip2, lz4, xz), so raw deflate goes straight to the standard
// library's compress/flate, same as the engine does internally for
// gzip's own payload.
func NewDeflateReader(parent Stream, owns bool) (*CompressStream, error) {
	return &CompressStream{
		FilterStream: NewFilterStream(parent, owns),
		rdr:          flate.NewReader(parent),
	}, nil
}

func NewDeflateWriter(parent Stream, owns bool) (*CompressStream, error) {
	w, err := flate.NewWriter(parent, flate.DefaultCompression)
	if err != nil {
		return nil, err
	}
	return &CompressStream{
		FilterStream: NewFilterStream(parent, owns),
		wtr:          w,
	}, nil
}

func NewBzip2Reader(parent Stream, owns bool) (*CompressStream, error) {
	return NewCompressReader(parent, owns, compress.Bzip2)
}

func NewBzip2Writer(parent Stream, owns bool) (*CompressStream, error) {
	return NewCompressWriter(parent, owns, compress.Bzip2)
}

func NewLZ4Reader(parent Stream, owns bool) (*CompressStream, error) {
	return NewCompressReader(parent, owns, compress.LZ4)
}

func NewLZ4Writer(parent Stream, owns bool) (*CompressStream, error) {
	return NewCompressWriter(parent, owns, compress.LZ4)
}

func NewXZReader(parent Stream, owns bool) (*CompressStream, error) {
	return NewCompressReader(parent, owns, compress.XZ)
}

func NewXZWriter(parent Stream, owns bool) (*CompressStream, error) {
	return NewCompressWriter(parent, owns, compress.XZ)
}

func (c *CompressStream) Read(p []byte) (int, error) {
	if c.rdr == nil {
		return 0, ErrorCapabilityUnsupported.Error()
	}
	return c.rdr.Read(p)
}

func (c *CompressStream) Write(p []byte) (int, error) {
	if c.wtr == nil {
		return 0, ErrorCapabilityUnsupported.Error()
	}
	return c.wtr.Write(p)
}

func (c *CompressStream) Close() error {
	if c.rdr != nil {
		_ = c.rdr.Close()
	}
	if c.wtr != nil {
		if err := c.wtr.Close(); err != nil {
			return err
		}
	}
	return c.CloseParent()
}
