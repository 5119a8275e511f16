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
	"io"
	"sync"

	"github/sabouaram/fibernet/buffer"
)

const defaultReadChunk = 4096

// BufferedStream interposes a read-ahead buffer in front of parent,
// giving the filter chain Find/Unread lookahead without consuming bytes
// the next stage still needs to see (used by the request/response
// parser to locate header boundaries before handing payload bytes on).
type BufferedStream struct {
	FilterStream

	mu        sync.Mutex
	rbuf      buffer.Buffer
	chunkSize int
}

// NewBuffered wraps parent with a read-ahead buffer of the default chunk
// size.
func NewBuffered(parent Stream, owns bool) *BufferedStream {
	return NewBufferedSize(parent, owns, defaultReadChunk)
}

// NewBufferedSize is NewBuffered with an explicit fill chunk size.
func NewBufferedSize(parent Stream, owns bool, chunkSize int) *BufferedStream {
	if chunkSize <= 0 {
		chunkSize = defaultReadChunk
	}
	return &BufferedStream{
		FilterStream: NewFilterStream(parent, owns),
		rbuf:         buffer.New(),
		chunkSize:    chunkSize,
	}
}

// fill reads at least one chunk from the parent into rbuf, returning the
// parent's error (including io.EOF) if nothing could be read.
func (b *BufferedStream) fill() error {
	tmp := make([]byte, b.chunkSize)
	n, err := b.Parent().Read(tmp)
	if n > 0 {
		_, _ = b.rbuf.CopyIn(tmp, int64(n))
	}
	if n == 0 && err != nil {
		return err
	}
	return nil
}

func (b *BufferedStream) Read(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.rbuf.ReadAvailable() == 0 {
		if err := b.fill(); err != nil {
			return 0, err
		}
	}

	n, _ := b.rbuf.CopyOut(p, int64(len(p)))
	_ = b.rbuf.Consume(n)
	return int(n), nil
}

func (b *BufferedStream) Write(p []byte) (int, error) {
	return b.Parent().Write(p)
}

func (b *BufferedStream) Close() error {
	return b.CloseParent()
}

// Find scans for b within sanityLimit bytes, filling from the parent as
// needed, without consuming the scanned bytes.
func (b *BufferedStream) Find(needle byte, sanityLimit int64) (int64, error) {
	return b.FindBytes([]byte{needle}, sanityLimit)
}

func (b *BufferedStream) FindBytes(seq []byte, sanityLimit int64) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for {
		var (
			off int64
			err error
		)
		if len(seq) == 1 {
			off, err = b.rbuf.Find(seq[0], sanityLimit, buffer.FindReturnOffset)
		} else {
			off, err = b.rbuf.FindBytes(seq, sanityLimit, buffer.FindReturnOffset)
		}
		if err != nil {
			return 0, err
		}
		if off >= 0 {
			return off, nil
		}

		if fillErr := b.fill(); fillErr != nil {
			if fillErr == io.EOF {
				return 0, ErrorUnexpectedEof.Error()
			}
			return 0, fillErr
		}
	}
}

// Unread pushes p back to the front of the read-ahead buffer.
func (b *BufferedStream) Unread(p []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	merged := buffer.New()
	_, _ = merged.CopyIn(p, int64(len(p)))
	_, _ = merged.CopyIn(b.rbuf.Bytes(), b.rbuf.ReadAvailable())
	b.rbuf = merged
	return nil
}
