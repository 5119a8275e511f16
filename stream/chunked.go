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
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
)

// ChunkedStream implements RFC 7230 §4.1 chunked transfer coding: Read
// strips chunk-size lines and the trailing CRLF from each chunk,
// delivering only payload bytes and returning io.EOF after the
// zero-length terminating chunk; Write frames each call into its own
// chunk. Close on the write side emits the terminating "0\r\n\r\n".
type ChunkedStream struct {
	FilterStream

	mu sync.Mutex
	br *bufio.Reader

	remaining int64
	readDone  bool

	writeClosed bool
}

func NewChunked(parent Stream, owns bool) *ChunkedStream {
	return &ChunkedStream{
		FilterStream: NewFilterStream(parent, owns),
		br:           bufio.NewReader(parent),
	}
}

func (c *ChunkedStream) Read(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.readDone {
		return 0, io.EOF
	}

	if c.remaining == 0 {
		size, err := c.readChunkSizeLine()
		if err != nil {
			return 0, err
		}
		if size == 0 {
			if err := c.readTrailer(); err != nil {
				return 0, err
			}
			c.readDone = true
			return 0, io.EOF
		}
		c.remaining = size
	}

	if int64(len(p)) > c.remaining {
		p = p[:c.remaining]
	}

	n, err := c.br.Read(p)
	c.remaining -= int64(n)

	if c.remaining == 0 && err == nil {
		if _, dErr := c.br.Discard(2); dErr != nil {
			return n, ErrorInvalidChunkFooter.Error()
		}
	}

	return n, err
}

func (c *ChunkedStream) readChunkSizeLine() (int64, error) {
	line, err := c.br.ReadString('\n')
	if err != nil {
		return 0, ErrorInvalidChunkHeader.Error()
	}

	line = strings.TrimRight(line, "\r\n")
	if semi := strings.IndexByte(line, ';'); semi >= 0 {
		line = line[:semi]
	}
	line = strings.TrimSpace(line)

	size, err := strconv.ParseInt(line, 16, 64)
	if err != nil || size < 0 {
		return 0, ErrorInvalidChunkHeader.Error()
	}
	return size, nil
}

func (c *ChunkedStream) readTrailer() error {
	for {
		line, err := c.br.ReadString('\n')
		if err != nil {
			return ErrorInvalidChunkFooter.Error()
		}
		if strings.TrimRight(line, "\r\n") == "" {
			return nil
		}
	}
}

func (c *ChunkedStream) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.writeClosed {
		return 0, ErrorAlreadyClosed.Error()
	}
	if len(p) == 0 {
		return 0, nil
	}

	if _, err := fmt.Fprintf(c.Parent(), "%x\r\n", len(p)); err != nil {
		return 0, err
	}
	n, err := c.Parent().Write(p)
	if err != nil {
		return n, err
	}
	if _, err := c.Parent().Write([]byte("\r\n")); err != nil {
		return n, err
	}
	return n, nil
}

// Close writes the terminating zero-length chunk and closes the parent
// if owned.
func (c *ChunkedStream) Close() error {
	c.mu.Lock()
	if !c.writeClosed {
		c.writeClosed = true
		_, _ = c.Parent().Write([]byte("0\r\n\r\n"))
	}
	c.mu.Unlock()

	return c.CloseParent()
}
