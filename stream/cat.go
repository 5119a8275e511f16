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
)

// CatStream reads sequentially from a fixed list of streams, advancing
// to the next one on io.EOF and reporting io.EOF itself only once the
// last stream is drained. It has no parent of its own and does not
// support writes.
type CatStream struct {
	mu      sync.Mutex
	streams []Stream
	idx     int
	owns    bool
}

func NewCat(owns bool, streams ...Stream) *CatStream {
	return &CatStream{streams: streams, owns: owns}
}

func (c *CatStream) Read(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for c.idx < len(c.streams) {
		n, err := c.streams[c.idx].Read(p)
		if n > 0 {
			return n, nil
		}
		if err == io.EOF {
			c.idx++
			continue
		}
		return n, err
	}

	return 0, io.EOF
}

func (c *CatStream) Write(p []byte) (int, error) {
	return 0, ErrorCapabilityUnsupported.Error()
}

func (c *CatStream) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.owns {
		return nil
	}

	var first error
	for _, s := range c.streams {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (c *CatStream) CancelRead() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.idx < len(c.streams) {
		c.streams[c.idx].CancelRead()
	}
}

func (c *CatStream) CancelWrite() {}
