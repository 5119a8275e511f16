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

// LimitedStream caps reads at n bytes and, in strict mode, raises
// ErrorUnexpectedEof if the parent runs dry before n bytes have been
// delivered; writes beyond n raise ErrorWriteBeyondEof.
type LimitedStream struct {
	FilterStream

	mu       sync.Mutex
	limit    int64
	strict   bool
	readPos  int64
	writePos int64
}

// NewLimited wraps parent, allowing at most limit bytes to be read and
// limit bytes to be written through the filter.
func NewLimited(parent Stream, limit int64, strict bool, owns bool) *LimitedStream {
	return &LimitedStream{
		FilterStream: NewFilterStream(parent, owns),
		limit:        limit,
		strict:       strict,
	}
}

func (l *LimitedStream) Read(p []byte) (int, error) {
	l.mu.Lock()
	remaining := l.limit - l.readPos
	l.mu.Unlock()

	if remaining <= 0 {
		return 0, io.EOF
	}
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}

	n, err := l.Parent().Read(p)

	l.mu.Lock()
	l.readPos += int64(n)
	stillShort := l.strict && err == io.EOF && l.readPos < l.limit
	l.mu.Unlock()

	if stillShort {
		return n, ErrorUnexpectedEof.Error()
	}
	return n, err
}

func (l *LimitedStream) Write(p []byte) (int, error) {
	l.mu.Lock()
	remaining := l.limit - l.writePos
	l.mu.Unlock()

	if int64(len(p)) > remaining {
		return 0, ErrorWriteBeyondEof.Error()
	}

	n, err := l.Parent().Write(p)

	l.mu.Lock()
	l.writePos += int64(n)
	l.mu.Unlock()

	return n, err
}

func (l *LimitedStream) Close() error {
	return l.CloseParent()
}

// Remaining reports how many more bytes may be read before the limit is
// reached.
func (l *LimitedStream) Remaining() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.limit - l.readPos
}
