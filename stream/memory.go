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

// memoryStream is a fully seekable, truncatable in-memory stream backed
// by a single growable slice with an independent read/write cursor.
type memoryStream struct {
	mu     sync.Mutex
	data   []byte
	cursor int64
	closed bool
}

func NewMemory() Stream {
	return &memoryStream{}
}

func NewMemoryFrom(initial []byte) Stream {
	b := make([]byte, len(initial))
	copy(b, initial)
	return &memoryStream{data: b}
}

func (m *memoryStream) Read(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, ErrorAlreadyClosed.Error()
	}
	if m.cursor >= int64(len(m.data)) {
		return 0, io.EOF
	}

	n := copy(p, m.data[m.cursor:])
	m.cursor += int64(n)
	return n, nil
}

func (m *memoryStream) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, ErrorAlreadyClosed.Error()
	}
	if len(p) == 0 {
		return 0, nil
	}

	end := m.cursor + int64(len(p))
	if end > int64(len(m.data)) {
		grown := make([]byte, end)
		copy(grown, m.data)
		m.data = grown
	}

	n := copy(m.data[m.cursor:end], p)
	m.cursor += int64(n)
	return n, nil
}

func (m *memoryStream) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *memoryStream) CancelRead()  {}
func (m *memoryStream) CancelWrite() {}

func (m *memoryStream) Seek(offset int64, whence int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var base int64
	switch whence {
	case io.SeekStart:
		base = 0
	case io.SeekCurrent:
		base = m.cursor
	case io.SeekEnd:
		base = int64(len(m.data))
	}

	m.cursor = base + offset
	return m.cursor, nil
}

func (m *memoryStream) Tell() (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursor, nil
}

func (m *memoryStream) Size() (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.data)), nil
}

func (m *memoryStream) Truncate(size int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if size < 0 {
		return ErrorCapabilityUnsupported.Error()
	}
	if size <= int64(len(m.data)) {
		m.data = m.data[:size]
		return nil
	}

	grown := make([]byte, size)
	copy(grown, m.data)
	m.data = grown
	return nil
}

// Bytes returns a copy of the stream's current contents, irrespective of
// cursor position.
func (m *memoryStream) Bytes() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]byte, len(m.data))
	copy(out, m.data)
	return out
}
