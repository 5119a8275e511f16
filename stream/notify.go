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

import "io"

// NotifyCallbacks are invoked around the life cycle of a NotifyStream.
// Any nil entry is simply skipped. Panics inside a callback are
// recovered and surfaced as the Read/Write/Close error instead of
// crashing the caller.
type NotifyCallbacks struct {
	OnRead      func(n int)
	OnWrite     func(n int)
	OnEOF       func()
	OnException func(err error)
	OnClose     func()
	OnFlush     func()
}

// NotifyStream wraps parent and fires callbacks around read/write/close/
// EOF/error events, without altering the bytes that pass through.
type NotifyStream struct {
	FilterStream
	cb NotifyCallbacks
}

func NewNotify(parent Stream, owns bool, cb NotifyCallbacks) *NotifyStream {
	return &NotifyStream{
		FilterStream: NewFilterStream(parent, owns),
		cb:           cb,
	}
}

func safeCall(fn func()) {
	if fn == nil {
		return
	}
	defer func() { _ = recover() }()
	fn()
}

func (n *NotifyStream) Read(p []byte) (int, error) {
	read, err := n.Parent().Read(p)
	if read > 0 {
		safeCall(func() { n.cb.OnRead(read) })
	}
	if err == io.EOF {
		safeCall(n.cb.OnEOF)
	} else if err != nil {
		safeCall(func() { n.cb.OnException(err) })
	}
	return read, err
}

func (n *NotifyStream) Write(p []byte) (int, error) {
	wrote, err := n.Parent().Write(p)
	if wrote > 0 {
		safeCall(func() { n.cb.OnWrite(wrote) })
	}
	if err != nil {
		safeCall(func() { n.cb.OnException(err) })
	}
	return wrote, err
}

// Flush fires OnFlush; it exists so notify can sit above a flushing
// writer (e.g. a buffered socket) without losing that signal.
func (n *NotifyStream) Flush() error {
	safeCall(n.cb.OnFlush)
	if f, ok := n.Parent().(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

func (n *NotifyStream) Close() error {
	safeCall(n.cb.OnClose)
	return n.CloseParent()
}
