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

// Stream is the baseline every concrete stream implements. Read follows
// io.Reader except that a return of (0, nil) never happens — 0 is always
// paired with io.EOF or another error. Write returns >= 1 on success;
// returning 0 with a nil error is never valid.
type Stream interface {
	io.Reader
	io.Writer
	io.Closer

	// CancelRead aborts any in-flight Read, which then returns
	// ErrorOperationAborted. A no-op on streams with nothing in flight or
	// that do not support cancellation.
	CancelRead()

	// CancelWrite aborts any in-flight Write, symmetric with CancelRead.
	CancelWrite()
}

// Seeker is an optional capability: streams backed by addressable
// storage (memory, file) support it; mutating filters never do.
type Seeker interface {
	Seek(offset int64, whence int) (int64, error)
}

// Teller reports the current read/write offset.
type Teller interface {
	Tell() (int64, error)
}

// Sizer reports the total size of the underlying storage, if known.
type Sizer interface {
	Size() (int64, error)
}

// Truncater changes the size of the underlying storage.
type Truncater interface {
	Truncate(size int64) error
}

// HalfCloser lets a full-duplex stream shut down one direction while
// keeping the other open, e.g. a TCP connection's CloseWrite/CloseRead.
type HalfCloser interface {
	CloseRead() error
	CloseWrite() error
}

// Finder scans forward for a byte or sequence without consuming it,
// following the buffer package's not-found convention.
type Finder interface {
	Find(b byte, sanityLimit int64) (int64, error)
	FindBytes(seq []byte, sanityLimit int64) (int64, error)
}

// Unreader pushes bytes back so a parser can look ahead without the
// underlying stream losing them.
type Unreader interface {
	Unread(p []byte) error
}

// Owner reports whether a FilterStream closes its parent when it itself
// is closed.
type Owner interface {
	Owns() bool
}

// Parent exposes the stream directly beneath a filter, letting callers
// walk the filter chain (used by the HTTP connection layer to reach the
// raw socket for half-close).
type Parent interface {
	Parent() Stream
}
