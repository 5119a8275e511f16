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

import "time"

// TimeoutStream bounds how long a single Read or Write call may block
// on the parent. A zero duration disables the bound for that direction.
// On expiry it calls CancelRead/CancelWrite on the parent (a no-op if
// unsupported) and returns ErrorTimedOut; the underlying parent call may
// still complete afterward and is discarded.
type TimeoutStream struct {
	FilterStream

	readTimeout  time.Duration
	writeTimeout time.Duration
}

func NewTimeout(parent Stream, owns bool, readTimeout, writeTimeout time.Duration) *TimeoutStream {
	return &TimeoutStream{
		FilterStream: NewFilterStream(parent, owns),
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

type ioResult struct {
	n   int
	err error
}

func (t *TimeoutStream) Read(p []byte) (int, error) {
	if t.readTimeout <= 0 {
		return t.Parent().Read(p)
	}

	done := make(chan ioResult, 1)
	go func() {
		n, err := t.Parent().Read(p)
		done <- ioResult{n, err}
	}()

	select {
	case r := <-done:
		return r.n, r.err
	case <-time.After(t.readTimeout):
		t.Parent().CancelRead()
		return 0, ErrorTimedOut.Error()
	}
}

func (t *TimeoutStream) Write(p []byte) (int, error) {
	if t.writeTimeout <= 0 {
		return t.Parent().Write(p)
	}

	done := make(chan ioResult, 1)
	go func() {
		n, err := t.Parent().Write(p)
		done <- ioResult{n, err}
	}()

	select {
	case r := <-done:
		return r.n, r.err
	case <-time.After(t.writeTimeout):
		t.Parent().CancelWrite()
		return 0, ErrorTimedOut.Error()
	}
}

func (t *TimeoutStream) Close() error {
	return t.CloseParent()
}
