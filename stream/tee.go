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

	"github/sabouaram/fibernet/ioutils/multi"
)

// TeeStream duplicates every byte that passes through Read (and, if
// configured, Write) into one or more side destinations, broadcasting
// via a multi.Multi the same way a splitter duplicates a reader's
// output across several writers.
type TeeStream struct {
	FilterStream

	side      multi.Multi
	teeWrites bool
}

// NewTee duplicates bytes read from parent into side. Reads are
// unaffected by a side write error: the side destinations are best
// effort, matching io.TeeReader's contract.
func NewTee(parent Stream, owns bool, side ...io.Writer) *TeeStream {
	m := multi.New()
	m.AddWriter(side...)

	return &TeeStream{
		FilterStream: NewFilterStream(parent, owns),
		side:         m,
	}
}

// NewTeeWrite is NewTee but also duplicates bytes handed to Write,
// instead of bytes returned from Read.
func NewTeeWrite(parent Stream, owns bool, side ...io.Writer) *TeeStream {
	t := NewTee(parent, owns, side...)
	t.teeWrites = true
	return t
}

// AddSide registers additional side destinations.
func (t *TeeStream) AddSide(w ...io.Writer) {
	t.side.AddWriter(w...)
}

func (t *TeeStream) Read(p []byte) (int, error) {
	n, err := t.Parent().Read(p)
	if n > 0 && !t.teeWrites {
		_, _ = t.side.Write(p[:n])
	}
	return n, err
}

func (t *TeeStream) Write(p []byte) (int, error) {
	n, err := t.Parent().Write(p)
	if n > 0 && t.teeWrites {
		_, _ = t.side.Write(p[:n])
	}
	return n, err
}

func (t *TeeStream) Close() error {
	return t.CloseParent()
}
