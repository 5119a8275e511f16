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
	"crypto/rand"
	"io"
)

// nullStream discards every write and reports EOF on every read.
type nullStream struct{}

func NewNull() Stream { return &nullStream{} }

func (n *nullStream) Read(p []byte) (int, error)  { return 0, io.EOF }
func (n *nullStream) Write(p []byte) (int, error) { return len(p), nil }
func (n *nullStream) Close() error                { return nil }
func (n *nullStream) CancelRead()                 {}
func (n *nullStream) CancelWrite()                {}

// zeroStream produces an infinite run of zero bytes and discards writes.
type zeroStream struct{}

func NewZero() Stream { return &zeroStream{} }

func (z *zeroStream) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}
func (z *zeroStream) Write(p []byte) (int, error) { return len(p), nil }
func (z *zeroStream) Close() error                { return nil }
func (z *zeroStream) CancelRead()                 {}
func (z *zeroStream) CancelWrite()                {}

// randomStream produces cryptographically random bytes and discards
// writes; useful as padding/test-fixture source over the stream stack.
type randomStream struct{}

func NewRandom() Stream { return &randomStream{} }

func (r *randomStream) Read(p []byte) (int, error) { return rand.Read(p) }
func (r *randomStream) Write(p []byte) (int, error) { return len(p), nil }
func (r *randomStream) Close() error                { return nil }
func (r *randomStream) CancelRead()                 {}
func (r *randomStream) CancelWrite()                {}
