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

// FilterStream holds the parent + owns-flag plumbing shared by every
// concrete filter: Close closes the parent iff owns is set, and Parent/
// Owns satisfy the Parent/Owner capability interfaces uniformly.
type FilterStream struct {
	parent Stream
	owns   bool
}

func NewFilterStream(parent Stream, owns bool) FilterStream {
	return FilterStream{parent: parent, owns: owns}
}

func (f *FilterStream) Parent() Stream { return f.parent }
func (f *FilterStream) Owns() bool     { return f.owns }

func (f *FilterStream) CancelRead() {
	if f.parent != nil {
		f.parent.CancelRead()
	}
}

func (f *FilterStream) CancelWrite() {
	if f.parent != nil {
		f.parent.CancelWrite()
	}
}

// CloseParent closes the parent stream if this filter owns it. Concrete
// filters call this from their own Close after releasing their own
// resources.
func (f *FilterStream) CloseParent() error {
	if f.owns && f.parent != nil {
		return f.parent.Close()
	}
	return nil
}
