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

package multipart

import (
	"io"

	"github/sabouaram/fibernet/httpcodec"
	"github/sabouaram/fibernet/stream"
)

// BodyPart is one part of a multipart body: its entity headers plus a
// stream over its body bytes. In read mode, Headers is populated before
// NextPart returns the part. In write mode, the caller fills in Headers
// before the first call to Stream, which flushes them to the wire.
type BodyPart struct {
	mp      *Multipart
	headers httpcodec.Headers
	body    stream.Stream
}

// Headers exposes the part's entity headers for inspection (read mode)
// or population (write mode, before Stream is first called).
func (bp *BodyPart) Headers() *httpcodec.Headers {
	return &bp.headers
}

// Stream returns the body stream for this part.
//
// In read mode the returned stream reads exactly the bytes belonging to
// this part, returning io.EOF at the next boundary; it was built when
// the part was opened.
//
// In write mode the first call flushes the part's headers to the
// underlying stream and returns a writer; closing it signals Multipart
// that the part is done, clearing the way for the next NextPart/Finish
// call.
func (bp *BodyPart) Stream() (stream.Stream, error) {
	if bp.body != nil {
		return bp.body, nil
	}
	if !bp.mp.writing {
		return nil, ErrorPartNotDone.Error()
	}

	if err := httpcodec.FormatHeaders(bp.mp.raw, &bp.headers); err != nil {
		return nil, err
	}
	if _, err := bp.mp.raw.Write([]byte("\r\n")); err != nil {
		return nil, err
	}

	bp.body = stream.NewNotify(bp.mp.raw, false, stream.NotifyCallbacks{
		OnClose: bp.mp.partDone,
	})
	return bp.body, nil
}

// Multipart opens a nested Multipart over this part's body, when the
// part's own Content-Type is itself "multipart/*" with a boundary
// parameter (a multipart/mixed part inside a multipart/related body,
// for instance).
func (bp *BodyPart) Multipart() (*Multipart, error) {
	ct := bp.headers.ContentType
	if !ct.IsMultipart() {
		return nil, ErrorNotMultipart.Error()
	}
	boundary, ok := ct.Params["boundary"]
	if !ok || boundary == "" {
		return nil, ErrorNotMultipart.Error()
	}

	body, err := bp.Stream()
	if err != nil {
		return nil, err
	}
	return New(body, boundary, bp.mp.writing)
}

// boundaryReader caps reads at the offset of the enclosing Multipart's
// next delimiter, so a part's body stream never reads into the part
// that follows it.
type boundaryReader struct {
	stream.FilterStream

	finder stream.Finder
	delim  []byte
	done   bool
}

func newBoundaryReader(parent stream.Stream, finder stream.Finder, delim []byte) *boundaryReader {
	return &boundaryReader{
		FilterStream: stream.NewFilterStream(parent, false),
		finder:       finder,
		delim:        delim,
	}
}

func (r *boundaryReader) Read(p []byte) (int, error) {
	if r.done {
		return 0, io.EOF
	}

	offset, err := r.finder.FindBytes(r.delim, 0)
	if err != nil {
		return 0, err
	}
	if offset == 0 {
		r.done = true
		return 0, io.EOF
	}

	if int64(len(p)) > offset {
		p = p[:offset]
	}
	return r.Parent().Read(p)
}

func (r *boundaryReader) Write(p []byte) (int, error) {
	return 0, stream.ErrorCapabilityUnsupported.Error()
}

func (r *boundaryReader) Close() error {
	r.done = true
	return nil
}
