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

package httpconn

import (
	"io"
	"strings"

	"github/sabouaram/fibernet/httpcodec"
	"github/sabouaram/fibernet/stream"
	"github/sabouaram/fibernet/stream/multipart"
)

// deriveBodyStream wraps raw in the filter chain that makes the entity
// body described by h readable on its own terms, in the order spec'd
// for both request and response entities: a chunked Transfer-Encoding
// wraps first; any remaining content-codings, named outermost-last,
// unwrap in reverse; otherwise Content-Length bounds a strict
// LimitedStream; otherwise a multipart/* Content-Type is itself
// self-delimiting; otherwise the body runs to connection close and
// mustClose reports that the connection cannot be reused afterward.
//
// hasBody must already reflect the method/status rules that forbid a
// body outright (HEAD responses, 1xx/204/304, etc.) — this function
// does not apply those rules itself.
func deriveBodyStream(raw stream.Stream, h *httpcodec.Headers) (body stream.Stream, mp *multipart.Multipart, mustClose bool, err error) {
	if h.IsChunked() {
		cur := stream.Stream(stream.NewChunked(raw, false))
		codings := h.TransferEncoding.Names()
		for i := len(codings) - 2; i >= 0; i-- {
			cur, err = wrapCoding(cur, codings[i])
			if err != nil {
				return nil, nil, false, err
			}
		}
		return cur, nil, false, nil
	}

	if h.ContentLength >= 0 {
		return stream.NewLimited(raw, h.ContentLength, true, false), nil, false, nil
	}

	if h.ContentType.IsMultipart() {
		boundary, ok := h.ContentType.Params["boundary"]
		if !ok || boundary == "" {
			return nil, nil, false, ErrorMissingMultipartBoundary.Error()
		}
		m, merr := multipart.New(raw, boundary, false)
		if merr != nil {
			return nil, nil, false, ErrorInvalidMultipartBoundary.Error()
		}
		return newMultipartFlattener(m), m, false, nil
	}

	return raw, nil, true, nil
}

// deriveBodyWriter wraps raw in the filter that frames an outgoing
// entity body per h: chunked framing if Transfer-Encoding says so,
// else a strict length cap if Content-Length is set, else raw,
// close-delimited bytes. Content-codings on outgoing bodies are the
// caller's responsibility to have already applied before Write; this
// connection layer only frames, it does not compress.
func deriveBodyWriter(raw stream.Stream, h *httpcodec.Headers) stream.Stream {
	if h.IsChunked() {
		return stream.NewChunked(raw, false)
	}
	if h.ContentLength >= 0 {
		return stream.NewLimited(raw, h.ContentLength, true, false)
	}
	return raw
}

// wrapCoding applies the decoder for a single content-coding name, as
// listed (outermost-first) in a Transfer-Encoding or Content-Encoding
// stack.
func wrapCoding(parent stream.Stream, name string) (stream.Stream, error) {
	switch strings.ToLower(name) {
	case "identity", "":
		return parent, nil
	case "gzip", "x-gzip":
		return stream.NewGzipReader(parent, false)
	case "deflate":
		return stream.NewDeflateReader(parent, false)
	default:
		return nil, httpcodec.ErrorInvalidTransferEncoding.Error()
	}
}

// multipartFlattener presents a multipart body as a single byte
// stream by concatenating each part's body in turn, dropping per-part
// headers; callers that need the headers use Parts() (or the
// *multipart.Multipart returned alongside by deriveBodyStream) instead
// of this stream.
type multipartFlattener struct {
	mp      *multipart.Multipart
	current stream.Stream
	done    bool
}

func newMultipartFlattener(mp *multipart.Multipart) *multipartFlattener {
	return &multipartFlattener{mp: mp}
}

func (f *multipartFlattener) Read(p []byte) (int, error) {
	for {
		if f.done {
			return 0, io.EOF
		}
		if f.current == nil {
			part, err := f.mp.NextPart()
			if err != nil {
				return 0, err
			}
			if part == nil {
				f.done = true
				return 0, io.EOF
			}
			f.current, err = part.Stream()
			if err != nil {
				return 0, err
			}
		}

		n, err := f.current.Read(p)
		if err == io.EOF {
			f.current = nil
			if n > 0 {
				return n, nil
			}
			continue
		}
		return n, err
	}
}

func (f *multipartFlattener) Write(p []byte) (int, error) {
	return 0, stream.ErrorCapabilityUnsupported.Error()
}

func (f *multipartFlattener) Close() error {
	f.done = true
	return nil
}

func (f *multipartFlattener) CancelRead()  {}
func (f *multipartFlattener) CancelWrite() {}
