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

// Package multipart reads and writes MIME multipart bodies (RFC 2046)
// over a stream.Stream, the way an HTTP entity with a "multipart/*"
// Content-Type is framed on the wire: a sequence of body parts each
// carrying their own entity headers, separated by a boundary delimiter
// and terminated by a final close delimiter.
package multipart

import (
	"bytes"
	"io"

	"github/sabouaram/fibernet/httpcodec"
	"github/sabouaram/fibernet/stream"
)

// Multipart drives one multipart entity body, either producing parts
// (writing) or consuming them (reading). A single Multipart is one
// direction only; reading a part's nested multipart body opens a child
// Multipart over the same underlying stream.
type Multipart struct {
	raw      stream.Stream
	finder   stream.Finder
	delim    []byte
	writing  bool
	finished bool
	current  *BodyPart
}

// New wraps parent for reading or writing a multipart body delimited by
// boundary. In read mode, parent is wrapped in a buffered stream unless
// it already supports the Finder capability, since locating successive
// boundaries needs unconsumed lookahead.
func New(parent stream.Stream, boundary string, writing bool) (*Multipart, error) {
	b, err := validateBoundary(boundary)
	if err != nil {
		return nil, err
	}

	m := &Multipart{
		raw:     parent,
		delim:   []byte("\r\n--" + b),
		writing: writing,
	}

	if !writing {
		if f, ok := parent.(stream.Finder); ok {
			m.finder = f
		} else {
			buffered := stream.NewBuffered(parent, false)
			m.finder = buffered
			m.raw = buffered
		}
	}

	return m, nil
}

func (m *Multipart) partDone() {
	m.current = nil
}

// Finished reports whether the closing delimiter has been read (read
// mode) or written (write mode, via Finish).
func (m *Multipart) Finished() bool {
	return m.finished
}

// NextPart advances to the next body part.
//
// In write mode it emits the boundary delimiter and returns a fresh
// BodyPart ready to accept headers and a body; the previous part's
// stream must already have been closed.
//
// In read mode it drains any unread bytes of the current part, scans
// for the next delimiter, and returns either the following BodyPart or
// (nil, nil) once the closing delimiter has been consumed.
func (m *Multipart) NextPart() (*BodyPart, error) {
	if m.finished {
		return nil, nil
	}

	if m.writing {
		return m.nextPartWrite()
	}
	return m.nextPartRead()
}

func (m *Multipart) nextPartWrite() (*BodyPart, error) {
	if m.current != nil {
		return nil, ErrorPartNotDone.Error()
	}

	if _, err := m.raw.Write(m.delim); err != nil {
		return nil, err
	}
	if _, err := m.raw.Write([]byte("\r\n")); err != nil {
		return nil, err
	}

	bp := &BodyPart{mp: m, headers: httpcodec.NewHeaders()}
	m.current = bp
	return bp, nil
}

func (m *Multipart) nextPartRead() (*BodyPart, error) {
	if m.current != nil {
		if _, err := io.Copy(io.Discard, m.current.body); err != nil && err != io.EOF {
			return nil, err
		}
		m.current = nil
	}

	offset, err := m.finder.FindBytes(m.delim, 0)
	if err != nil {
		return nil, err
	}

	skip := make([]byte, offset+int64(len(m.delim)))
	if _, err = io.ReadFull(m.raw, skip); err != nil {
		return nil, err
	}

	marker := make([]byte, 2)
	if _, err = io.ReadFull(m.raw, marker); err != nil {
		return nil, err
	}

	switch string(marker) {
	case "--":
		m.finished = true
		return nil, nil
	case "\r\n":
		// continuation into the next part's headers
	default:
		return nil, ErrorMalformedDelimiter.Error()
	}

	h := httpcodec.NewHeaders()
	if err = readEntityHeaders(m.finder, m.raw, &h); err != nil {
		return nil, err
	}

	bp := &BodyPart{mp: m, headers: h}
	bp.body = stream.NewNotify(newBoundaryReader(m.raw, m.finder, m.delim), false, stream.NotifyCallbacks{
		OnEOF: m.partDone,
	})
	m.current = bp
	return bp, nil
}

// Finish writes the closing delimiter. Only valid in write mode, and
// only once the last part's stream has been closed.
func (m *Multipart) Finish() error {
	if !m.writing {
		return ErrorNotMultipart.Error()
	}
	if m.finished {
		return ErrorAlreadyFinished.Error()
	}
	if m.current != nil {
		return ErrorPartNotDone.Error()
	}

	if _, err := m.raw.Write(m.delim); err != nil {
		return err
	}
	if _, err := m.raw.Write([]byte("--\r\n")); err != nil {
		return err
	}
	m.finished = true
	return nil
}

// readEntityHeaders reads CRLF-terminated header lines from r via finder's
// lookahead until a blank line, filling h field by field the same way the
// top-level request/response parser does — but without a start-line,
// since a body part's headers begin directly.
func readEntityHeaders(finder stream.Finder, r io.Reader, h *httpcodec.Headers) error {
	var lastRaw *httpcodec.Field

	for {
		offset, err := finder.Find('\n', 0)
		if err != nil {
			return err
		}

		line := make([]byte, offset+1)
		if _, err = io.ReadFull(r, line); err != nil {
			return err
		}
		line = bytes.TrimSuffix(bytes.TrimSuffix(line, []byte("\n")), []byte("\r"))

		if len(line) == 0 {
			return nil
		}

		if (line[0] == ' ' || line[0] == '\t') && lastRaw != nil {
			lastRaw.Value += " " + string(bytes.TrimSpace(line))
			continue
		}

		idx := bytes.IndexByte(line, ':')
		if idx < 0 {
			return httpcodec.ErrorBadMessageHeader.Error()
		}
		name := string(bytes.TrimSpace(line[:idx]))
		value := string(bytes.TrimSpace(line[idx+1:]))

		handled, ferr := httpcodec.FillHeader(h, name, value)
		if ferr != nil {
			return ferr
		}
		if !handled {
			h.SetRaw(name, value)
			lastRaw = &h.Raw[len(h.Raw)-1]
		} else {
			lastRaw = nil
		}
	}
}
