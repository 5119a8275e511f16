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

package httpcodec

import (
	"bytes"
	"net/url"
	"strconv"
	"strings"

	"github/sabouaram/fibernet/buffer"
)

type parserState uint8

const (
	stateStartLine parserState = iota
	stateHeaders
	stateDone
)

// Parser is a resumable push parser: Feed may be called repeatedly
// with arbitrary-sized slices of wire data, including splits in the
// middle of a header line, and never consumes bytes belonging to the
// message body — those stay buffered for the caller to drain from the
// source stream once Complete reports true.
type Parser struct {
	buf   buffer.Buffer
	state parserState

	req  *Request
	resp *Response

	lastRaw *Field

	complete bool
	failed   bool
}

func NewRequestParser(req *Request) *Parser {
	return &Parser{buf: buffer.New(), req: req}
}

func NewResponseParser(resp *Response) *Parser {
	return &Parser{buf: buffer.New(), resp: resp}
}

func (p *Parser) Complete() bool { return p.complete }
func (p *Parser) Error() bool    { return p.failed }

// Feed appends b to the internal buffer and parses as many complete
// header lines as are available, returning the number of bytes
// consumed from b. It never blocks and never returns an error for a
// merely incomplete message; Error reports true only on malformed
// input.
func (p *Parser) Feed(b []byte) (int, error) {
	if p.failed {
		return 0, ErrorBadMessageHeader.Error()
	}
	if p.complete {
		return 0, nil
	}

	n, err := p.buf.CopyIn(b, int64(len(b)))
	if err != nil {
		return 0, err
	}

	for !p.complete {
		offset, ferr := p.buf.Find('\n', 0, buffer.FindReturnOffset)
		if ferr != nil {
			p.failed = true
			return int(n), ErrorBadMessageHeader.Error()
		}
		if offset < 0 {
			break
		}

		line := make([]byte, offset)
		if _, err = p.buf.CopyOut(line, offset); err != nil {
			p.failed = true
			return int(n), err
		}
		if err = p.buf.Consume(offset + 1); err != nil {
			p.failed = true
			return int(n), err
		}
		line = bytes.TrimSuffix(line, []byte("\r"))

		if perr := p.consumeLine(line); perr != nil {
			p.failed = true
			return int(n), perr
		}
	}

	return int(n), nil
}

func (p *Parser) consumeLine(line []byte) error {
	switch p.state {
	case stateStartLine:
		if err := p.parseStartLine(string(line)); err != nil {
			return err
		}
		p.state = stateHeaders
		return nil

	case stateHeaders:
		if len(line) == 0 {
			p.complete = true
			return nil
		}
		if (line[0] == ' ' || line[0] == '\t') && p.lastRaw != nil {
			p.lastRaw.Value += " " + strings.TrimSpace(string(line))
			return nil
		}
		idx := bytes.IndexByte(line, ':')
		if idx < 0 {
			return ErrorBadMessageHeader.Error()
		}
		name := strings.TrimSpace(string(line[:idx]))
		value := strings.TrimSpace(string(line[idx+1:]))
		return p.addHeader(name, value)
	}
	return nil
}

func (p *Parser) parseStartLine(line string) error {
	parts := strings.SplitN(line, " ", 3)
	if len(parts) != 3 {
		return ErrorBadMessageHeader.Error()
	}

	if p.req != nil {
		u, err := url.Parse(parts[1])
		if err != nil {
			return ErrorBadMessageHeader.Error()
		}
		v, err := parseVersion(parts[2])
		if err != nil {
			return err
		}
		p.req.Method = Method(strings.ToUpper(parts[0]))
		p.req.URI = u
		p.req.Version = v
		return nil
	}

	v, err := parseVersion(parts[0])
	if err != nil {
		return err
	}
	status, err := strconv.Atoi(parts[1])
	if err != nil {
		return ErrorBadMessageHeader.Error()
	}
	p.resp.Version = v
	p.resp.Status = status
	p.resp.Reason = parts[2]
	return nil
}

func parseVersion(s string) (Version, error) {
	if !strings.HasPrefix(s, "HTTP/") {
		return Version{}, ErrorBadMessageHeader.Error()
	}
	nums := strings.SplitN(strings.TrimPrefix(s, "HTTP/"), ".", 2)
	if len(nums) != 2 {
		return Version{}, ErrorBadMessageHeader.Error()
	}
	major, err1 := strconv.Atoi(nums[0])
	minor, err2 := strconv.Atoi(nums[1])
	if err1 != nil || err2 != nil {
		return Version{}, ErrorBadMessageHeader.Error()
	}
	return Version{Major: major, Minor: minor}, nil
}

func (p *Parser) addHeader(name, value string) error {
	var h *Headers
	if p.req != nil {
		h = &p.req.Headers
	} else {
		h = &p.resp.Headers
	}

	handled, err := FillHeader(h, name, value)
	if err != nil {
		return err
	}

	switch strings.ToLower(name) {
	case "host":
		if p.req != nil {
			p.req.Host = value
		}
	case "user-agent":
		if p.req != nil {
			p.req.UserAgent = value
		}
	case "referer":
		if p.req != nil {
			if u, err := url.Parse(value); err == nil {
				p.req.Referer = u
			}
		}
	case "location":
		if p.resp != nil {
			if u, err := url.Parse(value); err == nil {
				p.resp.Location = u
			}
		}
	case "server":
		if p.resp != nil {
			p.resp.Server = value
		}
	default:
		if !handled {
			h.SetRaw(name, value)
			p.lastRaw = &h.Raw[len(h.Raw)-1]
			return nil
		}
	}

	p.lastRaw = nil
	return nil
}

// FillHeader applies a single name/value header pair to the
// general and entity fields every message shares (Content-Length,
// Content-Type, Transfer-Encoding, Connection). It reports whether
// the header name was recognized; unrecognized headers are left for
// the caller to stash as raw fields. Used by Parser.addHeader and by
// the multipart entity-header reader, which has no start-line and so
// never drives a full Parser.
func FillHeader(h *Headers, name, value string) (bool, error) {
	switch strings.ToLower(name) {
	case "content-length":
		n, err := parseContentLength(value)
		if err != nil {
			return true, err
		}
		h.ContentLength = n
	case "content-type":
		h.ContentType = parseContentType(value)
	case "transfer-encoding":
		h.TransferEncoding = append(h.TransferEncoding, parseParam(value)...)
	case "connection":
		if h.Connection == nil {
			h.Connection = NewTokenSet()
		}
		for _, t := range strings.Split(value, ",") {
			h.Connection.Add(t)
		}
	default:
		return false, nil
	}
	return true, nil
}

func parseContentType(v string) ContentType {
	parts := strings.Split(v, ";")
	mt := strings.TrimSpace(parts[0])
	typ, sub, _ := strings.Cut(mt, "/")

	ct := ContentType{Type: typ, SubType: sub, Params: map[string]string{}}
	for _, p := range parts[1:] {
		k, val, ok := strings.Cut(p, "=")
		if !ok {
			continue
		}
		ct.Params[strings.TrimSpace(k)] = strings.Trim(strings.TrimSpace(val), `"`)
	}
	return ct
}

func parseParam(v string) ParamList {
	var out ParamList
	for _, item := range strings.Split(v, ",") {
		segs := strings.Split(item, ";")
		name := strings.TrimSpace(segs[0])
		if name == "" {
			continue
		}
		params := map[string]string{}
		for _, seg := range segs[1:] {
			k, val, ok := strings.Cut(seg, "=")
			if !ok {
				continue
			}
			params[strings.TrimSpace(k)] = strings.TrimSpace(val)
		}
		out = append(out, Param{Name: name, Params: params})
	}
	return out
}
