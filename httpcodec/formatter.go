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
	"fmt"
	"strconv"
	"strings"

	"github/sabouaram/fibernet/stream"
)

// tspecials per RFC 7230 §3.2.6: characters that force quoted-string
// encoding of an otherwise-token header value.
const tspecials = "()<>@,;:\\\"/[]?={} \t"

func isToken(s string) bool {
	if s == "" {
		return false
	}
	return !strings.ContainsAny(s, tspecials)
}

// quote renders s as a token if possible, else as a quoted-string,
// matching RFC 7230's "minimal quoting by default" guidance.
func quote(s string) string {
	if isToken(s) {
		return s
	}
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		if r == '"' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}

func writeLine(w stream.Stream, line string) error {
	_, err := w.Write([]byte(line + "\r\n"))
	return err
}

// Format writes the canonical text representation of req or resp (but
// not both) to w. It does not write the entity body; the caller writes
// the body separately through the derived filter stream.
func Format(w stream.Stream, req *Request, resp *Response) error {
	if req != nil {
		if err := writeLine(w, fmt.Sprintf("%s %s %s", req.Method, req.URI.RequestURI(), req.Version.String())); err != nil {
			return err
		}
		if req.Host != "" {
			if err := writeLine(w, "Host: "+req.Host); err != nil {
				return err
			}
		}
		if req.UserAgent != "" {
			if err := writeLine(w, "User-Agent: "+req.UserAgent); err != nil {
				return err
			}
		}
		if err := FormatHeaders(w, &req.Headers); err != nil {
			return err
		}
		return writeLine(w, "")
	}

	if err := writeLine(w, fmt.Sprintf("%s %d %s", resp.Version.String(), resp.Status, resp.Reason)); err != nil {
		return err
	}
	if resp.Server != "" {
		if err := writeLine(w, "Server: "+resp.Server); err != nil {
			return err
		}
	}
	if err := FormatHeaders(w, &resp.Headers); err != nil {
		return err
	}
	return writeLine(w, "")
}

// FormatHeaders writes the general/entity header fields of h, without a
// start-line or the trailing blank line. Exported so callers that frame
// headers without a Request/Response — multipart body parts — can reuse
// the same field formatting Format uses internally.
func FormatHeaders(w stream.Stream, h *Headers) error {
	if h.ContentLength >= 0 {
		if err := writeLine(w, "Content-Length: "+strconv.FormatInt(h.ContentLength, 10)); err != nil {
			return err
		}
	}
	if h.ContentType.Type != "" {
		if err := writeLine(w, "Content-Type: "+formatContentType(h.ContentType)); err != nil {
			return err
		}
	}
	if len(h.TransferEncoding) > 0 {
		if err := writeLine(w, "Transfer-Encoding: "+formatParamList(h.TransferEncoding)); err != nil {
			return err
		}
	}
	if h.Connection != nil && len(h.Connection) > 0 {
		if err := writeLine(w, "Connection: "+strings.Join(h.Connection.List(), ", ")); err != nil {
			return err
		}
	}
	for _, f := range h.Raw {
		if err := writeLine(w, f.Name+": "+f.Value); err != nil {
			return err
		}
	}
	return nil
}

func formatContentType(ct ContentType) string {
	s := ct.Type + "/" + ct.SubType
	for k, v := range ct.Params {
		s += "; " + k + "=" + quote(v)
	}
	return s
}

func formatParamList(l ParamList) string {
	names := make([]string, 0, len(l))
	for _, p := range l {
		s := p.Name
		for k, v := range p.Params {
			s += ";" + k + "=" + v
		}
		names = append(names, s)
	}
	return strings.Join(names, ", ")
}
