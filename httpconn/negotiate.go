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
	"strconv"
	"strings"

	uuid "github.com/hashicorp/go-uuid"

	"github/sabouaram/fibernet/httpcodec"
)

// rawHeader returns the first raw header value matching name,
// case-insensitively. Range, Expect, and TE are fringe enough that the
// shared message parser leaves them as raw fields rather than typed
// ones (see httpcodec.Parser.addHeader); this is where the server
// reads them back out.
func rawHeader(h *httpcodec.Headers, name string) (string, bool) {
	for _, f := range h.Raw {
		if strings.EqualFold(f.Name, name) {
			return f.Value, true
		}
	}
	return "", false
}

// validateRequest applies the per-request checks process_requests runs
// before dispatch: HTTP/1.1 requires a Host header. Transfer-coding
// stack validity is checked separately, by deriveBodyStream itself.
func validateRequest(req *httpcodec.Request) (status int, message string, ok bool) {
	if req.Version.Major == 1 && req.Version.Minor >= 1 && req.Host == "" {
		return 400, "Host header is required for HTTP/1.1", false
	}
	return 0, "", true
}

// bodyAllowed reports whether req's own headers indicate an entity
// body follows, per RFC 7230 §3.3.3: a request body exists only when
// Content-Length, chunked Transfer-Encoding, or a multipart boundary
// says so — unlike a response, the absence of all three means no body,
// never a close-delimited one.
func bodyAllowed(req *httpcodec.Request) bool {
	return req.IsChunked() || req.ContentLength >= 0 || req.ContentType.IsMultipart()
}

// expectsContinue reports whether req carries "Expect: 100-continue".
func expectsContinue(req *httpcodec.Request) bool {
	v, ok := rawHeader(&req.Headers, "Expect")
	if !ok {
		return false
	}
	for _, tok := range strings.Split(v, ",") {
		if strings.EqualFold(strings.TrimSpace(tok), "100-continue") {
			return true
		}
	}
	return false
}

// chooseBodyFraming picks how to frame a response entity body whose
// length isn't known up front: chunked Transfer-Encoding for an
// HTTP/1.1 peer (always acceptable to one, per RFC 7230 §4.3, which is
// as far as this calibrates TE preferences — see SPEC_FULL.md §4.10),
// otherwise the body runs to connection close.
func chooseBodyFraming(req *httpcodec.Request) (chunked, mustClose bool) {
	if req.Version.AtLeast(httpcodec.Version11) {
		return true, false
	}
	return false, true
}

// byteRange is one satisfied "first-last" range against a known entity
// size.
type byteRange struct {
	first, last int64
}

// parseRangeHeader parses a "Range: bytes=..." value against an entity
// of the given size (RFC 7233 §2.1). It reports ok=false whenever the
// header is malformed or every requested range is unsatisfiable, both
// of which fall back to serving the full entity per RespondStream's
// contract.
func parseRangeHeader(value string, size int64) ([]byteRange, bool) {
	const prefix = "bytes="
	if !strings.HasPrefix(value, prefix) || size <= 0 {
		return nil, false
	}

	var out []byteRange
	for _, spec := range strings.Split(value[len(prefix):], ",") {
		first, last, ok := parseOneRange(strings.TrimSpace(spec), size)
		if !ok {
			continue
		}
		out = append(out, byteRange{first: first, last: last})
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

func parseOneRange(spec string, size int64) (first, last int64, ok bool) {
	a, b, found := strings.Cut(spec, "-")
	if !found {
		return 0, 0, false
	}

	if a == "" {
		if b == "" {
			return 0, 0, false
		}
		n, err := strconv.ParseInt(b, 10, 64)
		if err != nil || n <= 0 {
			return 0, 0, false
		}
		if n > size {
			n = size
		}
		return size - n, size - 1, true
	}

	start, err := strconv.ParseInt(a, 10, 64)
	if err != nil || start < 0 || start >= size {
		return 0, 0, false
	}
	if b == "" {
		return start, size - 1, true
	}
	end, err := strconv.ParseInt(b, 10, 64)
	if err != nil || end < start {
		return 0, 0, false
	}
	if end >= size {
		end = size - 1
	}
	return start, end, true
}

func formatContentRange(rng byteRange, size int64) string {
	return "bytes " + strconv.FormatInt(rng.first, 10) + "-" + strconv.FormatInt(rng.last, 10) + "/" + strconv.FormatInt(size, 10)
}

// parseSimpleContentType splits a "type/subtype" (with no parameters)
// media type string, for the caller-supplied content types
// RespondStream applies to an entity or its byteranges parts.
func parseSimpleContentType(s string) httpcodec.ContentType {
	typ, sub, _ := strings.Cut(s, "/")
	return httpcodec.ContentType{Type: strings.TrimSpace(typ), SubType: strings.TrimSpace(sub), Params: map[string]string{}}
}

// newMultipartBoundary generates a boundary token for a
// multipart/byteranges response, unique enough that it cannot collide
// with entity content.
func newMultipartBoundary() (string, error) {
	id, err := uuid.GenerateUUID()
	if err != nil {
		return "", err
	}
	return "byteranges-" + id, nil
}

// statusReason returns the standard reason phrase for the status codes
// this package itself generates; anything else is left blank (Format
// still writes a well-formed status line with an empty reason phrase).
func statusReason(status int) string {
	switch status {
	case 100:
		return "Continue"
	case 200:
		return "OK"
	case 206:
		return "Partial Content"
	case 400:
		return "Bad Request"
	case 404:
		return "Not Found"
	case 500:
		return "Internal Server Error"
	default:
		return ""
	}
}
