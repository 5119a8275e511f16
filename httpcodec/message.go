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
	"net/url"
	"strconv"
	"strings"
	"time"
)

type Method string

const (
	MethodGet     Method = "GET"
	MethodHead    Method = "HEAD"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodDelete  Method = "DELETE"
	MethodConnect Method = "CONNECT"
	MethodOptions Method = "OPTIONS"
	MethodTrace   Method = "TRACE"
	MethodPatch   Method = "PATCH"
)

// Version is an HTTP message version, e.g. 1.1 or 1.0.
type Version struct {
	Major int
	Minor int
}

var (
	Version10 = Version{Major: 1, Minor: 0}
	Version11 = Version{Major: 1, Minor: 1}
)

func (v Version) String() string {
	return fmt.Sprintf("HTTP/%d.%d", v.Major, v.Minor)
}

func (v Version) AtLeast(o Version) bool {
	if v.Major != o.Major {
		return v.Major > o.Major
	}
	return v.Minor >= o.Minor
}

// Headers holds general and entity headers shared by requests and
// responses; role-specific fields live on Request and Response.
type Headers struct {
	CacheControl     ParamList
	Connection       TokenSet
	Date             *time.Time
	Trailer          TokenSet
	TransferEncoding ParamList
	Upgrade          TokenSet
	Via              []string
	Warning          []string

	ContentLength   int64 // -1 means absent
	ContentType     ContentType
	ContentEncoding ParamList
	ContentLanguage []string
	ContentLocation *url.URL
	ContentMD5      []byte
	ContentRange    *ContentRange
	Expires         *time.Time
	LastModified    *time.Time
	ETag            *ETag
	Allow           TokenSet

	Raw []Field
}

func NewHeaders() Headers {
	return Headers{ContentLength: -1}
}

func (h *Headers) SetRaw(name, value string) {
	h.Raw = append(h.Raw, Field{Name: name, Value: value})
}

// HasConnectionClose reports whether Connection or the non-standard
// but widely deployed Proxy-Connection names "close".
func (h *Headers) HasConnectionClose() bool {
	if h.Connection != nil && h.Connection.Has("close") {
		return true
	}
	for _, f := range h.Raw {
		if strings.EqualFold(f.Name, "Proxy-Connection") && strings.EqualFold(strings.TrimSpace(f.Value), "close") {
			return true
		}
	}
	return false
}

// IsChunked reports whether Transfer-Encoding ends in "chunked", per
// RFC 7230's requirement that chunked be the final coding applied.
func (h *Headers) IsChunked() bool {
	if len(h.TransferEncoding) == 0 {
		return false
	}
	return strings.EqualFold(h.TransferEncoding[len(h.TransferEncoding)-1].Name, "chunked")
}

// RequestLine is the parsed first line of a request message.
type RequestLine struct {
	Method  Method
	URI     *url.URL
	Version Version
}

// Request is a fully typed HTTP/1.x request message. The entity body
// is never held here; it is obtained as a stream derived elsewhere.
type Request struct {
	RequestLine
	Headers

	Host               string
	UserAgent          string
	Accept             ParamList
	AcceptEncoding     ParamList
	AcceptLanguage     ParamList
	Authorization      *Credential
	Expect             TokenSet
	From               string
	IfMatch            []ETag
	IfModifiedSince    *time.Time
	IfNoneMatch        []ETag
	IfRange            *IfRange
	IfUnmodifiedSince  *time.Time
	MaxForwards        *int64
	ProxyAuthorization *Credential
	Range              []ContentRange
	Referer            *url.URL
	TE                 ParamList
}

func NewRequest() *Request {
	return &Request{Headers: NewHeaders()}
}

func (r *Request) isMessage() {}

// EffectiveVersion is 1.1 when Host is present, else 1.0, per the
// default-version rule.
func (r *Request) EffectiveVersion() Version {
	if r.Host != "" {
		return Version11
	}
	return Version10
}

// StatusLine is the parsed first line of a response message.
type StatusLine struct {
	Version Version
	Status  int
	Reason  string
}

// Response is a fully typed HTTP/1.x response message.
type Response struct {
	StatusLine
	Headers

	AcceptRanges      TokenSet
	Age               *time.Duration
	Location          *url.URL
	ProxyAuthenticate []Challenge
	RetryAfter        *RetryAfter
	Server            string
	Vary              TokenSet
	WWWAuthenticate   []Challenge
}

func NewResponse() *Response {
	return &Response{Headers: NewHeaders()}
}

func (r *Response) isMessage() {}

// HasBody reports whether a response of this status, for the given
// request method, is permitted to carry a body per RFC 7231 §3.3 and
// the calibration in the external interface notes (HEAD, 1xx/204/304
// never have a body).
func (r *Response) HasBody(method Method) bool {
	if method == MethodHead {
		return false
	}
	if r.Status >= 100 && r.Status < 200 {
		return false
	}
	if r.Status == 204 || r.Status == 304 {
		return false
	}
	return true
}

func parseContentLength(v string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return 0, ErrorInvalidMessageHeader.Error()
	}
	return n, nil
}
