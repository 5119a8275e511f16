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
	"strings"
	"time"
)

// Param is one entry of an ordered, parameterized header list, e.g. a
// single Accept media-range or a single Transfer-Encoding coding name
// with its parameters (q-values, charset, and the like).
type Param struct {
	Name   string
	Params map[string]string
}

// ParamList is an ordered list of Param, preserving wire order — used
// for Transfer-Encoding, Accept, Accept-Encoding, Accept-Language, TE,
// Content-Encoding, Cache-Control, and Pragma.
type ParamList []Param

func (l ParamList) Has(name string) bool {
	for _, p := range l {
		if strings.EqualFold(p.Name, name) {
			return true
		}
	}
	return false
}

func (l ParamList) Names() []string {
	out := make([]string, 0, len(l))
	for _, p := range l {
		out = append(out, p.Name)
	}
	return out
}

// TokenSet is a case-insensitive set of tokens, used for Connection,
// Vary, Allow, Expect, and Accept-Ranges.
type TokenSet map[string]struct{}

func NewTokenSet(tokens ...string) TokenSet {
	t := make(TokenSet, len(tokens))
	for _, tok := range tokens {
		t.Add(tok)
	}
	return t
}

func (t TokenSet) Add(token string) {
	t[strings.ToLower(strings.TrimSpace(token))] = struct{}{}
}

func (t TokenSet) Has(token string) bool {
	_, ok := t[strings.ToLower(strings.TrimSpace(token))]
	return ok
}

func (t TokenSet) List() []string {
	out := make([]string, 0, len(t))
	for k := range t {
		out = append(out, k)
	}
	return out
}

// ETag is an entity-tag as used by If-Match/If-None-Match/ETag.
type ETag struct {
	Value string
	Weak  bool
}

func (e ETag) Equal(o ETag, strong bool) bool {
	if e.Value != o.Value {
		return false
	}
	if strong {
		return !e.Weak && !o.Weak
	}
	return true
}

// IfRange is a sum type: either an entity-tag or a date, never both.
type IfRange struct {
	Tag  *ETag
	Date *time.Time
}

func (r IfRange) IsZero() bool { return r.Tag == nil && r.Date == nil }

// RetryAfter is a sum type: either an absolute date or a relative delay.
type RetryAfter struct {
	Date  *time.Time
	Delta *time.Duration
}

func (r RetryAfter) IsZero() bool { return r.Date == nil && r.Delta == nil }

// Challenge is one WWW-Authenticate/Proxy-Authenticate scheme entry.
// Only parsing is in scope; no scheme's challenge/response computation
// is implemented here.
type Challenge struct {
	Scheme string
	Params map[string]string
}

// Credential is an Authorization/Proxy-Authorization header value:
// either a scheme plus a token68 (Bearer-style) or a scheme plus
// parameters (Digest-style).
type Credential struct {
	Scheme string
	Token  string
	Params map[string]string
}

// ContentType is the parsed Content-Type value.
type ContentType struct {
	Type    string
	SubType string
	Params  map[string]string
}

func (c ContentType) String() string {
	if c.Type == "" {
		return ""
	}
	return c.Type + "/" + c.SubType
}

func (c ContentType) IsMultipart() bool {
	return strings.EqualFold(c.Type, "multipart")
}

// ContentRange is the parsed Content-Range response header value for a
// single byte range, as produced by RespondStream's 206 path.
type ContentRange struct {
	First, Last, Complete int64 // Complete == -1 means "*"
}

// Field preserves a raw header whose name isn't otherwise modeled as a
// typed field, keeping wire order for Format to round-trip faithfully.
type Field struct {
	Name  string
	Value string
}
