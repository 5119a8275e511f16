/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
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

package httpcodec_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github/sabouaram/fibernet/httpcodec"
)

var _ = Describe("TokenSet", func() {
	It("is case-insensitive", func() {
		ts := httpcodec.NewTokenSet("Keep-Alive")
		Expect(ts.Has("keep-alive")).To(BeTrue())
		Expect(ts.Has("KEEP-ALIVE")).To(BeTrue())
	})
})

var _ = Describe("ParamList", func() {
	It("preserves wire order and reports membership", func() {
		l := httpcodec.ParamList{{Name: "gzip"}, {Name: "chunked"}}
		Expect(l.Names()).To(Equal([]string{"gzip", "chunked"}))
		Expect(l.Has("chunked")).To(BeTrue())
		Expect(l.Has("deflate")).To(BeFalse())
	})
})

var _ = Describe("ETag", func() {
	It("compares weakly and strongly", func() {
		a := httpcodec.ETag{Value: "v1", Weak: true}
		b := httpcodec.ETag{Value: "v1", Weak: false}
		Expect(a.Equal(b, false)).To(BeTrue())
		Expect(a.Equal(b, true)).To(BeFalse())
	})
})
