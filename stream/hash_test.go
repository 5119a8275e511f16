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

package stream_test

import (
	"crypto/sha256"
	"encoding/hex"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github/sabouaram/fibernet/stream"
)

var _ = Describe("Hash", func() {
	It("digests bytes read through it", func() {
		parent := stream.NewMemoryFrom([]byte("hello world"))
		h := stream.NewHash(parent, true, stream.HashSHA256)

		buf := make([]byte, 32)
		_, _ = h.Read(buf)

		want := sha256.Sum256([]byte("hello world"))
		Expect(hex.EncodeToString(h.Sum())).To(Equal(hex.EncodeToString(want[:])))
	})

	It("digests bytes written through it", func() {
		parent := stream.NewMemory()
		h := stream.NewHash(parent, true, stream.HashSHA256)

		_, err := h.Write([]byte("hello world"))
		Expect(err).NotTo(HaveOccurred())

		want := sha256.Sum256([]byte("hello world"))
		Expect(hex.EncodeToString(h.Sum())).To(Equal(hex.EncodeToString(want[:])))
	})

	It("resets the running digest", func() {
		parent := stream.NewMemoryFrom([]byte("abc"))
		h := stream.NewHash(parent, true, stream.HashMD5)

		buf := make([]byte, 3)
		_, _ = h.Read(buf)
		h.Reset()

		empty := stream.NewHash(stream.NewMemory(), true, stream.HashMD5)
		Expect(h.Sum()).To(Equal(empty.Sum()))
	})
})
