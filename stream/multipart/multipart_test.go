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

package multipart_test

import (
	"io"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github/sabouaram/fibernet/stream"
	"github/sabouaram/fibernet/stream/multipart"
)

type seeker interface {
	Seek(offset int64, whence int) (int64, error)
}

var _ = Describe("Multipart", func() {
	It("round-trips two parts through write then read", func() {
		wire := stream.NewMemory()

		w, err := multipart.New(wire, "BOUNDARY", true)
		Expect(err).NotTo(HaveOccurred())

		p1, err := w.NextPart()
		Expect(err).NotTo(HaveOccurred())
		p1.Headers().ContentType.Type = "text"
		p1.Headers().ContentType.SubType = "plain"
		s1, err := p1.Stream()
		Expect(err).NotTo(HaveOccurred())
		_, err = s1.Write([]byte("first part"))
		Expect(err).NotTo(HaveOccurred())
		Expect(s1.Close()).To(Succeed())

		p2, err := w.NextPart()
		Expect(err).NotTo(HaveOccurred())
		p2.Headers().SetRaw("X-Part", "two")
		s2, err := p2.Stream()
		Expect(err).NotTo(HaveOccurred())
		_, err = s2.Write([]byte("second"))
		Expect(err).NotTo(HaveOccurred())
		Expect(s2.Close()).To(Succeed())

		Expect(w.Finish()).To(Succeed())

		_, err = wire.(seeker).Seek(0, 0)
		Expect(err).NotTo(HaveOccurred())

		r, err := multipart.New(wire, "BOUNDARY", false)
		Expect(err).NotTo(HaveOccurred())

		part1, err := r.NextPart()
		Expect(err).NotTo(HaveOccurred())
		Expect(part1).NotTo(BeNil())
		Expect(part1.Headers().ContentType.String()).To(Equal("text/plain"))
		body1, err := io.ReadAll(mustStream(part1))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(body1)).To(Equal("first part"))

		part2, err := r.NextPart()
		Expect(err).NotTo(HaveOccurred())
		Expect(part2).NotTo(BeNil())
		Expect(part2.Headers().Raw[0].Name).To(Equal("X-Part"))
		body2, err := io.ReadAll(mustStream(part2))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(body2)).To(Equal("second"))

		last, err := r.NextPart()
		Expect(err).NotTo(HaveOccurred())
		Expect(last).To(BeNil())
		Expect(r.Finished()).To(BeTrue())
	})

	It("rejects boundaries that are empty, too long, or contain disallowed characters", func() {
		wire := stream.NewMemory()

		_, err := multipart.New(wire, "", true)
		Expect(err).To(HaveOccurred())

		_, err = multipart.New(wire, "has a bad char !", true)
		Expect(err).To(HaveOccurred())

		long := make([]byte, 80)
		for i := range long {
			long[i] = 'a'
		}
		_, err = multipart.New(wire, string(long), true)
		Expect(err).To(HaveOccurred())
	})

	It("generates distinct random boundaries", func() {
		a := multipart.NewBoundary()
		b := multipart.NewBoundary()
		Expect(a).NotTo(Equal(b))
		Expect(len(a)).To(BeNumerically(">", 0))
	})
})

func mustStream(bp *multipart.BodyPart) stream.Stream {
	s, err := bp.Stream()
	Expect(err).NotTo(HaveOccurred())
	return s
}
