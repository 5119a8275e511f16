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

package stream

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"hash"
	"hash/crc32"
)

// HashAlgorithm selects the digest run alongside data flowing through a
// HashStream.
type HashAlgorithm uint8

const (
	HashMD5 HashAlgorithm = iota
	HashSHA1
	HashSHA256
	HashSHA512
	HashCRC32
)

func newHasher(a HashAlgorithm) hash.Hash {
	switch a {
	case HashMD5:
		return md5.New()
	case HashSHA1:
		return sha1.New()
	case HashSHA256:
		return sha256.New()
	case HashSHA512:
		return sha512.New()
	case HashCRC32:
		return crc32.NewIEEE()
	default:
		return sha256.New()
	}
}

// HashStream feeds every byte that passes through Read and Write into a
// running digest, without altering the bytes themselves. Sum is safe to
// call at any point; it does not reset the running digest.
type HashStream struct {
	FilterStream
	h hash.Hash
}

func NewHash(parent Stream, owns bool, algo HashAlgorithm) *HashStream {
	return &HashStream{
		FilterStream: NewFilterStream(parent, owns),
		h:            newHasher(algo),
	}
}

func (s *HashStream) Read(p []byte) (int, error) {
	n, err := s.Parent().Read(p)
	if n > 0 {
		_, _ = s.h.Write(p[:n])
	}
	return n, err
}

func (s *HashStream) Write(p []byte) (int, error) {
	n, err := s.Parent().Write(p)
	if n > 0 {
		_, _ = s.h.Write(p[:n])
	}
	return n, err
}

func (s *HashStream) Close() error {
	return s.CloseParent()
}

// Sum returns the digest of every byte observed so far.
func (s *HashStream) Sum() []byte {
	return s.h.Sum(nil)
}

// Reset clears the running digest back to its initial state.
func (s *HashStream) Reset() {
	s.h.Reset()
}
