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
	"io"

	"github/sabouaram/fibernet/crypt"
)

// CryptoStream wraps parent with AES-256-GCM encryption on write and
// decryption on read, keyed by a 32-byte key and 12-byte nonce shared
// out of band by both ends.
type CryptoStream struct {
	FilterStream

	c   crypt.Crypt
	rdr io.Reader
	wtr io.Writer
}

// NewCrypto builds a CryptoStream from a raw 32-byte key and 12-byte
// nonce. Use crypt.GenKey/crypt.GenNonce to mint fresh values.
func NewCrypto(parent Stream, owns bool, key [32]byte, nonce [12]byte) (*CryptoStream, error) {
	c, err := crypt.New(key, nonce)
	if err != nil {
		return nil, err
	}

	return &CryptoStream{
		FilterStream: NewFilterStream(parent, owns),
		c:            c,
		rdr:          c.Reader(parent),
		wtr:          c.Writer(parent),
	}, nil
}

func (c *CryptoStream) Read(p []byte) (int, error) {
	return c.rdr.Read(p)
}

func (c *CryptoStream) Write(p []byte) (int, error) {
	return c.wtr.Write(p)
}

func (c *CryptoStream) Close() error {
	return c.CloseParent()
}
