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

package multipart

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

// allowedBoundaryChars mirrors RFC 2046 §5.1.1's bchars production: the
// set of characters a boundary delimiter may contain.
const allowedBoundaryChars = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ'()+_,-./:=? "

const maxBoundaryLen = 70

// validateBoundary trims trailing spaces (RFC 2046 allows them inside a
// boundary value but a delimiter line never carries them) and checks the
// result is non-empty, within the length limit, and built only from
// allowed characters.
func validateBoundary(boundary string) (string, error) {
	b := strings.TrimRight(boundary, " ")
	if b == "" || len(b) > maxBoundaryLen {
		return "", ErrorInvalidBoundary.Error()
	}
	for _, r := range b {
		if !strings.ContainsRune(allowedBoundaryChars, r) {
			return "", ErrorInvalidBoundary.Error()
		}
	}
	return b, nil
}

// NewBoundary generates a random boundary value unlikely to collide with
// any content the caller will place inside the multipart body.
func NewBoundary() string {
	buf := make([]byte, 24)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
