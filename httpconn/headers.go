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
	"io"

	"github/sabouaram/fibernet/httpcodec"
	"github/sabouaram/fibernet/stream"
)

// readMessageHeaders pulls exactly the start-line and header lines of
// one message off buffered, one line at a time, feeding each into p.
// Because each line is read (and so consumed from buffered) only once
// Find has located its terminating '\n', nothing belonging to the
// entity body that follows is ever pulled into p, leaving buffered's
// cursor positioned exactly at the start of the body for whatever
// deriveBodyStream wraps next.
func readMessageHeaders(buffered *stream.BufferedStream, p *httpcodec.Parser) error {
	for !p.Complete() {
		offset, err := buffered.Find('\n', 0)
		if err != nil {
			return err
		}

		line := make([]byte, offset+1)
		if _, err = io.ReadFull(buffered, line); err != nil {
			return err
		}

		if _, err = p.Feed(line); err != nil {
			return err
		}
	}
	return nil
}
