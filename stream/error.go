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

import "github/sabouaram/fibernet/errors"

const (
	ErrorParamsEmpty errors.CodeError = iota + errors.MinPkgStream
	ErrorUnexpectedEof
	ErrorWriteBeyondEof
	ErrorOperationAborted
	ErrorTimedOut
	ErrorBrokenPipe
	ErrorInvalidChunkHeader
	ErrorInvalidChunkFooter
	ErrorUnknownFormat
	ErrorCorrupted
	ErrorCapabilityUnsupported
	ErrorAlreadyClosed
)

var isCodeError = false

func IsCodeError() bool {
	return isCodeError
}

func init() {
	isCodeError = errors.ExistInMapMessage(ErrorParamsEmpty)
	errors.RegisterIdFctMessage(ErrorParamsEmpty, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case errors.UnknownError:
		return ""
	case ErrorParamsEmpty:
		return "given parameters is empty"
	case ErrorUnexpectedEof:
		return "stream ended before the expected amount of data was available"
	case ErrorWriteBeyondEof:
		return "write would exceed the stream's fixed capacity"
	case ErrorOperationAborted:
		return "in-flight operation was aborted by a cancel call"
	case ErrorTimedOut:
		return "operation exceeded its configured timeout"
	case ErrorBrokenPipe:
		return "peer closed the connection"
	case ErrorInvalidChunkHeader:
		return "chunked transfer encoding: malformed chunk size header"
	case ErrorInvalidChunkFooter:
		return "chunked transfer encoding: malformed chunk terminator"
	case ErrorUnknownFormat:
		return "compressed stream: unrecognized container format"
	case ErrorCorrupted:
		return "compressed stream: data failed integrity checks"
	case ErrorCapabilityUnsupported:
		return "this stream does not support the requested capability"
	case ErrorAlreadyClosed:
		return "stream has already been closed"
	}

	return ""
}
