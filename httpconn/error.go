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

import "github/sabouaram/fibernet/errors"

const (
	ErrorPriorRequestFailed errors.CodeError = iota + errors.MinPkgHttpConn
	ErrorConnectionVoluntarilyClosed
	ErrorMissingMultipartBoundary
	ErrorInvalidMultipartBoundary
	ErrorNewRequestsNotAllowed
	ErrorConnectionClosed
	ErrorInvalidRangeRequest
	ErrorAlreadyCommitted
	ErrorPoolClosed
	ErrorPoolKeyNotFound
	ErrorListenFailed
	ErrorDialFailed
)

var isCodeError = false

func IsCodeError() bool {
	return isCodeError
}

func init() {
	isCodeError = errors.ExistInMapMessage(ErrorPriorRequestFailed)
	errors.RegisterIdFctMessage(ErrorPriorRequestFailed, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case errors.UnknownError:
		return ""
	case ErrorPriorRequestFailed:
		return "an earlier pipelined request on this connection failed, poisoning this one"
	case ErrorConnectionVoluntarilyClosed:
		return "peer announced Connection: close before this request's response arrived"
	case ErrorMissingMultipartBoundary:
		return "multipart content type is missing its boundary parameter"
	case ErrorInvalidMultipartBoundary:
		return "multipart boundary parameter is not a valid delimiter"
	case ErrorNewRequestsNotAllowed:
		return "connection no longer accepts new pipelined requests"
	case ErrorConnectionClosed:
		return "connection is closed"
	case ErrorInvalidRangeRequest:
		return "Range header could not be satisfied against the entity"
	case ErrorAlreadyCommitted:
		return "response already committed for this request"
	case ErrorPoolClosed:
		return "connection pool is closed"
	case ErrorPoolKeyNotFound:
		return "no entry registered under this key"
	case ErrorListenFailed:
		return "unable to open listener"
	case ErrorDialFailed:
		return "unable to dial remote address"
	}

	return ""
}
