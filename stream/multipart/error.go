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

import "github/sabouaram/fibernet/errors"

const (
	ErrorInvalidBoundary errors.CodeError = iota + errors.MinPkgMultipart
	ErrorAlreadyFinished
	ErrorPartNotDone
	ErrorMalformedDelimiter
	ErrorNotMultipart
)

var isCodeError = false

func IsCodeError() bool {
	return isCodeError
}

func init() {
	isCodeError = errors.ExistInMapMessage(ErrorInvalidBoundary)
	errors.RegisterIdFctMessage(ErrorInvalidBoundary, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case errors.UnknownError:
		return ""
	case ErrorInvalidBoundary:
		return "multipart boundary is empty, too long, or uses a disallowed character"
	case ErrorAlreadyFinished:
		return "multipart body has already been finished"
	case ErrorPartNotDone:
		return "previous body part's stream must be closed before starting the next part"
	case ErrorMalformedDelimiter:
		return "multipart delimiter was not followed by a valid close or continuation marker"
	case ErrorNotMultipart:
		return "content type is not a multipart type or carries no boundary parameter"
	}

	return ""
}
