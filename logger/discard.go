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

package logger

import (
	"context"
	"sync"
)

var (
	discardOnce sync.Once
	discardInst Logger
)

// Discard is a FuncLog that returns a Logger with logging disabled
// (level NilLevel). Packages taking an optional logger.FuncLog
// constructor argument fall back to Discard when none is supplied.
func Discard() Logger {
	discardOnce.Do(func() {
		l := New(context.Background())
		l.SetLevel(NilLevel)
		discardInst = l
	})
	return discardInst
}

// OrDiscard returns log, or a FuncLog producing a discard Logger if
// log is nil. Constructors across the module use this to normalize
// their optional logging argument.
func OrDiscard(log FuncLog) FuncLog {
	if log == nil {
		return Discard
	}
	return log
}
