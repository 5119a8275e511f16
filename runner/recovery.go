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

// Package runner provides small lifecycle-management primitives shared by
// goroutine-owning components: a panic-to-stderr recovery helper and the
// startStop sub-package's Start/Stop/Restart contract.
package runner

import (
	"fmt"
	"os"
)

// RecoveryCaller recovers a panic at the top of a goroutine, logging it to
// stderr with the caller's name and any extra context instead of letting it
// crash the process. rec must be the direct result of recover(); a nil rec
// is a no-op.
func RecoveryCaller(caller string, rec interface{}, extra ...string) {
	if rec == nil {
		return
	}

	if len(extra) > 0 {
		_, _ = fmt.Fprintf(os.Stderr, "recovered panic in %s (%s): %v\n", caller, extra[0], rec)
	} else {
		_, _ = fmt.Fprintf(os.Stderr, "recovered panic in %s: %v\n", caller, rec)
	}
}
