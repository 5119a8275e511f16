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

// Package fiber implements cooperative fiber scheduling on top of Go
// goroutines.
//
// Go has no portable stack-switching primitive, so a Fiber here is a
// goroutine that blocks on a private resume channel until the Scheduler's
// worker loop hands it the baton; it runs until it calls Control.Yield,
// Control.YieldTo, or Control.Suspend, at which point it hands the baton
// back and blocks again. Exactly one fiber per worker goroutine is ever
// unblocked ("RUNNING") at a time, which is what gives call sites the same
// single-current-fiber-per-thread guarantee a native fiber/coroutine
// implementation would.
//
// There is no thread-local "current fiber": a running fiber's Control is
// passed explicitly into its entry function, matching Go's preference for
// explicit context over ambient state.
package fiber
