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

// Package startStop wraps a pair of run/close functions with a shared
// Start/Stop/Restart lifecycle, tracking uptime and the last errors each
// function returned.
package startStop

import (
	"context"
	"time"
)

// FuncRun is the long-lived body launched by Start; it must return when ctx
// is cancelled.
type FuncRun func(ctx context.Context) error

// FuncClose performs the one-shot teardown invoked by Stop.
type FuncClose func(ctx context.Context) error

// StartStop manages the lifecycle of a single background goroutine.
type StartStop interface {
	// Start launches the run function in a new goroutine, unless one is
	// already running, in which case it is a no-op.
	Start(ctx context.Context) error
	// Stop calls the close function and waits for the run function to
	// return. Calling Stop while not running is a no-op.
	Stop(ctx context.Context) error
	// Restart stops then starts again with the given context.
	Restart(ctx context.Context) error
	// IsRunning reports whether the run function is currently executing.
	IsRunning() bool
	// Uptime reports how long the current run has been executing, or zero
	// when not running.
	Uptime() time.Duration
	// ErrorsLast returns the most recent error returned by run or close.
	ErrorsLast() error
	// ErrorsList returns every error recorded since the last successful
	// Start.
	ErrorsList() []error
}

// New returns a StartStop driving run and close.
func New(run FuncRun, closeRun FuncClose) StartStop {
	return &runner{
		run:   run,
		close: closeRun,
	}
}
