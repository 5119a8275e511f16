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

package timer

import (
	"time"

	liblog "github/sabouaram/fibernet/logger"
)

// State is the lifecycle state of a registered Timer.
type State uint8

const (
	// Pending means the timer has not yet fired or been canceled.
	Pending State = iota
	// Fired means the timer's callback has run (or was skipped because its
	// witness reported it dead).
	Fired
	// Canceled means Cancel was called before the timer fired.
	Canceled
)

func (s State) String() string {
	switch s {
	case Pending:
		return "PENDING"
	case Fired:
		return "FIRED"
	case Canceled:
		return "CANCELED"
	default:
		return "UNKNOWN"
	}
}

// Handle uniquely identifies a registered timer for its lifetime.
type Handle uint64

// Callback is invoked when a timer fires. Manager recovers panics raised
// from within a Callback so one failing timer cannot take down the caller
// driving ProcessExpired.
type Callback func()

// Witness reports whether the entity a conditional timer was registered on
// behalf of is still alive. A conditional timer whose Witness returns false
// at firing time is marked Fired without invoking its Callback.
type Witness func() bool

// Timer is a handle to a single registered timer.
type Timer interface {
	Handle() Handle
	Deadline() time.Time
	State() State

	// Cancel marks the timer CANCELED. It is idempotent: canceling an
	// already-fired or already-canceled timer returns an error but has no
	// other effect.
	Cancel() error
}

// Manager maintains the set of PENDING timers ordered by deadline and
// drives their firing. Its public operations are safe to call from any
// goroutine at any time.
type Manager interface {
	// RegisterTimer schedules cb to run once, no sooner than delay from
	// now.
	RegisterTimer(delay time.Duration, cb Callback) Timer

	// RegisterConditionalTimer schedules cb to run once, no sooner than
	// delay from now, but only if witness() still reports true at firing
	// time.
	RegisterConditionalTimer(delay time.Duration, cb Callback, witness Witness) Timer

	// Cancel marks the timer identified by h CANCELED, if it is still
	// PENDING. Idempotent.
	Cancel(h Handle) error

	// NextTimeout returns the duration until the earliest PENDING timer's
	// deadline, or a negative duration if there are no PENDING timers.
	// An idle loop uses this to bound how long it waits for readiness
	// events before it must re-poll timers.
	NextTimeout(now time.Time) time.Duration

	// ProcessExpired fires every PENDING timer whose deadline is <= now,
	// in deadline order (ties broken by registration order), and returns
	// how many callbacks ran.
	ProcessExpired(now time.Time) int

	// Stop cancels every remaining PENDING timer and makes subsequent
	// Register calls return a Timer that is immediately Canceled.
	Stop()
}

// New returns an empty Manager ready for use. log is an optional
// structured-logging hook used to report panics recovered from
// callbacks passed to ProcessExpired; when omitted or nil, a discard
// logger is used.
func New(log ...liblog.FuncLog) Manager {
	var l liblog.FuncLog
	if len(log) > 0 {
		l = log[0]
	}
	return newManager(l)
}
