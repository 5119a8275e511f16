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

package fiber

import (
	liblog "github/sabouaram/fibernet/logger"
)

// State is the lifecycle state of a Fiber.
type State uint8

const (
	Init State = iota
	Ready
	Running
	Suspended
	Terminated
	Except
)

func (s State) String() string {
	switch s {
	case Init:
		return "INIT"
	case Ready:
		return "READY"
	case Running:
		return "RUNNING"
	case Suspended:
		return "SUSPENDED"
	case Terminated:
		return "TERMINATED"
	case Except:
		return "EXCEPT"
	default:
		return "UNKNOWN"
	}
}

// Handle uniquely identifies a Fiber for its lifetime.
type Handle uint64

// Fiber is a handle to a spawned execution unit.
type Fiber interface {
	Handle() Handle
	State() State
}

// Control is passed explicitly into a fiber's entry function, letting it
// cooperate with the Scheduler at its own suspension points.
type Control interface {
	Handle() Handle

	// Yield voluntarily returns control to the Scheduler; this fiber is
	// placed at the tail of the READY queue and resumes when its turn
	// comes back around.
	Yield()

	// YieldTo directly hands off to another SUSPENDED or READY fiber,
	// without waiting for the normal READY-queue rotation. Returns an
	// error if other is not resumable.
	YieldTo(other Handle) error

	// Suspend parks this fiber (state SUSPENDED) until some external
	// resumer calls Scheduler.Resume with its handle. Unlike Yield, a
	// suspended fiber is not requeued automatically — it is the
	// resumer's (timer, I/O manager, fiber mutex) responsibility to
	// bring it back to READY.
	Suspend()
}

// IdleFunc is invoked by a worker when its READY queue is empty. It
// should block (bounded by a timer/I/O-manager-provided deadline) until
// there is a reasonable chance of new work, then return. It returns true
// if it believes it produced new READY work (so the worker should
// re-check before blocking further).
type IdleFunc func() bool

// Scheduler multiplexes fibers over worker goroutines.
type Scheduler interface {
	// Spawn creates a fiber running fn and schedules it READY. Returns
	// ErrorSchedulerStopped if called after Stop.
	Spawn(fn func(Control)) (Handle, error)

	// Resume transitions a SUSPENDED fiber back to READY. Used by
	// external resumers (timer callbacks, I/O readiness, fiber mutex
	// wait queues).
	Resume(h Handle) error

	// SetIdle installs the function run by workers when no fiber is
	// READY. Typically wraps a timer manager's ProcessExpired and an
	// I/O manager's poll step.
	SetIdle(fn IdleFunc)

	// Run is a worker-thread entry point: it loops taking READY fibers,
	// resuming them, and running the idle function when none are ready,
	// until Stop is called and the READY queue drains. Call Run from as
	// many goroutines as desired worker threads.
	Run()

	// Stop marks the scheduler shutting down: Run loops return once
	// their READY queue is empty, and Spawn starts failing.
	Stop()

	// Lookup returns the Fiber for h, or nil if unknown.
	Lookup(h Handle) Fiber
}

// New returns a Scheduler ready for Run to be called on it. log is an
// optional structured-logging hook (teacher's logger.FuncLog pattern);
// when omitted or nil, a discard logger is used.
func New(log ...liblog.FuncLog) Scheduler {
	var l liblog.FuncLog
	if len(log) > 0 {
		l = log[0]
	}
	return newScheduler(l)
}
