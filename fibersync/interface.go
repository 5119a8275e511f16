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

package fibersync

import "github/sabouaram/fibernet/fiber"

// Mutex serializes fibers, not threads: a contending fiber suspends
// instead of spin-blocking its worker goroutine.
type Mutex interface {
	// Lock suspends c's fiber until the mutex is free, then takes it.
	Lock(c fiber.Control) error
	// TryLock takes the mutex without suspending if it is free, and
	// reports whether it succeeded.
	TryLock(c fiber.Control) bool
	// Unlock releases the mutex, transferring ownership directly to the
	// longest-waiting fiber (if any) and resuming it.
	Unlock(c fiber.Control) error
}

// NewMutex returns an unlocked Mutex bound to sched, used to resume
// waiting fibers.
func NewMutex(sched fiber.Scheduler) Mutex {
	return &mtx{sched: sched}
}

// Cond is a fiber-suspending condition variable associated with a Mutex,
// mirroring sync.Cond's contract: Wait must be called with the Mutex
// held, releases it while suspended, and re-acquires it before returning.
type Cond interface {
	Wait(c fiber.Control, lock Mutex) error
	Signal()
	Broadcast()
}

// NewCond returns a Cond bound to sched.
func NewCond(sched fiber.Scheduler) Cond {
	return &cnd{sched: sched}
}
