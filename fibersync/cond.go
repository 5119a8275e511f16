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

import (
	"sync"

	"github/sabouaram/fibernet/fiber"
)

type cnd struct {
	mu      sync.Mutex
	sched   fiber.Scheduler
	waiters []fiber.Handle
}

func (cv *cnd) Wait(c fiber.Control, lock Mutex) error {
	if c == nil {
		return ErrorNoCurrentFiber.Error()
	}

	cv.mu.Lock()
	cv.waiters = append(cv.waiters, c.Handle())
	cv.mu.Unlock()

	if err := lock.Unlock(c); err != nil {
		return err
	}

	c.Suspend()

	return lock.Lock(c)
}

func (cv *cnd) Signal() {
	cv.mu.Lock()
	if len(cv.waiters) == 0 {
		cv.mu.Unlock()
		return
	}
	h := cv.waiters[0]
	cv.waiters = cv.waiters[1:]
	cv.mu.Unlock()

	_ = cv.sched.Resume(h)
}

func (cv *cnd) Broadcast() {
	cv.mu.Lock()
	w := cv.waiters
	cv.waiters = nil
	cv.mu.Unlock()

	for _, h := range w {
		_ = cv.sched.Resume(h)
	}
}
