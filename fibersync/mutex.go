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

type mtx struct {
	mu      sync.Mutex
	sched   fiber.Scheduler
	locked  bool
	owner   fiber.Handle
	waiters []fiber.Handle
}

func (m *mtx) Lock(c fiber.Control) error {
	if c == nil {
		return ErrorNoCurrentFiber.Error()
	}

	m.mu.Lock()
	if !m.locked {
		m.locked = true
		m.owner = c.Handle()
		m.mu.Unlock()
		return nil
	}

	m.waiters = append(m.waiters, c.Handle())
	m.mu.Unlock()

	// Unlock() transfers ownership to us before resuming us, so there is
	// no re-check loop here: by the time Suspend returns we already own
	// the mutex.
	c.Suspend()
	return nil
}

func (m *mtx) TryLock(c fiber.Control) bool {
	if c == nil {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.locked {
		return false
	}

	m.locked = true
	m.owner = c.Handle()
	return true
}

func (m *mtx) Unlock(c fiber.Control) error {
	if c == nil {
		return ErrorNoCurrentFiber.Error()
	}

	m.mu.Lock()

	if !m.locked || m.owner != c.Handle() {
		m.mu.Unlock()
		return ErrorNotOwner.Error()
	}

	if len(m.waiters) == 0 {
		m.locked = false
		m.owner = 0
		m.mu.Unlock()
		return nil
	}

	next := m.waiters[0]
	m.waiters = m.waiters[1:]
	m.owner = next
	m.mu.Unlock()

	return m.sched.Resume(next)
}
