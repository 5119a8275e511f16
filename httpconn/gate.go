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

package httpconn

import (
	"runtime"
	"sync"

	"github/sabouaram/fibernet/fiber"
)

// gate wakes a single dedicated fiber from ordinary (non-fiber) caller
// goroutines. fibersync's Mutex/Cond cannot serve this: both require a
// fiber.Control, which a plain caller goroutine (one that called
// Request, or Close'd a request body) never has. gate is the
// narrow primitive that bridges that boundary: callers call signal,
// the owning fiber calls wait from inside its own entry function.
//
// A pending signal that arrives before the fiber calls wait is not
// lost: signal records it, and the next wait consumes it without
// suspending. A signal that arrives in the narrow window after wait
// has decided to suspend but before the fiber's state is actually
// stored as Suspended is handled by retrying Resume until the
// scheduler accepts it; nothing else changes fiber state in that
// window, so the retry always converges.
type gate struct {
	mu      sync.Mutex
	pending bool
	waiting bool
	sched   fiber.Scheduler
	handle  fiber.Handle
}

func newGate(sched fiber.Scheduler) *gate {
	return &gate{sched: sched}
}

// bind records the handle of the fiber that owns this gate. Called
// once, right after Spawn returns the handle.
func (g *gate) bind(h fiber.Handle) {
	g.mu.Lock()
	g.handle = h
	g.mu.Unlock()
}

// wait blocks the calling fiber until the next signal, consuming it.
func (g *gate) wait(ctl fiber.Control) {
	g.mu.Lock()
	if g.pending {
		g.pending = false
		g.mu.Unlock()
		return
	}
	g.waiting = true
	g.mu.Unlock()

	ctl.Suspend()

	g.mu.Lock()
	g.pending = false
	g.waiting = false
	g.mu.Unlock()
}

// signal wakes the owning fiber if it is (or is about to be) waiting;
// otherwise it leaves the wakeup pending for the next wait call.
func (g *gate) signal() {
	g.mu.Lock()
	g.pending = true
	waiting := g.waiting
	h := g.handle
	g.mu.Unlock()

	if !waiting {
		return
	}
	for {
		if err := g.sched.Resume(h); err == nil {
			return
		}
		runtime.Gosched()
	}
}
