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
	"container/heap"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	liblog "github/sabouaram/fibernet/logger"
)

// entry is one PENDING/FIRED/CANCELED timer held by the manager's heap.
type entry struct {
	handle   Handle
	deadline time.Time
	seq      uint64 // registration order, breaks deadline ties
	cb       Callback
	witness  Witness // nil for unconditional timers

	state atomic.Uint32 // State, accessed via CompareAndSwap for idempotent Cancel
	index int           // heap.Interface bookkeeping, -1 when not in heap
}

func (e *entry) Handle() Handle     { return e.handle }
func (e *entry) Deadline() time.Time { return e.deadline }
func (e *entry) State() State       { return State(e.state.Load()) }

func (e *entry) Cancel() error {
	if e.state.CompareAndSwap(uint32(Pending), uint32(Canceled)) {
		return nil
	}
	switch State(e.state.Load()) {
	case Fired:
		return ErrorAlreadyFired.Error()
	default:
		return ErrorAlreadyCanceled.Error()
	}
}

// entryHeap is a min-heap ordered by (deadline, seq).
type entryHeap []*entry

func (h entryHeap) Len() int { return len(h) }
func (h entryHeap) Less(i, j int) bool {
	if h[i].deadline.Equal(h[j].deadline) {
		return h[i].seq < h[j].seq
	}
	return h[i].deadline.Before(h[j].deadline)
}
func (h entryHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *entryHeap) Push(x any) {
	e := x.(*entry)
	e.index = len(*h)
	*h = append(*h, e)
}
func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}

type mgr struct {
	mu      sync.Mutex
	heap    entryHeap
	nextSeq uint64
	stopped bool
	log     liblog.FuncLog
}

func newManager(log liblog.FuncLog) *mgr {
	return &mgr{heap: make(entryHeap, 0), log: liblog.OrDiscard(log)}
}

func (m *mgr) RegisterTimer(delay time.Duration, cb Callback) Timer {
	return m.register(delay, cb, nil)
}

func (m *mgr) RegisterConditionalTimer(delay time.Duration, cb Callback, witness Witness) Timer {
	return m.register(delay, cb, witness)
}

func (m *mgr) register(delay time.Duration, cb Callback, witness Witness) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextSeq++
	e := &entry{
		handle:   Handle(m.nextSeq),
		deadline: time.Now().Add(delay),
		seq:      m.nextSeq,
		cb:       cb,
		witness:  witness,
		index:    -1,
	}

	if m.stopped {
		e.state.Store(uint32(Canceled))
		return e
	}

	e.state.Store(uint32(Pending))
	heap.Push(&m.heap, e)
	return e
}

func (m *mgr) Cancel(h Handle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.heap {
		if e.handle != h {
			continue
		}
		if !e.state.CompareAndSwap(uint32(Pending), uint32(Canceled)) {
			return ErrorAlreadyCanceled.Error()
		}
		heap.Remove(&m.heap, e.index)
		return nil
	}

	return ErrorAlreadyCanceled.Error()
}

func (m *mgr) NextTimeout(now time.Time) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.heap) == 0 {
		return -1
	}

	d := m.heap[0].deadline.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

func (m *mgr) ProcessExpired(now time.Time) int {
	var due []*entry

	m.mu.Lock()
	for len(m.heap) > 0 && !m.heap[0].deadline.After(now) {
		e := heap.Pop(&m.heap).(*entry)
		due = append(due, e)
	}
	m.mu.Unlock()

	fired := 0
	for _, e := range due {
		if !e.state.CompareAndSwap(uint32(Pending), uint32(Fired)) {
			continue
		}

		if e.witness != nil && !e.witness() {
			continue
		}

		fired++
		m.runCallback(e.handle, e.cb)
	}

	return fired
}

func (m *mgr) runCallback(h Handle, cb Callback) {
	defer func() {
		if r := recover(); r != nil {
			m.log().Entry(liblog.ErrorLevel, "timer callback panicked").
				FieldAdd("handle", h).
				FieldAdd("recover", fmt.Sprintf("%v", r)).
				Log()
		}
	}()
	cb()
}

func (m *mgr) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopped = true
	for _, e := range m.heap {
		e.state.CompareAndSwap(uint32(Pending), uint32(Canceled))
	}
	m.heap = m.heap[:0]
}
