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
	"fmt"
	"sync"
	"sync/atomic"

	liblog "github/sabouaram/fibernet/logger"
)

type fiberImpl struct {
	id    Handle
	state atomic.Uint32

	resumeCh chan struct{}
	doneCh   chan struct{}

	sched *scheduler
}

func (f *fiberImpl) Handle() Handle { return f.id }
func (f *fiberImpl) State() State   { return State(f.state.Load()) }

// control is the Control implementation handed to a fiber's entry
// function; it closes over the fiber it governs.
type control struct {
	f *fiberImpl
}

func (c *control) Handle() Handle { return c.f.Handle() }

func (c *control) Yield() {
	f := c.f
	f.state.Store(uint32(Ready))
	f.doneCh <- struct{}{}
	<-f.resumeCh
	f.state.Store(uint32(Running))
}

func (c *control) Suspend() {
	f := c.f
	f.state.Store(uint32(Suspended))
	f.doneCh <- struct{}{}
	<-f.resumeCh
	f.state.Store(uint32(Running))
}

func (c *control) YieldTo(other Handle) error {
	f := c.f
	s := f.sched

	target, ok := s.lookup(other)
	if !ok {
		return ErrorFiberNotFound.Error()
	}

	switch State(target.state.Load()) {
	case Ready, Suspended:
		s.promote(target)
	default:
		return ErrorFiberNotSuspended.Error()
	}

	c.Yield()
	return nil
}

type scheduler struct {
	mu      sync.Mutex
	cond    *sync.Cond
	ready   []*fiberImpl
	fibers  map[Handle]*fiberImpl
	nextID  uint64
	stopped bool
	idle    IdleFunc
	log     liblog.FuncLog
}

func newScheduler(log liblog.FuncLog) *scheduler {
	s := &scheduler{
		fibers: make(map[Handle]*fiberImpl),
		log:    liblog.OrDiscard(log),
	}
	s.cond = sync.NewCond(&s.mu)
	return s
}

func (s *scheduler) Spawn(fn func(Control)) (Handle, error) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return 0, ErrorSchedulerStopped.Error()
	}

	s.nextID++
	f := &fiberImpl{
		id:       Handle(s.nextID),
		resumeCh: make(chan struct{}),
		doneCh:   make(chan struct{}),
		sched:    s,
	}
	f.state.Store(uint32(Init))
	s.fibers[f.id] = f
	s.mu.Unlock()

	go f.run(fn)

	s.enqueue(f)
	return f.id, nil
}

func (f *fiberImpl) run(fn func(Control)) {
	<-f.resumeCh
	f.state.Store(uint32(Running))

	func() {
		defer func() {
			if r := recover(); r != nil {
				f.state.Store(uint32(Except))
				f.sched.log().Entry(liblog.ErrorLevel, "fiber panicked").
					FieldAdd("handle", f.id).
					FieldAdd("recover", fmt.Sprintf("%v", r)).
					Log()
			}
		}()
		fn(&control{f: f})
	}()

	if State(f.state.Load()) == Running {
		f.state.Store(uint32(Terminated))
	}
	f.doneCh <- struct{}{}
}

func (s *scheduler) enqueue(f *fiberImpl) {
	f.state.Store(uint32(Ready))
	s.mu.Lock()
	s.ready = append(s.ready, f)
	s.mu.Unlock()
	s.cond.Broadcast()
}

// promote moves f to the front of the ready queue (or enqueues it if not
// already present), implementing YieldTo's direct-handoff intent as
// closely as a FIFO worker loop allows.
func (s *scheduler) promote(f *fiberImpl) {
	s.mu.Lock()
	for i, r := range s.ready {
		if r == f {
			s.ready = append(s.ready[:i], s.ready[i+1:]...)
			break
		}
	}
	f.state.Store(uint32(Ready))
	s.ready = append([]*fiberImpl{f}, s.ready...)
	s.mu.Unlock()
	s.cond.Broadcast()
}

func (s *scheduler) Resume(h Handle) error {
	f, ok := s.lookup(h)
	if !ok {
		return ErrorFiberNotFound.Error()
	}
	if !f.state.CompareAndSwap(uint32(Suspended), uint32(Ready)) {
		return ErrorFiberNotSuspended.Error()
	}

	s.mu.Lock()
	s.ready = append(s.ready, f)
	s.mu.Unlock()
	s.cond.Broadcast()
	return nil
}

func (s *scheduler) lookup(h Handle) (*fiberImpl, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.fibers[h]
	return f, ok
}

func (s *scheduler) Lookup(h Handle) Fiber {
	f, ok := s.lookup(h)
	if !ok {
		return nil
	}
	return f
}

func (s *scheduler) SetIdle(fn IdleFunc) {
	s.mu.Lock()
	s.idle = fn
	s.mu.Unlock()
}

func (s *scheduler) Run() {
	for {
		s.mu.Lock()
		for len(s.ready) == 0 && !s.stopped {
			idle := s.idle
			s.mu.Unlock()

			if idle != nil && idle() {
				s.mu.Lock()
				continue
			}

			s.mu.Lock()
			if len(s.ready) == 0 && !s.stopped {
				s.cond.Wait()
			}
		}

		if s.stopped && len(s.ready) == 0 {
			s.mu.Unlock()
			return
		}

		f := s.ready[0]
		s.ready = s.ready[1:]
		s.mu.Unlock()

		s.runFiber(f)
	}
}

func (s *scheduler) runFiber(f *fiberImpl) {
	f.resumeCh <- struct{}{}
	<-f.doneCh

	switch State(f.state.Load()) {
	case Ready:
		s.mu.Lock()
		s.ready = append(s.ready, f)
		s.mu.Unlock()
	case Terminated, Except:
		s.mu.Lock()
		delete(s.fibers, f.id)
		s.mu.Unlock()
	case Suspended:
		// left for an external resumer to call Resume.
	}
}

func (s *scheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
	s.cond.Broadcast()
}
