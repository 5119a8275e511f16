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

package iomanager

import (
	"fmt"
	"net"
	"sync"
	"time"

	liblog "github/sabouaram/fibernet/logger"
)

type regKey struct {
	conn net.Conn
	dir  Direction
}

type registration struct {
	cancel     chan struct{}
	cancelOnce sync.Once
}

type manager struct {
	mu   sync.Mutex
	regs map[regKey]*registration
	log  liblog.FuncLog
}

func newManager(log liblog.FuncLog) *manager {
	return &manager{regs: make(map[regKey]*registration), log: liblog.OrDiscard(log)}
}

func (m *manager) RegisterEvent(conn net.Conn, dir Direction, deadline time.Time, op Op, resumer Resumer) error {
	key := regKey{conn: conn, dir: dir}

	m.mu.Lock()
	if _, exists := m.regs[key]; exists {
		m.mu.Unlock()
		return ErrorAlreadyRegistered.Error()
	}
	reg := &registration{cancel: make(chan struct{})}
	m.regs[key] = reg
	m.mu.Unlock()

	if dir == Read {
		_ = conn.SetReadDeadline(deadline)
	} else {
		_ = conn.SetWriteDeadline(deadline)
	}

	go func() {
		canceled := make(chan struct{})
		go func() {
			select {
			case <-reg.cancel:
				// force the in-flight op to return immediately.
				past := time.Now().Add(-time.Second)
				if dir == Read {
					_ = conn.SetReadDeadline(past)
				} else {
					_ = conn.SetWriteDeadline(past)
				}
			case <-canceled:
			}
		}()

		n, err := op()
		close(canceled)

		m.mu.Lock()
		delete(m.regs, key)
		m.mu.Unlock()

		select {
		case <-reg.cancel:
			if err != nil {
				err = ErrorOperationAborted.Error()
			}
		default:
		}

		m.runResumer(conn, dir, resumer, n, err)
	}()

	return nil
}

func (m *manager) runResumer(conn net.Conn, dir Direction, resumer Resumer, n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			m.log().Entry(liblog.ErrorLevel, "io event resumer panicked").
				FieldAdd("remote", conn.RemoteAddr()).
				FieldAdd("direction", dir).
				FieldAdd("recover", fmt.Sprintf("%v", r)).
				Log()
		}
	}()
	resumer(n, err)
}

func (m *manager) CancelEvent(conn net.Conn, dir Direction) error {
	key := regKey{conn: conn, dir: dir}

	m.mu.Lock()
	reg, exists := m.regs[key]
	m.mu.Unlock()

	if !exists {
		return ErrorNotRegistered.Error()
	}

	reg.cancelOnce.Do(func() { close(reg.cancel) })
	return nil
}
