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
	"net"
	"time"

	liblog "github/sabouaram/fibernet/logger"
)

// Direction is the readiness direction of a registered event.
type Direction uint8

const (
	Read Direction = iota
	Write
)

// Op performs the actual blocking operation (conn.Read or conn.Write)
// that the registration is waiting to become ready. It is run against a
// deadline the Manager has already set on the connection.
type Op func() (n int, err error)

// Resumer is invoked exactly once when an Op completes, whether it
// succeeded, failed, or was canceled via CancelEvent.
type Resumer func(n int, err error)

// Manager registers at most one outstanding Read and one outstanding
// Write resumer per net.Conn, driving each via Go's runtime network
// poller (through the connection's deadline) instead of a hand-rolled
// epoll/kqueue backend.
type Manager interface {
	// RegisterEvent schedules op to run, bounding it by deadline (the
	// zero Time means no deadline), and invokes resumer with op's
	// result once it completes. Returns ErrorAlreadyRegistered if dir is
	// already outstanding for conn.
	RegisterEvent(conn net.Conn, dir Direction, deadline time.Time, op Op, resumer Resumer) error

	// CancelEvent causes the outstanding Op for (conn, dir), if any, to
	// be interrupted as soon as possible: its resumer will observe
	// ErrorOperationAborted (wrapping the underlying deadline error).
	CancelEvent(conn net.Conn, dir Direction) error
}

// New returns a Manager ready for use. log is an optional
// structured-logging hook used to report panics recovered from
// caller-supplied Resumer callbacks; when omitted or nil, a discard
// logger is used.
func New(log ...liblog.FuncLog) Manager {
	var l liblog.FuncLog
	if len(log) > 0 {
		l = log[0]
	}
	return newManager(l)
}
