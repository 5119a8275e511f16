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

package stream

import (
	"net"
	"time"
)

// tcpHalfCloser is satisfied by *net.TCPConn and any other net.Conn that
// supports shutting down one direction independently.
type tcpHalfCloser interface {
	CloseRead() error
	CloseWrite() error
}

// SocketStream adapts a net.Conn to the Stream contract: Cancel{Read,
// Write} abort an in-flight operation by rolling the matching deadline
// into the past, mirroring how iomanager cancels a pending registration.
type SocketStream struct {
	conn net.Conn
}

func NewSocket(conn net.Conn) *SocketStream {
	return &SocketStream{conn: conn}
}

func (s *SocketStream) Read(p []byte) (int, error)  { return s.conn.Read(p) }
func (s *SocketStream) Write(p []byte) (int, error) { return s.conn.Write(p) }
func (s *SocketStream) Close() error                { return s.conn.Close() }

func (s *SocketStream) CancelRead() {
	_ = s.conn.SetReadDeadline(time.Unix(0, 1))
}

func (s *SocketStream) CancelWrite() {
	_ = s.conn.SetWriteDeadline(time.Unix(0, 1))
}

// CloseRead half-closes the read side if the underlying conn supports
// it (e.g. *net.TCPConn); otherwise it returns ErrorCapabilityUnsupported.
func (s *SocketStream) CloseRead() error {
	if hc, ok := s.conn.(tcpHalfCloser); ok {
		return hc.CloseRead()
	}
	return ErrorCapabilityUnsupported.Error()
}

func (s *SocketStream) CloseWrite() error {
	if hc, ok := s.conn.(tcpHalfCloser); ok {
		return hc.CloseWrite()
	}
	return ErrorCapabilityUnsupported.Error()
}

// Conn exposes the underlying net.Conn, e.g. so a caller can set I/O
// deadlines directly or hand it to iomanager.RegisterEvent.
func (s *SocketStream) Conn() net.Conn { return s.conn }
