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
	"context"
	"crypto/tls"
	"net"
	"time"

	"github/sabouaram/fibernet/certificates"
)

// TLSStream wraps a net.Conn with a negotiated TLS session, built from a
// certificates.TLSConfig the way the rest of the pack already builds
// *tls.Config values for HTTP clients/servers.
type TLSStream struct {
	conn *tls.Conn
}

// NewTLSClient performs (or schedules, via HandshakeContext on first
// Read/Write) a client-side TLS handshake over conn using cfg, verifying
// the peer against serverName.
func NewTLSClient(ctx context.Context, conn net.Conn, cfg certificates.TLSConfig, serverName string) (*TLSStream, error) {
	tc := tls.Client(conn, cfg.TLS(serverName))
	if err := tc.HandshakeContext(ctx); err != nil {
		return nil, err
	}
	return &TLSStream{conn: tc}, nil
}

// NewTLSServer performs the server-side half of the handshake over conn
// using cfg.
func NewTLSServer(ctx context.Context, conn net.Conn, cfg certificates.TLSConfig) (*TLSStream, error) {
	tc := tls.Server(conn, cfg.TLS(""))
	if err := tc.HandshakeContext(ctx); err != nil {
		return nil, err
	}
	return &TLSStream{conn: tc}, nil
}

func (t *TLSStream) Read(p []byte) (int, error)  { return t.conn.Read(p) }
func (t *TLSStream) Write(p []byte) (int, error) { return t.conn.Write(p) }
func (t *TLSStream) Close() error                { return t.conn.Close() }

func (t *TLSStream) CancelRead() {
	_ = t.conn.SetReadDeadline(time.Unix(0, 1))
}

func (t *TLSStream) CancelWrite() {
	_ = t.conn.SetWriteDeadline(time.Unix(0, 1))
}

// ConnectionState exposes the negotiated TLS parameters (cipher suite,
// version, peer certificates) for logging or policy decisions upstream.
func (t *TLSStream) ConnectionState() tls.ConnectionState {
	return t.conn.ConnectionState()
}
