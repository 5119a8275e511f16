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
	"context"
	"net"
	"sync"
	"time"

	"github/sabouaram/fibernet/atomic"
	"github/sabouaram/fibernet/certificates"
	"github/sabouaram/fibernet/duration"
	liblog "github/sabouaram/fibernet/logger"
	librun "github/sabouaram/fibernet/runner/startStop"
	"github/sabouaram/fibernet/stream"
)

// reapInterval bounds how often a pool scans for idle entries to
// close. It is not user-tunable: it only needs to be comfortably
// smaller than any realistic IdleTimeout.
const reapInterval = 5 * time.Second

// FuncWalk is called once per pooled entry by Walk/WalkLimit; returning
// false stops the scan early.
type FuncWalk func(key string, conn *ClientConnection) bool

// ClientPoolConfig carries the dial-time and per-connection settings a
// ClientPool applies to every connection it opens.
type ClientPoolConfig struct {
	// TLS configures the client handshake for addresses dialed through
	// DialTLS. A nil TLS makes DialTLS behave like Dial.
	TLS certificates.TLSConfig

	// DialTimeout bounds how long Get waits for net.Dial to complete.
	DialTimeout duration.Duration

	// ReadTimeout, WriteTimeout, IdleTimeout are copied onto every
	// ClientConnection this pool creates.
	ReadTimeout  duration.Duration
	WriteTimeout duration.Duration
	IdleTimeout  duration.Duration
}

type pooledClient struct {
	conn   *ClientConnection
	mu     sync.Mutex
	active time.Time
}

func (p *pooledClient) touch() {
	p.mu.Lock()
	p.active = time.Now()
	p.mu.Unlock()
}

func (p *pooledClient) idleSince() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// ClientPool dials and reuses ClientConnections keyed by address,
// closing and evicting any connection that has sat with no outstanding
// requests for longer than its IdleTimeout.
type ClientPool interface {
	// Get returns the pooled connection for address, dialing (and, if
	// cfg.TLS is set, handshaking) a new one if none exists yet or the
	// existing one is closed.
	Get(ctx context.Context, address string) (*ClientConnection, error)

	// Walk calls fn for every pooled connection until fn returns false
	// or every entry has been visited.
	Walk(fn FuncWalk)

	// Delete closes and evicts the connection registered under address,
	// if any.
	Delete(address string) error

	// Len reports how many connections are currently pooled.
	Len() int

	// Close stops idle-reaping and closes every pooled connection.
	Close() error
}

type clientPool struct {
	cfg     ClientPoolConfig
	log     liblog.FuncLog
	entries atomic.MapTyped[string, *pooledClient]
	reaper  librun.StartStop

	mu     sync.Mutex
	closed bool
}

// NewClientPool returns a ClientPool dialing connections per cfg. log
// is an optional structured-logging hook passed through to every
// ClientConnection the pool creates, and used to report reaper
// errors; when omitted or nil, a discard logger is used.
func NewClientPool(cfg ClientPoolConfig, log ...liblog.FuncLog) ClientPool {
	var l liblog.FuncLog
	if len(log) > 0 {
		l = log[0]
	}

	p := &clientPool{
		cfg:     cfg,
		log:     liblog.OrDiscard(l),
		entries: atomic.NewMapTyped[string, *pooledClient](),
	}

	if cfg.IdleTimeout > 0 {
		p.reaper = librun.New(p.reapLoop, p.reapClose)
		_ = p.reaper.Start(context.Background())
	}

	return p
}

func (p *clientPool) Get(ctx context.Context, address string) (*ClientConnection, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrorPoolClosed.Error()
	}
	p.mu.Unlock()

	if pc, ok := p.entries.Load(address); ok {
		if pc.conn.NewRequestsAllowed() {
			pc.touch()
			return pc.conn, nil
		}
		p.entries.Delete(address)
	}

	dialCtx := ctx
	var cancel context.CancelFunc
	if p.cfg.DialTimeout > 0 {
		dialCtx, cancel = context.WithTimeout(ctx, p.cfg.DialTimeout.Time())
		defer cancel()
	}

	var d net.Dialer
	conn, err := d.DialContext(dialCtx, "tcp", address)
	if err != nil {
		return nil, ErrorDialFailed.Error(err)
	}

	var transport stream.Stream = stream.NewSocket(conn)
	if p.cfg.TLS != nil {
		serverName := address
		if h, _, serr := net.SplitHostPort(address); serr == nil {
			serverName = h
		}
		ts, terr := stream.NewTLSClient(ctx, conn, p.cfg.TLS, serverName)
		if terr != nil {
			_ = conn.Close()
			return nil, ErrorDialFailed.Error(terr)
		}
		transport = ts
	}

	cc := NewClientConnection(transport, p.log)
	cc.ReadTimeout = p.cfg.ReadTimeout
	cc.WriteTimeout = p.cfg.WriteTimeout
	cc.IdleTimeout = p.cfg.IdleTimeout

	pc := &pooledClient{conn: cc, active: time.Now()}
	p.entries.Store(address, pc)

	return cc, nil
}

func (p *clientPool) Walk(fn FuncWalk) {
	p.entries.Range(func(key string, pc *pooledClient) bool {
		return fn(key, pc.conn)
	})
}

func (p *clientPool) Delete(address string) error {
	pc, ok := p.entries.LoadAndDelete(address)
	if !ok {
		return ErrorPoolKeyNotFound.Error()
	}
	return pc.conn.Close()
}

func (p *clientPool) Len() int {
	n := 0
	p.entries.Range(func(string, *pooledClient) bool {
		n++
		return true
	})
	return n
}

func (p *clientPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	if p.reaper != nil {
		_ = p.reaper.Stop(context.Background())
	}

	var first error
	p.entries.Range(func(key string, pc *pooledClient) bool {
		if err := pc.conn.Close(); err != nil && first == nil {
			first = err
		}
		return true
	})

	return first
}

func (p *clientPool) reapLoop(ctx context.Context) error {
	t := time.NewTicker(reapInterval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			p.reapOnce()
		}
	}
}

func (p *clientPool) reapOnce() {
	limit := p.cfg.IdleTimeout.Time()
	if limit <= 0 {
		return
	}

	var dead []string
	p.entries.Range(func(key string, pc *pooledClient) bool {
		if pc.conn.OutstandingRequests() > 0 {
			return true
		}
		if time.Since(pc.idleSince()) >= limit {
			dead = append(dead, key)
		}
		return true
	})

	for _, key := range dead {
		if pc, ok := p.entries.LoadAndDelete(key); ok {
			if err := pc.conn.Close(); err != nil {
				p.log().Entry(liblog.WarnLevel, "idle connection close failed").
					FieldAdd("key", key).
					FieldAdd("error", err).
					Log()
			}
		}
	}
}

func (p *clientPool) reapClose(context.Context) error {
	return nil
}

// ServerPoolConfig carries the listen-time and per-connection settings
// a ServerPool applies to every listener/connection it manages.
type ServerPoolConfig struct {
	// TLS configures the server handshake for every accepted
	// connection. A nil TLS serves plain HTTP.
	TLS certificates.TLSConfig

	ReadTimeout  duration.Duration
	WriteTimeout duration.Duration
	IdleTimeout  duration.Duration
}

type listenerEntry struct {
	ln      net.Listener
	handler Handler
}

// ServerPool manages a set of listeners, each dispatching accepted
// connections through ProcessRequests, keyed by bind address. Modeled
// on the bind-address-keyed registry the teacher's server pool
// exposes, trimmed to the Manage operations this module's domain
// actually exercises (Walk/WalkLimit/Has/Len/Store/Delete/Clean).
type ServerPool interface {
	// Listen opens a listener on address (TLS-wrapping accepted
	// connections if cfg.TLS is set) and serves handler on every
	// connection it accepts, in its own goroutine, until Close or
	// Delete(address) is called.
	Listen(address string, handler Handler) error

	// Walk calls fn for every registered listener until fn returns
	// false or every entry has been visited.
	Walk(fn func(address string, ln net.Listener) bool)

	// WalkLimit is Walk bounded to at most limit entries.
	WalkLimit(limit int, fn func(address string, ln net.Listener) bool)

	// Has reports whether address is currently registered.
	Has(address string) bool

	// Len reports how many listeners are currently registered.
	Len() int

	// Delete closes and evicts the listener registered under address.
	Delete(address string) error

	// Clean closes and evicts every listener.
	Clean()

	// Close is Clean, returning the first error encountered.
	Close() error
}

type serverPool struct {
	cfg     ServerPoolConfig
	log     liblog.FuncLog
	entries atomic.MapTyped[string, *listenerEntry]
}

// NewServerPool returns a ServerPool listening per cfg. log is an
// optional structured-logging hook passed through to every
// ServerConnection the pool accepts, and used to report accept-loop
// errors; when omitted or nil, a discard logger is used.
func NewServerPool(cfg ServerPoolConfig, log ...liblog.FuncLog) ServerPool {
	var l liblog.FuncLog
	if len(log) > 0 {
		l = log[0]
	}

	return &serverPool{
		cfg:     cfg,
		log:     liblog.OrDiscard(l),
		entries: atomic.NewMapTyped[string, *listenerEntry](),
	}
}

func (p *serverPool) Listen(address string, handler Handler) error {
	ln, err := net.Listen("tcp", address)
	if err != nil {
		return ErrorListenFailed.Error(err)
	}

	p.entries.Store(address, &listenerEntry{ln: ln, handler: handler})
	go p.acceptLoop(address, ln, handler)

	return nil
}

func (p *serverPool) acceptLoop(address string, ln net.Listener, handler Handler) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if _, ok := p.entries.Load(address); !ok {
				return // Delete/Clean closed ln; exit quietly.
			}
			p.log().Entry(liblog.ErrorLevel, "accept failed").
				FieldAdd("address", address).
				FieldAdd("error", err).
				Log()
			return
		}

		go p.serve(conn, handler)
	}
}

func (p *serverPool) serve(conn net.Conn, handler Handler) {
	var transport stream.Stream = stream.NewSocket(conn)

	if p.cfg.TLS != nil {
		ts, err := stream.NewTLSServer(context.Background(), conn, p.cfg.TLS)
		if err != nil {
			p.log().Entry(liblog.ErrorLevel, "TLS handshake failed").
				FieldAdd("remote", conn.RemoteAddr()).
				FieldAdd("error", err).
				Log()
			_ = conn.Close()
			return
		}
		transport = ts
	}

	sc := NewServerConnection(transport, handler, p.log)
	sc.ReadTimeout = p.cfg.ReadTimeout
	sc.WriteTimeout = p.cfg.WriteTimeout
	sc.IdleTimeout = p.cfg.IdleTimeout
	sc.ProcessRequests()
}

func (p *serverPool) Walk(fn func(address string, ln net.Listener) bool) {
	p.entries.Range(func(key string, e *listenerEntry) bool {
		return fn(key, e.ln)
	})
}

func (p *serverPool) WalkLimit(limit int, fn func(address string, ln net.Listener) bool) {
	n := 0
	p.entries.Range(func(key string, e *listenerEntry) bool {
		if n >= limit {
			return false
		}
		n++
		return fn(key, e.ln)
	})
}

func (p *serverPool) Has(address string) bool {
	_, ok := p.entries.Load(address)
	return ok
}

func (p *serverPool) Len() int {
	n := 0
	p.entries.Range(func(string, *listenerEntry) bool {
		n++
		return true
	})
	return n
}

func (p *serverPool) Delete(address string) error {
	e, ok := p.entries.LoadAndDelete(address)
	if !ok {
		return ErrorPoolKeyNotFound.Error()
	}
	return e.ln.Close()
}

func (p *serverPool) Clean() {
	var keys []string
	p.entries.Range(func(key string, _ *listenerEntry) bool {
		keys = append(keys, key)
		return true
	})
	for _, key := range keys {
		_ = p.Delete(key)
	}
}

func (p *serverPool) Close() error {
	p.Clean()
	return nil
}
