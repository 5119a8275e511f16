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

// Package httpconn multiplexes pipelined HTTP/1.1 requests and
// responses over a single transport stream, using cooperatively
// scheduled fibers to keep request submission, header writing, body
// writing, and response reading each running in their own strand
// while enforcing wire-order: a connection writes request N+1's
// headers only once request N's body has finished, and reads
// response N+1 only once response N's body has been fully drained by
// its caller.
package httpconn

import (
	"sync"

	"github/sabouaram/fibernet/duration"
	"github/sabouaram/fibernet/fiber"
	"github/sabouaram/fibernet/httpcodec"
	liblog "github/sabouaram/fibernet/logger"
	"github/sabouaram/fibernet/stream"
	"github/sabouaram/fibernet/stream/multipart"
)

// clientWorkers is the number of goroutines servicing this
// connection's fiber scheduler. Two are required, not a tuning knob:
// the write-pump and read-pump are both long-lived fibers that may
// each be blocked in real I/O at the same time (the read-pump
// draining one response's body while the write-pump is still writing
// the next request's), and a single scheduler worker can only ever
// service one fiber's blocking call at a time.
const clientWorkers = 2

// ClientResponse pairs a parsed response with its body. Multipart is
// non-nil when Body's bytes are a flattened concatenation of a
// multipart entity's parts; callers that need per-part headers should
// use Multipart instead of Body.
type ClientResponse struct {
	Message   *httpcodec.Response
	Body      stream.Stream
	Multipart *multipart.Multipart
}

// ClientRequest is one pipelined request submitted on a
// ClientConnection. Headers are queued at submission time; the caller
// drives the body (if any) through Body or signals there is none
// through NoBody, then reads the response through Response.
type ClientRequest struct {
	conn *ClientConnection
	req  *httpcodec.Request

	headersWritten bool
	writeErr       error

	bodyRequested bool
	bodyDone      bool
	bodyErr       error

	respReady  chan struct{}
	respOnce   sync.Once
	clientResp *ClientResponse
	respErr    error

	bodyDrained bool
}

// Body returns the stream the caller writes the request entity body
// into. It must be fully written and Closed (or never requested, with
// NoBody called instead) before the connection will write the next
// pipelined request's headers.
func (r *ClientRequest) Body() stream.Stream {
	r.conn.mu.Lock()
	if r.bodyRequested {
		r.conn.mu.Unlock()
		return nil
	}
	r.bodyRequested = true
	r.conn.mu.Unlock()

	// The caller may call Body immediately after Request returns, long
	// before the write-pump fiber actually gets scheduled to format
	// this request's own headers. Without waiting here, a caller that
	// writes body bytes right away could interleave them with this
	// same request's header bytes on the wire. Block the plain caller
	// goroutine (not a fiber, so a condition variable is fine here)
	// until its own headers are confirmed written.
	if err := r.conn.awaitHeadersWrittenPlain(r); err != nil {
		r.markBodyDone(err)
		return nil
	}

	w := deriveBodyWriter(r.conn.transport, &r.req.Headers)
	return stream.NewNotify(w, false, stream.NotifyCallbacks{
		OnClose: func() { r.markBodyDone(nil) },
	})
}

// NoBody declares that this request carries no entity body, letting
// the connection proceed to the next pipelined request's headers
// immediately.
func (r *ClientRequest) NoBody() {
	r.markBodyDone(nil)
}

func (r *ClientRequest) markBodyDone(err error) {
	r.conn.mu.Lock()
	if r.bodyDone {
		r.conn.mu.Unlock()
		return
	}
	r.bodyDone = true
	r.bodyErr = err
	r.conn.mu.Unlock()
	r.conn.writeGate.signal()
}

// Response blocks until this request's response headers have been
// parsed (or the connection fails this request first) and returns it.
func (r *ClientRequest) Response() (*ClientResponse, error) {
	<-r.respReady
	r.conn.mu.Lock()
	defer r.conn.mu.Unlock()
	return r.clientResp, r.respErr
}

func (r *ClientRequest) setResponse(resp *ClientResponse) {
	r.conn.mu.Lock()
	r.clientResp = resp
	r.conn.mu.Unlock()
	r.respOnce.Do(func() { close(r.respReady) })
}

func (r *ClientRequest) setResponseErr(err error) {
	r.conn.mu.Lock()
	r.respErr = err
	r.conn.mu.Unlock()
	r.respOnce.Do(func() { close(r.respReady) })
}

// markBodyDrained tells the connection this request's response body
// has been fully read or explicitly closed, letting the read-pump
// advance to the next pipelined response.
func (r *ClientRequest) markBodyDrained() {
	r.conn.mu.Lock()
	if r.bodyDrained {
		r.conn.mu.Unlock()
		return
	}
	r.bodyDrained = true
	r.conn.mu.Unlock()
	r.conn.readGate.signal()
}

// ClientConnection pipelines requests over a single transport. Build
// one per outbound TCP (or TLS, or any other Stream-shaped) connection
// and submit requests with Request; do not share one across
// connections to different peers.
type ClientConnection struct {
	transport *stream.BufferedStream
	sched     fiber.Scheduler
	writeGate *gate
	readGate  *gate

	mu                    sync.Mutex
	headersCond           *sync.Cond
	requests              []*ClientRequest
	closed                bool
	newRequestsAllowed    bool
	voluntaryClosePending bool

	ReadTimeout  duration.Duration
	WriteTimeout duration.Duration
	IdleTimeout  duration.Duration

	log liblog.FuncLog
}

// NewClientConnection wraps transport (already connected, and already
// TLS-negotiated if this is an https endpoint) in a pipelining
// client. log is an optional structured-logging hook used to report
// connection-level protocol errors (a pump that fails the connection
// from failFrom); when omitted or nil, a discard logger is used.
func NewClientConnection(transport stream.Stream, log ...liblog.FuncLog) *ClientConnection {
	var l liblog.FuncLog
	if len(log) > 0 {
		l = log[0]
	}
	c := &ClientConnection{
		transport:          stream.NewBuffered(transport, true),
		sched:              fiber.New(l),
		newRequestsAllowed: true,
		log:                liblog.OrDiscard(l),
	}
	c.headersCond = sync.NewCond(&c.mu)
	c.writeGate = newGate(c.sched)
	c.readGate = newGate(c.sched)

	wh, _ := c.sched.Spawn(c.writePump)
	c.writeGate.bind(wh)

	rh, _ := c.sched.Spawn(c.readPump)
	c.readGate.bind(rh)

	for i := 0; i < clientWorkers; i++ {
		go c.sched.Run()
	}

	return c
}

// Request enqueues req for pipelined submission, returning the handle
// used to supply its body (if any) and read its response. Requests
// already queued when a prior one fails or announces Connection:
// close are still honored in order up to that point; new calls to
// Request after that return an error instead of queuing further.
func (c *ClientConnection) Request(req *httpcodec.Request) (*ClientRequest, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrorConnectionClosed.Error()
	}
	if !c.newRequestsAllowed {
		c.mu.Unlock()
		return nil, ErrorNewRequestsNotAllowed.Error()
	}

	cr := &ClientRequest{conn: c, req: req, respReady: make(chan struct{})}
	c.requests = append(c.requests, cr)

	if req.HasConnectionClose() {
		c.newRequestsAllowed = false
	}
	c.mu.Unlock()

	c.writeGate.signal()
	return cr, nil
}

// NewRequestsAllowed reports whether Request will currently accept
// another pipelined request.
func (c *ClientConnection) NewRequestsAllowed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.newRequestsAllowed && !c.closed
}

// OutstandingRequests is the number of requests submitted on this
// connection, whether or not their response has arrived yet.
func (c *ClientConnection) OutstandingRequests() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.requests)
}

// Close tears down the connection, unblocking both pumps and any
// caller waiting on a response that will now never arrive.
func (c *ClientConnection) Close() error {
	c.mu.Lock()
	already := c.closed
	c.closed = true
	c.newRequestsAllowed = false
	c.mu.Unlock()

	if already {
		return nil
	}

	c.headersCond.Broadcast()
	c.writeGate.signal()
	c.readGate.signal()
	err := c.transport.Close()
	c.sched.Stop()
	return err
}

// awaitHeadersWrittenPlain is awaitHeadersWritten's counterpart for a
// plain caller goroutine (not a fiber): Body callers have no
// fiber.Control to suspend with, so this blocks on a condition
// variable instead of a gate.
func (c *ClientConnection) awaitHeadersWrittenPlain(req *ClientRequest) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for {
		if req.headersWritten {
			return nil
		}
		if req.writeErr != nil {
			return req.writeErr
		}
		if c.closed {
			return ErrorPriorRequestFailed.Error()
		}
		c.headersCond.Wait()
	}
}

// awaitRequestAt blocks the calling pump fiber until requests[i]
// exists or the connection has terminated with no such request ever
// arriving, in which case it returns nil.
func (c *ClientConnection) awaitRequestAt(ctl fiber.Control, g *gate, i int) *ClientRequest {
	for {
		c.mu.Lock()
		if i < len(c.requests) {
			r := c.requests[i]
			c.mu.Unlock()
			return r
		}
		if c.closed || !c.newRequestsAllowed {
			c.mu.Unlock()
			return nil
		}
		c.mu.Unlock()
		g.wait(ctl)
	}
}

// writePump writes each pipelined request's headers in submission
// order, waiting for the prior request's body to finish (Closed, or
// declared absent through NoBody) before advancing, per RFC 7230's
// requirement that pipelined requests be written in order.
func (c *ClientConnection) writePump(ctl fiber.Control) {
	for i := 0; ; i++ {
		req := c.awaitRequestAt(ctl, c.writeGate, i)
		if req == nil {
			return
		}

		if err := httpcodec.Format(c.transport, req.req, nil); err != nil {
			c.failFrom(i, err)
			return
		}

		c.mu.Lock()
		req.headersWritten = true
		c.mu.Unlock()
		c.headersCond.Broadcast()
		c.readGate.signal()

		for {
			c.mu.Lock()
			done := req.bodyDone
			c.mu.Unlock()
			if done {
				break
			}
			c.writeGate.wait(ctl)
		}

		if req.bodyErr != nil {
			c.failFrom(i, req.bodyErr)
			return
		}

		if req.req.HasConnectionClose() {
			return
		}
	}
}

// failFrom marks the connection dead starting at request index i: the
// request being written gets the real error, and the connection stops
// accepting new submissions so nothing queued behind it can be
// written either.
func (c *ClientConnection) failFrom(i int, err error) {
	c.mu.Lock()
	if i < len(c.requests) {
		c.requests[i].writeErr = err
	}
	c.closed = true
	c.newRequestsAllowed = false
	c.mu.Unlock()

	c.log().Entry(liblog.ErrorLevel, "client connection failed").
		FieldAdd("request-index", i).
		FieldAdd("error", err).
		Log()

	c.headersCond.Broadcast()
	c.readGate.signal()
}

// awaitHeadersWritten blocks the read-pump until req's headers have
// gone out, or returns the reason they never will.
func (c *ClientConnection) awaitHeadersWritten(ctl fiber.Control, req *ClientRequest) error {
	for {
		c.mu.Lock()
		if req.headersWritten {
			c.mu.Unlock()
			return nil
		}
		if req.writeErr != nil {
			err := req.writeErr
			c.mu.Unlock()
			return err
		}
		if c.closed {
			c.mu.Unlock()
			return ErrorPriorRequestFailed.Error()
		}
		c.mu.Unlock()
		c.readGate.wait(ctl)
	}
}

func (c *ClientConnection) awaitBodyDrained(ctl fiber.Control, req *ClientRequest) {
	for {
		c.mu.Lock()
		done := req.bodyDrained
		c.mu.Unlock()
		if done {
			return
		}
		c.readGate.wait(ctl)
	}
}

// readPump reads each pipelined response in the same submission order
// the requests were written in, which alone is what keeps response N
// matched to request N without any separate bookkeeping of "requests
// awaiting a response": the order is the arena's order.
func (c *ClientConnection) readPump(ctl fiber.Control) {
	for i := 0; ; i++ {
		req := c.awaitRequestAt(ctl, c.readGate, i)
		if req == nil {
			return
		}

		c.mu.Lock()
		poisoned := c.voluntaryClosePending
		c.mu.Unlock()
		if poisoned {
			req.setResponseErr(ErrorConnectionVoluntarilyClosed.Error())
			continue
		}

		if err := c.awaitHeadersWritten(ctl, req); err != nil {
			req.setResponseErr(err)
			continue
		}

		resp := httpcodec.NewResponse()
		p := httpcodec.NewResponseParser(resp)
		if err := readMessageHeaders(c.transport, p); err != nil {
			req.setResponseErr(err)
			c.mu.Lock()
			c.closed = true
			c.newRequestsAllowed = false
			c.mu.Unlock()
			continue
		}

		var (
			body      stream.Stream
			mp        *multipart.Multipart
			mustClose bool
			err       error
		)
		if resp.HasBody(req.req.Method) {
			body, mp, mustClose, err = deriveBodyStream(c.transport, &resp.Headers)
			if err != nil {
				req.setResponseErr(err)
				c.mu.Lock()
				c.closed = true
				c.newRequestsAllowed = false
				c.mu.Unlock()
				continue
			}
		} else {
			body = stream.NewMemory()
		}

		body = stream.NewNotify(body, false, stream.NotifyCallbacks{
			OnEOF:   func() { req.markBodyDrained() },
			OnClose: func() { req.markBodyDrained() },
		})

		req.setResponse(&ClientResponse{Message: resp, Body: body, Multipart: mp})

		c.awaitBodyDrained(ctl, req)

		if mustClose || resp.HasConnectionClose() {
			c.mu.Lock()
			c.voluntaryClosePending = true
			c.newRequestsAllowed = false
			c.mu.Unlock()
			_ = c.transport.Close()
		}
	}
}
