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
	"fmt"
	"io"
	"sync"

	"github/sabouaram/fibernet/duration"
	"github/sabouaram/fibernet/fiber"
	"github/sabouaram/fibernet/httpcodec"
	liblog "github/sabouaram/fibernet/logger"
	"github/sabouaram/fibernet/stream"
	"github/sabouaram/fibernet/stream/multipart"
)

// serverWorkers mirrors clientWorkers: the request-pump and the
// response-pump are both long-lived fibers that can each be blocked in
// real I/O at the same time (a handler still draining a request's body
// while the response-pump is mid-write on a previous response).
const serverWorkers = 2

// Handler dispatches one parsed request, running in its own goroutine
// so a slow handler never blocks the request-pump from reading the
// next pipelined request's headers once this request's body has been
// drained. A Handler that returns without committing a response (via
// RespondError or RespondStream) gets a default 500 committed for it
// by finish.
type Handler func(req *ServerRequest)

// ServerRequest is one request read off a ServerConnection, live for
// the duration of its Handler's dispatch goroutine.
type ServerRequest struct {
	conn  *ServerConnection
	index int

	Message   *httpcodec.Request
	Body      stream.Stream
	Multipart *multipart.Multipart

	bodyDrained bool

	committed      bool
	respMessage    *httpcodec.Response
	headersWritten bool
	bodyRequested  bool
	bodyDone       bool
	bodyErr        error
}

func (r *ServerRequest) markBodyDrained() {
	r.conn.mu.Lock()
	if r.bodyDrained {
		r.conn.mu.Unlock()
		return
	}
	r.bodyDrained = true
	r.conn.mu.Unlock()
	r.conn.requestGate.signal()
}

// commit records resp as this request's response and wakes the
// response-pump, which will write resp's headers once it is this
// request's turn. Only the first commit call for a request counts.
func (r *ServerRequest) commit(resp *httpcodec.Response) error {
	r.conn.mu.Lock()
	if r.committed {
		r.conn.mu.Unlock()
		return ErrorAlreadyCommitted.Error()
	}
	if resp.Version.Major == 0 {
		resp.Version = r.Message.EffectiveVersion()
	}
	if resp.Reason == "" {
		resp.Reason = statusReason(resp.Status)
	}
	r.committed = true
	r.respMessage = resp
	r.conn.mu.Unlock()
	r.conn.responseGate.signal()
	return nil
}

// bodyWriter blocks the calling (plain) goroutine until this request's
// response headers have actually gone out — for the same reason
// ClientRequest.Body waits on its connection's headersCond — then
// returns the stream the caller writes the response entity into.
func (r *ServerRequest) bodyWriter() stream.Stream {
	r.conn.mu.Lock()
	if r.bodyRequested {
		r.conn.mu.Unlock()
		return nil
	}
	r.bodyRequested = true
	r.conn.mu.Unlock()

	if err := r.conn.awaitHeadersWrittenPlain(r); err != nil {
		r.markBodyWriteDone(err)
		return nil
	}

	w := deriveBodyWriter(r.conn.transport, &r.respMessage.Headers)
	return stream.NewNotify(w, false, stream.NotifyCallbacks{
		OnClose: func() { r.markBodyWriteDone(nil) },
	})
}

func (r *ServerRequest) markBodyWriteDone(err error) {
	r.conn.mu.Lock()
	if r.bodyDone {
		r.conn.mu.Unlock()
		return
	}
	r.bodyDone = true
	r.bodyErr = err
	r.conn.mu.Unlock()
	r.conn.responseGate.signal()
}

// RespondError commits a status-only response carrying message as a
// text/plain body. Valid only before any other commit call for this
// request — a handler that has already started RespondStream cannot
// also call RespondError.
func (r *ServerRequest) RespondError(status int, message string, close bool) error {
	resp := httpcodec.NewResponse()
	resp.Status = status
	resp.ContentType = httpcodec.ContentType{Type: "text", SubType: "plain", Params: map[string]string{}}
	resp.ContentLength = int64(len(message))
	if close {
		resp.Connection = httpcodec.NewTokenSet("close")
	}

	if err := r.commit(resp); err != nil {
		return err
	}

	w := r.bodyWriter()
	if w == nil {
		return ErrorConnectionClosed.Error()
	}
	if len(message) > 0 {
		if _, err := w.Write([]byte(message)); err != nil {
			return err
		}
	}
	return w.Close()
}

// Respond commits resp (caller-built status and headers) and returns
// the stream to write its entity body into, for callers that need more
// control than RespondError or RespondStream offer. The caller must
// set resp.ContentLength (or a chunked Transfer-Encoding) themselves;
// Respond does not derive framing from a source stream the way
// RespondStream does.
func (r *ServerRequest) Respond(resp *httpcodec.Response) (stream.Stream, error) {
	if err := r.commit(resp); err != nil {
		return nil, err
	}
	w := r.bodyWriter()
	if w == nil {
		return nil, ErrorConnectionClosed.Error()
	}
	return w, nil
}

// RespondStream serves body as the entity, honoring a Range request
// when body supports stream.Sizer and stream.Seeker: a single
// satisfiable range becomes a 206 with Content-Range, more than one
// becomes a 206 multipart/byteranges entity, and an absent,
// unsatisfiable, or inferior (covering the whole entity) Range falls
// back to a full 200 response. contentType is applied to the full
// entity (200) or to each part (multipart/byteranges); it is ignored
// for a single-range 206, which instead sets Content-Range directly on
// the response's headers since the body is a plain byte slice of the
// source.
func (r *ServerRequest) RespondStream(body stream.Stream, contentType string) error {
	sizer, hasSize := body.(stream.Sizer)
	seeker, hasSeek := body.(stream.Seeker)

	if hasSize && hasSeek {
		size, err := sizer.Size()
		if err == nil && size >= 0 {
			if rv, ok := rawHeader(&r.Message.Headers, "Range"); ok {
				if ranges, ok := parseRangeHeader(rv, size); ok {
					return r.respondRanges(body, seeker, size, ranges, contentType)
				}
			}
			return r.respondFull(body, size, contentType)
		}
	}

	return r.respondUnsized(body, contentType)
}

func (r *ServerRequest) respondFull(body stream.Stream, size int64, contentType string) error {
	resp := httpcodec.NewResponse()
	resp.Status = 200
	resp.ContentLength = size
	if contentType != "" {
		resp.ContentType = parseSimpleContentType(contentType)
	}

	w, err := r.Respond(resp)
	if err != nil {
		return err
	}
	if _, err = io.Copy(w, body); err != nil {
		return err
	}
	return w.Close()
}

func (r *ServerRequest) respondUnsized(body stream.Stream, contentType string) error {
	resp := httpcodec.NewResponse()
	resp.Status = 200
	if contentType != "" {
		resp.ContentType = parseSimpleContentType(contentType)
	}

	chunked, mustClose := chooseBodyFraming(r.Message)
	if chunked {
		resp.TransferEncoding = httpcodec.ParamList{{Name: "chunked"}}
	} else if mustClose {
		resp.Connection = httpcodec.NewTokenSet("close")
	}

	w, err := r.Respond(resp)
	if err != nil {
		return err
	}
	if _, err = io.Copy(w, body); err != nil {
		return err
	}
	return w.Close()
}

func (r *ServerRequest) respondRanges(body stream.Stream, seeker stream.Seeker, size int64, ranges []byteRange, contentType string) error {
	if len(ranges) == 1 {
		rng := ranges[0]
		resp := httpcodec.NewResponse()
		resp.Status = 206
		resp.ContentLength = rng.last - rng.first + 1
		if contentType != "" {
			resp.ContentType = parseSimpleContentType(contentType)
		}
		resp.SetRaw("Content-Range", formatContentRange(rng, size))

		w, err := r.Respond(resp)
		if err != nil {
			return err
		}
		if _, err = seeker.Seek(rng.first, io.SeekStart); err != nil {
			return err
		}
		if _, err = io.CopyN(w, body, resp.ContentLength); err != nil {
			return err
		}
		return w.Close()
	}

	boundary, err := newMultipartBoundary()
	if err != nil {
		return err
	}

	resp := httpcodec.NewResponse()
	resp.Status = 206
	resp.ContentType = httpcodec.ContentType{Type: "multipart", SubType: "byteranges", Params: map[string]string{"boundary": boundary}}
	resp.TransferEncoding = httpcodec.ParamList{{Name: "chunked"}}

	w, err := r.Respond(resp)
	if err != nil {
		return err
	}

	mp, err := multipart.New(w, boundary, true)
	if err != nil {
		return err
	}

	for _, rng := range ranges {
		part, perr := mp.NextPart()
		if perr != nil {
			return perr
		}
		if contentType != "" {
			part.Headers().ContentType = parseSimpleContentType(contentType)
		}
		part.Headers().SetRaw("Content-Range", formatContentRange(rng, size))

		ps, perr := part.Stream()
		if perr != nil {
			return perr
		}
		if _, perr = seeker.Seek(rng.first, io.SeekStart); perr != nil {
			return perr
		}
		if _, perr = io.CopyN(ps, body, rng.last-rng.first+1); perr != nil {
			return perr
		}
		if perr = ps.Close(); perr != nil {
			return perr
		}
	}

	if err = mp.Finish(); err != nil {
		return err
	}
	return w.Close()
}

// finish runs after Handler returns: it drains any request body bytes
// the handler left unread (so the request-pump can advance even if the
// handler ignored the body entirely) and commits a default response if
// the handler never called RespondError/Respond/RespondStream.
func (r *ServerRequest) finish() {
	if r.Body != nil {
		_, _ = io.Copy(io.Discard, r.Body)
		_ = r.Body.Close()
	}

	r.conn.mu.Lock()
	committed := r.committed
	r.conn.mu.Unlock()
	if !committed {
		_ = r.RespondError(500, "handler did not commit a response", false)
	}
}

// ServerConnection dispatches pipelined requests read off a single
// transport to a Handler, writing their responses back in the order
// the requests arrived. Build one per accepted connection and call
// ProcessRequests; it returns once the peer closes the connection, a
// transport error occurs, or Close is called.
type ServerConnection struct {
	transport *stream.BufferedStream
	sched     fiber.Scheduler
	handler   Handler

	requestGate  *gate
	responseGate *gate

	mu          sync.Mutex
	headersCond *sync.Cond
	requests    []*ServerRequest
	closed      bool
	noMoreReqs  bool

	ReadTimeout  duration.Duration
	WriteTimeout duration.Duration
	IdleTimeout  duration.Duration

	log liblog.FuncLog
}

// NewServerConnection wraps transport (already accepted, and already
// TLS-negotiated for an https listener) in a pipelining server.
// handler is invoked once per request, each in its own goroutine. log
// is an optional structured-logging hook used to report handler
// panics that would otherwise crash the dispatch goroutine; when
// omitted or nil, a discard logger is used.
func NewServerConnection(transport stream.Stream, handler Handler, log ...liblog.FuncLog) *ServerConnection {
	var l liblog.FuncLog
	if len(log) > 0 {
		l = log[0]
	}
	c := &ServerConnection{
		transport: stream.NewBuffered(transport, true),
		sched:     fiber.New(l),
		handler:   handler,
		log:       liblog.OrDiscard(l),
	}
	c.headersCond = sync.NewCond(&c.mu)
	c.requestGate = newGate(c.sched)
	c.responseGate = newGate(c.sched)
	return c
}

// runRespondError sends a synthetic error response for a request that
// never reached handler (failed validation or body derivation),
// recovering and logging any panic the same way runHandler does.
func (c *ServerConnection) runRespondError(sr *ServerRequest, status int, msg string) {
	defer func() {
		if r := recover(); r != nil {
			c.log().Entry(liblog.ErrorLevel, "error response panicked").
				FieldAdd("path", sr.Message.URI).
				FieldAdd("recover", fmt.Sprintf("%v", r)).
				Log()
		}
	}()
	_ = sr.RespondError(status, msg, true)
}

// runHandler dispatches sr.conn's Handler, recovering and logging any
// panic so one failing handler cannot take down the whole process.
func (c *ServerConnection) runHandler(sr *ServerRequest) {
	defer func() {
		if r := recover(); r != nil {
			c.log().Entry(liblog.ErrorLevel, "request handler panicked").
				FieldAdd("path", sr.Message.URI).
				FieldAdd("recover", fmt.Sprintf("%v", r)).
				Log()
		}
		sr.finish()
	}()
	c.handler(sr)
}

// ProcessRequests spawns the request-pump and response-pump fibers and
// blocks until both have finished. Call it once per connection, from
// whatever goroutine accepted it; it does not return early just
// because requests are still being handled — it waits for the
// connection itself to end.
func (c *ServerConnection) ProcessRequests() {
	rh, _ := c.sched.Spawn(c.requestPump)
	c.requestGate.bind(rh)

	wh, _ := c.sched.Spawn(c.responsePump)
	c.responseGate.bind(wh)

	var wg sync.WaitGroup
	wg.Add(serverWorkers)
	for i := 0; i < serverWorkers; i++ {
		go func() {
			defer wg.Done()
			c.sched.Run()
		}()
	}
	wg.Wait()
}

// Close tears down the connection, unblocking both pumps and any
// handler goroutine waiting for its turn to write.
func (c *ServerConnection) Close() error {
	c.mu.Lock()
	already := c.closed
	c.closed = true
	c.mu.Unlock()

	if already {
		return nil
	}

	c.headersCond.Broadcast()
	c.requestGate.signal()
	c.responseGate.signal()
	err := c.transport.Close()
	c.sched.Stop()
	return err
}

func (c *ServerConnection) awaitHeadersWrittenPlain(req *ServerRequest) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for {
		if req.headersWritten {
			return nil
		}
		if c.closed {
			return ErrorConnectionClosed.Error()
		}
		c.headersCond.Wait()
	}
}

// awaitRequestAt blocks the calling pump fiber until requests[i]
// exists, or returns nil once it's certain no such request will ever
// arrive.
func (c *ServerConnection) awaitRequestAt(ctl fiber.Control, g *gate, i int) *ServerRequest {
	for {
		c.mu.Lock()
		if i < len(c.requests) {
			r := c.requests[i]
			c.mu.Unlock()
			return r
		}
		if c.closed || c.noMoreReqs {
			c.mu.Unlock()
			return nil
		}
		c.mu.Unlock()
		g.wait(ctl)
	}
}

// requestPump reads one pipelined request's headers at a time,
// validates it, derives its body, and dispatches it to handler in its
// own goroutine, then waits for that request's body to be drained
// before reading the next request's headers off the same transport.
func (c *ServerConnection) requestPump(ctl fiber.Control) {
	for i := 0; ; i++ {
		req := httpcodec.NewRequest()
		p := httpcodec.NewRequestParser(req)
		if err := readMessageHeaders(c.transport, p); err != nil {
			c.mu.Lock()
			c.noMoreReqs = true
			c.mu.Unlock()
			c.responseGate.signal()
			return
		}

		sr := &ServerRequest{conn: c, index: i, Message: req}

		if status, msg, ok := validateRequest(req); !ok {
			sr.Body = stream.NewMemory()
			c.mu.Lock()
			c.requests = append(c.requests, sr)
			c.noMoreReqs = true
			c.mu.Unlock()
			c.responseGate.signal()
			go c.runRespondError(sr, status, msg)
			return
		}

		if expectsContinue(req) {
			_, _ = c.transport.Write([]byte("HTTP/1.1 100 Continue\r\n\r\n"))
		}

		var (
			body      stream.Stream
			mp        *multipart.Multipart
			mustClose bool
			err       error
			hasBody   = bodyAllowed(req)
		)
		if hasBody {
			body, mp, mustClose, err = deriveBodyStream(c.transport, &req.Headers)
			if err != nil {
				sr.Body = stream.NewMemory()
				c.mu.Lock()
				c.requests = append(c.requests, sr)
				c.noMoreReqs = true
				c.mu.Unlock()
				c.responseGate.signal()
				go c.runRespondError(sr, 400, err.Error())
				return
			}
		} else {
			body = stream.NewMemory()
		}

		body = stream.NewNotify(body, false, stream.NotifyCallbacks{
			OnEOF:   func() { sr.markBodyDrained() },
			OnClose: func() { sr.markBodyDrained() },
		})
		sr.Body = body
		sr.Multipart = mp

		c.mu.Lock()
		c.requests = append(c.requests, sr)
		last := req.HasConnectionClose()
		if last {
			c.noMoreReqs = true
		}
		c.mu.Unlock()

		c.responseGate.signal()
		go c.runHandler(sr)

		// A request with no body has nothing to wait for: "completes on
		// the request side" happens the instant headers are parsed, so
		// the next pipelined request's headers can be read immediately,
		// concurrently with this request's handler still running. A
		// request with a body genuinely blocks here until its bytes are
		// off the wire — through the handler reading them, or through
		// finish's drain once the handler returns — since the next
		// request's start line cannot be located on the transport until
		// then.
		if !hasBody {
			sr.markBodyDrained()
		} else {
			c.awaitBodyDrained(ctl, sr)
		}

		if mustClose || last {
			return
		}
	}
}

func (c *ServerConnection) awaitBodyDrained(ctl fiber.Control, req *ServerRequest) {
	for {
		c.mu.Lock()
		done := req.bodyDrained
		c.mu.Unlock()
		if done {
			return
		}
		c.requestGate.wait(ctl)
	}
}

// responsePump writes each request's response in the same order the
// requests arrived, waiting for a later request's handler to commit
// before writing its headers, and waiting for that response's body to
// finish before advancing to the next.
func (c *ServerConnection) responsePump(ctl fiber.Control) {
	for i := 0; ; i++ {
		req := c.awaitRequestAt(ctl, c.responseGate, i)
		if req == nil {
			return
		}

		c.awaitCommitted(ctl, req)

		c.mu.Lock()
		closed := c.closed
		c.mu.Unlock()
		if closed {
			return
		}

		if err := httpcodec.Format(c.transport, nil, req.respMessage); err != nil {
			c.mu.Lock()
			c.closed = true
			c.mu.Unlock()
			return
		}

		c.mu.Lock()
		req.headersWritten = true
		c.mu.Unlock()
		c.headersCond.Broadcast()

		c.awaitBodyWriteDone(ctl, req)

		if req.respMessage.HasConnectionClose() {
			return
		}
	}
}

func (c *ServerConnection) awaitCommitted(ctl fiber.Control, req *ServerRequest) {
	for {
		c.mu.Lock()
		committed := req.committed
		closed := c.closed
		c.mu.Unlock()
		if committed || closed {
			return
		}
		c.responseGate.wait(ctl)
	}
}

func (c *ServerConnection) awaitBodyWriteDone(ctl fiber.Control, req *ServerRequest) {
	for {
		c.mu.Lock()
		done := req.bodyDone
		closed := c.closed
		c.mu.Unlock()
		if done || closed {
			return
		}
		c.responseGate.wait(ctl)
	}
}
