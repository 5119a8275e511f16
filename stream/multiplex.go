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
	"io"

	encmux "github/sabouaram/fibernet/encoding/mux"
)

// MultiplexStream fans several logical channels out over one parent
// stream, framing each write with its channel key so a matching
// DemultiplexStream on the far end can route bytes back to the right
// destination. One MultiplexStream owns the parent; each channel
// obtained via Channel is a thin Write-only Stream sharing it.
type MultiplexStream struct {
	FilterStream

	mux encmux.Multiplexer
}

// NewMultiplex frames writes to the parent with delim-terminated,
// key-tagged records, one per Channel.
func NewMultiplex(parent Stream, owns bool, delim byte) *MultiplexStream {
	return &MultiplexStream{
		FilterStream: NewFilterStream(parent, owns),
		mux:          encmux.NewMultiplexer(parent, delim),
	}
}

// Channel returns a Stream whose Write calls are framed onto the
// shared parent under the given key. Read is unsupported: a
// multiplexed channel is a write-only fan-in half of the pair.
func (m *MultiplexStream) Channel(key rune) Stream {
	return &multiplexChannel{w: m.mux.NewChannel(key)}
}

func (m *MultiplexStream) Close() error {
	return m.CloseParent()
}

type multiplexChannel struct {
	w io.Writer
}

func (c *multiplexChannel) Read(p []byte) (int, error) {
	return 0, ErrorCapabilityUnsupported.Error()
}

func (c *multiplexChannel) Write(p []byte) (int, error) { return c.w.Write(p) }
func (c *multiplexChannel) Close() error                { return nil }
func (c *multiplexChannel) CancelRead()                 {}
func (c *multiplexChannel) CancelWrite()                {}

// DemultiplexStream reads key-tagged, delim-terminated records off a
// parent stream and routes each payload to the io.Writer registered
// for its key, undoing a MultiplexStream's framing.
type DemultiplexStream struct {
	FilterStream

	demux encmux.DeMultiplexer
}

// NewDemultiplex buffers reads from parent in bufSize chunks (0 for
// unbuffered) and expects delim-terminated, key-tagged records.
func NewDemultiplex(parent Stream, owns bool, delim byte, bufSize int) *DemultiplexStream {
	return &DemultiplexStream{
		FilterStream: NewFilterStream(parent, owns),
		demux:        encmux.NewDeMultiplexer(parent, delim, bufSize),
	}
}

// Channel registers w as the destination for payloads tagged with key.
func (d *DemultiplexStream) Channel(key rune, w io.Writer) {
	d.demux.NewChannel(key, w)
}

// Run drains the parent, routing each record to its channel, until
// EOF or the first routing error.
func (d *DemultiplexStream) Run() error {
	return d.demux.Copy()
}

func (d *DemultiplexStream) Read(p []byte) (int, error) {
	return 0, ErrorCapabilityUnsupported.Error()
}

func (d *DemultiplexStream) Write(p []byte) (int, error) {
	return 0, ErrorCapabilityUnsupported.Error()
}

func (d *DemultiplexStream) Close() error {
	return d.CloseParent()
}
