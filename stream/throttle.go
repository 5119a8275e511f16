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
	"sync/atomic"
	"time"
)

// ThrottleStream caps the long-run average throughput of reads and
// writes to a configured bytes-per-second rate. A zero rate disables
// throttling for that direction.
type ThrottleStream struct {
	FilterStream

	readBps  int64
	writeBps int64

	lastRead  atomic.Value
	lastWrite atomic.Value
}

// NewThrottle wraps parent, limiting reads to readBps and writes to
// writeBps bytes per second. Either may be zero to leave that direction
// unthrottled.
func NewThrottle(parent Stream, owns bool, readBps, writeBps int64) *ThrottleStream {
	return &ThrottleStream{
		FilterStream: NewFilterStream(parent, owns),
		readBps:      readBps,
		writeBps:     writeBps,
	}
}

func pace(slot *atomic.Value, bps int64, n int) {
	if bps <= 0 || n <= 0 {
		return
	}

	now := time.Now()
	if prevAny := slot.Load(); prevAny != nil {
		prev := prevAny.(time.Time)
		if elapsed := now.Sub(prev); elapsed > 0 {
			rate := float64(n) / elapsed.Seconds()
			if rate > float64(bps) {
				wait := time.Duration((rate / float64(bps)) * float64(elapsed))
				if wait > time.Second {
					wait = time.Second
				}
				time.Sleep(wait)
			}
		}
	}
	slot.Store(time.Now())
}

func (t *ThrottleStream) Read(p []byte) (int, error) {
	n, err := t.Parent().Read(p)
	pace(&t.lastRead, t.readBps, n)
	return n, err
}

func (t *ThrottleStream) Write(p []byte) (int, error) {
	n, err := t.Parent().Write(p)
	pace(&t.lastWrite, t.writeBps, n)
	return n, err
}

func (t *ThrottleStream) Close() error {
	return t.CloseParent()
}
