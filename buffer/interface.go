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

package buffer

// FindMode controls what Find does when no match is found within the
// sanity limit.
type FindMode uint8

const (
	// FindReturnOffset returns the negated (scanned+1) distance so the
	// caller learns how much of the read region was scanned.
	FindReturnOffset FindMode = iota
	// FindThrowIfMissing returns ErrorUnexpectedEof instead of a negative
	// offset when the pattern is not present in the whole read region.
	FindThrowIfMissing
)

// Buffer is a gather/scatter rope of segments with O(1) append and
// efficient forward search, matching the semantics described by the
// module's stream-filter layer: a read region of already-produced bytes
// and a write region of reserved-but-not-yet-produced capacity.
type Buffer interface {
	// ReadAvailable returns the number of bytes currently available to
	// read (consume/copy-out) without blocking.
	ReadAvailable() int64

	// WriteAvailable returns the number of bytes of reserved write
	// capacity not yet produced.
	WriteAvailable() int64

	// Reserve grows the write region by at least n bytes, allocating a
	// new segment if the trailing segment cannot absorb it.
	Reserve(n int64)

	// Produce moves n bytes from the write region into the read region.
	// It panics if n exceeds WriteAvailable.
	Produce(n int64) error

	// Consume drops n bytes from the head of the read region.
	// It panics if n exceeds ReadAvailable.
	Consume(n int64) error

	// CopyIn appends n bytes read from src directly into the buffer,
	// growing it as needed, and returns the number of bytes copied.
	CopyIn(src []byte, n int64) (int64, error)

	// CopyOut copies up to n bytes from the head of the read region into
	// dst without consuming them, returning the number of bytes copied.
	CopyOut(dst []byte, n int64) (int64, error)

	// Find scans the read region for a single byte, returning its offset
	// from the head of the read region. If not found within sanityLimit
	// bytes scanned, it returns ErrorBufferOverflow; if mode is
	// FindThrowIfMissing and the byte is absent from the whole read
	// region, it returns ErrorUnexpectedEof; otherwise it returns
	// -(scanned+1) and a nil error.
	Find(b byte, sanityLimit int64, mode FindMode) (int64, error)

	// FindBytes scans the read region for the given byte sequence, with
	// the same not-found conventions as Find.
	FindBytes(seq []byte, sanityLimit int64, mode FindMode) (int64, error)

	// Clear resets the buffer to empty, retaining underlying segment
	// storage for reuse.
	Clear()

	// Bytes returns a copy of the entire read region as a single slice.
	Bytes() []byte
}

// New returns an empty Buffer ready for use.
func New() Buffer {
	return &buf{}
}

// segment holds an owning storage slice and a (start, length) window into
// it, per the gather/scatter rope model: start..start+length is the
// portion of data still addressable, length-read..length is unreserved
// write capacity.
type segment struct {
	data  []byte
	start int  // offset of first unconsumed read byte
	read  int  // offset one past the last produced (readable) byte
	cap   int  // offset one past the last reserved (writable) byte
}

func (s *segment) readLen() int  { return s.read - s.start }
func (s *segment) writeLen() int { return s.cap - s.read }

const minSegmentSize = 4096

type buf struct {
	segs []*segment
}

func (b *buf) ReadAvailable() int64 {
	var n int64
	for _, s := range b.segs {
		n += int64(s.readLen())
	}
	return n
}

func (b *buf) WriteAvailable() int64 {
	var n int64
	for _, s := range b.segs {
		n += int64(s.writeLen())
	}
	return n
}

func (b *buf) Reserve(n int64) {
	if n <= 0 {
		return
	}

	if avail := b.WriteAvailable(); avail >= n {
		return
	} else {
		n -= avail
	}

	size := int64(minSegmentSize)
	if n > size {
		size = n
	}

	b.segs = append(b.segs, &segment{
		data: make([]byte, size),
		cap:  int(size),
	})
}

func (b *buf) Produce(n int64) error {
	if n < 0 {
		return ErrorInvalidOffset.Error()
	}

	remaining := n
	for _, s := range b.segs {
		if remaining <= 0 {
			break
		}
		avail := int64(s.writeLen())
		if avail == 0 {
			continue
		}
		take := avail
		if take > remaining {
			take = remaining
		}
		s.read += int(take)
		remaining -= take
	}

	if remaining > 0 {
		return ErrorInvalidOffset.Error()
	}

	return nil
}

func (b *buf) Consume(n int64) error {
	if n < 0 {
		return ErrorInvalidOffset.Error()
	}

	remaining := n
	for len(b.segs) > 0 && remaining > 0 {
		s := b.segs[0]
		avail := int64(s.readLen())
		if avail == 0 {
			b.segs = b.segs[1:]
			continue
		}
		take := avail
		if take > remaining {
			take = remaining
		}
		s.start += int(take)
		remaining -= take

		if s.start >= s.cap {
			b.segs = b.segs[1:]
		}
	}

	if remaining > 0 {
		return ErrorInvalidOffset.Error()
	}

	return nil
}

func (b *buf) CopyIn(src []byte, n int64) (int64, error) {
	if n > int64(len(src)) {
		n = int64(len(src))
	}
	if n <= 0 {
		return 0, nil
	}

	b.Reserve(n)

	remaining := n
	off := int64(0)
	for _, s := range b.segs {
		if remaining <= 0 {
			break
		}
		room := int64(s.writeLen())
		if room == 0 {
			continue
		}
		take := room
		if take > remaining {
			take = remaining
		}
		copy(s.data[s.read:s.read+int(take)], src[off:off+take])
		s.read += int(take)
		off += take
		remaining -= take
	}

	return n - remaining, nil
}

func (b *buf) CopyOut(dst []byte, n int64) (int64, error) {
	if n > int64(len(dst)) {
		n = int64(len(dst))
	}
	if n <= 0 {
		return 0, nil
	}

	var off int64
	for _, s := range b.segs {
		if off >= n {
			break
		}
		avail := int64(s.readLen())
		if avail == 0 {
			continue
		}
		take := avail
		if take > n-off {
			take = n - off
		}
		copy(dst[off:off+take], s.data[s.start:s.start+int(take)])
		off += take
	}

	return off, nil
}

func (b *buf) Find(needle byte, sanityLimit int64, mode FindMode) (int64, error) {
	return b.FindBytes([]byte{needle}, sanityLimit, mode)
}

func (b *buf) FindBytes(seq []byte, sanityLimit int64, mode FindMode) (int64, error) {
	if len(seq) == 0 {
		return 0, ErrorParamsEmpty.Error()
	}

	flat := b.Bytes()

	idx := indexOf(flat, seq)
	if idx >= 0 {
		return int64(idx), nil
	}

	scanned := int64(len(flat))

	if sanityLimit > 0 && scanned > sanityLimit {
		return 0, ErrorBufferOverflow.Error()
	}

	if mode == FindThrowIfMissing {
		return 0, ErrorUnexpectedEof.Error()
	}

	return -(scanned + 1), nil
}

func indexOf(haystack, needle []byte) int {
	if len(needle) == 0 || len(haystack) < len(needle) {
		return -1
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

func (b *buf) Clear() {
	b.segs = b.segs[:0]
}

func (b *buf) Bytes() []byte {
	out := make([]byte, 0, b.ReadAvailable())
	for _, s := range b.segs {
		out = append(out, s.data[s.start:s.read]...)
	}
	return out
}
