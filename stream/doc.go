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

// Package stream defines a composable byte-stream contract and a catalog
// of filters layered over it: buffering, length limiting, chunked
// transfer coding, compression, TLS, hashing, encryption, rate limiting,
// timeouts, notification hooks, concatenation, tee'ing, and multiplexing.
//
// A Stream always supports Read/Write/Close/CancelRead/CancelWrite.
// Everything else — Seek, Tell, Size, Truncate, half-close, Find, Unread
// — is an optional capability exposed through a separate interface a
// concrete stream may or may not implement; callers discover support with
// a type assertion (`s.(Seeker)`). A FilterStream wraps a parent Stream
// and either forwards a capability (if it does not transform bytes) or
// must decline it (if it does): a "mutating" filter such as the chunked,
// compression, or crypto streams never supports Seek/Size/Truncate/Find/
// Unread, regardless of what its parent supports.
package stream
