/*
 * MIT License
 *
 * Copyright (c) 2019 Nicolas JUHEL
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

// Package context layers a generic, atomic key/value store on top of a
// standard context.Context, so callers can carry typed component state
// (a logger, a pool config, a connection registry) through a cancellation
// tree without resorting to context.WithValue's untyped key collisions.
package context

import (
	"context"

	libatm "github/sabouaram/fibernet/atomic"
)

// FuncContext lazily resolves the parent context.Context a Config should
// wrap. Used by component constructors that outlive the call that wires
// them, so the parent can still be swapped before first use.
type FuncContext func() context.Context

// FuncWalk is called once per stored key/value pair by Walk/WalkLimit.
// Returning false stops the iteration early.
type FuncWalk[T comparable] func(key T, val interface{}) bool

// MapManage exposes the atomic map operations a Config is backed by.
type MapManage[T comparable] interface {
	// Clean removes every key/value pair from the map.
	Clean()
	// Load returns the value stored under key, if any.
	Load(key T) (val interface{}, ok bool)
	// Store associates value with key, overwriting any prior value.
	// A nil value removes the key instead.
	Store(key T, cfg interface{})
	// Delete removes key from the map.
	Delete(key T)
}

// Context exposes the wrapped context.Context.
type Context interface {
	// GetContext returns the underlying context.Context, or
	// context.Background() if none was set.
	GetContext() context.Context
}

// Config is a context.Context carrying an atomic, typed-key component
// registry alongside the usual cancellation/deadline/value plumbing.
type Config[T comparable] interface {
	context.Context
	MapManage[T]
	Context

	// Clone returns an independent copy backed by a new map, optionally
	// rooted at a different parent context. A nil ctx reuses the current
	// one.
	Clone(ctx context.Context) Config[T]
	// Merge copies every entry of cfg into the receiver's map.
	Merge(cfg Config[T]) bool
	// Walk iterates every stored key/value pair.
	Walk(fct FuncWalk[T])
	// WalkLimit iterates only the pairs whose key is in validKeys; an
	// empty validKeys walks everything.
	WalkLimit(fct FuncWalk[T], validKeys ...T)

	// LoadOrStore loads the existing value for key, or stores cfg and
	// reports loaded=false if none existed yet.
	LoadOrStore(key T, cfg interface{}) (val interface{}, loaded bool)
	// LoadAndDelete loads the value for key, removing it atomically.
	LoadAndDelete(key T) (val interface{}, loaded bool)
}

// New returns a Config rooted at ctx (or context.Background() if ctx is
// nil) with an empty component map.
func New[T comparable](ctx context.Context) Config[T] {
	if ctx == nil {
		ctx = context.Background()
	}

	return &ccx[T]{
		m: libatm.NewMapAny[T](),
		x: ctx,
	}
}
