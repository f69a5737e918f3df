/*
 * Copyright 2025 SREDiag Authors
 * Copyright 2023 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package channel

import (
	"runtime"
	"sync/atomic"

	"github.com/google/uuid"
)

// Handle is one owner of a bounded FIFO channel. Handles are cheap: Clone
// returns another owner of the same channel, which may be passed to another
// goroutine. The channel is closed and its buffer freed when the last
// Handle is released, either explicitly with Release or by the garbage
// collector once the Handle is unreachable.
//
// Values stored in the channel are owned by it until they are received or
// discarded by Close. A sender must not keep using a value it sent unless
// the value is safe to share between goroutines.
type Handle[T any] struct {
	r        *ring[T]
	released atomic.Bool
	cleanup  runtime.Cleanup
}

// New creates a channel with the given number of slots and returns its
// first Handle. One slot is reserved, so capacity-1 values can be buffered.
func New[T any](capacity int, opts ...Option) (*Handle[T], error) {
	config := DefaultConfig()
	config.Capacity = capacity
	for _, opt := range opts {
		opt(config)
	}
	return NewWithConfig[T](config)
}

// NewWithConfig creates a channel from config.
func NewWithConfig[T any](config *Config) (*Handle[T], error) {
	if err := VerifyConfig(config); err != nil {
		return nil, err
	}
	r := newRing[T](config)
	internalLogger.Debugf("channel %s (%s) created, capacity %d", r.name, r.id, r.capacity)
	return newHandle(r), nil
}

func newHandle[T any](r *ring[T]) *Handle[T] {
	h := &Handle[T]{r: r}
	h.cleanup = runtime.AddCleanup(h, releaseLeaked[T], r)
	return h
}

// releaseLeaked runs on the cleanup goroutine for a Handle that was never
// released.
func releaseLeaked[T any](r *ring[T]) {
	defer func() {
		if p := recover(); p != nil {
			internalLogger.Errorf("channel %s (%s) leaked handle release panicked: %v", r.name, r.id, p)
		}
	}()
	internalLogger.Debugf("channel %s (%s) handle collected without Release", r.name, r.id)
	r.drop()
}

// Clone returns a new Handle sharing the channel. It returns nil when h was
// already released or the channel has no owner left.
func (h *Handle[T]) Clone() *Handle[T] {
	for {
		n := h.r.refs.Load()
		if n <= 0 || h.released.Load() {
			internalLogger.Warnf("clone of released handle on channel %s", h.r.name)
			return nil
		}
		// never resurrect a ring whose last owner is gone
		if h.r.refs.CompareAndSwap(n, n+1) {
			return newHandle(h.r)
		}
	}
}

// Release gives up h's ownership. Further calls on h return ErrReleased.
// Releasing twice is a no-op.
func (h *Handle[T]) Release() {
	if !h.released.CompareAndSwap(false, true) {
		return
	}
	h.cleanup.Stop()
	h.r.drop()
}

// Send blocks until v is stored or the channel is closed. It returns once v
// is buffered, not once it is received.
func (h *Handle[T]) Send(v T) error {
	if h.released.Load() {
		return ErrReleased
	}
	err := h.r.send(v)
	runtime.KeepAlive(h)
	return err
}

// TrySend stores v without waiting, or returns ErrFull.
func (h *Handle[T]) TrySend(v T) error {
	if h.released.Load() {
		return ErrReleased
	}
	err := h.r.trySend(v)
	runtime.KeepAlive(h)
	return err
}

// Receive blocks until a value is available or the channel is closed.
func (h *Handle[T]) Receive() (T, error) {
	if h.released.Load() {
		var zero T
		return zero, ErrReleased
	}
	v, err := h.r.receive()
	runtime.KeepAlive(h)
	return v, err
}

// TryReceive returns the oldest value without waiting, or ErrNoneAvailable.
// On a closed channel it returns ErrClosed.
func (h *Handle[T]) TryReceive() (T, error) {
	if h.released.Load() {
		var zero T
		return zero, ErrReleased
	}
	v, err := h.r.tryReceive()
	runtime.KeepAlive(h)
	return v, err
}

// Close closes the channel for every Handle: buffered values are dropped
// and blocked senders and receivers wake with ErrClosed. Closing a closed
// channel returns nil.
func (h *Handle[T]) Close() error {
	if h.released.Load() {
		return ErrReleased
	}
	err := h.r.close()
	runtime.KeepAlive(h)
	return err
}

// Cap returns how many values can be buffered at once.
func (h *Handle[T]) Cap() int {
	return h.r.capacity - 1
}

// Size returns the number of slots the channel was created with.
func (h *Handle[T]) Size() int {
	return h.r.capacity
}

// Len returns the number of values buffered right now.
func (h *Handle[T]) Len() int {
	h.r.mu.Lock()
	defer h.r.mu.Unlock()
	return h.r.length()
}

// Closed reports whether the channel was closed.
func (h *Handle[T]) Closed() bool {
	h.r.mu.Lock()
	defer h.r.mu.Unlock()
	return !h.r.open
}

// Poisoned reports whether the channel state was left inconsistent.
func (h *Handle[T]) Poisoned() bool {
	h.r.mu.Lock()
	defer h.r.mu.Unlock()
	return h.r.poisoned
}

// Refs returns the number of live Handles of the channel.
func (h *Handle[T]) Refs() int64 {
	return h.r.refs.Load()
}

func (h *Handle[T]) ID() uuid.UUID {
	return h.r.id
}

func (h *Handle[T]) Name() string {
	return h.r.name
}

// State returns a snapshot of the channel for diagnostics.
func (h *Handle[T]) State() Snapshot {
	return h.r.snapshot()
}
