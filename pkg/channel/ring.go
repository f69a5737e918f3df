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
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

type slot[T any] struct {
	val  T
	full bool
}

// ring is the state shared by every Handle of one channel.
//
// The ring is empty when read == write and full when advancing write would
// reach read, so one slot always stays unused. Slots in [read, write),
// cyclically, hold a value and every other slot is empty.
//
// buf, read, write, open and poisoned are only touched with mu held.
type ring[T any] struct {
	mu       sync.Mutex
	notFull  sync.Cond
	notEmpty sync.Cond

	buf      []slot[T]
	capacity int
	read     int
	write    int
	open     bool
	poisoned bool

	refs atomic.Int64

	id        uuid.UUID
	name      string
	observer  Observer
	onDiscard func(v any)
}

func newRing[T any](config *Config) *ring[T] {
	r := &ring[T]{
		buf:       make([]slot[T], config.Capacity),
		capacity:  config.Capacity,
		open:      true,
		id:        uuid.New(),
		name:      config.Name,
		observer:  config.Observer,
		onDiscard: config.OnDiscard,
	}
	if r.name == "" {
		r.name = "ringchan-" + r.id.String()[:8]
	}
	r.notFull.L = &r.mu
	r.notEmpty.L = &r.mu
	r.refs.Store(1)
	return r
}

// lock acquires mu. It fails with ErrPoisoned, leaving mu unlocked, when a
// previous holder left the state inconsistent.
func (r *ring[T]) lock() error {
	r.mu.Lock()
	if r.poisoned {
		r.mu.Unlock()
		return ErrPoisoned
	}
	return nil
}

// unlock must be deferred right after a successful lock. A panic unwinding
// through the critical section poisons the ring before it propagates.
func (r *ring[T]) unlock() {
	if p := recover(); p != nil {
		r.poison(fmt.Sprintf("panic while locked: %v", p))
		r.mu.Unlock()
		panic(p)
	}
	r.mu.Unlock()
}

// poison is called with mu held.
func (r *ring[T]) poison(reason string) {
	if r.poisoned {
		return
	}
	r.poisoned = true
	internalLogger.Errorf("channel %s (%s) poisoned: %s", r.name, r.id, reason)
	r.notFull.Broadcast()
	r.notEmpty.Broadcast()
}

func (r *ring[T]) advance(i int) int {
	i++
	if i == r.capacity {
		i = 0
	}
	return i
}

func (r *ring[T]) isEmpty() bool {
	return r.read == r.write
}

func (r *ring[T]) isFull() bool {
	return r.advance(r.write) == r.read
}

func (r *ring[T]) length() int {
	if r.write >= r.read {
		return r.write - r.read
	}
	return r.capacity - r.read + r.write
}

// put stores v at the write cursor. With block set it parks on notFull
// while the ring is full and open.
func (r *ring[T]) put(v T, block bool) (ev Event) {
	if ev.Err = r.lock(); ev.Err != nil {
		return ev
	}
	defer r.unlock()

	if block && r.isFull() && r.open {
		start := time.Now()
		for r.isFull() && r.open && !r.poisoned {
			r.notFull.Wait()
		}
		ev.Waited = time.Since(start)
		if r.poisoned {
			ev.Err = ErrPoisoned
			return ev
		}
	}

	switch {
	case !r.open:
		ev.Err = ErrClosed
	case r.isFull():
		ev.Err = ErrFull
	default:
		s := &r.buf[r.write]
		if s.full {
			r.poison(fmt.Sprintf("slot %d outside the live range holds a value", r.write))
			ev.Err = ErrPoisoned
			return ev
		}
		s.val, s.full = v, true
		r.write = r.advance(r.write)
		r.notEmpty.Signal()
	}
	ev.Len = r.length()
	return ev
}

// take moves the value at the read cursor out of the ring. With block set
// it parks on notEmpty while the ring is empty and open.
func (r *ring[T]) take(block bool) (v T, ev Event) {
	if ev.Err = r.lock(); ev.Err != nil {
		return v, ev
	}
	defer r.unlock()

	if block && r.isEmpty() && r.open {
		start := time.Now()
		for r.isEmpty() && r.open && !r.poisoned {
			r.notEmpty.Wait()
		}
		ev.Waited = time.Since(start)
		if r.poisoned {
			ev.Err = ErrPoisoned
			return v, ev
		}
	}

	switch {
	case !r.open:
		ev.Err = ErrClosed
	case r.isEmpty():
		ev.Err = ErrNoneAvailable
	default:
		s := &r.buf[r.read]
		if !s.full {
			r.poison(fmt.Sprintf("slot %d inside the live range is empty", r.read))
			ev.Err = ErrPoisoned
			return v, ev
		}
		var zero T
		v, s.val, s.full = s.val, zero, false
		r.read = r.advance(r.read)
		r.notFull.Signal()
	}
	ev.Len = r.length()
	return v, ev
}

// shut marks the ring closed, drops every buffered value and wakes all
// waiters. Closing a closed ring is a no-op.
func (r *ring[T]) shut() (ev Event) {
	if ev.Err = r.lock(); ev.Err != nil {
		return ev
	}
	defer r.unlock()

	if !r.open {
		return ev
	}
	r.open = false

	var zero T
	for !r.isEmpty() {
		s := &r.buf[r.read]
		if !s.full {
			r.poison(fmt.Sprintf("slot %d inside the live range is empty", r.read))
			ev.Err = ErrPoisoned
			return ev
		}
		v := s.val
		s.val, s.full = zero, false
		r.read = r.advance(r.read)
		ev.Discarded++
		if r.onDiscard != nil {
			r.onDiscard(v)
		}
	}
	r.read, r.write = 0, 0

	r.notFull.Broadcast()
	r.notEmpty.Broadcast()
	return ev
}

func (r *ring[T]) send(v T) error {
	ev := r.put(v, true)
	ev.Op = OpSend
	r.notify(ev)
	return ev.Err
}

func (r *ring[T]) trySend(v T) error {
	ev := r.put(v, false)
	ev.Op = OpTrySend
	r.notify(ev)
	return ev.Err
}

func (r *ring[T]) receive() (T, error) {
	v, ev := r.take(true)
	ev.Op = OpReceive
	r.notify(ev)
	return v, ev.Err
}

func (r *ring[T]) tryReceive() (T, error) {
	v, ev := r.take(false)
	ev.Op = OpTryReceive
	r.notify(ev)
	return v, ev.Err
}

func (r *ring[T]) close() error {
	ev := r.shut()
	ev.Op = OpClose
	if ev.Err == nil && ev.Discarded > 0 {
		internalLogger.Infof("channel %s closed, %d buffered values discarded", r.name, ev.Discarded)
	}
	r.notify(ev)
	return ev.Err
}

func (r *ring[T]) notify(ev Event) {
	if r.observer == nil {
		return
	}
	ev.Channel = r.name
	r.observer.Observe(ev)
}

// drop releases one reference. The last one closes the ring and frees the
// buffer.
func (r *ring[T]) drop() {
	n := r.refs.Add(-1)
	switch {
	case n > 0:
		return
	case n < 0:
		internalLogger.Errorf("channel %s (%s) released %d times too often", r.name, r.id, -n)
		return
	}

	if err := r.close(); err != nil {
		internalLogger.Warnf("channel %s (%s) last release: close failed: %v", r.name, r.id, err)
	}
	r.mu.Lock()
	r.buf = nil
	r.mu.Unlock()
	internalLogger.Debugf("channel %s (%s) released", r.name, r.id)
}

// snapshot reads the state without the poison check so a poisoned ring can
// still be inspected.
func (r *ring[T]) snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Snapshot{
		ID:       r.id,
		Name:     r.name,
		Capacity: r.capacity,
		Read:     r.read,
		Write:    r.write,
		Len:      r.length(),
		Open:     r.open,
		Poisoned: r.poisoned,
		Refs:     r.refs.Load(),
	}
}
