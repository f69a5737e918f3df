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

package backend

import (
	cmap "github.com/orcaman/concurrent-map/v2"

	"github.com/srediag/ringchan/pkg/channel"
)

// Registry shares application channels by name inside one process. It
// keeps one Handle per name and hands out clones of it.
type Registry[T any] struct {
	channels cmap.ConcurrentMap[string, *channel.Handle[T]]
	opts     []channel.Option
}

// NewRegistry returns an empty Registry. opts apply to every channel it
// creates.
func NewRegistry[T any](opts ...channel.Option) *Registry[T] {
	return &Registry[T]{
		channels: cmap.New[*channel.Handle[T]](),
		opts:     opts,
	}
}

// Open returns a Handle of the channel called name, creating it with
// capacity slots when absent. The caller owns the returned Handle and must
// Release it.
func (r *Registry[T]) Open(name string, capacity int) (*channel.Handle[T], error) {
	if err := channel.VerifyConfig(&channel.Config{Capacity: capacity}); err != nil {
		return nil, err
	}
	h := r.channels.Upsert(name, nil, func(exist bool, cur, _ *channel.Handle[T]) *channel.Handle[T] {
		if exist && cur != nil {
			return cur
		}
		opts := append([]channel.Option{channel.WithName(name)}, r.opts...)
		// capacity was verified above, so New cannot fail
		created, _ := channel.New[T](capacity, opts...)
		return created
	})
	if h == nil {
		return nil, channel.ErrInvalidCapacity
	}
	c := h.Clone()
	if c == nil {
		return nil, channel.ErrReleased
	}
	return c, nil
}

// Get returns a new Handle of the channel called name.
func (r *Registry[T]) Get(name string) (*channel.Handle[T], bool) {
	h, ok := r.channels.Get(name)
	if !ok || h == nil {
		return nil, false
	}
	c := h.Clone()
	return c, c != nil
}

// Remove closes the channel called name and drops the registry's Handle.
// Handles given out earlier stay valid but see the channel closed.
func (r *Registry[T]) Remove(name string) error {
	h, ok := r.channels.Pop(name)
	if !ok {
		return nil
	}
	defer h.Release()
	return h.Close()
}

// Names lists the registered channels.
func (r *Registry[T]) Names() []string {
	return r.channels.Keys()
}

// Len returns the number of registered channels.
func (r *Registry[T]) Len() int {
	return r.channels.Count()
}

// Close removes every channel.
func (r *Registry[T]) Close() error {
	var firstErr error
	for _, name := range r.Names() {
		if err := r.Remove(name); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
