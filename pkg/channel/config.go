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
	"math"
)

const (
	// MaxCapacity is the largest capacity New accepts. Cursors are plain
	// ints and every index below MaxCapacity is representable on all
	// supported platforms.
	MaxCapacity = math.MaxInt32

	defaultCapacity = 1024
)

// Config is used to tune a channel.
type Config struct {
	// Capacity is the number of slots of the ring. One slot is reserved to
	// tell a full ring from an empty one, so at most Capacity-1 values are
	// buffered at a time.
	Capacity int

	// Name identifies the channel in logs and metrics. A name derived from
	// the channel id is used when empty.
	Name string

	// Observer, if set, is notified after every operation, outside the lock.
	Observer Observer

	// OnDiscard, if set, is called for each buffered value that Close drops,
	// in FIFO order, while the channel lock is held. A panic in OnDiscard
	// poisons the channel.
	OnDiscard func(v any)
}

// DefaultConfig is used to return a default configuration
func DefaultConfig() *Config {
	return &Config{
		Capacity: defaultCapacity,
	}
}

// VerifyConfig is used to verify the sanity of configuration
func VerifyConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("%w: nil config", ErrInvalidConfig)
	}
	if config.Capacity <= 0 || config.Capacity > MaxCapacity {
		return fmt.Errorf("%w: %d not in [1, %d]", ErrInvalidCapacity, config.Capacity, MaxCapacity)
	}
	return nil
}

// Option tunes the Config built by New.
type Option func(*Config)

// WithName sets Config.Name.
func WithName(name string) Option {
	return func(c *Config) {
		c.Name = name
	}
}

// WithObserver adds o to the observers of the channel.
func WithObserver(o Observer) Option {
	return func(c *Config) {
		c.Observer = combineObservers(c.Observer, o)
	}
}

// WithMetrics reports the channel operations to m.
func WithMetrics(m *Metrics) Option {
	return WithObserver(m)
}

// WithDiscard sets Config.OnDiscard.
func WithDiscard(fn func(v any)) Option {
	return func(c *Config) {
		c.OnDiscard = fn
	}
}
