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

import "errors"

var (
	// ErrInvalidCapacity is returned by New when the capacity is zero,
	// negative or larger than MaxCapacity.
	ErrInvalidCapacity = errors.New("ringchan: invalid capacity")
	// ErrFull is returned by TrySend when no slot is free.
	ErrFull = errors.New("ringchan: channel is full")
	// ErrNoneAvailable is returned by TryReceive when nothing is buffered.
	ErrNoneAvailable = errors.New("ringchan: no value available")
	// ErrClosed is returned by every send and receive once the channel was
	// closed. It is permanent.
	ErrClosed = errors.New("ringchan: channel is closed")
	// ErrPoisoned means a critical section panicked or an internal
	// invariant was violated. The channel must not be used any more.
	ErrPoisoned = errors.New("ringchan: channel state is poisoned")
	// ErrReleased is returned by operations on a Handle after Release.
	ErrReleased = errors.New("ringchan: handle was released")
	// ErrInvalidConfig wraps config validation failures.
	ErrInvalidConfig = errors.New("ringchan: invalid config")
)

// resultLabel maps an operation result to a short, stable label used by
// metrics and traces.
func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrFull):
		return "full"
	case errors.Is(err, ErrNoneAvailable):
		return "none_available"
	case errors.Is(err, ErrClosed):
		return "closed"
	case errors.Is(err, ErrPoisoned):
		return "poisoned"
	case errors.Is(err, ErrReleased):
		return "released"
	default:
		return "error"
	}
}

// ResultLabel is the exported form of the result label, for observers
// living outside this package.
func ResultLabel(err error) string {
	return resultLabel(err)
}
