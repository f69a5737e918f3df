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

import "time"

// Op names a channel operation.
type Op int

const (
	OpSend Op = iota
	OpTrySend
	OpReceive
	OpTryReceive
	OpClose
)

var opNames = [...]string{
	OpSend:       "send",
	OpTrySend:    "try_send",
	OpReceive:    "receive",
	OpTryReceive: "try_receive",
	OpClose:      "close",
}

func (o Op) String() string {
	if o < 0 || int(o) >= len(opNames) {
		return "unknown"
	}
	return opNames[o]
}

// Event describes one completed operation.
type Event struct {
	Channel string
	Op      Op
	Err     error
	// Waited is the time spent parked on a condition. Zero when the
	// operation did not block.
	Waited time.Duration
	// Len is the number of values buffered right after the operation.
	Len int
	// Discarded is the number of values dropped by a close.
	Discarded int
}

// Observer receives an Event after each operation. Observe is called
// without the channel lock held and may be called concurrently.
type Observer interface {
	Observe(ev Event)
}

type observers []Observer

func (os observers) Observe(ev Event) {
	for _, o := range os {
		o.Observe(ev)
	}
}

func combineObservers(a, b Observer) Observer {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	if os, ok := a.(observers); ok {
		return append(os[:len(os):len(os)], b)
	}
	return observers{a, b}
}
