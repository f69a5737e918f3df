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
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/srediag/ringchan/internal/logging"
)

var internalLogger = logging.New("ringchan", os.Stdout)

// SetLogLevel used to change the internal logger's level and the default level is Warning.
// The process env `RINGCHAN_LOG_LEVEL` also could set log level
func SetLogLevel(l int) {
	logging.SetLevel(l)
}

// Snapshot is a point-in-time view of a channel's shared state.
type Snapshot struct {
	ID       uuid.UUID
	Name     string
	Capacity int
	Read     int
	Write    int
	Len      int
	Open     bool
	Poisoned bool
	Refs     int64
}

// DebugChannelDetail prints the state of h to w, or to stdout when w is nil.
func DebugChannelDetail[T any](w io.Writer, h *Handle[T]) {
	if w == nil {
		w = os.Stdout
	}
	s := h.State()
	fmt.Fprintf(w, "name:%s id:%s cap:%d read:%d write:%d len:%d open:%t poisoned:%t refs:%d\n",
		s.Name, s.ID, s.Capacity, s.Read, s.Write, s.Len, s.Open, s.Poisoned, s.Refs)
}
