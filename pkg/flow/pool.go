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


package flow

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/srediag/ringchan/api"
	"github.com/srediag/ringchan/internal/logging"
	"github.com/srediag/ringchan/pkg/channel"
)

var flowLogger = logging.New("ringchan-flow", nil)

// consumeRetry bounds how long an idle Consume sleeps between polls, and so
// the extra latency a value can see once the channel was empty.
var consumeRetry = RetryConfig{
	InitialInterval: 100 * time.Microsecond,
	MaxInterval:     5 * time.Millisecond,
}

// Consume receives values from r and runs fn for each of them on a pool of
// workers goroutines. It returns nil once r is closed and every fn call has
// finished. When ctx is done it stops receiving, waits for running calls and
// returns ctx.Err(). A panic in fn is logged and does not stop the pool.
//
// Consume polls r with TryReceive so it can honour ctx: while r is empty it
// wakes at most every 5ms, which is also the worst-case delay before a value
// sent to an idle channel is picked up. Callers that need immediate hand-off
// and no cancellation should loop on Receive instead.
func Consume[T any](ctx context.Context, r api.Receiver[T], workers int, fn func(T)) error {
	pool, err := ants.NewPool(workers, ants.WithPanicHandler(func(p any) {
		flowLogger.Errorf("consumer panicked: %v", p)
	}))
	if err != nil {
		return err
	}
	defer pool.Release()

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		v, err := ReceiveRetry(ctx, r, consumeRetry)
		switch {
		case err == nil:
		case errors.Is(err, channel.ErrClosed):
			return nil
		default:
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return err
		}

		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			fn(v)
		}); err != nil {
			wg.Done()
			return err
		}
	}
}
