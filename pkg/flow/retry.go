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
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/srediag/ringchan/api"
	"github.com/srediag/ringchan/pkg/channel"
)

// RetryConfig shapes the exponential backoff used between non-blocking
// attempts.
type RetryConfig struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	// MaxElapsedTime of zero retries until the context is done.
	MaxElapsedTime time.Duration
}

// DefaultRetryConfig retries quickly at first and settles at 50ms.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		InitialInterval: time.Millisecond,
		MaxInterval:     50 * time.Millisecond,
	}
}

func (c RetryConfig) backOff(ctx context.Context) backoff.BackOffContext {
	b := backoff.NewExponentialBackOff()
	if c.InitialInterval > 0 {
		b.InitialInterval = c.InitialInterval
	}
	if c.MaxInterval > 0 {
		b.MaxInterval = c.MaxInterval
	}
	b.MaxElapsedTime = c.MaxElapsedTime
	b.Reset()
	return backoff.WithContext(b, ctx)
}

// SendRetry offers v with TrySend until it is accepted. A full channel is
// retried; any other error ends the loop at once. When ctx is done or the
// backoff gives up, the last error is returned.
func SendRetry[T any](ctx context.Context, s api.Sender[T], v T, config RetryConfig) error {
	op := func() error {
		err := s.TrySend(v)
		if err == nil || errors.Is(err, channel.ErrFull) {
			return err
		}
		return backoff.Permanent(err)
	}
	return backoff.Retry(op, config.backOff(ctx))
}

// ReceiveRetry polls TryReceive until a value arrives. An empty channel is
// retried; any other error ends the loop at once.
func ReceiveRetry[T any](ctx context.Context, r api.Receiver[T], config RetryConfig) (T, error) {
	var v T
	op := func() error {
		var err error
		v, err = r.TryReceive()
		if err == nil || errors.Is(err, channel.ErrNoneAvailable) {
			return err
		}
		return backoff.Permanent(err)
	}
	err := backoff.Retry(op, config.backOff(ctx))
	return v, err
}
