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
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/srediag/ringchan/internal/logging"
	"github.com/srediag/ringchan/pkg/channel"
)

type FlowTestSuite struct {
	suite.Suite
	level int
}

func (s *FlowTestSuite) SetupSuite() {
	s.level = logging.Level()
	logging.SetLevel(logging.LevelNoPrint)
}

func (s *FlowTestSuite) TearDownSuite() {
	logging.SetLevel(s.level)
}

func (s *FlowTestSuite) newChannel(capacity int) *channel.Handle[int] {
	h, err := channel.New[int](capacity)
	s.Require().NoError(err)
	s.T().Cleanup(h.Release)
	return h
}

func (s *FlowTestSuite) TestSendRetryWaitsForSpace() {
	h := s.newChannel(2)
	s.Require().NoError(h.TrySend(1))

	go func() {
		time.Sleep(20 * time.Millisecond)
		_, _ = h.TryReceive()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.Require().NoError(SendRetry[int](ctx, h, 2, DefaultRetryConfig()))

	v, err := h.TryReceive()
	s.Require().NoError(err)
	s.Require().Equal(2, v)
}

func (s *FlowTestSuite) TestSendRetryStopsOnClosed() {
	h := s.newChannel(4)
	s.Require().NoError(h.Close())
	err := SendRetry[int](context.Background(), h, 1, DefaultRetryConfig())
	s.Require().ErrorIs(err, channel.ErrClosed)
}

func (s *FlowTestSuite) TestSendRetryGivesUp() {
	h := s.newChannel(2)
	s.Require().NoError(h.TrySend(1))

	config := RetryConfig{
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
		MaxElapsedTime:  30 * time.Millisecond,
	}
	err := SendRetry[int](context.Background(), h, 2, config)
	s.Require().ErrorIs(err, channel.ErrFull)
}

func (s *FlowTestSuite) TestReceiveRetryHonoursContext() {
	h := s.newChannel(4)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := ReceiveRetry[int](ctx, h, DefaultRetryConfig())
	s.Require().ErrorIs(err, context.DeadlineExceeded)
}

func (s *FlowTestSuite) TestReceiveRetryGetsValue() {
	h := s.newChannel(4)
	go func() {
		time.Sleep(20 * time.Millisecond)
		_ = h.TrySend(9)
	}()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	v, err := ReceiveRetry[int](ctx, h, DefaultRetryConfig())
	s.Require().NoError(err)
	s.Require().Equal(9, v)
}

func (s *FlowTestSuite) TestConsumeUntilClosed() {
	const n = 200
	h := s.newChannel(8)
	consumer := h.Clone()
	defer consumer.Release()

	var (
		mu  sync.Mutex
		got []int
	)
	done := make(chan error, 1)
	go func() {
		done <- Consume[int](context.Background(), consumer, 4, func(v int) {
			mu.Lock()
			got = append(got, v)
			mu.Unlock()
		})
	}()

	for i := 0; i < n; i++ {
		s.Require().NoError(h.Send(i))
	}
	// wait until every value has been taken before closing
	for h.Len() > 0 {
		time.Sleep(time.Millisecond)
	}
	s.Require().NoError(h.Close())
	s.Require().NoError(<-done)

	mu.Lock()
	defer mu.Unlock()
	sort.Ints(got)
	s.Require().Len(got, n)
	for i, v := range got {
		s.Require().Equal(i, v)
	}
}

func (s *FlowTestSuite) TestConsumeSurvivesPanics() {
	h := s.newChannel(8)
	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- Consume[int](context.Background(), h, 2, func(v int) {
			calls.Add(1)
			if v%2 == 0 {
				panic("even")
			}
		})
	}()

	for i := 0; i < 6; i++ {
		s.Require().NoError(h.Send(i))
	}
	for h.Len() > 0 {
		time.Sleep(time.Millisecond)
	}
	s.Require().NoError(h.Close())
	s.Require().NoError(<-done)
	s.Require().Equal(int32(6), calls.Load())
}

func (s *FlowTestSuite) TestConsumeIdleLatency() {
	h := s.newChannel(4)
	got := make(chan time.Time, 1)
	done := make(chan error, 1)
	go func() {
		done <- Consume[int](context.Background(), h, 1, func(int) {
			got <- time.Now()
		})
	}()

	// let the poll interval grow to its ceiling
	time.Sleep(200 * time.Millisecond)
	sentAt := time.Now()
	s.Require().NoError(h.Send(1))
	select {
	case at := <-got:
		latency := at.Sub(sentAt)
		s.Require().True(latency < consumeRetry.MaxInterval*10, "idle consumer took %s", latency)
	case <-time.After(5 * time.Second):
		s.T().Fatal("value was not consumed")
	}
	s.Require().NoError(h.Close())
	s.Require().NoError(<-done)
}

func (s *FlowTestSuite) TestConsumeStopsOnContext() {
	h := s.newChannel(8)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Consume[int](ctx, h, 2, func(int) {})
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		s.Require().ErrorIs(err, context.Canceled)
	case <-time.After(5 * time.Second):
		s.T().Fatal("Consume did not stop on cancel")
	}
	s.Require().False(h.Closed())
}

func (s *FlowTestSuite) TestConsumeUnboundedPool() {
	h := s.newChannel(2)
	s.Require().NoError(h.Close())
	s.Require().NoError(Consume[int](context.Background(), h, -1, func(int) {}))
}

func TestFlowTestSuite(t *testing.T) {
	suite.Run(t, new(FlowTestSuite))
}
