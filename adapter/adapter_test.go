package adapter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/heptiolabs/healthcheck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/srediag/ringchan/api"
	"github.com/srediag/ringchan/pkg/channel"
)

var _ api.Channel[int] = (*NetworkChannel[int])(nil)

func TestNetworkChannelNotImplemented(t *testing.T) {
	n := NewNetworkChannel[string]("127.0.0.1:9000")
	assert.Equal(t, "127.0.0.1:9000", n.Address)

	assert.ErrorIs(t, n.Send("a"), ErrNotImplemented)
	assert.ErrorIs(t, n.TrySend("a"), ErrNotImplemented)
	v, err := n.Receive()
	assert.ErrorIs(t, err, ErrNotImplemented)
	assert.Empty(t, v)
	_, err = n.TryReceive()
	assert.ErrorIs(t, err, ErrNotImplemented)
	assert.ErrorIs(t, n.Close(), ErrNotImplemented)
}

type recordingTracer struct {
	tracenoop.Tracer
	mu    sync.Mutex
	spans []string
}

func (t *recordingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	t.mu.Lock()
	t.spans = append(t.spans, name)
	t.mu.Unlock()
	return t.Tracer.Start(ctx, name, opts...)
}

func (t *recordingTracer) names() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.spans...)
}

func TestOTelObserverDefaults(t *testing.T) {
	o, err := NewOTelObserver(nil, nil)
	require.NoError(t, err)

	h, err := channel.New[int](4, channel.WithObserver(o))
	require.NoError(t, err)
	defer h.Release()

	require.NoError(t, h.TrySend(1))
	require.NoError(t, h.Close())
	require.ErrorIs(t, h.TrySend(2), channel.ErrClosed)
}

func TestOTelObserverSpans(t *testing.T) {
	tracer := &recordingTracer{}
	o, err := NewOTelObserver(nil, tracer)
	require.NoError(t, err)

	h, err := channel.New[int](4, channel.WithName("otel"), channel.WithObserver(o))
	require.NoError(t, err)
	defer h.Release()

	// non-blocking operations do not start spans
	require.NoError(t, h.TrySend(1))
	_, err = h.TryReceive()
	require.NoError(t, err)
	assert.Empty(t, tracer.names())

	done := make(chan error, 1)
	go func() {
		_, err := h.Receive()
		done <- err
	}()
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, h.Send(5))
	require.NoError(t, <-done)
	require.NoError(t, h.Close())

	assert.Equal(t, []string{"ringchan.receive", "ringchan.close"}, tracer.names())
}

func TestHealthChecks(t *testing.T) {
	h, err := channel.New[int](4, channel.WithName("jobs"))
	require.NoError(t, err)
	defer h.Release()

	assert.NoError(t, LivenessCheck(h)())
	assert.NoError(t, ReadinessCheck(h)())

	handler := healthcheck.NewHandler()
	RegisterHealthChecks(handler, h)

	status := func(path string) int {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec.Code
	}
	assert.Equal(t, http.StatusOK, status("/live"))
	assert.Equal(t, http.StatusOK, status("/ready"))

	require.NoError(t, h.Close())
	assert.Error(t, ReadinessCheck(h)())
	assert.NoError(t, LivenessCheck(h)())
	assert.Equal(t, http.StatusServiceUnavailable, status("/ready"))
	assert.Equal(t, http.StatusOK, status("/live"))
}

type poisonedStatus struct{}

func (poisonedStatus) Name() string   { return "broken" }
func (poisonedStatus) Closed() bool   { return false }
func (poisonedStatus) Poisoned() bool { return true }

func TestLivenessFailsWhenPoisoned(t *testing.T) {
	err := LivenessCheck(poisonedStatus{})()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}
