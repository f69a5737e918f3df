package adapter

import "errors"

// ErrNotImplemented is returned by every operation of NetworkChannel.
var ErrNotImplemented = errors.New("ringchan: network transport is not implemented")

// NetworkChannel is the placeholder for a channel carried over TCP/QUIC.
// It satisfies api.Channel so callers can select it, and fails every call.
type NetworkChannel[T any] struct {
	Address string
}

// NewNetworkChannel returns a placeholder bound to address.
func NewNetworkChannel[T any](address string) *NetworkChannel[T] {
	return &NetworkChannel[T]{Address: address}
}

func (n *NetworkChannel[T]) Send(T) error {
	return ErrNotImplemented
}

func (n *NetworkChannel[T]) TrySend(T) error {
	return ErrNotImplemented
}

func (n *NetworkChannel[T]) Receive() (T, error) {
	var zero T
	return zero, ErrNotImplemented
}

func (n *NetworkChannel[T]) TryReceive() (T, error) {
	var zero T
	return zero, ErrNotImplemented
}

func (n *NetworkChannel[T]) Close() error {
	return ErrNotImplemented
}
