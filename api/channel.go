// Package api defines the contracts shared by every ringchan backend.
package api

// Sender is the producing side of a channel.
type Sender[T any] interface {
	// Send blocks until v is buffered or the channel is closed.
	Send(v T) error
	// TrySend buffers v without waiting.
	TrySend(v T) error
}

// Receiver is the consuming side of a channel.
type Receiver[T any] interface {
	// Receive blocks until a value is available or the channel is closed.
	Receive() (T, error)
	// TryReceive returns a buffered value without waiting.
	TryReceive() (T, error)
}

// Closer closes a channel for every owner. Closing twice is not an error.
type Closer interface {
	Close() error
}

// Channel is the contract every backend implements: the in-memory ring,
// the device-probed backend and the network placeholder.
type Channel[T any] interface {
	Sender[T]
	Receiver[T]
	Closer
}

// Releaser is implemented by backends whose handles hold shared resources.
type Releaser interface {
	Release()
}
