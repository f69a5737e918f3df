package api

import "fmt"

// BackendKind selects the implementation behind a Channel.
type BackendKind int

const (
	// Application is the in-process ring buffer.
	Application BackendKind = iota
	// Device is selected by probing a path on the filesystem: the first
	// opener hosts the queue locally, later openers would be remote clients.
	Device
	// Network is reserved for a transport across hosts.
	Network
)

func (k BackendKind) String() string {
	switch k {
	case Application:
		return "application"
	case Device:
		return "device"
	case Network:
		return "network"
	default:
		return fmt.Sprintf("BackendKind(%d)", int(k))
	}
}
