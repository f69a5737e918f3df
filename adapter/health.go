package adapter

import (
	"fmt"

	"github.com/heptiolabs/healthcheck"
)

// ChannelStatus is the part of a channel Handle the health checks read.
type ChannelStatus interface {
	Name() string
	Closed() bool
	Poisoned() bool
}

// LivenessCheck fails once the channel is poisoned: it will never recover.
func LivenessCheck(c ChannelStatus) healthcheck.Check {
	return func() error {
		if c.Poisoned() {
			return fmt.Errorf("channel %s is poisoned", c.Name())
		}
		return nil
	}
}

// ReadinessCheck fails once the channel is closed.
func ReadinessCheck(c ChannelStatus) healthcheck.Check {
	return func() error {
		if c.Closed() {
			return fmt.Errorf("channel %s is closed", c.Name())
		}
		return nil
	}
}

// RegisterHealthChecks adds both checks for c to h.
func RegisterHealthChecks(h healthcheck.Handler, c ChannelStatus) {
	h.AddLivenessCheck(c.Name()+"-poisoned", LivenessCheck(c))
	h.AddReadinessCheck(c.Name()+"-open", ReadinessCheck(c))
}
