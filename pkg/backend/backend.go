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

// Package backend selects the implementation behind an api.Channel.
package backend

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/srediag/ringchan/adapter"
	"github.com/srediag/ringchan/api"
	"github.com/srediag/ringchan/internal/logging"
	"github.com/srediag/ringchan/internal/probe"
	"github.com/srediag/ringchan/pkg/channel"
)

var (
	// ErrUnknownBackend is returned for a BackendKind Open does not know.
	ErrUnknownBackend = errors.New("ringchan: unknown backend")
	// ErrRemoteUnsupported is returned when probing finds the device path
	// held by another owner. Talking to that owner needs a cross-process
	// transport, which is not provided.
	ErrRemoteUnsupported = errors.New("ringchan: remote device channel is not supported")
)

var backendLogger = logging.New("ringchan backend", os.Stdout)

// Config is used to select and tune a backend.
type Config struct {
	Kind     api.BackendKind
	Name     string
	Capacity int

	// DevicePath is probed by the Device backend. Empty means a path
	// derived from Name under /dev/shm on Linux or the temp dir elsewhere.
	DevicePath string

	// NetworkAddress is kept for the Network backend.
	NetworkAddress string

	// Options are passed to channel.New by the Application backend.
	Options []channel.Option
}

// DefaultConfig is used to return a default configuration
func DefaultConfig() *Config {
	return &Config{
		Kind:     api.Application,
		Name:     "ringchan",
		Capacity: channel.DefaultConfig().Capacity,
	}
}

// VerifyConfig is used to verify the sanity of configuration
func VerifyConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("%w: nil config", channel.ErrInvalidConfig)
	}
	if config.Capacity <= 0 || config.Capacity > channel.MaxCapacity {
		return fmt.Errorf("%w: %d not in [1, %d]", channel.ErrInvalidCapacity, config.Capacity, channel.MaxCapacity)
	}
	if config.Kind == api.Device && config.DevicePath == "" && config.Name == "" {
		return fmt.Errorf("%w: device backend needs a DevicePath or a Name", channel.ErrInvalidConfig)
	}
	return nil
}

// DevicePath returns the path the Device backend probes for config.
func DevicePath(config *Config) string {
	if config.DevicePath != "" {
		return config.DevicePath
	}
	dir := os.TempDir()
	if runtime.GOOS == "linux" && probe.PathExists(probe.DevShm) {
		dir = probe.DevShm
	}
	return filepath.Join(dir, "ringchan-"+config.Name)
}

// Open returns a channel from the backend config.Kind names.
func Open[T any](config *Config) (api.Channel[T], error) {
	if err := VerifyConfig(config); err != nil {
		return nil, err
	}
	switch config.Kind {
	case api.Application:
		opts := append([]channel.Option{channel.WithName(config.Name)}, config.Options...)
		h, err := channel.New[T](config.Capacity, opts...)
		if err != nil {
			return nil, err
		}
		return h, nil
	case api.Device:
		d, err := openDevice[T](config)
		if err != nil {
			return nil, err
		}
		return d, nil
	case api.Network:
		backendLogger.Warnf("network backend for %s (%s) has no transport yet", config.Name, config.NetworkAddress)
		return adapter.NewNetworkChannel[T](config.NetworkAddress), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, config.Kind)
	}
}

// Release gives up c if its backend holds shared resources.
func Release[T any](c api.Channel[T]) {
	if r, ok := c.(api.Releaser); ok {
		r.Release()
	}
}
