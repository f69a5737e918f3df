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

package backend

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"github.com/srediag/ringchan/internal/probe"
	"github.com/srediag/ringchan/pkg/channel"
)

// deviceChannel is the local host of a device-probed channel. Values stay
// in process in an application channel; the claim on the device path keeps
// other openers in the remote role until Close.
type deviceChannel[T any] struct {
	*channel.Handle[T]
	claim *probe.Claim

	once     sync.Once
	closeErr error
}

func openDevice[T any](config *Config) (*deviceChannel[T], error) {
	path := DevicePath(config)
	var zero T
	size := uint64(config.Capacity) * uint64(unsafe.Sizeof(zero))
	if !probe.CanCreateOnDevShm(size, path) {
		return nil, fmt.Errorf("%w: path %s, size %d", probe.ErrNoSpace, path, size)
	}

	claim, err := probe.Probe(path)
	if err != nil {
		return nil, err
	}
	if claim.Role == probe.RoleRemote {
		return nil, fmt.Errorf("%w: %s is hosted elsewhere", ErrRemoteUnsupported, path)
	}

	opts := append([]channel.Option{channel.WithName(config.Name)}, config.Options...)
	h, err := channel.New[T](config.Capacity, opts...)
	if err != nil {
		return nil, errors.Join(err, claim.Release())
	}
	backendLogger.Infof("device channel %s hosted locally at %s", config.Name, path)
	return &deviceChannel[T]{Handle: h, claim: claim}, nil
}

// Close closes the hosted channel for every user, which drops buffered
// values and wakes blocked callers, then gives the device path up.
func (d *deviceChannel[T]) Close() error {
	d.once.Do(func() {
		d.closeErr = errors.Join(d.Handle.Close(), d.claim.Release())
		backendLogger.Infof("device channel %s closed", d.Name())
	})
	return d.closeErr
}

// Release closes the channel and drops the host's Handle; the device
// backend has a single owner.
func (d *deviceChannel[T]) Release() {
	if err := d.Close(); err != nil {
		backendLogger.Warnf("device channel %s release: %v", d.Name(), err)
	}
	d.Handle.Release()
}
