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

// Package probe decides, from the filesystem, whether this process hosts a
// device channel or would be a client of another host.
package probe

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v3/disk"
)

// DevShm is the tmpfs mount checked for free space on Linux.
const DevShm = "/dev/shm"

// Role is the outcome of probing a device path.
type Role int

const (
	// RoleLocal means the caller holds the path and hosts the queue.
	RoleLocal Role = iota
	// RoleRemote means another owner already holds the path.
	RoleRemote
)

func (r Role) String() string {
	if r == RoleLocal {
		return "local"
	}
	return "remote"
}

// ErrNoSpace is returned when the device mount cannot hold the request.
var ErrNoSpace = errors.New("probe: share memory had not left space")

// Claim is the result of Probe. A local Claim holds the path until Release.
type Claim struct {
	Path string
	Role Role
	file *os.File
}

// Release gives the path up. It is a no-op for remote claims.
func (c *Claim) Release() error {
	if c == nil || c.file == nil {
		return nil
	}
	f := c.file
	c.file = nil
	rmErr := os.Remove(c.Path)
	if errors.Is(rmErr, os.ErrNotExist) {
		rmErr = nil
	}
	return errors.Join(unlock(f), f.Close(), rmErr)
}

// Probe tries to claim path. The parent directory is created if needed.
func Probe(path string) (*Claim, error) {
	//ignore mkdir error, open reports it
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	return claim(path)
}

// PathExists reports whether path exists.
func PathExists(path string) bool {
	_, err := os.Stat(path)
	if err == nil {
		return true
	}
	return !os.IsNotExist(err)
}

// CanCreateOnDevShm reports whether size bytes fit on /dev/shm. Paths
// outside /dev/shm, and platforms without it, always report true.
func CanCreateOnDevShm(size uint64, path string) bool {
	if runtime.GOOS != "linux" || !strings.HasPrefix(path, DevShm) {
		return true
	}
	stat, err := disk.Usage(DevShm)
	if err != nil {
		return true
	}
	return stat.Free >= size
}
