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

//go:build unix

package probe

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// claim takes an exclusive, non-blocking flock on path. The lock belongs to
// the open file description, so a second claim in the same process is
// refused as well.
func claim(path string) (*Claim, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("probe open %s: %w", path, err)
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		_ = f.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return &Claim{Path: path, Role: RoleRemote}, nil
		}
		return nil, fmt.Errorf("probe flock %s: %w", path, err)
	}
	return &Claim{Path: path, Role: RoleLocal, file: f}, nil
}

func unlock(f *os.File) error {
	if err := unix.Flock(int(f.Fd()), unix.LOCK_UN); err != nil {
		return fmt.Errorf("probe unlock: %w", err)
	}
	return nil
}
