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

//go:build !unix

package probe

import (
	"errors"
	"fmt"
	"os"
)

// claim creates path exclusively. An existing path means another owner.
func claim(path string) (*Claim, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0o600)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return &Claim{Path: path, Role: RoleRemote}, nil
		}
		return nil, fmt.Errorf("probe open %s: %w", path, err)
	}
	return &Claim{Path: path, Role: RoleLocal, file: f}, nil
}

func unlock(*os.File) error {
	return nil
}
