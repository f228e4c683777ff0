// SPDX-License-Identifier: MIT

package sieve

import (
	"fmt"
	"os"
	"path/filepath"
)

// MakeDirname returns parent/base, or parent/base(n) for the smallest n >= 1
// that does not exist yet. Nothing is created.
func MakeDirname(parent, base string) (string, error) {
	info, err := os.Stat(parent)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrParentNotDir, parent)
	}
	candidate := filepath.Join(parent, base)
	for n := 1; exists(candidate); n++ {
		candidate = filepath.Join(parent, fmt.Sprintf("%s(%d)", base, n))
	}

	return candidate, nil
}

func exists(path string) bool {
	_, err := os.Lstat(path)

	return err == nil
}
