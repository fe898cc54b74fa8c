// Package alias exposes user track roots under stable symlink locations.
package alias

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Ensure creates link pointing at target if target exists and link does not.
// It reports whether this call created the link. Losing a creation race to a
// concurrent caller is not an error.
func Ensure(target, link string) (bool, error) {
	info, err := os.Stat(target)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat alias target %s: %w", target, err)
	}
	if !info.IsDir() {
		return false, nil
	}

	if _, err := os.Lstat(link); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("stat alias %s: %w", link, err)
	}

	if err := os.MkdirAll(filepath.Dir(link), 0755); err != nil {
		return false, fmt.Errorf("create alias directory: %w", err)
	}
	if err := os.Symlink(target, link); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return false, nil
		}
		return false, fmt.Errorf("create alias %s -> %s: %w", link, target, err)
	}
	return true, nil
}
