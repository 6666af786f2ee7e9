//go:build !windows

package cmd

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// checkReadableDir reports whether the current user can list and enter dir.
func checkReadableDir(dir string) error {
	if err := unix.Access(dir, unix.R_OK|unix.X_OK); err != nil {
		return fmt.Errorf("%s is not readable: %w", dir, err)
	}
	return nil
}
