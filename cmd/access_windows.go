//go:build windows

package cmd

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// checkReadableDir reports whether dir exists and is a directory.
//
// Windows ACLs are not probed; a directory that exists is assumed readable
// and any denial surfaces when the models are scanned.
func checkReadableDir(dir string) error {
	p, err := windows.UTF16PtrFromString(dir)
	if err != nil {
		return err
	}
	attrs, err := windows.GetFileAttributes(p)
	if err != nil {
		return fmt.Errorf("%s is not accessible: %w", dir, err)
	}
	if attrs&windows.FILE_ATTRIBUTE_DIRECTORY == 0 {
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}
