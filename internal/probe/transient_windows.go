//go:build windows

package probe

import (
	"errors"

	"golang.org/x/sys/windows"
)

// Go maps neither errno to fs.ErrPermission.
func isSharingViolation(err error) bool {
	return errors.Is(err, windows.ERROR_SHARING_VIOLATION) ||
		errors.Is(err, windows.ERROR_LOCK_VIOLATION)
}
