package probe

import (
	"errors"
	"io/fs"
	"strings"
	"syscall"
)

// IsTransient reports whether err is the kind of failure a freshly closed
// output file produces for a moment: resource temporarily unavailable,
// device busy, permission denied, or on Windows a sharing or lock violation
// while the exiting encoder still holds the file.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, syscall.EAGAIN) ||
		errors.Is(err, syscall.EBUSY) ||
		errors.Is(err, fs.ErrPermission) ||
		isSharingViolation(err)
}

func errnoFromMessage(msg string) error {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "resource temporarily unavailable"):
		return syscall.EAGAIN
	case strings.Contains(lower, "device or resource busy"):
		return syscall.EBUSY
	case strings.Contains(lower, "permission denied"),
		strings.Contains(lower, "used by another process"):
		return fs.ErrPermission
	default:
		return nil
	}
}
