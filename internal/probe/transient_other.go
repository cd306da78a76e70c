//go:build !windows

package probe

func isSharingViolation(error) bool { return false }
