// Package probe reads metadata from a finished recording with ffprobe.
//
// The encoder may still be releasing the output file when its process has
// exited, so errors are classified: IsTransient reports the
// resource-unavailable and permission-denied class that is worth retrying.
package probe
