//go:build windows

package sshutils

// EnsureKeyPermissions is a no-op on Windows: the platform has no POSIX
// ownership or mode-bit model for this check to act on.
func EnsureKeyPermissions(path string) error {
	return nil
}
