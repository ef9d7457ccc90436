package sshutils

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"syscall"
)

// UnavailableError means no native ssh client binary could be found on PATH.
type UnavailableError struct{}

func (e *UnavailableError) Error() string {
	return "could not locate an 'ssh' executable on the PATH"
}

// PlatformUnavailableError means the current platform cannot hand the terminal
// off to a native client at all. It carries enough detail for the user to
// connect manually.
type PlatformUnavailableError struct {
	KeyPath string
	Port    int
}

func (e *PlatformUnavailableError) Error() string {
	return fmt.Sprintf(
		"interactive SSH is not supported on this platform; connect manually with key %s on port %d",
		e.KeyPath, e.Port)
}

// KeyBadPermissionsError means the private key file is readable by others and
// could not be repaired. A permissive key is rejected by sshd, which shows up
// as an indefinite authentication hang, so this is a hard failure.
type KeyBadPermissionsError struct {
	KeyPath string
}

func (e *KeyBadPermissionsError) Error() string {
	return fmt.Sprintf("private key %s has insecure permissions and could not be fixed to 0600", e.KeyPath)
}

// PortNotDetectedError means no usable SSH port could be determined: no
// override, no static port, and no forwarded-port entry matched by name or by
// guest destination.
type PortNotDetectedError struct{}

func (e *PortNotDetectedError) Error() string {
	return "could not detect a forwarded port for SSH; is the machine's network configured?"
}

// ConnectionRefusedError means every connection attempt within the retry
// budget was refused, or a refusal surfaced after the transport was already
// established.
type ConnectionRefusedError struct {
	Host     string
	Port     int
	Attempts int
}

func (e *ConnectionRefusedError) Error() string {
	if e.Attempts > 1 {
		return fmt.Sprintf("SSH connection to %s:%d refused after %d attempts", e.Host, e.Port, e.Attempts)
	}
	return fmt.Sprintf("SSH connection to %s:%d refused", e.Host, e.Port)
}

// AuthenticationError means the daemon was reachable but rejected our key.
// For liveness purposes this is a positive reachability signal.
type AuthenticationError struct {
	User string
	Host string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("SSH authentication failed for %s@%s: private key rejected", e.User, e.Host)
}

// isConnectionRefused reports whether err is the refused-connection class.
// Dial errors wrap syscall.ECONNREFUSED; errors that crossed a session
// boundary may only carry the text.
func isConnectionRefused(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	return strings.Contains(err.Error(), "connection refused")
}

// isUnexpectedDisconnect reports whether err is the server-dropped-transport
// class. x/crypto/ssh surfaces these as a disconnect message or a bare EOF
// mid-handshake.
func isUnexpectedDisconnect(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "ssh: disconnect") ||
		strings.Contains(msg, "connection reset by peer")
}

// isTransient reports whether err belongs to the whitelist of conditions safe
// to retry automatically.
func isTransient(err error) bool {
	return isConnectionRefused(err) || isUnexpectedDisconnect(err)
}

// isAuthFailure reports whether err is an authentication rejection from
// x/crypto/ssh.
func isAuthFailure(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "ssh: unable to authenticate")
}
