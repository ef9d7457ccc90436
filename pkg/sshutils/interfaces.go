package sshutils

import (
	"io"

	"golang.org/x/crypto/ssh"
)

// SSHDialer establishes transport connections. The indirection exists so tests
// can stand in for the network.
type SSHDialer interface {
	Dial(network, addr string, config *ssh.ClientConfig) (SSHClienter, error)
}

// SSHClienter is the slice of *ssh.Client this package needs.
type SSHClienter interface {
	NewSession() (SSHSessioner, error)

	// Raw exposes the underlying client for SFTP and agent forwarding.
	// Mock implementations return nil.
	Raw() *ssh.Client

	Close() error
}

// SSHSessioner runs one remote command. Run reports the remote exit status
// directly so callers never have to unwrap transport error types.
type SSHSessioner interface {
	Run(cmd string, stdout, stderr io.Writer) (int, error)
	Close() error
}

// SFTPClienter is the slice of *sftp.Client used for uploads.
type SFTPClienter interface {
	Create(path string) (io.WriteCloser, error)
	Close() error
}
