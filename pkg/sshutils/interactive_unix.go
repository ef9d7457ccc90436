//go:build !windows

package sshutils

import (
	"os"
	"os/exec"

	"golang.org/x/sys/unix"
)

// execFunc is swapped out by tests; unix.Exec does not return on success.
var execFunc = unix.Exec

// lookPathFunc is swapped out by tests.
var lookPathFunc = exec.LookPath

// Connect replaces the current process image with a native ssh client bound
// to the machine. On success it never returns: the terminal belongs to the
// client from that point on. It must not be called from any path expecting a
// return value or cleanup afterward.
func (c *Communicator) Connect(opts ConnectOptions) error {
	sshPath, err := lookPathFunc("ssh")
	if err != nil {
		return &UnavailableError{}
	}

	keyPath, err := c.keyPath()
	if err != nil {
		return err
	}
	if err := EnsureKeyPermissions(keyPath); err != nil {
		return err
	}

	port, err := ResolvePort(opts.Port, c.machine)
	if err != nil {
		return err
	}

	args := BuildClientArgs(c.machine, keyPath, port)
	argv := append([]string{"ssh"}, args...)

	c.l.Infof("handing terminal to %s for %s@%s:%d",
		sshPath, c.machine.SSH.User, c.machine.SSH.Host, port)

	// Process replacement; if this fails the process exits per platform
	// semantics, there is no recovery path.
	return execFunc(sshPath, argv, os.Environ())
}
