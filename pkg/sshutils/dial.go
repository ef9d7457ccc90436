package sshutils

import (
	"io"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
)

// defaultSSHDialer dials over TCP with the real x/crypto/ssh client.
type defaultSSHDialer struct{}

func (d *defaultSSHDialer) Dial(network, addr string, config *ssh.ClientConfig) (SSHClienter, error) {
	client, err := ssh.Dial(network, addr, config)
	if err != nil {
		return nil, err
	}
	return &sshClientWrapper{client: client}, nil
}

// sshClientWrapper adapts *ssh.Client to SSHClienter.
type sshClientWrapper struct {
	client *ssh.Client

	// forwardAgent marks sessions created from this client for agent
	// forwarding requests.
	forwardAgent bool
}

func (c *sshClientWrapper) NewSession() (SSHSessioner, error) {
	session, err := c.client.NewSession()
	if err != nil {
		return nil, err
	}
	if c.forwardAgent {
		// Forwarding is best effort per session; the channel setup at the
		// client level already happened in setupAgentForwarding.
		_ = agent.RequestAgentForwarding(session)
	}
	return &sshSessionWrapper{session: session}, nil
}

func (c *sshClientWrapper) Raw() *ssh.Client {
	return c.client
}

func (c *sshClientWrapper) Close() error {
	return c.client.Close()
}

// sshSessionWrapper adapts *ssh.Session to SSHSessioner, folding the remote
// exit status out of the transport error type.
type sshSessionWrapper struct {
	session *ssh.Session
}

func (s *sshSessionWrapper) Run(cmd string, stdout, stderr io.Writer) (int, error) {
	s.session.Stdout = stdout
	s.session.Stderr = stderr

	err := s.session.Run(cmd)
	if err == nil {
		return 0, nil
	}
	if exitErr, ok := err.(*ssh.ExitError); ok {
		return exitErr.ExitStatus(), nil
	}
	return 0, err
}

func (s *sshSessionWrapper) Close() error {
	return s.session.Close()
}
