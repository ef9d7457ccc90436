package sshutils

import (
	"io"

	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/ssh"
)

// MockSSHDialer is a testify mock standing in for the network.
type MockSSHDialer struct {
	mock.Mock
}

func (m *MockSSHDialer) Dial(network, addr string, config *ssh.ClientConfig) (SSHClienter, error) {
	args := m.Called(network, addr, config)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(SSHClienter), args.Error(1)
}

// MockSSHClient is a testify mock for SSHClienter.
type MockSSHClient struct {
	mock.Mock
}

func (m *MockSSHClient) NewSession() (SSHSessioner, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(SSHSessioner), args.Error(1)
}

func (m *MockSSHClient) Raw() *ssh.Client {
	return nil
}

func (m *MockSSHClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockSSHSession is a testify mock for SSHSessioner. Stdout and Stderr fed to
// the writers are configured through the Stdout/Stderr fields.
type MockSSHSession struct {
	mock.Mock

	Stdout string
	Stderr string
}

func (m *MockSSHSession) Run(cmd string, stdout, stderr io.Writer) (int, error) {
	args := m.Called(cmd, stdout, stderr)
	if m.Stdout != "" && stdout != nil {
		_, _ = stdout.Write([]byte(m.Stdout))
	}
	if m.Stderr != "" && stderr != nil {
		_, _ = stderr.Write([]byte(m.Stderr))
	}
	return args.Int(0), args.Error(1)
}

func (m *MockSSHSession) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockSFTPClient is a testify mock for SFTPClienter.
type MockSFTPClient struct {
	mock.Mock
}

func (m *MockSFTPClient) Create(path string) (io.WriteCloser, error) {
	args := m.Called(path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.WriteCloser), args.Error(1)
}

func (m *MockSFTPClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockWriteCloser collects written bytes for assertions.
type MockWriteCloser struct {
	mock.Mock

	Written []byte
}

func (m *MockWriteCloser) Write(p []byte) (int, error) {
	args := m.Called(p)
	m.Written = append(m.Written, p...)
	return args.Int(0), args.Error(1)
}

func (m *MockWriteCloser) Close() error {
	args := m.Called()
	return args.Error(0)
}

var (
	_ SSHDialer    = (*MockSSHDialer)(nil)
	_ SSHClienter  = (*MockSSHClient)(nil)
	_ SSHSessioner = (*MockSSHSession)(nil)
	_ SFTPClienter = (*MockSFTPClient)(nil)
)
