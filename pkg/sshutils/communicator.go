package sshutils

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"

	"github.com/skiffworks/skiff/pkg/logger"
	"github.com/skiffworks/skiff/pkg/models"
)

const (
	// DefaultMaxTries bounds the connection retry loop when the machine does
	// not configure its own budget.
	DefaultMaxTries = 3

	// DefaultTimeout is the transport handshake and liveness bound used when
	// the machine does not configure one.
	DefaultTimeout = 30 * time.Second
)

// connectRetryDelay separates connection attempts. Tests zero it.
var connectRetryDelay = 1 * time.Second

// ExecuteOptions adjusts a single open/execute call. A non-zero Port overrides
// port resolution entirely.
type ExecuteOptions struct {
	Port int
}

// ConnectOptions adjusts an interactive hand-off.
type ConnectOptions struct {
	Port int
}

// Communicator provides SSH access to one guest machine: command execution,
// file upload, liveness probing, and interactive hand-off. Every call opens
// its own transport; nothing is pooled or reused.
type Communicator struct {
	machine *models.Machine
	l       *logger.Logger
	dialer  SSHDialer
}

// New builds a Communicator for machine. The machine is treated as read-only.
func New(machine *models.Machine) *Communicator {
	return &Communicator{
		machine: machine,
		l:       logger.Get(),
		dialer:  &defaultSSHDialer{},
	}
}

// Execute opens a connection and yields a Session to fn. The Session is only
// valid until fn returns; the transport is torn down on every exit path.
func (c *Communicator) Execute(opts ExecuteOptions, fn func(*Session) error) error {
	return c.open(opts, fn)
}

// ExecuteCommand opens a connection, runs a single command, and returns its
// captured result.
func (c *Communicator) ExecuteCommand(opts ExecuteOptions, cmd string) (*CommandResult, error) {
	var result *CommandResult
	err := c.open(opts, func(sess *Session) error {
		var runErr error
		result, runErr = sess.Run(cmd)
		return runErr
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// connectionConfig is an immutable snapshot assembled fresh for each call.
type connectionConfig struct {
	host    string
	user    string
	keyPath string
	port    int
	timeout time.Duration
}

func (c *Communicator) newConnectionConfig(port int) (*connectionConfig, error) {
	keyPath, err := c.keyPath()
	if err != nil {
		return nil, err
	}

	timeout := c.machine.SSH.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	return &connectionConfig{
		host:    c.machine.SSH.Host,
		user:    c.machine.SSH.User,
		keyPath: keyPath,
		port:    port,
		timeout: timeout,
	}, nil
}

// keyPath returns the private key path with ~ expanded and relative paths
// resolved against the machine's root path.
func (c *Communicator) keyPath() (string, error) {
	path, err := homedir.Expand(c.machine.SSH.PrivateKeyPath)
	if err != nil {
		return "", fmt.Errorf("failed to expand private key path: %w", err)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(c.machine.RootPath, path)
	}
	return path, nil
}

func (c *Communicator) maxTries() int {
	if c.machine.SSH.MaxTries > 0 {
		return c.machine.SSH.MaxTries
	}
	return DefaultMaxTries
}

// open resolves the port, checks key permissions, and establishes the
// transport with a bounded retry over the transient-error whitelist. On
// success fn receives a short-lived Session; the connection is closed once fn
// returns, regardless of outcome.
func (c *Communicator) open(opts ExecuteOptions, fn func(*Session) error) error {
	port, err := ResolvePort(opts.Port, c.machine)
	if err != nil {
		return err
	}
	return c.openPort(port, fn)
}

func (c *Communicator) openPort(port int, fn func(*Session) error) error {
	cfg, err := c.newConnectionConfig(port)
	if err != nil {
		return err
	}

	if err := EnsureKeyPermissions(cfg.keyPath); err != nil {
		return err
	}

	clientCfg, err := buildClientConfig(cfg)
	if err != nil {
		return err
	}

	addr := net.JoinHostPort(cfg.host, fmt.Sprintf("%d", cfg.port))
	maxTries := c.maxTries()

	var client SSHClienter
	var dialErr error
	for attempt := 1; attempt <= maxTries; attempt++ {
		c.l.Debugf("SSH connection attempt %d/%d to %s", attempt, maxTries, addr)
		client, dialErr = c.dialer.Dial("tcp", addr, clientCfg)
		if dialErr == nil {
			break
		}
		if !isTransient(dialErr) {
			break
		}
		if attempt < maxTries {
			time.Sleep(connectRetryDelay)
		}
	}

	if dialErr != nil {
		switch {
		case isAuthFailure(dialErr):
			return &AuthenticationError{User: cfg.user, Host: cfg.host}
		case isTransient(dialErr):
			return &ConnectionRefusedError{Host: cfg.host, Port: cfg.port, Attempts: maxTries}
		default:
			// Unfamiliar conditions fail loud.
			return dialErr
		}
	}
	defer client.Close()

	if c.machine.SSH.ForwardAgent {
		if agentConn := c.setupAgentForwarding(client); agentConn != nil {
			defer agentConn.Close()
		}
	}

	sess := &Session{client: client, machine: c.machine, l: c.l}
	if err := fn(sess); err != nil {
		if isConnectionRefused(err) {
			// A refusal surfacing after the transport was established still
			// maps to the typed refusal, not a raw transport error.
			return &ConnectionRefusedError{Host: cfg.host, Port: cfg.port, Attempts: 1}
		}
		return err
	}
	return nil
}

// forwardToAgentFunc is swapped out by tests.
var forwardToAgentFunc = agent.ForwardToAgent

// setupAgentForwarding wires the local ssh-agent into the connection. Purely
// opportunistic: a missing or unreachable agent downgrades to a debug line.
// The returned socket connection, if any, must stay open for the life of the
// transport; the caller closes it.
func (c *Communicator) setupAgentForwarding(client SSHClienter) net.Conn {
	sock := os.Getenv("SSH_AUTH_SOCK")
	if sock == "" {
		c.l.Debugf("agent forwarding requested but SSH_AUTH_SOCK is not set")
		return nil
	}
	conn, err := net.Dial("unix", sock)
	if err != nil {
		c.l.Debugf("agent forwarding unavailable: %v", err)
		return nil
	}
	if err := forwardToAgentFunc(client.Raw(), agent.NewClient(conn)); err != nil {
		c.l.Debugf("failed to set up agent forwarding: %v", err)
		conn.Close()
		return nil
	}
	if w, ok := client.(*sshClientWrapper); ok {
		w.forwardAgent = true
	}
	return conn
}

// buildClientConfig turns a connection snapshot into transport configuration.
// Authentication is key-only: no passwords, no agent identities, no external
// ssh configuration, and no host key verification.
func buildClientConfig(cfg *connectionConfig) (*ssh.ClientConfig, error) {
	keyBytes, err := os.ReadFile(cfg.keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read private key %s: %w", cfg.keyPath, err)
	}
	signer, err := ssh.ParsePrivateKey(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key %s: %w", cfg.keyPath, err)
	}

	return &ssh.ClientConfig{
		User: cfg.user,
		Auth: []ssh.AuthMethod{
			ssh.PublicKeys(signer),
		},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), //nolint:gosec
		Timeout:         cfg.timeout,
	}, nil
}
