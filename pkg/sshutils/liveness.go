package sshutils

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"
)

// readyPollInterval separates liveness probes inside WaitUntilReady. Tests
// zero it.
var readyPollInterval = 2 * time.Second

// IsUp reports whether the machine's SSH daemon is reachable, bounded by the
// machine's configured timeout. Expected failure modes (timeout, refusal,
// disconnect) are absorbed into false. An authentication rejection is returned
// as an error: the daemon is reachable but misconfigured, which must never be
// reported as down. Anything unclassified propagates unchanged.
func (c *Communicator) IsUp() (bool, error) {
	// Port resolution touches the machine's adapter table, which is not safe
	// to read from the racing goroutine below. Resolve first, on the caller.
	port, err := ResolvePort(0, c.machine)
	if err != nil {
		return false, err
	}

	timeout := c.machine.SSH.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	// Buffered so the abandoned attempt can complete and be collected by the
	// runtime instead of blocking forever on send.
	done := make(chan error, 1)
	go func() {
		done <- c.openPort(port, func(*Session) error { return nil })
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-timer.C:
		c.l.Debugf("liveness probe for %q timed out after %s", c.machine.Name, timeout)
		return false, nil
	case err := <-done:
		return c.classifyProbe(err)
	}
}

func (c *Communicator) classifyProbe(err error) (bool, error) {
	if err == nil {
		return true, nil
	}

	var authErr *AuthenticationError
	if errors.As(err, &authErr) {
		return false, err
	}

	var refusedErr *ConnectionRefusedError
	if errors.As(err, &refusedErr) {
		return false, nil
	}
	if isTransient(err) || isDialTimeout(err) {
		return false, nil
	}

	return false, err
}

// isDialTimeout reports whether err is a handshake or socket timeout from the
// transport's own deadline.
func isDialTimeout(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return strings.Contains(err.Error(), "i/o timeout")
}

// WaitUntilReady polls IsUp until the machine answers or maxWait passes.
// An authentication rejection during the wait is surfaced immediately: the
// daemon is up, waiting longer will not fix the key.
func (c *Communicator) WaitUntilReady(maxWait time.Duration) error {
	deadline := time.Now().Add(maxWait)
	for {
		up, err := c.IsUp()
		if err != nil {
			return err
		}
		if up {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("machine %q did not become reachable within %s", c.machine.Name, maxWait)
		}
		time.Sleep(readyPollInterval)
	}
}
