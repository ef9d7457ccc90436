package sshutils

import (
	"errors"
	"io"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestIsUpWhenDaemonAnswers(t *testing.T) {
	m := testMachine(t)
	c, dialer := newTestCommunicator(t, m)

	client := &MockSSHClient{}
	client.On("Close").Return(nil)
	dialer.On("Dial", "tcp", "127.0.0.1:2222", mock.Anything).Return(client, nil)

	up, err := c.IsUp()

	assert.NoError(t, err)
	assert.True(t, up)
}

func TestIsUpFalseOnRefusal(t *testing.T) {
	m := testMachine(t)
	m.SSH.MaxTries = 1
	c, dialer := newTestCommunicator(t, m)

	dialer.On("Dial", "tcp", "127.0.0.1:2222", mock.Anything).
		Return(nil, syscall.ECONNREFUSED)

	up, err := c.IsUp()

	assert.NoError(t, err, "refusal is an expected down state, not an error")
	assert.False(t, up)
}

func TestIsUpFalseOnDisconnect(t *testing.T) {
	m := testMachine(t)
	m.SSH.MaxTries = 1
	c, dialer := newTestCommunicator(t, m)

	dialer.On("Dial", "tcp", "127.0.0.1:2222", mock.Anything).Return(nil, io.EOF)

	up, err := c.IsUp()

	assert.NoError(t, err, "a dropped handshake is an expected down state, not an error")
	assert.False(t, up)
}

func TestIsUpFalseOnTimeout(t *testing.T) {
	m := testMachine(t)
	m.SSH.MaxTries = 1
	m.SSH.Timeout = 50 * time.Millisecond
	c, dialer := newTestCommunicator(t, m)

	dialer.On("Dial", "tcp", "127.0.0.1:2222", mock.Anything).
		Run(func(mock.Arguments) { time.Sleep(300 * time.Millisecond) }).
		Return(nil, errors.New("dial tcp: i/o timeout"))

	start := time.Now()
	up, err := c.IsUp()

	assert.NoError(t, err)
	assert.False(t, up)
	assert.Less(t, time.Since(start), 250*time.Millisecond,
		"probe must abandon the in-flight attempt at the wall clock")
}

func TestIsUpRaisesOnAuthRejection(t *testing.T) {
	m := testMachine(t)
	m.SSH.MaxTries = 1
	c, dialer := newTestCommunicator(t, m)

	dialer.On("Dial", "tcp", "127.0.0.1:2222", mock.Anything).
		Return(nil, errors.New("ssh: handshake failed: ssh: unable to authenticate, attempted methods [publickey]"))

	up, err := c.IsUp()

	assert.False(t, up)
	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr, "a reachable but misconfigured host must not read as down")
}

func TestIsUpPropagatesUnfamiliarErrors(t *testing.T) {
	m := testMachine(t)
	m.SSH.MaxTries = 1
	c, dialer := newTestCommunicator(t, m)

	boom := errors.New("some novel condition")
	dialer.On("Dial", "tcp", "127.0.0.1:2222", mock.Anything).Return(nil, boom)

	up, err := c.IsUp()

	assert.False(t, up)
	assert.Equal(t, boom, err)
}

func TestIsUpFailsWithoutDetectablePort(t *testing.T) {
	m := testMachine(t)
	m.SSH.Port = 0
	c, _ := newTestCommunicator(t, m)

	up, err := c.IsUp()

	assert.False(t, up)
	var notDetected *PortNotDetectedError
	assert.ErrorAs(t, err, &notDetected)
}

func TestWaitUntilReadyPollsUntilUp(t *testing.T) {
	m := testMachine(t)
	m.SSH.MaxTries = 1
	c, dialer := newTestCommunicator(t, m)

	origPoll := readyPollInterval
	readyPollInterval = 0
	t.Cleanup(func() { readyPollInterval = origPoll })

	client := &MockSSHClient{}
	client.On("Close").Return(nil)
	dialer.On("Dial", "tcp", "127.0.0.1:2222", mock.Anything).
		Return(nil, syscall.ECONNREFUSED).Twice()
	dialer.On("Dial", "tcp", "127.0.0.1:2222", mock.Anything).
		Return(client, nil).Once()

	err := c.WaitUntilReady(5 * time.Second)

	assert.NoError(t, err)
	dialer.AssertNumberOfCalls(t, "Dial", 3)
}

func TestWaitUntilReadySurfacesAuthRejection(t *testing.T) {
	m := testMachine(t)
	m.SSH.MaxTries = 1
	c, dialer := newTestCommunicator(t, m)

	dialer.On("Dial", "tcp", "127.0.0.1:2222", mock.Anything).
		Return(nil, errors.New("ssh: handshake failed: ssh: unable to authenticate, attempted methods [publickey]"))

	err := c.WaitUntilReady(time.Second)

	var authErr *AuthenticationError
	assert.ErrorAs(t, err, &authErr)
}
