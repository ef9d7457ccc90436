//go:build !windows

package sshutils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectBuildsExactClientInvocation(t *testing.T) {
	m := testMachine(t)
	c, _ := newTestCommunicator(t, m)

	origLook := lookPathFunc
	lookPathFunc = func(string) (string, error) { return "/usr/bin/ssh", nil }
	t.Cleanup(func() { lookPathFunc = origLook })

	var gotPath string
	var gotArgv []string
	origExec := execFunc
	execFunc = func(path string, argv []string, env []string) error {
		gotPath = path
		gotArgv = argv
		return nil
	}
	t.Cleanup(func() { execFunc = origExec })

	err := c.Connect(ConnectOptions{})
	require.NoError(t, err)

	assert.Equal(t, "/usr/bin/ssh", gotPath)
	assert.Equal(t, []string{
		"ssh",
		"-p", "2222",
		"-o", "UserKnownHostsFile=/dev/null",
		"-o", "StrictHostKeyChecking=no",
		"-o", "IdentitiesOnly=yes",
		"-o", "LogLevel=FATAL",
		"-i", m.SSH.PrivateKeyPath,
		"tester@127.0.0.1",
	}, gotArgv)
}

func TestConnectIncludesForwardingFlags(t *testing.T) {
	m := testMachine(t)
	m.SSH.ForwardAgent = true
	m.SSH.ForwardX11 = true
	c, _ := newTestCommunicator(t, m)

	origLook := lookPathFunc
	lookPathFunc = func(string) (string, error) { return "/usr/bin/ssh", nil }
	t.Cleanup(func() { lookPathFunc = origLook })

	var gotArgv []string
	origExec := execFunc
	execFunc = func(path string, argv []string, env []string) error {
		gotArgv = argv
		return nil
	}
	t.Cleanup(func() { execFunc = origExec })

	require.NoError(t, c.Connect(ConnectOptions{}))

	assert.Contains(t, gotArgv, "ForwardAgent=yes")
	// X11 and trusted X11 always travel together.
	assert.Contains(t, gotArgv, "ForwardX11=yes")
	assert.Contains(t, gotArgv, "ForwardX11Trusted=yes")
}

func TestConnectWithoutClientBinary(t *testing.T) {
	m := testMachine(t)
	c, _ := newTestCommunicator(t, m)

	origLook := lookPathFunc
	lookPathFunc = func(string) (string, error) { return "", errors.New("not found") }
	t.Cleanup(func() { lookPathFunc = origLook })

	err := c.Connect(ConnectOptions{})

	var unavailable *UnavailableError
	assert.ErrorAs(t, err, &unavailable)
}

func TestConnectFailsWithoutDetectablePort(t *testing.T) {
	m := testMachine(t)
	m.SSH.Port = 0
	c, _ := newTestCommunicator(t, m)

	origLook := lookPathFunc
	lookPathFunc = func(string) (string, error) { return "/usr/bin/ssh", nil }
	t.Cleanup(func() { lookPathFunc = origLook })

	execCalled := false
	origExec := execFunc
	execFunc = func(string, []string, []string) error {
		execCalled = true
		return nil
	}
	t.Cleanup(func() { execFunc = origExec })

	err := c.Connect(ConnectOptions{})

	var notDetected *PortNotDetectedError
	assert.ErrorAs(t, err, &notDetected)
	assert.False(t, execCalled, "must not replace the process without a port")
}

func TestBuildClientArgsPortOverride(t *testing.T) {
	m := testMachine(t)
	args := BuildClientArgs(m, "/keys/id_test", 4444)

	assert.Equal(t, "-p", args[0])
	assert.Equal(t, "4444", args[1])
	assert.Equal(t, "tester@127.0.0.1", args[len(args)-1])
}
