//go:build !windows

package sshutils

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeKeyFile(t *testing.T, mode os.FileMode) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "id_test")
	require.NoError(t, os.WriteFile(path, []byte("key material"), 0o600))
	require.NoError(t, os.Chmod(path, mode))
	return path
}

func TestEnsureKeyPermissionsRepairsMode(t *testing.T) {
	path := writeKeyFile(t, 0o644)

	err := EnsureKeyPermissions(path)
	assert.NoError(t, err)

	info, statErr := os.Stat(path)
	require.NoError(t, statErr)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestEnsureKeyPermissionsAlreadySecure(t *testing.T) {
	path := writeKeyFile(t, 0o600)
	assert.NoError(t, EnsureKeyPermissions(path))
}

func TestEnsureKeyPermissionsRepairDoesNotStick(t *testing.T) {
	path := writeKeyFile(t, 0o644)

	// Simulate a chmod that silently has no effect, as seen on some mounted
	// filesystems.
	orig := chmodFunc
	chmodFunc = func(string, os.FileMode) error { return nil }
	defer func() { chmodFunc = orig }()

	err := EnsureKeyPermissions(path)
	var badPerms *KeyBadPermissionsError
	require.ErrorAs(t, err, &badPerms)
	assert.Equal(t, path, badPerms.KeyPath)
}

func TestEnsureKeyPermissionsChmodDenied(t *testing.T) {
	path := writeKeyFile(t, 0o644)

	orig := chmodFunc
	chmodFunc = func(string, os.FileMode) error { return os.ErrPermission }
	defer func() { chmodFunc = orig }()

	err := EnsureKeyPermissions(path)
	var badPerms *KeyBadPermissionsError
	assert.ErrorAs(t, err, &badPerms)
}

func TestEnsureKeyPermissionsMissingFile(t *testing.T) {
	err := EnsureKeyPermissions(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	var badPerms *KeyBadPermissionsError
	assert.False(t, errors.As(err, &badPerms), "missing file is not a permissions failure")
}
