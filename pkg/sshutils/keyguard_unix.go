//go:build !windows

package sshutils

import (
	"os"
	"syscall"

	"github.com/skiffworks/skiff/pkg/logger"
)

// chmodFunc is swapped out by tests to simulate a repair that does not take.
var chmodFunc = os.Chmod

const securePrivateKeyMode = os.FileMode(0o600)

// EnsureKeyPermissions checks that the private key at path is only readable by
// its owner, repairing the mode to 0600 when the acting process owns the file.
// A repair that does not stick is a hard failure: an overly permissive key is
// rejected by sshd in a way that looks like an authentication hang.
//
// Files owned by another user are left untouched and not reported.
func EnsureKeyPermissions(path string) error {
	l := logger.Get()

	info, err := os.Stat(path)
	if err != nil {
		if os.IsPermission(err) {
			return &KeyBadPermissionsError{KeyPath: path}
		}
		return err
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok || int(stat.Uid) != os.Geteuid() {
		return nil
	}

	if info.Mode().Perm() == securePrivateKeyMode {
		return nil
	}

	l.Debugf("private key %s has mode %04o, repairing to 0600", path, info.Mode().Perm())
	if err := chmodFunc(path, securePrivateKeyMode); err != nil {
		if os.IsPermission(err) {
			return &KeyBadPermissionsError{KeyPath: path}
		}
		return err
	}

	info, err = os.Stat(path)
	if err != nil {
		if os.IsPermission(err) {
			return &KeyBadPermissionsError{KeyPath: path}
		}
		return err
	}
	if info.Mode().Perm() != securePrivateKeyMode {
		return &KeyBadPermissionsError{KeyPath: path}
	}

	return nil
}
