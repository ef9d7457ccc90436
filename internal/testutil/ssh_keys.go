// Package testutil holds helpers shared by tests.
package testutil

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/crypto/ssh"
)

func marshalPrivateKey(t *testing.T, key ed25519.PrivateKey) []byte {
	t.Helper()
	block, err := ssh.MarshalPrivateKey(key, "skiff test key")
	if err != nil {
		t.Fatalf("failed to marshal test key: %v", err)
	}
	return pem.EncodeToMemory(block)
}

// CreatePrivateKeyOnDisk generates a fresh ed25519 private key, writes it to a
// temp file with mode 0600, and returns its path. Cleanup rides on t.TempDir.
func CreatePrivateKeyOnDisk(t *testing.T) string {
	t.Helper()

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("failed to generate test key: %v", err)
	}

	path := filepath.Join(t.TempDir(), "id_test")
	if err := os.WriteFile(path, marshalPrivateKey(t, priv), 0o600); err != nil {
		t.Fatalf("failed to write test key: %v", err)
	}
	return path
}
