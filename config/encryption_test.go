package config

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

// writeTestKey writes an ed25519 OpenSSH key, encrypted when passphrase is set
func writeTestKey(t *testing.T, passphrase string) string {
	t.Helper()

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	var block *pem.Block
	if passphrase == "" {
		block, err = ssh.MarshalPrivateKey(priv, "test")
	} else {
		block, err = ssh.MarshalPrivateKeyWithPassphrase(priv, "test", []byte(passphrase))
	}
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "id_ed25519")
	require.NoError(t, os.WriteFile(path, pem.EncodeToMemory(block), 0600))
	return path
}

func TestEncryptionNone(t *testing.T) {
	enc := NewEncryptionManager(SecurityNone, "")
	require.NoError(t, enc.Initialize())

	out, err := enc.Encrypt([]byte("token"))
	require.NoError(t, err)
	require.Equal(t, "token", string(out))

	back, err := enc.Decrypt(out)
	require.NoError(t, err)
	require.Equal(t, "token", string(back))
}

func TestEncryptionSSHKeyRoundTrip(t *testing.T) {
	keyPath := writeTestKey(t, "")

	encrypted, err := IsSSHKeyEncrypted(keyPath)
	require.NoError(t, err)
	require.False(t, encrypted)

	enc := NewEncryptionManager(SecuritySSHKey, keyPath)
	_, err = enc.Encrypt([]byte("x"))
	require.ErrorIs(t, err, ErrNotInitialized)

	require.NoError(t, enc.Initialize())

	ct1, err := enc.Encrypt([]byte("secret-token"))
	require.NoError(t, err)
	ct2, err := enc.Encrypt([]byte("secret-token"))
	require.NoError(t, err)
	require.NotEqual(t, ct1, ct2, "nonces must differ")
	require.NotContains(t, string(ct1), "secret-token")

	// a second manager on the same key derives the same AES key
	other := NewEncryptionManager(SecuritySSHKey, keyPath)
	require.NoError(t, other.Initialize())

	plain, err := other.Decrypt(ct1)
	require.NoError(t, err)
	require.Equal(t, "secret-token", string(plain))
}

func TestEncryptionWrongKey(t *testing.T) {
	a := NewEncryptionManager(SecuritySSHKey, writeTestKey(t, ""))
	b := NewEncryptionManager(SecuritySSHKey, writeTestKey(t, ""))
	require.NoError(t, a.Initialize())
	require.NoError(t, b.Initialize())

	ct, err := a.Encrypt([]byte("token"))
	require.NoError(t, err)

	_, err = b.Decrypt(ct)
	require.Error(t, err)

	_, err = b.Decrypt([]byte("short"))
	require.Error(t, err)
}

func TestEncryptionPassphraseKey(t *testing.T) {
	keyPath := writeTestKey(t, "hunter2")

	encrypted, err := IsSSHKeyEncrypted(keyPath)
	require.NoError(t, err)
	require.True(t, encrypted)

	enc := NewEncryptionManager(SecuritySSHKey, keyPath)
	require.Error(t, enc.Initialize(), "passphrase required")

	enc.SetPassphrase("wrong")
	require.Error(t, enc.Initialize())

	enc.SetPassphrase("hunter2")
	require.NoError(t, enc.Initialize())
}

func TestEncryptionUnknownMethod(t *testing.T) {
	enc := NewEncryptionManager(SecurityMethod("rot13"), "")
	require.Error(t, enc.Initialize())
	_, err := enc.Encrypt([]byte("x"))
	require.Error(t, err)
}
