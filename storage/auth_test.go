package storage

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"

	"chatdesk/config"
)

func sshEncryption(t *testing.T) *config.EncryptionManager {
	t.Helper()

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	block, err := ssh.MarshalPrivateKey(priv, "")
	require.NoError(t, err)

	keyPath := filepath.Join(t.TempDir(), "id_ed25519")
	require.NoError(t, os.WriteFile(keyPath, pem.EncodeToMemory(block), 0600))

	enc := config.NewEncryptionManager(config.SecuritySSHKey, keyPath)
	require.NoError(t, enc.Initialize())
	return enc
}

func TestAuthStoreSaveLoadClear(t *testing.T) {
	store, err := NewAuthStore(t.TempDir(), nil)
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Load()
	require.ErrorIs(t, err, ErrNoSession)

	saved := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Save(StoredSession{
		Token:     "tok-1",
		Email:     "ada@example.com",
		FirstName: "Ada",
		LastName:  "Lovelace",
		SavedAt:   saved,
	}))

	got, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, "tok-1", got.Token)
	require.Equal(t, "ada@example.com", got.Email)
	require.Equal(t, "Lovelace", got.LastName)
	require.True(t, saved.Equal(got.SavedAt))

	// only one session is ever kept
	require.NoError(t, store.Save(StoredSession{Token: "tok-2", Email: "bob@example.com"}))
	got, err = store.Load()
	require.NoError(t, err)
	require.Equal(t, "tok-2", got.Token)
	require.Equal(t, "bob@example.com", got.Email)

	require.NoError(t, store.Clear())
	_, err = store.Load()
	require.ErrorIs(t, err, ErrNoSession)
}

func TestAuthStoreRejectsEmptyToken(t *testing.T) {
	store, err := NewAuthStore(t.TempDir(), nil)
	require.NoError(t, err)
	defer store.Close()

	require.Error(t, store.Save(StoredSession{Email: "a@b.c"}))
}

func TestAuthStorePersistsAcrossOpens(t *testing.T) {
	dir := t.TempDir()
	enc := sshEncryption(t)

	store, err := NewAuthStore(dir, enc)
	require.NoError(t, err)
	require.NoError(t, store.Save(StoredSession{Token: "secret-token", Email: "a@b.c"}))
	require.NoError(t, store.Close())

	store, err = NewAuthStore(dir, enc)
	require.NoError(t, err)
	defer store.Close()

	got, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, "secret-token", got.Token)
}

func TestAuthStoreMethodChangeDropsSession(t *testing.T) {
	dir := t.TempDir()

	plain, err := NewAuthStore(dir, nil)
	require.NoError(t, err)
	require.NoError(t, plain.Save(StoredSession{Token: "tok", Email: "a@b.c"}))
	require.NoError(t, plain.Close())

	encrypted, err := NewAuthStore(dir, sshEncryption(t))
	require.NoError(t, err)
	defer encrypted.Close()

	_, err = encrypted.Load()
	require.ErrorIs(t, err, ErrNoSession)

	// the stale row is gone for good
	var n int
	require.NoError(t, encrypted.db.QueryRow(`SELECT COUNT(*) FROM session`).Scan(&n))
	require.Zero(t, n)
}
