package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"chatdesk/config"
)

var ErrNoSession = errors.New("no stored session")

// StoredSession is the signed-in user kept between runs
type StoredSession struct {
	Token     string
	Email     string
	FirstName string
	LastName  string
	SavedAt   time.Time
}

// AuthStore keeps at most one session in <dataDir>/auth.db. The token is
// encrypted with the configured security method.
type AuthStore struct {
	db  *sql.DB
	enc *config.EncryptionManager
}

func NewAuthStore(dataDir string, enc *config.EncryptionManager) (*AuthStore, error) {
	if enc == nil {
		enc = config.NewEncryptionManager(config.SecurityNone, "")
	}

	dbPath := filepath.Join(dataDir, "auth.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &AuthStore{db: db, enc: enc}

	if err := store.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return store, nil
}

func (s *AuthStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS session (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		token BLOB NOT NULL,
		method TEXT NOT NULL,
		email TEXT NOT NULL,
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		saved_at DATETIME NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Save replaces whatever session was stored
func (s *AuthStore) Save(session StoredSession) error {
	if session.Token == "" {
		return errors.New("refusing to store an empty token")
	}
	if session.SavedAt.IsZero() {
		session.SavedAt = time.Now()
	}

	token, err := s.enc.Encrypt([]byte(session.Token))
	if err != nil {
		return fmt.Errorf("failed to encrypt token: %w", err)
	}

	query := `
	INSERT OR REPLACE INTO session (id, token, method, email, first_name, last_name, saved_at)
	VALUES (1, ?, ?, ?, ?, ?, ?)
	`

	_, err = s.db.Exec(query,
		token,
		string(s.enc.Method()),
		session.Email,
		session.FirstName,
		session.LastName,
		session.SavedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	config.Log.Debug().Str("component", "storage").Str("email", session.Email).Msg("session saved")
	return nil
}

// Load returns ErrNoSession when nothing usable is stored. A row written
// under a different security method counts as nothing and is removed.
func (s *AuthStore) Load() (*StoredSession, error) {
	query := `
	SELECT token, method, email, first_name, last_name, saved_at
	FROM session
	WHERE id = 1
	`

	var (
		session StoredSession
		token   []byte
		method  string
	)
	err := s.db.QueryRow(query).Scan(
		&token,
		&method,
		&session.Email,
		&session.FirstName,
		&session.LastName,
		&session.SavedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if config.SecurityMethod(method) != s.enc.Method() {
		config.Log.Debug().Str("component", "storage").Str("stored", method).Str("current", string(s.enc.Method())).Msg("security method changed, dropping session")
		if err := s.Clear(); err != nil {
			return nil, err
		}
		return nil, ErrNoSession
	}

	plain, err := s.enc.Decrypt(token)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt token: %w", err)
	}
	session.Token = string(plain)

	return &session, nil
}

func (s *AuthStore) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM session`); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func (s *AuthStore) Close() error {
	return s.db.Close()
}
