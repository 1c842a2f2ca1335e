package authclient

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore is a durable SessionStore backed by a local SQLite file. It
// holds at most one row; Save rewrites the whole row in a transaction so the
// tokens, the user snapshot and the issue timestamp always travel together.
type SQLiteStore struct {
	db *sql.DB
}

const sessionSchema = `
CREATE TABLE IF NOT EXISTS session (
	id            INTEGER PRIMARY KEY CHECK (id = 1),
	access_token  TEXT    NOT NULL,
	refresh_token TEXT    NOT NULL DEFAULT '',
	user_json     TEXT    NOT NULL,
	issued_at     INTEGER NOT NULL,
	local         INTEGER NOT NULL DEFAULT 0
);`

// OpenSQLiteStore opens (creating if needed) the session database at path.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	if _, err := db.Exec(sessionSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init session store: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) Save(sess Session) error {
	userJSON, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM session`); err != nil {
		return err
	}

	local := 0
	if sess.Local {
		local = 1
	}
	_, err = tx.Exec(
		`INSERT INTO session (id, access_token, refresh_token, user_json, issued_at, local)
		 VALUES (1, ?, ?, ?, ?, ?)`,
		sess.AccessToken, sess.RefreshToken, string(userJSON), sess.IssuedAt.UnixMilli(), local,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStore) Load() (Session, bool, error) {
	var (
		sess      Session
		userJSON  string
		issuedAt  int64
		localFlag int
	)
	err := s.db.QueryRow(
		`SELECT access_token, refresh_token, user_json, issued_at, local FROM session WHERE id = 1`,
	).Scan(&sess.AccessToken, &sess.RefreshToken, &userJSON, &issuedAt, &localFlag)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, err
	}

	if err := json.Unmarshal([]byte(userJSON), &sess.User); err != nil {
		return Session{}, false, fmt.Errorf("decode user: %w", err)
	}
	sess.IssuedAt = time.UnixMilli(issuedAt)
	sess.Local = localFlag != 0

	return sess, true, nil
}

func (s *SQLiteStore) Clear() error {
	_, err := s.db.Exec(`DELETE FROM session`)
	return err
}
