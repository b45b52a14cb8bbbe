package store

import (
	"database/sql"
	"errors"
	"time"
)

// sessionKey is the single slot the cached auth session lives under.
const sessionKey = "session"

// SaveSession caches the serialized auth session.
func (db *DB) SaveSession(value []byte) error {
	_, err := db.Exec(`
		INSERT INTO auth_session (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		sessionKey, string(value), time.Now().UnixMilli())
	return err
}

// GetSession returns the cached auth session, or ErrNotFound.
func (db *DB) GetSession() ([]byte, error) {
	var value string
	err := db.QueryRow(`SELECT value FROM auth_session WHERE key = ?`, sessionKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(value), nil
}

// ClearSession removes all entries in the session table, scrubbing any
// stray keys along with the session slot.
func (db *DB) ClearSession() error {
	_, err := db.Exec(`DELETE FROM auth_session`)
	return err
}
