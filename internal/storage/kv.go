package storage

import (
	"database/sql"
	"time"
)

// Fixed keys under which the application state is persisted.
const (
	KeyUser      = "user"
	KeyChatrooms = "chatrooms"
	KeyMessages  = "messages"
	KeyTheme     = "theme"
)

// Get returns the value stored under key, and whether it was present.
func (db *DB) Get(key string) (string, bool, error) {
	var value string
	err := db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value.
func (db *DB) Set(key, value string) error {
	_, err := db.Exec(`
		INSERT INTO kv (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`,
		key, value, time.Now().UnixMilli())
	return err
}

// Delete removes a key. Deleting an absent key is a no-op.
func (db *DB) Delete(key string) error {
	_, err := db.Exec(`DELETE FROM kv WHERE key = ?`, key)
	return err
}

// Clear removes every persisted key. Used by the full session wipe on
// logout.
func (db *DB) Clear() error {
	_, err := db.Exec(`DELETE FROM kv`)
	return err
}
