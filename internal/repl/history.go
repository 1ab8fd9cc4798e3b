package repl

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// History persists session input in a sqlite database, one row per
// submitted line, so history survives across sessions.
type History struct {
	db *sql.DB
}

const historySchema = `
CREATE TABLE IF NOT EXISTS history (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	entry      TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

// OpenHistory opens or creates the history database at path.
func OpenHistory(path string) (*History, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	if _, err := db.Exec(historySchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history: %w", err)
	}
	return &History{db: db}, nil
}

func (h *History) Add(entry string) error {
	_, err := h.db.Exec("INSERT INTO history (entry) VALUES (?)", entry)
	return err
}

// Recent returns up to n entries, oldest first.
func (h *History) Recent(n int) ([]string, error) {
	rows, err := h.db.Query(
		"SELECT entry FROM (SELECT id, entry FROM history ORDER BY id DESC LIMIT ?) ORDER BY id ASC", n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []string
	for rows.Next() {
		var entry string
		if err := rows.Scan(&entry); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (h *History) Close() error {
	return h.db.Close()
}
