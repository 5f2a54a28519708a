package wallet

import (
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS commits (
	position INTEGER NOT NULL,
	hash TEXT PRIMARY KEY,
	parent_hash TEXT NOT NULL,
	time_ms INTEGER NOT NULL,
	type TEXT NOT NULL,
	message TEXT NOT NULL,
	operation TEXT NOT NULL,
	result_state TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_commits_position ON commits(position);
`

// Store is the SQLite persistence collaborator behind the wallet's
// write-through hook. It owns the actual file write; the wallet only
// knows the CommitHook signature.
type Store struct {
	db *sql.DB
}

func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Save persists an export. Commits are immutable so re-inserting an
// already stored hash is a no-op, which makes Save idempotent and cheap
// for the common one-new-commit case.
func (s *Store) Save(ex Export) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i, c := range ex.Commits {
		op, err := json.Marshal(c.Operation)
		if err != nil {
			return err
		}
		state, err := json.Marshal(c.ResultState)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(`
			INSERT OR IGNORE INTO commits
			(position, hash, parent_hash, time_ms, type, message, operation, result_state)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			i, c.Hash, c.ParentHash, c.Time.UnixMilli(), c.Type, c.Message,
			string(op), string(state),
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Load reads the stored chain, oldest first, ready for Restore.
func (s *Store) Load() (Export, error) {
	rows, err := s.db.Query(`
		SELECT hash, parent_hash, time_ms, type, message, operation, result_state
		FROM commits
		ORDER BY position ASC`)
	if err != nil {
		return Export{}, err
	}
	defer rows.Close()

	var ex Export
	for rows.Next() {
		var (
			c      Commit
			timeMs int64
			op     string
			state  string
		)
		if err := rows.Scan(&c.Hash, &c.ParentHash, &timeMs, &c.Type, &c.Message, &op, &state); err != nil {
			return Export{}, err
		}
		c.Time = time.UnixMilli(timeMs).UTC()
		if err := json.Unmarshal([]byte(op), &c.Operation); err != nil {
			return Export{}, err
		}
		if err := json.Unmarshal([]byte(state), &c.ResultState); err != nil {
			return Export{}, err
		}
		ex.Commits = append(ex.Commits, c)
	}
	if err := rows.Err(); err != nil {
		return Export{}, err
	}
	return ex, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
