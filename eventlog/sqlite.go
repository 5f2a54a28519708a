package eventlog

import (
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/tradeguard/id"
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	event_id TEXT NOT NULL,
	time DATETIME NOT NULL,
	type TEXT NOT NULL,
	payload TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_events_type ON events(type);
`

// SQLite is a durable Log so governance events survive restarts.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}
	return &SQLite{db: db}, nil
}

func (l *SQLite) Append(eventType string, payload map[string]any) (Entry, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Entry{}, err
	}

	e := Entry{
		ID:      id.New(),
		Time:    time.Now().UTC(),
		Type:    eventType,
		Payload: payload,
	}
	res, err := l.db.Exec(`
		INSERT INTO events (event_id, time, type, payload)
		VALUES (?, ?, ?, ?)`,
		e.ID, e.Time, e.Type, string(raw),
	)
	if err != nil {
		return Entry{}, err
	}
	e.Seq, err = res.LastInsertId()
	if err != nil {
		return Entry{}, err
	}
	return e, nil
}

// ListByType returns events of one type, oldest first.
func (l *SQLite) ListByType(eventType string) ([]Entry, error) {
	rows, err := l.db.Query(`
		SELECT seq, event_id, time, type, payload
		FROM events
		WHERE type = ?
		ORDER BY seq ASC`, eventType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e   Entry
			raw string
		)
		if err := rows.Scan(&e.Seq, &e.ID, &e.Time, &e.Type, &raw); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(raw), &e.Payload); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (l *SQLite) Close() error {
	return l.db.Close()
}
