// Package eventlog is the append-only event collaborator the governance
// gate and session write to. Unlike the wallet it carries soft events
// (warns, blocks, rejections), not the hash-linked trade history.
package eventlog

import (
	"sync"
	"time"

	"github.com/rustyeddy/tradeguard/id"
)

// Entry is one appended event.
type Entry struct {
	Seq     int64
	ID      string
	Time    time.Time
	Type    string
	Payload map[string]any
}

// Log is the append-only event sink.
type Log interface {
	Append(eventType string, payload map[string]any) (Entry, error)
}

// Memory is an in-process Log, used by tests and as a fallback when no
// durable store is configured.
type Memory struct {
	mu      sync.Mutex
	entries []Entry
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{now: time.Now}
}

func (m *Memory) Append(eventType string, payload map[string]any) (Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := Entry{
		Seq:     int64(len(m.entries) + 1),
		ID:      id.New(),
		Time:    m.now(),
		Type:    eventType,
		Payload: payload,
	}
	m.entries = append(m.entries, e)
	return e, nil
}

// Entries returns a copy of everything appended so far.
func (m *Memory) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}
