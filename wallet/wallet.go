// Package wallet is the append-only, hash-linked audit ledger of
// trading operations. Each commit's hash covers its parent, so any
// tampering with history breaks the chain visibly.
package wallet

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rustyeddy/tradeguard/trade"
)

// Commit is one immutable ledger entry.
type Commit struct {
	Hash        string          `json:"hash"`
	ParentHash  string          `json:"parentHash"`
	Time        time.Time       `json:"time"`
	Type        string          `json:"type"`
	Message     string          `json:"message"`
	Operation   trade.Operation `json:"operation"`
	ResultState map[string]any  `json:"resultState"`
}

// Summary is the answer to Status.
type Summary struct {
	Head         string
	Commits      int
	LastActivity time.Time
}

// CommitHook is the write-through durability callback, invoked
// synchronously after every commit with the full exported state.
type CommitHook func(Export) error

// Wallet holds the in-memory chain. One writer at a time; the mutex
// spans the whole hash-append-persist sequence so two commits cannot
// race for the same parent.
type Wallet struct {
	mu       sync.Mutex
	commits  []Commit
	onCommit CommitHook
	now      func() time.Time
}

func New(onCommit CommitHook) *Wallet {
	return &Wallet{onCommit: onCommit, now: time.Now}
}

// Commit appends a new entry for the given operation and resulting
// state, persists write-through, and returns the entry.
func (w *Wallet) Commit(op trade.Operation, resultState map[string]any, message, commitType string) (Commit, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	parent := ""
	if n := len(w.commits); n > 0 {
		parent = w.commits[n-1].Hash
	}

	// Millisecond precision so the hash survives storage round trips.
	ts := w.now().UTC().Truncate(time.Millisecond)

	hash, err := commitHash(parent, ts, op, resultState)
	if err != nil {
		return Commit{}, fmt.Errorf("hash commit: %w", err)
	}

	c := Commit{
		Hash:        hash,
		ParentHash:  parent,
		Time:        ts,
		Type:        commitType,
		Message:     message,
		Operation:   op,
		ResultState: resultState,
	}
	w.commits = append(w.commits, c)

	if w.onCommit != nil {
		if err := w.onCommit(w.export()); err != nil {
			return c, fmt.Errorf("persist commit %s: %w", c.Hash, err)
		}
	}
	return c, nil
}

// Log returns commits most-recent-first. limit <= 0 means all; a
// non-empty symbol keeps only commits whose operation targets it.
func (w *Wallet) Log(limit int, symbol string) []Commit {
	w.mu.Lock()
	defer w.mu.Unlock()

	var out []Commit
	for i := len(w.commits) - 1; i >= 0; i-- {
		c := w.commits[i]
		if symbol != "" {
			s, ok := c.Operation.Symbol()
			if !ok || s != symbol {
				continue
			}
		}
		out = append(out, c)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// Show returns the commit with the given hash.
func (w *Wallet) Show(hash string) (Commit, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, c := range w.commits {
		if c.Hash == hash {
			return c, true
		}
	}
	return Commit{}, false
}

// Status summarizes the chain head.
func (w *Wallet) Status() Summary {
	w.mu.Lock()
	defer w.mu.Unlock()

	s := Summary{Commits: len(w.commits)}
	if n := len(w.commits); n > 0 {
		s.Head = w.commits[n-1].Hash
		s.LastActivity = w.commits[n-1].Time
	}
	return s
}

// commitHash is a content hash over everything a commit asserts:
// parent, time, operation and resulting state. Go's JSON encoder sorts
// map keys, so the encoding is deterministic.
func commitHash(parent string, ts time.Time, op trade.Operation, resultState map[string]any) (string, error) {
	payload := struct {
		ParentHash  string          `json:"parentHash"`
		TimeMs      int64           `json:"timeMs"`
		Operation   trade.Operation `json:"operation"`
		ResultState map[string]any  `json:"resultState"`
	}{
		ParentHash:  parent,
		TimeMs:      ts.UnixMilli(),
		Operation:   op,
		ResultState: resultState,
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
