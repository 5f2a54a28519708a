package wallet

import (
	"errors"
	"fmt"
)

// ErrCorrupt marks an export whose hash chain does not verify. The
// wallet never repairs a broken chain; the operator has to.
var ErrCorrupt = errors.New("wallet export failed hash verification")

// Export is the full serialized chain, oldest first.
type Export struct {
	Commits []Commit `json:"commits"`
}

// Export snapshots the chain for persistence or transfer.
func (w *Wallet) Export() Export {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.export()
}

// export is Export without locking; callers hold the mutex.
func (w *Wallet) export() Export {
	commits := make([]Commit, len(w.commits))
	copy(commits, w.commits)
	return Export{Commits: commits}
}

// Restore rehydrates a wallet from an export, verifying that every
// commit's hash recomputes and links to its parent. The restored head
// is bit-identical to the head at export time.
func Restore(ex Export, onCommit CommitHook) (*Wallet, error) {
	parent := ""
	for i, c := range ex.Commits {
		if c.ParentHash != parent {
			return nil, fmt.Errorf("%w: commit %d parent %q, want %q", ErrCorrupt, i, c.ParentHash, parent)
		}
		hash, err := commitHash(c.ParentHash, c.Time, c.Operation, c.ResultState)
		if err != nil {
			return nil, fmt.Errorf("rehash commit %d: %w", i, err)
		}
		if hash != c.Hash {
			return nil, fmt.Errorf("%w: commit %d hash %q, recomputed %q", ErrCorrupt, i, c.Hash, hash)
		}
		parent = c.Hash
	}

	w := New(onCommit)
	w.commits = make([]Commit, len(ex.Commits))
	copy(w.commits, ex.Commits)
	return w, nil
}
