package wallet

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradeguard/trade"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "wallet.db")
	s, err := NewStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	w := New(store.Save)
	_, err := w.Commit(
		trade.NewOperation(trade.PlaceOrder, map[string]any{"symbol": "BTCUSDT", "usd_size": 1500.0}),
		map[string]any{"success": true, "equity": 10234.5},
		"opened BTCUSDT", "trade",
	)
	require.NoError(t, err)
	_, err = w.Commit(
		trade.NewOperation(trade.ClosePosition, map[string]any{"symbol": "BTCUSDT"}),
		map[string]any{"success": true},
		"closed BTCUSDT", "trade",
	)
	require.NoError(t, err)

	ex, err := store.Load()
	require.NoError(t, err)
	require.Len(t, ex.Commits, 2)

	// The stored chain must verify and end at the same head.
	restored, err := Restore(ex, nil)
	require.NoError(t, err)
	assert.Equal(t, w.Status().Head, restored.Status().Head)

	got := restored.Log(1, "")[0]
	assert.Equal(t, "closed BTCUSDT", got.Message)
	assert.Equal(t, trade.ClosePosition, got.Operation.Action)
}

func TestStoreSaveIsIdempotent(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	w := New(nil)
	_, err := w.Commit(
		trade.NewOperation(trade.PlaceOrder, map[string]any{"symbol": "ETHUSDT"}),
		map[string]any{"success": true},
		"m", "trade",
	)
	require.NoError(t, err)

	ex := w.Export()
	require.NoError(t, store.Save(ex))
	require.NoError(t, store.Save(ex))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Len(t, loaded.Commits, 1)
}

func TestStoreLoadEmpty(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ex, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, ex.Commits)
}
