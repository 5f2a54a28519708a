package eventlog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryAppendAssignsSequence(t *testing.T) {
	t.Parallel()

	l := NewMemory()

	e1, err := l.Append("governance.warn", map[string]any{"reason": "stale"})
	require.NoError(t, err)
	e2, err := l.Append("governance.block", map[string]any{"reason": "allowLiveTrading=false"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), e1.Seq)
	assert.Equal(t, int64(2), e2.Seq)
	assert.NotEmpty(t, e1.ID)
	assert.False(t, e1.Time.IsZero())

	entries := l.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "governance.warn", entries[0].Type)
}

func TestSQLiteAppendAndList(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "events.db")
	l, err := NewSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })

	e1, err := l.Append("governance.warn", map[string]any{"reason": "stale"})
	require.NoError(t, err)
	_, err = l.Append("breaker.block", map[string]any{"reason": "daily loss"})
	require.NoError(t, err)
	e3, err := l.Append("governance.warn", map[string]any{"reason": "expired"})
	require.NoError(t, err)

	assert.Less(t, e1.Seq, e3.Seq)

	warns, err := l.ListByType("governance.warn")
	require.NoError(t, err)
	require.Len(t, warns, 2)
	assert.Equal(t, "stale", warns[0].Payload["reason"])
	assert.Equal(t, "expired", warns[1].Payload["reason"])

	none, err := l.ListByType("governance.block")
	require.NoError(t, err)
	assert.Empty(t, none)
}
