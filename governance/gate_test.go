package governance

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradeguard/eventlog"
	"github.com/rustyeddy/tradeguard/trade"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func writeStatus(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "release-gate.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func freshStatus(allowLive bool) string {
	allow := "false"
	if allowLive {
		allow = "true"
	}
	return `{
		"generatedAt": "2026-03-01T11:00:00Z",
		"expiresAt": "2026-03-02T11:00:00Z",
		"allowPaperTrading": true,
		"allowLiveTrading": ` + allow + `,
		"reasonCodes": ["manual-review"]
	}`
}

func newTestGate(t *testing.T, path string, cfg Config) (*Gate, *eventlog.Memory) {
	t.Helper()
	cfg.StatusPath = path
	events := eventlog.NewMemory()
	g := NewGate("crypto", cfg, events, zap.NewNop())
	g.now = func() time.Time { return testNow }
	return g, events
}

func TestGateIgnoresNonPlaceOrder(t *testing.T) {
	t.Parallel()

	// Status file disallows everything, but only placeOrder is gated.
	path := writeStatus(t, freshStatus(false))
	g, events := newTestGate(t, path, Config{BlockOnExpired: true})

	for _, action := range []trade.Action{trade.ClosePosition, trade.CancelOrder, trade.AdjustLeverage} {
		assert.NoError(t, g.Enforce(action, false))
	}
	assert.Empty(t, events.Entries(), "no events for non-gated actions")
}

func TestGateBlocksLivePlaceOrder(t *testing.T) {
	t.Parallel()

	path := writeStatus(t, freshStatus(false))
	g, events := newTestGate(t, path, Config{})

	err := g.Enforce(trade.PlaceOrder, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[governance:release-gate]")

	entries := events.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "governance.block", entries[0].Type)
	assert.Equal(t, "allowLiveTrading=false", entries[0].Payload["reason"])
}

func TestGatePaperTradingSkipsLiveFlag(t *testing.T) {
	t.Parallel()

	path := writeStatus(t, freshStatus(false))
	g, events := newTestGate(t, path, Config{})

	assert.NoError(t, g.Enforce(trade.PlaceOrder, true))
	assert.Empty(t, events.Entries())
}

func TestGateWarnsOnExpiredStatus(t *testing.T) {
	t.Parallel()

	path := writeStatus(t, `{
		"generatedAt": "2026-02-20T11:00:00Z",
		"expiresAt": "2026-02-21T11:00:00Z",
		"allowPaperTrading": true,
		"allowLiveTrading": true
	}`)
	g, events := newTestGate(t, path, Config{BlockOnExpired: false})

	assert.NoError(t, g.Enforce(trade.PlaceOrder, false))

	entries := events.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "governance.warn", entries[0].Type)
	assert.Contains(t, entries[0].Payload["reason"], "expired")
}

func TestGateBlocksOnExpiredWhenConfigured(t *testing.T) {
	t.Parallel()

	path := writeStatus(t, `{
		"generatedAt": "2026-02-20T11:00:00Z",
		"expiresAt": "2026-02-21T11:00:00Z",
		"allowLiveTrading": true
	}`)
	g, events := newTestGate(t, path, Config{BlockOnExpired: true})

	err := g.Enforce(trade.PlaceOrder, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[governance:release-gate]")

	entries := events.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "governance.block", entries[0].Type)
}

func TestGateWarnsOnStaleStatus(t *testing.T) {
	t.Parallel()

	// Generated 13h ago, expiry far away: stale by MaxAgeHours only.
	path := writeStatus(t, `{
		"generatedAt": "2026-02-28T23:00:00Z",
		"expiresAt": "2026-03-10T00:00:00Z",
		"allowLiveTrading": true
	}`)
	g, events := newTestGate(t, path, Config{MaxAgeHours: 12})

	assert.NoError(t, g.Enforce(trade.PlaceOrder, false))

	entries := events.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "governance.warn", entries[0].Type)
}

func TestGateDegradesOnMissingOrCorruptFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{"missing file", func(t *testing.T) string {
			return filepath.Join(t.TempDir(), "nope.json")
		}},
		{"malformed json", func(t *testing.T) string {
			return writeStatus(t, `{"generatedAt": not-json`)
		}},
		{"empty object", func(t *testing.T) string {
			return writeStatus(t, `{}`)
		}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// Warn-mode: degraded status lets the order through with a
			// warning rather than crashing the gate.
			g, events := newTestGate(t, tt.path(t), Config{BlockOnExpired: false})
			assert.NoError(t, g.Enforce(trade.PlaceOrder, false))
			entries := events.Entries()
			require.Len(t, entries, 1)
			assert.Equal(t, "governance.warn", entries[0].Type)

			// Block-mode: the same degraded status hard-blocks live.
			g, _ = newTestGate(t, tt.path(t), Config{BlockOnExpired: true})
			err := g.Enforce(trade.PlaceOrder, false)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "[governance:release-gate]")
		})
	}
}

func TestGatePaperNeverHardBlocksOnStaleness(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nope.json")
	g, events := newTestGate(t, path, Config{BlockOnExpired: true})

	assert.NoError(t, g.Enforce(trade.PlaceOrder, true))
	entries := events.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "governance.warn", entries[0].Type)
}
