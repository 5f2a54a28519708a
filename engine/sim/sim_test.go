package sim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradeguard/engine"
)

func TestPlaceAndValueLongPosition(t *testing.T) {
	t.Parallel()

	e := New(10000)
	e.SetMark("BTCUSDT", 50000)
	ctx := context.Background()

	res, err := e.PlaceOrder(ctx, engine.OrderRequest{
		Symbol:   "BTCUSDT",
		Side:     engine.Long,
		Notional: 2000,
		Leverage: 4,
	})
	require.NoError(t, err)
	assert.True(t, res.Filled)
	assert.InDelta(t, 0.04, res.FilledQuantity, 1e-9)

	positions, err := e.GetPositions(ctx)
	require.NoError(t, err)
	require.Len(t, positions, 1)
	p := positions[0]
	assert.InDelta(t, 2000, p.PositionValue, 1e-6)
	assert.InDelta(t, 500, p.Margin, 1e-6)
	assert.InDelta(t, 0, p.UnrealizedPnL, 1e-9)

	// Mark moves up 10%: long gains.
	e.SetMark("BTCUSDT", 55000)
	positions, _ = e.GetPositions(ctx)
	assert.InDelta(t, 200, positions[0].UnrealizedPnL, 1e-6)

	account, err := e.GetAccount(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 10200, account.Equity, 1e-6)
	assert.InDelta(t, 10000, account.Balance, 1e-6)
}

func TestReduceOnlyRealizesPnL(t *testing.T) {
	t.Parallel()

	e := New(10000)
	e.SetMark("ETHUSDT", 2000)
	ctx := context.Background()

	_, err := e.PlaceOrder(ctx, engine.OrderRequest{
		Symbol: "ETHUSDT", Side: engine.Long, Size: 2,
	})
	require.NoError(t, err)

	e.SetMark("ETHUSDT", 2100)
	res, err := e.PlaceOrder(ctx, engine.OrderRequest{
		Symbol: "ETHUSDT", Side: engine.Short, Size: 1, ReduceOnly: true,
	})
	require.NoError(t, err)
	assert.InDelta(t, 1, res.FilledQuantity, 1e-9)

	account, _ := e.GetAccount(ctx)
	assert.InDelta(t, 10100, account.Balance, 1e-6, "100 realized on the closed half")
	assert.InDelta(t, 100, account.RealizedPnL, 1e-6)

	positions, _ := e.GetPositions(ctx)
	require.Len(t, positions, 1)
	assert.InDelta(t, 1, positions[0].Size, 1e-9)
}

func TestReduceOnlyWithoutPosition(t *testing.T) {
	t.Parallel()

	e := New(10000)
	e.SetMark("BTCUSDT", 50000)

	_, err := e.PlaceOrder(context.Background(), engine.OrderRequest{
		Symbol: "BTCUSDT", Side: engine.Short, Size: 1, ReduceOnly: true,
	})
	assert.ErrorIs(t, err, ErrNoPosition)
}

func TestUnknownSymbolRefused(t *testing.T) {
	t.Parallel()

	e := New(10000)
	_, err := e.PlaceOrder(context.Background(), engine.OrderRequest{
		Symbol: "XRPUSDT", Side: engine.Long, Size: 1,
	})
	assert.ErrorIs(t, err, ErrNoMarkPrice)
}

func TestAdjustLeverageRecomputesMargin(t *testing.T) {
	t.Parallel()

	e := New(10000)
	e.SetMark("BTCUSDT", 50000)
	ctx := context.Background()

	_, err := e.PlaceOrder(ctx, engine.OrderRequest{
		Symbol: "BTCUSDT", Side: engine.Long, Notional: 2000, Leverage: 2,
	})
	require.NoError(t, err)

	require.NoError(t, e.AdjustLeverage(ctx, "BTCUSDT", 4))
	positions, _ := e.GetPositions(ctx)
	assert.InDelta(t, 4, positions[0].Leverage, 1e-9)
	assert.InDelta(t, 500, positions[0].Margin, 1e-6)
}
