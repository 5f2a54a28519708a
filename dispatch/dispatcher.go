package dispatch

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/rustyeddy/tradeguard/engine"
	"github.com/rustyeddy/tradeguard/trade"
)

// Dispatcher is anything that can execute a trading operation. The
// guard pipeline and the governance gate both wrap one, so the whole
// admission chain composes out of this single interface.
type Dispatcher interface {
	Dispatch(ctx context.Context, op trade.Operation) (trade.Result, error)
}

// Func adapts a function to the Dispatcher interface.
type Func func(ctx context.Context, op trade.Operation) (trade.Result, error)

func (f Func) Dispatch(ctx context.Context, op trade.Operation) (trade.Result, error) {
	return f(ctx, op)
}

// EngineDispatcher translates generic operations into calls against a
// market-specific engine and normalizes the result shapes.
type EngineDispatcher struct {
	eng engine.Engine
}

func NewEngineDispatcher(eng engine.Engine) *EngineDispatcher {
	return &EngineDispatcher{eng: eng}
}

func (d *EngineDispatcher) Dispatch(ctx context.Context, op trade.Operation) (trade.Result, error) {
	switch op.Action {
	case trade.PlaceOrder:
		return d.placeOrder(ctx, op)
	case trade.ClosePosition:
		return d.closePosition(ctx, op)
	case trade.CancelOrder:
		return d.cancelOrder(ctx, op)
	case trade.AdjustLeverage:
		return d.adjustLeverage(ctx, op)
	}
	// Unknown actions are a programming error in the caller, not a
	// user-facing condition. Fail loudly.
	panic(fmt.Sprintf("dispatch: unknown operation action %q", op.Action))
}

func (d *EngineDispatcher) placeOrder(ctx context.Context, op trade.Operation) (trade.Result, error) {
	symbol, ok := op.Symbol()
	if !ok {
		return trade.Reject("placeOrder requires a symbol"), nil
	}

	side := engine.Long
	if s, ok := op.Str("side"); ok && (s == "short" || s == "sell") {
		side = engine.Short
	}

	req := engine.OrderRequest{
		Symbol:   symbol,
		Side:     side,
		ClientID: uuid.NewString(),
	}
	if size, ok := op.Float("size"); ok {
		req.Size = size
	}
	if usd, ok := orderNotional(op); ok {
		req.Notional = usd
	}
	if lev, ok := op.Float("leverage"); ok {
		req.Leverage = lev
	}

	res, err := d.eng.PlaceOrder(ctx, req)
	if err != nil {
		return trade.Reject(fmt.Sprintf("place order: %v", err)), nil
	}
	return normalize(res), nil
}

func (d *EngineDispatcher) closePosition(ctx context.Context, op trade.Operation) (trade.Result, error) {
	symbol, ok := op.Symbol()
	if !ok {
		return trade.Reject("closePosition requires a symbol"), nil
	}

	size, partial := op.Float("size")
	if !partial {
		size, partial = op.Float("qty")
	}

	// Engines with a native close take precedence.
	if closer, ok := d.eng.(engine.PositionCloser); ok {
		res, err := closer.ClosePosition(ctx, symbol, size)
		if err != nil {
			return trade.Reject(fmt.Sprintf("close position: %v", err)), nil
		}
		return normalize(res), nil
	}

	pos, err := d.findPosition(ctx, symbol)
	if err != nil {
		return trade.Reject(err.Error()), nil
	}
	if !partial || size <= 0 || size > pos.Size {
		size = pos.Size
	}

	res, err := d.eng.PlaceOrder(ctx, engine.OrderRequest{
		Symbol:     symbol,
		Side:       pos.Side.Opposite(),
		Size:       size,
		ReduceOnly: true,
		ClientID:   uuid.NewString(),
	})
	if err != nil {
		return trade.Reject(fmt.Sprintf("close position: %v", err)), nil
	}
	return normalize(res), nil
}

func (d *EngineDispatcher) cancelOrder(ctx context.Context, op trade.Operation) (trade.Result, error) {
	orderID, ok := op.Str("orderId")
	if !ok {
		orderID, ok = op.Str("order_id")
	}
	if !ok {
		return trade.Reject("cancelOrder requires an orderId"), nil
	}

	res, err := d.eng.CancelOrder(ctx, orderID)
	if err != nil {
		return trade.Reject(fmt.Sprintf("cancel order: %v", err)), nil
	}
	return normalize(res), nil
}

func (d *EngineDispatcher) adjustLeverage(ctx context.Context, op trade.Operation) (trade.Result, error) {
	symbol, ok := op.Symbol()
	if !ok {
		return trade.Reject("adjustLeverage requires a symbol"), nil
	}
	lev, ok := op.Float("newLeverage")
	if !ok {
		return trade.Reject("adjustLeverage requires newLeverage"), nil
	}

	if err := d.eng.AdjustLeverage(ctx, symbol, lev); err != nil {
		return trade.Reject(fmt.Sprintf("adjust leverage: %v", err)), nil
	}
	return trade.Result{Success: true}, nil
}

func (d *EngineDispatcher) findPosition(ctx context.Context, symbol string) (engine.Position, error) {
	positions, err := d.eng.GetPositions(ctx)
	if err != nil {
		return engine.Position{}, fmt.Errorf("get positions: %w", err)
	}
	for _, p := range positions {
		if p.Symbol == symbol && p.Size > 0 {
			return p, nil
		}
	}
	return engine.Position{}, fmt.Errorf("no open position for %s", symbol)
}

// orderNotional reads the order's account-currency size, whichever of
// the two accepted param names is used.
func orderNotional(op trade.Operation) (float64, bool) {
	if usd, ok := op.Float("usd_size"); ok {
		return usd, true
	}
	return op.Float("notional")
}

func normalize(res engine.OrderResult) trade.Result {
	status := trade.StatusPending
	if res.Filled {
		status = trade.StatusFilled
	}
	return trade.Result{
		Success: true,
		Order: &trade.Order{
			ID:             res.OrderID,
			Status:         status,
			FilledPrice:    res.FilledPrice,
			FilledQuantity: res.FilledQuantity,
		},
	}
}
