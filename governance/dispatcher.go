package governance

import (
	"context"

	"github.com/rustyeddy/tradeguard/dispatch"
	"github.com/rustyeddy/tradeguard/trade"
)

// GatedDispatcher applies release-gate enforcement transparently at the
// dispatch boundary. Only placeOrder is checked; everything else goes
// straight through to the wrapped dispatcher.
type GatedDispatcher struct {
	gate  *Gate
	next  dispatch.Dispatcher
	paper bool
}

func NewGatedDispatcher(gate *Gate, next dispatch.Dispatcher, paperTrading bool) *GatedDispatcher {
	return &GatedDispatcher{gate: gate, next: next, paper: paperTrading}
}

func (d *GatedDispatcher) Dispatch(ctx context.Context, op trade.Operation) (trade.Result, error) {
	if err := d.gate.Enforce(op.Action, d.paper); err != nil {
		return trade.Result{}, err
	}
	return d.next.Dispatch(ctx, op)
}
