package guard

import (
	"context"
	"fmt"
)

const defaultMaxPercentOfEquity = 25.0

// MaxPositionSize caps a symbol's projected position value as a percent
// of account equity. Only placeOrder grows a position, so everything
// else passes.
type MaxPositionSize struct {
	maxPct float64
}

func NewMaxPositionSize(opts Options) *MaxPositionSize {
	return &MaxPositionSize{
		maxPct: opts.Float("maxPercentOfEquity", defaultMaxPercentOfEquity),
	}
}

func (g *MaxPositionSize) Name() string { return "max-position-size" }

func (g *MaxPositionSize) Check(ctx context.Context, gc *Context) (string, error) {
	op := gc.Operation
	if !op.Action.Mutating() {
		return "", nil
	}
	symbol, ok := op.Symbol()
	if !ok {
		return "", nil
	}

	var existing float64
	pos, held := gc.Position(symbol)
	if held {
		existing = pos.PositionValue
	}

	added, known := addedValue(gc, held)
	if !known {
		// Cannot estimate the order's notional; let the engine
		// validate it rather than guess.
		return "", nil
	}

	equity := gc.Account.Equity
	if equity <= 0 {
		return "cannot size position: account equity is not positive", nil
	}

	projected := existing + added
	pct := projected / equity * 100
	if pct > g.maxPct {
		return fmt.Sprintf("projected position value %.2f is %.1f%% of equity, above the %.1f%% limit",
			projected, pct, g.maxPct), nil
	}
	return "", nil
}

// addedValue estimates the order's added notional: an explicit
// usd_size/notional param wins, else size priced at the existing
// position's mark. Without either there is nothing to project.
func addedValue(gc *Context, held bool) (float64, bool) {
	op := gc.Operation
	if usd, ok := op.Float("usd_size"); ok {
		return usd, true
	}
	if usd, ok := op.Float("notional"); ok {
		return usd, true
	}
	if size, ok := op.Float("size"); ok && held {
		symbol, _ := op.Symbol()
		pos, _ := gc.Position(symbol)
		return size * pos.MarkPrice, true
	}
	return 0, false
}
