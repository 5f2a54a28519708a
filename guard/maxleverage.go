package guard

import (
	"context"
	"fmt"

	"github.com/rustyeddy/tradeguard/trade"
)

const defaultMaxLeverage = 10.0

// MaxLeverage bounds the leverage of new orders and of explicit
// leverage adjustments. Per-symbol overrides win over the global limit.
type MaxLeverage struct {
	max       float64
	overrides map[string]float64
}

func NewMaxLeverage(opts Options) *MaxLeverage {
	return &MaxLeverage{
		max:       opts.Float("maxLeverage", defaultMaxLeverage),
		overrides: opts.FloatMap("symbolOverrides"),
	}
}

func (g *MaxLeverage) Name() string { return "max-leverage" }

func (g *MaxLeverage) Check(ctx context.Context, gc *Context) (string, error) {
	op := gc.Operation

	var key string
	switch op.Action {
	case trade.PlaceOrder:
		key = "leverage"
	case trade.AdjustLeverage:
		key = "newLeverage"
	default:
		return "", nil
	}

	lev, ok := op.Float(key)
	if !ok {
		return "", nil
	}
	symbol, ok := op.Symbol()
	if !ok {
		return "", nil
	}

	limit := g.max
	if override, ok := g.overrides[symbol]; ok {
		limit = override
	}

	if lev > limit {
		return fmt.Sprintf("leverage %gx exceeds the %gx limit for %s", lev, limit, symbol), nil
	}
	return "", nil
}
