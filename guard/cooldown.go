package guard

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const defaultCooldown = 60 * time.Second

// Cooldown enforces a minimum interval between consecutive placeOrder
// attempts on the same symbol. Every check stamps the attempt, allowed
// or not, so a rejected burst cannot drain the timer.
type Cooldown struct {
	interval time.Duration

	mu   sync.Mutex
	last map[string]time.Time
	now  func() time.Time
}

func NewCooldown(opts Options) *Cooldown {
	return &Cooldown{
		interval: time.Duration(opts.Float("minIntervalMs", float64(defaultCooldown.Milliseconds()))) * time.Millisecond,
		last:     make(map[string]time.Time),
		now:      time.Now,
	}
}

func (g *Cooldown) Name() string { return "cooldown" }

func (g *Cooldown) Check(ctx context.Context, gc *Context) (string, error) {
	op := gc.Operation
	if !op.Action.Mutating() {
		return "", nil
	}
	symbol, ok := op.Symbol()
	if !ok {
		return "", nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	prev, seen := g.last[symbol]
	g.last[symbol] = now

	if seen {
		if elapsed := now.Sub(prev); elapsed < g.interval {
			return fmt.Sprintf("cooldown on %s: %s since last trade, need %s",
				symbol, elapsed.Round(time.Millisecond), g.interval), nil
		}
	}
	return "", nil
}
