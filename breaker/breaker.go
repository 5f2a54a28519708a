// Package breaker implements the daily-loss circuit breaker. It is
// deliberately not wired into the dispatch path: callers consult it
// before submitting, and nothing short of elapsed time clears a trip.
package breaker

import (
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

const (
	defaultMaxDailyLossPct = 0.05
	defaultCooldown        = 24 * time.Hour
	window                 = 24 * time.Hour
)

// Decision is the answer to a Check call.
type Decision struct {
	Allowed bool
	Reason  string
}

type realizedEntry struct {
	at  time.Time
	pnl decimal.Decimal
}

// CircuitBreaker tracks realized PnL over a rolling 24h window plus the
// latest unrealized snapshot, and halts trading for a cooldown once the
// combined daily loss crosses the limit.
type CircuitBreaker struct {
	maxDailyLossPct decimal.Decimal
	cooldown        time.Duration

	mu         sync.Mutex
	realized   []realizedEntry
	unrealized decimal.Decimal
	trippedAt  time.Time
	now        func() time.Time
}

// Option tweaks a breaker at construction.
type Option func(*CircuitBreaker)

// WithMaxDailyLossPct sets the loss fraction (0.05 = 5%) that trips the
// breaker.
func WithMaxDailyLossPct(pct float64) Option {
	return func(cb *CircuitBreaker) {
		cb.maxDailyLossPct = decimal.NewFromFloat(pct)
	}
}

// WithCooldown sets how long a trip holds.
func WithCooldown(d time.Duration) Option {
	return func(cb *CircuitBreaker) { cb.cooldown = d }
}

func New(opts ...Option) *CircuitBreaker {
	cb := &CircuitBreaker{
		maxDailyLossPct: decimal.NewFromFloat(defaultMaxDailyLossPct),
		cooldown:        defaultCooldown,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(cb)
	}
	return cb
}

// RecordPnL appends a realized PnL event at the current time.
func (cb *CircuitBreaker) RecordPnL(amount float64) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.realized = append(cb.realized, realizedEntry{
		at:  cb.now(),
		pnl: decimal.NewFromFloat(amount),
	})
	cb.prune(cb.now())
}

// UpdateUnrealizedPnL replaces the unrealized snapshot. Snapshots never
// accumulate; only the most recent one counts.
func (cb *CircuitBreaker) UpdateUnrealizedPnL(value float64) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.unrealized = decimal.NewFromFloat(value)
}

// Check reports whether trading is currently allowed at the given
// account equity. It may trip the breaker as a side effect.
func (cb *CircuitBreaker) Check(currentEquity float64) Decision {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	now := cb.now()

	if !cb.trippedAt.IsZero() {
		until := cb.trippedAt.Add(cb.cooldown)
		if now.Before(until) {
			return Decision{
				Allowed: false,
				Reason: fmt.Sprintf("circuit breaker tripped, trading halted for another %.1fh",
					until.Sub(now).Hours()),
			}
		}
		cb.trippedAt = time.Time{}
	}

	// Fail closed: with no usable equity figure the loss ratio is
	// meaningless, so risk cannot be assessed at all.
	if currentEquity <= 0 {
		return Decision{Allowed: false, Reason: "cannot assess risk: account equity is not positive"}
	}

	cb.prune(now)
	total := cb.unrealized
	for _, e := range cb.realized {
		total = total.Add(e.pnl)
	}

	if total.IsNegative() {
		equity := decimal.NewFromFloat(currentEquity)
		lossPct := total.Abs().Div(equity)
		if lossPct.GreaterThanOrEqual(cb.maxDailyLossPct) {
			cb.trippedAt = now
			return Decision{
				Allowed: false,
				Reason: fmt.Sprintf("daily loss %s%% reached the %s%% limit, trading halted for %s",
					lossPct.Mul(decimal.NewFromInt(100)).StringFixed(2),
					cb.maxDailyLossPct.Mul(decimal.NewFromInt(100)).StringFixed(2),
					cb.cooldown),
			}
		}
	}

	return Decision{Allowed: true}
}

// prune drops realized entries older than the rolling window. Callers
// hold the mutex.
func (cb *CircuitBreaker) prune(now time.Time) {
	cutoff := now.Add(-window)
	kept := cb.realized[:0]
	for _, e := range cb.realized {
		if e.at.After(cutoff) {
			kept = append(kept, e)
		}
	}
	cb.realized = kept
}
