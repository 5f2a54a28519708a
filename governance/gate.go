// Package governance enforces the externally produced release gate in
// front of risk-increasing trade actions. Closing, cancelling and
// deleveraging are never gated: the gate must not be able to trap an
// account in a position it wants out of.
package governance

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rustyeddy/tradeguard/eventlog"
	"github.com/rustyeddy/tradeguard/trade"
)

// errPrefix marks every hard block thrown by the gate.
const errPrefix = "[governance:release-gate]"

// Config controls gate policy. Policy lives in config, not code: the
// same gate blocks or warns depending on how the deployment is wired.
type Config struct {
	StatusPath string `json:"statusPath" yaml:"statusPath"`
	// MaxAgeHours marks a status stale once its age exceeds it.
	// Zero disables the staleness check (expiry still applies).
	MaxAgeHours float64 `json:"maxAgeHours" yaml:"maxAgeHours"`
	// BlockOnExpired upgrades stale/expired/missing status from a
	// warning to a hard block for live orders.
	BlockOnExpired bool `json:"blockOnExpired" yaml:"blockOnExpired"`
}

// Gate reads the release-gate status fresh on every enforcement; there
// is no caching, so an operator flipping the file takes effect on the
// very next order.
type Gate struct {
	market string
	cfg    Config
	events eventlog.Log
	log    *zap.Logger
	now    func() time.Time
}

func NewGate(market string, cfg Config, events eventlog.Log, log *zap.Logger) *Gate {
	return &Gate{
		market: market,
		cfg:    cfg,
		events: events,
		log:    log,
		now:    time.Now,
	}
}

// Enforce checks whether action may proceed. Only placeOrder is ever
// gated. A returned error is a hard block; warnings are appended to the
// event log and the operation proceeds.
func (g *Gate) Enforce(action trade.Action, paperTrading bool) error {
	if !action.Mutating() {
		return nil
	}

	now := g.now()
	st := loadStatus(g.cfg.StatusPath)

	if st != nil && !paperTrading && !st.AllowLiveTrading {
		g.appendEvent("governance.block", map[string]any{
			"market":      g.market,
			"reason":      "allowLiveTrading=false",
			"reasonCodes": st.ReasonCodes,
		})
		return fmt.Errorf("%s live trading is not authorized (reasons: %v)", errPrefix, st.ReasonCodes)
	}

	reason, degraded := g.freshness(st, now)
	if !degraded {
		return nil
	}

	if g.cfg.BlockOnExpired && !paperTrading {
		g.appendEvent("governance.block", map[string]any{
			"market": g.market,
			"reason": reason,
		})
		return fmt.Errorf("%s %s and blockOnExpired is set", errPrefix, reason)
	}

	g.appendEvent("governance.warn", map[string]any{
		"market": g.market,
		"reason": reason,
	})
	return nil
}

// freshness classifies the status as usable or degraded (missing,
// expired, or stale).
func (g *Gate) freshness(st *Status, now time.Time) (string, bool) {
	switch {
	case st == nil:
		return "release-gate status is missing or unreadable", true
	case st.Expired(now):
		return fmt.Sprintf("release-gate status expired at %s", st.ExpiresAt.Format(time.RFC3339)), true
	case g.cfg.MaxAgeHours > 0 && st.AgeHours(now) > g.cfg.MaxAgeHours:
		return fmt.Sprintf("release-gate status is %.1fh old, older than %.1fh", st.AgeHours(now), g.cfg.MaxAgeHours), true
	}
	return "", false
}

func (g *Gate) appendEvent(eventType string, payload map[string]any) {
	if _, err := g.events.Append(eventType, payload); err != nil {
		// The event log must never be able to take trading down.
		g.log.Error("append governance event", zap.String("type", eventType), zap.Error(err))
	}
	if eventType == "governance.warn" {
		g.log.Warn("governance warning", zap.Any("payload", payload))
	} else {
		g.log.Warn("governance block", zap.Any("payload", payload))
	}
}
