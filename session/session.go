// Package session is the composition root: it assembles the governance
// gate, guard pipeline, dispatcher, circuit breaker, wallet and event
// log into the single admission path callers submit operations to.
package session

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/rustyeddy/tradeguard/breaker"
	"github.com/rustyeddy/tradeguard/config"
	"github.com/rustyeddy/tradeguard/dispatch"
	"github.com/rustyeddy/tradeguard/engine"
	"github.com/rustyeddy/tradeguard/eventlog"
	"github.com/rustyeddy/tradeguard/governance"
	"github.com/rustyeddy/tradeguard/guard"
	"github.com/rustyeddy/tradeguard/trade"
	"github.com/rustyeddy/tradeguard/wallet"
)

// Session runs one logical trading session per market. Operations go
// through Submit one at a time; the session does not support multiple
// in-flight operations against the same account.
type Session struct {
	eng        engine.Engine
	dispatcher dispatch.Dispatcher
	breaker    *breaker.CircuitBreaker
	wallet     *wallet.Wallet
	events     eventlog.Log
	log        *zap.Logger
}

// New wires the full admission chain from config. The wallet store is
// loaded first so a restart resumes the existing commit chain.
func New(cfg *config.Config, eng engine.Engine, events eventlog.Log, log *zap.Logger) (*Session, error) {
	store, err := wallet.NewStore(cfg.Wallet.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open wallet store: %w", err)
	}

	ex, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load wallet store: %w", err)
	}
	w, err := wallet.Restore(ex, store.Save)
	if err != nil {
		return nil, fmt.Errorf("restore wallet: %w", err)
	}

	guards, err := guard.NewRegistry(log).Build(cfg.Guards)
	if err != nil {
		return nil, err
	}

	var opts []breaker.Option
	if cfg.Breaker.MaxDailyLossPct > 0 {
		opts = append(opts, breaker.WithMaxDailyLossPct(cfg.Breaker.MaxDailyLossPct))
	}
	if cd, _ := cfg.Breaker.ParseCooldown(); cd > 0 {
		opts = append(opts, breaker.WithCooldown(cd))
	}

	gate := governance.NewGate(cfg.Market.Name, cfg.Governance, events, log)

	var d dispatch.Dispatcher = dispatch.NewEngineDispatcher(eng)
	d = guard.NewPipeline(eng, d, guards, log)
	d = governance.NewGatedDispatcher(gate, d, cfg.Market.PaperTrading)

	return &Session{
		eng:        eng,
		dispatcher: d,
		breaker:    breaker.New(opts...),
		wallet:     w,
		events:     events,
		log:        log,
	}, nil
}

// Breaker exposes the circuit breaker for PnL updates and pre-submit
// checks.
func (s *Session) Breaker() *breaker.CircuitBreaker { return s.breaker }

// Wallet exposes the audit ledger for log/show/status queries.
func (s *Session) Wallet() *wallet.Wallet { return s.wallet }

// Submit runs one operation through the full admission path. Guard and
// breaker rejections come back as failed results; governance hard
// blocks as errors. Dispatched attempts, successful or not, are
// committed to the wallet; rejections only reach the event log.
func (s *Session) Submit(ctx context.Context, op trade.Operation) (trade.Result, error) {
	account, err := s.eng.GetAccount(ctx)
	if err != nil {
		return trade.Reject(fmt.Sprintf("get account: %v", err)), nil
	}
	s.breaker.UpdateUnrealizedPnL(account.UnrealizedPnL)

	if d := s.breaker.Check(account.Equity); !d.Allowed {
		s.appendEvent("breaker.block", map[string]any{
			"action": string(op.Action),
			"reason": d.Reason,
		})
		return trade.Reject(fmt.Sprintf("[circuit-breaker] %s", d.Reason)), nil
	}

	res, err := s.dispatcher.Dispatch(ctx, op)
	if err != nil {
		// Governance hard block; the gate has already logged it.
		return trade.Result{}, err
	}

	if !res.Success && strings.HasPrefix(res.Error, "[guard:") {
		s.appendEvent("guard.reject", map[string]any{
			"action": string(op.Action),
			"reason": res.Error,
		})
		return res, nil
	}

	s.commit(ctx, op, res)
	return res, nil
}

// commit records a dispatched attempt and the resulting account state.
// A persistence failure is logged, not returned: the trade already
// happened and the caller needs its result.
func (s *Session) commit(ctx context.Context, op trade.Operation, res trade.Result) {
	state := map[string]any{
		"success": res.Success,
	}
	if res.Error != "" {
		state["error"] = res.Error
	}
	if res.Order != nil {
		state["order"] = map[string]any{
			"id":             res.Order.ID,
			"status":         string(res.Order.Status),
			"filledPrice":    res.Order.FilledPrice,
			"filledQuantity": res.Order.FilledQuantity,
		}
	}
	if account, err := s.eng.GetAccount(ctx); err == nil {
		state["account"] = map[string]any{
			"balance":       account.Balance,
			"equity":        account.Equity,
			"unrealizedPnL": account.UnrealizedPnL,
			"realizedPnL":   account.RealizedPnL,
		}
	}

	message := fmt.Sprintf("%s dispatched", op.Action)
	if !res.Success {
		message = fmt.Sprintf("%s failed", op.Action)
	}
	if _, err := s.wallet.Commit(op, state, message, "trade"); err != nil {
		s.log.Error("wallet commit", zap.Error(err))
	}
}

func (s *Session) appendEvent(eventType string, payload map[string]any) {
	if _, err := s.events.Append(eventType, payload); err != nil {
		s.log.Error("append event", zap.String("type", eventType), zap.Error(err))
	}
}
