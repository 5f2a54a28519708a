package guard

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rustyeddy/tradeguard/dispatch"
	"github.com/rustyeddy/tradeguard/engine"
	"github.com/rustyeddy/tradeguard/trade"
)

// Pipeline runs every configured guard over a fresh account snapshot
// before handing the operation to the wrapped dispatcher. Guards run in
// list order and the first rejection wins; later guards are never
// invoked, so stateful guards only see attempts that got that far.
type Pipeline struct {
	eng    engine.Engine
	next   dispatch.Dispatcher
	guards []Guard
	log    *zap.Logger
}

// NewPipeline wraps next with the given guards. With no guards the
// pipeline is pure overhead, so the raw dispatcher is returned instead.
func NewPipeline(eng engine.Engine, next dispatch.Dispatcher, guards []Guard, log *zap.Logger) dispatch.Dispatcher {
	if len(guards) == 0 {
		return next
	}
	return &Pipeline{eng: eng, next: next, guards: guards, log: log}
}

func (p *Pipeline) Dispatch(ctx context.Context, op trade.Operation) (trade.Result, error) {
	gc, err := p.snapshot(ctx, op)
	if err != nil {
		return trade.Reject(fmt.Sprintf("assemble guard context: %v", err)), nil
	}

	for _, g := range p.guards {
		reason, err := g.Check(ctx, gc)
		if err != nil {
			// A broken guard cannot vouch for the operation.
			reason = fmt.Sprintf("guard failed: %v", err)
		}
		if reason != "" {
			p.log.Info("operation rejected by guard",
				zap.String("guard", g.Name()),
				zap.String("action", string(op.Action)),
				zap.String("reason", reason))
			return trade.Reject(fmt.Sprintf("[guard:%s] %s", g.Name(), reason)), nil
		}
	}

	return p.next.Dispatch(ctx, op)
}

// snapshot fetches positions and account concurrently; the pair is
// used once as a single atomic view and never cached.
func (p *Pipeline) snapshot(ctx context.Context, op trade.Operation) (*Context, error) {
	gc := &Context{Operation: op}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		positions, err := p.eng.GetPositions(ctx)
		if err != nil {
			return fmt.Errorf("get positions: %w", err)
		}
		gc.Positions = positions
		return nil
	})
	g.Go(func() error {
		account, err := p.eng.GetAccount(ctx)
		if err != nil {
			return fmt.Errorf("get account: %w", err)
		}
		gc.Account = account
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return gc, nil
}
