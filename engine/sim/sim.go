// Package sim is an in-memory trading engine used by the demo command
// and by pipeline tests. It fills market orders instantly at the stored
// mark price and keeps account margin/equity consistent.
package sim

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/rustyeddy/tradeguard/engine"
)

var (
	ErrNoMarkPrice   = errors.New("no mark price for symbol")
	ErrNoPosition    = errors.New("no open position for symbol")
	ErrOrderNotFound = errors.New("order not found")
)

type Engine struct {
	mu        sync.Mutex
	balance   float64
	realized  float64
	marks     map[string]float64
	positions map[string]*engine.Position
	orders    map[string]engine.OrderResult
}

func New(balance float64) *Engine {
	return &Engine{
		balance:   balance,
		marks:     make(map[string]float64),
		positions: make(map[string]*engine.Position),
		orders:    make(map[string]engine.OrderResult),
	}
}

// SetMark sets the mark price used to value positions and fill orders.
func (e *Engine) SetMark(symbol string, price float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.marks[symbol] = price
	if p, ok := e.positions[symbol]; ok {
		e.revalue(p)
	}
}

func (e *Engine) revalue(p *engine.Position) {
	mark := e.marks[p.Symbol]
	p.MarkPrice = mark
	p.PositionValue = p.Size * mark
	diff := mark - p.EntryPrice
	if p.Side == engine.Short {
		diff = -diff
	}
	p.UnrealizedPnL = diff * p.Size
}

func (e *Engine) GetPositions(ctx context.Context) ([]engine.Position, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]engine.Position, 0, len(e.positions))
	for _, p := range e.positions {
		out = append(out, *p)
	}
	return out, nil
}

func (e *Engine) GetAccount(ctx context.Context) (engine.AccountInfo, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var margin, unreal float64
	for _, p := range e.positions {
		margin += p.Margin
		unreal += p.UnrealizedPnL
	}
	return engine.AccountInfo{
		Balance:       e.balance,
		TotalMargin:   margin,
		UnrealizedPnL: unreal,
		Equity:        e.balance + unreal,
		RealizedPnL:   e.realized,
		TotalPnL:      e.realized + unreal,
	}, nil
}

func (e *Engine) PlaceOrder(ctx context.Context, req engine.OrderRequest) (engine.OrderResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	mark, ok := e.marks[req.Symbol]
	if !ok {
		return engine.OrderResult{}, fmt.Errorf("%w: %s", ErrNoMarkPrice, req.Symbol)
	}

	size := req.Size
	if size == 0 && req.Notional > 0 {
		size = req.Notional / mark
	}
	if size <= 0 {
		return engine.OrderResult{}, errors.New("order size must be positive")
	}

	if req.ReduceOnly {
		return e.reduce(req, size, mark)
	}

	lev := req.Leverage
	if lev <= 0 {
		lev = 1
	}

	p, ok := e.positions[req.Symbol]
	if !ok || p.Size == 0 {
		p = &engine.Position{
			Symbol:     req.Symbol,
			Side:       req.Side,
			Size:       size,
			EntryPrice: mark,
			Leverage:   lev,
		}
		e.positions[req.Symbol] = p
	} else if p.Side == req.Side {
		total := p.Size + size
		p.EntryPrice = (p.EntryPrice*p.Size + mark*size) / total
		p.Size = total
	} else {
		return engine.OrderResult{}, errors.New("opposite-side order must be reduce-only")
	}
	p.Margin = p.Size * mark / p.Leverage
	e.revalue(p)

	res := e.fill(req.ClientID, mark, size)
	return res, nil
}

func (e *Engine) reduce(req engine.OrderRequest, size, mark float64) (engine.OrderResult, error) {
	p, ok := e.positions[req.Symbol]
	if !ok || p.Size == 0 {
		return engine.OrderResult{}, fmt.Errorf("%w: %s", ErrNoPosition, req.Symbol)
	}
	if size > p.Size {
		size = p.Size
	}

	diff := mark - p.EntryPrice
	if p.Side == engine.Short {
		diff = -diff
	}
	pnl := diff * size
	e.balance += pnl
	e.realized += pnl

	p.Size -= size
	if p.Size == 0 {
		delete(e.positions, req.Symbol)
	} else {
		p.Margin = p.Size * mark / p.Leverage
		e.revalue(p)
	}

	return e.fill(req.ClientID, mark, size), nil
}

func (e *Engine) fill(clientID string, price, qty float64) engine.OrderResult {
	id := clientID
	if id == "" {
		id = uuid.NewString()
	}
	res := engine.OrderResult{
		OrderID:        id,
		Filled:         true,
		FilledPrice:    price,
		FilledQuantity: qty,
	}
	e.orders[id] = res
	return res
}

func (e *Engine) CancelOrder(ctx context.Context, orderID string) (engine.OrderResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	res, ok := e.orders[orderID]
	if !ok {
		return engine.OrderResult{}, fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
	}
	// Fills are instant here, so cancel is only bookkeeping.
	delete(e.orders, orderID)
	res.Filled = false
	return res, nil
}

func (e *Engine) AdjustLeverage(ctx context.Context, symbol string, leverage float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if leverage <= 0 {
		return errors.New("leverage must be positive")
	}
	if p, ok := e.positions[symbol]; ok {
		p.Leverage = leverage
		p.Margin = p.Size * p.MarkPrice / leverage
	}
	return nil
}
