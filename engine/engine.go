package engine

import "context"

// Side of a position or order.
type Side string

const (
	Long  Side = "long"
	Short Side = "short"
)

// Opposite returns the side that reduces a position held on s.
func (s Side) Opposite() Side {
	if s == Long {
		return Short
	}
	return Long
}

// Position is a read-only snapshot of one open position, fetched fresh
// for every admission decision.
type Position struct {
	Symbol           string
	Side             Side
	Size             float64
	EntryPrice       float64
	Leverage         float64
	Margin           float64
	LiquidationPrice float64
	MarkPrice        float64
	UnrealizedPnL    float64
	PositionValue    float64
}

// AccountInfo is a point-in-time account snapshot.
type AccountInfo struct {
	Balance       float64
	TotalMargin   float64
	UnrealizedPnL float64
	Equity        float64
	RealizedPnL   float64
	TotalPnL      float64
}

// OrderRequest is what the dispatcher hands to the engine. Notional is
// the order size in account currency; Size is in contracts. One of the
// two is set.
type OrderRequest struct {
	Symbol     string
	Side       Side
	Size       float64
	Notional   float64
	Leverage   float64
	ReduceOnly bool
	ClientID   string
}

// OrderResult is the engine's raw answer to an order request, before
// the dispatcher normalizes it.
type OrderResult struct {
	OrderID        string
	Filled         bool
	FilledPrice    float64
	FilledQuantity float64
}

// Engine is the narrow boundary to a market-specific trading engine
// (crypto, securities). Implementations own connectivity and retries;
// this module never talks to an exchange directly.
type Engine interface {
	GetPositions(ctx context.Context) ([]Position, error)
	GetAccount(ctx context.Context) (AccountInfo, error)
	PlaceOrder(ctx context.Context, req OrderRequest) (OrderResult, error)
	CancelOrder(ctx context.Context, orderID string) (OrderResult, error)
	AdjustLeverage(ctx context.Context, symbol string, leverage float64) error
}

// PositionCloser is implemented by engines with a native close-position
// call. The dispatcher uses it when available and otherwise synthesizes
// a reduce-only market order itself.
type PositionCloser interface {
	ClosePosition(ctx context.Context, symbol string, size float64) (OrderResult, error)
}
