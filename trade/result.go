package trade

// OrderStatus is the normalized fill state reported back to callers.
type OrderStatus string

const (
	StatusFilled  OrderStatus = "filled"
	StatusPending OrderStatus = "pending"
)

// Order is the normalized view of whatever the engine returned.
type Order struct {
	ID             string      `json:"id"`
	Status         OrderStatus `json:"status"`
	FilledPrice    float64     `json:"filledPrice,omitempty"`
	FilledQuantity float64     `json:"filledQuantity,omitempty"`
}

// Result is the uniform outcome of a dispatched operation. Guard and
// engine failures are reported here, not as Go errors; only governance
// hard blocks surface as errors.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Order   *Order `json:"order,omitempty"`
}

// Reject builds a failed result with the given reason.
func Reject(reason string) Result {
	return Result{Success: false, Error: reason}
}
