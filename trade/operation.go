package trade

// Action identifies what an Operation asks the trading engine to do.
type Action string

const (
	PlaceOrder     Action = "placeOrder"
	ClosePosition  Action = "closePosition"
	CancelOrder    Action = "cancelOrder"
	AdjustLeverage Action = "adjustLeverage"
)

// Mutating reports whether the action opens or increases market risk.
// Closing, cancelling and deleveraging only ever reduce exposure, so
// they are never gated by governance.
func (a Action) Mutating() bool {
	return a == PlaceOrder
}

// Operation is a single trading instruction. It is built once by the
// caller and passed read-only through the whole admission pipeline.
type Operation struct {
	Action Action
	Params map[string]any
}

// NewOperation copies params so later mutation by the caller cannot
// leak into an operation already in flight.
func NewOperation(action Action, params map[string]any) Operation {
	cp := make(map[string]any, len(params))
	for k, v := range params {
		cp[k] = v
	}
	return Operation{Action: action, Params: cp}
}

// Symbol returns the operation's symbol param, if present.
func (o Operation) Symbol() (string, bool) {
	return o.Str("symbol")
}

// Str returns a string param.
func (o Operation) Str(key string) (string, bool) {
	v, ok := o.Params[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Float returns a numeric param. Params arrive from config files and
// agent tool calls, so ints and float64s both show up.
func (o Operation) Float(key string) (float64, bool) {
	v, ok := o.Params[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
