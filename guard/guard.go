// Package guard holds the pluggable policy checks every trading
// operation must clear before it reaches the engine, plus the registry
// and pipeline that run them.
package guard

import (
	"context"

	"github.com/rustyeddy/tradeguard/engine"
	"github.com/rustyeddy/tradeguard/trade"
)

// Context is the read-only snapshot a guard decides on. It is built
// once per dispatch and thrown away afterwards; guards never see the
// trading engine itself.
type Context struct {
	Operation trade.Operation
	Positions []engine.Position
	Account   engine.AccountInfo
}

// Position returns the open position for symbol, if any.
func (c *Context) Position(symbol string) (engine.Position, bool) {
	for _, p := range c.Positions {
		if p.Symbol == symbol {
			return p, true
		}
	}
	return engine.Position{}, false
}

// Guard is one policy unit. An empty reason means allow; a non-empty
// reason is a human-readable rejection. A returned error means the
// guard itself failed and the pipeline treats it as a rejection.
//
// Check takes a context.Context so guards backed by external calls fit
// the same interface as the built-in synchronous ones.
type Guard interface {
	Name() string
	Check(ctx context.Context, gc *Context) (reason string, err error)
}

// Options is the untyped option bag a guard constructor receives from
// configuration.
type Options map[string]any

// Float reads a numeric option, falling back to def when absent or of
// the wrong type.
func (o Options) Float(key string, def float64) float64 {
	v, ok := o[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return def
}

// Strings reads a string-list option. YAML hands us []any.
func (o Options) Strings(key string) []string {
	v, ok := o[key]
	if !ok {
		return nil
	}
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// FloatMap reads a string-to-number option, e.g. per-symbol overrides.
func (o Options) FloatMap(key string) map[string]float64 {
	v, ok := o[key]
	if !ok {
		return nil
	}
	out := make(map[string]float64)
	switch m := v.(type) {
	case map[string]float64:
		return m
	case map[string]any:
		for k := range m {
			out[k] = Options(m).Float(k, 0)
		}
	}
	return out
}
