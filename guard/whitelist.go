package guard

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrEmptyWhitelist is returned at construction; a whitelist guard with
// no symbols would block everything, which is always a config mistake.
var ErrEmptyWhitelist = errors.New("symbol whitelist requires at least one symbol")

// SymbolWhitelist rejects any operation on a symbol outside its set.
// Operations without a symbol param pass through.
type SymbolWhitelist struct {
	allowed map[string]struct{}
}

func NewSymbolWhitelist(opts Options) (*SymbolWhitelist, error) {
	symbols := opts.Strings("symbols")
	if len(symbols) == 0 {
		return nil, ErrEmptyWhitelist
	}
	allowed := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		allowed[s] = struct{}{}
	}
	return &SymbolWhitelist{allowed: allowed}, nil
}

func (g *SymbolWhitelist) Name() string { return "symbol-whitelist" }

func (g *SymbolWhitelist) Check(ctx context.Context, gc *Context) (string, error) {
	symbol, ok := gc.Operation.Symbol()
	if !ok {
		return "", nil
	}
	if _, ok := g.allowed[symbol]; !ok {
		return fmt.Sprintf("%s is not whitelisted (allowed: %s)", symbol, g.allowedList()), nil
	}
	return "", nil
}

func (g *SymbolWhitelist) allowedList() string {
	out := make([]string, 0, len(g.allowed))
	for s := range g.allowed {
		out = append(out, s)
	}
	sort.Strings(out)
	return strings.Join(out, ", ")
}
