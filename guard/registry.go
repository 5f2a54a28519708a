package guard

import (
	"fmt"

	"go.uber.org/zap"
)

// Constructor builds a guard from its config options. Constructors
// validate eagerly: a bad option set fails at startup, not per request.
type Constructor func(opts Options) (Guard, error)

// Config is one entry of the ordered guard list in the config file.
type Config struct {
	Type    string  `json:"type" yaml:"type"`
	Options Options `json:"options,omitempty" yaml:"options,omitempty"`
}

// Registry resolves configured guard type names to constructors.
// Third parties register their own types next to the built-ins.
type Registry struct {
	constructors map[string]Constructor
	log          *zap.Logger
}

func NewRegistry(log *zap.Logger) *Registry {
	r := &Registry{
		constructors: make(map[string]Constructor),
		log:          log,
	}
	r.Register("max-position-size", func(opts Options) (Guard, error) {
		return NewMaxPositionSize(opts), nil
	})
	r.Register("max-leverage", func(opts Options) (Guard, error) {
		return NewMaxLeverage(opts), nil
	})
	r.Register("cooldown", func(opts Options) (Guard, error) {
		return NewCooldown(opts), nil
	})
	r.Register("symbol-whitelist", func(opts Options) (Guard, error) {
		return NewSymbolWhitelist(opts)
	})
	return r
}

// Register adds or replaces a constructor for the given type name.
func (r *Registry) Register(typ string, ctor Constructor) {
	r.constructors[typ] = ctor
}

// Build resolves the configured guard list in order. An unknown type is
// logged and skipped so one typo does not take the whole session down;
// a constructor error is fatal because the guard exists but its options
// are wrong.
func (r *Registry) Build(configs []Config) ([]Guard, error) {
	guards := make([]Guard, 0, len(configs))
	for _, cfg := range configs {
		ctor, ok := r.constructors[cfg.Type]
		if !ok {
			r.log.Warn("unknown guard type, skipping",
				zap.String("type", cfg.Type))
			continue
		}
		g, err := ctor(cfg.Options)
		if err != nil {
			return nil, fmt.Errorf("build guard %q: %w", cfg.Type, err)
		}
		guards = append(guards, g)
	}
	return guards, nil
}
