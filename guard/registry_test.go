package guard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRegistryBuildsConfiguredOrder(t *testing.T) {
	t.Parallel()

	r := NewRegistry(zap.NewNop())
	guards, err := r.Build([]Config{
		{Type: "symbol-whitelist", Options: Options{"symbols": []any{"BTCUSDT"}}},
		{Type: "max-leverage"},
		{Type: "cooldown"},
	})
	require.NoError(t, err)
	require.Len(t, guards, 3)
	assert.Equal(t, "symbol-whitelist", guards[0].Name())
	assert.Equal(t, "max-leverage", guards[1].Name())
	assert.Equal(t, "cooldown", guards[2].Name())
}

func TestRegistrySkipsUnknownType(t *testing.T) {
	t.Parallel()

	r := NewRegistry(zap.NewNop())
	guards, err := r.Build([]Config{
		{Type: "no-such-guard"},
		{Type: "max-position-size"},
	})
	require.NoError(t, err)
	require.Len(t, guards, 1)
	assert.Equal(t, "max-position-size", guards[0].Name())
}

func TestRegistryConstructorErrorIsFatal(t *testing.T) {
	t.Parallel()

	r := NewRegistry(zap.NewNop())
	_, err := r.Build([]Config{
		{Type: "symbol-whitelist"}, // no symbols: fail fast at startup
	})
	assert.ErrorIs(t, err, ErrEmptyWhitelist)
}

func TestRegistryThirdPartyRegistration(t *testing.T) {
	t.Parallel()

	r := NewRegistry(zap.NewNop())
	r.Register("always-no", func(opts Options) (Guard, error) {
		return guardFunc(func(ctx context.Context, gc *Context) (string, error) {
			return "no", nil
		}), nil
	})

	guards, err := r.Build([]Config{{Type: "always-no"}})
	require.NoError(t, err)
	require.Len(t, guards, 1)

	reason, err := guards[0].Check(context.Background(), &Context{})
	assert.NoError(t, err)
	assert.Equal(t, "no", reason)
}
