package host

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labautomata/go-sealer/sealer"
)

func TestNewHost(t *testing.T) {
	drv := newTestDriver(t)

	h, err := NewHost(drv, nil)
	require.NoError(t, err)
	assert.Same(t, drv, h.Driver())
	assert.NotNil(t, h.Registry(), "nil registry falls back to builtins")

	_, err = NewHost(nil, nil)
	require.Error(t, err)
}

func TestHost_ExecuteOperation_Unknown(t *testing.T) {
	h, err := NewHost(newTestDriver(t), nil)
	require.NoError(t, err)

	err = h.ExecuteOperation("polish", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown operation")
}

func TestHost_ExecuteOperation_WrapsFailure(t *testing.T) {
	h, err := NewHost(newTestDriver(t), nil)
	require.NoError(t, err)

	// Driver is not connected, so the builtin seal operation fails; the
	// host must wrap that failure with the operation name.
	err = h.ExecuteOperation(OpSeal, nil)
	require.ErrorIs(t, err, sealer.ErrNotConnected)
	assert.Contains(t, err.Error(), OpSeal)
}

func TestHost_ExecuteOperation_Custom(t *testing.T) {
	r := NewRegistry()

	var got map[string]any
	r.Register("probe", func(_ *sealer.Driver, params map[string]any) error {
		got = params
		return nil
	})

	h, err := NewHost(newTestDriver(t), r)
	require.NoError(t, err)

	require.NoError(t, h.ExecuteOperation("probe", map[string]any{"depth": 3}))
	assert.Equal(t, map[string]any{"depth": 3}, got)
}
