package serial

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("COM3")

	assert.Equal(t, "COM3", cfg.Device)
	assert.Equal(t, 9600, cfg.Baud)
	assert.Equal(t, 5*time.Second, cfg.ReadTimeout)
}

func TestNewNativePort_Validation(t *testing.T) {
	_, err := NewNativePort(nil)
	require.Error(t, err)

	_, err = NewNativePort(&Config{})
	require.Error(t, err)
}

func TestNewNativePort_ClosedUntilOpen(t *testing.T) {
	port, err := NewNativePort(DefaultConfig("COM3"))
	require.NoError(t, err)

	assert.False(t, port.IsOpen())

	_, err = port.Write([]byte("?"))
	assert.ErrorIs(t, err, ErrPortClosed)

	_, err = port.ReadAvailable()
	assert.ErrorIs(t, err, ErrPortClosed)

	// Closing a never-opened port is a no-op.
	assert.NoError(t, port.Close())
}
