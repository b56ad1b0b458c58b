package sealer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConnectionConfig_Defaults(t *testing.T) {
	cfg, err := NewConnectionConfig("COM3")
	require.NoError(t, err)

	assert.Equal(t, "COM3", cfg.Device())
	assert.Equal(t, DefaultReadTimeout, cfg.ReadTimeout())
	assert.Equal(t, DefaultSettleDelay, cfg.SettleDelay())

	assert.Equal(t, DefaultBusyPollInterval, cfg.BusyPollInterval())
	assert.Equal(t, DefaultBusyTimeout, cfg.BusyTimeout())
	assert.Equal(t, DefaultTemperaturePollInterval, cfg.TemperaturePollInterval())
	assert.Equal(t, DefaultTemperatureTimeout, cfg.TemperatureTimeout())
	assert.Equal(t, DefaultCompletionPollInterval, cfg.CompletionPollInterval())
	assert.Equal(t, DefaultCompletionTimeout, cfg.CompletionTimeout())

	assert.True(t, cfg.LogBusyReasons())
	assert.NotNil(t, cfg.GetLogger())
	assert.NotNil(t, cfg.GetClock())
}

func TestNewConnectionConfig_WithOptions(t *testing.T) {
	cfg, err := NewConnectionConfig("/dev/ttyUSB0",
		WithReadTimeout(2*time.Second),
		WithSettleDelay(200*time.Millisecond),
		WithBusyWait(500*time.Millisecond, time.Minute),
		WithTemperatureWait(2*time.Second, 10*time.Minute),
		WithCompletionWait(250*time.Millisecond, 15*time.Second),
		WithBusyReasonLogging(false),
	)
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyUSB0", cfg.Device())
	assert.Equal(t, 2*time.Second, cfg.ReadTimeout())
	assert.Equal(t, 200*time.Millisecond, cfg.SettleDelay())
	assert.Equal(t, 500*time.Millisecond, cfg.BusyPollInterval())
	assert.Equal(t, time.Minute, cfg.BusyTimeout())
	assert.Equal(t, 2*time.Second, cfg.TemperaturePollInterval())
	assert.Equal(t, 10*time.Minute, cfg.TemperatureTimeout())
	assert.Equal(t, 250*time.Millisecond, cfg.CompletionPollInterval())
	assert.Equal(t, 15*time.Second, cfg.CompletionTimeout())
	assert.False(t, cfg.LogBusyReasons())
}

func TestNewConnectionConfig_EmptyDevice(t *testing.T) {
	_, err := NewConnectionConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "device")
}

func TestNewConnectionConfig_InvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opt  ConnOption
	}{
		{name: "ZeroReadTimeout", opt: WithReadTimeout(0)},
		{name: "NegativeSettleDelay", opt: WithSettleDelay(-time.Millisecond)},
		{name: "ZeroBusyInterval", opt: WithBusyWait(0, time.Minute)},
		{name: "ZeroBusyTimeout", opt: WithBusyWait(time.Second, 0)},
		{name: "BusyIntervalExceedsTimeout", opt: WithBusyWait(time.Minute, time.Second)},
		{name: "ZeroTemperatureInterval", opt: WithTemperatureWait(0, time.Minute)},
		{name: "ZeroCompletionInterval", opt: WithCompletionWait(0, time.Minute)},
		{name: "NilLogger", opt: WithLogger(nil)},
		{name: "NilClock", opt: WithClock(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewConnectionConfig("COM3", tt.opt)
			require.Error(t, err)
		})
	}
}
