package sealer

import (
	"errors"
	"fmt"
	"time"

	"github.com/labautomata/go-sealer/internal/clock"
	"github.com/labautomata/go-sealer/logger"
	"github.com/labautomata/go-sealer/serial"
)

// Default timing values for the sealer protocol.
const (
	// DefaultSettleDelay is the pause between writing a command and reading
	// the reply. Replies carry no terminator, so the driver reads whatever
	// has arrived after this delay.
	DefaultSettleDelay = 150 * time.Millisecond

	// DefaultReadTimeout bounds individual port reads and writes.
	DefaultReadTimeout = 5 * time.Second

	// DefaultBusyPollInterval and DefaultBusyTimeout govern the wait for the
	// busy flag to clear before issuing a command.
	DefaultBusyPollInterval = 1 * time.Second
	DefaultBusyTimeout      = 5 * time.Minute

	// DefaultTemperaturePollInterval and DefaultTemperatureTimeout govern the
	// wait for the heater to reach setpoint before sealing.
	DefaultTemperaturePollInterval = 1 * time.Second
	DefaultTemperatureTimeout      = 5 * time.Minute

	// DefaultCompletionPollInterval and DefaultCompletionTimeout govern the
	// wait for a started seal to finish.
	DefaultCompletionPollInterval = 500 * time.Millisecond
	DefaultCompletionTimeout      = 30 * time.Second
)

// Clock supplies current time and blocking sleep to the polling loops. The
// default is the system clock; tests substitute a fake so waits run without
// real delays.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// ConnectionConfig holds all configuration for one sealer serial session.
//
// The link parameters are fixed by the firmware (9600-8N1, no flow control);
// only the port identifier and the timing budgets are configurable.
type ConnectionConfig struct {
	device string

	readTimeout time.Duration
	settleDelay time.Duration

	busyPollInterval time.Duration
	busyTimeout      time.Duration

	temperaturePollInterval time.Duration
	temperatureTimeout      time.Duration

	completionPollInterval time.Duration
	completionTimeout      time.Duration

	// logBusyReasons controls whether the not-busy wait logs the busy-reason
	// text each time it changes. The temperature wait never logs reasons;
	// that asymmetry is deliberate and preserved from the device's reference
	// host software.
	logBusyReasons bool

	logger logger.Logger
	clock  Clock
}

// NewConnectionConfig creates a configuration for the serial device with the
// given platform identifier (e.g. "COM3" or "/dev/ttyUSB0").
//
// opts are functional options applied in order; see With* functions.
func NewConnectionConfig(device string, opts ...ConnOption) (*ConnectionConfig, error) {
	if device == "" {
		return nil, errors.New("sealer: device name is empty")
	}

	cfg := &ConnectionConfig{
		device:                  device,
		readTimeout:             DefaultReadTimeout,
		settleDelay:             DefaultSettleDelay,
		busyPollInterval:        DefaultBusyPollInterval,
		busyTimeout:             DefaultBusyTimeout,
		temperaturePollInterval: DefaultTemperaturePollInterval,
		temperatureTimeout:      DefaultTemperatureTimeout,
		completionPollInterval:  DefaultCompletionPollInterval,
		completionTimeout:       DefaultCompletionTimeout,
		logBusyReasons:          true,
		logger:                  logger.GetLogger(),
		clock:                   clock.System(),
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// --- Getters ---

// Device returns the platform port identifier.
func (cfg *ConnectionConfig) Device() string { return cfg.device }

// ReadTimeout returns the port read/write timeout.
func (cfg *ConnectionConfig) ReadTimeout() time.Duration { return cfg.readTimeout }

// SettleDelay returns the pause between writing a command and reading its
// reply.
func (cfg *ConnectionConfig) SettleDelay() time.Duration { return cfg.settleDelay }

// BusyPollInterval returns the status-poll cadence of the not-busy wait.
func (cfg *ConnectionConfig) BusyPollInterval() time.Duration { return cfg.busyPollInterval }

// BusyTimeout returns the budget of the not-busy wait.
func (cfg *ConnectionConfig) BusyTimeout() time.Duration { return cfg.busyTimeout }

// TemperaturePollInterval returns the status-poll cadence of the
// temperature-ready wait.
func (cfg *ConnectionConfig) TemperaturePollInterval() time.Duration {
	return cfg.temperaturePollInterval
}

// TemperatureTimeout returns the budget of the temperature-ready wait.
func (cfg *ConnectionConfig) TemperatureTimeout() time.Duration { return cfg.temperatureTimeout }

// CompletionPollInterval returns the status-poll cadence of the
// seal-complete wait.
func (cfg *ConnectionConfig) CompletionPollInterval() time.Duration {
	return cfg.completionPollInterval
}

// CompletionTimeout returns the budget of the seal-complete wait.
func (cfg *ConnectionConfig) CompletionTimeout() time.Duration { return cfg.completionTimeout }

// LogBusyReasons returns whether the not-busy wait logs busy-reason changes.
func (cfg *ConnectionConfig) LogBusyReasons() bool { return cfg.logBusyReasons }

// GetLogger returns the configured logger.
func (cfg *ConnectionConfig) GetLogger() logger.Logger { return cfg.logger }

// GetClock returns the configured clock.
func (cfg *ConnectionConfig) GetClock() Clock { return cfg.clock }

// serialConfig returns the fixed link parameters for the configured device.
func (cfg *ConnectionConfig) serialConfig() *serial.Config {
	return &serial.Config{
		Device:      cfg.device,
		Baud:        serial.DefaultBaudRate,
		ReadTimeout: cfg.readTimeout,
	}
}

// --- ConnOption ---

// ConnOption is a functional option for configuring a ConnectionConfig.
type ConnOption interface {
	apply(*ConnectionConfig) error
}

type connOptFunc func(*ConnectionConfig) error

func (f connOptFunc) apply(cfg *ConnectionConfig) error { return f(cfg) }

// WithReadTimeout sets the port read/write timeout.
func WithReadTimeout(d time.Duration) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if d <= 0 {
			return errors.New("sealer: read timeout must be positive")
		}
		cfg.readTimeout = d

		return nil
	})
}

// WithSettleDelay sets the pause between writing a command and reading its
// reply. Shortening it below the device's response latency causes replies to
// be read as empty.
func WithSettleDelay(d time.Duration) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if d < 0 {
			return errors.New("sealer: settle delay must not be negative")
		}
		cfg.settleDelay = d

		return nil
	})
}

// WithBusyWait sets the poll interval and timeout of the not-busy wait.
func WithBusyWait(interval, timeout time.Duration) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if err := validateWait(interval, timeout); err != nil {
			return fmt.Errorf("sealer: busy wait: %w", err)
		}
		cfg.busyPollInterval = interval
		cfg.busyTimeout = timeout

		return nil
	})
}

// WithTemperatureWait sets the poll interval and timeout of the
// temperature-ready wait.
func WithTemperatureWait(interval, timeout time.Duration) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if err := validateWait(interval, timeout); err != nil {
			return fmt.Errorf("sealer: temperature wait: %w", err)
		}
		cfg.temperaturePollInterval = interval
		cfg.temperatureTimeout = timeout

		return nil
	})
}

// WithCompletionWait sets the poll interval and timeout of the seal-complete
// wait.
func WithCompletionWait(interval, timeout time.Duration) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if err := validateWait(interval, timeout); err != nil {
			return fmt.Errorf("sealer: completion wait: %w", err)
		}
		cfg.completionPollInterval = interval
		cfg.completionTimeout = timeout

		return nil
	})
}

// WithBusyReasonLogging enables or disables logging of busy-reason changes
// during the not-busy wait. Enabled by default.
func WithBusyReasonLogging(enabled bool) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		cfg.logBusyReasons = enabled

		return nil
	})
}

// WithLogger sets the logger for the session.
func WithLogger(l logger.Logger) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if l == nil {
			return errors.New("sealer: logger must not be nil")
		}
		cfg.logger = l

		return nil
	})
}

// WithClock sets the clock used by the polling loops. Intended for tests.
func WithClock(c Clock) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if c == nil {
			return errors.New("sealer: clock must not be nil")
		}
		cfg.clock = c

		return nil
	})
}

func validateWait(interval, timeout time.Duration) error {
	if interval <= 0 {
		return errors.New("poll interval must be positive")
	}
	if timeout <= 0 {
		return errors.New("timeout must be positive")
	}
	if interval > timeout {
		return errors.New("poll interval exceeds timeout")
	}

	return nil
}
