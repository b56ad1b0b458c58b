package sealer

import (
	"strings"
	"sync/atomic"

	"github.com/labautomata/go-sealer/logger"
	"github.com/labautomata/go-sealer/serial"
)

// Channel sends single commands to the device and collects their replies.
//
// The wire protocol has no reply framing: after writing a command the channel
// waits the configured settle delay, then reads whatever bytes are buffered.
// A reply that arrives later than the settle window is read as empty and
// surfaces as a communication failure.
type Channel struct {
	cfg    *ConnectionConfig
	port   serial.Port
	logger logger.Logger
	clock  Clock

	// down latches after Close so that an abort from another goroutine makes
	// the blocked operation's next command fail instead of silently
	// reopening the port. Cleared by Open.
	down atomic.Bool
}

func newChannel(cfg *ConnectionConfig, port serial.Port) *Channel {
	return &Channel{
		cfg:    cfg,
		port:   port,
		logger: cfg.logger,
		clock:  cfg.clock,
	}
}

// Open clears any previous shutdown and acquires the port.
func (c *Channel) Open() error {
	c.down.Store(false)
	return c.ensureOpen("connect")
}

// ensureOpen opens the port if it is closed. An open failure is terminal for
// the current call; there is no implicit retry.
func (c *Channel) ensureOpen(op string) error {
	if c.down.Load() {
		return &CommsError{Op: op, Err: ErrAborted}
	}
	if c.port.IsOpen() {
		return nil
	}

	if err := c.port.Open(); err != nil {
		return &CommsError{Op: op, Err: err}
	}

	return nil
}

// Close releases the port. Best-effort: an underlying close failure is
// logged, never returned.
func (c *Channel) Close() {
	c.down.Store(true)
	if err := c.port.Close(); err != nil {
		c.logger.Warn("port close failed", "device", c.cfg.device, "error", err)
	}
}

// Status sends the status poll and decodes the reply. Status polls bypass the
// not-busy gate; they are the mechanism the gate itself is built on.
func (c *Channel) Status() (Status, error) {
	reply, err := c.Exchange("status poll", cmdStatus)
	if err != nil {
		return 0, err
	}

	return ParseStatus(reply)
}

// Send transmits a command after confirming the device is not busy, using
// the configured busy-wait budget. A busy timeout is surfaced as this call's
// failure.
func (c *Channel) Send(desc, cmd string) (string, error) {
	if err := c.waitNotBusy(); err != nil {
		return "", err
	}

	return c.Exchange(desc, cmd)
}

// Exchange performs one raw command/response cycle without the not-busy
// gate: write the command plus carriage return, sleep the settle delay, read
// and trim whatever arrived. Callers must have confirmed readiness themselves
// (the operation sequencer does this once per run).
func (c *Channel) Exchange(desc, cmd string) (string, error) {
	if err := c.ensureOpen(desc); err != nil {
		return "", err
	}

	if _, err := c.port.Write([]byte(cmd + "\r")); err != nil {
		return "", &CommsError{Op: desc, Err: err}
	}

	c.clock.Sleep(c.cfg.settleDelay)

	raw, err := c.port.ReadAvailable()
	if err != nil {
		return "", &CommsError{Op: desc, Err: err}
	}

	reply := strings.TrimSpace(string(raw))
	c.logger.Info("command exchanged", "desc", desc, "cmd", cmd, "response", reply)

	if reply == "" {
		return "", &CommsError{Op: desc, Err: ErrNoResponse}
	}

	return reply, nil
}

// waitNotBusy blocks until the busy flag clears, logging the busy-reason text
// whenever it changes (if enabled) to avoid flooding the log with unchanged
// state.
func (c *Channel) waitNotBusy() error {
	return waitUntil(c.clock, c.logger, waitSpec{
		name:       "device not busy",
		interval:   c.cfg.busyPollInterval,
		timeout:    c.cfg.busyTimeout,
		logReasons: c.cfg.logBusyReasons,
	}, c.notBusyCondition())
}

// notBusyCondition succeeds once the busy flag is clear. While busy, the
// reason text is the list of active abnormal flags.
func (c *Channel) notBusyCondition() condition {
	return func() (bool, string, error) {
		status, err := c.Status()
		if err != nil {
			return false, "", err
		}
		if status.Busy() {
			return false, status.Describe(true), nil
		}

		return true, "", nil
	}
}

// temperatureReadyCondition succeeds once the not-at-seal-temperature flag is
// clear. It reports no reason text; the temperature wait does not log.
func (c *Channel) temperatureReadyCondition() condition {
	return func() (bool, string, error) {
		status, err := c.Status()
		if err != nil {
			return false, "", err
		}
		if status.NotAtSealTemperature() {
			return false, "", nil
		}

		return true, "", nil
	}
}

// sealCompleteCondition succeeds once the busy flag clears. If the device
// clears busy with the error flag raised, the seal failed: that is reported
// as a *DeviceError immediately, not as a timeout.
func (c *Channel) sealCompleteCondition() condition {
	return func() (bool, string, error) {
		status, err := c.Status()
		if err != nil {
			return false, "", err
		}
		if status.Busy() {
			return false, status.Describe(true), nil
		}
		if status.Error() {
			return false, "", &DeviceError{Op: "sealing", Reasons: status.ActiveFlags(true)}
		}

		return true, "", nil
	}
}
