package sealer

import (
	"errors"
	"strconv"
	"strings"

	"github.com/labautomata/go-sealer/logger"
	"github.com/labautomata/go-sealer/serial"
)

// Driver sequences operations against one sealing instrument over an
// exclusively owned serial port.
//
// Every public operation runs synchronously and blocks the calling goroutine
// for the full duration of its internal polling loops. The driver provides no
// internal locking; concurrent invocation of two operations on the same
// instance is undefined and must be prevented by the caller. An in-progress
// operation can be aborted from another goroutine by calling Disconnect,
// which makes the next command of the blocked operation fail with a
// communication error.
type Driver struct {
	cfg    *ConnectionConfig
	ch     *Channel
	logger logger.Logger
	clock  Clock

	session atomicSessionState
	run     atomicRunState

	params Parameters
}

// NewDriver creates a driver for the configured device using the native
// serial port. The port is not opened until Connect.
func NewDriver(cfg *ConnectionConfig) (*Driver, error) {
	if cfg == nil {
		return nil, errors.New("sealer: connection config is nil")
	}

	port, err := serial.NewNativePort(cfg.serialConfig())
	if err != nil {
		return nil, err
	}

	return NewDriverWithPort(cfg, port)
}

// NewDriverWithPort creates a driver over a caller-supplied transport.
// Used for tests and non-standard transports.
func NewDriverWithPort(cfg *ConnectionConfig, port serial.Port) (*Driver, error) {
	if cfg == nil {
		return nil, errors.New("sealer: connection config is nil")
	}
	if port == nil {
		return nil, errors.New("sealer: port is nil")
	}

	d := &Driver{
		cfg:    cfg,
		ch:     newChannel(cfg, port),
		logger: cfg.logger,
		clock:  cfg.clock,
		params: DefaultParameters(),
	}
	d.session.Set(NotConnectedState)
	d.run.Set(RunIdle)

	return d, nil
}

// SessionState returns the current device-session state.
func (d *Driver) SessionState() SessionState {
	return d.session.Get()
}

// RunState returns the progress of the current (or most recent) sealing run.
func (d *Driver) RunState() RunState {
	return d.run.Get()
}

// Parameters returns the sealing parameters that will be transmitted on the
// next sealing run.
func (d *Driver) Parameters() Parameters {
	return d.params
}

// SetParameters replaces the sealing parameters. They are validated when
// transmitted, not here, so a caller may build them up incrementally.
func (d *Driver) SetParameters(p Parameters) {
	d.params = p
}

// Connect opens the serial link, confirms the device answers a status poll,
// and runs Initialize. It is a no-op once the session is initialized; if a
// previous initialize failed and left the link up, only initialization is
// re-run.
func (d *Driver) Connect() error {
	if d.session.IsInitialized() {
		return nil
	}
	if d.session.IsConnected() {
		return d.Initialize()
	}

	if err := d.ch.Open(); err != nil {
		return err
	}

	// One status poll to confirm the link is live before anything else.
	if _, err := d.ch.Status(); err != nil {
		d.ch.Close()
		return err
	}

	d.session.Set(ConnectedState)
	d.logger.Info("device connected", "device", d.cfg.device)

	return d.Initialize()
}

// Initialize sends the initialize command and transmits the four sealing
// parameters. It is idempotent: a no-op success if already initialized. Any
// failure reverts the session to the connected, not-initialized state so the
// next attempt re-runs initialization in full.
func (d *Driver) Initialize() error {
	if d.session.IsInitialized() {
		return nil
	}
	if d.session.IsNotConnected() {
		return ErrNotConnected
	}

	if err := d.initialize(); err != nil {
		d.session.Set(ConnectedState)
		return err
	}

	d.session.Set(InitializedState)
	d.logger.Info("device initialized", "device", d.cfg.device)

	return nil
}

func (d *Driver) initialize() error {
	if err := d.ch.waitNotBusy(); err != nil {
		return err
	}

	reply, err := d.ch.Exchange("initialize", cmdInitialize)
	if err != nil {
		return err
	}
	if strings.EqualFold(reply, replySealRejected) {
		return &DeviceError{Op: "initialize"}
	}

	// The mechanism homes itself after the initialize command; wait for it
	// to settle before pushing parameters.
	if err := d.ch.waitNotBusy(); err != nil {
		return err
	}

	return d.sendParameters()
}

// StartSealing runs one complete sealing cycle: wait for the device to be
// ready, transmit the validated parameters, wait for the heater to reach
// setpoint, issue the start-seal command, and poll until the seal completes.
//
// The reply to the start-seal command is interpreted immediately: "ok"
// proceeds to the completion wait, "er" is a *DeviceError, anything else is a
// *ProtocolError.
func (d *Driver) StartSealing() error {
	if d.session.IsNotConnected() {
		return ErrNotConnected
	}

	err := d.runSealing()
	if err != nil {
		d.run.Set(RunFailed)
		d.logger.Error("sealing run failed", "device", d.cfg.device, "error", err)
		return err
	}

	d.run.Set(RunDone)
	d.logger.Info("sealing run complete", "device", d.cfg.device)

	return nil
}

func (d *Driver) runSealing() error {
	d.run.Set(RunCheckingReady)
	if err := d.ch.waitNotBusy(); err != nil {
		return err
	}

	d.run.Set(RunSettingParameters)
	if err := d.sendParameters(); err != nil {
		return err
	}

	d.run.Set(RunWaitingTemperature)
	if err := d.waitTemperatureReady(); err != nil {
		return err
	}

	d.run.Set(RunSealing)
	reply, err := d.ch.Exchange("start seal", cmdStartSeal)
	if err != nil {
		return err
	}

	switch {
	case strings.EqualFold(reply, replySealAccepted):
		// Seal accepted; completion is observed through status polls.
	case strings.EqualFold(reply, replySealRejected):
		return &DeviceError{
			Op:      "start seal",
			Reasons: []string{"device rejected sealing command - check temperature/status"},
		}
	default:
		return &ProtocolError{Op: "start seal", Response: reply, Reason: "expected ok or er"}
	}

	d.run.Set(RunWaitingComplete)

	return d.waitSealComplete()
}

// Disconnect closes the serial link and clears the session state. It is
// idempotent, best-effort, and never fails the caller: an underlying close
// error is logged and swallowed.
func (d *Driver) Disconnect() {
	d.ch.Close()
	d.session.Set(NotConnectedState)
	d.run.Set(RunIdle)
	d.logger.Info("device disconnected", "device", d.cfg.device)
}

// sendParameters validates the sealing parameters and transmits the four set
// commands in the fixed order temperature, seal time, seal force, seal
// length. The sequence aborts at the first command that fails.
func (d *Driver) sendParameters() error {
	cmds, err := d.params.Commands()
	if err != nil {
		return err
	}

	for _, sc := range cmds {
		if _, err := d.ch.Exchange(sc.desc, sc.cmd); err != nil {
			return err
		}
	}

	return nil
}

func (d *Driver) waitTemperatureReady() error {
	return waitUntil(d.clock, d.logger, waitSpec{
		name:     "seal temperature",
		interval: d.cfg.temperaturePollInterval,
		timeout:  d.cfg.temperatureTimeout,
	}, d.ch.temperatureReadyCondition())
}

func (d *Driver) waitSealComplete() error {
	return waitUntil(d.clock, d.logger, waitSpec{
		name:     "seal completion",
		interval: d.cfg.completionPollInterval,
		timeout:  d.cfg.completionTimeout,
	}, d.ch.sealCompleteCondition())
}

// --- Direct device commands ---
//
// These expose the remaining documented firmware commands. Each goes through
// the busy-gated channel send, so a busy device delays (and eventually times
// out) the call.

// Status polls the device and returns the decoded status byte.
func (d *Driver) Status() (Status, error) {
	return d.ch.Status()
}

// command sends one gated command and rejects an "er" reply.
func (d *Driver) command(desc, cmd string) (string, error) {
	reply, err := d.ch.Send(desc, cmd)
	if err != nil {
		return "", err
	}
	if strings.EqualFold(reply, replySealRejected) {
		return "", &DeviceError{Op: desc}
	}

	return reply, nil
}

// SetTemperature updates and transmits the seal temperature in °C.
func (d *Driver) SetTemperature(celsius int) error {
	p := d.params
	p.Temperature = celsius
	if err := p.Validate(); err != nil {
		return err
	}
	if _, err := d.command("set temperature", p.EncodeTemperature()); err != nil {
		return err
	}
	d.params = p

	return nil
}

// SetSealTime updates and transmits the seal time in seconds.
func (d *Driver) SetSealTime(seconds float64) error {
	p := d.params
	p.SealTime = seconds
	if err := p.Validate(); err != nil {
		return err
	}
	if _, err := d.command("set seal time", p.EncodeSealTime()); err != nil {
		return err
	}
	d.params = p

	return nil
}

// SetSealForce updates and transmits the seal force in Kg.
func (d *Driver) SetSealForce(kg int) error {
	p := d.params
	p.SealForce = kg
	if err := p.Validate(); err != nil {
		return err
	}
	if _, err := d.command("set seal force", p.EncodeSealForce()); err != nil {
		return err
	}
	d.params = p

	return nil
}

// SetSealLength updates and transmits the seal length in mm.
func (d *Driver) SetSealLength(mm int) error {
	p := d.params
	p.SealLength = mm
	if err := p.Validate(); err != nil {
		return err
	}
	if _, err := d.command("set seal length", p.EncodeSealLength()); err != nil {
		return err
	}
	d.params = p

	return nil
}

// QuerySetTemperature returns the seal temperature the device is configured
// with, in °C.
func (d *Driver) QuerySetTemperature() (int, error) {
	return d.queryInt("query set temperature", cmdQuerySetTemp)
}

// QueryActualTemperature returns the measured heater temperature in °C.
func (d *Driver) QueryActualTemperature() (int, error) {
	return d.queryInt("query actual temperature", cmdQueryActualTemp)
}

// QuerySealTime returns the configured seal time in seconds. The firmware
// reports the value in tenths of a second, mirroring the set encoding.
func (d *Driver) QuerySealTime() (float64, error) {
	tenths, err := d.queryInt("query seal time", cmdQuerySealTime)
	if err != nil {
		return 0, err
	}

	return float64(tenths) / 10, nil
}

// QuerySealForce returns the configured seal force in Kg.
func (d *Driver) QuerySealForce() (int, error) {
	return d.queryInt("query seal force", cmdQuerySealForce)
}

// QuerySealLength returns the configured seal length in mm.
func (d *Driver) QuerySealLength() (int, error) {
	return d.queryInt("query seal length", cmdQuerySealLength)
}

// QueryDriveOnDistance returns the drive-on distance in mm.
func (d *Driver) QueryDriveOnDistance() (float64, error) {
	reply, err := d.command("query drive-on distance", cmdQueryDriveOn)
	if err != nil {
		return 0, err
	}

	v, err := strconv.ParseFloat(reply, 64)
	if err != nil {
		return 0, &ProtocolError{Op: "query drive-on distance", Response: reply, Reason: "not a number"}
	}

	return v, nil
}

// SetDriveOnDistance transmits a new drive-on distance in mm.
func (d *Driver) SetDriveOnDistance(mm float64) error {
	if mm < 0 {
		return &ValidationError{Field: "drive-on distance", Reason: "must not be negative"}
	}
	cmd := "DO=" + strconv.FormatFloat(mm, 'f', 1, 64)
	_, err := d.command("set drive-on distance", cmd)

	return err
}

// SetForceSensor enables or disables the force sensor.
func (d *Driver) SetForceSensor(enabled bool) error {
	cmd := cmdForceSensorOff
	if enabled {
		cmd = cmdForceSensorOn
	}
	_, err := d.command("set force sensor", cmd)

	return err
}

// ShuttleIn moves the shuttle into the sealing station.
func (d *Driver) ShuttleIn() error {
	_, err := d.command("shuttle in", cmdShuttleIn)
	return err
}

// ShuttleOut moves the shuttle out of the sealing station.
func (d *Driver) ShuttleOut() error {
	_, err := d.command("shuttle out", cmdShuttleOut)
	return err
}

// SoftwareVersion returns the firmware version string.
func (d *Driver) SoftwareVersion() (string, error) {
	return d.command("query software version", cmdSoftwareVersion)
}

func (d *Driver) queryInt(desc, cmd string) (int, error) {
	reply, err := d.command(desc, cmd)
	if err != nil {
		return 0, err
	}

	v, err := strconv.Atoi(strings.TrimSpace(reply))
	if err != nil {
		return 0, &ProtocolError{Op: desc, Response: reply, Reason: "not an integer"}
	}

	return v, nil
}
