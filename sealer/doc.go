// Package sealer implements a driver for a plate heat-sealing instrument that
// is controlled over a serial line with a terse ASCII command/response
// protocol.
//
// The instrument accepts single-token ASCII commands terminated by a carriage
// return and reports readiness and faults through a single status byte,
// queried with "?" and returned as two hexadecimal digits. Replies carry no
// terminator; the driver reads whatever is buffered after a fixed settle
// delay.
//
// Key Components:
//   - Status: decodes the two-hex-digit status byte into the eight named
//     device flags (busy, not-at-temperature, plate-not-present, ...).
//   - Parameters: validates the four sealing parameters (temperature, seal
//     time, seal force, seal length) and encodes them into the exact wire
//     commands the firmware expects.
//   - Channel: sends one command, waits the settle delay, reads and trims the
//     reply, and surfaces communication failures.
//   - Driver: sequences the Connect, Initialize and StartSealing operations,
//     polling the status byte between steps until the device reports ready,
//     at temperature, or seal complete.
//
// A Driver owns its serial port exclusively and runs one operation at a time;
// concurrent calls on the same instance must be serialized by the caller.
//
// Usage Example:
//
//	cfg, _ := sealer.NewConnectionConfig("COM3")
//	drv, _ := sealer.NewDriver(cfg)
//	if err := drv.Connect(); err != nil {
//	    log.Fatal(err)
//	}
//	defer drv.Disconnect()
//
//	params := sealer.DefaultParameters()
//	params.Temperature = 170
//	drv.SetParameters(params)
//
//	if err := drv.StartSealing(); err != nil {
//	    log.Fatal(err)
//	}
package sealer
