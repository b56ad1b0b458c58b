package sealer

import (
	"strconv"
	"strings"
)

// StatusBit identifies one of the eight flags packed into the device status
// byte returned by the status poll.
type StatusBit uint8

const (
	// BitNoFail is set when the device reports no failure. It is not itself
	// an abnormal condition and is excluded from fault summaries.
	BitNoFail StatusBit = iota
	// BitError is set when the device is in an error state.
	BitError
	// BitBusy is set while the device is executing a command.
	BitBusy
	// BitNotAtSealTemperature is set while the heater has not reached the
	// configured seal temperature.
	BitNotAtSealTemperature
	// BitPlateNotPresent is set when no plate is detected in the shuttle.
	BitPlateNotPresent
	// BitNotInitialised is set until the initialize command has completed.
	BitNotInitialised
	// BitForceSensorActivated is set when the force sensor has tripped.
	BitForceSensorActivated
	// BitParkMode is set while the mechanism is parked.
	BitParkMode
)

// statusBitDescriptions maps each bit to its human-readable description, in
// bit order.
var statusBitDescriptions = [8]string{
	"no fail",
	"error",
	"busy",
	"not at seal temperature",
	"plate not present",
	"not initialised",
	"force sensor activated",
	"park mode",
}

// String returns the description of the status bit.
func (b StatusBit) String() string {
	if int(b) < len(statusBitDescriptions) {
		return statusBitDescriptions[b]
	}
	return "unknown"
}

// Status is the single-byte bitmask the device reports in response to the
// status poll, decoded from its two-hex-digit wire form.
type Status byte

// ParseStatus decodes the trimmed reply to a status poll. Any text that does
// not parse as a byte in hexadecimal is a *ProtocolError.
func ParseStatus(text string) (Status, error) {
	trimmed := strings.TrimSpace(text)
	v, err := strconv.ParseUint(trimmed, 16, 8)
	if err != nil {
		return 0, &ProtocolError{
			Op:       "status poll",
			Response: trimmed,
			Reason:   "not a two-hex-digit status byte",
		}
	}

	return Status(v), nil
}

// IsSet reports whether the given bit is set.
func (s Status) IsSet(bit StatusBit) bool {
	return s&(1<<bit) != 0
}

// NoFail reports whether the no-fail bit is set.
func (s Status) NoFail() bool { return s.IsSet(BitNoFail) }

// Error reports whether the device error bit is set.
func (s Status) Error() bool { return s.IsSet(BitError) }

// Busy reports whether the device is executing a command.
func (s Status) Busy() bool { return s.IsSet(BitBusy) }

// NotAtSealTemperature reports whether the heater is below setpoint.
func (s Status) NotAtSealTemperature() bool { return s.IsSet(BitNotAtSealTemperature) }

// PlateNotPresent reports whether no plate is detected.
func (s Status) PlateNotPresent() bool { return s.IsSet(BitPlateNotPresent) }

// NotInitialised reports whether the device still requires initialization.
func (s Status) NotInitialised() bool { return s.IsSet(BitNotInitialised) }

// ForceSensorActivated reports whether the force sensor has tripped.
func (s Status) ForceSensorActivated() bool { return s.IsSet(BitForceSensorActivated) }

// ParkMode reports whether the mechanism is parked.
func (s Status) ParkMode() bool { return s.IsSet(BitParkMode) }

// ActiveFlags returns the descriptions of all set flags in ascending bit
// order. When excludeNoFail is true the no-fail bit is skipped, so the result
// reads as a list of abnormal conditions.
func (s Status) ActiveFlags(excludeNoFail bool) []string {
	flags := make([]string, 0, 8)
	for bit := BitNoFail; bit <= BitParkMode; bit++ {
		if excludeNoFail && bit == BitNoFail {
			continue
		}
		if s.IsSet(bit) {
			flags = append(flags, bit.String())
		}
	}

	return flags
}

// Describe returns the active flags joined into one human-readable string,
// or "idle" when no flags (beyond no-fail, if excluded) are set.
func (s Status) Describe(excludeNoFail bool) string {
	flags := s.ActiveFlags(excludeNoFail)
	if len(flags) == 0 {
		return "idle"
	}
	return strings.Join(flags, ", ")
}
