package sealer

import (
	"fmt"
	"math"
	"strconv"
)

// Factory defaults for the four sealing parameters. The temperature default
// matches the practical value the device firmware ships with.
const (
	DefaultTemperature = 165 // °C
	DefaultSealTime    = 3.0 // seconds
	DefaultSealForce   = 50  // Kg
	DefaultSealLength  = 125 // mm
)

// Parameter domains enforced before transmission. Temperature is bounded only
// by its three-digit wire encoding; the practical range is governed by the
// device firmware.
const (
	MinTemperature = 0
	MaxTemperature = 999

	MinSealTime = 0.0
	MaxSealTime = 9.9

	MinSealForce = 5
	MaxSealForce = 50

	MinSealLength = 110
	MaxSealLength = 128
)

// Parameters holds the four sealing parameters. They are validated and
// re-sent to the device immediately before every sealing run; the device is
// not trusted to retain previously set values across operations.
type Parameters struct {
	// Temperature is the seal temperature in °C.
	Temperature int
	// SealTime is the seal duration in seconds, with one decimal digit of
	// resolution.
	SealTime float64
	// SealForce is the seal force in Kg.
	SealForce int
	// SealLength is the seal length in mm.
	SealLength int
}

// DefaultParameters returns the factory-default sealing parameters.
func DefaultParameters() Parameters {
	return Parameters{
		Temperature: DefaultTemperature,
		SealTime:    DefaultSealTime,
		SealForce:   DefaultSealForce,
		SealLength:  DefaultSealLength,
	}
}

// Validate range-checks every parameter and returns a *ValidationError for
// the first parameter outside its domain. No command is transmitted for
// invalid parameters.
//
// SealTime is checked against its range only; the wire format carries one
// fractional digit, so finer precision is accepted here and rounded to the
// nearest tenth at encode time.
func (p Parameters) Validate() error {
	if p.Temperature < MinTemperature || p.Temperature > MaxTemperature {
		return &ValidationError{
			Field:  "temperature",
			Reason: fmt.Sprintf("%d °C out of range [%d, %d]", p.Temperature, MinTemperature, MaxTemperature),
		}
	}
	if p.SealTime < MinSealTime || p.SealTime > MaxSealTime {
		return &ValidationError{
			Field:  "seal time",
			Reason: fmt.Sprintf("%.1f s out of range [%.1f, %.1f]", p.SealTime, MinSealTime, MaxSealTime),
		}
	}
	if p.SealForce < MinSealForce || p.SealForce > MaxSealForce {
		return &ValidationError{
			Field:  "seal force",
			Reason: fmt.Sprintf("%d Kg out of range [%d, %d]", p.SealForce, MinSealForce, MaxSealForce),
		}
	}
	if p.SealLength < MinSealLength || p.SealLength > MaxSealLength {
		return &ValidationError{
			Field:  "seal length",
			Reason: fmt.Sprintf("%d mm out of range [%d, %d]", p.SealLength, MinSealLength, MaxSealLength),
		}
	}

	return nil
}

// EncodeTemperature returns the temperature set command: "A" followed by the
// value zero-padded to three digits.
func (p Parameters) EncodeTemperature() string {
	return fmt.Sprintf("A%03d", p.Temperature)
}

// EncodeSealTime returns the seal-time set command: "B" followed by the value
// multiplied by ten, rounded to an integer and zero-padded to two digits.
// The value must already be inside the seal-time domain.
func (p Parameters) EncodeSealTime() string {
	tenths := int(math.Round(p.SealTime * 10))
	return fmt.Sprintf("B%02d", tenths)
}

// EncodeSealForce returns the seal-force set command: "PS=" followed by the
// value with no padding.
func (p Parameters) EncodeSealForce() string {
	return "PS=" + strconv.Itoa(p.SealForce)
}

// EncodeSealLength returns the seal-length set command: "L=" followed by the
// value with no padding.
func (p Parameters) EncodeSealLength() string {
	return "L=" + strconv.Itoa(p.SealLength)
}

// setCommand pairs a wire command with a description for log lines.
type setCommand struct {
	desc string
	cmd  string
}

// Commands validates the parameters and returns the four set commands in the
// fixed transmission order: temperature, seal time, seal force, seal length.
func (p Parameters) Commands() ([]setCommand, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	return []setCommand{
		{desc: "set temperature", cmd: p.EncodeTemperature()},
		{desc: "set seal time", cmd: p.EncodeSealTime()},
		{desc: "set seal force", cmd: p.EncodeSealForce()},
		{desc: "set seal length", cmd: p.EncodeSealLength()},
	}, nil
}
