package sealer

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors for the sealer driver.
var (
	// ErrNoResponse indicates the device returned no bytes within the settle
	// window after a command was sent.
	ErrNoResponse = errors.New("sealer: no response from device")

	// ErrNotConnected indicates an operation that requires an established
	// session was invoked before Connect succeeded.
	ErrNotConnected = errors.New("sealer: device is not connected")

	// ErrAborted indicates the transport was closed by Disconnect while an
	// operation was in progress. A blocked polling loop observes this on its
	// next command.
	ErrAborted = errors.New("sealer: transport closed by abort")
)

// CommsError indicates a transport-level failure: the port could not be
// opened, a write or read failed, or the device returned an empty reply.
type CommsError struct {
	// Op names the command or action that failed.
	Op string
	// Err is the underlying cause.
	Err error
}

func (e *CommsError) Error() string {
	return fmt.Sprintf("sealer: communication failure during %s: %v", e.Op, e.Err)
}

func (e *CommsError) Unwrap() error { return e.Err }

// ProtocolError indicates the device replied with text that cannot be
// interpreted: a status byte that is not two hex digits, or a reply token
// outside the documented vocabulary.
type ProtocolError struct {
	// Op names the command whose reply was rejected.
	Op string
	// Response is the trimmed reply text as received.
	Response string
	// Reason describes why the reply was rejected.
	Reason string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("sealer: unexpected response %q to %s: %s", e.Response, e.Op, e.Reason)
}

// ValidationError indicates a sealing parameter outside its permitted domain.
// It is raised before any command is transmitted.
type ValidationError struct {
	// Field is the parameter name.
	Field string
	// Reason describes the violated constraint.
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("sealer: invalid %s: %s", e.Field, e.Reason)
}

// TimeoutError indicates a readiness or completion condition did not become
// true within its budget. LastReason carries the most recent description of
// why the condition was failing.
type TimeoutError struct {
	// Wait names the condition that was being awaited.
	Wait string
	// Elapsed is the wall-clock time spent polling.
	Elapsed time.Duration
	// LastReason is the last observed predicate-failure description, empty if
	// the condition never produced one.
	LastReason string
}

func (e *TimeoutError) Error() string {
	if e.LastReason == "" {
		return fmt.Sprintf("sealer: timed out after %v waiting for %s", e.Elapsed, e.Wait)
	}
	return fmt.Sprintf("sealer: timed out after %v waiting for %s (last state: %s)", e.Elapsed, e.Wait, e.LastReason)
}

// DeviceError indicates the device itself reported a fault: the status Error
// bit was set, or the firmware answered a command with "er". Reasons holds
// the active status-flag descriptions, excluding the no-fail flag.
type DeviceError struct {
	// Op names the operation during which the fault was reported.
	Op string
	// Reasons lists the active fault descriptions in bit order.
	Reasons []string
}

func (e *DeviceError) Error() string {
	if len(e.Reasons) == 0 {
		return fmt.Sprintf("sealer: device reported an error during %s", e.Op)
	}
	return fmt.Sprintf("sealer: device reported an error during %s: %s", e.Op, strings.Join(e.Reasons, ", "))
}
