// Package serial provides the raw byte transport used to talk to the sealing
// instrument: a Port abstraction over a platform serial device, a native
// implementation backed by github.com/tarm/serial, and a testify mock for
// driver tests.
package serial

import (
	"errors"
	"time"
)

// Default link parameters for the sealer serial line: 9600-8N1, no flow
// control, 5 second read/write timeout.
const (
	DefaultBaudRate    = 9600
	DefaultDataBits    = 8
	DefaultStopBits    = 1
	DefaultReadTimeout = 5 * time.Second
)

var (
	// ErrPortClosed indicates an I/O call on a port that is not open.
	ErrPortClosed = errors.New("serial: port is not open")

	// ErrAlreadyOpen indicates an Open call on a port that is already open.
	ErrAlreadyOpen = errors.New("serial: port is already open")
)

// Port represents an exclusive serial connection to the instrument.
//
// Implementations are not safe for concurrent use; a port is owned by a
// single driver instance at a time.
type Port interface {
	// Open acquires the underlying device. Opening an already-open port
	// returns ErrAlreadyOpen.
	Open() error

	// Close releases the underlying device. Closing a closed port is a no-op.
	Close() error

	// IsOpen reports whether the port is currently open.
	IsOpen() bool

	// Write transmits the given bytes, honoring the configured write timeout.
	Write(p []byte) (int, error)

	// ReadAvailable returns whatever bytes are currently buffered on the
	// line, without waiting for more than the configured read timeout.
	// An empty (non-nil error free) result means nothing has arrived yet.
	ReadAvailable() ([]byte, error)
}

// Config holds the serial link parameters for a sealer connection.
type Config struct {
	// Device is the platform port identifier, e.g. "COM3" or "/dev/ttyUSB0".
	Device string

	// Baud is the line speed. The sealer firmware only supports 9600.
	Baud int

	// ReadTimeout bounds how long a ReadAvailable call may block when no
	// bytes are buffered.
	ReadTimeout time.Duration
}

// DefaultConfig returns the fixed sealer link configuration for a device path.
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        DefaultBaudRate,
		ReadTimeout: DefaultReadTimeout,
	}
}
