package serial

import (
	"fmt"
	"io"

	tarm "github.com/tarm/serial"
)

// readBufSize is comfortably larger than any reply the instrument produces;
// replies are short ASCII tokens, never more than a few dozen bytes.
const readBufSize = 256

// NativePort is a Port backed by a platform serial device via tarm/serial.
type NativePort struct {
	cfg  *Config
	port *tarm.Port
}

var _ Port = (*NativePort)(nil)

// NewNativePort creates a closed NativePort for the given configuration.
// Call Open before any I/O.
func NewNativePort(cfg *Config) (*NativePort, error) {
	if cfg == nil {
		return nil, fmt.Errorf("serial: config is nil")
	}
	if cfg.Device == "" {
		return nil, fmt.Errorf("serial: device name is empty")
	}

	return &NativePort{cfg: cfg}, nil
}

func (p *NativePort) Open() error {
	if p.port != nil {
		return ErrAlreadyOpen
	}

	tc := &tarm.Config{
		Name:        p.cfg.Device,
		Baud:        p.cfg.Baud,
		ReadTimeout: p.cfg.ReadTimeout,
		Size:        DefaultDataBits,
		Parity:      tarm.ParityNone,
		StopBits:    tarm.Stop1,
	}

	port, err := tarm.OpenPort(tc)
	if err != nil {
		return fmt.Errorf("serial: open %s: %w", p.cfg.Device, err)
	}
	p.port = port

	return nil
}

func (p *NativePort) Close() error {
	if p.port == nil {
		return nil
	}

	err := p.port.Close()
	p.port = nil
	if err != nil {
		return fmt.Errorf("serial: close %s: %w", p.cfg.Device, err)
	}

	return nil
}

func (p *NativePort) IsOpen() bool {
	return p.port != nil
}

func (p *NativePort) Write(b []byte) (int, error) {
	if p.port == nil {
		return 0, ErrPortClosed
	}

	n, err := p.port.Write(b)
	if err != nil {
		return n, fmt.Errorf("serial: write %s: %w", p.cfg.Device, err)
	}

	return n, nil
}

func (p *NativePort) ReadAvailable() ([]byte, error) {
	if p.port == nil {
		return nil, ErrPortClosed
	}

	buf := make([]byte, readBufSize)
	n, err := p.port.Read(buf)
	if err != nil {
		// tarm/serial reports a read timeout with no buffered bytes as EOF.
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("serial: read %s: %w", p.cfg.Device, err)
	}

	return buf[:n], nil
}
