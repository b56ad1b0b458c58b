package sealer

import (
	"strings"
	"testing"
	"time"

	"github.com/labautomata/go-sealer/internal/clock"
	"github.com/labautomata/go-sealer/serial"
)

// scriptPort is a serial.Port whose replies are produced by a script
// function. It records every command written, with the carriage-return
// terminator stripped, in arrival order.
type scriptPort struct {
	open     bool
	openErr  error
	writeErr error
	readErr  error

	commands []string
	pending  string

	// script maps a written command to the reply buffered for the next read.
	// A nil script answers every command with "ok".
	script func(cmd string) string
}

var _ serial.Port = (*scriptPort)(nil)

func newScriptPort(script func(cmd string) string) *scriptPort {
	return &scriptPort{script: script}
}

func (p *scriptPort) Open() error {
	if p.openErr != nil {
		return p.openErr
	}
	p.open = true
	return nil
}

func (p *scriptPort) Close() error {
	p.open = false
	return nil
}

func (p *scriptPort) IsOpen() bool { return p.open }

func (p *scriptPort) Write(b []byte) (int, error) {
	if p.writeErr != nil {
		return 0, p.writeErr
	}

	cmd := strings.TrimSuffix(string(b), "\r")
	p.commands = append(p.commands, cmd)

	if p.script != nil {
		p.pending = p.script(cmd)
	} else {
		p.pending = "ok"
	}

	return len(b), nil
}

func (p *scriptPort) ReadAvailable() ([]byte, error) {
	if p.readErr != nil {
		return nil, p.readErr
	}

	reply := p.pending
	p.pending = ""

	return []byte(reply), nil
}

// reset clears the recorded command trace.
func (p *scriptPort) reset() {
	p.commands = nil
}

// statusScript answers status polls from a fixed sequence of replies,
// repeating the last one once exhausted, and answers everything else "ok".
func statusScript(statuses ...string) func(cmd string) string {
	i := 0
	return func(cmd string) string {
		if cmd != cmdStatus {
			return "ok"
		}
		reply := statuses[i]
		if i < len(statuses)-1 {
			i++
		}
		return reply
	}
}

// newTestConfig creates a ConnectionConfig driven by a fake clock so polling
// waits run without real delays.
func newTestConfig(t *testing.T, opts ...ConnOption) (*ConnectionConfig, *clock.Fake) {
	t.Helper()

	fake := clock.NewFake(time.Unix(0, 0))
	defaults := []ConnOption{WithClock(fake)}

	cfg, err := NewConnectionConfig("COM3", append(defaults, opts...)...)
	if err != nil {
		t.Fatalf("newTestConfig: %v", err)
	}

	return cfg, fake
}

// newTestDriver creates a driver over the given port, already marked
// initialized so sealing runs can start directly.
func newTestDriver(t *testing.T, port serial.Port, opts ...ConnOption) (*Driver, *clock.Fake) {
	t.Helper()

	cfg, fake := newTestConfig(t, opts...)
	drv, err := NewDriverWithPort(cfg, port)
	if err != nil {
		t.Fatalf("newTestDriver: %v", err)
	}
	drv.session.Set(InitializedState)

	return drv, fake
}
