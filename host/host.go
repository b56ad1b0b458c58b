package host

import (
	"errors"
	"fmt"

	"github.com/labautomata/go-sealer/logger"
	"github.com/labautomata/go-sealer/sealer"
)

// Device is the narrow lifecycle surface an orchestration framework drives.
type Device interface {
	// OpenConnection establishes the device session.
	OpenConnection() error
	// InitializeDevice prepares the device for operations. Idempotent.
	InitializeDevice() error
	// ExecuteOperation runs a registered operation by name.
	ExecuteOperation(name string, params map[string]any) error
	// AbortDevice tears the session down. Best-effort, never fails.
	AbortDevice()
}

// Host binds one sealer driver to an operation registry, implementing the
// Device lifecycle.
type Host struct {
	driver   *sealer.Driver
	registry *Registry
	logger   logger.Logger
}

var _ Device = (*Host)(nil)

// NewHost creates a Host around an existing driver. A nil registry gets the
// builtin operations.
func NewHost(drv *sealer.Driver, registry *Registry) (*Host, error) {
	if drv == nil {
		return nil, errors.New("host: driver is nil")
	}
	if registry == nil {
		registry = NewRegistry()
	}

	return &Host{
		driver:   drv,
		registry: registry,
		logger:   logger.GetLogger(),
	}, nil
}

// Driver returns the underlying sealer driver.
func (h *Host) Driver() *sealer.Driver {
	return h.driver
}

// Registry returns the operation registry.
func (h *Host) Registry() *Registry {
	return h.registry
}

func (h *Host) OpenConnection() error {
	return h.driver.Connect()
}

func (h *Host) InitializeDevice() error {
	return h.driver.Initialize()
}

func (h *Host) ExecuteOperation(name string, params map[string]any) error {
	op, ok := h.registry.Get(name)
	if !ok {
		return fmt.Errorf("host: unknown operation %q", name)
	}

	h.logger.Info("executing operation", "operation", name)
	if err := op(h.driver, params); err != nil {
		return fmt.Errorf("host: operation %q failed: %w", name, err)
	}

	return nil
}

func (h *Host) AbortDevice() {
	h.logger.Info("aborting device")
	h.driver.Disconnect()
}
