package host

import (
	"fmt"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/labautomata/go-sealer/sealer"
)

// Operation is a named action the orchestrator may execute against a driver.
// Parameters arrive as a loosely typed map; each operation coerces and
// validates what it needs.
type Operation func(drv *sealer.Driver, params map[string]any) error

// Builtin operation names.
const (
	OpSeal        = "seal"
	OpInitialize  = "initialize"
	OpShuttleIn   = "shuttle-in"
	OpShuttleOut  = "shuttle-out"
	OpForceSensor = "force-sensor"
)

// Registry maps operation names to operations. It is safe for concurrent
// registration and lookup.
type Registry struct {
	ops *xsync.MapOf[string, Operation]
}

// NewRegistry creates a registry pre-populated with the builtin operations.
func NewRegistry() *Registry {
	r := &Registry{ops: xsync.NewMapOf[string, Operation]()}

	r.Register(OpSeal, sealOperation)
	r.Register(OpInitialize, func(drv *sealer.Driver, _ map[string]any) error {
		return drv.Initialize()
	})
	r.Register(OpShuttleIn, func(drv *sealer.Driver, _ map[string]any) error {
		return drv.ShuttleIn()
	})
	r.Register(OpShuttleOut, func(drv *sealer.Driver, _ map[string]any) error {
		return drv.ShuttleOut()
	})
	r.Register(OpForceSensor, forceSensorOperation)

	return r
}

// Register adds or replaces a named operation.
func (r *Registry) Register(name string, op Operation) {
	r.ops.Store(name, op)
}

// Get returns the operation registered under name.
func (r *Registry) Get(name string) (Operation, bool) {
	return r.ops.Load(name)
}

// Names returns the registered operation names, in no particular order.
func (r *Registry) Names() []string {
	names := make([]string, 0, r.ops.Size())
	r.ops.Range(func(name string, _ Operation) bool {
		names = append(names, name)
		return true
	})

	return names
}

// sealOperation applies any sealing parameters present in params, then runs a
// full sealing cycle.
func sealOperation(drv *sealer.Driver, params map[string]any) error {
	p := drv.Parameters()

	if v, ok := params["temperature"]; ok {
		n, err := coerceInt("temperature", v)
		if err != nil {
			return err
		}
		p.Temperature = n
	}
	if v, ok := params["seal_time"]; ok {
		f, err := coerceFloat("seal_time", v)
		if err != nil {
			return err
		}
		p.SealTime = f
	}
	if v, ok := params["seal_force"]; ok {
		n, err := coerceInt("seal_force", v)
		if err != nil {
			return err
		}
		p.SealForce = n
	}
	if v, ok := params["seal_length"]; ok {
		n, err := coerceInt("seal_length", v)
		if err != nil {
			return err
		}
		p.SealLength = n
	}

	drv.SetParameters(p)

	return drv.StartSealing()
}

// forceSensorOperation toggles the force sensor; params must hold a boolean
// under "enabled".
func forceSensorOperation(drv *sealer.Driver, params map[string]any) error {
	v, ok := params["enabled"]
	if !ok {
		return fmt.Errorf("host: force-sensor operation requires an \"enabled\" parameter")
	}
	enabled, ok := v.(bool)
	if !ok {
		return fmt.Errorf("host: force-sensor \"enabled\" parameter must be a boolean, got %T", v)
	}

	return drv.SetForceSensor(enabled)
}

func coerceInt(name string, v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n == float64(int(n)) {
			return int(n), nil
		}
	}

	return 0, fmt.Errorf("host: parameter %q must be an integer, got %v (%T)", name, v, v)
}

func coerceFloat(name string, v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	}

	return 0, fmt.Errorf("host: parameter %q must be a number, got %v (%T)", name, v, v)
}
