// Package host adapts the sealer driver to an orchestration framework that
// drives devices through four lifecycle entry points: open-connection,
// initialize-device, execute-operation and abort-device.
//
// Operations are dispatched by name through a concurrent registry, so an
// orchestrator can resolve operations while another goroutine registers
// extensions. The package also owns configuration storage for the driver: a
// YAML file holding the port identifier and the sealing parameters.
package host
