package sealer

import "sync/atomic"

// SessionState represents the lifecycle of one device session.
type SessionState uint32

const (
	// NotConnectedState indicates the serial link is not established.
	NotConnectedState SessionState = iota
	// ConnectedState indicates the link is live but the device has not been
	// initialized.
	ConnectedState
	// InitializedState indicates the device has been initialized and holds
	// validated sealing parameters.
	InitializedState
)

// String returns string representation of the session state.
func (s SessionState) String() string {
	switch s {
	case NotConnectedState:
		return "not-connected"
	case ConnectedState:
		return "connected"
	case InitializedState:
		return "initialized"
	default:
		return "unknown"
	}
}

// atomicSessionState holds the session state with atomic access so that a
// monitoring goroutine may observe it while an operation blocks.
type atomicSessionState struct {
	state atomic.Uint32
}

func (st *atomicSessionState) Get() SessionState {
	return SessionState(st.state.Load())
}

func (st *atomicSessionState) Set(state SessionState) {
	st.state.Store(uint32(state))
}

func (st *atomicSessionState) IsNotConnected() bool { return st.Get() == NotConnectedState }
func (st *atomicSessionState) IsConnected() bool    { return st.Get() == ConnectedState }
func (st *atomicSessionState) IsInitialized() bool  { return st.Get() == InitializedState }

// RunState tracks the progress of one sealing run. It is transient per
// StartSealing invocation; the driver exposes it so a monitor can observe a
// blocked run from another goroutine.
type RunState uint32

const (
	// RunIdle indicates no sealing run is in progress.
	RunIdle RunState = iota
	// RunCheckingReady indicates the run is waiting for the busy flag to clear.
	RunCheckingReady
	// RunSettingParameters indicates the run is transmitting the four sealing
	// parameters.
	RunSettingParameters
	// RunWaitingTemperature indicates the run is waiting for the heater to
	// reach setpoint.
	RunWaitingTemperature
	// RunSealing indicates the start-seal command is being issued.
	RunSealing
	// RunWaitingComplete indicates the run is polling for seal completion.
	RunWaitingComplete
	// RunDone indicates the last run completed successfully.
	RunDone
	// RunFailed indicates the last run ended with an error.
	RunFailed
)

// String returns string representation of the run state.
func (s RunState) String() string {
	switch s {
	case RunIdle:
		return "idle"
	case RunCheckingReady:
		return "checking-ready"
	case RunSettingParameters:
		return "setting-parameters"
	case RunWaitingTemperature:
		return "waiting-temperature"
	case RunSealing:
		return "sealing"
	case RunWaitingComplete:
		return "waiting-complete"
	case RunDone:
		return "done"
	case RunFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type atomicRunState struct {
	state atomic.Uint32
}

func (st *atomicRunState) Get() RunState {
	return RunState(st.state.Load())
}

func (st *atomicRunState) Set(state RunState) {
	st.state.Store(uint32(state))
}
