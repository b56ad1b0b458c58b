package sealer

// Wire commands understood by the sealer firmware. Every command is a single
// ASCII token; the channel appends the carriage-return terminator.
const (
	cmdStatus           = "?"    // query status byte, replies with two hex digits
	cmdInitialize       = "I"    // initialize the mechanism
	cmdStartSeal        = "S"    // start a seal, immediate reply "ok" or "er"
	cmdQuerySetTemp     = "C"    // query the configured seal temperature
	cmdQueryActualTemp  = "F"    // query the measured heater temperature
	cmdQuerySealTime    = "D"    // query the configured seal time
	cmdQuerySealForce   = "PS"   // query the configured seal force
	cmdQuerySealLength  = "SL"   // query the configured seal length
	cmdQueryDriveOn     = "DO"   // query the drive-on distance
	cmdForceSensorOn    = "FS=1" // enable the force sensor
	cmdForceSensorOff   = "FS=0" // disable the force sensor
	cmdShuttleIn        = "SI"   // move the shuttle into the sealing station
	cmdShuttleOut       = "SO"   // move the shuttle out of the sealing station
	cmdSoftwareVersion  = "V"    // query the firmware version string
	replySealAccepted   = "ok"
	replySealRejected   = "er"
)

// Fault codes returned by the firmware's fault queries. This table is
// separate from the status-byte flags.
var errorCodeDescriptions = map[int]string{
	1: "vertical shuttle down",
	2: "heater up",
	3: "shuttle in",
	4: "cutter",
	5: "thermocouple",
	6: "overheating",
	7: "no foil",
	8: "no plate",
	9: "force sensor",
}

// ErrorCodeDescription returns the description for a firmware fault code, or
// "unknown" for codes outside the documented table.
func ErrorCodeDescription(code int) string {
	if desc, ok := errorCodeDescriptions[code]; ok {
		return desc
	}
	return "unknown"
}
