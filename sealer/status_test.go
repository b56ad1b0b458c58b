package sealer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected Status
	}{
		{name: "AllClear", text: "00", expected: Status(0x00)},
		{name: "Busy", text: "04", expected: Status(0x04)},
		{name: "UpperCaseHex", text: "2A", expected: Status(0x2a)},
		{name: "LowerCaseHex", text: "2a", expected: Status(0x2a)},
		{name: "SurroundingWhitespace", text: " 08 \r\n", expected: Status(0x08)},
		{name: "AllSet", text: "ff", expected: Status(0xff)},
		{name: "SingleDigit", text: "4", expected: Status(0x04)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, err := ParseStatus(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, status)
		})
	}
}

func TestParseStatus_Invalid(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "NonHex", text: "zz"},
		{name: "Empty", text: ""},
		{name: "Whitespace", text: "   "},
		{name: "TooLarge", text: "100"},
		{name: "Negative", text: "-1"},
		{name: "ReplyToken", text: "ok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseStatus(tt.text)
			require.Error(t, err)

			protoErr := &ProtocolError{}
			require.ErrorAs(t, err, &protoErr)
			assert.Equal(t, "status poll", protoErr.Op)
		})
	}
}

func TestStatus_FlagAccessors(t *testing.T) {
	status := Status(0b10101010) // error, not-at-temp, not-initialised, park

	assert.False(t, status.NoFail())
	assert.True(t, status.Error())
	assert.False(t, status.Busy())
	assert.True(t, status.NotAtSealTemperature())
	assert.False(t, status.PlateNotPresent())
	assert.True(t, status.NotInitialised())
	assert.False(t, status.ForceSensorActivated())
	assert.True(t, status.ParkMode())
}

// Every byte value must decode to exactly the flag descriptions whose bit is
// set, in ascending bit order.
func TestStatus_ActiveFlags_Exhaustive(t *testing.T) {
	for b := 0; b <= 255; b++ {
		status, err := ParseStatus(fmt.Sprintf("%02x", b))
		require.NoError(t, err)

		var expected []string
		for bit := 0; bit < 8; bit++ {
			if b&(1<<bit) != 0 {
				expected = append(expected, statusBitDescriptions[bit])
			}
		}

		assert.Equal(t, expected, nilIfEmpty(status.ActiveFlags(false)), "byte %#02x", b)
	}
}

func TestStatus_ActiveFlags_ExcludeNoFail(t *testing.T) {
	status := Status(0b00000101) // no-fail + busy

	assert.Equal(t, []string{"no fail", "busy"}, status.ActiveFlags(false))
	assert.Equal(t, []string{"busy"}, status.ActiveFlags(true))
}

func TestStatus_Describe(t *testing.T) {
	tests := []struct {
		name          string
		status        Status
		excludeNoFail bool
		expected      string
	}{
		{name: "Idle", status: Status(0x00), excludeNoFail: true, expected: "idle"},
		{name: "NoFailOnlyExcluded", status: Status(0x01), excludeNoFail: true, expected: "idle"},
		{name: "BusyNotAtTemp", status: Status(0x0c), excludeNoFail: true, expected: "busy, not at seal temperature"},
		{name: "NoFailIncluded", status: Status(0x01), excludeNoFail: false, expected: "no fail"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.status.Describe(tt.excludeNoFail))
		})
	}
}

func TestStatusBit_String(t *testing.T) {
	assert.Equal(t, "no fail", BitNoFail.String())
	assert.Equal(t, "park mode", BitParkMode.String())
	assert.Equal(t, "unknown", StatusBit(42).String())
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}
