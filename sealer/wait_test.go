package sealer

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/labautomata/go-sealer/internal/clock"
	"github.com/labautomata/go-sealer/logger"
)

func testWaitSpec(interval, timeout time.Duration, logReasons bool) waitSpec {
	return waitSpec{
		name:       "test condition",
		interval:   interval,
		timeout:    timeout,
		logReasons: logReasons,
	}
}

func TestWaitUntil_ImmediateSuccess(t *testing.T) {
	fake := clock.NewFake(time.Unix(0, 0))
	calls := 0

	err := waitUntil(fake, logger.GetLogger(), testWaitSpec(time.Second, time.Minute, false),
		func() (bool, string, error) {
			calls++
			return true, "", nil
		})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, time.Unix(0, 0), fake.Now(), "no sleep for an already-satisfied condition")
}

func TestWaitUntil_SucceedsAfterPolls(t *testing.T) {
	fake := clock.NewFake(time.Unix(0, 0))
	calls := 0

	err := waitUntil(fake, logger.GetLogger(), testWaitSpec(time.Second, time.Minute, false),
		func() (bool, string, error) {
			calls++
			return calls >= 3, "still waiting", nil
		})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2*time.Second, fake.Now().Sub(time.Unix(0, 0)))
}

func TestWaitUntil_Timeout(t *testing.T) {
	fake := clock.NewFake(time.Unix(0, 0))
	calls := 0

	err := waitUntil(fake, logger.GetLogger(), testWaitSpec(time.Second, 5*time.Second, false),
		func() (bool, string, error) {
			calls++
			return false, "device busy", nil
		})

	require.Error(t, err)
	timeoutErr := &TimeoutError{}
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, "test condition", timeoutErr.Wait)
	assert.Equal(t, 5*time.Second, timeoutErr.Elapsed)
	assert.Equal(t, "device busy", timeoutErr.LastReason)

	// Immediate check plus one per elapsed second: the budget must be fully
	// consumed before the timeout fires, not before.
	assert.Equal(t, 6, calls)
}

func TestWaitUntil_TimeoutKeepsLastReason(t *testing.T) {
	fake := clock.NewFake(time.Unix(0, 0))
	reasons := []string{"first", "second", ""}
	calls := 0

	err := waitUntil(fake, logger.GetLogger(), testWaitSpec(time.Second, 2*time.Second, false),
		func() (bool, string, error) {
			reason := reasons[calls]
			calls++
			return false, reason, nil
		})

	timeoutErr := &TimeoutError{}
	require.ErrorAs(t, err, &timeoutErr)
	// An empty reason does not erase the last known one.
	assert.Equal(t, "second", timeoutErr.LastReason)
}

func TestWaitUntil_ConditionErrorAborts(t *testing.T) {
	fake := clock.NewFake(time.Unix(0, 0))
	cause := errors.New("port gone")

	err := waitUntil(fake, logger.GetLogger(), testWaitSpec(time.Second, time.Minute, false),
		func() (bool, string, error) {
			return false, "", cause
		})

	require.ErrorIs(t, err, cause)
	assert.Equal(t, time.Unix(0, 0), fake.Now(), "no polling after a condition error")
}

func TestWaitUntil_LogsReasonChangesOnce(t *testing.T) {
	fake := clock.NewFake(time.Unix(0, 0))
	mockLog := logger.NewMockLogger()
	mockLog.On("Info", mock.Anything, mock.Anything).Return()

	reasons := []string{"busy", "busy", "busy, park mode", "busy, park mode"}
	calls := 0

	err := waitUntil(fake, mockLog, testWaitSpec(time.Second, time.Minute, true),
		func() (bool, string, error) {
			if calls >= len(reasons) {
				return true, "", nil
			}
			reason := reasons[calls]
			calls++
			return false, reason, nil
		})

	require.NoError(t, err)
	// One line per distinct reason, not one per poll.
	mockLog.AssertNumberOfCalls(t, "Info", 2)
}

func TestWaitUntil_NoReasonLoggingWhenDisabled(t *testing.T) {
	fake := clock.NewFake(time.Unix(0, 0))
	mockLog := logger.NewMockLogger()

	calls := 0
	err := waitUntil(fake, mockLog, testWaitSpec(time.Second, time.Minute, false),
		func() (bool, string, error) {
			calls++
			return calls >= 3, "heating", nil
		})

	require.NoError(t, err)
	mockLog.AssertNotCalled(t, "Info", mock.Anything, mock.Anything)
}
