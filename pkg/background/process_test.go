package background

import (
	"sync/atomic"
	"testing"
	"time"

	"tasker_server/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nopLogger :
// Swallows every trace so that the tests stay silent.
type nopLogger struct{}

func (l nopLogger) Trace(level logger.Severity, module string, message string) {}

func TestProcessExecutesTheOperation(t *testing.T) {
	var count int32

	proc := NewProcess(5*time.Millisecond, nopLogger{}).
		WithModule("test").
		WithOperation(func() (bool, error) {
			atomic.AddInt32(&count, 1)
			return true, nil
		})

	require.NoError(t, proc.Start())

	// Leave enough room for several ticks.
	time.Sleep(60 * time.Millisecond)
	proc.Stop()

	assert.Greater(t, atomic.LoadInt32(&count), int32(1))
}

func TestProcessStopPreventsFurtherExecutions(t *testing.T) {
	var count int32

	proc := NewProcess(5*time.Millisecond, nopLogger{}).
		WithOperation(func() (bool, error) {
			atomic.AddInt32(&count, 1)
			return true, nil
		})

	require.NoError(t, proc.Start())
	time.Sleep(20 * time.Millisecond)
	proc.Stop()

	settled := atomic.LoadInt32(&count)
	time.Sleep(30 * time.Millisecond)

	assert.Equal(t, settled, atomic.LoadInt32(&count))
}

func TestProcessCannotStartTwice(t *testing.T) {
	proc := NewProcess(time.Hour, nopLogger{}).
		WithOperation(func() (bool, error) { return true, nil })

	require.NoError(t, proc.Start())
	defer proc.Stop()

	assert.Equal(t, ErrAlreadyRunning, proc.Start())
}

func TestProcessRejectsMissingOperation(t *testing.T) {
	proc := NewProcess(time.Hour, nopLogger{})

	assert.Equal(t, ErrInvalidOperation, proc.Start())
}

func TestProcessRecoversFromPanicInOperation(t *testing.T) {
	proc := NewProcess(5*time.Millisecond, nopLogger{}).
		WithOperation(func() (bool, error) {
			panic("boom")
		})

	require.NoError(t, proc.Start())
	time.Sleep(20 * time.Millisecond)

	// The panic terminated the loop: the process can be
	// started again.
	assert.Eventually(t, func() bool {
		return proc.Start() == nil
	}, time.Second, 10*time.Millisecond)

	proc.Stop()
}
