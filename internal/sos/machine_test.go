package sos

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activateWithoutTicker(m *Machine) {
	m.mu.Lock()
	m.state = StateConfirming
	m.countdown = DefaultCountdown
	m.mu.Unlock()
}

func TestMachineCountdownDispatch(t *testing.T) {
	var calls int32
	m := NewMachine(func(ctx context.Context) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "alert-1", nil
	})
	activateWithoutTicker(m)

	ctx := context.Background()
	for i := 0; i < DefaultCountdown-1; i++ {
		assert.False(t, m.Tick(ctx))
	}
	assert.True(t, m.Tick(ctx))

	snap := m.Current()
	assert.Equal(t, StateSent, snap.State)
	assert.Equal(t, "alert-1", snap.AlertID)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls), "exactly one alert dispatched")
}

func TestMachineCancelResetsCountdown(t *testing.T) {
	var calls int32
	m := NewMachine(func(ctx context.Context) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "alert-1", nil
	})
	activateWithoutTicker(m)

	ctx := context.Background()
	m.Tick(ctx)
	m.Tick(ctx)
	m.Cancel()

	snap := m.Current()
	assert.Equal(t, StateIdle, snap.State)
	assert.Equal(t, DefaultCountdown, snap.Countdown)
	assert.EqualValues(t, 0, atomic.LoadInt32(&calls), "cancel before zero produces no alert")
}

func TestMachineDispatchFailureIsRetryable(t *testing.T) {
	var calls int32
	m := NewMachine(func(ctx context.Context) (string, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return "", errors.New("upstream unavailable")
		}
		return "alert-2", nil
	})
	activateWithoutTicker(m)

	ctx := context.Background()
	m.Confirm(ctx)
	snap := m.Current()
	assert.Equal(t, StateFailed, snap.State, "failure must not surface as sent")
	assert.Empty(t, snap.AlertID)
	assert.Contains(t, snap.LastError, "upstream unavailable")

	m.Retry(ctx)
	snap = m.Current()
	assert.Equal(t, StateSent, snap.State)
	assert.Equal(t, "alert-2", snap.AlertID)
}

func TestMachineCancelDuringDispatchStaysIdle(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	m := NewMachine(func(ctx context.Context) (string, error) {
		close(started)
		<-release
		return "alert-5", nil
	})
	activateWithoutTicker(m)

	done := make(chan struct{})
	go func() {
		m.Confirm(context.Background())
		close(done)
	}()

	<-started
	m.Cancel()
	close(release)
	<-done

	// 派发途中取消，结果不得覆盖 Idle
	snap := m.Current()
	assert.Equal(t, StateIdle, snap.State)
	assert.Equal(t, DefaultCountdown, snap.Countdown)
	assert.Empty(t, snap.AlertID)
}

func TestMachineActivateRunsTicker(t *testing.T) {
	done := make(chan struct{})
	m := NewMachine(func(ctx context.Context) (string, error) {
		close(done)
		return "alert-3", nil
	}, WithTickInterval(time.Millisecond))

	m.Activate(context.Background())
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("countdown never dispatched")
	}

	require.Eventually(t, func() bool {
		return m.Current().State == StateSent
	}, time.Second, 5*time.Millisecond)
}

func TestMachineActivateIsIdempotentWhileConfirming(t *testing.T) {
	m := NewMachine(func(ctx context.Context) (string, error) {
		return "alert-4", nil
	}, WithTickInterval(time.Hour))

	m.Activate(context.Background())
	first := m.Current()
	m.Activate(context.Background())
	assert.Equal(t, first, m.Current())
	m.Cancel()
}
