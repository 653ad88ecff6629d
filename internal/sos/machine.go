// Package sos implements the emergency confirmation flow. Activation
// starts a countdown; the user can cancel before it reaches zero, and
// only a successful dispatch moves the machine to Sent. A dispatch
// failure lands in Failed, from which the user can retry.
package sos

import (
	"context"
	"sync"
	"time"

	"TourShield/pkg/logger"

	"go.uber.org/zap"
)

type State string

const (
	StateIdle       State = "idle"
	StateConfirming State = "confirming"
	StateSent       State = "sent"
	StateFailed     State = "failed"
)

// DefaultCountdown 激活后倒计时秒数
const DefaultCountdown = 5

// DispatchFunc 派发告警，返回生成的告警 ID
type DispatchFunc func(ctx context.Context) (alertID string, err error)

// Snapshot 对外暴露的机器状态
type Snapshot struct {
	State     State  `json:"state"`
	Countdown int    `json:"countdown"`
	AlertID   string `json:"alertId,omitempty"`
	LastError string `json:"lastError,omitempty"`
}

// Machine 单次 SOS 会话的确认状态机
type Machine struct {
	mu        sync.Mutex
	state     State
	countdown int
	alertID   string
	lastErr   error

	dispatch DispatchFunc
	interval time.Duration
	stop     chan struct{}
}

type Option func(*Machine)

// WithTickInterval 覆盖倒计时节拍，测试用短间隔
func WithTickInterval(d time.Duration) Option {
	return func(m *Machine) { m.interval = d }
}

func NewMachine(dispatch DispatchFunc, opts ...Option) *Machine {
	m := &Machine{
		state:     StateIdle,
		countdown: DefaultCountdown,
		dispatch:  dispatch,
		interval:  time.Second,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Activate 进入确认态并开始倒计时，非 Idle 状态下为空操作
func (m *Machine) Activate(ctx context.Context) {
	m.mu.Lock()
	if m.state != StateIdle {
		m.mu.Unlock()
		return
	}
	m.state = StateConfirming
	m.countdown = DefaultCountdown
	m.stop = make(chan struct{})
	stop := m.stop
	m.mu.Unlock()

	go m.run(ctx, stop)
}

func (m *Machine) run(ctx context.Context, stop chan struct{}) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			m.Cancel()
			return
		case <-ticker.C:
			if m.Tick(ctx) {
				return
			}
		}
	}
}

// Tick 倒计时减一，归零时触发派发，返回 true 表示倒计时结束
func (m *Machine) Tick(ctx context.Context) bool {
	m.mu.Lock()
	if m.state != StateConfirming {
		m.mu.Unlock()
		return true
	}
	m.countdown--
	if m.countdown > 0 {
		m.mu.Unlock()
		return false
	}
	m.countdown = 0
	m.mu.Unlock()

	m.Confirm(ctx)
	return true
}

// Confirm 立即派发，跳过剩余倒计时。只有派发成功才进入 Sent
func (m *Machine) Confirm(ctx context.Context) {
	m.mu.Lock()
	if m.state != StateConfirming && m.state != StateFailed {
		m.mu.Unlock()
		return
	}
	if m.stop != nil {
		close(m.stop)
		m.stop = nil
	}
	m.mu.Unlock()

	alertID, err := m.dispatch(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	// 派发期间被取消则保持 Idle，已发出的警报只记日志
	if m.state == StateIdle {
		if err == nil {
			logger.Warn("sos dispatch completed after cancel", zap.String("alert_id", alertID))
		}
		return
	}
	if err != nil {
		m.state = StateFailed
		m.lastErr = err
		logger.Warn("sos dispatch failed", zap.Error(err))
		return
	}
	m.state = StateSent
	m.alertID = alertID
	m.lastErr = nil
}

// Retry 从 Failed 态重新派发
func (m *Machine) Retry(ctx context.Context) {
	m.mu.Lock()
	if m.state != StateFailed {
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()
	m.Confirm(ctx)
}

// Cancel 回到初始态并重置倒计时，任何阶段都可取消
func (m *Machine) Cancel() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stop != nil {
		close(m.stop)
		m.stop = nil
	}
	m.state = StateIdle
	m.countdown = DefaultCountdown
	m.alertID = ""
	m.lastErr = nil
}

// Current 当前状态快照
func (m *Machine) Current() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := Snapshot{
		State:     m.state,
		Countdown: m.countdown,
		AlertID:   m.alertID,
	}
	if m.lastErr != nil {
		snap.LastError = m.lastErr.Error()
	}
	return snap
}
