package sos

import "sync"

// Manager 按用户维护各自的确认状态机
type Manager struct {
	mu       sync.Mutex
	machines map[string]*Machine
	factory  func(userID string) *Machine
}

func NewManager(factory func(userID string) *Machine) *Manager {
	return &Manager{
		machines: make(map[string]*Machine),
		factory:  factory,
	}
}

// Get 取用户的状态机，首次访问时创建
func (m *Manager) Get(userID string) *Machine {
	m.mu.Lock()
	defer m.mu.Unlock()
	machine, ok := m.machines[userID]
	if !ok {
		machine = m.factory(userID)
		m.machines[userID] = machine
	}
	return machine
}

// Reset 移除用户的状态机，Sent 终态离开页面后重建
func (m *Manager) Reset(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if machine, ok := m.machines[userID]; ok {
		machine.Cancel()
		delete(m.machines, userID)
	}
}
