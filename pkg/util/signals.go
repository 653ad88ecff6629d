package util

import "sync"

// SignalHandler 信号回调，sender 为触发方，params 为附加参数
type SignalHandler func(sender any, params ...any)

// signalHub 进程内的发布/订阅中心，业务模块通过信号解耦
type signalHub struct {
	mu       sync.RWMutex
	handlers map[string][]SignalHandler
}

var (
	hubOnce sync.Once
	hub     *signalHub
)

// Sig 获取全局信号中心
func Sig() *signalHub {
	hubOnce.Do(func() {
		hub = &signalHub{handlers: make(map[string][]SignalHandler)}
	})
	return hub
}

// Connect 注册信号监听
func (s *signalHub) Connect(sig string, handler SignalHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[sig] = append(s.handlers[sig], handler)
}

// Emit 触发信号，按注册顺序同步调用
func (s *signalHub) Emit(sig string, sender any, params ...any) {
	s.mu.RLock()
	handlers := append([]SignalHandler(nil), s.handlers[sig]...)
	s.mu.RUnlock()
	for _, h := range handlers {
		h(sender, params...)
	}
}

// Clear 清空某个信号的监听（测试用）
func (s *signalHub) Clear(sig string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.handlers, sig)
}
