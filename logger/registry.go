package logger

import "sync"

var named = struct {
	sync.RWMutex
	loggers map[string]*Logger
}{loggers: make(map[string]*Logger)}

// Register makes l the logger returned by Get(name). bootstrap registers
// the application logger under the service name.
func Register(name string, l *Logger) {
	named.Lock()
	defer named.Unlock()
	if l == nil {
		delete(named.loggers, name)
		return
	}
	named.loggers[name] = l
}

// Get returns the logger registered under name, or the global logger
// tagged with name as its component.
func Get(name string) *Logger {
	named.RLock()
	l, ok := named.loggers[name]
	named.RUnlock()
	if ok {
		return l
	}
	return GetGlobalLogger().WithComponent(name)
}
