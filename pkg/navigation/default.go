package navigation

import "sync"

var (
	defaultMu    sync.RWMutex
	defaultState *State
)

// Default returns the session-wide State installed with SetDefault, or nil
// before the host initialised it. It is never torn down; the session's end
// ends it.
func Default() *State {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultState
}

// SetDefault installs s as the session-wide State and returns the previous one.
func SetDefault(s *State) *State {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	prev := defaultState
	defaultState = s
	return prev
}
