package tui

import "sync"

// History is the terminal host's location: a stack of visited paths.
type History struct {
	mu      sync.Mutex
	entries []string
}

// NewHistory starts a history at path.
func NewHistory(path string) *History {
	if path == "" {
		path = "/"
	}
	return &History{entries: []string{path}}
}

// Path implements navigation.Location.
func (h *History) Path() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[len(h.entries)-1]
}

// Push visits path.
func (h *History) Push(path string) {
	h.mu.Lock()
	h.entries = append(h.entries, path)
	h.mu.Unlock()
}

// Back pops the current entry. It reports false at the first entry.
func (h *History) Back() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) <= 1 {
		return false
	}
	h.entries = h.entries[:len(h.entries)-1]
	return true
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
