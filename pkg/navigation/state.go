// Package navigation tracks the current path and active navigation item for
// a session and answers "is this entry active" queries against it.
package navigation

import (
	"context"
	"sort"
	"sync"

	"tableflip.dev/sidenav/pkg/metric"
	"tableflip.dev/sidenav/pkg/pathmatch"
)

// Location reports the path the host is currently showing.
type Location interface {
	Path() string
}

// LocationFunc adapts a function to Location.
type LocationFunc func() string

// Path implements Location.
func (f LocationFunc) Path() string { return f() }

// Signal is a navigation-completion notification.
type Signal int

const (
	// PageNavigated is sent when the server-driven view finished loading a page.
	PageNavigated Signal = iota
	// PopState is sent on browser history back/forward.
	PopState
)

func (s Signal) String() string {
	switch s {
	case PageNavigated:
		return "navigated"
	case PopState:
		return "popstate"
	default:
		return "unknown"
	}
}

// State holds the current path and active item id. The raw location path is
// stored; queries normalise it.
type State struct {
	loc     Location
	signals metric.IncrementalCounter

	mu          sync.RWMutex
	currentPath string
	activeItem  string
	hasActive   bool

	subMu  sync.Mutex
	nextID int
	subs   map[int]func(path string)
}

// Option customises a State.
type Option func(*State)

// WithSignalCounter counts handled signals by kind.
func WithSignalCounter(c metric.IncrementalCounter) Option {
	return func(s *State) { s.signals = c }
}

// New captures loc's current path as the initial state.
func New(loc Location, opts ...Option) *State {
	s := &State{
		loc:         loc,
		currentPath: loc.Path(),
		subs:        make(map[int]func(string)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handle applies a signal. Both signals overwrite the current path with the
// location's path; the last write wins.
func (s *State) Handle(sig Signal) {
	path := s.loc.Path()

	s.mu.Lock()
	s.currentPath = path
	s.mu.Unlock()

	if s.signals != nil {
		s.signals.Increment(sig.String())
	}
	s.notify(path)
}

// PageNavigated handles the page-navigation-finished signal.
func (s *State) PageNavigated() { s.Handle(PageNavigated) }

// PopState handles the history back/forward signal.
func (s *State) PopState() { s.Handle(PopState) }

// Listen applies signals from ch until ctx is done or ch is closed.
func (s *State) Listen(ctx context.Context, ch <-chan Signal) {
	for {
		select {
		case <-ctx.Done():
			return
		case sig, ok := <-ch:
			if !ok {
				return
			}
			s.Handle(sig)
		}
	}
}

// CurrentPath returns the stored path as reported by the location.
func (s *State) CurrentPath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentPath
}

// IsActive reports whether path matches the current path.
func (s *State) IsActive(path string, exact bool) bool {
	return pathmatch.IsActive(path, s.CurrentPath(), exact)
}

// IsChildActive reports whether any of paths matches the current path.
func (s *State) IsChildActive(paths []string) bool {
	return pathmatch.IsChildActive(paths, s.CurrentPath())
}

// ActiveItem returns the active item id. ok is false when none is set.
func (s *State) ActiveItem() (id string, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeItem, s.hasActive
}

// SetActiveItem records id as the active item.
func (s *State) SetActiveItem(id string) {
	s.mu.Lock()
	s.activeItem = id
	s.hasActive = true
	s.mu.Unlock()
}

// ClearActiveItem resets the active item to none.
func (s *State) ClearActiveItem() {
	s.mu.Lock()
	s.activeItem = ""
	s.hasActive = false
	s.mu.Unlock()
}

// Subscribe registers fn to run after every signal with the new path.
func (s *State) Subscribe(fn func(path string)) (cancel func()) {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

func (s *State) notify(path string) {
	s.subMu.Lock()
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	fns := make([]func(string), 0, len(ids))
	sort.Ints(ids)
	for _, id := range ids {
		fns = append(fns, s.subs[id])
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(path)
	}
}
