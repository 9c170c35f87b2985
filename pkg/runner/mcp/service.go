package mcp

import (
	"errors"
	"fmt"

	"tableflip.dev/sidenav/pkg/events"
	"tableflip.dev/sidenav/pkg/layout"
	"tableflip.dev/sidenav/pkg/pathmatch"
	"tableflip.dev/sidenav/pkg/prefs"
)

// ErrNotFound is returned for a preference that was never written.
var ErrNotFound = errors.New("preference not set")

// Service adapts the preference store for MCP tools and resources.
type Service struct {
	store  *prefs.Store
	layout *layout.Preferences
}

// NewService wraps store. Layout changes are dispatched on bus, which may be
// nil.
func NewService(store *prefs.Store, bus *events.Bus) *Service {
	return &Service{store: store, layout: layout.New(store, bus)}
}

// Preferences returns the whole record.
func (s *Service) Preferences() prefs.Preferences {
	return s.store.All()
}

// Preference returns one value.
func (s *Service) Preference(key string) (any, error) {
	v, ok := s.store.Get(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return v, nil
}

// SetPreference stores value under key. The layout keys are type checked and
// go through the layout accessors.
func (s *Service) SetPreference(key string, value any) error {
	switch key {
	case "":
		return errors.New("key is required")
	case layout.KeyLayout:
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("layout must be a string, got %T", value)
		}
		s.layout.SetLayout(v)
	case layout.KeySidebarCollapsed:
		v, ok := value.(bool)
		if !ok {
			return fmt.Errorf("sidebarCollapsed must be a boolean, got %T", value)
		}
		s.layout.SetSidebarCollapsed(v)
	default:
		s.store.Set(key, value)
	}
	return nil
}

// MatchResult reports which items are active for a path.
type MatchResult struct {
	Current     string          `json:"current"`
	Normalized  string          `json:"normalized"`
	Active      map[string]bool `json:"active"`
	ChildActive bool            `json:"childActive"`
}

// Match evaluates items against current.
func (s *Service) Match(current string, items []string, exact bool) MatchResult {
	r := MatchResult{
		Current:     current,
		Normalized:  pathmatch.Normalize(current),
		Active:      make(map[string]bool, len(items)),
		ChildActive: pathmatch.IsChildActive(items, current),
	}
	for _, item := range items {
		r.Active[item] = pathmatch.IsActive(item, current, exact)
	}
	return r
}
