// Package layout exposes the persisted layout preferences hosts bind to.
package layout

import (
	"math"

	"tableflip.dev/sidenav/pkg/events"
	"tableflip.dev/sidenav/pkg/prefs"
)

const (
	// KeyLayout is the preference key of the navigation layout.
	KeyLayout = "layout"
	// KeySidebarCollapsed is the preference key of the sidebar collapsed flag.
	KeySidebarCollapsed = "sidebarCollapsed"

	// Sidebar is the default layout.
	Sidebar = "sidebar"
	// Horizontal places navigation across the top.
	Horizontal = "horizontal"
)

// Layouts lists the layouts hosts know how to render.
var Layouts = []string{Sidebar, Horizontal}

// Preferences reads and writes layout preferences and announces changes.
type Preferences struct {
	store *prefs.Store
	bus   *events.Bus
}

// New binds the accessors to store. bus may be nil when nobody listens.
func New(store *prefs.Store, bus *events.Bus) *Preferences {
	return &Preferences{store: store, bus: bus}
}

// Layout returns the persisted layout. An empty or non-string value reads as
// "sidebar".
func (p *Preferences) Layout() string {
	v, _ := p.store.Get(KeyLayout)
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return Sidebar
}

// SetLayout persists the layout and dispatches LayoutChanged. Values outside
// Layouts are stored as given.
func (p *Preferences) SetLayout(v string) {
	p.store.Set(KeyLayout, v)
	p.dispatch(events.LayoutChanged, map[string]any{"layout": v})
}

// ToggleLayout flips between the sidebar and horizontal layouts.
func (p *Preferences) ToggleLayout() string {
	next := Horizontal
	if p.Layout() == Horizontal {
		next = Sidebar
	}
	p.SetLayout(next)
	return next
}

// SidebarCollapsed returns the persisted flag, false by default. Non-bool
// values count by truthiness: "true" restored as a string is collapsed.
func (p *Preferences) SidebarCollapsed() bool {
	v, _ := p.store.Get(KeySidebarCollapsed)
	return truthy(v)
}

// SetSidebarCollapsed persists the flag and dispatches SidebarCollapsedChanged.
func (p *Preferences) SetSidebarCollapsed(v bool) {
	p.store.Set(KeySidebarCollapsed, v)
	p.dispatch(events.SidebarCollapsedChanged, map[string]any{"collapsed": v})
}

// ToggleSidebar flips the collapsed flag and returns the new value.
func (p *Preferences) ToggleSidebar() bool {
	next := !p.SidebarCollapsed()
	p.SetSidebarCollapsed(next)
	return next
}

// Apply sets a preference from an incoming event, e.g. one relayed by the
// push channel. It reports whether the event was understood.
func (p *Preferences) Apply(ev events.Event) bool {
	switch ev.Name {
	case events.LayoutChanged:
		v, ok := ev.Detail["layout"].(string)
		if !ok {
			return false
		}
		p.store.Set(KeyLayout, v)
		return true
	case events.SidebarCollapsedChanged:
		v, ok := ev.Detail["collapsed"].(bool)
		if !ok {
			return false
		}
		p.store.Set(KeySidebarCollapsed, v)
		return true
	default:
		return false
	}
}

// truthy treats false, zero, NaN, "" and nil as false and everything else as
// true.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0 && !math.IsNaN(t)
	case int:
		return t != 0
	default:
		return true
	}
}

func (p *Preferences) dispatch(name events.Name, detail map[string]any) {
	if p.bus == nil {
		return
	}
	p.bus.Dispatch(events.New(name, detail))
}
