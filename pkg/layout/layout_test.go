package layout

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"tableflip.dev/sidenav/pkg/events"
	"tableflip.dev/sidenav/pkg/prefs"
)

func newPrefs() (*Preferences, *prefs.Store, *[]events.Event) {
	store := prefs.New(prefs.NewMemoryBackend())
	bus := events.NewBus()
	var seen []events.Event
	bus.Subscribe(events.Any, func(ev events.Event) { seen = append(seen, ev) })
	return New(store, bus), store, &seen
}

func TestDefaults(t *testing.T) {
	p, _, _ := newPrefs()
	if got := p.Layout(); got != Sidebar {
		t.Fatalf("expected default layout %q, got %q", Sidebar, got)
	}
	if p.SidebarCollapsed() {
		t.Fatal("expected sidebar expanded by default")
	}
}

func TestSettersPersistAndDispatch(t *testing.T) {
	p, store, seen := newPrefs()

	p.SetLayout(Horizontal)
	p.SetSidebarCollapsed(true)

	if got := p.Layout(); got != Horizontal {
		t.Fatalf("expected %q, got %q", Horizontal, got)
	}
	if !p.SidebarCollapsed() {
		t.Fatal("expected sidebar collapsed")
	}
	want := prefs.Preferences{KeyLayout: Horizontal, KeySidebarCollapsed: true}
	if diff := cmp.Diff(want, store.All()); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}

	wantEvents := []events.Event{
		{Name: events.LayoutChanged, Detail: map[string]any{"layout": Horizontal}},
		{Name: events.SidebarCollapsedChanged, Detail: map[string]any{"collapsed": true}},
	}
	if diff := cmp.Diff(wantEvents, *seen, cmpopts.IgnoreFields(events.Event{}, "At")); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestToggles(t *testing.T) {
	p, _, _ := newPrefs()
	if got := p.ToggleLayout(); got != Horizontal {
		t.Fatalf("expected first toggle to horizontal, got %q", got)
	}
	if got := p.ToggleLayout(); got != Sidebar {
		t.Fatalf("expected second toggle to sidebar, got %q", got)
	}
	if !p.ToggleSidebar() || p.ToggleSidebar() {
		t.Fatal("expected sidebar toggle to flip twice")
	}
}

func TestUnknownLayoutStoredAsGiven(t *testing.T) {
	p, _, _ := newPrefs()
	p.SetLayout("grid")
	if got := p.Layout(); got != "grid" {
		t.Fatalf("expected unknown layout kept, got %q", got)
	}
}

func TestEmptyLayoutFallsBackToSidebar(t *testing.T) {
	p, store, _ := newPrefs()

	p.SetLayout("")
	if got := p.Layout(); got != Sidebar {
		t.Fatalf("expected empty layout to read as %q, got %q", Sidebar, got)
	}
	store.Set(KeyLayout, 3.0)
	if got := p.Layout(); got != Sidebar {
		t.Fatalf("expected non-string layout to read as %q, got %q", Sidebar, got)
	}
}

func TestSidebarCollapsedTruthiness(t *testing.T) {
	p, store, _ := newPrefs()

	tests := []struct {
		stored any
		want   bool
	}{
		{true, true},
		{false, false},
		{"true", true},
		{"false", true},
		{"", false},
		{1.0, true},
		{0.0, false},
		{nil, false},
		{map[string]any{}, true},
	}
	for _, tt := range tests {
		store.Set(KeySidebarCollapsed, tt.stored)
		if got := p.SidebarCollapsed(); got != tt.want {
			t.Fatalf("stored %#v: expected collapsed %v, got %v", tt.stored, tt.want, got)
		}
	}
}

func TestApply(t *testing.T) {
	p, _, seen := newPrefs()

	if !p.Apply(events.Event{Name: events.LayoutChanged, Detail: map[string]any{"layout": Horizontal}}) {
		t.Fatal("expected layout event applied")
	}
	if !p.Apply(events.Event{Name: events.SidebarCollapsedChanged, Detail: map[string]any{"collapsed": true}}) {
		t.Fatal("expected sidebar event applied")
	}
	if p.Apply(events.Event{Name: events.LayoutChanged, Detail: map[string]any{"layout": 3}}) {
		t.Fatal("expected malformed payload rejected")
	}
	if p.Apply(events.Event{Name: "other"}) {
		t.Fatal("expected unknown event rejected")
	}

	if p.Layout() != Horizontal || !p.SidebarCollapsed() {
		t.Fatalf("expected applied values, got %q/%v", p.Layout(), p.SidebarCollapsed())
	}
	if len(*seen) != 0 {
		t.Fatalf("expected Apply not to re-dispatch, got %d events", len(*seen))
	}
}

func TestNilBus(t *testing.T) {
	p := New(prefs.New(prefs.NewMemoryBackend()), nil)
	p.SetLayout(Horizontal)
	if p.Layout() != Horizontal {
		t.Fatal("expected layout persisted without a bus")
	}
}
