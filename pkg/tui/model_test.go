package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/sidenav/pkg/collapse"
	"tableflip.dev/sidenav/pkg/events"
	"tableflip.dev/sidenav/pkg/layout"
	"tableflip.dev/sidenav/pkg/prefs"
	"tableflip.dev/sidenav/pkg/push"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestModel(t *testing.T, store *prefs.Store, start string) (*Model, *fakeClock, *events.Bus) {
	t.Helper()
	clock := &fakeClock{t: time.Unix(0, 0)}
	bus := events.NewBus()
	m := New(Options{
		Store:     store,
		Bus:       bus,
		Collapse:  collapse.Config{DurationMs: 100},
		StartPath: start,
		Clock:     clock.Now,
	})
	return m, clock, bus
}

// settle runs the clock past any transition and delivers a frame.
func settle(m *Model, clock *fakeClock) {
	clock.Advance(time.Second)
	m.Update(frameMsg(clock.Now()))
}

func press(m *Model, keys ...tea.KeyPressMsg) {
	for _, k := range keys {
		m.Update(k)
	}
}

var (
	keyDown      = tea.KeyPressMsg{Code: tea.KeyDown}
	keyEnter     = tea.KeyPressMsg{Code: tea.KeyEnter}
	keyBackspace = tea.KeyPressMsg{Code: tea.KeyBackspace}
)

func letter(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Text: string(r), Code: r}
}

func (m *Model) sectionByID(id string) *section {
	for _, s := range m.sections {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func TestNewRestoresOpenSection(t *testing.T) {
	store := prefs.New(prefs.NewMemoryBackend())
	store.Set(OpenSectionKey, "reports")

	m, clock, _ := newTestModel(t, store, "/")
	reports := m.sectionByID("reports")
	if !reports.open() {
		t.Fatal("expected reports restored open")
	}
	if reports.ctrl.Phase() != collapse.Expanding {
		t.Fatalf("expected Expanding, got %s", reports.ctrl.Phase())
	}

	settle(m, clock)
	if reports.ctrl.Phase() != collapse.Expanded {
		t.Fatalf("expected Expanded, got %s", reports.ctrl.Phase())
	}
	if got := len(m.rows()); got != len(m.sections)+len(reports.Links) {
		t.Fatalf("expected headers plus reports links, got %d rows", got)
	}
}

func TestStartPathOpensParentSection(t *testing.T) {
	store := prefs.New(prefs.NewMemoryBackend())
	m, _, _ := newTestModel(t, store, "/settings/profile")

	if !m.sectionByID("settings").open() {
		t.Fatal("expected settings open for a child path")
	}
	if got := store.GetString(OpenSectionKey, ""); got != "settings" {
		t.Fatalf("expected open section persisted, got %q", got)
	}
	if id, ok := m.Navigation().ActiveItem(); !ok || id != "/settings/profile" {
		t.Fatalf("expected active item /settings/profile, got %q %v", id, ok)
	}
}

func TestEnterTogglesSectionAndNavigates(t *testing.T) {
	store := prefs.New(prefs.NewMemoryBackend())
	m, clock, _ := newTestModel(t, store, "/")

	if id, ok := m.Navigation().ActiveItem(); !ok || id != "/" {
		t.Fatalf("expected dashboard active at root, got %q %v", id, ok)
	}

	press(m, keyDown, keyEnter)
	projects := m.sectionByID("projects")
	if !projects.open() {
		t.Fatal("expected projects open after enter")
	}
	if got := store.GetString(OpenSectionKey, ""); got != "projects" {
		t.Fatalf("expected open section persisted, got %q", got)
	}
	settle(m, clock)

	press(m, keyDown, keyEnter)
	if got := m.Navigation().CurrentPath(); got != "/projects/all" {
		t.Fatalf("expected /projects/all, got %q", got)
	}
	if !m.Navigation().IsActive("/projects", false) {
		t.Fatal("expected section path active for its child")
	}
	if id, _ := m.Navigation().ActiveItem(); id != "/projects/all" {
		t.Fatalf("expected active item /projects/all, got %q", id)
	}

	press(m, keyBackspace)
	if got := m.Navigation().CurrentPath(); got != "/" {
		t.Fatalf("expected popstate back to /, got %q", got)
	}
	if id, _ := m.Navigation().ActiveItem(); id != "/" {
		t.Fatalf("expected dashboard active again, got %q", id)
	}

	// Back at the first entry is a no-op.
	press(m, keyBackspace)
	if got := m.Navigation().CurrentPath(); got != "/" {
		t.Fatalf("expected to stay at /, got %q", got)
	}
}

func TestOpeningSectionClosesOthers(t *testing.T) {
	store := prefs.New(prefs.NewMemoryBackend())
	m, clock, _ := newTestModel(t, store, "/")

	m.toggleSection(1)
	settle(m, clock)
	m.toggleSection(2)

	projects, reports := m.sectionByID("projects"), m.sectionByID("reports")
	if projects.open() || projects.ctrl.Phase() != collapse.Collapsing {
		t.Fatalf("expected projects collapsing, got %s", projects.ctrl.Phase())
	}
	if !reports.open() || reports.ctrl.Phase() != collapse.Expanding {
		t.Fatalf("expected reports expanding, got %s", reports.ctrl.Phase())
	}

	settle(m, clock)
	m.toggleSection(2)
	if got := store.GetString(OpenSectionKey, "missing"); got != "" {
		t.Fatalf("expected closed state persisted as empty, got %q", got)
	}

	// Sections without links never open.
	m.toggleSection(0)
	if m.sectionByID("dashboard").open() {
		t.Fatal("expected dashboard to stay closed")
	}
}

func TestLayoutKeysPersistAndDispatch(t *testing.T) {
	store := prefs.New(prefs.NewMemoryBackend())
	m, _, bus := newTestModel(t, store, "/")

	var got []events.Name
	bus.Subscribe(events.Any, func(ev events.Event) { got = append(got, ev.Name) })

	press(m, letter('l'))
	if m.Layout().Layout() != layout.Horizontal {
		t.Fatalf("expected horizontal layout, got %q", m.Layout().Layout())
	}
	press(m, letter('b'))
	if !store.GetBool(layout.KeySidebarCollapsed, false) {
		t.Fatal("expected sidebar collapsed persisted")
	}
	if len(got) != 2 || got[0] != events.LayoutChanged || got[1] != events.SidebarCollapsedChanged {
		t.Fatalf("unexpected events %v", got)
	}

	if view := m.View(); !strings.Contains(view, "Dashboard") || !strings.Contains(view, "horizontal") {
		t.Fatalf("expected horizontal view with headers, got:\n%s", view)
	}
	press(m, letter('l'))
	if view := m.View(); strings.Contains(view, "Dashboard") {
		t.Fatalf("expected collapsed rail without titles, got:\n%s", view)
	}
}

func TestRemoteMessageAppliesWithoutDispatch(t *testing.T) {
	store := prefs.New(prefs.NewMemoryBackend())
	m, _, bus := newTestModel(t, store, "/")

	dispatched := 0
	bus.Subscribe(events.Any, func(events.Event) { dispatched++ })

	m.Update(RemoteMsg{Message: push.Message{
		Event:  events.LayoutChanged,
		Detail: map[string]any{"layout": layout.Horizontal},
	}})
	if m.Layout().Layout() != layout.Horizontal {
		t.Fatalf("expected remote layout applied, got %q", m.Layout().Layout())
	}
	if dispatched != 0 {
		t.Fatalf("expected no local dispatch for remote change, got %d", dispatched)
	}
}

func TestQuitKey(t *testing.T) {
	m, _, _ := newTestModel(t, nil, "/")
	_, cmd := m.Update(letter('q'))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
}

func TestInitWithoutWatchableStore(t *testing.T) {
	m, _, _ := newTestModel(t, nil, "/")
	cmd := m.Init()
	if cmd == nil {
		t.Fatal("expected watch start command")
	}
	m.Update(cmd())
	if m.watchCh != nil {
		t.Fatal("expected no watch channel for an in-memory store")
	}
}

func TestHistory(t *testing.T) {
	h := NewHistory("")
	if h.Path() != "/" || h.Len() != 1 {
		t.Fatalf("expected root history, got %q (%d)", h.Path(), h.Len())
	}
	h.Push("/a")
	h.Push("/a/b")
	if !h.Back() || h.Path() != "/a" {
		t.Fatalf("expected back to /a, got %q", h.Path())
	}
	if !h.Back() || h.Back() {
		t.Fatal("expected back to stop at the first entry")
	}
}

func TestEventLogRecordsBusAndPhases(t *testing.T) {
	store := prefs.New(prefs.NewMemoryBackend())
	var phases []string
	clock := &fakeClock{t: time.Unix(0, 0)}
	m := New(Options{
		Store:    store,
		Collapse: collapse.Config{DurationMs: 100},
		Clock:    clock.Now,
		OnPhase:  func(id string, p collapse.Phase) { phases = append(phases, id+":"+p.String()) },
	})

	m.toggleSection(1)
	settle(m, clock)
	press(m, letter('l'), letter('e'))

	if len(phases) != 2 || phases[0] != "projects:expanding" || phases[1] != "projects:expanded" {
		t.Fatalf("unexpected phases %v", phases)
	}
	entries := m.eventLog.Entries()
	if len(entries) != 3 || entries[0].Source != "bus" || entries[1].Source != "collapse" {
		t.Fatalf("unexpected log %+v", entries)
	}
	if view := m.View(); !strings.Contains(view, "Events") {
		t.Fatalf("expected event pane in view, got:\n%s", view)
	}
}
