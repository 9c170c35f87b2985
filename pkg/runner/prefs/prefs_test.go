package prefs

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"tableflip.dev/sidenav/pkg/events"
	"tableflip.dev/sidenav/pkg/layout"
	"tableflip.dev/sidenav/pkg/prefs"
)

func TestParseValue(t *testing.T) {
	tests := map[string]any{
		"true":         true,
		"false":        false,
		"300":          float64(300),
		`"horizontal"`: "horizontal",
		"horizontal":   "horizontal",
		"null":         nil,
	}
	for in, want := range tests {
		if got := ParseValue(in); got != want {
			t.Fatalf("ParseValue(%q) = %#v, want %#v", in, got, want)
		}
	}
}

func TestSetLayoutKeysDispatch(t *testing.T) {
	store := prefs.New(prefs.NewMemoryBackend())
	bus := events.NewBus()
	var got []events.Event
	bus.Subscribe(events.Any, func(ev events.Event) { got = append(got, ev) })

	var out bytes.Buffer
	s := &Set{Store: store, Bus: bus, Key: layout.KeyLayout, Value: "horizontal", Out: &out}
	if err := s.Do(context.Background()); err != nil {
		t.Fatalf("set: %v", err)
	}
	s = &Set{Store: store, Bus: bus, Key: layout.KeySidebarCollapsed, Value: "true", Out: &out}
	if err := s.Do(context.Background()); err != nil {
		t.Fatalf("set: %v", err)
	}

	if len(got) != 2 || got[0].Name != events.LayoutChanged || got[1].Detail["collapsed"] != true {
		t.Fatalf("unexpected events %+v", got)
	}
	if store.GetString(layout.KeyLayout, "") != "horizontal" || !store.GetBool(layout.KeySidebarCollapsed, false) {
		t.Fatalf("unexpected record %v", store.All())
	}
	if !strings.Contains(out.String(), "layout = horizontal") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestSetRejectsMistypedLayoutKeys(t *testing.T) {
	store := prefs.New(prefs.NewMemoryBackend())
	s := &Set{Store: store, Key: layout.KeySidebarCollapsed, Value: "sometimes", Out: &bytes.Buffer{}}
	if err := s.Do(context.Background()); err == nil {
		t.Fatal("expected error for non-bool sidebarCollapsed")
	}
	s = &Set{Store: store, Key: layout.KeyLayout, Value: "true", Out: &bytes.Buffer{}}
	if err := s.Do(context.Background()); err == nil {
		t.Fatal("expected error for non-string layout")
	}
	if len(store.All()) != 0 {
		t.Fatalf("expected nothing stored, got %v", store.All())
	}
}

func TestSetOtherKeysStoreParsedValue(t *testing.T) {
	store := prefs.New(prefs.NewMemoryBackend())
	s := &Set{Store: store, Key: "openSection", Value: "reports", Out: &bytes.Buffer{}}
	if err := s.Do(context.Background()); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got := store.GetString("openSection", ""); got != "reports" {
		t.Fatalf("expected reports, got %q", got)
	}
}

func TestGet(t *testing.T) {
	store := prefs.New(prefs.NewMemoryBackend())
	store.Set(layout.KeySidebarCollapsed, true)

	var out bytes.Buffer
	g := &Get{Store: store, Key: layout.KeySidebarCollapsed, JSON: true, Out: &out}
	if err := g.Do(context.Background()); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != `{"sidebarCollapsed":true}` {
		t.Fatalf("unexpected json %q", got)
	}

	g = &Get{Store: store, Key: "missing", Out: &out}
	if err := g.Do(context.Background()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestList(t *testing.T) {
	store := prefs.New(prefs.NewMemoryBackend())

	var out bytes.Buffer
	l := &List{Store: store, Out: &out}
	if err := l.Do(context.Background()); err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out.String(), "none") {
		t.Fatalf("expected empty marker, got %q", out.String())
	}

	store.Set(layout.KeyLayout, "sidebar")
	store.Set("openSection", "projects")
	out.Reset()
	if err := l.Do(context.Background()); err != nil {
		t.Fatalf("list: %v", err)
	}
	text := out.String()
	if strings.Index(text, "layout") > strings.Index(text, "openSection") {
		t.Fatalf("expected sorted keys, got:\n%s", text)
	}
	if !strings.Contains(text, "projects") || !strings.Contains(text, "string") {
		t.Fatalf("expected values and types, got:\n%s", text)
	}

	out.Reset()
	l.JSON = true
	if err := l.Do(context.Background()); err != nil {
		t.Fatalf("list: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != `{"layout":"sidebar","openSection":"projects"}` {
		t.Fatalf("unexpected json %q", got)
	}
}

func TestChoicesCoverLayoutKeys(t *testing.T) {
	keys := map[string]bool{}
	for _, c := range Choices() {
		keys[c.Key] = true
	}
	if !keys[layout.KeyLayout] || !keys[layout.KeySidebarCollapsed] {
		t.Fatalf("expected layout keys in choices, got %v", keys)
	}
}
