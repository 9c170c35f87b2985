package eventlog

import (
	"strings"
	"testing"
	"time"
)

func TestAppendNewestFirstAndCapped(t *testing.T) {
	m := New(2)
	m.Append(Entry{Summary: "one"})
	m.Append(Entry{Summary: "two"})
	m.Append(Entry{Summary: "three"})

	got := m.Entries()
	if len(got) != 2 || got[0].Summary != "three" || got[1].Summary != "two" {
		t.Fatalf("unexpected entries %+v", got)
	}
	if got[0].Source != "nav" || got[0].Timestamp.IsZero() {
		t.Fatalf("expected defaults filled, got %+v", got[0])
	}
}

func TestViewRequiresSize(t *testing.T) {
	m := New(0)
	if m.View() != "" {
		t.Fatal("expected empty view before SetSize")
	}
	m.SetSize(60, 6)
	if view := m.View(); !strings.Contains(view, "No events yet") {
		t.Fatalf("expected placeholder, got:\n%s", view)
	}

	m.Append(Entry{
		Timestamp: time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC),
		Source:    "collapse",
		Summary:   "projects",
		Detail:    "Expanding",
	})
	view := m.View()
	if !strings.Contains(view, "09:30:00.000") || !strings.Contains(view, "[collapse]") || !strings.Contains(view, "projects: Expanding") {
		t.Fatalf("unexpected view:\n%s", view)
	}

	m.Clear()
	if len(m.Entries()) != 0 {
		t.Fatal("expected entries cleared")
	}
}
