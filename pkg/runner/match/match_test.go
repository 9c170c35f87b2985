package match

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestResults(t *testing.T) {
	m := &Match{Current: "/projects/42/", Items: []string{"/projects", "/projects/42", "/project", "/"}}
	rs, child := m.Results()
	want := []Result{
		{Item: "/projects", Active: true},
		{Item: "/projects/42", Active: true},
		{Item: "/project", Active: false},
		{Item: "/", Active: false},
	}
	if diff := cmp.Diff(want, rs); diff != "" {
		t.Fatalf("unexpected results (-want +got):\n%s", diff)
	}
	if !child {
		t.Fatal("expected child active")
	}

	m.Exact = true
	rs, _ = m.Results()
	if rs[0].Active || !rs[1].Active {
		t.Fatalf("expected exact matching only, got %+v", rs)
	}
}

func TestDoJSON(t *testing.T) {
	var out bytes.Buffer
	m := &Match{Current: "/", Items: []string{"/"}, JSON: true, Out: &out}
	if err := m.Do(context.Background()); err != nil {
		t.Fatalf("do: %v", err)
	}
	want := `{"current":"/","normalized":"/","results":[{"item":"/","active":true}],"childActive":true}`
	if got := strings.TrimSpace(out.String()); got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestDoTable(t *testing.T) {
	var out bytes.Buffer
	m := &Match{Current: "/settings", Items: []string{"/settings", "/reports"}, Out: &out}
	if err := m.Do(context.Background()); err != nil {
		t.Fatalf("do: %v", err)
	}
	text := out.String()
	if !strings.Contains(text, "yes") || !strings.Contains(text, "no") || !strings.Contains(text, "child active: true") {
		t.Fatalf("unexpected table:\n%s", text)
	}
}
