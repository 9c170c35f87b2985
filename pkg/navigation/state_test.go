package navigation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

type fakeLocation struct {
	mu   sync.Mutex
	path string
}

func (f *fakeLocation) Path() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.path
}

func (f *fakeLocation) Go(path string) {
	f.mu.Lock()
	f.path = path
	f.mu.Unlock()
}

type countingCounter map[string]int

func (c countingCounter) Increment(val ...string) { c[val[0]]++ }

func TestNewStoresRawPath(t *testing.T) {
	loc := &fakeLocation{path: "/projects/"}
	s := New(loc)

	if got := s.CurrentPath(); got != "/projects/" {
		t.Fatalf("expected raw path, got %q", got)
	}
	if !s.IsActive("/projects", true) {
		t.Fatal("expected query-time normalisation to match exactly")
	}
}

func TestSignalsOverwriteCurrentPath(t *testing.T) {
	loc := &fakeLocation{path: "/"}
	counter := countingCounter{}
	s := New(loc, WithSignalCounter(counter))

	loc.Go("/projects/123")
	s.PageNavigated()
	if !s.IsActive("/projects", false) {
		t.Fatal("expected /projects active after navigation")
	}
	if s.IsActive("/projects", true) {
		t.Fatal("expected exact match to fail for child path")
	}

	loc.Go("/settings")
	s.PopState()
	if got := s.CurrentPath(); got != "/settings" {
		t.Fatalf("expected /settings after popstate, got %q", got)
	}
	if s.IsActive("/projects", false) {
		t.Fatal("expected /projects inactive after popstate")
	}

	want := countingCounter{"navigated": 1, "popstate": 1}
	if diff := cmp.Diff(want, counter); diff != "" {
		t.Fatalf("signal counts mismatch (-want +got):\n%s", diff)
	}
}

func TestQueriesRecomputeWithoutSignal(t *testing.T) {
	loc := &fakeLocation{path: "/a"}
	s := New(loc)

	loc.Go("/b")
	if !s.IsActive("/a", false) {
		t.Fatal("expected state to keep the last signalled path")
	}
	s.Handle(PopState)
	if !s.IsChildActive([]string{"/a", "/b"}) {
		t.Fatal("expected child /b active")
	}
	if s.IsChildActive([]string{"/a", "/c"}) {
		t.Fatal("expected no child active")
	}
}

func TestActiveItem(t *testing.T) {
	s := New(LocationFunc(func() string { return "/" }))

	if _, ok := s.ActiveItem(); ok {
		t.Fatal("expected no active item initially")
	}
	s.SetActiveItem("projects")
	if id, ok := s.ActiveItem(); !ok || id != "projects" {
		t.Fatalf("expected projects, got %q (%v)", id, ok)
	}
	s.SetActiveItem("")
	if id, ok := s.ActiveItem(); !ok || id != "" {
		t.Fatalf("expected empty id to still count as set, got %q (%v)", id, ok)
	}
	s.ClearActiveItem()
	if _, ok := s.ActiveItem(); ok {
		t.Fatal("expected active item cleared")
	}
}

func TestSubscribeNotifiesInOrder(t *testing.T) {
	loc := &fakeLocation{path: "/"}
	s := New(loc)

	var got []string
	cancelA := s.Subscribe(func(p string) { got = append(got, "a:"+p) })
	s.Subscribe(func(p string) { got = append(got, "b:"+p) })

	loc.Go("/x")
	s.PageNavigated()
	cancelA()
	cancelA()
	loc.Go("/y")
	s.PopState()

	want := []string{"a:/x", "b:/x", "b:/y"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("notifications mismatch (-want +got):\n%s", diff)
	}
}

func TestListen(t *testing.T) {
	loc := &fakeLocation{path: "/"}
	s := New(loc)

	ch := make(chan Signal)
	done := make(chan struct{})
	go func() {
		s.Listen(context.Background(), ch)
		close(done)
	}()

	loc.Go("/projects")
	ch <- PageNavigated
	loc.Go("/projects/7")
	ch <- PopState
	close(ch)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Listen did not return after channel close")
	}
	if got := s.CurrentPath(); got != "/projects/7" {
		t.Fatalf("expected last signal to win, got %q", got)
	}
}

func TestListenStopsOnCancel(t *testing.T) {
	s := New(LocationFunc(func() string { return "/" }))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Listen(ctx, make(chan Signal))
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Listen did not return after cancel")
	}
}

func TestDefaultSingleton(t *testing.T) {
	s := New(LocationFunc(func() string { return "/" }))
	prev := SetDefault(s)
	defer SetDefault(prev)

	if Default() != s {
		t.Fatal("expected installed state to be the default")
	}
}

func TestSignalString(t *testing.T) {
	if PageNavigated.String() != "navigated" || PopState.String() != "popstate" || Signal(9).String() != "unknown" {
		t.Fatal("unexpected signal names")
	}
}
