// Package events carries custom events between sidenav components and the
// host integration.
package events

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Name identifies an event kind.
type Name string

const (
	// LayoutChanged is dispatched after the layout preference changes.
	LayoutChanged Name = "layout-changed"
	// SidebarCollapsedChanged is dispatched after the sidebar collapsed
	// preference changes.
	SidebarCollapsedChanged Name = "sidebar-collapsed-changed"
	// Any subscribes to every event.
	Any Name = "*"
)

// Event is one dispatched notification with its payload.
type Event struct {
	Name   Name           `json:"event"`
	Detail map[string]any `json:"detail,omitempty"`
	At     time.Time      `json:"at"`
}

// New builds an event stamped with the current time.
func New(name Name, detail map[string]any) Event {
	return Event{Name: name, Detail: detail, At: time.Now()}
}

// Describe renders the event in a human-friendly format for logs.
func (e Event) Describe() string {
	keys := make([]string, 0, len(e.Detail))
	for k := range e.Detail {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", k, e.Detail[k]))
	}
	return fmt.Sprintf("event:%q detail:{%s}", e.Name, strings.Join(parts, " "))
}

// Handler receives dispatched events.
type Handler func(Event)

// Bus fans events out to subscribers synchronously in subscription order.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   []subscription
}

type subscription struct {
	id      int
	name    Name
	handler Handler
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers h for events named name, or every event for Any.
func (b *Bus) Subscribe(name Name, h Handler) (cancel func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs = append(b.subs, subscription{id: id, name: name, handler: h})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			for i, s := range b.subs {
				if s.id == id {
					b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Dispatch delivers ev to matching subscribers.
func (b *Bus) Dispatch(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	b.mu.RLock()
	targets := make([]Handler, 0, len(b.subs))
	for _, s := range b.subs {
		if s.name == Any || s.name == ev.Name {
			targets = append(targets, s.handler)
		}
	}
	b.mu.RUnlock()

	for _, h := range targets {
		h(ev)
	}
}
