// Package dom provides an in-memory element with inline styles, attribute
// observers and layout measurement, enough to drive collapse animations
// outside a browser.
package dom

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// StyleAttr is the attribute name inline style writes are reported under.
const StyleAttr = "style"

// Element is a single node. It is not safe for concurrent use; hosts drive it
// from one goroutine the way a UI thread would.
type Element struct {
	ID string

	style   map[string]string
	attrs   map[string]string
	content int

	nextID      int
	observers   map[string]map[int]func()
	transitions map[int]func()

	layoutReads int
	trace       []string
}

// New returns an element whose content is contentHeight rows/pixels tall.
func New(id string, contentHeight int) *Element {
	return &Element{
		ID:          id,
		style:       make(map[string]string),
		attrs:       make(map[string]string),
		content:     contentHeight,
		observers:   make(map[string]map[int]func()),
		transitions: make(map[int]func()),
	}
}

// SetStyle writes an inline style property and notifies style observers.
// An empty value removes the property.
func (e *Element) SetStyle(prop, value string) {
	if value == "" {
		delete(e.style, prop)
	} else {
		e.style[prop] = value
	}
	e.trace = append(e.trace, fmt.Sprintf("%s=%s", prop, value))
	e.notify(StyleAttr)
}

// Style returns an inline style property, or "" when unset.
func (e *Element) Style(prop string) string {
	return e.style[prop]
}

// StyleString renders the inline styles in a stable order.
func (e *Element) StyleString() string {
	keys := make([]string, 0, len(e.style))
	for k := range e.style {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.style[k])
	}
	return strings.Join(parts, "; ")
}

// SetAttribute writes a non-style attribute and notifies its observers.
func (e *Element) SetAttribute(name, value string) {
	if name == StyleAttr {
		return
	}
	e.attrs[name] = value
	e.notify(name)
}

// Attribute returns a non-style attribute.
func (e *Element) Attribute(name string) string {
	return e.attrs[name]
}

// Show clears display:none.
func (e *Element) Show() { e.SetStyle("display", "") }

// Hide sets display:none.
func (e *Element) Hide() { e.SetStyle("display", "none") }

// Visible reports whether the element is displayed.
func (e *Element) Visible() bool {
	return e.style["display"] != "none"
}

// SetContentHeight changes the natural height of the element's content.
func (e *Element) SetContentHeight(h int) {
	e.content = h
}

// ScrollHeight returns the natural content height regardless of the inline
// height.
func (e *Element) ScrollHeight() int {
	return e.content
}

// OffsetHeight forces a layout read and returns the rendered height.
func (e *Element) OffsetHeight() int {
	e.layoutReads++
	e.trace = append(e.trace, "layout")
	return e.RenderedHeight()
}

// RenderedHeight is the laid-out height without counting as a forced read.
func (e *Element) RenderedHeight() int {
	if !e.Visible() {
		return 0
	}
	if h, ok := ParsePixels(e.style["height"]); ok {
		return h
	}
	return e.content
}

// LayoutReads counts OffsetHeight calls.
func (e *Element) LayoutReads() int {
	return e.layoutReads
}

// Trace returns the ordered style writes and layout reads seen so far.
func (e *Element) Trace() []string {
	out := make([]string, len(e.trace))
	copy(out, e.trace)
	return out
}

// ResetTrace clears the recorded trace.
func (e *Element) ResetTrace() {
	e.trace = e.trace[:0]
}

// Observe calls fn after every write to the named attribute.
func (e *Element) Observe(attr string, fn func()) (release func()) {
	id := e.nextID
	e.nextID++
	if e.observers[attr] == nil {
		e.observers[attr] = make(map[int]func())
	}
	e.observers[attr][id] = fn
	return func() {
		delete(e.observers[attr], id)
	}
}

// ObserveStyle calls fn after every inline style write.
func (e *Element) ObserveStyle(fn func()) (release func()) {
	return e.Observe(StyleAttr, fn)
}

// Observers reports the number of live observers on attr.
func (e *Element) Observers(attr string) int {
	return len(e.observers[attr])
}

// OnTransitionEnd calls fn whenever EndTransition is dispatched.
func (e *Element) OnTransitionEnd(fn func()) (release func()) {
	id := e.nextID
	e.nextID++
	e.transitions[id] = fn
	return func() {
		delete(e.transitions, id)
	}
}

// EndTransition dispatches a transition-end notification.
func (e *Element) EndTransition() {
	for _, id := range sortedIDs(e.transitions) {
		if fn, ok := e.transitions[id]; ok {
			fn()
		}
	}
}

func (e *Element) notify(attr string) {
	subs := e.observers[attr]
	for _, id := range sortedIDs(subs) {
		if fn, ok := subs[id]; ok {
			fn()
		}
	}
}

func sortedIDs(m map[int]func()) []int {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// ParsePixels parses "12px" or "12" into 12.
func ParsePixels(v string) (int, bool) {
	v = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(v), "px"))
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Pixels formats n as a CSS pixel length.
func Pixels(n int) string {
	return strconv.Itoa(n) + "px"
}
