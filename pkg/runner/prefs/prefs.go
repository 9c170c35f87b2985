// Package prefs provides CLI helpers to inspect and edit stored preferences.
package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/sidenav/pkg/binding"
	"tableflip.dev/sidenav/pkg/events"
	"tableflip.dev/sidenav/pkg/layout"
	"tableflip.dev/sidenav/pkg/prefs"
)

// ErrNotFound is returned by Get for a key that was never written.
var ErrNotFound = errors.New("preference not set")

func output(w io.Writer) io.Writer {
	if w == nil {
		return color.Output
	}
	return w
}

// Get prints one preference value.
type Get struct {
	Store *prefs.Store
	Key   string
	JSON  bool
	Out   io.Writer
}

// Do prints the value of Key, as JSON when requested.
func (g *Get) Do(_ context.Context) error {
	v, ok := g.Store.Get(g.Key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, g.Key)
	}
	out := output(g.Out)
	if g.JSON {
		b, err := json.Marshal(map[string]any{g.Key: v})
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out, string(b))
		return nil
	}
	_, _ = fmt.Fprintln(out, v)
	return nil
}

// Set writes one preference value.
type Set struct {
	Store *prefs.Store
	// Bus receives layout events for the layout keys. May be nil.
	Bus   *events.Bus
	Key   string
	Value string
	Out   io.Writer
}

// Do parses Value and stores it under Key. The layout keys go through the
// layout accessors so their change events are dispatched.
func (s *Set) Do(_ context.Context) error {
	v := ParseValue(s.Value)
	acc := layout.New(s.Store, s.Bus)
	switch s.Key {
	case layout.KeyLayout:
		str, ok := v.(string)
		if !ok {
			return fmt.Errorf("layout must be a string, got %T", v)
		}
		acc.SetLayout(str)
	case layout.KeySidebarCollapsed:
		b, ok := v.(bool)
		if !ok {
			return fmt.Errorf("sidebarCollapsed must be true or false, got %T", v)
		}
		acc.SetSidebarCollapsed(b)
	default:
		s.Store.Set(s.Key, v)
	}
	_, _ = fmt.Fprintf(output(s.Out), "%s = %v\n", s.Key, v)
	return nil
}

// ParseValue reads a literal the way the binding directive does, treating
// anything else as a bare string.
func ParseValue(raw string) any {
	v, err := binding.ParseLiteral(raw)
	if err != nil {
		return raw
	}
	return v
}

// List prints every preference as a table.
type List struct {
	Store *prefs.Store
	JSON  bool
	Out   io.Writer
}

// Do renders the stored record.
func (l *List) Do(_ context.Context) error {
	all := l.Store.All()
	out := output(l.Out)
	if l.JSON {
		b, err := json.Marshal(all)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out, string(b))
		return nil
	}

	if len(all) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprintln(out, " none")
		return nil
	}

	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Key"), bold.Sprint("Value"), bold.Sprint("Type"))
	for _, k := range all.Keys() {
		v := all[k]
		tbl.AddRow(k, fmt.Sprint(v), faint.Sprintf("%T", v))
	}
	_, _ = fmt.Fprintln(out, tbl)
	return nil
}
