// Package binding implements the x-nav-persist directive: a reactively bound
// value is restored from the preference store on init and written back on
// every change.
//
// Restored values are always re-injected as quoted string literals, so a
// persisted bool or number comes back as its string form. Hosts relying on
// typed values must convert them themselves.
package binding

import (
	"errors"
	"fmt"
	"strconv"

	"tableflip.dev/sidenav/pkg/prefs"
)

// DirectiveName is the attribute the directive is registered under.
const DirectiveName = "x-nav-persist"

// Scope is the reactive binding mechanism supplied by the host.
type Scope interface {
	Evaluate(expr string) (any, error)
	// Assign evaluates `expr = literal`.
	Assign(expr, literal string) error
	// Watch calls fn with the new value after every change to expr.
	Watch(expr string, fn func(any)) (cancel func())
}

// Directive is one live x-nav-persist binding.
type Directive struct {
	cancel func()
}

// Persist initialises the directive for expr. The expression string itself
// is the preference key.
func Persist(scope Scope, expr string, store *prefs.Store) (*Directive, error) {
	if expr == "" {
		return nil, errors.New("binding: expression required")
	}
	if _, err := scope.Evaluate(expr); err != nil {
		return nil, fmt.Errorf("binding: evaluate %q: %w", expr, err)
	}

	if v, ok := store.Get(expr); ok {
		if err := scope.Assign(expr, RestoreLiteral(v)); err != nil {
			return nil, fmt.Errorf("binding: restore %q: %w", expr, err)
		}
	}

	cancel := scope.Watch(expr, func(v any) {
		store.Set(expr, v)
	})
	return &Directive{cancel: cancel}, nil
}

// Release stops persisting changes. It is safe to call more than once.
func (d *Directive) Release() {
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}

// RestoreLiteral renders a persisted value the way the directive assigns it:
// as a quoted string, whatever its original type.
func RestoreLiteral(v any) string {
	if v == nil {
		return strconv.Quote("null")
	}
	return strconv.Quote(fmt.Sprint(v))
}
