package binding

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// ErrUnknownExpression is returned for names a Values scope does not hold.
var ErrUnknownExpression = errors.New("unknown expression")

// Values is a minimal reactive Scope over a set of named values.
type Values struct {
	mu       sync.Mutex
	vals     map[string]any
	nextID   int
	watchers map[string]map[int]func(any)
}

// NewValues returns a scope seeded with initial values.
func NewValues(initial map[string]any) *Values {
	vals := make(map[string]any, len(initial))
	for k, v := range initial {
		vals[k] = v
	}
	return &Values{vals: vals, watchers: make(map[string]map[int]func(any))}
}

// Evaluate implements Scope. Only plain names are supported.
func (v *Values) Evaluate(expr string) (any, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	val, ok := v.vals[strings.TrimSpace(expr)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownExpression, expr)
	}
	return val, nil
}

// Assign implements Scope.
func (v *Values) Assign(expr, literal string) error {
	val, err := ParseLiteral(literal)
	if err != nil {
		return err
	}
	return v.set(strings.TrimSpace(expr), val, true)
}

// Set changes a value directly, notifying watchers when it differs. New names
// are declared on first Set.
func (v *Values) Set(expr string, val any) {
	_ = v.set(strings.TrimSpace(expr), val, false)
}

// Watch implements Scope.
func (v *Values) Watch(expr string, fn func(any)) (cancel func()) {
	expr = strings.TrimSpace(expr)
	v.mu.Lock()
	id := v.nextID
	v.nextID++
	if v.watchers[expr] == nil {
		v.watchers[expr] = make(map[int]func(any))
	}
	v.watchers[expr][id] = fn
	v.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			v.mu.Lock()
			delete(v.watchers[expr], id)
			v.mu.Unlock()
		})
	}
}

func (v *Values) set(expr string, val any, mustExist bool) error {
	v.mu.Lock()
	old, ok := v.vals[expr]
	if !ok && mustExist {
		v.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownExpression, expr)
	}
	if ok && reflect.DeepEqual(old, val) {
		v.mu.Unlock()
		return nil
	}
	v.vals[expr] = val

	subs := v.watchers[expr]
	ids := make([]int, 0, len(subs))
	for id := range subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(any), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, subs[id])
	}
	v.mu.Unlock()

	for _, fn := range fns {
		fn(val)
	}
	return nil
}

// ParseLiteral parses a quoted string, true, false, null or a number.
func ParseLiteral(s string) (any, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "true":
		return true, nil
	case s == "false":
		return false, nil
	case s == "null":
		return nil, nil
	case len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"':
		return strconv.Unquote(s)
	case len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'':
		return strings.ReplaceAll(s[1:len(s)-1], `\'`, `'`), nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("binding: unsupported literal %q", s)
	}
	return n, nil
}
