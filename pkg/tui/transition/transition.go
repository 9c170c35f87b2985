// Package transition animates inline height writes on dom elements over
// time, standing in for a browser's CSS transition engine.
package transition

import (
	"sort"
	"time"

	"tableflip.dev/sidenav/pkg/dom"
)

// Bezier is a CSS cubic-bezier timing function.
type Bezier struct {
	X1, Y1, X2, Y2 float64
}

// Standard matches the collapse easing, cubic-bezier(0.4, 0, 0.2, 1).
var Standard = Bezier{0.4, 0, 0.2, 1}

// At returns the eased progress for linear progress x in [0,1].
func (b Bezier) At(x float64) float64 {
	switch {
	case x <= 0:
		return 0
	case x >= 1:
		return 1
	}
	// Solve bx(t) = x by bisection; the curve is monotonic in x for valid
	// control points.
	lo, hi := 0.0, 1.0
	t := x
	for i := 0; i < 32; i++ {
		cx := cubic(t, b.X1, b.X2)
		if cx < x {
			lo = t
		} else {
			hi = t
		}
		t = (lo + hi) / 2
	}
	return cubic(t, b.Y1, b.Y2)
}

func cubic(t, p1, p2 float64) float64 {
	mt := 1 - t
	return 3*mt*mt*t*p1 + 3*mt*t*t*p2 + t*t*t
}

type anim struct {
	el       *dom.Element
	from, to int
	start    time.Time
	dur      time.Duration
	running  bool
	release  func()
}

// Engine tracks elements and interpolates their height writes.
type Engine struct {
	now    func() time.Time
	easing Bezier
	order  []*dom.Element
	anims  map[*dom.Element]*anim
}

// New returns an engine using the wall clock.
func New() *Engine {
	return NewWithClock(time.Now)
}

// NewWithClock returns an engine reading time from now.
func NewWithClock(now func() time.Time) *Engine {
	return &Engine{now: now, easing: Standard, anims: make(map[*dom.Element]*anim)}
}

// Track starts animating el's height writes over dur.
func (e *Engine) Track(el *dom.Element, dur time.Duration) {
	if _, ok := e.anims[el]; ok {
		return
	}
	a := &anim{el: el, dur: dur}
	if h, ok := dom.ParsePixels(el.Style("height")); ok {
		a.from, a.to = h, h
	}
	a.release = el.ObserveStyle(func() { e.heightWritten(a) })
	e.anims[el] = a
	e.order = append(e.order, el)
}

// Untrack stops animating el.
func (e *Engine) Untrack(el *dom.Element) {
	a, ok := e.anims[el]
	if !ok {
		return
	}
	a.release()
	delete(e.anims, el)
	for i, o := range e.order {
		if o == el {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
}

func (e *Engine) heightWritten(a *anim) {
	target, ok := dom.ParsePixels(a.el.Style("height"))
	if !ok || target == a.to {
		return
	}
	now := e.now()
	a.from = e.value(a, now)
	a.to = target
	a.start = now
	a.running = true
}

// Height returns el's displayed height right now. Untracked elements report
// their rendered height.
func (e *Engine) Height(el *dom.Element) int {
	a, ok := e.anims[el]
	if !ok {
		return el.RenderedHeight()
	}
	return e.value(a, e.now())
}

func (e *Engine) value(a *anim, now time.Time) int {
	if !a.running || a.dur <= 0 {
		return a.to
	}
	elapsed := now.Sub(a.start)
	if elapsed >= a.dur {
		return a.to
	}
	p := e.easing.At(float64(elapsed) / float64(a.dur))
	return a.from + int(float64(a.to-a.from)*p+0.5)
}

// Step finishes animations whose duration elapsed, dispatching transition
// end on their elements. It reports whether any animation is still running.
func (e *Engine) Step() bool {
	now := e.now()
	var done []*anim
	active := false
	for _, el := range e.order {
		a := e.anims[el]
		if !a.running {
			continue
		}
		if a.dur <= 0 || now.Sub(a.start) >= a.dur {
			a.running = false
			done = append(done, a)
			continue
		}
		active = true
	}
	sort.SliceStable(done, func(i, j int) bool { return done[i].start.Before(done[j].start) })
	for _, a := range done {
		a.el.EndTransition()
	}
	return active
}

// Active reports whether any tracked element is mid-animation.
func (e *Engine) Active() bool {
	for _, a := range e.anims {
		if a.running {
			return true
		}
	}
	return false
}
