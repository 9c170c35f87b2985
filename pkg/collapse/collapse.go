// Package collapse animates the height of collapsible navigation sections
// when their visibility changes.
//
// A Controller watches its element's inline style. When the element becomes
// visible while its inline height is 0px it animates height from 0 to the
// content height; when it becomes hidden while expanded it animates back to 0. The height
// transition itself is left to whatever renders the element.
package collapse

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"tableflip.dev/sidenav/pkg/dom"
)

const (
	// DefaultDurationMs is used when no valid duration is configured.
	DefaultDurationMs = 300

	// Easing is the fixed timing function of the height transition.
	Easing = "cubic-bezier(0.4, 0, 0.2, 1)"
)

// Phase is the animation state of one element.
type Phase int

const (
	Collapsed Phase = iota
	Expanding
	Expanded
	Collapsing
)

func (p Phase) String() string {
	switch p {
	case Collapsed:
		return "collapsed"
	case Expanding:
		return "expanding"
	case Expanded:
		return "expanded"
	case Collapsing:
		return "collapsing"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Element is what a Controller needs from the node it animates.
type Element interface {
	SetStyle(prop, value string)
	Style(prop string) string
	Visible() bool
	// OffsetHeight forces a synchronous layout and returns the rendered height.
	OffsetHeight() int
	// ScrollHeight returns the natural height of the content.
	ScrollHeight() int
	// ObserveStyle reports writes to the element's own style attribute only.
	ObserveStyle(fn func()) (release func())
	OnTransitionEnd(fn func()) (release func())
}

// Config is the typed replacement for loose directive modifiers.
type Config struct {
	// DurationMs is the transition length. Zero or negative means default.
	DurationMs int
}

// Duration returns the effective transition length.
func (c Config) Duration() time.Duration {
	return time.Duration(c.durationMs()) * time.Millisecond
}

func (c Config) durationMs() int {
	if c.DurationMs <= 0 {
		return DefaultDurationMs
	}
	return c.DurationMs
}

// Transition returns the CSS transition value applied on attach.
func (c Config) Transition() string {
	return fmt.Sprintf("height %dms %s", c.durationMs(), Easing)
}

// ParseModifiers reads a duration from directive-style modifiers. It accepts
// a "duration" key followed by its value ([]string{"duration", "500ms"}), the
// dotted form "duration.500ms", or a lone "500ms" or "500". Anything
// malformed yields the default.
func ParseModifiers(mods []string) Config {
	var tokens []string
	for _, mod := range mods {
		for _, tok := range strings.Split(mod, ".") {
			if tok = strings.TrimSpace(tok); tok != "" {
				tokens = append(tokens, tok)
			}
		}
	}
	for i, tok := range tokens {
		if tok != "duration" {
			continue
		}
		if i+1 < len(tokens) {
			if n, ok := parseMillis(tokens[i+1]); ok {
				return Config{DurationMs: n}
			}
		}
		return Config{DurationMs: DefaultDurationMs}
	}
	for _, tok := range tokens {
		if n, ok := parseMillis(tok); ok {
			return Config{DurationMs: n}
		}
	}
	return Config{DurationMs: DefaultDurationMs}
}

func parseMillis(tok string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSuffix(tok, "ms"))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// Controller is the per-element state machine.
type Controller struct {
	el  Element
	cfg Config

	phase          Phase
	observedHeight int
	writing        bool

	releaseStyle      func()
	releaseTransition func()
	onPhase           func(Phase)
}

// Attach prepares el for height animation and starts observing it. The
// initial phase is Collapsed. A hidden element gets an inline height of 0px
// so showing it expands; a visible one keeps its natural height.
func Attach(el Element, cfg Config) *Controller {
	c := &Controller{el: el, cfg: cfg, phase: Collapsed}

	c.write(func() {
		el.SetStyle("overflow", "hidden")
		el.SetStyle("transition", cfg.Transition())
		if el.Visible() {
			c.observedHeight = el.ScrollHeight()
		} else {
			el.SetStyle("height", dom.Pixels(0))
		}
	})

	c.releaseStyle = el.ObserveStyle(c.styleChanged)
	c.releaseTransition = el.OnTransitionEnd(c.TransitionEnd)
	return c
}

// OnPhase registers fn to run after every phase change.
func (c *Controller) OnPhase(fn func(Phase)) {
	c.onPhase = fn
}

// Phase returns the current animation phase.
func (c *Controller) Phase() Phase {
	return c.phase
}

// Height returns the height the controller last asked for.
func (c *Controller) Height() int {
	return c.observedHeight
}

// Config returns the controller's configuration.
func (c *Controller) Config() Config {
	return c.cfg
}

// TransitionEnd settles an in-flight Expanding or Collapsing phase.
func (c *Controller) TransitionEnd() {
	switch c.phase {
	case Expanding:
		c.setPhase(Expanded)
	case Collapsing:
		c.setPhase(Collapsed)
	}
}

// Detach stops observing the element. It is safe to call more than once.
func (c *Controller) Detach() {
	if c.releaseStyle != nil {
		c.releaseStyle()
		c.releaseStyle = nil
	}
	if c.releaseTransition != nil {
		c.releaseTransition()
		c.releaseTransition = nil
	}
}

func (c *Controller) styleChanged() {
	if c.writing {
		return
	}
	visible := c.el.Visible()
	switch {
	case visible && c.measuredZero():
		c.expand()
	case !visible && c.observedHeight > 0:
		c.collapse()
	}
}

// measuredZero reports whether the element's inline height is 0px. An unset
// height is the natural height, not zero.
func (c *Controller) measuredZero() bool {
	h, ok := dom.ParsePixels(c.el.Style("height"))
	return ok && h == 0
}

// expand writes height 0, forces layout so the start value is applied, then
// writes the natural height for the transition to animate toward.
func (c *Controller) expand() {
	c.write(func() {
		c.el.SetStyle("height", dom.Pixels(0))
		_ = c.el.OffsetHeight()
		c.observedHeight = c.el.ScrollHeight()
		c.el.SetStyle("height", dom.Pixels(c.observedHeight))
	})
	c.setPhase(Expanding)
}

func (c *Controller) collapse() {
	c.write(func() {
		c.el.SetStyle("height", dom.Pixels(c.el.ScrollHeight()))
		_ = c.el.OffsetHeight()
		c.el.SetStyle("height", dom.Pixels(0))
		c.observedHeight = 0
	})
	c.setPhase(Collapsing)
}

func (c *Controller) write(fn func()) {
	c.writing = true
	defer func() { c.writing = false }()
	fn()
}

func (c *Controller) setPhase(p Phase) {
	if c.phase == p {
		return
	}
	c.phase = p
	if c.onPhase != nil {
		c.onPhase(p)
	}
}
