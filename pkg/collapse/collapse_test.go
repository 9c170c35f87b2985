package collapse

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"tableflip.dev/sidenav/pkg/dom"
)

func attachHidden(t *testing.T, content int, cfg Config) (*dom.Element, *Controller) {
	t.Helper()
	el := dom.New("section", content)
	el.Hide()
	c := Attach(el, cfg)
	el.ResetTrace()
	return el, c
}

func TestAttachAppliesStyles(t *testing.T) {
	el := dom.New("section", 40)
	c := Attach(el, Config{})

	if got := el.Style("overflow"); got != "hidden" {
		t.Fatalf("expected overflow hidden, got %q", got)
	}
	if got := el.Style("transition"); got != "height 300ms "+Easing {
		t.Fatalf("unexpected transition %q", got)
	}
	if c.Phase() != Collapsed {
		t.Fatalf("expected Collapsed, got %s", c.Phase())
	}
	if el.Observers(dom.StyleAttr) != 1 {
		t.Fatalf("expected one style observer, got %d", el.Observers(dom.StyleAttr))
	}
}

func TestShowExpandsToScrollHeight(t *testing.T) {
	el, c := attachHidden(t, 40, Config{})

	el.Show()
	if c.Phase() != Expanding {
		t.Fatalf("expected Expanding, got %s", c.Phase())
	}
	el.EndTransition()
	if c.Phase() != Expanded {
		t.Fatalf("expected Expanded, got %s", c.Phase())
	}
	if got := el.Style("height"); got != "40px" {
		t.Fatalf("expected final height 40px, got %q", got)
	}
	if c.Height() != 40 {
		t.Fatalf("expected observed height 40, got %d", c.Height())
	}
}

func TestExpandForcesLayoutBetweenWrites(t *testing.T) {
	el, _ := attachHidden(t, 40, Config{})

	el.Show()

	want := []string{"display=", "height=0px", "layout", "height=40px"}
	if diff := cmp.Diff(want, el.Trace()); diff != "" {
		t.Fatalf("write order mismatch (-want +got):\n%s", diff)
	}
}

func TestHideCollapsesToZero(t *testing.T) {
	el, c := attachHidden(t, 40, Config{})
	el.Show()
	el.EndTransition()
	el.ResetTrace()

	el.Hide()
	if c.Phase() != Collapsing {
		t.Fatalf("expected Collapsing, got %s", c.Phase())
	}
	want := []string{"display=none", "height=40px", "layout", "height=0px"}
	if diff := cmp.Diff(want, el.Trace()); diff != "" {
		t.Fatalf("write order mismatch (-want +got):\n%s", diff)
	}
	el.EndTransition()
	if c.Phase() != Collapsed {
		t.Fatalf("expected Collapsed, got %s", c.Phase())
	}
	if got := el.Style("height"); got != "0px" {
		t.Fatalf("expected height 0px, got %q", got)
	}
}

func TestCycleBetweenCollapsedAndExpanded(t *testing.T) {
	el, c := attachHidden(t, 25, Config{})
	var phases []Phase
	c.OnPhase(func(p Phase) { phases = append(phases, p) })

	for i := 0; i < 2; i++ {
		el.Show()
		el.EndTransition()
		el.Hide()
		el.EndTransition()
	}

	want := []Phase{Expanding, Expanded, Collapsing, Collapsed, Expanding, Expanded, Collapsing, Collapsed}
	if diff := cmp.Diff(want, phases); diff != "" {
		t.Fatalf("phase sequence mismatch (-want +got):\n%s", diff)
	}
}

func TestRetriggerMidAnimation(t *testing.T) {
	el, c := attachHidden(t, 30, Config{})

	el.Show()
	el.Hide()
	if c.Phase() != Collapsing {
		t.Fatalf("expected hide during expand to collapse, got %s", c.Phase())
	}
	el.Show()
	if c.Phase() != Expanding {
		t.Fatalf("expected show during collapse to expand, got %s", c.Phase())
	}
	el.EndTransition()
	if c.Phase() != Expanded || el.Style("height") != "30px" {
		t.Fatalf("expected Expanded at 30px, got %s at %q", c.Phase(), el.Style("height"))
	}
}

func TestUnrelatedStyleWritesDoNotTrigger(t *testing.T) {
	el, c := attachHidden(t, 30, Config{})
	el.Show()
	el.EndTransition()
	el.ResetTrace()

	el.SetStyle("color", "red")
	el.SetAttribute("class", "active")

	if c.Phase() != Expanded {
		t.Fatalf("expected Expanded to hold, got %s", c.Phase())
	}
	if diff := cmp.Diff([]string{"color=red"}, el.Trace()); diff != "" {
		t.Fatalf("unexpected writes (-want +got):\n%s", diff)
	}
}

func TestVisibleElementIgnoresUnrelatedWrites(t *testing.T) {
	el := dom.New("section", 40)
	c := Attach(el, Config{})
	el.ResetTrace()

	el.SetStyle("color", "red")

	if c.Phase() != Collapsed {
		t.Fatalf("expected phase to hold, got %s", c.Phase())
	}
	if diff := cmp.Diff([]string{"color=red"}, el.Trace()); diff != "" {
		t.Fatalf("unexpected writes (-want +got):\n%s", diff)
	}
	if got := el.RenderedHeight(); got != 40 {
		t.Fatalf("expected natural height 40, got %d", got)
	}

	el.Hide()
	if c.Phase() != Collapsing || el.Style("height") != "0px" {
		t.Fatalf("expected visible element to collapse on hide, got %s at %q", c.Phase(), el.Style("height"))
	}
}

func TestAttachHiddenWritesZeroHeight(t *testing.T) {
	el := dom.New("section", 40)
	el.Hide()
	Attach(el, Config{})
	if got := el.Style("height"); got != "0px" {
		t.Fatalf("expected hidden element pinned at 0px, got %q", got)
	}
}

func TestTransitionEndOutsideAnimationIsNoop(t *testing.T) {
	_, c := attachHidden(t, 30, Config{})
	c.TransitionEnd()
	if c.Phase() != Collapsed {
		t.Fatalf("expected Collapsed, got %s", c.Phase())
	}
}

func TestDetachReleasesObservers(t *testing.T) {
	el, c := attachHidden(t, 30, Config{})
	c.Detach()
	c.Detach()

	if el.Observers(dom.StyleAttr) != 0 {
		t.Fatalf("expected no style observers after detach, got %d", el.Observers(dom.StyleAttr))
	}
	el.Show()
	if c.Phase() != Collapsed {
		t.Fatalf("expected detached controller to ignore changes, got %s", c.Phase())
	}
}

func TestConfigDuration(t *testing.T) {
	tests := []struct {
		cfg  Config
		want time.Duration
	}{
		{Config{}, 300 * time.Millisecond},
		{Config{DurationMs: -5}, 300 * time.Millisecond},
		{Config{DurationMs: 120}, 120 * time.Millisecond},
	}
	for _, tt := range tests {
		if got := tt.cfg.Duration(); got != tt.want {
			t.Fatalf("Duration(%+v) = %v, want %v", tt.cfg, got, tt.want)
		}
	}
	if got := (Config{DurationMs: 120}).Transition(); got != "height 120ms "+Easing {
		t.Fatalf("unexpected transition %q", got)
	}
}

func TestParseModifiers(t *testing.T) {
	tests := []struct {
		name string
		mods []string
		want int
	}{
		{"none", nil, DefaultDurationMs},
		{"ms suffix", []string{"duration", "500ms"}, 500},
		{"bare number", []string{"duration", "450"}, 450},
		{"other modifiers first", []string{"min", "duration", "200ms"}, 200},
		{"missing value", []string{"duration"}, DefaultDurationMs},
		{"malformed", []string{"duration", "fast"}, DefaultDurationMs},
		{"zero", []string{"duration", "0ms"}, DefaultDurationMs},
		{"lone ms value", []string{"500ms"}, 500},
		{"lone bare value", []string{"500"}, 500},
		{"dotted", []string{"duration.250ms"}, 250},
		{"dotted malformed", []string{"duration.fast", "400ms"}, DefaultDurationMs},
		{"unrelated only", []string{"min", "fast"}, DefaultDurationMs},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseModifiers(tt.mods).DurationMs; got != tt.want {
				t.Fatalf("ParseModifiers(%v) = %d, want %d", tt.mods, got, tt.want)
			}
		})
	}
}

func TestPhaseString(t *testing.T) {
	for p, want := range map[Phase]string{
		Collapsed:  "collapsed",
		Expanding:  "expanding",
		Expanded:   "expanded",
		Collapsing: "collapsing",
		Phase(7):   "Phase(7)",
	} {
		if got := p.String(); got != want {
			t.Fatalf("String() = %q, want %q", got, want)
		}
	}
}
