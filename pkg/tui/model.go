// Package tui hosts the Bubble Tea program for sidenav: a navigation tree
// whose sections expand and collapse through the collapse controller.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/truncate"
	"go.uber.org/zap"

	"tableflip.dev/sidenav/pkg/binding"
	"tableflip.dev/sidenav/pkg/collapse"
	"tableflip.dev/sidenav/pkg/dom"
	"tableflip.dev/sidenav/pkg/events"
	"tableflip.dev/sidenav/pkg/layout"
	"tableflip.dev/sidenav/pkg/logging"
	"tableflip.dev/sidenav/pkg/metric"
	"tableflip.dev/sidenav/pkg/navigation"
	"tableflip.dev/sidenav/pkg/prefs"
	"tableflip.dev/sidenav/pkg/push"
	"tableflip.dev/sidenav/pkg/tui/eventlog"
	"tableflip.dev/sidenav/pkg/tui/theme"
	"tableflip.dev/sidenav/pkg/tui/transition"
)

// OpenSectionKey is the scope expression, and preference key, holding the
// id of the expanded section.
const OpenSectionKey = "openSection"

const frameInterval = 16 * time.Millisecond

const (
	sidebarWidth   = 28
	railWidth      = 3
	eventLogHeight = 8
)

// Options configures a Model. Zero values fall back to an in-memory store,
// a private bus and DefaultSections.
type Options struct {
	Context   context.Context
	Store     *prefs.Store
	Bus       *events.Bus
	Sections  []Section
	Collapse  collapse.Config
	StartPath string
	Logger    *zap.Logger
	Metrics   *metric.Set
	Clock     func() time.Time
	// OnPhase observes every section's collapse phase changes.
	OnPhase func(section string, p collapse.Phase)
	// ShowEvents opens the event pane at start.
	ShowEvents bool
}

type frameMsg time.Time

// RemoteMsg carries an event relayed from the push channel.
type RemoteMsg struct {
	Message push.Message
}

type watchStartedMsg struct {
	ch     <-chan prefs.Event
	cancel context.CancelFunc
	err    error
}

type watchEventMsg struct {
	event prefs.Event
}

type watchStoppedMsg struct{}

// Model is the Bubble Tea model for the navigation tree.
type Model struct {
	ctx     context.Context
	log     *zap.Logger
	store   *prefs.Store
	layout  *layout.Preferences
	history *History
	nav     *navigation.State
	scope   *binding.Values
	persist *binding.Directive
	engine  *transition.Engine
	theme   theme.Theme

	eventLog   *eventlog.Model
	showEvents bool

	sections  []*section
	cursor    int
	animating bool

	width  int
	height int
	status string

	watchCh     <-chan prefs.Event
	watchCancel context.CancelFunc
}

// New builds a model, restoring the open section from the store.
func New(opts Options) *Model {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Store == nil {
		opts.Store = prefs.New(prefs.NewMemoryBackend())
	}
	if opts.Bus == nil {
		opts.Bus = events.NewBus()
	}
	if len(opts.Sections) == 0 {
		opts.Sections = DefaultSections()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	history := NewHistory(opts.StartPath)
	var navOpts []navigation.Option
	if opts.Metrics != nil {
		navOpts = append(navOpts, navigation.WithSignalCounter(opts.Metrics.NavSignals))
	}

	m := &Model{
		ctx:     opts.Context,
		log:     logging.OrNop(opts.Logger),
		store:   opts.Store,
		layout:  layout.New(opts.Store, opts.Bus),
		history: history,
		nav:     navigation.New(history, navOpts...),
		scope:   binding.NewValues(map[string]any{OpenSectionKey: ""}),
		engine:  transition.NewWithClock(opts.Clock),
		theme:   theme.Default(),

		eventLog:   eventlog.New(200),
		showEvents: opts.ShowEvents,
	}
	opts.Bus.Subscribe(events.Any, func(ev events.Event) {
		m.eventLog.Append(eventlog.Entry{Timestamp: ev.At, Source: "bus", Summary: ev.Describe()})
	})

	for _, s := range opts.Sections {
		el := dom.New(s.ID, len(s.Links))
		el.Hide()
		ctrl := collapse.Attach(el, opts.Collapse)
		id, hook := s.ID, opts.OnPhase
		ctrl.OnPhase(func(p collapse.Phase) {
			m.eventLog.Append(eventlog.Entry{Timestamp: opts.Clock(), Source: "collapse", Summary: id, Detail: p.String()})
			if hook != nil {
				hook(id, p)
			}
		})
		m.engine.Track(el, ctrl.Config().Duration())
		m.sections = append(m.sections, &section{Section: s, el: el, ctrl: ctrl})
	}

	m.scope.Watch(OpenSectionKey, func(v any) {
		id, _ := v.(string)
		m.openOnly(id)
	})
	d, err := binding.Persist(m.scope, OpenSectionKey, opts.Store)
	if err != nil {
		m.log.Warn("open section not persisted", zap.Error(err))
	}
	m.persist = d

	if m.openSection() == "" {
		for _, s := range m.sections {
			if len(s.Links) > 0 && m.nav.IsChildActive(s.Paths()) {
				m.scope.Set(OpenSectionKey, s.ID)
				break
			}
		}
	}

	m.nav.Subscribe(func(string) { m.syncActiveItem() })
	m.syncActiveItem()
	return m
}

// Navigation exposes the model's navigation state.
func (m *Model) Navigation() *navigation.State {
	return m.nav
}

// Layout exposes the model's preference accessors.
func (m *Model) Layout() *layout.Preferences {
	return m.layout
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return startWatchCmd(m.ctx, m.store)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case frameMsg:
		m.animating = false
	case watchStartedMsg:
		if msg.err != nil {
			m.log.Debug("preferences watch unavailable", zap.Error(msg.err))
			break
		}
		m.watchCh = msg.ch
		m.watchCancel = msg.cancel
		cmds = append(cmds, m.waitForWatch())
	case watchEventMsg:
		m.handleWatchEvent(msg.event)
		cmds = append(cmds, m.waitForWatch())
	case watchStoppedMsg:
		m.watchCh = nil
	case RemoteMsg:
		ev := msg.Message.ToEvent()
		entry := eventlog.Entry{Source: "push", Summary: ev.Describe()}
		if m.layout.Apply(ev) {
			m.status = "remote: " + ev.Describe()
		} else if msg.Message.Event == push.ErrorEvent {
			entry.Level = eventlog.LevelWarn
			entry.Detail = msg.Message.Error
		}
		m.eventLog.Append(entry)
	case tea.KeyPressMsg:
		if m.handleKeyPress(msg) {
			m.stopWatch()
			if m.persist != nil {
				m.persist.Release()
			}
			return m, tea.Quit
		}
	}
	if cmd := m.animate(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func startWatchCmd(parent context.Context, store *prefs.Store) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithCancel(parent)
		ch, err := store.Watch(ctx)
		if err != nil {
			cancel()
			return watchStartedMsg{err: err}
		}
		return watchStartedMsg{ch: ch, cancel: cancel}
	}
}

func (m *Model) waitForWatch() tea.Cmd {
	if m.watchCh == nil {
		return nil
	}
	ch := m.watchCh
	return func() tea.Msg {
		if ev, ok := <-ch; ok {
			return watchEventMsg{event: ev}
		}
		return watchStoppedMsg{}
	}
}

func (m *Model) stopWatch() {
	if m.watchCancel != nil {
		m.watchCancel()
		m.watchCancel = nil
	}
	m.watchCh = nil
}

// handleWatchEvent follows preference writes made by another process. Layout
// and sidebar flags are read from the store on every render, so only the open
// section needs pulling into the scope.
func (m *Model) handleWatchEvent(ev prefs.Event) {
	open := m.store.GetString(OpenSectionKey, "")
	if open != m.openSection() {
		m.scope.Set(OpenSectionKey, open)
	}
	m.status = "preferences " + ev.Type.String()
}

// animate schedules a frame while any section is mid-transition.
func (m *Model) animate() tea.Cmd {
	if !m.engine.Step() || m.animating {
		return nil
	}
	m.animating = true
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m *Model) handleKeyPress(msg tea.KeyPressMsg) bool {
	rows := m.rows()
	switch msg.String() {
	case "q", "ctrl+c":
		return true
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(rows)-1 {
			m.cursor++
		}
	case "enter":
		m.activate(rows)
	case "space", " ":
		if m.cursor < len(rows) {
			m.toggleSection(rows[m.cursor].section)
		}
	case "backspace", "h", "left":
		if m.history.Back() {
			m.nav.PopState()
			m.status = "back to " + m.nav.CurrentPath()
		}
	case "l":
		m.status = "layout " + m.layout.ToggleLayout()
	case "e":
		m.showEvents = !m.showEvents
	case "b":
		if m.layout.ToggleSidebar() {
			m.status = "sidebar collapsed"
		} else {
			m.status = "sidebar expanded"
		}
	}
	m.clampCursor()
	return false
}

func (m *Model) activate(rows []row) {
	if m.cursor >= len(rows) {
		return
	}
	r := rows[m.cursor]
	s := m.sections[r.section]
	switch {
	case r.link >= 0:
		m.navigate(s.Links[r.link].Path)
	case len(s.Links) == 0:
		m.navigate(s.Path)
	default:
		m.toggleSection(r.section)
	}
}

func (m *Model) navigate(path string) {
	m.history.Push(path)
	m.nav.PageNavigated()
	m.status = "navigated to " + path
}

// toggleSection opens section i, closing any other, or closes it when open.
func (m *Model) toggleSection(i int) {
	s := m.sections[i]
	if len(s.Links) == 0 {
		return
	}
	if s.open() {
		m.scope.Set(OpenSectionKey, "")
		return
	}
	m.scope.Set(OpenSectionKey, s.ID)
}

func (m *Model) openSection() string {
	v, err := m.scope.Evaluate(OpenSectionKey)
	if err != nil {
		return ""
	}
	id, _ := v.(string)
	return id
}

// openOnly shows the section with id and hides the rest.
func (m *Model) openOnly(id string) {
	for _, s := range m.sections {
		switch {
		case s.ID == id && len(s.Links) > 0:
			if !s.open() {
				s.el.Show()
			}
		case s.open():
			s.el.Hide()
		}
	}
}

// syncActiveItem marks the most specific entry matching the current path.
func (m *Model) syncActiveItem() {
	for _, s := range m.sections {
		for _, l := range s.Links {
			if m.nav.IsActive(l.Path, false) {
				m.nav.SetActiveItem(l.Path)
				return
			}
		}
	}
	for _, s := range m.sections {
		if m.nav.IsActive(s.Path, len(s.Links) == 0) {
			m.nav.SetActiveItem(s.Path)
			return
		}
	}
	m.nav.ClearActiveItem()
}

// rows lists the selectable lines: every header plus the links of a section
// whose children are at least partly on screen.
func (m *Model) rows() []row {
	var rows []row
	for i, s := range m.sections {
		rows = append(rows, row{section: i, link: -1})
		for j := 0; j < m.visibleLinks(s); j++ {
			rows = append(rows, row{section: i, link: j})
		}
	}
	return rows
}

func (m *Model) visibleLinks(s *section) int {
	n := m.engine.Height(s.el)
	if n > len(s.Links) {
		n = len(s.Links)
	}
	if n < 0 {
		n = 0
	}
	return n
}

func (m *Model) clampCursor() {
	n := len(m.rows())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) sectionActive(s *section) bool {
	if len(s.Links) > 0 && m.nav.IsChildActive(s.Paths()) {
		return true
	}
	return m.nav.IsActive(s.Path, len(s.Links) == 0)
}

// View implements tea.Model.
func (m *Model) View() string {
	main := m.viewMain()
	var body string
	if m.layout.Layout() == layout.Horizontal {
		body = lipgloss.JoinVertical(lipgloss.Left, m.viewHorizontal(), main)
	} else {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.viewSidebar(), main)
	}
	if m.showEvents {
		width := m.width
		if width == 0 {
			width = 80
		}
		m.eventLog.SetSize(width, eventLogHeight)
		body = lipgloss.JoinVertical(lipgloss.Left, body, m.eventLog.View())
	}
	status := m.status
	if status == "" {
		status = "enter open · space toggle · h back · l layout · b sidebar · e events · q quit"
	}
	return body + "\n" + m.theme.Footer.Status.Render(status)
}

func (m *Model) viewSidebar() string {
	if m.layout.SidebarCollapsed() {
		return m.theme.Nav.Frame.Width(railWidth).Render(m.viewRail())
	}
	var lines []string
	idx := 0
	for _, s := range m.sections {
		lines = append(lines, m.renderRow(idx, m.headerLabel(s), m.sectionActive(s), m.theme.Nav.Title))
		idx++
		for j := 0; j < m.visibleLinks(s); j++ {
			l := s.Links[j]
			lines = append(lines, m.renderRow(idx, "  "+l.Title, m.nav.IsActive(l.Path, false), m.theme.Nav.Child))
			idx++
		}
	}
	return m.theme.Nav.Frame.Width(sidebarWidth).Render(strings.Join(lines, "\n"))
}

func (m *Model) viewRail() string {
	lines := make([]string, 0, len(m.sections))
	for _, s := range m.sections {
		initial := "·"
		if s.Title != "" {
			initial = strings.ToUpper(s.Title[:1])
		}
		if m.sectionActive(s) {
			lines = append(lines, m.theme.Nav.Active.Render(initial))
			continue
		}
		lines = append(lines, m.theme.Nav.Muted.Render(initial))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) viewHorizontal() string {
	rows := m.rows()
	headers := make([]string, 0, len(m.sections))
	var children []string
	for i, s := range m.sections {
		label := m.headerLabel(s)
		style := m.theme.Nav.Title
		if m.sectionActive(s) {
			style = m.theme.Nav.Active
		}
		if m.cursor < len(rows) && rows[m.cursor].section == i && rows[m.cursor].link < 0 {
			style = style.Reverse(true)
		}
		headers = append(headers, style.Render(label))
		for j := 0; j < m.visibleLinks(s); j++ {
			l := s.Links[j]
			style := m.theme.Nav.Child
			if m.nav.IsActive(l.Path, false) {
				style = m.theme.Nav.Active
			}
			if m.cursor < len(rows) && rows[m.cursor] == (row{section: i, link: j}) {
				style = style.Reverse(true)
			}
			children = append(children, style.Render(l.Title))
		}
	}
	bar := strings.Join(headers, m.theme.Nav.Muted.Render(" | "))
	if len(children) == 0 {
		return bar
	}
	return bar + "\n" + strings.Join(children, "  ")
}

func (m *Model) headerLabel(s *section) string {
	if len(s.Links) == 0 {
		return "  " + s.Title
	}
	if s.open() {
		return "▾ " + s.Title
	}
	return "▸ " + s.Title
}

func (m *Model) renderRow(idx int, label string, active bool, base lipgloss.Style) string {
	label = truncate.StringWithTail(label, sidebarWidth-2, "…")
	style := base
	if active {
		style = m.theme.Nav.Active
	}
	if idx == m.cursor {
		style = style.Reverse(true)
	}
	return style.Render(label)
}

func (m *Model) viewMain() string {
	var b strings.Builder
	b.WriteString(theme.Gradient(m.nav.CurrentPath(), theme.GradientFrom, theme.GradientTo))
	b.WriteString("\n\n")
	if id, ok := m.nav.ActiveItem(); ok {
		fmt.Fprintf(&b, "active item  %s\n", id)
	} else {
		b.WriteString("active item  " + m.theme.Nav.Muted.Render("none") + "\n")
	}
	fmt.Fprintf(&b, "layout       %s\n", m.layout.Layout())
	fmt.Fprintf(&b, "collapsed    %t\n", m.layout.SidebarCollapsed())
	b.WriteString("\n")
	for _, s := range m.sections {
		if len(s.Links) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%-12s %s\n", s.ID, m.theme.Nav.Muted.Render(s.ctrl.Phase().String()))
	}
	return m.theme.Main.Frame.Render(b.String())
}

// Run starts the program on the alternate screen. remote, when non-nil,
// delivers messages relayed by the push channel.
func Run(opts Options, remote <-chan push.Message) error {
	m := New(opts)
	prev := navigation.SetDefault(m.Navigation())
	defer navigation.SetDefault(prev)

	p := tea.NewProgram(m, tea.WithAltScreen())
	if remote != nil {
		go func() {
			for msg := range remote {
				p.Send(RemoteMsg{Message: msg})
			}
		}()
	}
	_, err := p.Run()
	return err
}
