package main

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/spf13/cobra"

	"tableflip.dev/sidenav/pkg/collapse"
	"tableflip.dev/sidenav/pkg/prefs"
	"tableflip.dev/sidenav/pkg/tui"
)

type options struct {
	full     bool
	width    int
	height   int
	duration string
	path     string
	disk     string
}

func main() {
	var opts options

	rootCmd := &cobra.Command{
		Use:   "testbed",
		Short: "Run the navigation inside a framed harness with the event pane open",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts)
		},
	}

	rootCmd.PersistentFlags().BoolVar(&opts.full, "full", false, "use the full terminal window")
	rootCmd.PersistentFlags().IntVar(&opts.width, "width", 100, "window width when not fullscreen")
	rootCmd.PersistentFlags().IntVar(&opts.height, "height", 30, "window height when not fullscreen")
	rootCmd.PersistentFlags().StringVar(&opts.duration, "duration", "duration.300ms", "collapse modifiers (500ms, 500 or duration.500ms); raise it to watch the phases")
	rootCmd.PersistentFlags().StringVar(&opts.path, "path", "/", "start path")
	rootCmd.PersistentFlags().StringVar(&opts.disk, "disk", "", "persist preferences under this directory instead of memory")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(opts options) error {
	base := newTestbedModel(opts)
	p := tea.NewProgram(base, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func storeFor(opts options) *prefs.Store {
	if opts.disk == "" {
		return prefs.New(prefs.NewMemoryBackend())
	}
	return prefs.Open(prefs.PathConfig(opts.disk))
}

type testbedModel struct {
	fullscreen bool
	maxWidth   int
	maxHeight  int

	termWidth  int
	termHeight int

	nav *tui.Model
}

func newTestbedModel(opts options) *testbedModel {
	return &testbedModel{
		fullscreen: opts.full,
		maxWidth:   opts.width,
		maxHeight:  opts.height,
		nav: tui.New(tui.Options{
			Store:      storeFor(opts),
			Collapse:   collapse.ParseModifiers(strings.Split(opts.duration, ",")),
			StartPath:  opts.path,
			ShowEvents: true,
		}),
	}
}

func (m *testbedModel) Init() tea.Cmd { return m.nav.Init() }

func (m *testbedModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.termWidth = size.Width
		m.termHeight = size.Height
		w, h := m.frameSize()
		msg = tea.WindowSizeMsg{Width: max(1, w-2), Height: max(1, h-2)}
	}
	_, cmd := m.nav.Update(msg)
	return m, cmd
}

func (m *testbedModel) View() string {
	if m.termWidth == 0 || m.termHeight == 0 {
		return "Resizing…"
	}
	w, h := m.frameSize()
	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(w).
		Height(h).
		Render(m.nav.View())
	return lipgloss.Place(m.termWidth, m.termHeight, lipgloss.Center, lipgloss.Top, frame,
		lipgloss.WithWhitespaceChars(" "))
}

func (m *testbedModel) frameSize() (int, int) {
	if m.fullscreen {
		return m.termWidth, m.termHeight
	}
	return clamp(m.maxWidth, 20, m.termWidth), clamp(m.maxHeight, minFrameHeight, m.termHeight)
}

func clamp(value, min, max int) int {
	if max <= 0 {
		return min
	}
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

const minFrameHeight = 12
