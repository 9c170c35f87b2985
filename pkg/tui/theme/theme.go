// Package theme holds the Lip Gloss styles of the navigation UI.
package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"
)

// Title gradient endpoints.
const (
	GradientFrom = "#FF5FD7"
	GradientTo   = "#5FD7FF"
)

// Theme centralizes Lip Gloss styles for the navigation UI.
type Theme struct {
	Nav    NavTheme
	Main   MainTheme
	Footer FooterTheme
}

// NavTheme styles section headers and links.
type NavTheme struct {
	Frame  lipgloss.Style
	Title  lipgloss.Style
	Active lipgloss.Style
	Child  lipgloss.Style
	Muted  lipgloss.Style
}

// MainTheme styles the content pane beside or below the navigation.
type MainTheme struct {
	Frame lipgloss.Style
}

// FooterTheme groups styles used by the bottom status line.
type FooterTheme struct {
	Status lipgloss.Style
}

// Default returns the built-in theme.
func Default() Theme {
	return Theme{
		Nav: NavTheme{
			Frame:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
			Title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
			Active: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
			Child:  lipgloss.NewStyle().Foreground(lipgloss.Color("86")),
			Muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		},
		Main: MainTheme{
			Frame: lipgloss.NewStyle().Padding(0, 2),
		},
		Footer: FooterTheme{
			Status: lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("244")),
		},
	}
}

// Gradient renders text bold with a foreground blended from one hex color to
// another. Terminals without true color get the first color only.
func Gradient(text, from, to string) string {
	rs := []rune(text)
	if len(rs) == 0 {
		return ""
	}
	c1, err := colorful.Hex(from)
	if err != nil {
		return lipgloss.NewStyle().Bold(true).Render(text)
	}
	if termenv.ColorProfile() != termenv.TrueColor {
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(c1.Hex())).Render(text)
	}
	c2, err := colorful.Hex(to)
	if err != nil {
		c2 = c1
	}
	var b strings.Builder
	for i, r := range rs {
		t := 0.0
		if len(rs) > 1 {
			t = float64(i) / float64(len(rs)-1)
		}
		c := c1.BlendLab(c2, t).Clamped()
		b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(c.Hex())).Render(string(r)))
	}
	return b.String()
}
