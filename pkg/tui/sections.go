package tui

import (
	"tableflip.dev/sidenav/pkg/collapse"
	"tableflip.dev/sidenav/pkg/dom"
)

// Link is a navigable entry inside a section.
type Link struct {
	Title string
	Path  string
}

// Section is a collapsible group of links.
type Section struct {
	ID    string
	Title string
	Path  string
	Links []Link
}

// Paths returns the link paths, used for child-active checks.
func (s Section) Paths() []string {
	paths := make([]string, 0, len(s.Links))
	for _, l := range s.Links {
		paths = append(paths, l.Path)
	}
	return paths
}

// DefaultSections is the navigation tree shown when none is configured.
func DefaultSections() []Section {
	return []Section{
		{ID: "dashboard", Title: "Dashboard", Path: "/"},
		{ID: "projects", Title: "Projects", Path: "/projects", Links: []Link{
			{Title: "All projects", Path: "/projects/all"},
			{Title: "Archived", Path: "/projects/archived"},
			{Title: "New project", Path: "/projects/new"},
		}},
		{ID: "reports", Title: "Reports", Path: "/reports", Links: []Link{
			{Title: "Weekly", Path: "/reports/weekly"},
			{Title: "Monthly", Path: "/reports/monthly"},
		}},
		{ID: "settings", Title: "Settings", Path: "/settings", Links: []Link{
			{Title: "Profile", Path: "/settings/profile"},
			{Title: "Layout", Path: "/settings/layout"},
			{Title: "Notifications", Path: "/settings/notifications"},
			{Title: "Integrations", Path: "/settings/integrations"},
		}},
	}
}

// section is a Section bound to its element and collapse controller.
type section struct {
	Section
	el   *dom.Element
	ctrl *collapse.Controller
}

func (s *section) open() bool {
	return s.el.Visible()
}

// row is one selectable line of the sidebar.
type row struct {
	section int
	link    int // -1 for the section header
}
