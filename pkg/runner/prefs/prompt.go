package prefs

import (
	"errors"
	"fmt"
	"io"

	"github.com/manifoldco/promptui"

	"tableflip.dev/sidenav/pkg/layout"
)

// Choice is a known preference offered by the interactive prompt.
type Choice struct {
	Key     string
	Meaning string
	Values  []string
}

// Choices lists the preferences the navigation reads.
func Choices() []Choice {
	return []Choice{
		{Key: layout.KeyLayout, Meaning: "navigation placement", Values: layout.Layouts},
		{Key: layout.KeySidebarCollapsed, Meaning: "sidebar shown as a rail", Values: []string{"true", "false"}},
		{Key: "openSection", Meaning: "expanded section id"},
	}
}

// Prompt asks for a key and a value, filling in s.
func Prompt(s *Set, in io.ReadCloser, out io.WriteCloser) error {
	choices := Choices()
	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}?",
		Active:   "➜  {{ .Key | bold }} {{ .Meaning | green }}",
		Inactive: "   {{ .Key }} {{ .Meaning | cyan }}",
		Selected: "{{ .Key | bold }}",
	}
	sel := promptui.Select{
		HideHelp:  true,
		Label:     "Preference",
		Items:     choices,
		Templates: templates,
		Stdin:     in,
		Stdout:    out,
	}
	i, _, err := sel.Run()
	if err != nil {
		return fmt.Errorf("prompt: %w", err)
	}
	choice := choices[i]
	s.Key = choice.Key

	if len(choice.Values) > 0 {
		vs := promptui.Select{
			HideHelp: true,
			Label:    choice.Key,
			Items:    choice.Values,
			Stdin:    in,
			Stdout:   out,
		}
		_, s.Value, err = vs.Run()
		if err != nil {
			return fmt.Errorf("prompt: %w", err)
		}
		return nil
	}

	current := ""
	if s.Store != nil {
		current = s.Store.GetString(choice.Key, "")
	}
	p := promptui.Prompt{
		Label:   choice.Key,
		Default: current,
		Validate: func(input string) error {
			if input == "" && current == "" {
				return errors.New("empty")
			}
			return nil
		},
		Templates: &promptui.PromptTemplates{
			Prompt:  "{{ . }} : ",
			Valid:   "{{ . | green }} : ",
			Invalid: "{{ . | red }} : ",
			Success: "{{ . | bold }} : ",
		},
		Stdin:  in,
		Stdout: out,
	}
	s.Value, err = p.Run()
	if err != nil {
		return fmt.Errorf("prompt: %w", err)
	}
	return nil
}
