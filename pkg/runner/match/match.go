// Package match provides a CLI helper that reports which navigation items
// are active for a path.
package match

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/sidenav/pkg/pathmatch"
)

// Result is the verdict for one item path.
type Result struct {
	Item   string `json:"item"`
	Active bool   `json:"active"`
}

// Match checks Items against Current.
type Match struct {
	Current string
	Items   []string
	Exact   bool
	JSON    bool
	Out     io.Writer
}

// Results evaluates every item, followed by whether any item is a child of
// the current path.
func (m *Match) Results() ([]Result, bool) {
	rs := make([]Result, 0, len(m.Items))
	for _, item := range m.Items {
		rs = append(rs, Result{Item: item, Active: pathmatch.IsActive(item, m.Current, m.Exact)})
	}
	return rs, pathmatch.IsChildActive(m.Items, m.Current)
}

// Do prints the results.
func (m *Match) Do(_ context.Context) error {
	out := m.Out
	if out == nil {
		out = color.Output
	}
	rs, child := m.Results()

	if m.JSON {
		b, err := json.Marshal(struct {
			Current     string   `json:"current"`
			Normalized  string   `json:"normalized"`
			Results     []Result `json:"results"`
			ChildActive bool     `json:"childActive"`
		}{m.Current, pathmatch.Normalize(m.Current), rs, child})
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out, string(b))
		return nil
	}

	bold := color.New(color.Bold)
	yes := color.New(color.FgGreen)
	no := color.New(color.Faint)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Item"), bold.Sprint("Active"))
	for _, r := range rs {
		mark := no.Sprint("no")
		if r.Active {
			mark = yes.Sprint("yes")
		}
		tbl.AddRow(r.Item, mark)
	}
	_, _ = fmt.Fprintln(out, tbl)
	_, _ = fmt.Fprintf(out, "child active: %t\n", child)
	return nil
}
