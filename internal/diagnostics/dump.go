// Package diagnostics renders a Registry and a runconfig.Config for
// human inspection: a tabular component listing, and YAML/TOML dumps of
// the run configuration — the kind of "show me what's registered and
// what's configured" surface cmd/compflowdemo exposes as a subcommand.
package diagnostics

import (
	"fmt"
	"io"
	"sort"

	"github.com/olekukonko/tablewriter"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/opsloop/compflow"
)

// ComponentRow is one line of a registry listing.
type ComponentRow struct {
	Name   string
	Simple string
	Group  string
	Hidden bool
}

// ListComponents builds one row per entry of components, looked up in
// reg, sorted by fully qualified name for stable output.
func ListComponents(reg *compflow.Registry, components []compflow.Component) []ComponentRow {
	rows := make([]ComponentRow, 0, len(components))
	for _, c := range components {
		rows = append(rows, ComponentRow{
			Name:   reg.GetName(c),
			Simple: reg.GetSimpleName(c),
			Group:  fmt.Sprintf("%v", reg.GetGroup(c)),
			Hidden: reg.IsHidden(c),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	return rows
}

// WriteTable renders rows as an ASCII table.
func WriteTable(w io.Writer, rows []ComponentRow) {
	table := tablewriter.NewWriter(w)
	table.Header("Name", "Simple Name", "Group", "Hidden")
	for _, r := range rows {
		hidden := ""
		if r.Hidden {
			hidden = "yes"
		}
		_ = table.Append([]string{r.Name, r.Simple, r.Group, hidden})
	}
	_ = table.Render()
}

// WriteYAML marshals rows as YAML, for scripting or piping into other
// tools.
func WriteYAML(w io.Writer, rows []ComponentRow) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(rows)
}

// WriteTOML marshals an arbitrary settings map (typically
// runconfig.Config, flattened) as TOML.
func WriteTOML(w io.Writer, settings map[string]any) error {
	enc := toml.NewEncoder(w)
	return enc.Encode(settings)
}

// WriteSettingsYAML marshals the same kind of settings map WriteTOML
// takes, as YAML, so the "config dump" surface can offer either format
// the way "list" does for component rows.
func WriteSettingsYAML(w io.Writer, settings map[string]any) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(settings)
}
