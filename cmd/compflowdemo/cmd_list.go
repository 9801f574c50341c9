package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/opsloop/compflow"
	"github.com/opsloop/compflow/internal/diagnostics"
)

var listFormat string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the demo graph's registered components",
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listFormat, "format", "table", "table, yaml")
}

func runList(cmd *cobra.Command, args []string) error {
	reg, a, b, c := buildDemoRegistry()
	rows := diagnostics.ListComponents(reg, []compflow.Component{a, b, c})

	if listFormat == "yaml" {
		return diagnostics.WriteYAML(os.Stdout, rows)
	}
	diagnostics.WriteTable(os.Stdout, rows)
	return nil
}
