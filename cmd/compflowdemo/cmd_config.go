package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/opsloop/compflow/internal/diagnostics"
	"github.com/opsloop/compflow/internal/runconfig"
)

var configFormat string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Dump the loaded runtime configuration",
	RunE:  runConfig,
}

func init() {
	configCmd.Flags().StringVar(&configFormat, "format", "yaml", "yaml, toml")
}

func runConfig(cmd *cobra.Command, args []string) error {
	settings := configSettings(cfg)

	if configFormat == "toml" {
		return diagnostics.WriteTOML(os.Stdout, settings)
	}
	return diagnostics.WriteSettingsYAML(os.Stdout, settings)
}

// configSettings flattens a runconfig.Config into the map shape
// diagnostics.WriteTOML/WriteSettingsYAML expect, keyed the same way
// config.yaml and the COMPFLOW_* env vars address each field.
func configSettings(c *runconfig.Config) map[string]any {
	return map[string]any{
		"log_level":            c.LogLevel,
		"log_format":           c.LogFormat,
		"log_file":             c.LogFile,
		"default_group":        c.DefaultGroup,
		"observer_buffer_size": c.ObserverBufferSize,
		"run_timeout":          c.RunTimeout.String(),
	}
}
