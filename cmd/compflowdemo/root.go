package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/opsloop/compflow/internal/runconfig"
	"github.com/opsloop/compflow/internal/runlog"
)

// logManager is created in bootstrap mode in init() and upgraded to
// full file logging once runconfig has loaded, the same two-phase
// sequencing the teacher's cmd package uses for its own log manager.
var logManager *runlog.Manager

var cfg *runconfig.Config

var rootCmd = &cobra.Command{
	Use:               "compflowdemo",
	Short:             "Run and inspect compflow component graphs",
	PersistentPreRunE: runInitialize,
}

func init() {
	logManager = runlog.NewManager()
	slog.SetDefault(logManager.Logger())

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(configCmd)
}

func runInitialize(cmd *cobra.Command, args []string) error {
	loaded, err := runconfig.Load()
	if err != nil {
		return err
	}
	cfg = loaded

	if cfg.LogFile != "" {
		level := parseLevel(cfg.LogLevel)
		if err := logManager.Upgrade(cfg.LogFile, level, 10, 3); err != nil {
			logManager.Logger().Warn("continuing with stderr-only logging", "error", err)
		}
	}
	return nil
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Execute runs the root command, matching the teacher's Execute()
// shape: errors print once, usage follows unless silenced, and the log
// manager always closes on the way out.
func Execute() error {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	defer func() { _ = logManager.Close() }()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
