package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/opsloop/compflow"
)

var failDemo bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the demo component graph and show live progress",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().BoolVar(&failDemo, "fail", false, "run the missing-requirement demo instead of the linear-chain one")
}

func runRun(cmd *cobra.Command, args []string) error {
	var reg *compflow.Registry

	if failDemo {
		r, _, _ := buildFailingRegistry()
		reg = r
	} else {
		r, _, _, _ := buildDemoRegistry()
		reg = r
	}

	total := len(reg.ComponentsInGroup(compflow.DefaultGroup))
	events := runProgressTUI(reg, total)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	limiter := rate.NewLimiter(rate.Every(50*time.Millisecond), 1)

	type outcome struct {
		broker *compflow.Broker
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		broker, err := compflow.Run(ctx, reg, compflow.DefaultGroup, compflow.WithRunRateLimit(limiter))
		close(events)
		done <- outcome{broker, err}
	}()

	program := tea.NewProgram(newProgressModel(total, events))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("compflowdemo: rendering progress; %w", err)
	}

	result := <-done
	if result.err != nil {
		return fmt.Errorf("compflowdemo: run failed; %w", result.err)
	}

	logManager.Logger().Info("run complete", "run_id", result.broker.RunID().String())
	return nil
}
