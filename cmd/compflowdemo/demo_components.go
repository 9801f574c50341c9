package main

import (
	"errors"
	"fmt"

	"github.com/opsloop/compflow"
)

// buildDemoRegistry wires up a simple linear chain: A produces 1, B
// depends on A and adds 1, C depends on B and adds 1. It exists so
// `compflowdemo run` has something to run without requiring a manifest
// on disk.
func buildDemoRegistry() (reg *compflow.Registry, a, b, c compflow.Component) {
	reg = compflow.NewRegistry()
	demoType := compflow.NewComponentType(reg)

	a = demoType.New(func() (int, error) {
		return 1, nil
	})

	b = demoType.New(func(prev int) (int, error) {
		return prev + 1, nil
	}, compflow.WithRequires(compflow.Require(a)))

	c = demoType.New(func(prev int) (int, error) {
		return prev + 1, nil
	}, compflow.WithRequires(compflow.Require(b)))

	return reg, a, b, c
}

// buildFailingRegistry wires up the missing-requirement scenario: A
// fails outright, and B depends on it.
func buildFailingRegistry() (reg *compflow.Registry, a, b compflow.Component) {
	reg = compflow.NewRegistry()
	demoType := compflow.NewComponentType(reg)

	a = demoType.New(func() (int, error) {
		return 0, errors.New("demo: component A always fails")
	})

	b = demoType.New(func(prev int) (int, error) {
		return prev + 1, nil
	}, compflow.WithRequires(compflow.Require(a)))

	return reg, a, b
}

func describeOutcome(reg *compflow.Registry, broker *compflow.Broker, c compflow.Component) string {
	if v := broker.Get(c); v != nil {
		return fmt.Sprintf("%s = %v", reg.GetSimpleName(c), v)
	}
	if mr, ok := broker.MissingRequirementsFor(c); ok {
		return fmt.Sprintf("%s: missing requirements (%s)", reg.GetSimpleName(c), mr.String())
	}
	if errs := broker.Exceptions(c); len(errs) > 0 {
		return fmt.Sprintf("%s: failed (%v)", reg.GetSimpleName(c), errs[0])
	}
	return fmt.Sprintf("%s: skipped", reg.GetSimpleName(c))
}
