package compflow

import (
	"errors"
	"fmt"
)

// ErrAlreadyPresent is returned by Broker.Put when a component already
// has a recorded value.
var ErrAlreadyPresent = errors.New("compflow: component already present in broker")

// ErrUnknownComponent identifies a lookup of a component that was never
// registered. No function in this package returns it: the Registry
// accessors return a zero value or nil for an unregistered component.
var ErrUnknownComponent = errors.New("compflow: unknown component")

// ErrNotRegistered identifies a component with no delegate. No function
// in this package returns it: graph operations treat such a component as
// having no dependencies, and the run loop passes over it.
var ErrNotRegistered = errors.New("compflow: component is not registered")

// ErrCyclicDependency is returned by RunOrder when the input graph
// contains a cycle. Breaking a cycle automatically is not attempted;
// this is a programming error that must surface to the caller rather
// than be silently resolved.
var ErrCyclicDependency = errors.New("compflow: cyclic dependency graph")

// SkipComponent is the sentinel a component raises (returns as an error)
// to voluntarily withdraw from a run. The broker records neither a value
// nor a failure for it.
var SkipComponent = errors.New("compflow: component skipped")

// MissingRequirements reports that a component's requirements were not
// satisfied in the broker at the moment its executor ran. It is not a
// fatal error: the run loop records it in Broker.MissingRequirements and
// continues with the next component.
type MissingRequirements struct {
	// All holds the required singleton components that were absent.
	All []Component
	// Any holds the any-of groups that were entirely absent.
	Any [][]Component
}

func (m *MissingRequirements) Error() string {
	return fmt.Sprintf("compflow: missing requirements (%s)", m.String())
}

// String renders the missing-requirements pair for diagnostics.
func (m *MissingRequirements) String() string {
	return fmt.Sprintf("all=%v any=%v", m.All, m.Any)
}

