package compflow

// Component is an opaque handle for a registered callable. It is the key
// used throughout the registry, the dependency graph, and the broker.
//
// Component is intentionally not the underlying Go function value: a
// func value is not a valid comparable map key (comparing two non-nil
// func values panics at runtime), so every index in this package would
// be unsafe if it used raw callables as keys. Registrar.New assigns a
// stable numeric id to each distinct callable the first time it is
// registered and returns that handle; every other operation — requiring
// a dependency, looking a value up in a Broker, walking the graph —
// works in terms of these handles.
type Component struct {
	id uint64
}

// zeroComponent is the invalid handle, never returned by registration.
var zeroComponent Component

// IsZero reports whether c is the invalid, unregistered handle.
func (c Component) IsZero() bool {
	return c.id == 0
}

// GroupTag partitions the registry into independently runnable sets of
// components. It must be a comparable value; string constants and
// unexported sentinel types both work.
type GroupTag interface{}

// TypeTag identifies a component's type, usually the *Registrar that
// created it. It must be a comparable value.
type TypeTag interface{}

// DefaultGroup is the group a component belongs to when none is given
// at registration time.
const DefaultGroup GroupTag = "single"

type anyTypeSentinel struct{}

// AnyType is the distinguished TypeTag that matches every component when
// used to register an observer.
var AnyType TypeTag = anyTypeSentinel{}
