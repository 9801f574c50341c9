package compflow

// Delegate is the per-component registry entry: the callable itself,
// its declared and derived dependencies, its group and type tags, its
// metadata, and the executor that knows how to invoke it.
//
// A Delegate is immutable except for AddedDependencies (and the
// Dependencies set it feeds), which may grow after construction via
// AddDependency. Group, Type, Metadata, and Executor are set once during
// registration.
type Delegate struct {
	Component Component
	Func      any

	Requires RequirementSpec
	Optional []Component

	// Dependencies is the union of every singleton, every any-of
	// member, and every optional dependency.
	Dependencies map[Component]struct{}

	// AddedDependencies lists dependencies attached after construction
	// via AddDependency, in the order they were added. The executor
	// does not pass these positionally; consumers look them up through
	// the broker directly.
	AddedDependencies []Component

	Group    GroupTag
	Type     TypeTag
	Metadata map[string]any
	Executor Executor
}

func newDelegate(component Component, fn any, requires RequirementSpec, optional []Component) *Delegate {
	deps := requires.dependencySet()
	for _, o := range optional {
		deps[o] = struct{}{}
	}

	return &Delegate{
		Component:    component,
		Func:         fn,
		Requires:     requires,
		Optional:     optional,
		Dependencies: deps,
		Executor:     DefaultExecutor,
	}
}

// DependencyList returns the delegate's dependency set as a slice. Order
// is unspecified.
func (d *Delegate) DependencyList() []Component {
	out := make([]Component, 0, len(d.Dependencies))
	for c := range d.Dependencies {
		out = append(out, c)
	}
	return out
}

// addDependency appends dep to AddedDependencies and folds it into
// Dependencies. Registry.AddDependency additionally keeps the registry's
// dependents/components indices in sync; this method only updates the
// delegate's own view.
func (d *Delegate) addDependency(dep Component) {
	d.AddedDependencies = append(d.AddedDependencies, dep)
	if d.Dependencies == nil {
		d.Dependencies = make(map[Component]struct{})
	}
	d.Dependencies[dep] = struct{}{}
}
