package compflow

// Requirement is one element of a required-dependency sequence: either a
// single component that must be present, or a non-empty group of
// components of which at least one must be present ("any-of").
type Requirement struct {
	single  Component
	group   []Component
	isGroup bool
}

// Require builds a singleton requirement: c must be present in the
// broker for the component's executor to run.
func Require(c Component) Requirement {
	return Requirement{single: c}
}

// AnyOf builds an any-of requirement: at least one of cs must be present
// in the broker. Panics if cs is empty — an any-of group must name at
// least one candidate.
func AnyOf(cs ...Component) Requirement {
	if len(cs) == 0 {
		panic("compflow: AnyOf requires at least one component")
	}
	group := make([]Component, len(cs))
	copy(group, cs)
	return Requirement{group: group, isGroup: true}
}

// RequirementSpec is the sequence of required dependencies declared at
// registration, mixing singleton and any-of entries in declared order.
type RequirementSpec []Requirement

// dependencySet returns every component named anywhere in the spec,
// deduplicated, for folding into a Delegate's Dependencies set.
func (rs RequirementSpec) dependencySet() map[Component]struct{} {
	set := make(map[Component]struct{}, len(rs))
	for _, r := range rs {
		if r.isGroup {
			for _, c := range r.group {
				set[c] = struct{}{}
			}
		} else {
			set[r.single] = struct{}{}
		}
	}
	return set
}

func splitRequirements(rs RequirementSpec) (all []Component, any [][]Component) {
	for _, r := range rs {
		if r.isGroup {
			any = append(any, r.group)
		} else {
			all = append(all, r.single)
		}
	}
	return all, any
}

// missing computes the (unsatisfied singletons, unsatisfied any-of
// groups) pair for rs against the present predicate. It returns nil when
// rs is empty or every requirement is satisfied.
func missing(rs RequirementSpec, present func(Component) bool) *MissingRequirements {
	if len(rs) == 0 {
		return nil
	}

	all, any := splitRequirements(rs)

	var unsatisfiedAll []Component
	for _, c := range all {
		if !present(c) {
			unsatisfiedAll = append(unsatisfiedAll, c)
		}
	}

	var unsatisfiedAny [][]Component
	for _, group := range any {
		satisfied := false
		for _, c := range group {
			if present(c) {
				satisfied = true
				break
			}
		}
		if !satisfied {
			unsatisfiedAny = append(unsatisfiedAny, group)
		}
	}

	if len(unsatisfiedAll) == 0 && len(unsatisfiedAny) == 0 {
		return nil
	}
	return &MissingRequirements{All: unsatisfiedAll, Any: unsatisfiedAny}
}

// firstOf returns the first present value among dependencies. It is a
// convenience for callers outside the default executor's
// positional-argument convention that need to recreate an any-of
// group's resolved value.
func firstOf(broker *Broker, dependencies []Component) (any, bool) {
	for _, d := range dependencies {
		if v, ok := broker.peek(d); ok {
			return v, true
		}
	}
	return nil, false
}
