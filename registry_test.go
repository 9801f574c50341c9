package compflow

import "testing"

func sampleFuncA() (int, error) { return 1, nil }

func TestRegisterDedupesSameCallable(t *testing.T) {
	reg := NewRegistry()
	demoType := NewComponentType(reg)

	c1 := demoType.New(sampleFuncA)
	c2 := demoType.New(sampleFuncA)

	if c1 != c2 {
		t.Fatalf("expected re-registering the same callable to return the same handle, got %v and %v", c1, c2)
	}
	if len(reg.delegates) != 1 {
		t.Fatalf("expected exactly one delegate entry, got %d", len(reg.delegates))
	}
}

func TestDependentsMirrorInvariant(t *testing.T) {
	reg := NewRegistry()
	demoType := NewComponentType(reg)

	a := demoType.New(func() (int, error) { return 1, nil })
	b := demoType.New(func(x int) (int, error) { return x + 1, nil }, WithRequires(Require(a)))

	deps := reg.GetDependencies(b)
	if len(deps) != 1 || deps[0] != a {
		t.Fatalf("expected b to depend on a, got %v", deps)
	}

	dependents := reg.GetDependents(a)
	if len(dependents) != 1 || dependents[0] != b {
		t.Fatalf("expected a's dependents to contain b, got %v", dependents)
	}
}

func TestDependentsRecordedBeforeDependencyRegistered(t *testing.T) {
	reg := NewRegistry()
	demoType := NewComponentType(reg)

	// b's dependency is a handle that has never been registered: reverse
	// edges must be present even before the dependency's own Delegate is
	// registered.
	notYetRegistered := Component{id: 999}
	b := demoType.New(func(x int) (int, error) { return x, nil }, WithRequires(Require(notYetRegistered)))

	dependents := reg.GetDependents(notYetRegistered)
	if len(dependents) != 1 || dependents[0] != b {
		t.Fatalf("expected dependents[notYetRegistered] to contain b even though it is unregistered, got %v", dependents)
	}
}

func TestAddDependency(t *testing.T) {
	reg := NewRegistry()
	demoType := NewComponentType(reg)

	a := demoType.New(func() (int, error) { return 1, nil })
	b := demoType.New(func() (int, error) { return 2, nil })

	reg.AddDependency(b, a)

	deps := reg.GetDelegate(b).DependencyList()
	found := false
	for _, d := range deps {
		if d == a {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected b's dependency list to include a after AddDependency, got %v", deps)
	}

	added := reg.GetDelegate(b).AddedDependencies
	if len(added) != 1 || added[0] != a {
		t.Fatalf("expected AddedDependencies=[a], got %v", added)
	}
}

func TestGroupAndTypeIndexing(t *testing.T) {
	reg := NewRegistry()
	demoType := NewComponentType(reg)

	const groupA GroupTag = "group-a"
	a := demoType.New(func() (int, error) { return 1, nil }, WithGroup(groupA))

	members := reg.ComponentsInGroup(groupA)
	if len(members) != 1 || members[0] != a {
		t.Fatalf("expected group-a to contain exactly a, got %v", members)
	}

	ofType := reg.ComponentsOfType(reg.GetType(a))
	if len(ofType) != 1 || ofType[0] != a {
		t.Fatalf("expected a's type to index exactly a, got %v", ofType)
	}
}

func TestHiddenAndIgnore(t *testing.T) {
	reg := NewRegistry()
	demoType := NewComponentType(reg)

	a := demoType.New(func() (int, error) { return 1, nil })
	b := demoType.New(func() (int, error) { return 2, nil })

	if reg.IsHidden(a) {
		t.Fatal("expected a to not be hidden by default")
	}
	reg.MarkHidden(a)
	if !reg.IsHidden(a) {
		t.Fatal("expected a to be hidden after MarkHidden")
	}

	reg.AddIgnore(b, a)
	broker := NewBroker(reg)
	if reg.ignoreTriggered(b, broker) {
		t.Fatal("expected ignore to not trigger before a is present")
	}
	_ = broker.Put(a, 1)
	if !reg.ignoreTriggered(b, broker) {
		t.Fatal("expected ignore to trigger once a is present")
	}
}

func TestResolveByName(t *testing.T) {
	reg := NewRegistry()
	demoType := NewComponentType(reg)

	a := demoType.New(sampleFuncA)

	simple := reg.GetSimpleName(a)
	if simple != "sampleFuncA" {
		t.Fatalf("expected simple name sampleFuncA, got %q", simple)
	}

	resolved, ok := reg.Resolve(simple)
	if !ok || resolved != a {
		t.Fatalf("expected Resolve(%q) to find a, got %v ok=%v", simple, resolved, ok)
	}

	_, ok = reg.Resolve("does.not.exist")
	if ok {
		t.Fatal("expected Resolve to report false for an unknown name")
	}
}
