package compflow

import "testing"

func present(set map[Component]bool) func(Component) bool {
	return func(c Component) bool { return set[c] }
}

func TestMissingAllSatisfied(t *testing.T) {
	a := Component{id: 1}
	b := Component{id: 2}
	rs := RequirementSpec{Require(a), Require(b)}

	if mr := missing(rs, present(map[Component]bool{a: true, b: true})); mr != nil {
		t.Fatalf("expected no missing requirements, got %v", mr)
	}
}

func TestMissingSingleton(t *testing.T) {
	a := Component{id: 1}
	b := Component{id: 2}
	rs := RequirementSpec{Require(a), Require(b)}

	mr := missing(rs, present(map[Component]bool{a: true}))
	if mr == nil {
		t.Fatal("expected missing requirements")
	}
	if len(mr.All) != 1 || mr.All[0] != b {
		t.Fatalf("expected All=[b], got %v", mr.All)
	}
	if len(mr.Any) != 0 {
		t.Fatalf("expected no any-of misses, got %v", mr.Any)
	}
}

func TestMissingAnyOfSatisfiedByOneMember(t *testing.T) {
	a := Component{id: 1}
	b := Component{id: 2}
	rs := RequirementSpec{AnyOf(a, b)}

	if mr := missing(rs, present(map[Component]bool{b: true})); mr != nil {
		t.Fatalf("expected any-of satisfied, got %v", mr)
	}
}

func TestMissingAnyOfEntirelyAbsent(t *testing.T) {
	a := Component{id: 1}
	b := Component{id: 2}
	rs := RequirementSpec{AnyOf(a, b)}

	mr := missing(rs, present(nil))
	if mr == nil {
		t.Fatal("expected missing requirements")
	}
	if len(mr.Any) != 1 || len(mr.Any[0]) != 2 {
		t.Fatalf("expected one unsatisfied any-of group of size 2, got %v", mr.Any)
	}
}

func TestMissingEmptySpec(t *testing.T) {
	if mr := missing(nil, present(nil)); mr != nil {
		t.Fatalf("expected nil for an empty requirement spec, got %v", mr)
	}
}

func TestAnyOfPanicsOnEmpty(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected AnyOf() with no arguments to panic")
		}
	}()
	AnyOf()
}

func TestFirstOf(t *testing.T) {
	reg := NewRegistry()
	broker := NewBroker(reg)

	a := Component{id: 1}
	b := Component{id: 2}

	_ = broker.Put(b, 42)

	v, ok := firstOf(broker, []Component{a, b})
	if !ok || v != 42 {
		t.Fatalf("expected firstOf to find b=42, got v=%v ok=%v", v, ok)
	}

	_, ok = firstOf(broker, []Component{a})
	if ok {
		t.Fatal("expected firstOf to report absent when no member is present")
	}
}
