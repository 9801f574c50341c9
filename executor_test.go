package compflow

import "testing"

func TestBrokerExecutorPassesBrokerItself(t *testing.T) {
	reg := NewRegistry()
	rg := NewComponentType(reg, WithTypeExecutor(BrokerExecutor))

	a := rg.New(func() (int, error) { return 5, nil })
	c := rg.New(func(broker *Broker) (int, error) {
		return broker.Get(a).(int) * 2, nil
	}, WithRequires(Require(a)))

	broker := NewBroker(reg)
	va, err := DefaultExecutor(reg, reg.GetDelegate(a), broker)
	if err != nil {
		t.Fatalf("unexpected error running a: %v", err)
	}
	if err := broker.Put(a, va); err != nil {
		t.Fatalf("unexpected error storing a: %v", err)
	}
	if err := broker.Put(a, broker.Get(a)); err == nil {
		t.Fatal("expected Put to reject a second write")
	}

	v, err := BrokerExecutor(reg, reg.GetDelegate(c), broker)
	if err != nil {
		t.Fatalf("unexpected error running c: %v", err)
	}
	if v != 10 {
		t.Fatalf("expected c=10, got %v", v)
	}
}

func TestExecutorReturnsSkipComponentWhenIgnoreTriggers(t *testing.T) {
	reg := NewRegistry()
	rg := NewComponentType(reg)

	x := rg.New(func() (int, error) { return 1, nil })
	c := rg.New(func() (int, error) { return 2, nil })
	reg.AddIgnore(c, x)

	broker := NewBroker(reg)
	_ = broker.Put(x, 1)

	_, err := DefaultExecutor(reg, reg.GetDelegate(c), broker)
	if err != SkipComponent {
		t.Fatalf("expected SkipComponent, got %v", err)
	}
}

func TestExecutorReturnsMissingRequirements(t *testing.T) {
	reg := NewRegistry()
	rg := NewComponentType(reg)

	a := rg.New(func() (int, error) { return 1, nil })
	b := rg.New(func(x int) (int, error) { return x, nil }, WithRequires(Require(a)))

	broker := NewBroker(reg)
	_, err := DefaultExecutor(reg, reg.GetDelegate(b), broker)

	mr, ok := err.(*MissingRequirements)
	if !ok {
		t.Fatalf("expected *MissingRequirements, got %T (%v)", err, err)
	}
	if len(mr.All) != 1 || mr.All[0] != a {
		t.Fatalf("expected missing requirement [a], got %v", mr.All)
	}
}
