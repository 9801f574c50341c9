package compflow

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ObserverFunc is called after a component finishes running (however it
// finished), receiving the component and the broker it ran in. Observers
// run synchronously inside the run loop, so a slow observer delays the
// next component; panics inside one are recovered and logged rather than
// propagated.
type ObserverFunc func(component Component, broker *Broker)

// Broker is the result container for a single run: every component's
// produced value, every missing-requirements outcome, every exception,
// every execution time, and the observers subscribed to a specific
// component's completion.
type Broker struct {
	mu sync.RWMutex

	reg    *Registry
	logger *slog.Logger
	runID  uuid.UUID

	instances  map[Component]any
	missing    map[Component]*MissingRequirements
	exceptions map[Component][]error
	execTimes  map[Component]time.Duration
	observers  map[Component][]ObserverFunc

	// typeObservers is a snapshot of the registry's type-observer table
	// taken at construction time — see Registry.snapshotTypeObservers.
	typeObservers map[TypeTag][]ObserverFunc
}

// BrokerOption configures a Broker at construction time.
type BrokerOption func(*Broker)

// WithSeed pre-populates the new broker with every instance already
// present in seed, without copying seed's missing-requirements,
// exceptions, exec times, or observers. RunIncremental uses it to seed
// every subgraph's broker from the broker given via WithRunBroker.
func WithSeed(seed *Broker) BrokerOption {
	return func(b *Broker) {
		if seed == nil {
			return
		}
		seed.mu.RLock()
		defer seed.mu.RUnlock()
		for c, v := range seed.instances {
			b.instances[c] = v
		}
	}
}

// WithBrokerLogger overrides the broker's logger, used only to report
// observer panics. Defaults to slog.Default().
func WithBrokerLogger(l *slog.Logger) BrokerOption {
	return func(b *Broker) { b.logger = l }
}

// NewBroker builds an empty broker bound to reg, applying opts in order.
func NewBroker(reg *Registry, opts ...BrokerOption) *Broker {
	b := &Broker{
		reg:           reg,
		logger:        slog.Default(),
		runID:         uuid.New(),
		instances:     make(map[Component]any),
		missing:       make(map[Component]*MissingRequirements),
		exceptions:    make(map[Component][]error),
		execTimes:     make(map[Component]time.Duration),
		observers:     make(map[Component][]ObserverFunc),
		typeObservers: reg.snapshotTypeObservers(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// RunID identifies this broker's run, stamped at construction so
// observers and diagnostics can correlate a value with the run that
// produced it.
func (b *Broker) RunID() uuid.UUID {
	return b.runID
}

// Put records c's value. It returns ErrAlreadyPresent if c already has a
// recorded value — a component executes at most once per broker.
func (b *Broker) Put(c Component, v any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.instances[c]; ok {
		return ErrAlreadyPresent
	}
	b.instances[c] = v
	return nil
}

// Get returns c's recorded value, or nil if c has none.
func (b *Broker) Get(c Component) any {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.instances[c]
}

// has reports whether c has a recorded value, including an explicit nil
// value — it is the "present" predicate the requirement algebra and the
// executor check against.
func (b *Broker) has(c Component) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.instances[c]
	return ok
}

// peek is has and Get combined, for callers (firstOf) that need to
// distinguish "absent" from "present but nil" in one lock acquisition.
func (b *Broker) peek(c Component) (any, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.instances[c]
	return v, ok
}

// Keys returns every component with a recorded value. Order is
// unspecified.
func (b *Broker) Keys() []Component {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Component, 0, len(b.instances))
	for c := range b.instances {
		out = append(out, c)
	}
	return out
}

// Items returns a snapshot copy of every recorded value, keyed by
// component.
func (b *Broker) Items() map[Component]any {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[Component]any, len(b.instances))
	for c, v := range b.instances {
		out[c] = v
	}
	return out
}

// GetByType returns every recorded value whose component is tagged with
// t in the broker's registry.
func (b *Broker) GetByType(t TypeTag) map[Component]any {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[Component]any)
	for c, v := range b.instances {
		if b.reg.GetType(c) == t {
			out[c] = v
		}
	}
	return out
}

// AddException records err against c. Repeated calls for the same
// component accumulate rather than replace earlier exceptions.
func (b *Broker) AddException(c Component, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.exceptions[c] = append(b.exceptions[c], err)
}

// Exceptions returns every exception recorded against c, in the order
// they were added.
func (b *Broker) Exceptions(c Component) []error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]error(nil), b.exceptions[c]...)
}

// setMissing records mr as the missing-requirements outcome for c.
func (b *Broker) setMissing(c Component, mr *MissingRequirements) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.missing[c] = mr
}

// MissingRequirementsFor reports whether c's run was blocked on missing
// requirements, and the detail if so.
func (b *Broker) MissingRequirementsFor(c Component) (*MissingRequirements, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	mr, ok := b.missing[c]
	return mr, ok
}

// setExecTime records how long c's turn in the run took, whatever the
// outcome.
func (b *Broker) setExecTime(c Component, d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.execTimes[c] = d
}

// ExecTime reports how long c's turn in the run took — its executor,
// the recording of its outcome, and its observers — if it has run at all.
func (b *Broker) ExecTime(c Component) (time.Duration, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	d, ok := b.execTimes[c]
	return d, ok
}

// AddObserver subscribes f to c's completion in this broker only. For a
// subscription that fires for every component of a given type (or every
// component at all, via AnyType), use Registry.AddObserver instead.
func (b *Broker) AddObserver(c Component, f ObserverFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.observers[c] = append(b.observers[c], f)
}

// FireObservers runs every observer registered for c's completion: first
// the registry's AnyType observers, then the registry's observers for
// c's specific type, then this broker's component-scoped observers. The
// registry-wide observers only fire if c has a registered type at all —
// an unregistered component has nothing for GetType to look up, so there
// is no type-scoped table to dispatch from. A panicking observer is
// recovered and logged; it never interrupts the remaining observers or
// the run loop.
func (b *Broker) FireObservers(c Component) {
	if t := b.reg.GetType(c); t != nil {
		for _, f := range b.typeObservers[AnyType] {
			b.safeCall(f, c)
		}
		if t != AnyType {
			for _, f := range b.typeObservers[t] {
				b.safeCall(f, c)
			}
		}
	}
	b.mu.RLock()
	componentObservers := append([]ObserverFunc(nil), b.observers[c]...)
	b.mu.RUnlock()
	for _, f := range componentObservers {
		b.safeCall(f, c)
	}
}

func (b *Broker) safeCall(f ObserverFunc, c Component) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("observer panicked", "component", b.reg.GetName(c), "panic", r)
		}
	}()
	f(c, b)
}
