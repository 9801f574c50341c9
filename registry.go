package compflow

import (
	"log/slog"
	"reflect"
	"runtime"
	"strings"
	"sync"
)

// Registry holds every registered component: its delegate, its group and
// type tags, the reverse dependents index, the ignore list, and the
// type-scoped observer table. It is the single source of truth the
// graph, broker, and run operations all read from.
//
// A Registry is safe for concurrent use. Components are typically all
// registered during package init (via a *Registrar built on top of a
// Registry) before any run begins, but nothing here assumes that.
type Registry struct {
	mu sync.RWMutex

	nextID uint64

	delegates map[Component]*Delegate
	// dependents is the reverse of a delegate's Dependencies: for every
	// dependency d, dependents[d] holds every component that depends on
	// it, recorded as soon as the dependent is registered — even before
	// d itself has a delegate.
	dependents map[Component]map[Component]struct{}

	byGroup map[GroupTag]map[Component]struct{}
	byType  map[TypeTag]map[Component]struct{}

	hidden map[Component]struct{}
	ignore map[Component]map[Component]struct{}

	typeObservers map[TypeTag][]ObserverFunc

	names       map[Component]string
	simpleNames map[Component]string
	moduleNames map[Component]string
	nameCache   map[string]Component

	// handleByPtr dedups registration by the underlying callable's code
	// pointer, never exposed outside this file: reflect.Value.Pointer()
	// is a plain uintptr, safe as a map key, unlike the func value
	// itself. Re-registering the same callable reseats its delegate
	// instead of minting a second handle, so two declarations of the
	// same underlying callable always denote the same handle.
	handleByPtr map[uintptr]Component
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		delegates:     make(map[Component]*Delegate),
		dependents:    make(map[Component]map[Component]struct{}),
		byGroup:       make(map[GroupTag]map[Component]struct{}),
		byType:        make(map[TypeTag]map[Component]struct{}),
		hidden:        make(map[Component]struct{}),
		ignore:        make(map[Component]map[Component]struct{}),
		typeObservers: make(map[TypeTag][]ObserverFunc),
		names:         make(map[Component]string),
		simpleNames:   make(map[Component]string),
		moduleNames:   make(map[Component]string),
		nameCache:     make(map[string]Component),
		handleByPtr:   make(map[uintptr]Component),
	}
}

// handleFor returns the existing handle for fn's underlying callable, or
// allocates a fresh one and records the pointer mapping. Callers hold no
// lock; handleFor takes the write lock itself.
func (r *Registry) handleFor(fn any) Component {
	ptr := reflect.ValueOf(fn).Pointer()

	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.handleByPtr[ptr]; ok {
		return c
	}
	r.nextID++
	c := Component{id: r.nextID}
	r.handleByPtr[ptr] = c
	return c
}

// register installs (or reinstalls) d's delegate, folds its dependencies
// into the reverse dependents index, and indexes it by group and type.
// Called by Registrar.New; not part of the public surface, since
// Delegate construction details (executor selection, metadata merge)
// belong to the type factory.
func (r *Registry) register(fn any, requires RequirementSpec, optional []Component, group GroupTag, typ TypeTag, metadata map[string]any, executor Executor) Component {
	c := r.handleFor(fn)

	d := newDelegate(c, fn, requires, optional)
	d.Group = group
	d.Type = typ
	d.Metadata = metadata
	if executor != nil {
		d.Executor = executor
	}

	name, simple, module := deriveNames(fn)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.delegates[c] = d

	for dep := range d.Dependencies {
		if r.dependents[dep] == nil {
			r.dependents[dep] = make(map[Component]struct{})
		}
		r.dependents[dep][c] = struct{}{}
	}

	r.indexGroupLocked(c, group)
	r.indexTypeLocked(c, typ)

	r.names[c] = name
	r.simpleNames[c] = simple
	r.moduleNames[c] = module
	r.nameCache[name] = c
	r.nameCache[simple] = c

	return c
}

func (r *Registry) indexGroupLocked(c Component, group GroupTag) {
	if r.byGroup[group] == nil {
		r.byGroup[group] = make(map[Component]struct{})
	}
	r.byGroup[group][c] = struct{}{}
}

func (r *Registry) indexTypeLocked(c Component, typ TypeTag) {
	if r.byType[typ] == nil {
		r.byType[typ] = make(map[Component]struct{})
	}
	r.byType[typ][c] = struct{}{}
}

// AddDependency attaches an extra dependency to an already-registered
// component, after construction. It updates the dependent's delegate and
// the registry's reverse index; if dep is not yet registered, the index
// entry is simply picked up once dep is, since dependents is keyed by
// dependency regardless of registration order.
func (r *Registry) AddDependency(dependent, dep Component) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if d, ok := r.delegates[dependent]; ok {
		d.addDependency(dep)
	}
	if r.dependents[dep] == nil {
		r.dependents[dep] = make(map[Component]struct{})
	}
	r.dependents[dep][dependent] = struct{}{}
}

// GetDelegate returns c's delegate, or nil if c is not registered.
func (r *Registry) GetDelegate(c Component) *Delegate {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.delegates[c]
}

// GetDependencies returns c's dependency set as a slice. Order is
// unspecified.
func (r *Registry) GetDependencies(c Component) []Component {
	// Copy under the lock: AddDependency mutates the delegate's set
	// while holding the write lock.
	r.mu.RLock()
	defer r.mu.RUnlock()
	d := r.delegates[c]
	if d == nil {
		return nil
	}
	return d.DependencyList()
}

// GetDependents returns every component that depends (directly) on c,
// including dependents registered before c itself was.
func (r *Registry) GetDependents(c Component) []Component {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set := r.dependents[c]
	out := make([]Component, 0, len(set))
	for dep := range set {
		out = append(out, dep)
	}
	return out
}

// GetGroup returns c's group tag, or the zero GroupTag if c is not
// registered.
func (r *Registry) GetGroup(c Component) GroupTag {
	d := r.GetDelegate(c)
	if d == nil {
		return nil
	}
	return d.Group
}

// GetType returns c's type tag, or nil if c is not registered.
func (r *Registry) GetType(c Component) TypeTag {
	d := r.GetDelegate(c)
	if d == nil {
		return nil
	}
	return d.Type
}

// GetMetadata returns c's registration-time metadata, or nil if c has
// none or is not registered.
func (r *Registry) GetMetadata(c Component) map[string]any {
	d := r.GetDelegate(c)
	if d == nil {
		return nil
	}
	return d.Metadata
}

// ComponentsInGroup returns every component registered under group.
// Order is unspecified.
func (r *Registry) ComponentsInGroup(group GroupTag) []Component {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set := r.byGroup[group]
	out := make([]Component, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	return out
}

// ComponentsOfType returns every component registered under typ.
func (r *Registry) ComponentsOfType(typ TypeTag) []Component {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set := r.byType[typ]
	out := make([]Component, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	return out
}

// MarkHidden marks c as hidden: still registered and runnable, but
// excluded from diagnostic listings that respect IsHidden.
func (r *Registry) MarkHidden(c Component) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hidden[c] = struct{}{}
}

// IsHidden reports whether c was marked hidden.
func (r *Registry) IsHidden(c Component) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.hidden[c]
	return ok
}

// AddIgnore declares that, for dependent, the presence of trigger in a
// broker should make dependent's executor raise SkipComponent instead of
// evaluating its ordinary requirements.
func (r *Registry) AddIgnore(dependent, trigger Component) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ignore[dependent] == nil {
		r.ignore[dependent] = make(map[Component]struct{})
	}
	r.ignore[dependent][trigger] = struct{}{}
}

// ignoreTriggered reports whether any of c's ignore triggers are present
// in broker.
func (r *Registry) ignoreTriggered(c Component, broker *Broker) bool {
	r.mu.RLock()
	triggers := r.ignore[c]
	r.mu.RUnlock()
	for t := range triggers {
		if broker.has(t) {
			return true
		}
	}
	return false
}

// AddObserver subscribes f to every component of type typ completing a
// run, in any broker. Use AnyType to subscribe to every component
// regardless of type. For a subscription scoped to one broker and one
// component, use Broker.AddObserver instead.
func (r *Registry) AddObserver(typ TypeTag, f ObserverFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.typeObservers[typ] = append(r.typeObservers[typ], f)
}

// snapshotTypeObservers copies the full type-observer table, taken once
// at broker construction so a broker's observer set is the global table
// as it stood when the broker was built, plus whatever it adds itself
// afterward — never a live view of registrations made after the broker
// exists.
func (r *Registry) snapshotTypeObservers() map[TypeTag][]ObserverFunc {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[TypeTag][]ObserverFunc, len(r.typeObservers))
	for t, fs := range r.typeObservers {
		out[t] = append([]ObserverFunc(nil), fs...)
	}
	return out
}

// GetName returns c's fully qualified name (package path plus function
// name), derived at registration time from the callable's own identity.
func (r *Registry) GetName(c Component) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.names[c]
}

// GetSimpleName returns c's bare function name, without its package
// path.
func (r *Registry) GetSimpleName(c Component) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.simpleNames[c]
}

// GetModuleName returns c's package path alone.
func (r *Registry) GetModuleName(c Component) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.moduleNames[c]
}

// Resolve looks a component up by either its fully qualified or simple
// name, as recorded at registration. It logs a miss at debug level
// through slog.Default() and returns the zero Component and false rather
// than panicking; there is no dynamic fallback, so a miss here is final.
func (r *Registry) Resolve(name string) (Component, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.nameCache[name]
	if !ok {
		slog.Debug("compflow: name did not resolve", "name", name)
	}
	return c, ok
}

// deriveNames computes fn's fully qualified name, simple name, and
// package path from its runtime program counter.
func deriveNames(fn any) (name, simple, module string) {
	pc := reflect.ValueOf(fn).Pointer()
	f := runtime.FuncForPC(pc)
	if f == nil {
		return "", "", ""
	}
	full := f.Name()

	lastSlash := strings.LastIndex(full, "/")
	tail := full
	pkgPrefix := ""
	if lastSlash >= 0 {
		pkgPrefix = full[:lastSlash+1]
		tail = full[lastSlash+1:]
	}

	if dot := strings.Index(tail, "."); dot >= 0 {
		module = pkgPrefix + tail[:dot]
		simple = tail[dot+1:]
	} else {
		module = pkgPrefix + tail
		simple = tail
	}
	return full, simple, module
}
