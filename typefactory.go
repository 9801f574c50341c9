package compflow

// Registrar is a component type: a factory that registers callables
// against a Registry, carrying the auto-requirements, auto-optional
// dependencies, shared metadata, default executor, and default group
// every component of this type inherits.
//
// A Registrar's identity is itself the TypeTag recorded on every
// Delegate it produces, unless WithTypeTag overrides it.
type Registrar struct {
	reg *Registry

	typeTag TypeTag

	autoRequires RequirementSpec
	autoOptional []Component
	typeMetadata map[string]any
	executor     Executor
	group        GroupTag
}

// ComponentTypeOption configures a Registrar at construction time.
type ComponentTypeOption func(*Registrar)

// WithAutoRequires declares requirements every component of this type
// carries in addition to its own, prepended before them in positional
// order.
func WithAutoRequires(rs ...Requirement) ComponentTypeOption {
	return func(r *Registrar) { r.autoRequires = append(r.autoRequires, rs...) }
}

// WithAutoOptional declares optional dependencies every component of
// this type carries in addition to its own.
func WithAutoOptional(cs ...Component) ComponentTypeOption {
	return func(r *Registrar) { r.autoOptional = append(r.autoOptional, cs...) }
}

// WithTypeMetadata sets metadata shared by every component of this type;
// a component's own metadata, given at New time, overrides matching
// keys.
func WithTypeMetadata(md map[string]any) ComponentTypeOption {
	return func(r *Registrar) { r.typeMetadata = md }
}

// WithTypeExecutor sets the default Executor for components of this
// type. DefaultExecutor is used if this option is not given.
func WithTypeExecutor(e Executor) ComponentTypeOption {
	return func(r *Registrar) { r.executor = e }
}

// WithDefaultGroup sets the group new components of this type fall into
// when New is not given an explicit group.
func WithDefaultGroup(g GroupTag) ComponentTypeOption {
	return func(r *Registrar) { r.group = g }
}

// WithTypeTag overrides the TypeTag recorded on this type's components.
// Without it, the Registrar itself is the type tag.
func WithTypeTag(t TypeTag) ComponentTypeOption {
	return func(r *Registrar) { r.typeTag = t }
}

// NewComponentType declares a new component type against reg.
func NewComponentType(reg *Registry, opts ...ComponentTypeOption) *Registrar {
	r := &Registrar{reg: reg, group: DefaultGroup, executor: DefaultExecutor}
	for _, opt := range opts {
		opt(r)
	}
	if r.typeTag == nil {
		r.typeTag = r
	}
	return r
}

// registration accumulates one New call's overrides.
type registration struct {
	requires RequirementSpec
	optional []Component
	group    GroupTag
	metadata map[string]any
	executor Executor
}

// RegisterOption configures a single component's registration.
type RegisterOption func(*registration)

// WithRequires declares fn's required dependencies, in positional order.
func WithRequires(rs ...Requirement) RegisterOption {
	return func(reg *registration) { reg.requires = append(reg.requires, rs...) }
}

// WithOptional declares fn's optional dependencies.
func WithOptional(cs ...Component) RegisterOption {
	return func(reg *registration) { reg.optional = append(reg.optional, cs...) }
}

// WithGroup overrides the type's default group for this component.
func WithGroup(g GroupTag) RegisterOption {
	return func(reg *registration) { reg.group = g }
}

// WithComponentMetadata attaches metadata to this component, overriding
// the type's shared metadata on matching keys.
func WithComponentMetadata(md map[string]any) RegisterOption {
	return func(reg *registration) { reg.metadata = md }
}

// WithComponentExecutor overrides the type's default executor for this
// component alone.
func WithComponentExecutor(e Executor) RegisterOption {
	return func(reg *registration) { reg.executor = e }
}

// New registers fn as a component of rg's type, folding in the type's
// auto-requirements and auto-optional dependencies ahead of fn's own,
// and returns the handle other components use to depend on it.
//
// Calling New again with the same underlying callable returns the same
// handle and reseats its delegate, rather than registering a second
// component.
func (rg *Registrar) New(fn any, opts ...RegisterOption) Component {
	reg := &registration{group: rg.group, executor: rg.executor}
	for _, opt := range opts {
		opt(reg)
	}

	requires := make(RequirementSpec, 0, len(rg.autoRequires)+len(reg.requires))
	requires = append(requires, rg.autoRequires...)
	requires = append(requires, reg.requires...)

	optional := make([]Component, 0, len(rg.autoOptional)+len(reg.optional))
	optional = append(optional, rg.autoOptional...)
	optional = append(optional, reg.optional...)

	metadata := mergeMetadata(rg.typeMetadata, reg.metadata)

	return rg.reg.register(fn, requires, optional, reg.group, rg.typeTag, metadata, reg.executor)
}

func mergeMetadata(base, overlay map[string]any) map[string]any {
	if len(base) == 0 && len(overlay) == 0 {
		return nil
	}
	out := make(map[string]any, len(base)+len(overlay))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overlay {
		out[k] = v
	}
	return out
}
