package compflow

import "reflect"

// Executor is the strategy that validates a delegate's requirements
// against a broker and, if satisfied, invokes the underlying callable.
// Component types may supply a custom Executor to new component types;
// DefaultExecutor and BrokerExecutor are the two standard strategies.
type Executor func(reg *Registry, d *Delegate, broker *Broker) (any, error)

// groupArgs marks a positional argument built from an any-of group: the
// callable's parameter at that position must be a slice, and invoke
// fills it with the broker's lookup of each group member in declared
// order, leaving nil (the slice element's zero value) where a member is
// absent.
type groupArgs []any

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// DefaultExecutor walks the requirement spec to build a positional
// argument list — a singleton becomes one argument, an any-of group
// becomes one slice argument — appends the optional dependencies in
// order, and calls the component with those arguments.
func DefaultExecutor(reg *Registry, d *Delegate, broker *Broker) (any, error) {
	if err := checkRequirements(reg, d, broker); err != nil {
		return nil, err
	}
	return invoke(d.Func, buildPositionalArgs(d, broker))
}

// BrokerExecutor checks requirements the same way DefaultExecutor does,
// then invokes the component with the broker itself as its sole
// argument, for components that want direct broker access.
func BrokerExecutor(reg *Registry, d *Delegate, broker *Broker) (any, error) {
	if err := checkRequirements(reg, d, broker); err != nil {
		return nil, err
	}
	return invoke(d.Func, []any{broker})
}

func checkRequirements(reg *Registry, d *Delegate, broker *Broker) error {
	if reg.ignoreTriggered(d.Component, broker) {
		return SkipComponent
	}
	if mr := missing(d.Requires, broker.has); mr != nil {
		return mr
	}
	return nil
}

func buildPositionalArgs(d *Delegate, broker *Broker) []any {
	args := make([]any, 0, len(d.Requires)+len(d.Optional))
	for _, r := range d.Requires {
		if r.isGroup {
			vals := make(groupArgs, len(r.group))
			for i, c := range r.group {
				vals[i] = broker.Get(c)
			}
			args = append(args, vals)
		} else {
			args = append(args, broker.Get(r.single))
		}
	}
	for _, o := range d.Optional {
		args = append(args, broker.Get(o))
	}
	return args
}

// invoke calls fn via reflection, converting each argument to the
// callable's declared parameter type and substituting the zero value
// for nil (an absent optional or group member). It returns the
// callable's first non-error return value and, if the last return value
// is an error, that error.
func invoke(fn any, args []any) (any, error) {
	fv := reflect.ValueOf(fn)
	ft := fv.Type()

	in := make([]reflect.Value, len(args))
	for i, a := range args {
		paramType := ft.In(i)
		if g, ok := a.(groupArgs); ok {
			slice := reflect.MakeSlice(paramType, len(g), len(g))
			elemType := paramType.Elem()
			for j, v := range g {
				slice.Index(j).Set(valueFor(v, elemType))
			}
			in[i] = slice
			continue
		}
		in[i] = valueFor(a, paramType)
	}

	return splitReturn(fv.Call(in))
}

func valueFor(v any, t reflect.Type) reflect.Value {
	if v == nil {
		return reflect.Zero(t)
	}
	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(t) {
		return rv
	}
	if rv.Type().ConvertibleTo(t) {
		return rv.Convert(t)
	}
	return rv
}

func splitReturn(out []reflect.Value) (any, error) {
	if len(out) == 0 {
		return nil, nil
	}
	last := out[len(out)-1]
	if last.Type().Implements(errorType) {
		var err error
		if !last.IsNil() {
			err = last.Interface().(error)
		}
		if len(out) == 1 {
			return nil, err
		}
		return out[0].Interface(), err
	}
	return out[0].Interface(), nil
}
