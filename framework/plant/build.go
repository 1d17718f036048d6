package plant

import (
	"fmt"
	"math"
	"reflect"
	"slices"

	"github.com/mitchellh/copystructure"
)

// BuildOption adjusts a single Create or Build call.
type BuildOption func(*buildRequest)

type buildRequest struct {
	overrides any
	variation string
}

// With supplies override values, in any form DefinePropertiesOf accepts.
// Overrides are not part of the construction key: once (T, variation) is
// cached, later overrides for it are ignored.
func With(overrides any) BuildOption {
	return func(r *buildRequest) { r.overrides = overrides }
}

// Variation selects a registered variation.
func Variation(name string) BuildOption {
	return func(r *buildRequest) { r.variation = name }
}

// Create builds (or returns the cached) T and notifies OnCreated subscribers.
//
//	person, err := plant.Create[Person](p, plant.Variation("admin"))
func Create[T any](p *Plant, opts ...BuildOption) (*T, error) {
	return build[T](p, true, opts)
}

// Build is Create without the creation notification.
func Build[T any](p *Plant, opts ...BuildOption) (*T, error) {
	return build[T](p, false, opts)
}

// MustCreate is like Create but panics on error.
func MustCreate[T any](p *Plant, opts ...BuildOption) *T {
	v, err := Create[T](p, opts...)
	if err != nil {
		panic(err)
	}
	return v
}

// MustBuild is like Build but panics on error.
func MustBuild[T any](p *Plant, opts ...BuildOption) *T {
	v, err := Build[T](p, opts...)
	if err != nil {
		panic(err)
	}
	return v
}

func build[T any](p *Plant, notify bool, opts []BuildOption) (*T, error) {
	inst, err := p.CreateType(reflect.TypeFor[T](), notify, opts...)
	if err != nil {
		return nil, err
	}
	return inst.(*T), nil
}

// CreateType is the untyped form of Create and Build. The result is a
// pointer to a value of type t.
func (p *Plant) CreateType(t reflect.Type, notify bool, opts ...BuildOption) (any, error) {
	var req buildRequest
	for _, opt := range opts {
		opt(&req)
	}
	return p.create(t, req.overrides, req.variation, notify)
}

func (p *Plant) createForChild(t reflect.Type) (any, error) {
	return p.create(t, nil, "", false)
}

func (p *Plant) create(t reflect.Type, overrides any, variation string, notify bool) (any, error) {
	key := buildKey{typ: t, variation: variation}
	if inst, ok := p.created[key]; ok {
		p.logger.Trace("using cached instance", "type", t, "variation", variation)
		return inst, nil
	}

	strategy, err := p.StrategyFor(t)
	if err != nil {
		return nil, err
	}
	if slices.Contains(p.buildStack, t) {
		return nil, CyclicRelationshipError{Path: append(slices.Clone(p.buildStack), t)}
	}

	var varied Blueprint
	if variation != "" {
		var ok bool
		if varied, ok = p.variations[key]; !ok {
			return nil, VariationNotFoundError{Type: t, Variation: variation}
		}
	}

	info := p.typeInfo(t)
	userProps, err := info.toBlueprint(overrides)
	if err != nil {
		return nil, err
	}

	p.buildStack = append(p.buildStack, t)
	defer func() { p.buildStack = p.buildStack[:len(p.buildStack)-1] }()

	p.logger.Trace("building", "type", t, "strategy", strategy, "variation", variation)

	var instance reflect.Value
	if strategy == ConstructorInjection {
		instance, err = p.createViaConstructor(t, info, userProps)
	} else {
		instance, err = p.createViaProperties(t, info, userProps)
	}
	if err != nil {
		return nil, err
	}

	if err := p.fillRelations(instance.Elem(), info); err != nil {
		return nil, err
	}

	if varied != nil {
		if err := p.setProperties(instance.Elem(), info, varied); err != nil {
			return nil, err
		}
	}

	inst := instance.Interface()
	if cb, ok := p.afterBuild[buildKey{typ: t}]; ok {
		cb(inst)
	}
	if variation != "" {
		if cb, ok := p.afterBuild[key]; ok {
			cb(inst)
		}
	}

	if notify {
		p.fireCreated(CreatedEvent{Type: t, Variation: variation, Instance: inst})
	}

	p.created[key] = inst
	return inst, nil
}

func (p *Plant) createViaProperties(t reflect.Type, info *typeInfo, userProps Blueprint) (reflect.Value, error) {
	instance := reflect.New(t)
	if err := p.setProperties(instance.Elem(), info, merge(p.properties[t], userProps)); err != nil {
		return reflect.Value{}, err
	}
	return instance, nil
}

func (p *Plant) createViaConstructor(t reflect.Type, info *typeInfo, userProps Blueprint) (reflect.Value, error) {
	c := p.constructions[t]
	props := merge(c.defaults, userProps)
	counter := p.sequences[t]

	args := make([]reflect.Value, len(c.ctor.in))
	for _, attr := range info.ordered(props) {
		pos := c.ctor.position(attr.Name)
		if pos < 0 {
			return reflect.Value{}, PropertyNotFoundError{
				Type:       t,
				Name:       attr.Name,
				Value:      props[attr],
				Suggestion: closest(attr.Name, c.ctor.params),
			}
		}
		v, err := p.resolve(attr.Name, c.ctor.in[pos], props[attr], counter)
		if err != nil {
			return reflect.Value{}, err
		}
		args[pos] = v
	}
	for i, a := range args {
		if !a.IsValid() {
			args[i] = reflect.Zero(c.ctor.in[i])
		}
	}
	p.sequences[t]++

	return c.ctor.call(t, args)
}

// setProperties assigns every attribute of bp on target, then advances the
// type's sequence counter once.
func (p *Plant) setProperties(target reflect.Value, info *typeInfo, bp Blueprint) error {
	t := target.Type()
	counter := p.sequences[t]
	for _, attr := range info.ordered(bp) {
		f, ok := info.field(attr.Name)
		if !ok {
			return PropertyNotFoundError{Type: t, Name: attr.Name, Value: bp[attr], Suggestion: info.suggest(attr.Name)}
		}
		v, err := p.resolve(attr.Name, f.Type, bp[attr], counter)
		if err != nil {
			return err
		}
		target.FieldByIndex(f.Index).Set(v)
	}
	p.sequences[t]++
	return nil
}

// resolve turns a blueprint value into something assignable to target.
func (p *Plant) resolve(name string, target reflect.Type, value any, counter int) (reflect.Value, error) {
	switch v := value.(type) {
	case nil:
		return reflect.Zero(target), nil
	case Deferred:
		return resolveDeferred(v, name, target, counter)
	}

	rv := reflect.ValueOf(value)
	if p.copyLiterals {
		switch rv.Kind() {
		case reflect.Slice, reflect.Map, reflect.Array, reflect.Struct:
			cp, err := copystructure.Copy(value)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("plant: copy value of %q: %w", name, err)
			}
			rv = reflect.ValueOf(cp)
		}
	}

	if rv.Type().AssignableTo(target) {
		return rv, nil
	}
	if isNumeric(rv.Kind()) && isNumeric(target.Kind()) && fitsNumber(rv, target) {
		return rv.Convert(target), nil
	}
	return reflect.Value{}, ValueTypeMismatchError{Name: name, Value: rv.Type(), Target: target}
}

// fitsNumber reports whether the number in rv converts to target without
// wrapping, changing sign or dropping a fraction.
func fitsNumber(rv reflect.Value, target reflect.Type) bool {
	zero := reflect.Zero(target)
	switch {
	case rv.CanInt():
		n := rv.Int()
		switch {
		case zero.CanInt():
			return !zero.OverflowInt(n)
		case zero.CanUint():
			return n >= 0 && !zero.OverflowUint(uint64(n))
		}
	case rv.CanUint():
		n := rv.Uint()
		switch {
		case zero.CanInt():
			return n <= math.MaxInt64 && !zero.OverflowInt(int64(n))
		case zero.CanUint():
			return !zero.OverflowUint(n)
		}
	case rv.CanFloat():
		f := rv.Float()
		if zero.CanFloat() {
			return !zero.OverflowFloat(f)
		}
		if f != math.Trunc(f) {
			return false
		}
		switch {
		case zero.CanInt():
			return f >= math.MinInt64 && f < math.MaxInt64 && !zero.OverflowInt(int64(f))
		case zero.CanUint():
			return f >= 0 && f < math.MaxUint64 && !zero.OverflowUint(uint64(f))
		}
	}
	return true
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// fillRelations builds every nil pointer field whose element type is
// registered. Fields that already hold a value are left alone.
func (p *Plant) fillRelations(target reflect.Value, info *typeInfo) error {
	for _, f := range info.fields {
		if f.Type.Kind() != reflect.Pointer || f.Type.Elem().Kind() != reflect.Struct {
			continue
		}
		if _, ok := p.strategies[f.Type.Elem()]; !ok {
			continue
		}
		fv := target.FieldByIndex(f.Index)
		if !fv.IsNil() {
			continue
		}
		p.logger.Trace("auto-filling relation", "type", info.typ, "field", f.Name, "relation", f.Type.Elem())
		child, err := p.createForChild(f.Type.Elem())
		if err != nil {
			return err
		}
		fv.Set(reflect.ValueOf(child))
	}
	return nil
}
