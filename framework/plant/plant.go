package plant

import (
	"errors"
	"fmt"
	"reflect"
	"sort"

	"github.com/hashicorp/go-hclog"
)

// ── Strategy ──────────────────────────────────────────────────────────────────

// Strategy is how a registered type is instantiated.
type Strategy int

const (
	// PropertyInjection allocates the zero value and sets attributes by name.
	PropertyInjection Strategy = iota + 1
	// ConstructorInjection calls a declared constructor with positional arguments.
	ConstructorInjection
)

func (s Strategy) String() string {
	switch s {
	case PropertyInjection:
		return "property"
	case ConstructorInjection:
		return "constructor"
	default:
		return "unknown"
	}
}

// ── Plant ─────────────────────────────────────────────────────────────────────

// buildKey is the construction key: a type plus an optional variation.
type buildKey struct {
	typ       reflect.Type
	variation string
}

type construction struct {
	ctor     *boundCtor
	defaults Blueprint
}

// Plant registers blueprints and builds fixtures from them.
//
// A Plant is not safe for concurrent use; keep one per test.
type Plant struct {
	logger       hclog.Logger
	copyLiterals bool

	// type → strategy, set exactly once
	strategies map[reflect.Type]Strategy

	// type → defaults, one map per strategy
	properties    map[reflect.Type]Blueprint
	constructions map[reflect.Type]*construction

	// (type, variation) → overrides applied after construction
	variations map[buildKey]Blueprint

	// (type, "") → type-level callback; (type, name) → variation callback
	afterBuild map[buildKey]func(any)

	// type → next sequence value
	sequences map[reflect.Type]int

	// (type, variation) → first successful build
	created map[buildKey]any

	onCreated []func(CreatedEvent)

	infos map[reflect.Type]*typeInfo

	// types currently under construction, outermost first
	buildStack []reflect.Type
}

// Option configures a Plant.
type Option func(*Plant)

// WithLogger sets the logger used for registration and build tracing.
func WithLogger(l hclog.Logger) Option {
	return func(p *Plant) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithCopyLiterals deep-copies slice, map, array and struct literals every
// time they are assigned so built instances never share them.
func WithCopyLiterals(enabled bool) Option {
	return func(p *Plant) { p.copyLiterals = enabled }
}

// New creates an empty Plant.
func New(opts ...Option) *Plant {
	p := &Plant{
		logger:        hclog.NewNullLogger(),
		strategies:    make(map[reflect.Type]Strategy),
		properties:    make(map[reflect.Type]Blueprint),
		constructions: make(map[reflect.Type]*construction),
		variations:    make(map[buildKey]Blueprint),
		afterBuild:    make(map[buildKey]func(any)),
		sequences:     make(map[reflect.Type]int),
		created:       make(map[buildKey]any),
		infos:         make(map[reflect.Type]*typeInfo),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ── Registration ──────────────────────────────────────────────────────────────

// DefinePropertiesOf registers defaults for T, built by setting attributes
// on a zero T. after, if given, runs on every built instance.
//
//	plant.DefinePropertiesOf[Person](p, plant.Attrs{"FirstName": "Leo"})
//	plant.DefinePropertiesOf(p, Person{FirstName: "Leo"}, func(p *Person) { p.FullName = p.FirstName })
func DefinePropertiesOf[T any](p *Plant, defaults any, after ...func(*T)) error {
	return p.defineProperties(reflect.TypeFor[T](), defaults, callbacks(after))
}

// DefineConstructionOf registers defaults for T, built by calling ctor with
// the merged attributes matched to its parameter names.
//
//	plant.DefineConstructionOf[Book](p, plant.Ctor(NewBook, "author", "publisher"),
//	    plant.Attrs{"Publisher": "Tor", "Author": "Robert Jordan"})
func DefineConstructionOf[T any](p *Plant, ctor Constructor, defaults any, after ...func(*T)) error {
	return p.defineConstruction(reflect.TypeFor[T](), ctor, defaults, callbacks(after))
}

// DefineVariationOf registers a named set of overrides for T, applied after
// construction and relationship auto-fill. It does not need T to be
// defined first.
//
//	plant.DefineVariationOf[Person](p, "admin", plant.Attrs{"Role": "admin"})
func DefineVariationOf[T any](p *Plant, name string, values any, after ...func(*T)) error {
	return p.defineVariation(reflect.TypeFor[T](), name, values, callbacks(after))
}

func callbacks[T any](after []func(*T)) []func(any) {
	var out []func(any)
	for _, fn := range after {
		if fn == nil {
			continue
		}
		out = append(out, func(v any) { fn(v.(*T)) })
	}
	return out
}

func (p *Plant) defineProperties(t reflect.Type, defaults any, after []func(any)) error {
	bp, err := p.prepare(t, defaults, after)
	if err != nil {
		return err
	}
	p.strategies[t] = PropertyInjection
	p.properties[t] = bp
	p.sequences[t] = 0
	p.setCallback(buildKey{typ: t}, after)
	p.logger.Debug("defined properties", "type", t, "attributes", len(bp))
	return nil
}

func (p *Plant) defineConstruction(t reflect.Type, ctor Constructor, defaults any, after []func(any)) error {
	bp, err := p.prepare(t, defaults, after)
	if err != nil {
		return err
	}
	bound, err := ctor.bind(t)
	if err != nil {
		return err
	}
	p.strategies[t] = ConstructorInjection
	p.constructions[t] = &construction{ctor: bound, defaults: bp}
	p.sequences[t] = 0
	p.setCallback(buildKey{typ: t}, after)
	p.logger.Debug("defined construction", "type", t, "attributes", len(bp), "params", len(bound.params))
	return nil
}

// prepare validates a type registration without changing any state.
func (p *Plant) prepare(t reflect.Type, defaults any, after []func(any)) (Blueprint, error) {
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("plant: cannot define %s: only struct types are supported", t)
	}
	if _, dup := p.strategies[t]; dup {
		return nil, DuplicateRegistrationError{Type: t, What: "strategy"}
	}
	if err := p.checkCallback(buildKey{typ: t}, after); err != nil {
		return nil, err
	}
	return p.typeInfo(t).toBlueprint(defaults)
}

func (p *Plant) defineVariation(t reflect.Type, name string, values any, after []func(any)) error {
	if t.Kind() != reflect.Struct {
		return fmt.Errorf("plant: cannot define variation of %s: only struct types are supported", t)
	}
	if name == "" {
		return errors.New("plant: variation name must not be empty")
	}
	key := buildKey{typ: t, variation: name}
	if _, dup := p.variations[key]; dup {
		return DuplicateRegistrationError{Type: t, Variation: name, What: "variation"}
	}
	if err := p.checkCallback(key, after); err != nil {
		return err
	}
	bp, err := p.typeInfo(t).toBlueprint(values)
	if err != nil {
		return err
	}
	p.variations[key] = bp
	p.setCallback(key, after)
	p.logger.Debug("defined variation", "type", t, "variation", name, "attributes", len(bp))
	return nil
}

func (p *Plant) checkCallback(key buildKey, after []func(any)) error {
	_, exists := p.afterBuild[key]
	if len(after) > 1 || (len(after) == 1 && exists) {
		return DuplicateRegistrationError{Type: key.typ, Variation: key.variation, What: "callback"}
	}
	return nil
}

func (p *Plant) setCallback(key buildKey, after []func(any)) {
	if len(after) == 1 {
		p.afterBuild[key] = after[0]
	}
}

// StrategyFor returns the strategy registered for t.
func (p *Plant) StrategyFor(t reflect.Type) (Strategy, error) {
	s, ok := p.strategies[t]
	if !ok {
		return 0, TypeNotConfiguredError{Type: t}
	}
	return s, nil
}

// Registered returns every type with a strategy, sorted by name.
func (p *Plant) Registered() []reflect.Type {
	out := make([]reflect.Type, 0, len(p.strategies))
	for t := range p.strategies {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// Sequence returns the current sequence counter of t, the value the next
// population pass hands to Sequence values. Like Registered it is meant for
// diagnostics.
func (p *Plant) Sequence(t reflect.Type) int { return p.sequences[t] }

func (p *Plant) typeInfo(t reflect.Type) *typeInfo {
	if info, ok := p.infos[t]; ok {
		return info
	}
	info := newTypeInfo(t)
	p.infos[t] = info
	return info
}

// ── Cache ─────────────────────────────────────────────────────────────────────

// Forget drops the cached instance of T for variation ("" for none), so
// the next build constructs a fresh one. Sequence counters keep counting.
func Forget[T any](p *Plant, variation string) {
	delete(p.created, buildKey{typ: reflect.TypeFor[T](), variation: variation})
}

// Flush drops every cached instance. Registrations and sequence counters
// are kept.
func (p *Plant) Flush() {
	p.created = make(map[buildKey]any)
}
