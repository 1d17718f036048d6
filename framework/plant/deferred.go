package plant

import "reflect"

// Deferred is a value computed when its attribute is assigned rather than
// when the blueprint is registered. Lazy and Sequence are the two variants.
type Deferred interface {
	// ReturnType is the declared type of the produced value. It must equal
	// the type of the attribute the value is assigned to.
	ReturnType() reflect.Type

	produce(counter int) any
}

// LazyValue wraps a zero-argument producer.
type LazyValue[V any] struct{ fn func() V }

// Lazy defers fn until assignment. fn observes whatever state it captures
// at construction time, not at registration time.
//
//	plant.Attrs{"MiddleName": plant.Lazy(func() string { return current })}
func Lazy[V any](fn func() V) LazyValue[V] { return LazyValue[V]{fn: fn} }

func (l LazyValue[V]) ReturnType() reflect.Type { return reflect.TypeFor[V]() }

func (l LazyValue[V]) produce(int) any { return l.fn() }

// SequenceValue wraps a producer fed with the type's sequence counter.
type SequenceValue[V any] struct{ fn func(int) V }

// Sequence defers fn until assignment and passes it the current value of
// the owning type's counter.
//
//	plant.Attrs{"FirstName": plant.Sequence(func(i int) string { return "FirstName" + strconv.Itoa(i) })}
func Sequence[V any](fn func(int) V) SequenceValue[V] { return SequenceValue[V]{fn: fn} }

func (s SequenceValue[V]) ReturnType() reflect.Type { return reflect.TypeFor[V]() }

func (s SequenceValue[V]) produce(counter int) any { return s.fn(counter) }

// resolveDeferred checks d against the target attribute and produces its
// value. Lazy values ignore counter.
func resolveDeferred(d Deferred, name string, target reflect.Type, counter int) (reflect.Value, error) {
	if d.ReturnType() != target {
		return reflect.Value{}, LazyTypeMismatchError{Name: name, Declared: d.ReturnType(), Target: target}
	}
	out := reflect.New(target).Elem()
	if v := d.produce(counter); v != nil {
		out.Set(reflect.ValueOf(v))
	}
	return out, nil
}
