package plant

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
)

var (
	// ErrTypeNotConfigured is matched by TypeNotConfiguredError.
	ErrTypeNotConfigured = errors.New("plant: type not configured")

	// ErrDuplicateRegistration is matched by DuplicateRegistrationError.
	ErrDuplicateRegistration = errors.New("plant: duplicate registration")

	// ErrPropertyNotFound is matched by PropertyNotFoundError.
	ErrPropertyNotFound = errors.New("plant: property not found")

	// ErrLazyTypeMismatch is matched by LazyTypeMismatchError.
	ErrLazyTypeMismatch = errors.New("plant: deferred value has wrong type")

	// ErrValueTypeMismatch is matched by ValueTypeMismatchError.
	ErrValueTypeMismatch = errors.New("plant: value has wrong type")

	// ErrCyclicRelationship is matched by CyclicRelationshipError.
	ErrCyclicRelationship = errors.New("plant: cyclic relationship")

	// ErrInvalidConstructor is matched by InvalidConstructorError.
	ErrInvalidConstructor = errors.New("plant: invalid constructor")

	// ErrVariationNotFound is matched by VariationNotFoundError.
	ErrVariationNotFound = errors.New("plant: variation not found")

	// ErrConstructor is matched by ConstructorError.
	ErrConstructor = errors.New("plant: constructor failed")

	errNilInstance = errors.New("returned nil")
)

// TypeNotConfiguredError is returned when a build is requested for a type
// that has no registered strategy.
type TypeNotConfiguredError struct{ Type reflect.Type }

func (e TypeNotConfiguredError) Error() string {
	// Example: plant: no creation strategy defined for type fixtures.Person
	return "plant: no creation strategy defined for type " + typeName(e.Type)
}

func (e TypeNotConfiguredError) Is(target error) bool { return target == ErrTypeNotConfigured }

// DuplicateRegistrationError is returned when a type, a (type, variation)
// pair or a post-build callback is registered twice.
type DuplicateRegistrationError struct {
	Type      reflect.Type
	Variation string
	// What is "strategy", "variation" or "callback".
	What string
}

func (e DuplicateRegistrationError) Error() string {
	// Example: plant: duplicate strategy for fixtures.Person
	msg := "plant: duplicate " + e.What + " for " + typeName(e.Type)
	if e.Variation != "" {
		msg += " variation " + strconv.Quote(e.Variation)
	}
	return msg
}

func (e DuplicateRegistrationError) Is(target error) bool { return target == ErrDuplicateRegistration }

// PropertyNotFoundError is returned when blueprint, override or variation
// data names an attribute the target type (or its constructor) lacks.
type PropertyNotFoundError struct {
	Type  reflect.Type
	Name  string
	Value any
	// Suggestion is the closest known attribute name, if any is close enough.
	Suggestion string
}

func (e PropertyNotFoundError) Error() string {
	// Example: plant: property "Frist" not found on fixtures.Person (did you mean "First"?)
	msg := "plant: property " + strconv.Quote(e.Name) + " not found on " + typeName(e.Type)
	if e.Suggestion != "" {
		msg += " (did you mean " + strconv.Quote(e.Suggestion) + "?)"
	}
	return msg
}

func (e PropertyNotFoundError) Is(target error) bool { return target == ErrPropertyNotFound }

// LazyTypeMismatchError is returned when a deferred value's declared return
// type differs from the type of the attribute it is assigned to.
type LazyTypeMismatchError struct {
	Name     string
	Declared reflect.Type
	Target   reflect.Type
}

func (e LazyTypeMismatchError) Error() string {
	return "plant: cannot assign type " + typeName(e.Declared) + " to property " +
		strconv.Quote(e.Name) + " of type " + typeName(e.Target)
}

func (e LazyTypeMismatchError) Is(target error) bool { return target == ErrLazyTypeMismatch }

// ValueTypeMismatchError is returned when a literal cannot be assigned to
// the attribute it names.
type ValueTypeMismatchError struct {
	Name   string
	Value  reflect.Type
	Target reflect.Type
}

func (e ValueTypeMismatchError) Error() string {
	return "plant: cannot assign value of type " + typeName(e.Value) + " to property " +
		strconv.Quote(e.Name) + " of type " + typeName(e.Target)
}

func (e ValueTypeMismatchError) Is(target error) bool { return target == ErrValueTypeMismatch }

// CyclicRelationshipError is returned when auto-fill would build a type that
// is already under construction.
type CyclicRelationshipError struct{ Path []reflect.Type }

func (e CyclicRelationshipError) Error() string {
	names := make([]string, 0, len(e.Path))
	for _, t := range e.Path {
		names = append(names, typeName(t))
	}
	// Example: plant: cyclic relationship fixtures.A -> fixtures.B -> fixtures.A
	return "plant: cyclic relationship " + strings.Join(names, " -> ")
}

func (e CyclicRelationshipError) Is(target error) bool { return target == ErrCyclicRelationship }

// InvalidConstructorError is returned by Ctor and DefineConstructionOf when
// the constructor cannot build the registered type.
type InvalidConstructorError struct {
	Type   reflect.Type
	Reason string
}

func (e InvalidConstructorError) Error() string {
	return "plant: invalid constructor for " + typeName(e.Type) + ": " + e.Reason
}

func (e InvalidConstructorError) Is(target error) bool { return target == ErrInvalidConstructor }

// VariationNotFoundError is returned when a build names a variation that was
// never registered for the type.
type VariationNotFoundError struct {
	Type      reflect.Type
	Variation string
}

func (e VariationNotFoundError) Error() string {
	return "plant: variation " + strconv.Quote(e.Variation) + " not defined for " + typeName(e.Type)
}

func (e VariationNotFoundError) Is(target error) bool { return target == ErrVariationNotFound }

// ConstructorError wraps an error returned by a registered constructor.
type ConstructorError struct {
	Type reflect.Type
	Err  error
}

func (e ConstructorError) Error() string {
	return "plant: constructor for " + typeName(e.Type) + " failed: " + e.Err.Error()
}

func (e ConstructorError) Is(target error) bool { return target == ErrConstructor }

func (e ConstructorError) Unwrap() error { return e.Err }

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
