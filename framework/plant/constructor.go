package plant

import (
	"reflect"
	"strconv"
	"strings"
)

var errorType = reflect.TypeFor[error]()

// Constructor describes the parameterized initializer of a type registered
// for constructor injection. Go keeps no parameter names at runtime, so
// they are declared next to the function.
//
//	plant.Ctor(NewBook, "author", "publisher")
type Constructor struct {
	fn     any
	params []string
}

// Ctor declares fn as a constructor whose parameters are named params, in
// order. fn must return T or *T, optionally followed by an error.
func Ctor(fn any, params ...string) Constructor {
	return Constructor{fn: fn, params: params}
}

// boundCtor is a Constructor validated against its registered type.
type boundCtor struct {
	fn     reflect.Value
	in     []reflect.Type
	params []string // lower-cased
	ptr    bool
	hasErr bool
}

func (c Constructor) bind(t reflect.Type) (*boundCtor, error) {
	invalid := func(reason string) error { return InvalidConstructorError{Type: t, Reason: reason} }

	if c.fn == nil {
		return nil, invalid("nil function")
	}
	fv := reflect.ValueOf(c.fn)
	ft := fv.Type()
	if ft.Kind() != reflect.Func {
		return nil, invalid("not a function: " + ft.String())
	}
	if ft.IsVariadic() {
		return nil, invalid("variadic functions are not supported")
	}
	if ft.NumIn() != len(c.params) {
		return nil, invalid("function takes " + strconv.Itoa(ft.NumIn()) +
			" parameters but " + strconv.Itoa(len(c.params)) + " names were declared")
	}

	b := &boundCtor{fn: fv, params: make([]string, len(c.params))}
	seen := make(map[string]bool, len(c.params))
	for i, p := range c.params {
		lp := strings.ToLower(p)
		if lp == "" || seen[lp] {
			return nil, invalid("parameter name " + strconv.Quote(p) + " is empty or repeated")
		}
		seen[lp] = true
		b.params[i] = lp
		b.in = append(b.in, ft.In(i))
	}

	switch ft.NumOut() {
	case 2:
		if ft.Out(1) != errorType {
			return nil, invalid("second result must be error")
		}
		b.hasErr = true
		fallthrough
	case 1:
		switch ft.Out(0) {
		case t:
		case reflect.PointerTo(t):
			b.ptr = true
		default:
			return nil, invalid("returns " + ft.Out(0).String())
		}
	default:
		return nil, invalid("must return " + t.String() + " or *" + t.String())
	}
	return b, nil
}

// position returns the index of the parameter matching name, ignoring case.
func (b *boundCtor) position(name string) int {
	lname := strings.ToLower(name)
	for i, p := range b.params {
		if p == lname {
			return i
		}
	}
	return -1
}

// call invokes the constructor and returns a pointer to the built value.
func (b *boundCtor) call(t reflect.Type, args []reflect.Value) (reflect.Value, error) {
	out := b.fn.Call(args)
	if b.hasErr && !out[1].IsNil() {
		return reflect.Value{}, ConstructorError{Type: t, Err: out[1].Interface().(error)}
	}
	if b.ptr {
		if out[0].IsNil() {
			return reflect.Value{}, ConstructorError{Type: t, Err: errNilInstance}
		}
		return out[0], nil
	}
	ptr := reflect.New(t)
	ptr.Elem().Set(out[0])
	return ptr, nil
}
