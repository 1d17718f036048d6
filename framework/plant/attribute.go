package plant

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/agext/levenshtein"
)

// Attribute identifies a settable attribute of a type. Two attributes are
// the same key when both Name and Type match.
type Attribute struct {
	Name string
	Type reflect.Type
}

func (a Attribute) String() string { return a.Name + " " + typeName(a.Type) }

// Attrs is the map form of defaults, overrides and variations.
//
// Every key is taken as given, so a nil value is an explicit null and
// resets the attribute to its zero value.
//
//	plant.Attrs{"FirstName": "Leo", "LastName": nil}
type Attrs map[string]any

// Blueprint maps attributes to literal values or Deferred values.
type Blueprint map[Attribute]any

// merge returns a new Blueprint holding every key of defaults and overrides,
// with overrides winning. Neither input is modified.
func merge(defaults, overrides Blueprint) Blueprint {
	out := make(Blueprint, len(defaults)+len(overrides))
	for k, v := range defaults {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// ── Type metadata ─────────────────────────────────────────────────────────────

type fieldInfo struct {
	Name  string
	Type  reflect.Type
	Index []int
}

// typeInfo is the attribute table of one struct type, built once.
type typeInfo struct {
	typ    reflect.Type
	fields []fieldInfo
	byName map[string]int
}

func newTypeInfo(t reflect.Type) *typeInfo {
	info := &typeInfo{typ: t, byName: make(map[string]int)}
	for _, sf := range reflect.VisibleFields(t) {
		if !sf.IsExported() || crossesPointer(t, sf.Index) {
			continue
		}
		if _, shadowed := info.byName[sf.Name]; shadowed {
			continue
		}
		info.byName[sf.Name] = len(info.fields)
		info.fields = append(info.fields, fieldInfo{
			Name:  sf.Name,
			Type:  sf.Type,
			Index: sf.Index,
		})
	}
	return info
}

// crossesPointer reports whether reaching the field at index walks through
// an embedded pointer, which may be nil on a fresh instance.
func crossesPointer(t reflect.Type, index []int) bool {
	for _, i := range index[:len(index)-1] {
		f := t.Field(i)
		if f.Type.Kind() == reflect.Pointer {
			return true
		}
		t = f.Type
	}
	return false
}

func (ti *typeInfo) field(name string) (fieldInfo, bool) {
	i, ok := ti.byName[name]
	if !ok {
		return fieldInfo{}, false
	}
	return ti.fields[i], true
}

// suggest returns the known attribute name closest to name, or "".
func (ti *typeInfo) suggest(name string) string {
	names := make([]string, 0, len(ti.fields))
	for _, f := range ti.fields {
		names = append(names, f.Name)
	}
	return closest(name, names)
}

// closest returns the candidate nearest to name by edit distance, or "" if
// none is close enough to be a likely typo.
func closest(name string, candidates []string) string {
	best, bestDist := "", -1
	for _, c := range candidates {
		if strings.EqualFold(c, name) {
			return c
		}
		d := levenshtein.Distance(name, c, nil)
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	if bestDist < 0 || bestDist > max(2, len(name)/3) {
		return ""
	}
	return best
}

// ordered returns the keys of bp in field declaration order; names the type
// does not know come last, sorted by name.
func (ti *typeInfo) ordered(bp Blueprint) []Attribute {
	keys := make([]Attribute, 0, len(bp))
	for k := range bp {
		keys = append(keys, k)
	}
	rank := func(a Attribute) int {
		if i, ok := ti.byName[a.Name]; ok {
			return i
		}
		return len(ti.fields)
	}
	sort.SliceStable(keys, func(i, j int) bool {
		ri, rj := rank(keys[i]), rank(keys[j])
		if ri != rj {
			return ri < rj
		}
		if keys[i].Name != keys[j].Name {
			return keys[i].Name < keys[j].Name
		}
		return typeName(keys[i].Type) < typeName(keys[j].Type)
	})
	return keys
}

// ── Input conversion ──────────────────────────────────────────────────────────

// toBlueprint converts a defaults/overrides/variation source into a
// Blueprint keyed against the target type's attribute table.
//
// Accepted sources: nil, Attrs or map[string]any, a struct or pointer to
// struct. A struct of the target type contributes its non-zero exported
// fields; any other struct contributes all of its exported fields.
func (ti *typeInfo) toBlueprint(src any) (Blueprint, error) {
	bp := Blueprint{}
	if src == nil {
		return bp, nil
	}
	switch m := src.(type) {
	case Attrs:
		for name, v := range m {
			bp[ti.attribute(name, v, nil)] = v
		}
		return bp, nil
	case map[string]any:
		return ti.toBlueprint(Attrs(m))
	case Deferred:
		return nil, fmt.Errorf("plant: deferred value %v is not an attribute source", m.ReturnType())
	}

	rv := reflect.ValueOf(src)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return bp, nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("plant: unsupported attribute source %T", src)
	}

	sameType := rv.Type() == ti.typ
	for _, sf := range reflect.VisibleFields(rv.Type()) {
		if !sf.IsExported() || sf.Anonymous || crossesPointer(rv.Type(), sf.Index) {
			continue
		}
		fv := rv.FieldByIndex(sf.Index)
		if sameType && fv.IsZero() {
			continue
		}
		v := fv.Interface()
		bp[ti.attribute(sf.Name, v, sf.Type)] = v
	}
	return bp, nil
}

// attribute builds the key for name. Known names take the field's declared
// type so literals and deferred values for one field share a key.
func (ti *typeInfo) attribute(name string, v any, declared reflect.Type) Attribute {
	if f, ok := ti.field(name); ok {
		return Attribute{Name: name, Type: f.Type}
	}
	if d, ok := v.(Deferred); ok {
		return Attribute{Name: name, Type: d.ReturnType()}
	}
	if v != nil {
		return Attribute{Name: name, Type: reflect.TypeOf(v)}
	}
	return Attribute{Name: name, Type: declared}
}
