package plant

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type base struct {
	ID int
}

type sample struct {
	base
	Name    string
	Count   int
	private string
}

func TestNewTypeInfo_ExportedAndPromotedFields(t *testing.T) {
	t.Parallel()

	info := newTypeInfo(reflect.TypeFor[sample]())

	_, ok := info.field("ID")
	assert.True(t, ok, "promoted field")
	_, ok = info.field("Name")
	assert.True(t, ok)
	_, ok = info.field("private")
	assert.False(t, ok)
}

func TestMerge_RightBiasedAndTotal(t *testing.T) {
	t.Parallel()

	name := Attribute{Name: "Name", Type: reflect.TypeFor[string]()}
	count := Attribute{Name: "Count", Type: reflect.TypeFor[int]()}
	extra := Attribute{Name: "ID", Type: reflect.TypeFor[int]()}

	defaults := Blueprint{name: "default", count: 1}
	overrides := Blueprint{name: "override", extra: 7}

	got := merge(defaults, overrides)
	assert.Equal(t, Blueprint{name: "override", count: 1, extra: 7}, got)
	assert.Equal(t, Blueprint{name: "default", count: 1}, defaults, "defaults must not be modified")
}

func TestToBlueprint_Sources(t *testing.T) {
	t.Parallel()

	info := newTypeInfo(reflect.TypeFor[sample]())
	name := Attribute{Name: "Name", Type: reflect.TypeFor[string]()}
	count := Attribute{Name: "Count", Type: reflect.TypeFor[int]()}

	tests := []struct {
		name string
		src  any
		want Blueprint
	}{
		{"nil", nil, Blueprint{}},
		{"attrs", Attrs{"Name": "a"}, Blueprint{name: "a"}},
		{"plain map", map[string]any{"Count": 2}, Blueprint{count: 2}},
		{"explicit nil", Attrs{"Name": nil}, Blueprint{name: nil}},
		{"same type skips zero fields", sample{Name: "a"}, Blueprint{name: "a"}},
		{"pointer", &sample{Count: 3}, Blueprint{count: 3}},
		{"nil pointer", (*sample)(nil), Blueprint{}},
		{"other struct keeps zero fields", struct{ Name string }{}, Blueprint{name: ""}},
		{"unknown name keeps value type", Attrs{"Other": 1.5}, Blueprint{{Name: "Other", Type: reflect.TypeFor[float64]()}: 1.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := info.toBlueprint(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToBlueprint_DeferredSharesFieldKey(t *testing.T) {
	t.Parallel()

	info := newTypeInfo(reflect.TypeFor[sample]())
	lit, err := info.toBlueprint(Attrs{"Name": "literal"})
	require.NoError(t, err)
	lazy, err := info.toBlueprint(Attrs{"Name": Lazy(func() int { return 1 })})
	require.NoError(t, err)

	merged := merge(lit, lazy)
	assert.Len(t, merged, 1)
}

func TestToBlueprint_Rejects(t *testing.T) {
	t.Parallel()

	info := newTypeInfo(reflect.TypeFor[sample]())
	for _, src := range []any{42, "name", Lazy(func() string { return "" })} {
		_, err := info.toBlueprint(src)
		assert.Error(t, err, "%T", src)
	}
}

func TestOrdered_FollowsDeclaration(t *testing.T) {
	t.Parallel()

	info := newTypeInfo(reflect.TypeFor[sample]())
	bp, err := info.toBlueprint(Attrs{"Zeta": 1, "Count": 1, "Name": "a", "ID": 1, "Alpha": 1})
	require.NoError(t, err)

	var names []string
	for _, a := range info.ordered(bp) {
		names = append(names, a.Name)
	}
	assert.Equal(t, []string{"ID", "Name", "Count", "Alpha", "Zeta"}, names)
}

func TestClosest(t *testing.T) {
	t.Parallel()

	candidates := []string{"FirstName", "LastName", "Color"}
	tests := []struct {
		name string
		want string
	}{
		{"firstname", "FirstName"},
		{"FristName", "FirstName"},
		{"Colour", "Color"},
		{"Publisher", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, closest(tt.name, candidates), tt.name)
	}
	assert.Empty(t, closest("x", nil))
}
