package structdiff

import (
	"errors"
	"reflect"
	"testing"

	gyaml "github.com/goccy/go-yaml"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	doc := map[string]interface{}{
		"list":   []interface{}{"a", map[string]interface{}{"b": true}},
		"tuple":  Tuple{1, "two"},
		"pairs":  []Tuple{{"x", 1}, {"y", 2}},
		"yaml":   gyaml.MapSlice{{Key: "k", Value: "v"}},
		"ints":   map[int]string{1: "one"},
		"point":  point{X: 1, Y: 2},
		"array":  [2]string{"l", "r"},
		"nested": []interface{}{[]interface{}{1, 2}},
	}

	cases := []struct {
		description string
		path        Path
		expect      interface{}
	}{
		{"root", nil, doc},
		{"map key", Path{Key{"list"}}, doc["list"]},
		{"index then key", Path{Key{"list"}, Index(1), Key{"b"}}, true},
		{"tuple slot", Path{Key{"tuple"}, Slot(1)}, "two"},
		{"keyed sequence", Path{Key{"pairs"}, Key{"y"}}, 2},
		{"map slice", Path{Key{"yaml"}, Key{"k"}}, "v"},
		{"int key", Path{Key{"ints"}, Key{1}}, "one"},
		{"float key finds int key", Path{Key{"ints"}, Key{float64(1)}}, "one"},
		{"struct field", Path{Key{"point"}, Key{"Y"}}, 2},
		{"array slot", Path{Key{"array"}, Slot(0)}, "l"},
		{"nested index", Path{Key{"nested"}, Index(0), Index(1)}, 2},
	}

	for _, c := range cases {
		t.Run(c.description, func(t *testing.T) {
			got, err := Resolve(doc, c.path)
			require.NoError(t, err)
			if diff := cmp.Diff(c.expect, got); diff != "" {
				t.Errorf("result mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolveNotFound(t *testing.T) {
	doc := map[string]interface{}{
		"list":  []interface{}{1, 2},
		"tuple": Tuple{1, 2},
		"point": point{},
		"s":     secret{Name: "a"},
	}

	cases := []struct {
		description string
		path        Path
		pos         int
	}{
		{"missing key", Path{Key{"nope"}}, 0},
		{"key on a sequence", Path{Key{"list"}, Key{"a"}}, 1},
		{"index out of range", Path{Key{"list"}, Index(2)}, 1},
		{"negative index", Path{Key{"list"}, Index(-1)}, 1},
		{"slot on a sequence", Path{Key{"list"}, Slot(0)}, 1},
		{"index on a tuple", Path{Key{"tuple"}, Index(0)}, 1},
		{"slot out of range", Path{Key{"tuple"}, Slot(2)}, 1},
		{"missing field", Path{Key{"point"}, Key{"Z"}}, 1},
		{"unexported field", Path{Key{"s"}, Key{"code"}}, 1},
		{"non-string field", Path{Key{"point"}, Key{1}}, 1},
		{"step into a scalar", Path{Key{"list"}, Index(0), Index(0)}, 2},
		{"wrong key type", Path{Key{1}}, 0},
	}

	for _, c := range cases {
		t.Run(c.description, func(t *testing.T) {
			_, err := Resolve(doc, c.path)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrNotFound))

			var nf *NotFoundError
			require.True(t, errors.As(err, &nf))
			assert.Equal(t, c.pos, nf.Pos)
			assert.True(t, nf.Path.Equal(c.path))
		})
	}
}

func TestUpdate(t *testing.T) {
	cases := []struct {
		description string
		in          interface{}
		path        Path
		value       interface{}
		expect      interface{}
	}{
		{
			"replace root",
			1, nil, "one",
			"one",
		},
		{
			"nested map value",
			map[string]interface{}{"a": map[string]interface{}{"b": 1}},
			Path{Key{"a"}, Key{"b"}}, 2,
			map[string]interface{}{"a": map[string]interface{}{"b": 2}},
		},
		{
			"sequence element",
			[]interface{}{1, 2, 3},
			Path{Index(1)}, "two",
			[]interface{}{1, "two", 3},
		},
		{
			"tuple slot",
			Tuple{1, 2},
			Path{Slot(0)}, nil,
			Tuple{nil, 2},
		},
		{
			"array slot",
			[3]int{1, 2, 3},
			Path{Slot(2)}, 4,
			[3]int{1, 2, 4},
		},
		{
			"struct field",
			point{X: 1, Y: 2},
			Path{Key{"X"}}, 5,
			point{X: 5, Y: 2},
		},
		{
			"keyed sequence keeps pair representation",
			[]Tuple{{"a", 1}, {"b", 2}},
			Path{Key{"b"}}, 3,
			[]Tuple{{"a", 1}, {"b", 3}},
		},
		{
			"map slice",
			gyaml.MapSlice{{Key: "a", Value: 1}},
			Path{Key{"a"}}, []interface{}{1},
			gyaml.MapSlice{{Key: "a", Value: []interface{}{1}}},
		},
		{
			"array pairs",
			[][2]string{{"k", "v"}},
			Path{Key{"k"}}, "w",
			[][2]string{{"k", "w"}},
		},
		{
			"float converts to int without loss",
			map[string]int{"a": 1},
			Path{Key{"a"}}, float64(2),
			map[string]int{"a": 2},
		},
		{
			"nil into an interface slot",
			map[string]interface{}{"a": 1},
			Path{Key{"a"}}, nil,
			map[string]interface{}{"a": nil},
		},
	}

	for _, c := range cases {
		t.Run(c.description, func(t *testing.T) {
			got, err := Update(c.in, c.path, c.value)
			require.NoError(t, err)
			if diff := cmp.Diff(c.expect, got); diff != "" {
				t.Errorf("result mismatch (-want +got):\n%s", diff)
			}

			v, err := Resolve(got, c.path)
			require.NoError(t, err)
			if diff := cmp.Diff(c.value, v, convertInts); diff != "" {
				t.Errorf("resolved value mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// convertInts compares a float64 that was written into an int location with
// the int read back out
var convertInts = cmp.FilterValues(func(a, b interface{}) bool {
	_, aok := number(reflect.ValueOf(a))
	_, bok := number(reflect.ValueOf(b))
	return aok && bok
}, cmp.Comparer(func(a, b interface{}) bool {
	af, _ := number(reflect.ValueOf(a))
	bf, _ := number(reflect.ValueOf(b))
	return af == bf
}))

func TestUpdateFailures(t *testing.T) {
	cases := []struct {
		description string
		in          interface{}
		path        Path
		value       interface{}
	}{
		{"missing key", map[string]interface{}{}, Path{Key{"a"}}, 1},
		{"index out of range", []interface{}{}, Path{Index(0)}, 1},
		{"wrong element type", map[string]int{"a": 1}, Path{Key{"a"}}, "x"},
		{"lossy conversion", map[string]int{"a": 1}, Path{Key{"a"}}, 1.5},
		{"nil into an int", []int{1}, Path{Index(0)}, nil},
		{"wrong struct field type", point{}, Path{Key{"X"}}, "x"},
		{"unresolvable parent", map[string]interface{}{"a": 1}, Path{Key{"a"}, Key{"b"}}, 1},
	}

	for _, c := range cases {
		t.Run(c.description, func(t *testing.T) {
			_, err := Update(c.in, c.path, c.value)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrNotFound), "unexpected error: %s", err)
		})
	}
}

func TestUpdateRoundTrip(t *testing.T) {
	for _, fx := range fixtures {
		for _, v := range []interface{}{fx.left, fx.right} {
			Walk(v, func(p Path, cur interface{}) bool {
				got, err := Resolve(v, p)
				if err != nil {
					t.Errorf("%s: resolving %s: %s", fx.description, p, err)
					return false
				}
				updated, err := Update(v, p, got)
				if err != nil {
					t.Errorf("%s: updating %s: %s", fx.description, p, err)
					return false
				}
				if edits := Explain(v, updated); len(edits) != 0 {
					t.Errorf("%s: writing back %s changed the value: %v", fx.description, p, edits)
				}
				return true
			})
		}
	}
}

func TestUpdateDoesNotMutate(t *testing.T) {
	inner := []interface{}{1, 2}
	doc := map[string]interface{}{"a": inner, "b": Tuple{1}}

	updated, err := Update(doc, Path{Key{"a"}, Index(0)}, 100)
	require.NoError(t, err)
	_, err = Update(doc, Path{Key{"b"}, Slot(0)}, 100)
	require.NoError(t, err)

	assert.Equal(t, map[string]interface{}{"a": []interface{}{1, 2}, "b": Tuple{1}}, doc)
	assert.Equal(t, []interface{}{1, 2}, inner)
	assert.Equal(t, map[string]interface{}{"a": []interface{}{100, 2}, "b": Tuple{1}}, updated)
}

func TestToNativeSteps(t *testing.T) {
	p := Path{Key{"a"}, Index(1), Slot(0)}
	acc := ToNativeSteps(p)
	require.Len(t, acc, 3)
	for i, a := range acc {
		assert.True(t, sameStep(p[i], a.Step()), "step %d mismatch", i)
	}

	v := map[string]interface{}{"a": []interface{}{nil, Tuple{"x"}}}
	var cur interface{} = v
	for _, a := range acc {
		var err error
		cur, err = a.Get(cur)
		require.NoError(t, err)
	}
	assert.Equal(t, "x", cur)

	out, err := acc[0].Put(v, "replaced")
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"a": "replaced"}, out)
}
