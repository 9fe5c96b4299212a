package structdiff

import (
	"encoding/json"
	"errors"
	"testing"

	gyaml "github.com/goccy/go-yaml"
	"github.com/google/go-cmp/cmp"
)

type PatchTestCase struct {
	description  string
	tree, expect interface{}
	patch        Edits
}

func TestPatch(t *testing.T) {
	cases := []PatchTestCase{
		{
			"update bool",
			[]interface{}{true},
			[]interface{}{false},
			Edits{Changed{Path: Path{Index(0)}, Old: true, New: false}},
		},
		{
			"update nested number",
			map[string]interface{}{"a": []interface{}{float64(1)}},
			map[string]interface{}{"a": []interface{}{float64(2)}},
			Edits{Changed{Path: Path{Key{"a"}, Index(0)}, Old: float64(1), New: float64(2)}},
		},
		{
			"insert number to end of array",
			[]interface{}{},
			[]interface{}{float64(1)},
			Edits{Added{Path: Path{Index(0)}, Value: float64(1)}},
		},
		{
			"insert number in slice",
			[]interface{}{float64(0), float64(2)},
			[]interface{}{float64(0), float64(1), float64(2)},
			Edits{Added{Path: Path{Index(1)}, Value: float64(1)}},
		},
		{
			"insert false into object",
			map[string]interface{}{},
			map[string]interface{}{"a": false},
			Edits{Added{Path: Path{Key{"a"}}, Value: false}},
		},
		{
			"insert into a keyed sequence",
			[]Tuple{{"a", 1}},
			[]Tuple{{"a", 1}, {"b", 2}},
			Edits{Added{Path: Path{Key{"b"}}, Value: 2}},
		},
		{
			"delete from object",
			map[string]interface{}{"a": false, "b": true},
			map[string]interface{}{"b": true},
			Edits{Removed{Path: Path{Key{"a"}}, Value: false}},
		},
		{
			"delete from keyed sequence",
			gyaml.MapSlice{{Key: "a", Value: 1}, {Key: "b", Value: 2}},
			gyaml.MapSlice{{Key: "b", Value: 2}},
			Edits{Removed{Path: Path{Key{"a"}}, Value: 1}},
		},
		{
			"replace root",
			1,
			"one",
			Edits{TypeChanged{Old: 1, New: "one"}},
		},
	}

	for _, c := range cases {
		t.Run(c.description, func(t *testing.T) {
			got, err := Patch(c.tree, c.patch)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(c.expect, got); diff != "" {
				t.Errorf("result mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPatchExplainRoundTrip(t *testing.T) {
	cases := []struct {
		description string
		left, right string
	}{
		{"scalar change array", `[[0,1,2]]`, `[[0,1,3]]`},
		{"scalar change object", `{"a":[0,1,2],"b":true}`, `{"a":[0,1,3],"b":true}`},
		{"insert into array", `[[1]]`, `[[1],[2]]`},
		{"insert into object", `{"a":[1]}`, `{"a":[1],"b":[2]}`},
		{"delete from array", `[[1],[2],[3]]`, `[[1],[3]]`},
		{"delete many from the tail", `[1,2,3,4,5]`, `[1,2]`},
		{"delete from object", `{"a":[false],"b":[true]}`, `{"a":[false]}`},
		{"type changes", `{"a":1,"b":[1],"c":{"d":null}}`, `{"a":"1","b":{"0":1},"c":{"d":[null]}}`},
		{"nested everything", `{"a":{"b":[1,{"c":2,"d":[3,4]}]},"e":null}`, `{"a":{"b":[1,{"c":5,"d":[3]},{"f":6}]},"g":7}`},
		{"empty to full", `{}`, `{"a":[],"b":{"c":[1,2,3]}}`},
		{"full to empty", `{"a":[],"b":{"c":[1,2,3]}}`, `{}`},
	}

	for _, c := range cases {
		t.Run(c.description, func(t *testing.T) {
			var left, right interface{}
			if err := json.Unmarshal([]byte(c.left), &left); err != nil {
				t.Fatal(err)
			}
			if err := json.Unmarshal([]byte(c.right), &right); err != nil {
				t.Fatal(err)
			}

			edits := Explain(left, right)
			got, err := Patch(left, edits)
			if err != nil {
				t.Fatalf("error patching: %s", err)
			}
			if diff := cmp.Diff(right, got); diff != "" {
				t.Errorf("patched result mismatch (-want +got):\n%s", diff)
			}

			// the source is untouched
			var again interface{}
			if err := json.Unmarshal([]byte(c.left), &again); err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(again, left); diff != "" {
				t.Errorf("patching modified its input (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPatchFixtures(t *testing.T) {
	for _, fx := range fixtures {
		t.Run(fx.description, func(t *testing.T) {
			edits := Explain(fx.left, fx.right)
			got, err := Patch(fx.left, edits)
			if err != nil {
				if errors.Is(err, ErrUnpatchable) {
					return
				}
				t.Fatal(err)
			}
			if rest := Explain(fx.right, got); len(rest) != 0 {
				t.Errorf("patched value still differs: %v", rest)
			}
		})
	}
}

func TestPatchErrors(t *testing.T) {
	_, err := Patch(Tuple{1}, Explain(Tuple{1}, Tuple{1, 2}))
	if !errors.Is(err, ErrUnpatchable) {
		t.Errorf("expected ErrUnpatchable applying an arity change, got: %v", err)
	}

	cases := []struct {
		description string
		tree        interface{}
		patch       Edits
	}{
		{"insert existing key", map[string]interface{}{"a": 1}, Edits{Added{Path: Path{Key{"a"}}, Value: 2}}},
		{"insert past the end", []interface{}{}, Edits{Added{Path: Path{Index(1)}, Value: 2}}},
		{"insert into a tuple", Tuple{1}, Edits{Added{Path: Path{Slot(1)}, Value: 2}}},
		{"remove missing key", map[string]interface{}{}, Edits{Removed{Path: Path{Key{"a"}}, Value: 2}}},
		{"remove a struct field", point{}, Edits{Removed{Path: Path{Key{"X"}}, Value: 0}}},
		{"change missing path", map[string]interface{}{}, Edits{Changed{Path: Path{Key{"a"}, Index(0)}, Old: 1, New: 2}}},
	}

	for _, c := range cases {
		t.Run(c.description, func(t *testing.T) {
			_, err := Patch(c.tree, c.patch)
			if !errors.Is(err, ErrNotFound) {
				t.Errorf("expected ErrNotFound, got: %v", err)
			}
		})
	}
}
