package structdiff

import (
	"encoding/json"
	"reflect"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/pkg/errors"
)

// jsonOp is a single RFC 6902 operation
type jsonOp struct {
	Op    string          `json:"op"`
	Path  string          `json:"path"`
	Value json.RawMessage `json:"value,omitempty"`
}

func valueOp(op, ptr string, v interface{}) (jsonOp, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return jsonOp{}, errors.Wrapf(err, "encoding value at %s", ptr)
	}
	return jsonOp{Op: op, Path: ptr, Value: data}, nil
}

// JSONPatch renders edits as an RFC 6902 JSON Patch. Keys become object
// members, indices & slots become array positions. As with Patch, removals
// are moved to the end in reverse order. ArityChanged edits have no JSON Patch
// equivalent & fail with ErrUnpatchable.
//
// JSONPatch only sees paths, so a Key step into a keyed sequence is rendered
// as an object member even though the sequence encodes as a JSON array. Use
// JSONPatchFor when edits may come from values holding keyed sequences
func JSONPatch(edits Edits) (jsonpatch.Patch, error) {
	ops := make([]jsonOp, 0, len(edits))
	var removes []jsonOp

	for i, e := range edits {
		var (
			op  jsonOp
			err error
		)
		ptr := JSONPointer(e.Location())
		switch x := e.(type) {
		case Added:
			op, err = valueOp("add", ptr, x.Value)
		case Removed:
			removes = append(removes, jsonOp{Op: "remove", Path: ptr})
			continue
		case Changed:
			op, err = valueOp("replace", ptr, x.New)
		case TypeChanged:
			op, err = valueOp("replace", ptr, x.New)
		default:
			return nil, errors.Wrapf(ErrUnpatchable, "edit %d: %s at %s", i, e.Op(), e.Location())
		}
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	for i := len(removes) - 1; i >= 0; i-- {
		ops = append(ops, removes[i])
	}

	data, err := json.Marshal(ops)
	if err != nil {
		return nil, errors.Wrap(err, "encoding operations")
	}
	return jsonpatch.DecodePatch(data)
}

// JSONPatchFor is JSONPatch checked against v, the value edits were computed
// from. Key steps that address a pair of a keyed sequence in v have no JSON
// pointer equivalent & fail with ErrUnpatchable
func JSONPatchFor(v interface{}, edits Edits) (jsonpatch.Patch, error) {
	for i, e := range edits {
		if pos, ok := keyedStep(v, e.Location()); ok {
			return nil, errors.Wrapf(ErrUnpatchable, "edit %d: step %d of %s is a key into a keyed sequence", i, pos, e.Location())
		}
	}
	return JSONPatch(edits)
}

// keyedStep finds the first Key step of p applied to a keyed sequence in v.
// the walk stops where p leaves v, which is where additions point
func keyedStep(v interface{}, p Path) (int, bool) {
	cur := v
	for i, acc := range ToNativeSteps(p) {
		if _, ok := p[i].(Key); ok {
			if _, keyed := pairs(reflect.ValueOf(cur)); keyed {
				return i, true
			}
		}
		next, err := acc.Get(cur)
		if err != nil {
			return 0, false
		}
		cur = next
	}
	return 0, false
}

// ApplyJSON applies edits to a JSON document
func ApplyJSON(doc []byte, edits Edits) ([]byte, error) {
	patch, err := JSONPatch(edits)
	if err != nil {
		return nil, err
	}
	return patch.Apply(doc)
}
