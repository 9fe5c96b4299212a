package structdiff

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
)

// Operation defines the operation of an Edit
type Operation string

const (
	// OpAdded marks a location present only in the right value
	OpAdded = Operation("+")
	// OpRemoved marks a location present only in the left value
	OpRemoved = Operation("-")
	// OpChanged is a replacement between two values of the same shape
	OpChanged = Operation("~")
	// OpTypeChanged is a replacement between values of different shapes, or
	// structs of different declared types
	OpTypeChanged = Operation("!")
	// OpArityChanged reports fixed-arity composites of different size
	OpArityChanged = Operation("#")
)

// Edit is a single difference between two values. Edit is a closed set of
// types: Added, Removed, Changed, TypeChanged and ArityChanged
type Edit interface {
	Op() Operation
	// Location is the path the edit applies to
	Location() Path
	isEdit()
}

// Added is a location present only on the right side
type Added struct {
	Path  Path
	Value interface{}
}

// Removed is a location present only on the left side
type Removed struct {
	Path  Path
	Value interface{}
}

// Changed is a location where both sides have the same shape, but different
// values
type Changed struct {
	Path Path
	Old  interface{}
	New  interface{}
}

// TypeChanged is a location where the two sides have different shapes. No
// edits are ever reported beneath a TypeChanged path
type TypeChanged struct {
	Path Path
	Old  interface{}
	New  interface{}
}

// ArityChanged is a location where both sides are fixed-arity composites of
// different sizes. Slots of mismatched composites are not compared
type ArityChanged struct {
	Path Path
	Old  int
	New  int
}

func (Added) Op() Operation        { return OpAdded }
func (Removed) Op() Operation      { return OpRemoved }
func (Changed) Op() Operation      { return OpChanged }
func (TypeChanged) Op() Operation  { return OpTypeChanged }
func (ArityChanged) Op() Operation { return OpArityChanged }

func (e Added) Location() Path        { return e.Path }
func (e Removed) Location() Path      { return e.Path }
func (e Changed) Location() Path      { return e.Path }
func (e TypeChanged) Location() Path  { return e.Path }
func (e ArityChanged) Location() Path { return e.Path }

func (Added) isEdit()        {}
func (Removed) isEdit()      {}
func (Changed) isEdit()      {}
func (TypeChanged) isEdit()  {}
func (ArityChanged) isEdit() {}

// compact returns the list form shared by the JSON & YAML encodings:
// [op, path, value] or [op, path, old, new]
func compact(e Edit) []interface{} {
	switch x := e.(type) {
	case Added:
		return []interface{}{x.Op(), x.Path, x.Value}
	case Removed:
		return []interface{}{x.Op(), x.Path, x.Value}
	case Changed:
		return []interface{}{x.Op(), x.Path, x.Old, x.New}
	case TypeChanged:
		return []interface{}{x.Op(), x.Path, x.Old, x.New}
	case ArityChanged:
		return []interface{}{x.Op(), x.Path, x.Old, x.New}
	}
	return nil
}

// MarshalJSON implements a custom compact JSON marshaller
func (e Added) MarshalJSON() ([]byte, error)        { return json.Marshal(compact(e)) }
func (e Removed) MarshalJSON() ([]byte, error)      { return json.Marshal(compact(e)) }
func (e Changed) MarshalJSON() ([]byte, error)      { return json.Marshal(compact(e)) }
func (e TypeChanged) MarshalJSON() ([]byte, error)  { return json.Marshal(compact(e)) }
func (e ArityChanged) MarshalJSON() ([]byte, error) { return json.Marshal(compact(e)) }

func (e Added) MarshalYAML() (interface{}, error)        { return yamlList(e), nil }
func (e Removed) MarshalYAML() (interface{}, error)      { return yamlList(e), nil }
func (e Changed) MarshalYAML() (interface{}, error)      { return yamlList(e), nil }
func (e TypeChanged) MarshalYAML() (interface{}, error)  { return yamlList(e), nil }
func (e ArityChanged) MarshalYAML() (interface{}, error) { return yamlList(e), nil }

// yaml.v3 doesn't know about Operation, hand it a plain string
func yamlList(e Edit) []interface{} {
	l := compact(e)
	l[0] = string(e.Op())
	return l
}

// Edits is a list of edits, the result of a diff
type Edits []Edit

// MarshalJSON emits [] for an empty list
func (es Edits) MarshalJSON() ([]byte, error) {
	if es == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Edit(es))
}

// UnmarshalJSON decodes the compact list form. values decode the way
// encoding/json decodes into interface{}
func (es *Edits) UnmarshalJSON(data []byte) error {
	var raw [][]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Edits, 0, len(raw))
	for i, r := range raw {
		e, err := decodeEdit(r)
		if err != nil {
			return errors.Wrapf(err, "edit %d", i)
		}
		out = append(out, e)
	}
	*es = out
	return nil
}

func decodeEdit(r []json.RawMessage) (Edit, error) {
	if len(r) < 3 {
		return nil, fmt.Errorf("expected at least 3 elements, got %d", len(r))
	}
	var (
		op Operation
		p  Path
	)
	if err := json.Unmarshal(r[0], &op); err != nil {
		return nil, errors.Wrap(err, "invalid operation")
	}
	if err := json.Unmarshal(r[1], &p); err != nil {
		return nil, errors.Wrap(err, "invalid path")
	}

	switch op {
	case OpAdded, OpRemoved:
		var v interface{}
		if err := json.Unmarshal(r[2], &v); err != nil {
			return nil, err
		}
		if op == OpAdded {
			return Added{Path: p, Value: v}, nil
		}
		return Removed{Path: p, Value: v}, nil
	case OpChanged, OpTypeChanged:
		if len(r) != 4 {
			return nil, fmt.Errorf("%q edit needs 4 elements, got %d", op, len(r))
		}
		var old, nw interface{}
		if err := json.Unmarshal(r[2], &old); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(r[3], &nw); err != nil {
			return nil, err
		}
		if op == OpChanged {
			return Changed{Path: p, Old: old, New: nw}, nil
		}
		return TypeChanged{Path: p, Old: old, New: nw}, nil
	case OpArityChanged:
		if len(r) != 4 {
			return nil, fmt.Errorf("%q edit needs 4 elements, got %d", op, len(r))
		}
		var old, nw int
		if err := json.Unmarshal(r[2], &old); err != nil {
			return nil, errors.Wrap(err, "invalid arity")
		}
		if err := json.Unmarshal(r[3], &nw); err != nil {
			return nil, errors.Wrap(err, "invalid arity")
		}
		return ArityChanged{Path: p, Old: old, New: nw}, nil
	default:
		return nil, fmt.Errorf("unknown operation %q", op)
	}
}

// Invert swaps the left & right sides of every edit, turning the result of
// Explain(a, b) into an equivalent of Explain(b, a)
func (es Edits) Invert() Edits {
	inv := make(Edits, len(es))
	for i, e := range es {
		switch x := e.(type) {
		case Added:
			inv[i] = Removed{Path: x.Path, Value: x.Value}
		case Removed:
			inv[i] = Added{Path: x.Path, Value: x.Value}
		case Changed:
			inv[i] = Changed{Path: x.Path, Old: x.New, New: x.Old}
		case TypeChanged:
			inv[i] = TypeChanged{Path: x.Path, Old: x.New, New: x.Old}
		case ArityChanged:
			inv[i] = ArityChanged{Path: x.Path, Old: x.New, New: x.Old}
		}
	}
	return inv
}
