package structdiff

import (
	"fmt"
	"math"
	"reflect"
	"sort"

	gyaml "github.com/goccy/go-yaml"
)

// Shape defines all of the atoms in our universe, the structural categories
// a value can fall into while generating a diff
type Shape uint8

const (
	// ShapeUnknown is the zero shape, never returned by Classify
	ShapeUnknown Shape = iota
	// ShapeStruct is a tagged composite: a Go struct of a declared type
	ShapeStruct
	// ShapeMap is an associative container
	ShapeMap
	// ShapeKeyedSequence is a non-empty sequence of pairs with distinct keys
	ShapeKeyedSequence
	// ShapeSequence is an ordered, index-addressable sequence
	ShapeSequence
	// ShapeComposite is a fixed-arity composite: a Tuple or a Go array
	ShapeComposite
	ShapeInteger
	ShapeFloat
	ShapeText
	ShapeSymbol
	ShapeBoolean
	// ShapeOther covers nil and opaque values: pointers, funcs, chans
	ShapeOther
)

func (s Shape) String() string {
	switch s {
	case ShapeStruct:
		return "struct"
	case ShapeMap:
		return "map"
	case ShapeKeyedSequence:
		return "keyed-sequence"
	case ShapeSequence:
		return "sequence"
	case ShapeComposite:
		return "composite"
	case ShapeInteger:
		return "integer"
	case ShapeFloat:
		return "float"
	case ShapeText:
		return "text"
	case ShapeSymbol:
		return "symbol"
	case ShapeBoolean:
		return "boolean"
	case ShapeOther:
		return "other"
	default:
		return "unknown"
	}
}

// category folds keyed sequences into plain sequences. keyed-ness only
// changes how two sequences are compared, never whether they're comparable
func (s Shape) category() Shape {
	if s == ShapeKeyedSequence {
		return ShapeSequence
	}
	return s
}

func (s Shape) scalar() bool {
	switch s {
	case ShapeInteger, ShapeFloat, ShapeText, ShapeSymbol, ShapeBoolean:
		return true
	}
	return false
}

func (s Shape) container() bool {
	switch s {
	case ShapeStruct, ShapeMap, ShapeKeyedSequence, ShapeSequence, ShapeComposite:
		return true
	}
	return false
}

// Tuple is a fixed-arity composite. Unlike a plain slice, two tuples of
// different length are never compared element by element
type Tuple []interface{}

// Symbol is an atom-like named constant. Symbols and strings are different
// shapes, so replacing one with the other is a type change
type Symbol string

var (
	tupleType   = reflect.TypeOf(Tuple(nil))
	symbolType  = reflect.TypeOf(Symbol(""))
	mapItemType = reflect.TypeOf(gyaml.MapItem{})
)

// Classify returns the shape of a value
func Classify(v interface{}) Shape {
	return classify(reflect.ValueOf(v))
}

func classify(rv reflect.Value) Shape {
	switch rv.Kind() {
	case reflect.Struct:
		return ShapeStruct
	case reflect.Map:
		return ShapeMap
	case reflect.Slice:
		if rv.Type() == tupleType {
			return ShapeComposite
		}
		if _, ok := pairs(rv); ok {
			return ShapeKeyedSequence
		}
		return ShapeSequence
	case reflect.Array:
		return ShapeComposite
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return ShapeInteger
	case reflect.Float32, reflect.Float64:
		return ShapeFloat
	case reflect.String:
		if rv.Type() == symbolType {
			return ShapeSymbol
		}
		return ShapeText
	case reflect.Bool:
		return ShapeBoolean
	default:
		return ShapeOther
	}
}

// SameShape reports whether a and b fall into the same shape category.
// Structs only share a shape with structs of the identical declared type
func SameShape(a, b interface{}) bool {
	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	return sameShape(classify(av), classify(bv), av, bv)
}

func sameShape(as, bs Shape, av, bv reflect.Value) bool {
	if as.category() != bs.category() {
		return false
	}
	if as == ShapeStruct {
		return av.Type() == bv.Type()
	}
	return true
}

// equal is native structural equality, widened so identical opaque values and
// NaN floats compare equal to themselves
func equal(a, b interface{}) bool {
	if reflect.DeepEqual(a, b) {
		return true
	}
	return sameOpaque(reflect.ValueOf(a), reflect.ValueOf(b))
}

func sameOpaque(a, b reflect.Value) bool {
	if !a.IsValid() || !b.IsValid() || a.Type() != b.Type() {
		return false
	}
	switch a.Kind() {
	case reflect.Float32, reflect.Float64:
		return math.IsNaN(a.Float()) && math.IsNaN(b.Float())
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return a.Pointer() == b.Pointer()
	}
	return false
}

// sameKey matches keys across containers, allowing numeric keys of different
// types to match when their values are identical. Paths decoded from JSON
// carry float64 keys that need to find their int counterparts
func sameKey(a, b interface{}) bool {
	if equal(a, b) {
		return true
	}
	af, aok := number(reflect.ValueOf(a))
	bf, bok := number(reflect.ValueOf(b))
	return aok && bok && af == bf
}

func number(rv reflect.Value) (float64, bool) {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// entry is a single key/value member of a map, struct or keyed sequence
type entry struct {
	key   interface{}
	value interface{}
}

// mapEntries lists a map's members, sorted by key
func mapEntries(rv reflect.Value) []entry {
	es := make([]entry, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		es = append(es, entry{key: iter.Key().Interface(), value: iter.Value().Interface()})
	}
	sortEntries(es)
	return es
}

// structEntries lists exported fields in declaration order
func structEntries(rv reflect.Value) []entry {
	t := rv.Type()
	es := make([]entry, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if f := t.Field(i); f.PkgPath == "" {
			es = append(es, entry{key: f.Name, value: rv.Field(i).Interface()})
		}
	}
	return es
}

func hasUnexported(t reflect.Type) bool {
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).PkgPath != "" {
			return true
		}
	}
	return false
}

func fieldIndex(t reflect.Type, name string) (int, bool) {
	for i := 0; i < t.NumField(); i++ {
		if f := t.Field(i); f.Name == name && f.PkgPath == "" {
			return i, true
		}
	}
	return 0, false
}

// pairs interprets a slice as a keyed sequence. it succeeds only when the
// slice is non-empty and every element is a pair with a distinct scalar key.
// keys are distinct under sameKey, the rule pairIndex looks them up by, so
// 1 and 1.0 in the same slice make it a plain sequence
func pairs(rv reflect.Value) ([]entry, bool) {
	if rv.Kind() != reflect.Slice || rv.Type() == tupleType || rv.Len() == 0 {
		return nil, false
	}
	es := make([]entry, rv.Len())
	for i := range es {
		k, v, ok := splitPair(rv.Index(i))
		if !ok || !classify(reflect.ValueOf(k)).scalar() {
			return nil, false
		}
		if _, dup := pairIndex(es[:i], k); dup {
			return nil, false
		}
		es[i] = entry{key: k, value: v}
	}
	return es, true
}

func splitPair(ev reflect.Value) (k, v interface{}, ok bool) {
	for ev.Kind() == reflect.Interface {
		if ev.IsNil() {
			return nil, nil, false
		}
		ev = ev.Elem()
	}
	switch {
	case ev.Type() == mapItemType:
		item := ev.Interface().(gyaml.MapItem)
		return item.Key, item.Value, true
	case ev.Type() == tupleType && ev.Len() == 2,
		ev.Kind() == reflect.Array && ev.Len() == 2:
		return ev.Index(0).Interface(), ev.Index(1).Interface(), true
	}
	return nil, nil, false
}

func pairIndex(es []entry, key interface{}) (int, bool) {
	for i, e := range es {
		if sameKey(e.key, key) {
			return i, true
		}
	}
	return 0, false
}

// sortEntries orders entries by key: numbers numerically, strings lexically,
// anything else by type name then formatted value
func sortEntries(es []entry) {
	sort.SliceStable(es, func(i, j int) bool { return lessKey(es[i].key, es[j].key) })
}

func lessKey(a, b interface{}) bool {
	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	if av.IsValid() && bv.IsValid() {
		if as, bs := classify(av), classify(bv); as == bs {
			switch as {
			case ShapeText, ShapeSymbol:
				return av.String() < bv.String()
			case ShapeBoolean:
				return !av.Bool() && bv.Bool()
			case ShapeInteger, ShapeFloat:
				af, _ := number(av)
				bf, _ := number(bv)
				if af != bf {
					return af < bf
				}
			}
		}
	}
	return fmt.Sprintf("%T %v", a, a) < fmt.Sprintf("%T %v", b, b)
}
