package structdiff

import (
	"fmt"
	"reflect"

	gyaml "github.com/goccy/go-yaml"
)

// Accessor is the Go-native form of a Step: a reflect-backed getter & setter
// for one level of a value. Put never modifies its input, it returns a copy
// of v with the addressed location replaced
type Accessor interface {
	Step() Step
	Get(v interface{}) (interface{}, error)
	Put(v, nv interface{}) (interface{}, error)
}

// ToNativeSteps translates a portable path into accessors
func ToNativeSteps(p Path) []Accessor {
	acc := make([]Accessor, len(p))
	for i, s := range p {
		switch x := s.(type) {
		case Key:
			acc[i] = keyAccessor{key: x}
		case Index:
			acc[i] = indexAccessor(x)
		case Slot:
			acc[i] = slotAccessor(x)
		default:
			acc[i] = invalidAccessor{step: s}
		}
	}
	return acc
}

type keyAccessor struct {
	key Key
}

func (a keyAccessor) Step() Step { return a.key }

func (a keyAccessor) Get(v interface{}) (interface{}, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		kv, err := mapKey(rv, a.key.Value)
		if err != nil {
			return nil, err
		}
		ev := rv.MapIndex(kv)
		if !ev.IsValid() {
			return nil, notFound("key %v is not present", a.key.Value)
		}
		return ev.Interface(), nil
	case reflect.Struct:
		i, err := structField(rv, a.key.Value)
		if err != nil {
			return nil, err
		}
		return rv.Field(i).Interface(), nil
	case reflect.Slice:
		if es, ok := pairs(rv); ok {
			i, ok := pairIndex(es, a.key.Value)
			if !ok {
				return nil, notFound("key %v is not present", a.key.Value)
			}
			return es[i].value, nil
		}
	}
	return nil, mismatch(a.key, v)
}

func (a keyAccessor) Put(v, nv interface{}) (interface{}, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		kv, err := mapKey(rv, a.key.Value)
		if err != nil {
			return nil, err
		}
		if !rv.MapIndex(kv).IsValid() {
			return nil, notFound("key %v is not present", a.key.Value)
		}
		return setMapIndex(rv, kv, nv)
	case reflect.Struct:
		i, err := structField(rv, a.key.Value)
		if err != nil {
			return nil, err
		}
		val, err := assignable(rv.Type().Field(i).Type, nv)
		if err != nil {
			return nil, err
		}
		cp := reflect.New(rv.Type()).Elem()
		cp.Set(rv)
		cp.Field(i).Set(val)
		return cp.Interface(), nil
	case reflect.Slice:
		if es, ok := pairs(rv); ok {
			i, ok := pairIndex(es, a.key.Value)
			if !ok {
				return nil, notFound("key %v is not present", a.key.Value)
			}
			pair, err := rebuildPair(rv.Index(i), es[i].key, nv)
			if err != nil {
				return nil, err
			}
			return setIndex(rv, i, pair)
		}
	}
	return nil, mismatch(a.key, v)
}

type indexAccessor int

func (a indexAccessor) Step() Step { return Index(a) }

func (a indexAccessor) Get(v interface{}) (interface{}, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice || rv.Type() == tupleType {
		return nil, mismatch(Index(a), v)
	}
	if int(a) < 0 || int(a) >= rv.Len() {
		return nil, notFound("index %d out of range [0:%d]", int(a), rv.Len())
	}
	return rv.Index(int(a)).Interface(), nil
}

func (a indexAccessor) Put(v, nv interface{}) (interface{}, error) {
	if _, err := a.Get(v); err != nil {
		return nil, err
	}
	return setIndex(reflect.ValueOf(v), int(a), nv)
}

type slotAccessor int

func (a slotAccessor) Step() Step { return Slot(a) }

func (a slotAccessor) Get(v interface{}) (interface{}, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Array && (rv.Kind() != reflect.Slice || rv.Type() != tupleType) {
		return nil, mismatch(Slot(a), v)
	}
	if int(a) < 0 || int(a) >= rv.Len() {
		return nil, notFound("slot %d out of range [0:%d]", int(a), rv.Len())
	}
	return rv.Index(int(a)).Interface(), nil
}

func (a slotAccessor) Put(v, nv interface{}) (interface{}, error) {
	if _, err := a.Get(v); err != nil {
		return nil, err
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Array {
		val, err := assignable(rv.Type().Elem(), nv)
		if err != nil {
			return nil, err
		}
		cp := reflect.New(rv.Type()).Elem()
		cp.Set(rv)
		cp.Index(int(a)).Set(val)
		return cp.Interface(), nil
	}
	return setIndex(rv, int(a), nv)
}

// invalidAccessor stands in for Step implementations from outside the
// package. it never resolves
type invalidAccessor struct {
	step Step
}

func (a invalidAccessor) Step() Step { return a.step }
func (a invalidAccessor) Get(v interface{}) (interface{}, error) {
	return nil, notFound("unrecognized step %T", a.step)
}
func (a invalidAccessor) Put(v, nv interface{}) (interface{}, error) {
	return nil, notFound("unrecognized step %T", a.step)
}

func mismatch(s Step, v interface{}) error {
	var kind string
	switch s.(type) {
	case Key:
		kind = "key"
	case Index:
		kind = "index"
	case Slot:
		kind = "slot"
	}
	return notFound("%s step %s cannot select from %s (%T)", kind, s, Classify(v), v)
}

// assignable prepares v for storage in a location of type t. numeric values
// are converted when no precision is lost, so values decoded from JSON can be
// written back into typed containers
func assignable(t reflect.Type, v interface{}) (reflect.Value, error) {
	if v == nil {
		switch t.Kind() {
		case reflect.Interface, reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, notFound("cannot store nil in %s", t)
	}

	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(t) {
		return rv, nil
	}
	if _, ok := number(rv); ok {
		if _, ok := number(reflect.Zero(t)); ok {
			cv := rv.Convert(t)
			if reflect.DeepEqual(cv.Convert(rv.Type()).Interface(), v) {
				return cv, nil
			}
		}
	}
	if rv.Kind() == reflect.String && t.Kind() == reflect.String {
		return rv.Convert(t), nil
	}
	return reflect.Value{}, notFound("cannot store %T in %s", v, t)
}

func mapKey(m reflect.Value, k interface{}) (reflect.Value, error) {
	kv, err := assignable(m.Type().Key(), k)
	if err != nil {
		return reflect.Value{}, notFound("key %v does not fit %s", k, m.Type())
	}
	return kv, nil
}

func structField(rv reflect.Value, k interface{}) (int, error) {
	name, ok := k.(string)
	if !ok {
		return 0, notFound("struct %s has no field %v", rv.Type(), k)
	}
	i, ok := fieldIndex(rv.Type(), name)
	if !ok {
		return 0, notFound("struct %s has no exported field %q", rv.Type(), name)
	}
	return i, nil
}

// copyMap clones a map, leaving the original untouched
func copyMap(m reflect.Value) reflect.Value {
	cp := reflect.MakeMapWithSize(m.Type(), m.Len())
	iter := m.MapRange()
	for iter.Next() {
		cp.SetMapIndex(iter.Key(), iter.Value())
	}
	return cp
}

func setMapIndex(m, kv reflect.Value, nv interface{}) (interface{}, error) {
	val, err := assignable(m.Type().Elem(), nv)
	if err != nil {
		return nil, err
	}
	cp := copyMap(m)
	cp.SetMapIndex(kv, val)
	return cp.Interface(), nil
}

// copySlice clones a slice, leaving the original's backing array untouched
func copySlice(s reflect.Value, capacity int) reflect.Value {
	cp := reflect.MakeSlice(s.Type(), s.Len(), capacity)
	reflect.Copy(cp, s)
	return cp
}

func setIndex(s reflect.Value, i int, nv interface{}) (interface{}, error) {
	val, err := assignable(s.Type().Elem(), nv)
	if err != nil {
		return nil, err
	}
	cp := copySlice(s, s.Len())
	cp.Index(i).Set(val)
	return cp.Interface(), nil
}

// rebuildPair builds a keyed-sequence element holding key & value, using the
// representation of the existing element ev
func rebuildPair(ev reflect.Value, key, value interface{}) (interface{}, error) {
	for ev.Kind() == reflect.Interface {
		ev = ev.Elem()
	}
	switch {
	case ev.Type() == mapItemType:
		return gyaml.MapItem{Key: key, Value: value}, nil
	case ev.Type() == tupleType:
		return Tuple{key, value}, nil
	case ev.Kind() == reflect.Array:
		kv, err := assignable(ev.Type().Elem(), key)
		if err != nil {
			return nil, err
		}
		val, err := assignable(ev.Type().Elem(), value)
		if err != nil {
			return nil, err
		}
		cp := reflect.New(ev.Type()).Elem()
		cp.Index(0).Set(kv)
		cp.Index(1).Set(val)
		return cp.Interface(), nil
	}
	return nil, fmt.Errorf("%s is not a pair", ev.Type())
}
