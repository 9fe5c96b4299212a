package structdiff

import (
	"reflect"

	"github.com/pkg/errors"
)

// ErrUnpatchable is returned when an edit can't be turned into a mutation
var ErrUnpatchable = errors.New("edit cannot be applied")

// Patch applies a list of edits to v, returning the patched copy. v itself is
// never modified. Edits are applied in order, except removals, which are
// deferred until every other edit has been applied & then run in reverse so
// positional removals at the tail of a sequence stay valid
func Patch(v interface{}, edits Edits) (interface{}, error) {
	var (
		err     error
		removes []int
	)

	for i, e := range edits {
		switch x := e.(type) {
		case Changed:
			v, err = Update(v, x.Path, x.New)
		case TypeChanged:
			v, err = Update(v, x.Path, x.New)
		case Added:
			v, err = insertValue(v, x.Path, x.Value)
		case Removed:
			removes = append(removes, i)
		case ArityChanged:
			err = errors.Wrapf(ErrUnpatchable, "arity change at %s", x.Path)
		default:
			err = errors.Wrapf(ErrUnpatchable, "unknown edit %T", e)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "patch %d", i)
		}
	}

	for j := len(removes) - 1; j >= 0; j-- {
		i := removes[j]
		if v, err = deleteValue(v, edits[i].Location()); err != nil {
			return nil, errors.Wrapf(err, "patch %d", i)
		}
	}
	return v, nil
}

func insertValue(tree interface{}, p Path, value interface{}) (interface{}, error) {
	if len(p) == 0 {
		return nil, errors.Wrap(ErrUnpatchable, "cannot insert at the root")
	}
	last := p[len(p)-1]
	return modify(tree, p[:len(p)-1], func(parent interface{}) (interface{}, error) {
		out, err := insertChild(parent, last, value)
		if err != nil {
			return nil, located(err, p, len(p)-1)
		}
		return out, nil
	})
}

func deleteValue(tree interface{}, p Path) (interface{}, error) {
	if len(p) == 0 {
		return nil, errors.Wrap(ErrUnpatchable, "cannot remove the root")
	}
	last := p[len(p)-1]
	return modify(tree, p[:len(p)-1], func(parent interface{}) (interface{}, error) {
		out, err := deleteChild(parent, last)
		if err != nil {
			return nil, located(err, p, len(p)-1)
		}
		return out, nil
	})
}

// insertChild adds a new member to a container. map keys must be absent,
// indices must be within [0:len] & keyed sequences get a new trailing pair
func insertChild(parent interface{}, s Step, value interface{}) (interface{}, error) {
	rv := reflect.ValueOf(parent)
	switch x := s.(type) {
	case Key:
		switch rv.Kind() {
		case reflect.Map:
			kv, err := mapKey(rv, x.Value)
			if err != nil {
				return nil, err
			}
			if rv.MapIndex(kv).IsValid() {
				return nil, notFound("key %v is already present", x.Value)
			}
			return setMapIndex(rv, kv, value)
		case reflect.Slice:
			if es, ok := pairs(rv); ok {
				if _, ok := pairIndex(es, x.Value); ok {
					return nil, notFound("key %v is already present", x.Value)
				}
				pair, err := rebuildPair(rv.Index(0), x.Value, value)
				if err != nil {
					return nil, err
				}
				return insertIndex(rv, rv.Len(), pair)
			}
		}
	case Index:
		if rv.Kind() == reflect.Slice && rv.Type() != tupleType {
			if int(x) < 0 || int(x) > rv.Len() {
				return nil, notFound("index %d out of range [0:%d]", int(x), rv.Len())
			}
			return insertIndex(rv, int(x), value)
		}
	}
	return nil, mismatch(s, parent)
}

// deleteChild removes a member from a container. struct fields & composite
// slots can't be removed
func deleteChild(parent interface{}, s Step) (interface{}, error) {
	rv := reflect.ValueOf(parent)
	switch x := s.(type) {
	case Key:
		switch rv.Kind() {
		case reflect.Map:
			kv, err := mapKey(rv, x.Value)
			if err != nil {
				return nil, err
			}
			if !rv.MapIndex(kv).IsValid() {
				return nil, notFound("key %v is not present", x.Value)
			}
			cp := copyMap(rv)
			cp.SetMapIndex(kv, reflect.Value{})
			return cp.Interface(), nil
		case reflect.Slice:
			if es, ok := pairs(rv); ok {
				i, ok := pairIndex(es, x.Value)
				if !ok {
					return nil, notFound("key %v is not present", x.Value)
				}
				return deleteIndex(rv, i), nil
			}
		}
	case Index:
		if rv.Kind() == reflect.Slice && rv.Type() != tupleType {
			if int(x) < 0 || int(x) >= rv.Len() {
				return nil, notFound("index %d out of range [0:%d]", int(x), rv.Len())
			}
			return deleteIndex(rv, int(x)), nil
		}
	}
	return nil, mismatch(s, parent)
}

func insertIndex(s reflect.Value, i int, value interface{}) (interface{}, error) {
	val, err := assignable(s.Type().Elem(), value)
	if err != nil {
		return nil, err
	}
	cp := reflect.MakeSlice(s.Type(), 0, s.Len()+1)
	cp = reflect.AppendSlice(cp, s.Slice(0, i))
	cp = reflect.Append(cp, val)
	cp = reflect.AppendSlice(cp, s.Slice(i, s.Len()))
	return cp.Interface(), nil
}

func deleteIndex(s reflect.Value, i int) interface{} {
	cp := reflect.MakeSlice(s.Type(), 0, s.Len()-1)
	cp = reflect.AppendSlice(cp, s.Slice(0, i))
	cp = reflect.AppendSlice(cp, s.Slice(i+1, s.Len()))
	return cp.Interface()
}
