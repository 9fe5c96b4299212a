package structdiff

import "reflect"

// Walk traverses v in top-down (prefix) order, calling fn with the path & value
// of every node. Paths are built with the same steps Explain uses, so every
// path Walk yields resolves against v. Returning false from fn skips the
// node's children
func Walk(v interface{}, fn func(p Path, v interface{}) bool) {
	walk(v, nil, fn)
}

func walk(v interface{}, p Path, fn func(p Path, v interface{}) bool) {
	if !fn(p, v) {
		return
	}

	rv := reflect.ValueOf(v)
	switch classify(rv) {
	case ShapeStruct:
		walkEntries(structEntries(rv), p, fn)
	case ShapeMap:
		walkEntries(mapEntries(rv), p, fn)
	case ShapeKeyedSequence:
		es, _ := pairs(rv)
		walkEntries(es, p, fn)
	case ShapeSequence:
		for i := 0; i < rv.Len(); i++ {
			walk(rv.Index(i).Interface(), p.Append(Index(i)), fn)
		}
	case ShapeComposite:
		for i := 0; i < rv.Len(); i++ {
			walk(rv.Index(i).Interface(), p.Append(Slot(i)), fn)
		}
	}
}

func walkEntries(es []entry, p Path, fn func(p Path, v interface{}) bool) {
	for _, e := range es {
		walk(e.value, p.Append(Key{Value: e.key}), fn)
	}
}
