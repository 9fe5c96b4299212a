// Package structdiff explains how two Go values differ as a flat list of
// edits, each addressed by a path into the value's shape tree
//
// structdiff operates on native go types through reflection: structs, maps,
// slices, arrays, and scalars. Every value is classified into a Shape, and two
// values are only compared member by member when their shapes agree. A shape
// mismatch is reported as a single TypeChanged edit, and fixed-arity
// composites (arrays and Tuples) of different size as a single ArityChanged
//
//	left  := map[string]interface{}{"a": 1, "b": []interface{}{1, 2}}
//	right := map[string]interface{}{"a": 2, "b": []interface{}{1}}
//	structdiff.Explain(left, right)
//	// [["~",["a"],1,2], ["-",["b",1],2]]
//
// Sequences are compared by position, not by alignment: inserting an element
// in the middle of a list changes every element after it. The exception is a
// keyed sequence, a list of pairs with distinct keys (Tuples, [2]T arrays, or
// goccy/go-yaml MapItems) which is compared like a map
//
// Paths produced by Explain can be read & written with Resolve and Update.
// Neither mutates its input. Patch applies a whole edit list, and JSONPatch
// renders one as an RFC 6902 JSON Patch
package structdiff
