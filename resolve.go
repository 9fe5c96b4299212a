package structdiff

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrNotFound is the failure kind of Resolve, Update & Patch: a path step
// doesn't match the shape of the value it's applied to. Test for it with
// errors.Is, the concrete error is a *NotFoundError
var ErrNotFound = errors.New("not found")

// NotFoundError describes where & why a path failed to resolve
type NotFoundError struct {
	// Path is the full path being resolved
	Path Path
	// Pos is the index of the step in Path that failed
	Pos int
	// Reason is a human-readable cause
	Reason string
}

func (e *NotFoundError) Error() string {
	if e.Path == nil {
		return fmt.Sprintf("not found: %s", e.Reason)
	}
	return fmt.Sprintf("not found: %s at step %d of %s", e.Reason, e.Pos, e.Path)
}

// Is makes errors.Is(err, ErrNotFound) hold for every NotFoundError
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func notFound(format string, args ...interface{}) error {
	return &NotFoundError{Reason: fmt.Sprintf(format, args...)}
}

// located attaches path information to an error returned by an Accessor
func located(err error, p Path, pos int) error {
	if nf, ok := err.(*NotFoundError); ok {
		return &NotFoundError{Path: p, Pos: pos, Reason: nf.Reason}
	}
	return &NotFoundError{Path: p, Pos: pos, Reason: err.Error()}
}

// Resolve reads the value at path p in v
func Resolve(v interface{}, p Path) (interface{}, error) {
	for i, acc := range ToNativeSteps(p) {
		var err error
		if v, err = acc.Get(v); err != nil {
			return nil, located(err, p, i)
		}
	}
	return v, nil
}

// Update returns a copy of v with the value at path p replaced by nv. v is
// never modified: every container along the path is copied, everything off
// the path is shared with v. Update fails under the same conditions as
// Resolve, and when nv can't be stored in the addressed container
func Update(v interface{}, p Path, nv interface{}) (interface{}, error) {
	return modify(v, p, func(interface{}) (interface{}, error) {
		return nv, nil
	})
}

// modify resolves p, replaces the value found there with the result of fn
// and rebuilds every container on the way back up
func modify(v interface{}, p Path, fn func(cur interface{}) (interface{}, error)) (interface{}, error) {
	return modifyAt(v, p, ToNativeSteps(p), 0, fn)
}

func modifyAt(v interface{}, p Path, acc []Accessor, i int, fn func(interface{}) (interface{}, error)) (interface{}, error) {
	if i == len(acc) {
		return fn(v)
	}

	child, err := acc[i].Get(v)
	if err != nil {
		return nil, located(err, p, i)
	}
	nchild, err := modifyAt(child, p, acc, i+1, fn)
	if err != nil {
		return nil, err
	}
	out, err := acc[i].Put(v, nchild)
	if err != nil {
		return nil, located(err, p, i)
	}
	return out, nil
}
