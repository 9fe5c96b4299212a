package structdiff

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Step is one segment of a Path. Step is a closed set: Key, Index and Slot
type Step interface {
	String() string
	isStep()
}

// Key selects an entry of a map, an exported field of a struct (by field
// name), or the pair carrying Value in a keyed sequence
type Key struct {
	Value interface{}
}

// Index selects the i-th element (0-based) of an ordered sequence
type Index int

// Slot selects the i-th position (0-based) of a fixed-arity composite
type Slot int

func (Key) isStep()   {}
func (Index) isStep() {}
func (Slot) isStep()  {}

func (k Key) String() string   { return fmt.Sprint(k.Value) }
func (i Index) String() string { return strconv.Itoa(int(i)) }
func (s Slot) String() string  { return "#" + strconv.Itoa(int(s)) }

// MarshalJSON encodes string keys as plain JSON strings, symbols as
// {"symbol": name}, and any other key as {"key": value} so it can't be
// confused with an Index
func (k Key) MarshalJSON() ([]byte, error) {
	switch x := k.Value.(type) {
	case string:
		return json.Marshal(x)
	case Symbol:
		return json.Marshal(map[string]string{"symbol": string(x)})
	}
	return json.Marshal(map[string]interface{}{"key": k.Value})
}

// MarshalJSON encodes a slot as {"slot": n}
func (s Slot) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]int{"slot": int(s)})
}

// MarshalYAML implements yaml.Marshaler with the same layout as MarshalJSON
func (k Key) MarshalYAML() (interface{}, error) {
	switch x := k.Value.(type) {
	case string:
		return x, nil
	case Symbol:
		return map[string]string{"symbol": string(x)}, nil
	}
	return map[string]interface{}{"key": k.Value}, nil
}

// MarshalYAML implements yaml.Marshaler
func (s Slot) MarshalYAML() (interface{}, error) {
	return map[string]int{"slot": int(s)}, nil
}

// Path is an ordered sequence of steps, outermost first. The empty path
// addresses the root value
type Path []Step

// String renders the path slash-separated, slots are prefixed with "#"
func (p Path) String() string {
	if len(p) == 0 {
		return "/"
	}
	strs := make([]string, len(p))
	for i, s := range p {
		strs[i] = s.String()
	}
	return "/" + strings.Join(strs, "/")
}

// Append returns a new path with s added. p is never modified, so paths
// handed out to callers don't share backing arrays
func (p Path) Append(s Step) Path {
	np := make(Path, len(p), len(p)+1)
	copy(np, p)
	return append(np, s)
}

// Equal reports whether two paths address the same location
func (p Path) Equal(o Path) bool {
	return len(p) == len(o) && p.HasPrefix(o)
}

// HasPrefix reports whether pre addresses p or one of p's ancestors
func (p Path) HasPrefix(pre Path) bool {
	if len(pre) > len(p) {
		return false
	}
	for i, s := range pre {
		if !sameStep(p[i], s) {
			return false
		}
	}
	return true
}

func sameStep(a, b Step) bool {
	switch x := a.(type) {
	case Key:
		y, ok := b.(Key)
		return ok && sameKey(x.Value, y.Value)
	default:
		return a == b
	}
}

// MarshalJSON always emits a list, the root path is []
func (p Path) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Step(p))
}

// MarshalYAML implements yaml.Marshaler
func (p Path) MarshalYAML() (interface{}, error) {
	steps := make([]interface{}, len(p))
	for i, s := range p {
		steps[i] = s
	}
	return steps, nil
}

// UnmarshalJSON decodes the layout written by MarshalJSON: strings are keys,
// numbers are indices, {"slot": n} is a slot, {"symbol": name} a Symbol key
// and {"key": v} any other key
func (p *Path) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	steps := make(Path, len(raw))
	for i, r := range raw {
		s, err := decodeStep(r)
		if err != nil {
			return errors.Wrapf(err, "step %d", i)
		}
		steps[i] = s
	}
	*p = steps
	return nil
}

func decodeStep(data json.RawMessage) (Step, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("empty step")
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, err
		}
		return Key{Value: s}, nil
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(data, &obj); err != nil {
			return nil, err
		}
		if raw, ok := obj["slot"]; ok {
			var i int
			if err := json.Unmarshal(raw, &i); err != nil {
				return nil, errors.Wrap(err, "invalid slot")
			}
			return Slot(i), nil
		}
		if raw, ok := obj["key"]; ok {
			var k interface{}
			if err := json.Unmarshal(raw, &k); err != nil {
				return nil, errors.Wrap(err, "invalid key")
			}
			return Key{Value: k}, nil
		}
		if raw, ok := obj["symbol"]; ok {
			var name string
			if err := json.Unmarshal(raw, &name); err != nil {
				return nil, errors.Wrap(err, "invalid symbol")
			}
			return Key{Value: Symbol(name)}, nil
		}
		return nil, fmt.Errorf("unrecognized step: %s", data)
	case 'n':
		return nil, fmt.Errorf("null step")
	default:
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return nil, errors.Wrap(err, "invalid index")
		}
		return Index(i), nil
	}
}

// ParsePath decodes a path from its JSON form, eg: ["a", 1, {"slot": 0}]
func ParsePath(s string) (Path, error) {
	var p Path
	if err := json.Unmarshal([]byte(s), &p); err != nil {
		return nil, errors.Wrapf(err, "parsing path %q", s)
	}
	return p, nil
}

// JSONPointer renders p as an IETF JSON pointer (RFC 6901). Indices and slots
// both become array indices, non-string keys are formatted with fmt
func JSONPointer(p Path) string {
	var buf strings.Builder
	for _, s := range p {
		buf.WriteByte('/')
		switch x := s.(type) {
		case Key:
			tok := fmt.Sprint(x.Value)
			tok = strings.ReplaceAll(tok, "~", "~0")
			tok = strings.ReplaceAll(tok, "/", "~1")
			buf.WriteString(tok)
		case Index:
			buf.WriteString(strconv.Itoa(int(x)))
		case Slot:
			buf.WriteString(strconv.Itoa(int(x)))
		}
	}
	return buf.String()
}
