package structdiff

import (
	"io"
	"reflect"

	"github.com/sirupsen/logrus"
)

// Explain computes the list of edits that describe how right differs from
// left. Explain never fails: every divergence, including mismatched shapes,
// is reported as an edit. Equal values produce an empty list
func Explain(left, right interface{}, opts ...Option) Edits {
	return New(opts...).Explain(left, right)
}

// Config are any possible configuration parameters for calculating diffs
type Config struct {
	// MaxDepth bounds recursion. Unequal containers found at MaxDepth are
	// reported as a single Changed edit instead of being descended into.
	// zero means unbounded
	MaxDepth int
	// Provide a non-nil stats pointer & Explain will populate it with data
	// from the diff process
	Stats *Stats
	// Logger receives debug output about short-circuited comparisons
	Logger logrus.FieldLogger
}

// Option is a function that adjusts a config, zero or more Options can be
// passed to New or Explain
type Option func(cfg *Config)

// OptionMaxDepth sets the maximum nesting depth Explain will descend into
func OptionMaxDepth(depth int) Option {
	return func(cfg *Config) {
		cfg.MaxDepth = depth
	}
}

// OptionSetStats will set the passed-in stats pointer when Explain is called
func OptionSetStats(st *Stats) Option {
	return func(cfg *Config) {
		cfg.Stats = st
	}
}

// OptionLogger sets the logger, passing nil silences logging
func OptionLogger(l logrus.FieldLogger) Option {
	return func(cfg *Config) {
		if l == nil {
			discard := logrus.New()
			discard.SetOutput(io.Discard)
			l = discard
		}
		cfg.Logger = l
	}
}

// Differ calculates structural diffs. A Differ only holds configuration,
// it's safe for concurrent use unless it's been configured with Stats
type Differ struct {
	cfg *Config
}

// New creates a Differ
func New(opts ...Option) *Differ {
	cfg := &Config{
		Logger: logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Differ{cfg: cfg}
}

// Explain computes the edits between left & right
func (d *Differ) Explain(left, right interface{}) Edits {
	edits := d.diff(left, right, nil, 0)
	if edits == nil {
		edits = Edits{}
	}
	if d.cfg.Stats != nil {
		d.cfg.Stats.calc(left, right, edits)
	}
	return edits
}

// diff dispatches on the shape of both sides. the caller is responsible for
// extending p with the step that leads to left & right
func (d *Differ) diff(left, right interface{}, p Path, depth int) Edits {
	if equal(left, right) {
		return nil
	}

	lv, rv := reflect.ValueOf(left), reflect.ValueOf(right)
	ls, rs := classify(lv), classify(rv)
	if !sameShape(ls, rs, lv, rv) {
		d.cfg.Logger.Debugf("type changed at %s: %s -> %s", p, shapeName{ls, lv}, shapeName{rs, rv})
		return Edits{TypeChanged{Path: p, Old: left, New: right}}
	}

	switch ls {
	case ShapeStruct:
		return d.diffStruct(lv, rv, p, depth)
	case ShapeMap:
		if d.tooDeep(p, depth) {
			return Edits{Changed{Path: p, Old: left, New: right}}
		}
		return d.diffEntries(mapEntries(lv), mapEntries(rv), p, depth)
	case ShapeKeyedSequence, ShapeSequence:
		return d.diffSequence(lv, rv, p, depth)
	case ShapeComposite:
		return d.diffComposite(lv, rv, p, depth)
	default:
		return Edits{Changed{Path: p, Old: left, New: right}}
	}
}

func (d *Differ) tooDeep(p Path, depth int) bool {
	if d.cfg.MaxDepth > 0 && depth >= d.cfg.MaxDepth {
		d.cfg.Logger.Warnf("max depth %d reached at %s, not descending", d.cfg.MaxDepth, p)
		return true
	}
	return false
}

// diffEntries compares associative members by key. removals come first, then
// additions, then the edits of keys present on both sides
func (d *Differ) diffEntries(l, r []entry, p Path, depth int) Edits {
	var removed, added, changed Edits
	li, ri := keyIndex(l), keyIndex(r)

	for _, le := range l {
		if i, ok := ri[le.key]; ok {
			changed = append(changed, d.diff(le.value, r[i].value, p.Append(Key{Value: le.key}), depth+1)...)
			continue
		}
		removed = append(removed, Removed{Path: p.Append(Key{Value: le.key}), Value: le.value})
	}
	for _, re := range r {
		if _, ok := li[re.key]; !ok {
			added = append(added, Added{Path: p.Append(Key{Value: re.key}), Value: re.value})
		}
	}

	edits := append(removed, added...)
	return append(edits, changed...)
}

// keyIndex maps keys to entry positions. keys of maps, structs and keyed
// sequences are always comparable
func keyIndex(es []entry) map[interface{}]int {
	idx := make(map[interface{}]int, len(es))
	for i, e := range es {
		idx[e.key] = i
	}
	return idx
}

// diffStruct treats both structs as maps of their exported fields
func (d *Differ) diffStruct(lv, rv reflect.Value, p Path, depth int) Edits {
	if d.tooDeep(p, depth) {
		return Edits{Changed{Path: p, Old: lv.Interface(), New: rv.Interface()}}
	}
	edits := d.diffEntries(structEntries(lv), structEntries(rv), p, depth)
	if len(edits) == 0 && hasUnexported(lv.Type()) {
		// only unexported state differs, which can't be addressed by a path
		return Edits{Changed{Path: p, Old: lv.Interface(), New: rv.Interface()}}
	}
	return edits
}

// diffSequence compares sequences by position. when both sides are keyed
// sequences they're compared as maps instead
func (d *Differ) diffSequence(lv, rv reflect.Value, p Path, depth int) Edits {
	if d.tooDeep(p, depth) {
		return Edits{Changed{Path: p, Old: lv.Interface(), New: rv.Interface()}}
	}
	if lp, ok := pairs(lv); ok {
		if rp, ok := pairs(rv); ok {
			sortEntries(lp)
			sortEntries(rp)
			return d.diffEntries(lp, rp, p, depth)
		}
	}

	var edits Edits
	ll, rl := lv.Len(), rv.Len()
	n := ll
	if rl > n {
		n = rl
	}
	for i := 0; i < n; i++ {
		ip := p.Append(Index(i))
		switch {
		case i >= rl:
			edits = append(edits, Removed{Path: ip, Value: lv.Index(i).Interface()})
		case i >= ll:
			edits = append(edits, Added{Path: ip, Value: rv.Index(i).Interface()})
		default:
			edits = append(edits, d.diff(lv.Index(i).Interface(), rv.Index(i).Interface(), ip, depth+1)...)
		}
	}
	return edits
}

// diffComposite compares fixed-arity composites slot by slot. composites of
// different arity aren't descended into
func (d *Differ) diffComposite(lv, rv reflect.Value, p Path, depth int) Edits {
	if lv.Len() != rv.Len() {
		d.cfg.Logger.Debugf("arity changed at %s: %d -> %d", p, lv.Len(), rv.Len())
		return Edits{ArityChanged{Path: p, Old: lv.Len(), New: rv.Len()}}
	}
	if d.tooDeep(p, depth) {
		return Edits{Changed{Path: p, Old: lv.Interface(), New: rv.Interface()}}
	}

	var edits Edits
	for i := 0; i < lv.Len(); i++ {
		edits = append(edits, d.diff(lv.Index(i).Interface(), rv.Index(i).Interface(), p.Append(Slot(i)), depth+1)...)
	}
	return edits
}

// shapeName is a log argument naming a value's shape, or its type for
// structs. it's only formatted when the log line is emitted
type shapeName struct {
	s  Shape
	rv reflect.Value
}

func (n shapeName) String() string {
	if n.s == ShapeStruct {
		return n.rv.Type().String()
	}
	return n.s.String()
}
