package document

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Kind identifies the shape of a Value node.
type Kind int

const (
	// KindInvalid is the zero Value; it appears only before construction.
	KindInvalid Kind = iota
	// KindScalar is a leaf: text, number, boolean or null.
	KindScalar
	// KindSequence is an ordered list of values.
	KindSequence
	// KindMapping is a string-keyed collection that preserves insertion order.
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "invalid"
	}
}

// ScalarKind records how the source format classified a scalar leaf.
type ScalarKind int

const (
	ScalarString ScalarKind = iota
	ScalarInt
	ScalarFloat
	ScalarBool
	ScalarNull
)

func (k ScalarKind) String() string {
	switch k {
	case ScalarInt:
		return "integer"
	case ScalarFloat:
		return "float"
	case ScalarBool:
		return "boolean"
	case ScalarNull:
		return "null"
	default:
		return "string"
	}
}

// Value is one node of a configuration tree.
//
// The zero Value is invalid; build nodes with the New* constructors. Mapping
// mutation (Put, Delete) keeps first-insertion key order, which downstream
// consumers rely on for deterministic reporting.
type Value struct {
	kind   Kind
	tag    string
	text   string
	scalar ScalarKind

	items []Value

	keys    []string
	entries map[string]Value
}

// NewString returns a text scalar.
func NewString(s string) Value {
	return Value{kind: KindScalar, scalar: ScalarString, text: s}
}

// NewInt returns an integer scalar.
func NewInt(n int64) Value {
	return Value{kind: KindScalar, scalar: ScalarInt, text: strconv.FormatInt(n, 10)}
}

// NewFloat returns a floating point scalar.
func NewFloat(f float64) Value {
	return Value{kind: KindScalar, scalar: ScalarFloat, text: strconv.FormatFloat(f, 'g', -1, 64)}
}

// NewBool returns a boolean scalar.
func NewBool(b bool) Value {
	return Value{kind: KindScalar, scalar: ScalarBool, text: strconv.FormatBool(b)}
}

// Null returns the null scalar.
func Null() Value {
	return Value{kind: KindScalar, scalar: ScalarNull}
}

// NewScalar returns a scalar with an explicit kind and raw text. Format
// adapters use it to preserve the exact source spelling of numbers.
func NewScalar(kind ScalarKind, text string) Value {
	return Value{kind: KindScalar, scalar: kind, text: text}
}

// NewSequence returns a sequence holding the given items.
func NewSequence(items ...Value) Value {
	v := Value{kind: KindSequence}
	v.items = append(v.items, items...)
	return v
}

// NewMapping returns an empty mapping. Populate it with Put.
func NewMapping() Value {
	return Value{kind: KindMapping, entries: map[string]Value{}}
}

// Kind reports the shape of the node.
func (v Value) Kind() Kind { return v.kind }

// Tag returns the node's tag ("!string", "!ref", ...) or "" when untagged.
func (v Value) Tag() string { return v.tag }

// WithTag returns a shallow copy of the node carrying the given tag.
func (v Value) WithTag(tag string) Value {
	v.tag = tag
	return v
}

// IsZero reports whether the value was never constructed.
func (v Value) IsZero() bool { return v.kind == KindInvalid }

// Text returns the raw text of a scalar, or "" for collections and null.
func (v Value) Text() string { return v.text }

// Scalar reports how the scalar was classified by its source format.
// It returns ScalarString for non-scalar nodes.
func (v Value) Scalar() ScalarKind {
	if v.kind != KindScalar {
		return ScalarString
	}
	return v.scalar
}

// IsNull reports whether the node is the null scalar.
func (v Value) IsNull() bool {
	return v.kind == KindScalar && v.scalar == ScalarNull
}

// Int64 parses the scalar as an integer. It succeeds only for ScalarInt.
func (v Value) Int64() (int64, bool) {
	if v.kind != KindScalar || v.scalar != ScalarInt {
		return 0, false
	}
	n, err := strconv.ParseInt(v.text, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Float64 parses the scalar as a number. Integer scalars convert losslessly
// within float64 range.
func (v Value) Float64() (float64, bool) {
	if v.kind != KindScalar || (v.scalar != ScalarInt && v.scalar != ScalarFloat) {
		return 0, false
	}
	f, err := strconv.ParseFloat(v.text, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Bool returns the scalar's boolean value.
func (v Value) Bool() (bool, bool) {
	if v.kind != KindScalar || v.scalar != ScalarBool {
		return false, false
	}
	return v.text == "true", true
}

// Len returns the number of items in a sequence or entries in a mapping.
func (v Value) Len() int {
	switch v.kind {
	case KindSequence:
		return len(v.items)
	case KindMapping:
		return len(v.keys)
	default:
		return 0
	}
}

// Index returns the i-th item of a sequence. It panics when out of range,
// mirroring slice semantics.
func (v Value) Index(i int) Value {
	if v.kind != KindSequence {
		panic("document: Index on non-sequence value")
	}
	return v.items[i]
}

// Items returns the sequence's backing items. Callers must not mutate it.
func (v Value) Items() []Value {
	return v.items
}

// Append adds items to the end of a sequence.
func (v *Value) Append(items ...Value) {
	if v.kind != KindSequence {
		panic("document: Append on non-sequence value")
	}
	v.items = append(v.items, items...)
}

// Keys returns the mapping keys in insertion order. Callers must not
// mutate the returned slice.
func (v Value) Keys() []string {
	return v.keys
}

// Get returns the value stored under key.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindMapping {
		return Value{}, false
	}
	e, ok := v.entries[key]
	return e, ok
}

// Put stores val under key. A new key is appended to the insertion order;
// overwriting keeps the original position.
func (v *Value) Put(key string, val Value) {
	if v.kind != KindMapping {
		panic("document: Put on non-mapping value")
	}
	if v.entries == nil {
		v.entries = map[string]Value{}
	}
	if _, exists := v.entries[key]; !exists {
		v.keys = append(v.keys, key)
	}
	v.entries[key] = val
}

// Delete removes key from a mapping and reports whether it was present.
func (v *Value) Delete(key string) bool {
	if v.kind != KindMapping {
		return false
	}
	if _, ok := v.entries[key]; !ok {
		return false
	}
	delete(v.entries, key)
	for i, k := range v.keys {
		if k == key {
			v.keys = append(v.keys[:i], v.keys[i+1:]...)
			break
		}
	}
	return true
}

// Clone returns a deep copy of the tree rooted at v.
func (v Value) Clone() Value {
	out := v
	switch v.kind {
	case KindSequence:
		out.items = make([]Value, len(v.items))
		for i, it := range v.items {
			out.items[i] = it.Clone()
		}
	case KindMapping:
		out.keys = append([]string(nil), v.keys...)
		out.entries = make(map[string]Value, len(v.entries))
		for k, e := range v.entries {
			out.entries[k] = e.Clone()
		}
	}
	return out
}

// Equal reports deep structural equality, including tags, scalar
// classification and mapping key order.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind || v.tag != o.tag {
		return false
	}
	switch v.kind {
	case KindScalar:
		return v.scalar == o.scalar && v.text == o.text
	case KindSequence:
		if len(v.items) != len(o.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(o.items[i]) {
				return false
			}
		}
		return true
	case KindMapping:
		if len(v.keys) != len(o.keys) {
			return false
		}
		for i, k := range v.keys {
			if o.keys[i] != k {
				return false
			}
			if !v.entries[k].Equal(o.entries[k]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// Lookup resolves a path from v and reports whether every step matched.
func (v Value) Lookup(p Path) (Value, bool) {
	cur := v
	for _, s := range p.steps {
		if s.isIndex {
			if cur.kind != KindSequence || s.index < 0 || s.index >= len(cur.items) {
				return Value{}, false
			}
			cur = cur.items[s.index]
			continue
		}
		next, ok := cur.Get(s.key)
		if !ok {
			return Value{}, false
		}
		cur = next
	}
	return cur, true
}

// Set stores val at path p, creating intermediate mappings for missing keys.
// Index steps must resolve to existing sequence slots.
func (v *Value) Set(p Path, val Value) error {
	if len(p.steps) == 0 {
		*v = val
		return nil
	}
	return v.set(p, 0, val)
}

func (v *Value) set(p Path, depth int, val Value) error {
	s := p.steps[depth]
	last := depth == len(p.steps)-1

	if s.isIndex {
		if v.kind != KindSequence {
			return fmt.Errorf("document: %s: cannot index into %s", p.prefix(depth), v.kind)
		}
		if s.index < 0 || s.index >= len(v.items) {
			return fmt.Errorf("document: %s: index %d out of range", p.prefix(depth), s.index)
		}
		if last {
			v.items[s.index] = val
			return nil
		}
		return v.items[s.index].set(p, depth+1, val)
	}

	if v.kind != KindMapping {
		return fmt.Errorf("document: %s: cannot descend into %s", p.prefix(depth), v.kind)
	}
	if last {
		v.Put(s.key, val)
		return nil
	}
	child, ok := v.entries[s.key]
	if !ok {
		child = NewMapping()
	}
	if err := child.set(p, depth+1, val); err != nil {
		return err
	}
	v.Put(s.key, child)
	return nil
}

// Interface converts the tree to plain Go values: map[string]any for
// mappings, []any for sequences, and int64/float64/bool/nil/string for
// scalars. Mapping order is not preserved.
func (v Value) Interface() any {
	switch v.kind {
	case KindScalar:
		switch v.scalar {
		case ScalarInt:
			if n, ok := v.Int64(); ok {
				return n
			}
			return v.text
		case ScalarFloat:
			if f, ok := v.Float64(); ok {
				return f
			}
			return v.text
		case ScalarBool:
			return v.text == "true"
		case ScalarNull:
			return nil
		default:
			return v.text
		}
	case KindSequence:
		out := make([]any, len(v.items))
		for i, it := range v.items {
			out[i] = it.Interface()
		}
		return out
	case KindMapping:
		out := make(map[string]any, len(v.keys))
		for _, k := range v.keys {
			out[k] = v.entries[k].Interface()
		}
		return out
	default:
		return nil
	}
}

// FromGo converts plain Go values into a tree. Maps are keyed in sorted
// order so the result is deterministic; adapters that care about source
// order build trees directly instead.
func FromGo(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case string:
		return NewString(t), nil
	case bool:
		return NewBool(t), nil
	case int:
		return NewInt(int64(t)), nil
	case int32:
		return NewInt(int64(t)), nil
	case int64:
		return NewInt(t), nil
	case uint64:
		return NewScalar(ScalarInt, strconv.FormatUint(t, 10)), nil
	case float32:
		return NewFloat(float64(t)), nil
	case float64:
		return NewFloat(t), nil
	case []any:
		seq := NewSequence()
		for _, it := range t {
			child, err := FromGo(it)
			if err != nil {
				return Value{}, err
			}
			seq.Append(child)
		}
		return seq, nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		m := NewMapping()
		for _, k := range keys {
			child, err := FromGo(t[k])
			if err != nil {
				return Value{}, err
			}
			m.Put(k, child)
		}
		return m, nil
	default:
		return Value{}, fmt.Errorf("document: unsupported Go value %T", x)
	}
}

// String renders a compact single-line debug form.
func (v Value) String() string {
	var b strings.Builder
	v.write(&b)
	return b.String()
}

func (v Value) write(b *strings.Builder) {
	if v.tag != "" {
		b.WriteString(v.tag)
		b.WriteByte(' ')
	}
	switch v.kind {
	case KindScalar:
		if v.scalar == ScalarNull {
			b.WriteString("null")
			return
		}
		if v.scalar == ScalarString {
			b.WriteString(strconv.Quote(v.text))
			return
		}
		b.WriteString(v.text)
	case KindSequence:
		b.WriteByte('[')
		for i, it := range v.items {
			if i > 0 {
				b.WriteString(", ")
			}
			it.write(b)
		}
		b.WriteByte(']')
	case KindMapping:
		b.WriteByte('{')
		for i, k := range v.keys {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(k)
			b.WriteString(": ")
			e := v.entries[k]
			e.write(b)
		}
		b.WriteByte('}')
	default:
		b.WriteString("<invalid>")
	}
}
