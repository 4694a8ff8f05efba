// Package document models schema-less agreement documents as an ordered tree of
// mappings, sequences and scalars.
//
// Agreements arrive as arbitrary JSON objects whose shape differs per bargaining
// unit, so nothing here assumes a schema. Key order is always the order in which
// keys were first seen in the source; it is never sorted.
package document

// Value is one node of a document tree. It is implemented by *Mapping, Sequence
// and Scalar only.
type Value interface {
	isValue()
}

// ScalarKind distinguishes the JSON leaf types.
type ScalarKind int

const (
	KindString ScalarKind = iota
	KindNumber
	KindBool
	KindNull
)

// Scalar is a leaf value. Text holds the unescaped string for strings, the
// literal source text for numbers, and "true", "false" or "null" otherwise.
type Scalar struct {
	Kind ScalarKind
	Text string
}

// String returns the scalar text.
func (s Scalar) String() string { return s.Text }

// Sequence is an ordered list of values.
type Sequence []Value

// Mapping is an insertion-ordered string-keyed map.
type Mapping struct {
	keys  []string
	index map[string]int
	vals  []Value
}

func (Scalar) isValue()   {}
func (Sequence) isValue() {}
func (*Mapping) isValue() {}

// NewMapping returns an empty mapping.
func NewMapping() *Mapping {
	return &Mapping{index: make(map[string]int)}
}

// Set stores v under key. A key that already exists keeps its position and
// takes the new value.
func (m *Mapping) Set(key string, v Value) {
	if i, ok := m.index[key]; ok {
		m.vals[i] = v
		return
	}
	m.index[key] = len(m.keys)
	m.keys = append(m.keys, key)
	m.vals = append(m.vals, v)
}

// Get returns the value stored under key.
func (m *Mapping) Get(key string) (Value, bool) {
	if m == nil {
		return nil, false
	}
	i, ok := m.index[key]
	if !ok {
		return nil, false
	}
	return m.vals[i], true
}

// Len returns the number of keys. A nil mapping has length zero.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns a copy of the keys in order.
func (m *Mapping) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Each calls fn for every entry in order.
func (m *Mapping) Each(fn func(key string, v Value)) {
	if m == nil {
		return
	}
	for i, k := range m.keys {
		fn(k, m.vals[i])
	}
}

// Update copies every top-level entry of other into m, left to right. Colliding
// keys are overwritten wholesale; nested values are never merged.
func (m *Mapping) Update(other *Mapping) {
	other.Each(func(key string, v Value) {
		m.Set(key, v)
	})
}

// Walk visits v and its descendants depth first, parents before children.
// Returning false from fn skips the children of that value.
func Walk(v Value, fn func(v Value, depth int) bool) {
	walk(v, 0, fn)
}

func walk(v Value, depth int, fn func(v Value, depth int) bool) {
	if !fn(v, depth) {
		return
	}
	switch t := v.(type) {
	case *Mapping:
		t.Each(func(_ string, child Value) {
			walk(child, depth+1, fn)
		})
	case Sequence:
		for _, child := range t {
			walk(child, depth+1, fn)
		}
	}
}
