package document

import (
	"errors"
	"reflect"
	"testing"
)

func TestParse_PreservesKeyOrder(t *testing.T) {
	m, err := Parse([]byte(`{"zeta": 1, "alpha": {"b": "x", "a": "y"}, "mid": [1, "two", {"k": true}]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got, want := m.Keys(), []string{"zeta", "alpha", "mid"}; !reflect.DeepEqual(got, want) {
		t.Errorf("top-level keys: got %v, want %v", got, want)
	}

	alpha, _ := m.Get("alpha")
	inner, ok := alpha.(*Mapping)
	if !ok {
		t.Fatalf("expected alpha to be a mapping, got %T", alpha)
	}
	if got, want := inner.Keys(), []string{"b", "a"}; !reflect.DeepEqual(got, want) {
		t.Errorf("nested keys: got %v, want %v", got, want)
	}

	mid, _ := m.Get("mid")
	seq, ok := mid.(Sequence)
	if !ok {
		t.Fatalf("expected mid to be a sequence, got %T", mid)
	}
	if len(seq) != 3 {
		t.Fatalf("expected 3 items, got %d", len(seq))
	}
	if s, ok := seq[1].(Scalar); !ok || s.Text != "two" || s.Kind != KindString {
		t.Errorf("expected string scalar 'two', got %#v", seq[1])
	}
	if _, ok := seq[2].(*Mapping); !ok {
		t.Errorf("expected mapping item, got %T", seq[2])
	}
}

func TestParse_Scalars(t *testing.T) {
	m, err := Parse([]byte(`{"n": 1.50, "t": true, "f": false, "z": null, "s": "a\nb"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		key  string
		kind ScalarKind
		text string
	}{
		{"n", KindNumber, "1.50"},
		{"t", KindBool, "true"},
		{"f", KindBool, "false"},
		{"z", KindNull, "null"},
		{"s", KindString, "a\nb"},
	}
	for _, tt := range tests {
		v, ok := m.Get(tt.key)
		if !ok {
			t.Errorf("missing key %q", tt.key)
			continue
		}
		s, ok := v.(Scalar)
		if !ok {
			t.Errorf("%s: expected scalar, got %T", tt.key, v)
			continue
		}
		if s.Kind != tt.kind || s.Text != tt.text {
			t.Errorf("%s: got (%d, %q), want (%d, %q)", tt.key, s.Kind, s.Text, tt.kind, tt.text)
		}
	}
}

func TestParse_DuplicateKeyKeepsFirstPositionLastValue(t *testing.T) {
	m, err := Parse([]byte(`{"a": 1, "b": 2, "a": 3}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := m.Keys(), []string{"a", "b"}; !reflect.DeepEqual(got, want) {
		t.Errorf("keys: got %v, want %v", got, want)
	}
	v, _ := m.Get("a")
	if v.(Scalar).Text != "3" {
		t.Errorf("expected last value 3, got %v", v)
	}
}

func TestParse_Errors(t *testing.T) {
	if _, err := Parse([]byte(`{"a": `)); !errors.Is(err, ErrInvalidJSON) {
		t.Errorf("expected ErrInvalidJSON, got %v", err)
	}
	if _, err := Parse([]byte(`[1, 2]`)); !errors.Is(err, ErrNotObject) {
		t.Errorf("expected ErrNotObject for array, got %v", err)
	}
	if _, err := Parse([]byte(`"text"`)); !errors.Is(err, ErrNotObject) {
		t.Errorf("expected ErrNotObject for string, got %v", err)
	}
}

func TestParse_RejectsInvalidUTF8(t *testing.T) {
	_, err := Parse([]byte("{\"a\": \"bad \xff\xfe bytes\"}"))
	if !errors.Is(err, ErrInvalidUTF8) {
		t.Errorf("expected ErrInvalidUTF8, got %v", err)
	}
}

func TestParse_ToleratesBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte(`{"a": "b"}`)...)
	m, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Len() != 1 {
		t.Errorf("expected 1 key, got %d", m.Len())
	}
}

func TestUpdate_LastWriteWins(t *testing.T) {
	first, _ := Parse([]byte(`{"a": 1, "keep": {"x": "1"}}`))
	second, _ := Parse([]byte(`{"a": 2, "keep": {"y": "2"}, "new": "n"}`))

	merged := NewMapping()
	merged.Update(first)
	merged.Update(second)

	if got, want := merged.Keys(), []string{"a", "keep", "new"}; !reflect.DeepEqual(got, want) {
		t.Errorf("keys: got %v, want %v", got, want)
	}
	a, _ := merged.Get("a")
	if a.(Scalar).Text != "2" {
		t.Errorf("expected a=2, got %v", a)
	}

	// Nested mappings are replaced, not merged.
	keep, _ := merged.Get("keep")
	if _, ok := keep.(*Mapping).Get("x"); ok {
		t.Error("expected nested key x to be replaced by the later fragment")
	}
}

func TestNilMapping(t *testing.T) {
	var m *Mapping
	if m.Len() != 0 {
		t.Error("nil mapping should have length 0")
	}
	if _, ok := m.Get("a"); ok {
		t.Error("nil mapping should have no keys")
	}
	if m.Keys() != nil {
		t.Error("nil mapping keys should be nil")
	}
}

func TestWalk(t *testing.T) {
	m, _ := Parse([]byte(`{"a": {"b": ["x", "y"], "c": "z"}, "d": 1}`))

	var scalars, maxDepth int
	Walk(m, func(v Value, depth int) bool {
		if _, ok := v.(Scalar); ok {
			scalars++
		}
		if depth > maxDepth {
			maxDepth = depth
		}
		return true
	})
	if scalars != 4 {
		t.Errorf("expected 4 scalars, got %d", scalars)
	}
	if maxDepth != 3 {
		t.Errorf("expected max depth 3, got %d", maxDepth)
	}

	visited := 0
	Walk(m, func(v Value, depth int) bool {
		visited++
		return depth == 0
	})
	if visited != 3 {
		t.Errorf("expected root + 2 children when pruning, got %d", visited)
	}
}
