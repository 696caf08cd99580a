package ast

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestMetric_KeyOrder(t *testing.T) {
	m := NewMetric("load").
		Set("series", "a.b").
		Set("scale", 2).
		Set("alias", "Load")

	m.Set("series", "c.d")
	if diff := cmp.Diff([]string{"series", "scale", "alias"}, m.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}

	m.Delete("scale")
	m.Delete("missing")
	if diff := cmp.Diff([]string{"series", "alias"}, m.Keys()); diff != "" {
		t.Errorf("Keys() after Delete mismatch (-want +got):\n%s", diff)
	}

	v, _ := m.Get("series")
	assert.Equal(t, "c.d", v)
	assert.Equal(t, 2, m.Len())
}

func TestMetric_Pop(t *testing.T) {
	m := NewMetric("x").Set(":extends", "base")

	assert.Equal(t, "base", m.Pop(":extends", nil))
	assert.False(t, m.Has(":extends"))
	assert.Equal(t, "fallback", m.Pop(":extends", "fallback"))
}

func TestFromMap_SortsKeys(t *testing.T) {
	m := FromMap(map[string]any{"scale": 2, "alias": "x", "series": "a"})
	if diff := cmp.Diff([]string{"alias", "scale", "series"}, m.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
}

func TestMetric_Merge(t *testing.T) {
	parent := NewMetric("base").Set("series", "a.b").Set("scale", 2).Set("color", "red")
	child := NewMetric("child").Set("scale", 3).Set("alias", "Child")

	merged := parent.Merge(child)

	if diff := cmp.Diff([]string{"series", "scale", "color", "alias"}, merged.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
	want := map[string]any{"series": "a.b", "scale": 3, "color": "red", "alias": "Child"}
	if diff := cmp.Diff(want, merged.ToMap()); diff != "" {
		t.Errorf("ToMap() mismatch (-want +got):\n%s", diff)
	}

	// the receiver is untouched
	v, _ := parent.Get("scale")
	assert.Equal(t, 2, v)
	assert.Equal(t, 3, parent.Len())
}

func TestMetric_Clone(t *testing.T) {
	m := NewMetric("x")
	m.File = "g.yaml"
	m.Loc = SourceLocation{Line: 3, Column: 1}
	m.Set("series", "a")

	c := m.Clone()
	c.Set("scale", 2)

	assert.Equal(t, "g.yaml", c.File)
	assert.Equal(t, m.Loc, c.Loc)
	assert.False(t, m.Has("scale"))
}

func TestSourceLocation_IsZero(t *testing.T) {
	assert.True(t, SourceLocation{}.IsZero())
	assert.False(t, SourceLocation{Line: 1}.IsZero())
}

func TestTruthy(t *testing.T) {
	truthy := []any{true, 1, -1, 0.5, "1", "a", "0.0", " ", []any{0}, []string{""}, map[string]int{"a": 1}}
	for _, v := range truthy {
		assert.True(t, Truthy(v), "%#v", v)
	}

	falsy := []any{nil, false, 0, int64(0), 0.0, "", "0", []any{}, []string{}, map[string]int{}}
	for _, v := range falsy {
		assert.False(t, Truthy(v), "%#v", v)
	}
}

func TestArgs(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want []any
	}{
		{"nil", nil, []any{nil}},
		{"scalar", "a", []any{"a"}},
		{"number", 3, []any{3}},
		{"list", []any{1, "b"}, []any{1, "b"}},
		{"strings", []string{"a", "b"}, []any{"a", "b"}},
		{"ints", []int{1, 2}, []any{1, 2}},
		{"empty", []any{}, []any{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Args(tt.in)); diff != "" {
				t.Errorf("Args() mismatch (-want +got):\n%s", diff)
			}
		})
	}

	assert.True(t, IsScalar("a"))
	assert.True(t, IsScalar(3))
	assert.False(t, IsScalar(nil))
	assert.False(t, IsScalar([]string{"a"}))
}

func TestToString(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{true, "1"},
		{false, ""},
		{"x", "x"},
		{42, "42"},
		{int64(-7), "-7"},
		{1.5, "1.5"},
		{123.456, "123.456"},
		{2.0, "2"},
		{0.0001, "0.0001"},
		{1.0 / (1024 * 1024), "9.5367431640625E-07"},
		{1e15, "1E+15"},
		{float32(0.1), "0.1"},
		{float32(2.5), "2.5"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ToString(tt.in), "%#v", tt.in)
	}
}

func TestIsNumeric(t *testing.T) {
	numeric := []any{1, -2, 0.5, "1", " 2.5 ", "-3", "1e-1", "1E5", ".5"}
	for _, v := range numeric {
		assert.True(t, IsNumeric(v), "%#v", v)
	}

	notNumeric := []any{nil, true, "", "fruit", "0x1A", "Inf", "NaN", "1_000", []any{1}}
	for _, v := range notNumeric {
		assert.False(t, IsNumeric(v), "%#v", v)
	}

	f, ok := ToFloat("1e-1")
	assert.True(t, ok)
	assert.InDelta(t, 0.1, f, 1e-12)

	_, ok = ToFloat("fruit")
	assert.False(t, ok)
}
